package widget

import (
	"context"
	"time"

	"github.com/safedep/timescope/core/geometry"
)

// Canvas is the drawing surface driven by a Timeline. A canvas owns two
// surfaces: the main chart and the top bar holding the pin.
type Canvas interface {
	// Reset removes everything previously drawn on both surfaces and
	// prepares empty ones for the given layout.
	Reset(layout geometry.Layout)

	// DrawAxis draws a time axis.
	DrawAxis(axis Axis)

	// DrawCircle draws one event marker on the chart.
	DrawCircle(c geometry.Circle)

	// DrawSlider creates the slider handle and its filled bar.
	DrawSlider(s SliderGlyph)

	// MoveSlider moves the existing handle and filled bar.
	MoveSlider(s SliderGlyph)

	// DrawPin creates the pin glyph and its needle.
	DrawPin(p PinGlyph)

	// MovePin moves the existing pin glyph and needle.
	MovePin(p PinGlyph)

	// ShowTooltip creates the pin tooltip.
	ShowTooltip(tip Tooltip)

	// HideTooltip destroys any pin tooltip.
	HideTooltip()
}

// StartTimeStore receives the start time selected with the slider.
type StartTimeStore interface {
	UpdateStartTime(ctx context.Context, t time.Time) error
}

// AxisKind identifies which axis is drawn.
type AxisKind int

const (
	// AxisBottom is the labelled axis under the event circles.
	AxisBottom AxisKind = iota
	// AxisTop is the unlabelled axis in the top bar that carries the pin.
	AxisTop
)

// Tick is a labelled position on an axis.
type Tick struct {
	X     float64
	Time  time.Time
	Label string
}

// Axis describes a time axis to draw.
type Axis struct {
	Kind          AxisKind
	Ticks         []Tick
	RangeMax      float64
	TranslateX    float64
	TranslateY    float64
	InnerTickSize float64
	OuterTickSize float64
	TickPadding   float64
}

// SliderGlyph is the slider handle with its filled bar.
type SliderGlyph struct {
	X       float64
	BarPath string
	Href    string
}

// PinGlyph is the scroll pin with its needle.
type PinGlyph struct {
	X       float64
	GlyphX  float64
	NeedleX float64
	Href    string
}

// Tooltip is the hover label of the pin.
type Tooltip struct {
	Text    string
	Left    float64
	Top     float64
	Opacity float64
}

func newSliderGlyph(x float64, href string) SliderGlyph {
	return SliderGlyph{X: x, BarPath: geometry.SliderBarPath(x), Href: href}
}

func newPinGlyph(x float64, href string) PinGlyph {
	return PinGlyph{X: x, GlyphX: geometry.PinGlyphX(x), NeedleX: geometry.NeedleX(x), Href: href}
}
