// Package geometry holds the pure layout math of the timeline chart:
// chart dimensions, clamping, circle stacking and glyph offsets.
package geometry

import (
	"fmt"
	"math"
	"strings"
)

// Chart dimensions in pixels.
const (
	ChartHeight   = 50
	TopBarHeight  = 20
	PaddingLeft   = 15
	PaddingRight  = 15
	HandleWidth   = 8
	HandleHeight  = 52
	PinOffset     = 13
	PinWidth      = 40
	PinHeight     = 60
	TrackHeight   = 15
	TooltipWidth  = 250
	TooltipRaise  = 28
	CircleRadius  = 2
	StackLimit    = 5
	StackSpacing  = 7
	controlsWidth = 12 // handle plus needle
)

// Layout is the set of dimensions derived from the container width.
type Layout struct {
	Width       float64
	Height      float64
	MaxRange    float64
	SliderLimit float64
}

// NewLayout derives the chart layout for a container of the given width.
// Widths narrower than the control glyphs produce an empty pixel range.
func NewLayout(containerWidth float64) Layout {
	maxRange := containerWidth - controlsWidth
	if maxRange < 0 {
		maxRange = 0
	}
	return Layout{
		Width:       containerWidth,
		Height:      ChartHeight,
		MaxRange:    maxRange,
		SliderLimit: maxRange,
	}
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampPixel limits a drag position to the slider track.
func (l Layout) ClampPixel(px float64) float64 {
	return Clamp(px, 0, l.MaxRange)
}

// InRange reports whether px lies on the track.
func (l Layout) InRange(px float64) bool {
	return px >= 0 && px <= l.MaxRange
}

// SliderBarPath is the path of the filled bar left of the slider handle.
func SliderBarPath(x float64) string {
	return fmt.Sprintf("M0,0V0H%sV0", FormatNumber(x))
}

// PinGlyphX is the x position of the pin image for a pin at px.
func PinGlyphX(px float64) float64 {
	return px - PinOffset
}

// NeedleX is the x position of the needle line for a pin at px.
func NeedleX(px float64) float64 {
	return px + PinOffset - 6
}

// TooltipShift is how far a tooltip of the given width is moved left so it
// stays inside the chart when the pin sits near the right edge. A width of
// zero means TooltipWidth.
func (l Layout) TooltipShift(pinPx, width float64) float64 {
	if width <= 0 {
		width = TooltipWidth
	}
	if pinPx+width > l.MaxRange {
		return width
	}
	return 0
}

// Column is the pixel column a position buckets into.
func Column(px float64) int {
	return int(math.Floor(px))
}

// FormatNumber renders a coordinate the way it appears in markup: integers
// without a fraction, everything else with at most three decimals.
func FormatNumber(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%d", int64(v))
	}
	s := fmt.Sprintf("%.3f", v)
	return strings.TrimSuffix(strings.TrimRight(s, "0"), ".")
}
