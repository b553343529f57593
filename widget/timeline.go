// Package widget implements the interactive timeline: an event-density chart
// with a draggable start-time slider and a scroll pin. The widget computes
// geometry and drives an abstract Canvas; selections are pushed to a
// StartTimeStore.
package widget

import (
	"context"
	"fmt"
	"time"

	"github.com/safedep/timescope/core/geometry"
	"github.com/safedep/timescope/core/scale"
	"github.com/safedep/timescope/core/timeline"
)

// Default glyph assets.
const (
	DefaultSliderHandleHref = "/assets/img/sliderHandle.svg"
	DefaultScrollPinHref    = "/assets/img/scrollPin.svg"
)

// PinTimeLayout renders the pin time the way a browser prints a Date.
const PinTimeLayout = "Mon Jan 02 2006 15:04:05 GMT-0700 (MST)"

// Options configures a Timeline.
type Options struct {
	Location         *time.Location
	SliderHandleHref string
	ScrollPinHref    string
	// SliderPosition seeds the slider from a previously committed start time.
	SliderPosition *time.Time
	// PinPosition seeds the pin.
	PinPosition *time.Time
	// TooltipWidth is the tooltip width in canvas units, geometry.TooltipWidth
	// when zero.
	TooltipWidth float64
}

// DragResult is the state after a drag event. StartTime is set when the
// event committed a new start time to the store.
type DragResult struct {
	HandleX   float64
	SliderX   float64
	PinX      float64
	StartTime *time.Time
}

// Timeline is one mounted timeline chart. It is not safe for concurrent use;
// the host serialises input events.
type Timeline struct {
	canvas Canvas
	store  StartTimeStore
	opts   Options

	metadata timeline.Metadata
	layout   geometry.Layout
	scale    *scale.Time
	stack    *geometry.EventStack
	circles  []geometry.Circle
	rendered bool

	// sliderX is the committed handle position, handleX follows the drag.
	sliderX    float64
	handleX    float64
	sliderTime time.Time
	hasSlider  bool

	pinX    float64
	pinTime time.Time

	tooltip *Tooltip
}

// New creates an uninitialized timeline drawing on canvas and committing
// start times to store.
func New(canvas Canvas, store StartTimeStore, opts Options) *Timeline {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.SliderHandleHref == "" {
		opts.SliderHandleHref = DefaultSliderHandleHref
	}
	if opts.ScrollPinHref == "" {
		opts.ScrollPinHref = DefaultScrollPinHref
	}

	w := &Timeline{
		canvas: canvas,
		store:  store,
		opts:   opts,
	}
	if opts.SliderPosition != nil {
		w.sliderTime = *opts.SliderPosition
		w.hasSlider = true
	}
	if opts.PinPosition != nil {
		w.pinTime = *opts.PinPosition
	}
	return w
}

// Initialize tears down any previous rendering and plots md for a container
// of the given width. It may be called any number of times. The returned
// error comes from the store when the first render bootstraps the start
// time; the chart is fully drawn regardless.
func (w *Timeline) Initialize(ctx context.Context, md *timeline.Metadata, containerWidth float64) error {
	w.layout = geometry.NewLayout(containerWidth)
	w.canvas.Reset(w.layout)

	if md != nil {
		w.metadata = *md
	} else {
		w.metadata = timeline.Metadata{}
	}
	w.stack = geometry.NewEventStack()
	w.circles = nil
	w.sliderX = 0
	w.handleX = 0
	w.pinX = 0
	w.tooltip = nil
	w.rendered = false

	return w.Plot(ctx)
}

// Plot builds the scale and draws circles, then the slider and pin on top.
func (w *Timeline) Plot(ctx context.Context) error {
	d0, d1 := w.metadata.QID.DomainMillis()
	w.scale = scale.NewTime(d0, d1, 0, w.layout.MaxRange).In(w.opts.Location)

	w.generateEventCircles()
	err := w.renderBrushAndSlider(ctx)
	w.rendered = true
	return err
}

func (w *Timeline) generateEventCircles() {
	w.circles = geometry.PlaceCircles(w.scale, w.metadata.QID.Series, w.stack)
	for _, c := range w.circles {
		w.canvas.DrawCircle(c)
	}
}

func (w *Timeline) renderBrushAndSlider(ctx context.Context) error {
	w.canvas.DrawAxis(Axis{
		Kind:          AxisBottom,
		Ticks:         w.ticks(true),
		RangeMax:      w.layout.MaxRange,
		TranslateX:    geometry.HandleWidth,
		TranslateY:    w.layout.Height - 20,
		InnerTickSize: -40,
		OuterTickSize: 0,
		TickPadding:   7,
	})

	var err error
	if !w.hasSlider {
		w.sliderTime = w.scale.InvertTime(0)
		w.hasSlider = true
		err = w.push(ctx, w.sliderTime)
	}

	x := w.scale.ScaleTime(w.sliderTime)
	if !w.layout.InRange(x) {
		x = 0
	}
	w.sliderX = x
	w.handleX = x
	w.canvas.DrawSlider(newSliderGlyph(x, w.opts.SliderHandleHref))

	w.canvas.DrawAxis(Axis{
		Kind:          AxisTop,
		Ticks:         w.ticks(false),
		RangeMax:      w.layout.MaxRange,
		OuterTickSize: 6,
		InnerTickSize: 6,
		TickPadding:   3,
	})

	px := w.handleX
	if !w.pinTime.IsZero() {
		px = geometry.Clamp(w.scale.ScaleTime(w.pinTime), w.handleX, w.layout.MaxRange)
	}
	w.pinX = px
	w.canvas.DrawPin(newPinGlyph(px, w.opts.ScrollPinHref))

	return err
}

func (w *Timeline) ticks(labelled bool) []Tick {
	times := w.scale.Ticks(scale.MaxTicks)
	ticks := make([]Tick, len(times))
	for i, t := range times {
		ticks[i] = Tick{X: w.scale.ScaleTime(t), Time: t}
		if labelled {
			ticks[i].Label = scale.TickFormat(t)
		}
	}
	return ticks
}

// OnDragMove handles a brush move to pixel px. The handle follows the
// clamped position and drags the pin along; nothing is committed.
func (w *Timeline) OnDragMove(px float64) DragResult {
	if !w.rendered {
		return DragResult{}
	}

	x := w.layout.ClampPixel(px)
	w.handleX = x
	w.canvas.MoveSlider(newSliderGlyph(x, w.opts.SliderHandleHref))
	w.followPin(x)

	return w.result(nil)
}

// OnDragEnd handles the brush release at pixel px and commits the clamped
// position as the new start time.
func (w *Timeline) OnDragEnd(ctx context.Context, px float64) (DragResult, error) {
	if !w.rendered {
		return DragResult{}, nil
	}

	x := w.layout.ClampPixel(px)
	w.handleX = x
	err := w.UpdateSlider(ctx, x)

	committed := w.sliderTime
	return w.result(&committed), err
}

// UpdateSlider clamps px to the slider limit, moves the handle there and
// pushes the matching start time to the store.
func (w *Timeline) UpdateSlider(ctx context.Context, px float64) error {
	if !w.rendered {
		return nil
	}

	x := geometry.Clamp(px, 0, w.layout.SliderLimit)
	w.sliderX = x
	w.handleX = x
	w.sliderTime = w.scale.InvertTime(x)
	w.canvas.MoveSlider(newSliderGlyph(x, w.opts.SliderHandleHref))
	w.followPin(x)

	return w.push(ctx, w.sliderTime)
}

// UpdatePin moves the pin to t. It returns false and leaves the pin alone
// when t falls outside the chart. The pin never sits left of the handle.
// Before the first render the time is kept for it.
func (w *Timeline) UpdatePin(t time.Time) bool {
	if !w.rendered {
		w.pinTime = t
		return false
	}

	px := w.scale.ScaleTime(t)
	if !w.layout.InRange(px) {
		return false
	}
	if px < w.handleX {
		px = w.handleX
	}

	w.pinTime = t
	w.pinX = px
	w.canvas.MovePin(newPinGlyph(px, w.opts.ScrollPinHref))
	return true
}

// followPin drags the pin along when the handle passes it.
func (w *Timeline) followPin(x float64) {
	if x <= w.pinX {
		return
	}
	w.pinTime = w.scale.InvertTime(x)
	w.pinX = x
	w.canvas.MovePin(newPinGlyph(x, w.opts.ScrollPinHref))
}

// OnPinHoverEnter shows the pin tooltip for a cursor at page coordinates
// (pageX, pageY).
func (w *Timeline) OnPinHoverEnter(pageX, pageY float64) Tooltip {
	if !w.rendered {
		return Tooltip{}
	}

	w.canvas.HideTooltip()

	tip := Tooltip{
		Text:    w.pinLabel(),
		Left:    pageX - w.layout.TooltipShift(w.pinX, w.opts.TooltipWidth),
		Top:     pageY - geometry.TooltipRaise,
		Opacity: 0.9,
	}
	w.tooltip = &tip
	w.canvas.ShowTooltip(tip)
	return tip
}

// OnPinHoverLeave destroys the pin tooltip.
func (w *Timeline) OnPinHoverLeave() {
	if !w.rendered {
		return
	}
	w.tooltip = nil
	w.canvas.HideTooltip()
}

// SetSliderPosition replaces the slider start time used by the next render,
// e.g. when the hosting store changed it.
func (w *Timeline) SetSliderPosition(t time.Time) {
	w.sliderTime = t
	w.hasSlider = true
}

func (w *Timeline) pinLabel() string {
	t := w.pinTime
	if t.IsZero() {
		t = w.scale.InvertTime(w.pinX)
	}
	return t.In(w.opts.Location).Format(PinTimeLayout)
}

func (w *Timeline) push(ctx context.Context, t time.Time) error {
	if w.store == nil {
		return nil
	}
	if err := w.store.UpdateStartTime(ctx, t); err != nil {
		return fmt.Errorf("failed to update start time: %w", err)
	}
	return nil
}

func (w *Timeline) result(startTime *time.Time) DragResult {
	return DragResult{
		HandleX:   w.handleX,
		SliderX:   w.sliderX,
		PinX:      w.pinX,
		StartTime: startTime,
	}
}

// Rendered reports whether the chart has been drawn.
func (w *Timeline) Rendered() bool { return w.rendered }

// Layout returns the current layout.
func (w *Timeline) Layout() geometry.Layout { return w.layout }

// Scale returns the current time scale, nil before the first render.
func (w *Timeline) Scale() *scale.Time { return w.scale }

// Metadata returns the plotted metadata.
func (w *Timeline) Metadata() timeline.Metadata { return w.metadata }

// Circles returns the event circles of the current render.
func (w *Timeline) Circles() []geometry.Circle { return w.circles }

// DroppedEvents returns the events not drawn because their column was full.
func (w *Timeline) DroppedEvents() int {
	if w.stack == nil {
		return 0
	}
	return w.stack.Dropped()
}

// SliderX returns the committed slider position.
func (w *Timeline) SliderX() float64 { return w.sliderX }

// HandleX returns the live handle position.
func (w *Timeline) HandleX() float64 { return w.handleX }

// SliderTime returns the committed start time.
func (w *Timeline) SliderTime() time.Time { return w.sliderTime }

// PinX returns the pin position.
func (w *Timeline) PinX() float64 { return w.pinX }

// PinTime returns the pin time.
func (w *Timeline) PinTime() time.Time { return w.pinTime }

// Tooltip returns the visible tooltip, if any.
func (w *Timeline) Tooltip() *Tooltip { return w.tooltip }
