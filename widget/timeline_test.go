package widget

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/safedep/timescope/core/geometry"
	"github.com/safedep/timescope/core/timeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingCanvas struct {
	resets   int
	axes     []Axis
	circles  []geometry.Circle
	slider   *SliderGlyph
	moves    []SliderGlyph
	pin      *PinGlyph
	pinMoves []PinGlyph
	tooltip  *Tooltip
}

func (c *recordingCanvas) Reset(geometry.Layout) {
	*c = recordingCanvas{resets: c.resets + 1}
}

func (c *recordingCanvas) DrawAxis(axis Axis)              { c.axes = append(c.axes, axis) }
func (c *recordingCanvas) DrawCircle(circ geometry.Circle) { c.circles = append(c.circles, circ) }
func (c *recordingCanvas) DrawSlider(s SliderGlyph)        { c.slider = &s }
func (c *recordingCanvas) DrawPin(p PinGlyph)              { c.pin = &p }
func (c *recordingCanvas) ShowTooltip(tip Tooltip)         { c.tooltip = &tip }
func (c *recordingCanvas) HideTooltip()                    { c.tooltip = nil }

func (c *recordingCanvas) MoveSlider(s SliderGlyph) {
	c.moves = append(c.moves, s)
	c.slider = &s
}

func (c *recordingCanvas) MovePin(p PinGlyph) {
	c.pinMoves = append(c.pinMoves, p)
	c.pin = &p
}

type recordingStore struct {
	updates []time.Time
	err     error
}

func (s *recordingStore) UpdateStartTime(_ context.Context, t time.Time) error {
	s.updates = append(s.updates, t)
	return s.err
}

func scenarioMetadata() *timeline.Metadata {
	return &timeline.Metadata{QID: timeline.Range{
		StartTime: 1000,
		EndTime:   2000,
		Series: []timeline.Series{
			{MetricName: timeline.MetricLogError, Data: []timeline.Sample{{Time: 1500, Value: 3}}},
		},
	}}
}

func newTestTimeline(t *testing.T, opts Options) (*Timeline, *recordingCanvas, *recordingStore) {
	t.Helper()

	canvas := &recordingCanvas{}
	store := &recordingStore{}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	w := New(canvas, store, opts)
	require.NoError(t, w.Initialize(context.Background(), scenarioMetadata(), 1000))

	return w, canvas, store
}

func TestTimeline_InitializeScenario(t *testing.T) {
	w, canvas, store := newTestTimeline(t, Options{})

	d0, d1 := w.Scale().Domain()
	assert.Equal(t, float64(1000000), d0)
	assert.Equal(t, float64(2000000), d1)
	assert.Equal(t, float64(988), w.Layout().MaxRange)

	require.Len(t, canvas.circles, 3)
	for i, c := range canvas.circles {
		assert.InDelta(t, w.Scale().Scale(1500000), c.CX, 1e-9)
		assert.Equal(t, float64(7*(i+1)), c.CY)
		assert.Equal(t, timeline.SeverityError, c.Severity)
	}

	require.Len(t, store.updates, 1)
	assert.Equal(t, w.Scale().InvertTime(0), store.updates[0])
	assert.Equal(t, int64(1000000), store.updates[0].UnixMilli())

	require.NotNil(t, canvas.slider)
	assert.Equal(t, float64(0), canvas.slider.X)
	assert.Equal(t, "M0,0V0H0V0", canvas.slider.BarPath)
	assert.Equal(t, DefaultSliderHandleHref, canvas.slider.Href)

	require.NotNil(t, canvas.pin)
	assert.Equal(t, float64(0), canvas.pin.X)
	assert.Equal(t, DefaultScrollPinHref, canvas.pin.Href)

	require.Len(t, canvas.axes, 2)
	bottom := canvas.axes[0]
	assert.Equal(t, AxisBottom, bottom.Kind)
	assert.Equal(t, float64(geometry.HandleWidth), bottom.TranslateX)
	assert.Equal(t, float64(30), bottom.TranslateY)
	assert.Equal(t, float64(-40), bottom.InnerTickSize)
	assert.LessOrEqual(t, len(bottom.Ticks), 8)
	assert.NotEmpty(t, bottom.Ticks)
	for _, tick := range bottom.Ticks {
		assert.NotEmpty(t, tick.Label)
	}
	assert.Equal(t, AxisTop, canvas.axes[1].Kind)
	for _, tick := range canvas.axes[1].Ticks {
		assert.Empty(t, tick.Label)
	}
	assert.True(t, w.Rendered())
}

func TestTimeline_CirclesDrawnBeforeSlider(t *testing.T) {
	canvas := &orderCanvas{}
	w := New(canvas, nil, Options{Location: time.UTC})
	require.NoError(t, w.Initialize(context.Background(), scenarioMetadata(), 1000))

	require.NotEmpty(t, canvas.calls)
	assert.Equal(t, "reset", canvas.calls[0])
	lastCircle, firstSlider := -1, -1
	for i, call := range canvas.calls {
		if call == "circle" {
			lastCircle = i
		}
		if call == "slider" && firstSlider < 0 {
			firstSlider = i
		}
	}
	assert.Less(t, lastCircle, firstSlider)
}

func TestTimeline_ReinitializeDoesNotBootstrapAgain(t *testing.T) {
	w, canvas, store := newTestTimeline(t, Options{})

	require.NoError(t, w.Initialize(context.Background(), scenarioMetadata(), 1000))
	require.NoError(t, w.Initialize(context.Background(), scenarioMetadata(), 500))

	assert.Len(t, store.updates, 1)
	assert.Equal(t, 3, canvas.resets)
	assert.Len(t, canvas.circles, 3)
	assert.Equal(t, float64(488), w.Layout().MaxRange)
}

func TestTimeline_SeededSliderSkipsBootstrap(t *testing.T) {
	seed := time.UnixMilli(1250000)
	w, canvas, store := newTestTimeline(t, Options{SliderPosition: &seed})

	assert.Empty(t, store.updates)
	assert.InDelta(t, 247, w.SliderX(), 1e-9)
	assert.InDelta(t, 247, canvas.slider.X, 1e-9)
}

func TestTimeline_SeededSliderOutsideDomainDrawsAtZero(t *testing.T) {
	seed := time.UnixMilli(99000000)
	w, canvas, store := newTestTimeline(t, Options{SliderPosition: &seed})

	assert.Empty(t, store.updates)
	assert.Equal(t, float64(0), w.SliderX())
	assert.Equal(t, float64(0), canvas.slider.X)
}

func TestTimeline_DragMoveClampsAndDoesNotCommit(t *testing.T) {
	w, canvas, store := newTestTimeline(t, Options{})

	tests := []struct {
		px   float64
		want float64
	}{
		{-100, 0},
		{300, 300},
		{2000, 988},
	}

	for _, tt := range tests {
		res := w.OnDragMove(tt.px)
		assert.Equal(t, tt.want, res.HandleX)
		assert.Nil(t, res.StartTime)
		assert.Equal(t, tt.want, canvas.slider.X)
	}

	assert.Len(t, store.updates, 1, "only the bootstrap update")
	assert.Equal(t, float64(0), w.SliderX())
}

func TestTimeline_DragEndCommits(t *testing.T) {
	w, canvas, store := newTestTimeline(t, Options{})

	res, err := w.OnDragEnd(context.Background(), 494)
	require.NoError(t, err)

	require.NotNil(t, res.StartTime)
	assert.Equal(t, int64(1500000), res.StartTime.UnixMilli())
	assert.Equal(t, float64(494), res.SliderX)
	assert.Equal(t, float64(494), w.SliderX())
	assert.Equal(t, "M0,0V0H494V0", canvas.slider.BarPath)

	require.Len(t, store.updates, 2)
	assert.Equal(t, int64(1500000), store.updates[1].UnixMilli())
}

func TestTimeline_DragEndClampsCommittedValue(t *testing.T) {
	for _, px := range []float64{-1e9, -1, 0, 0.5, 987.9, 988, 988.1, 1e9} {
		w, _, store := newTestTimeline(t, Options{})

		res, err := w.OnDragEnd(context.Background(), px)
		require.NoError(t, err)

		assert.GreaterOrEqual(t, res.SliderX, float64(0))
		assert.LessOrEqual(t, res.SliderX, w.Layout().MaxRange)
		last := store.updates[len(store.updates)-1]
		assert.False(t, last.Before(time.UnixMilli(1000000)))
		assert.False(t, last.After(time.UnixMilli(2000000)))
	}
}

func TestTimeline_PinFollowsSlider(t *testing.T) {
	w, canvas, _ := newTestTimeline(t, Options{})

	require.True(t, w.UpdatePin(time.UnixMilli(1200000)))
	pinBefore := w.PinX()
	assert.InDelta(t, 197.6, pinBefore, 1e-9)

	w.OnDragMove(100)
	assert.Equal(t, pinBefore, w.PinX(), "pin stays when slider is left of it")

	w.OnDragMove(600)
	assert.Equal(t, float64(600), w.PinX())
	assert.Equal(t, float64(600), canvas.pin.X)
	assert.Equal(t, geometry.PinGlyphX(600), canvas.pin.GlyphX)
	assert.Equal(t, geometry.NeedleX(600), canvas.pin.NeedleX)

	_, err := w.OnDragEnd(context.Background(), 800)
	require.NoError(t, err)
	assert.Equal(t, float64(800), w.PinX())
}

func TestTimeline_UpdatePin(t *testing.T) {
	w, canvas, store := newTestTimeline(t, Options{})
	_, err := w.OnDragEnd(context.Background(), 400)
	require.NoError(t, err)
	updates := len(store.updates)

	t.Run("outside domain is a no-op", func(t *testing.T) {
		before := w.PinX()
		moves := len(canvas.pinMoves)
		assert.False(t, w.UpdatePin(time.UnixMilli(500000)))
		assert.False(t, w.UpdatePin(time.UnixMilli(2500000)))
		assert.Equal(t, before, w.PinX())
		assert.Len(t, canvas.pinMoves, moves)
	})

	t.Run("left of slider clamps to slider", func(t *testing.T) {
		assert.True(t, w.UpdatePin(time.UnixMilli(1100000)))
		assert.Equal(t, float64(400), w.PinX())
	})

	t.Run("right of slider moves freely", func(t *testing.T) {
		assert.True(t, w.UpdatePin(time.UnixMilli(1900000)))
		assert.InDelta(t, 889.2, w.PinX(), 1e-9)
		assert.InDelta(t, 889.2, canvas.pin.X, 1e-9)
	})

	assert.Len(t, store.updates, updates, "pin never writes the store")
}

func TestTimeline_PinNeverLeftOfSlider(t *testing.T) {
	w, _, _ := newTestTimeline(t, Options{})
	ctx := context.Background()

	steps := []func(){
		func() { w.OnDragMove(250) },
		func() { w.UpdatePin(time.UnixMilli(1100000)) },
		func() { _, _ = w.OnDragEnd(ctx, 700) },
		func() { w.UpdatePin(time.UnixMilli(1300000)) },
		func() { w.OnDragMove(-20) },
		func() { w.UpdatePin(time.UnixMilli(1050000)) },
		func() { _ = w.UpdateSlider(ctx, 5000) },
		func() { w.UpdatePin(time.UnixMilli(1999000)) },
	}

	for i, step := range steps {
		step()
		assert.GreaterOrEqual(t, w.PinX(), w.HandleX(), "step %d", i)
	}
}

func TestTimeline_UpdateSliderClampsToLimit(t *testing.T) {
	w, canvas, store := newTestTimeline(t, Options{})

	require.NoError(t, w.UpdateSlider(context.Background(), 1500))
	assert.Equal(t, float64(988), w.SliderX())
	assert.Equal(t, float64(988), canvas.slider.X)
	assert.Equal(t, int64(2000000), store.updates[len(store.updates)-1].UnixMilli())
	assert.Equal(t, int64(2000000), w.SliderTime().UnixMilli())
}

func TestTimeline_StoreErrorIsReturned(t *testing.T) {
	canvas := &recordingCanvas{}
	store := &recordingStore{err: errors.New("disk full")}
	w := New(canvas, store, Options{Location: time.UTC})

	err := w.Initialize(context.Background(), scenarioMetadata(), 1000)
	assert.ErrorContains(t, err, "disk full")
	assert.True(t, w.Rendered())
	assert.Len(t, canvas.circles, 3)

	_, err = w.OnDragEnd(context.Background(), 10)
	assert.ErrorContains(t, err, "failed to update start time")
	assert.Equal(t, float64(10), w.SliderX())
}

func TestTimeline_PinHover(t *testing.T) {
	w, canvas, _ := newTestTimeline(t, Options{})

	require.True(t, w.UpdatePin(time.UnixMilli(1100000)))
	tip := w.OnPinHoverEnter(300, 100)
	assert.Equal(t, float64(300), tip.Left)
	assert.Equal(t, float64(72), tip.Top)
	assert.Equal(t, 0.9, tip.Opacity)
	assert.Equal(t, "Thu Jan 01 1970 00:18:20 GMT+0000 (UTC)", tip.Text)
	require.NotNil(t, canvas.tooltip)
	assert.NotNil(t, w.Tooltip())

	w.OnPinHoverLeave()
	assert.Nil(t, canvas.tooltip)
	assert.Nil(t, w.Tooltip())

	require.True(t, w.UpdatePin(time.UnixMilli(1900000)))
	tip = w.OnPinHoverEnter(900, 100)
	assert.Equal(t, float64(900-geometry.TooltipWidth), tip.Left)
}

func TestTimeline_PinHoverCustomTooltipWidth(t *testing.T) {
	canvas := &recordingCanvas{}
	w := New(canvas, &recordingStore{}, Options{Location: time.UTC, TooltipWidth: 40})
	require.NoError(t, w.Initialize(context.Background(), scenarioMetadata(), 1000))

	require.True(t, w.UpdatePin(time.UnixMilli(1900000)))
	tip := w.OnPinHoverEnter(900, 100)
	assert.Equal(t, float64(900), tip.Left, "a narrow tooltip fits left of the edge")

	require.True(t, w.UpdatePin(time.UnixMilli(1980000)))
	tip = w.OnPinHoverEnter(970, 100)
	assert.Equal(t, float64(930), tip.Left)
}

func TestTimeline_EmptySeriesRendersAxisOnly(t *testing.T) {
	canvas := &recordingCanvas{}
	store := &recordingStore{}
	w := New(canvas, store, Options{Location: time.UTC})

	md := &timeline.Metadata{QID: timeline.Range{StartTime: 1000, EndTime: 2000}}
	require.NoError(t, w.Initialize(context.Background(), md, 1000))

	assert.Empty(t, canvas.circles)
	assert.Len(t, canvas.axes, 2)
	assert.NotNil(t, canvas.slider)
	assert.Len(t, store.updates, 1)

	require.NoError(t, w.Initialize(context.Background(), nil, 1000))
	assert.Empty(t, canvas.circles)
	assert.Equal(t, 0, w.DroppedEvents())
}

func TestTimeline_DensityCap(t *testing.T) {
	canvas := &recordingCanvas{}
	w := New(canvas, nil, Options{Location: time.UTC})

	md := &timeline.Metadata{QID: timeline.Range{StartTime: 1000, EndTime: 2000, Series: []timeline.Series{
		{MetricName: "a", Data: []timeline.Sample{{Time: 1500, Value: 10}}},
		{MetricName: "b", Data: []timeline.Sample{{Time: 1500, Value: 10}}},
		{MetricName: "c", Data: []timeline.Sample{{Time: 1500, Value: 10}}},
	}}}
	require.NoError(t, w.Initialize(context.Background(), md, 1000))

	assert.Len(t, canvas.circles, 5)
	assert.Equal(t, 25, w.DroppedEvents())
}

func TestTimeline_InteractionsBeforeRenderAreIgnored(t *testing.T) {
	canvas := &recordingCanvas{}
	store := &recordingStore{}
	w := New(canvas, store, Options{Location: time.UTC})

	assert.Equal(t, DragResult{}, w.OnDragMove(10))
	res, err := w.OnDragEnd(context.Background(), 10)
	assert.NoError(t, err)
	assert.Equal(t, DragResult{}, res)
	assert.NoError(t, w.UpdateSlider(context.Background(), 10))
	assert.Empty(t, store.updates)

	assert.Equal(t, Tooltip{}, w.OnPinHoverEnter(10, 10))
	assert.Nil(t, w.Tooltip())
	assert.Nil(t, canvas.tooltip)
	w.OnPinHoverLeave()

	assert.False(t, w.UpdatePin(time.UnixMilli(1500000)))
	require.NoError(t, w.Initialize(context.Background(), scenarioMetadata(), 1000))
	assert.Equal(t, float64(494), w.PinX(), "pin time set before render is used by it")
}

type orderCanvas struct {
	calls []string
}

func (c *orderCanvas) Reset(geometry.Layout)      { c.calls = append(c.calls, "reset") }
func (c *orderCanvas) DrawAxis(Axis)              { c.calls = append(c.calls, "axis") }
func (c *orderCanvas) DrawCircle(geometry.Circle) { c.calls = append(c.calls, "circle") }
func (c *orderCanvas) DrawSlider(SliderGlyph)     { c.calls = append(c.calls, "slider") }
func (c *orderCanvas) MoveSlider(SliderGlyph)     { c.calls = append(c.calls, "move_slider") }
func (c *orderCanvas) DrawPin(PinGlyph)           { c.calls = append(c.calls, "pin") }
func (c *orderCanvas) MovePin(PinGlyph)           { c.calls = append(c.calls, "move_pin") }
func (c *orderCanvas) ShowTooltip(Tooltip)        { c.calls = append(c.calls, "tooltip") }
func (c *orderCanvas) HideTooltip()               { c.calls = append(c.calls, "hide_tooltip") }
