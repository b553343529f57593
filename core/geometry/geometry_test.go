package geometry

import (
	"testing"

	"github.com/safedep/timescope/core/scale"
	"github.com/safedep/timescope/core/timeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLayout(t *testing.T) {
	l := NewLayout(1000)
	assert.Equal(t, float64(1000), l.Width)
	assert.Equal(t, float64(50), l.Height)
	assert.Equal(t, float64(988), l.MaxRange)
	assert.Equal(t, l.MaxRange, l.SliderLimit)

	narrow := NewLayout(5)
	assert.Equal(t, float64(0), narrow.MaxRange)
}

func TestLayout_ClampPixel(t *testing.T) {
	l := NewLayout(1000)
	tests := []struct {
		in   float64
		want float64
	}{
		{-50, 0},
		{0, 0},
		{12.5, 12.5},
		{988, 988},
		{5000, 988},
	}

	for _, tt := range tests {
		got := l.ClampPixel(tt.in)
		assert.Equal(t, tt.want, got)
		assert.True(t, l.InRange(got))
	}
	assert.False(t, l.InRange(-0.1))
	assert.False(t, l.InRange(988.1))
}

func TestSliderBarPath(t *testing.T) {
	assert.Equal(t, "M0,0V0H0V0", SliderBarPath(0))
	assert.Equal(t, "M0,0V0H120V0", SliderBarPath(120))
	assert.Equal(t, "M0,0V0H12.5V0", SliderBarPath(12.5))
	assert.Equal(t, "M0,0V0H1.333V0", SliderBarPath(4.0/3))
}

func TestPinOffsets(t *testing.T) {
	assert.Equal(t, float64(87), PinGlyphX(100))
	assert.Equal(t, float64(107), NeedleX(100))
}

func TestLayout_TooltipShift(t *testing.T) {
	l := NewLayout(1000)
	assert.Equal(t, float64(0), l.TooltipShift(100, 0))
	assert.Equal(t, float64(0), l.TooltipShift(738, 0))
	assert.Equal(t, float64(TooltipWidth), l.TooltipShift(739, 0))

	// terminal cells: a 41-cell tooltip on a 68-cell track
	term := NewLayout(80)
	assert.Equal(t, float64(0), term.TooltipShift(10, 41))
	assert.Equal(t, float64(0), term.TooltipShift(27, 41))
	assert.Equal(t, float64(41), term.TooltipShift(28, 41))
}

func TestEventStack_Push(t *testing.T) {
	s := NewEventStack()
	for i := 1; i <= StackLimit; i++ {
		level, ok := s.Push(3)
		require.True(t, ok)
		assert.Equal(t, i, level)
	}

	_, ok := s.Push(3)
	assert.False(t, ok)
	assert.Equal(t, StackLimit, s.Count(3))
	assert.Equal(t, 1, s.Dropped())

	level, ok := s.Push(4)
	assert.True(t, ok)
	assert.Equal(t, 1, level)
	assert.Equal(t, 2, s.Columns())
}

func TestPlaceCircles_Scenario(t *testing.T) {
	sc := scale.NewTime(1000000, 2000000, 0, 988)
	series := []timeline.Series{
		{MetricName: timeline.MetricLogError, Data: []timeline.Sample{{Time: 1500, Value: 3}}},
	}

	circles := PlaceCircles(sc, series, NewEventStack())
	require.Len(t, circles, 3)

	for i, c := range circles {
		assert.InDelta(t, sc.Scale(1500000), c.CX, 1e-9)
		assert.Equal(t, float64((i+1)*StackSpacing), c.CY)
		assert.Equal(t, float64(CircleRadius), c.R)
		assert.Equal(t, timeline.SeverityError, c.Severity)
		assert.Equal(t, 494, c.Column)
	}
}

func TestPlaceCircles_CapsColumn(t *testing.T) {
	sc := scale.NewTime(1000000, 2000000, 0, 988)
	series := []timeline.Series{
		{MetricName: "a", Data: []timeline.Sample{{Time: 1500, Value: 10}}},
		{MetricName: timeline.MetricLogWarn, Data: []timeline.Sample{{Time: 1500, Value: 10}}},
		{MetricName: timeline.MetricLogError, Data: []timeline.Sample{{Time: 1500, Value: 10}}},
	}

	stack := NewEventStack()
	circles := PlaceCircles(sc, series, stack)

	assert.Len(t, circles, StackLimit)
	assert.Equal(t, 25, stack.Dropped())
	for _, c := range circles {
		assert.Equal(t, timeline.SeverityOther, c.Severity)
		assert.LessOrEqual(t, c.CY, float64(StackLimit*StackSpacing))
	}
}

func TestPlaceCircles_SeparateColumns(t *testing.T) {
	sc := scale.NewTime(1000000, 2000000, 0, 988)
	series := []timeline.Series{
		{MetricName: "a", Data: []timeline.Sample{{Time: 1100, Value: 2}, {Time: 1900, Value: 7}}},
	}

	stack := NewEventStack()
	circles := PlaceCircles(sc, series, stack)

	assert.Len(t, circles, 7)
	assert.Equal(t, 2, stack.Columns())
	assert.Equal(t, 2, stack.Dropped())
}

func TestPlaceCircles_Empty(t *testing.T) {
	sc := scale.NewTime(1000000, 2000000, 0, 988)
	assert.Empty(t, PlaceCircles(sc, nil, NewEventStack()))
	assert.Empty(t, PlaceCircles(sc, []timeline.Series{{MetricName: "a"}}, NewEventStack()))
	assert.Empty(t, PlaceCircles(sc, []timeline.Series{{MetricName: "a", Data: []timeline.Sample{{Time: 1200, Value: 0}}}}, NewEventStack()))
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "0", FormatNumber(0))
	assert.Equal(t, "-13", FormatNumber(-13))
	assert.Equal(t, "494", FormatNumber(494))
	assert.Equal(t, "0.5", FormatNumber(0.5))
	assert.Equal(t, "2.667", FormatNumber(8.0/3))
	assert.Equal(t, "3", FormatNumber(3.0000001))
}
