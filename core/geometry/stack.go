package geometry

import (
	"github.com/safedep/timescope/core/scale"
	"github.com/safedep/timescope/core/timeline"
)

// Circle is one event marker.
type Circle struct {
	CX       float64
	CY       float64
	R        float64
	Column   int
	Severity timeline.Severity
}

// EventStack counts circles per pixel column and refuses to stack more than
// StackLimit in one column.
type EventStack struct {
	counts  map[int]int
	dropped int
}

// NewEventStack creates an empty stack.
func NewEventStack() *EventStack {
	return &EventStack{counts: make(map[int]int)}
}

// Push claims the next slot in column. It returns the 1-based level of the
// new circle, or false once the column is full.
func (s *EventStack) Push(column int) (int, bool) {
	if s.counts[column] >= StackLimit {
		s.dropped++
		return 0, false
	}
	s.counts[column]++
	return s.counts[column], true
}

// Count returns how many circles column holds.
func (s *EventStack) Count(column int) int {
	return s.counts[column]
}

// Dropped returns how many events were refused because their column was full.
func (s *EventStack) Dropped() int {
	return s.dropped
}

// Columns returns the number of columns holding at least one circle.
func (s *EventStack) Columns() int {
	return len(s.counts)
}

// PlaceCircles lays out event circles for all series in order, stacking
// upwards in each pixel column until the column is full.
func PlaceCircles(sc *scale.Time, series []timeline.Series, stack *EventStack) []Circle {
	var circles []Circle
	for _, s := range series {
		sev := s.Severity()
		for _, sample := range s.Data {
			cx := sc.Scale(sample.MillisTime())
			col := Column(cx)
			for k := 0; k < sample.Value; k++ {
				level, ok := stack.Push(col)
				if !ok {
					stack.dropped += sample.Value - k - 1
					break
				}
				circles = append(circles, Circle{
					CX:       cx,
					CY:       float64(level * StackSpacing),
					R:        CircleRadius,
					Column:   col,
					Severity: sev,
				})
			}
		}
	}
	return circles
}
