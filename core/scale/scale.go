// Package scale maps timestamps to pixel positions and back.
package scale

import (
	"math"
	"time"
)

// Time is a linear, invertible mapping from a millisecond time domain
// to a pixel range.
type Time struct {
	d0, d1 float64
	r0, r1 float64
	loc    *time.Location
}

// NewTime creates a time scale from the millisecond domain [d0, d1] to the
// pixel range [r0, r1]. Ticks and labels use the local time zone.
func NewTime(d0, d1, r0, r1 float64) *Time {
	return &Time{d0: d0, d1: d1, r0: r0, r1: r1, loc: time.Local}
}

// In returns a copy of the scale that lays out ticks in loc.
func (s *Time) In(loc *time.Location) *Time {
	c := *s
	if loc != nil {
		c.loc = loc
	}
	return &c
}

// Location returns the time zone used for ticks and labels.
func (s *Time) Location() *time.Location {
	return s.loc
}

// Domain returns the millisecond domain.
func (s *Time) Domain() (float64, float64) {
	return s.d0, s.d1
}

// Range returns the pixel range.
func (s *Time) Range() (float64, float64) {
	return s.r0, s.r1
}

// Scale maps a millisecond timestamp to a pixel. A degenerate domain maps
// everything to the start of the range.
func (s *Time) Scale(ms float64) float64 {
	if s.d1 == s.d0 {
		return s.r0
	}
	return s.r0 + (ms-s.d0)/(s.d1-s.d0)*(s.r1-s.r0)
}

// Invert maps a pixel back to a millisecond timestamp.
func (s *Time) Invert(px float64) float64 {
	if s.r1 == s.r0 {
		return s.d0
	}
	return s.d0 + (px-s.r0)/(s.r1-s.r0)*(s.d1-s.d0)
}

// ScaleTime maps a time to a pixel.
func (s *Time) ScaleTime(t time.Time) float64 {
	return s.Scale(float64(t.UnixMilli()))
}

// InvertTime maps a pixel back to a time, rounded to the millisecond.
func (s *Time) InvertTime(px float64) time.Time {
	return time.UnixMilli(int64(math.Round(s.Invert(px)))).In(s.loc)
}

// DomainTimes returns the domain bounds as times.
func (s *Time) DomainTimes() (time.Time, time.Time) {
	return time.UnixMilli(int64(s.d0)).In(s.loc), time.UnixMilli(int64(s.d1)).In(s.loc)
}
