package scale

import (
	"fmt"
	"time"
)

// MaxTicks is the most tick labels an axis shows.
const MaxTicks = 8

// interval is one rung of the tick ladder. floor aligns a time down to the
// interval, next advances an aligned time by one step.
type interval struct {
	approx time.Duration
	floor  func(time.Time) time.Time
	next   func(time.Time) time.Time
}

func fixedInterval(d time.Duration) interval {
	return interval{
		approx: d,
		floor: func(t time.Time) time.Time {
			ms := t.UnixMilli()
			step := d.Milliseconds()
			floored := ms - mod(ms, step)
			return time.UnixMilli(floored).In(t.Location())
		},
		next: func(t time.Time) time.Time { return t.Add(d) },
	}
}

func hourInterval(k int) interval {
	floor := func(t time.Time) time.Time {
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour()-t.Hour()%k, 0, 0, 0, t.Location())
	}
	return interval{
		approx: time.Duration(k) * time.Hour,
		floor:  floor,
		next: func(t time.Time) time.Time {
			n := floor(t.Add(time.Duration(k) * time.Hour))
			if !n.After(t) {
				n = t.Add(time.Duration(k) * time.Hour)
			}
			return n
		},
	}
}

func dayInterval(k int) interval {
	floor := func(t time.Time) time.Time {
		d := t.Day() - (t.Day()-1)%k
		return time.Date(t.Year(), t.Month(), d, 0, 0, 0, 0, t.Location())
	}
	return interval{
		approx: time.Duration(k) * 24 * time.Hour,
		floor:  floor,
		next: func(t time.Time) time.Time {
			n := time.Date(t.Year(), t.Month(), t.Day()+k, 0, 0, 0, 0, t.Location())
			if n.Month() != t.Month() {
				return time.Date(n.Year(), n.Month(), 1, 0, 0, 0, 0, t.Location())
			}
			return n
		},
	}
}

func weekInterval() interval {
	return interval{
		approx: 7 * 24 * time.Hour,
		floor: func(t time.Time) time.Time {
			return time.Date(t.Year(), t.Month(), t.Day()-int(t.Weekday()), 0, 0, 0, 0, t.Location())
		},
		next: func(t time.Time) time.Time {
			return time.Date(t.Year(), t.Month(), t.Day()+7, 0, 0, 0, 0, t.Location())
		},
	}
}

func monthInterval(k int) interval {
	return interval{
		approx: time.Duration(k) * 30 * 24 * time.Hour,
		floor: func(t time.Time) time.Time {
			m := int(t.Month()) - 1
			return time.Date(t.Year(), time.Month(m-m%k+1), 1, 0, 0, 0, 0, t.Location())
		},
		next: func(t time.Time) time.Time {
			return time.Date(t.Year(), t.Month()+time.Month(k), 1, 0, 0, 0, 0, t.Location())
		},
	}
}

func yearInterval(k int) interval {
	return interval{
		approx: time.Duration(k) * 365 * 24 * time.Hour,
		floor: func(t time.Time) time.Time {
			return time.Date(t.Year()-int(mod(int64(t.Year()), int64(k))), time.January, 1, 0, 0, 0, 0, t.Location())
		},
		next: func(t time.Time) time.Time {
			return time.Date(t.Year()+k, time.January, 1, 0, 0, 0, 0, t.Location())
		},
	}
}

// ladder is ordered from the finest to the coarsest interval.
var ladder = buildLadder()

func buildLadder() []interval {
	var l []interval
	for _, ms := range []int{1, 2, 5, 10, 20, 50, 100, 200, 500} {
		l = append(l, fixedInterval(time.Duration(ms)*time.Millisecond))
	}
	for _, s := range []int{1, 5, 15, 30} {
		l = append(l, fixedInterval(time.Duration(s)*time.Second))
	}
	for _, m := range []int{1, 5, 15, 30} {
		l = append(l, fixedInterval(time.Duration(m)*time.Minute))
	}
	for _, h := range []int{1, 3, 6, 12} {
		l = append(l, hourInterval(h))
	}
	l = append(l, dayInterval(1), dayInterval(2), weekInterval(), monthInterval(1), monthInterval(3))
	for _, y := range []int{1, 2, 5, 10, 20, 50, 100, 200, 500, 1000} {
		l = append(l, yearInterval(y))
	}
	return l
}

// Ticks returns at most count tick times inside the domain, using the finest
// interval of the ladder that stays within count.
func (s *Time) Ticks(count int) []time.Time {
	if count <= 0 {
		return nil
	}

	start, end := s.DomainTimes()
	if end.Before(start) {
		start, end = end, start
	}
	span := end.Sub(start)

	for _, iv := range ladder {
		if span/iv.approx > time.Duration(2*count+2) {
			continue
		}
		ticks := iv.generate(start, end, count+1)
		if len(ticks) <= count {
			return ticks
		}
	}

	return []time.Time{start}
}

func (iv interval) generate(start, end time.Time, limit int) []time.Time {
	var ticks []time.Time
	t := iv.floor(start)
	if t.Before(start) {
		t = iv.next(t)
	}
	for !t.After(end) {
		ticks = append(ticks, t)
		if len(ticks) >= limit {
			break
		}
		t = iv.next(t)
	}
	return ticks
}

// TickFormat renders a tick label with the finest unit that is non-zero
// at t: milliseconds, seconds, minutes, hours, weekday and day, month and
// day, month, then year.
func TickFormat(t time.Time) string {
	switch {
	case t.Nanosecond()/int(time.Millisecond) != 0:
		return fmt.Sprintf(".%03d", t.Nanosecond()/int(time.Millisecond))
	case t.Second() != 0:
		return fmt.Sprintf(":%02d", t.Second())
	case t.Minute() != 0:
		return t.Format("15:04")
	case t.Hour() != 0:
		return t.Format("15:04")
	case t.Weekday() != time.Sunday && t.Day() != 1:
		return t.Format("Mon 02")
	case t.Day() != 1:
		return t.Format("Jan 02")
	case t.Month() != time.January:
		return t.Format("January")
	default:
		return t.Format("2006")
	}
}

// mod is a floored modulo so negative epochs align the same way.
func mod(a, b int64) int64 {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}
