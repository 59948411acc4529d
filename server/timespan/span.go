// Package timespan provides arithmetic on contiguous time ranges.
//
// A Span is an availability window with inclusive bounds: two spans that
// merely touch at an endpoint are considered overlapping, so inserting
// adjacent windows collapses them into one.
package timespan

import "time"

// Span is a contiguous time range. Invariant: Start < End.
type Span struct {
	Start time.Time
	End   time.Time
}

// New creates a span from start and end times.
func New(start, end time.Time) Span {
	return Span{Start: start, End: end}
}

// IsValid reports whether the span has a positive duration.
func (s Span) IsValid() bool {
	return s.Start.Before(s.End)
}

// Duration returns the length of the span.
func (s Span) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

// within reports whether t falls inside [start, end], bounds included.
func within(t, start, end time.Time) bool {
	return !t.Before(start) && !t.After(end)
}

// Overlaps reports whether a and b overlap. Bounds are inclusive, so
// spans sharing only an endpoint still overlap.
func Overlaps(a, b Span) bool {
	return within(a.Start, b.Start, b.End) || within(a.End, b.Start, b.End) ||
		within(b.Start, a.Start, a.End) || within(b.End, a.Start, a.End)
}

// Contains reports whether inner lies entirely within outer.
func Contains(outer, inner Span) bool {
	return !inner.Start.Before(outer.Start) && !inner.End.After(outer.End)
}

// Merge returns the smallest span covering both a and b.
func Merge(a, b Span) Span {
	merged := a
	if b.Start.Before(merged.Start) {
		merged.Start = b.Start
	}
	if b.End.After(merged.End) {
		merged.End = b.End
	}
	return merged
}
