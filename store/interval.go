package store

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/lithammer/shortuuid/v4"

	"github.com/rfones/scheduler/server/timespan"
)

// Interval is one availability window owned by the store.
// The UID is assigned on creation and stays stable until the interval
// is deleted or merged away.
type Interval struct {
	UID       string
	StartTime time.Time
	EndTime   time.Time
}

// Span returns the interval's time range.
func (i *Interval) Span() timespan.Span {
	return timespan.New(i.StartTime, i.EndTime)
}

// StartDate returns the calendar date of the interval's start in the
// given timezone, formatted YYYY-MM-DD.
func (i *Interval) StartDate(loc *time.Location) string {
	return i.StartTime.In(loc).Format(time.DateOnly)
}

// IntervalStore owns the mutable set of availability intervals and
// enforces the non-overlap invariant on every mutation. All operations
// are total: unknown UIDs are ignored rather than reported.
//
// An optional Driver mirrors mutations to durable storage. The in-memory
// set remains the source of truth for the invariant; the driver only
// persists what the store has already accepted.
type IntervalStore struct {
	mu        sync.RWMutex
	intervals map[string]*Interval

	driver Driver
}

// NewIntervalStore creates an empty in-memory interval store.
func NewIntervalStore() *IntervalStore {
	return &IntervalStore{
		intervals: make(map[string]*Interval),
	}
}

// NewIntervalStoreWithDriver creates a store seeded from the driver's
// persisted intervals. Rows keep their persisted UIDs so later mutations
// mirror against rows the driver knows; overlapping rows are collapsed
// and the collapse is written back, so the invariant holds even if the
// snapshot predates it.
func NewIntervalStoreWithDriver(ctx context.Context, driver Driver) (*IntervalStore, error) {
	s := NewIntervalStore()
	if driver == nil {
		return s, nil
	}

	persisted, err := driver.ListIntervals(ctx)
	if err != nil {
		return nil, err
	}
	for _, row := range persisted {
		s.seed(ctx, driver, row)
	}

	s.driver = driver
	return s, nil
}

// seed replays one persisted row into the set. A row that inserts
// cleanly keeps its persisted UID. A row overlapping already-seeded
// state goes through the merge path and the outcome is mirrored back:
// the row and every absorbed UID are deleted from the driver and the
// surviving interval upserted, so the snapshot never resurrects rows
// the merge consumed.
func (s *IntervalStore) seed(ctx context.Context, driver Driver, row *Interval) {
	span := timespan.New(row.StartTime, row.EndTime)

	s.mu.Lock()
	if s.findOverlap(span) == nil {
		clone := *row
		s.intervals[clone.UID] = &clone
		s.mu.Unlock()
		return
	}
	created, removed := s.add(span)
	clone := *created
	s.mu.Unlock()

	mirror("delete", row.UID, driver.DeleteInterval(ctx, row.UID))
	for _, uid := range removed {
		mirror("delete", uid, driver.DeleteInterval(ctx, uid))
	}
	mirror("upsert", clone.UID, driver.UpsertInterval(ctx, &clone))
}

// Add inserts a new availability window. Overlapping or adjacent
// existing intervals are absorbed: the inserted interval is widened to
// cover their union and they are removed, so an add never fragments the
// set. Adding a window already covered by an existing interval is a
// no-op and consumes no UID. Returns the interval now covering the
// requested range.
func (s *IntervalStore) Add(ctx context.Context, span timespan.Span) *Interval {
	s.mu.Lock()
	created, removed := s.add(span)
	clone := *created
	s.mu.Unlock()

	s.persistAdd(ctx, &clone, removed)
	return &clone
}

// add performs the merge-then-insert under the caller's lock. It returns
// the covering interval and the UIDs it absorbed. A nil removed slice
// with a pre-existing UID means the add was fully covered.
func (s *IntervalStore) add(span timespan.Span) (*Interval, []string) {
	var removed []string

	for {
		overlapping := s.findOverlap(span)
		if overlapping == nil {
			break
		}
		if timespan.Contains(overlapping.Span(), span) {
			// Requested range is already covered.
			return overlapping, nil
		}
		span = timespan.Merge(span, overlapping.Span())
		delete(s.intervals, overlapping.UID)
		removed = append(removed, overlapping.UID)
	}

	created := &Interval{
		UID:       shortuuid.New(),
		StartTime: span.Start,
		EndTime:   span.End,
	}
	s.intervals[created.UID] = created
	return created, removed
}

// Edit replaces the bounds of the interval with the given UID in place,
// preserving the UID. Unlike Add it does not re-run overlap merging;
// the caller owns validity, matching the semantics of an explicit
// update diff entry. Unknown UIDs are a no-op.
func (s *IntervalStore) Edit(ctx context.Context, uid string, span timespan.Span) {
	s.mu.Lock()
	interval, ok := s.intervals[uid]
	if ok {
		interval.StartTime = span.Start
		interval.EndTime = span.End
	}
	s.mu.Unlock()

	if ok && s.driver != nil {
		mirror("upsert", uid, s.driver.UpsertInterval(ctx, &Interval{UID: uid, StartTime: span.Start, EndTime: span.End}))
	}
}

// Delete removes the interval with the given UID. Unknown UIDs are a
// no-op.
func (s *IntervalStore) Delete(ctx context.Context, uid string) {
	s.mu.Lock()
	_, ok := s.intervals[uid]
	delete(s.intervals, uid)
	s.mu.Unlock()

	if ok && s.driver != nil {
		mirror("delete", uid, s.driver.DeleteInterval(ctx, uid))
	}
}

// Get returns the interval with the given UID, or nil.
func (s *IntervalStore) Get(uid string) *Interval {
	s.mu.RLock()
	defer s.mu.RUnlock()

	interval, ok := s.intervals[uid]
	if !ok {
		return nil
	}
	clone := *interval
	return &clone
}

// List returns a snapshot of all intervals ordered by start time.
func (s *IntervalStore) List() []*Interval {
	s.mu.RLock()
	intervals := make([]*Interval, 0, len(s.intervals))
	for _, interval := range s.intervals {
		clone := *interval
		intervals = append(intervals, &clone)
	}
	s.mu.RUnlock()

	sort.Slice(intervals, func(i, j int) bool {
		return intervals[i].StartTime.Before(intervals[j].StartTime)
	})
	return intervals
}

// ListByDate returns the intervals whose start falls on the given
// calendar date (YYYY-MM-DD) in the given timezone, ordered by start.
func (s *IntervalStore) ListByDate(date string, loc *time.Location) []*Interval {
	all := s.List()
	matched := make([]*Interval, 0)
	for _, interval := range all {
		if interval.StartDate(loc) == date {
			matched = append(matched, interval)
		}
	}
	return matched
}

// Len returns the number of intervals in the set.
func (s *IntervalStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.intervals)
}

// findOverlap returns an interval overlapping span, or nil. Called with
// the lock held.
func (s *IntervalStore) findOverlap(span timespan.Span) *Interval {
	for _, interval := range s.intervals {
		if timespan.Overlaps(span, interval.Span()) {
			return interval
		}
	}
	return nil
}

// persistAdd mirrors the outcome of an Add to the driver.
func (s *IntervalStore) persistAdd(ctx context.Context, created *Interval, removed []string) {
	if s.driver == nil {
		return
	}
	for _, uid := range removed {
		mirror("delete", uid, s.driver.DeleteInterval(ctx, uid))
	}
	mirror("upsert", created.UID, s.driver.UpsertInterval(ctx, created))
}

// mirror logs a failed driver write. The in-memory set stays
// authoritative; the snapshot diverges for that UID until the next
// successful write.
func mirror(op, uid string, err error) {
	if err != nil {
		slog.Warn("failed to mirror interval "+op, "uid", uid, "error", err)
	}
}
