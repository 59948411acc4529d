package reconcile

import (
	"context"
	"log/slog"
	"time"

	"github.com/rfones/scheduler/server/timespan"
	"github.com/rfones/scheduler/store"
)

// Applier writes a combined diff onto the interval store. Operations
// are applied deletes first, then updates, then adds: removing
// intervals before inserting avoids spurious merges with entries the
// diff is about to delete, and updates go by id without touching the
// overlap logic.
type Applier struct {
	store *store.IntervalStore
}

// NewApplier creates an applier for the given store.
func NewApplier(intervalStore *store.IntervalStore) *Applier {
	return &Applier{store: intervalStore}
}

// Apply mutates the store according to the diff. Entries with malformed
// or inverted timestamps are skipped; store operations themselves are
// total, so application never fails.
func (a *Applier) Apply(ctx context.Context, diff *CombinedDiff) {
	for _, entry := range diff.Delete {
		a.store.Delete(ctx, entry.ID)
	}

	for _, entry := range diff.Update {
		span, ok := parseSpan(entry.StartTime, entry.EndTime)
		if !ok {
			slog.Warn("skipping update with invalid bounds", "id", entry.ID)
			continue
		}
		a.store.Edit(ctx, entry.ID, span)
	}

	for _, entry := range diff.Add {
		span, ok := parseSpan(entry.StartTime, entry.EndTime)
		if !ok {
			slog.Warn("skipping add with invalid bounds",
				"start_time", entry.StartTime, "end_time", entry.EndTime)
			continue
		}
		a.store.Add(ctx, span)
	}
}

// parseSpan parses RFC 3339 bounds and rejects empty or inverted
// ranges.
func parseSpan(startTime, endTime string) (timespan.Span, bool) {
	start, err := time.Parse(time.RFC3339, startTime)
	if err != nil {
		return timespan.Span{}, false
	}
	end, err := time.Parse(time.RFC3339, endTime)
	if err != nil {
		return timespan.Span{}, false
	}
	span := timespan.New(start, end)
	return span, span.IsValid()
}
