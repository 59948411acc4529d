package reconcile

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/rfones/scheduler/server/internal/observability"
)

// Aggregator fans out one day reconciliation per affected date and
// merges the results into a combined diff.
type Aggregator struct {
	day *DayReconciler
}

// NewAggregator creates an aggregator on top of a day reconciler.
func NewAggregator(day *DayReconciler) *Aggregator {
	return &Aggregator{day: day}
}

type dayResult struct {
	diff *DayDiff
	err  error
}

// Aggregate runs the per-day exchanges concurrently and concatenates
// their diffs in date order. Days are independent reasoning problems,
// so the fan-out carries no ordering dependency; the only contract is
// that the combined diff preserves date order.
//
// Failures settle rather than propagate: a failing day lands in its own
// result slot, contributes an empty diff, and is listed in FailedDates.
// When the resolution is update-only, days with no existing entries are
// skipped outright so an update cannot fabricate entries on an empty
// day.
func (a *Aggregator) Aggregate(ctx context.Context, resolution *AffectedDays, message, tz string, scheduleByDay map[string][]ScheduleEntry) *CombinedDiff {
	results := make([]dayResult, len(resolution.Dates))

	var g errgroup.Group
	g.SetLimit(MaxConcurrentDayCalls)
	for i, date := range resolution.Dates {
		g.Go(func() error {
			daySchedule := scheduleByDay[date]
			if resolution.IsUpdate && len(daySchedule) == 0 {
				empty := &DayDiff{}
				empty.normalize()
				results[i] = dayResult{diff: empty}
				return nil
			}

			dayCtx, cancel := context.WithTimeout(ctx, DayCallTimeout)
			defer cancel()

			diff, err := a.day.Reconcile(dayCtx, message, tz, date, daySchedule)
			results[i] = dayResult{diff: diff, err: err}
			return nil
		})
	}
	// Closures never return an error; Wait is a plain join.
	_ = g.Wait()

	combined := NewCombinedDiff()
	for i, date := range resolution.Dates {
		result := results[i]
		if result.err != nil {
			if reqCtx, ok := observability.FromContext(ctx); ok {
				reqCtx.Error("day reconciliation failed", result.err,
					slog.String(observability.LogFieldDate, date))
			}
			combined.FailedDates = append(combined.FailedDates, date)
			continue
		}
		combined.append(result.diff)
	}
	return combined
}
