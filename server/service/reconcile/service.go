package reconcile

import (
	"context"
	"log/slog"
	"time"

	"github.com/rfones/scheduler/server/ai"
	rerrors "github.com/rfones/scheduler/server/internal/errors"
	"github.com/rfones/scheduler/server/internal/observability"
	"github.com/rfones/scheduler/server/timezone"
)

// Request is one reconciliation request: a natural-language command,
// the caller's current interval set, and the caller's IANA timezone.
type Request struct {
	Message         string          `json:"message"`
	CurrentSchedule []ScheduleEntry `json:"currentSchedule"`
	Timezone        string          `json:"timezone"`
}

// Service orchestrates the reconciliation pipeline: one horizon
// resolution exchange, then a concurrent per-day fan-out, producing a
// combined diff. It does not touch the interval store; applying the
// diff is the Applier's job.
type Service struct {
	horizon    *HorizonResolver
	aggregator *Aggregator
	logger     *slog.Logger
}

// NewService wires the pipeline on top of a reasoning-service
// completer.
func NewService(completer ai.Completer, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		horizon:    NewHorizonResolver(completer),
		aggregator: NewAggregator(NewDayReconciler(completer)),
		logger:     logger,
	}
}

// WithNow overrides the resolver's clock. Intended for tests.
func (s *Service) WithNow(now func() time.Time) *Service {
	s.horizon.now = now
	return s
}

// Reconcile validates the request, resolves the affected days, fans out
// the per-day exchanges, and returns the combined diff.
//
// Validation and horizon failures surface as errors; per-day failures
// are absorbed into the diff's FailedDates. Nothing is retried here;
// retry policy belongs to the transport calling the reasoning service.
func (s *Service) Reconcile(ctx context.Context, req *Request) (*CombinedDiff, error) {
	if req == nil || req.Message == "" || req.Timezone == "" {
		return nil, rerrors.InvalidArgument("Missing required fields")
	}
	loc, err := timezone.ParseTimezone(req.Timezone)
	if err != nil {
		return nil, rerrors.InvalidArgument("Missing required fields")
	}

	reqCtx, ok := observability.FromContext(ctx)
	if !ok {
		reqCtx = observability.NewRequestContext(s.logger, req.Timezone)
		ctx = observability.WithRequestContext(ctx, reqCtx)
	}
	ctx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	reqCtx.Info("reconciliation started",
		slog.Int(observability.LogFieldMessageLen, len(req.Message)))

	resolution, err := s.horizon.Resolve(ctx, req.Message, req.Timezone, loc)
	if err != nil {
		reqCtx.Error("horizon resolution failed", err)
		return nil, err
	}
	reqCtx.Info("affected days resolved",
		slog.Int(observability.LogFieldDayCount, len(resolution.Dates)),
		slog.Bool("is_update", resolution.IsUpdate))

	scheduleByDay := groupByDay(req.CurrentSchedule, loc)
	combined := s.aggregator.Aggregate(ctx, resolution, req.Message, req.Timezone, scheduleByDay)

	reqCtx.Info("reconciliation finished",
		slog.Int("add_count", len(combined.Add)),
		slog.Int("update_count", len(combined.Update)),
		slog.Int("delete_count", len(combined.Delete)),
		slog.Int("failed_count", len(combined.FailedDates)),
		slog.Int64(observability.LogFieldDuration, reqCtx.DurationMs()))

	return combined, nil
}

// groupByDay indexes entries by the calendar date of their start time
// in the caller's timezone. The store is read once, up front, so the
// fan-out never observes shared mutable state. Entries with malformed
// start times belong to no day and are dropped.
func groupByDay(entries []ScheduleEntry, loc *time.Location) map[string][]ScheduleEntry {
	byDay := make(map[string][]ScheduleEntry, len(entries))
	for _, entry := range entries {
		start, err := time.Parse(time.RFC3339, entry.StartTime)
		if err != nil {
			continue
		}
		date := timezone.DateString(start, loc)
		byDay[date] = append(byDay[date], entry)
	}
	return byDay
}
