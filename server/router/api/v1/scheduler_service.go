package v1

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	rerrors "github.com/rfones/scheduler/server/internal/errors"
	"github.com/rfones/scheduler/server/internal/observability"
	"github.com/rfones/scheduler/server/service/reconcile"
	"github.com/rfones/scheduler/server/timespan"
	"github.com/rfones/scheduler/store"
)

// SchedulerService handles availability reconciliation requests.
type SchedulerService struct {
	Store     *store.IntervalStore
	Reconcile *reconcile.Service
	Applier   *reconcile.Applier
	Logger    *slog.Logger
}

// reconcileRequest is the wire shape of a reconciliation request.
// CurrentSchedule is optional; when absent the server's own interval
// set is used.
type reconcileRequest struct {
	Message         string                    `json:"message"`
	CurrentSchedule []reconcile.ScheduleEntry `json:"currentSchedule"`
	Timezone        string                    `json:"timezone"`
}

// availabilityRequest is the wire shape of a direct interval add.
type availabilityRequest struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// intervalResponse is the wire shape of one stored interval.
type intervalResponse struct {
	ID        string `json:"id"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// ReconcileSchedule applies a natural-language availability command.
// It produces the combined diff via the reconciliation pipeline,
// applies it to the interval store, and returns the diff so the caller
// can render or persist it.
func (s *SchedulerService) ReconcileSchedule(c echo.Context) error {
	req := &reconcileRequest{}
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Missing required fields"})
	}
	if req.Message == "" || req.Timezone == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Missing required fields"})
	}

	current := req.CurrentSchedule
	if current == nil {
		current = s.currentSchedule()
	}

	reqCtx := observability.NewRequestContext(s.Logger, req.Timezone)
	ctx := observability.WithRequestContext(c.Request().Context(), reqCtx)

	diff, err := s.Reconcile.Reconcile(ctx, &reconcile.Request{
		Message:         req.Message,
		CurrentSchedule: current,
		Timezone:        req.Timezone,
	})
	if err != nil {
		switch rerrors.GetCodeFromError(err, rerrors.ErrCodeLLMUnavailable) {
		case rerrors.ErrCodeInvalidArgument:
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Missing required fields"})
		case rerrors.ErrCodeTimeout, rerrors.ErrCodeContextCanceled:
			return c.JSON(http.StatusGatewayTimeout, map[string]string{"error": "Reconciliation timed out"})
		default:
			return c.JSON(http.StatusBadGateway, map[string]string{"error": "Reconciliation failed"})
		}
	}

	s.Applier.Apply(ctx, diff)
	return c.JSON(http.StatusOK, diff)
}

// ListAvailability returns the current interval set ordered by start
// time.
func (s *SchedulerService) ListAvailability(c echo.Context) error {
	return c.JSON(http.StatusOK, s.currentScheduleResponse())
}

// AddAvailability inserts one interval directly, with the same merge
// semantics as a reconciled add.
func (s *SchedulerService) AddAvailability(c echo.Context) error {
	req := &availabilityRequest{}
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Missing required fields"})
	}

	start, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid startTime"})
	}
	end, err := time.Parse(time.RFC3339, req.EndTime)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid endTime"})
	}
	span := timespan.New(start, end)
	if !span.IsValid() {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "startTime must precede endTime"})
	}

	created := s.Store.Add(c.Request().Context(), span)
	return c.JSON(http.StatusOK, intervalResponse{
		ID:        created.UID,
		StartTime: created.StartTime.Format(time.RFC3339),
		EndTime:   created.EndTime.Format(time.RFC3339),
	})
}

// DeleteAvailability removes one interval by id. Deleting an unknown id
// succeeds; the operation is idempotent.
func (s *SchedulerService) DeleteAvailability(c echo.Context) error {
	s.Store.Delete(c.Request().Context(), c.Param("id"))
	return c.NoContent(http.StatusNoContent)
}

func (s *SchedulerService) currentSchedule() []reconcile.ScheduleEntry {
	intervals := s.Store.List()
	entries := make([]reconcile.ScheduleEntry, 0, len(intervals))
	for _, interval := range intervals {
		entries = append(entries, reconcile.ScheduleEntry{
			ID:        interval.UID,
			StartTime: interval.StartTime.Format(time.RFC3339),
			EndTime:   interval.EndTime.Format(time.RFC3339),
		})
	}
	return entries
}

func (s *SchedulerService) currentScheduleResponse() []intervalResponse {
	intervals := s.Store.List()
	entries := make([]intervalResponse, 0, len(intervals))
	for _, interval := range intervals {
		entries = append(entries, intervalResponse{
			ID:        interval.UID,
			StartTime: interval.StartTime.Format(time.RFC3339),
			EndTime:   interval.EndTime.Format(time.RFC3339),
		})
	}
	return entries
}
