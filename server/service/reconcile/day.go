package reconcile

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/rfones/scheduler/server/ai"
	rerrors "github.com/rfones/scheduler/server/internal/errors"
)

// DayReconciler asks the reasoning service for the add/update/delete
// diff of a single calendar day. It is a pure call-and-parse step: the
// diff is not interpreted here.
type DayReconciler struct {
	completer ai.Completer
}

// NewDayReconciler creates a day reconciler.
func NewDayReconciler(completer ai.Completer) *DayReconciler {
	return &DayReconciler{completer: completer}
}

// Reconcile returns the diff for one target date given the command and
// that day's existing entries. A failure here is scoped to the day; the
// caller decides how to absorb it.
func (r *DayReconciler) Reconcile(ctx context.Context, message, tz, day string, schedule []ScheduleEntry) (*DayDiff, error) {
	if schedule == nil {
		schedule = []ScheduleEntry{}
	}
	prompt, err := dayDiffPrompt(tz, day, schedule)
	if err != nil {
		return nil, rerrors.Wrap(err, rerrors.ErrCodeInvalidArgument, "failed to encode day schedule")
	}

	reply, err := r.completer.CompleteJSON(ctx, []ai.Message{
		ai.SystemPrompt(prompt),
		ai.UserMessage(wrapCommand(message)),
	})
	if err != nil {
		return nil, classifyCallError(err, "day reconciliation call failed")
	}

	var diff DayDiff
	if err := json.Unmarshal([]byte(reply), &diff); err != nil {
		return nil, rerrors.ParseFailed("unparsable day diff", err)
	}
	diff.normalize()
	return &diff, nil
}

// classifyCallError maps a failed reasoning-service call onto the error
// taxonomy. Hitting the deadline or losing the caller is not the same
// failure as the service being unreachable.
func classifyCallError(err error, msg string) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return rerrors.Timeout(msg)
	case errors.Is(err, context.Canceled):
		return rerrors.ContextCanceled(err)
	default:
		return rerrors.LLMUnavailable(msg, err)
	}
}
