package reconcile

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/rfones/scheduler/server/ai"
	rerrors "github.com/rfones/scheduler/server/internal/errors"
	"github.com/rfones/scheduler/server/timezone"
)

// HorizonResolver asks the reasoning service which days within the
// fixed lookahead window a command affects.
type HorizonResolver struct {
	completer ai.Completer
	now       func() time.Time
}

// NewHorizonResolver creates a horizon resolver.
func NewHorizonResolver(completer ai.Completer) *HorizonResolver {
	return &HorizonResolver{
		completer: completer,
		now:       time.Now,
	}
}

// Resolve maps a command to the set of affected calendar dates within
// the MaxDaysPerRequest-day window starting tomorrow in the caller's
// timezone.
// The service's answer is sanitized before use: out-of-window dates are
// dropped, duplicates removed, and the result is chronological and
// capped at MaxDaysPerRequest entries. A missing or unparsable reply
// fails the whole reconciliation; there is no per-day scope yet, so no
// partial result is possible.
func (r *HorizonResolver) Resolve(ctx context.Context, message, tz string, loc *time.Location) (*AffectedDays, error) {
	now := r.now().In(loc)
	tomorrow := timezone.AddDays(now, 1, loc)
	horizonEnd := timezone.AddDays(now, MaxDaysPerRequest, loc)

	prompt := affectedDaysPrompt(
		timezone.DateString(tomorrow, loc),
		timezone.DateString(horizonEnd, loc),
		tz,
	)
	reply, err := r.completer.CompleteJSON(ctx, []ai.Message{
		ai.SystemPrompt(prompt),
		ai.UserMessage(wrapCommand(message)),
	})
	if err != nil {
		return nil, classifyCallError(err, "horizon resolution call failed")
	}

	var resolution AffectedDays
	if err := json.Unmarshal([]byte(reply), &resolution); err != nil {
		return nil, rerrors.ParseFailed("unparsable horizon resolution", err)
	}

	resolution.Dates = clampToHorizon(resolution.Dates, tomorrow, horizonEnd, loc)
	return &resolution, nil
}

// clampToHorizon enforces the window bound the service was merely
// instructed to honor: dates are parsed, deduplicated, restricted to
// [tomorrow, horizonEnd], sorted chronologically, and capped at
// MaxDaysPerRequest entries. horizonEnd is the same date the prompt
// names as the last allowed day.
func clampToHorizon(dates []string, tomorrow, horizonEnd time.Time, loc *time.Location) []string {
	seen := make(map[string]bool, len(dates))
	valid := make([]string, 0, len(dates))
	for _, date := range dates {
		day, err := timezone.ParseDate(date, loc)
		if err != nil {
			continue
		}
		if day.Before(tomorrow) || day.After(horizonEnd) {
			continue
		}
		normalized := timezone.DateString(day, loc)
		if seen[normalized] {
			continue
		}
		seen[normalized] = true
		valid = append(valid, normalized)
	}

	sort.Strings(valid)
	if len(valid) > MaxDaysPerRequest {
		valid = valid[:MaxDaysPerRequest]
	}
	return valid
}
