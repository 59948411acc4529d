package reconcile

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rfones/scheduler/server/ai"
)

// dayStub answers each day reconciliation with an add for that day,
// optionally delaying or failing specific dates.
func dayStub(delays map[string]time.Duration, failing map[string]bool) *stubCompleter {
	return &stubCompleter{fn: func(messages []ai.Message) (string, error) {
		day := promptDay(messages)
		if delay, ok := delays[day]; ok {
			time.Sleep(delay)
		}
		if failing[day] {
			return "", fmt.Errorf("boom on %s", day)
		}
		return fmt.Sprintf(`{
			"add": [{"startTime": "%[1]sT09:00:00Z", "endTime": "%[1]sT17:00:00Z"}],
			"update": [],
			"delete": []
		}`, day), nil
	}}
}

func TestAggregate_PreservesDateOrder(t *testing.T) {
	// The first day is the slowest; date order must survive anyway.
	stub := dayStub(map[string]time.Duration{
		"2025-08-06": 50 * time.Millisecond,
		"2025-08-07": 20 * time.Millisecond,
	}, nil)
	aggregator := NewAggregator(NewDayReconciler(stub))

	resolution := &AffectedDays{Dates: []string{"2025-08-06", "2025-08-07", "2025-08-08"}}
	combined := aggregator.Aggregate(context.Background(), resolution, "add 9-5", "UTC", nil)

	require.Len(t, combined.Add, 3)
	assert.Equal(t, "2025-08-06T09:00:00Z", combined.Add[0].StartTime)
	assert.Equal(t, "2025-08-07T09:00:00Z", combined.Add[1].StartTime)
	assert.Equal(t, "2025-08-08T09:00:00Z", combined.Add[2].StartTime)
	assert.Empty(t, combined.FailedDates)
}

func TestAggregate_UpdateOnlySkipsEmptyDays(t *testing.T) {
	stub := dayStub(nil, nil)
	aggregator := NewAggregator(NewDayReconciler(stub))

	resolution := &AffectedDays{
		Dates:    []string{"2025-08-06", "2025-08-13", "2025-08-20"},
		IsUpdate: true,
	}
	scheduleByDay := map[string][]ScheduleEntry{
		"2025-08-13": {{ID: "x", StartTime: "2025-08-13T09:00:00Z", EndTime: "2025-08-13T17:00:00Z"}},
	}

	combined := aggregator.Aggregate(context.Background(), resolution, "remove them", "UTC", scheduleByDay)

	// Only the populated day reached the reasoning service.
	assert.Equal(t, 1, stub.callCount())
	require.Len(t, combined.Add, 1)
	assert.Equal(t, "2025-08-13T09:00:00Z", combined.Add[0].StartTime)
}

func TestAggregate_NonUpdateCallsEmptyDays(t *testing.T) {
	stub := dayStub(nil, nil)
	aggregator := NewAggregator(NewDayReconciler(stub))

	resolution := &AffectedDays{
		Dates:    []string{"2025-08-06", "2025-08-07"},
		IsUpdate: false,
	}
	combined := aggregator.Aggregate(context.Background(), resolution, "add 9-5", "UTC", nil)

	assert.Equal(t, 2, stub.callCount())
	assert.Len(t, combined.Add, 2)
}

func TestAggregate_FailedDayIsIsolated(t *testing.T) {
	stub := dayStub(nil, map[string]bool{"2025-08-07": true})
	aggregator := NewAggregator(NewDayReconciler(stub))

	resolution := &AffectedDays{Dates: []string{"2025-08-06", "2025-08-07", "2025-08-08"}}
	combined := aggregator.Aggregate(context.Background(), resolution, "add 9-5", "UTC", nil)

	// Sibling days proceed; the failed day is flagged, not dropped
	// silently.
	require.Len(t, combined.Add, 2)
	assert.Equal(t, "2025-08-06T09:00:00Z", combined.Add[0].StartTime)
	assert.Equal(t, "2025-08-08T09:00:00Z", combined.Add[1].StartTime)
	assert.Equal(t, []string{"2025-08-07"}, combined.FailedDates)
}

func TestAggregate_NoDates(t *testing.T) {
	stub := dayStub(nil, nil)
	aggregator := NewAggregator(NewDayReconciler(stub))

	combined := aggregator.Aggregate(context.Background(), &AffectedDays{}, "noop", "UTC", nil)

	assert.Equal(t, 0, stub.callCount())
	assert.Empty(t, combined.Add)
	assert.Empty(t, combined.Update)
	assert.Empty(t, combined.Delete)
	assert.Empty(t, combined.FailedDates)
}
