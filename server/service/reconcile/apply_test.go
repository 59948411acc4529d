package reconcile

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rfones/scheduler/server/timespan"
	"github.com/rfones/scheduler/store"
)

func storeSpan(t *testing.T, start, end string) timespan.Span {
	t.Helper()
	s, err := time.Parse(time.RFC3339, start)
	require.NoError(t, err)
	e, err := time.Parse(time.RFC3339, end)
	require.NoError(t, err)
	return timespan.New(s, e)
}

func TestApply_DeleteBeforeAdd(t *testing.T) {
	ctx := context.Background()
	intervalStore := store.NewIntervalStore()
	applier := NewApplier(intervalStore)

	// The new interval would overlap the one being deleted; applying
	// deletes first must prevent a merge with phantom state.
	doomed := intervalStore.Add(ctx, storeSpan(t, "2025-08-06T09:00:00-04:00", "2025-08-06T13:00:00-04:00"))

	applier.Apply(ctx, &CombinedDiff{
		Add: []AddEntry{{
			StartTime: "2025-08-06T10:00:00-04:00",
			EndTime:   "2025-08-06T12:00:00-04:00",
		}},
		Delete: []DeleteEntry{{ID: doomed.UID}},
	})

	intervals := intervalStore.List()
	require.Len(t, intervals, 1)
	assert.NotEqual(t, doomed.UID, intervals[0].UID)
	assert.Equal(t, storeSpan(t, "2025-08-06T10:00:00-04:00", "2025-08-06T12:00:00-04:00"), intervals[0].Span())
}

func TestApply_UpdatePreservesID(t *testing.T) {
	ctx := context.Background()
	intervalStore := store.NewIntervalStore()
	applier := NewApplier(intervalStore)

	existing := intervalStore.Add(ctx, storeSpan(t, "2025-08-06T09:00:00-04:00", "2025-08-06T13:00:00-04:00"))

	applier.Apply(ctx, &CombinedDiff{
		Update: []UpdateEntry{{
			ID:        existing.UID,
			StartTime: "2025-08-06T10:00:00-04:00",
			EndTime:   "2025-08-06T14:00:00-04:00",
		}},
	})

	updated := intervalStore.Get(existing.UID)
	require.NotNil(t, updated)
	assert.Equal(t, storeSpan(t, "2025-08-06T10:00:00-04:00", "2025-08-06T14:00:00-04:00"), updated.Span())
}

func TestApply_UnknownIDsIgnored(t *testing.T) {
	ctx := context.Background()
	intervalStore := store.NewIntervalStore()
	applier := NewApplier(intervalStore)

	applier.Apply(ctx, &CombinedDiff{
		Update: []UpdateEntry{{ID: "ghost", StartTime: "2025-08-06T10:00:00-04:00", EndTime: "2025-08-06T11:00:00-04:00"}},
		Delete: []DeleteEntry{{ID: "ghost"}},
	})

	assert.Equal(t, 0, intervalStore.Len())
}

func TestApply_SkipsMalformedEntries(t *testing.T) {
	ctx := context.Background()
	intervalStore := store.NewIntervalStore()
	applier := NewApplier(intervalStore)

	applier.Apply(ctx, &CombinedDiff{
		Add: []AddEntry{
			{StartTime: "yesterday", EndTime: "tomorrow"},
			{StartTime: "2025-08-06T12:00:00-04:00", EndTime: "2025-08-06T10:00:00-04:00"}, // inverted
			{StartTime: "2025-08-06T09:00:00-04:00", EndTime: "2025-08-06T10:00:00-04:00"},
		},
	})

	require.Equal(t, 1, intervalStore.Len())
	assert.Equal(t, storeSpan(t, "2025-08-06T09:00:00-04:00", "2025-08-06T10:00:00-04:00"), intervalStore.List()[0].Span())
}

func TestApply_MergesOverlappingAdds(t *testing.T) {
	ctx := context.Background()
	intervalStore := store.NewIntervalStore()
	applier := NewApplier(intervalStore)

	applier.Apply(ctx, &CombinedDiff{
		Add: []AddEntry{
			{StartTime: "2025-08-06T09:00:00-04:00", EndTime: "2025-08-06T12:00:00-04:00"},
			{StartTime: "2025-08-06T11:00:00-04:00", EndTime: "2025-08-06T13:00:00-04:00"},
		},
	})

	intervals := intervalStore.List()
	require.Len(t, intervals, 1)
	assert.Equal(t, storeSpan(t, "2025-08-06T09:00:00-04:00", "2025-08-06T13:00:00-04:00"), intervals[0].Span())
}
