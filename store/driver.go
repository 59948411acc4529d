package store

import "context"

// Driver is the interface a persistence backend implements to mirror
// the interval set. Drivers only see mutations the in-memory store has
// already accepted, so they never need to re-check the non-overlap
// invariant.
type Driver interface {
	ListIntervals(ctx context.Context) ([]*Interval, error)
	UpsertInterval(ctx context.Context, interval *Interval) error
	DeleteInterval(ctx context.Context, uid string) error

	Close() error
}
