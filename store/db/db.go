// Package db selects a persistence driver from the profile.
package db

import (
	"github.com/pkg/errors"

	"github.com/rfones/scheduler/internal/profile"
	"github.com/rfones/scheduler/store"
	"github.com/rfones/scheduler/store/db/sqlite"
)

// NewDriver creates a store driver based on the profile. An empty
// driver name means memory-only operation and returns nil.
func NewDriver(profile *profile.Profile) (store.Driver, error) {
	switch profile.Driver {
	case "":
		return nil, nil
	case "sqlite":
		driver, err := sqlite.NewDB(profile)
		if err != nil {
			return nil, errors.Wrap(err, "failed to create sqlite driver")
		}
		return driver, nil
	default:
		return nil, errors.Errorf("unknown db driver %q: only 'sqlite' is supported", profile.Driver)
	}
}
