// Package sqlite implements the store driver on modernc.org/sqlite.
package sqlite

import (
	"database/sql"

	"github.com/pkg/errors"

	// Import the pure-Go sqlite driver.
	_ "modernc.org/sqlite"

	"github.com/rfones/scheduler/internal/profile"
)

// DB is the sqlite-backed store driver.
type DB struct {
	db      *sql.DB
	profile *profile.Profile
}

// NewDB opens the sqlite database at the profile's DSN and ensures the
// schema exists.
func NewDB(profile *profile.Profile) (*DB, error) {
	if profile.DSN == "" {
		return nil, errors.New("dsn required for sqlite driver")
	}

	sqliteDB, err := sql.Open("sqlite", profile.DSN+"?_pragma=busy_timeout(10000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open db with dsn: %s", profile.DSN)
	}

	driver := &DB{db: sqliteDB, profile: profile}
	if err := driver.migrate(); err != nil {
		_ = sqliteDB.Close()
		return nil, errors.Wrap(err, "failed to migrate schema")
	}
	return driver, nil
}

func (d *DB) migrate() error {
	const stmt = `
		CREATE TABLE IF NOT EXISTS interval (
			uid TEXT PRIMARY KEY,
			start_time TEXT NOT NULL,
			end_time TEXT NOT NULL
		)`
	_, err := d.db.Exec(stmt)
	return err
}

// GetDB returns the underlying database handle.
func (d *DB) GetDB() *sql.DB {
	return d.db
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}
