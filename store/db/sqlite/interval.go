package sqlite

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/rfones/scheduler/store"
)

func (d *DB) ListIntervals(ctx context.Context) ([]*store.Interval, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT uid, start_time, end_time
		FROM interval
		ORDER BY start_time ASC`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list intervals")
	}
	defer rows.Close()

	intervals := []*store.Interval{}
	for rows.Next() {
		var uid, startTime, endTime string
		if err := rows.Scan(&uid, &startTime, &endTime); err != nil {
			return nil, errors.Wrap(err, "failed to scan interval")
		}
		start, err := time.Parse(time.RFC3339, startTime)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid start_time for interval %s", uid)
		}
		end, err := time.Parse(time.RFC3339, endTime)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid end_time for interval %s", uid)
		}
		intervals = append(intervals, &store.Interval{
			UID:       uid,
			StartTime: start,
			EndTime:   end,
		})
	}
	return intervals, rows.Err()
}

func (d *DB) UpsertInterval(ctx context.Context, interval *store.Interval) error {
	_, err := d.db.ExecContext(ctx, `
		INSERT INTO interval (uid, start_time, end_time)
		VALUES (?, ?, ?)
		ON CONFLICT (uid) DO UPDATE SET start_time = excluded.start_time, end_time = excluded.end_time`,
		interval.UID,
		interval.StartTime.Format(time.RFC3339),
		interval.EndTime.Format(time.RFC3339),
	)
	if err != nil {
		return errors.Wrapf(err, "failed to upsert interval %s", interval.UID)
	}
	return nil
}

func (d *DB) DeleteInterval(ctx context.Context, uid string) error {
	if _, err := d.db.ExecContext(ctx, `DELETE FROM interval WHERE uid = ?`, uid); err != nil {
		return errors.Wrapf(err, "failed to delete interval %s", uid)
	}
	return nil
}
