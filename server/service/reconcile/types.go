// Package reconcile implements the day-scoped diff reconciliation
// pipeline: it resolves which calendar days a natural-language command
// affects, fans out one reasoning-service exchange per day, and merges
// the per-day diffs into one combined diff for the interval store.
package reconcile

import "time"

const (
	// MaxDaysPerRequest bounds the forward-looking horizon and with it
	// the worst-case fan-out width of a single reconciliation.
	MaxDaysPerRequest = 30

	// DayCallTimeout is the timeout for a single per-day exchange.
	DayCallTimeout = 30 * time.Second

	// RequestTimeout is the timeout for a whole reconciliation.
	RequestTimeout = 2 * time.Minute

	// MaxConcurrentDayCalls caps parallel per-day exchanges.
	MaxConcurrentDayCalls = 10
)

// ScheduleEntry is one existing interval as exchanged with the caller
// and the reasoning service. Timestamps are RFC 3339 with explicit
// offset.
type ScheduleEntry struct {
	ID        string `json:"id"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// AddEntry is a new interval to insert.
type AddEntry struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// UpdateEntry replaces the bounds of an existing interval by id.
type UpdateEntry struct {
	ID        string `json:"id"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// DeleteEntry removes an existing interval by id.
type DeleteEntry struct {
	ID string `json:"id"`
}

// DayDiff is the add/update/delete change set scoped to a single
// calendar day.
type DayDiff struct {
	Add    []AddEntry    `json:"add"`
	Update []UpdateEntry `json:"update"`
	Delete []DeleteEntry `json:"delete"`
}

// IsEmpty reports whether the diff carries no changes.
func (d *DayDiff) IsEmpty() bool {
	return len(d.Add) == 0 && len(d.Update) == 0 && len(d.Delete) == 0
}

// normalize replaces nil slices with empty ones so the diff always
// serializes with all three arrays present.
func (d *DayDiff) normalize() {
	if d.Add == nil {
		d.Add = []AddEntry{}
	}
	if d.Update == nil {
		d.Update = []UpdateEntry{}
	}
	if d.Delete == nil {
		d.Delete = []DeleteEntry{}
	}
}

// CombinedDiff is the concatenation of all day diffs for one
// reconciliation request, in date order. FailedDates lists the days
// whose exchange failed and therefore contributed nothing.
type CombinedDiff struct {
	Add         []AddEntry    `json:"add"`
	Update      []UpdateEntry `json:"update"`
	Delete      []DeleteEntry `json:"delete"`
	FailedDates []string      `json:"failedDates"`
}

// NewCombinedDiff returns an empty combined diff with all arrays
// allocated.
func NewCombinedDiff() *CombinedDiff {
	return &CombinedDiff{
		Add:         []AddEntry{},
		Update:      []UpdateEntry{},
		Delete:      []DeleteEntry{},
		FailedDates: []string{},
	}
}

// append concatenates one day's diff onto the combined diff.
func (c *CombinedDiff) append(d *DayDiff) {
	c.Add = append(c.Add, d.Add...)
	c.Update = append(c.Update, d.Update...)
	c.Delete = append(c.Delete, d.Delete...)
}

// AffectedDays is the horizon resolver's answer: which calendar days a
// command touches, and whether the command only mutates existing
// entries.
type AffectedDays struct {
	Dates    []string `json:"dates"`
	IsUpdate bool     `json:"isUpdate"`
}
