// Package domain holds the record types shared by every layer of
// storewatch: the sparse poll stream, the weekly business schedule, the
// derived business windows and status segments, and the report shell that
// the driver writes through to persistence.
package domain

import "time"

// Status is a store's observed state at poll time.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Poll is a single sparse observation of a store's status at a UTC instant.
type Poll struct {
	StoreID   string
	Timestamp time.Time
	Status    Status
}

// DayHours is one day's open/close time-of-day, local to the store's zone.
// Close of 23:59:59 represents end-of-day; 00:00:00-23:59:59 is a full day.
type DayHours struct {
	OpenLocal  time.Duration // offset from local midnight
	CloseLocal time.Duration
}

// BusinessSchedule maps day_of_week (0=Monday .. 6=Sunday) to open/close.
// A missing day means the store is closed that day. A nil/empty schedule is
// treated by the caller as always-open (see temporal.AlwaysOpenSchedule).
type BusinessSchedule map[int]DayHours

// BusinessWindow is one materialized UTC half-open business-hour interval
// [Start, End), derived from a (store, local calendar date, schedule entry)
// triple.
type BusinessWindow struct {
	Start time.Time
	End   time.Time
}

// Duration returns the window's length; always non-negative since windows
// that would collapse to zero length are dropped at construction time.
func (w BusinessWindow) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

// StatusSegment is a half-open UTC interval [Start, End) tagged with a
// single status. Segments for one store partition [now-7d, now) with no
// gaps and no overlaps.
type StatusSegment struct {
	Start  time.Time
	End    time.Time
	Status Status
}

func (s StatusSegment) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

// Totals accumulates uptime/downtime as exact nanosecond durations.
type Totals struct {
	Uptime   time.Duration
	Downtime time.Duration
}

func (t *Totals) Add(other Totals) {
	t.Uptime += other.Uptime
	t.Downtime += other.Downtime
}

// ReportRow is one store's line in the final report.
type ReportRow struct {
	StoreID string

	UptimeLastHour   time.Duration
	DowntimeLastHour time.Duration
	UptimeLastDay    time.Duration
	DowntimeLastDay  time.Duration
	UptimeLastWeek   time.Duration
	DowntimeLastWeek time.Duration

	// Warnings annotates faults the estimator contained for this store
	// alone: "no_polls", "unknown_timezone", "timeout", or
	// "failed: <error>" when a data-access error ended the estimate.
	Warnings []string
}

// ReportStatus is the lifecycle state of a Report record.
type ReportStatus string

const (
	ReportRunning  ReportStatus = "Running"
	ReportComplete ReportStatus = "Complete"
	ReportFailed   ReportStatus = "Failed"
	ReportNotFound ReportStatus = "NotFound"
)

// Report is the persisted job record the driver writes through to C1.
type Report struct {
	ReportID  string
	Status    ReportStatus
	CreatedAt time.Time
	Payload   []byte
	Reason    string
}
