// Package repositories defines the data access contract (C1): the typed
// read operations the estimator consumes over polls, schedules, and
// timezones, and the write operations the report driver uses to carry a
// report record through its lifecycle. Concrete implementations live in
// internal/sqlitestore.
package repositories

import (
	"context"
	"time"

	"github.com/retailops/storewatch/internal/domain"
)

// PollRepository reads store status observations.
type PollRepository interface {
	// DistinctStoreIDs returns every store_id that has ever been polled.
	DistinctStoreIDs(ctx context.Context) ([]string, error)

	// MaxTimestamp returns the latest poll timestamp across all stores.
	// Returns domain.ErrNoData when the table is empty.
	MaxTimestamp(ctx context.Context) (time.Time, error)

	// InRange returns polls for one store ordered ascending by timestamp,
	// inclusive on both bounds.
	InRange(ctx context.Context, storeID string, start, end time.Time) ([]domain.Poll, error)
}

// ScheduleRepository reads weekly business-hour schedules.
type ScheduleRepository interface {
	DistinctStoreIDs(ctx context.Context) ([]string, error)

	// ForStore returns the store's schedule, or ok=false when the store
	// has no parseable schedule rows (caller treats this as always-open).
	ForStore(ctx context.Context, storeID string) (schedule domain.BusinessSchedule, ok bool, err error)
}

// TimezoneRepository reads per-store IANA timezone identifiers.
type TimezoneRepository interface {
	DistinctStoreIDs(ctx context.Context) ([]string, error)

	// ForStore returns the store's IANA zone identifier, or ok=false when
	// no record exists (caller falls back to America/Chicago).
	ForStore(ctx context.Context, storeID string) (zone string, ok bool, err error)
}

// ReportRepository persists the Report lifecycle.
type ReportRepository interface {
	Create(ctx context.Context, reportID string, createdAt time.Time) error
	Complete(ctx context.Context, reportID string, payload []byte) error
	Fail(ctx context.Context, reportID string, reason string) error

	// Lookup returns a NotFound report (not an error) when no record with
	// this ID exists.
	Lookup(ctx context.Context, reportID string) (domain.Report, error)
}
