// Package estimator implements the Status Signal (C3), Overlap Accumulator
// (C4), Window Aggregator (C5), and Per-Store Estimator (C6): the core
// uptime/downtime math the report driver fans out across its worker pool.
package estimator

import (
	"time"

	"github.com/retailops/storewatch/internal/domain"
)

// BuildStatusSignal turns a sparse, ascending poll sequence restricted to
// [periodStart, now] into a piecewise-constant status signal covering
// exactly [periodStart, now). The first observed status is carried back to
// cover the unobserved prefix (carry-back, not a fixed optimistic
// assumption); an empty sequence yields a single "active" segment covering
// the whole period — the only place this estimator invents data, flagged by
// the caller as the "no_polls" warning.
//
// Duplicate timestamps are resolved by keeping the first poll by input
// order and dropping the zero-length segment that would otherwise result.
func BuildStatusSignal(polls []domain.Poll, periodStart, now time.Time) []domain.StatusSegment {
	if len(polls) == 0 {
		return []domain.StatusSegment{{Start: periodStart, End: now, Status: domain.StatusActive}}
	}

	segments := make([]domain.StatusSegment, 0, len(polls)+1)
	cursor := periodStart
	// carry-back: the first poll's status extends backward through the
	// unobserved prefix, and remains in effect until the next distinct
	// poll timestamp.
	currentStatus := polls[0].Status

	for i, p := range polls {
		if i > 0 && !p.Timestamp.After(cursor) {
			// Duplicate (or out-of-order) timestamp: the first poll by
			// input order already set currentStatus/cursor; this one is
			// discarded entirely.
			continue
		}
		if p.Timestamp.After(cursor) {
			segments = append(segments, domain.StatusSegment{Start: cursor, End: p.Timestamp, Status: currentStatus})
			cursor = p.Timestamp
		}
		currentStatus = p.Status
	}

	if cursor.Before(now) {
		segments = append(segments, domain.StatusSegment{Start: cursor, End: now, Status: currentStatus})
	}

	return segments
}
