// Package report implements the Report Driver (C7): it discovers the store
// universe, resolves the reference instant, fans the Per-Store Estimator
// out across a bounded worker pool, and assembles the final payload.
package report

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/retailops/storewatch/internal/domain"
	"github.com/retailops/storewatch/internal/estimator"
	"github.com/retailops/storewatch/internal/log"
	"github.com/retailops/storewatch/internal/repositories"
	"github.com/retailops/storewatch/internal/reportcsv"
)

// PerStoreTimeout bounds a single C6 invocation; a deadline miss marks that
// store's row "timeout" and the driver continues.
const PerStoreTimeout = 30 * time.Second

// Driver orchestrates one report job. It holds no state across jobs beyond
// its repository handles, so a single Driver can be reused to generate
// many reports.
type Driver struct {
	Polls     repositories.PollRepository
	Schedules repositories.ScheduleRepository
	Timezones repositories.TimezoneRepository
	Reports   repositories.ReportRepository
	Logger    *log.Logger

	// WorkerCount bounds the fan-out; defaults to runtime.NumCPU() when
	// zero, per the reference pool-size choice.
	WorkerCount int
}

// Run executes one report end to end: create -> compute now -> discover
// stores -> fan out C6 -> render CSV -> complete/fail. It returns an error
// only when the report record cannot be created or marked complete; other
// failures (NoData, a cancellation) are written to the report record itself.
func (d *Driver) Run(ctx context.Context, reportID string, wallClockNow time.Time) error {
	logger := d.Logger.With("report-driver")

	if err := d.Reports.Create(ctx, reportID, wallClockNow); err != nil {
		return fmt.Errorf("create report %s: %w", reportID, err)
	}

	now, err := d.Polls.MaxTimestamp(ctx)
	if err != nil {
		d.fail(ctx, logger, reportID, err)
		return nil
	}

	storeIDs, err := d.storeUniverse(ctx)
	if err != nil {
		d.fail(ctx, logger, reportID, err)
		return nil
	}

	rows, err := d.collectRows(ctx, logger, storeIDs, now)
	if err != nil {
		d.fail(ctx, logger, reportID, err)
		return nil
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].StoreID < rows[j].StoreID })

	payload, err := reportcsv.Render(rows)
	if err != nil {
		d.fail(ctx, logger, reportID, err)
		return nil
	}

	if err := d.Reports.Complete(ctx, reportID, payload); err != nil {
		return fmt.Errorf("complete report %s: %w", reportID, err)
	}
	logger.Info("report complete", "report_id", reportID, "stores", len(rows))
	return nil
}

func (d *Driver) fail(ctx context.Context, logger *log.Logger, reportID string, cause error) {
	logger.Error("report failed", "report_id", reportID, "reason", cause)
	reason := cause.Error()
	if ctx.Err() != nil {
		reason = "cancelled"
	}
	// The failure must be persisted even when ctx itself was cancelled.
	if err := d.Reports.Fail(context.WithoutCancel(ctx), reportID, reason); err != nil {
		logger.Error("failed to persist report failure", "report_id", reportID, "error", err)
	}
}

func (d *Driver) storeUniverse(ctx context.Context) ([]string, error) {
	seen := make(map[string]struct{})

	addAll := func(ids []string, err error) error {
		if err != nil {
			return err
		}
		for _, id := range ids {
			seen[id] = struct{}{}
		}
		return nil
	}

	pollIDs, err := d.Polls.DistinctStoreIDs(ctx)
	if err := addAll(pollIDs, err); err != nil {
		return nil, fmt.Errorf("distinct store ids (polls): %w", err)
	}
	scheduleIDs, err := d.Schedules.DistinctStoreIDs(ctx)
	if err := addAll(scheduleIDs, err); err != nil {
		return nil, fmt.Errorf("distinct store ids (schedules): %w", err)
	}
	tzIDs, err := d.Timezones.DistinctStoreIDs(ctx)
	if err := addAll(tzIDs, err); err != nil {
		return nil, fmt.Errorf("distinct store ids (timezones): %w", err)
	}

	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	return ids, nil
}

// collectRows fans estimator.EstimateStore out across a bounded worker pool.
// Each task carries its own per-store deadline; cancelling ctx stops new
// dispatch and discards outstanding results.
func (d *Driver) collectRows(ctx context.Context, logger *log.Logger, storeIDs []string, now time.Time) ([]domain.ReportRow, error) {
	workers := d.WorkerCount
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	type result struct {
		row domain.ReportRow
	}

	sem := make(chan struct{}, workers)
	results := make(chan result, len(storeIDs))
	var wg sync.WaitGroup

	for _, storeID := range storeIDs {
		select {
		case <-ctx.Done():
			// No new C6 tasks are dispatched after cancellation.
			wg.Wait()
			close(results)
			return nil, ctx.Err()
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(storeID string) {
			defer wg.Done()
			defer func() { <-sem }()

			storeCtx, cancel := context.WithTimeout(ctx, PerStoreTimeout)
			defer cancel()

			row, err := estimator.EstimateStore(storeCtx, storeID, now, d.Polls, d.Schedules, d.Timezones, logger)
			if err != nil {
				if storeCtx.Err() == context.DeadlineExceeded {
					row = domain.ReportRow{StoreID: storeID, Warnings: []string{"timeout"}}
				} else {
					row = domain.ReportRow{StoreID: storeID, Warnings: []string{fmt.Sprintf("failed: %v", err)}}
				}
				logger.Warn("store estimation failed", "store_id", storeID, "error", err)
			}
			results <- result{row: row}
		}(storeID)
	}

	wg.Wait()
	close(results)

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	rows := make([]domain.ReportRow, 0, len(storeIDs))
	for r := range results {
		rows = append(rows, r.row)
	}
	return rows, nil
}
