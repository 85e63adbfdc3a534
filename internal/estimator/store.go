package estimator

import (
	"context"
	"time"

	"github.com/retailops/storewatch/internal/domain"
	"github.com/retailops/storewatch/internal/log"
	"github.com/retailops/storewatch/internal/repositories"
	"github.com/retailops/storewatch/internal/temporal"
)

// EstimateStore is the Per-Store Estimator (C6): a pure function of
// (store_id, now) plus its data-access handles. It orchestrates C2-C5 for
// one store and never returns an error for conditions the spec says must
// be contained to that store's row: an unknown zone or empty poll history
// becomes a Warning, and polls or schedule entries that fail to parse are
// dropped by the repositories without adding a Warning. It returns an error only
// for failures that should escalate the row to "Failed" (a data-access
// error surviving the repository's own retry policy).
func EstimateStore(
	ctx context.Context,
	storeID string,
	now time.Time,
	polls repositories.PollRepository,
	schedules repositories.ScheduleRepository,
	timezones repositories.TimezoneRepository,
	logger *log.Logger,
) (domain.ReportRow, error) {
	row := domain.ReportRow{StoreID: storeID}

	zoneName, zoneOK, err := timezones.ForStore(ctx, storeID)
	if err != nil {
		return row, err
	}
	if !zoneOK {
		zoneName = ""
	}
	loc, fellBack, err := temporal.ResolveZone(zoneName)
	if err != nil {
		return row, err
	}
	if fellBack {
		row.Warnings = append(row.Warnings, "unknown_timezone")
		logger.Warn("timezone fallback", "store_id", storeID, "requested", zoneName)
	}

	schedule, scheduleOK, err := schedules.ForStore(ctx, storeID)
	if err != nil {
		return row, err
	}
	if !scheduleOK {
		schedule = temporal.AlwaysOpenSchedule()
	}

	periodStart := now.Add(-7 * 24 * time.Hour)
	pollRows, err := polls.InRange(ctx, storeID, periodStart, now)
	if err != nil {
		return row, err
	}
	if len(pollRows) == 0 {
		row.Warnings = append(row.Warnings, "no_polls")
	}

	windows := temporal.BuildWindows(loc, schedule, now)
	segments := BuildStatusSignal(pollRows, periodStart, now)
	agg := Aggregate(windows, segments, now)

	row.UptimeLastHour = agg.Hour.Uptime
	row.DowntimeLastHour = agg.Hour.Downtime
	row.UptimeLastDay = agg.Day.Uptime
	row.DowntimeLastDay = agg.Day.Downtime
	row.UptimeLastWeek = agg.Week.Uptime
	row.DowntimeLastWeek = agg.Week.Downtime

	return row, nil
}
