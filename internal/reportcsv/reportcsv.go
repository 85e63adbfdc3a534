// Package reportcsv renders ReportRows as the fixed-header CSV payload the
// report driver persists and the HTTP API streams back to callers.
package reportcsv

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"math"
	"time"

	"github.com/retailops/storewatch/internal/domain"
)

// Header is the report's fixed column order.
var Header = []string{
	"store_id",
	"uptime_last_hour",
	"uptime_last_day",
	"uptime_last_week",
	"downtime_last_hour",
	"downtime_last_day",
	"downtime_last_week",
}

// Render produces the CSV payload: fixed header, two-decimal half-to-even
// rounded values, "\n" line terminator, rows already expected to be sorted
// by store_id (the driver sorts before calling this).
func Render(rows []domain.ReportRow) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(Header); err != nil {
		return nil, err
	}

	for _, row := range rows {
		record := []string{
			row.StoreID,
			formatMinutes(row.UptimeLastHour),
			formatHours(row.UptimeLastDay),
			formatHours(row.UptimeLastWeek),
			formatMinutes(row.DowntimeLastHour),
			formatHours(row.DowntimeLastDay),
			formatHours(row.DowntimeLastWeek),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatMinutes(d time.Duration) string { return roundHalfToEven(d.Minutes()) }
func formatHours(d time.Duration) string   { return roundHalfToEven(d.Hours()) }

// roundHalfToEven formats v to two decimal places, rounding exact halves to
// the nearest even hundredth (banker's rounding) rather than always away
// from zero.
func roundHalfToEven(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}

	scaled := v * 100
	floor := math.Floor(scaled)
	diff := scaled - floor

	const epsilon = 1e-9
	var rounded float64
	switch {
	case diff > 0.5+epsilon:
		rounded = floor + 1
	case diff < 0.5-epsilon:
		rounded = floor
	default: // exact half: round to the even neighbor
		if math.Mod(floor, 2) == 0 {
			rounded = floor
		} else {
			rounded = floor + 1
		}
	}

	result := rounded / 100
	if neg && result != 0 {
		result = -result
	}
	return fmt.Sprintf("%.2f", result)
}
