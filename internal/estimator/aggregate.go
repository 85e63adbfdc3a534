package estimator

import (
	"time"

	"github.com/retailops/storewatch/internal/domain"
)

// Report is the (hour, day, week) projection of one store's accumulated
// totals, still expressed as exact durations; rounding to the reporting
// units happens at render time.
type Report struct {
	Hour domain.Totals
	Day  domain.Totals
	Week domain.Totals
}

// Aggregate derives the three reporting windows from a store's business
// windows and status segments. Each window is obtained by clipping the
// business windows to the reporting interval and re-running the overlap
// accumulator — never by dividing the week total by a fixed factor, which
// is wrong whenever the data horizon is shorter than the reporting window.
func Aggregate(windows []domain.BusinessWindow, segments []domain.StatusSegment, now time.Time) Report {
	week := Accumulate(segments, windows)
	day := Accumulate(segments, ClipWindows(windows, now.Add(-24*time.Hour), now))
	hour := Accumulate(segments, ClipWindows(windows, now.Add(-1*time.Hour), now))
	return Report{Hour: hour, Day: day, Week: week}
}

// ClipWindows intersects each business window with [clipStart, clipEnd),
// dropping windows (or the portion of a window) outside that range.
func ClipWindows(windows []domain.BusinessWindow, clipStart, clipEnd time.Time) []domain.BusinessWindow {
	clipped := make([]domain.BusinessWindow, 0, len(windows))
	for _, w := range windows {
		start := w.Start
		if clipStart.After(start) {
			start = clipStart
		}
		end := w.End
		if clipEnd.Before(end) {
			end = clipEnd
		}
		if end.After(start) {
			clipped = append(clipped, domain.BusinessWindow{Start: start, End: end})
		}
	}
	return clipped
}

// ScheduledDuration sums a set of business windows, used by callers that
// need total business-hour duration inside a window (e.g. property tests
// checking the budget-bound invariant).
func ScheduledDuration(windows []domain.BusinessWindow) time.Duration {
	var total time.Duration
	for _, w := range windows {
		total += w.Duration()
	}
	return total
}
