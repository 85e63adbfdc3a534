package estimator

import (
	"sort"
	"time"

	"github.com/retailops/storewatch/internal/domain"
)

// Accumulate computes (uptime, downtime) durations for the intersection of
// status segments S and business windows B via a merge-sweep over sorted
// endpoints, giving O((|S|+|B|) log(...)) behavior instead of the nested
// O(|S|*|B|) reference form. No I/O is ever performed here.
func Accumulate(segments []domain.StatusSegment, windows []domain.BusinessWindow) domain.Totals {
	if len(segments) == 0 || len(windows) == 0 {
		return domain.Totals{}
	}

	sorted := make([]domain.BusinessWindow, len(windows))
	copy(sorted, windows)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start.Before(sorted[j].Start) })

	var totals domain.Totals
	// Windows are few (<=8 per store) and never overlap each other in
	// practice, so a linear scan with a moving start pointer is a simple,
	// correct sweep: for every segment, skip windows that end at or before
	// the segment, accumulate overlap with the rest, stop once a window
	// starts at or after the segment's end. Segments arrive in ascending
	// order (as BuildStatusSignal emits them), so a window skipped for one
	// segment can never overlap a later one.
	first := 0
	for _, seg := range segments {
		for first < len(sorted) && !sorted[first].End.After(seg.Start) {
			first++
		}
		for _, win := range sorted[first:] {
			if !win.End.After(seg.Start) {
				continue
			}
			if !win.Start.Before(seg.End) {
				break
			}
			overlap := overlapDuration(seg.Start, seg.End, win.Start, win.End)
			if overlap <= 0 {
				continue
			}
			if seg.Status == domain.StatusActive {
				totals.Uptime += overlap
			} else {
				totals.Downtime += overlap
			}
		}
	}
	return totals
}

func overlapDuration(aStart, aEnd, bStart, bEnd time.Time) time.Duration {
	start := aStart
	if bStart.After(start) {
		start = bStart
	}
	end := aEnd
	if bEnd.Before(end) {
		end = bEnd
	}
	d := end.Sub(start)
	if d < 0 {
		return 0
	}
	return d
}
