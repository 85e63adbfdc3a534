// Package temporal implements the Temporal Model (C2): conversion between
// local wall-clock business schedules and UTC instants across IANA zones,
// including deterministic resolution of DST gaps and overlaps.
package temporal

import (
	"fmt"
	"time"
	_ "time/tzdata"

	"github.com/retailops/storewatch/internal/domain"
)

// DefaultTimezone is used for stores with no timezone record.
const DefaultTimezone = "America/Chicago"

// endOfDay is the close-of-day sentinel (23:59:59) a full 24-hour schedule
// entry uses in place of 24:00:00.
const endOfDay = 23*time.Hour + 59*time.Minute + 59*time.Second

// AlwaysOpenSchedule is used for stores with no business_hours rows.
func AlwaysOpenSchedule() domain.BusinessSchedule {
	sched := make(domain.BusinessSchedule, 7)
	for d := 0; d < 7; d++ {
		sched[d] = domain.DayHours{OpenLocal: 0, CloseLocal: endOfDay}
	}
	return sched
}

// ResolveZone loads the IANA zone by name, falling back to DefaultTimezone
// when the identifier is empty or unknown. fellBack is true whenever the
// fallback was used, so the caller can annotate the row.
func ResolveZone(name string) (loc *time.Location, fellBack bool, err error) {
	if name == "" {
		loc, err = time.LoadLocation(DefaultTimezone)
		return loc, true, err
	}
	loc, err = time.LoadLocation(name)
	if err == nil {
		return loc, false, nil
	}
	fallback, ferr := time.LoadLocation(DefaultTimezone)
	if ferr != nil {
		return nil, false, fmt.Errorf("%w: %q (fallback %q also failed: %v)", domain.ErrUnknownZone, name, DefaultTimezone, ferr)
	}
	return fallback, true, nil
}

// BuildWindows returns one store's BusinessWindows for the 8 local calendar
// dates covering [now-7d, now] (7 days back plus today in the store's zone),
// because the local date spanning now-7d may differ from the one spanning
// now due to the zone offset. Windows are not clipped to that interval: on
// the first and last dates a window may extend past it or lie entirely
// outside it.
func BuildWindows(loc *time.Location, schedule domain.BusinessSchedule, now time.Time) []domain.BusinessWindow {
	start := now.Add(-7 * 24 * time.Hour).In(loc)
	end := now.In(loc)

	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, loc)
	last := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, loc)

	var windows []domain.BusinessWindow
	for !day.After(last) {
		dow := mondayZeroWeekday(day.Weekday())
		if hours, ok := schedule[dow]; ok {
			if w, ok := materializeWindow(loc, day, hours); ok {
				windows = append(windows, w)
			}
		}
		day = day.AddDate(0, 0, 1)
	}
	return windows
}

// mondayZeroWeekday converts Go's Sunday=0 weekday to the schedule's
// Monday=0 convention.
func mondayZeroWeekday(w time.Weekday) int {
	return (int(w) + 6) % 7
}

func materializeWindow(loc *time.Location, localMidnight time.Time, hours domain.DayHours) (domain.BusinessWindow, bool) {
	y, m, d := localMidnight.Date()
	start := resolveLocal(loc, y, m, d, hours.OpenLocal)

	var end time.Time
	if hours.CloseLocal == endOfDay {
		// endOfDay is a sentinel for "through midnight", not a literal
		// 23:59:59 close: resolve against the next local date's midnight so
		// a full day is genuinely 24h and adjacent full days tile with no
		// 1-second gap between them.
		next := localMidnight.AddDate(0, 0, 1)
		ny, nm, nd := next.Date()
		end = resolveLocal(loc, ny, nm, nd, 0)
	} else {
		end = resolveLocal(loc, y, m, d, hours.CloseLocal)
	}

	if !end.After(start) {
		return domain.BusinessWindow{}, false
	}
	return domain.BusinessWindow{Start: start, End: end}, true
}

// resolveLocal converts a (date, time-of-day) pair local to loc into a UTC
// instant, resolving ambiguous and non-existent wall clocks deterministically:
// ambiguous times (fall-back) pick the earlier UTC candidate; non-existent
// times (spring-forward) shift forward to the first valid instant.
func resolveLocal(loc *time.Location, year int, month time.Month, day int, timeOfDay time.Duration) time.Time {
	hour := int(timeOfDay / time.Hour)
	rem := timeOfDay % time.Hour
	minute := int(rem / time.Minute)
	sec := int((rem % time.Minute) / time.Second)

	// naive is a zone-less scratch value used only for offset arithmetic;
	// it is never returned.
	naive := time.Date(year, month, day, hour, minute, sec, 0, time.UTC)
	guess := time.Date(year, month, day, hour, minute, sec, 0, loc)

	offBefore := zoneOffsetAt(loc, guess.Add(-36*time.Hour))
	offAfter := zoneOffsetAt(loc, guess.Add(36*time.Hour))

	candBefore := naive.Add(-time.Duration(offBefore) * time.Second)
	candAfter := naive.Add(-time.Duration(offAfter) * time.Second)

	validBefore := reproducesWallClock(candBefore, loc, year, month, day, hour, minute, sec)
	validAfter := reproducesWallClock(candAfter, loc, year, month, day, hour, minute, sec)

	switch {
	case validBefore && validAfter:
		if candBefore.Before(candAfter) {
			return candBefore
		}
		return candAfter
	case validBefore:
		return candBefore
	case validAfter:
		return candAfter
	default:
		return findTransition(loc, guess.Add(-36*time.Hour), guess.Add(36*time.Hour))
	}
}

func zoneOffsetAt(loc *time.Location, t time.Time) int {
	_, off := t.In(loc).Zone()
	return off
}

func reproducesWallClock(t time.Time, loc *time.Location, year int, month time.Month, day, hour, minute, sec int) bool {
	lt := t.In(loc)
	y2, m2, d2 := lt.Date()
	h2, mi2, s2 := lt.Clock()
	return y2 == year && m2 == month && d2 == day && h2 == hour && mi2 == minute && s2 == sec
}

// findTransition binary-searches [lo, hi] — lo before the gap, hi after —
// for the instant the zone's offset changes, returning the first instant
// carrying the post-transition offset.
func findTransition(loc *time.Location, lo, hi time.Time) time.Time {
	offLo := zoneOffsetAt(loc, lo)
	for hi.Sub(lo) > time.Second {
		mid := lo.Add(hi.Sub(lo) / 2)
		if zoneOffsetAt(loc, mid) == offLo {
			lo = mid
		} else {
			hi = mid
		}
	}
	// hi now lies less than a second after the transition; zone transitions
	// fall on whole seconds, so truncating recovers the exact instant.
	return hi.Truncate(time.Second)
}
