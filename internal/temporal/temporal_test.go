package temporal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailops/storewatch/internal/domain"
)

func mustLoad(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	require.NoError(t, err)
	return loc
}

func TestResolveZoneFallsBackOnUnknown(t *testing.T) {
	loc, fellBack, err := ResolveZone("Not/AZone")
	require.NoError(t, err)
	assert.True(t, fellBack)
	assert.Equal(t, DefaultTimezone, loc.String())
}

func TestResolveZoneEmptyFallsBack(t *testing.T) {
	loc, fellBack, err := ResolveZone("")
	require.NoError(t, err)
	assert.True(t, fellBack)
	assert.Equal(t, DefaultTimezone, loc.String())
}

func TestResolveZoneKnown(t *testing.T) {
	loc, fellBack, err := ResolveZone("America/New_York")
	require.NoError(t, err)
	assert.False(t, fellBack)
	assert.Equal(t, "America/New_York", loc.String())
}

// TestBuildWindowsAlwaysOpen covers S1/S2: a UTC 24x7 store yields exactly
// one 24h window per local calendar day across the 8-date enumeration.
func TestBuildWindowsAlwaysOpen(t *testing.T) {
	now := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)
	windows := BuildWindows(time.UTC, AlwaysOpenSchedule(), now)

	require.Len(t, windows, 8)
	var total time.Duration
	for _, w := range windows {
		total += w.Duration()
		assert.True(t, w.End.After(w.Start))
		assert.Equal(t, 24*time.Hour, w.Duration())
	}
	assert.Equal(t, 8*24*time.Hour, total)
}

// TestBuildWindowsNineToFive covers S3: business hours 09:00-17:00 local,
// Mon-Fri, in America/New_York.
func TestBuildWindowsNineToFive(t *testing.T) {
	loc := mustLoad(t, "America/New_York")
	schedule := domain.BusinessSchedule{}
	for d := 0; d < 5; d++ { // Mon-Fri
		schedule[d] = domain.DayHours{OpenLocal: 9 * time.Hour, CloseLocal: 17 * time.Hour}
	}

	now := time.Date(2024, 1, 14, 12, 0, 0, 0, time.UTC) // a Sunday
	windows := BuildWindows(loc, schedule, now)

	var total time.Duration
	for _, w := range windows {
		total += w.Duration()
	}
	assert.Equal(t, 40*time.Hour, total)
}

// TestResolveLocalSpringForwardGap covers S6: 2024-03-10 02:30 America/New_York
// never occurred; resolveLocal must shift forward past the gap to 03:00.
func TestResolveLocalSpringForwardGap(t *testing.T) {
	loc := mustLoad(t, "America/New_York")
	got := resolveLocal(loc, 2024, time.March, 10, 2*time.Hour+30*time.Minute)

	before := got.Add(-time.Second).In(loc)
	after := got.In(loc)
	assert.Equal(t, 1, before.Hour())
	assert.Equal(t, 3, after.Hour())
}

// TestResolveLocalFallBackOverlap covers the ambiguous case: 2024-11-03
// 01:30 America/New_York occurs twice; resolveLocal picks the earlier UTC
// instant.
func TestResolveLocalFallBackOverlap(t *testing.T) {
	loc := mustLoad(t, "America/New_York")
	got := resolveLocal(loc, 2024, time.November, 3, 1*time.Hour+30*time.Minute)

	_, offset := got.In(loc).Zone()
	// The earlier occurrence of 01:30 is still in EDT (UTC-4).
	assert.Equal(t, -4*3600, offset)
}

func TestMaterializeWindowDropsZeroLength(t *testing.T) {
	_, ok := materializeWindow(time.UTC, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), domain.DayHours{OpenLocal: 9 * time.Hour, CloseLocal: 9 * time.Hour})
	assert.False(t, ok)
}
