package estimator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailops/storewatch/internal/domain"
)

var week = 7 * 24 * time.Hour

func TestBuildStatusSignalEmptyPolls(t *testing.T) {
	now := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)
	start := now.Add(-week)

	segs := BuildStatusSignal(nil, start, now)
	require.Len(t, segs, 1)
	assert.Equal(t, domain.StatusActive, segs[0].Status)
	assert.Equal(t, start, segs[0].Start)
	assert.Equal(t, now, segs[0].End)
}

func TestBuildStatusSignalSinglePoll(t *testing.T) {
	now := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)
	start := now.Add(-week)
	pollTime := now.Add(-3 * 24 * time.Hour)

	segs := BuildStatusSignal([]domain.Poll{{Timestamp: pollTime, Status: domain.StatusInactive}}, start, now)
	require.Len(t, segs, 2)
	assert.Equal(t, domain.StatusInactive, segs[0].Status)
	assert.Equal(t, domain.StatusInactive, segs[1].Status)
	assert.Equal(t, start, segs[0].Start)
	assert.Equal(t, pollTime, segs[0].End)
	assert.Equal(t, pollTime, segs[1].Start)
	assert.Equal(t, now, segs[1].End)
}

func TestBuildStatusSignalPartitionsContiguously(t *testing.T) {
	now := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)
	start := now.Add(-week)
	polls := []domain.Poll{
		{Timestamp: start.Add(1 * time.Hour), Status: domain.StatusActive},
		{Timestamp: start.Add(2 * time.Hour), Status: domain.StatusInactive},
		{Timestamp: start.Add(3 * time.Hour), Status: domain.StatusActive},
	}

	segs := BuildStatusSignal(polls, start, now)
	require.NotEmpty(t, segs)
	assert.Equal(t, start, segs[0].Start)
	assert.Equal(t, now, segs[len(segs)-1].End)
	for i := 1; i < len(segs); i++ {
		assert.Equal(t, segs[i-1].End, segs[i].Start, "segment %d must start where %d ended", i, i-1)
	}
}

func TestBuildStatusSignalDuplicateTimestampKeepsFirst(t *testing.T) {
	now := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)
	start := now.Add(-week)
	dup := start.Add(time.Hour)
	polls := []domain.Poll{
		{Timestamp: dup, Status: domain.StatusActive},
		{Timestamp: dup, Status: domain.StatusInactive}, // duplicate, discarded
		{Timestamp: dup.Add(time.Hour), Status: domain.StatusInactive},
	}

	segs := BuildStatusSignal(polls, start, now)
	// prefix [start,dup) carries the first poll's (active) status
	assert.Equal(t, domain.StatusActive, segs[0].Status)
	for _, s := range segs {
		assert.False(t, s.Start.Equal(s.End), "no zero-length segments")
	}
}

func TestBuildStatusSignalCarryBack(t *testing.T) {
	// S4: single poll at now-3d, status=inactive, no earlier polls.
	now := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)
	start := now.Add(-week)
	pollTime := now.Add(-3 * 24 * time.Hour)

	segs := BuildStatusSignal([]domain.Poll{{Timestamp: pollTime, Status: domain.StatusInactive}}, start, now)
	for _, s := range segs {
		assert.Equal(t, domain.StatusInactive, s.Status)
	}
}
