package sqlitestore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailops/storewatch/internal/domain"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	cfg := DefaultConfig(filepath.Join(t.TempDir(), "storewatch.db"))
	db, err := Open(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpenAppliesSchema(t *testing.T) {
	db := openTestDB(t)
	var name string
	err := db.conn.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='store_status'").Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "store_status", name)
}

func TestOpenRejectsEmptyPath(t *testing.T) {
	_, err := Open(Config{})
	assert.Error(t, err)
}

func TestPollRepositoryRoundTrip(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	_, err := db.conn.ExecContext(ctx, `INSERT INTO store_status (store_id, status, timestamp_utc) VALUES
		('store-1', 'active', '2024-01-01T00:00:00Z'),
		('store-1', 'inactive', '2024-01-01T05:00:00Z'),
		('store-2', 'active', '2024-01-01T00:00:00Z')`)
	require.NoError(t, err)

	polls := NewPollRepository(db)

	ids, err := polls.DistinctStoreIDs(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"store-1", "store-2"}, ids)

	maxTS, err := polls.MaxTimestamp(ctx)
	require.NoError(t, err)
	assert.True(t, maxTS.Equal(time.Date(2024, 1, 1, 5, 0, 0, 0, time.UTC)))

	rows, err := polls.InRange(ctx, "store-1", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 1, 6, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, domain.StatusActive, rows[0].Status)
	assert.Equal(t, domain.StatusInactive, rows[1].Status)
}

func TestPollRepositoryEmptyTableIsNoData(t *testing.T) {
	db := openTestDB(t)
	polls := NewPollRepository(db)
	_, err := polls.MaxTimestamp(context.Background())
	assert.ErrorIs(t, err, domain.ErrNoData)
}

func TestScheduleRepositoryMissingStoreIsAlwaysOpen(t *testing.T) {
	db := openTestDB(t)
	schedules := NewScheduleRepository(db)
	schedule, ok, err := schedules.ForStore(context.Background(), "unknown-store")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, schedule)
}

func TestScheduleRepositoryParsesTimeOfDay(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	_, err := db.conn.ExecContext(ctx, `INSERT INTO business_hours (store_id, day_of_week, start_time_local, end_time_local)
		VALUES ('store-1', 0, '09:00:00', '17:00:00')`)
	require.NoError(t, err)

	schedules := NewScheduleRepository(db)
	schedule, ok, err := schedules.ForStore(ctx, "store-1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Contains(t, schedule, 0)
	assert.Equal(t, 9*time.Hour, schedule[0].OpenLocal)
	assert.Equal(t, 17*time.Hour, schedule[0].CloseLocal)
}

func TestTimezoneRepositoryMissingStore(t *testing.T) {
	db := openTestDB(t)
	tz, ok, err := NewTimezoneRepository(db).ForStore(context.Background(), "unknown-store")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "", tz)
}

func TestReportRepositoryLifecycle(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	reports := NewReportRepository(db)

	require.NoError(t, reports.Create(ctx, "r1", time.Now()))

	rep, err := reports.Lookup(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, domain.ReportRunning, rep.Status)

	require.NoError(t, reports.Complete(ctx, "r1", []byte("store_id,uptime_last_hour\n")))
	rep, err = reports.Lookup(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, domain.ReportComplete, rep.Status)
	assert.Equal(t, []byte("store_id,uptime_last_hour\n"), rep.Payload)
}

func TestReportRepositoryLookupNotFound(t *testing.T) {
	db := openTestDB(t)
	rep, err := NewReportRepository(db).Lookup(context.Background(), "missing")
	require.NoError(t, err)
	assert.Equal(t, domain.ReportNotFound, rep.Status)
}

func TestReportRepositoryFail(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	reports := NewReportRepository(db)
	require.NoError(t, reports.Create(ctx, "r2", time.Now()))
	require.NoError(t, reports.Fail(ctx, "r2", "cancelled"))

	rep, err := reports.Lookup(ctx, "r2")
	require.NoError(t, err)
	assert.Equal(t, domain.ReportFailed, rep.Status)
	assert.Equal(t, "cancelled", rep.Reason)
}
