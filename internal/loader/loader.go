// Package loader bulk-loads the three source CSVs (store_status,
// business_hours, timezones) into the sqlitestore schema, one transaction
// per file, so a partially-read CSV never leaves the tables half-written.
package loader

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/retailops/storewatch/internal/domain"
	"github.com/retailops/storewatch/internal/sqlitestore"
)

// Result reports how many rows were inserted from each recognized file.
type Result struct {
	StoreStatusRows  int
	BusinessHoursRows int
	TimezonesRows    int
}

// LoadDir reads store_status.csv, business_hours.csv, and timezones.csv out
// of dir (any subset may be absent) and inserts their rows into db
// (business_hours and timezones rows replace any row with the same key). Column
// order is taken from each file's header, so "dayOfWeek" and "day_of_week"
// are both accepted for business_hours.
func LoadDir(ctx context.Context, db *sqlitestore.DB, dir string) (Result, error) {
	var result Result

	if n, err := loadStoreStatus(ctx, db, filepath.Join(dir, "store_status.csv")); err != nil {
		return result, err
	} else {
		result.StoreStatusRows = n
	}

	if n, err := loadBusinessHours(ctx, db, filepath.Join(dir, "business_hours.csv")); err != nil {
		return result, err
	} else {
		result.BusinessHoursRows = n
	}

	if n, err := loadTimezones(ctx, db, filepath.Join(dir, "timezones.csv")); err != nil {
		return result, err
	} else {
		result.TimezonesRows = n
	}

	return result, nil
}

func openCSV(path string) (*csv.Reader, *os.File, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("loader: open %s: %w", path, err)
	}
	return csv.NewReader(f), f, nil
}

// columnIndex maps header names to position, matching name first and
// falling back to a provided alias (all matches are case-sensitive).
func columnIndex(header []string, name string, aliases ...string) int {
	for i, h := range header {
		if h == name {
			return i
		}
	}
	for _, alias := range aliases {
		for i, h := range header {
			if h == alias {
				return i
			}
		}
	}
	return -1
}

func loadStoreStatus(ctx context.Context, db *sqlitestore.DB, path string) (int, error) {
	r, f, err := openCSV(path)
	if err != nil || r == nil {
		return 0, err
	}
	defer f.Close()

	header, err := r.Read()
	if err != nil {
		return 0, fmt.Errorf("loader: read header of %s: %w", path, err)
	}
	storeIdx := columnIndex(header, "store_id")
	statusIdx := columnIndex(header, "status")
	tsIdx := columnIndex(header, "timestamp_utc")
	if storeIdx < 0 || statusIdx < 0 || tsIdx < 0 {
		return 0, fmt.Errorf("loader: %s: missing required columns", path)
	}

	return withTx(ctx, db, func(tx *sql.Tx) (int, error) {
		stmt, err := tx.PrepareContext(ctx, `INSERT INTO store_status (store_id, status, timestamp_utc) VALUES (?, ?, ?)`)
		if err != nil {
			return 0, err
		}
		defer stmt.Close()

		count := 0
		for {
			record, err := r.Read()
			if err == io.EOF {
				break
			}
			if err != nil {
				return count, fmt.Errorf("loader: read %s: %w", path, err)
			}
			// Source rows arrive in either the ISO or legacy "... UTC"
			// encoding; both must be normalized to one sortable form here,
			// since store_status.timestamp_utc is range-filtered and
			// MAX()'d as TEXT.
			ts, perr := domain.ParseTimestamp(record[tsIdx])
			if perr != nil {
				continue
			}
			if _, err := stmt.ExecContext(ctx, record[storeIdx], record[statusIdx], domain.FormatTimestamp(ts)); err != nil {
				return count, fmt.Errorf("loader: insert store_status row: %w", err)
			}
			count++
		}
		return count, nil
	})
}

func loadBusinessHours(ctx context.Context, db *sqlitestore.DB, path string) (int, error) {
	r, f, err := openCSV(path)
	if err != nil || r == nil {
		return 0, err
	}
	defer f.Close()

	header, err := r.Read()
	if err != nil {
		return 0, fmt.Errorf("loader: read header of %s: %w", path, err)
	}
	storeIdx := columnIndex(header, "store_id")
	dayIdx := columnIndex(header, "day_of_week", "dayOfWeek")
	startIdx := columnIndex(header, "start_time_local")
	endIdx := columnIndex(header, "end_time_local")
	if storeIdx < 0 || dayIdx < 0 || startIdx < 0 || endIdx < 0 {
		return 0, fmt.Errorf("loader: %s: missing required columns", path)
	}

	return withTx(ctx, db, func(tx *sql.Tx) (int, error) {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO business_hours (store_id, day_of_week, start_time_local, end_time_local)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(store_id, day_of_week) DO UPDATE SET
				start_time_local = excluded.start_time_local,
				end_time_local = excluded.end_time_local`)
		if err != nil {
			return 0, err
		}
		defer stmt.Close()

		count := 0
		for {
			record, err := r.Read()
			if err == io.EOF {
				break
			}
			if err != nil {
				return count, fmt.Errorf("loader: read %s: %w", path, err)
			}
			day, err := strconv.Atoi(record[dayIdx])
			if err != nil {
				return count, fmt.Errorf("loader: %s: non-numeric day_of_week %q", path, record[dayIdx])
			}
			if _, err := stmt.ExecContext(ctx, record[storeIdx], day, record[startIdx], record[endIdx]); err != nil {
				return count, fmt.Errorf("loader: insert business_hours row: %w", err)
			}
			count++
		}
		return count, nil
	})
}

func loadTimezones(ctx context.Context, db *sqlitestore.DB, path string) (int, error) {
	r, f, err := openCSV(path)
	if err != nil || r == nil {
		return 0, err
	}
	defer f.Close()

	header, err := r.Read()
	if err != nil {
		return 0, fmt.Errorf("loader: read header of %s: %w", path, err)
	}
	storeIdx := columnIndex(header, "store_id")
	zoneIdx := columnIndex(header, "timezone_str")
	if storeIdx < 0 || zoneIdx < 0 {
		return 0, fmt.Errorf("loader: %s: missing required columns", path)
	}

	return withTx(ctx, db, func(tx *sql.Tx) (int, error) {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO timezones (store_id, timezone_str) VALUES (?, ?)
			ON CONFLICT(store_id) DO UPDATE SET timezone_str = excluded.timezone_str`)
		if err != nil {
			return 0, err
		}
		defer stmt.Close()

		count := 0
		for {
			record, err := r.Read()
			if err == io.EOF {
				break
			}
			if err != nil {
				return count, fmt.Errorf("loader: read %s: %w", path, err)
			}
			if _, err := stmt.ExecContext(ctx, record[storeIdx], record[zoneIdx]); err != nil {
				return count, fmt.Errorf("loader: insert timezones row: %w", err)
			}
			count++
		}
		return count, nil
	})
}

func withTx(ctx context.Context, db *sqlitestore.DB, fn func(*sql.Tx) (int, error)) (int, error) {
	tx, err := db.Conn().BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("loader: begin transaction: %w", err)
	}
	defer tx.Rollback()

	count, err := fn(tx)
	if err != nil {
		return count, err
	}
	if err := tx.Commit(); err != nil {
		return count, fmt.Errorf("loader: commit transaction: %w", err)
	}
	return count, nil
}
