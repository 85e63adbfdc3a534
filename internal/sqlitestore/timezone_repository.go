package sqlitestore

import (
	"context"
	"database/sql"
	"fmt"
)

// TimezoneRepository reads the timezones table.
type TimezoneRepository struct {
	db *DB
}

func NewTimezoneRepository(db *DB) *TimezoneRepository {
	return &TimezoneRepository{db: db}
}

func (r *TimezoneRepository) DistinctStoreIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := withRetry(ctx, func() error {
		ids = nil
		rows, err := r.db.conn.QueryContext(ctx, "SELECT store_id FROM timezones")
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var id string
			if err := rows.Scan(&id); err != nil {
				return err
			}
			ids = append(ids, id)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: distinct timezone store ids: %w", err)
	}
	return ids, nil
}

func (r *TimezoneRepository) ForStore(ctx context.Context, storeID string) (string, bool, error) {
	var zone string
	var found bool
	err := withRetry(ctx, func() error {
		found = true
		err := r.db.conn.QueryRowContext(ctx, "SELECT timezone_str FROM timezones WHERE store_id = ?", storeID).Scan(&zone)
		if err == sql.ErrNoRows {
			found = false
			return nil
		}
		return err
	})
	if err != nil {
		return "", false, fmt.Errorf("sqlitestore: timezone for %s: %w", storeID, err)
	}
	return zone, found, nil
}
