package sqlitestore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/retailops/storewatch/internal/domain"
)

// PollRepository reads store_status.
type PollRepository struct {
	db *DB
}

func NewPollRepository(db *DB) *PollRepository {
	return &PollRepository{db: db}
}

func (r *PollRepository) DistinctStoreIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := withRetry(ctx, func() error {
		ids = nil
		rows, err := r.db.conn.QueryContext(ctx, "SELECT DISTINCT store_id FROM store_status")
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
		return nil, fmt.Errorf("sqlitestore: distinct poll store ids: %w", err)
	}
	return ids, nil
}

func (r *PollRepository) MaxTimestamp(ctx context.Context) (time.Time, error) {
	var raw sql.NullString
	err := withRetry(ctx, func() error {
		return r.db.conn.QueryRowContext(ctx, "SELECT MAX(timestamp_utc) FROM store_status").Scan(&raw)
	})
	if err != nil {
		return time.Time{}, fmt.Errorf("sqlitestore: max timestamp: %w", err)
	}
	if !raw.Valid || raw.String == "" {
		return time.Time{}, domain.ErrNoData
	}
	return domain.ParseTimestamp(raw.String)
}

func (r *PollRepository) InRange(ctx context.Context, storeID string, start, end time.Time) ([]domain.Poll, error) {
	var polls []domain.Poll
	err := withRetry(ctx, func() error {
		polls = nil
		const q = `
			SELECT store_id, status, timestamp_utc
			FROM store_status
			WHERE store_id = ? AND timestamp_utc >= ? AND timestamp_utc <= ?
			ORDER BY timestamp_utc ASC`
		rows, err := r.db.conn.QueryContext(ctx, q, storeID, domain.FormatTimestamp(start), domain.FormatTimestamp(end))
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var p domain.Poll
			var status, raw string
			if err := rows.Scan(&p.StoreID, &status, &raw); err != nil {
				return err
			}
			ts, perr := domain.ParseTimestamp(raw)
			if perr != nil {
				// ParseError is per-poll: skip the offending row, keep scanning.
				continue
			}
			p.Status = domain.Status(status)
			p.Timestamp = ts
			polls = append(polls, p)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: polls in range for %s: %w", storeID, err)
	}
	return polls, nil
}
