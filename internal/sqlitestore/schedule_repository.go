package sqlitestore

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/retailops/storewatch/internal/domain"
)

// ScheduleRepository reads business_hours.
type ScheduleRepository struct {
	db *DB
}

func NewScheduleRepository(db *DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

func (r *ScheduleRepository) DistinctStoreIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := withRetry(ctx, func() error {
		ids = nil
		rows, err := r.db.conn.QueryContext(ctx, "SELECT DISTINCT store_id FROM business_hours")
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
		return nil, fmt.Errorf("sqlitestore: distinct schedule store ids: %w", err)
	}
	return ids, nil
}

func (r *ScheduleRepository) ForStore(ctx context.Context, storeID string) (domain.BusinessSchedule, bool, error) {
	var schedule domain.BusinessSchedule
	err := withRetry(ctx, func() error {
		schedule = nil
		const q = `SELECT day_of_week, start_time_local, end_time_local FROM business_hours WHERE store_id = ?`
		rows, err := r.db.conn.QueryContext(ctx, q, storeID)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var day int
			var startRaw, endRaw string
			if err := rows.Scan(&day, &startRaw, &endRaw); err != nil {
				return err
			}
			open, operr := parseTimeOfDay(startRaw)
			closeLocal, cerr := parseTimeOfDay(endRaw)
			if operr != nil || cerr != nil {
				// ParseError is per-window: skip this day's entry.
				continue
			}
			if schedule == nil {
				schedule = domain.BusinessSchedule{}
			}
			schedule[day] = domain.DayHours{OpenLocal: open, CloseLocal: closeLocal}
		}
		return rows.Err()
	})
	if err != nil {
		return nil, false, fmt.Errorf("sqlitestore: schedule for %s: %w", storeID, err)
	}
	return schedule, len(schedule) > 0, nil
}

// parseTimeOfDay accepts "HH:MM:SS" and returns the offset from local
// midnight.
func parseTimeOfDay(raw string) (time.Duration, error) {
	parts := strings.Split(strings.TrimSpace(raw), ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("%w: %q: expected HH:MM:SS", domain.ErrParse, raw)
	}
	h, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	s, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return 0, fmt.Errorf("%w: %q: non-numeric time of day", domain.ErrParse, raw)
	}
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + time.Duration(s)*time.Second, nil
}
