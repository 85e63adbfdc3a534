package sqlitestore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/retailops/storewatch/internal/domain"
)

// ReportRepository persists the store_report lifecycle.
type ReportRepository struct {
	db *DB
}

func NewReportRepository(db *DB) *ReportRepository {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) Create(ctx context.Context, reportID string, createdAt time.Time) error {
	return withRetry(ctx, func() error {
		const q = `INSERT INTO store_report (report_id, status, report_data, reason, created_at) VALUES (?, ?, '', '', ?)`
		_, err := r.db.conn.ExecContext(ctx, q, reportID, string(domain.ReportRunning), createdAt.UTC())
		return err
	})
}

func (r *ReportRepository) Complete(ctx context.Context, reportID string, payload []byte) error {
	return withRetry(ctx, func() error {
		const q = `UPDATE store_report SET status = ?, report_data = ? WHERE report_id = ?`
		_, err := r.db.conn.ExecContext(ctx, q, string(domain.ReportComplete), string(payload), reportID)
		return err
	})
}

func (r *ReportRepository) Fail(ctx context.Context, reportID string, reason string) error {
	return withRetry(ctx, func() error {
		const q = `UPDATE store_report SET status = ?, reason = ? WHERE report_id = ?`
		_, err := r.db.conn.ExecContext(ctx, q, string(domain.ReportFailed), reason, reportID)
		return err
	})
}

func (r *ReportRepository) Lookup(ctx context.Context, reportID string) (domain.Report, error) {
	var rep domain.Report
	err := withRetry(ctx, func() error {
		rep = domain.Report{}
		const q = `SELECT report_id, status, report_data, reason, created_at FROM store_report WHERE report_id = ?`
		var payload string
		row := r.db.conn.QueryRowContext(ctx, q, reportID)
		err := row.Scan(&rep.ReportID, &rep.Status, &payload, &rep.Reason, &rep.CreatedAt)
		if err == sql.ErrNoRows {
			rep = domain.Report{ReportID: reportID, Status: domain.ReportNotFound}
			return nil
		}
		if err != nil {
			return err
		}
		if payload != "" {
			rep.Payload = []byte(payload)
		}
		return nil
	})
	if err != nil {
		return domain.Report{}, fmt.Errorf("sqlitestore: lookup report %s: %w", reportID, err)
	}
	return rep, nil
}
