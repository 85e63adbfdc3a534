package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailops/storewatch/internal/domain"
	"github.com/retailops/storewatch/internal/log"
	"github.com/retailops/storewatch/internal/report"
)

// memReports is a minimal in-memory ReportRepository for exercising the
// router without a database.
type memReports struct {
	mu      sync.Mutex
	reports map[string]domain.Report
}

func newMemReports() *memReports { return &memReports{reports: map[string]domain.Report{}} }

func (m *memReports) Create(ctx context.Context, reportID string, createdAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reports[reportID] = domain.Report{ReportID: reportID, Status: domain.ReportRunning, CreatedAt: createdAt}
	return nil
}

func (m *memReports) Complete(ctx context.Context, reportID string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r := m.reports[reportID]
	r.Status = domain.ReportComplete
	r.Payload = payload
	m.reports[reportID] = r
	return nil
}

func (m *memReports) Fail(ctx context.Context, reportID string, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r := m.reports[reportID]
	r.Status = domain.ReportFailed
	r.Reason = reason
	m.reports[reportID] = r
	return nil
}

func (m *memReports) Lookup(ctx context.Context, reportID string) (domain.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reports[reportID]
	if !ok {
		return domain.Report{ReportID: reportID, Status: domain.ReportNotFound}, nil
	}
	return r, nil
}

func TestHealthz(t *testing.T) {
	reports := newMemReports()
	s := NewServer(&report.Driver{Reports: reports, Logger: log.New("test", log.LevelError)}, reports, log.New("test", log.LevelError))

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	s.Router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	var body healthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
}

func TestGetReportNotFound(t *testing.T) {
	reports := newMemReports()
	s := NewServer(&report.Driver{Reports: reports, Logger: log.New("test", log.LevelError)}, reports, log.New("test", log.LevelError))

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/reports/missing", nil)
	s.Router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestGetReportJSONAndCSV(t *testing.T) {
	reports := newMemReports()
	require.NoError(t, reports.Create(context.Background(), "r1", time.Now()))
	require.NoError(t, reports.Complete(context.Background(), "r1", []byte("store_id,uptime_last_hour\na,1.00\n")))

	s := NewServer(&report.Driver{Reports: reports, Logger: log.New("test", log.LevelError)}, reports, log.New("test", log.LevelError))

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/reports/r1", nil)
	s.Router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	var body reportResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "Complete", body.Status)

	rr = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/reports/r1?format=csv", nil)
	s.Router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "store_id,uptime_last_hour\na,1.00\n", rr.Body.String())
	assert.Equal(t, "text/csv", rr.Header().Get("Content-Type"))
}

func TestGetReportCSVBeforeComplete(t *testing.T) {
	reports := newMemReports()
	require.NoError(t, reports.Create(context.Background(), "r2", time.Now()))

	s := NewServer(&report.Driver{Reports: reports, Logger: log.New("test", log.LevelError)}, reports, log.New("test", log.LevelError))

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/reports/r2?format=csv", nil)
	s.Router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusConflict, rr.Code)
}
