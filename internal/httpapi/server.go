// Package httpapi exposes the report driver over HTTP (C9): trigger a
// report, poll its status/payload, and a health probe for operators.
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/retailops/storewatch/internal/domain"
	"github.com/retailops/storewatch/internal/log"
	"github.com/retailops/storewatch/internal/report"
	"github.com/retailops/storewatch/internal/repositories"
)

// Server wires the report driver and the report record store behind a
// gorilla/mux router.
type Server struct {
	Router  *mux.Router
	driver  *report.Driver
	reports repositories.ReportRepository
	logger  *log.Logger
	started time.Time
}

// NewServer builds the router and registers every C9 route.
func NewServer(driver *report.Driver, reports repositories.ReportRepository, logger *log.Logger) *Server {
	s := &Server{
		driver:  driver,
		reports: reports,
		logger:  logger.With("http-api"),
		started: time.Now(),
	}
	s.Router = mux.NewRouter()
	s.Router.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)
	s.Router.HandleFunc("/trigger-report", s.handleTriggerReport).Methods(http.MethodPost)
	s.Router.HandleFunc("/reports/{id}", s.handleGetReport).Methods(http.MethodGet)
	return s
}

type healthResponse struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Uptime: time.Since(s.started).String()})
}

type triggerResponse struct {
	ReportID string `json:"report_id"`
}

// handleTriggerReport assigns a fresh report ID and runs the driver in the
// background; the caller polls /reports/{id} for completion.
func (s *Server) handleTriggerReport(w http.ResponseWriter, r *http.Request) {
	reportID := uuid.NewString()
	wallClockNow := time.Now()

	go func() {
		// r.Context() is cancelled as soon as this handler returns, so the
		// background run gets its own context.
		ctx := context.Background()
		if err := s.driver.Run(ctx, reportID, wallClockNow); err != nil {
			s.logger.Error("report run failed to start", "report_id", reportID, "error", err)
		}
	}()

	writeJSON(w, http.StatusAccepted, triggerResponse{ReportID: reportID})
}

type reportResponse struct {
	ReportID string `json:"report_id"`
	Status   string `json:"status"`
	Reason   string `json:"reason,omitempty"`
	Payload  string `json:"payload,omitempty"`
}

// handleGetReport returns the report record. format=csv streams the raw CSV
// payload with a text/csv content type; the default is a JSON envelope.
func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	reportID := mux.Vars(r)["id"]

	rep, err := s.reports.Lookup(r.Context(), reportID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if rep.Status == domain.ReportNotFound {
		http.Error(w, "report not found", http.StatusNotFound)
		return
	}

	if r.URL.Query().Get("format") == "csv" {
		if rep.Status != domain.ReportComplete {
			http.Error(w, "report not complete", http.StatusConflict)
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		w.Write(rep.Payload)
		return
	}

	writeJSON(w, http.StatusOK, reportResponse{
		ReportID: rep.ReportID,
		Status:   string(rep.Status),
		Reason:   rep.Reason,
		Payload:  string(rep.Payload),
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
