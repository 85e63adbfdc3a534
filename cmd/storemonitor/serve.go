package main

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/retailops/storewatch/internal/httpapi"
	applog "github.com/retailops/storewatch/internal/log"
	"github.com/retailops/storewatch/internal/report"
	"github.com/retailops/storewatch/internal/sqlitestore"
)

var listenAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API: trigger reports and fetch their results",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&listenAddr, "listen", ":8080", "address to listen on")
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := applog.New("storemonitor", applog.ParseLevel(logLevel))

	db, err := sqlitestore.Open(sqlitestore.DefaultConfig(dbPath))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	reports := sqlitestore.NewReportRepository(db)
	driver := &report.Driver{
		Polls:     sqlitestore.NewPollRepository(db),
		Schedules: sqlitestore.NewScheduleRepository(db),
		Timezones: sqlitestore.NewTimezoneRepository(db),
		Reports:   reports,
		Logger:    logger,
	}

	server := httpapi.NewServer(driver, reports, logger)
	logger.Info("listening", "addr", listenAddr)
	return http.ListenAndServe(listenAddr, server.Router)
}
