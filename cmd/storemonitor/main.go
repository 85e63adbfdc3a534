// Command storemonitor is the single-binary CLI and HTTP front end for the
// store uptime/downtime estimator: load CSV snapshots into SQLite, trigger
// and inspect reports, or run the HTTP API continuously.
package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	headerColor  = color.New(color.FgMagenta, color.Bold)
)

var (
	dbPath   string
	logLevel string
	noColor  bool
)

var rootCmd = &cobra.Command{
	Use:   "storemonitor",
	Short: "storemonitor estimates per-store uptime and downtime from sparse polls",
	Long: `storemonitor reconstructs each store's active/inactive timeline from sparse
polling data, overlays it on the store's business hours, and reports uptime
and downtime for the last hour, day, and week.

	storemonitor load ./store-monitoring-data   # bulk-load CSV snapshots
	storemonitor serve                          # run the HTTP API
	storemonitor report trigger                 # run a report synchronously
	storemonitor report show <report-id>        # inspect a completed report`,
}

func main() {
	// Runs after flag parsing, so --no-color is already set here.
	cobra.OnInitialize(func() {
		if noColor || os.Getenv("NO_COLOR") != "" {
			color.NoColor = true
		}
	})

	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "storewatch.db", "path to the SQLite database file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(reportCmd)

	if err := rootCmd.Execute(); err != nil {
		errorColor.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
