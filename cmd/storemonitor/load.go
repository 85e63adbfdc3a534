package main

import (
	"context"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/retailops/storewatch/internal/loader"
	"github.com/retailops/storewatch/internal/sqlitestore"
)

var loadCmd = &cobra.Command{
	Use:   "load <data-dir>",
	Short: "Bulk-load store_status.csv, business_hours.csv, and timezones.csv into the database",
	Args:  cobra.ExactArgs(1),
	RunE:  runLoad,
}

func runLoad(cmd *cobra.Command, args []string) error {
	dataDir := args[0]

	db, err := sqlitestore.Open(sqlitestore.DefaultConfig(dbPath))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	result, err := loader.LoadDir(context.Background(), db, dataDir)
	if err != nil {
		return fmt.Errorf("load %s: %w", dataDir, err)
	}

	headerColor.Println("Load complete")
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"file", "rows inserted"})
	table.Append([]string{"store_status.csv", fmt.Sprint(result.StoreStatusRows)})
	table.Append([]string{"business_hours.csv", fmt.Sprint(result.BusinessHoursRows)})
	table.Append([]string{"timezones.csv", fmt.Sprint(result.TimezonesRows)})
	table.Render()
	return nil
}
