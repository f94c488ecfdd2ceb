// Command bikeshare runs the trip analytics pipeline: import the raw
// CSVs, aggregate trips into route/station/weekday tables, and export
// the map and chart artifacts the dashboard embeds.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	tripsPathFlag string
	dailyPathFlag string
	outDirFlag    string
)

var rootCmd = &cobra.Command{
	Use:   "bikeshare",
	Short: "Citi Bike trip analytics pipeline",
	Long: `Loads bike-share trip data, aggregates it by route pair, and
generates the artifacts the strategy dashboard renders: an interactive
arc map, station rankings, and usage charts.`,
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import the trips and daily usage CSVs into the database",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runImport()
	},
}

var aggregateCmd = &cobra.Command{
	Use:   "aggregate",
	Short: "Recompute route, station, and weekday aggregates from stored trips",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAggregate()
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Generate the map and chart artifacts from the stored data",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExport()
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Import, aggregate, and export in one pass",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := runImport(); err != nil {
			return err
		}
		if err := runAggregate(); err != nil {
			return err
		}
		return runExport()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&tripsPathFlag, "trips", "", "Trips CSV or zip (overrides TRIPS_CSV)")
	rootCmd.PersistentFlags().StringVar(&dailyPathFlag, "daily", "", "Daily usage CSV (overrides DAILY_CSV)")
	rootCmd.PersistentFlags().StringVar(&outDirFlag, "out", "", "Artifacts directory (overrides ARTIFACTS_DIR)")

	rootCmd.AddCommand(importCmd, aggregateCmd, exportCmd, runCmd)
}

func main() {
	_ = godotenv.Load(".env")
	_ = godotenv.Overload(".env.local")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
