package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/unaza1990/citibike-2022-dashboard/internal/aggregate"
	"github.com/unaza1990/citibike-2022-dashboard/internal/analysis"
	"github.com/unaza1990/citibike-2022-dashboard/internal/config"
	"github.com/unaza1990/citibike-2022-dashboard/internal/db"
	"github.com/unaza1990/citibike-2022-dashboard/internal/export"
	"github.com/unaza1990/citibike-2022-dashboard/internal/trips"
)

func loadConfig() *config.Config {
	cfg := config.Load()
	if tripsPathFlag != "" {
		cfg.TripsPath = tripsPathFlag
	}
	if dailyPathFlag != "" {
		cfg.DailyPath = dailyPathFlag
	}
	if outDirFlag != "" {
		cfg.ArtifactsDir = outDirFlag
	}
	return cfg
}

func openDatabase(cfg *config.Config) (*db.DB, error) {
	if dir := filepath.Dir(cfg.DatabasePath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	database, err := db.Connect(cfg.DatabasePath)
	if err != nil {
		return nil, err
	}
	if err := database.EnsureSchema(context.Background()); err != nil {
		database.Close()
		return nil, err
	}
	return database, nil
}

func runImport() error {
	cfg := loadConfig()
	ctx := context.Background()

	database, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	log.Printf("Importing trips from %s", cfg.TripsPath)
	records, err := trips.ParseFile(cfg.TripsPath)
	if err != nil {
		return fmt.Errorf("trip import failed: %w", err)
	}

	batchID, err := database.CreateImportBatch(ctx, cfg.TripsPath, time.Now())
	if err != nil {
		return err
	}
	if err := database.InsertTrips(ctx, batchID, records); err != nil {
		return err
	}
	log.Printf("Imported %d trips (batch %s)", len(records), batchID)

	if err := database.ReplaceStations(ctx, aggregate.Stations(records)); err != nil {
		return err
	}

	// The daily series is optional: the trip-level charts and the map
	// still work without it.
	daily, err := analysis.LoadDailyFile(cfg.DailyPath)
	if errors.Is(err, trips.ErrInputUnavailable) {
		log.Printf("Warning: daily usage series unavailable: %v", err)
	} else if err != nil {
		return err
	} else {
		if err := database.UpsertDailyUsage(ctx, daily.Rows()); err != nil {
			return err
		}
		log.Printf("Imported %d days of usage data, %d rides total", daily.Len(), daily.TotalRides())
		for _, season := range analysis.Seasons {
			sub := daily.Filter([]string{season})
			log.Printf("  %s: %d days, %d rides", season, sub.Len(), sub.TotalRides())
		}
	}

	return database.PruneImportBatches(ctx, cfg.KeepImportBatches)
}

func runAggregate() error {
	cfg := loadConfig()
	ctx := context.Background()

	database, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	records, err := database.LoadTrips(ctx)
	if err != nil {
		return err
	}
	log.Printf("Aggregating %d trips", len(records))

	routes := aggregate.Routes(records)
	if err := database.ReplaceRouteAggregates(ctx, routes, time.Now()); err != nil {
		return err
	}

	ranks := aggregate.TopStartStations(records, 0)
	if err := database.ReplaceStationRanks(ctx, ranks); err != nil {
		return err
	}

	weekday := aggregate.DurationByWeekday(records)
	if err := database.ReplaceWeekdayDurations(ctx, weekday); err != nil {
		return err
	}

	log.Printf("Aggregated: %d route pairs, %d stations, %d weekday buckets",
		len(routes), len(ranks), len(weekday))
	return nil
}

func runExport() error {
	cfg := loadConfig()
	ctx := context.Background()

	database, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	records, err := database.LoadTrips(ctx)
	if err != nil {
		return err
	}
	daily, err := database.LoadDailyUsage(ctx)
	if err != nil {
		return err
	}

	// Prefer the city-wide daily counts for the headline number; the
	// trip file is only a sample.
	totalRides := len(records)
	if len(daily) > 0 {
		var sum float64
		for _, d := range daily {
			sum += d.BikeRides
		}
		totalRides = int(sum)
	}

	manifest, err := export.Generate(export.Inputs{
		Routes:          aggregate.Routes(records),
		TopStations:     aggregate.TopStartStations(records, cfg.TopStations),
		Weekday:         aggregate.DurationByWeekday(records),
		Daily:           daily,
		TotalRides:      totalRides,
		DurationSamples: aggregate.DurationSamples(records),
		MinTripCount:    cfg.ArcMinTrips,
	}, cfg.ArtifactsDir)
	if err != nil {
		return err
	}

	log.Printf("Artifacts written to %s (%d files)", cfg.ArtifactsDir, len(manifest.Files))
	return nil
}
