package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/unaza1990/citibike-2022-dashboard/internal/aggregate"
	"github.com/unaza1990/citibike-2022-dashboard/internal/analysis"
	"github.com/unaza1990/citibike-2022-dashboard/internal/trips"
)

// CreateImportBatch records a new import batch and returns its ID
func (db *DB) CreateImportBatch(ctx context.Context, sourcePath string, importedAt time.Time) (string, error) {
	batchID := uuid.New().String()
	_, err := db.conn.ExecContext(ctx,
		"INSERT INTO import_batches (batch_id, source_path, imported_at_utc) VALUES (?, ?, ?)",
		batchID, sourcePath, importedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create import batch: %w", err)
	}
	return batchID, nil
}

// InsertTrips loads trip records under the given batch in one transaction
func (db *DB) InsertTrips(ctx context.Context, batchID string, records []trips.TripRecord) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO trips (
			ride_id, batch_id, start_station_id, start_station_name,
			end_station_id, end_station_name, start_lat, start_lng,
			end_lat, end_lng, started_at_utc, ended_at_utc,
			rider_type, duration_seconds
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare trip insert: %w", err)
	}
	defer stmt.Close()

	for i := range records {
		rec := &records[i]
		_, err := stmt.ExecContext(ctx,
			rec.RideID, batchID, rec.StartStationID, rec.StartStationName,
			rec.EndStationID, rec.EndStationName, rec.StartLat, rec.StartLng,
			rec.EndLat, rec.EndLng, timeOrNull(rec.StartedAt), timeOrNull(rec.EndedAt),
			string(rec.RiderType), rec.DurationSeconds,
		)
		if err != nil {
			return fmt.Errorf("failed to insert trip %s: %w", rec.RideID, err)
		}
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE import_batches SET trip_count = ? WHERE batch_id = ?",
		len(records), batchID,
	)
	if err != nil {
		return fmt.Errorf("failed to update batch count: %w", err)
	}

	return tx.Commit()
}

// ReplaceStations upserts the station reference table. First-seen
// coordinates are kept for stations that already exist.
func (db *DB) ReplaceStations(ctx context.Context, stations []trips.Station) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO stations (station_id, station_name, lat, lng)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (station_id) DO UPDATE SET
			station_name = excluded.station_name
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare station upsert: %w", err)
	}
	defer stmt.Close()

	for _, s := range stations {
		if _, err := stmt.ExecContext(ctx, s.ID, s.Name, s.Lat, s.Lng); err != nil {
			return fmt.Errorf("failed to upsert station %s: %w", s.ID, err)
		}
	}

	return tx.Commit()
}

// ReplaceRouteAggregates swaps the route_aggregates table for a fresh
// computation. The whole table is replaced because the aggregation is
// a full recompute over the stored trips, not an incremental update.
func (db *DB) ReplaceRouteAggregates(ctx context.Context, aggs []aggregate.RouteAggregate, computedAt time.Time) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM route_aggregates"); err != nil {
		return fmt.Errorf("failed to clear route aggregates: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO route_aggregates (
			start_station_id, end_station_id, start_station_name, end_station_name,
			start_lat, start_lng, end_lat, end_lng,
			trip_count, duration_count, duration_mean, duration_m2, computed_at_utc
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare aggregate insert: %w", err)
	}
	defer stmt.Close()

	computedAtStr := computedAt.UTC().Format(time.RFC3339)
	for i := range aggs {
		a := &aggs[i]
		_, err := stmt.ExecContext(ctx,
			a.StartStationID, a.EndStationID, a.StartStationName, a.EndStationName,
			a.StartLat, a.StartLng, a.EndLat, a.EndLng,
			a.TripCount, a.Duration.Count, a.Duration.Mean, a.Duration.M2, computedAtStr,
		)
		if err != nil {
			return fmt.Errorf("failed to insert aggregate %s->%s: %w",
				a.StartStationID, a.EndStationID, err)
		}
	}

	return tx.Commit()
}

// ReplaceStationRanks swaps the station_ranks table
func (db *DB) ReplaceStationRanks(ctx context.Context, ranks []aggregate.StationRank) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM station_ranks"); err != nil {
		return fmt.Errorf("failed to clear station ranks: %w", err)
	}

	for _, r := range ranks {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO station_ranks (station_id, station_name, lat, lng, trip_count)
			VALUES (?, ?, ?, ?, ?)
		`, r.StationID, r.StationName, r.Lat, r.Lng, r.TripCount)
		if err != nil {
			return fmt.Errorf("failed to insert station rank %s: %w", r.StationID, err)
		}
	}

	return tx.Commit()
}

// ReplaceWeekdayDurations swaps the weekday_durations table
func (db *DB) ReplaceWeekdayDurations(ctx context.Context, rows []aggregate.WeekdayDuration) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM weekday_durations"); err != nil {
		return fmt.Errorf("failed to clear weekday durations: %w", err)
	}

	for _, row := range rows {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO weekday_durations (weekday, rider_type, trip_count, mean_seconds)
			VALUES (?, ?, ?, ?)
		`, mondayFirst(row.Weekday), string(row.RiderType), row.TripCount, row.MeanSeconds)
		if err != nil {
			return fmt.Errorf("failed to insert weekday duration: %w", err)
		}
	}

	return tx.Commit()
}

// UpsertDailyUsage loads the daily usage series
func (db *DB) UpsertDailyUsage(ctx context.Context, rows []analysis.DailyUsage) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO daily_usage (day, bike_rides_daily, avg_temp_f, season)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (day) DO UPDATE SET
			bike_rides_daily = excluded.bike_rides_daily,
			avg_temp_f = excluded.avg_temp_f,
			season = excluded.season
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare daily upsert: %w", err)
	}
	defer stmt.Close()

	for _, row := range rows {
		_, err := stmt.ExecContext(ctx,
			row.Date.Format("2006-01-02"), row.BikeRides, row.AvgTempF, row.Season)
		if err != nil {
			return fmt.Errorf("failed to upsert daily usage for %s: %w",
				row.Date.Format("2006-01-02"), err)
		}
	}

	return tx.Commit()
}

// mondayFirst maps time.Weekday (Sunday = 0) to the Monday-first index
// the dashboard charts use.
func mondayFirst(d time.Weekday) int {
	return (int(d) + 6) % 7
}

func timeOrNull(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}
