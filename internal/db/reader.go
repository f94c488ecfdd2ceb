package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/unaza1990/citibike-2022-dashboard/internal/analysis"
	"github.com/unaza1990/citibike-2022-dashboard/internal/trips"
)

// LoadTrips reads all stored trips back for aggregation, in insertion
// order so recomputed aggregates come out in a stable order.
func (db *DB) LoadTrips(ctx context.Context) ([]trips.TripRecord, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT ride_id, start_station_id, start_station_name,
			end_station_id, end_station_name,
			start_lat, start_lng, end_lat, end_lng,
			started_at_utc, ended_at_utc, rider_type, duration_seconds
		FROM trips
		ORDER BY rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query trips: %w", err)
	}
	defer rows.Close()

	var out []trips.TripRecord
	for rows.Next() {
		var rec trips.TripRecord
		var startedAt, endedAt sql.NullString
		var riderType string

		err := rows.Scan(
			&rec.RideID, &rec.StartStationID, &rec.StartStationName,
			&rec.EndStationID, &rec.EndStationName,
			&rec.StartLat, &rec.StartLng, &rec.EndLat, &rec.EndLng,
			&startedAt, &endedAt, &riderType, &rec.DurationSeconds,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trip: %w", err)
		}

		rec.RiderType = trips.RiderType(riderType)
		rec.StartedAt = parseStoredTime(startedAt)
		rec.EndedAt = parseStoredTime(endedAt)
		out = append(out, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read trips: %w", err)
	}
	return out, nil
}

// LoadDailyUsage reads the stored daily series in date order.
func (db *DB) LoadDailyUsage(ctx context.Context) ([]analysis.DailyUsage, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT day, bike_rides_daily, avg_temp_f, season
		FROM daily_usage
		ORDER BY day
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily usage: %w", err)
	}
	defer rows.Close()

	var out []analysis.DailyUsage
	for rows.Next() {
		var day string
		var row analysis.DailyUsage
		if err := rows.Scan(&day, &row.BikeRides, &row.AvgTempF, &row.Season); err != nil {
			return nil, fmt.Errorf("failed to scan daily usage: %w", err)
		}
		if t, err := time.Parse("2006-01-02", day); err == nil {
			row.Date = t
		}
		out = append(out, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read daily usage: %w", err)
	}
	return out, nil
}

func parseStoredTime(s sql.NullString) time.Time {
	if !s.Valid {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s.String)
	if err != nil {
		return time.Time{}
	}
	return t
}
