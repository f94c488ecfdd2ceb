// Package repository provides read-only access to the stored
// aggregates for the API. Both a SQLite and a Postgres implementation
// exist; the server picks one at startup.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/unaza1990/citibike-2022-dashboard/internal/models"
	"github.com/unaza1990/citibike-2022-dashboard/internal/stats"
)

// SQLiteDB wraps a SQL database connection for SQLite
type SQLiteDB struct {
	db *sql.DB
}

// NewSQLiteDB creates a new SQLite database connection
func NewSQLiteDB(dbPath string) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite", dbPath+"?_journal=WAL&_fk=1")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteDB{db: db}, nil
}

// Close closes the database connection
func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

// DB returns the underlying database connection
func (s *SQLiteDB) DB() *sql.DB {
	return s.db
}

// SQLiteAnalyticsRepository reads aggregates from SQLite
type SQLiteAnalyticsRepository struct {
	db *sql.DB
}

// NewSQLiteAnalyticsRepository creates a new SQLiteAnalyticsRepository
func NewSQLiteAnalyticsRepository(db *sql.DB) *SQLiteAnalyticsRepository {
	return &SQLiteAnalyticsRepository{db: db}
}

// TopRoutes returns the busiest route pairs, most trips first.
func (r *SQLiteAnalyticsRepository) TopRoutes(ctx context.Context, limit int) ([]models.Route, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT start_station_id, start_station_name, end_station_id, end_station_name,
			start_lat, start_lng, end_lat, end_lng,
			trip_count, duration_count, duration_mean, duration_m2
		FROM route_aggregates
		ORDER BY trip_count DESC, start_station_id, end_station_id
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query routes: %w", err)
	}
	defer rows.Close()

	return scanRoutes(rows)
}

func scanRoutes(rows *sql.Rows) ([]models.Route, error) {
	var routes []models.Route
	for rows.Next() {
		var route models.Route
		var durationCount int
		var durationM2 float64

		err := rows.Scan(
			&route.StartStationID, &route.StartStationName,
			&route.EndStationID, &route.EndStationName,
			&route.StartLat, &route.StartLng, &route.EndLat, &route.EndLng,
			&route.TripCount, &durationCount, &route.AvgDurationSeconds, &durationM2,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan route: %w", err)
		}

		run := stats.Resume(durationCount, route.AvgDurationSeconds, durationM2)
		route.DurationStdDev = run.StdDev()
		routes = append(routes, route)
	}
	return routes, rows.Err()
}

// TopStations returns the busiest start stations, most trips first.
func (r *SQLiteAnalyticsRepository) TopStations(ctx context.Context, limit int) ([]models.StationRank, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT station_id, station_name, lat, lng, trip_count
		FROM station_ranks
		ORDER BY trip_count DESC, station_name
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query stations: %w", err)
	}
	defer rows.Close()

	var stations []models.StationRank
	for rows.Next() {
		var s models.StationRank
		if err := rows.Scan(&s.StationID, &s.StationName, &s.Lat, &s.Lng, &s.TripCount); err != nil {
			return nil, fmt.Errorf("failed to scan station: %w", err)
		}
		stations = append(stations, s)
	}
	return stations, rows.Err()
}

// DailyUsage returns the daily rides/temperature series, optionally
// restricted to one season. An empty season returns the whole year.
func (r *SQLiteAnalyticsRepository) DailyUsage(ctx context.Context, season string) ([]models.DailyUsage, error) {
	query := `
		SELECT day, bike_rides_daily, avg_temp_f, season
		FROM daily_usage
	`
	args := []interface{}{}
	if season != "" {
		query += " WHERE season = ?"
		args = append(args, season)
	}
	query += " ORDER BY day"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily usage: %w", err)
	}
	defer rows.Close()

	var days []models.DailyUsage
	for rows.Next() {
		var d models.DailyUsage
		if err := rows.Scan(&d.Day, &d.BikeRides, &d.AvgTempF, &d.Season); err != nil {
			return nil, fmt.Errorf("failed to scan daily usage: %w", err)
		}
		days = append(days, d)
	}
	return days, rows.Err()
}

// WeekdayDurations returns the weekday duration buckets Monday-first.
func (r *SQLiteAnalyticsRepository) WeekdayDurations(ctx context.Context) ([]models.WeekdayDuration, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT weekday, rider_type, trip_count, mean_seconds
		FROM weekday_durations
		ORDER BY weekday, rider_type
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query weekday durations: %w", err)
	}
	defer rows.Close()

	var out []models.WeekdayDuration
	for rows.Next() {
		var weekday int
		var meanSeconds float64
		var w models.WeekdayDuration
		if err := rows.Scan(&weekday, &w.RiderType, &w.TripCount, &meanSeconds); err != nil {
			return nil, fmt.Errorf("failed to scan weekday duration: %w", err)
		}
		w.Weekday = models.WeekdayName(weekday)
		w.MeanMinutes = meanSeconds / 60
		out = append(out, w)
	}
	return out, rows.Err()
}

// Freshness reports when the route aggregates were last computed.
func (r *SQLiteAnalyticsRepository) Freshness(ctx context.Context) (*models.Freshness, error) {
	var computedAt sql.NullString
	var count int
	err := r.db.QueryRowContext(ctx, `
		SELECT MAX(computed_at_utc), COUNT(*) FROM route_aggregates
	`).Scan(&computedAt, &count)
	if err != nil {
		return nil, fmt.Errorf("failed to query freshness: %w", err)
	}

	f := &models.Freshness{RouteCount: count}
	if computedAt.Valid {
		if t, err := time.Parse(time.RFC3339, computedAt.String); err == nil {
			f.ComputedAt = &t
		}
	}
	return f, nil
}
