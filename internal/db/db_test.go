package db

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/unaza1990/citibike-2022-dashboard/internal/aggregate"
	"github.com/unaza1990/citibike-2022-dashboard/internal/analysis"
	"github.com/unaza1990/citibike-2022-dashboard/internal/trips"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()

	database, err := Connect(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	if err := database.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("Failed to ensure schema: %v", err)
	}
	return database
}

func testTrip(start, end string, started time.Time) trips.TripRecord {
	return trips.TripRecord{
		RideID:           "ride-" + start + end,
		StartStationID:   start,
		StartStationName: "Station " + start,
		EndStationID:     end,
		EndStationName:   "Station " + end,
		StartLat:         40.74, StartLng: -73.99,
		EndLat: 40.75, EndLng: -73.98,
		StartedAt: started,
		EndedAt:   started.Add(10 * time.Minute),
		RiderType: trips.RiderMember,
		DurationSeconds: 600,
	}
}

func TestTripRoundTrip(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()

	started := time.Date(2022, 6, 6, 8, 0, 0, 0, time.UTC)
	records := []trips.TripRecord{
		testTrip("A", "B", started),
		testTrip("A", "B", started.Add(time.Hour)),
		testTrip("B", "A", started.Add(2*time.Hour)),
	}

	batchID, err := database.CreateImportBatch(ctx, "test.csv", time.Now())
	if err != nil {
		t.Fatalf("CreateImportBatch failed: %v", err)
	}
	if err := database.InsertTrips(ctx, batchID, records); err != nil {
		t.Fatalf("InsertTrips failed: %v", err)
	}

	loaded, err := database.LoadTrips(ctx)
	if err != nil {
		t.Fatalf("LoadTrips failed: %v", err)
	}

	if len(loaded) != 3 {
		t.Fatalf("expected 3 trips, got %d", len(loaded))
	}
	first := loaded[0]
	if first.StartStationID != "A" || first.EndStationID != "B" {
		t.Errorf("route = %s->%s, want A->B", first.StartStationID, first.EndStationID)
	}
	if !first.StartedAt.Equal(started) {
		t.Errorf("started at = %v, want %v", first.StartedAt, started)
	}
	if first.RiderType != trips.RiderMember {
		t.Errorf("rider type = %q, want member", first.RiderType)
	}
	if first.DurationSeconds != 600 {
		t.Errorf("duration = %f, want 600", first.DurationSeconds)
	}

	// Aggregating the loaded trips must match aggregating the originals.
	aggs := aggregate.Routes(loaded)
	if len(aggs) != 2 {
		t.Fatalf("expected 2 route pairs, got %d", len(aggs))
	}
}

func TestReplaceRouteAggregatesSwapsTable(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()

	started := time.Date(2022, 6, 6, 8, 0, 0, 0, time.UTC)
	first := aggregate.Routes([]trips.TripRecord{testTrip("A", "B", started)})
	if err := database.ReplaceRouteAggregates(ctx, first, time.Now()); err != nil {
		t.Fatalf("ReplaceRouteAggregates failed: %v", err)
	}

	second := aggregate.Routes([]trips.TripRecord{
		testTrip("C", "D", started),
		testTrip("D", "C", started),
	})
	if err := database.ReplaceRouteAggregates(ctx, second, time.Now()); err != nil {
		t.Fatalf("second ReplaceRouteAggregates failed: %v", err)
	}

	var count int
	err := database.Conn().QueryRowContext(ctx, "SELECT COUNT(*) FROM route_aggregates").Scan(&count)
	if err != nil {
		t.Fatalf("count query failed: %v", err)
	}
	if count != 2 {
		t.Errorf("route_aggregates has %d rows after replace, want 2", count)
	}

	var oldCount int
	err = database.Conn().QueryRowContext(ctx,
		"SELECT COUNT(*) FROM route_aggregates WHERE start_station_id = 'A'").Scan(&oldCount)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if oldCount != 0 {
		t.Error("previous aggregates should be gone after replace")
	}
}

func TestPruneImportBatches(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()

	base := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	var batchIDs []string
	for i := 0; i < 4; i++ {
		id, err := database.CreateImportBatch(ctx, "dump.csv", base.AddDate(0, i, 0))
		if err != nil {
			t.Fatalf("CreateImportBatch failed: %v", err)
		}
		batchIDs = append(batchIDs, id)
	}

	if err := database.PruneImportBatches(ctx, 2); err != nil {
		t.Fatalf("PruneImportBatches failed: %v", err)
	}

	var count int
	if err := database.Conn().QueryRowContext(ctx, "SELECT COUNT(*) FROM import_batches").Scan(&count); err != nil {
		t.Fatalf("count query failed: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 batches after prune, got %d", count)
	}

	// The newest batches survive.
	var remaining int
	err := database.Conn().QueryRowContext(ctx,
		"SELECT COUNT(*) FROM import_batches WHERE batch_id IN (?, ?)",
		batchIDs[2], batchIDs[3]).Scan(&remaining)
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if remaining != 2 {
		t.Error("prune should keep the most recent batches")
	}
}

func TestDailyUsageRoundTrip(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()

	rows := []analysis.DailyUsage{
		{Date: time.Date(2022, 7, 4, 0, 0, 0, 0, time.UTC), BikeRides: 98431, AvgTempF: 84.1, Season: "Summer"},
		{Date: time.Date(2022, 1, 15, 0, 0, 0, 0, time.UTC), BikeRides: 21458, AvgTempF: 28.4, Season: "Winter"},
	}
	if err := database.UpsertDailyUsage(ctx, rows); err != nil {
		t.Fatalf("UpsertDailyUsage failed: %v", err)
	}

	// Upserting again must not duplicate.
	if err := database.UpsertDailyUsage(ctx, rows); err != nil {
		t.Fatalf("second UpsertDailyUsage failed: %v", err)
	}

	loaded, err := database.LoadDailyUsage(ctx)
	if err != nil {
		t.Fatalf("LoadDailyUsage failed: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("expected 2 days, got %d", len(loaded))
	}
	// Date order.
	if !loaded[0].Date.Before(loaded[1].Date) {
		t.Error("daily usage should come back in date order")
	}
}
