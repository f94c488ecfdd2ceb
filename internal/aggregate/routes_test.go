package aggregate

import (
	"testing"
	"time"

	"github.com/unaza1990/citibike-2022-dashboard/internal/trips"
)

func trip(start, end string) trips.TripRecord {
	return trips.TripRecord{
		StartStationID:   start,
		StartStationName: "Station " + start,
		EndStationID:     end,
		EndStationName:   "Station " + end,
		StartLat:         40.7, StartLng: -74.0,
		EndLat: 40.75, EndLng: -73.99,
		DurationSeconds: 600,
	}
}

func TestRoutesGroupsOrderedPairs(t *testing.T) {
	records := []trips.TripRecord{
		trip("A", "B"),
		trip("A", "B"),
		trip("B", "A"),
		trip("A", "C"),
	}

	aggs := Routes(records)

	want := map[RoutePair]int{
		{StartStationID: "A", EndStationID: "B"}: 2,
		{StartStationID: "B", EndStationID: "A"}: 1,
		{StartStationID: "A", EndStationID: "C"}: 1,
	}
	if len(aggs) != len(want) {
		t.Fatalf("expected %d rows, got %d", len(want), len(aggs))
	}

	seen := make(map[RoutePair]bool)
	total := 0
	for _, agg := range aggs {
		if seen[agg.RoutePair] {
			t.Errorf("duplicate row for pair %v", agg.RoutePair)
		}
		seen[agg.RoutePair] = true

		if count, ok := want[agg.RoutePair]; !ok {
			t.Errorf("unexpected pair %v", agg.RoutePair)
		} else if agg.TripCount != count {
			t.Errorf("pair %v trip_count = %d, want %d", agg.RoutePair, agg.TripCount, count)
		}
		if agg.TripCount < 1 {
			t.Errorf("pair %v has trip_count %d < 1", agg.RoutePair, agg.TripCount)
		}
		total += agg.TripCount
	}

	// Trip counts must partition the valid input.
	if total != len(records) {
		t.Errorf("sum of trip_count = %d, want %d", total, len(records))
	}
}

func TestRoutesDropsInvalidRecords(t *testing.T) {
	noEnd := trip("A", "")
	noCoords := trip("A", "B")
	noCoords.EndLat, noCoords.EndLng = 0, 0

	aggs := Routes([]trips.TripRecord{trip("A", "B"), noEnd, noCoords})

	if len(aggs) != 1 {
		t.Fatalf("expected 1 row, got %d", len(aggs))
	}
	if aggs[0].TripCount != 1 {
		t.Errorf("trip_count = %d, want 1", aggs[0].TripCount)
	}
}

func TestRoutesEmptyInput(t *testing.T) {
	if aggs := Routes(nil); len(aggs) != 0 {
		t.Fatalf("empty input should yield empty output, got %d rows", len(aggs))
	}
}

func TestRoutesInsertionOrderAndIdempotence(t *testing.T) {
	records := []trips.TripRecord{
		trip("X", "Y"),
		trip("A", "B"),
		trip("X", "Y"),
	}

	first := Routes(records)
	second := Routes(records)

	if len(first) != 2 || len(second) != 2 {
		t.Fatalf("expected 2 rows from both runs, got %d and %d", len(first), len(second))
	}
	if first[0].RoutePair != (RoutePair{StartStationID: "X", EndStationID: "Y"}) {
		t.Errorf("first row should be the first-seen pair, got %v", first[0].RoutePair)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("run mismatch at row %d: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestRoutesFirstSeenCoordinatesWin(t *testing.T) {
	a := trip("A", "B")
	b := trip("A", "B")
	b.StartLat, b.StartLng = 41.0, -75.0 // drifted fix for the same station

	aggs := Routes([]trips.TripRecord{a, b})

	if len(aggs) != 1 {
		t.Fatalf("expected 1 row, got %d", len(aggs))
	}
	if aggs[0].StartLat != a.StartLat || aggs[0].StartLng != a.StartLng {
		t.Errorf("coordinates = (%f, %f), want first-seen (%f, %f)",
			aggs[0].StartLat, aggs[0].StartLng, a.StartLat, a.StartLng)
	}
}

func TestRoutesDurationStatsSkipUnusableDurations(t *testing.T) {
	withDuration := trip("A", "B")
	withDuration.DurationSeconds = 300
	noDuration := trip("A", "B")
	noDuration.DurationSeconds = -1

	aggs := Routes([]trips.TripRecord{withDuration, noDuration})

	if len(aggs) != 1 {
		t.Fatalf("expected 1 row, got %d", len(aggs))
	}
	agg := aggs[0]
	if agg.TripCount != 2 {
		t.Errorf("trip_count = %d, want 2 (durationless trips still count)", agg.TripCount)
	}
	if agg.Duration.Count != 1 {
		t.Errorf("duration observations = %d, want 1", agg.Duration.Count)
	}
	if agg.Duration.Mean != 300 {
		t.Errorf("mean duration = %f, want 300", agg.Duration.Mean)
	}
}

func TestDurationSamples(t *testing.T) {
	short := trip("A", "B")
	short.DurationSeconds = 300
	long := trip("A", "B")
	long.DurationSeconds = 900
	unusable := trip("A", "B")
	unusable.DurationSeconds = -1
	invalid := trip("A", "")
	other := trip("B", "A")

	samples := DurationSamples([]trips.TripRecord{short, long, unusable, invalid, other})

	ab := samples[RoutePair{StartStationID: "A", EndStationID: "B"}]
	if len(ab) != 2 || ab[0] != 300 || ab[1] != 900 {
		t.Errorf("A->B samples = %v, want [300 900]", ab)
	}
	if got := samples[RoutePair{StartStationID: "B", EndStationID: "A"}]; len(got) != 1 {
		t.Errorf("B->A samples = %v, want one observation", got)
	}
	if len(samples) != 2 {
		t.Errorf("expected samples for 2 pairs, got %d", len(samples))
	}
}

func TestSortByTripCount(t *testing.T) {
	aggs := Routes([]trips.TripRecord{
		trip("A", "C"),
		trip("A", "B"), trip("A", "B"), trip("A", "B"),
		trip("B", "A"), trip("B", "A"),
	})

	SortByTripCount(aggs)

	counts := []int{3, 2, 1}
	for i, want := range counts {
		if aggs[i].TripCount != want {
			t.Errorf("row %d trip_count = %d, want %d", i, aggs[i].TripCount, want)
		}
	}
}

func TestStations(t *testing.T) {
	records := []trips.TripRecord{
		trip("A", "B"),
		trip("B", "C"),
		trip("A", "C"),
	}

	stations := Stations(records)

	if len(stations) != 3 {
		t.Fatalf("expected 3 stations, got %d", len(stations))
	}
	// First-appearance order: A (start of first trip), B (end of first
	// trip), C.
	for i, id := range []string{"A", "B", "C"} {
		if stations[i].ID != id {
			t.Errorf("station %d = %s, want %s", i, stations[i].ID, id)
		}
	}
}

func TestTopStartStations(t *testing.T) {
	records := []trips.TripRecord{
		trip("A", "B"), trip("A", "C"), trip("A", "D"),
		trip("B", "A"), trip("B", "C"),
		trip("C", "A"),
	}

	top := TopStartStations(records, 2)

	if len(top) != 2 {
		t.Fatalf("expected 2 stations, got %d", len(top))
	}
	if top[0].StationID != "A" || top[0].TripCount != 3 {
		t.Errorf("top station = %s (%d), want A (3)", top[0].StationID, top[0].TripCount)
	}
	if top[1].StationID != "B" || top[1].TripCount != 2 {
		t.Errorf("second station = %s (%d), want B (2)", top[1].StationID, top[1].TripCount)
	}
}

func TestDurationByWeekday(t *testing.T) {
	monday := time.Date(2022, 6, 6, 8, 0, 0, 0, time.UTC) // a Monday
	saturday := time.Date(2022, 6, 11, 14, 0, 0, 0, time.UTC)

	mk := func(day time.Time, rider trips.RiderType, dur float64) trips.TripRecord {
		rec := trip("A", "B")
		rec.StartedAt = day
		rec.EndedAt = day.Add(time.Duration(dur) * time.Second)
		rec.RiderType = rider
		rec.DurationSeconds = dur
		return rec
	}

	rows := DurationByWeekday([]trips.TripRecord{
		mk(monday, trips.RiderMember, 600),
		mk(monday, trips.RiderMember, 1200),
		mk(monday, trips.RiderCasual, 1800),
		mk(saturday, trips.RiderCasual, 3600),
	})

	if len(rows) != 3 {
		t.Fatalf("expected 3 buckets, got %d", len(rows))
	}

	// Monday member first, then Monday casual, then Saturday casual.
	if rows[0].Weekday != time.Monday || rows[0].RiderType != trips.RiderMember {
		t.Errorf("row 0 = %v/%s, want Monday/member", rows[0].Weekday, rows[0].RiderType)
	}
	if rows[0].MeanSeconds != 900 {
		t.Errorf("Monday member mean = %f, want 900", rows[0].MeanSeconds)
	}
	if rows[2].Weekday != time.Saturday || rows[2].MeanSeconds != 3600 {
		t.Errorf("row 2 = %v mean %f, want Saturday mean 3600", rows[2].Weekday, rows[2].MeanSeconds)
	}
}
