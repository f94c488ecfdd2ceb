// Package aggregate turns cleaned trip records into the grouped tables
// the dashboard renders: route-pair volumes for the arc map, station
// rankings, and weekday duration profiles.
package aggregate

import (
	"sort"

	"github.com/unaza1990/citibike-2022-dashboard/internal/stats"
	"github.com/unaza1990/citibike-2022-dashboard/internal/trips"
)

// RoutePair is an ordered (start, end) station combination. A->B and
// B->A are distinct pairs.
type RoutePair struct {
	StartStationID string
	EndStationID   string
}

// RouteAggregate is one row of the arc-map input table.
type RouteAggregate struct {
	RoutePair
	StartStationName string
	EndStationName   string

	// Representative coordinates for the pair. The first observed
	// coordinates for the pair win; the source data occasionally drifts
	// per record and first-seen keeps the output deterministic.
	StartLat float64
	StartLng float64
	EndLat   float64
	EndLng   float64

	TripCount int

	// Duration holds running duration statistics in seconds over the
	// trips in the group that carry a usable duration. Duration.Count
	// can be lower than TripCount.
	Duration stats.Running
}

// Routes groups trips by ordered (start, end) station pair and counts
// them. Records failing the validity invariant are dropped silently.
// Output order is first-appearance order; an empty input yields an
// empty (nil) result rather than an error.
func Routes(records []trips.TripRecord) []RouteAggregate {
	var out []RouteAggregate
	index := make(map[RoutePair]int)

	for i := range records {
		rec := &records[i]
		if !rec.Valid() {
			continue
		}

		key := RoutePair{StartStationID: rec.StartStationID, EndStationID: rec.EndStationID}
		at, ok := index[key]
		if !ok {
			at = len(out)
			index[key] = at
			out = append(out, RouteAggregate{
				RoutePair:        key,
				StartStationName: rec.StartStationName,
				EndStationName:   rec.EndStationName,
				StartLat:         rec.StartLat,
				StartLng:         rec.StartLng,
				EndLat:           rec.EndLat,
				EndLng:           rec.EndLng,
			})
		}

		agg := &out[at]
		agg.TripCount++
		if rec.HasDuration() {
			agg.Duration.Add(rec.DurationSeconds)
		}
	}

	return out
}

// DurationSamples collects the usable trip durations per route pair,
// in seconds, for quantile summaries. Quantiles need the raw
// observations; the running statistics on RouteAggregate cannot
// produce a median.
func DurationSamples(records []trips.TripRecord) map[RoutePair][]float64 {
	out := make(map[RoutePair][]float64)
	for i := range records {
		rec := &records[i]
		if !rec.Valid() || !rec.HasDuration() {
			continue
		}
		key := RoutePair{StartStationID: rec.StartStationID, EndStationID: rec.EndStationID}
		out[key] = append(out[key], rec.DurationSeconds)
	}
	return out
}

// SortByTripCount orders aggregates by descending trip count, breaking
// ties by pair key so repeated runs emit identical artifacts.
func SortByTripCount(aggs []RouteAggregate) {
	sort.Slice(aggs, func(i, j int) bool {
		if aggs[i].TripCount != aggs[j].TripCount {
			return aggs[i].TripCount > aggs[j].TripCount
		}
		if aggs[i].StartStationID != aggs[j].StartStationID {
			return aggs[i].StartStationID < aggs[j].StartStationID
		}
		return aggs[i].EndStationID < aggs[j].EndStationID
	})
}

// Stations extracts the distinct stations referenced by the given
// records, with first-seen coordinates, in first-appearance order.
func Stations(records []trips.TripRecord) []trips.Station {
	var out []trips.Station
	seen := make(map[string]bool)

	add := func(id, name string, lat, lng float64) {
		if id == "" || seen[id] {
			return
		}
		seen[id] = true
		out = append(out, trips.Station{ID: id, Name: name, Lat: lat, Lng: lng})
	}

	for i := range records {
		rec := &records[i]
		if !rec.Valid() {
			continue
		}
		add(rec.StartStationID, rec.StartStationName, rec.StartLat, rec.StartLng)
		add(rec.EndStationID, rec.EndStationName, rec.EndLat, rec.EndLng)
	}

	return out
}
