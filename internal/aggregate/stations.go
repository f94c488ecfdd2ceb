package aggregate

import (
	"sort"

	"github.com/unaza1990/citibike-2022-dashboard/internal/trips"
)

// StationRank is one row of the popular-stations ranking.
type StationRank struct {
	StationID   string
	StationName string
	Lat         float64
	Lng         float64
	TripCount   int
}

// TopStartStations ranks stations by the number of trips departing
// from them and returns the busiest limit stations, most popular
// first. limit <= 0 returns the full ranking. Ties break by station
// name so the chart is stable across runs.
func TopStartStations(records []trips.TripRecord, limit int) []StationRank {
	index := make(map[string]int)
	var ranks []StationRank

	for i := range records {
		rec := &records[i]
		if !rec.Valid() {
			continue
		}

		at, ok := index[rec.StartStationID]
		if !ok {
			at = len(ranks)
			index[rec.StartStationID] = at
			ranks = append(ranks, StationRank{
				StationID:   rec.StartStationID,
				StationName: rec.StartStationName,
				Lat:         rec.StartLat,
				Lng:         rec.StartLng,
			})
		}
		ranks[at].TripCount++
	}

	sort.Slice(ranks, func(i, j int) bool {
		if ranks[i].TripCount != ranks[j].TripCount {
			return ranks[i].TripCount > ranks[j].TripCount
		}
		return ranks[i].StationName < ranks[j].StationName
	})

	if limit > 0 && len(ranks) > limit {
		ranks = ranks[:limit]
	}
	return ranks
}
