// Package models defines the JSON shapes the API serves.
package models

import (
	"fmt"
	"time"
)

// Route is one aggregated route pair as served by the API.
type Route struct {
	StartStationID     string  `json:"startStationId"`
	StartStationName   string  `json:"startStationName"`
	EndStationID       string  `json:"endStationId"`
	EndStationName     string  `json:"endStationName"`
	StartLat           float64 `json:"startLat"`
	StartLng           float64 `json:"startLng"`
	EndLat             float64 `json:"endLat"`
	EndLng             float64 `json:"endLng"`
	TripCount          int     `json:"tripCount"`
	AvgDurationSeconds float64 `json:"avgDurationSeconds"`
	DurationStdDev     float64 `json:"durationStdDev"`
}

// Validate checks the route row for impossible values.
func (r *Route) Validate() error {
	if r.StartStationID == "" || r.EndStationID == "" {
		return fmt.Errorf("route missing station identifiers")
	}
	if r.TripCount < 1 {
		return fmt.Errorf("route %s->%s has trip count %d", r.StartStationID, r.EndStationID, r.TripCount)
	}
	for _, c := range []struct {
		name string
		lat  float64
		lng  float64
	}{
		{"start", r.StartLat, r.StartLng},
		{"end", r.EndLat, r.EndLng},
	} {
		if c.lat < -90 || c.lat > 90 {
			return fmt.Errorf("route %s latitude out of range: %f", c.name, c.lat)
		}
		if c.lng < -180 || c.lng > 180 {
			return fmt.Errorf("route %s longitude out of range: %f", c.name, c.lng)
		}
	}
	return nil
}

// StationRank is one row of the popular-stations ranking.
type StationRank struct {
	StationID   string  `json:"stationId"`
	StationName string  `json:"stationName"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	TripCount   int     `json:"tripCount"`
}

// DailyUsage is one day of the rides/temperature series.
type DailyUsage struct {
	Day       string  `json:"day"`
	BikeRides float64 `json:"bikeRides"`
	AvgTempF  float64 `json:"avgTempF"`
	Season    string  `json:"season"`
}

// WeekdayDuration is one (weekday, rider type) duration bucket.
type WeekdayDuration struct {
	Weekday     string  `json:"weekday"`
	RiderType   string  `json:"riderType"`
	TripCount   int     `json:"tripCount"`
	MeanMinutes float64 `json:"meanMinutes"`
}

// WeekdayNames maps the stored Monday-first index to a display name.
var WeekdayNames = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// WeekdayName returns the display name for a stored weekday index.
func WeekdayName(i int) string {
	if i < 0 || i >= len(WeekdayNames) {
		return fmt.Sprintf("day-%d", i)
	}
	return WeekdayNames[i]
}

// Freshness describes when the aggregates were last computed.
type Freshness struct {
	ComputedAt *time.Time `json:"computedAt"`
	RouteCount int        `json:"routeCount"`
}
