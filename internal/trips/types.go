package trips

import "time"

// RiderType distinguishes subscription members from casual riders.
type RiderType string

const (
	RiderMember RiderType = "member"
	RiderCasual RiderType = "casual"
)

// TripRecord represents one cleaned bike-share trip
type TripRecord struct {
	RideID           string
	StartStationID   string
	StartStationName string
	EndStationID     string
	EndStationName   string
	StartLat         float64
	StartLng         float64
	EndLat           float64
	EndLng           float64
	StartedAt        time.Time
	EndedAt          time.Time
	RiderType        RiderType

	// DurationSeconds is negative when the trip has no usable duration
	// (missing or inverted timestamps). Such trips still count toward
	// trip volumes but are excluded from duration statistics.
	DurationSeconds float64
}

// HasDuration reports whether the trip carries a usable duration.
func (t *TripRecord) HasDuration() bool {
	return t.DurationSeconds >= 0
}

// Valid reports whether the record has both station identifiers and
// both coordinate pairs, which every aggregation requires.
func (t *TripRecord) Valid() bool {
	if t.StartStationID == "" || t.EndStationID == "" {
		return false
	}
	if !validCoord(t.StartLat, t.StartLng) || !validCoord(t.EndLat, t.EndLng) {
		return false
	}
	return true
}

func validCoord(lat, lng float64) bool {
	if lat == 0 && lng == 0 {
		// (0,0) is in the Gulf of Guinea; in this dataset it only ever
		// means the station had no fix.
		return false
	}
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

// Station represents one dock station with its first-seen coordinates
type Station struct {
	ID   string
	Name string
	Lat  float64
	Lng  float64
}
