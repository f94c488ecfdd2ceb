package geo

import (
	"math"
	"testing"
)

func TestHaversineKm(t *testing.T) {
	// Times Square to Grand Central is roughly 1.1 km.
	d := HaversineKm(40.758, -73.9855, 40.7527, -73.9772)
	if d < 0.9 || d > 1.3 {
		t.Errorf("Times Square -> Grand Central = %f km, expected ~1.1", d)
	}
}

func TestHaversineKmZeroDistance(t *testing.T) {
	if d := HaversineKm(40.7, -74.0, 40.7, -74.0); math.Abs(d) > 1e-9 {
		t.Errorf("same point should be 0 km apart, got %f", d)
	}
}

func TestHaversineKmSymmetry(t *testing.T) {
	a := HaversineKm(40.70, -74.00, 40.80, -73.90)
	b := HaversineKm(40.80, -73.90, 40.70, -74.00)
	if math.Abs(a-b) > 1e-9 {
		t.Errorf("distance should be symmetric: %f vs %f", a, b)
	}
}
