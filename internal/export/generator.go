// Package export writes the rendering-layer artifacts: arc-map JSON,
// station GeoJSON, chart data files, a standalone interactive map
// document, and a manifest with checksums so the frontend can detect
// stale data.
package export

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/unaza1990/citibike-2022-dashboard/internal/aggregate"
	"github.com/unaza1990/citibike-2022-dashboard/internal/analysis"
	"github.com/unaza1990/citibike-2022-dashboard/internal/geo"
	"github.com/unaza1990/citibike-2022-dashboard/internal/stats"
)

// Arc is one origin->destination line on the trip map.
type Arc struct {
	StartStationID    string     `json:"start_station_id"`
	StartStationName  string     `json:"start_station_name"`
	EndStationID      string     `json:"end_station_id"`
	EndStationName    string     `json:"end_station_name"`
	Start             [2]float64 `json:"start"` // [lng, lat]
	End               [2]float64 `json:"end"`   // [lng, lat]
	TripCount         int        `json:"trip_count"`
	AvgDurationMin    float64    `json:"avg_duration_min"`
	MedianDurationMin float64    `json:"median_duration_min"`
	P90DurationMin    float64    `json:"p90_duration_min"`
	DistanceKm        float64    `json:"distance_km"`
}

// StationFeatureCollection is a GeoJSON FeatureCollection for stations
type StationFeatureCollection struct {
	Type     string           `json:"type"`
	Features []StationFeature `json:"features"`
}

// StationFeature represents a station GeoJSON feature
type StationFeature struct {
	Type       string        `json:"type"`
	ID         string        `json:"id"`
	Properties StationProps  `json:"properties"`
	Geometry   PointGeometry `json:"geometry"`
}

// StationProps contains station properties
type StationProps struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	TripCount int    `json:"trip_count"`
}

// PointGeometry represents Point geometry
type PointGeometry struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

// Viewport is the initial camera for the map document.
type Viewport struct {
	Center center        `json:"center"`
	Zoom   float64       `json:"zoom"`
	Bounds [2][2]float64 `json:"bounds"` // [[sw lng, sw lat], [ne lng, ne lat]]
}

type center struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// TopStationRow is one bar of the popular-stations chart.
type TopStationRow struct {
	StationName string `json:"station_name"`
	TripCount   int    `json:"trip_count"`
}

// WeekdayRow is one bar segment of the stacked duration chart.
type WeekdayRow struct {
	Weekday    string  `json:"weekday"`
	RiderType  string  `json:"rider_type"`
	TripCount  int     `json:"trip_count"`
	AvgMinutes float64 `json:"avg_minutes"`
}

// Manifest indexes the generated artifacts
type Manifest struct {
	GeneratedAt string                  `json:"generated_at"`
	TotalRides  int                     `json:"total_rides"`
	Files       map[string]ManifestFile `json:"files"`
}

// ManifestFile is one artifact entry
type ManifestFile struct {
	Path     string `json:"path"`
	Checksum string `json:"checksum"`
}

// Inputs carries everything the generator renders.
type Inputs struct {
	Routes      []aggregate.RouteAggregate
	TopStations []aggregate.StationRank
	Weekday     []aggregate.WeekdayDuration
	Daily       []analysis.DailyUsage
	TotalRides  int

	// DurationSamples holds the raw per-pair durations in seconds, for
	// the median/p90 columns the running statistics cannot provide.
	DurationSamples map[aggregate.RoutePair][]float64

	// MinTripCount drops pairs below this volume from the map; a
	// single-trip arc is noise at city scale.
	MinTripCount int
}

// Generate writes all artifacts into outputDir and returns the manifest.
func Generate(in Inputs, outputDir string) (*Manifest, error) {
	chartsDir := filepath.Join(outputDir, "charts")
	if err := os.MkdirAll(chartsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	manifest := &Manifest{
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		TotalRides:  in.TotalRides,
		Files:       make(map[string]ManifestFile),
	}

	arcs := buildArcs(in.Routes, in.DurationSamples, in.MinTripCount)
	if err := writeArtifact(manifest, outputDir, "arcs", "arcs.json", arcs); err != nil {
		return nil, err
	}

	stations := buildStationCollection(in.TopStations)
	if err := writeArtifact(manifest, outputDir, "stations", "stations.geojson", stations); err != nil {
		return nil, err
	}

	viewport := computeViewport(in.TopStations)
	if err := writeArtifact(manifest, outputDir, "viewport", "viewport.json", viewport); err != nil {
		return nil, err
	}

	if err := writeArtifact(manifest, outputDir, "daily_usage", "charts/daily_usage.json", in.Daily); err != nil {
		return nil, err
	}

	topRows := make([]TopStationRow, len(in.TopStations))
	for i, s := range in.TopStations {
		topRows[i] = TopStationRow{StationName: s.StationName, TripCount: s.TripCount}
	}
	if err := writeArtifact(manifest, outputDir, "top_stations", "charts/top_stations.json", topRows); err != nil {
		return nil, err
	}

	weekdayRows := make([]WeekdayRow, len(in.Weekday))
	for i, w := range in.Weekday {
		weekdayRows[i] = WeekdayRow{
			Weekday:    w.Weekday.String(),
			RiderType:  string(w.RiderType),
			TripCount:  w.TripCount,
			AvgMinutes: w.MeanSeconds / 60,
		}
	}
	if err := writeArtifact(manifest, outputDir, "weekday_durations", "charts/weekday_durations.json", weekdayRows); err != nil {
		return nil, err
	}

	htmlChecksum, err := writeMapHTML(filepath.Join(outputDir, "citibike_trip_routes.html"), arcs, viewport)
	if err != nil {
		return nil, fmt.Errorf("failed to write map document: %w", err)
	}
	manifest.Files["map_html"] = ManifestFile{Path: "citibike_trip_routes.html", Checksum: htmlChecksum}

	if err := writeJSON(filepath.Join(outputDir, "manifest.json"), manifest); err != nil {
		return nil, fmt.Errorf("failed to write manifest.json: %w", err)
	}

	log.Printf("Artifacts generated: %d arcs, %d stations, %d days", len(arcs), len(in.TopStations), len(in.Daily))
	return manifest, nil
}

func buildArcs(routes []aggregate.RouteAggregate, samples map[aggregate.RoutePair][]float64, minTrips int) []Arc {
	sorted := append([]aggregate.RouteAggregate(nil), routes...)
	aggregate.SortByTripCount(sorted)

	arcs := make([]Arc, 0, len(sorted))
	for i := range sorted {
		r := &sorted[i]
		if r.TripCount < minTrips {
			// Sorted descending, nothing below passes either.
			break
		}
		summary := stats.Summarize(samples[r.RoutePair])
		arcs = append(arcs, Arc{
			StartStationID:    r.StartStationID,
			StartStationName:  r.StartStationName,
			EndStationID:      r.EndStationID,
			EndStationName:    r.EndStationName,
			Start:             [2]float64{r.StartLng, r.StartLat},
			End:               [2]float64{r.EndLng, r.EndLat},
			TripCount:         r.TripCount,
			AvgDurationMin:    r.Duration.Mean / 60,
			MedianDurationMin: summary.Median / 60,
			P90DurationMin:    summary.P90 / 60,
			DistanceKm:        geo.HaversineKm(r.StartLat, r.StartLng, r.EndLat, r.EndLng),
		})
	}
	return arcs
}

func buildStationCollection(stations []aggregate.StationRank) StationFeatureCollection {
	fc := StationFeatureCollection{Type: "FeatureCollection", Features: []StationFeature{}}
	for _, s := range stations {
		fc.Features = append(fc.Features, StationFeature{
			Type: "Feature",
			ID:   s.StationID,
			Properties: StationProps{
				ID:        s.StationID,
				Name:      s.StationName,
				TripCount: s.TripCount,
			},
			Geometry: PointGeometry{
				Type:        "Point",
				Coordinates: [2]float64{s.Lng, s.Lat},
			},
		})
	}
	return fc
}

// computeViewport centers the map on the stations' bounding box, or
// on lower Manhattan when there are none.
func computeViewport(stations []aggregate.StationRank) Viewport {
	if len(stations) == 0 {
		return Viewport{
			Center: center{Lat: 40.7549, Lng: -73.984},
			Zoom:   11.5,
			Bounds: [2][2]float64{{-74.1, 40.6}, {-73.85, 40.9}},
		}
	}

	minLat, maxLat := stations[0].Lat, stations[0].Lat
	minLng, maxLng := stations[0].Lng, stations[0].Lng
	for _, s := range stations[1:] {
		if s.Lat < minLat {
			minLat = s.Lat
		}
		if s.Lat > maxLat {
			maxLat = s.Lat
		}
		if s.Lng < minLng {
			minLng = s.Lng
		}
		if s.Lng > maxLng {
			maxLng = s.Lng
		}
	}

	return Viewport{
		Center: center{Lat: (minLat + maxLat) / 2, Lng: (minLng + maxLng) / 2},
		Zoom:   11.5,
		Bounds: [2][2]float64{{minLng, minLat}, {maxLng, maxLat}},
	}
}

func writeArtifact(m *Manifest, outputDir, key, relPath string, v interface{}) error {
	fullPath := filepath.Join(outputDir, relPath)
	checksum, err := writeJSONChecksum(fullPath, v)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", relPath, err)
	}
	m.Files[key] = ManifestFile{Path: relPath, Checksum: checksum}
	return nil
}

func writeJSONChecksum(path string, v interface{}) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
