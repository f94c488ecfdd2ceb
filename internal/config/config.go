package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds all configuration for the pipeline and API
type Config struct {
	// Database
	DatabasePath string

	// Inputs
	TripsPath string
	DailyPath string

	// Artifact generation
	ArtifactsDir string
	TopStations  int
	ArcMinTrips  int // pairs below this trip count are left off the map

	// Import housekeeping
	KeepImportBatches int

	// API
	Port           string
	AllowedOrigins []string
	PostgresURL    string // when set, the API reads from Postgres instead of SQLite
}

// Load reads configuration from environment variables with sensible defaults
func Load() *Config {
	return &Config{
		DatabasePath: getEnv("SQLITE_DATABASE", "data/citibike.db"),

		TripsPath: getEnv("TRIPS_CSV", "data/citibike_trip_sample.csv"),
		DailyPath: getEnv("DAILY_CSV", "data/reduced_data_to_plot.csv"),

		ArtifactsDir: getEnv("ARTIFACTS_DIR", "web_public/citibike_data"),
		TopStations:  getEnvInt("TOP_STATIONS", 20),
		ArcMinTrips:  getEnvInt("ARC_MIN_TRIPS", 2),

		KeepImportBatches: getEnvInt("KEEP_IMPORT_BATCHES", 5),

		Port:           getEnv("PORT", "8081"),
		AllowedOrigins: getEnvList("ALLOWED_ORIGINS", "http://localhost:5173"),
		PostgresURL:    getEnv("DATABASE_URL", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvList(key, defaultValue string) []string {
	raw := getEnv(key, defaultValue)
	parts := strings.Split(raw, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
