package main

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/unaza1990/citibike-2022-dashboard/internal/config"
	"github.com/unaza1990/citibike-2022-dashboard/internal/handlers"
	"github.com/unaza1990/citibike-2022-dashboard/internal/repository"
)

// analyticsRepository is everything the handlers read.
type analyticsRepository interface {
	handlers.RouteRepository
	handlers.StationRepository
	handlers.UsageRepository
	handlers.FreshnessRepository
}

func main() {
	// Load .env first, then .env.local overrides for local development
	_ = godotenv.Load(".env")
	_ = godotenv.Overload(".env.local")

	cfg := config.Load()

	var repo analyticsRepository
	if cfg.PostgresURL != "" {
		log.Println("Connecting to Postgres...")
		pgRepo, err := repository.NewPostgresAnalyticsRepository(cfg.PostgresURL)
		if err != nil {
			log.Fatalf("Failed to connect to Postgres: %v", err)
		}
		defer pgRepo.Close()
		repo = pgRepo
	} else {
		log.Printf("Connecting to SQLite database: %s", cfg.DatabasePath)
		sqliteDB, err := repository.NewSQLiteDB(cfg.DatabasePath)
		if err != nil {
			log.Fatalf("Failed to initialize SQLite database: %v", err)
		}
		defer sqliteDB.Close()
		repo = repository.NewSQLiteAnalyticsRepository(sqliteDB.DB())
	}

	routeHandler := handlers.NewRouteHandler(repo)
	stationHandler := handlers.NewStationHandler(repo)
	usageHandler := handlers.NewUsageHandler(repo)
	healthHandler := handlers.NewHealthHandler(repo)

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	r.Get("/health", healthHandler.GetHealth)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/api/routes/top", routeHandler.GetTopRoutes)
	r.Get("/api/stations/top", stationHandler.GetTopStations)
	r.Get("/api/usage/daily", usageHandler.GetDailyUsage)
	r.Get("/api/usage/weekday", usageHandler.GetWeekdayDurations)

	// Serve the generated artifacts (map document, chart JSON) directly
	fs := http.FileServer(http.Dir(cfg.ArtifactsDir))
	r.Handle("/artifacts/*", http.StripPrefix("/artifacts/", fs))

	log.Printf("API listening on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
