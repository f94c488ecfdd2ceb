package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/unaza1990/citibike-2022-dashboard/internal/models"
)

// StationRepository defines the interface for station ranking reads
type StationRepository interface {
	TopStations(ctx context.Context, limit int) ([]models.StationRank, error)
}

// StationHandler handles HTTP requests for station rankings
type StationHandler struct {
	repo StationRepository
}

// NewStationHandler creates a new handler with the given repository
func NewStationHandler(repo StationRepository) *StationHandler {
	return &StationHandler{repo: repo}
}

// StationsResponse is the JSON response for GET /api/stations/top
type StationsResponse struct {
	Stations    []models.StationRank `json:"stations"`
	Count       int                  `json:"count"`
	LastChecked time.Time            `json:"lastChecked"`
}

// GetTopStations handles GET /api/stations/top
// Query params: limit (optional, default 20, max 200)
func (h *StationHandler) GetTopStations(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	limit := parseLimit(r.URL.Query().Get("limit"), 20, 200)

	stations, err := h.repo.TopStations(ctx, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get stations")
		return
	}

	writeJSON(w, http.StatusOK, StationsResponse{
		Stations:    stations,
		Count:       len(stations),
		LastChecked: time.Now().UTC(),
	})
}
