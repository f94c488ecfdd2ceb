package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/unaza1990/citibike-2022-dashboard/internal/models"
)

// FreshnessRepository defines the interface for health probes
type FreshnessRepository interface {
	Freshness(ctx context.Context) (*models.Freshness, error)
}

// HealthHandler handles HTTP requests for service health
type HealthHandler struct {
	repo FreshnessRepository
}

// NewHealthHandler creates a new handler with the given repository
func NewHealthHandler(repo FreshnessRepository) *HealthHandler {
	return &HealthHandler{repo: repo}
}

// HealthResponse is the JSON response for GET /health
type HealthResponse struct {
	Status     string            `json:"status"`
	Database   string            `json:"database"`
	Timestamp  time.Time         `json:"timestamp"`
	Aggregates *models.Freshness `json:"aggregates,omitempty"`
	Error      string            `json:"error,omitempty"`
}

// GetHealth handles GET /health with a database connectivity probe
func (h *HealthHandler) GetHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	freshness, err := h.repo.Freshness(ctx)
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, HealthResponse{
			Status:    "error",
			Database:  "disconnected",
			Timestamp: time.Now().UTC(),
			Error:     err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, HealthResponse{
		Status:     "ok",
		Database:   "connected",
		Timestamp:  time.Now().UTC(),
		Aggregates: freshness,
	})
}
