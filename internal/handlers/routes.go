package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/unaza1990/citibike-2022-dashboard/internal/models"
)

// RouteRepository defines the interface for route aggregate reads
type RouteRepository interface {
	TopRoutes(ctx context.Context, limit int) ([]models.Route, error)
}

// RouteHandler handles HTTP requests for route aggregates
type RouteHandler struct {
	repo RouteRepository
}

// NewRouteHandler creates a new handler with the given repository
func NewRouteHandler(repo RouteRepository) *RouteHandler {
	return &RouteHandler{repo: repo}
}

// RoutesResponse is the JSON response for GET /api/routes/top
type RoutesResponse struct {
	Routes      []models.Route `json:"routes"`
	Count       int            `json:"count"`
	LastChecked time.Time      `json:"lastChecked"`
}

// GetTopRoutes handles GET /api/routes/top
// Query params: limit (optional, default 100, max 1000)
func (h *RouteHandler) GetTopRoutes(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	limit := parseLimit(r.URL.Query().Get("limit"), 100, 1000)

	routes, err := h.repo.TopRoutes(ctx, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get routes")
		return
	}

	writeJSON(w, http.StatusOK, RoutesResponse{
		Routes:      routes,
		Count:       len(routes),
		LastChecked: time.Now().UTC(),
	})
}

func parseLimit(raw string, def, max int) int {
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return def
	}
	if n > max {
		return max
	}
	return n
}
