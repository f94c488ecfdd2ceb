package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/unaza1990/citibike-2022-dashboard/internal/analysis"
	"github.com/unaza1990/citibike-2022-dashboard/internal/models"
)

// UsageRepository defines the interface for usage series reads
type UsageRepository interface {
	DailyUsage(ctx context.Context, season string) ([]models.DailyUsage, error)
	WeekdayDurations(ctx context.Context) ([]models.WeekdayDuration, error)
}

// UsageHandler handles HTTP requests for the usage series
type UsageHandler struct {
	repo UsageRepository
}

// NewUsageHandler creates a new handler with the given repository
func NewUsageHandler(repo UsageRepository) *UsageHandler {
	return &UsageHandler{repo: repo}
}

// DailyUsageResponse is the JSON response for GET /api/usage/daily
type DailyUsageResponse struct {
	Days       []models.DailyUsage `json:"days"`
	Count      int                 `json:"count"`
	TotalRides float64             `json:"totalRides"`
	Season     string              `json:"season,omitempty"`
}

// validSeasons guards the query param; anything else reads as "no filter".
var validSeasons = func() map[string]bool {
	m := make(map[string]bool, len(analysis.Seasons))
	for _, s := range analysis.Seasons {
		m[s] = true
	}
	return m
}()

// GetDailyUsage handles GET /api/usage/daily
// Query params: season (optional, one of Winter/Spring/Summer/Fall)
func (h *UsageHandler) GetDailyUsage(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	season := r.URL.Query().Get("season")
	if !validSeasons[season] {
		season = ""
	}

	days, err := h.repo.DailyUsage(ctx, season)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get daily usage")
		return
	}

	var total float64
	for _, d := range days {
		total += d.BikeRides
	}

	writeJSON(w, http.StatusOK, DailyUsageResponse{
		Days:       days,
		Count:      len(days),
		TotalRides: total,
		Season:     season,
	})
}

// WeekdayResponse is the JSON response for GET /api/usage/weekday
type WeekdayResponse struct {
	Buckets []models.WeekdayDuration `json:"buckets"`
	Count   int                      `json:"count"`
}

// GetWeekdayDurations handles GET /api/usage/weekday
func (h *UsageHandler) GetWeekdayDurations(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	buckets, err := h.repo.WeekdayDurations(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get weekday durations")
		return
	}

	writeJSON(w, http.StatusOK, WeekdayResponse{Buckets: buckets, Count: len(buckets)})
}
