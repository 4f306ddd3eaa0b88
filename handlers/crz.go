package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/ek3433/ARISE2025-Dashboard/models"
)

// CRZRepository defines the interface for congestion-zone summary queries
type CRZRepository interface {
	GetDimensions(ctx context.Context) (models.CRZDimensions, error)
	GetSeries(ctx context.Context, f models.CRZFilter) ([]models.CRZSeriesPoint, error)
	GetExcluded(ctx context.Context, start, end time.Time) ([]models.CRZExcluded, error)
}

// CRZHandler handles HTTP requests for the congestion-zone dashboard
type CRZHandler struct {
	repo CRZRepository
}

// NewCRZHandler creates a new handler with the given repository
func NewCRZHandler(repo CRZRepository) *CRZHandler {
	return &CRZHandler{repo: repo}
}

// SeriesResponse is the JSON response structure for GET /api/crz/entries
type SeriesResponse struct {
	Points []models.CRZSeriesPoint `json:"points"`
	Count  int                     `json:"count"`
	Level  models.AggLevel         `json:"level"`
	Value  models.ValueType        `json:"value"`
}

// ExcludedResponse is the JSON response structure for GET /api/crz/excluded
type ExcludedResponse struct {
	Points []models.CRZExcluded `json:"points"`
	Count  int                  `json:"count"`
}

// GetDimensions handles GET /api/crz/dimensions
// Returns the distinct regions, vehicle classes and detection groups present
// in the summary plus the covered date range, for the dashboard dropdowns.
func (h *CRZHandler) GetDimensions(w http.ResponseWriter, r *http.Request) {
	dims, err := h.repo.GetDimensions(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to retrieve filter dimensions", err)
		return
	}
	respondJSON(w, http.StatusOK, dims)
}

// GetEntries handles GET /api/crz/entries
// Query parameters: level (hourly|daily|weekly|monthly), region, class and
// group (each repeated), start/end (YYYY-MM-DD), value (sum|mean). Cleared
// dimension filters match everything.
func (h *CRZHandler) GetEntries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := models.CRZFilter{
		Level:           models.ParseAggLevel(q.Get("level")),
		Regions:         nonEmpty(q["region"]),
		VehicleClasses:  nonEmpty(q["class"]),
		DetectionGroups: nonEmpty(q["group"]),
		Value:           models.ParseValueType(q.Get("value")),
	}

	start, err := parseDate(q.Get("start"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid start date", err)
		return
	}
	end, err := parseDate(q.Get("end"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid end date", err)
		return
	}
	filter.Start, filter.End = start, end

	points, err := h.repo.GetSeries(r.Context(), filter)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to retrieve entries", err)
		return
	}
	if points == nil {
		points = []models.CRZSeriesPoint{}
	}
	respondJSON(w, http.StatusOK, SeriesResponse{
		Points: points,
		Count:  len(points),
		Level:  filter.Level,
		Value:  filter.Value,
	})
}

// GetExcluded handles GET /api/crz/excluded
func (h *CRZHandler) GetExcluded(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	start, err := parseDate(q.Get("start"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid start date", err)
		return
	}
	end, err := parseDate(q.Get("end"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid end date", err)
		return
	}

	points, err := h.repo.GetExcluded(r.Context(), start, end)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to retrieve excluded-roadway entries", err)
		return
	}
	if points == nil {
		points = []models.CRZExcluded{}
	}
	respondJSON(w, http.StatusOK, ExcludedResponse{Points: points, Count: len(points)})
}

// nonEmpty drops blank values from a repeated query parameter.
func nonEmpty(values []string) []string {
	var out []string
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
