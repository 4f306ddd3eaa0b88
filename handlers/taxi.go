package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/ek3433/ARISE2025-Dashboard/models"
)

// TaxiRepository defines the interface for taxi summary queries
type TaxiRepository interface {
	GetLicenseClasses(ctx context.Context) ([]string, error)
	GetMonthlyForClass(ctx context.Context, class string) ([]models.TaxiMonthly, error)
}

// TaxiHandler handles HTTP requests for the taxi dashboard
type TaxiHandler struct {
	repo TaxiRepository
}

// NewTaxiHandler creates a new handler with the given repository
func NewTaxiHandler(repo TaxiRepository) *TaxiHandler {
	return &TaxiHandler{repo: repo}
}

// ClassesResponse is the JSON response structure for GET /api/taxi/classes
type ClassesResponse struct {
	Classes []string `json:"classes"`
	Count   int      `json:"count"`
}

// GetClasses handles GET /api/taxi/classes
func (h *TaxiHandler) GetClasses(w http.ResponseWriter, r *http.Request) {
	classes, err := h.repo.GetLicenseClasses(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to retrieve license classes", err)
		return
	}
	respondJSON(w, http.StatusOK, ClassesResponse{Classes: classes, Count: len(classes)})
}

// GetMonthly handles GET /api/taxi/monthly
// Query parameters: class (required), start/end (YYYY-MM-DD), metric
// (abs|pct). Months whose source value was a placeholder stay in the series
// with a null value.
func (h *TaxiHandler) GetMonthly(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	class := q.Get("class")
	if class == "" {
		respondError(w, http.StatusBadRequest, "Missing required parameter: class", nil)
		return
	}
	metric := models.ParseMetric(q.Get("metric"))

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

	rows, err := h.repo.GetMonthlyForClass(r.Context(), class)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to retrieve monthly trips", err)
		return
	}

	points := models.TaxiSeries(rows, class, start, end, metric)
	respondJSON(w, http.StatusOK, MonthlyResponse{
		Points:      points,
		Count:       len(points),
		Metric:      metric,
		GeneratedAt: time.Now().UTC(),
	})
}
