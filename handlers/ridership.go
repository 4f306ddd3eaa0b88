package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/bluele/gcache"

	"github.com/ek3433/ARISE2025-Dashboard/models"
)

// RidershipRepository defines the interface for bus summary data operations
type RidershipRepository interface {
	GetRoutes(ctx context.Context) ([]string, error)
	GetMonthlyForRoutes(ctx context.Context, routes []string) ([]models.MonthlyRidership, error)
}

// BusHandler handles HTTP requests for the bus ridership dashboard
type BusHandler struct {
	repo  RidershipRepository
	cache gcache.Cache
}

// NewBusHandler creates a new handler with the given repository. Filter
// results are cached briefly so repeated dashboard interactions don't
// re-query the summary.
func NewBusHandler(repo RidershipRepository) *BusHandler {
	return &BusHandler{
		repo: repo,
		cache: gcache.New(256).
			LRU().
			Expiration(30 * time.Second).
			Build(),
	}
}

// ErrorResponse is the JSON error response structure
type ErrorResponse struct {
	Error   string                 `json:"error"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// RoutesResponse is the JSON response structure for GET /api/bus/routes
type RoutesResponse struct {
	Routes []string `json:"routes"`
	Count  int      `json:"count"`
}

// BoroughsResponse is the JSON response structure for GET /api/bus/boroughs
type BoroughsResponse struct {
	Boroughs []models.Borough `json:"boroughs"`
}

// MonthlyResponse is the JSON response structure for GET /api/bus/monthly
type MonthlyResponse struct {
	Points      []models.MonthlyPoint `json:"points"`
	Count       int                   `json:"count"`
	Metric      models.Metric         `json:"metric"`
	GeneratedAt time.Time             `json:"generatedAt"`
}

// GetRoutes handles GET /api/bus/routes
// Returns the whitelisted routes present in the summary, optionally limited
// to the boroughs given as repeated "borough" query parameters.
func (h *BusHandler) GetRoutes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	available, err := h.repo.GetRoutes(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to retrieve routes", err)
		return
	}
	present := make(map[string]bool, len(available))
	for _, route := range available {
		present[route] = true
	}

	boroughs := parseBoroughs(r.URL.Query()["borough"])
	wantBorough := make(map[models.Borough]bool, len(boroughs))
	for _, b := range boroughs {
		wantBorough[b] = true
	}

	// Whitelist order, not alphabetical: the picker mirrors the curated list.
	routes := make([]string, 0, len(models.WantedRoutes))
	for _, route := range models.WantedRoutes {
		if !present[route] {
			continue
		}
		if len(wantBorough) > 0 && !wantBorough[models.MapBorough(route)] {
			continue
		}
		routes = append(routes, route)
	}

	respondJSON(w, http.StatusOK, RoutesResponse{Routes: routes, Count: len(routes)})
}

// GetBoroughs handles GET /api/bus/boroughs
func (h *BusHandler) GetBoroughs(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, BoroughsResponse{Boroughs: models.Boroughs})
}

// GetMonthly handles GET /api/bus/monthly
// Query parameters: routes (comma-separated), borough (repeated), start/end
// (YYYY-MM-DD), metric (abs|pct). An empty route selection yields an empty
// series, not an error.
func (h *BusHandler) GetMonthly(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	filter := models.RidershipFilter{
		Routes:   splitList(q.Get("routes")),
		Boroughs: parseBoroughs(q["borough"]),
		Metric:   models.ParseMetric(q.Get("metric")),
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
	filter.Start, filter.End = models.ClampRange(start, end)

	key := monthlyCacheKey(filter)
	if cached, err := h.cache.Get(key); err == nil {
		respondJSON(w, http.StatusOK, cached.(MonthlyResponse))
		return
	}

	rows, err := h.repo.GetMonthlyForRoutes(ctx, filter.Routes)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to retrieve monthly ridership", err)
		return
	}

	points := models.FilterMonthly(rows, filter)
	response := MonthlyResponse{
		Points:      points,
		Count:       len(points),
		Metric:      filter.Metric,
		GeneratedAt: time.Now().UTC(),
	}
	h.cache.Set(key, response)

	respondJSON(w, http.StatusOK, response)
}

// monthlyCacheKey canonicalizes a filter so equivalent queries share an entry.
func monthlyCacheKey(f models.RidershipFilter) string {
	routes := append([]string(nil), f.Routes...)
	sort.Strings(routes)
	boroughs := make([]string, 0, len(f.Boroughs))
	for _, b := range f.Boroughs {
		boroughs = append(boroughs, string(b))
	}
	sort.Strings(boroughs)
	return strings.Join([]string{
		strings.Join(routes, ","),
		strings.Join(boroughs, ","),
		f.Start.Format("2006-01-02"),
		f.End.Format("2006-01-02"),
		string(f.Metric),
	}, "|")
}

// splitList parses a comma-separated query value, dropping empty entries.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parseBoroughs keeps only recognized borough names.
func parseBoroughs(values []string) []models.Borough {
	var out []models.Borough
	for _, v := range values {
		for _, b := range models.Boroughs {
			if models.Borough(v) == b {
				out = append(out, b)
			}
		}
	}
	return out
}

// parseDate parses an optional YYYY-MM-DD query value; empty is open-ended.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse("2006-01-02", s)
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func respondError(w http.ResponseWriter, status int, msg string, err error) {
	resp := ErrorResponse{Error: msg}
	if err != nil {
		resp.Details = map[string]interface{}{"internal": err.Error()}
	}
	respondJSON(w, status, resp)
}
