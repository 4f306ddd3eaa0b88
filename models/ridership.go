package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Borough is one of the five NYC boroughs a bus route belongs to.
type Borough string

const (
	BoroughManhattan    Borough = "Manhattan"
	BoroughBronx        Borough = "Bronx"
	BoroughBrooklyn     Borough = "Brooklyn"
	BoroughQueens       Borough = "Queens"
	BoroughStatenIsland Borough = "Staten Island"
)

// Boroughs lists all boroughs in display order.
var Boroughs = []Borough{
	BoroughManhattan,
	BoroughBronx,
	BoroughBrooklyn,
	BoroughQueens,
	BoroughStatenIsland,
}

// MapBorough resolves a route name to its borough by prefix. The mapping is
// static and not derived from the data. Express prefixes are checked from
// longest to shortest so BxM is not swallowed by BM.
func MapBorough(route string) Borough {
	switch {
	case strings.HasPrefix(route, "BxM"):
		return BoroughBronx
	case strings.HasPrefix(route, "BM"):
		return BoroughBrooklyn
	case strings.HasPrefix(route, "QM"):
		return BoroughQueens
	case strings.HasPrefix(route, "SIM"):
		return BoroughStatenIsland
	default:
		return BoroughManhattan
	}
}

// WantedRoutes is the whitelist of Manhattan local and express routes the
// dashboards expose in the route picker. Routes outside this list are still
// aggregated and stored, just not offered by default.
var WantedRoutes = []string{
	"M15", "M5", "M1", "M2", "M3", "M4", "M55", "M7", "M20", "M42", "M34", "M22",
	"BxM1", "BxM2", "BxM3", "BxM4", "BxM11",
	"BM1", "BM2", "BM3", "BM4", "BM5",
	"QM1", "QM2", "QM4", "QM5", "QM20",
	"SIM1", "SIM5", "SIM6", "SIM11", "SIM22", "SIM25",
}

// MonthlyRidership is one durable row of the monthly summary table, unique
// per (route, year, month). Maps 1:1 to bus_monthly rows.
type MonthlyRidership struct {
	Route     string  `db:"route" json:"route"`
	Year      int     `db:"year" json:"year"`
	Month     int     `db:"month" json:"month"`
	Ridership float64 `db:"ridership" json:"ridership"`
}

// Borough returns the borough the row's route belongs to.
func (m MonthlyRidership) Borough() Borough {
	return MapBorough(m.Route)
}

// MonthStart returns the first day of the row's month in UTC, the value the
// dashboards plot on the x-axis.
func (m MonthlyRidership) MonthStart() time.Time {
	return time.Date(m.Year, time.Month(m.Month), 1, 0, 0, 0, 0, time.UTC)
}

// Validate checks if the row has valid data.
func (m MonthlyRidership) Validate() error {
	if m.Route == "" {
		return errors.New("route is required")
	}
	if m.Month < 1 || m.Month > 12 {
		return fmt.Errorf("month out of range: %d", m.Month)
	}
	if m.Year < 2000 || m.Year > 2100 {
		return fmt.Errorf("year out of range: %d", m.Year)
	}
	if m.Ridership < 0 {
		return fmt.Errorf("ridership must be non-negative, got %f", m.Ridership)
	}
	return nil
}
