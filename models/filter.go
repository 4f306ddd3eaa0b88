package models

import (
	"sort"
	"time"
)

// Metric selects how a monthly series is reported.
type Metric string

const (
	// MetricAbsolute reports the summed monthly totals as-is.
	MetricAbsolute Metric = "abs"
	// MetricPctChange reports year-over-year percent change per month.
	MetricPctChange Metric = "pct"
)

// ParseMetric maps a query-string value to a Metric, defaulting to absolute.
func ParseMetric(s string) Metric {
	if s == string(MetricPctChange) {
		return MetricPctChange
	}
	return MetricAbsolute
}

// Date range clamp applied by the dashboards: data before congestion-era
// reporting began or after the last published month is cut off.
var (
	ClampStart = time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)
	ClampEnd   = time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC)
)

// RidershipFilter describes one dashboard query over the monthly summary.
// An empty Routes set matches nothing; an empty Boroughs set matches all
// boroughs; zero Start/End leave that side of the range open.
type RidershipFilter struct {
	Routes   []string
	Boroughs []Borough
	Start    time.Time
	End      time.Time
	Metric   Metric
}

// MonthlyPoint is one plotted point of a filtered series. Value is nil when
// the metric is undefined for that month (no matching prior-year month).
type MonthlyPoint struct {
	Route string   `json:"route"`
	Year  int      `json:"year"`
	Month int      `json:"month"`
	Value *float64 `json:"value"`
}

// FilterMonthly applies a filter to monthly summary rows and produces the
// ordered series handed to the presentation layer, sorted by route then
// (year, month). Year-over-year lookups consult all input rows, not just the
// date-filtered window, so January 2021 can anchor January 2022 even when the
// window starts later. An empty result is a valid state, never an error.
func FilterMonthly(rows []MonthlyRidership, f RidershipFilter) []MonthlyPoint {
	if len(f.Routes) == 0 {
		return []MonthlyPoint{}
	}

	wantRoute := make(map[string]bool, len(f.Routes))
	for _, r := range f.Routes {
		wantRoute[r] = true
	}
	wantBorough := make(map[Borough]bool, len(f.Boroughs))
	for _, b := range f.Boroughs {
		wantBorough[b] = true
	}

	// Prior-year lookup over the full input, keyed per route.
	type ym struct{ year, month int }
	prior := make(map[string]map[ym]float64)
	for _, row := range rows {
		if !wantRoute[row.Route] {
			continue
		}
		if prior[row.Route] == nil {
			prior[row.Route] = make(map[ym]float64)
		}
		prior[row.Route][ym{row.Year, row.Month}] = row.Ridership
	}

	points := make([]MonthlyPoint, 0, len(rows))
	for _, row := range rows {
		if !wantRoute[row.Route] {
			continue
		}
		if len(wantBorough) > 0 && !wantBorough[row.Borough()] {
			continue
		}
		if !inRange(row.MonthStart(), f.Start, f.End) {
			continue
		}

		p := MonthlyPoint{Route: row.Route, Year: row.Year, Month: row.Month}
		switch f.Metric {
		case MetricPctChange:
			if base, ok := prior[row.Route][ym{row.Year - 1, row.Month}]; ok && base != 0 {
				pct := (row.Ridership - base) / base * 100
				p.Value = &pct
			}
		default:
			v := row.Ridership
			p.Value = &v
		}
		points = append(points, p)
	}

	sort.Slice(points, func(i, j int) bool {
		if points[i].Route != points[j].Route {
			return points[i].Route < points[j].Route
		}
		if points[i].Year != points[j].Year {
			return points[i].Year < points[j].Year
		}
		return points[i].Month < points[j].Month
	})
	return points
}

// inRange reports whether t falls inside [start, end]; zero bounds are open.
func inRange(t, start, end time.Time) bool {
	if !start.IsZero() && t.Before(start) {
		return false
	}
	if !end.IsZero() && t.After(end) {
		return false
	}
	return true
}

// ClampRange narrows a requested date range to the supported window.
func ClampRange(start, end time.Time) (time.Time, time.Time) {
	if start.IsZero() || start.Before(ClampStart) {
		start = ClampStart
	}
	if end.IsZero() || end.After(ClampEnd) {
		end = ClampEnd
	}
	return start, end
}
