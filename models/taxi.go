package models

import (
	"sort"
	"time"
)

// TaxiMonthly is one row of the taxi monthly report, unique per
// (license class, year, month). TripsPerDay is nil when the source report
// carried a placeholder instead of a number.
type TaxiMonthly struct {
	LicenseClass string   `db:"license_class" json:"licenseClass"`
	Year         int      `db:"year" json:"year"`
	Month        int      `db:"month" json:"month"`
	TripsPerDay  *float64 `db:"trips_per_day" json:"tripsPerDay"`
}

// MonthStart returns the first day of the row's month in UTC.
func (t TaxiMonthly) MonthStart() time.Time {
	return time.Date(t.Year, time.Month(t.Month), 1, 0, 0, 0, 0, time.UTC)
}

// TaxiSeries produces the ordered series for one license class, sorted by
// (year, month). With MetricPctChange the value is the year-over-year percent
// change, nil when the prior-year month is absent or itself a placeholder.
func TaxiSeries(rows []TaxiMonthly, class string, start, end time.Time, metric Metric) []MonthlyPoint {
	type ym struct{ year, month int }
	prior := make(map[ym]float64)
	for _, row := range rows {
		if row.LicenseClass != class || row.TripsPerDay == nil {
			continue
		}
		prior[ym{row.Year, row.Month}] = *row.TripsPerDay
	}

	points := make([]MonthlyPoint, 0, len(rows))
	for _, row := range rows {
		if row.LicenseClass != class {
			continue
		}
		if !inRange(row.MonthStart(), start, end) {
			continue
		}
		p := MonthlyPoint{Route: row.LicenseClass, Year: row.Year, Month: row.Month}
		switch metric {
		case MetricPctChange:
			if row.TripsPerDay != nil {
				if base, ok := prior[ym{row.Year - 1, row.Month}]; ok && base != 0 {
					pct := (*row.TripsPerDay - base) / base * 100
					p.Value = &pct
				}
			}
		default:
			p.Value = row.TripsPerDay
		}
		points = append(points, p)
	}

	sort.Slice(points, func(i, j int) bool {
		if points[i].Year != points[j].Year {
			return points[i].Year < points[j].Year
		}
		return points[i].Month < points[j].Month
	})
	return points
}
