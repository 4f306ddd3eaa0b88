package aggregate

import (
	"sort"

	"github.com/ek3433/ARISE2025-Dashboard/internal/ingest"
	"github.com/ek3433/ARISE2025-Dashboard/models"
)

// MonthKey identifies one (route, calendar month) bucket.
type MonthKey struct {
	Route string
	Year  int
	Month int
}

// Accumulator sums canonical records into monthly buckets. Add and Merge are
// associative and commutative, so per-chunk partials merge to the same totals
// regardless of chunk boundaries or file read order.
type Accumulator struct {
	totals map[MonthKey]float64
}

// NewAccumulator returns an empty accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{totals: make(map[MonthKey]float64)}
}

// Add folds one record into its monthly bucket.
func (a *Accumulator) Add(rec ingest.CanonicalRecord) {
	key := MonthKey{
		Route: rec.Route,
		Year:  rec.Timestamp.Year(),
		Month: int(rec.Timestamp.Month()),
	}
	a.totals[key] += rec.Count
}

// Merge folds another accumulator's buckets into this one.
func (a *Accumulator) Merge(other *Accumulator) {
	for key, v := range other.totals {
		a.totals[key] += v
	}
}

// Len returns the number of populated buckets.
func (a *Accumulator) Len() int { return len(a.totals) }

// Rows returns the buckets as summary rows in deterministic
// (route, year, month) order.
func (a *Accumulator) Rows() []models.MonthlyRidership {
	rows := make([]models.MonthlyRidership, 0, len(a.totals))
	for key, total := range a.totals {
		rows = append(rows, models.MonthlyRidership{
			Route:     key.Route,
			Year:      key.Year,
			Month:     key.Month,
			Ridership: total,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Route != rows[j].Route {
			return rows[i].Route < rows[j].Route
		}
		if rows[i].Year != rows[j].Year {
			return rows[i].Year < rows[j].Year
		}
		return rows[i].Month < rows[j].Month
	})
	return rows
}
