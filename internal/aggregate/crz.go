package aggregate

import (
	"sort"
	"time"

	"github.com/ek3433/ARISE2025-Dashboard/internal/ingest"
	"github.com/ek3433/ARISE2025-Dashboard/models"
)

type crzHourlyKey struct {
	date   string
	hour   int
	region string
	class  string
	group  string
}

type crzDailyKey struct {
	date   string
	region string
	class  string
	group  string
	period string
}

type crzWeeklyKey struct {
	year   int
	week   int
	region string
	class  string
	group  string
}

type crzMonthlyKey struct {
	year   int
	month  int
	region string
	class  string
	group  string
}

// CRZAccumulator builds all vehicle-entry summary levels in one pass over
// the toll file. Like the monthly ridership accumulator, Add and Merge
// commute, so chunk partials merge deterministically.
type CRZAccumulator struct {
	hourly   map[crzHourlyKey]float64
	daily    map[crzDailyKey]float64
	weekly   map[crzWeeklyKey]float64
	monthly  map[crzMonthlyKey]float64
	excluded map[string]float64
}

// NewCRZAccumulator returns an empty accumulator.
func NewCRZAccumulator() *CRZAccumulator {
	return &CRZAccumulator{
		hourly:   make(map[crzHourlyKey]float64),
		daily:    make(map[crzDailyKey]float64),
		weekly:   make(map[crzWeeklyKey]float64),
		monthly:  make(map[crzMonthlyKey]float64),
		excluded: make(map[string]float64),
	}
}

const crzDateKey = "2006-01-02"

// Add folds one toll record into every summary level.
func (a *CRZAccumulator) Add(rec ingest.CRZRecord) {
	date := rec.TollDate.Format(crzDateKey)

	a.hourly[crzHourlyKey{date, rec.Hour, rec.Region, rec.VehicleClass, rec.DetectionGroup}] += rec.Entries
	a.daily[crzDailyKey{date, rec.Region, rec.VehicleClass, rec.DetectionGroup, rec.TimePeriod}] += rec.Entries
	a.weekly[crzWeeklyKey{rec.TollDate.Year(), rec.Week, rec.Region, rec.VehicleClass, rec.DetectionGroup}] += rec.Entries
	a.monthly[crzMonthlyKey{rec.TollDate.Year(), int(rec.TollDate.Month()), rec.Region, rec.VehicleClass, rec.DetectionGroup}] += rec.Entries
	a.excluded[date] += rec.Excluded
}

// Merge folds another accumulator's buckets into this one.
func (a *CRZAccumulator) Merge(other *CRZAccumulator) {
	for k, v := range other.hourly {
		a.hourly[k] += v
	}
	for k, v := range other.daily {
		a.daily[k] += v
	}
	for k, v := range other.weekly {
		a.weekly[k] += v
	}
	for k, v := range other.monthly {
		a.monthly[k] += v
	}
	for k, v := range other.excluded {
		a.excluded[k] += v
	}
}

// Len returns the number of daily buckets, the level the dashboards default to.
func (a *CRZAccumulator) Len() int { return len(a.daily) }

func parseDateKey(s string) time.Time {
	t, _ := time.Parse(crzDateKey, s)
	return t
}

// Hourly returns the hourly summary rows in deterministic order.
func (a *CRZAccumulator) Hourly() []models.CRZHourly {
	rows := make([]models.CRZHourly, 0, len(a.hourly))
	for k, v := range a.hourly {
		rows = append(rows, models.CRZHourly{
			TollDate:       parseDateKey(k.date),
			Hour:           k.hour,
			Region:         k.region,
			VehicleClass:   k.class,
			DetectionGroup: k.group,
			Entries:        v,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if !a.TollDate.Equal(b.TollDate) {
			return a.TollDate.Before(b.TollDate)
		}
		if a.Hour != b.Hour {
			return a.Hour < b.Hour
		}
		if a.Region != b.Region {
			return a.Region < b.Region
		}
		if a.VehicleClass != b.VehicleClass {
			return a.VehicleClass < b.VehicleClass
		}
		return a.DetectionGroup < b.DetectionGroup
	})
	return rows
}

// Daily returns the daily summary rows in deterministic order.
func (a *CRZAccumulator) Daily() []models.CRZDaily {
	rows := make([]models.CRZDaily, 0, len(a.daily))
	for k, v := range a.daily {
		rows = append(rows, models.CRZDaily{
			TollDate:       parseDateKey(k.date),
			Region:         k.region,
			VehicleClass:   k.class,
			DetectionGroup: k.group,
			TimePeriod:     k.period,
			Entries:        v,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if !a.TollDate.Equal(b.TollDate) {
			return a.TollDate.Before(b.TollDate)
		}
		if a.Region != b.Region {
			return a.Region < b.Region
		}
		if a.VehicleClass != b.VehicleClass {
			return a.VehicleClass < b.VehicleClass
		}
		if a.DetectionGroup != b.DetectionGroup {
			return a.DetectionGroup < b.DetectionGroup
		}
		return a.TimePeriod < b.TimePeriod
	})
	return rows
}

// Weekly returns the weekly summary rows in deterministic order.
func (a *CRZAccumulator) Weekly() []models.CRZWeekly {
	rows := make([]models.CRZWeekly, 0, len(a.weekly))
	for k, v := range a.weekly {
		rows = append(rows, models.CRZWeekly{
			Year:           k.year,
			Week:           k.week,
			Region:         k.region,
			VehicleClass:   k.class,
			DetectionGroup: k.group,
			Entries:        v,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		if a.Week != b.Week {
			return a.Week < b.Week
		}
		if a.Region != b.Region {
			return a.Region < b.Region
		}
		if a.VehicleClass != b.VehicleClass {
			return a.VehicleClass < b.VehicleClass
		}
		return a.DetectionGroup < b.DetectionGroup
	})
	return rows
}

// Monthly returns the monthly summary rows in deterministic order.
func (a *CRZAccumulator) Monthly() []models.CRZMonthly {
	rows := make([]models.CRZMonthly, 0, len(a.monthly))
	for k, v := range a.monthly {
		rows = append(rows, models.CRZMonthly{
			Year:           k.year,
			Month:          k.month,
			Region:         k.region,
			VehicleClass:   k.class,
			DetectionGroup: k.group,
			Entries:        v,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		if a.Month != b.Month {
			return a.Month < b.Month
		}
		if a.Region != b.Region {
			return a.Region < b.Region
		}
		if a.VehicleClass != b.VehicleClass {
			return a.VehicleClass < b.VehicleClass
		}
		return a.DetectionGroup < b.DetectionGroup
	})
	return rows
}

// Excluded returns the excluded-roadway daily totals in date order.
func (a *CRZAccumulator) Excluded() []models.CRZExcluded {
	rows := make([]models.CRZExcluded, 0, len(a.excluded))
	for date, v := range a.excluded {
		rows = append(rows, models.CRZExcluded{TollDate: parseDateKey(date), Entries: v})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].TollDate.Before(rows[j].TollDate) })
	return rows
}
