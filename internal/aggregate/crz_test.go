package aggregate

import (
	"testing"
	"time"

	"github.com/ek3433/ARISE2025-Dashboard/internal/ingest"
)

func crzRec(date string, hour int, region, class string, entries, excluded float64) ingest.CRZRecord {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	_, week := d.ISOWeek()
	return ingest.CRZRecord{
		TollDate:       d,
		Hour:           hour,
		Week:           week,
		TimePeriod:     "Peak",
		Region:         region,
		VehicleClass:   class,
		DetectionGroup: "G",
		Entries:        entries,
		Excluded:       excluded,
	}
}

func TestCRZAccumulator_AllLevels(t *testing.T) {
	acc := NewCRZAccumulator()
	acc.Add(crzRec("2025-01-15", 8, "R1", "Cars", 100, 5))
	acc.Add(crzRec("2025-01-15", 8, "R1", "Cars", 40, 3))
	acc.Add(crzRec("2025-01-15", 9, "R1", "Cars", 10, 0))
	acc.Add(crzRec("2025-02-01", 8, "R1", "Cars", 7, 0))

	hourly := acc.Hourly()
	if len(hourly) != 3 {
		t.Fatalf("hourly: got %d rows, want 3", len(hourly))
	}
	if hourly[0].Hour != 8 || hourly[0].Entries != 140 {
		t.Errorf("hourly[0] = %+v", hourly[0])
	}

	daily := acc.Daily()
	if len(daily) != 2 {
		t.Fatalf("daily: got %d rows, want 2", len(daily))
	}
	if daily[0].Entries != 150 {
		t.Errorf("daily[0] = %+v, want 150 entries", daily[0])
	}

	monthly := acc.Monthly()
	if len(monthly) != 2 {
		t.Fatalf("monthly: got %d rows, want 2", len(monthly))
	}
	if monthly[0].Month != 1 || monthly[0].Entries != 150 {
		t.Errorf("monthly[0] = %+v", monthly[0])
	}
	if monthly[1].Month != 2 || monthly[1].Entries != 7 {
		t.Errorf("monthly[1] = %+v", monthly[1])
	}

	excluded := acc.Excluded()
	if len(excluded) != 2 {
		t.Fatalf("excluded: got %d rows, want 2", len(excluded))
	}
	if excluded[0].Entries != 8 {
		t.Errorf("excluded[0] = %+v, want 8", excluded[0])
	}
}

func TestCRZAccumulator_DimensionsSplitBuckets(t *testing.T) {
	acc := NewCRZAccumulator()
	acc.Add(crzRec("2025-01-15", 8, "R1", "Cars", 100, 0))
	acc.Add(crzRec("2025-01-15", 8, "R2", "Cars", 50, 0))
	acc.Add(crzRec("2025-01-15", 8, "R1", "Trucks", 25, 0))

	if got := len(acc.Hourly()); got != 3 {
		t.Errorf("hourly buckets = %d, want 3", got)
	}
	// Excluded totals ignore dimensions entirely.
	if got := len(acc.Excluded()); got != 1 {
		t.Errorf("excluded buckets = %d, want 1", got)
	}
}

func TestCRZAccumulator_MergeEqualsSinglePass(t *testing.T) {
	records := []ingest.CRZRecord{
		crzRec("2025-01-15", 8, "R1", "Cars", 100, 5),
		crzRec("2025-01-15", 9, "R1", "Cars", 40, 0),
		crzRec("2025-01-16", 8, "R2", "Trucks", 30, 2),
		crzRec("2025-02-01", 8, "R1", "Cars", 7, 1),
	}

	single := NewCRZAccumulator()
	for _, r := range records {
		single.Add(r)
	}

	for cut := 0; cut <= len(records); cut++ {
		left, right := NewCRZAccumulator(), NewCRZAccumulator()
		for _, r := range records[:cut] {
			left.Add(r)
		}
		for _, r := range records[cut:] {
			right.Add(r)
		}
		left.Merge(right)

		if got, want := left.Daily(), single.Daily(); len(got) != len(want) {
			t.Fatalf("cut %d: daily %d rows, want %d", cut, len(got), len(want))
		} else {
			for i := range got {
				if got[i] != want[i] {
					t.Errorf("cut %d: daily[%d] = %+v, want %+v", cut, i, got[i], want[i])
				}
			}
		}
		if got, want := left.Weekly(), single.Weekly(); len(got) != len(want) {
			t.Fatalf("cut %d: weekly %d rows, want %d", cut, len(got), len(want))
		} else {
			for i := range got {
				if got[i] != want[i] {
					t.Errorf("cut %d: weekly[%d] = %+v, want %+v", cut, i, got[i], want[i])
				}
			}
		}
	}
}
