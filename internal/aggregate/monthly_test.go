package aggregate

import (
	"testing"
	"time"

	"github.com/ek3433/ARISE2025-Dashboard/internal/ingest"
)

func rec(route string, ts string, count float64) ingest.CanonicalRecord {
	t, err := time.Parse("2006-01-02 15:04", ts)
	if err != nil {
		panic(err)
	}
	return ingest.CanonicalRecord{Timestamp: t, Route: route, Count: count}
}

func TestAccumulator_MonthlyBuckets(t *testing.T) {
	acc := NewAccumulator()
	acc.Add(rec("M15", "2022-01-05 08:00", 100))
	acc.Add(rec("M15", "2022-01-20 17:00", 50))
	acc.Add(rec("M15", "2022-02-01 08:00", 30))
	acc.Add(rec("B46", "2022-01-05 08:00", 70))

	rows := acc.Rows()
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	// Deterministic (route, year, month) order.
	if rows[0].Route != "B46" || rows[1].Route != "M15" || rows[2].Route != "M15" {
		t.Errorf("row order: %v", rows)
	}
	if rows[1].Month != 1 || rows[1].Ridership != 150 {
		t.Errorf("M15 January = %+v, want 150", rows[1])
	}
	if rows[2].Month != 2 || rows[2].Ridership != 30 {
		t.Errorf("M15 February = %+v, want 30", rows[2])
	}
}

func TestAccumulator_MergeEqualsSinglePass(t *testing.T) {
	records := []ingest.CanonicalRecord{
		rec("M15", "2022-01-05 08:00", 100),
		rec("M15", "2022-01-20 17:00", 50),
		rec("B46", "2022-01-05 08:00", 70),
		rec("B46", "2022-03-10 09:00", 20),
		rec("Q44", "2023-01-05 08:00", 5),
	}

	single := NewAccumulator()
	for _, r := range records {
		single.Add(r)
	}

	// Split at every possible chunk boundary; merged partials must match
	// the single pass exactly.
	for cut := 0; cut <= len(records); cut++ {
		left, right := NewAccumulator(), NewAccumulator()
		for _, r := range records[:cut] {
			left.Add(r)
		}
		for _, r := range records[cut:] {
			right.Add(r)
		}
		left.Merge(right)

		got, want := left.Rows(), single.Rows()
		if len(got) != len(want) {
			t.Fatalf("cut %d: %d rows, want %d", cut, len(got), len(want))
		}
		for i := range got {
			if got[i] != want[i] {
				t.Errorf("cut %d: row %d = %+v, want %+v", cut, i, got[i], want[i])
			}
		}
	}
}

func TestAccumulator_MergeCommutes(t *testing.T) {
	a1, a2 := NewAccumulator(), NewAccumulator()
	a1.Add(rec("M15", "2022-01-05 08:00", 100))
	a2.Add(rec("M15", "2022-01-06 08:00", 25))
	a2.Add(rec("B46", "2022-01-05 08:00", 70))

	b1, b2 := NewAccumulator(), NewAccumulator()
	b1.Add(rec("M15", "2022-01-06 08:00", 25))
	b1.Add(rec("B46", "2022-01-05 08:00", 70))
	b2.Add(rec("M15", "2022-01-05 08:00", 100))

	a1.Merge(a2)
	b1.Merge(b2)

	got, want := a1.Rows(), b1.Rows()
	if len(got) != len(want) {
		t.Fatalf("%d rows vs %d", len(got), len(want))
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("row %d: %+v vs %+v", i, got[i], want[i])
		}
	}
}
