package db

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/ek3433/ARISE2025-Dashboard/internal/ingest"
	"github.com/ek3433/ARISE2025-Dashboard/models"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "summaries.db")
	database, err := Connect(path)
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	if err := database.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema failed: %v", err)
	}
	return database
}

func TestEnsureSchema_Idempotent(t *testing.T) {
	database := testDB(t)
	if err := database.EnsureSchema(context.Background()); err != nil {
		t.Errorf("second EnsureSchema failed: %v", err)
	}
}

func TestTableRowCount_UnknownTable(t *testing.T) {
	database := testDB(t)
	if _, err := database.TableRowCount(context.Background(), "sqlite_master"); err == nil {
		t.Error("TableRowCount should reject tables outside the summary set")
	}
}

func TestCreateSnapshot(t *testing.T) {
	database := testDB(t)
	ctx := context.Background()

	id, err := database.CreateSnapshot(ctx, "bus-2022", ingest.Stats{Rows: 100, Kept: 90, Dropped: 8, Missing: 2})
	if err != nil {
		t.Fatalf("CreateSnapshot failed: %v", err)
	}
	if id == "" {
		t.Fatal("snapshot ID should not be empty")
	}

	var source string
	var read, kept int
	err = database.Conn().QueryRowContext(ctx,
		"SELECT source_name, rows_read, rows_kept FROM build_snapshots WHERE snapshot_id = ?", id).
		Scan(&source, &read, &kept)
	if err != nil {
		t.Fatalf("snapshot not found: %v", err)
	}
	if source != "bus-2022" || read != 100 || kept != 90 {
		t.Errorf("snapshot = %s %d %d", source, read, kept)
	}
}

func TestReplaceBusMonthly_RoundTrip(t *testing.T) {
	database := testDB(t)
	ctx := context.Background()

	id, err := database.CreateSnapshot(ctx, "bus", ingest.Stats{})
	if err != nil {
		t.Fatalf("CreateSnapshot failed: %v", err)
	}

	rows := []models.MonthlyRidership{
		{Route: "M15", Year: 2022, Month: 1, Ridership: 1000},
		{Route: "M15", Year: 2022, Month: 2, Ridership: 900},
		{Route: "B46", Year: 2022, Month: 1, Ridership: 70},
	}
	if err := database.ReplaceBusMonthly(ctx, id, rows); err != nil {
		t.Fatalf("ReplaceBusMonthly failed: %v", err)
	}

	n, err := database.TableRowCount(ctx, "bus_monthly")
	if err != nil || n != 3 {
		t.Fatalf("TableRowCount = %d, %v, want 3", n, err)
	}

	// Replacing again swaps, not appends.
	if err := database.ReplaceBusMonthly(ctx, id, rows[:1]); err != nil {
		t.Fatalf("second ReplaceBusMonthly failed: %v", err)
	}
	n, _ = database.TableRowCount(ctx, "bus_monthly")
	if n != 1 {
		t.Errorf("after replace: %d rows, want 1", n)
	}

	var ridership float64
	err = database.Conn().QueryRowContext(ctx,
		"SELECT ridership FROM bus_monthly WHERE route = ? AND year = ? AND month = ?", "M15", 2022, 1).
		Scan(&ridership)
	if err != nil {
		t.Fatalf("row not found: %v", err)
	}
	if ridership != 1000 {
		t.Errorf("ridership = %v, want 1000", ridership)
	}
}

func TestReplaceCRZSummaries_RoundTrip(t *testing.T) {
	database := testDB(t)
	ctx := context.Background()

	id, err := database.CreateSnapshot(ctx, "crz", ingest.Stats{})
	if err != nil {
		t.Fatalf("CreateSnapshot failed: %v", err)
	}

	day := time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC)
	rows := &CRZRows{
		Hourly: []models.CRZHourly{
			{TollDate: day, Hour: 8, Region: "R1", VehicleClass: "Cars", DetectionGroup: "G", Entries: 140},
		},
		Daily: []models.CRZDaily{
			{TollDate: day, Region: "R1", VehicleClass: "Cars", DetectionGroup: "G", TimePeriod: "Peak", Entries: 150},
		},
		Weekly: []models.CRZWeekly{
			{Year: 2025, Week: 3, Region: "R1", VehicleClass: "Cars", DetectionGroup: "G", Entries: 150},
		},
		Monthly: []models.CRZMonthly{
			{Year: 2025, Month: 1, Region: "R1", VehicleClass: "Cars", DetectionGroup: "G", Entries: 150},
		},
		Excluded: []models.CRZExcluded{
			{TollDate: day, Entries: 8},
		},
	}
	if err := database.ReplaceCRZSummaries(ctx, id, rows); err != nil {
		t.Fatalf("ReplaceCRZSummaries failed: %v", err)
	}

	for _, table := range []string{"crz_hourly", "crz_daily", "crz_weekly", "crz_monthly", "crz_excluded"} {
		n, err := database.TableRowCount(ctx, table)
		if err != nil || n != 1 {
			t.Errorf("%s: %d rows, %v, want 1", table, n, err)
		}
	}

	var date string
	var entries float64
	err = database.Conn().QueryRowContext(ctx,
		"SELECT toll_date, entries FROM crz_daily WHERE region = ?", "R1").Scan(&date, &entries)
	if err != nil {
		t.Fatalf("daily row not found: %v", err)
	}
	if date != "2025-01-15" || entries != 150 {
		t.Errorf("daily row = %s %v", date, entries)
	}
}

func TestReplaceTaxiMonthly_NullPlaceholder(t *testing.T) {
	database := testDB(t)
	ctx := context.Background()

	id, err := database.CreateSnapshot(ctx, "taxi", ingest.Stats{})
	if err != nil {
		t.Fatalf("CreateSnapshot failed: %v", err)
	}

	trips := 91508.0
	rows := []models.TaxiMonthly{
		{LicenseClass: "Yellow", Year: 2023, Month: 4, TripsPerDay: &trips},
		{LicenseClass: "FHV - Black Car", Year: 2020, Month: 4, TripsPerDay: nil},
	}
	if err := database.ReplaceTaxiMonthly(ctx, id, rows); err != nil {
		t.Fatalf("ReplaceTaxiMonthly failed: %v", err)
	}

	var got *float64
	err = database.Conn().QueryRowContext(ctx,
		"SELECT trips_per_day FROM taxi_monthly WHERE license_class = ?", "Yellow").Scan(&got)
	if err != nil {
		t.Fatalf("yellow row not found: %v", err)
	}
	if got == nil || *got != trips {
		t.Errorf("trips_per_day = %v, want %v", got, trips)
	}

	err = database.Conn().QueryRowContext(ctx,
		"SELECT trips_per_day FROM taxi_monthly WHERE license_class = ?", "FHV - Black Car").Scan(&got)
	if err != nil {
		t.Fatalf("placeholder row not found: %v", err)
	}
	if got != nil {
		t.Errorf("placeholder trips_per_day = %v, want NULL", *got)
	}
}
