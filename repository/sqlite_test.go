package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/ek3433/ARISE2025-Dashboard/internal/db"
	"github.com/ek3433/ARISE2025-Dashboard/internal/ingest"
	"github.com/ek3433/ARISE2025-Dashboard/models"
)

// seedDatabase builds a summary cache in a temp directory and returns a
// read-side connection to it.
func seedDatabase(t *testing.T) *SQLiteDB {
	t.Helper()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "summaries.db")

	writer, err := db.Connect(path)
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	if err := writer.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema failed: %v", err)
	}

	snapshotID, err := writer.CreateSnapshot(ctx, "test", ingest.Stats{})
	if err != nil {
		t.Fatalf("CreateSnapshot failed: %v", err)
	}

	busRows := []models.MonthlyRidership{
		{Route: "M15", Year: 2021, Month: 1, Ridership: 1000},
		{Route: "M15", Year: 2022, Month: 1, Ridership: 1100},
		{Route: "BxM1", Year: 2022, Month: 1, Ridership: 50},
	}
	if err := writer.ReplaceBusMonthly(ctx, snapshotID, busRows); err != nil {
		t.Fatalf("ReplaceBusMonthly failed: %v", err)
	}

	day1 := time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2025, time.January, 16, 0, 0, 0, 0, time.UTC)
	crzRows := &db.CRZRows{
		Hourly: []models.CRZHourly{
			{TollDate: day1, Hour: 8, Region: "R1", VehicleClass: "Cars", DetectionGroup: "G", Entries: 100},
			{TollDate: day1, Hour: 9, Region: "R1", VehicleClass: "Cars", DetectionGroup: "G", Entries: 40},
		},
		Daily: []models.CRZDaily{
			{TollDate: day1, Region: "R1", VehicleClass: "Cars", DetectionGroup: "G", TimePeriod: "Peak", Entries: 140},
			{TollDate: day1, Region: "R2", VehicleClass: "Trucks", DetectionGroup: "G", TimePeriod: "Peak", Entries: 30},
			{TollDate: day2, Region: "R1", VehicleClass: "Cars", DetectionGroup: "G", TimePeriod: "Peak", Entries: 60},
		},
		Weekly: []models.CRZWeekly{
			{Year: 2025, Week: 3, Region: "R1", VehicleClass: "Cars", DetectionGroup: "G", Entries: 200},
		},
		Monthly: []models.CRZMonthly{
			{Year: 2025, Month: 1, Region: "R1", VehicleClass: "Cars", DetectionGroup: "G", Entries: 200},
			{Year: 2025, Month: 1, Region: "R2", VehicleClass: "Trucks", DetectionGroup: "G", Entries: 30},
		},
		Excluded: []models.CRZExcluded{
			{TollDate: day1, Entries: 8},
			{TollDate: day2, Entries: 3},
		},
	}
	if err := writer.ReplaceCRZSummaries(ctx, snapshotID, crzRows); err != nil {
		t.Fatalf("ReplaceCRZSummaries failed: %v", err)
	}

	trips := 91508.0
	taxiRows := []models.TaxiMonthly{
		{LicenseClass: "Yellow", Year: 2023, Month: 4, TripsPerDay: &trips},
		{LicenseClass: "FHV - Black Car", Year: 2020, Month: 4, TripsPerDay: nil},
	}
	if err := writer.ReplaceTaxiMonthly(ctx, snapshotID, taxiRows); err != nil {
		t.Fatalf("ReplaceTaxiMonthly failed: %v", err)
	}
	writer.Close()

	reader, err := NewSQLiteDB(path)
	if err != nil {
		t.Fatalf("NewSQLiteDB failed: %v", err)
	}
	t.Cleanup(func() { reader.Close() })
	return reader
}

func TestSQLiteRidershipRepository(t *testing.T) {
	sqliteDB := seedDatabase(t)
	repo := NewSQLiteRidershipRepository(sqliteDB.GetDB())
	ctx := context.Background()

	routes, err := repo.GetRoutes(ctx)
	if err != nil {
		t.Fatalf("GetRoutes failed: %v", err)
	}
	if len(routes) != 2 {
		t.Errorf("routes = %v, want 2", routes)
	}

	rows, err := repo.GetMonthlyForRoutes(ctx, []string{"M15"})
	if err != nil {
		t.Fatalf("GetMonthlyForRoutes failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0].Year != 2021 || rows[0].Ridership != 1000 {
		t.Errorf("rows[0] = %+v", rows[0])
	}

	empty, err := repo.GetMonthlyForRoutes(ctx, nil)
	if err != nil {
		t.Fatalf("empty selection failed: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("empty selection returned %d rows", len(empty))
	}
}

func TestSQLiteCRZRepository_Dimensions(t *testing.T) {
	sqliteDB := seedDatabase(t)
	repo := NewSQLiteCRZRepository(sqliteDB.GetDB())

	dims, err := repo.GetDimensions(context.Background())
	if err != nil {
		t.Fatalf("GetDimensions failed: %v", err)
	}
	if len(dims.Regions) != 2 || len(dims.VehicleClasses) != 2 {
		t.Errorf("dims = %+v", dims)
	}
	if dims.MinDate == nil || dims.MaxDate == nil {
		t.Fatal("date range should be set")
	}
	if dims.MinDate.Day() != 15 || dims.MaxDate.Day() != 16 {
		t.Errorf("range = %v..%v", dims.MinDate, dims.MaxDate)
	}
}

func TestSQLiteCRZRepository_DailySeries(t *testing.T) {
	sqliteDB := seedDatabase(t)
	repo := NewSQLiteCRZRepository(sqliteDB.GetDB())

	points, err := repo.GetSeries(context.Background(), models.CRZFilter{Level: models.AggDaily})
	if err != nil {
		t.Fatalf("GetSeries failed: %v", err)
	}
	if len(points) != 2 {
		t.Fatalf("got %d points, want 2 (one per day)", len(points))
	}
	// Jan 15 sums both regions.
	if points[0].TollDate == nil || points[0].Value != 170 {
		t.Errorf("points[0] = %+v", points[0])
	}
	if points[1].Value != 60 {
		t.Errorf("points[1] = %+v", points[1])
	}
}

func TestSQLiteCRZRepository_DimensionFilter(t *testing.T) {
	sqliteDB := seedDatabase(t)
	repo := NewSQLiteCRZRepository(sqliteDB.GetDB())

	points, err := repo.GetSeries(context.Background(), models.CRZFilter{
		Level:   models.AggDaily,
		Regions: []string{"R2"},
	})
	if err != nil {
		t.Fatalf("GetSeries failed: %v", err)
	}
	if len(points) != 1 || points[0].Value != 30 {
		t.Errorf("points = %+v", points)
	}
}

func TestSQLiteCRZRepository_HourlySeries(t *testing.T) {
	sqliteDB := seedDatabase(t)
	repo := NewSQLiteCRZRepository(sqliteDB.GetDB())

	points, err := repo.GetSeries(context.Background(), models.CRZFilter{Level: models.AggHourly})
	if err != nil {
		t.Fatalf("GetSeries failed: %v", err)
	}
	if len(points) != 2 {
		t.Fatalf("got %d points, want 2", len(points))
	}
	if points[0].Hour == nil || *points[0].Hour != 8 || points[0].Value != 100 {
		t.Errorf("points[0] = %+v", points[0])
	}
}

func TestSQLiteCRZRepository_MonthlyMean(t *testing.T) {
	sqliteDB := seedDatabase(t)
	repo := NewSQLiteCRZRepository(sqliteDB.GetDB())

	points, err := repo.GetSeries(context.Background(), models.CRZFilter{
		Level: models.AggMonthly,
		Value: models.ValueMean,
	})
	if err != nil {
		t.Fatalf("GetSeries failed: %v", err)
	}
	if len(points) != 1 {
		t.Fatalf("got %d points, want 1", len(points))
	}
	// AVG over the two January rows: (200+30)/2.
	if points[0].Value != 115 {
		t.Errorf("mean = %v, want 115", points[0].Value)
	}
}

func TestSQLiteCRZRepository_ExcludedRange(t *testing.T) {
	sqliteDB := seedDatabase(t)
	repo := NewSQLiteCRZRepository(sqliteDB.GetDB())

	start := time.Date(2025, time.January, 16, 0, 0, 0, 0, time.UTC)
	points, err := repo.GetExcluded(context.Background(), start, time.Time{})
	if err != nil {
		t.Fatalf("GetExcluded failed: %v", err)
	}
	if len(points) != 1 || points[0].Entries != 3 {
		t.Errorf("points = %+v", points)
	}
}

func TestSQLiteTaxiRepository(t *testing.T) {
	sqliteDB := seedDatabase(t)
	repo := NewSQLiteTaxiRepository(sqliteDB.GetDB())
	ctx := context.Background()

	classes, err := repo.GetLicenseClasses(ctx)
	if err != nil {
		t.Fatalf("GetLicenseClasses failed: %v", err)
	}
	if len(classes) != 2 {
		t.Errorf("classes = %v", classes)
	}

	rows, err := repo.GetMonthlyForClass(ctx, "FHV - Black Car")
	if err != nil {
		t.Fatalf("GetMonthlyForClass failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if rows[0].TripsPerDay != nil {
		t.Errorf("placeholder row should have nil trips, got %v", *rows[0].TripsPerDay)
	}
}
