package integration

import (
	"context"
	"os"
	"testing"

	"github.com/ek3433/ARISE2025-Dashboard/models"
	"github.com/ek3433/ARISE2025-Dashboard/repository"
)

func setupTestRepository(t *testing.T) *repository.RidershipRepository {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		t.Skip("DATABASE_URL not set - skipping integration test")
	}

	repo, err := repository.NewRidershipRepository(databaseURL)
	if err != nil {
		t.Fatalf("Failed to create test repository: %v", err)
	}

	return repo
}

func TestGetRoutes(t *testing.T) {
	repo := setupTestRepository(t)
	defer repo.Close()

	ctx := context.Background()

	routes, err := repo.GetRoutes(ctx)
	if err != nil {
		t.Fatalf("GetRoutes failed: %v", err)
	}

	if len(routes) == 0 {
		t.Log("Warning: No routes returned. Database may be empty. Run build-summary first.")
		// An empty mirror is not necessarily an error
		return
	}

	t.Logf("Successfully retrieved %d routes from database", len(routes))

	for _, route := range routes {
		if route == "" {
			t.Error("route name is empty")
		}
	}
}

func TestGetMonthlyForRoutes(t *testing.T) {
	repo := setupTestRepository(t)
	defer repo.Close()

	ctx := context.Background()

	routes, err := repo.GetRoutes(ctx)
	if err != nil {
		t.Fatalf("GetRoutes failed: %v", err)
	}
	if len(routes) == 0 {
		t.Skip("Database is empty - run build-summary first")
	}

	rows, err := repo.GetMonthlyForRoutes(ctx, routes[:1])
	if err != nil {
		t.Fatalf("GetMonthlyForRoutes failed: %v", err)
	}

	for _, row := range rows {
		if err := row.Validate(); err != nil {
			t.Errorf("invalid summary row %+v: %v", row, err)
		}
	}

	// The rows feed the filter layer directly; a smoke pass through it
	// should never error or panic.
	points := models.FilterMonthly(rows, models.RidershipFilter{
		Routes: routes[:1],
		Metric: models.MetricPctChange,
	})
	t.Logf("Filtered %d rows into %d points", len(rows), len(points))
}

func TestGetMonthlyForRoutes_EmptySelection(t *testing.T) {
	repo := setupTestRepository(t)
	defer repo.Close()

	rows, err := repo.GetMonthlyForRoutes(context.Background(), nil)
	if err != nil {
		t.Fatalf("empty selection failed: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("empty selection returned %d rows", len(rows))
	}
}
