package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ek3433/ARISE2025-Dashboard/models"
)

// RidershipRepository reads the bus monthly summary from Postgres. Deployed
// environments that replicate the summary into a shared Postgres use this
// instead of the local SQLite artifact; the schema matches bus_monthly.
type RidershipRepository struct {
	pool *pgxpool.Pool
}

// NewRidershipRepository connects to Postgres using the given URL
func NewRidershipRepository(databaseURL string) (*RidershipRepository, error) {
	pool, err := pgxpool.New(context.Background(), databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(context.Background()); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &RidershipRepository{pool: pool}, nil
}

// Close releases the connection pool
func (r *RidershipRepository) Close() {
	r.pool.Close()
}

// GetRoutes returns all routes present in the monthly summary, sorted.
func (r *RidershipRepository) GetRoutes(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, "SELECT DISTINCT route FROM bus_monthly ORDER BY route")
	if err != nil {
		return nil, fmt.Errorf("failed to query routes: %w", err)
	}
	defer rows.Close()

	var routes []string
	for rows.Next() {
		var route string
		if err := rows.Scan(&route); err != nil {
			return nil, fmt.Errorf("failed to scan route row: %w", err)
		}
		routes = append(routes, route)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating route rows: %w", err)
	}
	return routes, nil
}

// GetMonthlyForRoutes returns every monthly row for the given routes.
func (r *RidershipRepository) GetMonthlyForRoutes(ctx context.Context, routes []string) ([]models.MonthlyRidership, error) {
	if len(routes) == 0 {
		return []models.MonthlyRidership{}, nil
	}

	rows, err := r.pool.Query(ctx,
		"SELECT route, year, month, ridership FROM bus_monthly WHERE route = ANY($1) ORDER BY route, year, month",
		routes)
	if err != nil {
		return nil, fmt.Errorf("failed to query monthly ridership: %w", err)
	}
	defer rows.Close()

	var out []models.MonthlyRidership
	for rows.Next() {
		var m models.MonthlyRidership
		if err := rows.Scan(&m.Route, &m.Year, &m.Month, &m.Ridership); err != nil {
			return nil, fmt.Errorf("failed to scan monthly row: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating monthly rows: %w", err)
	}
	return out, nil
}
