package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/ek3433/ARISE2025-Dashboard/models"

	_ "modernc.org/sqlite"
)

// SQLiteDB wraps a SQL database connection for SQLite
type SQLiteDB struct {
	db *sql.DB
}

// NewSQLiteDB opens the summary cache read-only side. The dashboards never
// write, so a small pool is fine.
func NewSQLiteDB(dbPath string) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite", dbPath+"?_journal=WAL&_fk=1")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteDB{db: db}, nil
}

// Close closes the database connection
func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

// GetDB returns the underlying database connection
func (s *SQLiteDB) GetDB() *sql.DB {
	return s.db
}

// placeholders returns "?, ?, ..." for n bound values.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// SQLiteRidershipRepository reads the bus monthly summary from SQLite
type SQLiteRidershipRepository struct {
	db *sql.DB
}

// NewSQLiteRidershipRepository creates a new SQLiteRidershipRepository
func NewSQLiteRidershipRepository(db *sql.DB) *SQLiteRidershipRepository {
	return &SQLiteRidershipRepository{db: db}
}

// GetRoutes returns all routes present in the monthly summary, sorted.
func (r *SQLiteRidershipRepository) GetRoutes(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT DISTINCT route FROM bus_monthly ORDER BY route")
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

// GetMonthlyForRoutes returns every monthly row for the given routes, all
// months included so the caller can anchor year-over-year comparisons.
func (r *SQLiteRidershipRepository) GetMonthlyForRoutes(ctx context.Context, routes []string) ([]models.MonthlyRidership, error) {
	if len(routes) == 0 {
		return []models.MonthlyRidership{}, nil
	}

	query := fmt.Sprintf(
		"SELECT route, year, month, ridership FROM bus_monthly WHERE route IN (%s) ORDER BY route, year, month",
		placeholders(len(routes)))
	args := make([]any, len(routes))
	for i, route := range routes {
		args[i] = route
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
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
