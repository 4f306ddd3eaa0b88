package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ek3433/ARISE2025-Dashboard/models"
)

// SQLiteTaxiRepository reads the taxi monthly report from SQLite
type SQLiteTaxiRepository struct {
	db *sql.DB
}

// NewSQLiteTaxiRepository creates a new SQLiteTaxiRepository
func NewSQLiteTaxiRepository(db *sql.DB) *SQLiteTaxiRepository {
	return &SQLiteTaxiRepository{db: db}
}

// GetLicenseClasses returns the distinct license classes, sorted.
func (r *SQLiteTaxiRepository) GetLicenseClasses(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT DISTINCT license_class FROM taxi_monthly ORDER BY license_class")
	if err != nil {
		return nil, fmt.Errorf("failed to query license classes: %w", err)
	}
	defer rows.Close()

	var classes []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("failed to scan license class row: %w", err)
		}
		classes = append(classes, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating license class rows: %w", err)
	}
	return classes, nil
}

// GetMonthlyForClass returns every monthly row for one license class, all
// months included so the caller can anchor year-over-year comparisons.
func (r *SQLiteTaxiRepository) GetMonthlyForClass(ctx context.Context, class string) ([]models.TaxiMonthly, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT license_class, year, month, trips_per_day FROM taxi_monthly WHERE license_class = ? ORDER BY year, month",
		class)
	if err != nil {
		return nil, fmt.Errorf("failed to query taxi monthly: %w", err)
	}
	defer rows.Close()

	var out []models.TaxiMonthly
	for rows.Next() {
		var t models.TaxiMonthly
		var trips sql.NullFloat64
		if err := rows.Scan(&t.LicenseClass, &t.Year, &t.Month, &trips); err != nil {
			return nil, fmt.Errorf("failed to scan taxi monthly row: %w", err)
		}
		if trips.Valid {
			v := trips.Float64
			t.TripsPerDay = &v
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating taxi monthly rows: %w", err)
	}
	return out, nil
}
