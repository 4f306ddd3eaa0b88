package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ek3433/ARISE2025-Dashboard/models"
)

const dateLayout = "2006-01-02"

// SQLiteCRZRepository reads the vehicle-entry summaries from SQLite
type SQLiteCRZRepository struct {
	db *sql.DB
}

// NewSQLiteCRZRepository creates a new SQLiteCRZRepository
func NewSQLiteCRZRepository(db *sql.DB) *SQLiteCRZRepository {
	return &SQLiteCRZRepository{db: db}
}

// GetDimensions returns the distinct filter values in the daily summary,
// used to populate the dashboard dropdowns.
func (r *SQLiteCRZRepository) GetDimensions(ctx context.Context) (models.CRZDimensions, error) {
	var dims models.CRZDimensions

	for _, q := range []struct {
		column string
		dest   *[]string
	}{
		{"region", &dims.Regions},
		{"vehicle_class", &dims.VehicleClasses},
		{"detection_group", &dims.DetectionGroups},
	} {
		rows, err := r.db.QueryContext(ctx,
			fmt.Sprintf("SELECT DISTINCT %s FROM crz_daily ORDER BY %s", q.column, q.column))
		if err != nil {
			return dims, fmt.Errorf("failed to query %s values: %w", q.column, err)
		}
		for rows.Next() {
			var v string
			if err := rows.Scan(&v); err != nil {
				rows.Close()
				return dims, fmt.Errorf("failed to scan %s row: %w", q.column, err)
			}
			*q.dest = append(*q.dest, v)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return dims, fmt.Errorf("error iterating %s rows: %w", q.column, err)
		}
		rows.Close()
	}

	var minDate, maxDate sql.NullString
	err := r.db.QueryRowContext(ctx,
		"SELECT MIN(toll_date), MAX(toll_date) FROM crz_daily").Scan(&minDate, &maxDate)
	if err != nil {
		return dims, fmt.Errorf("failed to query date range: %w", err)
	}
	if minDate.Valid {
		if t, err := time.Parse(dateLayout, minDate.String); err == nil {
			dims.MinDate = &t
		}
	}
	if maxDate.Valid {
		if t, err := time.Parse(dateLayout, maxDate.String); err == nil {
			dims.MaxDate = &t
		}
	}
	return dims, nil
}

// seriesColumns describes how each aggregation level maps to SQL.
var seriesColumns = map[models.AggLevel]struct {
	table   string
	buckets string // bucket columns, selected and grouped
	dated   bool   // bucket includes a toll_date column
}{
	models.AggHourly:  {"crz_hourly", "toll_date, hour", true},
	models.AggDaily:   {"crz_daily", "toll_date", true},
	models.AggWeekly:  {"crz_weekly", "year, week", false},
	models.AggMonthly: {"crz_monthly", "year, month", false},
}

// GetSeries returns the filtered, bucketed entry series for one query.
// Empty dimension sets match everything. The result is ordered by bucket.
func (r *SQLiteCRZRepository) GetSeries(ctx context.Context, f models.CRZFilter) ([]models.CRZSeriesPoint, error) {
	spec, ok := seriesColumns[f.Level]
	if !ok {
		return nil, fmt.Errorf("unknown aggregation level %q", f.Level)
	}

	agg := "SUM(entries)"
	if f.Value == models.ValueMean {
		agg = "AVG(entries)"
	}

	where := " WHERE 1=1"
	var args []any
	appendIn := func(column string, values []string) {
		if len(values) == 0 {
			return
		}
		where += fmt.Sprintf(" AND %s IN (%s)", column, placeholders(len(values)))
		for _, v := range values {
			args = append(args, v)
		}
	}
	appendIn("region", f.Regions)
	appendIn("vehicle_class", f.VehicleClasses)
	appendIn("detection_group", f.DetectionGroups)
	if spec.dated {
		if !f.Start.IsZero() {
			where += " AND toll_date >= ?"
			args = append(args, f.Start.Format(dateLayout))
		}
		if !f.End.IsZero() {
			where += " AND toll_date <= ?"
			args = append(args, f.End.Format(dateLayout))
		}
	}

	query := fmt.Sprintf("SELECT %s, %s FROM %s%s GROUP BY %s ORDER BY %s",
		spec.buckets, agg, spec.table, where, spec.buckets, spec.buckets)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s series: %w", f.Level, err)
	}
	defer rows.Close()

	var points []models.CRZSeriesPoint
	for rows.Next() {
		var p models.CRZSeriesPoint
		switch f.Level {
		case models.AggHourly:
			var date string
			var hour int
			if err := rows.Scan(&date, &hour, &p.Value); err != nil {
				return nil, fmt.Errorf("failed to scan hourly row: %w", err)
			}
			t, _ := time.Parse(dateLayout, date)
			p.TollDate, p.Hour = &t, &hour
		case models.AggDaily:
			var date string
			if err := rows.Scan(&date, &p.Value); err != nil {
				return nil, fmt.Errorf("failed to scan daily row: %w", err)
			}
			t, _ := time.Parse(dateLayout, date)
			p.TollDate = &t
		case models.AggWeekly:
			var year, week int
			if err := rows.Scan(&year, &week, &p.Value); err != nil {
				return nil, fmt.Errorf("failed to scan weekly row: %w", err)
			}
			p.Year, p.Week = &year, &week
		case models.AggMonthly:
			var year, month int
			if err := rows.Scan(&year, &month, &p.Value); err != nil {
				return nil, fmt.Errorf("failed to scan monthly row: %w", err)
			}
			p.Year, p.Month = &year, &month
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating series rows: %w", err)
	}
	return points, nil
}

// GetExcluded returns the excluded-roadway daily totals inside the range.
func (r *SQLiteCRZRepository) GetExcluded(ctx context.Context, start, end time.Time) ([]models.CRZExcluded, error) {
	query := "SELECT toll_date, excluded_entries FROM crz_excluded WHERE 1=1"
	var args []any
	if !start.IsZero() {
		query += " AND toll_date >= ?"
		args = append(args, start.Format(dateLayout))
	}
	if !end.IsZero() {
		query += " AND toll_date <= ?"
		args = append(args, end.Format(dateLayout))
	}
	query += " ORDER BY toll_date"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query excluded entries: %w", err)
	}
	defer rows.Close()

	var out []models.CRZExcluded
	for rows.Next() {
		var date string
		var e models.CRZExcluded
		if err := rows.Scan(&date, &e.Entries); err != nil {
			return nil, fmt.Errorf("failed to scan excluded row: %w", err)
		}
		t, _ := time.Parse(dateLayout, date)
		e.TollDate = t
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating excluded rows: %w", err)
	}
	return out, nil
}
