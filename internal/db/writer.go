package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ek3433/ARISE2025-Dashboard/internal/ingest"
	"github.com/ek3433/ARISE2025-Dashboard/models"
)

const dateLayout = "2006-01-02"

// CreateSnapshot records one build run and returns its ID. Every summary row
// written by that run carries the ID, so a stale or partial rebuild can be
// traced back to the run that produced it.
func (db *DB) CreateSnapshot(ctx context.Context, sourceName string, stats ingest.Stats) (string, error) {
	snapshotID := uuid.New().String()
	builtAt := time.Now().UTC().Format(time.RFC3339)

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO build_snapshots (snapshot_id, source_name, built_at_utc, rows_read, rows_kept, rows_dropped, rows_missing)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		snapshotID, sourceName, builtAt, stats.Rows, stats.Kept, stats.Dropped, stats.Missing,
	)
	if err != nil {
		return "", fmt.Errorf("failed to create snapshot: %w", err)
	}
	return snapshotID, nil
}

// ReplaceBusMonthly swaps the bus monthly summary for the given rows in one
// transaction.
func (db *DB) ReplaceBusMonthly(ctx context.Context, snapshotID string, rows []models.MonthlyRidership) error {
	db.writeMu.Lock()
	defer db.writeMu.Unlock()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM bus_monthly"); err != nil {
		return fmt.Errorf("failed to clear bus_monthly: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO bus_monthly (route, year, month, ridership, snapshot_id) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, r.Route, r.Year, r.Month, r.Ridership, snapshotID); err != nil {
			return fmt.Errorf("failed to insert bus_monthly row %s %d-%02d: %w", r.Route, r.Year, r.Month, err)
		}
	}
	return tx.Commit()
}

// ReplaceCRZSummaries swaps all five vehicle-entry summary tables in one
// transaction so readers never observe levels from different builds.
func (db *DB) ReplaceCRZSummaries(ctx context.Context, snapshotID string, acc *CRZRows) error {
	db.writeMu.Lock()
	defer db.writeMu.Unlock()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"crz_hourly", "crz_daily", "crz_weekly", "crz_monthly", "crz_excluded"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	hourly, err := tx.PrepareContext(ctx,
		"INSERT INTO crz_hourly (toll_date, hour, region, vehicle_class, detection_group, entries, snapshot_id) VALUES (?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer hourly.Close()
	for _, r := range acc.Hourly {
		if _, err := hourly.ExecContext(ctx, r.TollDate.Format(dateLayout), r.Hour, r.Region, r.VehicleClass, r.DetectionGroup, r.Entries, snapshotID); err != nil {
			return fmt.Errorf("failed to insert crz_hourly row: %w", err)
		}
	}

	daily, err := tx.PrepareContext(ctx,
		"INSERT INTO crz_daily (toll_date, region, vehicle_class, detection_group, time_period, entries, snapshot_id) VALUES (?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer daily.Close()
	for _, r := range acc.Daily {
		if _, err := daily.ExecContext(ctx, r.TollDate.Format(dateLayout), r.Region, r.VehicleClass, r.DetectionGroup, r.TimePeriod, r.Entries, snapshotID); err != nil {
			return fmt.Errorf("failed to insert crz_daily row: %w", err)
		}
	}

	weekly, err := tx.PrepareContext(ctx,
		"INSERT INTO crz_weekly (year, week, region, vehicle_class, detection_group, entries, snapshot_id) VALUES (?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer weekly.Close()
	for _, r := range acc.Weekly {
		if _, err := weekly.ExecContext(ctx, r.Year, r.Week, r.Region, r.VehicleClass, r.DetectionGroup, r.Entries, snapshotID); err != nil {
			return fmt.Errorf("failed to insert crz_weekly row: %w", err)
		}
	}

	monthly, err := tx.PrepareContext(ctx,
		"INSERT INTO crz_monthly (year, month, region, vehicle_class, detection_group, entries, snapshot_id) VALUES (?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer monthly.Close()
	for _, r := range acc.Monthly {
		if _, err := monthly.ExecContext(ctx, r.Year, r.Month, r.Region, r.VehicleClass, r.DetectionGroup, r.Entries, snapshotID); err != nil {
			return fmt.Errorf("failed to insert crz_monthly row: %w", err)
		}
	}

	excluded, err := tx.PrepareContext(ctx,
		"INSERT INTO crz_excluded (toll_date, excluded_entries, snapshot_id) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer excluded.Close()
	for _, r := range acc.Excluded {
		if _, err := excluded.ExecContext(ctx, r.TollDate.Format(dateLayout), r.Entries, snapshotID); err != nil {
			return fmt.Errorf("failed to insert crz_excluded row: %w", err)
		}
	}

	return tx.Commit()
}

// CRZRows carries the materialized summary rows of one build.
type CRZRows struct {
	Hourly   []models.CRZHourly
	Daily    []models.CRZDaily
	Weekly   []models.CRZWeekly
	Monthly  []models.CRZMonthly
	Excluded []models.CRZExcluded
}

// ReplaceTaxiMonthly swaps the taxi monthly table for the given rows in one
// transaction. Placeholder months keep a NULL trips_per_day.
func (db *DB) ReplaceTaxiMonthly(ctx context.Context, snapshotID string, rows []models.TaxiMonthly) error {
	db.writeMu.Lock()
	defer db.writeMu.Unlock()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM taxi_monthly"); err != nil {
		return fmt.Errorf("failed to clear taxi_monthly: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO taxi_monthly (license_class, year, month, trips_per_day, snapshot_id) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (license_class, year, month) DO UPDATE SET
		   trips_per_day = excluded.trips_per_day,
		   snapshot_id = excluded.snapshot_id`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, r.LicenseClass, r.Year, r.Month, r.TripsPerDay, snapshotID); err != nil {
			return fmt.Errorf("failed to insert taxi_monthly row %s %d-%02d: %w", r.LicenseClass, r.Year, r.Month, err)
		}
	}
	return tx.Commit()
}
