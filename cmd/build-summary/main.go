package main

import (
	"context"
	"flag"
	"io"
	"log"

	"github.com/joho/godotenv"

	"github.com/ek3433/ARISE2025-Dashboard/internal/aggregate"
	"github.com/ek3433/ARISE2025-Dashboard/internal/config"
	"github.com/ek3433/ARISE2025-Dashboard/internal/db"
	"github.com/ek3433/ARISE2025-Dashboard/internal/ingest"
	"github.com/ek3433/ARISE2025-Dashboard/internal/sources"
	"github.com/ek3433/ARISE2025-Dashboard/models"
)

func main() {
	// Load .env files from repository root
	_ = godotenv.Load(".env")
	_ = godotenv.Overload(".env.local")

	cfg := config.Load()

	// Command line flags override the environment
	dbPath := flag.String("db", cfg.DatabasePath, "Path to SQLite summary database")
	sourcesPath := flag.String("sources", cfg.SourcesPath, "Path to sources.yml catalog")
	force := flag.Bool("force", cfg.ForceRebuild, "Rebuild summaries even when the cache is populated")
	flag.Parse()

	catalog, err := sources.Load(*sourcesPath)
	if err != nil {
		log.Fatalf("Failed to load source catalog: %v", err)
	}
	log.Printf("Loaded %d datasets from catalog", len(catalog.Datasets))

	database, err := db.Connect(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer database.Close()

	log.Printf("Connected to database: %s", *dbPath)

	ctx := context.Background()
	if err := database.EnsureSchema(ctx); err != nil {
		log.Fatalf("Failed to ensure schema: %v", err)
	}

	if err := buildBus(ctx, database, catalog, cfg.ChunkSize, *force); err != nil {
		log.Fatalf("Bus summary build failed: %v", err)
	}
	if err := buildCRZ(ctx, database, catalog, cfg.ChunkSize, *force); err != nil {
		log.Fatalf("CRZ summary build failed: %v", err)
	}
	if err := buildTaxi(ctx, database, catalog, cfg.ChunkSize, *force); err != nil {
		log.Fatalf("Taxi summary build failed: %v", err)
	}

	log.Println("Summary build complete!")
}

// cached reports whether a summary table is already populated. A populated
// table is reused as-is; there is no staleness check against the source
// files, so pass -force after replacing an input.
func cached(ctx context.Context, database *db.DB, table string, force bool) bool {
	if force {
		return false
	}
	n, err := database.TableRowCount(ctx, table)
	if err != nil {
		log.Printf("Warning: cache check on %s failed, rebuilding: %v", table, err)
		return false
	}
	return n > 0
}

func buildBus(ctx context.Context, database *db.DB, catalog *sources.Catalog, chunkSize int, force bool) error {
	datasets := catalog.ByKind(sources.KindBus)
	if len(datasets) == 0 {
		log.Println("No bus datasets in catalog, skipping")
		return nil
	}
	if cached(ctx, database, "bus_monthly", force) {
		log.Println("bus_monthly already populated, skipping (use -force to rebuild)")
		return nil
	}

	// Sources are accumulated separately and merged, so two vintages of the
	// same feed combine into one summary.
	total := aggregate.NewAccumulator()
	var stats ingest.Stats

	for _, ds := range datasets {
		log.Printf("Processing bus dataset '%s' from %s...", ds.Name, ds.Location)

		partial := aggregate.NewAccumulator()
		srcStats, err := runBusSource(ds, chunkSize, partial)
		if err != nil {
			return err
		}

		log.Printf("SUCCESS: %s (%d rows read, %d kept, %d dropped, %d missing)",
			ds.Name, srcStats.Rows, srcStats.Kept, srcStats.Dropped, srcStats.Missing)

		snapshotID, err := database.CreateSnapshot(ctx, ds.Name, srcStats)
		if err != nil {
			return err
		}
		log.Printf("Recorded build snapshot %s for %s", snapshotID, ds.Name)

		total.Merge(partial)
		stats.Rows += srcStats.Rows
		stats.Kept += srcStats.Kept
		stats.Dropped += srcStats.Dropped
		stats.Missing += srcStats.Missing
	}

	snapshotID, err := database.CreateSnapshot(ctx, "bus_monthly", stats)
	if err != nil {
		return err
	}
	rows := total.Rows()
	if err := database.ReplaceBusMonthly(ctx, snapshotID, rows); err != nil {
		return err
	}
	log.Printf("Wrote %d bus route-month rows", len(rows))
	return nil
}

// runBusSource streams one dataset through the normalizer in chunks. Each
// chunk is folded into its own accumulator and merged, so memory stays
// bounded by the chunk size rather than the file size.
func runBusSource(ds sources.Dataset, chunkSize int, acc *aggregate.Accumulator) (ingest.Stats, error) {
	rc, err := ds.Source().Open()
	if err != nil {
		return ingest.Stats{}, err
	}

	reader, err := ingest.NewChunkReader(rc, chunkSize)
	if err != nil {
		rc.Close()
		return ingest.Stats{}, err
	}
	defer reader.Close()

	norm, err := ingest.NewNormalizer(ds.Name, reader.Header(), ds.Aliases, ds.TimestampFormats)
	if err != nil {
		return ingest.Stats{}, err
	}

	chunks := 0
	for {
		chunk, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return norm.Stats(), err
		}

		part := aggregate.NewAccumulator()
		for _, row := range chunk {
			if rec, ok := norm.Normalize(row); ok {
				part.Add(rec)
			}
		}
		acc.Merge(part)
		chunks++
		log.Printf("  chunk %d: %d rows (%d groups so far)", chunks, len(chunk), acc.Len())
	}

	stats := norm.Stats()
	if skipped := reader.Skipped(); skipped > 0 {
		log.Printf("  skipped %d malformed CSV lines in %s", skipped, ds.Name)
		stats.Dropped += skipped
		stats.Rows += skipped
	}
	return stats, nil
}

func buildCRZ(ctx context.Context, database *db.DB, catalog *sources.Catalog, chunkSize int, force bool) error {
	datasets := catalog.ByKind(sources.KindCRZ)
	if len(datasets) == 0 {
		log.Println("No CRZ datasets in catalog, skipping")
		return nil
	}
	if cached(ctx, database, "crz_daily", force) {
		log.Println("CRZ summaries already populated, skipping (use -force to rebuild)")
		return nil
	}

	total := aggregate.NewCRZAccumulator()
	var stats ingest.Stats

	for _, ds := range datasets {
		log.Printf("Processing CRZ dataset '%s' from %s...", ds.Name, ds.Location)

		rc, err := ds.Source().Open()
		if err != nil {
			return err
		}
		reader, err := ingest.NewChunkReader(rc, chunkSize)
		if err != nil {
			rc.Close()
			return err
		}

		norm, err := ingest.NewCRZNormalizer(ds.Name, reader.Header())
		if err != nil {
			reader.Close()
			return err
		}

		for {
			chunk, err := reader.Next()
			if err == io.EOF {
				break
			}
			if err != nil {
				reader.Close()
				return err
			}
			part := aggregate.NewCRZAccumulator()
			for _, row := range chunk {
				if rec, ok := norm.Normalize(row); ok {
					part.Add(rec)
				}
			}
			total.Merge(part)
		}
		reader.Close()

		srcStats := norm.Stats()
		log.Printf("SUCCESS: %s (%d rows read, %d kept, %d dropped)",
			ds.Name, srcStats.Rows, srcStats.Kept, srcStats.Dropped)

		if _, err := database.CreateSnapshot(ctx, ds.Name, srcStats); err != nil {
			return err
		}
		stats.Rows += srcStats.Rows
		stats.Kept += srcStats.Kept
		stats.Dropped += srcStats.Dropped
	}

	snapshotID, err := database.CreateSnapshot(ctx, "crz_summaries", stats)
	if err != nil {
		return err
	}
	rows := &db.CRZRows{
		Hourly:   total.Hourly(),
		Daily:    total.Daily(),
		Weekly:   total.Weekly(),
		Monthly:  total.Monthly(),
		Excluded: total.Excluded(),
	}
	if err := database.ReplaceCRZSummaries(ctx, snapshotID, rows); err != nil {
		return err
	}
	log.Printf("Wrote CRZ summaries (%d daily groups)", len(rows.Daily))
	return nil
}

func buildTaxi(ctx context.Context, database *db.DB, catalog *sources.Catalog, chunkSize int, force bool) error {
	datasets := catalog.ByKind(sources.KindTaxi)
	if len(datasets) == 0 {
		log.Println("No taxi datasets in catalog, skipping")
		return nil
	}
	if cached(ctx, database, "taxi_monthly", force) {
		log.Println("taxi_monthly already populated, skipping (use -force to rebuild)")
		return nil
	}

	for _, ds := range datasets {
		log.Printf("Processing taxi dataset '%s' from %s...", ds.Name, ds.Location)

		rc, err := ds.Source().Open()
		if err != nil {
			return err
		}
		reader, err := ingest.NewChunkReader(rc, chunkSize)
		if err != nil {
			rc.Close()
			return err
		}

		norm, err := ingest.NewTaxiNormalizer(ds.Name, reader.Header())
		if err != nil {
			reader.Close()
			return err
		}

		var rows []models.TaxiMonthly
		for {
			chunk, err := reader.Next()
			if err == io.EOF {
				break
			}
			if err != nil {
				reader.Close()
				return err
			}
			for _, row := range chunk {
				if rec, ok := norm.Normalize(row); ok {
					rows = append(rows, rec)
				}
			}
		}
		reader.Close()

		srcStats := norm.Stats()
		log.Printf("SUCCESS: %s (%d rows read, %d kept, %d dropped, %d missing)",
			ds.Name, srcStats.Rows, srcStats.Kept, srcStats.Dropped, srcStats.Missing)

		snapshotID, err := database.CreateSnapshot(ctx, ds.Name, srcStats)
		if err != nil {
			return err
		}
		if err := database.ReplaceTaxiMonthly(ctx, snapshotID, rows); err != nil {
			return err
		}
		log.Printf("Wrote %d taxi class-month rows", len(rows))
	}
	return nil
}
