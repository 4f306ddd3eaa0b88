package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/ek3433/ARISE2025-Dashboard/handlers"
	"github.com/ek3433/ARISE2025-Dashboard/internal/config"
	"github.com/ek3433/ARISE2025-Dashboard/repository"
)

func main() {
	// Load .env files from repository root
	_ = godotenv.Load(".env")
	_ = godotenv.Overload(".env.local")

	cfg := config.Load()

	if _, err := os.Stat(cfg.DatabasePath); err != nil {
		log.Fatalf("Summary database not found at %s, run build-summary first: %v", cfg.DatabasePath, err)
	}
	log.Printf("Connecting to SQLite database: %s", cfg.DatabasePath)

	sqliteDB, err := repository.NewSQLiteDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize SQLite database: %v", err)
	}
	defer sqliteDB.Close()

	crzRepo := repository.NewSQLiteCRZRepository(sqliteDB.GetDB())
	crzHandler := handlers.NewCRZHandler(crzRepo)

	// Setup router
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.CORSOrigin},
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	// Health check endpoint with database connectivity test
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		_, err := crzRepo.GetDimensions(ctx)

		w.Header().Set("Content-Type", "application/json")
		if err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status":    "error",
				"database":  "disconnected",
				"timestamp": time.Now().UTC(),
				"error":     err.Error(),
			})
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":    "ok",
			"database":  "connected",
			"timestamp": time.Now().UTC(),
		})
	})
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// Congestion-zone API routes
	r.Get("/api/crz/dimensions", crzHandler.GetDimensions)
	r.Get("/api/crz/entries", crzHandler.GetEntries)
	r.Get("/api/crz/excluded", crzHandler.GetExcluded)

	// Static file serving (if configured)
	staticDir := os.Getenv("STATIC_DIR")
	if staticDir != "" {
		fs := http.FileServer(http.Dir(staticDir))
		r.Handle("/*", fs)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8050"
	}

	log.Printf("Congestion-zone dashboard server starting on :%s", port)
	log.Println("Endpoints:")
	log.Println("  GET /api/crz/dimensions")
	log.Println("  GET /api/crz/entries")
	log.Println("  GET /api/crz/excluded")
	log.Println("  GET /health (with database check)")

	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
