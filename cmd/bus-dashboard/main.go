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

	var busRepo handlers.RidershipRepository
	if cfg.DatabaseURL != "" {
		// Postgres read side, used when the summary was mirrored there
		log.Println("Connecting to Postgres database")
		pgRepo, err := repository.NewRidershipRepository(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to Postgres: %v", err)
		}
		defer pgRepo.Close()
		busRepo = pgRepo
	} else {
		if _, err := os.Stat(cfg.DatabasePath); err != nil {
			log.Fatalf("Summary database not found at %s, run build-summary first: %v", cfg.DatabasePath, err)
		}
		log.Printf("Connecting to SQLite database: %s", cfg.DatabasePath)

		sqliteDB, err := repository.NewSQLiteDB(cfg.DatabasePath)
		if err != nil {
			log.Fatalf("Failed to initialize SQLite database: %v", err)
		}
		defer sqliteDB.Close()
		busRepo = repository.NewSQLiteRidershipRepository(sqliteDB.GetDB())
	}

	busHandler := handlers.NewBusHandler(busRepo)

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

		_, err := busRepo.GetRoutes(ctx)

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

	// Bus ridership API routes
	r.Get("/api/bus/routes", busHandler.GetRoutes)
	r.Get("/api/bus/boroughs", busHandler.GetBoroughs)
	r.Get("/api/bus/monthly", busHandler.GetMonthly)

	// Static file serving (if configured)
	staticDir := os.Getenv("STATIC_DIR")
	if staticDir != "" {
		fs := http.FileServer(http.Dir(staticDir))
		r.Handle("/*", fs)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8052"
	}

	log.Printf("Bus dashboard server starting on :%s", port)
	log.Println("Endpoints:")
	log.Println("  GET /api/bus/routes")
	log.Println("  GET /api/bus/boroughs")
	log.Println("  GET /api/bus/monthly")
	log.Println("  GET /health (with database check)")

	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
