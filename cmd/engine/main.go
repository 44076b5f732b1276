package main

import (
	"log"
	"os"
	"strconv"

	"github.com/rawblock/sudoku-engine/internal/api"
	"github.com/rawblock/sudoku-engine/internal/debug"
	"github.com/rawblock/sudoku-engine/internal/store"
)

func main() {
	log.Println("Starting Variant-Sudoku Constraint Engine...")
	log.Println("Initializing handler catalogue and search driver...")

	// ─── Configuration ───────────────────────────────────────────────────
	// Settings and connection strings come from environment variables
	// (LOG_LEVEL, DATABASE_URL, PORT, ALLOWED_ORIGINS).
	// ───────────────────────────────────────────────────────────────────

	level, err := strconv.Atoi(getEnvOrDefault("LOG_LEVEL", "1"))
	if err != nil || level < int(debug.LevelOff) || level > int(debug.LevelVerbose) {
		level = int(debug.LevelInfo)
	}
	logger := debug.New(debug.Level(level))

	var cache *store.SolveCache
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		conn, err := store.Connect(dbURL)
		if err != nil {
			log.Printf("Warning: Failed to connect to PostgreSQL, continuing without a solve cache. Error: %v", err)
		} else {
			defer conn.Close()
			if err := conn.InitSchema(); err != nil {
				log.Printf("Warning: solve cache schema init failed: %v", err)
			}
			cache = conn
		}
	} else {
		log.Println("DATABASE_URL not set — running without a solve cache")
	}

	// Setup WebSocket Hub for solve-progress streaming.
	wsHub := api.NewHub()
	go wsHub.Run()

	// Setup the Gin Router
	r := api.SetupRouter(cache, wsHub, logger)

	port := getEnvOrDefault("PORT", "5339")

	log.Printf("Engine running on :%s\n", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// getEnvOrDefault returns the env var value or a safe default for non-secret settings.
func getEnvOrDefault(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
