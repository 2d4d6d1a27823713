package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"itinerary-view-service/internal/adapters/backend"
	"itinerary-view-service/internal/adapters/cache"
	"itinerary-view-service/internal/api"
	"itinerary-view-service/internal/config"
	"itinerary-view-service/internal/mapsdk"
	"itinerary-view-service/internal/platform/db"
	"itinerary-view-service/internal/ports"
	"itinerary-view-service/internal/render"
	"itinerary-view-service/internal/view"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

// main is the application composition root. It wires concrete adapters
// (backend HTTP client, segment cache, in-process map surface) behind
// ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	port := config.Get("PORT", "8080")

	baseURL := os.Getenv("BACKEND_BASE_URL")
	if strings.TrimSpace(baseURL) == "" {
		log.Fatal("BACKEND_BASE_URL is required")
	}
	apiKey := os.Getenv("BACKEND_API_KEY")

	client, err := backend.NewClient(baseURL, apiKey)
	if err != nil {
		log.Fatal(err)
	}

	// The SDK is loaded once at startup; a failure here is terminal the
	// same way it is for every later caller.
	loader := mapsdk.NewLoader(client)
	sdk, err := loader.EnsureLoaded(context.Background())
	if err != nil {
		log.Fatalf("load map SDK: %v", err)
	}
	surface := sdk.NewMap()
	defer surface.Dispose()

	segCache, closeCache, err := openSegmentCache()
	if err != nil {
		log.Fatal(err)
	}
	if closeCache != nil {
		defer closeCache()
	}

	workers, err := strconv.Atoi(config.Get("RENDER_WORKERS", "4"))
	if err != nil || workers < 1 {
		log.Fatal("RENDER_WORKERS must be a positive integer")
	}

	engine := render.NewEngine(client, segCache, workers)
	controller := view.NewController(engine, surface)
	defer controller.Close()

	router := api.NewRouter(client, client, controller, surface)

	// Write timeout covers plans that geocode many addresses through
	// the backend before optimization.
	log.Printf("Server listening addr=:%s", port)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

// openSegmentCache builds the configured segment geometry cache.
// SEGMENT_CACHE selects the backend: off, sqlite, postgres, or redis.
func openSegmentCache() (ports.SegmentCache, func() error, error) {
	switch backendName := config.Get("SEGMENT_CACHE", "sqlite"); backendName {
	case "off":
		return nil, nil, nil

	case "sqlite":
		path := config.Get("SQLITE_PATH", "data/segments.db")
		conn, err := db.OpenSqlite(path)
		if err != nil {
			return nil, nil, err
		}
		if err := cache.InitSchema(conn); err != nil {
			conn.Close()
			return nil, nil, err
		}
		return cache.NewSqliteSegmentCache(conn), conn.Close, nil

	case "postgres":
		databaseURL := os.Getenv("DATABASE_URL")
		if strings.TrimSpace(databaseURL) == "" {
			return nil, nil, fmt.Errorf("segment cache: DATABASE_URL is required for postgres")
		}
		conn, err := db.OpenPostgres(databaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := cache.InitSchema(conn); err != nil {
			conn.Close()
			return nil, nil, err
		}
		return cache.NewSQLSegmentCache(conn), conn.Close, nil

	case "redis":
		addr := config.Get("REDIS_ADDR", "localhost:6379")
		client := redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: os.Getenv("REDIS_PASSWORD"),
		})
		if err := client.Ping(context.Background()).Err(); err != nil {
			return nil, nil, fmt.Errorf("segment cache: verify redis connection to %q: %w", addr, err)
		}
		return cache.NewRedisSegmentCache(client, 0), client.Close, nil

	default:
		return nil, nil, fmt.Errorf("segment cache: unknown backend %q", backendName)
	}
}
