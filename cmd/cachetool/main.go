package main

import (
	"database/sql"
	"flag"
	"log"
	"os"
	"strings"

	"itinerary-view-service/internal/adapters/cache"
	"itinerary-view-service/internal/config"
	"itinerary-view-service/internal/platform/db"

	"github.com/joho/godotenv"
)

// cachetool initializes or flushes the segment geometry cache schema.
func main() {
	initSchema := flag.Bool("init", false, "create the segment_cache table")
	flush := flag.Bool("flush", false, "delete all cached segment geometry")
	flag.Parse()

	if !*initSchema && !*flush {
		log.Fatal("nothing to do: pass -init and/or -flush")
	}

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	conn, err := open()
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	if *initSchema {
		log.Println("Initializing segment cache schema...")
		if err := cache.InitSchema(conn); err != nil {
			log.Fatalf("schema initialization failed: %v", err)
		}
		log.Println("Schema ready.")
	}

	if *flush {
		log.Println("Flushing segment cache...")
		if err := cache.Flush(conn); err != nil {
			log.Fatalf("flush failed: %v", err)
		}
		log.Println("Flush complete.")
	}
}

func open() (*sql.DB, error) {
	if databaseURL := os.Getenv("DATABASE_URL"); strings.TrimSpace(databaseURL) != "" {
		return db.OpenPostgres(databaseURL)
	}
	return db.OpenSqlite(config.Get("SQLITE_PATH", "data/segments.db"))
}
