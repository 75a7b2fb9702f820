package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"

	"tour-route-service/internal/adapters/repositories"
	"tour-route-service/internal/config"
	"tour-route-service/internal/platform/db"
)

// dbtool initializes the schema and loads seed data for either backend.
// Intended for local setup and CI fixtures, not production migration.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	driver := strings.ToLower(config.Get("DB_DRIVER", "sqlite"))
	seedPath := config.Get("SEED_PATH", "data/seeds/tours.json")

	switch driver {
	case "sqlite":
		dbPath := config.Get("DB_PATH", "data/app.db")
		conn, err := sql.Open("sqlite", dbPath)
		if err != nil {
			log.Fatalf("open sqlite database %q: %v", dbPath, err)
		}
		defer conn.Close()

		if err := initAndSeed(conn, seedPath, repositories.InitSchema, repositories.SeedFromJSON); err != nil {
			log.Fatal(err)
		}

	case "postgres":
		databaseURL := os.Getenv("DATABASE_URL")
		if strings.TrimSpace(databaseURL) == "" {
			log.Fatal("DATABASE_URL is required when DB_DRIVER=postgres")
		}
		conn, err := db.Open(databaseURL)
		if err != nil {
			log.Fatal(err)
		}
		defer conn.Close()

		if err := initAndSeed(conn, seedPath, repositories.InitSchemaPostgres, repositories.SeedFromJSONPostgres); err != nil {
			log.Fatal(err)
		}

	default:
		log.Fatalf("unsupported DB_DRIVER %q (want sqlite or postgres)", driver)
	}
}

func initAndSeed(
	conn *sql.DB,
	seedPath string,
	initSchema func(*sql.DB) error,
	seed func(*sql.DB, string) error,
) error {
	log.Println("Initializing database schema...")
	if err := initSchema(conn); err != nil {
		return fmt.Errorf("schema initialization failed: %w", err)
	}
	log.Println("Schema ready.")

	log.Println("Seeding database...")
	if err := seed(conn, seedPath); err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}
	log.Println("Seeding complete.")

	return nil
}
