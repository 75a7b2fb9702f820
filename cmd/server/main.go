package main

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"

	"tour-route-service/internal/adapters/cache"
	"tour-route-service/internal/adapters/repositories"
	"tour-route-service/internal/api"
	"tour-route-service/internal/config"
	"tour-route-service/internal/platform/db"
	"tour-route-service/internal/ports"
	"tour-route-service/internal/services"
)

// main is the application composition root.
// It wires concrete adapters (SQLite or Postgres, and a route cache) behind
// ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	port := config.Get("PORT", "8080")

	conn, tours, prefs, venues, err := openRepositories()
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	routeCache, err := openRouteCache()
	if err != nil {
		log.Fatal(err)
	}

	planner := &services.PlanService{
		Tours:  tours,
		Venues: venues,
		Prefs:  prefs,
		Cache:  routeCache,
	}

	router := api.NewRouter(venues, planner)

	log.Printf("Server listening addr=:%s", port)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

func openRepositories() (*sql.DB, ports.TourRepository, ports.PreferenceSource, ports.VenueRepository, error) {
	driver := strings.ToLower(config.Get("DB_DRIVER", "sqlite"))

	switch driver {
	case "sqlite":
		dbPath := config.Get("DB_PATH", "data/app.db")
		conn, err := openSqlite(dbPath)
		if err != nil {
			return nil, nil, nil, nil, err
		}

		// Initialize schema and seed demo data on startup for local runs.
		if err := repositories.InitSchema(conn); err != nil {
			conn.Close()
			return nil, nil, nil, nil, fmt.Errorf("init sqlite schema: %w", err)
		}
		if seedPath := os.Getenv("SEED_PATH"); strings.TrimSpace(seedPath) != "" {
			if err := repositories.SeedFromJSON(conn, seedPath); err != nil {
				conn.Close()
				return nil, nil, nil, nil, fmt.Errorf("seed sqlite database: %w", err)
			}
		}

		tours := repositories.NewSqliteTourRepository(conn)
		return conn, tours, tours, repositories.NewSqliteVenueRepository(conn), nil

	case "postgres":
		databaseURL := os.Getenv("DATABASE_URL")
		if strings.TrimSpace(databaseURL) == "" {
			return nil, nil, nil, nil, fmt.Errorf("DATABASE_URL is required when DB_DRIVER=postgres")
		}
		conn, err := db.Open(databaseURL)
		if err != nil {
			return nil, nil, nil, nil, err
		}
		tours := repositories.NewSQLTourRepository(conn)
		return conn, tours, tours, repositories.NewSQLVenueRepository(conn), nil

	default:
		return nil, nil, nil, nil, fmt.Errorf("unsupported DB_DRIVER %q (want sqlite or postgres)", driver)
	}
}

func openRouteCache() (ports.RouteCache, error) {
	backend := strings.ToLower(config.Get("CACHE_BACKEND", "memory"))

	switch backend {
	case "memory":
		return cache.NewMemoryRouteCache(cache.DefaultTTL, 1024), nil

	case "redis":
		addr := config.Get("REDIS_ADDR", "localhost:6379")
		rdb := redis.NewClient(&redis.Options{Addr: addr})
		return cache.NewRedisRouteCache(rdb, cache.DefaultTTL)

	case "none":
		return cache.NoopRouteCache{}, nil

	default:
		return nil, fmt.Errorf("unsupported CACHE_BACKEND %q (want memory, redis, or none)", backend)
	}
}

func openSqlite(dbPath string) (*sql.DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("openDB: open sqlite database %q: %w", dbPath, err)
	}

	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("openDB: verify sqlite connection to %q: %w", dbPath, err)
	}

	return conn, nil
}
