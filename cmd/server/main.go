package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/pflag"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"freight-break-service/internal/adapters/cache"
	"freight-break-service/internal/adapters/repositories"
	"freight-break-service/internal/api"
	"freight-break-service/internal/config"
	"freight-break-service/internal/platform/db"
	"freight-break-service/internal/platform/obs"
	"freight-break-service/internal/ports"
)

// main is the application composition root.
// It wires concrete adapters (Postgres or SQLite, Redis) behind ports and
// starts the HTTP server.
func main() {
	debug := pflag.Bool("debug", false, "enable debug logging")
	pflag.Parse()

	if err := obs.Init(*debug); err != nil {
		fmt.Fprintf(os.Stderr, "init logging: %v\n", err)
		os.Exit(1)
	}
	defer obs.Sync()

	if err := godotenv.Load(); err != nil {
		obs.Infof("No .env file found (using environment variables)")
	}

	var (
		pathRepo     ports.PathRepository
		scenarioRepo ports.ScenarioRepository
		resultStore  ports.ResultStore
		plans        ports.PlanCache
	)

	if databaseURL := strings.TrimSpace(os.Getenv("DATABASE_URL")); databaseURL != "" {
		pg, err := db.Open(databaseURL)
		if err != nil {
			obs.Fatalf("%v", err)
		}
		defer pg.Close()

		pathRepo = repositories.NewSQLPathRepository(pg)
		scenarioRepo = repositories.NewSQLScenarioRepository(pg)
		resultStore = repositories.NewSQLResultStore(pg)
		plans = cache.NewSQLPlanCache(pg)
		obs.Infof("storage: postgres")
	} else {
		dbPath := config.Get("DB_PATH", "data/app.db")
		seedPath := config.Get("SEED_PATH", "data/seeds/network.json")

		local, err := openDB(dbPath)
		if err != nil {
			obs.Fatalf("%v", err)
		}
		defer local.Close()

		// Initialize schema and seed demo data on startup for local runs.
		if err := initAndSeed(local, seedPath); err != nil {
			obs.Fatalf("%v", err)
		}

		pathRepo = repositories.NewSqlitePathRepository(local)
		scenarioRepo = repositories.NewSqliteScenarioRepository(local)
		resultStore = repositories.NewSqliteResultStore(local)
		plans = cache.NewSqlitePlanCache(local)
		obs.Infof("storage: sqlite at %s", dbPath)
	}

	// Redis takes over plan caching when configured; entries then expire
	// instead of persisting in the database indefinitely.
	if addr := strings.TrimSpace(os.Getenv("REDIS_ADDR")); addr != "" {
		client := redis.NewClient(&redis.Options{Addr: addr})
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := client.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			obs.Fatalf("connect redis at %s: %v", addr, err)
		}
		plans = cache.NewRedisPlanCache(client, cache.DefaultPlanTTL)
		obs.Infof("plan cache: redis at %s", addr)
	}

	defaultSpeedKmh := 0.0
	if v := config.Get("TRAVEL_SPEED_KMH", ""); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			obs.Warnf("Ignoring invalid TRAVEL_SPEED_KMH %q: %v", v, err)
		} else {
			defaultSpeedKmh = parsed
		}
	}

	router := api.NewRouter(pathRepo, scenarioRepo, resultStore, plans, defaultSpeedKmh)

	// WriteTimeout leaves room for a full-network preprocessing run to finish
	// within a single request.
	port := config.Get("PORT", "8080")
	obs.Infof("server listening addr=:%s", port)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	obs.Fatalf("%v", srv.ListenAndServe())
}

func openDB(dbPath string) (*sql.DB, error) {
	local, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("openDB: open sqlite database %q: %w", dbPath, err)
	}

	if err := local.Ping(); err != nil {
		return nil, fmt.Errorf("openDB: verify sqlite connection to %q: %w", dbPath, err)
	}

	return local, nil
}

func initAndSeed(local *sql.DB, seedPath string) error {
	if err := repositories.InitSchema(local); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	if err := repositories.SeedFromJSON(local, seedPath); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	return nil
}
