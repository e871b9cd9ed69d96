package main

import (
	"database/sql"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"freight-break-service/internal/adapters/repositories"
	"freight-break-service/internal/config"
	"freight-break-service/internal/platform/db"
	"freight-break-service/internal/platform/obs"
)

// dbtool initializes the schema and seeds network data without starting the
// server. Pointed at DATABASE_URL it bootstraps Postgres; otherwise it
// bootstraps the local SQLite file the server uses.
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

	seedPath := config.Get("SEED_PATH", "data/seeds/network.json")

	if databaseURL := strings.TrimSpace(os.Getenv("DATABASE_URL")); databaseURL != "" {
		pg, err := db.Open(databaseURL)
		if err != nil {
			obs.Fatalf("%v", err)
		}
		defer pg.Close()

		if err := initAndSeedPostgres(pg, seedPath); err != nil {
			obs.Fatalf("%v", err)
		}
		return
	}

	dbPath := config.Get("DB_PATH", "data/app.db")
	local, err := sql.Open("sqlite", dbPath)
	if err != nil {
		obs.Fatalf("open sqlite database %q: %v", dbPath, err)
	}
	defer local.Close()

	if err := initAndSeedSqlite(local, seedPath); err != nil {
		obs.Fatalf("%v", err)
	}
}

func initAndSeedPostgres(pg *sql.DB, seedPath string) error {
	obs.Infof("Initializing database schema...")
	if err := repositories.InitPostgresSchema(pg); err != nil {
		return fmt.Errorf("schema initialization failed: %w", err)
	}
	obs.Infof("Schema ready.")

	obs.Infof("Seeding database...")
	if err := repositories.SeedPostgresFromJSON(pg, seedPath); err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}
	obs.Infof("Seeding complete.")

	return nil
}

func initAndSeedSqlite(local *sql.DB, seedPath string) error {
	obs.Infof("Initializing database schema...")
	if err := repositories.InitSchema(local); err != nil {
		return fmt.Errorf("schema initialization failed: %w", err)
	}
	obs.Infof("Schema ready.")

	obs.Infof("Seeding database...")
	if err := repositories.SeedFromJSON(local, seedPath); err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}
	obs.Infof("Seeding complete.")

	return nil
}
