package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/paulmach/orb"
)

// Initialize the Postgres database schema. Mirrors InitSchema; the flavor
// differences are column types (DOUBLE PRECISION, BOOLEAN) and upsert syntax
// in the companion seeder.
func InitPostgresSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createNodesQuery := `
	CREATE TABLE IF NOT EXISTS nodes (
		node_id TEXT PRIMARY KEY,
		lon DOUBLE PRECISION NOT NULL,
		lat DOUBLE PRECISION NOT NULL
	);
	`

	createPathsQuery := `
	CREATE TABLE IF NOT EXISTS paths (
		path_id TEXT PRIMARY KEY,
		origin TEXT NOT NULL,
		destination TEXT NOT NULL,
		length_km DOUBLE PRECISION NOT NULL
	);
	`

	createPathNodesQuery := `
	CREATE TABLE IF NOT EXISTS path_nodes (
		path_id TEXT NOT NULL,
		seq INTEGER NOT NULL,
		node_id TEXT NOT NULL,
		distance_from_previous_km DOUBLE PRECISION NOT NULL,
		cumulative_distance_km DOUBLE PRECISION NOT NULL,
		origin_anchor BOOLEAN NOT NULL DEFAULT FALSE,
		synthetic BOOLEAN NOT NULL DEFAULT FALSE,
		PRIMARY KEY (path_id, seq)
	);
	`

	createFleetParamsQuery := `
	CREATE TABLE IF NOT EXISTS fleet_params (
		year INTEGER NOT NULL,
		technology TEXT NOT NULL,
		generation INTEGER NOT NULL,
		capacity_tonnes DOUBLE PRECISION NOT NULL,
		annual_range_km DOUBLE PRECISION NOT NULL,
		PRIMARY KEY (year, technology, generation)
	);
	`

	createFlowsQuery := `
	CREATE TABLE IF NOT EXISTS flows (
		year INTEGER NOT NULL,
		product TEXT NOT NULL,
		origin TEXT NOT NULL,
		destination TEXT NOT NULL,
		path_id TEXT NOT NULL,
		technology TEXT NOT NULL,
		fuel TEXT NOT NULL,
		generation INTEGER NOT NULL,
		volume DOUBLE PRECISION NOT NULL,
		PRIMARY KEY (year, product, origin, destination, path_id, technology, fuel, generation)
	);
	`

	createBreaksQuery := `
	CREATE TABLE IF NOT EXISTS mandatory_breaks (
		path_id TEXT NOT NULL,
		break_number INTEGER NOT NULL,
		kind TEXT NOT NULL,
		node_index INTEGER NOT NULL,
		node_id TEXT NOT NULL,
		cumulative_km DOUBLE PRECISION NOT NULL,
		driving_hours DOUBLE PRECISION NOT NULL,
		time_with_breaks_hours DOUBLE PRECISION NOT NULL,
		charging TEXT NOT NULL,
		run_id TEXT NOT NULL,
		PRIMARY KEY (path_id, break_number)
	);
	`

	createFloorsQuery := `
	CREATE TABLE IF NOT EXISTS travel_time_floors (
		year INTEGER NOT NULL,
		product TEXT NOT NULL,
		origin TEXT NOT NULL,
		destination TEXT NOT NULL,
		path_id TEXT NOT NULL,
		node_id TEXT NOT NULL,
		technology TEXT NOT NULL,
		fuel TEXT NOT NULL,
		generation INTEGER NOT NULL,
		min_travel_time_hours DOUBLE PRECISION NOT NULL,
		run_id TEXT NOT NULL,
		PRIMARY KEY (year, product, origin, destination, path_id, node_id, technology, fuel, generation)
	);
	`

	createPlanCacheQuery := `
	CREATE TABLE IF NOT EXISTS plan_cache (
		cache_key TEXT PRIMARY KEY,
		plan BYTEA NOT NULL
	);
	`

	createFlowsPathIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_flows_path_id
	ON flows(path_id);
	`

	createFloorsPathIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_travel_time_floors_path_id
	ON travel_time_floors(path_id);
	`

	statements := []string{
		createNodesQuery,
		createPathsQuery,
		createPathNodesQuery,
		createFleetParamsQuery,
		createFlowsQuery,
		createBreaksQuery,
		createFloorsQuery,
		createPlanCacheQuery,
		createFlowsPathIndexQuery,
		createFloorsPathIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// Populate a Postgres database with network and scenario data from the same
// JSON format SeedFromJSON reads.
func SeedPostgresFromJSON(db *sql.DB, jsonPath string) error {
	raw, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed network: read %q: %w", jsonPath, err)
	}

	var seed NetworkSeed
	if err := json.Unmarshal(raw, &seed); err != nil {
		return fmt.Errorf("seed network: parse json: %w", err)
	}

	coords := make(map[string]orb.Point, len(seed.Nodes))
	for i, n := range seed.Nodes {
		id := strings.TrimSpace(n.NodeID)
		if id == "" {
			return fmt.Errorf("seed network: node at index %d: node_id cannot be empty", i+1)
		}
		coords[id] = orb.Point{n.Lon, n.Lat}
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed network: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	nodeStmt, err := tx.Prepare(`
	INSERT INTO nodes (node_id, lon, lat)
	VALUES ($1, $2, $3)
	ON CONFLICT (node_id) DO UPDATE
	SET lon = EXCLUDED.lon,
		lat = EXCLUDED.lat;
	`)
	if err != nil {
		return fmt.Errorf("seed network: prepare node insert: %w", err)
	}
	defer nodeStmt.Close()

	for _, n := range seed.Nodes {
		if _, err := nodeStmt.Exec(strings.TrimSpace(n.NodeID), n.Lon, n.Lat); err != nil {
			return fmt.Errorf("seed network: insert node %q: %w", n.NodeID, err)
		}
	}

	pathStmt, err := tx.Prepare(`
	INSERT INTO paths (path_id, origin, destination, length_km)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (path_id) DO UPDATE
	SET origin = EXCLUDED.origin,
		destination = EXCLUDED.destination,
		length_km = EXCLUDED.length_km;
	`)
	if err != nil {
		return fmt.Errorf("seed network: prepare path insert: %w", err)
	}
	defer pathStmt.Close()

	entryStmt, err := tx.Prepare(`
	INSERT INTO path_nodes (
		path_id,
		seq,
		node_id,
		distance_from_previous_km,
		cumulative_distance_km,
		origin_anchor,
		synthetic
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7);
	`)
	if err != nil {
		return fmt.Errorf("seed network: prepare path node insert: %w", err)
	}
	defer entryStmt.Close()

	for i, p := range seed.Paths {
		rec, err := pathFromSeed(p, coords)
		if err != nil {
			return fmt.Errorf("seed network: path at index %d: %w", i+1, err)
		}

		if _, err := pathStmt.Exec(rec.PathID, rec.Origin, rec.Destination, rec.LengthKm); err != nil {
			return fmt.Errorf("seed network: insert path %q: %w", rec.PathID, err)
		}
		if _, err := tx.Exec(`DELETE FROM path_nodes WHERE path_id = $1;`, rec.PathID); err != nil {
			return fmt.Errorf("seed network: clear path nodes for %q: %w", rec.PathID, err)
		}
		for j := range rec.Sequence {
			_, err := entryStmt.Exec(
				rec.PathID,
				j,
				rec.Sequence[j],
				rec.DistanceFromPrevious[j],
				rec.CumulativeDistance[j],
				rec.OriginAnchor[j],
				rec.Synthetic[j],
			)
			if err != nil {
				return fmt.Errorf("seed network: insert path node %q #%d: %w", rec.PathID, j, err)
			}
		}
	}

	fleetStmt, err := tx.Prepare(`
	INSERT INTO fleet_params (year, technology, generation, capacity_tonnes, annual_range_km)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (year, technology, generation) DO UPDATE
	SET capacity_tonnes = EXCLUDED.capacity_tonnes,
		annual_range_km = EXCLUDED.annual_range_km;
	`)
	if err != nil {
		return fmt.Errorf("seed network: prepare fleet insert: %w", err)
	}
	defer fleetStmt.Close()

	for i, fp := range seed.FleetParams {
		if fp.CapacityTonnes <= 0 || fp.AnnualRangeKm <= 0 {
			return fmt.Errorf(
				"seed network: fleet params at index %d: capacity and annual range must be positive",
				i+1,
			)
		}
		if _, err := fleetStmt.Exec(fp.Year, fp.Technology, fp.Generation, fp.CapacityTonnes, fp.AnnualRangeKm); err != nil {
			return fmt.Errorf("seed network: insert fleet params year=%d: %w", fp.Year, err)
		}
	}

	flowStmt, err := tx.Prepare(`
	INSERT INTO flows (
		year, product, origin, destination, path_id, technology, fuel, generation, volume
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	ON CONFLICT (year, product, origin, destination, path_id, technology, fuel, generation) DO UPDATE
	SET volume = EXCLUDED.volume;
	`)
	if err != nil {
		return fmt.Errorf("seed network: prepare flow insert: %w", err)
	}
	defer flowStmt.Close()

	for i, f := range seed.Flows {
		if strings.TrimSpace(f.PathID) == "" {
			return fmt.Errorf("seed network: flow at index %d: path_id cannot be empty", i+1)
		}
		_, err := flowStmt.Exec(
			f.Year, f.Product, f.Origin, f.Destination, f.PathID,
			f.Technology, f.Fuel, f.Generation, f.Volume,
		)
		if err != nil {
			return fmt.Errorf("seed network: insert flow for path %q: %w", f.PathID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed network: commit tx: %w", err)
	}

	return nil
}
