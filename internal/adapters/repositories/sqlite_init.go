package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"

	"freight-break-service/internal/domain"
)

// Initialize the SQLite database schema.
func InitSchema(db *sql.DB) error {
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
		lon REAL NOT NULL,
		lat REAL NOT NULL
	);
	`

	createPathsQuery := `
	CREATE TABLE IF NOT EXISTS paths (
		path_id TEXT PRIMARY KEY,
		origin TEXT NOT NULL,
		destination TEXT NOT NULL,
		length_km REAL NOT NULL
	);
	`

	createPathNodesQuery := `
	CREATE TABLE IF NOT EXISTS path_nodes (
		path_id TEXT NOT NULL,
		seq INTEGER NOT NULL,
		node_id TEXT NOT NULL,
		distance_from_previous_km REAL NOT NULL,
		cumulative_distance_km REAL NOT NULL,
		origin_anchor INTEGER NOT NULL DEFAULT 0,
		synthetic INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (path_id, seq)
	);
	`

	createFleetParamsQuery := `
	CREATE TABLE IF NOT EXISTS fleet_params (
		year INTEGER NOT NULL,
		technology TEXT NOT NULL,
		generation INTEGER NOT NULL,
		capacity_tonnes REAL NOT NULL,
		annual_range_km REAL NOT NULL,
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
		volume REAL NOT NULL,
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
		cumulative_km REAL NOT NULL,
		driving_hours REAL NOT NULL,
		time_with_breaks_hours REAL NOT NULL,
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
		min_travel_time_hours REAL NOT NULL,
		run_id TEXT NOT NULL,
		PRIMARY KEY (year, product, origin, destination, path_id, node_id, technology, fuel, generation)
	);
	`

	createPlanCacheQuery := `
	CREATE TABLE IF NOT EXISTS plan_cache (
		cache_key TEXT PRIMARY KEY,
		plan BLOB NOT NULL
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

type NodeSeed struct {
	NodeID string  `json:"node_id"`
	Lon    float64 `json:"lon"`
	Lat    float64 `json:"lat"`
}

type PathSeed struct {
	PathID      string  `json:"path_id"`
	Origin      string  `json:"origin"`
	Destination string  `json:"destination"`
	LengthKm    float64 `json:"length_km"`

	Nodes []string `json:"nodes"`

	// Optional; derived from node coordinates when absent.
	DistanceFromPreviousKm []float64 `json:"distance_from_previous_km"`
}

type FleetParamsSeed struct {
	Year           int     `json:"year"`
	Technology     string  `json:"technology"`
	Generation     int     `json:"generation"`
	CapacityTonnes float64 `json:"capacity_tonnes"`
	AnnualRangeKm  float64 `json:"annual_range_km"`
}

type FlowSeed struct {
	Year        int     `json:"year"`
	Product     string  `json:"product"`
	Origin      string  `json:"origin"`
	Destination string  `json:"destination"`
	PathID      string  `json:"path_id"`
	Technology  string  `json:"technology"`
	Fuel        string  `json:"fuel"`
	Generation  int     `json:"generation"`
	Volume      float64 `json:"volume"`
}

type NetworkSeed struct {
	Nodes       []NodeSeed        `json:"nodes"`
	Paths       []PathSeed        `json:"paths"`
	FleetParams []FleetParamsSeed `json:"fleet_params"`
	Flows       []FlowSeed        `json:"flows"`
}

// Populate the database with network and scenario data from a JSON file.
// Paths whose seed omits segment distances get them derived from node
// coordinates with the haversine great-circle distance.
func SeedFromJSON(db *sql.DB, jsonPath string) error {
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
	INSERT OR REPLACE INTO nodes (node_id, lon, lat)
	VALUES (?, ?, ?);
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
	INSERT OR REPLACE INTO paths (path_id, origin, destination, length_km)
	VALUES (?, ?, ?, ?);
	`)
	if err != nil {
		return fmt.Errorf("seed network: prepare path insert: %w", err)
	}
	defer pathStmt.Close()

	entryStmt, err := tx.Prepare(`
	INSERT OR REPLACE INTO path_nodes (
		path_id,
		seq,
		node_id,
		distance_from_previous_km,
		cumulative_distance_km,
		origin_anchor,
		synthetic
	)
	VALUES (?, ?, ?, ?, ?, ?, ?);
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
		if _, err := tx.Exec(`DELETE FROM path_nodes WHERE path_id = ?;`, rec.PathID); err != nil {
			return fmt.Errorf("seed network: clear path nodes for %q: %w", rec.PathID, err)
		}
		for j := range rec.Sequence {
			_, err := entryStmt.Exec(
				rec.PathID,
				j,
				rec.Sequence[j],
				rec.DistanceFromPrevious[j],
				rec.CumulativeDistance[j],
				boolToInt(rec.OriginAnchor[j]),
				boolToInt(rec.Synthetic[j]),
			)
			if err != nil {
				return fmt.Errorf("seed network: insert path node %q #%d: %w", rec.PathID, j, err)
			}
		}
	}

	fleetStmt, err := tx.Prepare(`
	INSERT OR REPLACE INTO fleet_params (year, technology, generation, capacity_tonnes, annual_range_km)
	VALUES (?, ?, ?, ?, ?);
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
	INSERT OR REPLACE INTO flows (
		year, product, origin, destination, path_id, technology, fuel, generation, volume
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);
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

// pathFromSeed builds a full PathRecord from a seed entry, deriving segment
// and cumulative distances where the seed leaves them out.
func pathFromSeed(p PathSeed, coords map[string]orb.Point) (domain.PathRecord, error) {
	id := strings.TrimSpace(p.PathID)
	if id == "" {
		return domain.PathRecord{}, errors.New("path_id cannot be empty")
	}
	if len(p.Nodes) == 0 {
		return domain.PathRecord{}, fmt.Errorf("path %q: node list cannot be empty", id)
	}

	dfp := p.DistanceFromPreviousKm
	if len(dfp) == 0 {
		dfp = make([]float64, len(p.Nodes))
		for j := 1; j < len(p.Nodes); j++ {
			from, ok := coords[p.Nodes[j-1]]
			if !ok {
				return domain.PathRecord{}, fmt.Errorf("path %q: unknown node %q", id, p.Nodes[j-1])
			}
			to, ok := coords[p.Nodes[j]]
			if !ok {
				return domain.PathRecord{}, fmt.Errorf("path %q: unknown node %q", id, p.Nodes[j])
			}
			dfp[j] = geo.DistanceHaversine(from, to) / 1000.0
		}
	}
	if len(dfp) != len(p.Nodes) {
		return domain.PathRecord{}, fmt.Errorf(
			"path %q: %d segment distances for %d nodes",
			id, len(dfp), len(p.Nodes),
		)
	}

	cum := make([]float64, len(dfp))
	floats.CumSum(cum, dfp)

	lengthKm := p.LengthKm
	if len(p.Nodes) > 1 {
		if lengthKm > 0 && !scalar.EqualWithinAbs(lengthKm, cum[len(cum)-1], domain.DistanceTolKm) {
			return domain.PathRecord{}, fmt.Errorf(
				"path %q: declared length %.3f km disagrees with segments summing to %.3f km",
				id, lengthKm, cum[len(cum)-1],
			)
		}
		lengthKm = cum[len(cum)-1]
	}

	rec := domain.PathRecord{
		PathID:               id,
		Origin:               strings.TrimSpace(p.Origin),
		Destination:          strings.TrimSpace(p.Destination),
		LengthKm:             lengthKm,
		Sequence:             append([]string(nil), p.Nodes...),
		DistanceFromPrevious: dfp,
		CumulativeDistance:   cum,
		OriginAnchor:         make([]bool, len(p.Nodes)),
		Synthetic:            make([]bool, len(p.Nodes)),
	}
	rec.OriginAnchor[0] = true
	if rec.Origin == "" {
		rec.Origin = rec.Sequence[0]
	}
	if rec.Destination == "" {
		rec.Destination = rec.Sequence[len(rec.Sequence)-1]
	}

	if err := rec.Validate(); err != nil {
		return domain.PathRecord{}, err
	}
	return rec, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
