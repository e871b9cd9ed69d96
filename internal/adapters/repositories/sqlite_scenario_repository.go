package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"freight-break-service/internal/domain"
)

// SQLite-backed implementation of the ScenarioRepository port.
type SqliteScenarioRepository struct{ DB *sql.DB }

func NewSqliteScenarioRepository(db *sql.DB) *SqliteScenarioRepository {
	return &SqliteScenarioRepository{DB: db}
}

// Return all fleet sizing parameters keyed by (year, technology, generation).
func (s *SqliteScenarioRepository) ListFleetParams(ctx context.Context) (map[domain.FleetKey]domain.FleetParams, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite scenario repository: DB is nil")
	}

	query := `
	SELECT
		year,
		technology,
		generation,
		capacity_tonnes,
		annual_range_km
	FROM fleet_params;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list fleet params: query fleet_params table: %w", err)
	}
	defer rows.Close()

	out := make(map[domain.FleetKey]domain.FleetParams, 16)
	for rows.Next() {
		var key domain.FleetKey
		var params domain.FleetParams
		if err := rows.Scan(&key.Year, &key.Technology, &key.Generation, &params.CapacityTonnes, &params.AnnualRangeKm); err != nil {
			return nil, fmt.Errorf("list fleet params: scan row: %w", err)
		}
		out[key] = params
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list fleet params: row iteration: %w", err)
	}

	return out, nil
}

// Return all flow volume records.
func (s *SqliteScenarioRepository) ListFlows(ctx context.Context) ([]domain.FlowRecord, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite scenario repository: DB is nil")
	}

	query := `
	SELECT
		year,
		product,
		origin,
		destination,
		path_id,
		technology,
		fuel,
		generation,
		volume
	FROM flows
	ORDER BY year, product, origin, destination, path_id, technology, fuel, generation;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list flows: query flows table: %w", err)
	}
	defer rows.Close()

	flows := make([]domain.FlowRecord, 0, 64)
	for rows.Next() {
		var f domain.FlowRecord
		err := rows.Scan(
			&f.Year, &f.Product, &f.Origin, &f.Destination, &f.PathID,
			&f.Technology, &f.Fuel, &f.Generation, &f.Volume,
		)
		if err != nil {
			return nil, fmt.Errorf("list flows: scan row: %w", err)
		}
		flows = append(flows, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list flows: row iteration: %w", err)
	}

	return flows, nil
}
