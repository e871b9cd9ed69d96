package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"freight-break-service/internal/domain"
)

// SQLite-backed implementation of the PathRepository port.
type SqlitePathRepository struct{ DB *sql.DB }

func NewSqlitePathRepository(db *sql.DB) *SqlitePathRepository {
	return &SqlitePathRepository{DB: db}
}

// Return all stored paths with their full node sequences.
func (s *SqlitePathRepository) ListPaths(ctx context.Context) ([]domain.PathRecord, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite path repository: DB is nil")
	}

	pathQuery := `
	SELECT
		path_id,
		origin,
		destination,
		length_km
	FROM paths
	ORDER BY path_id;
	`
	rows, err := s.DB.QueryContext(ctx, pathQuery)
	if err != nil {
		return nil, fmt.Errorf("list paths: query paths table: %w", err)
	}
	defer rows.Close()

	order := make([]string, 0, 64)
	byID := make(map[string]*domain.PathRecord, 64)
	for rows.Next() {
		var p domain.PathRecord
		if err := rows.Scan(&p.PathID, &p.Origin, &p.Destination, &p.LengthKm); err != nil {
			return nil, fmt.Errorf("list paths: scan path row: %w", err)
		}
		order = append(order, p.PathID)
		byID[p.PathID] = &p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list paths: path row iteration: %w", err)
	}

	entryQuery := `
	SELECT
		path_id,
		node_id,
		distance_from_previous_km,
		cumulative_distance_km,
		origin_anchor,
		synthetic
	FROM path_nodes
	ORDER BY path_id, seq;
	`
	entryRows, err := s.DB.QueryContext(ctx, entryQuery)
	if err != nil {
		return nil, fmt.Errorf("list paths: query path_nodes table: %w", err)
	}
	defer entryRows.Close()

	for entryRows.Next() {
		var (
			pathID, nodeID    string
			dfp, cum          float64
			anchor, synthetic int
		)
		if err := entryRows.Scan(&pathID, &nodeID, &dfp, &cum, &anchor, &synthetic); err != nil {
			return nil, fmt.Errorf("list paths: scan path node row: %w", err)
		}
		p, ok := byID[pathID]
		if !ok {
			return nil, fmt.Errorf("list paths: path_nodes row for unknown path %q", pathID)
		}
		p.Sequence = append(p.Sequence, nodeID)
		p.DistanceFromPrevious = append(p.DistanceFromPrevious, dfp)
		p.CumulativeDistance = append(p.CumulativeDistance, cum)
		p.OriginAnchor = append(p.OriginAnchor, anchor != 0)
		p.Synthetic = append(p.Synthetic, synthetic != 0)
	}
	if err := entryRows.Err(); err != nil {
		return nil, fmt.Errorf("list paths: path node row iteration: %w", err)
	}

	out := make([]domain.PathRecord, 0, len(order))
	for _, id := range order {
		out = append(out, *byID[id])
	}
	return out, nil
}

// Replace a stored path and its node sequence in one transaction, so readers
// never observe a half-rewritten path.
func (s *SqlitePathRepository) ReplacePath(ctx context.Context, p domain.PathRecord) error {
	if s.DB == nil {
		return errors.New("sqlite path repository: DB is nil")
	}
	if err := p.Validate(); err != nil {
		return fmt.Errorf("replace path: %w", err)
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("replace path: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
	INSERT OR REPLACE INTO paths (path_id, origin, destination, length_km)
	VALUES (?, ?, ?, ?);
	`, p.PathID, p.Origin, p.Destination, p.LengthKm)
	if err != nil {
		return fmt.Errorf("replace path: upsert path %q: %w", p.PathID, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM path_nodes WHERE path_id = ?;`, p.PathID); err != nil {
		return fmt.Errorf("replace path: clear path nodes for %q: %w", p.PathID, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO path_nodes (
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
		return fmt.Errorf("replace path: prepare node insert: %w", err)
	}
	defer stmt.Close()

	for j := range p.Sequence {
		_, err := stmt.ExecContext(ctx,
			p.PathID,
			j,
			p.Sequence[j],
			p.DistanceFromPrevious[j],
			p.CumulativeDistance[j],
			boolToInt(p.OriginAnchor[j]),
			boolToInt(p.Synthetic[j]),
		)
		if err != nil {
			return fmt.Errorf("replace path: insert node #%d for %q: %w", j, p.PathID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("replace path: commit tx: %w", err)
	}

	return nil
}
