package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"freight-break-service/internal/domain"
)

// SQLite-backed implementation of the ResultStore port.
type SqliteResultStore struct{ DB *sql.DB }

func NewSqliteResultStore(db *sql.DB) *SqliteResultStore {
	return &SqliteResultStore{DB: db}
}

// Replace every stored break for the path with the given set.
func (s *SqliteResultStore) ReplaceBreaks(ctx context.Context, runID, pathID string, breaks []domain.MandatoryBreak) error {
	if s.DB == nil {
		return errors.New("sqlite result store: DB is nil")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("replace breaks: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM mandatory_breaks WHERE path_id = ?;`, pathID); err != nil {
		return fmt.Errorf("replace breaks: clear breaks for %q: %w", pathID, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO mandatory_breaks (
		path_id,
		break_number,
		kind,
		node_index,
		node_id,
		cumulative_km,
		driving_hours,
		time_with_breaks_hours,
		charging,
		run_id
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`)
	if err != nil {
		return fmt.Errorf("replace breaks: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, b := range breaks {
		_, err := stmt.ExecContext(ctx,
			pathID,
			b.Number,
			string(b.Kind),
			b.NodeIndex,
			b.NodeID,
			b.CumulativeKm,
			b.DrivingHours,
			b.TimeWithBreaksHours,
			string(b.Charging),
			runID,
		)
		if err != nil {
			return fmt.Errorf("replace breaks: insert break #%d for %q: %w", b.Number, pathID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("replace breaks: commit tx: %w", err)
	}

	return nil
}

// Replace every stored travel-time floor for the path with the given set.
func (s *SqliteResultStore) ReplaceFloors(ctx context.Context, runID, pathID string, floors []domain.TravelTimeFloor) error {
	if s.DB == nil {
		return errors.New("sqlite result store: DB is nil")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("replace floors: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM travel_time_floors WHERE path_id = ?;`, pathID); err != nil {
		return fmt.Errorf("replace floors: clear floors for %q: %w", pathID, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO travel_time_floors (
		year,
		product,
		origin,
		destination,
		path_id,
		node_id,
		technology,
		fuel,
		generation,
		min_travel_time_hours,
		run_id
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`)
	if err != nil {
		return fmt.Errorf("replace floors: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, f := range floors {
		_, err := stmt.ExecContext(ctx,
			f.Year,
			f.Product,
			f.Origin,
			f.Destination,
			f.PathID,
			f.NodeID,
			f.Technology,
			f.Fuel,
			f.Generation,
			f.MinTravelTimeHours,
			runID,
		)
		if err != nil {
			return fmt.Errorf("replace floors: insert floor at %q for %q: %w", f.NodeID, pathID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("replace floors: commit tx: %w", err)
	}

	return nil
}

// Return stored breaks for a path ordered by break number.
func (s *SqliteResultStore) ListBreaks(ctx context.Context, pathID string) ([]domain.MandatoryBreak, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite result store: DB is nil")
	}

	query := `
	SELECT
		path_id,
		break_number,
		kind,
		node_index,
		node_id,
		cumulative_km,
		driving_hours,
		time_with_breaks_hours,
		charging
	FROM mandatory_breaks
	WHERE path_id = ?
	ORDER BY break_number;
	`
	rows, err := s.DB.QueryContext(ctx, query, pathID)
	if err != nil {
		return nil, fmt.Errorf("list breaks: query mandatory_breaks table: %w", err)
	}
	defer rows.Close()

	breaks := make([]domain.MandatoryBreak, 0, 4)
	for rows.Next() {
		var b domain.MandatoryBreak
		var kind, charging string
		err := rows.Scan(
			&b.PathID, &b.Number, &kind, &b.NodeIndex, &b.NodeID,
			&b.CumulativeKm, &b.DrivingHours, &b.TimeWithBreaksHours, &charging,
		)
		if err != nil {
			return nil, fmt.Errorf("list breaks: scan row: %w", err)
		}
		b.Kind = domain.BreakKind(kind)
		b.Charging = domain.ChargingType(charging)
		breaks = append(breaks, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list breaks: row iteration: %w", err)
	}

	return breaks, nil
}

// Return stored travel-time floors for a path in key order.
func (s *SqliteResultStore) ListFloors(ctx context.Context, pathID string) ([]domain.TravelTimeFloor, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite result store: DB is nil")
	}

	query := `
	SELECT
		year,
		product,
		origin,
		destination,
		path_id,
		node_id,
		technology,
		fuel,
		generation,
		min_travel_time_hours
	FROM travel_time_floors
	WHERE path_id = ?
	ORDER BY year, product, origin, destination, node_id, technology, fuel, generation;
	`
	rows, err := s.DB.QueryContext(ctx, query, pathID)
	if err != nil {
		return nil, fmt.Errorf("list floors: query travel_time_floors table: %w", err)
	}
	defer rows.Close()

	floors := make([]domain.TravelTimeFloor, 0, 8)
	for rows.Next() {
		var f domain.TravelTimeFloor
		err := rows.Scan(
			&f.Year, &f.Product, &f.Origin, &f.Destination, &f.PathID,
			&f.NodeID, &f.Technology, &f.Fuel, &f.Generation, &f.MinTravelTimeHours,
		)
		if err != nil {
			return nil, fmt.Errorf("list floors: scan row: %w", err)
		}
		floors = append(floors, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list floors: row iteration: %w", err)
	}

	return floors, nil
}
