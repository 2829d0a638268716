package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq"

	cerrors "construction-cost/pkg/errors"

	"construction-cost/estimation"
)

// PostgresStore persists estimates as JSONB rows keyed by name. Saving an
// existing name replaces the prior document.
type PostgresStore struct {
	db     *sql.DB
	logger *slog.Logger
}

const createEstimatesTable = `
CREATE TABLE IF NOT EXISTS estimates (
	name            TEXT PRIMARY KEY,
	square_footage  DOUBLE PRECISION NOT NULL DEFAULT 0,
	total_cost      NUMERIC(14,2) NOT NULL DEFAULT 0,
	document        JSONB NOT NULL,
	updated_at      TIMESTAMPTZ NOT NULL DEFAULT now()
)`

func NewPostgresStore(ctx context.Context, dsn string, logger *slog.Logger) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, cerrors.NewPersistenceError("open postgres", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, cerrors.NewPersistenceError("ping postgres", err)
	}
	if _, err := db.ExecContext(ctx, createEstimatesTable); err != nil {
		db.Close()
		return nil, cerrors.NewPersistenceError("create estimates table", err)
	}
	return &PostgresStore{db: db, logger: logger.With("component", "postgres_store")}, nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) Save(ctx context.Context, name string, result *estimation.EstimationResult) error {
	if err := ValidateName(name); err != nil {
		return err
	}

	data, err := json.Marshal(result)
	if err != nil {
		return cerrors.NewPersistenceError("encode estimate", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO estimates (name, square_footage, total_cost, document, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (name) DO UPDATE SET
			square_footage = EXCLUDED.square_footage,
			total_cost     = EXCLUDED.total_cost,
			document       = EXCLUDED.document,
			updated_at     = now()`,
		name, result.Project.SquareFootage, result.TotalCost.String(), data)
	if err != nil {
		return cerrors.NewPersistenceError("save estimate", err)
	}

	s.logger.Info("estimate saved", "name", name, "bytes", len(data))
	return nil
}

func (s *PostgresStore) Load(ctx context.Context, name string) (*estimation.EstimationResult, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	var data []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT document FROM estimates WHERE name = $1`, name).Scan(&data)
	if err != nil {
		return nil, cerrors.NewPersistenceError(fmt.Sprintf("read estimate %q", name), err)
	}

	var result estimation.EstimationResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, cerrors.NewPersistenceError(fmt.Sprintf("decode estimate %q", name), err)
	}
	return &result, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]SavedEstimate, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, square_footage, total_cost::text,
		       octet_length(document::text), updated_at
		FROM estimates
		ORDER BY updated_at DESC`)
	if err != nil {
		return nil, cerrors.NewPersistenceError("list estimates", err)
	}
	defer rows.Close()

	saved := []SavedEstimate{}
	for rows.Next() {
		var item SavedEstimate
		if err := rows.Scan(&item.Name, &item.SquareFootage, &item.TotalCost,
			&item.SizeBytes, &item.Modified); err != nil {
			return nil, cerrors.NewPersistenceError("scan estimate row", err)
		}
		saved = append(saved, item)
	}
	return saved, rows.Err()
}
