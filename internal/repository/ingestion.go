package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/akave-ai/logingest/internal/model"
)

// IngestionRunRepository persists and reads the ingestion ledger.
type IngestionRunRepository struct {
	pool *pgxpool.Pool
}

// NewIngestionRunRepository returns an IngestionRunRepository using the given pool.
func NewIngestionRunRepository(pool *pgxpool.Pool) *IngestionRunRepository {
	return &IngestionRunRepository{pool: pool}
}

const runColumns = `id, ingestion_id, bucket, status, files_attempted, execution_failures, file_errors, duration_ms, created_at`

// Create inserts a run and returns it with ID and CreatedAt set.
func (r *IngestionRunRepository) Create(ctx context.Context, run *model.IngestionRun) error {
	query := `
		INSERT INTO ingestion_runs (id, ingestion_id, bucket, status, files_attempted, execution_failures, file_errors, duration_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	return r.pool.QueryRow(ctx, query,
		run.ID,
		run.IngestionID,
		run.Bucket,
		run.Status,
		run.FilesAttempted,
		run.ExecutionFailures,
		run.FileErrors,
		run.DurationMS,
	).Scan(&run.ID, &run.CreatedAt)
}

// List returns the most recent runs, newest first.
func (r *IngestionRunRepository) List(ctx context.Context, limit int) ([]model.IngestionRun, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+runColumns+`
		FROM ingestion_runs
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[model.IngestionRun])
}

// GetByID returns one run by id, or nil if not found.
func (r *IngestionRunRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.IngestionRun, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+runColumns+` FROM ingestion_runs WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	run, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[model.IngestionRun])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return run, nil
}
