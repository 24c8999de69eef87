package repositories

import (
	"context"
	"fmt"

	"veoworker/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	DefaultRunLimit = 20
	MaxRunLimit     = 200
)

type RunRepository struct {
	db *pgxpool.Pool
}

func NewRunRepository(db *pgxpool.Pool) *RunRepository {
	return &RunRepository{db: db}
}

// Record inserts one finished invocation.
func (r *RunRepository) Record(ctx context.Context, run *models.Run) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO runs (id, trigger, started_at, finished_at, status_code, videos_processed, message, error)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`, run.ID, run.Trigger, run.StartedAt, run.FinishedAt, run.StatusCode, run.VideosProcessed,
		nullIfEmpty(run.Message), nullIfEmpty(run.Error))

	if err != nil {
		if IsUniqueViolation(err) {
			return fmt.Errorf("run %s already recorded: %w", run.ID, err)
		}
		return fmt.Errorf("record run %s: %w", run.ID, err)
	}
	return nil
}

// List returns the most recent runs first. A missing table means nothing
// was recorded yet.
func (r *RunRepository) List(ctx context.Context, limit int) ([]models.Run, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, trigger, started_at, finished_at, status_code, videos_processed,
		       COALESCE(message,''), COALESCE(error,'')
		FROM runs
		ORDER BY started_at DESC
		LIMIT $1
	`, ClampLimit(limit))
	if err != nil {
		if IsUndefinedTable(err) {
			return []models.Run{}, nil
		}
		return nil, err
	}
	defer rows.Close()

	out := []models.Run{}
	for rows.Next() {
		var run models.Run
		if err := rows.Scan(
			&run.ID,
			&run.Trigger,
			&run.StartedAt,
			&run.FinishedAt,
			&run.StatusCode,
			&run.VideosProcessed,
			&run.Message,
			&run.Error,
		); err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

// ClampLimit maps non-positive limits to the default and caps the rest.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultRunLimit
	}
	if limit > MaxRunLimit {
		return MaxRunLimit
	}
	return limit
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
