package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type RunStore struct {
	db *sqlx.DB
}

func (rs *RunStore) InsertRun(ctx context.Context, run *PipelineRun) error {
	query := `INSERT INTO pipeline_runs (
		results_path,
		status,
		error_message,
		price_rows,
		storage_rows,
		balance_rows
	) VALUES (
		:results_path,
		:status,
		:error_message,
		:price_rows,
		:storage_rows,
		:balance_rows
	) RETURNING id, started_at`

	rows, err := rs.db.NamedQueryContext(ctx, query, run)
	if err != nil {
		return fmt.Errorf("runs: inserting run: %w", err)
	}
	defer rows.Close()

	if rows.Next() {
		if err := rows.Scan(&run.ID, &run.StartedAt); err != nil {
			return fmt.Errorf("runs: reading generated fields: %w", err)
		}
	}
	return nil
}

func (rs *RunStore) FinishRun(ctx context.Context, run *PipelineRun) error {
	query := `UPDATE pipeline_runs SET
		status = :status,
		error_message = :error_message,
		price_rows = :price_rows,
		storage_rows = :storage_rows,
		balance_rows = :balance_rows,
		finished_at = NOW()
	WHERE id = :id`

	result, err := rs.db.NamedExecContext(ctx, query, run)
	if err != nil {
		return fmt.Errorf("runs: finishing run %d: %w", run.ID, err)
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		return fmt.Errorf("runs: run %d not found", run.ID)
	}
	return nil
}

func (rs *RunStore) GetLatest(ctx context.Context, limit int) ([]PipelineRun, error) {
	query := `SELECT id, results_path, status, error_message, price_rows, storage_rows, balance_rows, started_at, finished_at
		FROM pipeline_runs ORDER BY started_at DESC LIMIT $1`

	runs := []PipelineRun{}
	if err := rs.db.SelectContext(ctx, &runs, query, limit); err != nil {
		return nil, fmt.Errorf("runs: querying history: %w", err)
	}
	return runs, nil
}
