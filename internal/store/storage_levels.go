package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type StorageLevelStore struct {
	db *sqlx.DB
}

func (ss *StorageLevelStore) ReplaceAll(ctx context.Context, records []StorageLevelRecord) error {
	tx, err := ss.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage levels: starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `TRUNCATE processed_storage_levels`); err != nil {
		return fmt.Errorf("storage levels: truncating table: %w", err)
	}

	if len(records) > 0 {
		query := `INSERT INTO processed_storage_levels (
			scope,
			asset,
			year,
			rep_period,
			timestep,
			period,
			soc,
			inserted_at
		) VALUES (
			:scope,
			:asset,
			:year,
			:rep_period,
			:timestep,
			:period,
			:soc,
			:inserted_at
		)`
		if _, err := tx.NamedExecContext(ctx, query, records); err != nil {
			return fmt.Errorf("storage levels: inserting %d rows: %w", len(records), err)
		}
	}

	return tx.Commit()
}

func (ss *StorageLevelStore) Get(ctx context.Context, filter StorageLevelFilter) ([]StorageLevelRecord, error) {
	query := `SELECT id, scope, asset, year, rep_period, timestep, period, soc, inserted_at
		FROM processed_storage_levels WHERE 1=1`
	args := []interface{}{}

	if filter.Scope != "" {
		query += ` AND scope = ?`
		args = append(args, filter.Scope)
	}
	if len(filter.Assets) > 0 {
		query += ` AND asset IN (?)`
		args = append(args, filter.Assets)
	}
	if len(filter.Years) > 0 {
		query += ` AND year IN (?)`
		args = append(args, filter.Years)
	}
	if len(filter.RepPeriods) > 0 {
		query += ` AND rep_period IN (?)`
		args = append(args, filter.RepPeriods)
	}
	query += ` ORDER BY scope, asset, year, rep_period, period, timestep`

	expanded, expandedArgs, err := sqlx.In(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage levels: building query: %w", err)
	}

	records := []StorageLevelRecord{}
	if err := ss.db.SelectContext(ctx, &records, ss.db.Rebind(expanded), expandedArgs...); err != nil {
		return nil, fmt.Errorf("storage levels: querying: %w", err)
	}
	return records, nil
}
