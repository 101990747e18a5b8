package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type PriceStore struct {
	db *sqlx.DB
}

// ReplaceAll swaps the processed price table for a fresh run's output. The
// derived tables are recomputed from scratch each run, so replacement, not
// upsert, is the correct write.
func (ps *PriceStore) ReplaceAll(ctx context.Context, records []PriceRecord) error {
	tx, err := ps.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("prices: starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `TRUNCATE processed_prices`); err != nil {
		return fmt.Errorf("prices: truncating table: %w", err)
	}

	if len(records) > 0 {
		query := `INSERT INTO processed_prices (
			balance_type,
			asset,
			year,
			rep_period,
			timestep,
			price,
			inserted_at
		) VALUES (
			:balance_type,
			:asset,
			:year,
			:rep_period,
			:timestep,
			:price,
			:inserted_at
		)`
		if _, err := tx.NamedExecContext(ctx, query, records); err != nil {
			return fmt.Errorf("prices: inserting %d rows: %w", len(records), err)
		}
	}

	return tx.Commit()
}

func (ps *PriceStore) Get(ctx context.Context, filter PriceFilter) ([]PriceRecord, error) {
	query := `SELECT id, balance_type, asset, year, rep_period, timestep, price, inserted_at
		FROM processed_prices WHERE 1=1`
	args := []interface{}{}

	if filter.BalanceType != "" {
		query += ` AND balance_type = ?`
		args = append(args, filter.BalanceType)
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
	query += ` ORDER BY balance_type, asset, year, rep_period, timestep`

	expanded, expandedArgs, err := sqlx.In(query, args...)
	if err != nil {
		return nil, fmt.Errorf("prices: building query: %w", err)
	}

	records := []PriceRecord{}
	if err := ps.db.SelectContext(ctx, &records, ps.db.Rebind(expanded), expandedArgs...); err != nil {
		return nil, fmt.Errorf("prices: querying: %w", err)
	}
	return records, nil
}
