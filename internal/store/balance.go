package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type BalanceStore struct {
	db *sqlx.DB
}

func (bs *BalanceStore) ReplaceAll(ctx context.Context, records []BalanceRecord) error {
	tx, err := bs.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("balance: starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `TRUNCATE processed_balance`); err != nil {
		return fmt.Errorf("balance: truncating table: %w", err)
	}

	if len(records) > 0 {
		query := `INSERT INTO processed_balance (
			bidding_zone,
			technology,
			year,
			rep_period,
			timestep,
			solution,
			inserted_at
		) VALUES (
			:bidding_zone,
			:technology,
			:year,
			:rep_period,
			:timestep,
			:solution,
			:inserted_at
		)`
		if _, err := tx.NamedExecContext(ctx, query, records); err != nil {
			return fmt.Errorf("balance: inserting %d rows: %w", len(records), err)
		}
	}

	return tx.Commit()
}

func (bs *BalanceStore) Get(ctx context.Context, filter BalanceFilter) ([]BalanceRecord, error) {
	query := `SELECT id, bidding_zone, technology, year, rep_period, timestep, solution, inserted_at
		FROM processed_balance WHERE 1=1`
	args := []interface{}{}

	if len(filter.BiddingZones) > 0 {
		query += ` AND bidding_zone IN (?)`
		args = append(args, filter.BiddingZones)
	}
	if len(filter.Years) > 0 {
		query += ` AND year IN (?)`
		args = append(args, filter.Years)
	}
	if len(filter.RepPeriods) > 0 {
		query += ` AND rep_period IN (?)`
		args = append(args, filter.RepPeriods)
	}
	query += ` ORDER BY bidding_zone, technology, year, rep_period, timestep`

	expanded, expandedArgs, err := sqlx.In(query, args...)
	if err != nil {
		return nil, fmt.Errorf("balance: building query: %w", err)
	}

	records := []BalanceRecord{}
	if err := bs.db.SelectContext(ctx, &records, bs.db.Rebind(expanded), expandedArgs...); err != nil {
		return nil, fmt.Errorf("balance: querying: %w", err)
	}
	return records, nil
}
