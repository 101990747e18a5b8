package store

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type Storage struct {
	Prices interface {
		ReplaceAll(ctx context.Context, records []PriceRecord) error
		Get(ctx context.Context, filter PriceFilter) ([]PriceRecord, error)
	}

	StorageLevels interface {
		ReplaceAll(ctx context.Context, records []StorageLevelRecord) error
		Get(ctx context.Context, filter StorageLevelFilter) ([]StorageLevelRecord, error)
	}

	Balance interface {
		ReplaceAll(ctx context.Context, records []BalanceRecord) error
		Get(ctx context.Context, filter BalanceFilter) ([]BalanceRecord, error)
	}

	Runs interface {
		InsertRun(ctx context.Context, run *PipelineRun) error
		FinishRun(ctx context.Context, run *PipelineRun) error
		GetLatest(ctx context.Context, limit int) ([]PipelineRun, error)
	}
}

func NewStorage(db *sqlx.DB) *Storage {
	return &Storage{
		Prices:        &PriceStore{db: db},
		StorageLevels: &StorageLevelStore{db: db},
		Balance:       &BalanceStore{db: db},
		Runs:          &RunStore{db: db},
	}
}
