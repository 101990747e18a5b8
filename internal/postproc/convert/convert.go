// Package convert turns the pipeline's output frames into store records.
package convert

import (
	"fmt"
	"time"

	"github.com/go-gota/gota/dataframe"

	"github.com/hverbeek/esm_postproc/internal/postproc/dfutil"
	"github.com/hverbeek/esm_postproc/internal/postproc/types"
	"github.com/hverbeek/esm_postproc/internal/store"
)

func PriceRecords(df dataframe.DataFrame, now time.Time) ([]store.PriceRecord, error) {
	records := make([]store.PriceRecord, 0, df.Nrow())
	for _, row := range df.Maps() {
		balanceType, err := dfutil.StrField(row, types.ColBalanceType)
		if err != nil {
			return nil, fmt.Errorf("convert: %w", err)
		}
		asset, err := dfutil.StrField(row, types.ColAsset)
		if err != nil {
			return nil, fmt.Errorf("convert: %w", err)
		}
		year, err := dfutil.IntField(row, types.ColYear)
		if err != nil {
			return nil, fmt.Errorf("convert: %w", err)
		}
		rp, err := dfutil.IntField(row, types.ColRepPeriod)
		if err != nil {
			return nil, fmt.Errorf("convert: %w", err)
		}
		timestep, err := dfutil.IntField(row, types.ColTime)
		if err != nil {
			return nil, fmt.Errorf("convert: %w", err)
		}
		price, err := dfutil.FloatField(row, types.ColPrice)
		if err != nil {
			return nil, fmt.Errorf("convert: %w", err)
		}

		records = append(records, store.PriceRecord{
			BalanceType: balanceType,
			Asset:       asset,
			Year:        year,
			RepPeriod:   rp,
			Timestep:    timestep,
			Price:       price,
			InsertedAt:  now,
		})
	}
	return records, nil
}

func StorageLevelRecords(intra, inter dataframe.DataFrame, now time.Time) ([]store.StorageLevelRecord, error) {
	records := make([]store.StorageLevelRecord, 0, intra.Nrow()+inter.Nrow())

	for _, row := range intra.Maps() {
		asset, err := dfutil.StrField(row, types.ColAsset)
		if err != nil {
			return nil, fmt.Errorf("convert: %w", err)
		}
		year, err := dfutil.IntField(row, types.ColYear)
		if err != nil {
			return nil, fmt.Errorf("convert: %w", err)
		}
		rp, err := dfutil.IntField(row, types.ColRepPeriod)
		if err != nil {
			return nil, fmt.Errorf("convert: %w", err)
		}
		timestep, err := dfutil.IntField(row, types.ColTime)
		if err != nil {
			return nil, fmt.Errorf("convert: %w", err)
		}
		soc, err := dfutil.FloatField(row, types.ColSoc)
		if err != nil {
			return nil, fmt.Errorf("convert: %w", err)
		}

		records = append(records, store.StorageLevelRecord{
			Scope:      store.ScopeIntraPeriod,
			Asset:      asset,
			Year:       year,
			RepPeriod:  rp,
			Timestep:   timestep,
			Soc:        soc,
			InsertedAt: now,
		})
	}

	for _, row := range inter.Maps() {
		asset, err := dfutil.StrField(row, types.ColAsset)
		if err != nil {
			return nil, fmt.Errorf("convert: %w", err)
		}
		period, err := dfutil.IntField(row, types.ColPeriod)
		if err != nil {
			return nil, fmt.Errorf("convert: %w", err)
		}
		soc, err := dfutil.FloatField(row, types.ColSoc)
		if err != nil {
			return nil, fmt.Errorf("convert: %w", err)
		}

		records = append(records, store.StorageLevelRecord{
			Scope:      store.ScopeInterPeriod,
			Asset:      asset,
			Period:     period,
			Soc:        soc,
			InsertedAt: now,
		})
	}

	return records, nil
}

func BalanceRecords(df dataframe.DataFrame, now time.Time) ([]store.BalanceRecord, error) {
	records := make([]store.BalanceRecord, 0, df.Nrow())
	for _, row := range df.Maps() {
		zone, err := dfutil.StrField(row, types.ColBiddingZone)
		if err != nil {
			return nil, fmt.Errorf("convert: %w", err)
		}
		tech, err := dfutil.StrField(row, types.ColTechnology)
		if err != nil {
			return nil, fmt.Errorf("convert: %w", err)
		}
		year, err := dfutil.IntField(row, types.ColYear)
		if err != nil {
			return nil, fmt.Errorf("convert: %w", err)
		}
		rp, err := dfutil.IntField(row, types.ColRepPeriod)
		if err != nil {
			return nil, fmt.Errorf("convert: %w", err)
		}
		timestep, err := dfutil.IntField(row, types.ColTime)
		if err != nil {
			return nil, fmt.Errorf("convert: %w", err)
		}
		solution, err := dfutil.FloatField(row, types.ColSolution)
		if err != nil {
			return nil, fmt.Errorf("convert: %w", err)
		}

		records = append(records, store.BalanceRecord{
			BiddingZone: zone,
			Technology:  tech,
			Year:        year,
			RepPeriod:   rp,
			Timestep:    timestep,
			Solution:    solution,
			InsertedAt:  now,
		})
	}
	return records, nil
}
