// Package prices reconstructs per-timestep price series from the dual values
// of the hub and consumer balance constraints.
package prices

import (
	"fmt"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/hverbeek/esm_postproc/internal/postproc/dfutil"
	"github.com/hverbeek/esm_postproc/internal/postproc/expand"
	"github.com/hverbeek/esm_postproc/internal/postproc/types"
)

type periodKey struct {
	Year      int
	RepPeriod int
}

// Extract turns one dual-value table into a per-timestep price table with
// columns (asset, year, rep_period, time, price).
//
// dualCol names the dual-value column of duals (dual_balance_hub or
// dual_balance_consumer). For each block row,
//
//	price = dual * 1000 / resolution / duration / weight
//
// where resolution comes from repPeriods, duration from the block bounds and
// weight is the sum of all mapping entries for the row's (year, rep_period)
// pair over the full planning horizon. The price is computed once per block,
// before expansion, so it is constant across the block's timesteps.
func Extract(duals, repPeriods, mapping dataframe.DataFrame, dualCol string) (dataframe.DataFrame, error) {
	dualSchema := types.Schema{
		Table:   "duals",
		Columns: []string{types.ColAsset, types.ColYear, types.ColRepPeriod, types.ColTimeBlockStart, types.ColTimeBlockEnd, dualCol},
	}
	if err := dualSchema.Validate(duals); err != nil {
		return dataframe.DataFrame{}, err
	}
	if err := types.Schemas[types.TableRepPeriodsData].Validate(repPeriods); err != nil {
		return dataframe.DataFrame{}, err
	}
	if err := types.Schemas[types.TableRepPeriodsMapping].Validate(mapping); err != nil {
		return dataframe.DataFrame{}, err
	}

	weights, err := sumWeights(mapping)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	resolutions, err := indexResolutions(repPeriods)
	if err != nil {
		return dataframe.DataFrame{}, err
	}

	rows := duals.Maps()
	priceCol := make([]float64, len(rows))
	for i, row := range rows {
		year, err := dfutil.IntField(row, types.ColYear)
		if err != nil {
			return dataframe.DataFrame{}, fmt.Errorf("prices: %w", err)
		}
		rp, err := dfutil.IntField(row, types.ColRepPeriod)
		if err != nil {
			return dataframe.DataFrame{}, fmt.Errorf("prices: %w", err)
		}
		start, err := dfutil.IntField(row, types.ColTimeBlockStart)
		if err != nil {
			return dataframe.DataFrame{}, fmt.Errorf("prices: %w", err)
		}
		end, err := dfutil.IntField(row, types.ColTimeBlockEnd)
		if err != nil {
			return dataframe.DataFrame{}, fmt.Errorf("prices: %w", err)
		}
		dual, err := dfutil.FloatField(row, dualCol)
		if err != nil {
			return dataframe.DataFrame{}, fmt.Errorf("prices: %w", err)
		}

		duration := end - start + 1
		if duration < 1 {
			return dataframe.DataFrame{}, &types.InvalidBlockError{Start: start, End: end}
		}

		key := periodKey{Year: year, RepPeriod: rp}
		weight, ok := weights[key]
		if !ok {
			return dataframe.DataFrame{}, &types.MissingWeightError{Year: year, RepPeriod: rp}
		}
		resolution, ok := resolutions[key]
		if !ok {
			return dataframe.DataFrame{}, fmt.Errorf("prices: no resolution entry for year=%d rep_period=%d", year, rp)
		}

		priceCol[i] = dual * 1000 / resolution / float64(duration) / weight
	}

	// The price column must be attached in the same row order Maps() used,
	// which matches the frame's own order.
	withPrice := duals.Mutate(series.New(priceCol, series.Float, types.ColPrice))
	if withPrice.Error() != nil {
		return dataframe.DataFrame{}, fmt.Errorf("prices: attaching price column: %v", withPrice.Error())
	}

	expanded, err := expand.Blocks(withPrice, []string{types.ColAsset, types.ColYear, types.ColRepPeriod})
	if err != nil {
		return dataframe.DataFrame{}, err
	}

	result := expanded.Select([]string{types.ColAsset, types.ColYear, types.ColRepPeriod, types.ColTime, types.ColPrice})
	if result.Error() != nil {
		return dataframe.DataFrame{}, fmt.Errorf("prices: projecting result: %v", result.Error())
	}
	return result, nil
}

// sumWeights folds the horizon mapping into one weight per (year, rep_period).
// A rep period can map onto many horizon entries; all of them count.
func sumWeights(mapping dataframe.DataFrame) (map[periodKey]float64, error) {
	if mapping.Nrow() == 0 {
		return map[periodKey]float64{}, nil
	}

	groups := mapping.GroupBy(types.ColYear, types.ColRepPeriod)
	if groups.Err != nil {
		return nil, fmt.Errorf("prices: grouping weight mapping: %v", groups.Err)
	}
	agg := groups.Aggregation(
		[]dataframe.AggregationType{dataframe.Aggregation_SUM},
		[]string{types.ColWeight},
	)
	if agg.Error() != nil {
		return nil, fmt.Errorf("prices: summing weights: %v", agg.Error())
	}

	weights := make(map[periodKey]float64, agg.Nrow())
	for _, row := range agg.Maps() {
		year, err := dfutil.IntField(row, types.ColYear)
		if err != nil {
			return nil, fmt.Errorf("prices: %w", err)
		}
		rp, err := dfutil.IntField(row, types.ColRepPeriod)
		if err != nil {
			return nil, fmt.Errorf("prices: %w", err)
		}
		w, err := dfutil.FloatField(row, types.ColWeight+"_SUM")
		if err != nil {
			return nil, fmt.Errorf("prices: %w", err)
		}
		weights[periodKey{Year: year, RepPeriod: rp}] = w
	}
	return weights, nil
}

func indexResolutions(repPeriods dataframe.DataFrame) (map[periodKey]float64, error) {
	resolutions := make(map[periodKey]float64, repPeriods.Nrow())
	for _, row := range repPeriods.Maps() {
		year, err := dfutil.IntField(row, types.ColYear)
		if err != nil {
			return nil, fmt.Errorf("prices: %w", err)
		}
		rp, err := dfutil.IntField(row, types.ColRepPeriod)
		if err != nil {
			return nil, fmt.Errorf("prices: %w", err)
		}
		res, err := dfutil.FloatField(row, types.ColResolution)
		if err != nil {
			return nil, fmt.Errorf("prices: %w", err)
		}
		resolutions[periodKey{Year: year, RepPeriod: rp}] = res
	}
	return resolutions, nil
}
