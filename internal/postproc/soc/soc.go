// Package soc normalizes storage-level solution rows into state-of-charge
// series, both hourly within a representative period and per period across
// the clustered planning horizon.
package soc

import (
	"fmt"
	"sort"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/hverbeek/esm_postproc/internal/postproc/dfutil"
	"github.com/hverbeek/esm_postproc/internal/postproc/expand"
	"github.com/hverbeek/esm_postproc/internal/postproc/meta"
	"github.com/hverbeek/esm_postproc/internal/postproc/types"
)

// IntraPeriod expands the rep-period storage solution into an hourly SoC
// table (asset, year, rep_period, time, soc).
//
// SoC = solution / capacity_storage_energy. A zero energy capacity leaves
// the solution value untouched so non-storage assets never divide by zero.
func IntraPeriod(levels, assets dataframe.DataFrame) (dataframe.DataFrame, error) {
	if err := types.Schemas[types.TableStorageLevelRepPeriod].Validate(levels); err != nil {
		return dataframe.DataFrame{}, err
	}

	withSoc, err := attachSoc(levels, assets, types.TableStorageLevelRepPeriod)
	if err != nil {
		return dataframe.DataFrame{}, err
	}

	expanded, err := expand.Blocks(withSoc, []string{types.ColAsset, types.ColYear, types.ColRepPeriod})
	if err != nil {
		return dataframe.DataFrame{}, err
	}

	result := expanded.Select([]string{types.ColAsset, types.ColYear, types.ColRepPeriod, types.ColTime, types.ColSoc})
	if result.Error() != nil {
		return dataframe.DataFrame{}, fmt.Errorf("soc: projecting intra-period result: %v", result.Error())
	}
	return result, nil
}

// InterPeriod normalizes the over-horizon storage solution, keyed by the
// post-clustering period index. No block expansion applies here: the table
// already carries one row per (asset, period).
func InterPeriod(levels, assets dataframe.DataFrame) (dataframe.DataFrame, error) {
	if err := types.Schemas[types.TableStorageLevelOverYear].Validate(levels); err != nil {
		return dataframe.DataFrame{}, err
	}

	withSoc, err := attachSoc(levels, assets, types.TableStorageLevelOverYear)
	if err != nil {
		return dataframe.DataFrame{}, err
	}

	result := withSoc.Select([]string{types.ColAsset, types.ColPeriod, types.ColSoc})
	if result.Error() != nil {
		return dataframe.DataFrame{}, fmt.Errorf("soc: projecting inter-period result: %v", result.Error())
	}
	if result.Nrow() == 0 {
		return result, nil
	}
	return sortByAssetPeriod(result)
}

func attachSoc(levels, assets dataframe.DataFrame, table string) (dataframe.DataFrame, error) {
	index, err := meta.Index(assets)
	if err != nil {
		return dataframe.DataFrame{}, err
	}

	rows := levels.Maps()
	socCol := make([]float64, len(rows))
	for i, row := range rows {
		name, err := dfutil.StrField(row, types.ColAsset)
		if err != nil {
			return dataframe.DataFrame{}, fmt.Errorf("soc: %w", err)
		}
		solution, err := dfutil.FloatField(row, types.ColSolution)
		if err != nil {
			return dataframe.DataFrame{}, fmt.Errorf("soc: %w", err)
		}

		asset, ok := index[name]
		if !ok {
			return dataframe.DataFrame{}, &types.UnknownAssetError{Table: table, Asset: name}
		}

		socCol[i] = solution
		if asset.CapacityStorageEnergy != 0 {
			socCol[i] = solution / asset.CapacityStorageEnergy
		}
	}

	withSoc := levels.Mutate(series.New(socCol, series.Float, types.ColSoc))
	if withSoc.Error() != nil {
		return dataframe.DataFrame{}, fmt.Errorf("soc: attaching soc column: %v", withSoc.Error())
	}
	return withSoc, nil
}

func sortByAssetPeriod(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	rows := df.Maps()
	sort.SliceStable(rows, func(i, j int) bool {
		ai, _ := dfutil.StrField(rows[i], types.ColAsset)
		aj, _ := dfutil.StrField(rows[j], types.ColAsset)
		if ai != aj {
			return ai < aj
		}
		pi, _ := dfutil.IntField(rows[i], types.ColPeriod)
		pj, _ := dfutil.IntField(rows[j], types.ColPeriod)
		return pi < pj
	})
	sorted := dataframe.LoadMaps(rows)
	if sorted.Error() != nil {
		return dataframe.DataFrame{}, fmt.Errorf("soc: sorting inter-period result: %v", sorted.Error())
	}
	return sorted, nil
}
