package soc_test

import (
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hverbeek/esm_postproc/internal/postproc/soc"
	"github.com/hverbeek/esm_postproc/internal/postproc/types"
)

func assetFrame(names, assetTypes []string, storageEnergy []float64) dataframe.DataFrame {
	zones := make([]string, len(names))
	techs := make([]string, len(names))
	capacities := make([]float64, len(names))
	for i := range names {
		zones[i] = "NL"
		techs[i] = "Battery"
		capacities[i] = 100
	}
	return dataframe.New(
		series.New(names, series.String, "asset"),
		series.New(assetTypes, series.String, "type"),
		series.New(zones, series.String, "bidding_zone"),
		series.New(techs, series.String, "technology"),
		series.New(capacities, series.Float, "capacity"),
		series.New(storageEnergy, series.Float, "capacity_storage_energy"),
	)
}

func intraLevelFrame(assets []string, starts, ends []int, solutions []float64) dataframe.DataFrame {
	years := make([]int, len(assets))
	rps := make([]int, len(assets))
	for i := range assets {
		years[i] = 2030
		rps[i] = 1
	}
	return dataframe.New(
		series.New(assets, series.String, "asset"),
		series.New(years, series.Int, "year"),
		series.New(rps, series.Int, "rep_period"),
		series.New(starts, series.Int, "time_block_start"),
		series.New(ends, series.Int, "time_block_end"),
		series.New(solutions, series.Float, "solution"),
	)
}

func TestIntraPeriodNormalizesByEnergyCapacity(t *testing.T) {
	levels := intraLevelFrame([]string{"bat"}, []int{1}, []int{2}, []float64{5})
	assets := assetFrame([]string{"bat"}, []string{types.AssetStorage}, []float64{10})

	out, err := soc.IntraPeriod(levels, assets)
	require.NoError(t, err)

	require.Equal(t, 2, out.Nrow())
	assert.Equal(t, []string{"asset", "year", "rep_period", "time", "soc"}, out.Names())
	assert.Equal(t, []string{"0.500000", "0.500000"}, out.Col("soc").Records())
	assert.Equal(t, []string{"1", "2"}, out.Col("time").Records())
}

func TestIntraPeriodZeroCapacityKeepsSolution(t *testing.T) {
	levels := intraLevelFrame([]string{"bat"}, []int{1}, []int{1}, []float64{42})
	assets := assetFrame([]string{"bat"}, []string{types.AssetStorage}, []float64{0})

	out, err := soc.IntraPeriod(levels, assets)
	require.NoError(t, err)
	require.Equal(t, 1, out.Nrow())
	assert.Equal(t, []string{"42.000000"}, out.Col("soc").Records())
}

func TestIntraPeriodUnknownAsset(t *testing.T) {
	levels := intraLevelFrame([]string{"ghost"}, []int{1}, []int{1}, []float64{1})
	assets := assetFrame([]string{"bat"}, []string{types.AssetStorage}, []float64{10})

	_, err := soc.IntraPeriod(levels, assets)
	var assetErr *types.UnknownAssetError
	require.ErrorAs(t, err, &assetErr)
	assert.Equal(t, "ghost", assetErr.Asset)
}

func TestInterPeriodNormalizesAndSorts(t *testing.T) {
	levels := dataframe.New(
		series.New([]string{"pump", "bat", "bat"}, series.String, "asset"),
		series.New([]int{1, 2, 1}, series.Int, "period"),
		series.New([]float64{30, 8, 4}, series.Float, "solution"),
	)
	assets := assetFrame(
		[]string{"bat", "pump"},
		[]string{types.AssetStorage, types.AssetStorage},
		[]float64{10, 60},
	)

	out, err := soc.InterPeriod(levels, assets)
	require.NoError(t, err)

	require.Equal(t, 3, out.Nrow())
	assert.Equal(t, []string{"bat", "bat", "pump"}, out.Col("asset").Records())
	assert.Equal(t, []string{"1", "2", "1"}, out.Col("period").Records())
	assert.Equal(t, []string{"0.400000", "0.800000", "0.500000"}, out.Col("soc").Records())
}

func TestInterPeriodEmptyInput(t *testing.T) {
	levels := dataframe.New(
		series.New([]string{}, series.String, "asset"),
		series.New([]int{}, series.Int, "period"),
		series.New([]float64{}, series.Float, "solution"),
	)
	assets := assetFrame([]string{"bat"}, []string{types.AssetStorage}, []float64{10})

	out, err := soc.InterPeriod(levels, assets)
	require.NoError(t, err)
	assert.Equal(t, 0, out.Nrow())
}
