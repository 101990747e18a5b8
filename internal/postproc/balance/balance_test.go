package balance_test

import (
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hverbeek/esm_postproc/internal/postproc/balance"
	"github.com/hverbeek/esm_postproc/internal/postproc/dfutil"
	"github.com/hverbeek/esm_postproc/internal/postproc/types"
)

func flowFrame(from, to []string, starts, ends []int, solutions []float64) dataframe.DataFrame {
	years := make([]int, len(from))
	rps := make([]int, len(from))
	for i := range from {
		years[i] = 2030
		rps[i] = 1
	}
	return dataframe.New(
		series.New(from, series.String, "from"),
		series.New(to, series.String, "to"),
		series.New(years, series.Int, "year"),
		series.New(rps, series.Int, "rep_period"),
		series.New(starts, series.Int, "time_block_start"),
		series.New(ends, series.Int, "time_block_end"),
		series.New(solutions, series.Float, "solution"),
	)
}

func metadataFrame(names, assetTypes, techs []string) dataframe.DataFrame {
	zones := make([]string, len(names))
	capacities := make([]float64, len(names))
	storageEnergy := make([]float64, len(names))
	for i := range names {
		zones[i] = "NL"
		capacities[i] = 100
		storageEnergy[i] = 10
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

func demandFrame(assets []string, starts, ends []int, solutions []float64) dataframe.DataFrame {
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

func testAssets() dataframe.DataFrame {
	return metadataFrame(
		[]string{"wind", "bat", "NL", "house"},
		[]string{types.AssetProducer, types.AssetStorage, types.AssetHub, types.AssetConsumer},
		[]string{"Wind", "Battery", "", ""},
	)
}

func TestComputeClassifiesAndSignsFlows(t *testing.T) {
	flows := flowFrame(
		[]string{"wind", "bat", "NL", "NL"},
		[]string{"NL", "NL", "bat", "house"},
		[]int{1, 1, 1, 1},
		[]int{2, 2, 2, 2},
		[]float64{5, 4, 2, 7},
	)
	demand := demandFrame([]string{"house"}, []int{1}, []int{2}, []float64{7})

	out, err := balance.Compute(flows, testAssets(), demand)
	require.NoError(t, err)

	type entry struct {
		zone string
		tech string
		time int
	}
	got := map[entry]float64{}
	for _, row := range out.Maps() {
		zone, err := dfutil.StrField(row, "bidding_zone")
		require.NoError(t, err)
		tech, err := dfutil.StrField(row, "technology")
		require.NoError(t, err)
		timestep, err := dfutil.IntField(row, "time")
		require.NoError(t, err)
		solution, err := dfutil.FloatField(row, "solution")
		require.NoError(t, err)
		got[entry{zone, tech, timestep}] = solution
	}

	// 6 (zone, technology) pairs over 2 timesteps each.
	require.Equal(t, 12, out.Nrow())
	for ts := 1; ts <= 2; ts++ {
		assert.Equal(t, 5.0, got[entry{"NL", "Wind", ts}])
		assert.Equal(t, 4.0, got[entry{"NL", "Battery_discharge", ts}])
		assert.Equal(t, -2.0, got[entry{"NL", "Battery_charge", ts}])
		assert.Equal(t, -7.0, got[entry{"NL", "OutgoingFlowToConsumer", ts}])
		assert.Equal(t, 7.0, got[entry{"house", "IncomingFlowToHub", ts}])
		assert.Equal(t, -7.0, got[entry{"house", "Demand", ts}])
	}
}

func TestComputeBalanceClosesPerZone(t *testing.T) {
	flows := flowFrame(
		[]string{"wind", "bat", "NL", "NL"},
		[]string{"NL", "NL", "bat", "house"},
		[]int{1, 1, 1, 1},
		[]int{2, 2, 2, 2},
		[]float64{5, 4, 2, 7},
	)
	demand := demandFrame([]string{"house"}, []int{1}, []int{2}, []float64{7})

	out, err := balance.Compute(flows, testAssets(), demand)
	require.NoError(t, err)

	sums := map[string]float64{}
	for _, row := range out.Maps() {
		zone, err := dfutil.StrField(row, "bidding_zone")
		require.NoError(t, err)
		timestep, err := dfutil.IntField(row, "time")
		require.NoError(t, err)
		solution, err := dfutil.FloatField(row, "solution")
		require.NoError(t, err)
		sums[dfutil.GroupKey(map[string]interface{}{"z": zone, "t": timestep}, []string{"z", "t"})] += solution
	}

	for key, sum := range sums {
		assert.InDelta(t, 0.0, sum, 1e-9, "zone/timestep %s does not close", key)
	}
}

func TestComputeIgnoresUnbalancedFlows(t *testing.T) {
	// A producer charging a battery directly touches no balanced node.
	flows := flowFrame(
		[]string{"wind"},
		[]string{"bat"},
		[]int{1},
		[]int{1},
		[]float64{3},
	)
	demand := demandFrame([]string{}, []int{}, []int{}, []float64{})

	out, err := balance.Compute(flows, testAssets(), demand)
	require.NoError(t, err)
	assert.Equal(t, 0, out.Nrow())
}

func TestComputeUnknownFlowEndpoint(t *testing.T) {
	flows := flowFrame([]string{"ghost"}, []string{"NL"}, []int{1}, []int{1}, []float64{1})
	demand := demandFrame([]string{}, []int{}, []int{}, []float64{})

	_, err := balance.Compute(flows, testAssets(), demand)
	var assetErr *types.UnknownAssetError
	require.ErrorAs(t, err, &assetErr)
	assert.Equal(t, "ghost", assetErr.Asset)
}

func TestComputeUnknownDemandAsset(t *testing.T) {
	flows := flowFrame([]string{}, []string{}, []int{}, []int{}, []float64{})
	demand := demandFrame([]string{"ghost"}, []int{1}, []int{1}, []float64{1})

	_, err := balance.Compute(flows, testAssets(), demand)
	var assetErr *types.UnknownAssetError
	require.ErrorAs(t, err, &assetErr)
	assert.Equal(t, "demand", assetErr.Table)
}

func TestComputeOutputSorted(t *testing.T) {
	flows := flowFrame(
		[]string{"NL", "wind"},
		[]string{"house", "NL"},
		[]int{1, 1},
		[]int{1, 1},
		[]float64{2, 2},
	)
	demand := demandFrame([]string{"house"}, []int{1}, []int{1}, []float64{2})

	out, err := balance.Compute(flows, testAssets(), demand)
	require.NoError(t, err)

	zones := out.Col("bidding_zone").Records()
	techs := out.Col("technology").Records()
	for i := 1; i < len(zones); i++ {
		if zones[i-1] == zones[i] {
			assert.LessOrEqual(t, techs[i-1], techs[i])
		} else {
			assert.Less(t, zones[i-1], zones[i])
		}
	}
}
