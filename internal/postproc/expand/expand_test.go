package expand_test

import (
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hverbeek/esm_postproc/internal/postproc/expand"
	"github.com/hverbeek/esm_postproc/internal/postproc/types"
)

func blockFrame(assets []string, starts, ends []int, solutions []float64) dataframe.DataFrame {
	return dataframe.New(
		series.New(assets, series.String, "asset"),
		series.New(starts, series.Int, "time_block_start"),
		series.New(ends, series.Int, "time_block_end"),
		series.New(solutions, series.Float, "solution"),
	)
}

func TestBlocksEmitsOneRowPerTimestep(t *testing.T) {
	df := blockFrame(
		[]string{"wind", "wind"},
		[]int{1, 4},
		[]int{3, 4},
		[]float64{10, 20},
	)

	out, err := expand.Blocks(df, []string{"asset"})
	require.NoError(t, err)

	require.Equal(t, 4, out.Nrow())
	assert.Equal(t, []string{"1", "2", "3", "4"}, out.Col("time").Records())
	assert.Equal(t, []string{"10.000000", "10.000000", "10.000000", "20.000000"}, out.Col("solution").Records())
}

func TestBlocksRestartsTimePerGroup(t *testing.T) {
	df := blockFrame(
		[]string{"wind", "solar"},
		[]int{1, 1},
		[]int{2, 3},
		[]float64{1, 2},
	)

	out, err := expand.Blocks(df, []string{"asset"})
	require.NoError(t, err)
	require.Equal(t, 5, out.Nrow())

	times := map[string][]string{}
	assets := out.Col("asset").Records()
	for i, ts := range out.Col("time").Records() {
		times[assets[i]] = append(times[assets[i]], ts)
	}
	assert.Equal(t, []string{"1", "2"}, times["wind"])
	assert.Equal(t, []string{"1", "2", "3"}, times["solar"])
}

func TestBlocksOrdersByBlockStartWithinGroup(t *testing.T) {
	// Rows arrive out of order; the later block must still get the later
	// timesteps.
	df := blockFrame(
		[]string{"wind", "wind"},
		[]int{3, 1},
		[]int{4, 2},
		[]float64{99, 11},
	)

	out, err := expand.Blocks(df, []string{"asset"})
	require.NoError(t, err)
	require.Equal(t, 4, out.Nrow())

	assert.Equal(t, []string{"1", "2", "3", "4"}, out.Col("time").Records())
	assert.Equal(t, []string{"11.000000", "11.000000", "99.000000", "99.000000"}, out.Col("solution").Records())
}

func TestBlocksCarriesExtraColumns(t *testing.T) {
	df := dataframe.New(
		series.New([]string{"wind"}, series.String, "asset"),
		series.New([]int{2030}, series.Int, "year"),
		series.New([]int{1}, series.Int, "time_block_start"),
		series.New([]int{2}, series.Int, "time_block_end"),
		series.New([]float64{0.5}, series.Float, "dual_balance_hub"),
	)

	out, err := expand.Blocks(df, []string{"asset", "year"})
	require.NoError(t, err)

	names := out.Names()
	for _, col := range []string{"asset", "year", "time_block_start", "time_block_end", "dual_balance_hub", "time"} {
		assert.Contains(t, names, col)
	}
	assert.Equal(t, []string{"2030", "2030"}, out.Col("year").Records())
}

func TestBlocksRejectsInvertedBlock(t *testing.T) {
	df := blockFrame([]string{"wind"}, []int{5}, []int{3}, []float64{1})

	_, err := expand.Blocks(df, []string{"asset"})
	var blockErr *types.InvalidBlockError
	require.ErrorAs(t, err, &blockErr)
	assert.Equal(t, 5, blockErr.Start)
	assert.Equal(t, 3, blockErr.End)
}

func TestBlocksRejectsMissingColumn(t *testing.T) {
	df := dataframe.New(
		series.New([]string{"wind"}, series.String, "asset"),
		series.New([]int{1}, series.Int, "time_block_start"),
	)

	_, err := expand.Blocks(df, []string{"asset"})
	var colErr *types.MissingColumnError
	require.ErrorAs(t, err, &colErr)
	assert.Equal(t, "time_block_end", colErr.Column)
}

func TestBlocksEmptyInput(t *testing.T) {
	df := blockFrame([]string{}, []int{}, []int{}, []float64{})

	out, err := expand.Blocks(df, []string{"asset"})
	require.NoError(t, err)
	assert.Equal(t, 0, out.Nrow())
	assert.True(t, types.ContainsString(out.Names(), "time"))
}

func TestBlocksSingleTimestepBlock(t *testing.T) {
	df := blockFrame([]string{"wind"}, []int{7}, []int{7}, []float64{3})

	out, err := expand.Blocks(df, []string{"asset"})
	require.NoError(t, err)
	require.Equal(t, 1, out.Nrow())
	assert.Equal(t, []string{"1"}, out.Col("time").Records())
}
