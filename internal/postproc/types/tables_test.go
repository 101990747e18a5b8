package types_test

import (
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hverbeek/esm_postproc/internal/postproc/types"
)

func TestSchemaValidateAcceptsExtraColumns(t *testing.T) {
	df := dataframe.New(
		series.New([]int{2030}, series.Int, "year"),
		series.New([]int{1}, series.Int, "rep_period"),
		series.New([]float64{1}, series.Float, "resolution"),
		series.New([]string{"x"}, series.String, "comment"),
	)

	err := types.Schemas[types.TableRepPeriodsData].Validate(df)
	assert.NoError(t, err)
}

func TestSchemaValidateRejectsMissingColumn(t *testing.T) {
	df := dataframe.New(
		series.New([]int{2030}, series.Int, "year"),
		series.New([]int{1}, series.Int, "rep_period"),
	)

	err := types.Schemas[types.TableRepPeriodsData].Validate(df)
	var colErr *types.MissingColumnError
	require.ErrorAs(t, err, &colErr)
	assert.Equal(t, types.TableRepPeriodsData, colErr.Table)
	assert.Equal(t, "resolution", colErr.Column)
}

func TestFilterApplyNarrowsEveryDimension(t *testing.T) {
	df := dataframe.New(
		series.New([]string{"NL", "NL", "DE"}, series.String, "asset"),
		series.New([]int{2030, 2040, 2030}, series.Int, "year"),
		series.New([]int{1, 1, 1}, series.Int, "rep_period"),
	)

	filter := types.Filter{Assets: []string{"NL"}, Years: []int{2030}}
	out := filter.Apply(df, "asset")

	require.Equal(t, 1, out.Nrow())
	assert.Equal(t, []string{"NL"}, out.Col("asset").Records())
	assert.Equal(t, []string{"2030"}, out.Col("year").Records())
}

func TestFilterApplySkipsAbsentColumns(t *testing.T) {
	// Inter-period tables carry no year or rep_period column.
	df := dataframe.New(
		series.New([]string{"bat", "pump"}, series.String, "asset"),
		series.New([]int{1, 1}, series.Int, "period"),
	)

	filter := types.Filter{Assets: []string{"bat"}, Years: []int{2030}, RepPeriods: []int{2}}
	out := filter.Apply(df, "asset")

	require.Equal(t, 1, out.Nrow())
	assert.Equal(t, []string{"bat"}, out.Col("asset").Records())
}

func TestFilterIsZero(t *testing.T) {
	assert.True(t, types.Filter{}.IsZero())
	assert.False(t, types.Filter{Assets: []string{"NL"}}.IsZero())
	assert.False(t, types.Filter{Years: []int{2030}}.IsZero())
}
