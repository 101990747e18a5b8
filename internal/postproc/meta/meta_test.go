package meta_test

import (
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hverbeek/esm_postproc/internal/postproc/meta"
	"github.com/hverbeek/esm_postproc/internal/postproc/types"
)

func metadataFrame(names, assetTypes, zones, techs []string, capacities, storageEnergy []float64) dataframe.DataFrame {
	return dataframe.New(
		series.New(names, series.String, "asset"),
		series.New(assetTypes, series.String, "type"),
		series.New(zones, series.String, "bidding_zone"),
		series.New(techs, series.String, "technology"),
		series.New(capacities, series.Float, "capacity"),
		series.New(storageEnergy, series.Float, "capacity_storage_energy"),
	)
}

func TestIndexBuildsLookup(t *testing.T) {
	assets := metadataFrame(
		[]string{"wind", "bat"},
		[]string{types.AssetProducer, types.AssetStorage},
		[]string{"NL", "NL"},
		[]string{"Wind", "Battery"},
		[]float64{120, 50},
		[]float64{0, 200},
	)

	index, err := meta.Index(assets)
	require.NoError(t, err)
	require.Len(t, index, 2)

	bat := index["bat"]
	assert.Equal(t, types.AssetStorage, bat.Type)
	assert.Equal(t, "NL", bat.BiddingZone)
	assert.Equal(t, "Battery", bat.Technology)
	assert.Equal(t, 50.0, bat.Capacity)
	assert.Equal(t, 200.0, bat.CapacityStorageEnergy)
}

func TestIndexRejectsDuplicateNames(t *testing.T) {
	assets := metadataFrame(
		[]string{"bat", "bat"},
		[]string{types.AssetStorage, types.AssetStorage},
		[]string{"NL", "DE"},
		[]string{"Battery", "Battery"},
		[]float64{50, 60},
		[]float64{200, 240},
	)

	_, err := meta.Index(assets)
	var dupErr *types.AmbiguousAssetError
	require.ErrorAs(t, err, &dupErr)
	assert.Equal(t, "bat", dupErr.Asset)
	assert.Equal(t, 2, dupErr.Count)
}

func TestIndexRejectsMissingColumn(t *testing.T) {
	assets := dataframe.New(
		series.New([]string{"wind"}, series.String, "asset"),
		series.New([]string{types.AssetProducer}, series.String, "type"),
	)

	_, err := meta.Index(assets)
	var colErr *types.MissingColumnError
	require.ErrorAs(t, err, &colErr)
}
