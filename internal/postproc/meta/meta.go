// Package meta indexes the asset metadata table for lookups by asset name.
package meta

import (
	"fmt"

	"github.com/go-gota/gota/dataframe"

	"github.com/hverbeek/esm_postproc/internal/postproc/dfutil"
	"github.com/hverbeek/esm_postproc/internal/postproc/types"
)

// Asset is one row of the asset metadata table.
type Asset struct {
	Name                  string
	Type                  string
	BiddingZone           string
	Technology            string
	Capacity              float64
	CapacityStorageEnergy float64
}

// Index builds a by-name lookup over the asset table. A name appearing more
// than once is rejected with AmbiguousAssetError instead of resolving to an
// arbitrary row.
func Index(assets dataframe.DataFrame) (map[string]Asset, error) {
	if err := types.Schemas[types.TableAsset].Validate(assets); err != nil {
		return nil, err
	}

	counts := make(map[string]int, assets.Nrow())
	index := make(map[string]Asset, assets.Nrow())

	for _, row := range assets.Maps() {
		name, err := dfutil.StrField(row, types.ColAsset)
		if err != nil {
			return nil, fmt.Errorf("asset metadata: %w", err)
		}
		assetType, err := dfutil.StrField(row, types.ColType)
		if err != nil {
			return nil, fmt.Errorf("asset metadata: %w", err)
		}
		zone, err := dfutil.StrField(row, types.ColBiddingZone)
		if err != nil {
			return nil, fmt.Errorf("asset metadata: %w", err)
		}
		tech, err := dfutil.StrField(row, types.ColTechnology)
		if err != nil {
			return nil, fmt.Errorf("asset metadata: %w", err)
		}
		capacity, err := dfutil.FloatField(row, types.ColCapacity)
		if err != nil {
			return nil, fmt.Errorf("asset metadata: %w", err)
		}
		storageEnergy, err := dfutil.FloatField(row, types.ColCapacityStorageEnergy)
		if err != nil {
			return nil, fmt.Errorf("asset metadata: %w", err)
		}

		counts[name]++
		index[name] = Asset{
			Name:                  name,
			Type:                  assetType,
			BiddingZone:           zone,
			Technology:            tech,
			Capacity:              capacity,
			CapacityStorageEnergy: storageEnergy,
		}
	}

	for name, count := range counts {
		if count > 1 {
			return nil, &types.AmbiguousAssetError{Asset: name, Count: count}
		}
	}
	return index, nil
}
