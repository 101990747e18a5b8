package types

import (
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Result-store table names. These are the contract with the solver side: the
// reader resolves each name to a table with the declared column set.
const (
	TableConsBalanceHub        = "cons_balance_hub"
	TableConsBalanceConsumer   = "cons_balance_consumer"
	TableRepPeriodsData        = "rep_periods_data"
	TableRepPeriodsMapping     = "rep_periods_mapping"
	TableVarFlow               = "var_flow"
	TableStorageLevelRepPeriod = "var_storage_level_rep_period"
	TableStorageLevelOverYear  = "var_storage_level_over_clustered_year"
	TableAsset                 = "asset"
)

// Column names shared between tables.
const (
	ColAsset                 = "asset"
	ColYear                  = "year"
	ColRepPeriod             = "rep_period"
	ColTimeBlockStart        = "time_block_start"
	ColTimeBlockEnd          = "time_block_end"
	ColTime                  = "time"
	ColSolution              = "solution"
	ColResolution            = "resolution"
	ColWeight                = "weight"
	ColPeriod                = "period"
	ColFrom                  = "from"
	ColTo                    = "to"
	ColType                  = "type"
	ColBiddingZone           = "bidding_zone"
	ColTechnology            = "technology"
	ColCapacity              = "capacity"
	ColCapacityStorageEnergy = "capacity_storage_energy"
	ColDualBalanceHub        = "dual_balance_hub"
	ColDualBalanceConsumer   = "dual_balance_consumer"
	ColPrice                 = "price"
	ColSoc                   = "soc"
	ColBalanceType           = "balance_type"
)

// Asset types as reported in the metadata table.
const (
	AssetProducer   = "producer"
	AssetStorage    = "storage"
	AssetConversion = "conversion"
	AssetHub        = "hub"
	AssetConsumer   = "consumer"
)

// Schema declares the columns a named table must carry. Tables may carry
// extra columns; a declared column being absent is an error, never a
// silently filled null.
type Schema struct {
	Table   string
	Columns []string
}

// Validate checks every declared column is present in df.
func (s Schema) Validate(df dataframe.DataFrame) error {
	names := df.Names()
	for _, col := range s.Columns {
		if !ContainsString(names, col) {
			return &MissingColumnError{Table: s.Table, Column: col}
		}
	}
	return nil
}

// Schemas indexes the declared input schemas by table name.
var Schemas = map[string]Schema{
	TableConsBalanceHub: {
		Table:   TableConsBalanceHub,
		Columns: []string{ColAsset, ColYear, ColRepPeriod, ColTimeBlockStart, ColTimeBlockEnd, ColDualBalanceHub},
	},
	// The consumer balance table carries the constraint solution next to its
	// dual: the solution column is the per-block consumer demand.
	TableConsBalanceConsumer: {
		Table:   TableConsBalanceConsumer,
		Columns: []string{ColAsset, ColYear, ColRepPeriod, ColTimeBlockStart, ColTimeBlockEnd, ColDualBalanceConsumer, ColSolution},
	},
	TableRepPeriodsData: {
		Table:   TableRepPeriodsData,
		Columns: []string{ColYear, ColRepPeriod, ColResolution},
	},
	TableRepPeriodsMapping: {
		Table:   TableRepPeriodsMapping,
		Columns: []string{ColYear, ColRepPeriod, ColWeight},
	},
	TableVarFlow: {
		Table:   TableVarFlow,
		Columns: []string{ColFrom, ColTo, ColYear, ColRepPeriod, ColTimeBlockStart, ColTimeBlockEnd, ColSolution},
	},
	TableStorageLevelRepPeriod: {
		Table:   TableStorageLevelRepPeriod,
		Columns: []string{ColAsset, ColYear, ColRepPeriod, ColTimeBlockStart, ColTimeBlockEnd, ColSolution},
	},
	TableStorageLevelOverYear: {
		Table:   TableStorageLevelOverYear,
		Columns: []string{ColAsset, ColPeriod, ColSolution},
	},
	TableAsset: {
		Table:   TableAsset,
		Columns: []string{ColAsset, ColType, ColBiddingZone, ColTechnology, ColCapacity, ColCapacityStorageEnergy},
	},
}

// Filter restricts output tables for the rendering layer. Empty slices leave
// the corresponding dimension unrestricted.
type Filter struct {
	Assets     []string
	Years      []int
	RepPeriods []int
}

// IsZero reports whether the filter restricts nothing.
func (f Filter) IsZero() bool {
	return len(f.Assets) == 0 && len(f.Years) == 0 && len(f.RepPeriods) == 0
}

// Apply narrows df to the filtered assets, years and rep periods. assetCol
// names the asset-like column of df (asset for prices and storage levels,
// bidding_zone for the balance sheet). Dimensions whose column is absent from
// df are skipped, so the same filter works for inter-period tables that carry
// no rep_period column.
func (f Filter) Apply(df dataframe.DataFrame, assetCol string) dataframe.DataFrame {
	out := df
	if len(f.Assets) > 0 && ContainsString(out.Names(), assetCol) {
		out = out.Filter(dataframe.F{Colname: assetCol, Comparator: series.In, Comparando: f.Assets})
	}
	if len(f.Years) > 0 && ContainsString(out.Names(), ColYear) {
		out = out.Filter(dataframe.F{Colname: ColYear, Comparator: series.In, Comparando: f.Years})
	}
	if len(f.RepPeriods) > 0 && ContainsString(out.Names(), ColRepPeriod) {
		out = out.Filter(dataframe.F{Colname: ColRepPeriod, Comparator: series.In, Comparando: f.RepPeriods})
	}
	return out
}

// ContainsString reports whether slice holds s.
func ContainsString(slice []string, s string) bool {
	for _, v := range slice {
		if v == s {
			return true
		}
	}
	return false
}
