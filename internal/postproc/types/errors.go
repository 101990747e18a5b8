package types

import "fmt"

// InvalidBlockError reports a time block whose bounds describe a zero or
// negative duration.
type InvalidBlockError struct {
	Start int
	End   int
}

func (e *InvalidBlockError) Error() string {
	return fmt.Sprintf("invalid time block: time_block_start=%d time_block_end=%d", e.Start, e.End)
}

// MissingWeightError reports a (year, rep_period) pair with no entry in the
// rep-period weight mapping.
type MissingWeightError struct {
	Year      int
	RepPeriod int
}

func (e *MissingWeightError) Error() string {
	return fmt.Sprintf("no weight mapping entry for year=%d rep_period=%d", e.Year, e.RepPeriod)
}

// UnknownAssetError reports a solution or flow row referencing an asset that
// is absent from the asset metadata table.
type UnknownAssetError struct {
	Table string
	Asset string
}

func (e *UnknownAssetError) Error() string {
	return fmt.Sprintf("table %s references unknown asset %q", e.Table, e.Asset)
}

// MissingColumnError reports an expected column absent from an input table.
type MissingColumnError struct {
	Table  string
	Column string
}

func (e *MissingColumnError) Error() string {
	if e.Table == "" {
		return fmt.Sprintf("missing required column %q", e.Column)
	}
	return fmt.Sprintf("table %s: missing required column %q", e.Table, e.Column)
}

// AmbiguousAssetError reports more than one metadata row for the same asset
// name. Lookups against duplicated metadata are rejected rather than resolved
// by first match.
type AmbiguousAssetError struct {
	Asset string
	Count int
}

func (e *AmbiguousAssetError) Error() string {
	return fmt.Sprintf("asset %q has %d metadata rows, expected exactly one", e.Asset, e.Count)
}
