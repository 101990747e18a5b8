// Package summary computes descriptive statistics over a processed price
// table, used by the rendering layer to annotate charts.
package summary

import (
	"fmt"
	"sort"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/hverbeek/esm_postproc/internal/postproc/dfutil"
	"github.com/hverbeek/esm_postproc/internal/postproc/types"
)

// Prices aggregates the price column of pricesDf per distinct tuple of
// groupBy columns, producing mean/min/max and the 10th, 50th and 90th
// percentiles of each group's price series.
func Prices(pricesDf dataframe.DataFrame, groupBy []string) (dataframe.DataFrame, error) {
	names := pricesDf.Names()
	for _, col := range append(append([]string{}, groupBy...), types.ColPrice) {
		if !types.ContainsString(names, col) {
			return dataframe.DataFrame{}, &types.MissingColumnError{Column: col}
		}
	}

	groups := make(map[string][]float64)
	labels := make(map[string]map[string]interface{})
	for _, row := range pricesDf.Maps() {
		price, err := dfutil.FloatField(row, types.ColPrice)
		if err != nil {
			return dataframe.DataFrame{}, fmt.Errorf("summary: %w", err)
		}
		key := dfutil.GroupKey(row, groupBy)
		groups[key] = append(groups[key], price)
		if _, ok := labels[key]; !ok {
			label := make(map[string]interface{}, len(groupBy))
			for _, col := range groupBy {
				label[col] = row[col]
			}
			labels[key] = label
		}
	}

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]map[string]interface{}, 0, len(keys))
	for _, key := range keys {
		values := groups[key]
		sort.Float64s(values)

		row := make(map[string]interface{}, len(groupBy)+6)
		for col, v := range labels[key] {
			row[col] = v
		}
		row["mean_price"] = stat.Mean(values, nil)
		row["min_price"] = floats.Min(values)
		row["max_price"] = floats.Max(values)
		row["p10_price"] = stat.Quantile(0.1, stat.Empirical, values, nil)
		row["p50_price"] = stat.Quantile(0.5, stat.Empirical, values, nil)
		row["p90_price"] = stat.Quantile(0.9, stat.Empirical, values, nil)
		out = append(out, row)
	}

	if len(out) == 0 {
		return dataframe.New(
			series.New([]float64{}, series.Float, "mean_price"),
			series.New([]float64{}, series.Float, "min_price"),
			series.New([]float64{}, series.Float, "max_price"),
			series.New([]float64{}, series.Float, "p10_price"),
			series.New([]float64{}, series.Float, "p50_price"),
			series.New([]float64{}, series.Float, "p90_price"),
		), nil
	}

	result := dataframe.LoadMaps(out)
	if result.Error() != nil {
		return dataframe.DataFrame{}, fmt.Errorf("summary: building result: %v", result.Error())
	}
	return result, nil
}
