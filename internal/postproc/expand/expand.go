// Package expand unrolls block-structured solver output into one row per
// unit timestep. Every downstream transform (prices, storage levels, the
// balance sheet) goes through Blocks before projecting its output.
package expand

import (
	"fmt"
	"sort"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/hverbeek/esm_postproc/internal/postproc/dfutil"
	"github.com/hverbeek/esm_postproc/internal/postproc/types"
)

// Blocks expands a table whose rows represent closed intervals
// [time_block_start, time_block_end] into one row per unit timestep.
//
// Rows sharing the same values of groupBy form a group. Within a group, rows
// are taken in ascending time_block_start order and each row is replicated
// duration times (duration = end - start + 1), carrying all of its columns
// unchanged. A "time" column is set to a counter that starts at 1 per group
// and increments by 1 per emitted row, so per group the emitted time values
// are exactly {1, ..., sum(durations)}.
//
// The input is never mutated; a new frame is returned.
func Blocks(df dataframe.DataFrame, groupBy []string) (dataframe.DataFrame, error) {
	if df.Error() != nil {
		return dataframe.DataFrame{}, fmt.Errorf("expand: input dataframe: %v", df.Error())
	}

	names := df.Names()
	for _, col := range append([]string{types.ColTimeBlockStart, types.ColTimeBlockEnd}, groupBy...) {
		if !types.ContainsString(names, col) {
			return dataframe.DataFrame{}, &types.MissingColumnError{Column: col}
		}
	}

	if df.Nrow() == 0 {
		return df.Mutate(series.New([]int{}, series.Int, types.ColTime)), nil
	}

	rows := df.Maps()
	sort.SliceStable(rows, func(i, j int) bool {
		ki := dfutil.GroupKey(rows[i], groupBy)
		kj := dfutil.GroupKey(rows[j], groupBy)
		if ki != kj {
			return ki < kj
		}
		si, _ := dfutil.IntField(rows[i], types.ColTimeBlockStart)
		sj, _ := dfutil.IntField(rows[j], types.ColTimeBlockStart)
		return si < sj
	})

	counters := make(map[string]int)
	var out []map[string]interface{}

	for _, row := range rows {
		start, err := dfutil.IntField(row, types.ColTimeBlockStart)
		if err != nil {
			return dataframe.DataFrame{}, fmt.Errorf("expand: %w", err)
		}
		end, err := dfutil.IntField(row, types.ColTimeBlockEnd)
		if err != nil {
			return dataframe.DataFrame{}, fmt.Errorf("expand: %w", err)
		}
		duration := end - start + 1
		if duration < 1 {
			return dataframe.DataFrame{}, &types.InvalidBlockError{Start: start, End: end}
		}

		key := dfutil.GroupKey(row, groupBy)
		for i := 0; i < duration; i++ {
			counters[key]++
			expanded := make(map[string]interface{}, len(row)+1)
			for k, v := range row {
				expanded[k] = v
			}
			expanded[types.ColTime] = counters[key]
			out = append(out, expanded)
		}
	}

	result := dataframe.LoadMaps(out)
	if result.Error() != nil {
		return dataframe.DataFrame{}, fmt.Errorf("expand: building expanded frame: %v", result.Error())
	}
	return result, nil
}
