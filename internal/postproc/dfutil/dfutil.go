package dfutil

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hverbeek/esm_postproc/internal/postproc/types"
)

// Field accessors over rows produced by dataframe.Maps(). Unlike the loose
// accessors this codebase started with, a missing or unparsable field is an
// error, never a default: the transforms must not fabricate values.

func IntField(row map[string]interface{}, col string) (int, error) {
	v, ok := row[col]
	if !ok {
		return 0, &types.MissingColumnError{Column: col}
	}
	switch t := v.(type) {
	case int:
		return t, nil
	case float64:
		return int(t), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return 0, fmt.Errorf("column %q: cannot parse %q as int", col, t)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("column %q: unexpected value type %T", col, v)
	}
}

func FloatField(row map[string]interface{}, col string) (float64, error) {
	v, ok := row[col]
	if !ok {
		return 0, &types.MissingColumnError{Column: col}
	}
	switch t := v.(type) {
	case float64:
		return t, nil
	case int:
		return float64(t), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, fmt.Errorf("column %q: cannot parse %q as float", col, t)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("column %q: unexpected value type %T", col, v)
	}
}

func StrField(row map[string]interface{}, col string) (string, error) {
	v, ok := row[col]
	if !ok {
		return "", &types.MissingColumnError{Column: col}
	}
	return fmt.Sprint(v), nil
}

// GroupKey renders the values of cols into a single lookup key. Values are
// separated by an unlikely delimiter so distinct tuples cannot collide.
func GroupKey(row map[string]interface{}, cols []string) string {
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = fmt.Sprint(row[c])
	}
	return strings.Join(parts, "\x1f")
}
