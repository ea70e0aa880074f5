package cleaning

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"cmsdata/lib/table"
)

// ToFloat interprets a cell as a number, numeric strings are parsed.
func ToFloat(v any) (float64, error) {
	switch v := v.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case json.Number:
		return v.Float64()
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrNotNumeric, v)
		}
		return f, nil
	}
	return 0, fmt.Errorf("%w: %v (%T)", ErrNotNumeric, v, v)
}

// NormalizeColumns rescales each listed column to [0, 1] with min-max
// scaling, missing cells stay missing. A constant column has no range, each
// of its values becomes NaN.
func NormalizeColumns(t table.Table, columns []string) (table.Table, error) {
	err := requireColumns(t, columns)
	if err != nil {
		return table.Table{}, err
	}

	out := t
	for _, c := range columns {
		values, _ := out.Column(c)

		parsed := make([]float64, len(values))
		lo, hi := math.Inf(1), math.Inf(-1)
		for i, v := range values {
			if IsMissing(v) {
				continue
			}
			f, err := ToFloat(v)
			if err != nil {
				return table.Table{}, fmt.Errorf("normalize %q row %d: %w", c, i, err)
			}
			parsed[i] = f
			lo = math.Min(lo, f)
			hi = math.Max(hi, f)
		}

		scaled := make([]any, len(values))
		for i, v := range values {
			if IsMissing(v) {
				continue
			}
			// 0/0 when hi == lo
			scaled[i] = (parsed[i] - lo) / (hi - lo)
		}

		out, err = out.WithColumn(c, scaled)
		if err != nil {
			return table.Table{}, err
		}
	}
	if len(columns) == 0 {
		return t.Clone(), nil
	}
	return out, nil
}
