package cleaning

import (
	"fmt"
	"slices"

	"cmsdata/lib/table"
)

// IndicatorName is the label of the indicator column for one level.
func IndicatorName(column, level string) string {
	return fmt.Sprintf("%s_%s", column, level)
}

// Levels returns the sorted distinct non-missing values of a column in
// their delimited-file rendering.
func Levels(t table.Table, column string) ([]string, error) {
	values, ok := t.Column(column)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, column)
	}
	seen := map[string]struct{}{}
	var levels []string
	for _, v := range values {
		if IsMissing(v) {
			continue
		}
		level := table.FormatCell(v)
		if _, ok := seen[level]; ok {
			continue
		}
		seen[level] = struct{}{}
		levels = append(levels, level)
	}
	slices.Sort(levels)
	return levels, nil
}

// EncodeCategoricals replaces each listed column with 1/0 indicator columns,
// one per level except the first (sorted) level, which is the reference.
// Indicators are appended after the remaining columns, a column with k
// distinct values yields k-1 indicators and missing cells are 0 everywhere.
func EncodeCategoricals(t table.Table, columns []string) (table.Table, error) {
	err := requireColumns(t, columns)
	if err != nil {
		return table.Table{}, err
	}

	type indicator struct {
		name   string
		values []any
	}
	var indicators []indicator

	for _, c := range columns {
		levels, err := Levels(t, c)
		if err != nil {
			return table.Table{}, err
		}
		values, _ := t.Column(c)
		for _, level := range levels[min(1, len(levels)):] {
			col := make([]any, len(values))
			for i, v := range values {
				col[i] = 0
				if !IsMissing(v) && table.FormatCell(v) == level {
					col[i] = 1
				}
			}
			indicators = append(indicators, indicator{name: IndicatorName(c, level), values: col})
		}
	}

	out := t.Drop(columns...)
	for _, ind := range indicators {
		if out.HasColumn(ind.name) {
			return table.Table{}, fmt.Errorf("indicator column %q already exists", ind.name)
		}
		out, err = out.WithColumn(ind.name, ind.values)
		if err != nil {
			return table.Table{}, err
		}
	}
	return out, nil
}
