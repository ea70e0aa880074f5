// Package cleaning holds stateless transformations over a table.Table.
//
// Every function returns a new table and leaves its input untouched.
package cleaning

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"cmsdata/lib/table"
)

var (
	ErrColumnNotFound = errors.New("column not found")
	ErrNotNumeric     = errors.New("value is not numeric")
)

// DefaultDropThreshold is the missing proportion at which DropEmptyColumns
// removes a column when no threshold is configured.
const DefaultDropThreshold = 0.9

var columnNameReplacer = strings.NewReplacer(
	" ", "_",
	"/", "_",
	"-", "_",
)

// CleanColumnName trims, lowercases and replaces spaces, slashes and hyphens
// with underscores.
func CleanColumnName(name string) string {
	return columnNameReplacer.Replace(strings.ToLower(strings.TrimSpace(name)))
}

// CleanColumnNames applies CleanColumnName to every column label.
func CleanColumnNames(t table.Table) (table.Table, error) {
	return t.Rename(CleanColumnName)
}

// IsMissing reports whether a cell counts as a missing value. Empty strings
// are missing since delimited files cannot tell them apart from nulls, NaN
// is missing like it is for the scaled output of a constant column.
func IsMissing(v any) bool {
	switch v := v.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case float64:
		return math.IsNaN(v)
	}
	return false
}

// MissingRatio returns the proportion of missing cells per column.
func MissingRatio(t table.Table) map[string]float64 {
	out := make(map[string]float64, t.NumColumns())
	for _, c := range t.Columns() {
		values, _ := t.Column(c)
		if len(values) == 0 {
			out[c] = 0
			continue
		}
		missing := 0
		for _, v := range values {
			if IsMissing(v) {
				missing++
			}
		}
		out[c] = float64(missing) / float64(len(values))
	}
	return out
}

// DropEmptyColumns removes every column whose missing proportion is at least
// threshold. A table without rows keeps all of its columns.
func DropEmptyColumns(t table.Table, threshold float64) table.Table {
	if t.NumRows() == 0 {
		return t.Clone()
	}
	ratios := MissingRatio(t)
	var drop []string
	for _, c := range t.Columns() {
		if ratios[c] >= threshold {
			drop = append(drop, c)
		}
	}
	return t.Drop(drop...)
}

func requireColumns(t table.Table, columns []string) error {
	for _, c := range columns {
		if !t.HasColumn(c) {
			return fmt.Errorf("%w: %q", ErrColumnNotFound, c)
		}
	}
	return nil
}
