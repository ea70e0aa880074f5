package cleaning

import (
	"fmt"

	"cmsdata/lib/table"
)

// Step is a single named transformation.
type Step struct {
	Name  string
	Apply func(table.Table) (table.Table, error)
}

func CleanColumnNamesStep() Step {
	return Step{Name: "clean_column_names", Apply: CleanColumnNames}
}

func DropEmptyColumnsStep(threshold float64) Step {
	return Step{
		Name: fmt.Sprintf("drop_empty_columns(%g)", threshold),
		Apply: func(t table.Table) (table.Table, error) {
			return DropEmptyColumns(t, threshold), nil
		},
	}
}

func EncodeCategoricalsStep(columns []string) Step {
	return Step{
		Name: fmt.Sprintf("encode_categoricals%v", columns),
		Apply: func(t table.Table) (table.Table, error) {
			return EncodeCategoricals(t, columns)
		},
	}
}

func NormalizeColumnsStep(columns []string) Step {
	return Step{
		Name: fmt.Sprintf("normalize_columns%v", columns),
		Apply: func(t table.Table) (table.Table, error) {
			return NormalizeColumns(t, columns)
		},
	}
}

// Pipeline applies its steps in order, stopping at the first error.
type Pipeline []Step

func (p Pipeline) Apply(t table.Table) (table.Table, error) {
	out := t
	for _, step := range p {
		var err error
		out, err = step.Apply(out)
		if err != nil {
			return table.Table{}, fmt.Errorf("%s: %w", step.Name, err)
		}
	}
	return out, nil
}
