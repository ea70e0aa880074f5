package cleaning

import (
	"math"
	"testing"

	"cmsdata/lib/table"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func newTable(t *testing.T, columns []string, rows ...[]any) table.Table {
	t.Helper()
	tbl, err := table.New(columns...)
	if err != nil {
		t.Fatal(err)
	}
	for _, row := range rows {
		if err := tbl.AppendRow(row...); err != nil {
			t.Fatal(err)
		}
	}
	return tbl
}

func column(t *testing.T, tbl table.Table, name string) []any {
	t.Helper()
	values, ok := tbl.Column(name)
	if !ok {
		t.Fatalf("no column %q in %v", name, tbl.Columns())
	}
	return values
}

func TestCleanColumnName(t *testing.T) {
	cases := []struct {
		in       string
		expected string
	}{
		{in: "  Provider Name ", expected: "provider_name"},
		{in: "CMS Certification Number (CCN)", expected: "cms_certification_number_(ccn)"},
		{in: "Ownership/Type", expected: "ownership_type"},
		{in: "Long-Stay Measure", expected: "long_stay_measure"},
		{in: "already_clean", expected: "already_clean"},
	}
	for _, test := range cases {
		require.Equal(t, test.expected, CleanColumnName(test.in))
	}
}

func TestCleanColumnNamesIdempotent(t *testing.T) {
	tbl := newTable(t,
		[]string{" State ", "Provider-Name", "Ownership/Type", "Rating Cycle 1"},
		[]any{"CA", "A", "For profit", "3"},
	)

	once, err := CleanColumnNames(tbl)
	require.NoError(t, err)
	twice, err := CleanColumnNames(once)
	require.NoError(t, err)

	require.Equal(t, []string{"state", "provider_name", "ownership_type", "rating_cycle_1"}, once.Columns())
	require.Equal(t, once.Columns(), twice.Columns())
	require.Equal(t, tbl.Row(0), once.Row(0))
}

func TestCleanColumnNamesCollision(t *testing.T) {
	tbl := newTable(t, []string{"Zip Code", "zip_code"})
	_, err := CleanColumnNames(tbl)
	require.Error(t, err)
}

func TestDropEmptyColumns(t *testing.T) {
	tbl := newTable(t,
		[]string{"mostly_missing", "mostly_present", "full"},
		[]any{nil, "a", 1.0},
		[]any{"", "b", 2.0},
		[]any{nil, nil, 3.0},
		[]any{"x", "c", 4.0},
	)

	out := DropEmptyColumns(tbl, 0.5)
	require.Equal(t, []string{"mostly_present", "full"}, out.Columns())
	require.Equal(t, 4, out.NumRows())

	// exactly at the threshold is dropped
	half := newTable(t, []string{"half"}, []any{nil}, []any{"a"})
	require.Equal(t, 0, DropEmptyColumns(half, 0.5).NumColumns())

	// the default threshold keeps a column that is 75% missing
	require.Equal(t,
		[]string{"mostly_missing", "mostly_present", "full"},
		DropEmptyColumns(tbl, DefaultDropThreshold).Columns(),
	)
}

func TestDropEmptyColumnsNoRows(t *testing.T) {
	tbl := newTable(t, []string{"a", "b"})
	require.Equal(t, []string{"a", "b"}, DropEmptyColumns(tbl, 0.5).Columns())
}

func TestEncodeCategoricals(t *testing.T) {
	tbl := newTable(t,
		[]string{"provider", "ownership", "state"},
		[]any{"A", "For profit", "CA"},
		[]any{"B", "Non profit", "NV"},
		[]any{"C", "Government", "CA"},
		[]any{"D", nil, "OR"},
	)

	out, err := EncodeCategoricals(tbl, []string{"ownership", "state"})
	require.NoError(t, err)

	// 3 ownership levels -> 2 indicators, 3 state levels -> 2 indicators
	require.Equal(t, []string{
		"provider",
		"ownership_Government", "ownership_Non profit",
		"state_NV", "state_OR",
	}, out.Columns())

	require.Equal(t, []any{0, 0, 1, 0}, column(t, out, "ownership_Government"))
	require.Equal(t, []any{0, 1, 0, 0}, column(t, out, "ownership_Non profit"))
	require.Equal(t, []any{0, 1, 0, 0}, column(t, out, "state_NV"))
	require.Equal(t, []any{0, 0, 0, 1}, column(t, out, "state_OR"))

	// input is untouched
	require.Equal(t, []string{"provider", "ownership", "state"}, tbl.Columns())
}

func TestEncodeCategoricalsLevelCount(t *testing.T) {
	for k := 1; k <= 5; k++ {
		var rows [][]any
		for i := 0; i < k*2; i++ {
			rows = append(rows, []any{string(rune('a' + i%k))})
		}
		tbl := newTable(t, []string{"cat"}, rows...)

		out, err := EncodeCategoricals(tbl, []string{"cat"})
		require.NoError(t, err)
		require.Equal(t, k-1, out.NumColumns(), "k=%d", k)
	}
}

func TestEncodeCategoricalsMissingColumn(t *testing.T) {
	tbl := newTable(t, []string{"a"}, []any{"x"})
	_, err := EncodeCategoricals(tbl, []string{"b"})
	require.ErrorIs(t, err, ErrColumnNotFound)
}

func TestNormalizeColumns(t *testing.T) {
	tbl := newTable(t,
		[]string{"beds", "rating", "name"},
		[]any{120.0, "2", "A"},
		[]any{80.0, "5", "B"},
		[]any{100.0, nil, "C"},
		[]any{40.0, "1", "D"},
	)

	out, err := NormalizeColumns(tbl, []string{"beds", "rating"})
	require.NoError(t, err)

	diff := cmp.Diff([]any{1.0, 0.5, 0.75, 0.0}, column(t, out, "beds"))
	if diff != "" {
		t.Fatalf("beds mismatch (-want +got):\n%s", diff)
	}
	diff = cmp.Diff([]any{0.25, 1.0, nil, 0.0}, column(t, out, "rating"))
	if diff != "" {
		t.Fatalf("rating mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, column(t, tbl, "name"), column(t, out, "name"))
}

func TestNormalizeColumnsBounds(t *testing.T) {
	tbl := newTable(t,
		[]string{"x"},
		[]any{-3.5}, []any{12.25}, []any{7.0}, []any{0.0},
	)
	out, err := NormalizeColumns(tbl, []string{"x"})
	require.NoError(t, err)

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range column(t, out, "x") {
		f := v.(float64)
		lo = math.Min(lo, f)
		hi = math.Max(hi, f)
	}
	require.Equal(t, 0.0, lo)
	require.Equal(t, 1.0, hi)
}

func TestNormalizeConstantColumn(t *testing.T) {
	tbl := newTable(t, []string{"x"}, []any{4.0}, []any{4.0})
	out, err := NormalizeColumns(tbl, []string{"x"})
	require.NoError(t, err)
	for _, v := range column(t, out, "x") {
		require.True(t, math.IsNaN(v.(float64)))
	}
}

func TestNormalizeNotNumeric(t *testing.T) {
	tbl := newTable(t, []string{"x"}, []any{"1"}, []any{"n/a"})
	_, err := NormalizeColumns(tbl, []string{"x"})
	require.ErrorIs(t, err, ErrNotNumeric)

	_, err = NormalizeColumns(tbl, []string{"y"})
	require.ErrorIs(t, err, ErrColumnNotFound)
}

func TestPipeline(t *testing.T) {
	tbl := newTable(t,
		[]string{"Ownership Type", "Number of Beds", "Fax"},
		[]any{"For profit", "100", nil},
		[]any{"Government", "50", nil},
		[]any{"For profit", "150", nil},
	)

	out, err := Pipeline{
		CleanColumnNamesStep(),
		DropEmptyColumnsStep(DefaultDropThreshold),
		EncodeCategoricalsStep([]string{"ownership_type"}),
		NormalizeColumnsStep([]string{"number_of_beds"}),
	}.Apply(tbl)
	require.NoError(t, err)

	// "For profit" sorts first and is the reference level
	require.Equal(t, []string{"number_of_beds", "ownership_type_Government"}, out.Columns())
	require.Equal(t, []any{0.5, 0.0, 1.0}, column(t, out, "number_of_beds"))
	require.Equal(t, []any{0, 1, 0}, column(t, out, "ownership_type_Government"))

	_, err = Pipeline{NormalizeColumnsStep([]string{"missing"})}.Apply(tbl)
	require.ErrorIs(t, err, ErrColumnNotFound)
}
