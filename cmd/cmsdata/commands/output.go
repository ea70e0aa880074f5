package commands

import (
	"fmt"
	"io"

	"cmsdata/lib/table"

	prettytable "github.com/jedib0t/go-pretty/v6/table"
)

func newTable(out io.Writer) prettytable.Writer {
	t := prettytable.NewWriter()
	t.SetStyle(prettytable.StyleRounded)
	t.SetOutputMirror(out)
	return t
}

// renderPreview prints the first n rows of a table.
func renderPreview(out io.Writer, t table.Table, n int) {
	w := newTable(out)

	header := prettytable.Row{}
	for _, c := range t.Columns() {
		header = append(header, c)
	}
	w.AppendHeader(header)

	head := t.Head(n)
	for i := 0; i < head.NumRows(); i++ {
		row := prettytable.Row{}
		for _, cell := range head.Row(i) {
			row = append(row, table.FormatCell(cell))
		}
		w.AppendRow(row)
	}
	w.AppendFooter(prettytable.Row{
		fmt.Sprintf("%d rows x %d columns", t.NumRows(), t.NumColumns()),
	})
	w.Render()
}
