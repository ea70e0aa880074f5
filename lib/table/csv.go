package table

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// FormatCell renders a cell the way it is written to delimited files,
// missing cells are empty.
func FormatCell(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	case map[string]any, []any:
		encoded, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(encoded)
	default:
		return fmt.Sprint(v)
	}
}

// WriteCSV writes a header line followed by one line per row.
func WriteCSV(w io.Writer, t Table) error {
	cw := csv.NewWriter(w)
	err := cw.Write(t.columns)
	if err != nil {
		return err
	}
	line := make([]string, len(t.columns))
	for _, row := range t.rows {
		for j, cell := range row {
			line[j] = FormatCell(cell)
		}
		err = cw.Write(line)
		if err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV reads a table written by WriteCSV, every cell is a string and
// empty fields become missing cells.
func ReadCSV(r io.Reader) (Table, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return New()
	}
	if err != nil {
		return Table{}, fmt.Errorf("read header: %w", err)
	}
	t, err := New(header...)
	if err != nil {
		return Table{}, err
	}

	for {
		line, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Table{}, err
		}
		row := make([]any, len(line))
		for j, field := range line {
			if field != "" {
				row[j] = field
			}
		}
		t.rows = append(t.rows, row)
	}
	return t, nil
}
