package output

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/matchlens/matchlens/internal/football"
)

// TableFormatter renders results as a rounded terminal table.
type TableFormatter struct{}

// FormatTable renders rows as a table with a row count footer.
func (f *TableFormatter) FormatTable(t *football.Table) (string, error) {
	if t == nil {
		return "", nil
	}
	w := newWriter(t)
	w.SetStyle(table.StyleRounded)
	w.AppendFooter(footer(t))
	return w.Render(), nil
}

// FormatRecord renders one record vertically.
func (f *TableFormatter) FormatRecord(columns []string, r football.Record) (string, error) {
	if len(r) == 0 {
		return "", nil
	}
	w := newWriter(recordTable(columns, r))
	w.SetStyle(table.StyleRounded)
	return w.Render(), nil
}

// FormatRaw is not supported for tables.
func (f *TableFormatter) FormatRaw(v any) (string, error) {
	return "", fmt.Errorf("raw payloads cannot be rendered as %s; use json or yaml", FormatTable)
}

// CSVFormatter renders results as comma-separated values.
type CSVFormatter struct{}

// FormatTable renders rows as CSV with a header line.
func (f *CSVFormatter) FormatTable(t *football.Table) (string, error) {
	if t == nil {
		return "", nil
	}
	return newWriter(t).RenderCSV(), nil
}

// FormatRecord renders one record as a single CSV row.
func (f *CSVFormatter) FormatRecord(columns []string, r football.Record) (string, error) {
	if len(r) == 0 {
		return "", nil
	}
	return newWriter(&football.Table{Columns: columns, Rows: []football.Record{r}}).RenderCSV(), nil
}

// FormatRaw is not supported for CSV.
func (f *CSVFormatter) FormatRaw(v any) (string, error) {
	return "", fmt.Errorf("raw payloads cannot be rendered as %s; use json or yaml", FormatCSV)
}

func newWriter(t *football.Table) table.Writer {
	w := table.NewWriter()

	header := make(table.Row, 0, len(t.Columns))
	for _, name := range t.Columns {
		header = append(header, name)
	}
	w.AppendHeader(header)

	for _, record := range t.Rows {
		row := make(table.Row, 0, len(t.Columns))
		for _, name := range t.Columns {
			row = append(row, cell(record[name]))
		}
		w.AppendRow(row)
	}
	return w
}

func footer(t *football.Table) table.Row {
	row := make(table.Row, len(t.Columns))
	for i := range row {
		row[i] = ""
	}
	if len(row) > 0 {
		row[0] = fmt.Sprintf("%d rows", t.Len())
	}
	return row
}
