// Package output renders flat football tables for the terminal and for files.
package output

import (
	"fmt"
	"strings"

	"github.com/matchlens/matchlens/internal/football"
)

// Format represents an output format.
type Format string

const (
	FormatTable    Format = "table"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "markdown"
	FormatCSV      Format = "csv"
)

// Formats lists every supported format, for flag help.
var Formats = []Format{FormatTable, FormatJSON, FormatYAML, FormatMarkdown, FormatCSV}

// Formatter renders adapter results.
type Formatter interface {
	// FormatTable renders a multi-row result.
	FormatTable(t *football.Table) (string, error)
	// FormatRecord renders a single record with its fields in columns order.
	FormatRecord(columns []string, r football.Record) (string, error)
	// FormatRaw renders an unflattened payload.
	FormatRaw(v any) (string, error)
}

// ParseFormat validates and normalizes a format string.
func ParseFormat(value string) (Format, error) {
	normalized := Format(strings.ToLower(strings.TrimSpace(value)))
	switch normalized {
	case "":
		return FormatTable, nil
	case "md":
		return FormatMarkdown, nil
	case "yml":
		return FormatYAML, nil
	}
	for _, f := range Formats {
		if normalized == f {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported output format: %s", value)
}

// NewFormatter returns a formatter for the requested format.
func NewFormatter(format Format) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Indent: true}
	case FormatYAML:
		return &YAMLFormatter{}
	case FormatMarkdown:
		return &MarkdownFormatter{}
	case FormatCSV:
		return &CSVFormatter{}
	default:
		return &TableFormatter{}
	}
}

// recordTable turns one record into a two-column field/value table.
func recordTable(columns []string, r football.Record) *football.Table {
	t := &football.Table{Columns: []string{"field", "value"}}
	for _, name := range columns {
		t.Rows = append(t.Rows, football.Record{"field": name, "value": r[name]})
	}
	return t
}

// cell renders one value for text formats. Missing values print empty.
func cell(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case float64:
		if value == float64(int64(value)) {
			return fmt.Sprintf("%d", int64(value))
		}
		return fmt.Sprintf("%g", value)
	default:
		return fmt.Sprint(value)
	}
}
