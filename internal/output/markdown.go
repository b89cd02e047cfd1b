package output

import (
	"fmt"
	"strings"

	"github.com/matchlens/matchlens/internal/football"
)

// MarkdownFormatter renders results as a markdown table.
type MarkdownFormatter struct{}

// FormatTable renders rows as a markdown table followed by a row count.
func (f *MarkdownFormatter) FormatTable(t *football.Table) (string, error) {
	if t == nil {
		return "", nil
	}

	var sb strings.Builder
	writeMarkdownTable(&sb, t)
	sb.WriteString(fmt.Sprintf("\n**Rows**: %d\n", t.Len()))
	return sb.String(), nil
}

// FormatRecord renders one record as a field/value table.
func (f *MarkdownFormatter) FormatRecord(columns []string, r football.Record) (string, error) {
	if len(r) == 0 {
		return "", nil
	}

	var sb strings.Builder
	writeMarkdownTable(&sb, recordTable(columns, r))
	return sb.String(), nil
}

// FormatRaw is not supported for markdown.
func (f *MarkdownFormatter) FormatRaw(v any) (string, error) {
	return "", fmt.Errorf("raw payloads cannot be rendered as %s; use json or yaml", FormatMarkdown)
}

func writeMarkdownTable(sb *strings.Builder, t *football.Table) {
	header := make([]string, 0, len(t.Columns))
	rule := make([]string, 0, len(t.Columns))
	for _, name := range t.Columns {
		header = append(header, escapeMarkdownCell(name))
		rule = append(rule, strings.Repeat("-", max(3, len(name))))
	}
	sb.WriteString("| " + strings.Join(header, " | ") + " |\n")
	sb.WriteString("|" + strings.Join(rule, "|") + "|\n")

	for _, record := range t.Rows {
		cells := make([]string, 0, len(t.Columns))
		for _, name := range t.Columns {
			cells = append(cells, escapeMarkdownCell(cell(record[name])))
		}
		sb.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
}

func escapeMarkdownCell(value string) string {
	value = strings.ReplaceAll(value, "\n", " ")
	return strings.ReplaceAll(value, "|", "\\|")
}
