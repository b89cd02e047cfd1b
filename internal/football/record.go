package football

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Record is one flat row: fixed column names mapped to scalars or nil.
type Record map[string]any

// Table is an ordered set of flat records sharing the same columns.
type Table struct {
	Columns []string `json:"columns"`
	Rows    []Record `json:"rows"`
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// column maps a flat key to a path inside a nested response item.
type column struct {
	name string
	path []string
}

func col(name string, path ...string) column {
	return column{name: name, path: path}
}

func columnNames(columns []column) []string {
	names := make([]string, 0, len(columns))
	for _, c := range columns {
		names = append(names, c.name)
	}
	return names
}

// extract flattens item using columns. Missing paths yield nil.
func extract(item map[string]any, columns []column) Record {
	record := make(Record, len(columns))
	for _, c := range columns {
		record[c.name] = dig(item, c.path...)
	}
	return record
}

// object returns v as a mapping, or an empty mapping when it is not one.
func object(v any) map[string]any {
	if m, ok := v.(map[string]any); ok && m != nil {
		return m
	}
	return map[string]any{}
}

// list returns v as a slice, or nil when it is not one.
func list(v any) []any {
	if items, ok := v.([]any); ok {
		return items
	}
	return nil
}

// dig walks path through nested mappings. Every missing or non-mapping
// intermediate resolves to an empty mapping, so the final lookup is nil-safe.
func dig(m map[string]any, path ...string) any {
	if len(path) == 0 {
		return nil
	}
	current := object(m)
	for _, key := range path[:len(path)-1] {
		current = object(current[key])
	}
	return scalar(current[path[len(path)-1]])
}

// scalar drops nested values so records stay flat.
func scalar(v any) any {
	switch v.(type) {
	case map[string]any, []any:
		return nil
	default:
		return v
	}
}

func responseItems(payload map[string]any) []map[string]any {
	raw := list(object(payload)["response"])
	items := make([]map[string]any, 0, len(raw))
	for _, entry := range raw {
		if m, ok := entry.(map[string]any); ok {
			items = append(items, m)
		}
	}
	return items
}

func asInt(v any) (int, bool) {
	switch value := v.(type) {
	case int:
		return value, true
	case int64:
		return int(value), true
	case float64:
		return int(value), true
	case json.Number:
		parsed, err := value.Int64()
		if err != nil {
			return 0, false
		}
		return int(parsed), true
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

func asString(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	default:
		return fmt.Sprint(value)
	}
}
