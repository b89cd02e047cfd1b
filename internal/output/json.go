package output

import (
	"encoding/json"

	"gopkg.in/yaml.v3"

	"github.com/matchlens/matchlens/internal/football"
)

// JSONFormatter renders results as JSON. Tables become an array of records.
type JSONFormatter struct {
	Indent bool
}

// FormatTable renders the rows as a JSON array.
func (f *JSONFormatter) FormatTable(t *football.Table) (string, error) {
	rows := []football.Record{}
	if t != nil && t.Rows != nil {
		rows = t.Rows
	}
	return f.marshal(rows)
}

// FormatRecord renders one record as a JSON object.
func (f *JSONFormatter) FormatRecord(columns []string, r football.Record) (string, error) {
	if r == nil {
		r = football.Record{}
	}
	return f.marshal(r)
}

// FormatRaw renders an unflattened payload.
func (f *JSONFormatter) FormatRaw(v any) (string, error) {
	return f.marshal(v)
}

func (f *JSONFormatter) marshal(v any) (string, error) {
	var (
		data []byte
		err  error
	)

	if f.Indent {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return "", err
	}

	return string(data), nil
}

// YAMLFormatter renders results as YAML.
type YAMLFormatter struct{}

// FormatTable renders the rows as a YAML sequence.
func (f *YAMLFormatter) FormatTable(t *football.Table) (string, error) {
	rows := []football.Record{}
	if t != nil && t.Rows != nil {
		rows = t.Rows
	}
	return marshalYAML(rows)
}

// FormatRecord renders one record as a YAML mapping.
func (f *YAMLFormatter) FormatRecord(columns []string, r football.Record) (string, error) {
	if r == nil {
		r = football.Record{}
	}
	return marshalYAML(r)
}

// FormatRaw renders an unflattened payload.
func (f *YAMLFormatter) FormatRaw(v any) (string, error) {
	return marshalYAML(v)
}

func marshalYAML(v any) (string, error) {
	data, err := yaml.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
