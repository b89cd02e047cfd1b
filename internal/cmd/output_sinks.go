package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/matchlens/matchlens/internal/football"
	"github.com/matchlens/matchlens/internal/output"
)

type outputSink struct {
	writer io.Writer
	close  func() error
	path   string
}

func outputExtension(format output.Format) string {
	switch format {
	case output.FormatJSON:
		return "json"
	case output.FormatYAML:
		return "yaml"
	case output.FormatMarkdown:
		return "md"
	case output.FormatCSV:
		return "csv"
	default:
		return "txt"
	}
}

// openSink opens path for writing, creating parent directories. An empty
// path or "-" is stdout.
func openSink(path string, stdout io.Writer) (*outputSink, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" || trimmed == "-" {
		return &outputSink{writer: stdout, close: func() error { return nil }, path: "-"}, nil
	}

	if err := os.MkdirAll(filepath.Dir(trimmed), 0755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	file, err := os.Create(trimmed)
	if err != nil {
		return nil, err
	}
	return &outputSink{writer: file, close: file.Close, path: trimmed}, nil
}

// renderer resolves the --format and --out flags for one command.
type renderer struct {
	format    output.Format
	formatter output.Formatter
	path      string
	stdout    io.Writer
}

func newRenderer(stdout io.Writer) (*renderer, error) {
	format, err := output.ParseFormat(outputFormat)
	if err != nil {
		return nil, err
	}
	path := strings.TrimSpace(outPath)
	if path != "" && path != "-" && filepath.Ext(path) == "" {
		path += "." + outputExtension(format)
	}
	return &renderer{
		format:    format,
		formatter: output.NewFormatter(format),
		path:      path,
		stdout:    stdout,
	}, nil
}

func (r *renderer) write(body string) error {
	sink, err := openSink(r.path, r.stdout)
	if err != nil {
		return err
	}
	if body != "" && !strings.HasSuffix(body, "\n") {
		body += "\n"
	}
	if _, err := io.WriteString(sink.writer, body); err != nil {
		_ = sink.close()
		return err
	}
	return sink.close()
}

func (r *renderer) table(t *football.Table) error {
	if t.Len() == 0 && r.format == output.FormatTable {
		return r.write("No data")
	}
	body, err := r.formatter.FormatTable(t)
	if err != nil {
		return err
	}
	return r.write(body)
}

func (r *renderer) record(columns []string, rec football.Record) error {
	if len(rec) == 0 && r.format == output.FormatTable {
		return r.write("No data")
	}
	body, err := r.formatter.FormatRecord(columns, rec)
	if err != nil {
		return err
	}
	return r.write(body)
}

// raw renders unflattened payloads; text formats fall back to JSON.
func (r *renderer) raw(v any) error {
	formatter := r.formatter
	if r.format != output.FormatJSON && r.format != output.FormatYAML {
		formatter = output.NewFormatter(output.FormatJSON)
	}
	body, err := formatter.FormatRaw(v)
	if err != nil {
		return err
	}
	return r.write(body)
}
