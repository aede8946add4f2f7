package sim

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"phonedrain-sim/internal/telemetry"
)

// JSONStdoutWriter prints every row as one JSON line to STDOUT.
type JSONStdoutWriter struct {
	out io.Writer
}

// NewJSONStdoutWriter creates a JSONStdoutWriter writing to os.Stdout.
func NewJSONStdoutWriter() *JSONStdoutWriter {
	return &JSONStdoutWriter{out: os.Stdout}
}

func (w *JSONStdoutWriter) print(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w.out, string(data))
	return err
}

// Write outputs a sample row in JSON format.
func (w *JSONStdoutWriter) Write(row telemetry.SampleRow) error {
	return w.print(row)
}

// WriteBatch outputs multiple sample rows in JSON format.
func (w *JSONStdoutWriter) WriteBatch(rows []telemetry.SampleRow) error {
	for _, r := range rows {
		if err := w.Write(r); err != nil {
			return err
		}
	}
	return nil
}

// WriteSummary outputs a run summary in JSON format.
func (w *JSONStdoutWriter) WriteSummary(row telemetry.SummaryRow) error {
	return w.print(row)
}

// WriteBenchmarks outputs benchmark rows in JSON format.
func (w *JSONStdoutWriter) WriteBenchmarks(rows []telemetry.BenchmarkRow) error {
	for _, r := range rows {
		if err := w.print(r); err != nil {
			return err
		}
	}
	return nil
}
