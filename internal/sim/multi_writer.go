package sim

import "phonedrain-sim/internal/telemetry"

// MultiWriter fan-outs rows to multiple sinks.
type MultiWriter struct {
	sinks []Sink
}

// NewMultiWriter creates a new MultiWriter.
func NewMultiWriter(sinks ...Sink) *MultiWriter {
	return &MultiWriter{sinks: sinks}
}

// Write sends a sample row to all sinks.
func (mw *MultiWriter) Write(row telemetry.SampleRow) error {
	for _, w := range mw.sinks {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// WriteBatch sends multiple sample rows to all sinks, using batch if supported.
func (mw *MultiWriter) WriteBatch(rows []telemetry.SampleRow) error {
	for _, w := range mw.sinks {
		if err := writeSamples(w, rows); err != nil {
			return err
		}
	}
	return nil
}

// WriteSummary sends a run summary to all sinks.
func (mw *MultiWriter) WriteSummary(row telemetry.SummaryRow) error {
	for _, w := range mw.sinks {
		if err := w.WriteSummary(row); err != nil {
			return err
		}
	}
	return nil
}

// WriteBenchmarks sends the benchmark table to all sinks.
func (mw *MultiWriter) WriteBenchmarks(rows []telemetry.BenchmarkRow) error {
	for _, w := range mw.sinks {
		if err := w.WriteBenchmarks(rows); err != nil {
			return err
		}
	}
	return nil
}
