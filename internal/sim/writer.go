package sim

import "phonedrain-sim/internal/telemetry"

// SampleWriter is an interface to support different output writers.
type SampleWriter interface {
	Write(telemetry.SampleRow) error
}

// Optional: Writers can also support batch mode
type batchWriter interface {
	WriteBatch([]telemetry.SampleRow) error
}

// SummaryWriter receives one row per finished run.
type SummaryWriter interface {
	WriteSummary(telemetry.SummaryRow) error
}

// BenchmarkWriter receives the static time-to-empty table.
type BenchmarkWriter interface {
	WriteBenchmarks([]telemetry.BenchmarkRow) error
}

// Sink accepts every row kind the simulator emits.
type Sink interface {
	SampleWriter
	SummaryWriter
	BenchmarkWriter
}

func writeSamples(w SampleWriter, rows []telemetry.SampleRow) error {
	if bw, ok := w.(batchWriter); ok {
		return bw.WriteBatch(rows)
	}
	for _, r := range rows {
		if err := w.Write(r); err != nil {
			return err
		}
	}
	return nil
}
