package sim

import (
	"encoding/json"
	"os"

	"phonedrain-sim/internal/telemetry"
)

// FileWriter writes samples, run summaries and benchmark rows to JSONL files.
type FileWriter struct {
	sampleFile  *os.File
	summaryFile *os.File
	benchFile   *os.File
	sampleEnc   *json.Encoder
	summaryEnc  *json.Encoder
	benchEnc    *json.Encoder
}

// NewFileWriter creates a FileWriter. summaryPath or benchmarkPath may be empty to skip those logs.
func NewFileWriter(samplePath, summaryPath, benchmarkPath string) (*FileWriter, error) {
	sf, err := os.Create(samplePath)
	if err != nil {
		return nil, err
	}
	fw := &FileWriter{sampleFile: sf, sampleEnc: json.NewEncoder(sf)}
	if summaryPath != "" {
		f, err := os.Create(summaryPath)
		if err != nil {
			fw.Close()
			return nil, err
		}
		fw.summaryFile = f
		fw.summaryEnc = json.NewEncoder(f)
	}
	if benchmarkPath != "" {
		f, err := os.Create(benchmarkPath)
		if err != nil {
			fw.Close()
			return nil, err
		}
		fw.benchFile = f
		fw.benchEnc = json.NewEncoder(f)
	}
	return fw, nil
}

// Write logs a single sample row.
func (f *FileWriter) Write(row telemetry.SampleRow) error {
	return f.sampleEnc.Encode(row)
}

// WriteBatch logs multiple sample rows.
func (f *FileWriter) WriteBatch(rows []telemetry.SampleRow) error {
	for _, r := range rows {
		if err := f.Write(r); err != nil {
			return err
		}
	}
	return nil
}

// WriteSummary logs a run summary, if enabled.
func (f *FileWriter) WriteSummary(row telemetry.SummaryRow) error {
	if f.summaryEnc == nil {
		return nil
	}
	return f.summaryEnc.Encode(row)
}

// WriteBenchmarks logs benchmark rows, if enabled.
func (f *FileWriter) WriteBenchmarks(rows []telemetry.BenchmarkRow) error {
	if f.benchEnc == nil {
		return nil
	}
	for _, r := range rows {
		if err := f.benchEnc.Encode(r); err != nil {
			return err
		}
	}
	return nil
}

// Close closes any underlying files.
func (f *FileWriter) Close() error {
	var err error
	for _, file := range []*os.File{f.sampleFile, f.summaryFile, f.benchFile} {
		if file == nil {
			continue
		}
		if e := file.Close(); e != nil && err == nil {
			err = e
		}
	}
	return err
}
