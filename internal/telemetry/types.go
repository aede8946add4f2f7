// Telemetry structs with greptime tags
package telemetry

import (
	"os"
	"time"
)

// Run states reported in summaries.
const (
	StateRunning  = "running"
	StateDepleted = "depleted"
	StateTimedOut = "timed_out"
	StateFailed   = "failed"
)

// SampleRow is one point of a state-of-charge trajectory.
type SampleRow struct {
	RunID        string    `json:"run_id"`        // TAG
	Scenario     string    `json:"scenario"`      // TAG
	App          string    `json:"app"`           // FIELD
	Segment      int       `json:"segment"`       // FIELD
	ElapsedHours float64   `json:"elapsed_hours"` // FIELD
	SOCPercent   float64   `json:"soc_percent"`   // FIELD
	CurrentMA    float64   `json:"current_ma"`    // FIELD
	Timestamp    time.Time `json:"ts"`            // TIME INDEX
}

// SummaryRow closes a run.
type SummaryRow struct {
	RunID             string    `json:"run_id"`   // TAG
	Scenario          string    `json:"scenario"` // TAG
	State             string    `json:"state"`
	InitialSOCPercent float64   `json:"initial_soc_percent"`
	FinalSOCPercent   float64   `json:"final_soc_percent"`
	EnergyUsedMAh     float64   `json:"energy_used_mah"`
	DurationHours     float64   `json:"duration_hours"`
	TTEHours          float64   `json:"tte_hours"`
	MeanCurrentMA     float64   `json:"mean_current_ma"`
	P95CurrentMA      float64   `json:"p95_current_ma"`
	PeakCurrentMA     float64   `json:"peak_current_ma"`
	Timestamp         time.Time `json:"ts"`
}

// BenchmarkRow is one cell of the static time-to-empty table.
type BenchmarkRow struct {
	RunID             string    `json:"run_id"` // TAG
	App               string    `json:"app"`    // TAG
	Description       string    `json:"description"`
	InitialSOCPercent float64   `json:"initial_soc_percent"`
	TTEHours          float64   `json:"tte_hours"`
	Depleted          bool      `json:"depleted"`
	Timestamp         time.Time `json:"ts"`
}

func tableName(env, def string) string {
	if v := os.Getenv(env); v != "" {
		return v
	}
	return def
}

// SampleTableName holds the GreptimeDB table for samples. It defaults to
// "battery_samples" and can be overridden via SAMPLE_TABLE.
var SampleTableName = tableName("SAMPLE_TABLE", "battery_samples")

// SummaryTableName defaults to "battery_runs", overridable via SUMMARY_TABLE.
var SummaryTableName = tableName("SUMMARY_TABLE", "battery_runs")

// BenchmarkTableName defaults to "battery_tte", overridable via BENCHMARK_TABLE.
var BenchmarkTableName = tableName("BENCHMARK_TABLE", "battery_tte")

func (SampleRow) TableName() string    { return SampleTableName }
func (SummaryRow) TableName() string   { return SummaryTableName }
func (BenchmarkRow) TableName() string { return BenchmarkTableName }
