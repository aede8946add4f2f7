package sim

import (
	"context"
	"testing"
	"time"

	gpb "github.com/GreptimeTeam/greptime-proto/go/greptime/v1"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table"

	"phonedrain-sim/internal/telemetry"
)

type mockGreptimeClient struct {
	tables []*table.Table
}

func (m *mockGreptimeClient) Write(ctx context.Context, tables ...*table.Table) (*gpb.GreptimeResponse, error) {
	m.tables = append(m.tables, tables...)
	return &gpb.GreptimeResponse{}, nil
}

func TestGreptimeWriterSamples(t *testing.T) {
	ts := time.Unix(0, 0).UTC()
	rows := []telemetry.SampleRow{
		{RunID: "r1", Scenario: "commute", App: "music", Segment: 2, ElapsedHours: 0.5, SOCPercent: 91.5, CurrentMA: 120, Timestamp: ts},
		{RunID: "r1", Scenario: "commute", App: "video", Segment: 3, ElapsedHours: 1, SOCPercent: 80, CurrentMA: 400, Timestamp: ts.Add(time.Hour)},
	}

	m := &mockGreptimeClient{}
	w := &GreptimeDBWriter{client: m, sampleTable: "battery_samples"}
	if err := w.WriteBatch(rows); err != nil {
		t.Fatalf("WriteBatch: %v", err)
	}
	if len(m.tables) != 1 {
		t.Fatalf("expected one table write, got %d", len(m.tables))
	}

	got := m.tables[0].GetRows()
	if len(got.Schema) != 8 {
		t.Fatalf("unexpected schema length: %d", len(got.Schema))
	}
	if got.Schema[0].SemanticType != gpb.SemanticType_TAG {
		t.Fatalf("run_id semantic type = %v, want TAG", got.Schema[0].SemanticType)
	}
	if got.Schema[7].Datatype != gpb.ColumnDataType_TIMESTAMP_MILLISECOND {
		t.Fatalf("ts type = %v", got.Schema[7].Datatype)
	}
	if len(got.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(got.Rows))
	}
	if app := got.Rows[1].Values[2].GetStringValue(); app != "video" {
		t.Fatalf("app = %s, want video", app)
	}
	if seg := got.Rows[0].Values[3].GetI64Value(); seg != 2 {
		t.Fatalf("segment = %d, want 2", seg)
	}
	if soc := got.Rows[0].Values[5].GetF64Value(); soc != 91.5 {
		t.Fatalf("soc = %v, want 91.5", soc)
	}
}

func TestGreptimeWriterEmptyBatch(t *testing.T) {
	m := &mockGreptimeClient{}
	w := &GreptimeDBWriter{client: m, sampleTable: "battery_samples", benchmarkTable: "battery_tte"}
	if err := w.WriteBatch(nil); err != nil {
		t.Fatalf("WriteBatch: %v", err)
	}
	if err := w.WriteBenchmarks(nil); err != nil {
		t.Fatalf("WriteBenchmarks: %v", err)
	}
	if len(m.tables) != 0 {
		t.Fatalf("expected no writes, got %d", len(m.tables))
	}
}

func TestGreptimeWriterSummaryAndBenchmarks(t *testing.T) {
	ts := time.Unix(0, 0).UTC()
	m := &mockGreptimeClient{}
	w := &GreptimeDBWriter{client: m, summaryTable: "battery_runs", benchmarkTable: "battery_tte"}

	if err := w.WriteSummary(telemetry.SummaryRow{RunID: "r1", Scenario: "video", State: telemetry.StateDepleted, TTEHours: 9.5, Timestamp: ts}); err != nil {
		t.Fatalf("WriteSummary: %v", err)
	}
	if err := w.WriteBenchmarks([]telemetry.BenchmarkRow{{RunID: "g1", App: "music", InitialSOCPercent: 50, TTEHours: 12.25, Depleted: true, Timestamp: ts}}); err != nil {
		t.Fatalf("WriteBenchmarks: %v", err)
	}
	if len(m.tables) != 2 {
		t.Fatalf("expected two writes, got %d", len(m.tables))
	}

	sum := m.tables[0].GetRows().Rows[0]
	if st := sum.Values[2].GetStringValue(); st != telemetry.StateDepleted {
		t.Fatalf("state = %s", st)
	}
	if tte := sum.Values[7].GetF64Value(); tte != 9.5 {
		t.Fatalf("tte = %v, want 9.5", tte)
	}

	bench := m.tables[1].GetRows().Rows[0]
	if app := bench.Values[1].GetStringValue(); app != "music" {
		t.Fatalf("app = %s, want music", app)
	}
	if !bench.Values[5].GetBoolValue() {
		t.Fatalf("depleted flag lost")
	}
}
