package main

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"phonedrain-sim/internal/fault"
	"phonedrain-sim/internal/sim"
	"phonedrain-sim/internal/telemetry"
)

func TestNewSinkPrintOnly(t *testing.T) {
	s, cleanup, err := newSink(nil, slog.Default(), true, false, "")
	if err != nil {
		t.Fatalf("newSink returned error: %v", err)
	}
	cleanup()
	if _, ok := s.(*sim.JSONStdoutWriter); !ok {
		t.Fatalf("expected *sim.JSONStdoutWriter, got %T", s)
	}
}

func TestNewSinkGreptimeFallback(t *testing.T) {
	t.Setenv("GREPTIMEDB_ENDPOINT", "")
	s, cleanup, err := newSink(nil, slog.Default(), false, false, "")
	if err != nil {
		t.Fatalf("newSink returned error: %v", err)
	}
	cleanup()
	if _, ok := s.(*sim.JSONStdoutWriter); !ok {
		t.Fatalf("expected *sim.JSONStdoutWriter, got %T", s)
	}
}

func TestNewSinkLogFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "samples.jsonl")
	s, cleanup, err := newSink(nil, slog.Default(), true, false, path)
	if err != nil {
		t.Fatalf("newSink returned error: %v", err)
	}
	if _, ok := s.(*sim.MultiWriter); !ok {
		t.Fatalf("expected *sim.MultiWriter, got %T", s)
	}
	now := time.Now()
	if err := s.Write(telemetry.SampleRow{RunID: "r1", App: "music", SOCPercent: 90, Timestamp: now}); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if err := s.WriteSummary(telemetry.SummaryRow{RunID: "r1", State: telemetry.StateTimedOut, Timestamp: now}); err != nil {
		t.Fatalf("write summary failed: %v", err)
	}
	if err := s.WriteBenchmarks([]telemetry.BenchmarkRow{{RunID: "g1", App: "music", Timestamp: now}}); err != nil {
		t.Fatalf("write benchmarks failed: %v", err)
	}
	cleanup()
	for _, p := range []string{path, path + ".summary", path + ".tte"} {
		info, err := os.Stat(p)
		if err != nil {
			t.Fatalf("stat %s failed: %v", p, err)
		}
		if info.Size() == 0 {
			t.Fatalf("expected %s to be non-empty", p)
		}
	}
}

func TestSelectJourneys(t *testing.T) {
	all, err := selectJourneys("", "")
	if err != nil {
		t.Fatalf("selectJourneys: %v", err)
	}
	if len(all) != 4 || all[0].ID != "weekend" {
		t.Fatalf("unexpected built-in journeys: %+v", all)
	}
	one, err := selectJourneys("", "business")
	if err != nil || len(one) != 1 || one[0].ID != "business" {
		t.Fatalf("expected business journey, got %+v (%v)", one, err)
	}
	if _, err := selectJourneys("", "holiday"); !errors.Is(err, fault.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	file, err := selectJourneys("../../internal/scenario/testdata/journeys.yaml", "evening")
	if err != nil || file[0].Segments[0].App != "music" {
		t.Fatalf("expected evening journey from file, got %+v (%v)", file, err)
	}
}
