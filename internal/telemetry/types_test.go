package telemetry

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestSampleRowJSONKeys(t *testing.T) {
	row := SampleRow{RunID: "r1", Scenario: "video", SOCPercent: 42.5, Timestamp: time.Unix(0, 0).UTC()}
	b, err := json.Marshal(row)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, key := range []string{`"run_id":"r1"`, `"soc_percent":42.5`, `"ts":"1970-01-01T00:00:00Z"`} {
		if !strings.Contains(string(b), key) {
			t.Fatalf("missing %s in %s", key, b)
		}
	}
}

func TestTableNames(t *testing.T) {
	if (SampleRow{}).TableName() != SampleTableName || SampleTableName == "" {
		t.Fatalf("unexpected sample table %q", SampleTableName)
	}
	if (SummaryRow{}).TableName() == (BenchmarkRow{}).TableName() {
		t.Fatalf("summary and benchmark tables must differ")
	}
	t.Setenv("SAMPLE_TABLE", "custom")
	if got := tableName("SAMPLE_TABLE", "battery_samples"); got != "custom" {
		t.Fatalf("env override ignored: %q", got)
	}
}
