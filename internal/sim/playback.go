package sim

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"phonedrain-sim/internal/fault"
	"phonedrain-sim/internal/telemetry"
)

// sleep is replaced in tests.
var sleep = time.Sleep

// ReplayLog replays sample rows from r to writer. Samples are spaced by
// their simulated timestamps divided by speed, so a speed of 3600 plays one
// simulated hour per second. If speed <= 0, no artificial delay is inserted.
func ReplayLog(r io.Reader, writer SampleWriter, speed float64) error {
	dec := json.NewDecoder(r)
	var prev time.Time
	for line := 1; ; line++ {
		var row telemetry.SampleRow
		if err := dec.Decode(&row); err != nil {
			if err == io.EOF {
				return nil
			}
			return fault.Integrationf("replay record %d: %v", line, err)
		}
		if !prev.IsZero() && speed > 0 {
			diff := row.Timestamp.Sub(prev)
			if speed != 1 {
				diff = time.Duration(float64(diff) / speed)
			}
			if diff > 0 {
				sleep(diff)
			}
		}
		if err := writer.Write(row); err != nil {
			return err
		}
		prev = row.Timestamp
	}
}

// ReplayLogFile opens a file and replays its sample rows.
func ReplayLogFile(path string, writer SampleWriter, speed float64) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return ReplayLog(f, writer, speed)
}
