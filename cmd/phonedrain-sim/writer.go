package main

import (
	"log/slog"
	"os"

	"phonedrain-sim/internal/config"
	"phonedrain-sim/internal/sim"
)

// newSink sets up the output sink based on flags and env vars.
// It returns the sink and a cleanup function to close any resources.
func newSink(cfg *config.Config, log *slog.Logger, printOnly, tui bool, logFile string) (sim.Sink, func(), error) {
	base, closeBase, err := baseSink(cfg, log, printOnly, tui)
	if err != nil {
		return nil, nil, err
	}
	if logFile == "" {
		return base, closeBase, nil
	}
	fw, err := sim.NewFileWriter(logFile, logFile+".summary", logFile+".tte")
	if err != nil {
		closeBase()
		return nil, nil, err
	}
	cleanup := func() {
		fw.Close()
		closeBase()
	}
	return sim.NewMultiWriter(base, fw), cleanup, nil
}

// baseSink chooses the underlying sink based on flags and env vars.
func baseSink(cfg *config.Config, log *slog.Logger, printOnly, tui bool) (sim.Sink, func(), error) {
	if tui {
		w := sim.NewTUIWriter(cfg)
		return w, func() { w.Close() }, nil
	}
	endpoint := os.Getenv("GREPTIMEDB_ENDPOINT")
	if printOnly || endpoint == "" {
		return sim.NewStdoutWriter(cfg), func() {}, nil
	}
	database := os.Getenv("GREPTIMEDB_DATABASE")
	if database == "" {
		database = "public"
	}
	w, err := sim.NewGreptimeDBWriter(endpoint, database, log)
	if err != nil {
		return nil, nil, err
	}
	log.Info("writing to greptimedb", "endpoint", endpoint, "database", database)
	return w, func() {}, nil
}
