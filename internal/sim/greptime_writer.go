package sim

import (
	"context"
	"log/slog"
	"net"
	"strconv"

	"phonedrain-sim/internal/fault"
	"phonedrain-sim/internal/telemetry"

	gpb "github.com/GreptimeTeam/greptime-proto/go/greptime/v1"
	greptime "github.com/GreptimeTeam/greptimedb-ingester-go"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table/types"
)

// greptimeClient is the subset of the ingester client used by the writer.
type greptimeClient interface {
	Write(ctx context.Context, tables ...*table.Table) (*gpb.GreptimeResponse, error)
}

// GreptimeDBWriter writes samples, summaries and benchmark rows to GreptimeDB
// via the ingester client. Tables are created on first write.
type GreptimeDBWriter struct {
	client         greptimeClient
	sampleTable    string
	summaryTable   string
	benchmarkTable string
	log            *slog.Logger
}

// NewGreptimeDBWriter connects to endpoint ("host" or "host:port") and
// writes into database.
func NewGreptimeDBWriter(endpoint, database string, log *slog.Logger) (*GreptimeDBWriter, error) {
	host, port := endpoint, 0
	if h, p, err := net.SplitHostPort(endpoint); err == nil {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fault.Configf("greptimedb endpoint %q: bad port", endpoint)
		}
		host, port = h, n
	}
	cfg := greptime.NewConfig(host).WithDatabase(database)
	if port != 0 {
		cfg = cfg.WithPort(port)
	}
	client, err := greptime.NewClient(cfg)
	if err != nil {
		return nil, fault.Integrationf("greptimedb client: %v", err)
	}
	if log == nil {
		log = slog.Default()
	}
	return &GreptimeDBWriter{
		client:         client,
		sampleTable:    telemetry.SampleTableName,
		summaryTable:   telemetry.SummaryTableName,
		benchmarkTable: telemetry.BenchmarkTableName,
		log:            log,
	}, nil
}

func (w *GreptimeDBWriter) logger() *slog.Logger {
	if w.log == nil {
		return slog.Default()
	}
	return w.log
}

func (w *GreptimeDBWriter) flush(name string, tbl *table.Table, rows int) error {
	if _, err := w.client.Write(context.Background(), tbl); err != nil {
		w.logger().Error("greptimedb write failed", "table", name, "error", err)
		return err
	}
	w.logger().Debug("greptimedb write", "table", name, "rows", rows)
	return nil
}

// Write inserts a single sample row.
func (w *GreptimeDBWriter) Write(row telemetry.SampleRow) error {
	return w.WriteBatch([]telemetry.SampleRow{row})
}

// WriteBatch inserts multiple sample rows.
func (w *GreptimeDBWriter) WriteBatch(rows []telemetry.SampleRow) error {
	if len(rows) == 0 {
		return nil
	}
	tbl, err := table.New(w.sampleTable)
	if err != nil {
		return err
	}
	if err := addColumns(tbl,
		tag("run_id"), tag("scenario"),
		field("app", types.STRING), field("segment", types.INT64),
		field("elapsed_hours", types.FLOAT64), field("soc_percent", types.FLOAT64),
		field("current_ma", types.FLOAT64),
	); err != nil {
		return err
	}
	for _, r := range rows {
		if err := tbl.AddRow(r.RunID, r.Scenario, r.App, int64(r.Segment),
			r.ElapsedHours, r.SOCPercent, r.CurrentMA, r.Timestamp); err != nil {
			return err
		}
	}
	return w.flush(w.sampleTable, tbl, len(rows))
}

// WriteSummary inserts a run summary.
func (w *GreptimeDBWriter) WriteSummary(r telemetry.SummaryRow) error {
	tbl, err := table.New(w.summaryTable)
	if err != nil {
		return err
	}
	if err := addColumns(tbl,
		tag("run_id"), tag("scenario"),
		field("state", types.STRING),
		field("initial_soc_percent", types.FLOAT64), field("final_soc_percent", types.FLOAT64),
		field("energy_used_mah", types.FLOAT64), field("duration_hours", types.FLOAT64),
		field("tte_hours", types.FLOAT64), field("mean_current_ma", types.FLOAT64),
		field("p95_current_ma", types.FLOAT64), field("peak_current_ma", types.FLOAT64),
	); err != nil {
		return err
	}
	if err := tbl.AddRow(r.RunID, r.Scenario, r.State, r.InitialSOCPercent, r.FinalSOCPercent,
		r.EnergyUsedMAh, r.DurationHours, r.TTEHours, r.MeanCurrentMA, r.P95CurrentMA,
		r.PeakCurrentMA, r.Timestamp); err != nil {
		return err
	}
	return w.flush(w.summaryTable, tbl, 1)
}

// WriteBenchmarks inserts the static time-to-empty table.
func (w *GreptimeDBWriter) WriteBenchmarks(rows []telemetry.BenchmarkRow) error {
	if len(rows) == 0 {
		return nil
	}
	tbl, err := table.New(w.benchmarkTable)
	if err != nil {
		return err
	}
	if err := addColumns(tbl,
		tag("run_id"), tag("app"),
		field("initial_soc_percent", types.FLOAT64), field("description", types.STRING),
		field("tte_hours", types.FLOAT64), field("depleted", types.BOOLEAN),
	); err != nil {
		return err
	}
	for _, r := range rows {
		if err := tbl.AddRow(r.RunID, r.App, r.InitialSOCPercent, r.Description,
			r.TTEHours, r.Depleted, r.Timestamp); err != nil {
			return err
		}
	}
	return w.flush(w.benchmarkTable, tbl, len(rows))
}

type column struct {
	name  string
	typ   types.ColumnType
	isTag bool
}

func tag(name string) column                         { return column{name: name, typ: types.STRING, isTag: true} }
func field(name string, typ types.ColumnType) column { return column{name: name, typ: typ} }

// addColumns declares cols followed by the "ts" time index.
func addColumns(tbl *table.Table, cols ...column) error {
	for _, c := range cols {
		var err error
		if c.isTag {
			err = tbl.AddTagColumn(c.name, c.typ)
		} else {
			err = tbl.AddFieldColumn(c.name, c.typ)
		}
		if err != nil {
			return err
		}
	}
	return tbl.AddTimestampColumn("ts", types.TIMESTAMP_MILLISECOND)
}
