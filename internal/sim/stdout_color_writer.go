// ColorStdoutWriter prints human-friendly, colorized battery output to STDOUT.
package sim

import (
	"fmt"
	"io"
	"os"
	"sync"
	"text/tabwriter"

	"phonedrain-sim/internal/config"
	"phonedrain-sim/internal/telemetry"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

const (
	colorReset   = "\x1b[0m"
	colorRed     = "\x1b[31m"
	colorGreen   = "\x1b[32m"
	colorYellow  = "\x1b[33m"
	colorBlue    = "\x1b[34m"
	colorMagenta = "\x1b[35m"
	colorCyan    = "\x1b[36m"
	colorGray    = "\x1b[90m"
)

// ColorStdoutWriter prints rows using ANSI colors.
type ColorStdoutWriter struct {
	cfg       *config.Config
	out       io.Writer
	once      sync.Once
	appColors map[string]string
	colorIdx  int
}

var appPalette = []string{colorGreen, colorYellow, colorBlue, colorMagenta, colorCyan}

// NewColorStdoutWriter creates a ColorStdoutWriter writing to os.Stdout.
func NewColorStdoutWriter(cfg *config.Config) *ColorStdoutWriter {
	return &ColorStdoutWriter{
		cfg:       cfg,
		out:       os.Stdout,
		appColors: make(map[string]string),
	}
}

func (w *ColorStdoutWriter) getAppColor(app string) string {
	if c, ok := w.appColors[app]; ok {
		return c
	}
	c := appPalette[w.colorIdx%len(appPalette)]
	w.appColors[app] = c
	w.colorIdx++
	return c
}

func (w *ColorStdoutWriter) printOverview() {
	if w.cfg == nil {
		return
	}
	fmt.Fprintf(w.out, "Device %s:\n", w.cfg.Name)
	tw := tabwriter.NewWriter(w.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Voltage (V):\t%.2f\n", w.cfg.System.VoltageV)
	fmt.Fprintf(tw, "Capacity (mAh):\t%.0f\n", w.cfg.System.CapacityMAh)
	fmt.Fprintf(tw, "Efficiency:\t%.2f\n", w.cfg.System.Efficiency)
	fmt.Fprintf(tw, "Display:\t%s\n", w.cfg.Display.Variant)
	fmt.Fprintf(tw, "CPU Cluster:\t%s\n", w.cfg.Processor.Cluster)
	fmt.Fprintf(tw, "Cellular Compensation:\t%s\n", w.cfg.Cellular.Compensation)
	tw.Flush()
	fmt.Fprintln(w.out)
}

func socColor(soc float64) string {
	switch {
	case soc <= 15:
		return colorRed
	case soc <= 40:
		return colorYellow
	default:
		return colorGreen
	}
}

// Write outputs a single sample row in colorized format.
func (w *ColorStdoutWriter) Write(row telemetry.SampleRow) error {
	w.once.Do(w.printOverview)
	fmt.Fprintf(w.out, "%s[%7.3fh]%s ", colorGray, row.ElapsedHours, colorReset)
	fmt.Fprintf(w.out, "%sscenario=%s%s ", colorBlue, row.Scenario, colorReset)
	if row.Segment >= 0 {
		fmt.Fprintf(w.out, "%sseg=%d%s ", colorGray, row.Segment, colorReset)
	}
	fmt.Fprintf(w.out, "%sapp=%s%s ", w.getAppColor(row.App), row.App, colorReset)
	fmt.Fprintf(w.out, "%ssoc=%.1f%%%s ", socColor(row.SOCPercent), row.SOCPercent, colorReset)
	fmt.Fprintf(w.out, "%scurrent=%.1fmA%s\n", colorCyan, row.CurrentMA, colorReset)
	return nil
}

// WriteBatch outputs multiple sample rows.
func (w *ColorStdoutWriter) WriteBatch(rows []telemetry.SampleRow) error {
	for _, r := range rows {
		_ = w.Write(r)
	}
	return nil
}

// WriteSummary prints the closing line of a run.
func (w *ColorStdoutWriter) WriteSummary(row telemetry.SummaryRow) error {
	w.once.Do(w.printOverview)
	stateColor := colorGreen
	if row.State == telemetry.StateDepleted {
		stateColor = colorRed
	}
	fmt.Fprintf(w.out, "%sSUMMARY%s scenario=%s %sstate=%s%s soc=%.1f%%→%.1f%% used=%.1fmAh duration=%.2fh mean=%.1fmA p95=%.1fmA peak=%.1fmA",
		colorMagenta, colorReset, row.Scenario, stateColor, row.State, colorReset,
		row.InitialSOCPercent, row.FinalSOCPercent, row.EnergyUsedMAh, row.DurationHours,
		row.MeanCurrentMA, row.P95CurrentMA, row.PeakCurrentMA)
	if row.State == telemetry.StateDepleted {
		fmt.Fprintf(w.out, " tte=%.2fh", row.TTEHours)
	}
	fmt.Fprintln(w.out)
	return nil
}

// WriteBenchmarks renders the time-to-empty table with one row per app and
// one column per initial SOC.
func (w *ColorStdoutWriter) WriteBenchmarks(rows []telemetry.BenchmarkRow) error {
	w.once.Do(w.printOverview)
	fmt.Fprintln(w.out, BenchmarkTable(rows))
	return nil
}

// BenchmarkTable pivots rows into a lipgloss table. Cells of runs that hit
// the time bound are prefixed with ">".
func BenchmarkTable(rows []telemetry.BenchmarkRow) string {
	var (
		apps   []string
		descs  = map[string]string{}
		levels []float64
		seen   = map[float64]bool{}
		cells  = map[string]map[float64]telemetry.BenchmarkRow{}
	)
	for _, r := range rows {
		if _, ok := cells[r.App]; !ok {
			apps = append(apps, r.App)
			descs[r.App] = r.Description
			cells[r.App] = map[float64]telemetry.BenchmarkRow{}
		}
		if !seen[r.InitialSOCPercent] {
			seen[r.InitialSOCPercent] = true
			levels = append(levels, r.InitialSOCPercent)
		}
		cells[r.App][r.InitialSOCPercent] = r
	}

	headers := []string{"App", "Description"}
	for _, l := range levels {
		headers = append(headers, fmt.Sprintf("TTE @%g%% (h)", l))
	}
	body := make([][]string, 0, len(apps))
	for _, app := range apps {
		line := []string{app, descs[app]}
		for _, l := range levels {
			c, ok := cells[app][l]
			switch {
			case !ok:
				line = append(line, "-")
			case c.Depleted:
				line = append(line, fmt.Sprintf("%.2f", c.TTEHours))
			default:
				line = append(line, fmt.Sprintf(">%.2f", c.TTEHours))
			}
		}
		body = append(body, line)
	}

	header := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(body...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			if col >= 2 {
				return cell.Align(lipgloss.Right)
			}
			return cell
		})
	return t.String()
}
