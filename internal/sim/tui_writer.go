package sim

import (
	"fmt"
	"os"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"phonedrain-sim/internal/config"
	"phonedrain-sim/internal/telemetry"
)

// teaProgram abstracts bubbletea.Program for testing.
type teaProgram interface {
	Send(tea.Msg)
}

// logMsg carries a log line for the viewport.
type logMsg struct{ line string }

// sampleMsg carries the latest trajectory point.
type sampleMsg struct{ telemetry.SampleRow }

// summaryMsg closes a run.
type summaryMsg struct{ telemetry.SummaryRow }

// benchmarkMsg carries the static time-to-empty table.
type benchmarkMsg struct{ rows []telemetry.BenchmarkRow }

// finishedMsg tells the model that no more rows will arrive.
type finishedMsg struct{}

const maxRunRows = 8

// TUIWriter renders battery runs using a bubbletea TUI.
type TUIWriter struct {
	program    teaProgram
	appColors  map[string]string
	colorIdx   int
	done       chan struct{}
	sendSignal atomic.Bool
}

// NewTUIWriter starts a bubbletea program and returns a TUIWriter.
func NewTUIWriter(cfg *config.Config) *TUIWriter {
	w := &TUIWriter{appColors: make(map[string]string), done: make(chan struct{})}
	w.sendSignal.Store(true)
	p := tea.NewProgram(newTUIModel(cfg), tea.WithAltScreen())
	w.program = p
	go func() {
		_, _ = p.Run()
		close(w.done)
		if w.sendSignal.Load() {
			if proc, err := os.FindProcess(os.Getpid()); err == nil {
				_ = proc.Signal(os.Interrupt)
			}
		}
	}()
	return w
}

func (w *TUIWriter) getAppColor(app string) string {
	if c, ok := w.appColors[app]; ok {
		return c
	}
	c := appPalette[w.colorIdx%len(appPalette)]
	w.appColors[app] = c
	w.colorIdx++
	return c
}

// Write implements SampleWriter.
func (w *TUIWriter) Write(row telemetry.SampleRow) error {
	line := fmt.Sprintf("%s[%7.3fh]%s %sscenario=%s%s %sseg=%d%s %sapp=%s%s %ssoc=%.1f%%%s %scurrent=%.1fmA%s",
		colorGray, row.ElapsedHours, colorReset,
		colorBlue, row.Scenario, colorReset,
		colorGray, row.Segment, colorReset,
		w.getAppColor(row.App), row.App, colorReset,
		socColor(row.SOCPercent), row.SOCPercent, colorReset,
		colorCyan, row.CurrentMA, colorReset,
	)
	w.program.Send(logMsg{line: line})
	w.program.Send(sampleMsg{row})
	return nil
}

// WriteBatch outputs multiple sample rows.
func (w *TUIWriter) WriteBatch(rows []telemetry.SampleRow) error {
	for _, r := range rows {
		_ = w.Write(r)
	}
	return nil
}

// WriteSummary implements SummaryWriter.
func (w *TUIWriter) WriteSummary(row telemetry.SummaryRow) error {
	w.program.Send(summaryMsg{row})
	return nil
}

// WriteBenchmarks implements BenchmarkWriter.
func (w *TUIWriter) WriteBenchmarks(rows []telemetry.BenchmarkRow) error {
	w.program.Send(benchmarkMsg{rows: rows})
	return nil
}

// Close marks the output as complete and blocks until the user quits the
// TUI, so the final state stays on screen.
func (w *TUIWriter) Close() error {
	w.sendSignal.Store(false)
	if w.program != nil {
		w.program.Send(finishedMsg{})
	}
	if w.done != nil {
		<-w.done
	}
	return nil
}

type tuiModel struct {
	cfg          *config.Config
	table        table.Model
	runs         table.Model
	bar          progress.Model
	vp           viewport.Model
	logs         []string
	last         telemetry.SampleRow
	haveSample   bool
	summaries    []telemetry.SummaryRow
	benchmarks   string
	finished     bool
	wrap         bool
	autoscroll   bool
	showRuns     bool
	help         bool
	header       string
	headerHeight int
	width        int
	height       int
}

func newTUIModel(cfg *config.Config) tuiModel {
	cols := []table.Column{
		{Title: "Device", Width: 18},
		{Title: "Value", Width: 12},
		{Title: "Device", Width: 18},
		{Title: "Value", Width: 12},
	}
	var rows []table.Row
	if cfg != nil {
		rows = []table.Row{
			{"Name", cfg.Name, "Display", cfg.Display.Variant},
			{"Voltage (V)", fmt.Sprintf("%.2f", cfg.System.VoltageV), "CPU Cluster", cfg.Processor.Cluster},
			{"Capacity (mAh)", fmt.Sprintf("%.0f", cfg.System.CapacityMAh), "Compensation", cfg.Cellular.Compensation},
			{"Efficiency", fmt.Sprintf("%.2f", cfg.System.Efficiency), "Wi-Fi Floor", fmt.Sprintf("%.0f", cfg.WiFi.RSSIFloor)},
		}
	}
	t := table.New(table.WithColumns(cols), table.WithRows(rows), table.WithHeight(len(rows)+1))
	runs := table.New(table.WithColumns([]table.Column{
		{Title: "Scenario", Width: 14},
		{Title: "State", Width: 10},
		{Title: "SOC %", Width: 12},
		{Title: "Used mAh", Width: 9},
		{Title: "Hours", Width: 7},
		{Title: "Mean mA", Width: 8},
	}), table.WithHeight(2))
	return tuiModel{
		cfg:        cfg,
		table:      t,
		runs:       runs,
		bar:        progress.New(progress.WithDefaultGradient()),
		vp:         viewport.New(0, 0),
		autoscroll: true,
		showRuns:   true,
	}
}

func (m tuiModel) Init() tea.Cmd { return nil }

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetWidth(msg.Width)
		m.runs.SetWidth(msg.Width)
		m.vp.Width = msg.Width
		m.bar.Width = msg.Width - 20
		if m.bar.Width < 10 {
			m.bar.Width = 10
		}
		m.header = m.renderHeader()
		m.headerHeight = lipgloss.Height(m.header)
		m.updateViewportHeight()
		m.refreshViewport()
	case finishedMsg:
		m.finished = true
	case tea.KeyMsg:
		if m.help {
			switch msg.String() {
			case "?", "h", "esc":
				m.help = false
			}
			return m, nil
		}
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "w":
			m.wrap = !m.wrap
			m.refreshViewport()
			return m, nil
		case "s":
			m.autoscroll = !m.autoscroll
			if m.autoscroll {
				m.vp.GotoBottom()
			}
			return m, nil
		case "r":
			m.showRuns = !m.showRuns
			m.updateViewportHeight()
			return m, nil
		case "?", "h":
			m.help = true
			return m, nil
		}
		if !m.autoscroll {
			var cmd tea.Cmd
			m.vp, cmd = m.vp.Update(msg)
			return m, cmd
		}
	case logMsg:
		m.logs = append(m.logs, msg.line)
		m.refreshViewport()
	case sampleMsg:
		m.last = msg.SampleRow
		m.haveSample = true
	case summaryMsg:
		m.summaries = append(m.summaries, msg.SummaryRow)
		m.refreshRuns()
		m.updateViewportHeight()
	case benchmarkMsg:
		m.benchmarks = BenchmarkTable(msg.rows)
		m.updateViewportHeight()
	}
	return m, nil
}

func (m *tuiModel) refreshRuns() {
	rows := make([]table.Row, 0, len(m.summaries))
	for _, s := range m.summaries {
		rows = append(rows, table.Row{
			s.Scenario,
			s.State,
			fmt.Sprintf("%.0f→%.1f", s.InitialSOCPercent, s.FinalSOCPercent),
			fmt.Sprintf("%.0f", s.EnergyUsedMAh),
			fmt.Sprintf("%.2f", s.DurationHours),
			fmt.Sprintf("%.1f", s.MeanCurrentMA),
		})
	}
	if len(rows) > maxRunRows {
		rows = rows[len(rows)-maxRunRows:]
	}
	m.runs.SetRows(rows)
	m.runs.SetHeight(len(rows) + 1)
}

func (m *tuiModel) updateViewportHeight() {
	used := m.headerHeight + lipgloss.Height(m.renderStatus()) + lipgloss.Height(m.renderBottom()) + 3
	if sec := m.renderRunsSection(); sec != "" {
		used += lipgloss.Height(sec) + 1
	}
	h := m.height - used
	if h < 0 {
		h = 0
	}
	m.vp.Height = h
	if m.autoscroll {
		m.vp.GotoBottom()
	}
}

func (m *tuiModel) refreshViewport() {
	var lines []string
	for _, l := range m.logs {
		if m.wrap {
			lines = append(lines, wordwrap.String(l, m.vp.Width))
		} else {
			lines = append(lines, l)
		}
	}
	m.vp.SetContent(strings.Join(lines, "\n"))
	if m.autoscroll {
		m.vp.GotoBottom()
	}
}

func (m tuiModel) View() string {
	if m.help {
		return m.renderHelp()
	}
	divider := strings.Repeat("─", m.vp.Width)
	sections := []string{
		m.header,
		divider,
		m.renderStatus(),
		divider,
		m.vp.View(),
	}
	if sec := m.renderRunsSection(); sec != "" {
		sections = append(sections, divider, sec)
	}
	sections = append(sections, divider, m.renderBottom())
	return strings.Join(sections, "\n")
}

func (m tuiModel) renderHeader() string {
	return m.table.View()
}

// renderStatus shows the charge bar and the active app.
func (m tuiModel) renderStatus() string {
	if !m.haveSample {
		return "waiting for samples"
	}
	s := m.last
	bar := m.bar.ViewAs(clampUnit(s.SOCPercent / 100))
	line := fmt.Sprintf("%s%s%s seg=%d %sapp=%s%s %.2fh %scurrent=%.1fmA%s",
		colorBlue, s.Scenario, colorReset, s.Segment,
		colorGreen, s.App, colorReset, s.ElapsedHours,
		colorCyan, s.CurrentMA, colorReset)
	return fmt.Sprintf("SOC %s\n%s", bar, line)
}

func (m tuiModel) renderRunsSection() string {
	if !m.showRuns {
		return ""
	}
	var parts []string
	if len(m.summaries) > 0 {
		parts = append(parts, "Runs:", m.runs.View())
	}
	if m.benchmarks != "" {
		parts = append(parts, "Time to empty:", m.benchmarks)
	}
	return strings.Join(parts, "\n")
}

func (m tuiModel) renderBottom() string {
	indicator := func(on bool) string {
		c := lipgloss.Color("9")
		if on {
			c = lipgloss.Color("10")
		}
		return lipgloss.NewStyle().Foreground(c).Render("●")
	}
	line := fmt.Sprintf("runs=%d samples=%d | Wrap %s | Scroll %s | Runs %s | Help %s",
		len(m.summaries), len(m.logs),
		indicator(m.wrap), indicator(m.autoscroll), indicator(m.showRuns), indicator(m.help))
	if m.finished {
		line += " | finished, press q to quit"
	}
	return line
}

func (m tuiModel) renderHelp() string {
	lines := []string{
		"Key Bindings:",
		" q  quit",
		" w  toggle wrap for sample log",
		" s  toggle auto-scroll",
		" r  toggle runs section",
		" h/? toggle this help view",
		"",
		"When auto-scroll is disabled:",
		" j/k or up/down    scroll one line",
		" pgdown/pgup       scroll a page",
	}
	return strings.Join(lines, "\n")
}

func clampUnit(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
