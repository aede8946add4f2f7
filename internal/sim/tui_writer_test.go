package sim

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"phonedrain-sim/internal/config"
	"phonedrain-sim/internal/telemetry"
)

type fakeProgram struct{ msgs []tea.Msg }

func (f *fakeProgram) Send(msg tea.Msg) { f.msgs = append(f.msgs, msg) }

func TestTUIWriterMessages(t *testing.T) {
	p := &fakeProgram{}
	w := &TUIWriter{program: p, appColors: map[string]string{}}
	row := telemetry.SampleRow{Scenario: "commute", App: "music", SOCPercent: 88, Timestamp: time.Unix(0, 0).UTC()}
	if err := w.Write(row); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, ok := p.msgs[0].(logMsg); !ok {
		t.Fatalf("expected logMsg, got %T", p.msgs[0])
	}
	if _, ok := p.msgs[1].(sampleMsg); !ok {
		t.Fatalf("expected sampleMsg, got %T", p.msgs[1])
	}
	if err := w.WriteSummary(telemetry.SummaryRow{Scenario: "commute"}); err != nil {
		t.Fatalf("summary: %v", err)
	}
	if _, ok := p.msgs[2].(summaryMsg); !ok {
		t.Fatalf("expected summaryMsg, got %T", p.msgs[2])
	}
	if err := w.WriteBenchmarks([]telemetry.BenchmarkRow{{App: "video"}}); err != nil {
		t.Fatalf("benchmarks: %v", err)
	}
	if _, ok := p.msgs[3].(benchmarkMsg); !ok {
		t.Fatalf("expected benchmarkMsg, got %T", p.msgs[3])
	}
}

// chanProgram hands every message to a channel so tests can observe a
// blocked Close.
type chanProgram struct{ msgs chan tea.Msg }

func (c *chanProgram) Send(msg tea.Msg) { c.msgs <- msg }

func TestTUIWriterCloseWaitsForUserQuit(t *testing.T) {
	p := &chanProgram{msgs: make(chan tea.Msg, 4)}
	w := &TUIWriter{program: p, appColors: map[string]string{}, done: make(chan struct{})}
	w.sendSignal.Store(true)

	closed := make(chan struct{})
	go func() {
		_ = w.Close()
		close(closed)
	}()

	select {
	case msg := <-p.msgs:
		if _, ok := msg.(finishedMsg); !ok {
			t.Fatalf("expected finishedMsg, got %T", msg)
		}
	case <-time.After(time.Second):
		t.Fatalf("Close did not notify the program")
	}
	select {
	case <-closed:
		t.Fatalf("Close returned before the program exited")
	case msg := <-p.msgs:
		t.Fatalf("unexpected message %T while waiting for the user", msg)
	case <-time.After(50 * time.Millisecond):
	}
	if w.sendSignal.Load() {
		t.Fatalf("interrupt should be disabled once output is complete")
	}

	// The program exits after the user presses q.
	close(w.done)
	select {
	case <-closed:
	case <-time.After(time.Second):
		t.Fatalf("Close did not return after the program exited")
	}
}

func TestFinishedKeepsModelRunning(t *testing.T) {
	m := newTUIModel(nil)
	mi, cmd := m.Update(finishedMsg{})
	m = mi.(tuiModel)
	if cmd != nil {
		t.Fatalf("finishing the run must not quit the program")
	}
	if !m.finished || !strings.Contains(m.renderBottom(), "press q to quit") {
		t.Fatalf("finished state not shown")
	}
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatalf("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("q should produce QuitMsg")
	}
}

func TestWrapToggle(t *testing.T) {
	m := newTUIModel(&config.Config{Name: "test"})
	mi, _ := m.Update(tea.WindowSizeMsg{Width: 20, Height: 40})
	m = mi.(tuiModel)
	long := "one two three four five six"
	mi, _ = m.Update(logMsg{line: long})
	m = mi.(tuiModel)
	lines := strings.Split(m.vp.View(), "\n")
	if len(lines) < 2 || strings.TrimSpace(lines[1]) != "" {
		t.Fatalf("expected single line before wrap")
	}
	mi, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'w'}})
	m = mi.(tuiModel)
	if !m.wrap {
		t.Fatalf("wrap not toggled")
	}
	lines = strings.Split(m.vp.View(), "\n")
	if strings.TrimSpace(lines[1]) == "" {
		t.Fatalf("expected wrapped content on second line")
	}
}

func TestScrollToggle(t *testing.T) {
	m := newTUIModel(nil)
	m.vp.Height = 1
	m.vp.Width = 20
	mi, _ := m.Update(logMsg{line: "l1"})
	m = mi.(tuiModel)
	mi, _ = m.Update(logMsg{line: "l2"})
	m = mi.(tuiModel)
	if m.vp.YOffset != 1 {
		t.Fatalf("expected YOffset 1, got %d", m.vp.YOffset)
	}
	mi, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
	m = mi.(tuiModel)
	if m.autoscroll {
		t.Fatalf("autoscroll should be off")
	}
	mi, _ = m.Update(logMsg{line: "l3"})
	m = mi.(tuiModel)
	if m.vp.YOffset != 1 {
		t.Fatalf("expected YOffset unchanged, got %d", m.vp.YOffset)
	}
	mi, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = mi.(tuiModel)
	if m.vp.YOffset != 0 {
		t.Fatalf("expected YOffset 0 after scrolling up, got %d", m.vp.YOffset)
	}
	mi, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
	m = mi.(tuiModel)
	if !m.autoscroll {
		t.Fatalf("autoscroll should be on")
	}
	if expected := len(m.logs) - m.vp.Height; m.vp.YOffset != expected {
		t.Fatalf("expected YOffset %d, got %d", expected, m.vp.YOffset)
	}
}

func TestSummaryAndBenchmarksRender(t *testing.T) {
	m := newTUIModel(&config.Config{Name: "test"})
	mi, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 60})
	m = mi.(tuiModel)
	mi, _ = m.Update(sampleMsg{telemetry.SampleRow{Scenario: "weekend", App: "video", SOCPercent: 64}})
	m = mi.(tuiModel)
	mi, _ = m.Update(summaryMsg{telemetry.SummaryRow{Scenario: "weekend", State: telemetry.StateTimedOut, FinalSOCPercent: 41}})
	m = mi.(tuiModel)
	mi, _ = m.Update(benchmarkMsg{rows: []telemetry.BenchmarkRow{{App: "music", InitialSOCPercent: 100, TTEHours: 30.5, Depleted: true}}})
	m = mi.(tuiModel)

	view := m.View()
	for _, want := range []string{"weekend", "SOC", "Runs:", "Time to empty:", "30.50"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q", want)
		}
	}
	mi, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	m = mi.(tuiModel)
	if strings.Contains(m.View(), "Time to empty:") {
		t.Fatalf("runs section should be hidden")
	}
}
