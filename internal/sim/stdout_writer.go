// Writer selection for STDOUT
package sim

import (
	"os"

	"phonedrain-sim/internal/config"

	"golang.org/x/term"
)

// isTerminal reports whether f is attached to a terminal.
var isTerminal = func(f *os.File) bool { return term.IsTerminal(int(f.Fd())) }

// NewStdoutWriter picks the colorized writer when STDOUT is a terminal and
// JSON lines otherwise.
func NewStdoutWriter(cfg *config.Config) Sink {
	if isTerminal(os.Stdout) {
		return NewColorStdoutWriter(cfg)
	}
	return NewJSONStdoutWriter()
}
