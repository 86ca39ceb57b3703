package logging

import (
	"os"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"
)

// Enumeration of the different log levels
const (
	LogLevelSilent  = iota // no output at all
	LogLevelError          // only errors
	LogLevelWarning        // errors and warnings (DEFAULT)
	LogLevelVerbose        // everything including completion traces
)

// Logger counts and prints messages at or below its level. Printing is
// serialized so tracers shared by watch-mode runs do not interleave output.
type Logger struct {
	LogLevel     int
	errorCount   int
	warningCount int
	m            *sync.Mutex
}

func newLogger(loglevel int) *Logger {
	return &Logger{LogLevel: loglevel, m: &sync.Mutex{}}
}

// ParseLevel maps a level name to its value. Unknown names mean verbose.
func ParseLevel(name string) int {
	switch name {
	case "silent":
		return LogLevelSilent
	case "error":
		return LogLevelError
	case "warning", "warn":
		return LogLevelWarning
	default:
		return LogLevelVerbose
	}
}

// ConfigureColor applies a color setting: "always", "never" or "auto"
// (color only when stdout is a terminal).
func ConfigureColor(setting string) {
	switch setting {
	case "always":
		pterm.EnableColor()
	case "never":
		pterm.DisableColor()
	default:
		if isTerminal(os.Stdout) {
			pterm.EnableColor()
		} else {
			pterm.DisableColor()
		}
	}
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (l *Logger) enabled(level int) bool {
	return l.LogLevel >= level
}

func (l *Logger) handle(level int, display func()) {
	l.m.Lock()
	defer l.m.Unlock()

	switch level {
	case LogLevelError:
		l.errorCount++
	case LogLevelWarning:
		l.warningCount++
	}
	if l.enabled(level) {
		display()
	}
}

func (l *Logger) counts() (int, int) {
	l.m.Lock()
	defer l.m.Unlock()
	return l.errorCount, l.warningCount
}
