package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
)

// Flags are the global CLI flags that shape log output.
type Flags struct {
	Verbose bool
	Quiet   bool
	NoColor bool
	JSON    bool
}

// Level maps flags to a log level. Quiet beats verbose.
func (f Flags) Level() log.Level {
	switch {
	case f.Quiet:
		return log.ErrorLevel
	case f.Verbose:
		return log.DebugLevel
	}
	return log.WarnLevel
}

// NewLogger returns a warn-level logger writing to w.
func NewLogger(w io.Writer) *log.Logger {
	return log.NewWithOptions(w, log.Options{Level: Flags{}.Level()})
}

func Configure(l *log.Logger, f Flags) {
	l.SetLevel(f.Level())
	if f.NoColor {
		l.SetColorProfile(termenv.Ascii)
	}
	if f.JSON {
		l.SetFormatter(log.JSONFormatter)
	}
}

// OpenFile appends timestamped plain-text entries at level to the file at
// path. The bar owns the terminal while it runs, so it logs here instead
// of to stderr.
func OpenFile(path string, level log.Level) (*log.Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	l := log.NewWithOptions(f, log.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
	})
	l.SetColorProfile(termenv.Ascii)
	return l, f, nil
}
