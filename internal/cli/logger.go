package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/joshuadavidthomas/stravabar/internal/config"
	"github.com/joshuadavidthomas/stravabar/internal/logging"
)

func logFlags() logging.Flags {
	return logging.Flags{
		Verbose: verbose,
		Quiet:   quiet,
		NoColor: noColor,
		JSON:    jsonOutput,
	}
}

// newConfiguredLogger creates the stderr logger used by one-shot commands.
func newConfiguredLogger() *log.Logger {
	l := logging.NewLogger(os.Stderr)
	logging.Configure(l, logFlags())
	return l
}

// newBarLogger opens the log file the bar writes to while it owns the
// terminal. The caller closes the returned Closer.
func newBarLogger() (*log.Logger, io.Closer, error) {
	return logging.OpenFile(config.LogFile(), logFlags().Level())
}
