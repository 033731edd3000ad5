package display

import (
	"os"
	"strings"

	"github.com/charmbracelet/x/term"
	"github.com/mattn/go-runewidth"

	"github.com/joshuadavidthomas/stravabar/internal/format"
)

// TerminalWidth returns the current terminal width, or 80 as a fallback.
func TerminalWidth() int {
	w, _, err := term.GetSize(os.Stdout.Fd())
	if err != nil || w <= 0 {
		return 80
	}
	return w
}

// FitWidth truncates every line of a detail report to width cells. A
// report that already fits is returned unchanged.
func FitWidth(report string, width int) string {
	if width <= 0 || format.ReportWidth() <= width {
		return report
	}
	lines := strings.Split(report, "\n")
	for i, l := range lines {
		lines[i] = runewidth.Truncate(l, width, "…")
	}
	return strings.Join(lines, "\n")
}
