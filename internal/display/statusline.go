package display

import (
	"encoding/json"
	"io"

	"github.com/charmbracelet/log"

	"github.com/joshuadavidthomas/stravabar/internal/format"
	"github.com/joshuadavidthomas/stravabar/internal/models"
)

// Waybar classes.
const (
	ClassOK    = "ok"
	ClassStale = "stale"
	ClassError = "error"
	ClassEmpty = "empty"
)

// Waybar is the object a waybar custom module reads, one per line.
type Waybar struct {
	Text    string `json:"text"`
	Tooltip string `json:"tooltip"`
	Class   string `json:"class"`
}

// BarOutput renders the bar line and the detail tooltip for snap. stale
// marks data served from the cache after a failed fetch.
func BarOutput(l *log.Logger, template string, snap *models.ActivitySnapshot, stale bool) Waybar {
	if snap == nil {
		return Waybar{Class: ClassEmpty}
	}
	out := Waybar{Text: format.Render(l, template, snap), Class: ClassOK}
	if tooltip, err := format.Report(snap); err == nil {
		out.Tooltip = tooltip
	} else if l != nil {
		l.Warn("building detail report", "err", err)
	}
	switch {
	case out.Text == format.Fallback:
		out.Class = ClassError
	case stale:
		out.Class = ClassStale
	}
	return out
}

// OutputWaybar writes wb as a single JSON line.
func OutputWaybar(w io.Writer, wb Waybar) error {
	return json.NewEncoder(w).Encode(wb)
}

// OutputJSON writes pretty-printed JSON to the given writer.
func OutputJSON(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
