package display

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/joshuadavidthomas/stravabar/internal/format"
	"github.com/joshuadavidthomas/stravabar/internal/refresh"
)

// DefaultTickInterval is how often the widget drains due timers.
const DefaultTickInterval = 250 * time.Millisecond

const (
	timerHideDetail = "hide-detail"
	icon            = "▲"
	// detailChrome is the border and padding around the report.
	detailChrome = 4
)

var detailStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("240")).
	Padding(0, 1)

// WidgetOptions configures the interactive bar.
type WidgetOptions struct {
	Template      string
	DetailTimeout time.Duration
	TickInterval  time.Duration
	Foreground    string
}

type tickMsg time.Time

// Widget is the bubbletea model of the bar. Its Update goroutine is the
// single cooperative loop: every tick runs the due timers of the host's
// scheduler, which is where the refresh controller does all its work.
type Widget struct {
	ctrl    *refresh.Controller
	host    *LoopHost
	opts    WidgetOptions
	logger  *log.Logger
	spinner spinner.Model
	style   lipgloss.Style

	line       string
	detail     string
	showDetail bool
	hideTimer  uint64
	width      int
	redraws    int
}

// NewWidget wires the model to a controller whose Host is host. If the
// controller was seeded, the first frame already shows that data.
func NewWidget(ctrl *refresh.Controller, host *LoopHost, opts WidgetOptions, logger *log.Logger) *Widget {
	if opts.TickInterval <= 0 {
		opts.TickInterval = DefaultTickInterval
	}
	s := spinner.New()
	s.Spinner = spinner.MiniDot

	style := lipgloss.NewStyle()
	if opts.Foreground != "" {
		style = style.Foreground(lipgloss.Color(opts.Foreground))
	}

	w := &Widget{ctrl: ctrl, host: host, opts: opts, logger: logger, spinner: s, style: style}
	if ctrl.Snapshot() != nil {
		w.line = format.Render(logger, opts.Template, ctrl.Snapshot())
	}
	return w
}

func (w *Widget) Init() tea.Cmd {
	return tea.Batch(w.tick(), w.spinner.Tick)
}

func (w *Widget) tick() tea.Cmd {
	return tea.Tick(w.opts.TickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (w *Widget) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		w.host.Scheduler().RunDue()
		if w.host.TakeRedraw() {
			w.redraw()
		}
		return w, w.tick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		w.spinner, cmd = w.spinner.Update(msg)
		return w, cmd

	case tea.WindowSizeMsg:
		w.width = msg.Width

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return w, tea.Quit
		case "esc":
			w.hide()
		case "d", "enter", " ":
			w.toggleDetail()
		case "r":
			if w.ctrl.Phase() != refresh.Idle {
				w.logger.Debug("refresh already in progress")
				break
			}
			w.ctrl.StartCycle()
		}

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			w.toggleDetail()
		}
	}
	return w, nil
}

func (w *Widget) View() string {
	var b strings.Builder
	b.WriteString(w.style.Render(icon + " " + w.line))
	if w.ctrl.Phase() == refresh.Fetching {
		b.WriteString(" ")
		b.WriteString(w.spinner.View())
	}
	if w.showDetail {
		b.WriteString("\n")
		b.WriteString(detailStyle.Render(w.clip(w.detail)))
	}
	return b.String()
}

// Line is the current bar text.
func (w *Widget) Line() string { return w.line }

// DetailVisible reports whether the detail report is showing.
func (w *Widget) DetailVisible() bool { return w.showDetail }

// Redraws counts re-renders triggered by the controller.
func (w *Widget) Redraws() int { return w.redraws }

func (w *Widget) redraw() {
	w.redraws++
	snap := w.ctrl.Snapshot()
	w.line = format.Render(w.logger, w.opts.Template, snap)
	if w.showDetail {
		if report, err := format.Report(snap); err == nil {
			w.detail = report
		}
	}
}

func (w *Widget) toggleDetail() {
	if w.showDetail {
		w.hide()
		return
	}
	snap := w.ctrl.Snapshot()
	if snap == nil {
		return
	}
	report, err := format.Report(snap)
	if err != nil {
		w.logger.Warn("building detail report", "err", err)
		return
	}
	w.detail = report
	w.showDetail = true

	if w.opts.DetailTimeout > 0 {
		t := w.host.Scheduler().After(w.opts.DetailTimeout, timerHideDetail, w.hide)
		w.hideTimer = t.ID
	}
}

func (w *Widget) hide() {
	w.showDetail = false
	if w.hideTimer != 0 {
		w.host.Scheduler().Cancel(w.hideTimer)
		w.hideTimer = 0
	}
}

// clip truncates report lines that would not fit the terminal.
func (w *Widget) clip(report string) string {
	if w.width <= 0 {
		return report
	}
	return FitWidth(report, w.width-detailChrome)
}
