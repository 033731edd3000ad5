package display

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// SpinnerShouldShow reports whether a one-shot command may draw a
// spinner: not when quiet, not for JSON, and only on a terminal.
func SpinnerShouldShow(quiet, json, nonTTY bool) bool {
	return !quiet && !json && !nonTTY
}

// Spin runs fn while a spinner labelled label is drawn, and returns fn's
// error. Pressing ctrl+c or esc cancels the context passed to fn; Spin
// then waits for fn and returns context.Canceled.
func Spin(ctx context.Context, label string, fn func(context.Context) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(newSpinnerModel(label, time.Now()))
	errc := make(chan error, 1)
	go func() {
		err := fn(ctx)
		p.Send(spinnerDoneMsg{})
		errc <- err
	}()

	final, runErr := p.Run()
	aborted := false
	if m, ok := final.(spinnerModel); ok && m.aborted {
		aborted = true
		cancel()
	}
	err := <-errc

	switch {
	case runErr != nil:
		return fmt.Errorf("running spinner: %w", runErr)
	case aborted:
		return context.Canceled
	}
	return err
}

type spinnerDoneMsg struct{}

type spinnerModel struct {
	spinner spinner.Model
	label   string
	start   time.Time
	now     time.Time
	done    bool
	aborted bool
}

func newSpinnerModel(label string, start time.Time) spinnerModel {
	s := spinner.New()
	s.Spinner = spinner.MiniDot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	return spinnerModel{spinner: s, label: label, start: start, now: start}
}

func (m spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.done || m.aborted {
		return m, nil
	}
	switch msg := msg.(type) {
	case spinnerDoneMsg:
		m.done = true
		return m, tea.Quit

	case spinner.TickMsg:
		if msg.Time.After(m.now) {
			m.now = msg.Time
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.aborted = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m spinnerModel) View() string {
	// The command prints its own result once the spinner is gone.
	if m.done || m.aborted {
		return ""
	}
	v := m.spinner.View() + " " + m.label
	if elapsed := m.now.Sub(m.start); elapsed >= time.Second {
		v += fmt.Sprintf(" (%ds)", int(elapsed/time.Second))
	}
	return v
}
