package display

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/joshuadavidthomas/stravabar/internal/schedule"
)

// LoopHost is the refresh.Host of the interactive bar. Timers go into a
// scheduler that the widget drains on every tick, and redraw requests
// raise a flag the widget clears when it re-renders. Like the scheduler,
// it must only be used from the bubbletea update loop.
type LoopHost struct {
	sched  *schedule.Scheduler
	logger *log.Logger
	redraw bool
}

func NewLoopHost(sched *schedule.Scheduler, logger *log.Logger) *LoopHost {
	return &LoopHost{sched: sched, logger: logger}
}

func (h *LoopHost) RegisterTimer(delay time.Duration, name string, fn func()) uint64 {
	h.logger.Debug("timer registered", "name", name, "delay", delay)
	return h.sched.After(delay, name, fn).ID
}

func (h *LoopHost) CancelTimer(id uint64) {
	if h.sched.Cancel(id) {
		h.logger.Debug("timer cancelled", "id", id)
	}
}

func (h *LoopHost) RequestRedraw() { h.redraw = true }

func (h *LoopHost) LogWarning(msg string, keyvals ...any) {
	h.logger.Warn(msg, keyvals...)
}

// Scheduler returns the scheduler timers are registered on.
func (h *LoopHost) Scheduler() *schedule.Scheduler { return h.sched }

// TakeRedraw reports whether a redraw was requested since the last call
// and clears the request.
func (h *LoopHost) TakeRedraw() bool {
	r := h.redraw
	h.redraw = false
	return r
}
