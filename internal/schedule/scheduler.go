package schedule

import (
	"sort"
	"time"
)

// Timer is a pending one-shot callback.
type Timer struct {
	ID   uint64
	Name string
	When time.Time
	fn   func()
}

// Scheduler holds one-shot timers for a cooperative loop. Callbacks only
// run from RunDue, so they execute on whichever goroutine drives the
// loop. A Scheduler is not safe for concurrent use.
type Scheduler struct {
	clock  Clock
	nextID uint64
	timers []*Timer
}

// New returns a scheduler reading time from clock.
func New(clock Clock) *Scheduler {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Scheduler{clock: clock}
}

// Clock returns the scheduler's time source.
func (s *Scheduler) Clock() Clock { return s.clock }

// After registers fn to run once, delay from now. It returns the timer
// so callers can cancel it.
func (s *Scheduler) After(delay time.Duration, name string, fn func()) Timer {
	if delay < 0 {
		delay = 0
	}
	s.nextID++
	t := &Timer{ID: s.nextID, Name: name, When: s.clock.Now().Add(delay), fn: fn}
	s.timers = append(s.timers, t)
	return *t
}

// Cancel removes a pending timer. It reports whether the timer was
// still pending.
func (s *Scheduler) Cancel(id uint64) bool {
	for i, t := range s.timers {
		if t.ID == id {
			s.timers = append(s.timers[:i], s.timers[i+1:]...)
			return true
		}
	}
	return false
}

// Pending returns the pending timers ordered by wake time.
func (s *Scheduler) Pending() []Timer {
	out := make([]Timer, len(s.timers))
	for i, t := range s.timers {
		out[i] = *t
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].When.Equal(out[j].When) {
			return out[i].ID < out[j].ID
		}
		return out[i].When.Before(out[j].When)
	})
	return out
}

// NextWake returns when the earliest pending timer fires.
func (s *Scheduler) NextWake() (time.Time, bool) {
	p := s.Pending()
	if len(p) == 0 {
		return time.Time{}, false
	}
	return p[0].When, true
}

// RunDue runs every timer that is due at the current time, earliest
// first, and returns how many ran. Timers registered by those callbacks
// wait for the next call even if they are already due.
func (s *Scheduler) RunDue() int {
	now := s.clock.Now()
	var due, keep []*Timer
	for _, t := range s.timers {
		if !t.When.After(now) {
			due = append(due, t)
		} else {
			keep = append(keep, t)
		}
	}
	if len(due) == 0 {
		return 0
	}
	s.timers = keep
	sort.SliceStable(due, func(i, j int) bool {
		if due[i].When.Equal(due[j].When) {
			return due[i].ID < due[j].ID
		}
		return due[i].When.Before(due[j].When)
	})
	for _, t := range due {
		t.fn()
	}
	return len(due)
}

// Len returns the number of pending timers.
func (s *Scheduler) Len() int { return len(s.timers) }
