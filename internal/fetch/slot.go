package fetch

import "github.com/joshuadavidthomas/stravabar/internal/models"

// Result is what a worker hands back: a snapshot or an error, never both.
type Result struct {
	Snapshot *models.ActivitySnapshot
	Err      error
}

// Slot carries a single Result from one worker to one consumer. Neither
// side ever blocks: Put drops a second write and TryTake returns
// immediately when nothing has arrived.
type Slot struct {
	ch chan Result
}

// NewSlot returns an empty slot with room for exactly one result.
func NewSlot() *Slot {
	return &Slot{ch: make(chan Result, 1)}
}

// Put stores r if the slot is empty and reports whether it was stored.
func (s *Slot) Put(r Result) bool {
	select {
	case s.ch <- r:
		return true
	default:
		return false
	}
}

// TryTake removes and returns the result if one is waiting.
func (s *Slot) TryTake() (Result, bool) {
	select {
	case r := <-s.ch:
		return r, true
	default:
		return Result{}, false
	}
}
