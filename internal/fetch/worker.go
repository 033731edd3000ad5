package fetch

import (
	"context"
	"errors"
	"fmt"
)

// Spawner starts a fetch that will report into slot. The controller
// calls it once per cycle.
type Spawner func(slot *Slot)

// Launcher returns a Spawner that runs p on a new goroutine for each
// cycle.
func Launcher(ctx context.Context, p Provider) Spawner {
	return func(slot *Slot) {
		go Run(ctx, p, slot)
	}
}

// Run performs exactly one fetch and puts its outcome on slot. Errors,
// panics and empty results are all reported as ErrFetchFailure; nothing
// is retried here.
func Run(ctx context.Context, p Provider, slot *Slot) {
	slot.Put(fetchOnce(ctx, p))
}

func fetchOnce(ctx context.Context, p Provider) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = Result{Err: fmt.Errorf("%w: provider panicked: %v", ErrFetchFailure, r)}
		}
	}()

	snap, err := p.Fetch(ctx)
	switch {
	case err != nil:
		if errors.Is(err, ErrFetchFailure) {
			return Result{Err: err}
		}
		return Result{Err: fmt.Errorf("%w: %w", ErrFetchFailure, err)}
	case snap == nil:
		return Result{Err: fmt.Errorf("%w: provider returned no data", ErrFetchFailure)}
	}
	return Result{Snapshot: snap}
}
