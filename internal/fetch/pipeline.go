package fetch

import (
	"context"
	"time"

	"github.com/joshuadavidthomas/stravabar/internal/models"
)

// Cache abstracts snapshot persistence so the pipeline doesn't depend
// on the filesystem or config package directly.
type Cache interface {
	Save(snapshot models.ActivitySnapshot) error
	Load() *models.ActivitySnapshot
}

// PipelineConfig holds the parameters FetchOnce needs.
type PipelineConfig struct {
	Timeout time.Duration
	Cache   Cache
}

// Outcome is the complete result of a blocking one-shot fetch.
type Outcome struct {
	Success  bool                     `json:"success"`
	Snapshot *models.ActivitySnapshot `json:"snapshot,omitempty"`
	Source   string                   `json:"source,omitempty"`
	Error    string                   `json:"error,omitempty"`
	Cached   bool                     `json:"cached"`
}

// FetchOnce runs p on a worker and waits for it, bounded by cfg.Timeout.
// When useCache is true, the cached snapshot is served if the fetch
// fails. Used by the one-shot commands; the bar never waits like this.
func FetchOnce(ctx context.Context, p Provider, useCache bool, cfg PipelineConfig) Outcome {
	slot := NewSlot()
	done := make(chan struct{})
	go func() {
		Run(ctx, p, slot)
		close(done)
	}()

	var timeout <-chan time.Time
	if cfg.Timeout > 0 {
		timer := time.NewTimer(cfg.Timeout)
		defer timer.Stop()
		timeout = timer.C
	}

	lastErr := ""
	select {
	case <-ctx.Done():
		return Outcome{Success: false, Error: "Context cancelled"}
	case <-timeout:
		lastErr = "Fetch timed out"
	case <-done:
		res, _ := slot.TryTake()
		if res.Err == nil {
			if cfg.Cache != nil {
				_ = cfg.Cache.Save(*res.Snapshot)
			}
			return Outcome{Success: true, Snapshot: res.Snapshot, Source: "strava"}
		}
		lastErr = res.Err.Error()
	}

	if useCache && cfg.Cache != nil {
		if cached := cfg.Cache.Load(); cached != nil {
			return Outcome{Success: true, Snapshot: cached, Source: "cache", Cached: true, Error: lastErr}
		}
	}
	return Outcome{Success: false, Error: lastErr}
}

// WithCache wraps p so that every successful fetch is also saved to
// cache. Save errors are ignored; the cache is best effort.
func WithCache(p Provider, cache Cache) Provider {
	if cache == nil {
		return p
	}
	return ProviderFunc(func(ctx context.Context) (*models.ActivitySnapshot, error) {
		snap, err := p.Fetch(ctx)
		if err == nil && snap != nil {
			_ = cache.Save(*snap)
		}
		return snap, err
	})
}
