package fetch

import (
	"context"
	"errors"

	"github.com/joshuadavidthomas/stravabar/internal/models"
)

//go:generate mockgen -destination=mock_fetch.go -package=fetch . Provider

// ErrFetchFailure marks every error a fetch reports. The cause is
// wrapped alongside it.
var ErrFetchFailure = errors.New("fetch failed")

// Provider produces activity snapshots. Fetch may block on network I/O
// and must be safe to call from any goroutine.
type Provider interface {
	Fetch(ctx context.Context) (*models.ActivitySnapshot, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context) (*models.ActivitySnapshot, error)

func (f ProviderFunc) Fetch(ctx context.Context) (*models.ActivitySnapshot, error) {
	return f(ctx)
}
