package logging

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
)

type loggerKey struct{}

// WithLogger attaches l to ctx.
func WithLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// FromContext returns the logger attached to ctx. Commands invoked without
// Execute have a nil context, so a nil ctx or one without a logger yields
// a logger that writes nowhere.
func FromContext(ctx context.Context) *log.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey{}).(*log.Logger); ok && l != nil {
			return l
		}
	}
	return NewLogger(io.Discard)
}
