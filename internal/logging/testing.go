package logging

import (
	"context"
	"io"
)

// NewTestContext returns a background context carrying a logger that
// writes to w at the level flags select.
func NewTestContext(w io.Writer, flags Flags) context.Context {
	l := NewLogger(w)
	Configure(l, flags)
	return WithLogger(context.Background(), l)
}
