// Package logging configures the process-wide structured logger.
package logging

import (
	"context"
	"log/slog"
	"os"
)

type attrKey struct{}

// Handler wraps another slog handler and injects attributes carried by
// the context into every record, so identifiers set once (a run id, a
// script name) travel through nested calls without replumbing.
type Handler struct {
	slog.Handler
}

func (h Handler) Handle(ctx context.Context, r slog.Record) error {
	if attrs, ok := ctx.Value(attrKey{}).([]slog.Attr); ok {
		r.AddAttrs(attrs...)
	}
	return h.Handler.Handle(ctx, r)
}

// WithAttrs returns a context whose attributes are added to every log
// record emitted with it. Attributes accumulate across calls; the
// existing slice is never mutated.
func WithAttrs(ctx context.Context, attrs ...slog.Attr) context.Context {
	existing, _ := ctx.Value(attrKey{}).([]slog.Attr)
	merged := make([]slog.Attr, 0, len(existing)+len(attrs))
	merged = append(merged, existing...)
	merged = append(merged, attrs...)
	return context.WithValue(ctx, attrKey{}, merged)
}

// New builds a text logger on stderr. Verbose lowers the level to debug.
func New(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	base := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(Handler{Handler: base})
}
