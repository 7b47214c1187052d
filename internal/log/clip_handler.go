package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
)

// DefaultClipLength is the number of runes kept from a string attribute.
const DefaultClipLength = 256

// ClipHandler wraps an slog.Handler and shortens long string attributes
// before passing the record on.
type ClipHandler struct {
	handler slog.Handler
	limit   int
}

// NewClipHandler creates a ClipHandler keeping at most limit runes per string.
// If handler is nil, slog.Default().Handler() is used. A limit <= 0 uses
// DefaultClipLength.
func NewClipHandler(handler slog.Handler, limit int) *ClipHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	if limit <= 0 {
		limit = DefaultClipLength
	}
	return &ClipHandler{handler: handler, limit: limit}
}

// Enabled reports whether the handler handles records at the given level.
// It delegates to the underlying handler.
func (h *ClipHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle clips the record's attributes and passes it to the underlying handler.
func (h *ClipHandler) Handle(ctx context.Context, r slog.Record) error {
	clipped := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		clipped.AddAttrs(h.clipAttr(a))
		return true
	})
	return h.handler.Handle(ctx, clipped)
}

// WithAttrs returns a new handler with the given attributes added.
func (h *ClipHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clipped := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		clipped[i] = h.clipAttr(a)
	}
	return &ClipHandler{handler: h.handler.WithAttrs(clipped), limit: h.limit}
}

// WithGroup returns a new handler with the given group name.
func (h *ClipHandler) WithGroup(name string) slog.Handler {
	return &ClipHandler{handler: h.handler.WithGroup(name), limit: h.limit}
}

func (h *ClipHandler) clipAttr(a slog.Attr) slog.Attr {
	a.Value = a.Value.Resolve()

	switch a.Value.Kind() {
	case slog.KindGroup:
		attrs := a.Value.Group()
		clipped := make([]slog.Attr, len(attrs))
		for i, ga := range attrs {
			clipped[i] = h.clipAttr(ga)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(clipped...)}
	case slog.KindString:
		return slog.String(a.Key, Clip(a.Value.String(), h.limit))
	default:
		return a
	}
}

// Clip returns s cut to limit runes followed by a note of how many
// bytes were dropped. Strings within the limit are returned unchanged.
func Clip(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	n := 0
	for i := range s {
		if n == limit {
			return fmt.Sprintf("%s... [clipped %d bytes]", s[:i], len(s)-i)
		}
		n++
	}
	return s
}

// NewLogger creates a text slog.Logger with clipping.
//
// Parameters:
//   - w: The io.Writer to write log output to (typically os.Stderr)
//   - verbose: If true, sets log level to Debug; otherwise Warn
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	return slog.New(NewClipHandler(slog.NewTextHandler(w, handlerOptions(verbose)), DefaultClipLength))
}

// NewJSONLogger creates a slog.Logger with clipping that outputs JSON.
// Useful for structured log aggregation.
func NewJSONLogger(w io.Writer, verbose bool) *slog.Logger {
	return slog.New(NewClipHandler(slog.NewJSONHandler(w, handlerOptions(verbose)), DefaultClipLength))
}

func handlerOptions(verbose bool) *slog.HandlerOptions {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return &slog.HandlerOptions{Level: level}
}
