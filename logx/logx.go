// Package logx builds the process logger.
package logx

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"tourdesk/globals"
)

// New returns a logger writing to stdout in the given format ("json" or
// "text") at the given level. Records carry the request id when the context
// has one.
func New(level, format string) *slog.Logger {
	return NewWithWriter(os.Stdout, level, format)
}

func NewWithWriter(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}

	var h slog.Handler
	if strings.EqualFold(format, "text") {
		h = slog.NewTextHandler(w, opts)
	} else {
		h = slog.NewJSONHandler(w, opts)
	}
	return slog.New(&requestHandler{next: h})
}

func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// requestHandler adds request_id from the record's context.
type requestHandler struct {
	next slog.Handler
}

func (h *requestHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *requestHandler) Handle(ctx context.Context, rec slog.Record) error {
	if ctx != nil {
		if id, ok := ctx.Value(globals.RequestIDKey).(string); ok && id != "" {
			rec.AddAttrs(slog.String("request_id", id))
		}
	}
	return h.next.Handle(ctx, rec)
}

func (h *requestHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &requestHandler{next: h.next.WithAttrs(attrs)}
}

func (h *requestHandler) WithGroup(name string) slog.Handler {
	return &requestHandler{next: h.next.WithGroup(name)}
}
