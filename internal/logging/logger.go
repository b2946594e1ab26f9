package logging

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
)

type Options struct {
	// Writer defaults to os.Stdout.
	Writer io.Writer
	Level  string
	JSON   bool
	// NoColor disables tint colouring for text output.
	NoColor bool
}

// New builds the application logger. Text output goes through tint, JSON
// output through the slog JSON handler.
func New(opts Options) *slog.Logger {
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}
	level := ParseLevel(opts.Level)

	var handler slog.Handler
	if opts.JSON {
		handler = slog.NewJSONHandler(opts.Writer, &slog.HandlerOptions{Level: level})
	} else {
		handler = tint.NewHandler(opts.Writer, &tint.Options{
			Level:      level,
			TimeFormat: "2006-01-02 15:04:05",
			NoColor:    opts.NoColor,
		})
	}
	return slog.New(traceHandler{handler})
}

func ParseLevel(s string) slog.Level {
	switch s {
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

// Discard returns a logger that drops everything. Used by tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type traceIDKeyType struct{}

var traceIDKey = traceIDKeyType{}

func ContextWithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey, traceID)
}

// TraceIDFromContext returns "" when ctx carries no trace id.
func TraceIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(traceIDKey).(string); ok {
		return id
	}
	return ""
}

// traceHandler adds the request trace id to every record logged with a
// request context.
type traceHandler struct {
	slog.Handler
}

func (h traceHandler) Handle(ctx context.Context, r slog.Record) error {
	if id := TraceIDFromContext(ctx); id != "" {
		r.AddAttrs(slog.String("trace_id", id))
	}
	return h.Handler.Handle(ctx, r)
}

func (h traceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return traceHandler{h.Handler.WithAttrs(attrs)}
}

func (h traceHandler) WithGroup(name string) slog.Handler {
	return traceHandler{h.Handler.WithGroup(name)}
}
