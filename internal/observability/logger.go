package observability

import (
	"io"
	"log/slog"
	"os"
)

// NewLogger builds the JSON logger used everywhere. Every record carries the
// service and environment; trace, span and request ids are added from the
// context when present.
func NewLogger(env string) *slog.Logger {
	return NewLoggerTo(os.Stdout, env)
}

func NewLoggerTo(w io.Writer, env string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if env == "dev" {
		opts.Level = slog.LevelDebug
		opts.AddSource = true
	}

	handler := slog.NewJSONHandler(w, opts).WithAttrs([]slog.Attr{
		slog.String("service", "roomhub"),
		slog.String("env", env),
	})

	return slog.New(NewTraceHandler(handler))
}
