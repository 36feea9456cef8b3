package backlog

import (
	"context"
	"log/slog"
)

// CallEvent records metadata about a single Backlog API call.
type CallEvent struct {
	Method     string
	Path       string
	StatusCode int
	LatencyMs  int64
	Success    bool
	ErrorCode  string
}

// Observer receives events about API calls for logging and metrics.
type Observer interface {
	OnCallComplete(ctx context.Context, event CallEvent)
}

// LogObserver writes API call events to a slog.Logger.
type LogObserver struct {
	logger *slog.Logger
}

// NewLogObserver creates an Observer that logs events to logger.
func NewLogObserver(logger *slog.Logger) *LogObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogObserver{logger: logger}
}

func (o *LogObserver) OnCallComplete(ctx context.Context, event CallEvent) {
	attrs := []any{
		"method", event.Method,
		"path", event.Path,
		"status", event.StatusCode,
		"latency_ms", event.LatencyMs,
	}
	if !event.Success {
		attrs = append(attrs, "error_code", event.ErrorCode)
		o.logger.WarnContext(ctx, "backlog_call", attrs...)
		return
	}
	o.logger.DebugContext(ctx, "backlog_call", attrs...)
}

// NoopObserver discards all events. Useful for tests.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(context.Context, CallEvent) {}
