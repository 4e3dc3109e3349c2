package logger

import (
	"log/slog"
	"time"

	"github.com/sweetpotato0/uidraft/middleware"
	"github.com/sweetpotato0/uidraft/pkg/logging"
)

// RequestLogger logs each design request and its outcome
type RequestLogger struct {
	logger *slog.Logger
}

// NewRequestLogger creates a request logging middleware. A nil logger uses
// the shared process logger.
func NewRequestLogger(logger *slog.Logger) *RequestLogger {
	if logger == nil {
		logger = logging.WithComponent("middleware.logger")
	}
	return &RequestLogger{logger: logger}
}

// Name returns the middleware name
func (m *RequestLogger) Name() string {
	return "RequestLogger"
}

// Execute logs the request before the provider call and the response after
// the stream is drained
func (m *RequestLogger) Execute(ctx *middleware.Context, next middleware.Handler) error {
	start := time.Now()
	m.logger.InfoContext(ctx.Context(), "design request",
		"flow", ctx.Flow,
		"input_len", len(ctx.Input),
		"messages", len(ctx.Messages),
	)

	err := next(ctx)

	attrs := []any{
		"flow", ctx.Flow,
		"fragments", ctx.Fragments,
		"duration", time.Since(start),
	}
	if err != nil {
		m.logger.ErrorContext(ctx.Context(), "design request failed", append(attrs, "error", err)...)
		return err
	}
	if ctx.Response != nil {
		attrs = append(attrs, "output_len", len(ctx.Response.Content), "tool_calls", len(ctx.Response.ToolCalls))
	}
	m.logger.InfoContext(ctx.Context(), "design response", attrs...)
	return nil
}
