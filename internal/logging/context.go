package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
)

type requestLoggerContextKey struct{}

var fallbackLogger = sync.OnceValue(func() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, nil)).With(slog.String("logger", "fallback"))
})

// NewRootLogger creates the JSON logger used by the service.
// When gcpProject is set, records logged with a context carrying a span are
// correlated with the trace in Google Cloud.
func NewRootLogger(w io.Writer, gcpProject string, attrs ...slog.Attr) *slog.Logger {
	var handler slog.Handler = slog.NewJSONHandler(w, nil)
	if gcpProject != "" {
		handler = NewGoogleCloudTracingLogHandler(handler, gcpProject)
	}

	args := make([]any, len(attrs))
	for i, attr := range attrs {
		args[i] = attr
	}

	return slog.New(handler).With(args...)
}

func FromContext(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(requestLoggerContextKey{}).(*slog.Logger)
	if !ok || logger == nil {
		return fallbackLogger()
	}
	return logger
}

func AddToContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, requestLoggerContextKey{}, logger)
}

func AddMetaToContext(ctx context.Context, args ...slog.Attr) context.Context {
	logger := FromContext(ctx)

	// Convert our []slog.Attr to []any
	anySlice := make([]any, len(args))
	for i, arg := range args {
		anySlice[i] = arg
	}

	return AddToContext(ctx, logger.With(anySlice...))
}
