package logging

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

const (
	cloudTraceKey        = "logging.googleapis.com/trace"
	cloudSpanIDKey       = "logging.googleapis.com/spanId"
	cloudTraceSampledKey = "logging.googleapis.com/trace_sampled"
)

// Create a slog.Handler that links log records to the active span in Google Cloud Trace
//
// NOTE: Only the *Context slog methods carry the span
// https://docs.cloud.google.com/logging/docs/agent/logging/configuration#special-fields
func NewGoogleCloudTracingLogHandler(base slog.Handler, project string) slog.Handler {
	return &cloudTraceHandler{base: base, project: project}
}

type cloudTraceHandler struct {
	base    slog.Handler
	project string
}

func (h *cloudTraceHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.base.Enabled(ctx, level)
}

func (h *cloudTraceHandler) Handle(ctx context.Context, record slog.Record) error {
	spanContext := trace.SpanContextFromContext(ctx)
	if !spanContext.IsValid() {
		return h.base.Handle(ctx, record)
	}

	record.AddAttrs(
		slog.String(cloudTraceKey, fmt.Sprintf("projects/%s/traces/%s", h.project, spanContext.TraceID())),
		slog.String(cloudSpanIDKey, spanContext.SpanID().String()),
		slog.Bool(cloudTraceSampledKey, spanContext.IsSampled()),
	)
	return h.base.Handle(ctx, record)
}

func (h *cloudTraceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &cloudTraceHandler{base: h.base.WithAttrs(attrs), project: h.project}
}

func (h *cloudTraceHandler) WithGroup(name string) slog.Handler {
	return &cloudTraceHandler{base: h.base.WithGroup(name), project: h.project}
}
