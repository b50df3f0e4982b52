package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/specscope/internal/core/ports"
)

// LogBridge implements sdktrace.SpanProcessor and reports finished spans to a logger.
type LogBridge struct {
	logger ports.Logger
}

// NewLogBridge returns a new LogBridge.
func NewLogBridge(logger ports.Logger) *LogBridge {
	return &LogBridge{
		logger: logger,
	}
}

// OnStart does nothing.
func (b *LogBridge) OnStart(_ context.Context, _ sdktrace.ReadWriteSpan) {}

// OnEnd logs the span name, duration and status.
func (b *LogBridge) OnEnd(s sdktrace.ReadOnlySpan) {
	if !s.SpanContext().IsValid() {
		return
	}

	args := []any{"span", s.Name(), "duration", s.EndTime().Sub(s.StartTime()).String()}
	if s.Status().Code == codes.Error {
		desc := s.Status().Description
		if desc == "" {
			desc = "span failed"
		}
		args = append(args, "error", desc)
	}
	b.logger.Debug("span finished", args...)
}

// ForceFlush does nothing.
func (b *LogBridge) ForceFlush(_ context.Context) error {
	return nil
}

// Shutdown does nothing.
func (b *LogBridge) Shutdown(_ context.Context) error {
	return nil
}

// Setup returns the tracer for a run. When enabled, spans are recorded by an SDK
// provider that reports them through logger; otherwise a no-op tracer is returned.
// The returned function shuts the provider down.
func Setup(enabled bool, logger ports.Logger) (ports.Tracer, func(context.Context) error) {
	if !enabled {
		return NewNoOpTracer(), func(context.Context) error { return nil }
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(NewLogBridge(logger)),
	)
	return &OTelTracer{tracer: tp.Tracer(instrumentation)}, tp.Shutdown
}
