package telemetry

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/tally/internal/core/ports"
)

// DefaultSlowThreshold is the span duration from which a successful span is reported.
const DefaultSlowThreshold = 2 * time.Second

// LogBridge implements sdktrace.SpanProcessor and reports failed and slow
// spans through the logger.
type LogBridge struct {
	logger ports.Logger
	slow   time.Duration
}

// NewLogBridge returns a LogBridge. A non-positive slow threshold disables
// reporting of successful spans.
func NewLogBridge(logger ports.Logger, slow time.Duration) *LogBridge {
	return &LogBridge{logger: logger, slow: slow}
}

// OnStart does nothing.
func (b *LogBridge) OnStart(_ context.Context, _ sdktrace.ReadWriteSpan) {}

// OnEnd reports the span when it failed or ran longer than the slow threshold.
func (b *LogBridge) OnEnd(s sdktrace.ReadOnlySpan) {
	if b.logger == nil || !s.SpanContext().IsValid() {
		return
	}

	took := s.EndTime().Sub(s.StartTime())
	switch {
	case s.Status().Code == codes.Error:
		desc := s.Status().Description
		if desc == "" {
			desc = "span failed"
		}
		b.logger.Warn(fmt.Sprintf("%s failed after %s: %s%s", s.Name(), took.Round(time.Millisecond), desc, formatAttrs(s)))
	case b.slow > 0 && took >= b.slow:
		b.logger.Warn(fmt.Sprintf("%s took %s%s", s.Name(), took.Round(time.Millisecond), formatAttrs(s)))
	}
}

// ForceFlush does nothing.
func (b *LogBridge) ForceFlush(_ context.Context) error {
	return nil
}

// Shutdown does nothing.
func (b *LogBridge) Shutdown(_ context.Context) error {
	return nil
}

func formatAttrs(s sdktrace.ReadOnlySpan) string {
	attrs := s.Attributes()
	if len(attrs) == 0 {
		return ""
	}
	parts := make([]string, 0, len(attrs))
	for _, kv := range attrs {
		parts = append(parts, string(kv.Key)+"="+kv.Value.Emit())
	}
	slices.Sort(parts)
	return " " + strings.Join(parts, " ")
}

// NewProvider returns a TracerProvider whose spans are reported through bridge.
func NewProvider(bridge *LogBridge) *sdktrace.TracerProvider {
	return sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(bridge))
}
