// ABOUTME: Tests for the no-op telemetry implementation and the component recorder
// ABOUTME: Ensures disabled telemetry never panics and passes contexts through unchanged

package telemetry

import (
	"bytes"
	"context"
	"testing"
	"time"

	"go.opentelemetry.io/otel/attribute"
)

func TestNoopTelemetry(t *testing.T) {
	tel := NewNoop()
	ctx := context.Background()

	tel.RecordHistogram(ctx, "test.histogram", 1.5, attribute.String("key", "value"))
	tel.RecordCounter(ctx, "test.counter", 1, attribute.String("key", "value"))

	spanCtx, span := tel.StartSpan(ctx, "test.span")
	if spanCtx != ctx {
		t.Error("Expected noop span to keep the original context")
	}
	span.End()

	if err := tel.Shutdown(ctx); err != nil {
		t.Errorf("Expected no error from noop shutdown, got %v", err)
	}
}

func TestNoopStartSpanNilContext(t *testing.T) {
	//nolint:staticcheck // nil context is tolerated
	spanCtx, _ := NewNoop().StartSpan(nil, "test.span")
	if spanCtx == nil {
		t.Error("Expected a non-nil context")
	}
}

type capturedCounter struct {
	name  string
	value int64
	attrs []attribute.KeyValue
}

type captureTelemetry struct {
	NoopTelemetry
	counters   []capturedCounter
	histograms []string
}

func (c *captureTelemetry) RecordCounter(ctx context.Context, name string, value int64, attrs ...attribute.KeyValue) {
	c.counters = append(c.counters, capturedCounter{name: name, value: value, attrs: attrs})
}

func (c *captureTelemetry) RecordHistogram(ctx context.Context, name string, value float64, attrs ...attribute.KeyValue) {
	c.histograms = append(c.histograms, name)
}

func TestRecorderScopesNamesAndAttributes(t *testing.T) {
	tel := &captureTelemetry{}
	rec := NewRecorder(tel, "buffer")
	ctx := context.Background()

	rec.Count(ctx, "acquisitions.total", 3, attribute.String(AttrStatus, StatusSuccess))
	rec.ObserveSince(ctx, "codec.duration.seconds", time.Now())

	if len(tel.counters) != 1 {
		t.Fatalf("Expected 1 counter, got %d", len(tel.counters))
	}
	got := tel.counters[0]
	if got.name != "interop.buffer.acquisitions.total" || got.value != 3 {
		t.Errorf("Unexpected counter %s=%d", got.name, got.value)
	}
	want := []attribute.KeyValue{
		attribute.String(AttrComponent, "buffer"),
		attribute.String(AttrStatus, StatusSuccess),
	}
	if len(got.attrs) != len(want) {
		t.Fatalf("Expected %d attributes, got %v", len(want), got.attrs)
	}
	for i := range want {
		if got.attrs[i] != want[i] {
			t.Errorf("Attribute %d: expected %v, got %v", i, want[i], got.attrs[i])
		}
	}
	if len(tel.histograms) != 1 || tel.histograms[0] != "interop.buffer.codec.duration.seconds" {
		t.Errorf("Unexpected histograms %v", tel.histograms)
	}
}

func TestRecorderNilTelemetry(t *testing.T) {
	rec := NewRecorder(nil, "typed")
	rec.Count(context.Background(), "conversions.total", 1)
	rec.ObserveSince(context.Background(), "latency", time.Now())
}

func TestStatus(t *testing.T) {
	if got := Status(nil, StatusRejected); got != StatusSuccess {
		t.Errorf("Expected %s, got %s", StatusSuccess, got)
	}
	if got := Status(context.Canceled, StatusRejected); got != StatusRejected {
		t.Errorf("Expected %s, got %s", StatusRejected, got)
	}
}

func TestRecorderReachesProvider(t *testing.T) {
	var out bytes.Buffer
	cfg := DefaultConfig()
	cfg.Enabled = true
	cfg.Output = &out

	tel, err := New(cfg)
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}
	ctx := context.Background()

	rec := NewRecorder(tel, "helper")
	rec.ObserveSince(ctx, "duration", time.Now().Add(-time.Millisecond))
	rec.Count(ctx, "bytes", 1024)
	NewRecorder(NewNoop(), "helper").Count(ctx, "ignored", 1)

	if err := tel.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown failed: %v", err)
	}
	for _, name := range []string{"interop.helper.duration", "interop.helper.bytes"} {
		if !bytes.Contains(out.Bytes(), []byte(name)) {
			t.Errorf("Expected %s in exported metrics", name)
		}
	}
	if bytes.Contains(out.Bytes(), []byte("interop.helper.ignored")) {
		t.Error("Noop telemetry must not reach the provider")
	}
}
