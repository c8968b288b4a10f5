// ABOUTME: OpenTelemetry provider implementation with metric and trace provider setup
// ABOUTME: Handles provider lifecycle, resource attributes, sampling, and instrument caching

package telemetry

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdkresource "go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	oteltrace "go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/KevoDB/interop"

// TelemetryProvider implements the Telemetry interface using OpenTelemetry SDK.
type TelemetryProvider struct {
	config         Config
	meterProvider  *sdkmetric.MeterProvider
	tracerProvider *sdktrace.TracerProvider
	meter          metric.Meter
	tracer         oteltrace.Tracer

	registry      *prometheus.Registry
	metricsServer *http.Server

	mu         sync.Mutex
	histograms map[string]metric.Float64Histogram
	counters   map[string]metric.Int64Counter
}

// New creates a new TelemetryProvider with the given configuration.
// A disabled configuration yields the no-op implementation.
func New(cfg Config) (Telemetry, error) {
	if !cfg.Enabled {
		return NewNoop(), nil
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid telemetry config: %w", err)
	}

	res := sdkresource.NewSchemaless(
		attribute.String("service.name", cfg.ServiceName),
		attribute.String("service.version", cfg.ServiceVersion),
	)

	var registry *prometheus.Registry
	if cfg.HasExporter(ExporterPrometheus) {
		registry = prometheus.NewRegistry()
	}

	readers, err := createMetricReaders(cfg, registry)
	if err != nil {
		return nil, err
	}
	traceExporters, err := createTraceExporters(context.Background(), cfg)
	if err != nil {
		return nil, err
	}

	metricOpts := []sdkmetric.Option{sdkmetric.WithResource(res)}
	for _, r := range readers {
		metricOpts = append(metricOpts, sdkmetric.WithReader(r))
	}

	traceOpts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRate))),
	}
	for _, exp := range traceExporters {
		traceOpts = append(traceOpts, sdktrace.WithBatcher(exp,
			sdktrace.WithBatchTimeout(cfg.BatchTimeout),
			sdktrace.WithExportTimeout(cfg.ExportTimeout),
			sdktrace.WithMaxQueueSize(cfg.MaxQueueSize),
			sdktrace.WithMaxExportBatchSize(cfg.MaxExportBatchSize),
		))
	}

	mp := sdkmetric.NewMeterProvider(metricOpts...)
	tp := sdktrace.NewTracerProvider(traceOpts...)

	p := &TelemetryProvider{
		config:         cfg,
		meterProvider:  mp,
		tracerProvider: tp,
		meter:          mp.Meter(instrumentationName),
		tracer:         tp.Tracer(instrumentationName),
		registry:       registry,
		histograms:     make(map[string]metric.Float64Histogram),
		counters:       make(map[string]metric.Int64Counter),
	}

	if registry != nil && cfg.PrometheusAddr != "" {
		if err := p.serveMetrics(cfg.PrometheusAddr); err != nil {
			_ = p.Shutdown(context.Background())
			return nil, err
		}
	}

	return p, nil
}

// MetricsHandler returns the Prometheus scrape handler, or nil when the
// prometheus exporter is not configured.
func (p *TelemetryProvider) MetricsHandler() http.Handler {
	if p.registry == nil {
		return nil
	}
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

// MetricsAddr reports the address the /metrics endpoint listens on.
func (p *TelemetryProvider) MetricsAddr() string {
	if p.metricsServer == nil {
		return ""
	}
	return p.metricsServer.Addr
}

func (p *TelemetryProvider) serveMetrics(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen for prometheus scrapes on %s: %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", p.MetricsHandler())
	p.metricsServer = &http.Server{
		Addr:              ln.Addr().String(),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		_ = p.metricsServer.Serve(ln)
	}()
	return nil
}

// RecordHistogram records a value in the named histogram
func (p *TelemetryProvider) RecordHistogram(ctx context.Context, name string, value float64, attrs ...attribute.KeyValue) {
	h, err := p.histogram(name)
	if err != nil {
		return
	}
	h.Record(orBackground(ctx), value, metric.WithAttributes(attrs...))
}

// RecordCounter adds value to the named counter
func (p *TelemetryProvider) RecordCounter(ctx context.Context, name string, value int64, attrs ...attribute.KeyValue) {
	c, err := p.counter(name)
	if err != nil {
		return
	}
	c.Add(orBackground(ctx), value, metric.WithAttributes(attrs...))
}

// StartSpan starts a span on the provider's tracer
func (p *TelemetryProvider) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, oteltrace.Span) {
	return p.tracer.Start(orBackground(ctx), name, oteltrace.WithAttributes(attrs...))
}

// Shutdown flushes and stops both providers
func (p *TelemetryProvider) Shutdown(ctx context.Context) error {
	ctx = orBackground(ctx)
	var serverErr error
	if p.metricsServer != nil {
		serverErr = p.metricsServer.Shutdown(ctx)
	}
	return errors.Join(
		serverErr,
		p.meterProvider.Shutdown(ctx),
		p.tracerProvider.Shutdown(ctx),
	)
}

func (p *TelemetryProvider) histogram(name string) (metric.Float64Histogram, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if h, ok := p.histograms[name]; ok {
		return h, nil
	}
	h, err := p.meter.Float64Histogram(name)
	if err != nil {
		return nil, err
	}
	p.histograms[name] = h
	return h, nil
}

func (p *TelemetryProvider) counter(name string) (metric.Int64Counter, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if c, ok := p.counters[name]; ok {
		return c, nil
	}
	c, err := p.meter.Int64Counter(name)
	if err != nil {
		return nil, err
	}
	p.counters[name] = c
	return c, nil
}

func orBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
