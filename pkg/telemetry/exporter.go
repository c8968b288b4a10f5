// ABOUTME: OpenTelemetry exporter factory for creating metric readers and trace exporters (Prometheus, OTLP, stdout)
// ABOUTME: Handles configuration and creation of the supported telemetry export destinations

package telemetry

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/trace"
)

// createMetricReaders creates metric readers based on configuration.
// OTLP carries traces only. reg receives the Prometheus collector when
// that exporter is enabled.
func createMetricReaders(cfg Config, reg *prometheus.Registry) ([]metric.Reader, error) {
	var readers []metric.Reader

	for _, exporterName := range cfg.Exporters {
		switch exporterName {
		case ExporterPrometheus:
			reader, err := otelprom.New(otelprom.WithRegisterer(reg))
			if err != nil {
				return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
			}
			readers = append(readers, reader)

		case ExporterStdout:
			exporter, err := stdoutmetric.New(
				stdoutmetric.WithWriter(output(cfg)),
				stdoutmetric.WithPrettyPrint(),
			)
			if err != nil {
				return nil, fmt.Errorf("failed to create stdout metric exporter: %w", err)
			}
			readers = append(readers, metric.NewPeriodicReader(exporter, metric.WithTimeout(cfg.ExportTimeout)))
		}
	}

	return readers, nil
}

// createTraceExporters creates trace exporters based on configuration.
func createTraceExporters(ctx context.Context, cfg Config) ([]trace.SpanExporter, error) {
	var exporters []trace.SpanExporter

	for _, exporterName := range cfg.Exporters {
		switch exporterName {
		case ExporterOTLP:
			exporter, err := otlptracegrpc.New(ctx,
				otlptracegrpc.WithEndpoint(cfg.OTLPEndpoint),
				otlptracegrpc.WithInsecure(),
				otlptracegrpc.WithTimeout(cfg.ExportTimeout),
			)
			if err != nil {
				return nil, fmt.Errorf("failed to create OTLP trace exporter: %w", err)
			}
			exporters = append(exporters, exporter)

		case ExporterStdout:
			exporter, err := stdouttrace.New(
				stdouttrace.WithWriter(output(cfg)),
				stdouttrace.WithPrettyPrint(),
			)
			if err != nil {
				return nil, fmt.Errorf("failed to create stdout trace exporter: %w", err)
			}
			exporters = append(exporters, exporter)
		}
	}

	return exporters, nil
}

func output(cfg Config) io.Writer {
	if cfg.Output != nil {
		return cfg.Output
	}
	return os.Stdout
}
