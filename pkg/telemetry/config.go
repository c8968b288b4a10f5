// ABOUTME: Telemetry settings: exporters, sampling and batching, with defaults
// ABOUTME: Environment overrides are table-driven and validation reports every problem together

package telemetry

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Exporter names
const (
	ExporterStdout     = "stdout"
	ExporterOTLP       = "otlp"
	ExporterPrometheus = "prometheus"
)

var knownExporters = []string{ExporterStdout, ExporterOTLP, ExporterPrometheus}

// Config holds all configuration for telemetry providers and exporters.
type Config struct {
	// ServiceName identifies the service in telemetry data
	ServiceName string `json:"service_name"`

	// ServiceVersion identifies the service version in telemetry data
	ServiceVersion string `json:"service_version"`

	// Enabled controls whether telemetry is active
	Enabled bool `json:"enabled"`

	// Exporters specifies which exporters to use (stdout, otlp, prometheus)
	Exporters []string `json:"exporters"`

	// SampleRate controls trace sampling (0.0 to 1.0)
	SampleRate float64 `json:"sample_rate"`

	// OTLPEndpoint specifies the OTLP collector endpoint (host:port)
	OTLPEndpoint string `json:"otlp_endpoint"`

	// PrometheusAddr is the listen address of the /metrics endpoint; empty
	// keeps the endpoint off while still collecting into the registry
	PrometheusAddr string `json:"prometheus_addr"`

	// ExportTimeout controls how long to wait for exports
	ExportTimeout time.Duration `json:"export_timeout"`

	// BatchTimeout controls how long to wait before exporting a batch
	BatchTimeout time.Duration `json:"batch_timeout"`

	// MaxQueueSize controls the maximum queue size for pending exports
	MaxQueueSize int `json:"max_queue_size"`

	// MaxExportBatchSize controls the maximum batch size for exports
	MaxExportBatchSize int `json:"max_export_batch_size"`

	// Output receives stdout exporter data; nil means os.Stdout
	Output io.Writer `json:"-"`
}

// DefaultConfig returns a configuration with sensible defaults.
// Telemetry is disabled until explicitly enabled.
func DefaultConfig() Config {
	return Config{
		ServiceName:        "interop",
		ServiceVersion:     "development",
		Enabled:            false,
		Exporters:          []string{ExporterStdout},
		SampleRate:         1.0,
		OTLPEndpoint:       "localhost:4317",
		ExportTimeout:      30 * time.Second,
		BatchTimeout:       5 * time.Second,
		MaxQueueSize:       2048,
		MaxExportBatchSize: 512,
	}
}

// envPrefix namespaces every telemetry environment variable.
const envPrefix = "INTEROP_TELEMETRY_"

// envBinding applies one environment variable to a Config. Values that fail
// to parse leave the field untouched.
type envBinding struct {
	suffix string
	apply  func(c *Config, val string)
}

var envBindings = []envBinding{
	{"SERVICE_NAME", func(c *Config, v string) { c.ServiceName = v }},
	{"SERVICE_VERSION", func(c *Config, v string) { c.ServiceVersion = v }},
	{"ENABLED", parsed(strconv.ParseBool, func(c *Config, v bool) { c.Enabled = v })},
	{"EXPORTERS", func(c *Config, v string) { c.Exporters = splitList(v) }},
	{"SAMPLE_RATE", parsed(parseFloat, func(c *Config, v float64) { c.SampleRate = v })},
	{"OTLP_ENDPOINT", func(c *Config, v string) { c.OTLPEndpoint = v }},
	{"PROMETHEUS_ADDR", func(c *Config, v string) { c.PrometheusAddr = v }},
	{"EXPORT_TIMEOUT", parsed(time.ParseDuration, func(c *Config, v time.Duration) { c.ExportTimeout = v })},
	{"BATCH_TIMEOUT", parsed(time.ParseDuration, func(c *Config, v time.Duration) { c.BatchTimeout = v })},
}

func parsed[T any](parse func(string) (T, error), set func(*Config, T)) func(*Config, string) {
	return func(c *Config, val string) {
		if v, err := parse(val); err == nil {
			set(c, v)
		}
	}
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// LoadFromEnv overrides fields from INTEROP_TELEMETRY_* variables. Empty and
// malformed values are ignored.
func (c *Config) LoadFromEnv() {
	for _, b := range envBindings {
		if val := os.Getenv(envPrefix + b.suffix); val != "" {
			b.apply(c, val)
		}
	}
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.ServiceName != "", "service_name cannot be empty")
	check(c.ServiceVersion != "", "service_version cannot be empty")
	check(c.SampleRate >= 0.0 && c.SampleRate <= 1.0, "sample_rate must be between 0.0 and 1.0, got %f", c.SampleRate)
	check(c.ExportTimeout > 0, "export_timeout must be positive, got %s", c.ExportTimeout)
	check(c.BatchTimeout > 0, "batch_timeout must be positive, got %s", c.BatchTimeout)
	check(c.MaxQueueSize > 0, "max_queue_size must be positive, got %d", c.MaxQueueSize)
	check(c.MaxExportBatchSize > 0, "max_export_batch_size must be positive, got %d", c.MaxExportBatchSize)
	for _, exporter := range c.Exporters {
		check(slices.Contains(knownExporters, exporter), "invalid exporter: %s, valid options are: %s",
			exporter, strings.Join(knownExporters, ", "))
	}
	check(!c.HasExporter(ExporterOTLP) || c.OTLPEndpoint != "", "otlp_endpoint is required when the otlp exporter is enabled")

	return errors.Join(errs...)
}

// HasExporter returns true if the specified exporter is configured.
func (c *Config) HasExporter(name string) bool {
	return slices.Contains(c.Exporters, name)
}
