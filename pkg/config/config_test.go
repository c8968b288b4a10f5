package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KevoDB/interop/pkg/common/log"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig("/home/user")

	if cfg.Version != CurrentConfigVersion {
		t.Errorf("expected version %d, got %d", CurrentConfigVersion, cfg.Version)
	}

	if cfg.HistoryFile != filepath.Join("/home/user", ".interop_history") {
		t.Errorf("unexpected history file %s", cfg.HistoryFile)
	}

	if cfg.Level() != log.LevelInfo {
		t.Errorf("expected info level, got %s", cfg.Level())
	}

	if cfg.Telemetry.Enabled {
		t.Error("expected telemetry disabled by default")
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config, got error: %v", err)
	}

	if NewDefaultConfig("").HistoryFile != "" {
		t.Error("expected no history file without a home directory")
	}
}

func TestConfigValidate(t *testing.T) {
	testCases := []struct {
		name     string
		mutate   func(*Config)
		expected string
	}{
		{
			name:     "invalid version",
			mutate:   func(c *Config) { c.Version = 0 },
			expected: "invalid configuration: invalid version 0",
		},
		{
			name:     "bad log level",
			mutate:   func(c *Config) { c.LogLevel = "loud" },
			expected: `invalid configuration: unknown log level "loud"`,
		},
		{
			name:     "zero display items",
			mutate:   func(c *Config) { c.MaxDisplayItems = 0 },
			expected: "invalid configuration: max display items must be positive",
		},
		{
			name:     "unknown codec",
			mutate:   func(c *Config) { c.DefaultCodec = "lz4" },
			expected: `invalid configuration: unknown codec "lz4"`,
		},
		{
			name:     "bad sample rate",
			mutate:   func(c *Config) { c.Telemetry.SampleRate = 3 },
			expected: "invalid configuration: telemetry: sample_rate",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := NewDefaultConfig("/tmp")
			tc.mutate(cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
			if !strings.HasPrefix(err.Error(), tc.expected) {
				t.Errorf("expected error starting with %q, got %q", tc.expected, err.Error())
			}
		})
	}
}

func TestSaveAndLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", DefaultConfigFileName)

	cfg := NewDefaultConfig(dir)
	cfg.Update(func(c *Config) {
		c.LogLevel = "debug"
		c.MaxDisplayItems = 7
		c.DefaultCodec = CodecZstd
	})

	if err := cfg.Save(path); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file should be renamed away")
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if loaded.Level() != log.LevelDebug {
		t.Errorf("expected debug level, got %s", loaded.Level())
	}
	if loaded.MaxDisplayItems != 7 {
		t.Errorf("expected 7 display items, got %d", loaded.MaxDisplayItems)
	}
	if loaded.DefaultCodec != CodecZstd {
		t.Errorf("expected zstd codec, got %s", loaded.DefaultCodec)
	}
	if loaded.Telemetry.ServiceName != "interop" {
		t.Errorf("expected telemetry service name to round trip, got %s", loaded.Telemetry.ServiceName)
	}
}

func TestSaveRejectsInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultConfigFileName)
	cfg := NewDefaultConfig("")
	cfg.Version = -1

	if err := cfg.Save(path); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("invalid config should not be written")
	}
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadConfig(filepath.Join(dir, "missing.json")); err != ErrConfigNotFound {
		t.Errorf("expected ErrConfigNotFound, got %v", err)
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(bad); !errors.Is(err, ErrMalformed) {
		t.Errorf("expected ErrMalformed, got %v", err)
	}

	partial := filepath.Join(dir, "partial.json")
	if err := os.WriteFile(partial, []byte(`{"version": 1, "log_level": "warn"}`), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(partial)
	if err != nil {
		t.Fatalf("expected partial config to load with defaults, got %v", err)
	}
	if cfg.Level() != log.LevelWarn || cfg.MaxDisplayItems != 100 {
		t.Errorf("expected defaults to fill missing fields, got %+v", cfg)
	}
}

func TestLoadConfigAppliesTelemetryEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultConfigFileName)
	if err := NewDefaultConfig("").Save(path); err != nil {
		t.Fatal(err)
	}

	t.Setenv("INTEROP_TELEMETRY_SERVICE_NAME", "from-env")
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Telemetry.ServiceName != "from-env" {
		t.Errorf("expected env override, got %s", cfg.Telemetry.ServiceName)
	}
}
