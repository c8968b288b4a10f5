package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/KevoDB/interop/pkg/common/log"
	"github.com/KevoDB/interop/pkg/telemetry"
)

const (
	DefaultConfigFileName = "interop.json"
	CurrentConfigVersion  = 1
)

var (
	ErrInvalidConfig  = errors.New("invalid configuration")
	ErrConfigNotFound = errors.New("config file not found")
	ErrMalformed      = errors.New("malformed config file")
)

// Codec names accepted for DefaultCodec
const (
	CodecNone   = "none"
	CodecSnappy = "snappy"
	CodecZstd   = "zstd"
)

type Config struct {
	Version int `json:"version"`

	// Shell configuration
	LogLevel        string `json:"log_level"`
	HistoryFile     string `json:"history_file"`
	MaxDisplayItems int    `json:"max_display_items"`

	// Buffer configuration
	DefaultCodec string `json:"default_codec"`

	Telemetry telemetry.Config `json:"telemetry"`

	mu sync.RWMutex
}

// NewDefaultConfig creates a Config with recommended default values.
// homeDir anchors the shell history file; empty leaves history disabled.
func NewDefaultConfig(homeDir string) *Config {
	history := ""
	if homeDir != "" {
		history = filepath.Join(homeDir, ".interop_history")
	}

	return &Config{
		Version:         CurrentConfigVersion,
		LogLevel:        "info",
		HistoryFile:     history,
		MaxDisplayItems: 100,
		DefaultCodec:    CodecSnappy,
		Telemetry:       telemetry.DefaultConfig(),
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.validate()
}

func (c *Config) validate() error {
	if c.Version <= 0 {
		return fmt.Errorf("%w: invalid version %d", ErrInvalidConfig, c.Version)
	}

	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if c.MaxDisplayItems <= 0 {
		return fmt.Errorf("%w: max display items must be positive", ErrInvalidConfig)
	}

	switch c.DefaultCodec {
	case CodecNone, CodecSnappy, CodecZstd:
	default:
		return fmt.Errorf("%w: unknown codec %q", ErrInvalidConfig, c.DefaultCodec)
	}

	if err := c.Telemetry.Validate(); err != nil {
		return fmt.Errorf("%w: telemetry: %v", ErrInvalidConfig, err)
	}

	return nil
}

// LoadConfig reads and validates a config file. Environment overrides
// for telemetry are applied after the file is decoded.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := NewDefaultConfig("")
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	cfg.Telemetry.LoadFromEnv()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the configuration to path, replacing any existing file atomically
func (c *Config) Save(path string) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if err := c.validate(); err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("failed to rename config: %w", err)
	}

	return nil
}

// Update applies the given function to modify the configuration
func (c *Config) Update(fn func(*Config)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(c)
}

// Level returns the parsed log level, falling back to info
func (c *Config) Level() log.Level {
	c.mu.RLock()
	defer c.mu.RUnlock()
	level, _ := log.ParseLevel(c.LogLevel)
	return level
}
