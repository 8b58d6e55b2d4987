package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Color modes for diagnostics.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

var logLevels = []string{"debug", "verbose", "info", "warning", "error"}

// Config is the runtime configuration read from streem.yaml.
//
//	chunk_size: 65536
//	max_depth: 10000
//	log_level: info
//	color: auto
//	sync_stdio: true
type Config struct {
	// ChunkSize is the number of bytes a file source reads per value.
	ChunkSize int `yaml:"chunk_size,omitempty"`

	// MaxDepth bounds nested evaluation (deep recursion in scripts).
	MaxDepth int `yaml:"max_depth,omitempty"`

	// LogLevel is one of debug, verbose, info, warning, error.
	LogLevel string `yaml:"log_level,omitempty"`

	// Color controls ANSI escapes in diagnostics: auto, always or never.
	Color string `yaml:"color,omitempty"`

	// SyncStdio performs standard stream I/O inline instead of on a worker
	// goroutine. Completions are still delivered through the event loop.
	SyncStdio *bool `yaml:"sync_stdio,omitempty"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

// LoadConfig reads and parses a streem.yaml file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return ParseConfig(data, path)
}

// ParseConfig parses streem.yaml content. Unknown keys are rejected.
// The path argument is used only for error messages.
func ParseConfig(data []byte, path string) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

// FindConfig searches for streem.yaml starting from dir and walking up to
// parent directories. It returns "" when there is none.
func FindConfig(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}

	for {
		candidate := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

func (c *Config) setDefaults() {
	if c.ChunkSize == 0 {
		c.ChunkSize = DefaultChunkSize
	}
	if c.MaxDepth == 0 {
		c.MaxDepth = DefaultMaxDepth
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Color == "" {
		c.Color = ColorAuto
	}
	if c.SyncStdio == nil {
		sync := true
		c.SyncStdio = &sync
	}
}

// Validate checks the configuration for semantic errors.
func (c *Config) Validate() error {
	if c.ChunkSize < 0 {
		return fmt.Errorf("chunk_size must be positive, got %d", c.ChunkSize)
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("max_depth must be positive, got %d", c.MaxDepth)
	}
	if !ValidLogLevel(c.LogLevel) {
		return fmt.Errorf("unknown log_level %q (want one of %v)", c.LogLevel, logLevels)
	}
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("unknown color %q (want auto, always or never)", c.Color)
	}
	return nil
}

// ValidLogLevel reports whether name is an accepted log_level value.
func ValidLogLevel(name string) bool {
	for _, l := range logLevels {
		if l == name {
			return true
		}
	}
	return false
}

// Sync reports the effective sync_stdio setting.
func (c *Config) Sync() bool {
	return c.SyncStdio == nil || *c.SyncStdio
}
