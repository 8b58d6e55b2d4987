package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.ChunkSize != DefaultChunkSize {
		t.Errorf("expected chunk size %d, got %d", DefaultChunkSize, cfg.ChunkSize)
	}
	if cfg.MaxDepth != DefaultMaxDepth {
		t.Errorf("expected max depth %d, got %d", DefaultMaxDepth, cfg.MaxDepth)
	}
	if cfg.LogLevel != "info" || cfg.Color != ColorAuto || !cfg.Sync() {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestParseConfig(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		check   func(*Config) bool
		wantErr string
	}{
		{
			name:  "empty",
			input: "",
			check: func(c *Config) bool { return c.ChunkSize == DefaultChunkSize },
		},
		{
			name:  "all_fields",
			input: "chunk_size: 16\nmax_depth: 50\nlog_level: debug\ncolor: never\nsync_stdio: false\n",
			check: func(c *Config) bool {
				return c.ChunkSize == 16 && c.MaxDepth == 50 && c.LogLevel == "debug" &&
					c.Color == ColorNever && !c.Sync()
			},
		},
		{
			name:    "unknown_field",
			input:   "chunk: 16\n",
			wantErr: "field chunk not found",
		},
		{
			name:    "bad_level",
			input:   "log_level: loud\n",
			wantErr: "unknown log_level",
		},
		{
			name:    "bad_color",
			input:   "color: sometimes\n",
			wantErr: "unknown color",
		},
		{
			name:    "negative_chunk",
			input:   "chunk_size: -1\n",
			wantErr: "chunk_size must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := ParseConfig([]byte(tt.input), "streem.yaml")
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.check(cfg) {
				t.Errorf("unexpected config: %+v", cfg)
			}
		})
	}
}

func TestFindConfig(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, ConfigFileName), []byte("chunk_size: 8\n"), 0644); err != nil {
		t.Fatal(err)
	}

	path, err := FindConfig(nested)
	if err != nil {
		t.Fatalf("FindConfig: %v", err)
	}
	if path != filepath.Join(root, ConfigFileName) {
		t.Errorf("expected %s, got %s", filepath.Join(root, ConfigFileName), path)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.ChunkSize != 8 {
		t.Errorf("expected chunk size 8, got %d", cfg.ChunkSize)
	}
}
