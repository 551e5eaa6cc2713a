package config

import (
	"strings"
	"testing"

	"github.com/a3tai/instruction-catalog/internal/catalog"
)

func validConfig() *Config {
	cfg := DefaultConfig()
	cfg.ManualPath = "/tmp/AssemblerZ80.pdf"
	return cfg
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Mode != "extract" {
		t.Errorf("Expected default mode to be 'extract', got '%s'", cfg.Mode)
	}

	if cfg.Host != "127.0.0.1" {
		t.Errorf("Expected default host to be '127.0.0.1', got '%s'", cfg.Host)
	}

	if cfg.Port != 8080 {
		t.Errorf("Expected default port to be 8080, got %d", cfg.Port)
	}

	if cfg.ServerName != "instruction-catalog" {
		t.Errorf("Expected default server name to be 'instruction-catalog', got '%s'", cfg.ServerName)
	}

	if cfg.OutputPath != "output/z80asm-keywords.json" {
		t.Errorf("Expected default output to be 'output/z80asm-keywords.json', got '%s'", cfg.OutputPath)
	}

	if cfg.PhysicalOffset != 14 {
		t.Errorf("Expected default offset to be 14, got %d", cfg.PhysicalOffset)
	}

	if len(cfg.Anchors) != len(catalog.DefaultAnchors) {
		t.Errorf("Expected %d default anchors, got %d", len(catalog.DefaultAnchors), len(cfg.Anchors))
	}

	if cfg.MaxFileSize != 100*1024*1024 {
		t.Errorf("Expected default max file size to be 100MB, got %d", cfg.MaxFileSize)
	}

	// Defaults must not alias the package level anchor table
	cfg.Anchors[0].TrailingExtent = 42
	if catalog.DefaultAnchors[0].TrailingExtent == 42 {
		t.Error("DefaultConfig() anchors alias catalog.DefaultAnchors")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(c *Config)
		wantErr string
	}{
		{
			name:   "valid extract config",
			modify: func(c *Config) {},
		},
		{
			name:   "valid server config",
			modify: func(c *Config) { c.Mode = ModeServer },
		},
		{
			name:    "invalid mode",
			modify:  func(c *Config) { c.Mode = "invalid" },
			wantErr: "mode must be one of",
		},
		{
			name:    "invalid port - too low (server mode)",
			modify:  func(c *Config) { c.Mode = ModeServer; c.Port = 0 },
			wantErr: "port must be between",
		},
		{
			name:    "invalid port - too high (server mode)",
			modify:  func(c *Config) { c.Mode = ModeServer; c.Port = 70000 },
			wantErr: "port must be between",
		},
		{
			name:   "invalid port ignored in stdio mode",
			modify: func(c *Config) { c.Mode = ModeStdio; c.Port = 0 },
		},
		{
			name:    "empty manual path",
			modify:  func(c *Config) { c.ManualPath = "" },
			wantErr: "manual path cannot be empty",
		},
		{
			name:    "empty output in extract mode",
			modify:  func(c *Config) { c.OutputPath = "" },
			wantErr: "output path cannot be empty",
		},
		{
			name:   "empty output allowed in stdio mode",
			modify: func(c *Config) { c.Mode = ModeStdio; c.OutputPath = "" },
		},
		{
			name:    "zero max file size",
			modify:  func(c *Config) { c.MaxFileSize = 0 },
			wantErr: "maximum file size must be positive",
		},
		{
			name:    "no anchors",
			modify:  func(c *Config) { c.Anchors = nil },
			wantErr: "at least one group anchor",
		},
		{
			name: "zero trailing extent",
			modify: func(c *Config) {
				c.Anchors = []catalog.GroupAnchor{{AnchorPage: 70, TrailingExtent: 0}}
			},
			wantErr: "trailing extent must be at least 1",
		},
		{
			name:    "negative offset",
			modify:  func(c *Config) { c.PhysicalOffset = -1 },
			wantErr: "physical offset",
		},
		{
			name:    "invalid log level",
			modify:  func(c *Config) { c.LogLevel = "verbose" },
			wantErr: "invalid log level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestConfigManual(t *testing.T) {
	cfg := validConfig()
	cfg.ManualURL = "https://example.com/m.pdf"
	cfg.PhysicalOffset = 2

	m, err := cfg.Manual()
	if err != nil {
		t.Fatalf("Manual() unexpected error: %v", err)
	}
	if m.Link(1) != "https://example.com/m.pdf#page=3" {
		t.Errorf("Manual() link = %s", m.Link(1))
	}
}

func TestConfigAddress(t *testing.T) {
	cfg := &Config{Host: "localhost", Port: 9000}
	if cfg.Address() != "localhost:9000" {
		t.Errorf("Address() = %s, want localhost:9000", cfg.Address())
	}
}

func TestConfigModes(t *testing.T) {
	tests := []struct {
		mode        string
		wantExtract bool
		wantStdio   bool
		wantServer  bool
	}{
		{ModeExtract, true, false, false},
		{ModeStdio, false, true, false},
		{ModeServer, false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			cfg := &Config{Mode: tt.mode}
			if cfg.IsExtractMode() != tt.wantExtract {
				t.Errorf("IsExtractMode() = %v, want %v", cfg.IsExtractMode(), tt.wantExtract)
			}
			if cfg.IsStdioMode() != tt.wantStdio {
				t.Errorf("IsStdioMode() = %v, want %v", cfg.IsStdioMode(), tt.wantStdio)
			}
			if cfg.IsServerMode() != tt.wantServer {
				t.Errorf("IsServerMode() = %v, want %v", cfg.IsServerMode(), tt.wantServer)
			}
		})
	}
}

func TestConfigIsDebug(t *testing.T) {
	for level, want := range map[string]bool{"debug": true, "info": false, "warn": false, "error": false} {
		cfg := &Config{LogLevel: level}
		if cfg.IsDebug() != want {
			t.Errorf("IsDebug() with %s = %v, want %v", level, cfg.IsDebug(), want)
		}
	}
}

func TestConfigString(t *testing.T) {
	cfg := validConfig()
	str := cfg.String()

	for _, part := range []string{"Mode: extract", "Port: 8080", "Offset: 14", "Anchors: 11", "LogLevel: info"} {
		if !strings.Contains(str, part) {
			t.Errorf("String() = %s, missing %q", str, part)
		}
	}
}
