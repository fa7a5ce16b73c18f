// SPDX-License-Identifier: MIT
package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"grapher/internal/plot"
	"grapher/internal/signal"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	tmp := t.TempDir()
	path := filepath.Join(tmp, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}
	return path
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if cfg.Signal.Length != DefaultLength || cfg.Render.Backend != BackendRaster {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoadConfig_DefaultFileInWorkingDir(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	if err := os.WriteFile(DefaultConfigFile, []byte("signal:\n  length: 64\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Signal.Length != 64 {
		t.Errorf("length = %d, want 64", cfg.Signal.Length)
	}
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	t.Parallel()
	cfg, err := LoadConfig("nonexistent.yaml")
	if err == nil {
		t.Errorf("expected error for missing file, got nil")
	}
	if cfg != nil {
		t.Errorf("expected nil config on error, got %+v", cfg)
	}
}

func TestLoadConfig_UnmarshalError(t *testing.T) {
	t.Parallel()
	path := writeTempConfig(t, ":\n:bad")
	_, err := LoadConfig(path)
	if err == nil || !strings.Contains(err.Error(), "failed to parse config file") {
		t.Error("expected unmarshal error, got nil or wrong error")
	}
}

func TestLoadConfig_FileValues(t *testing.T) {
	t.Parallel()
	path := writeTempConfig(t, `
log_level: debug
signal:
  source: square
  length: 512
  window: hann
render:
  backend: vector
  width: 800
  height: 400
palette:
  phase: "#ff00ff"
transport:
  udp_enabled: true
  udp_target_address: 127.0.0.1:9999
  interval: 50ms
export:
  bit_depth: 24
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Signal.Source != "square" || cfg.Signal.Length != 512 || cfg.Signal.Window != "hann" {
		t.Errorf("signal section = %+v", cfg.Signal)
	}
	if cfg.Render.Backend != BackendVector || cfg.Render.Width != 800 {
		t.Errorf("render section = %+v", cfg.Render)
	}
	if cfg.Transport.Interval != 50*time.Millisecond || !cfg.Transport.UDPEnabled {
		t.Errorf("transport section = %+v", cfg.Transport)
	}
	if cfg.Export.BitDepth != 24 || cfg.Export.SampleRate != DefaultSampleRate {
		t.Errorf("export section = %+v", cfg.Export)
	}
	// Unset palette entries keep their defaults.
	if cfg.Palette.Signal != DefaultSignal {
		t.Errorf("palette.signal = %q, want default", cfg.Palette.Signal)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("ENV_SIGNAL_LENGTH", "128")
	t.Setenv("ENV_RENDER_BACKEND", "vector")
	t.Setenv("ENV_UDP_ENABLED", "true")
	t.Setenv("ENV_SEND_INTERVAL", "10ms")
	t.Setenv("ENV_RENDER_WIDTH", "not-a-number")

	path := writeTempConfig(t, "signal:\n  length: 64\n")
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Signal.Length != 128 {
		t.Errorf("env should win over file: length = %d", cfg.Signal.Length)
	}
	if cfg.Render.Backend != BackendVector || !cfg.Transport.UDPEnabled || cfg.Transport.Interval != 10*time.Millisecond {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.Render.Width != DefaultWidth {
		t.Errorf("unparseable override should be ignored, width = %d", cfg.Render.Width)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"defaults", func(*Config) {}, ""},
		{"zero length", func(c *Config) { c.Signal.Length = 0 }, "signal.length"},
		{"unknown source", func(c *Config) { c.Signal.Source = "noise" }, "signal.source"},
		{"unknown window", func(c *Config) { c.Signal.Window = "kaiser" }, "signal.window"},
		{"unknown backend", func(c *Config) { c.Render.Backend = "gdi" }, "render.backend"},
		{"zero width", func(c *Config) { c.Render.Width = 0 }, "render size"},
		{"unknown layout", func(c *Config) { c.Render.Layout = "bars" }, "render.layout"},
		{"signal layout", func(c *Config) { c.Render.Layout = "signal" }, ""},
		{"bad color", func(c *Config) { c.Palette.Magnitude = "red" }, "palette.magnitude"},
		{"relative ws path", func(c *Config) { c.Transport.WSPath = "ws" }, "ws_path"},
		{"zero interval", func(c *Config) { c.Transport.Interval = 0 }, "interval"},
		{"udp without port", func(c *Config) {
			c.Transport.UDPEnabled = true
			c.Transport.UDPTargetAddress = "localhost"
		}, "udp_target_address"},
		{"udp length over packet limit", func(c *Config) {
			c.Transport.UDPEnabled = true
			c.Signal.Length = 8192
		}, "UDP packet"},
		{"long buffer without udp", func(c *Config) {
			c.Transport.UDPEnabled = false
			c.Signal.Length = MaxLength
		}, ""},
		{"padded window name", func(c *Config) { c.Signal.Window = " hann " }, ""},
		{"bit depth", func(c *Config) { c.Export.BitDepth = 12 }, "bit_depth"},
		{"sample rate", func(c *Config) { c.Export.SampleRate = 100 }, "sample_rate"},
		{"seconds", func(c *Config) { c.Export.Seconds = 0 }, "seconds"},
		{"log level", func(c *Config) { c.LogLevel = "loud" }, "log_level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.want == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestPaletteResolveDefaults(t *testing.T) {
	pal, err := NewConfig().Palette.Resolve()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pal != plot.DefaultPalette {
		t.Errorf("default palette strings resolve to %+v, want %+v", pal, plot.DefaultPalette)
	}
}

func TestBuildSource(t *testing.T) {
	src, err := SignalConfig{Source: "square", Window: "none"}.BuildSource()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := src.(signal.Waveform); !ok {
		t.Errorf("expected an unwindowed waveform, got %T", src)
	}

	src, err = SignalConfig{Source: "default", Window: "hann"}.BuildSource()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w, ok := src.(signal.Windowed); !ok || w.Window != signal.Hann {
		t.Errorf("expected a Hann windowed source, got %#v", src)
	}

	if _, err := (SignalConfig{Source: "noise"}).BuildSource(); err == nil {
		t.Error("expected error for unknown source")
	}
}
