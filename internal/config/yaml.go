// SPDX-License-Identifier: MIT
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"grapher/internal/canvas"
	"grapher/internal/log"
	"grapher/internal/plot"
	"grapher/internal/signal"
	"grapher/internal/transport/udp"
)

var logger = log.Named("Config")

// Config represents the main application configuration structure, loaded from YAML.
type Config struct {
	LogLevel  string          `yaml:"log_level"` // Logging level ("debug", "info", "warn", "error").
	Signal    SignalConfig    `yaml:"signal"`    // Sample buffer settings.
	Render    RenderConfig    `yaml:"render"`    // One-shot rendering settings.
	Palette   PaletteConfig   `yaml:"palette"`   // Plot colors.
	Transport TransportConfig `yaml:"transport"` // Frame and spectrum publishing.
	Export    ExportConfig    `yaml:"export"`    // WAV export settings.
}

// SignalConfig selects the waveform and the buffer length.
type SignalConfig struct {
	Source string `yaml:"source"` // "default", "square" or "sine:<k>".
	Length int    `yaml:"length"` // Samples per buffer, also the number of spectrum bins.
	Window string `yaml:"window"` // Window function applied after generation ("none", "hann", ...).
}

// RenderConfig holds the settings of the render command.
type RenderConfig struct {
	Backend string `yaml:"backend"` // "raster" or "vector".
	Width   int    `yaml:"width"`   // Surface width in pixels.
	Height  int    `yaml:"height"`  // Surface height in pixels.
	Output  string `yaml:"output"`  // PNG output path.
	Layout  string `yaml:"layout"`  // "split" (signal and spectrum) or "signal" (samples only).
}

// PaletteConfig holds the plot colors as "#rrggbb", "#rrggbbaa" or "0xAABBGGRR".
type PaletteConfig struct {
	Background string `yaml:"background"`
	Signal     string `yaml:"signal"`
	Magnitude  string `yaml:"magnitude"`
	Phase      string `yaml:"phase"`
}

// TransportConfig holds settings related to publishing frames over the network.
type TransportConfig struct {
	WSAddress        string        `yaml:"ws_address"`         // Listen address of the websocket server.
	WSPath           string        `yaml:"ws_path"`            // HTTP path upgraded to websocket.
	UDPEnabled       bool          `yaml:"udp_enabled"`        // Send magnitude/phase packets over UDP.
	UDPTargetAddress string        `yaml:"udp_target_address"` // Target address and port for UDP packets.
	Interval         time.Duration `yaml:"interval"`           // Interval between published frames.
}

// ExportConfig holds the settings of the export command.
type ExportConfig struct {
	SampleRate int     `yaml:"sample_rate"` // Sample rate in Hz.
	BitDepth   int     `yaml:"bit_depth"`   // 8, 16, 24 or 32.
	Seconds    float64 `yaml:"seconds"`     // Duration; the buffer is looped to fill it.
	Output     string  `yaml:"output"`      // WAV output path.
}

// LoadConfig loads configuration from a YAML file specified by path. If path is
// empty, it looks for DefaultConfigFile in the working directory and falls back
// to the built-in defaults. Environment overrides are applied last, then the
// result is validated.
func LoadConfig(path string) (*Config, error) {
	cfg := NewConfig()

	if path == "" {
		if _, err := os.Stat(DefaultConfigFile); err == nil {
			path = DefaultConfigFile
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks every section and reports all problems at once.
func (c *Config) Validate() error {
	var errs []error

	if _, ok := log.ParseLevel(c.LogLevel); !ok {
		errs = append(errs, fmt.Errorf("log_level '%s' is not a known level", c.LogLevel))
	}

	// Signal
	if c.Signal.Length < 1 || c.Signal.Length > MaxLength {
		errs = append(errs, fmt.Errorf("signal.length must be in [1, %d], got %d", MaxLength, c.Signal.Length))
	}
	if _, err := signal.Lookup(c.Signal.Source); err != nil {
		errs = append(errs, fmt.Errorf("signal.source: %w", err))
	}
	if _, err := signal.ParseWindowFunc(c.Signal.Window); err != nil {
		errs = append(errs, fmt.Errorf("signal.window: %w", err))
	}

	// Render
	switch c.Render.Backend {
	case BackendRaster, BackendVector:
	default:
		errs = append(errs, fmt.Errorf("render.backend must be '%s' or '%s', got '%s'", BackendRaster, BackendVector, c.Render.Backend))
	}
	if _, err := plot.ParseLayout(c.Render.Layout); err != nil {
		errs = append(errs, fmt.Errorf("render.layout: %w", err))
	}
	if c.Render.Width < 1 || c.Render.Width > MaxDimension || c.Render.Height < 1 || c.Render.Height > MaxDimension {
		errs = append(errs, fmt.Errorf("render size %dx%d is out of range", c.Render.Width, c.Render.Height))
	}

	// Palette
	if _, err := c.Palette.Resolve(); err != nil {
		errs = append(errs, err)
	}

	// Transport
	if c.Transport.WSPath != "" && !strings.HasPrefix(c.Transport.WSPath, "/") {
		errs = append(errs, fmt.Errorf("transport.ws_path '%s' must start with '/'", c.Transport.WSPath))
	}
	if c.Transport.Interval <= 0 {
		errs = append(errs, errors.New("transport.interval must be positive"))
	}
	if c.Transport.UDPEnabled && !strings.Contains(c.Transport.UDPTargetAddress, ":") {
		errs = append(errs, fmt.Errorf("transport.udp_target_address '%s' appears invalid (missing port?)", c.Transport.UDPTargetAddress))
	}
	if c.Transport.UDPEnabled && c.Signal.Length > udp.MaxBins {
		errs = append(errs, fmt.Errorf("signal.length %d exceeds %d bins, the most a UDP packet can carry", c.Signal.Length, udp.MaxBins))
	}

	// Export
	if c.Export.SampleRate < MinSampleRate || c.Export.SampleRate > MaxSampleRate {
		errs = append(errs, fmt.Errorf("export.sample_rate must be in [%d, %d], got %d", MinSampleRate, MaxSampleRate, c.Export.SampleRate))
	}
	switch c.Export.BitDepth {
	case 8, 16, 24, 32:
	default:
		errs = append(errs, fmt.Errorf("export.bit_depth must be 8, 16, 24 or 32, got %d", c.Export.BitDepth))
	}
	if c.Export.Seconds <= 0 {
		errs = append(errs, fmt.Errorf("export.seconds must be positive, got %g", c.Export.Seconds))
	}

	return errors.Join(errs...)
}

// Resolve parses the four palette entries.
func (p PaletteConfig) Resolve() (plot.Palette, error) {
	var pal plot.Palette
	for _, f := range []struct {
		name string
		in   string
		out  *canvas.Color
	}{
		{"background", p.Background, &pal.Background},
		{"signal", p.Signal, &pal.Signal},
		{"magnitude", p.Magnitude, &pal.Magnitude},
		{"phase", p.Phase, &pal.Phase},
	} {
		c, err := plot.ParseColor(f.in)
		if err != nil {
			return plot.Palette{}, fmt.Errorf("palette.%s: %w", f.name, err)
		}
		*f.out = c
	}
	return pal, nil
}

// BuildSource builds the configured signal source, windowed when a window other
// than "none" is set.
func (s SignalConfig) BuildSource() (signal.Source, error) {
	src, err := signal.Lookup(s.Source)
	if err != nil {
		return nil, err
	}
	w, err := signal.ParseWindowFunc(s.Window)
	if err != nil {
		return nil, err
	}
	if w == signal.None {
		return src, nil
	}
	return signal.Windowed{Source: src, Window: w}, nil
}

// applyEnvOverrides applies ENV_ prefixed variables on top of the loaded
// values. Unparseable values are logged and ignored.
func (c *Config) applyEnvOverrides() {
	str := func(key string, dst *string) {
		if val, ok := os.LookupEnv(key); ok {
			*dst = val
			logger.Infof("Overriding %s from env: %s", key, val)
		}
	}
	num := func(key string, dst *int) {
		if val, ok := os.LookupEnv(key); ok {
			n, err := strconv.Atoi(val)
			if err != nil {
				logger.Warnf("Ignoring %s: %v", key, err)
				return
			}
			*dst = n
			logger.Infof("Overriding %s from env: %d", key, n)
		}
	}

	// ENV_{...}
	// General overrides.
	str("ENV_LOG_LEVEL", &c.LogLevel)
	str("ENV_SIGNAL_SOURCE", &c.Signal.Source)
	num("ENV_SIGNAL_LENGTH", &c.Signal.Length)
	str("ENV_SIGNAL_WINDOW", &c.Signal.Window)
	str("ENV_RENDER_BACKEND", &c.Render.Backend)
	num("ENV_RENDER_WIDTH", &c.Render.Width)
	num("ENV_RENDER_HEIGHT", &c.Render.Height)
	str("ENV_RENDER_LAYOUT", &c.Render.Layout)

	// ENV_WS_{...} / ENV_UDP_{...}
	// Transport layer.
	str("ENV_WS_ADDRESS", &c.Transport.WSAddress)
	if val, ok := os.LookupEnv("ENV_UDP_ENABLED"); ok {
		if b, err := strconv.ParseBool(val); err == nil {
			c.Transport.UDPEnabled = b
			logger.Infof("Overriding ENV_UDP_ENABLED from env: %v", b)
		} else {
			logger.Warnf("Ignoring ENV_UDP_ENABLED: %v", err)
		}
	}
	str("ENV_UDP_TARGET_ADDRESS", &c.Transport.UDPTargetAddress)
	if val, ok := os.LookupEnv("ENV_SEND_INTERVAL"); ok {
		if d, err := time.ParseDuration(val); err == nil {
			c.Transport.Interval = d
			logger.Infof("Overriding ENV_SEND_INTERVAL from env: %s", d)
		} else {
			logger.Warnf("Ignoring ENV_SEND_INTERVAL: %v", err)
		}
	}
}
