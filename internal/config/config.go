// SPDX-License-Identifier: MIT
package config

import "time"

// Defaults and limits for the grapher configuration.
const (
	DefaultConfigFile = "grapher.yaml"
	DefaultLogLevel   = "info"

	// Signal
	DefaultSource = "default"
	DefaultLength = 256    // Samples per buffer
	DefaultWindow = "none" // No taper
	MaxLength     = 1 << 14

	// Rendering
	DefaultBackend = BackendRaster
	DefaultLayout  = "split"
	DefaultWidth   = 1024
	DefaultHeight  = 512
	DefaultOutput  = "grapher.png"
	MaxDimension   = 1 << 14

	// Transport
	DefaultWSAddress        = "127.0.0.1:8080"
	DefaultWSPath           = "/ws"
	DefaultUDPTargetAddress = "127.0.0.1:9090"
	DefaultInterval         = 33 * time.Millisecond // ~30Hz

	// Export
	DefaultSampleRate = 44100
	DefaultBitDepth   = 16
	DefaultSeconds    = 2.0
	DefaultWAVOutput  = "grapher.wav"
	MinSampleRate     = 8000
	MaxSampleRate     = 192000
)

// Render backends.
const (
	BackendRaster = "raster"
	BackendVector = "vector"
)

// Default palette entries: white background, blue signal, red magnitude, green phase.
const (
	DefaultBackground = "#ffffffff"
	DefaultSignal     = "#1150ccff"
	DefaultMagnitude  = "#c02805ff"
	DefaultPhase      = "#02e022ff"
)

// NewConfig returns a Config holding the built-in defaults. It is the base
// that a configuration file and environment overrides are applied on top of.
func NewConfig() *Config {
	return &Config{
		LogLevel: DefaultLogLevel,
		Signal: SignalConfig{
			Source: DefaultSource,
			Length: DefaultLength,
			Window: DefaultWindow,
		},
		Render: RenderConfig{
			Backend: DefaultBackend,
			Width:   DefaultWidth,
			Height:  DefaultHeight,
			Output:  DefaultOutput,
			Layout:  DefaultLayout,
		},
		Palette: PaletteConfig{
			Background: DefaultBackground,
			Signal:     DefaultSignal,
			Magnitude:  DefaultMagnitude,
			Phase:      DefaultPhase,
		},
		Transport: TransportConfig{
			WSAddress:        DefaultWSAddress,
			WSPath:           DefaultWSPath,
			UDPEnabled:       false,
			UDPTargetAddress: DefaultUDPTargetAddress,
			Interval:         DefaultInterval,
		},
		Export: ExportConfig{
			SampleRate: DefaultSampleRate,
			BitDepth:   DefaultBitDepth,
			Seconds:    DefaultSeconds,
			Output:     DefaultWAVOutput,
		},
	}
}
