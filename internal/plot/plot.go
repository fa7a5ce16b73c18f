// SPDX-License-Identifier: MIT
/*
Package plot maps the cached analysis buffers onto vertical line segments.

Layout for a surface of W×H pixels and N samples:

	center_y = H/2                     shared zero baseline
	signal     px = i*W/N/2            [0, W/2)   drawn upward
	magnitude  px = i*W/N/2 + W/2      [W/2, W)   drawn upward
	phase      px = i*W/N/2 + W/2      [W/2, W)   drawn downward

The SignalOnly layout drops both spectrum plots and spreads the samples over
the whole width, px = i*W/N.

Amplitudes scale by center_y and are truncated to whole pixels. The mapper
keeps no state between calls and asks the surface for its size every time,
so a resize between two renders simply produces a rescaled picture.
*/
package plot

import (
	"fmt"
	"math"
	"strings"

	"grapher/internal/canvas"
)

// Layout selects which plots a Mapper draws.
type Layout int

const (
	// Split draws the samples on the left half and the spectrum on the right.
	Split Layout = iota
	// SignalOnly draws the samples across the full width.
	SignalOnly
)

// String returns the configuration name of the layout.
func (l Layout) String() string {
	switch l {
	case Split:
		return "split"
	case SignalOnly:
		return "signal"
	default:
		return "unknown"
	}
}

// ParseLayout converts "split" or "signal" to a Layout. An empty name
// selects Split.
func ParseLayout(name string) (Layout, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "split":
		return Split, nil
	case "signal":
		return SignalOnly, nil
	default:
		return Split, fmt.Errorf("unknown layout: '%s'", name)
	}
}

// Palette holds the colors of the three plots and the background.
type Palette struct {
	Background canvas.Color
	Signal     canvas.Color
	Magnitude  canvas.Color
	Phase      canvas.Color
}

// DefaultPalette draws on white with blue samples, red magnitude and green phase.
var DefaultPalette = Palette{
	Background: canvas.Unpack(0xFFFFFFFF),
	Signal:     canvas.Unpack(0xFFCC5011), // r = 11h; g = 50h; b = CCh
	Magnitude:  canvas.Unpack(0xFF0528C0), // r = C0h; g = 28h; b = 05h
	Phase:      canvas.Unpack(0xFF22E002), // r = 02h; g = E0h; b = 22h
}

// Mapper issues the drawing calls for one frame.
type Mapper struct {
	Palette Palette
	Layout  Layout
}

// NewMapper returns a Mapper using palette and the Split layout.
func NewMapper(palette Palette) *Mapper {
	return &Mapper{Palette: palette}
}

// Draw clears s and plots samples, magnitude and normalized phase (each
// value in [0, 1)). The three slices are expected to share one length;
// extra entries in magnitude or phase are ignored. A surface with no area
// receives no calls at all.
func (m *Mapper) Draw(s canvas.Surface, samples, magnitude, phase []float64) {
	w, h := s.Size()
	if w <= 0 || h <= 0 {
		return
	}

	s.Clear(m.Palette.Background)

	n := len(samples)
	if n == 0 {
		return
	}

	centerY := h / 2
	scale := float64(centerY)

	if m.Layout == SignalOnly {
		for i, v := range samples {
			px := i * w / n
			s.DrawLine(m.Palette.Signal,
				canvas.Pos{X: px, Y: centerY},
				canvas.Pos{X: px, Y: toPixel(scale - v*scale)})
		}
		return
	}

	// Time domain, left half.
	for i, v := range samples {
		px := i * w / n / 2
		s.DrawLine(m.Palette.Signal,
			canvas.Pos{X: px, Y: centerY},
			canvas.Pos{X: px, Y: toPixel(scale - v*scale)})
	}

	// Magnitude, right half.
	for i, v := range magnitude[:min(n, len(magnitude))] {
		px := i*w/n/2 + w/2
		s.DrawLine(m.Palette.Magnitude,
			canvas.Pos{X: px, Y: centerY},
			canvas.Pos{X: px, Y: toPixel(scale - v*scale)})
	}

	// Phase shares the magnitude band and grows downward.
	for i, v := range phase[:min(n, len(phase))] {
		px := i*w/n/2 + w/2
		s.DrawLine(m.Palette.Phase,
			canvas.Pos{X: px, Y: centerY},
			canvas.Pos{X: px, Y: toPixel(scale + v*scale)})
	}
}

// pixelLimit bounds converted coordinates far outside any real surface.
const pixelLimit = 1 << 30

// toPixel truncates toward zero. Non-finite values collapse onto the
// baseline edge instead of producing an undefined conversion.
func toPixel(f float64) int {
	switch {
	case math.IsNaN(f):
		return 0
	case f > pixelLimit:
		return pixelLimit
	case f < -pixelLimit:
		return -pixelLimit
	}
	return int(f)
}
