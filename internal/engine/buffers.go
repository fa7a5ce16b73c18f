// SPDX-License-Identifier: MIT
package engine

import (
	"fmt"

	"grapher/internal/canvas"
)

// SamplesInto copies the cached sample buffer into dst, which must have
// exactly Length() elements.
func (e *Engine) SamplesInto(dst []float64) error {
	return e.copyInto(dst, e.samples)
}

// MagnitudeInto copies the cached magnitude spectrum into dst.
func (e *Engine) MagnitudeInto(dst []float64) error {
	if e.state != Ready {
		return fmt.Errorf("%w: no spectrum before init", canvas.ErrInvalidState)
	}
	return e.copyInto(dst, e.spectrum.Magnitude)
}

// PhaseInto copies the cached normalized phase, in [0, 1), into dst.
func (e *Engine) PhaseInto(dst []float64) error {
	return e.copyInto(dst, e.phase)
}

// Samples returns a copy of the cached sample buffer, or nil before Init.
func (e *Engine) Samples() []float64 {
	if e.state != Ready {
		return nil
	}
	out := make([]float64, len(e.samples))
	copy(out, e.samples)
	return out
}

func (e *Engine) copyInto(dst, src []float64) error {
	if e.state != Ready {
		return fmt.Errorf("%w: no buffers before init", canvas.ErrInvalidState)
	}
	if len(dst) != len(src) {
		return fmt.Errorf("destination slice length %d does not match required length %d", len(dst), len(src))
	}
	copy(dst, src)
	return nil
}
