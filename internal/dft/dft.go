// SPDX-License-Identifier: MIT
/*
Package dft implements the discrete Fourier transform by its direct
definition:

	X[k] = 1/N * Σ x[n] * exp(-i*2π*k*n/N)

The transform is O(N²) on purpose. It favors a result that can be read
straight off the definition over speed; Verify checks it against gonum's
FFT when a second opinion is wanted.

All arithmetic is float64 / complex128.
*/
package dft

import (
	"fmt"
	"math"
	"math/cmplx"

	"grapher/internal/canvas"
)

const tau = 2 * math.Pi

// Spectrum bundles a transform with its derived sequences. All three slices
// have the length of the input.
type Spectrum struct {
	Bins      []complex128 // Normalized DFT coefficients.
	Magnitude []float64    // |Bins[k]|
	Phase     []float64    // arg(Bins[k]) wrapped into [0, 2π).
}

// Transform returns the normalized DFT of samples. The output has the same
// length as the input; an empty input is rejected with ErrInvalidInput.
func Transform(samples []float64) ([]complex128, error) {
	n := len(samples)
	if n == 0 {
		return nil, fmt.Errorf("%w: cannot transform an empty sequence", canvas.ErrInvalidInput)
	}

	size := float64(n)
	output := make([]complex128, n)
	for k := range n {
		var re, im float64
		for j, x := range samples {
			// exp(-iθ) = (cos θ, -sin θ)
			theta := tau * float64(k) * float64(j) / size
			re += x * math.Cos(theta)
			im -= x * math.Sin(theta)
		}
		output[k] = complex(re/size, im/size)
	}
	return output, nil
}

// Magnitude returns the Euclidean norm of every bin.
func Magnitude(spectrum []complex128) []float64 {
	magnitude := make([]float64, len(spectrum))
	for i, c := range spectrum {
		magnitude[i] = cmplx.Abs(c)
	}
	return magnitude
}

// Phase returns the angle of every bin, wrapped into [0, 2π).
func Phase(spectrum []complex128) []float64 {
	phase := make([]float64, len(spectrum))
	for i, c := range spectrum {
		phase[i] = wrapPhase(math.Atan2(imag(c), real(c)))
	}
	return phase
}

// NormalizedPhase returns Phase divided by 2π, so every value lies in [0, 1).
func NormalizedPhase(spectrum []complex128) []float64 {
	phase := Phase(spectrum)
	for i, p := range phase {
		phase[i] = normalizePhase(p)
	}
	return phase
}

// Analyze transforms samples once and derives magnitude and phase from the
// same coefficients.
func Analyze(samples []float64) (*Spectrum, error) {
	bins, err := Transform(samples)
	if err != nil {
		return nil, err
	}
	return &Spectrum{
		Bins:      bins,
		Magnitude: Magnitude(bins),
		Phase:     Phase(bins),
	}, nil
}

// Len returns the number of bins.
func (s *Spectrum) Len() int {
	return len(s.Bins)
}

// NormalizedPhase returns the wrapped phase of bin k divided by 2π.
func (s *Spectrum) NormalizedPhase(k int) float64 {
	return normalizePhase(s.Phase[k])
}

// wrapPhase maps an atan2 result into [0, 2π) by adding 2π and taking the
// remainder. atan2 values a hair below zero land on 2π after the addition and
// wrap to 0.
func wrapPhase(angle float64) float64 {
	p := math.Mod(angle+tau, tau)
	if p < 0 || p >= tau {
		return 0
	}
	return p
}

// normalizePhase divides a wrapped phase by 2π. A phase one ulp short of 2π
// can still round up to exactly 1; that angle is 0 for drawing purposes.
func normalizePhase(p float64) float64 {
	v := p / tau
	if v >= 1 || v < 0 {
		return 0
	}
	return v
}
