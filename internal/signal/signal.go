// SPDX-License-Identifier: MIT
/*
Package signal synthesizes the sample buffers the rest of the pipeline
analyzes. It is the only place frequency content is decided: the DFT engine
and the plot mapper are signal-agnostic, so swapping a Source never touches
them.

Every Source is a pure function of the requested length. The same n always
yields the same sequence.
*/
package signal

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"grapher/internal/canvas"
)

// Source produces one buffer of n real samples.
type Source interface {
	Generate(n int) ([]float64, error)
}

// SourceFunc adapts a plain function to the Source interface.
type SourceFunc func(n int) ([]float64, error)

// Generate calls f(n).
func (f SourceFunc) Generate(n int) ([]float64, error) {
	return f(n)
}

// Component is one sinusoid of a Waveform. Harmonic counts whole cycles per
// buffer, Phase is in radians.
type Component struct {
	Harmonic  int
	Amplitude float64
	Phase     float64
}

// Waveform is a sum of sinusoids plus a constant offset.
type Waveform struct {
	Components []Component
	Offset     float64
}

// Compile-time checks for interface implementations.
var _ Source = Waveform{}
var _ Source = SourceFunc(nil)

// Default is the reference waveform:
//
//	0.5*sin(2π*3*i/N) + 0.3*sin(2π*5*i/N + π/2) + 0.1
var Default = Waveform{
	Components: []Component{
		{Harmonic: 3, Amplitude: 0.5},
		{Harmonic: 5, Amplitude: 0.3, Phase: math.Pi / 2},
	},
	Offset: 0.1,
}

// Square approximates a square wave with the first five odd harmonics,
// each at amplitude 0.8/k.
var Square = Waveform{
	Components: []Component{
		{Harmonic: 1, Amplitude: 0.8 / 1},
		{Harmonic: 3, Amplitude: 0.8 / 3},
		{Harmonic: 5, Amplitude: 0.8 / 5},
		{Harmonic: 7, Amplitude: 0.8 / 7},
		{Harmonic: 9, Amplitude: 0.8 / 9},
	},
}

// Presets lists the source names accepted by Lookup, in the order the
// terminal host cycles through them.
var Presets = []string{"default", "square", "sine:1", "sine:8"}

// Sine returns a unit-amplitude pure tone completing k cycles per buffer.
func Sine(k int) Waveform {
	return Waveform{Components: []Component{{Harmonic: k, Amplitude: 1}}}
}

// Generate returns the reference waveform of length n.
func Generate(n int) ([]float64, error) {
	return Default.Generate(n)
}

// Generate evaluates the waveform at n evenly spaced points covering one
// buffer period. n must be at least 1.
func (w Waveform) Generate(n int) ([]float64, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: buffer length must be at least 1, got %d", canvas.ErrInvalidInput, n)
	}

	size := float64(n)
	samples := make([]float64, n)
	for i := range n {
		sample := w.Offset
		for _, c := range w.Components {
			sample += c.Amplitude * math.Sin(2*math.Pi*float64(c.Harmonic)*float64(i)/size+c.Phase)
		}
		samples[i] = sample
	}
	return samples, nil
}

// Lookup resolves a source name: "default", "square" or "sine:<k>".
func Lookup(name string) (Source, error) {
	switch n := strings.ToLower(strings.TrimSpace(name)); {
	case n == "" || n == "default":
		return Default, nil
	case n == "square":
		return Square, nil
	case strings.HasPrefix(n, "sine:"):
		k, err := strconv.Atoi(strings.TrimPrefix(n, "sine:"))
		if err != nil || k < 0 {
			return nil, fmt.Errorf("invalid sine harmonic in source '%s'", name)
		}
		return Sine(k), nil
	default:
		return nil, fmt.Errorf("unknown signal source: '%s'", name)
	}
}
