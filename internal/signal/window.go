// SPDX-License-Identifier: MIT
package signal

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/dsp/window"
)

// WindowFunc selects the taper applied by Windowed.
type WindowFunc int

// Enum for available window functions.
const (
	None WindowFunc = iota
	BartlettHann
	Blackman
	BlackmanNuttall
	Hann
	Hamming
	Lanczos
	Nuttall
)

// String returns the lower-case configuration name of the window.
func (w WindowFunc) String() string {
	switch w {
	case None:
		return "none"
	case BartlettHann:
		return "bartletthann"
	case Blackman:
		return "blackman"
	case BlackmanNuttall:
		return "blackmannuttall"
	case Hann:
		return "hann"
	case Hamming:
		return "hamming"
	case Lanczos:
		return "lanczos"
	case Nuttall:
		return "nuttall"
	default:
		return "unknown"
	}
}

// ParseWindowFunc converts a string name (case-insensitive, surrounding
// whitespace ignored) to a WindowFunc. An empty name selects None.
func ParseWindowFunc(name string) (WindowFunc, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none", "rectangular":
		return None, nil
	case "bartletthann":
		return BartlettHann, nil
	case "blackman":
		return Blackman, nil
	case "blackmannuttall":
		return BlackmanNuttall, nil
	case "hann", "hanning":
		return Hann, nil
	case "hamming":
		return Hamming, nil
	case "lanczos":
		return Lanczos, nil
	case "nuttall":
		return Nuttall, nil
	default:
		return None, fmt.Errorf("unknown window function name: '%s'", name)
	}
}

// Windowed tapers the output of another Source.
type Windowed struct {
	Source Source
	Window WindowFunc
}

var _ Source = Windowed{}

// Generate produces the wrapped buffer and multiplies it by the window in
// place. Errors from the wrapped source are returned unchanged.
func (w Windowed) Generate(n int) ([]float64, error) {
	samples, err := w.Source.Generate(n)
	if err != nil {
		return nil, err
	}
	if err := applyWindow(samples, w.Window); err != nil {
		return nil, err
	}
	return samples, nil
}

// applyWindow multiplies seq by the selected window coefficients. A single
// sample is left untouched; the gonum windows divide by len-1.
func applyWindow(seq []float64, windowType WindowFunc) error {
	if len(seq) < 2 && windowType >= None && windowType <= Nuttall {
		return nil
	}
	switch windowType {
	case None:
	case BartlettHann:
		window.BartlettHann(seq)
	case Blackman:
		window.Blackman(seq)
	case BlackmanNuttall:
		window.BlackmanNuttall(seq)
	case Hann:
		window.Hann(seq)
	case Hamming:
		window.Hamming(seq)
	case Lanczos:
		window.Lanczos(seq)
	case Nuttall:
		window.Nuttall(seq)
	default:
		return fmt.Errorf("unknown window function type %d", windowType)
	}
	return nil
}
