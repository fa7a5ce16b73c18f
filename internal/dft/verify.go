// SPDX-License-Identifier: MIT
package dft

import (
	"fmt"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"

	"grapher/internal/canvas"
)

// Verify compares the direct transform of samples against gonum's FFT and
// returns the largest absolute difference across bins 0..N/2. The FFT is
// unnormalized, so its coefficients are scaled by 1/N before comparing. Bins
// above N/2 are the conjugate mirror of the lower half for real input and
// are checked through that symmetry.
func Verify(samples []float64) (float64, error) {
	n := len(samples)
	if n == 0 {
		return 0, fmt.Errorf("%w: cannot verify an empty sequence", canvas.ErrInvalidInput)
	}

	direct, err := Transform(samples)
	if err != nil {
		return 0, err
	}

	fft := fourier.NewFFT(n)
	reference := fft.Coefficients(nil, samples)
	scale := complex(1/float64(n), 0)

	var maxErr float64
	for k, c := range reference {
		if d := cmplx.Abs(direct[k] - c*scale); d > maxErr {
			maxErr = d
		}
		if mirror := n - k; k > 0 && mirror < n {
			if d := cmplx.Abs(direct[mirror] - cmplx.Conj(c)*scale); d > maxErr {
				maxErr = d
			}
		}
	}
	return maxErr, nil
}
