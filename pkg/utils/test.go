// SPDX-License-Identifier: MIT
package utils

import (
	"math"
	"sync"
)

// MockTransport implements the transport.Transport interface for testing.
// Every payload passed to Send is kept for later inspection.
type MockTransport struct {
	mu     sync.Mutex
	Sent   []any
	Closed bool
}

// Send stores the data for later inspection instead of transmitting.
func (m *MockTransport) Send(data any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, data)
	return nil
}

// Close marks the transport closed.
func (m *MockTransport) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closed = true
	return nil
}

// Last returns the most recent payload, or nil if nothing was sent.
func (m *MockTransport) Last() any {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Sent) == 0 {
		return nil
	}
	return m.Sent[len(m.Sent)-1]
}

// GenerateSineWave returns n samples of a sinusoid completing k cycles
// across the buffer.
func GenerateSineWave(n, k int, amplitude, phase float64) []float64 {
	buffer := make([]float64, n)
	for i := range buffer {
		buffer[i] = amplitude * math.Sin(2*math.Pi*float64(k)*float64(i)/float64(n)+phase)
	}
	return buffer
}

// GenerateComplexWave returns a fundamental at bin 4 plus its second and
// third harmonics at falling amplitudes.
func GenerateComplexWave(n int) []float64 {
	buffer := make([]float64, n)
	for i := range buffer {
		t := float64(i) / float64(n)
		buffer[i] = math.Sin(2*math.Pi*4*t)*0.5 +
			math.Sin(2*math.Pi*8*t)*0.3 +
			math.Sin(2*math.Pi*12*t)*0.2
	}
	return buffer
}

// FindPeakBin returns the index of the largest magnitude in [startBin, endBin].
func FindPeakBin(magnitudes []float64, startBin, endBin int) int {
	if len(magnitudes) == 0 {
		return 0
	}

	if startBin < 0 {
		startBin = 0
	}

	if endBin >= len(magnitudes) {
		endBin = len(magnitudes) - 1
	}

	peakBin := startBin
	peakValue := magnitudes[startBin]

	for bin := startBin + 1; bin <= endBin; bin++ {
		if magnitudes[bin] > peakValue {
			peakValue = magnitudes[bin]
			peakBin = bin
		}
	}

	return peakBin
}

// MaxAbsDiff returns the largest element-wise |a[i]-b[i]| over the shorter
// of the two slices.
func MaxAbsDiff(a, b []float64) float64 {
	n := min(len(a), len(b))
	var worst float64
	for i := range n {
		if d := math.Abs(a[i] - b[i]); d > worst {
			worst = d
		}
	}
	return worst
}
