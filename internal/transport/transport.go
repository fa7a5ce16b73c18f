// SPDX-License-Identifier: MIT
package transport

import "grapher/internal/backend/record"

// Transport defines a generic interface for sending rendered frames or events.
// Implementations should be thread-safe.
type Transport interface {
	Send(data any) error
	Close() error
}

// Frame is one rendered picture as the list of drawing calls that produced
// it. A remote viewer replays Ops onto its own surface of Width×Height.
type Frame struct {
	Seq    uint64      `json:"seq"`
	Width  int         `json:"width"`
	Height int         `json:"height"`
	Ops    []record.Op `json:"ops"`
}

// SpectrumProvider is the read side of the engine as seen by publishers.
// Implementations must tolerate concurrent reads.
type SpectrumProvider interface {
	Length() int
	MagnitudeInto(dst []float64) error
	PhaseInto(dst []float64) error
}
