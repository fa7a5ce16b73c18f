// SPDX-License-Identifier: MIT
/*
Package canvas defines the contract between a drawing backend and the
grapher core:

- Surface: the three drawing primitives a backend must supply
- Context: the explicit per-process state handed to every Update call
- Message: the two protocol signals (Init, Render)
- Color and Pos: the value types crossing the boundary

The core only draws into a Surface. Creating, resizing and destroying the
underlying framebuffer is always the backend's job.
*/
package canvas

import "errors"

var (
	// ErrInvalidInput is returned for zero-length buffers and unknown messages.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidState is returned when Render arrives before a successful Init.
	ErrInvalidState = errors.New("invalid state")
)

// Pos is an integer pixel coordinate.
type Pos struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Surface is the capability set a backend implements. Implementations must
// clip out-of-bounds coordinates rather than fail.
type Surface interface {
	// Clear fills the whole surface with c.
	Clear(c Color)

	// DrawLine draws a straight segment with inclusive endpoints. A segment
	// whose endpoints coincide plots a single pixel.
	DrawLine(c Color, start, end Pos)

	// Size reports the current dimensions in pixels. The result may differ
	// between calls when the backend resizes the framebuffer.
	Size() (w, h int)
}

// Message is a protocol signal delivered by the backend.
type Message int

const (
	Init Message = iota
	Render
)

// String returns the string representation of the Message.
func (m Message) String() string {
	switch m {
	case Init:
		return "Init"
	case Render:
		return "Render"
	default:
		return "Unknown"
	}
}

// Context is passed explicitly to Update. Framebuffer is owned by the
// backend; User is an opaque slot the core never reads.
type Context struct {
	Framebuffer Surface
	User        any
}

// Updater is the single entry point a backend calls.
type Updater interface {
	Update(ctx *Context, msg Message) error
}
