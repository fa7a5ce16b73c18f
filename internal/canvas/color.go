// SPDX-License-Identifier: MIT
package canvas

import (
	"fmt"
	"image/color"
)

// Color is an 8-bit per channel RGBA value. The packed form stores red in
// the lowest byte: 0xAABBGGRR.
type Color struct {
	R, G, B, A uint8
}

// Unpack splits a packed 32-bit value into its channels.
func Unpack(v uint32) Color {
	return Color{
		R: uint8(v),
		G: uint8(v >> 8),
		B: uint8(v >> 16),
		A: uint8(v >> 24),
	}
}

// Pack joins the channels back into a 32-bit value.
func (c Color) Pack() uint32 {
	return uint32(c.R) | uint32(c.G)<<8 | uint32(c.B)<<16 | uint32(c.A)<<24
}

// NRGBA converts c to the standard library's non-premultiplied color.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// Opaque returns c with the alpha channel forced to 0xFF.
func (c Color) Opaque() Color {
	c.A = 0xFF
	return c
}

// String formats c as #rrggbbaa.
func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}
