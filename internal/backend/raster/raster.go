// SPDX-License-Identifier: MIT
/*
Package raster is a software framebuffer backend. It owns an NRGBA image,
implements canvas.Surface with a Bresenham line rasterizer, and recreates
the image on Resize the way a windowed host recreates its bitmap after a
size change.

Pixels are always written opaque: the alpha channel of a canvas.Color is
ignored, the way a GDI host masks it off before filling.
*/
package raster

import (
	"fmt"
	"image"
	"image/png"
	"io"

	"golang.org/x/image/draw"

	"grapher/internal/canvas"
)

// Surface is a canvas.Surface over an in-memory image.
type Surface struct {
	img *image.NRGBA
}

var _ canvas.Surface = (*Surface)(nil)

// New allocates a width×height surface. Non-positive dimensions produce a
// surface with no area, which is valid but draws nothing.
func New(width, height int) *Surface {
	return &Surface{img: image.NewNRGBA(image.Rect(0, 0, max(width, 0), max(height, 0)))}
}

// Resize discards the current image and allocates a new one.
func (s *Surface) Resize(width, height int) {
	s.img = image.NewNRGBA(image.Rect(0, 0, max(width, 0), max(height, 0)))
}

// Size returns the current image dimensions.
func (s *Surface) Size() (int, int) {
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

// Clear fills the whole image with c.
func (s *Surface) Clear(c canvas.Color) {
	draw.Draw(s.img, s.img.Bounds(), image.NewUniform(c.Opaque().NRGBA()), image.Point{}, draw.Src)
}

// DrawLine rasterizes the segment with inclusive endpoints. Parts outside
// the image are clipped before rasterization.
func (s *Surface) DrawLine(c canvas.Color, start, end canvas.Pos) {
	col := c.Opaque().NRGBA()
	b := s.img.Bounds()
	if b.Empty() {
		return
	}

	x0, y0, x1, y1, ok := clip(start.X, start.Y, end.X, end.Y, b)
	if !ok {
		return
	}

	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}

	e := dx + dy
	for {
		s.img.SetNRGBA(x0, y0, col)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// At returns the pixel at (x, y) as a canvas.Color. Out-of-bounds reads
// return the zero Color.
func (s *Surface) At(x, y int) canvas.Color {
	if !(image.Point{X: x, Y: y}).In(s.img.Bounds()) {
		return canvas.Color{}
	}
	p := s.img.NRGBAAt(x, y)
	return canvas.Color{R: p.R, G: p.G, B: p.B, A: p.A}
}

// Image returns the backing image. It is replaced, not reused, by Resize.
func (s *Surface) Image() *image.NRGBA {
	return s.img
}

// Scale returns a copy of the image resampled to width×height with a
// Catmull-Rom kernel. Rendering at a multiple of the target size and
// scaling down smooths the one-pixel bars.
func (s *Surface) Scale(width, height int) (*image.NRGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid scale target %dx%d", width, height)
	}
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), s.img, s.img.Bounds(), draw.Src, nil)
	return dst, nil
}

// EncodePNG writes the image as PNG.
func (s *Surface) EncodePNG(w io.Writer) error {
	return EncodePNG(w, s.img)
}

// EncodePNG writes img as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
