// SPDX-License-Identifier: MIT
/*
Package vector is a canvas.Surface backed by a gg drawing context. Lines are
stroked as one-pixel paths centered on the pixel grid with square caps, so a
vertical segment covers the same inclusive pixel range the raster backend
fills, only anti-aliased.
*/
package vector

import (
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/gogpu/gg"

	"grapher/internal/canvas"
)

// Surface wraps a *gg.Context.
type Surface struct {
	dc     *gg.Context
	stroke error
}

var _ canvas.Surface = (*Surface)(nil)

// New creates a width×height surface. Both dimensions must be positive.
func New(width, height int) (*Surface, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: surface %dx%d", canvas.ErrInvalidInput, width, height)
	}
	dc := gg.NewContext(width, height)
	dc.SetLineWidth(1)
	dc.SetLineCap(gg.LineCapSquare)
	return &Surface{dc: dc}, nil
}

// Size returns the context dimensions.
func (s *Surface) Size() (int, int) {
	return s.dc.Width(), s.dc.Height()
}

// Resize reallocates the pixel buffer. The previous contents are lost.
func (s *Surface) Resize(width, height int) error {
	if err := s.dc.Resize(width, height); err != nil {
		return fmt.Errorf("%w: %v", canvas.ErrInvalidInput, err)
	}
	return nil
}

// Clear fills the context with c, alpha forced opaque.
func (s *Surface) Clear(c canvas.Color) {
	s.dc.ClearWithColor(gg.FromColor(c.Opaque().NRGBA()))
}

// DrawLine strokes the segment. A zero-length segment sets one pixel.
// Stroke failures are kept and reported by Err.
func (s *Surface) DrawLine(c canvas.Color, start, end canvas.Pos) {
	col := c.Opaque().NRGBA()
	if start == end {
		s.dc.SetPixel(start.X, start.Y, gg.FromColor(col))
		return
	}

	s.dc.SetColor(col)
	s.dc.DrawLine(
		float64(start.X)+0.5, float64(start.Y)+0.5,
		float64(end.X)+0.5, float64(end.Y)+0.5)
	if err := s.dc.Stroke(); err != nil && s.stroke == nil {
		s.stroke = fmt.Errorf("failed to stroke line: %w", err)
	}
}

// Err returns the first stroke error since the last call and resets it.
func (s *Surface) Err() error {
	err := s.stroke
	s.stroke = nil
	return err
}

// At returns the pixel at (x, y). Out-of-bounds reads return the zero Color.
func (s *Surface) At(x, y int) canvas.Color {
	_ = s.dc.FlushGPU()
	p := color.NRGBAModel.Convert(s.dc.ResizeTarget().GetPixel(x, y).Color()).(color.NRGBA)
	return canvas.Color{R: p.R, G: p.G, B: p.B, A: p.A}
}

// Image returns a snapshot of the pixels.
func (s *Surface) Image() image.Image {
	_ = s.dc.FlushGPU()
	return s.dc.Image()
}

// EncodePNG writes the pixels as PNG.
func (s *Surface) EncodePNG(w io.Writer) error {
	_ = s.dc.FlushGPU()
	if err := s.dc.EncodePNG(w); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}

// SavePNG writes the pixels to path.
func (s *Surface) SavePNG(path string) error {
	if err := s.dc.SavePNG(path); err != nil {
		return fmt.Errorf("failed to save png: %w", err)
	}
	return nil
}

// Close releases the context state.
func (s *Surface) Close() error {
	return s.dc.Close()
}
