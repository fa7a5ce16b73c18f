// SPDX-License-Identifier: MIT
package vector

import (
	"bytes"
	"image/png"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"grapher/internal/canvas"
	"grapher/internal/engine"
)

var (
	white = canvas.Color{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	red   = canvas.Color{R: 0xFF, A: 0xFF}
)

func newSurface(t *testing.T, w, h int) *Surface {
	t.Helper()
	s, err := New(w, h)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// reddish tolerates anti-aliasing on the pixel edges.
func reddish(c canvas.Color) bool {
	return c.R > 0xC0 && c.G < 0x40 && c.B < 0x40
}

func TestNewRejectsEmptySurface(t *testing.T) {
	for _, size := range [][2]int{{0, 10}, {10, 0}, {-1, 4}} {
		_, err := New(size[0], size[1])
		require.ErrorIs(t, err, canvas.ErrInvalidInput)
	}
}

func TestClear(t *testing.T) {
	s := newSurface(t, 6, 4)
	s.Clear(canvas.Color{R: 10, G: 20, B: 30})

	require.Equal(t, canvas.Color{R: 10, G: 20, B: 30, A: 0xFF}, s.At(0, 0))
	require.Equal(t, canvas.Color{R: 10, G: 20, B: 30, A: 0xFF}, s.At(5, 3))
}

func TestDrawVerticalLine(t *testing.T) {
	s := newSurface(t, 10, 10)
	s.Clear(white)
	s.DrawLine(red, canvas.Pos{X: 4, Y: 2}, canvas.Pos{X: 4, Y: 7})
	require.NoError(t, s.Err())

	for y := 3; y <= 6; y++ {
		require.True(t, reddish(s.At(4, y)), "y=%d got %s", y, s.At(4, y))
	}
	require.Equal(t, white, s.At(4, 9))
	require.Equal(t, white, s.At(0, 5))
}

func TestDrawDegenerateLine(t *testing.T) {
	s := newSurface(t, 5, 5)
	s.Clear(white)
	s.DrawLine(red, canvas.Pos{X: 1, Y: 3}, canvas.Pos{X: 1, Y: 3})

	require.Equal(t, red, s.At(1, 3))
	require.Equal(t, white, s.At(2, 3))

	// Off-surface points are ignored.
	s.DrawLine(red, canvas.Pos{X: -1, Y: 9}, canvas.Pos{X: -1, Y: 9})
}

func TestResize(t *testing.T) {
	s := newSurface(t, 4, 4)
	require.NoError(t, s.Resize(12, 7))

	w, h := s.Size()
	require.Equal(t, 12, w)
	require.Equal(t, 7, h)

	require.ErrorIs(t, s.Resize(0, 7), canvas.ErrInvalidInput)
	w, h = s.Size()
	require.Equal(t, 12, w)
	require.Equal(t, 7, h)
}

func TestEngineRenderAndSave(t *testing.T) {
	e := engine.NewEngine(engine.DefaultOptions())
	require.NoError(t, e.Init())

	s := newSurface(t, 320, 160)
	require.NoError(t, e.Update(&canvas.Context{Framebuffer: s}, canvas.Render))
	require.NoError(t, s.Err())

	var buf bytes.Buffer
	require.NoError(t, s.EncodePNG(&buf))
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	require.Equal(t, 320, img.Bounds().Dx())

	path := filepath.Join(t.TempDir(), "frame.png")
	require.NoError(t, s.SavePNG(path))
}
