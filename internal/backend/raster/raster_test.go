// SPDX-License-Identifier: MIT
package raster

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"

	"grapher/internal/backend/record"
	"grapher/internal/canvas"
	"grapher/internal/engine"
	"grapher/internal/plot"
)

var (
	white = canvas.Unpack(0xFFFFFFFF)
	red   = canvas.Color{R: 0xFF, A: 0xFF}
)

func TestClear(t *testing.T) {
	s := New(4, 3)
	s.Clear(canvas.Color{R: 1, G: 2, B: 3, A: 0})

	for y := range 3 {
		for x := range 4 {
			require.Equal(t, canvas.Color{R: 1, G: 2, B: 3, A: 0xFF}, s.At(x, y), "alpha is forced opaque")
		}
	}
}

func TestDrawLineInclusiveEndpoints(t *testing.T) {
	s := New(10, 10)
	s.Clear(white)
	s.DrawLine(red, canvas.Pos{X: 2, Y: 1}, canvas.Pos{X: 2, Y: 6})

	for y := 1; y <= 6; y++ {
		require.Equal(t, red, s.At(2, y), "y=%d", y)
	}
	require.Equal(t, white, s.At(2, 0))
	require.Equal(t, white, s.At(2, 7))
}

func TestDrawLineReversedAndDiagonal(t *testing.T) {
	s := New(8, 8)
	s.Clear(white)
	s.DrawLine(red, canvas.Pos{X: 7, Y: 7}, canvas.Pos{X: 0, Y: 0})

	for i := range 8 {
		require.Equal(t, red, s.At(i, i))
	}
	require.Equal(t, white, s.At(0, 7))
}

func TestDrawLineDegeneratePoint(t *testing.T) {
	s := New(5, 5)
	s.Clear(white)
	s.DrawLine(red, canvas.Pos{X: 3, Y: 2}, canvas.Pos{X: 3, Y: 2})

	require.Equal(t, red, s.At(3, 2))
	count := 0
	for y := range 5 {
		for x := range 5 {
			if s.At(x, y) == red {
				count++
			}
		}
	}
	require.Equal(t, 1, count)
}

func TestDrawLineClipping(t *testing.T) {
	s := New(6, 6)
	s.Clear(white)

	// Far outside vertical segment must clip, not iterate a billion pixels.
	s.DrawLine(red, canvas.Pos{X: 1, Y: 3}, canvas.Pos{X: 1, Y: -1 << 30})
	for y := 0; y <= 3; y++ {
		require.Equal(t, red, s.At(1, y))
	}
	require.Equal(t, white, s.At(1, 4))

	// Entirely outside.
	s.DrawLine(red, canvas.Pos{X: -5, Y: -5}, canvas.Pos{X: -1, Y: -9})
	s.DrawLine(red, canvas.Pos{X: 10, Y: 2}, canvas.Pos{X: 10, Y: 4})

	// Diagonal crossing the whole surface.
	s.DrawLine(red, canvas.Pos{X: -10, Y: -10}, canvas.Pos{X: 20, Y: 20})
	for i := range 6 {
		require.Equal(t, red, s.At(i, i))
	}
}

func TestZeroSizedSurface(t *testing.T) {
	s := New(0, -3)
	w, h := s.Size()
	require.Zero(t, w)
	require.Zero(t, h)

	s.Clear(red)
	s.DrawLine(red, canvas.Pos{}, canvas.Pos{X: 5, Y: 5})
	require.Equal(t, canvas.Color{}, s.At(0, 0))
}

func TestResizeRecreatesImage(t *testing.T) {
	s := New(4, 4)
	s.Clear(red)
	old := s.Image()

	s.Resize(8, 2)
	w, h := s.Size()
	require.Equal(t, 8, w)
	require.Equal(t, 2, h)
	require.NotSame(t, old, s.Image())
	require.Equal(t, canvas.Color{}, s.At(0, 0), "a fresh image starts transparent")
}

func TestScale(t *testing.T) {
	s := New(8, 8)
	s.Clear(red)

	img, err := s.Scale(4, 4)
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 4, 4), img.Bounds())
	px := img.NRGBAAt(2, 2)
	require.GreaterOrEqual(t, px.R, uint8(0xF0))
	require.LessOrEqual(t, px.G, uint8(0x0F))
	require.Equal(t, uint8(0xFF), px.A)

	_, err = s.Scale(0, 4)
	require.Error(t, err)
}

func TestEncodePNG(t *testing.T) {
	s := New(3, 2)
	s.Clear(red)

	var buf bytes.Buffer
	require.NoError(t, s.EncodePNG(&buf))

	decoded, err := png.Decode(&buf)
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 3, 2), decoded.Bounds())
}

func TestEngineRenderPaintsPlots(t *testing.T) {
	e := engine.NewEngine(engine.DefaultOptions())
	require.NoError(t, e.Init())

	s := New(512, 200)
	require.NoError(t, e.Update(&canvas.Context{Framebuffer: s}, canvas.Render))

	// Column 0 of the signal plot: sample[0] = 0.4, drawn from y=100 up to about y=60.
	require.Equal(t, plot.DefaultPalette.Signal, s.At(0, 100))
	require.Equal(t, plot.DefaultPalette.Signal, s.At(0, 61))
	require.Equal(t, plot.DefaultPalette.Background, s.At(0, 58))

	counts := map[canvas.Color]int{}
	for y := range 200 {
		for x := range 512 {
			counts[s.At(x, y)]++
		}
	}
	require.Positive(t, counts[plot.DefaultPalette.Signal])
	require.Positive(t, counts[plot.DefaultPalette.Magnitude])
	require.Positive(t, counts[plot.DefaultPalette.Phase])
}

func TestReplayMatchesDirectRender(t *testing.T) {
	e := engine.NewEngine(engine.DefaultOptions())
	require.NoError(t, e.Init())

	direct := New(300, 150)
	require.NoError(t, e.Render(direct))

	rec := record.New(300, 150)
	require.NoError(t, e.Render(rec))
	replayed := New(300, 150)
	record.Replay(rec.Ops(), replayed)

	require.Equal(t, direct.Image().Pix, replayed.Image().Pix)
}

func BenchmarkRender(b *testing.B) {
	e := engine.NewEngine(engine.DefaultOptions())
	if err := e.Init(); err != nil {
		b.Fatal(err)
	}
	s := New(1280, 720)

	b.ReportAllocs()

	for b.Loop() {
		_ = e.Render(s)
	}
}
