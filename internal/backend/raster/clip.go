// SPDX-License-Identifier: MIT
package raster

import (
	"image"
	"math"
)

// clip trims the segment (x0,y0)-(x1,y1) to r with Liang-Barsky. Axis
// aligned segments, which is every segment the plot mapper emits, are
// clamped exactly; other segments are clipped in float space and rounded
// back to pixels.
func clip(x0, y0, x1, y1 int, r image.Rectangle) (int, int, int, int, bool) {
	minX, minY, maxX, maxY := r.Min.X, r.Min.Y, r.Max.X-1, r.Max.Y-1

	switch {
	case x0 == x1:
		if x0 < minX || x0 > maxX {
			return 0, 0, 0, 0, false
		}
		if (y0 < minY && y1 < minY) || (y0 > maxY && y1 > maxY) {
			return 0, 0, 0, 0, false
		}
		return x0, clampInt(y0, minY, maxY), x1, clampInt(y1, minY, maxY), true
	case y0 == y1:
		if y0 < minY || y0 > maxY {
			return 0, 0, 0, 0, false
		}
		if (x0 < minX && x1 < minX) || (x0 > maxX && x1 > maxX) {
			return 0, 0, 0, 0, false
		}
		return clampInt(x0, minX, maxX), y0, clampInt(x1, minX, maxX), y1, true
	}

	fx0, fy0 := float64(x0), float64(y0)
	dx, dy := float64(x1-x0), float64(y1-y0)
	t0, t1 := 0.0, 1.0

	edges := [4][2]float64{
		{-dx, fx0 - float64(minX)},
		{dx, float64(maxX) - fx0},
		{-dy, fy0 - float64(minY)},
		{dy, float64(maxY) - fy0},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		t := q / p
		if p < 0 {
			if t > t1 {
				return 0, 0, 0, 0, false
			}
			t0 = math.Max(t0, t)
		} else {
			if t < t0 {
				return 0, 0, 0, 0, false
			}
			t1 = math.Min(t1, t)
		}
	}

	cx0 := clampInt(int(math.Round(fx0+t0*dx)), minX, maxX)
	cy0 := clampInt(int(math.Round(fy0+t0*dy)), minY, maxY)
	cx1 := clampInt(int(math.Round(fx0+t1*dx)), minX, maxX)
	cy1 := clampInt(int(math.Round(fy0+t1*dy)), minY, maxY)
	return cx0, cy0, cx1, cy1, true
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
