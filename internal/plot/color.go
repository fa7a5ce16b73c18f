// SPDX-License-Identifier: MIT
package plot

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"grapher/internal/canvas"
)

// ParseColor accepts "#rrggbb", "#rgb", "#rrggbbaa" or a packed "0xAABBGGRR"
// value. Colors without an alpha component are opaque.
func ParseColor(s string) (canvas.Color, error) {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		v, err := strconv.ParseUint(s[2:], 16, 32)
		if err != nil {
			return canvas.Color{}, fmt.Errorf("invalid packed color '%s': %w", s, err)
		}
		return canvas.Unpack(uint32(v)), nil
	}

	alpha := uint8(0xFF)
	if len(s) == 9 && strings.HasPrefix(s, "#") {
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return canvas.Color{}, fmt.Errorf("invalid alpha in color '%s': %w", s, err)
		}
		alpha = uint8(a)
		s = s[:7]
	}

	c, err := colorful.Hex(s)
	if err != nil {
		return canvas.Color{}, fmt.Errorf("invalid color '%s': %w", s, err)
	}
	r, g, b := c.RGB255()
	return canvas.Color{R: r, G: g, B: b, A: alpha}, nil
}

// Hex formats c as #rrggbb, dropping alpha.
func Hex(c canvas.Color) string {
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}.Hex()
}
