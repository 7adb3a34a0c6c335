package styles

import (
	"fmt"
	"math"
	"strings"
)

// RGBA is a color with channels in the 0..1 range, as Figma reports them.
type RGBA struct {
	R, G, B, A float64
}

// ParseRGBA reads a {r,g,b,a} object. Alpha defaults to 1.
func ParseRGBA(v Values) (RGBA, bool) {
	if v == nil {
		return RGBA{}, false
	}
	r, okR := v.Number("r")
	g, okG := v.Number("g")
	b, okB := v.Number("b")
	if !okR || !okG || !okB {
		return RGBA{}, false
	}
	a, ok := v.Number("a")
	if !ok {
		a = 1
	}
	return RGBA{R: r, G: g, B: b, A: a}, true
}

func channel(f float64) int {
	return int(math.Round(math.Max(0, math.Min(1, f)) * 255))
}

// Hex returns the opaque #RRGGBB form.
func (c RGBA) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", channel(c.R), channel(c.G), channel(c.B))
}

// CSS returns the rgba() form with alpha rounded to two decimals.
func (c RGBA) CSS() string {
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", channel(c.R), channel(c.G), channel(c.B), formatNumber(math.Round(c.A*100)/100))
}

// Compact returns hex for opaque colors and rgba() otherwise.
func (c RGBA) Compact() string {
	if c.A >= 1 {
		return c.Hex()
	}
	return c.CSS()
}

// colorValue reads a nested color object at key and renders it compactly.
func colorValue(v Values, key string) (string, bool) {
	m, ok := v.Map(key)
	if !ok {
		return "", false
	}
	c, ok := ParseRGBA(m)
	if !ok {
		return "", false
	}
	return c.Compact(), true
}

// normalizeHex uppercases a #rgb/#rrggbb string; other input is returned unchanged.
func normalizeHex(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		return strings.ToUpper(s)
	}
	return s
}
