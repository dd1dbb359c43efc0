package resolve

import (
	"strconv"
	"strings"

	"github.com/cuishuai123/presenton/dom/style"
	"github.com/cuishuai123/presenton/maybe"
)

// Color is a resolved CSS color.
type Color struct {
	Hex     string               // 6 upper-case hex digits
	Opacity maybe.Maybe[float64] // alpha, if the source value spelled one out
}

// ParseColor resolves a CSS color value.
//
// Grammar:
//
//	color = hex | rgb-func | hsl-func | name
//	hex   = "#" 3*4hexdigit | "#" 6hexdigit | "#" 8hexdigit
//	rgb-func = ("rgb" | "rgba") "(" r g b [ alpha ] ")"
//	hsl-func = ("hsl" | "hsla") "(" h s l [ alpha ] ")"
//
// Arguments may be separated by commas, spaces or "/". An alpha value
// (number or percentage) becomes the color's opacity; colors without one
// have no opacity. "transparent" and fully transparent black are no
// color at all.
func ParseColor(value string) (Color, bool) {
	v := strings.TrimSpace(value)
	if v == "" || strings.EqualFold(v, "transparent") {
		return Color{}, false
	}
	c, ok := style.Property(v).Color()
	if !ok {
		return Color{}, false
	}
	alpha, explicit := explicitAlpha(v, c.A)
	if explicit && alpha == 0 && c.R == 0 && c.G == 0 && c.B == 0 {
		return Color{}, false
	}
	col := Color{Hex: style.HexString(c)}
	if explicit {
		col.Opacity = maybe.Just(alpha)
	}
	return col, true
}

// explicitAlpha extracts the alpha component from a color value, if the
// value has one. Function arguments are taken literally, hex alpha is
// converted from 0–255.
func explicitAlpha(v string, a uint8) (float64, bool) {
	v = strings.ToLower(v)
	if strings.HasPrefix(v, "#") {
		if n := len(v) - 1; n == 4 || n == 8 {
			return float64(a) / 255, true
		}
		return 0, false
	}
	open, close := strings.IndexByte(v, '('), strings.LastIndexByte(v, ')')
	if open < 0 || close < open {
		return 0, false
	}
	args := strings.Fields(strings.NewReplacer(",", " ", "/", " ").Replace(v[open+1 : close]))
	if len(args) != 4 {
		return 0, false
	}
	s := args[3]
	if strings.HasSuffix(s, "%") {
		f, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
		return f / 100, err == nil
	}
	f, err := strconv.ParseFloat(s, 64)
	return f, err == nil
}

// colorOrCurrent resolves value, substituting the element's text color for
// "currentcolor".
func colorOrCurrent(value, current string) (Color, bool) {
	if strings.EqualFold(strings.TrimSpace(value), "currentcolor") {
		value = current
	}
	return ParseColor(value)
}
