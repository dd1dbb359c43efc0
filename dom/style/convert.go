package style

import (
	"image/color"
	"math"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Color interprets a property as a CSS color. It understands hex notation
// (#rgb, #rgba, #rrggbb, #rrggbbaa), rgb()/rgba(), hsl()/hsla(), named
// colors and "transparent". It returns false for anything else, including
// "currentcolor", which has to be resolved against the element's color.
func (p Property) Color() (color.NRGBA, bool) {
	s := strings.ToLower(strings.TrimSpace(string(p)))
	switch {
	case s == "":
		return color.NRGBA{}, false
	case s == "transparent":
		return color.NRGBA{}, true
	case strings.HasPrefix(s, "#"):
		return parseHexColor(s)
	case strings.HasPrefix(s, "rgb"):
		return parseRGBFunc(s)
	case strings.HasPrefix(s, "hsl"):
		return parseHSLFunc(s)
	}
	if hex, ok := namedColors[s]; ok {
		return parseHexColor("#" + hex)
	}
	return color.NRGBA{}, false
}

// IsColorToken is true if s parses as a CSS color.
func IsColorToken(s string) bool {
	if strings.EqualFold(s, "currentcolor") {
		return true
	}
	_, ok := Property(s).Color()
	return ok
}

// HexString formats a color as upper-case RRGGBB, dropping alpha.
func HexString(c color.NRGBA) string {
	cf := colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
	return strings.ToUpper(strings.TrimPrefix(cf.Hex(), "#"))
}

func parseHexColor(s string) (color.NRGBA, bool) {
	h := strings.TrimPrefix(s, "#")
	alpha := uint8(0xff)
	switch len(h) {
	case 3, 4:
		var b strings.Builder
		for _, r := range h {
			b.WriteRune(r)
			b.WriteRune(r)
		}
		h = b.String()
	}
	if len(h) == 8 {
		a, err := strconv.ParseUint(h[6:], 16, 8)
		if err != nil {
			return color.NRGBA{}, false
		}
		alpha = uint8(a)
		h = h[:6]
	}
	if len(h) != 6 {
		return color.NRGBA{}, false
	}
	c, err := colorful.Hex("#" + h)
	if err != nil {
		return color.NRGBA{}, false
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alpha}, true
}

// funcArgs extracts the arguments of a CSS color function, accepting both
// comma and space separated syntax ("rgb(1, 2, 3)", "rgb(1 2 3 / 50%)").
func funcArgs(s string) ([]string, bool) {
	open, close := strings.IndexByte(s, '('), strings.LastIndexByte(s, ')')
	if open < 0 || close < open {
		return nil, false
	}
	inner := strings.NewReplacer(",", " ", "/", " ").Replace(s[open+1 : close])
	args := strings.Fields(inner)
	return args, len(args) == 3 || len(args) == 4
}

// number parses a number or percentage. Percentages are scaled to max.
func number(s string, max float64) (float64, bool) {
	if strings.HasSuffix(s, "%") {
		f, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
		return f / 100 * max, err == nil
	}
	f, err := strconv.ParseFloat(s, 64)
	return f, err == nil
}

func alphaArg(args []string) (uint8, bool) {
	if len(args) < 4 {
		return 0xff, true
	}
	a, ok := number(args[3], 1)
	if !ok {
		return 0, false
	}
	return clamp8(a * 255), true
}

func clamp8(f float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(255, f))))
}

func parseRGBFunc(s string) (color.NRGBA, bool) {
	args, ok := funcArgs(s)
	if !ok {
		return color.NRGBA{}, false
	}
	var c [3]uint8
	for i := 0; i < 3; i++ {
		f, ok := number(args[i], 255)
		if !ok {
			return color.NRGBA{}, false
		}
		c[i] = clamp8(f)
	}
	a, ok := alphaArg(args)
	return color.NRGBA{R: c[0], G: c[1], B: c[2], A: a}, ok
}

func parseHSLFunc(s string) (color.NRGBA, bool) {
	args, ok := funcArgs(s)
	if !ok {
		return color.NRGBA{}, false
	}
	h, ok1 := number(strings.TrimSuffix(args[0], "deg"), 360)
	sat, ok2 := number(args[1], 1)
	l, ok3 := number(args[2], 1)
	if !ok1 || !ok2 || !ok3 {
		return color.NRGBA{}, false
	}
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	r, g, b := colorful.Hsl(h, sat, l).Clamped().RGB255()
	a, ok := alphaArg(args)
	return color.NRGBA{R: r, G: g, B: b, A: a}, ok
}

// Px interprets a property as an absolute length in CSS pixels. Plain
// numbers count as pixels. Relative units are not resolved here; see
// package css for that.
func (p Property) Px() (float64, bool) {
	s := strings.TrimSpace(string(p))
	switch {
	case strings.HasSuffix(s, "px"):
		s = strings.TrimSuffix(s, "px")
	case strings.HasSuffix(s, "pt"):
		f, err := strconv.ParseFloat(strings.TrimSuffix(s, "pt"), 64)
		return f * 4 / 3, err == nil
	}
	f, err := strconv.ParseFloat(s, 64)
	return f, err == nil
}

// FormatPx formats a pixel length the way browsers serialize computed
// lengths, e.g. "12px" or "12.5px".
func FormatPx(f float64) Property {
	return Property(strconv.FormatFloat(f, 'f', -1, 64) + "px")
}

var namedColors = map[string]string{
	"aliceblue": "f0f8ff", "antiquewhite": "faebd7", "aqua": "00ffff", "aquamarine": "7fffd4",
	"azure": "f0ffff", "beige": "f5f5dc", "bisque": "ffe4c4", "black": "000000",
	"blanchedalmond": "ffebcd", "blue": "0000ff", "blueviolet": "8a2be2", "brown": "a52a2a",
	"burlywood": "deb887", "cadetblue": "5f9ea0", "chartreuse": "7fff00", "chocolate": "d2691e",
	"coral": "ff7f50", "cornflowerblue": "6495ed", "cornsilk": "fff8dc", "crimson": "dc143c",
	"cyan": "00ffff", "darkblue": "00008b", "darkcyan": "008b8b", "darkgoldenrod": "b8860b",
	"darkgray": "a9a9a9", "darkgreen": "006400", "darkgrey": "a9a9a9", "darkkhaki": "bdb76b",
	"darkmagenta": "8b008b", "darkolivegreen": "556b2f", "darkorange": "ff8c00", "darkorchid": "9932cc",
	"darkred": "8b0000", "darksalmon": "e9967a", "darkseagreen": "8fbc8f", "darkslateblue": "483d8b",
	"darkslategray": "2f4f4f", "darkslategrey": "2f4f4f", "darkturquoise": "00ced1", "darkviolet": "9400d3",
	"deeppink": "ff1493", "deepskyblue": "00bfff", "dimgray": "696969", "dimgrey": "696969",
	"dodgerblue": "1e90ff", "firebrick": "b22222", "floralwhite": "fffaf0", "forestgreen": "228b22",
	"fuchsia": "ff00ff", "gainsboro": "dcdcdc", "ghostwhite": "f8f8ff", "gold": "ffd700",
	"goldenrod": "daa520", "gray": "808080", "green": "008000", "greenyellow": "adff2f",
	"grey": "808080", "honeydew": "f0fff0", "hotpink": "ff69b4", "indianred": "cd5c5c",
	"indigo": "4b0082", "ivory": "fffff0", "khaki": "f0e68c", "lavender": "e6e6fa",
	"lavenderblush": "fff0f5", "lawngreen": "7cfc00", "lemonchiffon": "fffacd", "lightblue": "add8e6",
	"lightcoral": "f08080", "lightcyan": "e0ffff", "lightgoldenrodyellow": "fafad2", "lightgray": "d3d3d3",
	"lightgreen": "90ee90", "lightgrey": "d3d3d3", "lightpink": "ffb6c1", "lightsalmon": "ffa07a",
	"lightseagreen": "20b2aa", "lightskyblue": "87cefa", "lightslategray": "778899", "lightslategrey": "778899",
	"lightsteelblue": "b0c4de", "lightyellow": "ffffe0", "lime": "00ff00", "limegreen": "32cd32",
	"linen": "faf0e6", "magenta": "ff00ff", "maroon": "800000", "mediumaquamarine": "66cdaa",
	"mediumblue": "0000cd", "mediumorchid": "ba55d3", "mediumpurple": "9370db", "mediumseagreen": "3cb371",
	"mediumslateblue": "7b68ee", "mediumspringgreen": "00fa9a", "mediumturquoise": "48d1cc", "mediumvioletred": "c71585",
	"midnightblue": "191970", "mintcream": "f5fffa", "mistyrose": "ffe4e1", "moccasin": "ffe4b5",
	"navajowhite": "ffdead", "navy": "000080", "oldlace": "fdf5e6", "olive": "808000",
	"olivedrab": "6b8e23", "orange": "ffa500", "orangered": "ff4500", "orchid": "da70d6",
	"palegoldenrod": "eee8aa", "palegreen": "98fb98", "paleturquoise": "afeeee", "palevioletred": "db7093",
	"papayawhip": "ffefd5", "peachpuff": "ffdab9", "peru": "cd853f", "pink": "ffc0cb",
	"plum": "dda0dd", "powderblue": "b0e0e6", "purple": "800080", "rebeccapurple": "663399",
	"red": "ff0000", "rosybrown": "bc8f8f", "royalblue": "4169e1", "saddlebrown": "8b4513",
	"salmon": "fa8072", "sandybrown": "f4a460", "seagreen": "2e8b57", "seashell": "fff5ee",
	"sienna": "a0522d", "silver": "c0c0c0", "skyblue": "87ceeb", "slateblue": "6a5acd",
	"slategray": "708090", "slategrey": "708090", "snow": "fffafa", "springgreen": "00ff7f",
	"steelblue": "4682b4", "tan": "d2b48c", "teal": "008080", "thistle": "d8bfd8",
	"tomato": "ff6347", "turquoise": "40e0d0", "violet": "ee82ee", "wheat": "f5deb3",
	"white": "ffffff", "whitesmoke": "f5f5f5", "yellow": "ffff00", "yellowgreen": "9acd32",
}
