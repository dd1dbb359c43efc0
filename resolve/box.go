package resolve

import (
	"math"
	"regexp"
	"strings"

	"github.com/cuishuai123/presenton/attrs"
	"github.com/cuishuai123/presenton/dom"
	"github.com/cuishuai123/presenton/maybe"
)

// ParsePosition takes an element's rect as its position. Non-finite
// coordinates count as 0.
func ParsePosition(r dom.Rect) attrs.Position {
	return attrs.Position{
		Left:   finite(r.X),
		Top:    finite(r.Y),
		Width:  finite(r.Width),
		Height: finite(r.Height),
	}
}

func finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// ParseSides reads four side lengths. Unparsable lengths count as 0; if
// all sides are 0 there are no sides.
func ParseSides(top, right, bottom, left string) maybe.Maybe[attrs.Sides] {
	px := func(s string) float64 {
		f, _ := parseFloat(s)
		return f
	}
	sides := attrs.Sides{Top: px(top), Right: px(right), Bottom: px(bottom), Left: px(left)}
	if sides == (attrs.Sides{}) {
		return maybe.Nothing[attrs.Sides]()
	}
	return maybe.Just(sides)
}

// ExpandRadius expands 1 to 4 radii the way the border-radius shorthand
// does: a → a a a a, a b → a b a b, a b c → a b c b.
// Percentages are taken relative to the box, horizontal corners (top-left,
// bottom-right) to width, the others to height.
func ExpandRadius(value string, width, height float64) ([4]float64, bool) {
	f := strings.Fields(value)
	var corners [4]string
	switch len(f) {
	case 1:
		corners = [4]string{f[0], f[0], f[0], f[0]}
	case 2:
		corners = [4]string{f[0], f[1], f[0], f[1]}
	case 3:
		corners = [4]string{f[0], f[1], f[2], f[1]}
	case 4:
		corners = [4]string{f[0], f[1], f[2], f[3]}
	default:
		return [4]float64{}, false
	}
	var r [4]float64
	for i, c := range corners {
		v, _ := parseFloat(c)
		if strings.HasSuffix(c, "%") {
			v = v / 100 * 2 * radiusBound(i, width, height)
		}
		r[i] = v
	}
	return r, true
}

// radiusBound is the largest radius corner i may have.
func radiusBound(i int, width, height float64) float64 {
	if i%2 == 0 {
		return width / 2
	}
	return height / 2
}

// ParseBorderRadius reads 1 to 4 radii and clamps each corner to
// [0, half the element's width] for top-left and bottom-right, and to
// [0, half its height] for top-right and bottom-left. All-zero radii are
// no radii.
func ParseBorderRadius(value string, width, height float64) maybe.Maybe[attrs.Corners] {
	r, ok := ExpandRadius(value, width, height)
	if !ok {
		return maybe.Nothing[attrs.Corners]()
	}
	var c attrs.Corners
	zero := true
	for i := range r {
		c[i] = math.Max(0, math.Min(r[i], radiusBound(i, width, height)))
		if c[i] != 0 {
			zero = false
		}
	}
	if zero {
		return maybe.Nothing[attrs.Corners]()
	}
	return maybe.Just(c)
}

// radiusValue joins the four corner longhands into one value, keeping the
// horizontal radius of elliptical corners.
func radiusValue(tl, tr, br, bl string) string {
	corners := []string{tl, tr, br, bl}
	for i, c := range corners {
		if f := strings.Fields(c); len(f) > 0 {
			corners[i] = f[0]
		} else {
			corners[i] = "0px"
		}
	}
	return strings.Join(corners, " ")
}

// ParseShape classifies images: an image whose every corner is rounded
// to its limit is a circle, other images are rectangles. Elements other
// than images have no shape.
func ParseShape(tag string, radius maybe.Maybe[attrs.Corners], width, height float64) maybe.Maybe[attrs.Shape] {
	if tag != "img" {
		return maybe.Nothing[attrs.Shape]()
	}
	c, ok := radius.Get()
	if !ok || width <= 0 || height <= 0 {
		return maybe.Just(attrs.Rectangle)
	}
	for i := range c {
		if c[i] < radiusBound(i, width, height)-0.5 {
			return maybe.Just(attrs.Rectangle)
		}
	}
	return maybe.Just(attrs.Circle)
}

var filterFunc = regexp.MustCompile(`([a-zA-Z-]+)\(([^)]*)\)`)

var filterNames = map[string]string{
	"invert":     attrs.Invert,
	"brightness": attrs.Brightness,
	"contrast":   attrs.Contrast,
	"saturate":   attrs.Saturate,
	"hue-rotate": attrs.HueRotate,
	"blur":       attrs.Blur,
	"grayscale":  attrs.Grayscale,
	"sepia":      attrs.Sepia,
	"opacity":    attrs.Opacity,
}

// ParseFilters reads a filter function list.
//
// Grammar:
//
//	filters = *( name "(" argument ")" )
//
// Only recognized functions with a numeric argument are kept, with the
// number of the argument ("50%" is 50, "90deg" is 90, "2px" is 2).
func ParseFilters(value string) maybe.Maybe[attrs.Filters] {
	v := strings.TrimSpace(value)
	if v == "" || strings.EqualFold(v, "none") {
		return maybe.Nothing[attrs.Filters]()
	}
	filters := attrs.Filters{}
	for _, m := range filterFunc.FindAllStringSubmatch(v, -1) {
		name, ok := filterNames[strings.ToLower(m[1])]
		if !ok {
			continue
		}
		if f, ok := parseFloat(m[2]); ok {
			filters[name] = f
		}
	}
	if len(filters) == 0 {
		return maybe.Nothing[attrs.Filters]()
	}
	return maybe.Just(filters)
}

var urlFunc = regexp.MustCompile(`url\(\s*['"]?([^'")]+)['"]?\s*\)`)

// BackgroundImageURL extracts the URL of a background-image value.
func BackgroundImageURL(value string) (string, bool) {
	m := urlFunc.FindStringSubmatch(value)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}
