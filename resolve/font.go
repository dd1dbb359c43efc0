package resolve

import (
	"strings"

	"github.com/cuishuai123/presenton/attrs"
	"github.com/cuishuai123/presenton/dom"
	"github.com/cuishuai123/presenton/maybe"
)

// ParseFont reads the font of an element. The name is the first family
// of the family list, unquoted. Keyword weights are mapped to numbers.
// An element without name, size, weight, color and italics has no font.
func ParseFont(family, size, weight, fontStyle, color string) maybe.Maybe[attrs.Font] {
	var f attrs.Font
	name := strings.TrimSpace(strings.Split(family, ",")[0])
	name = strings.Trim(name, `"'`)
	if name != "" && !strings.EqualFold(name, "initial") {
		f.Name = maybe.Just(name)
	}
	f.Size = floatOf(size)
	switch strings.ToLower(strings.TrimSpace(weight)) {
	case "normal":
		f.Weight = maybe.Just(400)
	case "bold":
		f.Weight = maybe.Just(700)
	default:
		f.Weight = intOf(weight)
	}
	if c, ok := ParseColor(color); ok {
		f.Color = maybe.Just(c.Hex)
	}
	f.Italic = strings.EqualFold(strings.TrimSpace(fontStyle), "italic")
	if f.Name.IsNothing() && f.Size.IsNothing() && f.Weight.IsNothing() &&
		f.Color.IsNothing() && !f.Italic {
		return maybe.Nothing[attrs.Font]()
	}
	return maybe.Just(f)
}

// LineHeight decides on the line height of a text element. Only
// multi-line text gets one: text with explicit line breaks, text rendered
// higher than MultiLineFactor single lines, or overflowing text. A
// "normal" line height is never recorded.
func (p Policy) LineHeight(text, lineHeight, fontSize string, m dom.Metrics) maybe.Maybe[float64] {
	single, ok := parseFloat(lineHeight)
	if !ok {
		fs, ok := parseFloat(fontSize)
		if !ok {
			return maybe.Nothing[float64]()
		}
		single = fs * p.SingleLineFactor
	}
	multi := strings.ContainsAny(text, "\n\r") ||
		m.OffsetHeight > single*p.MultiLineFactor ||
		m.ScrollHeight > m.ClientHeight
	if !multi || strings.EqualFold(strings.TrimSpace(lineHeight), "normal") {
		return maybe.Nothing[float64]()
	}
	return floatOf(lineHeight)
}
