package resolve

import (
	"strings"

	"github.com/cuishuai123/presenton/attrs"
	"github.com/cuishuai123/presenton/dom"
	"github.com/cuishuai123/presenton/maybe"
)

// Policy holds the tunable thresholds of the resolver's heuristics.
type Policy struct {
	ShadowVisibleColorBonus int     // score of a visible shadow color
	ShadowNumericWeight     int     // score per non-zero shadow length
	MultiLineFactor         float64 // text higher than this many lines is multi-line
	SingleLineFactor        float64 // line height relative to font size, for "normal"
	LongTextLength          int     // text-wrap advisory: long text
	WrapHeightFactor        float64 // text-wrap advisory: wrapped text height
}

// DefaultPolicy returns the thresholds the extraction has been tuned with.
func DefaultPolicy() Policy {
	return Policy{
		ShadowVisibleColorBonus: 2,
		ShadowNumericWeight:     1,
		MultiLineFactor:         2.0,
		SingleLineFactor:        1.2,
		LongTextLength:          30,
		WrapHeightFactor:        1.5,
	}
}

// Resolver resolves elements to attribute records.
type Resolver struct {
	policy Policy
}

// New creates a resolver for a policy.
func New(policy Policy) *Resolver {
	return &Resolver{policy: policy}
}

// Policy returns the resolver's policy.
func (r *Resolver) Policy() Policy {
	return r.policy
}

// Resolve reads the attributes of a single element. Its position is the
// element's viewport rect.
func (r *Resolver) Resolve(e dom.Element) attrs.Record {
	get := func(key string) string { return e.Style(key).String() }
	tag := e.TagName()
	rec := attrs.Record{
		Tag:      tag,
		ID:       e.ID(),
		Class:    e.ClassName(),
		Position: ParsePosition(e.Rect()),
		Element:  e,
	}
	text := e.InnerText()
	if len(e.Children()) == 0 && text != "" {
		rec.Text = maybe.Just(text)
	}
	rec.Opacity = floatOf(get("opacity"))
	current := get("color")
	if c, ok := ParseColor(get("background-color")); ok {
		rec.Background = maybe.Just(attrs.Background{Color: c.Hex, Opacity: c.Opacity})
	}
	rec.Border = r.border(get, current)
	rec.Shadow = r.policy.ParseShadow(get("box-shadow"), current)
	rec.Font = ParseFont(get("font-family"), get("font-size"), get("font-weight"), get("font-style"), current)
	rec.LineHeight = r.policy.LineHeight(text, get("line-height"), get("font-size"), e.Metrics())
	rec.Margin = ParseSides(get("margin-top"), get("margin-right"), get("margin-bottom"), get("margin-left"))
	rec.Padding = ParseSides(get("padding-top"), get("padding-right"), get("padding-bottom"), get("padding-left"))
	if z, ok := parseInt(get("z-index")); ok {
		rec.ZIndex = z
	}
	switch align := e.Style("text-align").Keyword(); align {
	case "", "left", "start":
	default:
		rec.TextAlign = maybe.Just(align)
	}
	w, h := rec.Position.Width, rec.Position.Height
	rec.BorderRadius = ParseBorderRadius(radiusValue(
		get("border-top-left-radius"), get("border-top-right-radius"),
		get("border-bottom-right-radius"), get("border-bottom-left-radius")), w, h)
	rec.Shape = ParseShape(tag, rec.BorderRadius, w, h)
	if src := e.Src(); tag == "img" && src != "" {
		rec.ImageSrc = maybe.Just(src)
	} else if u, ok := BackgroundImageURL(get("background-image")); ok {
		rec.ImageSrc = maybe.Just(u)
	}
	if fit := e.Style("object-fit").Keyword(); fit != "" {
		rec.ObjectFit = maybe.Just(fit)
	}
	rec.Filters = ParseFilters(get("filter"))
	rec.TextWrap = r.textWrap(e, text)
	return rec
}

func (r *Resolver) border(get func(string) string, current string) maybe.Maybe[attrs.Border] {
	var b attrs.Border
	switch strings.ToLower(strings.TrimSpace(get("border-top-style"))) {
	case "none", "hidden":
		return maybe.Nothing[attrs.Border]()
	}
	b.Width = floatOf(get("border-top-width"))
	if w, ok := b.Width.Get(); ok && w == 0 {
		return maybe.Nothing[attrs.Border]()
	}
	if c, ok := colorOrCurrent(get("border-top-color"), current); ok {
		b.Color = maybe.Just(c.Hex)
		b.Opacity = c.Opacity
	}
	if b.Color.IsNothing() && b.Width.IsNothing() && b.Opacity.IsNothing() {
		return maybe.Nothing[attrs.Border]()
	}
	return maybe.Just(b)
}

// textWrap is false only for white-space nowrap and pre. Overflow, long
// text and wrapped rendering are logged, they do not change the decision.
func (r *Resolver) textWrap(e dom.Element, text string) bool {
	ws := e.Style("white-space").Keyword()
	wrap := ws != "nowrap" && ws != "pre"
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return wrap
	}
	m := e.Metrics()
	long := len([]rune(trimmed)) > r.policy.LongTextLength
	lh, ok := parseFloat(e.Style("line-height").String())
	if !ok {
		fs, _ := parseFloat(e.Style("font-size").String())
		lh = fs * r.policy.SingleLineFactor
	}
	wrapped := lh > 0 && e.Rect().Height > lh*r.policy.WrapHeightFactor
	overflow := m.ScrollWidth > m.OffsetWidth
	if long || wrapped || overflow {
		tracer().P("tag", e.TagName()).Debugf("text wrap %v: long=%v wrapped=%v overflow=%v white-space=%q",
			wrap, long, wrapped, overflow, ws)
	}
	return wrap
}
