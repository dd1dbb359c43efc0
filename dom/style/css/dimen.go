package css

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cuishuai123/presenton/dom/style"
	"github.com/npillmayer/tyse/core/dimen"
)

const (
	dimenNone uint32 = 0

	dimenAbsolute uint32 = 0x0001
	dimenAuto     uint32 = 0x0002
	dimenInherit  uint32 = 0x0003
	dimenInitial  uint32 = 0x0004
	dimenNormal   uint32 = 0x0005
	kindMask      uint32 = 0x000f

	// Flags for content dependent dimensions
	DimenContentMax uint32 = 0x0010
	DimenContentMin uint32 = 0x0020
	DimenContentFit uint32 = 0x0030
	contentMask     uint32 = 0x00f0

	dimenEM      uint32 = 0x0100
	dimenREM     uint32 = 0x0200
	dimenVW      uint32 = 0x0300
	dimenVH      uint32 = 0x0400
	dimenPercent uint32 = 0x0500
	dimenFactor  uint32 = 0x0600 // unitless multiple of the font size
	relativeMask uint32 = 0xff00
)

// PX is the size of a CSS pixel: 1px = 0.75pt.
const PX = dimen.PT * 3 / 4

// Px converts a length in CSS pixels to design units.
func Px(f float64) dimen.DU {
	return dimen.DU(f * float64(PX))
}

// ToPx converts design units to CSS pixels.
func ToPx(d dimen.DU) float64 {
	return float64(d) / float64(PX)
}

// DimenT is an option type for CSS dimensions.
type DimenT struct {
	d     dimen.DU
	rel   float64 // factor for relative dimensions; percentages are stored as 0..100
	flags uint32
}

/*
type DimenT
	= Auto
	| Inherit
	| Initial
	| Normal
	| JustDimen dimen
	| Percentage n
	| FontRel unit n
	| ViewRel unit n
*/

func Auto() DimenT {
	return DimenT{flags: dimenAuto}
}

func Inherit() DimenT {
	return DimenT{flags: dimenInherit}
}

func Initial() DimenT {
	return DimenT{flags: dimenInitial}
}

// Normal is the keyword value of properties like line-height.
func Normal() DimenT {
	return DimenT{flags: dimenNormal}
}

// JustDimen creates a CSS dimension with a fixed value of x.
func JustDimen(x dimen.DU) DimenT {
	return DimenT{d: x, flags: dimenAbsolute}
}

// Percentage creates a CSS dimension with a %-relative value.
func Percentage(n float64) DimenT {
	return DimenT{rel: n, flags: dimenPercent}
}

// EM creates a dimension relative to the element's font size.
func EM(n float64) DimenT {
	return DimenT{rel: n, flags: dimenEM}
}

// REM creates a dimension relative to the root element's font size.
func REM(n float64) DimenT {
	return DimenT{rel: n, flags: dimenREM}
}

// Factor creates a unitless multiple of the font size (line-height: 1.5).
func Factor(n float64) DimenT {
	return DimenT{rel: n, flags: dimenFactor}
}

// ViewportWidth creates a dimension relative to the viewport's width.
func ViewportWidth(n float64) DimenT {
	return DimenT{rel: n, flags: dimenVW}
}

// ViewportHeight creates a dimension relative to the viewport's height.
func ViewportHeight(n float64) DimenT {
	return DimenT{rel: n, flags: dimenVH}
}

// IsAuto is true for dimension auto.
func (d DimenT) IsAuto() bool {
	return d.flags&kindMask == dimenAuto
}

// IsRelative is true for font-, viewport- and %-relative dimensions.
func (d DimenT) IsRelative() bool {
	return d.flags&relativeMask > 0
}

// IsNone is true for a dimension which has not been set.
func (d DimenT) IsNone() bool {
	return d.flags == dimenNone
}

func (d DimenT) String() string {
	switch d.flags & kindMask {
	case dimenAbsolute:
		return fmt.Sprintf("%gpx", ToPx(d.d))
	case dimenAuto:
		return "auto"
	case dimenInherit:
		return "inherit"
	case dimenInitial:
		return "initial"
	case dimenNormal:
		return "normal"
	}
	switch d.flags & relativeMask {
	case dimenEM:
		return fmt.Sprintf("%gem", d.rel)
	case dimenREM:
		return fmt.Sprintf("%grem", d.rel)
	case dimenVW:
		return fmt.Sprintf("%gvw", d.rel)
	case dimenVH:
		return fmt.Sprintf("%gvh", d.rel)
	case dimenPercent:
		return fmt.Sprintf("%g%%", d.rel)
	case dimenFactor:
		return fmt.Sprintf("%g", d.rel)
	}
	return "none"
}

// DimenOption parses a property value into a dimension. Unitless numbers
// other than 0 become font-size factors, which only line-height
// interprets meaningfully.
func DimenOption(p style.Property) (DimenT, error) {
	s := p.Keyword()
	switch s {
	case "":
		return DimenT{}, nil
	case "auto":
		return Auto(), nil
	case "inherit":
		return Inherit(), nil
	case "initial":
		return Initial(), nil
	case "normal":
		return Normal(), nil
	case "thin":
		return JustDimen(Px(1)), nil
	case "medium":
		return JustDimen(Px(3)), nil
	case "thick":
		return JustDimen(Px(5)), nil
	}
	units := []struct {
		suffix string
		make   func(float64) DimenT
	}{
		{"rem", REM},
		{"em", EM},
		{"px", func(f float64) DimenT { return JustDimen(Px(f)) }},
		{"pt", func(f float64) DimenT { return JustDimen(dimen.DU(f * float64(dimen.PT))) }},
		{"vw", ViewportWidth},
		{"vh", ViewportHeight},
		{"%", Percentage},
	}
	for _, u := range units {
		if strings.HasSuffix(s, u.suffix) {
			f, err := strconv.ParseFloat(strings.TrimSuffix(s, u.suffix), 64)
			if err != nil {
				return DimenT{}, fmt.Errorf("illegal dimension %q: %w", p, err)
			}
			return u.make(f), nil
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return DimenT{}, fmt.Errorf("illegal dimension %q", p)
	}
	if f == 0 {
		return JustDimen(0), nil
	}
	return Factor(f), nil
}

// Context holds the reference sizes relative dimensions are resolved against.
type Context struct {
	FontSize     dimen.DU // font size of the element (for em)
	RootFontSize dimen.DU // font size of the document root (for rem)
	Reference    dimen.DU // containing block size, for percentages
	ViewportW    dimen.DU
	ViewportH    dimen.DU
}

// Resolve computes an absolute value for a dimension. It returns false
// for auto, normal and the inheritance keywords.
func (d DimenT) Resolve(ctx Context) (dimen.DU, bool) {
	if d.flags&kindMask == dimenAbsolute {
		return d.d, true
	}
	switch d.flags & relativeMask {
	case dimenEM, dimenFactor:
		return dimen.DU(d.rel * float64(ctx.FontSize)), true
	case dimenREM:
		return dimen.DU(d.rel * float64(ctx.RootFontSize)), true
	case dimenPercent:
		return dimen.DU(d.rel / 100 * float64(ctx.Reference)), true
	case dimenVW:
		return dimen.DU(d.rel / 100 * float64(ctx.ViewportW)), true
	case dimenVH:
		return dimen.DU(d.rel / 100 * float64(ctx.ViewportH)), true
	}
	return 0, false
}

// ---------------------------------------------------------------------------

func (d DimenT) Match() *Matcher {
	return &Matcher{dimen: d}
}

type Matcher struct {
	dimen DimenT
}

func (m *Matcher) IsKind(d DimenT) *Matcher {
	switch {
	case m.dimen.flags&kindMask != 0 && m.dimen.flags&kindMask == d.flags&kindMask:
		return m
	case (m.dimen.flags&relativeMask > 0) && m.dimen.flags&relativeMask == d.flags&relativeMask:
		return m
	case (m.dimen.flags&contentMask > 0) && (d.flags&contentMask > 0):
		return m
	}
	return nil
}

func (m *Matcher) Just(du *dimen.DU) *Matcher {
	if m.dimen.flags&kindMask == dimenAbsolute {
		if du != nil {
			*du = m.dimen.d
		}
		return m
	}
	return nil
}

func (m *Matcher) Percentage(p *float64) *Matcher {
	if m.dimen.flags&relativeMask == dimenPercent {
		if p != nil {
			*p = m.dimen.rel
		}
		return m
	}
	return nil
}

// --- Expression matching ---------------------------------------------------

type DimenPatterns[T any] struct {
	Auto     T
	Inherit  T
	Initial  T
	Just     T
	Relative T
	Default  T
}

func DimenPattern[T any](d DimenT) *MatchExpr[T] {
	return &MatchExpr[T]{dimen: d}
}

type MatchExpr[T any] struct {
	dimen DimenT
}

func (m *MatchExpr[T]) OneOf(patterns DimenPatterns[T]) T {
	switch m.dimen.flags & kindMask {
	case dimenAuto:
		return patterns.Auto
	case dimenAbsolute:
		return patterns.Just
	case dimenInitial:
		return patterns.Initial
	case dimenInherit:
		return patterns.Inherit
	}
	if m.dimen.IsRelative() {
		return patterns.Relative
	}
	return patterns.Default
}

func (m *MatchExpr[T]) With(du *dimen.DU) *MatchExpr[T] {
	*du = m.dimen.d
	return m
}

func (m *MatchExpr[T]) Const(x T) T {
	return x
}
