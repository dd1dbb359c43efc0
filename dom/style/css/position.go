package css

import (
	"github.com/cuishuai123/presenton/dom/style"
)

// position is an enum type for the CSS position property.
type position uint8

const (
	positionUnset    position = iota
	positionStatic            // CSS static (default)
	positionRelative          // CSS relative, also used for sticky
	positionAbsolute          // CSS absolute
	positionFixed             // CSS fixed
)

/*
PositionT is an option type for CSS positions:

	type PositionT
		= Unset
		| Static
		| Relative top right bottom left
		| Absolute top right bottom left
		| Fixed top right bottom left
*/
type PositionT struct {
	offsets []PositionOffset
	kind    position
}

// PositionOffset is one of the offset properties top, right, bottom, left.
type PositionOffset struct {
	Dim DimenT
	Dir PosDir
}

// PosDir is either Top, Right, Bottom or Left.
type PosDir uint8

const (
	Top PosDir = iota
	Right
	Bottom
	Left
)

// NormalizeOffsets normalizes offset properties into a 4-way slice, ordered
// by PosDir. Invalid directions are silently dropped.
func NormalizeOffsets(offsets []PositionOffset) []PositionOffset {
	norm := make([]PositionOffset, 4)
	for i := Top; i <= Left; i++ {
		norm[i].Dir = i
	}
	for _, o := range offsets {
		if o.Dir <= Left {
			norm[int(o.Dir)] = o
		}
	}
	return norm
}

// Static creates a CSS position of value `static`.
func Static() PositionT {
	return PositionT{kind: positionStatic}
}

// Relative creates a CSS position of value `relative`. offsets may be
// given partially or not at all.
func Relative(offsets []PositionOffset) PositionT {
	return PositionT{kind: positionRelative, offsets: NormalizeOffsets(offsets)}
}

// Absolute creates a CSS position of value `absolute`.
func Absolute(offsets []PositionOffset) PositionT {
	return PositionT{kind: positionAbsolute, offsets: NormalizeOffsets(offsets)}
}

// Fixed creates a CSS position of value `fixed`.
func Fixed(offsets []PositionOffset) PositionT {
	return PositionT{kind: positionFixed, offsets: NormalizeOffsets(offsets)}
}

var positionNames = map[position]string{
	positionStatic:   "static",
	positionRelative: "relative",
	positionAbsolute: "absolute",
	positionFixed:    "fixed",
}

func (p PositionT) String() string {
	if s, ok := positionNames[p.kind]; ok {
		return s
	}
	return "unset"
}

// Position returns an optional position type from a property. It never
// fails; illegal input results in an unset position. Slides are captured
// at scroll offset 0, so sticky positions are laid out as relative ones.
func Position(p style.Property) PositionT {
	switch p.Keyword() {
	case "static":
		return Static()
	case "relative", "sticky":
		return Relative(nil)
	case "absolute":
		return Absolute(nil)
	case "fixed":
		return Fixed(nil)
	}
	return PositionT{}
}

// WithOffsets parses the four offset properties into p. Unparsable offsets
// are left unset.
func (p PositionT) WithOffsets(top, right, bottom, left style.Property) PositionT {
	var offsets []PositionOffset
	for i, o := range []style.Property{top, right, bottom, left} {
		if d, err := DimenOption(o); err == nil {
			offsets = append(offsets, PositionOffset{Dim: d, Dir: PosDir(i)})
		}
	}
	p.offsets = NormalizeOffsets(offsets)
	return p
}

// Offsets returns the normalized offsets (top, right, bottom, left).
func (p PositionT) Offsets() []PositionOffset {
	if p.offsets == nil {
		return NormalizeOffsets(nil)
	}
	return p.offsets
}

// --- Matching --------------------------------------------------------------

// Match starts matching p against the out-of-flow variants:
//
//	var o []css.PositionOffset
//	switch m := pos.Match(); m {
//	case m.Absolute(&o):
//	case m.Fixed(&o):
//	}
func (p PositionT) Match() *PMatcher {
	return &PMatcher{pos: p}
}

// PMatcher is part of pattern matching for PositionT.
type PMatcher struct {
	pos PositionT
}

func (m *PMatcher) with(kind position, o *[]PositionOffset) *PMatcher {
	if m.pos.kind != kind {
		return nil
	}
	if o != nil {
		*o = m.pos.Offsets()
	}
	return m
}

func (m *PMatcher) Absolute(o *[]PositionOffset) *PMatcher {
	return m.with(positionAbsolute, o)
}

func (m *PMatcher) Relative(o *[]PositionOffset) *PMatcher {
	return m.with(positionRelative, o)
}

func (m *PMatcher) Fixed(o *[]PositionOffset) *PMatcher {
	return m.with(positionFixed, o)
}

// ---------------------------------------------------------------------------

// IsUnset returns true if p is unset.
func (p PositionT) IsUnset() bool {
	return p.kind == positionUnset
}

// IsStatic returns true for unset and static positions, which both take
// part in normal flow.
func (p PositionT) IsStatic() bool {
	return p.kind == positionUnset || p.kind == positionStatic
}

// IsRelative returns true if p represents a relative position.
func (p PositionT) IsRelative() bool {
	return p.kind == positionRelative
}

// IsAbsolute returns true if p represents an absolute position.
func (p PositionT) IsAbsolute() bool {
	return p.kind == positionAbsolute
}

// IsFixed returns true if p represents a fixed position.
func (p PositionT) IsFixed() bool {
	return p.kind == positionFixed
}

// OutOfFlow is true for absolute and fixed positions, which take no space
// in their parent's flow.
func (p PositionT) OutOfFlow() bool {
	return p.kind == positionAbsolute || p.kind == positionFixed
}
