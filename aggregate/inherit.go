package aggregate

import (
	"github.com/cuishuai123/presenton/attrs"
	"github.com/cuishuai123/presenton/maybe"
)

// Inherited is what an element inherits from its ancestors. It is passed
// down the walk by value and never changed in place.
type Inherited struct {
	Font         maybe.Maybe[attrs.Font]
	Background   maybe.Maybe[attrs.Background]
	BorderRadius maybe.Maybe[attrs.Corners]
	ZIndex       int
	Opacity      maybe.Maybe[float64]
}

// Seed creates the context a slide root hands to its children.
func Seed(root attrs.Record) Inherited {
	return Inherited{
		Font:       root.Font,
		Background: root.Background,
		ZIndex:     root.ZIndex,
		Opacity:    root.Opacity,
	}
}

// Apply fills fields of rec which it does not set itself:
//
//   - the font, for elements with text and without a font
//   - the background, for elements with a shadow and without a background
//   - the border radius, for elements without one
//   - the z-index, for elements with z-index 0
//   - the opacity, for elements without one or with opacity 1
func (in Inherited) Apply(rec attrs.Record) attrs.Record {
	if rec.Font.IsNothing() && rec.HasText() && in.Font.IsJust() {
		rec.Font = in.Font
		tracer().Debugf("<%s> inherits font", rec.Tag)
	}
	if rec.Background.IsNothing() && rec.Shadow.IsJust() && in.Background.IsJust() {
		rec.Background = in.Background
		tracer().Debugf("<%s> inherits background", rec.Tag)
	}
	if rec.BorderRadius.IsNothing() {
		rec.BorderRadius = in.BorderRadius
	}
	if rec.ZIndex == 0 {
		rec.ZIndex = in.ZIndex
	}
	if op, ok := rec.Opacity.Get(); (!ok || op == 1) && in.Opacity.IsJust() {
		rec.Opacity = in.Opacity
	}
	return rec
}

// For derives the context for the children of rec: every field rec sets
// overrides the inherited one.
func (in Inherited) For(rec attrs.Record) Inherited {
	next := Inherited{
		Font:         rec.Font.Or(in.Font),
		Background:   rec.Background.Or(in.Background),
		BorderRadius: rec.BorderRadius.Or(in.BorderRadius),
		ZIndex:       in.ZIndex,
		Opacity:      rec.Opacity.Or(in.Opacity),
	}
	if rec.ZIndex != 0 {
		next.ZIndex = rec.ZIndex
	}
	return next
}
