/*
Package aggregate walks the element tree of a rendered slide and collects
the attribute records of its visual elements.

The walk is depth-first. Every element is resolved, inherits from its
ancestors and is transformed into canonical slide units. The flattened
list is filtered and sorted into paint order: higher z-index first, and
among equal z-indices, elements nearer to the slide root first.

Vector graphics, canvases and tables are not decomposed. They are flagged
for rasterization and their subtrees are skipped.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2026 The presenton authors
*/
package aggregate

import (
	"context"
	"errors"
	"sort"

	"github.com/cuishuai123/presenton/attrs"
	"github.com/cuishuai123/presenton/dom"
	"github.com/cuishuai123/presenton/dom/style"
	"github.com/cuishuai123/presenton/maybe"
	"github.com/cuishuai123/presenton/resolve"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'presenton.aggregate'.
func tracer() tracing.Trace {
	return tracing.Select("presenton.aggregate")
}

// Policy configures the canonical slide space.
type Policy struct {
	Canonical Canonical
	MinScale  float64
	MaxScale  float64
}

// DefaultPolicy is a 1280×720 slide, scaled by at most a factor of 2.
func DefaultPolicy() Policy {
	return Policy{
		Canonical: Canonical{Width: 1280, Height: 720},
		MinScale:  0.5,
		MaxScale:  2.0,
	}
}

// Aggregator collects attribute records of slides.
type Aggregator struct {
	resolver *resolve.Resolver
	policy   Policy
}

// New creates an aggregator.
func New(resolver *resolve.Resolver, policy Policy) *Aggregator {
	return &Aggregator{resolver: resolver, policy: policy}
}

// skipped tags carry no visual content.
var skipped = map[string]bool{
	"style": true, "script": true, "link": true, "meta": true, "path": true,
}

// inlineFormatting tags may appear inside a paragraph which is kept as a
// single text element.
var inlineFormatting = map[string]bool{
	"strong": true, "b": true, "u": true, "em": true, "i": true, "code": true, "s": true,
}

// Aggregate collects the records of a slide root's descendants in paint
// order. Records are positioned in canonical slide units. The speaker
// note of the result is left empty.
func (a *Aggregator) Aggregate(ctx context.Context, root dom.Element) (attrs.SlideResult, error) {
	rootRec := a.resolver.Resolve(root)
	sc := NewScale(rootRec.Position, a.policy.Canonical, a.policy.MinScale, a.policy.MaxScale)
	in := Seed(rootRec)
	if bg, ok := in.Background.Get(); !ok || bg.Color == "" {
		in.Background = probeBackground(root)
	}
	tracer().P("scale", sc.X).Infof("slide <%s> %s: scale %.3f×%.3f", root.TagName(), root.Rect(), sc.X, sc.Y)
	if tracer().GetTraceLevel() >= tracing.LevelDebug {
		tracer().Debugf("slide tree:\n%s", dom.Dump(root))
	}
	records, err := a.walk(ctx, root, in, sc, 0)
	if err != nil {
		return attrs.SlideResult{}, err
	}
	bounds := a.policy.Canonical.Bounds()
	result := attrs.SlideResult{}
	if bg, ok := in.Background.Get(); ok && bg.Color != "" {
		result.BackgroundColor = maybe.Just(bg.Color)
		tracer().Infof("slide background %s from slide root", bg.Color)
	} else {
		for i := range records {
			if c, ok := records[i].BackgroundColor(); ok && records[i].Position.Equals(bounds) {
				result.BackgroundColor = maybe.Just(c)
				tracer().Infof("slide background %s from full-slide <%s>", c, records[i].Tag)
				break
			}
		}
	}
	for _, rec := range records {
		occupiesSlide := rec.Position.Equals(bounds)
		if (rec.HasVisualProperties() && !occupiesSlide) || rec.HasSpecialContent() {
			result.Elements = append(result.Elements, rec)
		}
	}
	sort.SliceStable(result.Elements, func(i, j int) bool {
		ei, ej := result.Elements[i], result.Elements[j]
		if ei.ZIndex != ej.ZIndex {
			return ei.ZIndex > ej.ZIndex
		}
		return ei.Depth < ej.Depth
	})
	if bg, ok := result.BackgroundColor.Get(); ok {
		for i := range result.Elements {
			rec := &result.Elements[i]
			s, hasShadow := rec.Shadow.Get()
			if _, hasBg := rec.BackgroundColor(); hasShadow && s.Color != "" && !hasBg {
				rec.Background = maybe.Just(attrs.Background{Color: bg})
			}
		}
	}
	tracer().Infof("slide has %d elements, %d retained", len(records), len(result.Elements))
	return result, nil
}

// walk collects the records of the children of parent and of their
// descendants.
func (a *Aggregator) walk(ctx context.Context, parent dom.Element, in Inherited, sc Scale, depth int) ([]attrs.Record, error) {
	var records []attrs.Record
	for _, child := range parent.Children() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		tag := child.TagName()
		if skipped[tag] {
			tracer().Debugf("skipping <%s>", tag)
			continue
		}
		rec := in.Apply(a.resolver.Resolve(child))
		rec.Depth = depth
		pos, visible := sc.Apply(rec.Position, a.policy.Canonical)
		if attrs.IsRasterTag(tag) {
			if visible {
				rec.Position = pos
				rec.Rasterize = true
				records = append(records, rec)
			}
			continue
		}
		if tag == "p" && onlyInlineFormatting(child) {
			if visible {
				rec.Position = pos
				rec.Text = maybe.Just(child.InnerHTML())
				rec.Markup = true
				records = append(records, rec)
			}
			continue
		}
		if visible {
			rec.Position = pos
			records = append(records, rec)
		} else {
			tracer().Debugf("dropping <%s> without extent", tag)
		}
		sub, err := a.walk(ctx, child, in.For(rec), sc, depth+1)
		if err != nil {
			return nil, err
		}
		records = append(records, sub...)
	}
	return records, nil
}

// onlyInlineFormatting is true for elements with descendants, all of
// which are inline formatting tags.
func onlyInlineFormatting(e dom.Element) bool {
	found := false
	err := dom.Walk(e, func(d dom.Element, depth int) error {
		if depth == 0 {
			return nil
		}
		found = true
		if !inlineFormatting[d.TagName()] {
			return errNotInline
		}
		return nil
	})
	return found && err == nil
}

var errNotInline = errors.New("not inline formatting")

// probeBackground reads the background color of a slide root directly
// from its computed style, accepting any color which is not fully
// transparent.
func probeBackground(root dom.Element) maybe.Maybe[attrs.Background] {
	c, ok := root.Style("background-color").Color()
	if !ok || c.A == 0 {
		return maybe.Nothing[attrs.Background]()
	}
	bg := attrs.Background{Color: style.HexString(c)}
	if c.A < 255 {
		bg.Opacity = maybe.Just(float64(c.A) / 255)
	}
	return maybe.Just(bg)
}
