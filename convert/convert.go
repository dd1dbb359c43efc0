/*
Package convert turns extracted slides into the presentation file model.

Convert maps every attribute record of a slide to exactly one shape, in
the slide's paint order: records with text become text boxes, records
with an image source become pictures, all others become rectangles.
Horizontal rules become connectors.

Direct builds a plain text model from a presentation's data, without a
rendering surface.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2026 The presenton authors
*/
package convert

import (
	"math"
	"strings"

	"github.com/cuishuai123/presenton/attrs"
	"github.com/cuishuai123/presenton/maybe"
	"github.com/cuishuai123/presenton/pptx"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'presenton.convert'.
func tracer() tracing.Trace {
	return tracing.Select("presenton.convert")
}

// Defaults for fonts which could not be resolved.
const (
	DefaultFontName   = "Inter"
	DefaultFontSize   = 16.0
	DefaultFontWeight = 400
	DefaultFontColor  = "000000"
)

// Convert creates a presentation model from extracted slides.
func Convert(name string, slides []attrs.SlideResult) pptx.Presentation {
	p := pptx.Presentation{Name: name, Slides: make([]pptx.Slide, 0, len(slides))}
	for i, s := range slides {
		slide := pptx.Slide{SpeakerNote: s.SpeakerNote, Shapes: make([]pptx.Shape, 0, len(s.Elements))}
		if bg, ok := s.BackgroundColor.Get(); ok {
			slide.Background = &pptx.Fill{Color: bg, Opacity: 1}
		}
		for _, rec := range s.Elements {
			slide.Shapes = append(slide.Shapes, Shape(rec))
		}
		tracer().P("slide", i).Debugf("converted %d shapes", len(slide.Shapes))
		p.Slides = append(p.Slides, slide)
	}
	return p
}

// Shape converts one attribute record.
func Shape(rec attrs.Record) pptx.Shape {
	pos := position(rec.Position)
	if rec.Tag == "hr" {
		return connector(rec, pos)
	}
	if rec.HasText() {
		text, _ := rec.Text.Get()
		paras := plain(text, font(rec))
		if rec.Markup {
			paras = Paragraphs(text, font(rec))
		}
		box := &pptx.TextBox{
			Position:   pos,
			Margin:     spacing(rec.Padding),
			Fill:       fill(rec),
			TextWrap:   rec.TextWrap,
			Paragraphs: paras,
		}
		align := alignment(rec.TextAlign.WithDefault(""))
		lh := rec.LineHeight.WithDefault(0)
		for i := range box.Paragraphs {
			box.Paragraphs[i].Alignment = align
			box.Paragraphs[i].LineHeight = lh
		}
		return box
	}
	if src, ok := rec.ImageSrc.Get(); ok && src != "" {
		pic := &pptx.Picture{
			Position:     pos,
			Margin:       spacing(rec.Margin),
			Picture:      pptx.PictureSource{IsNetwork: isNetwork(src), Path: src},
			ObjectFit:    rec.ObjectFit.WithDefault(""),
			Shape:        string(rec.Shape.WithDefault(attrs.Rectangle)),
			BorderRadius: radius(rec),
			Opacity:      rec.Opacity.WithDefault(1),
		}
		if f, ok := rec.Filters.Get(); ok {
			pic.Invert = f[attrs.Invert] > 0
			pic.Filters = f
		}
		return pic
	}
	shape := &pptx.AutoShape{
		Type:         pptx.Rectangle,
		Position:     pos,
		Fill:         fill(rec),
		Stroke:       stroke(rec),
		Shadow:       shadow(rec),
		BorderRadius: radius(rec),
		Opacity:      rec.Opacity.WithDefault(1),
	}
	if shape.BorderRadius != nil {
		shape.Type = pptx.RoundedRectangle
	}
	return shape
}

func position(p attrs.Position) pptx.Position {
	return pptx.Position{Left: p.Left, Top: p.Top, Width: p.Width, Height: p.Height}
}

func spacing(m maybe.Maybe[attrs.Sides]) *pptx.Spacing {
	sides, ok := m.Get()
	if !ok {
		return nil
	}
	return &pptx.Spacing{Top: sides.Top, Right: sides.Right, Bottom: sides.Bottom, Left: sides.Left}
}

func fill(rec attrs.Record) *pptx.Fill {
	bg, ok := rec.Background.Get()
	if !ok || bg.Color == "" {
		return nil
	}
	return &pptx.Fill{Color: bg.Color, Opacity: bg.Opacity.WithDefault(1)}
}

func stroke(rec attrs.Record) *pptx.Stroke {
	b, ok := rec.Border.Get()
	if !ok {
		return nil
	}
	c, hasColor := b.Color.Get()
	w := b.Width.WithDefault(0)
	if !hasColor || w <= 0 {
		return nil
	}
	return &pptx.Stroke{Color: c, Thickness: w, Opacity: b.Opacity.WithDefault(1)}
}

func shadow(rec attrs.Record) *pptx.Shadow {
	s, ok := rec.Shadow.Get()
	if !ok || s.Color == "" {
		return nil
	}
	if s.Inset {
		tracer().Debugf("<%s>: inset shadow is not reproduced", rec.Tag)
		return nil
	}
	return &pptx.Shadow{
		Radius:  s.Radius,
		Offset:  math.Hypot(s.OffsetX, s.OffsetY),
		Color:   s.Color,
		Opacity: s.Opacity.WithDefault(1),
		Angle:   s.Angle,
	}
}

func radius(rec attrs.Record) []float64 {
	c, ok := rec.BorderRadius.Get()
	if !ok {
		return nil
	}
	return []float64{c[0], c[1], c[2], c[3]}
}

func connector(rec attrs.Record, pos pptx.Position) *pptx.Connector {
	c := &pptx.Connector{Position: pos, Thickness: 1, Color: DefaultFontColor, Opacity: rec.Opacity.WithDefault(1)}
	if b, ok := rec.Border.Get(); ok {
		c.Color = b.Color.WithDefault(c.Color)
		c.Thickness = b.Width.WithDefault(c.Thickness)
	} else if bg, ok := rec.BackgroundColor(); ok {
		c.Color = bg
		c.Thickness = math.Max(1, pos.Height)
	}
	return c
}

func font(rec attrs.Record) pptx.Font {
	f := rec.Font.WithDefault(attrs.Font{})
	return pptx.Font{
		Name:   f.Name.WithDefault(DefaultFontName),
		Size:   f.Size.WithDefault(DefaultFontSize),
		Weight: f.Weight.WithDefault(DefaultFontWeight),
		Italic: f.Italic,
		Color:  f.Color.WithDefault(DefaultFontColor),
	}
}

func alignment(textAlign string) string {
	switch textAlign {
	case "center", "right", "justify":
		return textAlign
	case "end":
		return "right"
	}
	return ""
}

func isNetwork(src string) bool {
	s := strings.ToLower(src)
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
