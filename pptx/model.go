/*
Package pptx defines the presentation file model handed to the
presentation file writer.

A presentation is a list of slides. Every slide carries an ordered list of
shapes in paint order, an optional background fill and a speaker note.
Shapes are text boxes, auto shapes (rectangles), pictures or connectors.
Positions and sizes are in canonical slide units of a 1280×720 slide.

The model is serialized as JSON. Every shape carries its kind in the
field "shape_type".

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2026 The presenton authors
*/
package pptx

import (
	"encoding/json"
	"fmt"
)

// ShapeKind is the value of a shape's "shape_type" field.
type ShapeKind string

// Shape kinds.
const (
	KindTextBox   ShapeKind = "textbox"
	KindAutoShape ShapeKind = "autoshape"
	KindPicture   ShapeKind = "picture"
	KindConnector ShapeKind = "connector"
)

// AutoShapeType selects the geometry of an auto shape.
type AutoShapeType string

// Auto shape geometries.
const (
	Rectangle        AutoShapeType = "rectangle"
	RoundedRectangle AutoShapeType = "rounded_rectangle"
)

// Shape is one of TextBox, AutoShape, Picture or Connector.
type Shape interface {
	Kind() ShapeKind
}

// Presentation is the complete file model.
type Presentation struct {
	Name   string  `json:"name,omitempty"`
	Slides []Slide `json:"slides"`
}

// Slide holds the shapes of one slide in paint order.
type Slide struct {
	Background  *Fill   `json:"background,omitempty"`
	SpeakerNote string  `json:"speaker_note"`
	Shapes      []Shape `json:"shapes"`
}

type Position struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Spacing is a margin or padding.
type Spacing struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

type Fill struct {
	Color   string  `json:"color"`
	Opacity float64 `json:"opacity"`
}

type Stroke struct {
	Color     string  `json:"color"`
	Thickness float64 `json:"thickness"`
	Opacity   float64 `json:"opacity"`
}

// Shadow is an outer shadow. Offset is the distance of the shadow from
// the shape, in the direction of Angle (degrees).
type Shadow struct {
	Radius  float64 `json:"radius"`
	Offset  float64 `json:"offset"`
	Color   string  `json:"color"`
	Opacity float64 `json:"opacity"`
	Angle   float64 `json:"angle"`
}

type Font struct {
	Name      string  `json:"name"`
	Size      float64 `json:"size"`
	Weight    int     `json:"font_weight"`
	Italic    bool    `json:"italic"`
	Underline bool    `json:"underline,omitempty"`
	Strike    bool    `json:"strike,omitempty"`
	Color     string  `json:"color"`
}

// TextRun is a stretch of text with uniform formatting.
type TextRun struct {
	Text string `json:"text"`
	Font *Font  `json:"font,omitempty"`
}

type Paragraph struct {
	Alignment  string    `json:"alignment,omitempty"`
	LineHeight float64   `json:"line_height,omitempty"`
	Runs       []TextRun `json:"text_runs"`
}

// Text concatenates the text of all runs.
func (p Paragraph) Text() string {
	s := ""
	for _, r := range p.Runs {
		s += r.Text
	}
	return s
}

type TextBox struct {
	Position   Position    `json:"position"`
	Margin     *Spacing    `json:"margin,omitempty"`
	Fill       *Fill       `json:"fill,omitempty"`
	TextWrap   bool        `json:"text_wrap"`
	Paragraphs []Paragraph `json:"paragraphs"`
}

type AutoShape struct {
	Type         AutoShapeType `json:"type"`
	Position     Position      `json:"position"`
	Fill         *Fill         `json:"fill,omitempty"`
	Stroke       *Stroke       `json:"stroke,omitempty"`
	Shadow       *Shadow       `json:"shadow,omitempty"`
	BorderRadius []float64     `json:"border_radius,omitempty"`
	Opacity      float64       `json:"opacity,omitempty"`
}

// PictureSource references an image file or a network URL.
type PictureSource struct {
	IsNetwork bool   `json:"is_network"`
	Path      string `json:"path"`
}

type Picture struct {
	Position     Position           `json:"position"`
	Margin       *Spacing           `json:"margin,omitempty"`
	Picture      PictureSource      `json:"picture"`
	ObjectFit    string             `json:"object_fit,omitempty"`
	Shape        string             `json:"shape,omitempty"`
	BorderRadius []float64          `json:"border_radius,omitempty"`
	Opacity      float64            `json:"opacity,omitempty"`
	Invert       bool               `json:"invert,omitempty"`
	Filters      map[string]float64 `json:"filters,omitempty"`
}

// Connector is a straight line, e.g. from a horizontal rule.
type Connector struct {
	Position  Position `json:"position"`
	Thickness float64  `json:"thickness"`
	Color     string   `json:"color"`
	Opacity   float64  `json:"opacity"`
}

func (*TextBox) Kind() ShapeKind   { return KindTextBox }
func (*AutoShape) Kind() ShapeKind { return KindAutoShape }
func (*Picture) Kind() ShapeKind   { return KindPicture }
func (*Connector) Kind() ShapeKind { return KindConnector }

// MarshalJSON writes a text box with its shape type.
func (t *TextBox) MarshalJSON() ([]byte, error) {
	type plain TextBox
	return json.Marshal(struct {
		Kind ShapeKind `json:"shape_type"`
		*plain
	}{KindTextBox, (*plain)(t)})
}

// MarshalJSON writes an auto shape with its shape type.
func (a *AutoShape) MarshalJSON() ([]byte, error) {
	type plain AutoShape
	return json.Marshal(struct {
		Kind ShapeKind `json:"shape_type"`
		*plain
	}{KindAutoShape, (*plain)(a)})
}

// MarshalJSON writes a picture with its shape type.
func (p *Picture) MarshalJSON() ([]byte, error) {
	type plain Picture
	return json.Marshal(struct {
		Kind ShapeKind `json:"shape_type"`
		*plain
	}{KindPicture, (*plain)(p)})
}

// MarshalJSON writes a connector with its shape type.
func (c *Connector) MarshalJSON() ([]byte, error) {
	type plain Connector
	return json.Marshal(struct {
		Kind ShapeKind `json:"shape_type"`
		*plain
	}{KindConnector, (*plain)(c)})
}

// UnmarshalJSON reads a slide, dispatching shapes on their shape type.
func (s *Slide) UnmarshalJSON(data []byte) error {
	var raw struct {
		Background  *Fill             `json:"background"`
		SpeakerNote string            `json:"speaker_note"`
		Shapes      []json.RawMessage `json:"shapes"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s.Background, s.SpeakerNote, s.Shapes = raw.Background, raw.SpeakerNote, nil
	for i, r := range raw.Shapes {
		var probe struct {
			Kind ShapeKind `json:"shape_type"`
		}
		if err := json.Unmarshal(r, &probe); err != nil {
			return err
		}
		var shape Shape
		switch probe.Kind {
		case KindTextBox:
			shape = &TextBox{}
		case KindAutoShape:
			shape = &AutoShape{}
		case KindPicture:
			shape = &Picture{}
		case KindConnector:
			shape = &Connector{}
		default:
			return fmt.Errorf("shape %d: unknown shape type %q", i, probe.Kind)
		}
		if err := json.Unmarshal(r, shape); err != nil {
			return fmt.Errorf("shape %d: %w", i, err)
		}
		s.Shapes = append(s.Shapes, shape)
	}
	return nil
}
