/*
Package attrs holds the attribute records extracted from rendered slide
elements.

A Record describes one visual element of a slide: its box in canonical
slide units and resolved style groups. Groups whose presence carries
meaning are option types (maybe.Maybe), thus inheritance between records
can distinguish "not set" from "set to a zero value".

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2026 The presenton authors
*/
package attrs

import (
	"strings"

	"github.com/cuishuai123/presenton/dom"
	"github.com/cuishuai123/presenton/maybe"
)

// Position is a box, either in viewport pixels or in canonical slide units.
type Position struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Equals compares two positions exactly.
func (p Position) Equals(other Position) bool {
	return p == other
}

// Background is a fill color. Color is 6 upper-case hex digits.
type Background struct {
	Color   string               `json:"color"`
	Opacity maybe.Maybe[float64] `json:"opacity"`
}

// Border is the resolved border of an element.
type Border struct {
	Color   maybe.Maybe[string]  `json:"color"`
	Width   maybe.Maybe[float64] `json:"width"`
	Opacity maybe.Maybe[float64] `json:"opacity"`
}

// Shadow is the selected box shadow of an element.
type Shadow struct {
	OffsetX float64              `json:"offsetX"`
	OffsetY float64              `json:"offsetY"`
	Color   string               `json:"color"`
	Opacity maybe.Maybe[float64] `json:"opacity"`
	Radius  float64              `json:"radius"` // blur radius
	Spread  float64              `json:"spread"`
	Inset   bool                 `json:"inset"`
	Angle   float64              `json:"angle"` // degrees, atan2(offsetY, offsetX)
}

// Font is the resolved font of an element.
type Font struct {
	Name   maybe.Maybe[string]  `json:"name"`
	Size   maybe.Maybe[float64] `json:"size"`
	Weight maybe.Maybe[int]     `json:"weight"`
	Color  maybe.Maybe[string]  `json:"color"`
	Italic bool                 `json:"italic"`
}

// Sides are per-side lengths of margins and paddings.
type Sides struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// Corners are border radii: top-left, top-right, bottom-right, bottom-left.
type Corners [4]float64

// Shape classifies images.
type Shape string

// Shapes of images.
const (
	Rectangle Shape = "rectangle"
	Circle    Shape = "circle"
)

// Filter names, as used in Filters.
const (
	Invert     = "invert"
	Brightness = "brightness"
	Contrast   = "contrast"
	Saturate   = "saturate"
	HueRotate  = "hueRotate"
	Blur       = "blur"
	Grayscale  = "grayscale"
	Sepia      = "sepia"
	Opacity    = "opacity"
)

// Filters is a sparse map of CSS filter functions to their numeric argument.
type Filters map[string]float64

// Record is the attribute record of one visual element.
type Record struct {
	Tag          string                  `json:"tagName"`
	ID           string                  `json:"id,omitempty"`
	Class        string                  `json:"className,omitempty"`
	Text         maybe.Maybe[string]     `json:"innerText"`
	Opacity      maybe.Maybe[float64]    `json:"opacity"`
	Background   maybe.Maybe[Background] `json:"background"`
	Border       maybe.Maybe[Border]     `json:"border"`
	Shadow       maybe.Maybe[Shadow]     `json:"shadow"`
	Font         maybe.Maybe[Font]       `json:"font"`
	Position     Position                `json:"position"`
	Margin       maybe.Maybe[Sides]      `json:"margin"`
	Padding      maybe.Maybe[Sides]      `json:"padding"`
	ZIndex       int                     `json:"zIndex"`
	TextAlign    maybe.Maybe[string]     `json:"textAlign"`
	LineHeight   maybe.Maybe[float64]    `json:"lineHeight"`
	BorderRadius maybe.Maybe[Corners]    `json:"borderRadius"`
	ImageSrc     maybe.Maybe[string]     `json:"imageSrc"`
	ObjectFit    maybe.Maybe[string]     `json:"objectFit"`
	Shape        maybe.Maybe[Shape]      `json:"shape"`
	TextWrap     bool                    `json:"textWrap"`
	Filters      maybe.Maybe[Filters]    `json:"filters"`
	Markup       bool                    `json:"markup,omitempty"`
	Rasterize    bool                    `json:"shouldScreenshot"`
	Depth        int                     `json:"-"` // recursion depth below the slide root
	Element      dom.Element             `json:"-"` // rendered element, kept for rasterization
}

// BackgroundColor returns the background color, if any.
func (r *Record) BackgroundColor() (string, bool) {
	if bg, ok := r.Background.Get(); ok && bg.Color != "" {
		return bg.Color, true
	}
	return "", false
}

// HasText is true for records with non-blank text. Text is plain text,
// unless Markup is set: then it is the inner HTML of a paragraph with
// inline formatting only.
func (r *Record) HasText() bool {
	t, ok := r.Text.Get()
	return ok && strings.TrimSpace(t) != ""
}

// HasVisualProperties is true for records with a background, a border
// color, a shadow color or text.
func (r *Record) HasVisualProperties() bool {
	if _, ok := r.BackgroundColor(); ok {
		return true
	}
	if b, ok := r.Border.Get(); ok && b.Color.WithDefault("") != "" {
		return true
	}
	if s, ok := r.Shadow.Get(); ok && s.Color != "" {
		return true
	}
	return r.HasText()
}

// HasSpecialContent is true for images, vector graphics, canvases and
// tables.
func (r *Record) HasSpecialContent() bool {
	if src, ok := r.ImageSrc.Get(); ok && src != "" {
		return true
	}
	return IsRasterTag(r.Tag)
}

// IsRasterTag is true for elements which are captured as images instead
// of being decomposed.
func IsRasterTag(tag string) bool {
	return tag == "svg" || tag == "canvas" || tag == "table"
}

// SlideResult is the outcome of extracting one slide.
type SlideResult struct {
	Elements        []Record            `json:"elements"`
	BackgroundColor maybe.Maybe[string] `json:"backgroundColor"`
	SpeakerNote     string              `json:"speakerNote"`
}
