/*
Package harvest locates the slides of a rendered presentation and their
speaker notes.

A presentation page renders its slides into a wrapper element. Each
direct child of the wrapper is a layer holding one or more slide roots.
Speaker notes travel as an attribute on the layer or on the slide itself.

Before slides are located, the harvester waits for the wrapper to appear
and then for its content to finish loading. A page showing loading
skeletons is still loading. A page showing an error display has finished
rendering, but with an error.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2026 The presenton authors
*/
package harvest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cuishuai123/presenton/await"
	"github.com/cuishuai123/presenton/dom"
	"github.com/cuishuai123/presenton/surface"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'presenton.harvest'.
func tracer() tracing.Trace {
	return tracing.Select("presenton.harvest")
}

// Selectors of the rendered presentation page.
const (
	Container        = "#presentation-slides-wrapper"
	NoteAttr         = "data-speaker-note"
	SkeletonSelector = ".animate-pulse, .bg-gray-400, [class*='skeleton']"
	ErrorSelector    = `.text-red-700, [role="alert"], .error-message`
)

// Policy bounds the waits of a harvester.
type Policy struct {
	ContainerBudget   time.Duration // for the wrapper to appear
	ContainerInterval time.Duration
	ContentBudget     time.Duration // for the wrapper's content to load
	ContentInterval   time.Duration
}

// DefaultPolicy waits 30s for the container and 60s for its content,
// polling every 2s.
func DefaultPolicy() Policy {
	return Policy{
		ContainerBudget:   30 * time.Second,
		ContainerInterval: 250 * time.Millisecond,
		ContentBudget:     60 * time.Second,
		ContentInterval:   2 * time.Second,
	}
}

// Harvest is the result of locating slides.
type Harvest struct {
	Slides       []dom.Element
	SpeakerNotes []string // one per slide, empty if a slide has none
}

// NotFoundError is returned if the slides container does not appear or
// does not receive content in time.
type NotFoundError struct {
	Location surface.Location
	Reason   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("Presentation slides not found. Page URL: %s, Title: %s. %s",
		e.Location.URL, e.Location.Title, e.Reason)
}

// LoadError is returned if the page displays an error instead of slides.
type LoadError struct {
	Content bool // the container rendered, its content did not
	Text    string
}

func (e *LoadError) Error() string {
	if e.Content {
		return "Failed to load presentation content: " + e.Text
	}
	return "Failed to load presentation: " + e.Text
}

// Harvester locates slides on a surface.
type Harvester struct {
	surface surface.Surface
	policy  Policy
}

// New creates a harvester for a surface.
func New(s surface.Surface, policy Policy) *Harvester {
	return &Harvester{surface: s, policy: policy}
}

// Wait blocks until the slides container has appeared and its content has
// loaded. A content timeout is tolerated as long as the container has
// children.
func (h *Harvester) Wait(ctx context.Context) error {
	out, err := await.WithBudget(ctx, h.policy.ContainerBudget, h.policy.ContainerInterval,
		func(ctx context.Context) (bool, error) {
			n, err := h.surface.Count(ctx, Container)
			return n > 0, err
		})
	if err != nil {
		return err
	}
	if out == await.TimedOut {
		if text, ok := h.errorText(ctx); ok {
			return &LoadError{Text: text}
		}
		return h.notFound(ctx, "Container did not appear within timeout.")
	}
	tracer().Debugf("found %s", Container)
	out, err = await.WithBudget(ctx, h.policy.ContentBudget, h.policy.ContentInterval, h.contentLoaded)
	if err != nil {
		return err
	}
	if out == await.Ready {
		tracer().Infof("content loaded in %s", Container)
		return nil
	}
	hasContent, err := h.hasChildren(ctx)
	if err != nil {
		return err
	}
	if text, ok := h.errorText(ctx); ok {
		if !hasContent {
			return &LoadError{Content: true, Text: text}
		}
		tracer().Errorf("page shows error %q but has content, continuing", text)
	}
	if !hasContent {
		return h.notFound(ctx, "Content did not load within timeout.")
	}
	tracer().Errorf("content loading timed out, but %s has children, continuing", Container)
	return nil
}

// contentLoaded is true as soon as slides carry speaker notes. Otherwise
// content has loaded when the container has children and shows no loading
// skeletons.
func (h *Harvester) contentLoaded(ctx context.Context) (bool, error) {
	n, err := h.surface.Count(ctx, Container+" ["+NoteAttr+"]")
	if err != nil || n > 0 {
		return n > 0, err
	}
	if n, err = h.surface.Count(ctx, skeletons()); err != nil || n > 0 {
		return false, err
	}
	return h.hasChildren(ctx)
}

func skeletons() string {
	sels := strings.Split(SkeletonSelector, ",")
	for i, s := range sels {
		sels[i] = Container + " " + strings.TrimSpace(s)
	}
	return strings.Join(sels, ", ")
}

func (h *Harvester) hasChildren(ctx context.Context) (bool, error) {
	n, err := h.surface.Count(ctx, Container+" > *")
	return n > 0, err
}

// errorText returns the text of the page's error display, if there is one.
func (h *Harvester) errorText(ctx context.Context) (string, bool) {
	elems, err := h.surface.Query(ctx, ErrorSelector)
	if err != nil || len(elems) == 0 {
		return "", false
	}
	text := strings.TrimSpace(elems[0].InnerText())
	if text == "" {
		text = "Unknown error"
	}
	return text, true
}

func (h *Harvester) notFound(ctx context.Context, reason string) error {
	loc, err := h.surface.Location(context.WithoutCancel(ctx))
	if err != nil {
		tracer().Errorf("cannot read page location: %v", err)
	}
	tracer().P("url", loc.URL).Errorf("slides container not found: %s", reason)
	return &NotFoundError{Location: loc, Reason: reason}
}

// Locate waits for the presentation to load and returns its slide roots
// in document order, with their speaker notes.
func (h *Harvester) Locate(ctx context.Context) (Harvest, error) {
	if err := h.Wait(ctx); err != nil {
		return Harvest{}, err
	}
	layers, err := h.surface.Query(ctx, Container+" > div")
	if err != nil {
		return Harvest{}, fmt.Errorf("querying slides: %w", err)
	}
	var hv Harvest
	for _, layer := range layers {
		layerNote, hasLayerNote := layer.Attr(NoteAttr)
		for _, slide := range layer.Children() {
			if slide.TagName() != "div" {
				continue
			}
			note, ok := noteOf(slide)
			if !ok && hasLayerNote {
				note = layerNote
			}
			hv.Slides = append(hv.Slides, slide)
			hv.SpeakerNotes = append(hv.SpeakerNotes, note)
		}
	}
	tracer().Infof("located %d slides", len(hv.Slides))
	return hv, nil
}

// noteOf returns the speaker note on a slide root or on its first
// descendant carrying one.
func noteOf(slide dom.Element) (string, bool) {
	var note string
	found := false
	_ = dom.Walk(slide, func(e dom.Element, _ int) error {
		if found {
			return nil
		}
		note, found = e.Attr(NoteAttr)
		return nil
	})
	return note, found
}
