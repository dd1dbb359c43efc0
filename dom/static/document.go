/*
Package static implements a rendering surface for HTML documents without
a browser.

The static engine styles a document with the CSSOM of package
dom/style/cssom, lays out boxes with a small subset of CSS layout (block
flow, rows for flex containers and table rows, relative, absolute and
fixed positioning) and paints backgrounds, borders and images. Text is
measured with average glyph widths and not painted.

It serves tests of the extraction pipeline and offline inspection of
pre-rendered slide markup.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2026 The presenton authors
*/
package static

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/cuishuai123/presenton/dom"
	"github.com/cuishuai123/presenton/dom/style"
	"github.com/cuishuai123/presenton/dom/style/cssom"
	"github.com/cuishuai123/presenton/dom/style/cssom/douceuradapter"
	"github.com/cuishuai123/presenton/dom/styledtree"
	"github.com/cuishuai123/presenton/tree"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// tracer traces with key 'presenton.dom'.
func tracer() tracing.Trace {
	return tracing.Select("presenton.dom")
}

// Document is a styled and laid out HTML document. It implements
// surface.Surface. All methods are safe for concurrent use.
type Document struct {
	mu        sync.Mutex
	root      *html.Node
	styled    map[*html.Node]*styledtree.StyNode
	handles   map[string]*html.Node
	overrides map[*html.Node]map[string]string
	boxes     map[*html.Node]*box
	dirty     bool
	url       string
	title     string
	viewportW float64
	viewportH float64
	fonts     func(ctx context.Context) (bool, error)
	images    func(ctx context.Context, scope dom.Element) (bool, error)
}

// Option configures a Document.
type Option func(*Document)

// WithURL sets the URL the document reports as its location.
func WithURL(u string) Option {
	return func(d *Document) { d.url = u }
}

// WithViewport sets the viewport size in CSS pixels (default 1280×720).
func WithViewport(w, h float64) Option {
	return func(d *Document) { d.viewportW, d.viewportH = w, h }
}

// WithFontsReady installs a check for web font readiness. Without it,
// fonts are always ready.
func WithFontsReady(f func(ctx context.Context) (bool, error)) Option {
	return func(d *Document) { d.fonts = f }
}

// WithImagesLoaded installs a check for image loading. Without it,
// images are always loaded.
func WithImagesLoaded(f func(ctx context.Context, scope dom.Element) (bool, error)) Option {
	return func(d *Document) { d.images = f }
}

// Parse reads an HTML document, styles it and lays it out.
func Parse(r io.Reader, opts ...Option) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	d := &Document{
		root:      root,
		styled:    make(map[*html.Node]*styledtree.StyNode),
		handles:   make(map[string]*html.Node),
		overrides: make(map[*html.Node]map[string]string),
		url:       "about:blank",
		viewportW: 1280,
		viewportH: 720,
		dirty:     true,
	}
	for _, opt := range opts {
		opt(d)
	}
	c := cssom.NewCSSOM(douceuradapter.ParseInline)
	for _, sheet := range douceuradapter.ExtractStyleElements(root) {
		c.AddStylesFor(sheet)
	}
	styledRoot, err := c.Style(root)
	if err != nil {
		return nil, fmt.Errorf("styling document: %w", err)
	}
	serial := 0
	_ = tree.Walk(styledRoot, func(n *tree.Node[*styledtree.StyNode], _ int) error {
		sn := n.Payload
		h := sn.HTMLNode()
		d.styled[h] = sn
		if h.Type == html.ElementNode {
			serial++
			handle := strconv.Itoa(serial)
			h.Attr = append(h.Attr, html.Attribute{Key: dom.HandleAttr, Val: handle})
			d.handles[handle] = h
			if h.DataAtom == atom.Title && h.FirstChild != nil {
				d.title = strings.TrimSpace(h.FirstChild.Data)
			}
		}
		return nil
	})
	tracer().Debugf("static document with %d elements and %d rules", serial, c.RuleCount())
	return d, nil
}

// style returns the computed value of a property, respecting overrides
// set by visibility mutations.
func (d *Document) style(h *html.Node, key string) style.Property {
	if o, ok := d.overrides[h][key]; ok {
		return style.Property(o)
	}
	if sn := d.styled[h]; sn != nil {
		return sn.Computed(key)
	}
	return style.InitialValue(key)
}

// setOverride sets an override and returns a function restoring the
// previous state of this key. Must be called with d.mu held.
func (d *Document) setOverride(h *html.Node, key, value string) func() {
	m := d.overrides[h]
	if m == nil {
		m = make(map[string]string)
		d.overrides[h] = m
	}
	prev, had := m[key]
	m[key] = value
	d.dirty = true
	return func() {
		if had {
			d.overrides[h][key] = prev
		} else {
			delete(d.overrides[h], key)
		}
		d.dirty = true
	}
}

func (d *Document) nodeFor(e dom.Element) (*html.Node, error) {
	if e == nil {
		return nil, fmt.Errorf("no element given")
	}
	h, ok := d.handles[e.Handle()]
	if !ok {
		return nil, fmt.Errorf("element %q not found in document", e.Handle())
	}
	return h, nil
}

func attr(h *html.Node, key string) (string, bool) {
	for _, a := range h.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func elementChildren(h *html.Node) []*html.Node {
	var chs []*html.Node
	for ch := h.FirstChild; ch != nil; ch = ch.NextSibling {
		if ch.Type == html.ElementNode {
			chs = append(chs, ch)
		}
	}
	return chs
}

func isAncestor(a, n *html.Node) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if p == a {
			return true
		}
	}
	return false
}
