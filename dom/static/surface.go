package static

import (
	"context"
	"fmt"
	"sync"

	"github.com/andybalholm/cascadia"
	"github.com/cuishuai123/presenton/dom"
	"github.com/cuishuai123/presenton/surface"
	"golang.org/x/net/html"
)

var _ surface.Surface = &Document{}

// Location returns the configured URL and the document title.
func (d *Document) Location(ctx context.Context) (surface.Location, error) {
	return surface.Location{URL: d.url, Title: d.title}, ctx.Err()
}

func (d *Document) match(selector string) ([]*html.Node, error) {
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("selector %q: %w", selector, err)
	}
	return sel.MatchAll(d.root), nil
}

// Count returns the number of elements matching selector.
func (d *Document) Count(ctx context.Context, selector string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	nodes, err := d.match(selector)
	return len(nodes), err
}

// Query returns snapshots of all elements matching selector.
func (d *Document) Query(ctx context.Context, selector string) ([]dom.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	nodes, err := d.match(selector)
	if err != nil {
		return nil, err
	}
	boxes := d.layout()
	elems := make([]dom.Element, 0, len(nodes))
	for _, n := range nodes {
		elems = append(elems, dom.FromSnapshot(d.snapshot(n, boxes)))
	}
	tracer().Debugf("static query %q matched %d elements", selector, len(elems))
	return elems, nil
}

// Isolate sets opacity 0 on every element which is neither target nor one
// of its ancestors or descendants.
func (d *Document) Isolate(ctx context.Context, target dom.Element) (surface.Restore, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	t, err := d.nodeFor(target)
	if err != nil {
		return nil, err
	}
	var undo []func()
	for _, h := range d.handles {
		if h == t || isAncestor(h, t) || isAncestor(t, h) {
			continue
		}
		undo = append(undo, d.setOverride(h, "opacity", "0"))
	}
	return d.restorer(undo), nil
}

// ShowOnly hides every slide but slides[current] with display:none and
// shows the current one in flow at full opacity.
func (d *Document) ShowOnly(ctx context.Context, slides []dom.Element, current int) (surface.Restore, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if current < 0 || current >= len(slides) {
		return nil, fmt.Errorf("slide %d out of range [0,%d)", current, len(slides))
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	var undo []func()
	for i, s := range slides {
		h, err := d.nodeFor(s)
		if err != nil {
			undoAll(undo)
			return nil, err
		}
		if i != current {
			undo = append(undo, d.setOverride(h, "display", "none"))
			continue
		}
		for _, kv := range [][2]string{
			{"display", "block"}, {"visibility", "visible"}, {"opacity", "1"},
			{"position", "relative"}, {"top", "0"}, {"left", "0"},
		} {
			undo = append(undo, d.setOverride(h, kv[0], kv[1]))
		}
	}
	return d.restorer(undo), nil
}

// restorer undoes overrides in reverse order, once.
func (d *Document) restorer(undo []func()) surface.Restore {
	var once sync.Once
	return func(context.Context) error {
		once.Do(func() {
			d.mu.Lock()
			defer d.mu.Unlock()
			undoAll(undo)
		})
		return nil
	}
}

func undoAll(undo []func()) {
	for i := len(undo) - 1; i >= 0; i-- {
		undo[i]()
	}
}

// Capture paints the document and returns the clip as PNG.
func (d *Document) Capture(ctx context.Context, clip dom.Rect) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	canvas := d.paint(d.layout())
	return crop(canvas, clip)
}

// FontsReady consults the configured check, if any.
func (d *Document) FontsReady(ctx context.Context) (bool, error) {
	if d.fonts == nil {
		return true, ctx.Err()
	}
	return d.fonts(ctx)
}

// ImagesLoaded consults the configured check, if any.
func (d *Document) ImagesLoaded(ctx context.Context, scope dom.Element) (bool, error) {
	if d.images == nil {
		return true, ctx.Err()
	}
	return d.images(ctx, scope)
}
