package browser

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/cuishuai123/presenton/dom"
	"github.com/cuishuai123/presenton/dom/style"
	"github.com/cuishuai123/presenton/surface"
)

//go:embed presenton.js
var script string

// Page is a browser tab. It implements surface.Surface.
type Page struct {
	ctx    context.Context // tab context
	cancel context.CancelFunc
	keys   string // JSON list of computed style keys
}

var _ surface.Surface = (*Page)(nil)

// Close closes the tab.
func (p *Page) Close() {
	p.cancel()
}

// call evaluates a method of the injected script. args are JSON-encoded.
func (p *Page) call(ctx context.Context, res interface{}, method string, args ...interface{}) error {
	expr := script + "\nwindow.__presenton." + method + "("
	for i, a := range args {
		enc, err := json.Marshal(a)
		if err != nil {
			return err
		}
		if i > 0 {
			expr += ", "
		}
		expr += string(enc)
	}
	expr += ");"
	return p.run(ctx, chromedp.Evaluate(expr, res))
}

// run executes actions on the tab, bounded by ctx.
func (p *Page) run(ctx context.Context, actions ...chromedp.Action) error {
	tctx, cancel := context.WithCancel(p.ctx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()
	err := chromedp.Run(tctx, actions...)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

// Location is part of interface surface.Surface.
func (p *Page) Location(ctx context.Context) (surface.Location, error) {
	var loc surface.Location
	err := p.run(ctx, chromedp.Location(&loc.URL), chromedp.Title(&loc.Title))
	return loc, err
}

// Count is part of interface surface.Surface.
func (p *Page) Count(ctx context.Context, selector string) (int, error) {
	var n int
	if err := p.call(ctx, &n, "count", selector); err != nil {
		return 0, fmt.Errorf("counting %q: %w", selector, err)
	}
	return n, nil
}

// Query is part of interface surface.Surface.
func (p *Page) Query(ctx context.Context, selector string) ([]dom.Element, error) {
	var raw string
	if err := p.call(ctx, &raw, "snapshot", selector, json.RawMessage(p.keys)); err != nil {
		return nil, fmt.Errorf("querying %q: %w", selector, err)
	}
	nodes, err := dom.DecodeSnapshots([]byte(raw))
	if err != nil {
		return nil, err
	}
	elems := make([]dom.Element, len(nodes))
	for i, n := range nodes {
		elems[i] = n
	}
	tracer().Debugf("query %q matched %d elements", selector, len(elems))
	return elems, nil
}

// restorer undoes the overrides remembered under token.
func (p *Page) restorer(token int) surface.Restore {
	return func(ctx context.Context) error {
		var n int
		if err := p.call(ctx, &n, "restore", token); err != nil {
			return err
		}
		tracer().Debugf("restored %d style overrides", n)
		return nil
	}
}

// Isolate is part of interface surface.Surface.
func (p *Page) Isolate(ctx context.Context, target dom.Element) (surface.Restore, error) {
	var token int
	if err := p.call(ctx, &token, "isolate", target.Handle()); err != nil {
		return nil, fmt.Errorf("isolating %s: %w", target.Handle(), err)
	}
	return p.restorer(token), nil
}

// ShowOnly is part of interface surface.Surface.
func (p *Page) ShowOnly(ctx context.Context, slides []dom.Element, current int) (surface.Restore, error) {
	if current < 0 || current >= len(slides) {
		return nil, fmt.Errorf("slide %d out of range [0,%d)", current, len(slides))
	}
	handles := make([]string, len(slides))
	for i, s := range slides {
		handles[i] = s.Handle()
	}
	var token int
	if err := p.call(ctx, &token, "showOnly", handles, current); err != nil {
		return nil, fmt.Errorf("showing slide %d: %w", current+1, err)
	}
	return p.restorer(token), nil
}

// Capture is part of interface surface.Surface.
func (p *Page) Capture(ctx context.Context, clip dom.Rect) ([]byte, error) {
	var shot []byte
	err := p.run(ctx, chromedp.ActionFunc(func(ctx context.Context) (err error) {
		shot, err = page.CaptureScreenshot().
			WithFormat(page.CaptureScreenshotFormatPng).
			WithCaptureBeyondViewport(true).
			WithClip(&page.Viewport{X: clip.X, Y: clip.Y, Width: clip.Width, Height: clip.Height, Scale: 1}).
			Do(ctx)
		return err
	}))
	if err != nil {
		return nil, fmt.Errorf("capturing %s: %w", clip, err)
	}
	return shot, nil
}

// FontsReady is part of interface surface.Surface.
func (p *Page) FontsReady(ctx context.Context) (bool, error) {
	var ok bool
	err := p.call(ctx, &ok, "fontsReady")
	return ok, err
}

// ImagesLoaded is part of interface surface.Surface.
func (p *Page) ImagesLoaded(ctx context.Context, scope dom.Element) (bool, error) {
	h := ""
	if scope != nil {
		h = scope.Handle()
	}
	var ok bool
	err := p.call(ctx, &ok, "imagesLoaded", h)
	return ok, err
}

func styleKeys() string {
	enc, _ := json.Marshal(style.ComputedKeys)
	return string(enc)
}
