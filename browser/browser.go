/*
Package browser implements rendering surfaces on headless Chrome.

A Browser is one Chrome process, driven by chromedp. Every export opens a
Page, a browser tab showing the presentation in the front-end's print
view. Page implements surface.Surface: elements are read by an injected
script which serializes them as dom.Snapshot values, visibility changes
are inline-style overrides which the script remembers for restoring, and
captures are CDP screenshots of a clip rectangle.

Navigation is locked to the print view. Every document request of the
tab which does not target the print view is failed, and navigation is
retried if the tab ends up somewhere else.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2026 The presenton authors
*/
package browser

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/chromedp/chromedp"
	"github.com/cuishuai123/presenton/surface"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'presenton.browser'.
func tracer() tracing.Trace {
	return tracing.Select("presenton.browser")
}

// PrintPath is the path of the front-end's print view.
const PrintPath = "/pdf-maker"

// Options configure the browser process.
type Options struct {
	ExecPath string // Chrome executable, empty for auto-detection
	Width    int    // window and viewport size in CSS pixels
	Height   int
	Retries  int // navigation attempts
}

// DefaultOptions is a 1280×720 window, navigating up to 3 times.
func DefaultOptions() Options {
	return Options{Width: 1280, Height: 720, Retries: 3}
}

// Browser is a running headless Chrome.
type Browser struct {
	opts        Options
	ctx         context.Context // browser context, parent of tabs
	cancel      context.CancelFunc
	cancelAlloc context.CancelFunc
}

// Launch starts Chrome. The browser lives until Close is called or ctx
// is cancelled.
func Launch(ctx context.Context, opts Options) (*Browser, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = 1280, 720
	}
	if opts.Retries < 1 {
		opts.Retries = 1
	}
	flags := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.WindowSize(opts.Width, opts.Height),
		chromedp.NoSandbox,
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-gpu", true),
	)
	if opts.ExecPath != "" {
		flags = append(flags, chromedp.ExecPath(opts.ExecPath))
	}
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, flags...)
	bctx, cancel := chromedp.NewContext(allocCtx)
	// the first Run starts the browser process
	if err := chromedp.Run(bctx); err != nil {
		cancel()
		cancelAlloc()
		return nil, fmt.Errorf("launching browser: %w", err)
	}
	tracer().Infof("browser launched, window %dx%d", opts.Width, opts.Height)
	return &Browser{opts: opts, ctx: bctx, cancel: cancel, cancelAlloc: cancelAlloc}, nil
}

// Close terminates the browser process.
func (b *Browser) Close() {
	b.cancel()
	b.cancelAlloc()
	tracer().Infof("browser closed")
}

// TargetURL is the print view of a presentation.
func TargetURL(base, id string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("front-end URL %q: %w", base, err)
	}
	u = u.JoinPath(PrintPath)
	q := url.Values{}
	q.Set("id", id)
	q.Set("stream", "true")
	q.Set("disableRedirect", "1")
	q.Set("userCode", "export")
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Allowed tells if the tab may navigate to a document URL.
func Allowed(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	switch u.Scheme {
	case "about", "data":
		return true
	case "http", "https":
		return strings.HasSuffix(u.Path, PrintPath)
	}
	return false
}

// Tabs opens print views on a browser for the front-end at Base.
type Tabs struct {
	Browser *Browser
	Base    string
}

// Open opens a tab for presentation id. The returned func closes it.
func (t Tabs) Open(ctx context.Context, id string) (surface.Surface, func(), error) {
	p, err := t.Browser.Open(ctx, t.Base, id)
	if err != nil {
		return nil, nil, err
	}
	return p, p.Close, nil
}
