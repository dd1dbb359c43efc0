/*
Package paginate prints the slides of a rendered presentation into one
PDF document.

Slides are printed one at a time. For every slide, all other slides are
hidden under the surface's render lock, fonts and images get a bounded
time to load, and a canonical-size capture of the slide becomes one PDF
page. Loading timeouts are logged and printing proceeds. Pages are merged
in order; if merging fails the document degrades to its first page.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2026 The presenton authors
*/
package paginate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cuishuai123/presenton/await"
	"github.com/cuishuai123/presenton/dom"
	"github.com/cuishuai123/presenton/harvest"
	"github.com/cuishuai123/presenton/surface"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'presenton.paginate'.
func tracer() tracing.Trace {
	return tracing.Select("presenton.paginate")
}

// Policy configures printing.
type Policy struct {
	Width, Height float64       // capture size in CSS pixels
	Page          PageSize      // PDF page size in points
	FontBudget    time.Duration // wait for web fonts
	ImageBudget   time.Duration // wait for images of a slide
	SettleBudget  time.Duration // overall wait per slide
	Interval      time.Duration // polling interval of waits
	MinSlideSize  float64       // slides must be larger in both dimensions
}

// DefaultPolicy prints 1280×720 captures on 960×540 pt pages.
func DefaultPolicy() Policy {
	return Policy{
		Width:        1280,
		Height:       720,
		Page:         PageSize{Width: 960, Height: 540},
		FontBudget:   2 * time.Second,
		ImageBudget:  3 * time.Second,
		SettleBudget: 5 * time.Second,
		Interval:     100 * time.Millisecond,
		MinSlideSize: 100,
	}
}

// Progress is told about every printed slide.
type Progress func(slide, total int)

// Paginator prints slides of a surface.
type Paginator struct {
	surface surface.Surface
	lock    *surface.RenderLock
	merger  Merger
	policy  Policy
}

// New creates a paginator. lock must be the surface's render lock.
func New(s surface.Surface, lock *surface.RenderLock, merger Merger, policy Policy) *Paginator {
	return &Paginator{surface: s, lock: lock, merger: merger, policy: policy}
}

// Slides selects the slides to print: direct children of the slides
// container carrying speaker notes, else any such descendant, else
// fallback. Slides without content or not larger than the minimum size
// are left out.
func (p *Paginator) Slides(ctx context.Context, fallback []dom.Element) ([]dom.Element, error) {
	candidates := []string{
		harvest.Container + " > div[" + harvest.NoteAttr + "]",
		harvest.Container + " div[" + harvest.NoteAttr + "]",
	}
	var slides []dom.Element
	for _, sel := range candidates {
		found, err := p.surface.Query(ctx, sel)
		if err != nil {
			return nil, err
		}
		if len(found) > 0 {
			tracer().Debugf("%d slides match %q", len(found), sel)
			slides = found
			break
		}
	}
	if len(slides) == 0 {
		slides = fallback
	}
	var valid []dom.Element
	for i, s := range slides {
		r := s.Rect()
		hasContent := len(s.Children()) > 0 || strings.TrimSpace(s.InnerText()) != ""
		if hasContent && r.Width > p.policy.MinSlideSize && r.Height > p.policy.MinSlideSize {
			valid = append(valid, s)
			continue
		}
		tracer().P("slide", i).Debugf("skipping slide without content or extent, %s", r)
	}
	return valid, nil
}

// Print captures one PDF page per slide, in order.
func (p *Paginator) Print(ctx context.Context, slides []dom.Element, progress Progress) ([][]byte, error) {
	pages := make([][]byte, 0, len(slides))
	for i := range slides {
		page, err := p.printSlide(ctx, slides, i)
		if err != nil {
			return nil, fmt.Errorf("printing slide %d: %w", i+1, err)
		}
		pages = append(pages, page)
		tracer().P("slide", i+1).Infof("printed slide %d of %d", i+1, len(slides))
		if progress != nil {
			progress(i+1, len(slides))
		}
	}
	return pages, nil
}

// Paginate selects, prints and assembles slides into one document.
func (p *Paginator) Paginate(ctx context.Context, fallback []dom.Element, progress Progress) (Document, error) {
	slides, err := p.Slides(ctx, fallback)
	if err != nil {
		return Document{}, err
	}
	if len(slides) == 0 {
		return Document{}, fmt.Errorf("no printable slides: %w", ErrNoPages)
	}
	pages, err := p.Print(ctx, slides, progress)
	if err != nil {
		return Document{}, err
	}
	return Assemble(pages, p.merger)
}

func (p *Paginator) printSlide(ctx context.Context, slides []dom.Element, current int) ([]byte, error) {
	var capture []byte
	show := func(ctx context.Context) (surface.Restore, error) {
		return p.surface.ShowOnly(ctx, slides, current)
	}
	err := p.lock.Hold(ctx, show, func(ctx context.Context) error {
		if err := p.settle(ctx, slides[current], current); err != nil {
			return err
		}
		rect, err := p.locate(ctx, slides[current])
		if err != nil {
			return err
		}
		clip := dom.Rect{X: rect.X, Y: rect.Y, Width: p.policy.Width, Height: p.policy.Height}
		capture, err = p.surface.Capture(ctx, clip)
		return err
	})
	if err != nil {
		return nil, err
	}
	return RenderPage(capture, p.policy.Page)
}

// settle waits for images and fonts, proceeding when budgets are spent.
func (p *Paginator) settle(ctx context.Context, slide dom.Element, current int) error {
	sctx, cancel := context.WithTimeout(ctx, p.policy.SettleBudget)
	defer cancel()
	out, err := await.WithBudget(sctx, p.policy.ImageBudget, p.policy.Interval,
		func(ctx context.Context) (bool, error) {
			return p.surface.ImagesLoaded(ctx, slide)
		})
	if err = proceed(ctx, "images", current, out, err); err != nil {
		return err
	}
	out, err = await.WithBudget(sctx, p.policy.FontBudget, p.policy.Interval, p.surface.FontsReady)
	return proceed(ctx, "fonts", current, out, err)
}

// proceed decides on the outcome of a wait. Cancellation of the job is
// fatal. A spent budget or a failing check is logged and printing goes on.
func proceed(ctx context.Context, what string, current int, out await.Outcome, err error) error {
	switch {
	case ctx.Err() != nil:
		return ctx.Err()
	case err != nil:
		tracer().P("slide", current+1).Errorf("waiting for %s: %v, printing anyway", what, err)
	case out != await.Ready:
		tracer().P("slide", current+1).Errorf("%s did not load in time, printing anyway", what)
	}
	return nil
}

// locate re-reads the box of the shown slide.
func (p *Paginator) locate(ctx context.Context, slide dom.Element) (dom.Rect, error) {
	sel := fmt.Sprintf(`[%s="%s"]`, dom.HandleAttr, slide.Handle())
	found, err := p.surface.Query(ctx, sel)
	if err != nil {
		return dom.Rect{}, err
	}
	if len(found) == 0 {
		return dom.Rect{}, fmt.Errorf("slide %s vanished from the page", slide.Handle())
	}
	r := found[0].Rect()
	if r.Empty() {
		return dom.Rect{}, fmt.Errorf("slide %s has no visible box: %s", slide.Handle(), r)
	}
	return r, nil
}
