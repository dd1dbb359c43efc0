package browser

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/fetch"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/cuishuai123/presenton/await"
)

// ErrNavigation is returned if the tab cannot be brought to the print
// view.
var ErrNavigation = errors.New("navigation to print view failed")

// seedScript runs before any script of a document.
const seedScript = `try { localStorage.setItem("userCode", "export"); } catch (e) {}`

// Open opens a tab showing the print view of presentation id, served by
// the front-end at base.
func (b *Browser) Open(ctx context.Context, base, id string) (*Page, error) {
	target, err := TargetURL(base, id)
	if err != nil {
		return nil, err
	}
	tctx, cancel := chromedp.NewContext(b.ctx)
	p := &Page{ctx: tctx, cancel: cancel, keys: styleKeys()}
	guard(tctx)
	err = p.run(ctx,
		chromedp.EmulateViewport(int64(b.opts.Width), int64(b.opts.Height)),
		fetch.Enable().WithPatterns([]*fetch.RequestPattern{{
			URLPattern:   "*",
			ResourceType: network.ResourceTypeDocument,
			RequestStage: fetch.RequestStageRequest,
		}}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			_, err := page.AddScriptToEvaluateOnNewDocument(seedScript).Do(ctx)
			return err
		}),
	)
	if err != nil {
		p.Close()
		return nil, fmt.Errorf("preparing tab: %w", err)
	}
	err = Navigate(ctx, b.opts.Retries, func(ctx context.Context) (string, error) {
		var loc string
		if err := p.run(ctx, chromedp.Navigate(target), chromedp.Location(&loc)); err != nil {
			return loc, err
		}
		return loc, p.documentReady(ctx)
	})
	if err != nil {
		p.Close()
		return nil, err
	}
	tracer().P("presentation", id).Infof("tab shows %s", target)
	return p, nil
}

// guard fails every document request of a tab which leaves the print view.
func guard(tctx context.Context) {
	chromedp.ListenTarget(tctx, func(ev interface{}) {
		paused, ok := ev.(*fetch.EventRequestPaused)
		if !ok {
			return
		}
		go func() {
			c := chromedp.FromContext(tctx)
			ectx := cdp.WithExecutor(tctx, c.Target)
			var err error
			if Allowed(paused.Request.URL) {
				err = fetch.ContinueRequest(paused.RequestID).Do(ectx)
			} else {
				tracer().Errorf("blocked navigation to %s", paused.Request.URL)
				err = fetch.FailRequest(paused.RequestID, network.ErrorReasonBlockedByClient).Do(ectx)
			}
			if err != nil && tctx.Err() == nil {
				tracer().Errorf("intercepting %s: %v", paused.Request.URL, err)
			}
		}()
	})
}

// documentReady waits for the document to finish loading.
func (p *Page) documentReady(ctx context.Context) error {
	out, err := await.WithBudget(ctx, 10*time.Second, 100*time.Millisecond,
		func(ctx context.Context) (bool, error) {
			var state string
			if err := p.call(ctx, &state, "readyState"); err != nil {
				return false, err
			}
			return state == "complete", nil
		})
	if err != nil {
		return err
	}
	if out != await.Ready {
		tracer().Errorf("document still loading, proceeding")
	}
	return nil
}

// Navigate makes up to attempts calls of navigate, until it lands on the
// print view. navigate returns the location of the tab after navigating.
func Navigate(ctx context.Context, attempts int, navigate func(context.Context) (string, error)) error {
	var last error
	for i := 1; i <= attempts; i++ {
		loc, err := navigate(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		switch {
		case err != nil:
			last = err
		case !onPrintView(loc):
			last = fmt.Errorf("tab is at %s", loc)
		default:
			if i > 1 {
				tracer().Infof("print view reached on attempt %d", i)
			}
			return nil
		}
		tracer().P("attempt", i).Errorf("navigation failed: %v", last)
	}
	return fmt.Errorf("%w after %d attempts: %v", ErrNavigation, attempts, last)
}

func onPrintView(loc string) bool {
	u, err := url.Parse(loc)
	return err == nil && strings.HasSuffix(u.Path, PrintPath)
}
