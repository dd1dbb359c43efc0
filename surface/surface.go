/*
Package surface defines the rendering surface slide pages are extracted from.

A surface is a rendered page: either a live browser tab (package browser)
or the static engine of package dom/static. Visibility mutations on a
surface are global state of the page, therefore every mutation is done
under a RenderLock, which guarantees the page is restored after use.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2026 The presenton authors
*/
package surface

import (
	"context"

	"github.com/cuishuai123/presenton/dom"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'presenton.surface'.
func tracer() tracing.Trace {
	return tracing.Select("presenton.surface")
}

// Location identifies the document a surface currently shows.
type Location struct {
	URL   string
	Title string
}

// Restore undoes a visibility mutation. Restore functions must be safe to
// call with a context which is not cancelled, even if the job is.
type Restore func(ctx context.Context) error

// Surface is a rendered page.
type Surface interface {
	// Location returns the current URL and document title.
	Location(ctx context.Context) (Location, error)
	// Count returns the number of elements matching a CSS selector.
	Count(ctx context.Context, selector string) (int, error)
	// Query returns snapshots of all elements matching a CSS selector, in
	// document order, each with its complete subtree.
	Query(ctx context.Context, selector string) ([]dom.Element, error)
	// Isolate sets opacity 0 on every element except target, its ancestors
	// and its descendants.
	Isolate(ctx context.Context, target dom.Element) (Restore, error)
	// ShowOnly hides all slides but slides[current], which is shown at the
	// coordinate origin at full opacity.
	ShowOnly(ctx context.Context, slides []dom.Element, current int) (Restore, error)
	// Capture takes a PNG screenshot of a clip rectangle of the viewport.
	Capture(ctx context.Context, clip dom.Rect) ([]byte, error)
	// FontsReady reports if web fonts have finished loading.
	FontsReady(ctx context.Context) (bool, error)
	// ImagesLoaded reports if all images within scope have loaded.
	ImagesLoaded(ctx context.Context, scope dom.Element) (bool, error)
}

// Mutation changes the visibility state of a surface and returns how to
// undo it.
type Mutation func(ctx context.Context) (Restore, error)
