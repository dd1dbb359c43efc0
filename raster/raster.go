/*
Package raster captures slide elements which cannot be decomposed into
shapes (vector graphics, canvases, tables) as PNG images.

Vector graphics are rendered from their markup. Canvases and tables are
photographed on the rendering surface: every other element is made
transparent for the capture, under the surface's render lock, and the
page is restored afterwards.

Every capture is written to a new file with a random name in the
rasterizer's directory. Files are never reused.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2026 The presenton authors
*/
package raster

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"sync"

	"github.com/cuishuai123/presenton/attrs"
	"github.com/cuishuai123/presenton/dom"
	"github.com/cuishuai123/presenton/surface"
	"github.com/google/uuid"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/image/draw"
)

// tracer traces with key 'presenton.raster'.
func tracer() tracing.Trace {
	return tracing.Select("presenton.raster")
}

// Rasterizer writes element captures to a directory.
type Rasterizer struct {
	surface  surface.Surface
	lock     *surface.RenderLock
	dir      string
	mu       sync.Mutex
	inflight map[string]bool // handles of elements being captured
}

// New creates a rasterizer for a surface. lock must be the surface's
// render lock.
func New(s surface.Surface, lock *surface.RenderLock, dir string) *Rasterizer {
	return &Rasterizer{
		surface:  s,
		lock:     lock,
		dir:      dir,
		inflight: make(map[string]bool),
	}
}

// Dir is the directory captures are written to.
func (r *Rasterizer) Dir() string {
	return r.dir
}

// Rasterize captures the element of a record flagged for rasterization at
// the record's canonical size and returns the path of the PNG file.
func (r *Rasterizer) Rasterize(ctx context.Context, rec attrs.Record) (string, error) {
	e := rec.Element
	if e == nil {
		return "", fmt.Errorf("rasterizing <%s>: record has no element", rec.Tag)
	}
	if err := r.acquire(e.Handle()); err != nil {
		return "", err
	}
	defer r.release(e.Handle())
	w := int(math.Max(1, math.Round(rec.Position.Width)))
	h := int(math.Max(1, math.Round(rec.Position.Height)))
	var img image.Image
	var err error
	if rec.Tag == "svg" {
		img, err = RenderSVG(e.OuterHTML(), e.Style("color").String(), w, h)
	} else {
		img, err = r.capture(ctx, e, w, h)
	}
	if err != nil {
		return "", fmt.Errorf("rasterizing <%s>: %w", rec.Tag, err)
	}
	path, err := r.write(img)
	if err != nil {
		return "", fmt.Errorf("rasterizing <%s>: %w", rec.Tag, err)
	}
	tracer().P("tag", rec.Tag).Debugf("captured %dx%d to %s", w, h, path)
	return path, nil
}

func (r *Rasterizer) acquire(handle string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.inflight[handle] {
		return fmt.Errorf("element %q is already being rasterized", handle)
	}
	r.inflight[handle] = true
	return nil
}

func (r *Rasterizer) release(handle string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.inflight, handle)
}

// capture photographs e with every unrelated element made transparent.
func (r *Rasterizer) capture(ctx context.Context, e dom.Element, w, h int) (image.Image, error) {
	var shot []byte
	isolate := func(ctx context.Context) (surface.Restore, error) {
		return r.surface.Isolate(ctx, e)
	}
	err := r.lock.Hold(ctx, isolate, func(ctx context.Context) error {
		var err error
		shot, err = r.surface.Capture(ctx, e.Rect())
		return err
	})
	if err != nil {
		return nil, err
	}
	img, err := png.Decode(bytes.NewReader(shot))
	if err != nil {
		return nil, fmt.Errorf("decoding capture: %w", err)
	}
	return fit(img, w, h), nil
}

// fit scales img to w×h.
func fit(img image.Image, w, h int) image.Image {
	b := img.Bounds()
	if b.Dx() == w && b.Dy() == h {
		return img
	}
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// write encodes img to a new file. A file which could not be written
// completely is removed.
func (r *Rasterizer) write(img image.Image) (string, error) {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(r.dir, uuid.NewString()+".png")
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", err
	}
	err = png.Encode(f, img)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}
