/*
Package export runs export jobs: presentation models for PPTX files and
PDF documents.

A job opens its own rendering surface for the presentation, with its own
render lock and its own directory for raster assets, and tears it down
when done. Concurrent requests for the same export share one job.

Failures are returned as *Error, carrying a Kind. Every job reports
progress events to an optional Sink and is recorded in an optional
ledger.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2026 The presenton authors
*/
package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cuishuai123/presenton/aggregate"
	"github.com/cuishuai123/presenton/attrs"
	"github.com/cuishuai123/presenton/backend"
	"github.com/cuishuai123/presenton/config"
	"github.com/cuishuai123/presenton/convert"
	"github.com/cuishuai123/presenton/harvest"
	"github.com/cuishuai123/presenton/ledger"
	"github.com/cuishuai123/presenton/maybe"
	"github.com/cuishuai123/presenton/paginate"
	"github.com/cuishuai123/presenton/pptx"
	"github.com/cuishuai123/presenton/raster"
	"github.com/cuishuai123/presenton/resolve"
	"github.com/cuishuai123/presenton/surface"
	"github.com/google/uuid"
	"github.com/k1LoW/errors"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/sync/singleflight"
)

// tracer traces with key 'presenton.export'.
func tracer() tracing.Trace {
	return tracing.Select("presenton.export")
}

// Export methods for presentation models.
const (
	MethodBrowser = "browser" // extract from the rendered slides
	MethodDirect  = "direct"  // text boxes from the backend's slide content
)

// Opener opens rendering surfaces showing a presentation. The returned
// func releases the surface.
type Opener interface {
	Open(ctx context.Context, id string) (surface.Surface, func(), error)
}

// Backend fetches presentations.
type Backend interface {
	Presentation(ctx context.Context, id string) (*backend.Presentation, error)
}

// Ledger records jobs.
type Ledger interface {
	Record(ctx context.Context, id, presentation, kind string, started time.Time) error
	Finish(ctx context.Context, id string, out ledger.Outcome, finished time.Time) error
}

// PDFResult describes a written PDF document.
type PDFResult struct {
	Success  bool   `json:"success"`
	Path     string `json:"path"`
	Pages    int    `json:"pages"`
	Slides   int    `json:"slides"`
	Degraded bool   `json:"degraded"`
}

// Service runs export jobs.
type Service struct {
	cfg      config.Config
	backend  Backend
	surfaces Opener
	ledger   Ledger
	sink     Sink
	merger   paginate.Merger
	jobs     singleflight.Group
}

// Option configures a Service.
type Option func(*Service)

// WithLedger records jobs in l.
func WithLedger(l Ledger) Option {
	return func(s *Service) { s.ledger = l }
}

// WithSink reports progress of jobs to sink.
func WithSink(sink Sink) Option {
	return func(s *Service) { s.sink = sink }
}

// WithMerger merges PDF pages with m instead of pdfcpu.
func WithMerger(m paginate.Merger) Option {
	return func(s *Service) { s.merger = m }
}

// New creates an export service.
func New(cfg config.Config, api Backend, surfaces Opener, opts ...Option) *Service {
	s := &Service{cfg: cfg, backend: api, surfaces: surfaces, merger: paginate.PDFCPU{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// job is one export run.
type job struct {
	id           string
	kind         string
	presentation string
	started      time.Time
	svc          *Service
}

func (s *Service) start(ctx context.Context, kind, presentation string) *job {
	j := &job{id: uuid.NewString(), kind: kind, presentation: presentation, started: time.Now(), svc: s}
	if s.ledger != nil {
		if err := s.ledger.Record(ctx, j.id, presentation, kind, j.started); err != nil {
			tracer().Errorf("ledger: %v", err)
		}
	}
	j.emit(Event{Stage: Started})
	return j
}

func (j *job) emit(ev Event) {
	if j.svc.sink == nil {
		return
	}
	ev.Job, ev.Kind, ev.Presentation, ev.Time = j.id, j.kind, j.presentation, time.Now()
	j.svc.sink.Publish(ev)
}

func (j *job) finish(ctx context.Context, out ledger.Outcome) {
	if out.Err != nil {
		j.emit(Event{Stage: Failed, Detail: out.Err.Error()})
		tracer().P("job", j.id).Errorf("%s export of %s failed: %v", j.kind, j.presentation, out.Err)
	} else {
		j.emit(Event{Stage: Finished, Slides: out.Slides, Detail: out.Path})
		tracer().P("job", j.id).Infof("%s export of %s done in %s", j.kind, j.presentation, time.Since(j.started))
	}
	if j.svc.ledger != nil {
		if err := j.svc.ledger.Finish(context.WithoutCancel(ctx), j.id, out, time.Now()); err != nil {
			tracer().Errorf("ledger: %v", err)
		}
	}
}

// PPTXModel exports the presentation model of presentation id. method is
// MethodBrowser (default) or MethodDirect.
func (s *Service) PPTXModel(ctx context.Context, id, method string) (model pptx.Presentation, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	id = strings.TrimSpace(id)
	if id == "" {
		return pptx.Presentation{}, inputError("Missing Presentation ID", nil)
	}
	switch method {
	case "", MethodBrowser, MethodDirect:
	default:
		return pptx.Presentation{}, inputError(fmt.Sprintf("Unknown export method %q", method), nil)
	}
	v, err, shared := s.jobs.Do("pptx|"+method+"|"+id, func() (interface{}, error) {
		j := s.start(ctx, "pptx", id)
		var m pptx.Presentation
		var err error
		if method == MethodDirect {
			m, err = s.direct(ctx, id)
		} else {
			m, err = s.extract(ctx, j, id)
		}
		err = classify(err)
		j.finish(ctx, ledger.Outcome{Slides: len(m.Slides), Err: err})
		return m, err
	})
	if shared {
		tracer().Debugf("pptx export of %s shared", id)
	}
	if err != nil {
		return pptx.Presentation{}, err
	}
	return v.(pptx.Presentation), nil
}

func (s *Service) direct(ctx context.Context, id string) (pptx.Presentation, error) {
	p, err := s.backend.Presentation(ctx, id)
	if err != nil {
		return pptx.Presentation{}, err
	}
	return convert.Direct(p)
}

// extract renders the presentation and converts its slides.
func (s *Service) extract(ctx context.Context, j *job, id string) (pptx.Presentation, error) {
	name := "Presentation " + id
	p, err := s.backend.Presentation(ctx, id)
	switch {
	case err == nil:
		name = p.Name()
	case rejected(err):
		return pptx.Presentation{}, err
	case ctx.Err() != nil:
		return pptx.Presentation{}, ctx.Err()
	default:
		tracer().P("presentation", id).Errorf("pre-check failed, rendering anyway: %v", err)
	}
	surf, release, err := s.surfaces.Open(ctx, id)
	if err != nil {
		return pptx.Presentation{}, err
	}
	defer release()
	hv, err := harvest.New(surf, s.cfg.Harvest).Locate(ctx)
	if err != nil {
		return pptx.Presentation{}, err
	}
	if len(hv.Slides) == 0 {
		return pptx.Presentation{}, &harvest.NotFoundError{Reason: "No slides found in the container."}
	}
	j.emit(Event{Stage: SlidesFound, Total: len(hv.Slides)})
	lock := &surface.RenderLock{}
	dir := filepath.Join(s.cfg.TempDir, "screenshots", j.id)
	rasterizer := raster.New(surf, lock, dir)
	agg := aggregate.New(resolve.New(s.cfg.Resolve), s.cfg.Aggregate)
	results := make([]attrs.SlideResult, 0, len(hv.Slides))
	for i, slide := range hv.Slides {
		res, err := agg.Aggregate(ctx, slide)
		if err != nil {
			return pptx.Presentation{}, fmt.Errorf("slide %d: %w", i+1, err)
		}
		for k := range res.Elements {
			rec := &res.Elements[k]
			if !rec.Rasterize {
				continue
			}
			path, err := rasterizer.Rasterize(ctx, *rec)
			if err != nil {
				return pptx.Presentation{}, rasterError{fmt.Errorf("slide %d: %w", i+1, err)}
			}
			asImage(rec, path)
		}
		res.SpeakerNote = hv.SpeakerNotes[i]
		results = append(results, res)
		j.emit(Event{Stage: SlideDone, Slide: i + 1, Total: len(hv.Slides)})
	}
	return convert.Convert(name, results), nil
}

// asImage turns a rasterized record into an image of its capture.
func asImage(rec *attrs.Record, path string) {
	rec.ImageSrc = maybe.Just(path)
	rec.ObjectFit = maybe.Just("cover")
	rec.Text = maybe.Nothing[string]()
	rec.Markup = false
	rec.Rasterize = false
	rec.Element = nil
}

// PDF exports presentation id as a PDF document named after title.
func (s *Service) PDF(ctx context.Context, id, title string) (result PDFResult, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	id = strings.TrimSpace(id)
	if id == "" {
		return PDFResult{}, inputError("Missing Presentation ID", nil)
	}
	title = SanitizeTitle(title)
	v, err, _ := s.jobs.Do("pdf|"+id+"|"+title, func() (interface{}, error) {
		j := s.start(ctx, "pdf", id)
		res, err := s.print(ctx, j, id, title)
		err = classify(err)
		j.finish(ctx, ledger.Outcome{
			Path: res.Path, Slides: res.Slides, Pages: res.Pages, Degraded: res.Degraded, Err: err,
		})
		return res, err
	})
	if err != nil {
		return PDFResult{}, err
	}
	return v.(PDFResult), nil
}

func (s *Service) print(ctx context.Context, j *job, id, title string) (PDFResult, error) {
	dir := s.cfg.ExportDir()
	if dir == "" {
		return PDFResult{}, fmt.Errorf("%s is not set", config.DataDir)
	}
	surf, release, err := s.surfaces.Open(ctx, id)
	if err != nil {
		return PDFResult{}, err
	}
	defer release()
	hv, err := harvest.New(surf, s.cfg.Harvest).Locate(ctx)
	if err != nil {
		return PDFResult{}, err
	}
	pg := paginate.New(surf, &surface.RenderLock{}, s.merger, s.cfg.Paginate)
	slides, err := pg.Slides(ctx, hv.Slides)
	if err != nil {
		return PDFResult{}, err
	}
	if len(slides) == 0 {
		return PDFResult{}, fmt.Errorf("no printable slides: %w", paginate.ErrNoPages)
	}
	j.emit(Event{Stage: SlidesFound, Total: len(slides)})
	pages, err := pg.Print(ctx, slides, func(slide, total int) {
		j.emit(Event{Stage: SlideDone, Slide: slide, Total: total})
	})
	if err != nil {
		return PDFResult{}, err
	}
	doc, err := paginate.Assemble(pages, s.merger)
	if err != nil {
		return PDFResult{}, err
	}
	if doc.Degraded {
		j.emit(Event{Stage: Degraded, Slides: doc.Slides, Detail: fmt.Sprintf("%d of %d pages", doc.Pages, doc.Slides)})
	} else {
		j.emit(Event{Stage: Merged, Slides: doc.Slides})
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return PDFResult{}, fmt.Errorf("creating export directory: %w", err)
	}
	path := filepath.Join(dir, title+".pdf")
	if err := os.WriteFile(path, doc.PDF, 0o644); err != nil {
		return PDFResult{}, fmt.Errorf("writing %s: %w", path, err)
	}
	tracer().P("presentation", id).Infof("wrote %d pages to %s", doc.Pages, path)
	return PDFResult{Success: true, Path: path, Pages: doc.Pages, Slides: doc.Slides, Degraded: doc.Degraded}, nil
}

// SanitizeTitle makes a file name of a document title: characters other
// than letters, digits, space, dot, underscore and hyphen are replaced by
// '_', the result is trimmed and capped at 200 characters.
func SanitizeTitle(title string) string {
	var b strings.Builder
	for _, r := range title {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == ' ', r == '.', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	s := strings.TrimSpace(b.String())
	if len(s) > 200 {
		s = strings.TrimSpace(s[:200])
	}
	if s == "" || strings.Trim(s, ".") == "" {
		return "presentation"
	}
	return s
}
