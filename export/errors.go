package export

import (
	"context"
	"errors"
	"fmt"

	"github.com/cuishuai123/presenton/backend"
	"github.com/cuishuai123/presenton/browser"
	"github.com/cuishuai123/presenton/harvest"
	"github.com/cuishuai123/presenton/paginate"
)

// Kind classifies export failures.
type Kind string

// Kinds of export failures.
const (
	KindInput      Kind = "input"      // the caller can correct it
	KindTimeout    Kind = "timeout"    // the page did not render in time
	KindNavigation Kind = "navigation" // the tab could not reach the print view
	KindRaster     Kind = "raster"     // an element could not be captured
	KindAssembly   Kind = "assembly"   // no document could be assembled
	KindInternal   Kind = "internal"
)

// Error is a failed export.
type Error struct {
	Kind   Kind
	Detail string
	Err    error
}

func (e *Error) Error() string {
	if e.Err == nil || e.Err.Error() == e.Detail {
		return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Detail, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// CallerError is true for failures the caller can correct: invalid
// input and pages without slides.
func (e *Error) CallerError() bool {
	var nf *harvest.NotFoundError
	return e.Kind == KindInput || errors.As(e.Err, &nf)
}

func inputError(detail string, err error) *Error {
	return &Error{Kind: KindInput, Detail: detail, Err: err}
}

// rasterError marks a failed element capture.
type rasterError struct {
	err error
}

func (r rasterError) Error() string { return r.err.Error() }
func (r rasterError) Unwrap() error { return r.err }

// rejected is true if the backend refused to serve a presentation.
func rejected(err error) bool {
	var status *backend.StatusError
	return errors.Is(err, backend.ErrNoSlides) || errors.As(err, &status)
}

// classify wraps err into an *Error, unless it already is one.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	var status *backend.StatusError
	var notFound *harvest.NotFoundError
	var load *harvest.LoadError
	var raster rasterError
	switch {
	case errors.Is(err, backend.ErrNoSlides):
		return inputError(backend.ErrNoSlides.Error(), err)
	case errors.As(err, &status):
		return inputError(fmt.Sprintf("Failed to fetch presentation: %d %s", status.Status, status.Body), err)
	case errors.As(err, &notFound):
		return &Error{Kind: KindTimeout, Detail: notFound.Error(), Err: err}
	case errors.As(err, &load):
		return &Error{Kind: KindTimeout, Detail: load.Error(), Err: err}
	case errors.Is(err, context.DeadlineExceeded):
		return &Error{Kind: KindTimeout, Detail: "export timed out", Err: err}
	case errors.Is(err, browser.ErrNavigation):
		return &Error{Kind: KindNavigation, Detail: err.Error(), Err: err}
	case errors.As(err, &raster):
		return &Error{Kind: KindRaster, Detail: err.Error(), Err: err}
	case errors.Is(err, paginate.ErrNoPages):
		return &Error{Kind: KindAssembly, Detail: err.Error(), Err: err}
	}
	return &Error{Kind: KindInternal, Detail: err.Error(), Err: err}
}
