/*
Package server exposes export jobs over HTTP.

Routes:

	GET  /api/presentation_to_pptx_model?id=&method=   presentation model
	GET  /api/presentation_to_pptx_model_direct?id=    model from backend data only
	POST /api/export-as-pdf                            {"id", "title"} → PDF file
	GET  /api/exports?limit=                           recent export jobs
	GET  /api/export-progress?job=                     websocket of progress events

Failures are answered with {"kind", "detail"}: status 400 for failures
the caller can correct, 500 for everything else.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2026 The presenton authors
*/
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/cuishuai123/presenton/export"
	"github.com/cuishuai123/presenton/ledger"
	"github.com/cuishuai123/presenton/pptx"
	"github.com/gorilla/mux"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'presenton.server'.
func tracer() tracing.Trace {
	return tracing.Select("presenton.server")
}

// Exporter runs export jobs.
type Exporter interface {
	PPTXModel(ctx context.Context, id, method string) (pptx.Presentation, error)
	PDF(ctx context.Context, id, title string) (export.PDFResult, error)
}

// History lists past export jobs.
type History interface {
	Recent(ctx context.Context, limit int) ([]ledger.Entry, error)
}

// Server routes export requests.
type Server struct {
	exports Exporter
	history History
	hub     *Hub
	router  *mux.Router
}

// New creates a server. history and hub may be nil, which disables their
// routes.
func New(exports Exporter, history History, hub *Hub) *Server {
	s := &Server{exports: exports, history: history, hub: hub, router: mux.NewRouter()}
	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/presentation_to_pptx_model", s.pptxModel).Methods(http.MethodGet)
	api.HandleFunc("/presentation_to_pptx_model_direct", s.pptxModelDirect).Methods(http.MethodGet)
	api.HandleFunc("/export-as-pdf", s.exportPDF).Methods(http.MethodPost)
	if history != nil {
		api.HandleFunc("/exports", s.recent).Methods(http.MethodGet)
	}
	if hub != nil {
		api.Handle("/export-progress", hub).Methods(http.MethodGet)
	}
	s.router.Use(logRequests)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		tracer().Debugf("%s %s took %s", r.Method, r.URL.Path, time.Since(start))
	})
}

// GET /api/presentation_to_pptx_model?id=&method=
func (s *Server) pptxModel(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	model, err := s.exports.PPTXModel(r.Context(), q.Get("id"), q.Get("method"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, model)
}

// GET /api/presentation_to_pptx_model_direct?id=
func (s *Server) pptxModelDirect(w http.ResponseWriter, r *http.Request) {
	model, err := s.exports.PPTXModel(r.Context(), r.URL.Query().Get("id"), export.MethodDirect)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, model)
}

// PDFRequest is the body of a PDF export request.
type PDFRequest struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// POST /api/export-as-pdf
func (s *Server) exportPDF(w http.ResponseWriter, r *http.Request) {
	var req PDFRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, &export.Error{Kind: export.KindInput, Detail: "Invalid JSON body", Err: err})
		return
	}
	res, err := s.exports.PDF(r.Context(), req.ID, req.Title)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// GET /api/exports?limit=
func (s *Server) recent(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if l := r.URL.Query().Get("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n < 1 || n > 1000 {
			writeError(w, &export.Error{Kind: export.KindInput, Detail: "limit must be a number in [1,1000]"})
			return
		}
		limit = n
	}
	entries, err := s.history.Recent(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// ErrorBody is the body of failed requests.
type ErrorBody struct {
	Kind   export.Kind `json:"kind"`
	Detail string      `json:"detail"`
}

func writeError(w http.ResponseWriter, err error) {
	var e *export.Error
	if !errors.As(err, &e) {
		e = &export.Error{Kind: export.KindInternal, Detail: err.Error(), Err: err}
	}
	if e.CallerError() {
		tracer().Infof("rejected request: %v", err)
		writeJSON(w, http.StatusBadRequest, ErrorBody{Kind: e.Kind, Detail: e.Detail})
		return
	}
	tracer().Errorf("request failed: %+v", err)
	writeJSON(w, http.StatusInternalServerError, ErrorBody{
		Kind:   e.Kind,
		Detail: "Internal server error: " + e.Detail,
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		tracer().Errorf("writing response: %v", err)
	}
}
