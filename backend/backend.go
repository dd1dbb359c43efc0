/*
Package backend is a client for the presentation data API.

The API serves a presentation as JSON:

	{ "id": ..., "title": ..., "slides": [ { "index": 0, "content": {...}, "speaker_note": ... } ] }

Slide content is kept as raw JSON, preserving the order of its keys.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2026 The presenton authors
*/
package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'presenton.backend'.
func tracer() tracing.Trace {
	return tracing.Select("presenton.backend")
}

// ErrNoSlides is returned for presentations without slides.
var ErrNoSlides = errors.New("Presentation has no slides")

// StatusError is returned if the API answers with a non-2xx status.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend responded %d: %s", e.Status, e.Body)
}

// Presentation as served by the API.
type Presentation struct {
	ID     string  `json:"id"`
	Title  string  `json:"title,omitempty"`
	Slides []Slide `json:"slides"`
}

type Slide struct {
	ID          string          `json:"id,omitempty"`
	Index       int             `json:"index"`
	Layout      string          `json:"layout,omitempty"`
	Content     json.RawMessage `json:"content"`
	SpeakerNote string          `json:"speaker_note,omitempty"`
}

// Name is the presentation's title, or a name derived from its id.
func (p *Presentation) Name() string {
	if t := strings.TrimSpace(p.Title); t != "" {
		return t
	}
	return "Presentation " + p.ID
}

// Client fetches presentations.
type Client struct {
	base string
	http *http.Client
}

// New creates a client for the API at base, e.g. "http://localhost:8000".
// If hc is nil, a client with a 30 second timeout is used.
func New(base string, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{base: strings.TrimRight(base, "/"), http: hc}
}

// Presentation fetches a presentation by id. Non-2xx responses are
// returned as *StatusError, presentations without slides as ErrNoSlides.
func (c *Client) Presentation(ctx context.Context, id string) (*Presentation, error) {
	u := c.base + "/api/v1/ppt/presentation/" + url.PathEscape(id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	tracer().P("id", id).Debugf("GET %s", u)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching presentation %s: %w", id, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<20))
	if err != nil {
		return nil, fmt.Errorf("reading presentation %s: %w", id, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		tracer().P("id", id).Errorf("backend responded %d", resp.StatusCode)
		return nil, &StatusError{Status: resp.StatusCode, Body: string(body)}
	}
	p := &Presentation{}
	if err := json.Unmarshal(body, p); err != nil {
		return nil, fmt.Errorf("decoding presentation %s: %w", id, err)
	}
	if p.ID == "" {
		p.ID = id
	}
	if len(p.Slides) == 0 {
		return p, ErrNoSlides
	}
	tracer().P("id", id).Infof("presentation has %d slides", len(p.Slides))
	return p, nil
}
