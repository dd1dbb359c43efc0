package backend_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cuishuai123/presenton/backend"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func api(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/ppt/presentation/p1", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"p1","slides":[{"index":1,"content":{"b":"x","a":"y"}},{"index":0,"content":{}}]}`))
	})
	mux.HandleFunc("/api/v1/ppt/presentation/empty", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"empty","title":"Empty","slides":[]}`))
	})
	mux.HandleFunc("/api/v1/ppt/presentation/gone", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such presentation", http.StatusNotFound)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchPresentation(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "presenton.backend")
	defer teardown()
	//
	srv := api(t)
	c := backend.New(srv.URL+"/", nil)
	p, err := c.Presentation(context.Background(), "p1")
	require.NoError(t, err)
	require.Len(t, p.Slides, 2)
	assert.Equal(t, "Presentation p1", p.Name())
	assert.JSONEq(t, `{"b":"x","a":"y"}`, string(p.Slides[0].Content))
	assert.Equal(t, `{"b":"x","a":"y"}`, string(p.Slides[0].Content), "content keeps its key order")
}

func TestFetchFailures(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "presenton.backend")
	defer teardown()
	//
	srv := api(t)
	c := backend.New(srv.URL, nil)
	p, err := c.Presentation(context.Background(), "empty")
	assert.ErrorIs(t, err, backend.ErrNoSlides)
	assert.Equal(t, "Empty", p.Name())
	//
	_, err = c.Presentation(context.Background(), "gone")
	var se *backend.StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusNotFound, se.Status)
	assert.Contains(t, se.Body, "no such presentation")
}
