package raster

import (
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestFailedEncodingLeavesNoFile(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "presenton.raster")
	defer teardown()
	//
	dir := filepath.Join(t.TempDir(), "shots")
	r := New(nil, nil, dir)
	if _, err := r.write(image.NewNRGBA(image.Rect(0, 0, 0, 0))); err == nil {
		t.Fatalf("expected encoding of an empty image to fail")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no files in %s, have %d", dir, len(entries))
	}
	path, err := r.write(image.NewNRGBA(image.Rect(0, 0, 2, 2)))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected capture at %s: %v", path, err)
	}
}
