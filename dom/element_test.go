package dom_test

import (
	"strings"
	"testing"

	"github.com/cuishuai123/presenton/dom"
	"github.com/cuishuai123/presenton/tree"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

const snapshotJSON = `[{
  "handle": "1", "tag": "DIV", "id": "slide", "class": "slide dark",
  "rect": {"x": 0, "y": 0, "width": 1280, "height": 720},
  "style": {"background-color": "rgb(255, 255, 255)", "font-family": "'Open Sans', Arial"},
  "children": [
    {"handle": "2", "tag": "p", "text": "Hello world", "html": "Hello <em>world</em>",
     "attrs": {"data-speaker-note": "say hi"},
     "rect": {"x": 10, "y": 20, "width": 300, "height": 40},
     "metrics": {"offsetHeight": 40, "clientHeight": 40, "scrollHeight": 40}},
    {"handle": "3", "tag": "img", "src": "http://x/a.png",
     "rect": {"x": 400, "y": 20, "width": 100, "height": 100}}
  ]
}]`

func TestDecodeSnapshots(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "presenton.dom")
	defer teardown()
	//
	nodes, err := dom.DecodeSnapshots([]byte(snapshotJSON))
	if err != nil {
		t.Fatal(err)
	}
	if len(nodes) != 1 {
		t.Fatalf("expected 1 root, have %d", len(nodes))
	}
	root := nodes[0]
	if root.TagName() != "div" {
		t.Errorf("expected tag to be lower-cased, is %q", root.TagName())
	}
	if root.Style("font-family") != "'Open Sans', Arial" {
		t.Errorf("unexpected font family %q", root.Style("font-family"))
	}
	chs := root.Children()
	if len(chs) != 2 {
		t.Fatalf("expected 2 children, have %d", len(chs))
	}
	if note, ok := chs[0].Attr("data-speaker-note"); !ok || note != "say hi" {
		t.Errorf("expected speaker note attribute, have %q", note)
	}
	if chs[1].Src() != "http://x/a.png" || chs[1].Rect().Right() != 500 {
		t.Errorf("unexpected img snapshot %v", chs[1])
	}
	if cls, _ := root.Attr("class"); cls != "slide dark" {
		t.Errorf("expected class attribute, have %q", cls)
	}
}

func TestPredicatesAndWalk(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "presenton.dom")
	defer teardown()
	//
	nodes, _ := dom.DecodeSnapshots([]byte(snapshotJSON))
	root := nodes[0]
	imgs := tree.Select(&root.Node, dom.NodeIsTag("img", "svg"))
	if len(imgs) != 1 || imgs[0].Payload.Handle() != "3" {
		t.Errorf("expected to select the img, have %v", imgs)
	}
	notes := tree.Select(&root.Node, dom.NodeHasAttr("data-speaker-note"))
	if len(notes) != 1 {
		t.Errorf("expected 1 note carrier, have %d", len(notes))
	}
	var handles []string
	err := dom.Walk(root, func(e dom.Element, depth int) error {
		handles = append(handles, e.Handle())
		return nil
	})
	if err != nil || strings.Join(handles, ",") != "1,2,3" {
		t.Errorf("expected document order 1,2,3, have %v (%v)", handles, err)
	}
}

func TestDump(t *testing.T) {
	nodes, _ := dom.DecodeSnapshots([]byte(snapshotJSON))
	out := dom.Dump(nodes[0])
	t.Logf("\n%s", out)
	if !strings.Contains(out, "div#slide.slide.dark") || !strings.Contains(out, `"Hello world"`) {
		t.Errorf("unexpected dump:\n%s", out)
	}
}
