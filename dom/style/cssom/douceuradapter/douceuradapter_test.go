package douceuradapter_test

import (
	"testing"

	"github.com/cuishuai123/presenton/dom/style"
	"github.com/cuishuai123/presenton/dom/style/cssom/douceuradapter"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestInlineStyleWithoutTrailingSemicolon(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "presenton.dom")
	defer teardown()
	//
	for _, c := range []struct {
		decl  string
		key   string
		value style.Property
	}{
		{"color: red", "color", "red"},
		{"border-radius: 10px 5px", "border-radius", "10px 5px"},
		{"position:relative;width:1280px;height:720px", "height", "720px"},
		{"position:relative;width:1280px;height:720px;", "height", "720px"},
		{"  margin: 0 auto ; ", "margin", "0 auto"},
	} {
		rule, err := douceuradapter.ParseInline(c.decl)
		if err != nil {
			t.Fatalf("cannot parse %q: %v", c.decl, err)
		}
		if v := rule.Value(c.key); v != c.value {
			t.Errorf("style %q: expected %s = %q, have %q", c.decl, c.key, c.value, v)
		}
	}
}

func TestInlineImportance(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "presenton.dom")
	defer teardown()
	//
	rule, err := douceuradapter.ParseInline("opacity: 0.5; color: blue !important")
	if err != nil {
		t.Fatal(err)
	}
	if !rule.IsImportant("color") || rule.IsImportant("opacity") {
		t.Errorf("expected only color to be important, properties are %v", rule.Properties())
	}
	if rule.Value("color") != "blue" {
		t.Errorf("expected color blue, have %q", rule.Value("color"))
	}
	if r, err := douceuradapter.ParseInline(""); err != nil || len(r.Properties()) != 0 {
		t.Errorf("expected empty style to have no properties, have %v (%v)", r, err)
	}
}
