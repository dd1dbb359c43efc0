package style

import (
	"image/color"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestSplitCompoundMargin(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "presenton.dom")
	defer teardown()
	//
	kvs, err := SplitCompoundProperty("margin", "1px 2px 3px")
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]Property{
		"margin-top": "1px", "margin-right": "2px", "margin-bottom": "3px", "margin-left": "2px",
	}
	for _, kv := range kvs {
		if want[kv.Key] != kv.Value {
			t.Errorf("expected %s = %s, is %s", kv.Key, want[kv.Key], kv.Value)
		}
	}
}

func TestSplitCompoundRadiusCorners(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "presenton.dom")
	defer teardown()
	//
	kvs, err := SplitCompoundProperty("border-radius", "4px 8px / 2px")
	if err != nil {
		t.Fatal(err)
	}
	if kvs[0].Key != "border-top-left-radius" || kvs[2].Key != "border-bottom-right-radius" {
		t.Errorf("unexpected corner order: %v", kvs)
	}
	if kvs[1].Value != "8px" || kvs[3].Value != "8px" || kvs[2].Value != "4px" {
		t.Errorf("unexpected radius values: %v", kvs)
	}
}

func TestSplitBorderShorthand(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "presenton.dom")
	defer teardown()
	//
	kvs, err := SplitCompoundProperty("border", "2px solid rgb(255, 0, 0)")
	if err != nil {
		t.Fatal(err)
	}
	if len(kvs) != 12 {
		t.Fatalf("expected 12 longhands, have %d", len(kvs))
	}
	pmap := NewPropertyMap()
	for _, kv := range kvs {
		pmap.Add(kv.Key, kv.Value)
	}
	if pmap.GetPropertyValue("border-left-color") != "rgb(255, 0, 0)" {
		t.Errorf("expected color to survive splitting, is %q", pmap.GetPropertyValue("border-left-color"))
	}
	if pmap.GetPropertyValue("border-top-width") != "2px" {
		t.Errorf("expected width 2px")
	}
}

func TestSplitBackgroundShorthand(t *testing.T) {
	kvs, _ := SplitCompoundProperty("background", "#fff url(Images/Bg.png) no-repeat")
	if kvs[0].Value != "#fff" || kvs[1].Value != "url(Images/Bg.png)" {
		t.Errorf("unexpected background split %v", kvs)
	}
}

func TestPropertyValuesKeepCase(t *testing.T) {
	var pmap PropertyMap
	pmap.Add("font-family", "'Open Sans', Arial")
	if pmap.GetPropertyValue("font-family") != "'Open Sans', Arial" {
		t.Errorf("expected font family to keep its case, is %q", pmap.GetPropertyValue("font-family"))
	}
	if pmap.Size() != 1 {
		t.Errorf("expected 1 group, have %d", pmap.Size())
	}
}

func TestFieldsKeepsParens(t *testing.T) {
	f := Fields("0px 4px 6px rgba(0, 0, 0, 0.1)")
	if len(f) != 4 || f[3] != "rgba(0, 0, 0, 0.1)" {
		t.Errorf("unexpected fields %q", f)
	}
	parts := SplitTopLevel("0 1px red, inset 0 0 2px rgba(1, 2, 3, 0.5)", ',')
	if len(parts) != 2 {
		t.Errorf("expected 2 top-level parts, have %q", parts)
	}
}

func TestColors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "presenton.dom")
	defer teardown()
	//
	cases := []struct {
		in  Property
		out color.NRGBA
		ok  bool
	}{
		{"#f00", color.NRGBA{255, 0, 0, 255}, true},
		{"#00ff0080", color.NRGBA{0, 255, 0, 128}, true},
		{"rgb(10, 20, 30)", color.NRGBA{10, 20, 30, 255}, true},
		{"rgba(0, 0, 0, 0)", color.NRGBA{0, 0, 0, 0}, true},
		{"rgb(10 20 30 / 50%)", color.NRGBA{10, 20, 30, 128}, true},
		{"hsl(120, 100%, 50%)", color.NRGBA{0, 255, 0, 255}, true},
		{"RebeccaPurple", color.NRGBA{0x66, 0x33, 0x99, 255}, true},
		{"transparent", color.NRGBA{}, true},
		{"currentcolor", color.NRGBA{}, false},
		{"solid", color.NRGBA{}, false},
	}
	for _, c := range cases {
		col, ok := c.in.Color()
		if ok != c.ok || col != c.out {
			t.Errorf("%s: expected %v/%v, have %v/%v", c.in, c.out, c.ok, col, ok)
		}
	}
	if HexString(color.NRGBA{0xab, 0x01, 0xff, 0}) != "AB01FF" {
		t.Errorf("unexpected hex %s", HexString(color.NRGBA{0xab, 0x01, 0xff, 0}))
	}
}

func TestPx(t *testing.T) {
	if v, ok := Property("12.5px").Px(); !ok || v != 12.5 {
		t.Errorf("expected 12.5, is %v", v)
	}
	if v, ok := Property("12pt").Px(); !ok || v != 16 {
		t.Errorf("expected 12pt = 16px, is %v", v)
	}
	if _, ok := Property("2em").Px(); ok {
		t.Errorf("expected em to be rejected")
	}
	if FormatPx(3) != "3px" {
		t.Errorf("unexpected format %s", FormatPx(3))
	}
}
