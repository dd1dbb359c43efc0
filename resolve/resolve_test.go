package resolve_test

import (
	"math"
	"testing"

	"github.com/cuishuai123/presenton/attrs"
	"github.com/cuishuai123/presenton/dom"
	"github.com/cuishuai123/presenton/resolve"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColor(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "presenton.resolve")
	defer teardown()
	//
	for i, x := range []struct {
		in      string
		hex     string
		opacity float64 // -1: no opacity
	}{
		{"#ff8800", "FF8800", -1},
		{"#f80", "FF8800", -1},
		{"#ff880080", "FF8800", 128.0 / 255},
		{"rgb(255, 136, 0)", "FF8800", -1},
		{"rgba(255, 136, 0, 0.5)", "FF8800", 0.5},
		{"rgb(255 136 0 / 25%)", "FF8800", 0.25},
		{"rgba(255, 255, 255, 0)", "FFFFFF", 0},
		{"hsl(0, 100%, 50%)", "FF0000", -1},
		{"hsla(120, 100%, 25%, 0.3)", "008000", 0.3},
		{"RebeccaPurple", "663399", -1},
		{"white", "FFFFFF", -1},
	} {
		c, ok := resolve.ParseColor(x.in)
		if !ok {
			t.Errorf("test #%d: %q should be a color", i, x.in)
			continue
		}
		if c.Hex != x.hex {
			t.Errorf("test #%d: expected %s for %q, got %s", i, x.hex, x.in, c.Hex)
		}
		op, has := c.Opacity.Get()
		if x.opacity < 0 && has {
			t.Errorf("test #%d: %q should not have an opacity, has %g", i, x.in, op)
		} else if x.opacity >= 0 && (!has || math.Abs(op-x.opacity) > 0.01) {
			t.Errorf("test #%d: expected opacity %g for %q, got %g (%v)", i, x.opacity, x.in, op, has)
		}
	}
	for _, none := range []string{"", "transparent", "rgba(0, 0, 0, 0)", "rgba(0,0,0,0)", "currentcolor", "banana"} {
		if c, ok := resolve.ParseColor(none); ok {
			t.Errorf("expected %q to be no color, got %v", none, c)
		}
	}
}

func TestShadowSelectsVisibleSpec(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "presenton.resolve")
	defer teardown()
	//
	p := resolve.DefaultPolicy()
	lists := []string{
		"rgba(255, 0, 0, 0.5) 4px 6px 8px 0px, rgba(0, 0, 0, 0) 0px 0px 0px 0px, rgb(0, 0, 0) 0px 0px 0px 0px",
		"rgba(0, 0, 0, 0) 0px 0px 0px 0px, rgba(255, 0, 0, 0.5) 4px 6px 8px 0px, rgb(0, 0, 0) 0px 0px 0px 0px",
		"rgba(0, 0, 0, 0) 0px 0px 0px 0px, rgb(0, 0, 0) 0px 0px 0px 0px, rgba(255, 0, 0, 0.5) 4px 6px 8px 0px",
	}
	for i, list := range lists {
		s, ok := p.ParseShadow(list, "rgb(0, 0, 0)").Get()
		require.True(t, ok, "list #%d", i)
		assert.Equal(t, "FF0000", s.Color, "list #%d", i)
		assert.Equal(t, 4.0, s.OffsetX)
		assert.Equal(t, 6.0, s.OffsetY)
		assert.Equal(t, 8.0, s.Radius)
		assert.InDelta(t, 0.5, s.Opacity.WithDefault(1), 0.001)
		assert.InDelta(t, math.Atan2(6, 4)*180/math.Pi, s.Angle, 1e-9)
	}
}

func TestShadowFallbacks(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "presenton.resolve")
	defer teardown()
	//
	p := resolve.DefaultPolicy()
	// no candidate: the first shadow is taken
	s, ok := p.ParseShadow("rgb(0, 0, 0) 0px 0px, rgb(0, 0, 0) 0px 0px 0px 0px", "").Get()
	require.True(t, ok)
	assert.Equal(t, "000000", s.Color)
	assert.Equal(t, 0.0, s.Angle)
	// ties go to the first candidate
	s, _ = p.ParseShadow("#00ff00 1px 1px, #0000ff 2px 2px", "").Get()
	assert.Equal(t, "00FF00", s.Color)
	// inset, author order, current color
	s, ok = p.ParseShadow("inset 0 10px 20px -5px", "rgb(10, 20, 30)").Get()
	require.True(t, ok)
	assert.True(t, s.Inset)
	assert.Equal(t, "0A141E", s.Color)
	assert.Equal(t, -5.0, s.Spread)
	assert.Equal(t, 90.0, s.Angle)
	//
	for _, none := range []string{"none", "", "red 4px"} {
		if p.ParseShadow(none, "black").IsJust() {
			t.Errorf("expected no shadow for %q", none)
		}
	}
}

func TestBorderRadius(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "presenton.resolve")
	defer teardown()
	//
	for i, x := range []struct {
		value string
		w, h  float64
		exp   attrs.Corners
	}{
		{"10px", 100, 100, attrs.Corners{10, 10, 10, 10}},
		{"10px 20px", 100, 100, attrs.Corners{10, 20, 10, 20}},
		{"10px 20px 30px", 100, 100, attrs.Corners{10, 20, 30, 20}},
		{"1px 2px 3px 4px", 100, 100, attrs.Corners{1, 2, 3, 4}},
		{"9999px", 200, 40, attrs.Corners{100, 20, 100, 20}},
		{"50%", 80, 60, attrs.Corners{40, 30, 40, 30}},
		{"-4px 8px", 100, 100, attrs.Corners{0, 8, 0, 8}},
	} {
		c, ok := resolve.ParseBorderRadius(x.value, x.w, x.h).Get()
		if !ok {
			t.Errorf("test #%d: expected radii for %q", i, x.value)
			continue
		}
		if c != x.exp {
			t.Errorf("test #%d: expected %v for %q, got %v", i, x.exp, x.value, c)
		}
	}
	if resolve.ParseBorderRadius("0px", 10, 10).IsJust() {
		t.Errorf("0px should be no radius")
	}
	if resolve.ParseBorderRadius("0px 0px 0px 0px", 10, 10).IsJust() {
		t.Errorf("four zero radii should be no radius")
	}
	circle := resolve.ParseBorderRadius("50%", 100, 100)
	assert.Equal(t, attrs.Circle, resolve.ParseShape("img", circle, 100, 100).WithDefault(""))
	rounded := resolve.ParseBorderRadius("8px", 100, 100)
	assert.Equal(t, attrs.Rectangle, resolve.ParseShape("img", rounded, 100, 100).WithDefault(""))
	assert.True(t, resolve.ParseShape("div", circle, 100, 100).IsNothing())
}

func TestFilters(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "presenton.resolve")
	defer teardown()
	//
	f, ok := resolve.ParseFilters("brightness(1.2) hue-rotate(90deg) blur(2px) drop-shadow(1px 1px red) grayscale(50%)").Get()
	require.True(t, ok)
	assert.Equal(t, attrs.Filters{
		attrs.Brightness: 1.2,
		attrs.HueRotate:  90,
		attrs.Blur:       2,
		attrs.Grayscale:  50,
	}, f)
	assert.True(t, resolve.ParseFilters("none").IsNothing())
	assert.True(t, resolve.ParseFilters("url(#f)").IsNothing())
}

func TestFontAndSides(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "presenton.resolve")
	defer teardown()
	//
	f, ok := resolve.ParseFont(`"Inter", sans-serif`, "24px", "600", "italic", "rgb(17, 24, 39)").Get()
	require.True(t, ok)
	assert.Equal(t, "Inter", f.Name.WithDefault(""))
	assert.Equal(t, 24.0, f.Size.WithDefault(0))
	assert.Equal(t, 600, f.Weight.WithDefault(0))
	assert.Equal(t, "111827", f.Color.WithDefault(""))
	assert.True(t, f.Italic)
	f, _ = resolve.ParseFont("initial", "16px", "bold", "normal", "").Get()
	assert.True(t, f.Name.IsNothing())
	assert.Equal(t, 700, f.Weight.WithDefault(0))
	assert.True(t, resolve.ParseFont("", "", "", "normal", "").IsNothing())
	//
	assert.True(t, resolve.ParseSides("0px", "0px", "0px", "0px").IsNothing())
	s, ok := resolve.ParseSides("1px", "2px", "auto", "4.5px").Get()
	require.True(t, ok)
	assert.Equal(t, attrs.Sides{Top: 1, Right: 2, Bottom: 0, Left: 4.5}, s)
}

func TestLineHeight(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "presenton.resolve")
	defer teardown()
	//
	p := resolve.DefaultPolicy()
	single := dom.Metrics{OffsetHeight: 24, ClientHeight: 24, ScrollHeight: 24}
	assert.True(t, p.LineHeight("one line", "24px", "20px", single).IsNothing())
	tall := dom.Metrics{OffsetHeight: 72, ClientHeight: 72, ScrollHeight: 72}
	assert.Equal(t, 24.0, p.LineHeight("three lines", "24px", "20px", tall).WithDefault(0))
	assert.True(t, p.LineHeight("three lines", "normal", "20px", tall).IsNothing())
	overflow := dom.Metrics{OffsetHeight: 20, ClientHeight: 20, ScrollHeight: 60}
	assert.Equal(t, 18.0, p.LineHeight("x", "18px", "16px", overflow).WithDefault(0))
	assert.Equal(t, 18.0, p.LineHeight("a\nb", "18px", "16px", single).WithDefault(0))
	p.MultiLineFactor = 4
	assert.True(t, p.LineHeight("three lines", "24px", "20px", tall).IsNothing())
}

func snap(tag string, rect dom.Rect, style map[string]string) *dom.Snapshot {
	return &dom.Snapshot{Handle: "1", Tag: tag, Rect: rect, Style: style}
}

func TestResolveElement(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "presenton.resolve")
	defer teardown()
	//
	s := snap("img", dom.Rect{X: 10, Y: 20, Width: 100, Height: 100}, map[string]string{
		"background-color":          "rgba(0, 0, 0, 0)",
		"color":                     "rgb(255, 255, 255)",
		"border-top-style":          "solid",
		"border-top-width":          "2px",
		"border-top-color":          "currentcolor",
		"border-top-left-radius":    "50%",
		"border-top-right-radius":   "50%",
		"border-bottom-right-radius": "50%",
		"border-bottom-left-radius": "50%",
		"z-index":                   "auto",
		"opacity":                   "0.8",
		"text-align":                "start",
		"object-fit":                "cover",
		"white-space":               "nowrap",
		"filter":                    "invert(1)",
	})
	s.Src = "http://localhost/a.png"
	rec := resolve.New(resolve.DefaultPolicy()).Resolve(dom.FromSnapshot(s))
	assert.Equal(t, "img", rec.Tag)
	assert.Equal(t, attrs.Position{Left: 10, Top: 20, Width: 100, Height: 100}, rec.Position)
	assert.True(t, rec.Background.IsNothing())
	b, ok := rec.Border.Get()
	require.True(t, ok)
	assert.Equal(t, "FFFFFF", b.Color.WithDefault(""))
	assert.Equal(t, 2.0, b.Width.WithDefault(0))
	assert.Equal(t, 0, rec.ZIndex)
	assert.Equal(t, 0.8, rec.Opacity.WithDefault(1))
	assert.True(t, rec.TextAlign.IsNothing())
	assert.Equal(t, attrs.Circle, rec.Shape.WithDefault(""))
	assert.Equal(t, "http://localhost/a.png", rec.ImageSrc.WithDefault(""))
	assert.Equal(t, "cover", rec.ObjectFit.WithDefault(""))
	assert.False(t, rec.TextWrap)
	assert.True(t, rec.Text.IsNothing())
	assert.True(t, rec.Filters.IsJust())
	//
	div := snap("div", dom.Rect{X: math.NaN(), Y: 0, Width: math.Inf(1), Height: 10}, map[string]string{
		"background-image": `url("https://cdn.example.com/bg.jpg")`,
		"border-top-style": "none",
		"border-top-width": "3px",
		"z-index":          "5",
		"text-align":       "center",
	})
	div.Text = "A caption that is certainly longer than thirty characters"
	rec = resolve.New(resolve.DefaultPolicy()).Resolve(dom.FromSnapshot(div))
	assert.Equal(t, attrs.Position{Height: 10}, rec.Position)
	assert.True(t, rec.Border.IsNothing())
	assert.Equal(t, 5, rec.ZIndex)
	assert.Equal(t, "center", rec.TextAlign.WithDefault(""))
	assert.Equal(t, "https://cdn.example.com/bg.jpg", rec.ImageSrc.WithDefault(""))
	assert.True(t, rec.TextWrap)
	assert.True(t, rec.HasText())
}
