package css_test

import (
	"math"
	"testing"

	"github.com/cuishuai123/presenton/dom/style"
	"github.com/cuishuai123/presenton/dom/style/css"
	"github.com/npillmayer/tyse/core/dimen"
)

func TestDimenBasic(t *testing.T) {
	ten := css.JustDimen(dimen.PT * 10)
	var du dimen.DU
	switch m := ten.Match(); m {
	case m.Just(&du):
		t.Logf("du = %s", du)
	default:
		t.Errorf("expected Just(10pt) to be a fixed value, isn't: %#v", ten)
	}

	auto := css.Auto()
	switch m := auto.Match(); m {
	case m.IsKind(css.Auto()):
		t.Logf("dimen is auto")
	default:
		t.Errorf("expected dimen auto to match auto, isn't: %#v", auto)
	}

	pcnt := css.Percentage(80)
	var p float64
	switch m := pcnt.Match(); m {
	case m.Percentage(&p):
		t.Logf("percent = %g", p)
	default:
		t.Errorf("expected Percentage(80) to be a percentage value, isn't: %#v", pcnt)
	}
}

func TestDimenInheritIsNotAuto(t *testing.T) {
	inherit := css.Inherit()
	switch m := inherit.Match(); m {
	case m.IsKind(css.Auto()):
		t.Errorf("expected inherit not to match auto")
	case m.Just(nil):
		t.Errorf("expected inherit not to be a fixed value")
	case m.IsKind(css.Inherit()):
		t.Logf("dimen is inherit")
	default:
		t.Errorf("expected inherit to match inherit")
	}
}

func TestDimenPattern(t *testing.T) {
	ten := css.JustDimen(dimen.PT * 10)
	// now use it
	var du dimen.DU
	m := css.DimenPattern[int](ten)
	zehn := m.OneOf(css.DimenPatterns[int]{
		Just:    m.With(&du).Const(10),
		Auto:    0,
		Default: -1,
	})
	if zehn != 10 {
		t.Errorf("expected zehn == 10, isn't: %#v", zehn)
	}

	d := css.JustDimen(dimen.PT * 10)
	// now use it
	e := css.DimenPattern[dimen.DU](d)
	distance := e.OneOf(css.DimenPatterns[dimen.DU]{
		Just:    e.With(&du).Const(2 * du),
		Auto:    0,
		Default: -1,
	})
	if distance != 2*10*dimen.PT {
		t.Errorf("expected distance to be %v, isn't: %#v", 10*dimen.PT, distance)
	}
}

func TestDimenParseAndResolve(t *testing.T) {
	ctx := css.Context{
		FontSize:     css.Px(20),
		RootFontSize: css.Px(16),
		Reference:    css.Px(1280),
		ViewportW:    css.Px(1280),
		ViewportH:    css.Px(720),
	}
	cases := map[style.Property]float64{
		"12px": 12, "1.5em": 30, "2rem": 32, "50%": 640, "10vh": 72, "0": 0, "1.2": 24,
	}
	for in, want := range cases {
		d, err := css.DimenOption(in)
		if err != nil {
			t.Fatalf("%s: %v", in, err)
		}
		du, ok := d.Resolve(ctx)
		if !ok || math.Abs(css.ToPx(du)-want) > 0.01 {
			t.Errorf("%s: expected %gpx, have %gpx (ok=%v)", in, want, css.ToPx(du), ok)
		}
	}
	if d, _ := css.DimenOption("auto"); !d.IsAuto() {
		t.Errorf("expected auto")
	}
	if _, ok := css.Normal().Resolve(ctx); ok {
		t.Errorf("expected normal not to resolve")
	}
	if _, err := css.DimenOption("12furlongs"); err == nil {
		t.Errorf("expected error for unknown unit")
	}
}
