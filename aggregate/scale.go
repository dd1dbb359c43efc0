package aggregate

import (
	"math"

	"github.com/cuishuai123/presenton/attrs"
)

// Canonical is the size of the slide coordinate space.
type Canonical struct {
	Width, Height float64
}

// Bounds is the full canonical slide box.
func (c Canonical) Bounds() attrs.Position {
	return attrs.Position{Width: c.Width, Height: c.Height}
}

// Scale maps viewport coordinates of one slide to canonical slide units.
type Scale struct {
	X, Y       float64 // scale factors
	OriginLeft float64 // viewport position of the slide root
	OriginTop  float64
}

// NewScale computes the scale of a slide root rendered at root, clamping
// each factor to [min, max]. A root without extent is not scaled.
func NewScale(root attrs.Position, c Canonical, min, max float64) Scale {
	factor := func(canonical, actual float64) float64 {
		if actual <= 0 {
			return 1
		}
		return math.Max(min, math.Min(max, canonical/actual))
	}
	return Scale{
		X:          factor(c.Width, root.Width),
		Y:          factor(c.Height, root.Height),
		OriginLeft: root.Left,
		OriginTop:  root.Top,
	}
}

// Apply transforms a viewport box into canonical units and clamps it to
// the slide. It reports false for boxes which round to zero width or
// height.
func (s Scale) Apply(p attrs.Position, c Canonical) (attrs.Position, bool) {
	w := math.Round(p.Width * s.X)
	h := math.Round(p.Height * s.Y)
	if w <= 0 || h <= 0 {
		return attrs.Position{}, false
	}
	return attrs.Position{
		Left:   clamp(math.Round((p.Left-s.OriginLeft)*s.X), 0, c.Width),
		Top:    clamp(math.Round((p.Top-s.OriginTop)*s.Y), 0, c.Height),
		Width:  clamp(w, 1, c.Width),
		Height: clamp(h, 1, c.Height),
	}, true
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
