package resolve

import (
	"math"
	"strings"

	"github.com/cuishuai123/presenton/attrs"
	"github.com/cuishuai123/presenton/dom/style"
	"github.com/cuishuai123/presenton/maybe"
)

// shadowSpec is one tokenized entry of a box-shadow list.
type shadowSpec struct {
	inset bool
	nums  []float64 // offset-x, offset-y, blur, spread
	color string
}

// splitShadows splits a box-shadow list at top-level commas.
func splitShadows(value string) []string {
	return style.SplitTopLevel(value, ',')
}

// tokenizeShadow reads one shadow.
//
// Grammar:
//
//	shadow = 1*( "inset" | number | color )
//
// Tokens are separated by white space; parenthesized groups such as
// "rgba(0, 0, 0, 0.1)" are single tokens. A token with a numeric prefix
// is a length, every other token belongs to the color.
func tokenizeShadow(spec string) shadowSpec {
	var s shadowSpec
	var color []string
	for _, tok := range style.Fields(spec) {
		if strings.EqualFold(tok, "inset") {
			s.inset = true
			continue
		}
		if f, ok := parseFloat(tok); ok && !isColorFunc(tok) {
			s.nums = append(s.nums, f)
			continue
		}
		color = append(color, tok)
	}
	s.color = strings.Join(color, " ")
	return s
}

func isColorFunc(tok string) bool {
	t := strings.ToLower(tok)
	return strings.HasPrefix(t, "rgb") || strings.HasPrefix(t, "hsl")
}

// score rates how visible a shadow is: every non-zero length counts
// NumericWeight, a visible color counts VisibleColorBonus.
func (p Policy) score(s shadowSpec, current string) (score int, candidate bool) {
	nonZero := 0
	for _, n := range s.nums {
		if n != 0 {
			nonZero++
		}
	}
	visible := false
	if c, ok := colorOrCurrent(s.color, current); ok && s.color != "" {
		visible = c.Hex != "000000" && c.Opacity.WithDefault(1) != 0
	}
	score = nonZero * p.ShadowNumericWeight
	if visible {
		score += p.ShadowVisibleColorBonus
	}
	return score, nonZero > 0 || visible
}

// ParseShadow selects the most visible shadow of a box-shadow list.
// Candidates need a non-zero length or a visible color; the highest score
// wins, ties go to the earlier shadow. Without candidates the first
// shadow is used. current is the element's text color, standing in for
// "currentcolor" and for shadows without a color.
//
// The selected shadow needs an x and y offset and a resolvable color,
// otherwise the element has no shadow.
func (p Policy) ParseShadow(value, current string) maybe.Maybe[attrs.Shadow] {
	v := strings.TrimSpace(value)
	if v == "" || strings.EqualFold(v, "none") {
		return maybe.Nothing[attrs.Shadow]()
	}
	specs := splitShadows(v)
	if len(specs) == 0 {
		return maybe.Nothing[attrs.Shadow]()
	}
	best, bestScore := -1, -1
	shadows := make([]shadowSpec, len(specs))
	for i, spec := range specs {
		shadows[i] = tokenizeShadow(spec)
		sc, ok := p.score(shadows[i], current)
		if ok && sc > bestScore {
			best, bestScore = i, sc
		}
	}
	if best < 0 {
		best = 0
	}
	s := shadows[best]
	tracer().Debugf("shadow %d of %d selected, score %d", best+1, len(shadows), bestScore)
	if len(s.nums) < 2 {
		return maybe.Nothing[attrs.Shadow]()
	}
	colorValue := s.color
	if colorValue == "" {
		colorValue = current
	}
	c, ok := colorOrCurrent(colorValue, current)
	if !ok {
		return maybe.Nothing[attrs.Shadow]()
	}
	sh := attrs.Shadow{
		OffsetX: s.nums[0],
		OffsetY: s.nums[1],
		Color:   c.Hex,
		Opacity: c.Opacity,
		Inset:   s.inset,
		Angle:   math.Atan2(s.nums[1], s.nums[0]) * 180 / math.Pi,
	}
	if len(s.nums) > 2 {
		sh.Radius = s.nums[2]
	}
	if len(s.nums) > 3 {
		sh.Spread = s.nums[3]
	}
	return maybe.Just(sh)
}
