package resolve

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/cuishuai123/presenton/maybe"
)

var (
	leadingFloat = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
	leadingInt   = regexp.MustCompile(`^[+-]?\d+`)
)

// parseFloat reads the numeric prefix of a CSS value, ignoring a unit:
// "12.5px" is 12.5, "50%" is 50. Values without a numeric prefix, like
// "auto" or "normal", are not numbers.
func parseFloat(s string) (float64, bool) {
	m := leadingFloat.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(m, 64)
	return f, err == nil
}

// parseInt reads the integer prefix of a CSS value: "400" is 400, "1.7" is 1.
func parseInt(s string) (int, bool) {
	m := leadingInt.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	return n, err == nil
}

func floatOf(s string) maybe.Maybe[float64] {
	f, ok := parseFloat(s)
	return maybe.Of(f, ok)
}

func intOf(s string) maybe.Maybe[int] {
	n, ok := parseInt(s)
	return maybe.Of(n, ok)
}
