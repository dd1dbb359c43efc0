/*
Package resolve turns the computed style of a rendered element into an
attribute record.

Resolution never fails for an element. Values which carry no meaning,
such as a transparent background or a border of width 0, are left
absent (maybe.Nothing) instead of being set to a zero value. The
aggregator relies on this to decide which fields an element inherits.

Every CSS value is read by a small parser with a documented grammar:

	ParseColor        hex, rgb(), rgba(), hsl(), hsla(), named colors
	ParseShadow       box-shadow lists, selecting the most visible shadow
	ParseFont         font family/size/weight/style/color
	ParseBorderRadius 1 to 4 radii, clamped to half the element's size
	ParseFilters      CSS filter function lists
	ParseSides        margins and paddings

Thresholds of the heuristics (shadow scoring, multi-line detection) are
configurable through Policy.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2026 The presenton authors
*/
package resolve

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'presenton.resolve'.
func tracer() tracing.Trace {
	return tracing.Select("presenton.resolve")
}
