/*
Package css interprets computed CSS property values for layout.

Style properties arrive as strings (type style.Property). The static
rendering surface needs them as lengths, positions and display modes, and
needs inheritance resolved along the styled tree (GetProperty).

Dimensions (type DimenT) and positions (type PositionT) are option types.
Clients match on them instead of comparing strings:

	switch m := d.Match(); m {
	case m.Just(&du):
		…
	case m.IsKind(css.Auto()):
		…
	}

Display modes are flag sets (type DisplayMode) with an outer and an inner
part.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package css

// see
// https://developer.mozilla.org/en-US/docs/Web/CSS/Reference#dom-css_cssom

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'presenton.dom'.
func tracer() tracing.Trace {
	return tracing.Select("presenton.dom")
}
