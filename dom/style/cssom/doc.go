/*
Package cssom styles HTML parse trees.

Overview

Slide pages are rendered by a headless browser in production. For tests
and offline inspection of slide markup we style documents ourselves, with
a much smaller feature set than a browser: user-agent defaults, selector
matching, specificity, source order, !important, inline styles and
inheritance. Shorthands (margin, padding, border, border-radius) are
expanded into their longhand properties when rules are added.

CSSOM is the "CSS Object Model", similar to the DOM for HTML. Stylesheets
are abstracted behind interfaces StyleSheet and Rule, the concrete
implementation for parsed CSS text lives in package douceuradapter.
Selector matching relies on

   https://godoc.org/github.com/andybalholm/cascadia

The result of styling is a tree of styledtree.StyNode, one per element,
carrying specified and computed property maps.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package cssom

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'presenton.dom'.
func tracer() tracing.Trace {
	return tracing.Select("presenton.dom")
}
