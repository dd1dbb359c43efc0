/*
Package dom provides element snapshots of rendered slide pages.

Overview

Slide pages are rendered by a layout engine, either a headless browser or
the static engine of package dom/static. Both hand out snapshots of
rendered elements: tag, attributes, text, markup, the bounding client
rectangle, scroll metrics and the computed style. Snapshots are read-only
values; all further processing (style resolution, aggregation) works on
snapshots and never calls back into the engine.

Tree Implementation

Styling and layout of HTML/CSS involves a lot of operations on different trees.
We implement the various trees on top of a general purpose tree type
(package tree), which offers concurrency-safe operations to manipluate
tree nodes.

In a fully object oriented programming language we would subclass this
tree type for every type of tree in use (styled tree, snapshot tree),
but in Go we resort to composition, thus including a generic tree node
in every node (sub-)type. The downside of this approach is that we will
have to provide an adapter for every node sub-type to return the
sub-type from the generic type.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package dom

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer will return a tracer. We are tracing to 'presenton.dom'
func tracer() tracing.Trace {
	return tracing.Select("presenton.dom")
}
