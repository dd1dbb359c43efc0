/*
Package styledtree holds the styled tree of a static slide document.

cssom.Style() creates a styled tree from an HTML parse tree and the
document's stylesheets. Every styled node links to its HTML node and
carries two property maps: the specified styles, as matched from style
rules and inline declarations, and the computed styles, which result from
inheritance and defaulting (see package css).

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package styledtree
