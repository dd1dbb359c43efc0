package styledtree

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"strings"

	"github.com/cuishuai123/presenton/dom/style"
	"github.com/cuishuai123/presenton/tree"
	"golang.org/x/net/html"
)

// StyNode is a style node, the building block of the styled tree.
type StyNode struct {
	tree.Node[*StyNode] // we build on top of general purpose tree
	htmlNode            *html.Node
	styles              *style.PropertyMap // specified styles
	computedStyles      *style.PropertyMap
}

// NewNodeForHTMLNode creates a new styled node linked to an HTML node.
func NewNodeForHTMLNode(html *html.Node) *tree.Node[*StyNode] {
	sn := &StyNode{}
	sn.Payload = sn // Payload will always reference the node itself
	sn.htmlNode = html
	return &sn.Node
}

// Node gets the styled node from a generic tree node.
func Node(n *tree.Node[*StyNode]) *StyNode {
	if n == nil {
		return nil
	}
	return n.Payload
}

// HTMLNode gets the HTML DOM node corresponding to this styled node.
func (sn *StyNode) HTMLNode() *html.Node {
	return sn.Payload.htmlNode
}

// ParentNode returns the styled parent node or nil for the root.
func (sn *StyNode) ParentNode() *StyNode {
	return Node(sn.Parent())
}

// Tag returns the lower-case element name, or "" for non-element nodes.
func (sn *StyNode) Tag() string {
	if sn.htmlNode == nil || sn.htmlNode.Type != html.ElementNode {
		return ""
	}
	return strings.ToLower(sn.htmlNode.Data)
}

// Styles returns the specified styles of a node, i.e. the result of
// matching style rules and inline declarations, without inheritance.
func (sn *StyNode) Styles() *style.PropertyMap {
	return sn.styles
}

// SetStyles sets the specified styling properties of a styled node.
func (sn *StyNode) SetStyles(styles *style.PropertyMap) {
	sn.styles = styles
}

// ComputedStyles returns the computed styles, if already calculated.
func (sn *StyNode) ComputedStyles() *style.PropertyMap {
	return sn.computedStyles
}

// SetComputedStyles stores the computed styles of a node.
func (sn *StyNode) SetComputedStyles(styles *style.PropertyMap) {
	sn.computedStyles = styles
}

// Computed is a shortcut to a computed style value.
func (sn *StyNode) Computed(key string) style.Property {
	return sn.computedStyles.GetPropertyValue(key)
}
