package dom

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cuishuai123/presenton/dom/style"
	"github.com/cuishuai123/presenton/tree"
)

// HandleAttr is the attribute used to address snapshot elements in the
// live page.
const HandleAttr = "data-presenton-node"

// Rect is a bounding client rectangle in CSS pixels.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Right returns the right edge of r.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns the bottom edge of r.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Empty is true for rectangles without area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

func (r Rect) String() string {
	return fmt.Sprintf("(%g,%g %gx%g)", r.X, r.Y, r.Width, r.Height)
}

// Metrics are the box metrics of a rendered element, in CSS pixels.
type Metrics struct {
	OffsetWidth  float64 `json:"offsetWidth"`
	OffsetHeight float64 `json:"offsetHeight"`
	ClientHeight float64 `json:"clientHeight"`
	ScrollHeight float64 `json:"scrollHeight"`
	ScrollWidth  float64 `json:"scrollWidth"`
}

// Element is a rendered element of a page, as seen by the extraction
// pipeline.
type Element interface {
	Handle() string                // address of the element in the live page
	TagName() string               // lower-case element name
	ID() string                    // id attribute
	ClassName() string             // class attribute
	Attr(key string) (string, bool)// any attribute
	Children() []Element           // element children, in document order
	InnerText() string             // rendered text of the element and its descendants
	InnerHTML() string             // markup of the element's content
	OuterHTML() string             // markup of the element including itself
	Src() string                   // resolved source URL of images, or ""
	Style(key string) style.Property
	Rect() Rect
	Metrics() Metrics
}

// Snapshot is the serialized form of an element and its descendants.
// Browser engines produce it as JSON.
type Snapshot struct {
	Handle   string            `json:"handle"`
	Tag      string            `json:"tag"`
	ID       string            `json:"id,omitempty"`
	Class    string            `json:"class,omitempty"`
	Attrs    map[string]string `json:"attrs,omitempty"`
	Text     string            `json:"text,omitempty"`
	HTML     string            `json:"html,omitempty"`
	Outer    string            `json:"outer,omitempty"`
	Src      string            `json:"src,omitempty"`
	Rect     Rect              `json:"rect"`
	Metrics  Metrics           `json:"metrics"`
	Style    map[string]string `json:"style,omitempty"`
	Children []*Snapshot       `json:"children,omitempty"`
}

// Node is the snapshot implementation of Element.
type Node struct {
	tree.Node[*Node] // we build on top of general purpose tree
	snap             *Snapshot
	styles           *style.PropertyMap
}

var _ Element = &Node{}

// FromSnapshot creates a node tree from a snapshot.
func FromSnapshot(s *Snapshot) *Node {
	if s == nil {
		return nil
	}
	n := &Node{snap: s, styles: style.PropertyMapFrom(s.Style)}
	n.Payload = n // Payload will always reference the node itself
	n.snap.Tag = strings.ToLower(n.snap.Tag)
	for _, ch := range s.Children {
		if c := FromSnapshot(ch); c != nil {
			n.AddChild(&c.Node)
		}
	}
	return n
}

// DecodeSnapshots decodes a JSON array of element snapshots.
func DecodeSnapshots(data []byte) ([]*Node, error) {
	var snaps []*Snapshot
	if err := json.Unmarshal(data, &snaps); err != nil {
		return nil, fmt.Errorf("decoding element snapshots: %w", err)
	}
	nodes := make([]*Node, 0, len(snaps))
	for _, s := range snaps {
		if s != nil {
			nodes = append(nodes, FromSnapshot(s))
		}
	}
	tracer().Debugf("decoded %d element snapshots", len(nodes))
	return nodes, nil
}

// TreeNode gets the snapshot node from a generic tree node.
func TreeNode(n *tree.Node[*Node]) *Node {
	if n == nil {
		return nil
	}
	return n.Payload
}

func (n *Node) String() string {
	return fmt.Sprintf("<%s %s>", n.snap.Tag, n.snap.Rect)
}

// Snapshot returns the serialized form of the node.
func (n *Node) Snapshot() *Snapshot { return n.snap }

func (n *Node) Handle() string    { return n.snap.Handle }
func (n *Node) TagName() string   { return n.snap.Tag }
func (n *Node) ID() string        { return n.snap.ID }
func (n *Node) ClassName() string { return n.snap.Class }
func (n *Node) InnerText() string { return n.snap.Text }
func (n *Node) InnerHTML() string { return n.snap.HTML }
func (n *Node) OuterHTML() string { return n.snap.Outer }
func (n *Node) Src() string       { return n.snap.Src }
func (n *Node) Rect() Rect        { return n.snap.Rect }
func (n *Node) Metrics() Metrics  { return n.snap.Metrics }

// Attr returns an attribute value. id and class are attributes, too.
func (n *Node) Attr(key string) (string, bool) {
	switch key {
	case "id":
		return n.snap.ID, n.snap.ID != ""
	case "class":
		return n.snap.Class, n.snap.Class != ""
	}
	v, ok := n.snap.Attrs[key]
	return v, ok
}

// Children returns the element children of n.
func (n *Node) Children() []Element {
	chs := n.Node.Children()
	elems := make([]Element, len(chs))
	for i, ch := range chs {
		elems[i] = ch.Payload
	}
	return elems
}

// Style returns a computed style value, or NullStyle.
func (n *Node) Style(key string) style.Property {
	return n.styles.GetPropertyValue(key)
}

// ComputedStyles returns all computed styles of the node.
func (n *Node) ComputedStyles() *style.PropertyMap {
	return n.styles
}
