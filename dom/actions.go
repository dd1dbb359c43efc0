package dom

import (
	"strings"

	"github.com/cuishuai123/presenton/tree"
	"github.com/xlab/treeprint"
)

// Predicates over snapshot nodes. They are intended to be used with
// tree.Select.

// NodeIsTag matches elements with one of the given tag names.
func NodeIsTag(tags ...string) func(*tree.Node[*Node]) bool {
	return func(n *tree.Node[*Node]) bool {
		for _, t := range tags {
			if n.Payload.TagName() == t {
				return true
			}
		}
		return false
	}
}

// NodeHasAttr matches elements carrying an attribute key.
func NodeHasAttr(key string) func(*tree.Node[*Node]) bool {
	return func(n *tree.Node[*Node]) bool {
		_, ok := n.Payload.Attr(key)
		return ok
	}
}

// Walk visits e and its descendants in document order, together with
// their depth relative to e.
func Walk(e Element, visit func(e Element, depth int) error) error {
	var walk func(e Element, depth int) error
	walk = func(e Element, depth int) error {
		if err := visit(e, depth); err != nil {
			if err == tree.SkipChildren {
				return nil
			}
			return err
		}
		for _, ch := range e.Children() {
			if err := walk(ch, depth+1); err != nil {
				return err
			}
		}
		return nil
	}
	if e == nil {
		return tree.ErrEmptyTree
	}
	return walk(e, 0)
}

// Dump returns a printable tree of an element and its descendants.
func Dump(e Element) string {
	t := treeprint.New()
	var dump func(branch treeprint.Tree, e Element)
	dump = func(branch treeprint.Tree, e Element) {
		for _, ch := range e.Children() {
			if len(ch.Children()) == 0 {
				branch.AddNode(label(ch))
				continue
			}
			dump(branch.AddBranch(label(ch)), ch)
		}
	}
	if e != nil {
		dump(t.AddBranch(label(e)), e)
	}
	return t.String()
}

func label(e Element) string {
	var b strings.Builder
	b.WriteString(e.TagName())
	if id := e.ID(); id != "" {
		b.WriteString("#" + id)
	}
	for _, c := range strings.Fields(e.ClassName()) {
		b.WriteString("." + c)
	}
	b.WriteString(" " + e.Rect().String())
	if len(e.Children()) == 0 {
		if text := strings.TrimSpace(e.InnerText()); text != "" {
			if len(text) > 20 {
				text = text[:20] + "…"
			}
			b.WriteString(" " + `"` + text + `"`)
		}
	}
	return b.String()
}
