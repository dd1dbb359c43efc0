package static

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/cuishuai123/presenton/dom"
	"github.com/cuishuai123/presenton/dom/style"
	"github.com/cuishuai123/presenton/dom/style/css"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// snapshot serializes element h with its subtree. Must be called with
// d.mu held and boxes laid out.
func (d *Document) snapshot(h *html.Node, boxes map[*html.Node]*box) *dom.Snapshot {
	s := &dom.Snapshot{
		Tag:   strings.ToLower(h.Data),
		Text:  d.innerText(h),
		HTML:  innerHTML(h),
		Outer: outerHTML(h),
		Style: make(map[string]string, len(style.ComputedKeys)),
	}
	for _, a := range h.Attr {
		switch a.Key {
		case dom.HandleAttr:
			s.Handle = a.Val
		case "id":
			s.ID = a.Val
		case "class":
			s.Class = a.Val
		default:
			if s.Attrs == nil {
				s.Attrs = make(map[string]string)
			}
			s.Attrs[a.Key] = a.Val
		}
	}
	if h.DataAtom == atom.Img {
		if src, ok := attr(h, "src"); ok {
			s.Src = d.resolveURL(src)
		}
	}
	for _, key := range style.ComputedKeys {
		s.Style[key] = d.style(h, key).String()
	}
	if b := boxes[h]; b != nil {
		s.Rect = b.rect
		s.Metrics = b.metrics
	}
	for _, ch := range elementChildren(h) {
		s.Children = append(s.Children, d.snapshot(ch, boxes))
	}
	return s
}

// resolveURL makes src absolute against the document URL, as browsers
// do for img.src.
func (d *Document) resolveURL(src string) string {
	if strings.HasPrefix(src, "data:") {
		return src
	}
	base, err := url.Parse(d.url)
	if err != nil {
		return src
	}
	ref, err := url.Parse(strings.TrimSpace(src))
	if err != nil {
		return src
	}
	return base.ResolveReference(ref).String()
}

// innerText approximates the rendered text of an element: whitespace
// is collapsed, block-level children and <br> start new lines, and
// elements with display:none contribute nothing.
func (d *Document) innerText(h *html.Node) string {
	var b strings.Builder
	var walk func(n *html.Node, pre bool)
	walk = func(n *html.Node, pre bool) {
		for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
			switch ch.Type {
			case html.TextNode:
				if pre {
					b.WriteString(ch.Data)
				} else {
					b.WriteString(collapseSpace(ch.Data))
				}
			case html.ElementNode:
				if ch.DataAtom == atom.Br {
					b.WriteString("\n")
					continue
				}
				disp := css.Display(d.style(ch, "display"))
				if disp.IsNone() {
					continue
				}
				ws := d.style(ch, "white-space").Keyword()
				childPre := strings.HasPrefix(ws, "pre")
				block := !disp.IsInlineLevel()
				if block {
					b.WriteString("\n")
				}
				walk(ch, childPre)
				if block {
					b.WriteString("\n")
				}
			}
		}
	}
	walk(h, strings.HasPrefix(d.style(h, "white-space").Keyword(), "pre"))
	return tidyLines(b.String())
}

// tidyLines trims every line and drops empty lines produced by block
// boundaries.
func tidyLines(s string) string {
	lines := strings.Split(s, "\n")
	out := lines[:0]
	for _, l := range lines {
		l = strings.Trim(l, " ")
		if l != "" {
			out = append(out, l)
		}
	}
	return strings.Join(out, "\n")
}

func innerHTML(h *html.Node) string {
	var buf bytes.Buffer
	for ch := h.FirstChild; ch != nil; ch = ch.NextSibling {
		_ = html.Render(&buf, withoutHandles(ch))
	}
	return buf.String()
}

func outerHTML(h *html.Node) string {
	var buf bytes.Buffer
	_ = html.Render(&buf, withoutHandles(h))
	return buf.String()
}

// withoutHandles returns a deep copy of n with the surface handles
// stripped, so serialized markup looks like the source document.
func withoutHandles(n *html.Node) *html.Node {
	c := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
	}
	for _, a := range n.Attr {
		if a.Key != dom.HandleAttr {
			c.Attr = append(c.Attr, a)
		}
	}
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		c.AppendChild(withoutHandles(ch))
	}
	return c
}
