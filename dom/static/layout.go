package static

import (
	"math"
	"strconv"
	"strings"

	"github.com/cuishuai123/presenton/dom"
	"github.com/cuishuai123/presenton/dom/style/css"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// box is the layout result for an element.
type box struct {
	rect    dom.Rect // border box, document coordinates
	metrics dom.Metrics
	hidden  bool    // display:none on the element or an ancestor
	z       int     // paint layer
	opacity float64 // effective opacity, including ancestors
}

// block is a containing block.
type block struct {
	x, y, w, h float64 // h < 0 for indefinite heights
}

type layouter struct {
	d        *Document
	boxes    map[*html.Node]*box
	viewport block
}

// layout recomputes all boxes if overrides changed. Must be called with
// d.mu held.
func (d *Document) layout() map[*html.Node]*box {
	if !d.dirty && d.boxes != nil {
		return d.boxes
	}
	l := &layouter{
		d:        d,
		boxes:    make(map[*html.Node]*box),
		viewport: block{0, 0, d.viewportW, d.viewportH},
	}
	y := 0.0
	for _, ch := range elementChildren(d.root) {
		_, h := l.place(ch, 0, y, l.viewport.w, l.viewport.h, l.viewport)
		y += h
	}
	l.paintOrder(d.root, 0, 1)
	d.boxes = l.boxes
	d.dirty = false
	return d.boxes
}

// --- Lengths ----------------------------------------------------------

func (d *Document) fontSize(h *html.Node) float64 {
	if px, ok := d.style(h, "font-size").Px(); ok && px > 0 {
		return px
	}
	return 16
}

func (d *Document) lineHeight(h *html.Node) float64 {
	if px, ok := d.style(h, "line-height").Px(); ok && px > 0 {
		return px
	}
	return d.fontSize(h) * 1.2
}

func (d *Document) context(h *html.Node, ref float64) css.Context {
	return css.Context{
		FontSize:     css.Px(d.fontSize(h)),
		RootFontSize: css.Px(16),
		Reference:    css.Px(ref),
		ViewportW:    css.Px(d.viewportW),
		ViewportH:    css.Px(d.viewportH),
	}
}

// resolve resolves a dimension against a reference length. It returns
// false for auto, unset values and percentages of indefinite references.
func (d *Document) resolve(h *html.Node, dm css.DimenT, ref float64) (float64, bool) {
	if dm.IsNone() || dm.IsAuto() {
		return 0, false
	}
	var pct float64
	switch m := dm.Match(); m {
	case m.Percentage(&pct):
		if ref < 0 {
			return 0, false
		}
	}
	du, ok := dm.Resolve(d.context(h, ref))
	if !ok {
		return 0, false
	}
	return css.ToPx(du), true
}

func (d *Document) length(h *html.Node, key string, ref float64) (float64, bool) {
	dm, err := css.DimenOption(d.style(h, key))
	if err != nil {
		return 0, false
	}
	return d.resolve(h, dm, ref)
}

func (d *Document) sides(h *html.Node, prefix, suffix string, ref float64) (t, r, b, l float64) {
	get := func(dir string) float64 {
		v, _ := d.length(h, prefix+dir+suffix, ref)
		return v
	}
	return get("top"), get("right"), get("bottom"), get("left")
}

// --- Classification ---------------------------------------------------

func isReplaced(h *html.Node) bool {
	switch h.DataAtom {
	case atom.Img, atom.Svg, atom.Canvas, atom.Video, atom.Iframe, atom.Input:
		return true
	}
	return false
}

// intrinsicSize returns the natural size of replaced elements.
func (d *Document) intrinsicSize(h *html.Node) (float64, float64) {
	aw, okw := numericAttr(h, "width")
	ah, okh := numericAttr(h, "height")
	if h.DataAtom == atom.Img {
		if src, ok := attr(h, "src"); ok {
			if img, err := decodeDataURI(src); err == nil {
				b := img.Bounds()
				nw, nh := float64(b.Dx()), float64(b.Dy())
				switch {
				case okw && !okh && nw > 0:
					return aw, aw * nh / nw
				case okh && !okw && nh > 0:
					return ah * nw / nh, ah
				case !okw && !okh:
					return nw, nh
				}
			}
		}
		return aw, ah
	}
	if !okw {
		aw = 300
	}
	if !okh {
		ah = 150
	}
	return aw, ah
}

func numericAttr(h *html.Node, key string) (float64, bool) {
	v, ok := attr(h, key)
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(v), "px"), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// --- Placement --------------------------------------------------------

// place lays out element h with its margin box starting at (x, y). It
// returns the size of the margin box as far as it takes part in flow.
func (l *layouter) place(h *html.Node, x, y, availW, availH float64, abscb block) (float64, float64) {
	d := l.d
	disp := css.Display(d.style(h, "display"))
	if disp.IsNone() {
		l.hide(h, x, y)
		return 0, 0
	}
	pos := css.Position(d.style(h, "position")).WithOffsets(
		d.style(h, "top"), d.style(h, "right"), d.style(h, "bottom"), d.style(h, "left"))
	cb := block{x, y, availW, availH}
	if pos.IsAbsolute() {
		cb = abscb
	} else if pos.IsFixed() {
		cb = l.viewport
	}
	mt, mr, mb, ml := d.sides(h, "margin-", "", cb.w)
	bt, _ := d.style(h, "border-top-width").Px()
	br, _ := d.style(h, "border-right-width").Px()
	bb, _ := d.style(h, "border-bottom-width").Px()
	bl, _ := d.style(h, "border-left-width").Px()
	pt, pr, pb, pl := d.sides(h, "padding-", "", cb.w)
	edgesH := bl + br + pl + pr
	edgesV := bt + bb + pt + pb
	borderBox := d.style(h, "box-sizing").Keyword() == "border-box"

	offsets := make([]float64, 4)
	offsetSet := make([]bool, 4)
	if !pos.IsStatic() {
		for _, o := range pos.Offsets() {
			ref := cb.w
			if o.Dir == css.Top || o.Dir == css.Bottom {
				ref = cb.h
			}
			offsets[o.Dir], offsetSet[o.Dir] = d.resolve(h, o.Dim, ref)
		}
	}
	outOfFlow := pos.OutOfFlow()

	w, wSet := d.length(h, "width", cb.w)
	ht, hSet := d.length(h, "height", cb.h)
	if borderBox {
		if wSet {
			w = math.Max(0, w-edgesH)
		}
		if hSet {
			ht = math.Max(0, ht-edgesV)
		}
	}
	replaced := isReplaced(h)
	if replaced && (!wSet || !hSet) {
		iw, ih := d.intrinsicSize(h)
		switch {
		case !wSet && !hSet:
			w, ht = iw, ih
		case !wSet && ih > 0:
			w = ht * iw / ih
		case !hSet && iw > 0:
			ht = w * ih / iw
		case !wSet:
			w = iw
		default:
			ht = ih
		}
		wSet, hSet = true, true
	}
	shrink := false
	if !wSet {
		switch {
		case outOfFlow && offsetSet[css.Left] && offsetSet[css.Right]:
			w = cb.w - offsets[css.Left] - offsets[css.Right] - ml - mr - edgesH
		case outOfFlow || disp.IsInlineLevel():
			w, shrink = cb.w-ml-mr-edgesH, true
		default:
			w = availW - ml - mr - edgesH
		}
		w = math.Max(0, w)
	} else if !outOfFlow && !disp.IsInlineLevel() {
		if d.style(h, "margin-left").Keyword() == "auto" && d.style(h, "margin-right").Keyword() == "auto" {
			ml = math.Max(0, (availW-w-edgesH)/2)
		}
	}
	if !hSet && outOfFlow && offsetSet[css.Top] && offsetSet[css.Bottom] && cb.h >= 0 {
		ht, hSet = math.Max(0, cb.h-offsets[css.Top]-offsets[css.Bottom]-mt-mb-edgesV), true
	}

	b := &box{opacity: 1}
	l.boxes[h] = b
	bx, by := x+ml, y+mt
	if outOfFlow {
		bx, by = cb.x+ml, cb.y+mt
		if offsetSet[css.Left] {
			bx += offsets[css.Left]
		} else if !offsetSet[css.Right] {
			bx = x + ml // static position
		}
		if offsetSet[css.Top] {
			by += offsets[css.Top]
		} else if !offsetSet[css.Bottom] {
			by = y + mt
		}
	}
	cx, cy := bx+bl+pl, by+bt+pt
	childCB := abscb
	innerH := -1.0
	if hSet {
		innerH = ht
	}
	if !pos.IsStatic() {
		childCB = block{bx + bl, by + bt, w + pl + pr, innerH}
		if hSet {
			childCB.h = ht + pt + pb
		}
	}
	var contentW, contentH float64
	if !replaced {
		contentW, contentH = l.flow(h, cx, cy, w, innerH, childCB,
			disp.IsRow(d.style(h, "flex-direction")))
	}
	if shrink {
		w = math.Min(w, contentW)
	}
	if !hSet {
		ht = contentH
	}
	bw, bh := w+edgesH, ht+edgesV
	b.rect = dom.Rect{X: bx, Y: by, Width: bw, Height: bh}
	b.metrics = dom.Metrics{
		OffsetWidth:  bw,
		OffsetHeight: bh,
		ClientHeight: ht + pt + pb,
		ScrollHeight: math.Max(ht, contentH) + pt + pb,
		ScrollWidth:  math.Max(w, contentW) + pl + pr,
	}
	if outOfFlow {
		dx, dy := 0.0, 0.0
		if !offsetSet[css.Left] && offsetSet[css.Right] {
			dx = cb.x + cb.w - offsets[css.Right] - mr - bw - bx
		}
		if !offsetSet[css.Top] && offsetSet[css.Bottom] && cb.h >= 0 {
			dy = cb.y + cb.h - offsets[css.Bottom] - mb - bh - by
		}
		l.shift(h, dx, dy)
		return 0, 0
	}
	if pos.IsRelative() {
		dx, dy := offsets[css.Left], offsets[css.Top]
		if !offsetSet[css.Left] && offsetSet[css.Right] {
			dx = -offsets[css.Right]
		}
		if !offsetSet[css.Top] && offsetSet[css.Bottom] {
			dy = -offsets[css.Bottom]
		}
		l.shift(h, dx, dy)
	}
	return ml + bw + mr, mt + bh + mb
}

// flow lays out the children of h inside a content box. It returns the
// extent of the content.
func (l *layouter) flow(h *html.Node, cx, cy, cw, ch float64, abscb block, row bool) (float64, float64) {
	if row {
		return l.flowRow(h, cx, cy, cw, ch, abscb)
	}
	d := l.d
	var maxW, lineX, lineH float64
	y := cy
	breakLine := func() {
		if lineX > 0 || lineH > 0 {
			y += lineH
		}
		lineX, lineH = 0, 0
	}
	fs, lh := d.fontSize(h), d.lineHeight(h)
	ws := d.style(h, "white-space").Keyword()
	for n := h.FirstChild; n != nil; n = n.NextSibling {
		switch n.Type {
		case html.TextNode:
			tw, th, lines := measureText(n.Data, fs, lh, ws, cw-lineX, cw)
			if tw == 0 && th == 0 {
				continue
			}
			if lines > 1 {
				breakLine()
				y += th - lh
				lineX, lineH = tw, lh
			} else {
				lineX += tw
				lineH = math.Max(lineH, th)
			}
			maxW = math.Max(maxW, lineX)
		case html.ElementNode:
			if n.DataAtom == atom.Br {
				lineH = math.Max(lineH, lh)
				breakLine()
				continue
			}
			disp := css.Display(d.style(n, "display"))
			pos := css.Position(d.style(n, "position"))
			switch {
			case pos.OutOfFlow():
				l.place(n, cx+lineX, y, cw, ch, abscb)
			case disp.IsInlineLevel():
				w, hh := l.place(n, cx+lineX, y, cw-lineX, ch, abscb)
				if lineX > 0 && lineX+w > cw {
					breakLine()
					w, hh = l.place(n, cx, y, cw, ch, abscb)
				}
				lineX += w
				lineH = math.Max(lineH, hh)
				maxW = math.Max(maxW, lineX)
			default:
				breakLine()
				w, hh := l.place(n, cx, y, cw, ch, abscb)
				y += hh
				if b := l.boxes[n]; b != nil && !b.hidden {
					maxW = math.Max(maxW, b.rect.Width+b.rect.X-cx)
				} else {
					maxW = math.Max(maxW, w)
				}
			}
		}
	}
	breakLine()
	return maxW, y - cy
}

// flowRow lays out children side by side. Children without a definite
// width share the remaining space.
func (l *layouter) flowRow(h *html.Node, cx, cy, cw, ch float64, abscb block) (float64, float64) {
	d := l.d
	var items []*html.Node
	fixed, autos := 0.0, 0
	for _, n := range elementChildren(h) {
		pos := css.Position(d.style(n, "position"))
		if css.Display(d.style(n, "display")).IsNone() || pos.OutOfFlow() {
			l.place(n, cx, cy, cw, ch, abscb)
			continue
		}
		items = append(items, n)
		if w, ok := d.length(n, "width", cw); ok {
			fixed += w
		} else if isReplaced(n) {
			iw, _ := d.intrinsicSize(n)
			fixed += iw
		} else {
			autos++
		}
	}
	share := 0.0
	if autos > 0 {
		share = math.Max(0, (cw-fixed)/float64(autos))
	}
	x, maxH := cx, 0.0
	for _, n := range items {
		avail := cw
		if _, ok := d.length(n, "width", cw); !ok && !isReplaced(n) {
			avail = share
		}
		w, hh := l.place(n, x, cy, avail, ch, abscb)
		if avail == share && w < share {
			w = share
		}
		x += w
		maxH = math.Max(maxH, hh)
	}
	return x - cx, maxH
}

// hide records h and its descendants as not rendered.
func (l *layouter) hide(h *html.Node, x, y float64) {
	l.boxes[h] = &box{rect: dom.Rect{X: x, Y: y}, hidden: true}
	for _, ch := range elementChildren(h) {
		l.hide(ch, x, y)
	}
}

// shift moves the boxes of h and its descendants. Fixed descendants stay.
func (l *layouter) shift(h *html.Node, dx, dy float64) {
	if dx == 0 && dy == 0 {
		return
	}
	if b := l.boxes[h]; b != nil && !b.hidden {
		b.rect.X += dx
		b.rect.Y += dy
	}
	for _, ch := range elementChildren(h) {
		if css.Position(l.d.style(ch, "position")).IsFixed() {
			continue
		}
		l.shift(ch, dx, dy)
	}
}

// paintOrder assigns paint layers and effective opacities top-down.
func (l *layouter) paintOrder(h *html.Node, z int, opacity float64) {
	for _, ch := range elementChildren(h) {
		b := l.boxes[ch]
		if b == nil {
			continue
		}
		b.z = z
		if !css.Position(l.d.style(ch, "position")).IsStatic() {
			if zi, err := strconv.Atoi(l.d.style(ch, "z-index").Keyword()); err == nil {
				b.z = zi
			}
		}
		op := 1.0
		if f, err := strconv.ParseFloat(l.d.style(ch, "opacity").Keyword(), 64); err == nil {
			op = math.Max(0, math.Min(1, f))
		}
		b.opacity = opacity * op
		l.paintOrder(ch, b.z, b.opacity)
	}
}

// --- Text -------------------------------------------------------------

// glyphWidth is the average advance of a glyph relative to the font size.
const glyphWidth = 0.5

// measureText estimates the size of a text run. first is the space left
// on the current line, width the full line width.
func measureText(text string, fontSize, lineHeight float64, whiteSpace string, first, width float64) (w, h float64, lines int) {
	pre := whiteSpace == "pre" || whiteSpace == "pre-wrap" || whiteSpace == "pre-line"
	wrap := whiteSpace != "nowrap" && whiteSpace != "pre"
	var paragraphs []string
	if pre {
		paragraphs = strings.Split(text, "\n")
	} else {
		collapsed := collapseSpace(text)
		if strings.TrimSpace(collapsed) == "" {
			return 0, 0, 0
		}
		paragraphs = []string{collapsed}
	}
	advance := fontSize * glyphWidth
	for i, p := range paragraphs {
		pw := float64(len([]rune(p))) * advance
		room := width
		if i == 0 {
			room = first
		}
		switch {
		case !wrap || pw <= room:
			lines++
			w = math.Max(w, pw)
		case width <= 0:
			lines++
			w = math.Max(w, pw)
		default:
			rest := pw - math.Max(0, room)
			n := 1 + int(math.Ceil(rest/width))
			lines += n
			w = width
		}
	}
	return w, float64(lines) * lineHeight, lines
}

func collapseSpace(s string) string {
	var b strings.Builder
	space := false
	for _, r := range s {
		if r == ' ' || r == '\n' || r == '\t' || r == '\r' || r == '\f' {
			if !space {
				b.WriteByte(' ')
			}
			space = true
			continue
		}
		space = false
		b.WriteRune(r)
	}
	return b.String()
}
