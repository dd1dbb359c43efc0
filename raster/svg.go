package raster

import (
	"bytes"
	"fmt"
	"image"
	"strings"

	"github.com/cuishuai123/presenton/resolve"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// RenderSVG rasterizes SVG markup to a w×h image. color is the computed
// text color of the element; it replaces currentColor in the markup.
func RenderSVG(markup, color string, w, h int) (image.Image, error) {
	hex := ""
	if c, ok := resolve.ParseColor(color); ok {
		hex = "#" + c.Hex
	}
	src, err := applyColor(markup, hex)
	if err != nil {
		return nil, err
	}
	icon, err := oksvg.ReadReplacingCurrentColor(strings.NewReader(src), hex, oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, fmt.Errorf("reading svg: %w", err)
	}
	icon.SetTarget(0, 0, float64(w), float64(h))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1)
	return img, nil
}

// applyColor sets the element's color inline on the svg root and
// normalizes the spelling of currentColor in attributes, to be replaced
// when the icon is read.
func applyColor(markup, hex string) (string, error) {
	body := &html.Node{Type: html.ElementNode, DataAtom: atom.Body, Data: "body"}
	nodes, err := html.ParseFragment(strings.NewReader(markup), body)
	if err != nil {
		return "", fmt.Errorf("parsing svg markup: %w", err)
	}
	var root *html.Node
	for _, n := range nodes {
		if n.Type == html.ElementNode && n.Data == "svg" {
			root = n
			break
		}
	}
	if root == nil {
		return "", fmt.Errorf("markup has no svg element")
	}
	if hex != "" {
		setStyle(root, "color:"+hex)
		var walk func(n *html.Node)
		walk = func(n *html.Node) {
			for i, a := range n.Attr {
				if strings.Contains(strings.ToLower(a.Val), "currentcolor") {
					n.Attr[i].Val = replaceFold(a.Val, "currentcolor", "currentColor")
				}
			}
			for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
				walk(ch)
			}
		}
		walk(root)
	}
	var buf bytes.Buffer
	if err := html.Render(&buf, root); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func setStyle(n *html.Node, decl string) {
	for i, a := range n.Attr {
		if a.Key == "style" {
			n.Attr[i].Val = decl + ";" + a.Val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: "style", Val: decl})
}

// replaceFold replaces every case-insensitive occurrence of old in s.
func replaceFold(s, old, new string) string {
	var b strings.Builder
	lower := strings.ToLower(s)
	for {
		i := strings.Index(lower, old)
		if i < 0 {
			b.WriteString(s)
			return b.String()
		}
		b.WriteString(s[:i])
		b.WriteString(new)
		s, lower = s[i+len(old):], lower[i+len(old):]
	}
}
