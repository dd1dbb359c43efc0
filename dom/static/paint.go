package static

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg" // decode JPEG data URIs
	"image/png"
	"math"
	"net/url"
	"sort"
	"strings"

	"github.com/cuishuai123/presenton/dom"
	"github.com/cuishuai123/presenton/dom/style"
	"golang.org/x/image/draw"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var placeholder = color.NRGBA{0xcc, 0xcc, 0xcc, 0xff}

// paint renders the visible part of the document into an image covering
// the viewport and everything below it. Must be called with d.mu held.
func (d *Document) paint(boxes map[*html.Node]*box) *image.NRGBA {
	w, h := d.viewportW, d.viewportH
	for _, b := range boxes {
		if !b.hidden {
			w = math.Max(w, b.rect.Right())
			h = math.Max(h, b.rect.Bottom())
		}
	}
	canvas := image.NewNRGBA(image.Rect(0, 0, int(math.Ceil(w)), int(math.Ceil(h))))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	var order []*html.Node
	var collect func(n *html.Node)
	collect = func(n *html.Node) {
		for _, ch := range elementChildren(n) {
			if b := boxes[ch]; b != nil && !b.hidden {
				order = append(order, ch)
				collect(ch)
			}
		}
	}
	collect(d.root)
	sort.SliceStable(order, func(i, j int) bool { return boxes[order[i]].z < boxes[order[j]].z })
	for _, n := range order {
		b := boxes[n]
		if b.opacity <= 0 || b.rect.Empty() || d.style(n, "visibility").Keyword() == "hidden" {
			continue
		}
		d.paintBox(canvas, n, b)
	}
	return canvas
}

func (d *Document) paintBox(canvas *image.NRGBA, n *html.Node, b *box) {
	r := pixelRect(b.rect)
	if c, ok := d.style(n, "background-color").Color(); ok && c.A > 0 {
		fill(canvas, r, c, b.opacity)
	}
	if img := backgroundImage(d.style(n, "background-image")); img != nil {
		drawImage(canvas, r, img, b.opacity)
	}
	switch n.DataAtom {
	case atom.Img:
		src, _ := attr(n, "src")
		if img, err := decodeDataURI(src); err == nil {
			drawImage(canvas, r, img, b.opacity)
		} else {
			fill(canvas, r, placeholder, b.opacity)
		}
	case atom.Canvas, atom.Svg:
		fill(canvas, r, placeholder, b.opacity)
	}
	for i, side := range style.FourDirs {
		width, _ := d.style(n, "border-"+side+"-width").Px()
		if width <= 0 {
			continue
		}
		c, ok := d.style(n, "border-"+side+"-color").Color()
		if !ok || c.A == 0 {
			continue
		}
		wpx := int(math.Ceil(width))
		var edge image.Rectangle
		switch i {
		case 0:
			edge = image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+wpx)
		case 1:
			edge = image.Rect(r.Max.X-wpx, r.Min.Y, r.Max.X, r.Max.Y)
		case 2:
			edge = image.Rect(r.Min.X, r.Max.Y-wpx, r.Max.X, r.Max.Y)
		default:
			edge = image.Rect(r.Min.X, r.Min.Y, r.Min.X+wpx, r.Max.Y)
		}
		fill(canvas, edge, c, b.opacity)
	}
}

func pixelRect(r dom.Rect) image.Rectangle {
	return image.Rect(
		int(math.Round(r.X)), int(math.Round(r.Y)),
		int(math.Round(r.Right())), int(math.Round(r.Bottom())))
}

func fill(canvas *image.NRGBA, r image.Rectangle, c color.NRGBA, opacity float64) {
	c.A = uint8(math.Round(float64(c.A) * opacity))
	draw.Draw(canvas, r, image.NewUniform(c), image.Point{}, draw.Over)
}

func drawImage(canvas *image.NRGBA, r image.Rectangle, img image.Image, opacity float64) {
	if opacity >= 1 {
		draw.CatmullRom.Scale(canvas, r, img, img.Bounds(), draw.Over, nil)
		return
	}
	scaled := image.NewNRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.CatmullRom.Scale(scaled, scaled.Bounds(), img, img.Bounds(), draw.Src, nil)
	mask := image.NewUniform(color.Alpha{A: uint8(math.Round(255 * opacity))})
	draw.DrawMask(canvas, r, scaled, image.Point{}, mask, image.Point{}, draw.Over)
}

// backgroundImage decodes a data URI from a background-image value.
func backgroundImage(p style.Property) image.Image {
	v := strings.TrimSpace(p.String())
	if !strings.HasPrefix(strings.ToLower(v), "url(") || !strings.HasSuffix(v, ")") {
		return nil
	}
	ref := strings.Trim(strings.TrimSpace(v[4:len(v)-1]), `"'`)
	img, err := decodeDataURI(ref)
	if err != nil {
		return nil
	}
	return img
}

// decodeDataURI decodes PNG or JPEG images embedded as data URIs.
func decodeDataURI(src string) (image.Image, error) {
	if !strings.HasPrefix(src, "data:") {
		return nil, fmt.Errorf("not a data URI")
	}
	comma := strings.IndexByte(src, ',')
	if comma < 0 {
		return nil, fmt.Errorf("malformed data URI")
	}
	meta, payload := src[5:comma], src[comma+1:]
	var data []byte
	if strings.HasSuffix(meta, ";base64") {
		var err error
		if data, err = base64.StdEncoding.DecodeString(payload); err != nil {
			return nil, fmt.Errorf("data URI payload: %w", err)
		}
	} else {
		s, err := url.PathUnescape(payload)
		if err != nil {
			return nil, fmt.Errorf("data URI payload: %w", err)
		}
		data = []byte(s)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	return img, err
}

// crop copies a clip rectangle out of the canvas. Parts of the clip
// outside the canvas are white.
func crop(canvas *image.NRGBA, clip dom.Rect) ([]byte, error) {
	r := pixelRect(clip)
	if r.Empty() {
		return nil, fmt.Errorf("empty clip %s", clip)
	}
	out := image.NewNRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(out, out.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(out, out.Bounds(), canvas, r.Min, draw.Src)
	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
