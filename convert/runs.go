package convert

import (
	"strings"
	"unicode"

	"github.com/cuishuai123/presenton/pptx"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// MonospaceFont is used for runs from code markup.
const MonospaceFont = "Courier New"

// Paragraphs splits text into paragraphs of runs. Text may carry inline
// formatting markup (strong, b, em, i, u, s, code), which is turned into
// run fonts derived from base. Line breaks separate paragraphs.
func Paragraphs(text string, base pptx.Font) []pptx.Paragraph {
	if !strings.Contains(text, "<") {
		return plain(text, base)
	}
	ctx := &html.Node{Type: html.ElementNode, DataAtom: atom.Div, Data: "div"}
	nodes, err := html.ParseFragment(strings.NewReader(text), ctx)
	if err != nil {
		tracer().Errorf("cannot parse inline markup, using plain text: %v", err)
		return plain(html.UnescapeString(stripTags(text)), base)
	}
	s := &runSplitter{paras: []pptx.Paragraph{{}}}
	for _, n := range nodes {
		s.walk(n, base)
	}
	return s.finish()
}

// plain makes one paragraph with a single run per line of text.
func plain(text string, base pptx.Font) []pptx.Paragraph {
	var paras []pptx.Paragraph
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		f := base
		paras = append(paras, pptx.Paragraph{Runs: []pptx.TextRun{{Text: line, Font: &f}}})
	}
	return paras
}

type runSplitter struct {
	paras []pptx.Paragraph
}

func (s *runSplitter) walk(n *html.Node, f pptx.Font) {
	switch n.Type {
	case html.TextNode:
		s.add(collapse(n.Data), f)
		return
	case html.ElementNode:
	default:
		return
	}
	switch n.DataAtom {
	case atom.Br:
		s.paras = append(s.paras, pptx.Paragraph{})
		return
	case atom.Strong, atom.B:
		f.Weight = 700
	case atom.Em, atom.I:
		f.Italic = true
	case atom.U:
		f.Underline = true
	case atom.S, atom.Del, atom.Strike:
		f.Strike = true
	case atom.Code:
		f.Name = MonospaceFont
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		s.walk(c, f)
	}
}

// add appends text to the current paragraph, extending the last run if
// its font is equal.
func (s *runSplitter) add(text string, f pptx.Font) {
	if text == "" {
		return
	}
	p := &s.paras[len(s.paras)-1]
	if k := len(p.Runs); k > 0 && *p.Runs[k-1].Font == f {
		p.Runs[k-1].Text += text
		return
	}
	p.Runs = append(p.Runs, pptx.TextRun{Text: text, Font: &f})
}

// finish trims whitespace at paragraph boundaries and drops runs and
// paragraphs left empty.
func (s *runSplitter) finish() []pptx.Paragraph {
	var paras []pptx.Paragraph
	for _, p := range s.paras {
		if k := len(p.Runs); k > 0 {
			p.Runs[0].Text = strings.TrimLeft(p.Runs[0].Text, " ")
			p.Runs[k-1].Text = strings.TrimRight(p.Runs[k-1].Text, " ")
		}
		runs := p.Runs[:0]
		for _, r := range p.Runs {
			if r.Text != "" {
				runs = append(runs, r)
			}
		}
		if len(runs) > 0 {
			p.Runs = runs
			paras = append(paras, p)
		}
	}
	return paras
}

// collapse replaces runs of white space by a single blank.
func collapse(s string) string {
	var b strings.Builder
	space := false
	for _, r := range s {
		if unicode.IsSpace(r) {
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

func stripTags(s string) string {
	var b strings.Builder
	in := false
	for _, r := range s {
		switch {
		case r == '<':
			in = true
		case r == '>':
			in = false
		case !in:
			b.WriteRune(r)
		}
	}
	return b.String()
}
