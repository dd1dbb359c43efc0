package convert

import (
	"github.com/cuishuai123/presenton/pptx"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var markdown = goldmark.New()

// Markdown splits a content string with markdown emphasis into runs.
// Strong emphasis becomes bold, emphasis becomes italic and code spans
// use the monospace font. Every block becomes a paragraph. Strings
// without emphasis or code are taken verbatim, so list markers and
// headings of unstyled text are not lost.
func Markdown(s string, base pptx.Font) []pptx.Paragraph {
	src := []byte(s)
	doc := markdown.Parser().Parse(text.NewReader(src))
	sp := &runSplitter{}
	fonts := []pptx.Font{base}
	styled := false
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		top := fonts[len(fonts)-1]
		switch n := n.(type) {
		case *ast.Paragraph, *ast.Heading, *ast.TextBlock:
			if entering {
				sp.paras = append(sp.paras, pptx.Paragraph{})
			}
		case *ast.Emphasis:
			if !entering {
				fonts = fonts[:len(fonts)-1]
				break
			}
			styled = true
			if n.Level >= 2 {
				top.Weight = 700
			} else {
				top.Italic = true
			}
			fonts = append(fonts, top)
		case *ast.CodeSpan:
			if !entering {
				fonts = fonts[:len(fonts)-1]
				break
			}
			styled = true
			top.Name = MonospaceFont
			fonts = append(fonts, top)
		case *ast.Text:
			if entering && len(sp.paras) > 0 {
				sp.add(string(n.Value(src)), top)
				if n.HardLineBreak() {
					sp.paras = append(sp.paras, pptx.Paragraph{})
				} else if n.SoftLineBreak() {
					sp.add(" ", top)
				}
			}
		case *ast.String:
			if entering && len(sp.paras) > 0 {
				sp.add(string(n.Value), top)
			}
		}
		return ast.WalkContinue, nil
	})
	paras := sp.finish()
	if err != nil || !styled || len(paras) == 0 {
		return plain(s, base)
	}
	return paras
}
