package convert_test

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/cuishuai123/presenton/aggregate"
	"github.com/cuishuai123/presenton/attrs"
	"github.com/cuishuai123/presenton/backend"
	"github.com/cuishuai123/presenton/convert"
	"github.com/cuishuai123/presenton/dom/static"
	"github.com/cuishuai123/presenton/maybe"
	"github.com/cuishuai123/presenton/pptx"
	"github.com/cuishuai123/presenton/resolve"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runs(p []pptx.Paragraph) []string {
	var r []string
	for _, para := range p {
		for _, run := range para.Runs {
			label := run.Text
			if run.Font.Weight == 700 {
				label = "B:" + label
			}
			if run.Font.Italic {
				label = "I:" + label
			}
			if run.Font.Name == convert.MonospaceFont {
				label = "C:" + label
			}
			r = append(r, label)
		}
		r = append(r, "¶")
	}
	return r
}

func TestShapeRules(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "presenton.convert")
	defer teardown()
	//
	pos := attrs.Position{Left: 10, Top: 20, Width: 100, Height: 50}
	text := convert.Shape(attrs.Record{
		Tag: "p", Position: pos, Text: maybe.Just("Hello"), TextWrap: true,
		TextAlign: maybe.Just("center"), LineHeight: maybe.Just(1.5),
		Font: maybe.Just(attrs.Font{Name: maybe.Just("Roboto"), Size: maybe.Just(20.0), Weight: maybe.Just(600)}),
	})
	box, ok := text.(*pptx.TextBox)
	require.True(t, ok)
	assert.True(t, box.TextWrap)
	require.Len(t, box.Paragraphs, 1)
	assert.Equal(t, "center", box.Paragraphs[0].Alignment)
	assert.Equal(t, 1.5, box.Paragraphs[0].LineHeight)
	assert.Equal(t, pptx.Font{Name: "Roboto", Size: 20, Weight: 600, Color: "000000"}, *box.Paragraphs[0].Runs[0].Font)
	//
	pic := convert.Shape(attrs.Record{
		Tag: "img", Position: pos, ImageSrc: maybe.Just("https://cdn.example.com/a.png"),
		Shape: maybe.Just(attrs.Circle), Filters: maybe.Just(attrs.Filters{attrs.Invert: 1}),
	}).(*pptx.Picture)
	assert.True(t, pic.Picture.IsNetwork)
	assert.Equal(t, "circle", pic.Shape)
	assert.True(t, pic.Invert)
	assert.Equal(t, 1.0, pic.Opacity)
	//
	rect := convert.Shape(attrs.Record{
		Tag: "div", Position: pos,
		Background:   maybe.Just(attrs.Background{Color: "FFFFFF", Opacity: maybe.Just(0.5)}),
		Border:       maybe.Just(attrs.Border{Color: maybe.Just("333333"), Width: maybe.Just(2.0)}),
		Shadow:       maybe.Just(attrs.Shadow{OffsetX: 3, OffsetY: 4, Color: "000000", Radius: 6}),
		BorderRadius: maybe.Just(attrs.Corners{8, 8, 8, 8}),
	}).(*pptx.AutoShape)
	assert.Equal(t, pptx.RoundedRectangle, rect.Type)
	assert.Equal(t, &pptx.Fill{Color: "FFFFFF", Opacity: 0.5}, rect.Fill)
	assert.Equal(t, &pptx.Stroke{Color: "333333", Thickness: 2, Opacity: 1}, rect.Stroke)
	assert.Equal(t, 5.0, rect.Shadow.Offset)
	//
	plain := convert.Shape(attrs.Record{Tag: "div", Position: pos, Shadow: maybe.Just(attrs.Shadow{Color: "000000", Inset: true})}).(*pptx.AutoShape)
	assert.Equal(t, pptx.Rectangle, plain.Type)
	assert.Nil(t, plain.Shadow)
	//
	hr := convert.Shape(attrs.Record{Tag: "hr", Position: pos, Border: maybe.Just(attrs.Border{Color: maybe.Just("CCCCCC"), Width: maybe.Just(1.0)})})
	assert.Equal(t, pptx.KindConnector, hr.Kind())
}

func TestParagraphsFromInlineMarkup(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "presenton.convert")
	defer teardown()
	//
	base := pptx.Font{Name: "Inter", Size: 16, Weight: 400, Color: "000000"}
	paras := convert.Paragraphs("Plain <strong>bold</strong> and <em>it<code>x</code></em>", base)
	assert.Equal(t, []string{"Plain ", "B:bold", " and ", "I:it", "C:I:x", "¶"}, runs(paras))
	paras = convert.Paragraphs("first\n\n  second  ", base)
	assert.Equal(t, []string{"first", "¶", "second", "¶"}, runs(paras))
	paras = convert.Paragraphs("a <b>b</b><br>  c &amp; d", base)
	assert.Equal(t, []string{"a ", "B:b", "¶", "c & d", "¶"}, runs(paras))
}

func TestPlainTextIsNotParsedAsMarkup(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "presenton.convert")
	defer teardown()
	//
	pos := attrs.Position{Left: 10, Top: 20, Width: 300, Height: 50}
	for _, text := range []string{"if a<b then c", "Tom & <Jerry>", "x <strong>y</strong>"} {
		box, ok := convert.Shape(attrs.Record{Tag: "div", Position: pos, Text: maybe.Just(text)}).(*pptx.TextBox)
		require.True(t, ok)
		assert.Equal(t, []string{text, "¶"}, runs(box.Paragraphs))
	}
	rich := convert.Shape(attrs.Record{Tag: "p", Position: pos, Text: maybe.Just("x <strong>y</strong>"), Markup: true})
	assert.Equal(t, []string{"x ", "B:y", "¶"}, runs(rich.(*pptx.TextBox).Paragraphs))
}

func TestMarkdownRuns(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "presenton.convert")
	defer teardown()
	//
	paras := convert.Markdown("Revenue **grew** by *half*", convert.DirectFont)
	assert.Equal(t, []string{"Revenue ", "B:grew", " by ", "I:half", "¶"}, runs(paras))
	assert.Equal(t, "Arial", paras[0].Runs[0].Font.Name)
	paras = convert.Markdown("2024. A year of growth", convert.DirectFont)
	assert.Equal(t, []string{"2024. A year of growth", "¶"}, runs(paras), "unstyled text is verbatim")
}

func TestDirectConversion(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "presenton.convert")
	defer teardown()
	//
	p := &backend.Presentation{ID: "42", Slides: []backend.Slide{
		{Index: 1, SpeakerNote: "second", Content: json.RawMessage(`{"title":"Second slide"}`)},
		{Index: 0, Content: json.RawMessage(`{
			"title": "  Quarterly results  ",
			"image": {"__image_prompt__": "a chart of revenue", "url": "https://x/y.png"},
			"bullets": [{"text": "Revenue **grew**"}, {"text": "Quarterly results"}, {"text": "ok"}],
			"icon": {"__icon_query__": "money bag"},
			"logo_src": "logo.svg",
			"count": 12
		}`)},
	}}
	model, err := convert.Direct(p)
	require.NoError(t, err)
	assert.Equal(t, "Presentation 42", model.Name)
	require.Len(t, model.Slides, 2)
	first := model.Slides[0]
	require.Len(t, first.Shapes, 2)
	b0 := first.Shapes[0].(*pptx.TextBox)
	b1 := first.Shapes[1].(*pptx.TextBox)
	assert.Equal(t, "Quarterly results", b0.Paragraphs[0].Text())
	assert.Equal(t, pptx.Position{Left: 50, Top: 100, Width: 1180, Height: 100}, b0.Position)
	assert.Equal(t, pptx.Position{Left: 60, Top: 180, Width: 1180, Height: 100}, b1.Position)
	assert.Equal(t, []string{"Revenue ", "B:grew", "¶"}, runs(b1.Paragraphs))
	assert.Equal(t, "", first.SpeakerNote)
	assert.Equal(t, "second", model.Slides[1].SpeakerNote)
	//
	_, err = convert.Direct(&backend.Presentation{ID: "x"})
	assert.ErrorIs(t, err, backend.ErrNoSlides)
}

func TestContentStringsKeepKeyOrder(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "presenton.convert")
	defer teardown()
	//
	texts, err := convert.ContentStrings(json.RawMessage(`{"zeta":"last key first","alpha":["one two","three four"]}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"last key first", "one two", "three four"}, texts)
	_, err = convert.ContentStrings(json.RawMessage(`{"a":`))
	assert.Error(t, err)
}

func TestScenarioFullBleedImage(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "presenton.convert")
	defer teardown()
	//
	page := `<html><head><style>body { margin: 0; }</style></head><body>
	<div class="slide" style="position:relative;width:1280px;height:720px">
	<img src="https://cdn.example.com/bg.jpg" style="position:absolute;left:0;top:0;width:1280px;height:720px">
	<p style="position:absolute;left:440px;top:340px;width:400px;margin:0;text-align:center;color:#ffffff">Welcome</p>
	</div></body></html>`
	doc, err := static.Parse(strings.NewReader(page))
	require.NoError(t, err)
	roots, err := doc.Query(context.Background(), ".slide")
	require.NoError(t, err)
	agg := aggregate.New(resolve.New(resolve.DefaultPolicy()), aggregate.DefaultPolicy())
	result, err := agg.Aggregate(context.Background(), roots[0])
	require.NoError(t, err)
	result.SpeakerNote = "Say hello"
	model := convert.Convert("Deck", []attrs.SlideResult{result})
	require.Len(t, model.Slides, 1)
	slide := model.Slides[0]
	assert.Nil(t, slide.Background)
	assert.Equal(t, "Say hello", slide.SpeakerNote)
	require.Len(t, slide.Shapes, 2)
	assert.Equal(t, pptx.KindPicture, slide.Shapes[0].Kind())
	assert.Equal(t, pptx.KindTextBox, slide.Shapes[1].Kind())
	text := slide.Shapes[1].(*pptx.TextBox)
	assert.Equal(t, "Welcome", text.Paragraphs[0].Text())
	assert.Equal(t, "FFFFFF", text.Paragraphs[0].Runs[0].Font.Color)
}
