package aggregate_test

import (
	"context"
	"strings"
	"testing"

	"github.com/cuishuai123/presenton/aggregate"
	"github.com/cuishuai123/presenton/attrs"
	"github.com/cuishuai123/presenton/dom"
	"github.com/cuishuai123/presenton/dom/static"
	"github.com/cuishuai123/presenton/maybe"
	"github.com/cuishuai123/presenton/resolve"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func slideRoot(t *testing.T, markup string) dom.Element {
	page := `<html><head><style>body { margin: 0; }</style></head><body>` + markup + `</body></html>`
	doc, err := static.Parse(strings.NewReader(page))
	require.NoError(t, err)
	slides, err := doc.Query(context.Background(), ".slide")
	require.NoError(t, err)
	require.NotEmpty(t, slides)
	return slides[0]
}

func aggregator() *aggregate.Aggregator {
	return aggregate.New(resolve.New(resolve.DefaultPolicy()), aggregate.DefaultPolicy())
}

func tags(elems []attrs.Record) []string {
	var t []string
	for _, e := range elems {
		t = append(t, e.Tag+"#"+e.ID)
	}
	return t
}

func TestFullBleedImageWithCaption(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "presenton.aggregate")
	defer teardown()
	//
	root := slideRoot(t, `<div class="slide" style="position:relative;width:1280px;height:720px">
	<img id="bg" src="bg.png" style="position:absolute;left:0;top:0;width:1280px;height:720px">
	<p id="caption" style="position:absolute;left:440px;top:340px;width:400px;margin:0;font-size:32px;text-align:center">Welcome</p>
	</div>`)
	result, err := aggregator().Aggregate(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, result.Elements, 2, "elements: %v", tags(result.Elements))
	assert.True(t, result.BackgroundColor.IsNothing())
	img, caption := result.Elements[0], result.Elements[1]
	assert.Equal(t, "img", img.Tag)
	assert.Equal(t, attrs.Position{Width: 1280, Height: 720}, img.Position)
	assert.Equal(t, attrs.Rectangle, img.Shape.WithDefault(""))
	assert.Equal(t, "p", caption.Tag)
	assert.Equal(t, "Welcome", caption.Text.WithDefault(""))
	assert.Equal(t, "center", caption.TextAlign.WithDefault(""))
	assert.Equal(t, 440.0, caption.Position.Left)
}

func TestTableIsRasterizedAsOneElement(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "presenton.aggregate")
	defer teardown()
	//
	root := slideRoot(t, `<div class="slide" style="position:relative;width:640px;height:360px">
	<table id="data" style="position:absolute;left:20px;top:30px;width:300px;height:100px">
	  <tr><td style="background-color:#eeeeee">A</td><td>1</td></tr>
	  <tr><td>B</td><td>2</td></tr>
	</table></div>`)
	result, err := aggregator().Aggregate(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, result.Elements, 1, "elements: %v", tags(result.Elements))
	table := result.Elements[0]
	assert.Equal(t, "table", table.Tag)
	assert.True(t, table.Rasterize)
	assert.Equal(t, attrs.Position{Left: 40, Top: 60, Width: 600, Height: 200}, table.Position)
	assert.NotNil(t, table.Element)
}

func TestPaintOrderAndFilters(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "presenton.aggregate")
	defer teardown()
	//
	root := slideRoot(t, `<div class="slide" style="position:relative;width:1280px;height:720px;background-color:#f0f0f0">
	<div id="card" style="position:absolute;left:100px;top:100px;width:300px;height:200px;background-color:#ffffff">
	  <h1 id="title" style="margin:0;font-size:24px">Card title</h1>
	</div>
	<div id="badge" style="position:absolute;left:10px;top:10px;width:50px;height:20px;z-index:3;background-color:#ff0000"></div>
	<div id="full" style="position:absolute;left:0;top:0;width:1280px;height:720px;background-color:#000000"></div>
	<div id="collapsed" style="height:0">
	  <span id="dot" style="position:absolute;left:500px;top:500px;width:10px;height:10px;background-color:#00ff00"></span>
	</div>
	<div id="glow" style="position:absolute;left:600px;top:100px;width:100px;height:100px;box-shadow:2px 2px 4px #333333"></div>
	<script>var x = 1;</script>
	</div>`)
	result, err := aggregator().Aggregate(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, "F0F0F0", result.BackgroundColor.WithDefault(""))
	assert.Equal(t, []string{"div#badge", "div#card", "div#glow", "h1#title", "span#dot"}, tags(result.Elements))
	glow := result.Elements[2]
	bg, ok := glow.Background.Get()
	require.True(t, ok, "shadowed element should get a background")
	assert.Equal(t, "F0F0F0", bg.Color)
	assert.Equal(t, "333333", glow.Shadow.WithDefault(attrs.Shadow{}).Color)
	for _, e := range result.Elements {
		assert.Greater(t, e.Position.Width, 0.0)
		assert.Greater(t, e.Position.Height, 0.0)
	}
}

func TestParagraphWithInlineFormatting(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "presenton.aggregate")
	defer teardown()
	//
	root := slideRoot(t, `<div class="slide" style="position:relative;width:1280px;height:720px">
	<p id="rich" style="margin:0">Plain <strong>bold</strong> and <em>it<code>x</code></em></p>
	<p id="mixed" style="margin:0">Text <span>in span</span></p>
	<p id="cmp" style="margin:0">if a &lt; b then c</p>
	</div>`)
	result, err := aggregator().Aggregate(context.Background(), root)
	require.NoError(t, err)
	require.Equal(t, []string{"p#rich", "span#", "p#cmp"}, tags(result.Elements))
	assert.Equal(t, "Plain <strong>bold</strong> and <em>it<code>x</code></em>", result.Elements[0].Text.WithDefault(""))
	assert.True(t, result.Elements[0].Markup)
	assert.False(t, result.Elements[1].Markup)
	assert.Equal(t, "if a < b then c", result.Elements[2].Text.WithDefault(""))
	assert.False(t, result.Elements[2].Markup, "text without formatting is kept as plain text")
}

func TestScaleIsClamped(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "presenton.aggregate")
	defer teardown()
	//
	c := aggregate.Canonical{Width: 1280, Height: 720}
	sc := aggregate.NewScale(attrs.Position{Left: 5, Top: 5, Width: 200, Height: 100}, c, 0.5, 2)
	assert.Equal(t, 2.0, sc.X)
	assert.Equal(t, 2.0, sc.Y)
	pos, ok := sc.Apply(attrs.Position{Left: 15, Top: 15, Width: 50, Height: 20}, c)
	require.True(t, ok)
	assert.Equal(t, attrs.Position{Left: 20, Top: 20, Width: 100, Height: 40}, pos)
	sc = aggregate.NewScale(attrs.Position{Width: 5120, Height: 720}, c, 0.5, 2)
	assert.Equal(t, 0.5, sc.X)
	assert.Equal(t, 1.0, sc.Y)
	sc = aggregate.NewScale(attrs.Position{}, c, 0.5, 2)
	assert.Equal(t, 1.0, sc.X)
	// clamping to the slide
	pos, ok = sc.Apply(attrs.Position{Left: -50, Top: 700, Width: 2000, Height: 0.6}, c)
	require.True(t, ok)
	assert.Equal(t, attrs.Position{Left: 0, Top: 700, Width: 1280, Height: 1}, pos)
	_, ok = sc.Apply(attrs.Position{Width: 100, Height: 0.4}, c)
	assert.False(t, ok, "boxes rounding to zero height are dropped")
}

func TestInheritance(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "presenton.aggregate")
	defer teardown()
	//
	font := attrs.Font{Name: maybe.Just("Inter"), Size: maybe.Just(20.0)}
	parent := attrs.Record{
		Font:       maybe.Just(font),
		Background: maybe.Just(attrs.Background{Color: "112233"}),
		ZIndex:     4,
		Opacity:    maybe.Just(0.5),
	}
	in := aggregate.Seed(parent)
	child := in.Apply(attrs.Record{Text: maybe.Just("hi"), Opacity: maybe.Just(1.0)})
	assert.Equal(t, "Inter", child.Font.WithDefault(attrs.Font{}).Name.WithDefault(""))
	assert.Equal(t, 4, child.ZIndex)
	assert.Equal(t, 0.5, child.Opacity.WithDefault(1))
	assert.True(t, child.Background.IsNothing(), "only shadowed elements inherit backgrounds")
	//
	own := in.Apply(attrs.Record{ZIndex: 7, Opacity: maybe.Just(0.9)})
	assert.Equal(t, 7, own.ZIndex)
	assert.Equal(t, 0.9, own.Opacity.WithDefault(1))
	assert.True(t, own.Font.IsNothing(), "elements without text do not inherit fonts")
	//
	shadowed := in.Apply(attrs.Record{Shadow: maybe.Just(attrs.Shadow{Color: "000000"})})
	assert.Equal(t, "112233", shadowed.Background.WithDefault(attrs.Background{}).Color)
	//
	grand := in.For(own).Apply(attrs.Record{})
	assert.Equal(t, 7, grand.ZIndex)
	assert.Equal(t, 0.9, grand.Opacity.WithDefault(1))
}

func TestCancelledWalk(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "presenton.aggregate")
	defer teardown()
	//
	root := slideRoot(t, `<div class="slide" style="width:1280px;height:720px"><div style="height:10px"></div></div>`)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := aggregator().Aggregate(ctx, root)
	assert.ErrorIs(t, err, context.Canceled)
}
