package paginate_test

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cuishuai123/presenton/dom"
	"github.com/cuishuai123/presenton/dom/static"
	"github.com/cuishuai123/presenton/paginate"
	"github.com/cuishuai123/presenton/surface"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const deck = `<html><head><title>Deck</title><style>
body { margin: 0; }
.slide { width: 1280px; height: 720px; position: relative; }
.mark { position: absolute; left: 10px; top: 10px; width: 100px; height: 40px; background-color: #ffffff; }
</style></head><body>
<div id="presentation-slides-wrapper">
  <div class="slide" id="s1" data-speaker-note="a" style="background-color:#ff0000"><div class="mark">One</div></div>
  <div class="slide" id="s2" data-speaker-note="b" style="background-color:#0000ff"><div class="mark">Two</div></div>
  <div class="slide" id="s3" data-speaker-note="c" style="background-color:#00ff00"><div class="mark">Three</div></div>
  <div class="slide" id="empty" data-speaker-note=""></div>
</div>
</body></html>`

// recorder keeps every capture of a surface.
type recorder struct {
	*static.Document
	mu       sync.Mutex
	captures [][]byte
}

func (r *recorder) Capture(ctx context.Context, clip dom.Rect) ([]byte, error) {
	data, err := r.Document.Capture(ctx, clip)
	r.mu.Lock()
	r.captures = append(r.captures, data)
	r.mu.Unlock()
	return data, err
}

func center(t *testing.T, data []byte) color.RGBA {
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 1280, img.Bounds().Dx())
	assert.Equal(t, 720, img.Bounds().Dy())
	return color.RGBAModel.Convert(img.At(640, 360)).(color.RGBA)
}

func quick() paginate.Policy {
	p := paginate.DefaultPolicy()
	p.FontBudget = 60 * time.Millisecond
	p.ImageBudget = 60 * time.Millisecond
	p.SettleBudget = 500 * time.Millisecond
	p.Interval = 10 * time.Millisecond
	return p
}

// deckWithSlowFonts delays fonts while slide 2 is shown.
func deckWithSlowFonts(t *testing.T) (*static.Document, *int) {
	var doc *static.Document
	delayed := 0
	fonts := func(ctx context.Context) (bool, error) {
		s2, err := doc.Query(ctx, "#s2")
		if err != nil {
			return false, err
		}
		if !s2[0].Rect().Empty() {
			delayed++
			return false, nil
		}
		return true, nil
	}
	doc, err := static.Parse(strings.NewReader(deck), static.WithFontsReady(fonts))
	require.NoError(t, err)
	return doc, &delayed
}

func TestThreeSlidesWithSlowFonts(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "presenton.paginate")
	defer teardown()
	//
	doc, delayed := deckWithSlowFonts(t)
	rec := &recorder{Document: doc}
	p := paginate.New(rec, &surface.RenderLock{}, paginate.PDFCPU{}, quick())
	var progress []int
	result, err := p.Paginate(context.Background(), nil, func(slide, total int) {
		assert.Equal(t, 3, total)
		progress = append(progress, slide)
	})
	require.NoError(t, err)
	assert.Greater(t, *delayed, 0, "fonts were delayed on slide 2")
	assert.Equal(t, []int{1, 2, 3}, progress)
	assert.False(t, result.Degraded)
	assert.Equal(t, 3, result.Pages)
	n, err := paginate.PageCount(result.PDF)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	//
	require.Len(t, rec.captures, 3)
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, center(t, rec.captures[0]))
	assert.Equal(t, color.RGBA{0, 0, 255, 255}, center(t, rec.captures[1]))
	assert.Equal(t, color.RGBA{0, 255, 0, 255}, center(t, rec.captures[2]))
	//
	slides, err := doc.Query(context.Background(), ".slide")
	require.NoError(t, err)
	for _, s := range slides[:3] {
		assert.False(t, s.Rect().Empty(), "visibility of %s is restored", s.ID())
	}
}

func blank() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 16, 9))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	return img
}

type failingMerger struct{}

func (failingMerger) Merge([][]byte, io.Writer) error {
	return errors.New("merge tool unavailable")
}

func TestMergeFailureDegradesToFirstPage(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "presenton.paginate")
	defer teardown()
	//
	doc, err := static.Parse(strings.NewReader(deck))
	require.NoError(t, err)
	p := paginate.New(doc, &surface.RenderLock{}, failingMerger{}, quick())
	result, err := p.Paginate(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.True(t, result.Degraded)
	assert.Equal(t, 1, result.Pages)
	assert.Equal(t, 3, result.Slides)
	n, err := paginate.PageCount(result.PDF)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestAssemble(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "presenton.paginate")
	defer teardown()
	//
	_, err := paginate.Assemble(nil, paginate.PDFCPU{})
	assert.ErrorIs(t, err, paginate.ErrNoPages)
	//
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, blank()))
	page, err := paginate.RenderPage(buf.Bytes(), paginate.PageSize{Width: 960, Height: 540})
	require.NoError(t, err)
	result, err := paginate.Assemble([][]byte{page}, failingMerger{})
	require.NoError(t, err, "a single page needs no merge")
	assert.False(t, result.Degraded)
	assert.Equal(t, page, result.PDF)
}

func TestSlideSelectionFallback(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "presenton.paginate")
	defer teardown()
	//
	page := `<html><body style="margin:0"><div id="root">
	<div class="s" style="width:1280px;height:720px">Slide</div>
	<div class="s" style="width:50px;height:50px">tiny</div>
	</div></body></html>`
	doc, err := static.Parse(strings.NewReader(page))
	require.NoError(t, err)
	ctx := context.Background()
	fallback, err := doc.Query(ctx, ".s")
	require.NoError(t, err)
	p := paginate.New(doc, &surface.RenderLock{}, paginate.PDFCPU{}, quick())
	slides, err := p.Slides(ctx, fallback)
	require.NoError(t, err)
	assert.Len(t, slides, 1)
	//
	_, err = p.Paginate(ctx, nil, nil)
	assert.ErrorIs(t, err, paginate.ErrNoPages)
}
