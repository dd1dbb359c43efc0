package paginate

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/jung-kurt/gofpdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// ErrNoPages is returned when there is nothing to assemble.
var ErrNoPages = errors.New("no pages captured")

// PageSize is the size of a PDF page in points.
type PageSize struct {
	Width, Height float64
}

// RenderPage makes a single-page PDF showing a PNG image across the page.
func RenderPage(png []byte, size PageSize) ([]byte, error) {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: size.Width, Ht: size.Height},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	opt := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("slide", opt, bytes.NewReader(png))
	pdf.ImageOptions("slide", 0, 0, size.Width, size.Height, false, opt, 0, "")
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("rendering page: %w", err)
	}
	return buf.Bytes(), nil
}

// Merger concatenates single-page PDF documents in order.
type Merger interface {
	Merge(pages [][]byte, w io.Writer) error
}

// PDFCPU merges documents with pdfcpu.
type PDFCPU struct{}

var disableConfig sync.Once

func pdfcpuConfig() *model.Configuration {
	disableConfig.Do(api.DisableConfigDir)
	return model.NewDefaultConfiguration()
}

// Merge implements Merger.
func (PDFCPU) Merge(pages [][]byte, w io.Writer) error {
	rsc := make([]io.ReadSeeker, len(pages))
	for i, p := range pages {
		rsc[i] = bytes.NewReader(p)
	}
	return api.MergeRaw(rsc, w, false, pdfcpuConfig())
}

// PageCount returns the number of pages of a PDF document.
func PageCount(pdf []byte) (int, error) {
	return api.PageCount(bytes.NewReader(pdf), pdfcpuConfig())
}

// Document is an assembled PDF.
type Document struct {
	PDF      []byte
	Pages    int  // pages in PDF
	Slides   int  // slides captured
	Degraded bool // merging failed, PDF has the first page only
}

// Assemble merges single-page documents into one. If merging fails, the
// result degrades to the first page only, flagged as Degraded.
func Assemble(pages [][]byte, merger Merger) (Document, error) {
	switch len(pages) {
	case 0:
		return Document{}, ErrNoPages
	case 1:
		return Document{PDF: pages[0], Pages: 1, Slides: 1}, nil
	}
	var buf bytes.Buffer
	if err := merger.Merge(pages, &buf); err != nil {
		tracer().P("pages", len(pages)).Errorf("merging failed, keeping first page only: %v", err)
		return Document{PDF: pages[0], Pages: 1, Slides: len(pages), Degraded: true}, nil
	}
	tracer().Infof("merged %d pages", len(pages))
	return Document{PDF: buf.Bytes(), Pages: len(pages), Slides: len(pages)}, nil
}
