package convert

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/cuishuai123/presenton/backend"
	"github.com/cuishuai123/presenton/pptx"
)

// DirectFont is the font of text boxes built by Direct.
var DirectFont = pptx.Font{Name: "Arial", Size: 24, Weight: 400, Color: "000000"}

// skippedPaths mark content fields which do not carry slide text.
var skippedPaths = []string{"__image_prompt__", "__icon_query__", "__icon_name__", "url", "src"}

// Direct converts a presentation's data into a model of plain text boxes,
// one per distinct content string of a slide.
func Direct(p *backend.Presentation) (pptx.Presentation, error) {
	if len(p.Slides) == 0 {
		return pptx.Presentation{}, backend.ErrNoSlides
	}
	slides := append([]backend.Slide(nil), p.Slides...)
	sort.SliceStable(slides, func(i, j int) bool { return slides[i].Index < slides[j].Index })
	model := pptx.Presentation{Name: p.Name(), Slides: make([]pptx.Slide, 0, len(slides))}
	for _, s := range slides {
		texts, err := ContentStrings(s.Content)
		if err != nil {
			return pptx.Presentation{}, fmt.Errorf("slide %d: %w", s.Index, err)
		}
		slide := pptx.Slide{SpeakerNote: s.SpeakerNote, Shapes: make([]pptx.Shape, 0, len(texts))}
		for i, text := range texts {
			slide.Shapes = append(slide.Shapes, &pptx.TextBox{
				Position: pptx.Position{
					Left:   50 + float64(i)*10,
					Top:    100 + float64(i)*80,
					Width:  1180,
					Height: 100,
				},
				TextWrap:   true,
				Paragraphs: Markdown(text, DirectFont),
			})
		}
		tracer().P("slide", s.Index).Debugf("direct conversion: %d text boxes", len(texts))
		model.Slides = append(model.Slides, slide)
	}
	return model, nil
}

// ContentStrings collects the strings of a slide's content in document
// order. Strings under fields for images and icons are skipped. Strings
// are trimmed and de-duplicated, and only strings longer than 3
// characters are kept.
func ContentStrings(content json.RawMessage) ([]string, error) {
	if len(bytes.TrimSpace(content)) == 0 {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(content))
	var texts []string
	if err := collect(dec, "", &texts); err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(texts))
	kept := texts[:0]
	for _, t := range texts {
		if seen[t] {
			continue
		}
		seen[t] = true
		if utf8.RuneCountInString(t) > 3 {
			kept = append(kept, t)
		}
	}
	return kept, nil
}

// collect reads one JSON value from dec. Object keys are visited in the
// order they appear.
func collect(dec *json.Decoder, path string, texts *[]string) error {
	tok, err := dec.Token()
	if errors.Is(err, io.EOF) {
		return nil
	} else if err != nil {
		return err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			for dec.More() {
				k, err := dec.Token()
				if err != nil {
					return err
				}
				key, _ := k.(string)
				sub := key
				if path != "" {
					sub = path + "." + key
				}
				if err := collect(dec, sub, texts); err != nil {
					return err
				}
			}
		case '[':
			for i := 0; dec.More(); i++ {
				if err := collect(dec, path+"["+strconv.Itoa(i)+"]", texts); err != nil {
					return err
				}
			}
		}
		_, err := dec.Token() // closing delimiter
		return err
	case string:
		s := strings.TrimSpace(t)
		if s == "" || skipped(path) {
			return nil
		}
		*texts = append(*texts, s)
	}
	return nil
}

func skipped(path string) bool {
	for _, p := range skippedPaths {
		if strings.Contains(path, p) {
			return true
		}
	}
	return false
}
