package pptx_test

import (
	"encoding/json"
	"testing"

	"github.com/cuishuai123/presenton/pptx"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShapeTypeDispatch(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "presenton.pptx")
	defer teardown()
	//
	slide := pptx.Slide{
		SpeakerNote: "note",
		Shapes: []pptx.Shape{
			&pptx.AutoShape{Type: pptx.Rectangle, Fill: &pptx.Fill{Color: "FF0000", Opacity: 1}},
			&pptx.TextBox{TextWrap: true, Paragraphs: []pptx.Paragraph{{Runs: []pptx.TextRun{{Text: "Hi"}}}}},
			&pptx.Picture{Picture: pptx.PictureSource{Path: "/tmp/a.png"}},
		},
	}
	data, err := json.Marshal(slide)
	require.NoError(t, err)
	var generic map[string]any
	require.NoError(t, json.Unmarshal(data, &generic))
	shapes := generic["shapes"].([]any)
	assert.Equal(t, "autoshape", shapes[0].(map[string]any)["shape_type"])
	assert.Equal(t, "textbox", shapes[1].(map[string]any)["shape_type"])
	assert.Equal(t, true, shapes[1].(map[string]any)["text_wrap"])
	//
	var back pptx.Slide
	require.NoError(t, json.Unmarshal(data, &back))
	require.Len(t, back.Shapes, 3)
	assert.Equal(t, pptx.KindPicture, back.Shapes[2].Kind())
	assert.Equal(t, "Hi", back.Shapes[1].(*pptx.TextBox).Paragraphs[0].Text())
	//
	err = json.Unmarshal([]byte(`{"shapes":[{"shape_type":"chart"}]}`), &back)
	assert.Error(t, err)
}
