package highlight

import (
	"encoding/json"
	"testing"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestFromPayload(t *testing.T) {
	p := Payload{
		MarkdownContent: fox,
		Highlights: []HighlightPayload{
			{Term: "quick", Title: "Quick", Color: "#e3f2fd"},
			{Position: []int{10, 15}, Category: "color"},
			{Term: "fox", Position: []int{16, 19}},
			{},
			{Term: "brown", Position: []int{1}},
			{Position: []int{1, 2, 3}},
		},
	}

	doc, diags := FromPayload(p)

	require.Len(t, doc.Highlights, 6, "definitions are never dropped at the boundary")
	assert.Equal(t, fox, doc.Content)
	assert.Equal(t, Term{Text: "quick"}, doc.Highlights[0].Selector)
	assert.Equal(t, "Quick", doc.Highlights[0].Title)
	assert.Equal(t, "#e3f2fd", doc.Highlights[0].Color)
	assert.Equal(t, Position{Start: 10, End: 15}, doc.Highlights[1].Selector)
	assert.Equal(t, "color", doc.Highlights[1].Category)
	assert.Equal(t, Position{Start: 16, End: 19}, doc.Highlights[2].Selector)
	assert.Equal(t, "fox", doc.Highlights[2].ShadowedTerm)
	assert.Nil(t, doc.Highlights[3].Selector)
	assert.Equal(t, Term{Text: "brown"}, doc.Highlights[4].Selector)
	assert.Nil(t, doc.Highlights[5].Selector)

	want := []Diagnostic{
		{Index: 2, Code: CodeAmbiguousSelector},
		{Index: 3, Code: CodeEmptySelector},
		{Index: 4, Code: CodeInvalidPosition},
		{Index: 5, Code: CodeInvalidPosition},
		{Index: 5, Code: CodeEmptySelector},
	}
	require.Len(t, diags, len(want))
	for i, d := range diags {
		assert.Equal(t, want[i].Index, d.Index)
		assert.Equal(t, want[i].Code, d.Code)
		assert.NotEmpty(t, d.Message)
	}
}

func TestToPayload_Normalizes(t *testing.T) {
	doc := Document{
		Content: fox,
		Highlights: []Definition{
			{Selector: Term{Text: "fox"}, Title: "Fox"},
			{Selector: Position{Start: 0, End: 3}},
			{},
		},
	}

	p := ToPayload(doc)
	data, err := json.Marshal(p)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"markdown_content": "The quick brown fox",
		"highlights": [
			{"term": "fox", "position": [], "title": "Fox", "content": "", "category": "", "color": ""},
			{"term": "", "position": [0, 3], "title": "", "content": "", "category": "", "color": ""},
			{"term": "", "position": [], "title": "", "content": "", "category": "", "color": ""}
		]
	}`, string(data))

	empty, err := json.Marshal(ToPayload(Document{}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"markdown_content": "", "highlights": []}`, string(empty))
}

func TestPayload_RoundTripThroughDocument(t *testing.T) {
	in := Payload{
		MarkdownContent: "# Title\n\nBody text",
		Highlights: []HighlightPayload{
			{Term: "Body", Position: []int{}, Title: "b"},
			{Position: []int{2, 7}, Content: "**bold**"},
		},
	}

	doc, diags := FromPayload(in)
	require.Empty(t, diags)
	assert.Equal(t, in, ToPayload(doc))
}

func TestPayload_RoundTripKeepsShadowedTerm(t *testing.T) {
	in := Payload{
		MarkdownContent: fox,
		Highlights: []HighlightPayload{
			{Term: "fox", Position: []int{16, 19}, Title: "both"},
		},
	}

	doc, diags := FromPayload(in)
	require.Len(t, diags, 1)
	assert.Equal(t, CodeAmbiguousSelector, diags[0].Code)

	spans, _ := Resolve(doc.Content, doc.Highlights)
	assert.Equal(t, []Span{{Start: 16, End: 19, Index: 0}}, spans)

	out := ToPayload(doc.Clone())
	assert.Equal(t, in, out)

	again, diags := FromPayload(out)
	assert.Len(t, diags, 1)
	assert.Equal(t, doc, again)
}

func TestPayload_DecodeYAML(t *testing.T) {
	src := `
markdown_content: |
  # Sample
highlights:
  - term: Sample
    title: Sample
  - position: [0, 1]
    color: "#fff3e0"
`
	var p Payload
	require.NoError(t, yaml.Unmarshal([]byte(src), &p))

	doc, diags := FromPayload(p)
	require.Empty(t, diags)
	assert.Equal(t, "# Sample\n", doc.Content)
	assert.Equal(t, Term{Text: "Sample"}, doc.Highlights[0].Selector)
	assert.Equal(t, Position{Start: 0, End: 1}, doc.Highlights[1].Selector)
	assert.Equal(t, "#fff3e0", doc.Highlights[1].Color)
}

func TestPayload_Validate(t *testing.T) {
	p := Payload{
		MarkdownContent: fox,
		Highlights: []HighlightPayload{
			{Term: "fox"},
			{},
			{Term: "x", Position: []int{0, 1}},
			{Position: []int{1}},
			{Position: []int{5, 2}},
			{Position: []int{5, 40}},
			{Position: []int{0, 19}, Color: "#e3f2fd"},
			{Term: "fox", Color: "red; x"},
		},
	}

	err := p.Validate()

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	require.Len(t, fieldErrs, 6)
	assert.Equal(t, "highlights[1]", fieldErrs[0].Field)
	assert.Equal(t, "highlights[2]", fieldErrs[1].Field)
	assert.Equal(t, "highlights[3].position", fieldErrs[2].Field)
	assert.Equal(t, "highlights[4].position", fieldErrs[3].Field)
	assert.Equal(t, "highlights[5].position", fieldErrs[4].Field)
	assert.Contains(t, fieldErrs[4].Err.Error(), "exceeds content length 19")
	assert.Equal(t, "highlights[7].color", fieldErrs[5].Field)

	assert.NoError(t, Payload{MarkdownContent: fox}.Validate())
}
