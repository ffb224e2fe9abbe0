package render

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/hay-kot/mdlabel/internal/core/highlight"
)

func renderDoc(t *testing.T, content string, defs ...highlight.Definition) *Result {
	t.Helper()
	spans, _ := highlight.Resolve(content, defs)
	return New(zerolog.Nop()).Render(content, defs, highlight.Merge(spans))
}

func TestRender_Plain(t *testing.T) {
	res := renderDoc(t, "The quick brown fox",
		highlight.Definition{Selector: highlight.Position{Start: 4, End: 9}, Title: "Quick"},
	)

	require.Len(t, res.Blocks, 1)
	assert.Equal(t, BlockParagraph, res.Blocks[0].Kind)
	assert.Equal(t, "The quick brown fox", res.Text())

	frags := res.Fragments("hl-0")
	require.Len(t, frags, 1)
	assert.Equal(t, "quick", frags[0].Text)
	assert.Equal(t, Range{Start: 4, End: 9}, frags[0].Source)
	assert.Equal(t, "Quick", frags[0].Highlight.Title)
	assert.Equal(t, 0, frags[0].Fragment)
	assert.Empty(t, res.Diagnostics)
}

func TestRender_HighlightInsideMarkup(t *testing.T) {
	content := "# Sample Document\n\nThis contains **artificial intelligence** and *machine learning* terms."
	res := renderDoc(t, content,
		highlight.Definition{Selector: highlight.Term{Text: "artificial intelligence"}},
		highlight.Definition{Selector: highlight.Term{Text: "machine"}},
	)

	require.Len(t, res.Blocks, 2)
	assert.Equal(t, BlockHeading, res.Blocks[0].Kind)
	assert.Equal(t, 1, res.Blocks[0].Level)
	assert.Equal(t, "Sample Document\n\nThis contains artificial intelligence and machine learning terms.", res.Text())

	ai := res.Fragments("hl-0")
	require.Len(t, ai, 1)
	assert.Equal(t, "artificial intelligence", ai[0].Text)
	assert.Equal(t, Range{Start: 35, End: 58}, ai[0].Source)
	assert.True(t, ai[0].Style.Has(StyleStrong))
	assert.Equal(t, 1, ai[0].Block)

	ml := res.Fragments("hl-1")
	require.Len(t, ml, 1)
	assert.Equal(t, "machine", ml[0].Text)
	assert.True(t, ml[0].Style.Has(StyleEmphasis))

	// The raw range of every mapped segment points at its own text.
	for _, s := range res.Segments {
		run := RunOf(s)
		if !run.Source.Mapped() {
			continue
		}
		raw := []rune(content)[run.Source.Start:run.Source.End]
		assert.Equal(t, string(raw), run.Text)
	}
}

func TestRender_SpanAcrossBlocks(t *testing.T) {
	content := "Intro line\n\n- alpha beta\n- gamma\n\nOutro"

	res := renderDoc(t, content,
		highlight.Definition{Selector: highlight.Position{Start: 20, End: 39}, Title: "Across"},
	)

	require.Len(t, res.Blocks, 4)
	frags := res.Fragments("hl-0")
	require.Len(t, frags, 3)

	assert.Equal(t, []string{"beta", "gamma", "Outro"}, []string{frags[0].Text, frags[1].Text, frags[2].Text})
	assert.Equal(t, []int{1, 2, 3}, []int{frags[0].Block, frags[1].Block, frags[2].Block})
	for i, f := range frags {
		assert.Equal(t, "hl-0", f.ID)
		assert.Equal(t, i, f.Fragment)
		assert.Equal(t, "Across", f.Highlight.Title)
	}

	assert.Equal(t, []string{"hl-0"}, res.HighlightIDs())

	items := res.Blocks[1].Containers
	require.Len(t, items, 2)
	assert.Equal(t, ContainerList, items[0].Kind)
	assert.Equal(t, ContainerListItem, items[1].Kind)
	assert.Equal(t, items[0].ID, res.Blocks[2].Containers[0].ID, "items share one list")
	assert.NotEqual(t, items[1].ID, res.Blocks[2].Containers[1].ID)
	assert.Empty(t, res.Blocks[3].Containers)
}

func TestRender_OverlapPrecedence(t *testing.T) {
	res := renderDoc(t, "The quick brown fox",
		highlight.Definition{Selector: highlight.Position{Start: 0, End: 9}},
		highlight.Definition{Selector: highlight.Term{Text: "quick"}},
	)

	assert.Len(t, res.Fragments("hl-0"), 1)
	assert.Empty(t, res.Fragments("hl-1"))
	assert.Equal(t, []highlight.Span{{Start: 0, End: 9, Index: 0}}, res.Spans)
}

func TestRender_CodeBlock(t *testing.T) {
	content := "```go\nx := compute()\n```\n"
	res := renderDoc(t, content, highlight.Definition{Selector: highlight.Term{Text: "compute"}})

	require.Len(t, res.Blocks, 1)
	assert.Equal(t, BlockCode, res.Blocks[0].Kind)
	assert.Equal(t, "go", res.Blocks[0].Language)
	assert.Equal(t, "x := compute()\n", res.Text())

	frags := res.Fragments("hl-0")
	require.Len(t, frags, 1)
	assert.Equal(t, "compute", frags[0].Text)
}

func TestRender_EscapesAndEntities(t *testing.T) {
	res := renderDoc(t, `AT&amp;T \*not emphasis\* and `+"`a&amp;b`")
	assert.Equal(t, "AT&T *not emphasis* and a&amp;b", res.Text())
}

func TestRender_SpanCutsEscape(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		term      string
		text      string
		highlight string
		source    Range
	}{
		{
			name:      "backslash escape",
			content:   `a\*b`,
			term:      "*b",
			text:      "a*b",
			highlight: "*b",
			source:    Range{Start: 1, End: 4},
		},
		{
			name:      "entity reference",
			content:   "AT&amp;T",
			term:      "amp",
			text:      "AT&T",
			highlight: "&",
			source:    Range{Start: 2, End: 7},
		},
		{
			name:      "numeric reference",
			content:   "x &#35; y",
			term:      "35",
			text:      "x # y",
			highlight: "#",
			source:    Range{Start: 2, End: 7},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := renderDoc(t, tt.content, highlight.Definition{Selector: highlight.Term{Text: tt.term}})

			assert.Equal(t, tt.text, res.Text())
			frags := res.Fragments("hl-0")
			require.Len(t, frags, 1)
			assert.Equal(t, tt.highlight, frags[0].Text)
			assert.Equal(t, tt.source, frags[0].Source)
		})
	}
}

func TestRender_AdjacentSpansShareEscape(t *testing.T) {
	res := renderDoc(t, "AT&amp;T",
		highlight.Definition{Selector: highlight.Position{Start: 0, End: 4}},
		highlight.Definition{Selector: highlight.Position{Start: 4, End: 8}},
	)

	assert.Equal(t, "AT&T", res.Text())
	first := res.Fragments("hl-0")
	require.Len(t, first, 1)
	assert.Equal(t, "AT&", first[0].Text)
	second := res.Fragments("hl-1")
	require.Len(t, second, 1)
	assert.Equal(t, "T", second[0].Text)
}

func TestRender_SyntheticText(t *testing.T) {
	res := renderDoc(t, "line one\nline two <https://example.com>")

	assert.Equal(t, "line one\nline two https://example.com", res.Text())

	var link *PlainSegment
	for _, s := range res.Segments {
		if p, ok := s.(*PlainSegment); ok && p.Style.Has(StyleLink) {
			link = p
		}
	}
	require.NotNil(t, link)
	assert.Equal(t, "https://example.com", link.Link)
	assert.False(t, link.Source.Mapped())
}

func TestRender_FragmentsAcrossInlineStyles(t *testing.T) {
	content := "plain **bold** tail"
	res := renderDoc(t, content, highlight.Definition{Selector: highlight.Position{Start: 3, End: 17}})

	frags := res.Fragments("hl-0")
	texts := make([]string, 0, len(frags))
	for _, f := range frags {
		texts = append(texts, f.Text)
	}
	assert.Equal(t, "in bold ta", strings.Join(texts, ""))
	assert.Greater(t, len(frags), 1)
	assert.Equal(t, len(frags)-1, frags[len(frags)-1].Fragment)
}

func TestLiteral(t *testing.T) {
	content := "# not a heading\n*still literal*"
	defs := []highlight.Definition{{Selector: highlight.Term{Text: "literal"}}}
	spans, _ := highlight.Resolve(content, defs)

	res := literal([]byte(content), content, defs, spans)

	require.Len(t, res.Blocks, 1)
	assert.Equal(t, BlockParagraph, res.Blocks[0].Kind)
	assert.Equal(t, content, res.Text())
	assert.Len(t, res.Fragments("hl-0"), 1)
}

// explodingParser panics whenever the inline parser reaches a '~'.
type explodingParser struct{}

func (explodingParser) Trigger() []byte { return []byte{'~'} }

func (explodingParser) Parse(ast.Node, text.Reader, parser.Context) ast.Node {
	panic("inline parser failure")
}

func TestRender_FallbackOnParserPanic(t *testing.T) {
	r := New(zerolog.Nop())
	r.md = goldmark.New(goldmark.WithParserOptions(
		parser.WithInlineParsers(util.Prioritized(explodingParser{}, 999)),
	))

	content := "# Title\n\nsome ~ text with *literal* markup"
	defs := []highlight.Definition{{Selector: highlight.Term{Text: "literal"}}}
	spans, _ := highlight.Resolve(content, defs)

	res := r.Render(content, defs, spans)

	require.Len(t, res.Blocks, 1)
	assert.Equal(t, BlockParagraph, res.Blocks[0].Kind)
	assert.Equal(t, content, res.Text())
	assert.Equal(t, spans, res.Spans)

	frags := res.Fragments("hl-0")
	require.Len(t, frags, 1)
	assert.Equal(t, "literal", frags[0].Text)

	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, highlight.CodeMarkdownFallback, res.Diagnostics[0].Code)
	assert.Contains(t, res.Diagnostics[0].Message, "inline parser failure")
}

func TestRender_Deterministic(t *testing.T) {
	content := "# A\n\n> quoted *alpha* beta\n\n1. one\n2. two alpha"
	defs := []highlight.Definition{
		{Selector: highlight.Term{Text: "alpha"}},
		{Selector: highlight.Position{Start: 4, End: 30}},
	}

	a := renderDoc(t, content, defs...)
	b := renderDoc(t, content, defs...)
	assert.Equal(t, a, b)
}
