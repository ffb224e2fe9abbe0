package highlight

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fox = "The quick brown fox"

func TestResolve(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		defs      []Definition
		want      []Span
		wantCodes []Code
	}{
		{
			name:    "position exact",
			content: fox,
			defs:    []Definition{{Selector: Position{Start: 4, End: 9}}},
			want:    []Span{{Start: 4, End: 9, Index: 0}},
		},
		{
			name:    "term exact",
			content: fox,
			defs:    []Definition{{Selector: Term{Text: "brown fox"}}},
			want:    []Span{{Start: 10, End: 19, Index: 0}},
		},
		{
			name:    "term is case sensitive",
			content: fox,
			defs:    []Definition{{Selector: Term{Text: "the"}}},
			want:    []Span{},
			wantCodes: []Code{
				CodeTermNotFound,
			},
		},
		{
			name:    "unmatched term drops silently",
			content: fox,
			defs: []Definition{
				{Selector: Term{Text: "quick"}},
				{Selector: Term{Text: "zzz"}},
			},
			want:      []Span{{Start: 4, End: 9, Index: 0}},
			wantCodes: []Code{CodeTermNotFound},
		},
		{
			name:    "position out of range",
			content: fox,
			defs: []Definition{
				{Selector: Position{Start: 10, End: 20}},
				{Selector: Position{Start: -1, End: 3}},
				{Selector: Position{Start: 5, End: 5}},
				{Selector: Position{Start: 0, End: 19}},
			},
			want: []Span{{Start: 0, End: 19, Index: 3}},
			wantCodes: []Code{
				CodePositionOutOfRange,
				CodePositionOutOfRange,
				CodePositionOutOfRange,
			},
		},
		{
			name:      "empty selectors",
			content:   fox,
			defs:      []Definition{{}, {Selector: Term{}}},
			want:      []Span{},
			wantCodes: []Code{CodeEmptySelector, CodeEmptySelector},
		},
		{
			name:    "term is literal not regex",
			content: "a.b axb",
			defs:    []Definition{{Selector: Term{Text: "a.b"}}, {Selector: Term{Text: "x"}}},
			want:    []Span{{Start: 0, End: 3, Index: 0}, {Start: 5, End: 6, Index: 1}},
		},
		{
			name:    "first occurrence only",
			content: "fox fox fox",
			defs:    []Definition{{Selector: Term{Text: "fox"}}},
			want:    []Span{{Start: 0, End: 3, Index: 0}},
		},
		{
			name:    "code point offsets",
			content: "héllo wörld",
			defs: []Definition{
				{Selector: Term{Text: "wörld"}},
				{Selector: Position{Start: 1, End: 2}},
				{Selector: Position{Start: 0, End: 12}},
			},
			want: []Span{
				{Start: 6, End: 11, Index: 0},
				{Start: 1, End: 2, Index: 1},
			},
			wantCodes: []Code{CodePositionOutOfRange},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, diags := Resolve(tt.content, tt.defs)
			assert.Equal(t, tt.want, got)

			codes := make([]Code, 0, len(diags))
			for _, d := range diags {
				codes = append(codes, d.Code)
			}
			if len(tt.wantCodes) == 0 {
				assert.Empty(t, codes)
			} else {
				assert.Equal(t, tt.wantCodes, codes)
			}
		})
	}
}

func TestResolveMode_MatchAll(t *testing.T) {
	got, diags := ResolveMode("aaaa fox aa fox", []Definition{
		{Selector: Term{Text: "aa"}},
		{Selector: Term{Text: "fox"}},
	}, MatchAll)

	assert.Empty(t, diags)
	assert.Equal(t, []Span{
		{Start: 0, End: 2, Index: 0},
		{Start: 2, End: 4, Index: 0},
		{Start: 9, End: 11, Index: 0},
		{Start: 5, End: 8, Index: 1},
		{Start: 12, End: 15, Index: 1},
	}, got)
}

func TestParseMatchMode(t *testing.T) {
	m, err := ParseMatchMode("")
	require.NoError(t, err)
	assert.Equal(t, MatchFirst, m)

	m, err = ParseMatchMode("all")
	require.NoError(t, err)
	assert.Equal(t, MatchAll, m)
	assert.Equal(t, "all", m.String())

	_, err = ParseMatchMode("some")
	assert.Error(t, err)
}

func TestMerge(t *testing.T) {
	tests := []struct {
		name  string
		spans []Span
		want  []Span
	}{
		{
			name:  "empty",
			spans: nil,
			want:  []Span{},
		},
		{
			name: "disjoint spans are sorted",
			spans: []Span{
				{Start: 10, End: 12, Index: 0},
				{Start: 0, End: 3, Index: 1},
			},
			want: []Span{
				{Start: 0, End: 3, Index: 1},
				{Start: 10, End: 12, Index: 0},
			},
		},
		{
			name: "touching spans are kept",
			spans: []Span{
				{Start: 0, End: 3, Index: 0},
				{Start: 3, End: 6, Index: 1},
			},
			want: []Span{
				{Start: 0, End: 3, Index: 0},
				{Start: 3, End: 6, Index: 1},
			},
		},
		{
			name: "overlap truncates the later start",
			spans: []Span{
				{Start: 0, End: 5, Index: 0},
				{Start: 3, End: 8, Index: 1},
			},
			want: []Span{
				{Start: 0, End: 5, Index: 0},
				{Start: 5, End: 8, Index: 1},
			},
		},
		{
			name: "shadowed span is dropped",
			spans: []Span{
				{Start: 0, End: 9, Index: 0},
				{Start: 4, End: 9, Index: 1},
			},
			want: []Span{{Start: 0, End: 9, Index: 0}},
		},
		{
			name: "same start earlier definition wins",
			spans: []Span{
				{Start: 2, End: 4, Index: 1},
				{Start: 2, End: 7, Index: 0},
			},
			want: []Span{{Start: 2, End: 7, Index: 0}},
		},
		{
			name: "same start shorter earlier definition",
			spans: []Span{
				{Start: 2, End: 7, Index: 1},
				{Start: 2, End: 4, Index: 0},
			},
			want: []Span{
				{Start: 2, End: 4, Index: 0},
				{Start: 4, End: 7, Index: 1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Merge(tt.spans))
		})
	}
}

func TestMerge_DoesNotModifyInput(t *testing.T) {
	in := []Span{{Start: 5, End: 9, Index: 0}, {Start: 0, End: 6, Index: 1}}
	_ = Merge(in)
	assert.Equal(t, []Span{{Start: 5, End: 9, Index: 0}, {Start: 0, End: 6, Index: 1}}, in)
}

func TestMerge_OverlapPrecedence(t *testing.T) {
	resolved, diags := Resolve(fox, []Definition{
		{Selector: Position{Start: 0, End: 9}},
		{Selector: Term{Text: "quick"}},
	})
	require.Empty(t, diags)
	require.Len(t, resolved, 2)

	assert.Equal(t, []Span{{Start: 0, End: 9, Index: 0}}, Merge(resolved))
}

func TestMerge_NonOverlapAndIdempotence(t *testing.T) {
	content := "alpha beta gamma delta alpha beta"
	defs := []Definition{
		{Selector: Term{Text: "beta gamma"}},
		{Selector: Position{Start: 0, End: 12}},
		{Selector: Term{Text: "alpha"}},
		{Selector: Position{Start: 15, End: 30}},
		{Selector: Term{Text: "delta"}},
		{Selector: Position{Start: 3, End: 4}},
	}

	for _, mode := range []MatchMode{MatchFirst, MatchAll} {
		resolved, _ := ResolveMode(content, defs, mode)
		first := Merge(resolved)

		for i := 1; i < len(first); i++ {
			assert.LessOrEqual(t, first[i-1].End, first[i].Start, "spans %d and %d overlap", i-1, i)
		}
		for _, s := range first {
			assert.Less(t, s.Start, s.End)
		}

		again, _ := ResolveMode(content, defs, mode)
		assert.Equal(t, first, Merge(again))
		assert.Equal(t, first, Merge(first), "merging final spans is a no-op")
	}
}

func TestID(t *testing.T) {
	assert.Equal(t, "hl-12", ID(12))

	n, ok := ParseID("hl-12")
	assert.True(t, ok)
	assert.Equal(t, 12, n)

	for _, bad := range []string{"", "hl-", "hl-x", "12", "hl--1"} {
		_, ok := ParseID(bad)
		assert.False(t, ok, bad)
	}
}

func TestOffsets(t *testing.T) {
	o := NewOffsets("aé😀b")
	assert.Equal(t, 4, o.Len())
	assert.Equal(t, []int{0, 1, 3, 7, 8}, []int{o.Byte(0), o.Byte(1), o.Byte(2), o.Byte(3), o.Byte(4)})
	assert.Equal(t, 2, o.Rune(3))
	assert.Equal(t, 2, o.Rune(5), "mid-sequence rounds down")
	assert.Equal(t, 4, o.Rune(8))

	ascii := NewOffsets("abc")
	assert.Equal(t, 2, ascii.Byte(2))
	assert.Equal(t, 3, ascii.Byte(9), "clamped")
}

func TestDocumentClone(t *testing.T) {
	doc := Document{
		Content:    fox,
		Highlights: []Definition{{Selector: Term{Text: "fox"}, Title: "Fox"}},
	}

	clone := doc.Clone()
	clone.Highlights[0].Title = "changed"
	clone.Highlights = append(clone.Highlights, Definition{})

	assert.Equal(t, "Fox", doc.Highlights[0].Title)
	assert.Len(t, doc.Highlights, 1)
}
