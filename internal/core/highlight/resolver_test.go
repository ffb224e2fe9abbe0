package highlight

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolver_Memoizes(t *testing.T) {
	r := NewResolver(MatchFirst, 4)
	doc := Document{
		Content: fox,
		Highlights: []Definition{
			{Selector: Position{Start: 0, End: 9}},
			{Selector: Term{Text: "quick"}},
			{Selector: Term{Text: "zzz"}},
		},
	}

	first := r.Resolve(doc)
	assert.Equal(t, []Span{{Start: 0, End: 9, Index: 0}, {Start: 4, End: 9, Index: 1}}, first.Resolved)
	assert.Equal(t, []Span{{Start: 0, End: 9, Index: 0}}, first.Final)
	assert.Len(t, first.Diagnostics, 1)

	// Mutating a result must not leak into the memo.
	first.Final[0].End = 1
	first.Diagnostics = nil

	second := r.Resolve(doc)
	assert.Equal(t, []Span{{Start: 0, End: 9, Index: 0}}, second.Final)
	assert.Len(t, second.Diagnostics, 1)

	hits, misses := r.cache.Stats()
	assert.Equal(t, 1, hits)
	assert.Equal(t, 1, misses)
}

func TestResolver_DisplayFieldsShareKey(t *testing.T) {
	a := Document{Content: fox, Highlights: []Definition{{Selector: Term{Text: "fox"}, Title: "a"}}}
	b := Document{Content: fox, Highlights: []Definition{{Selector: Term{Text: "fox"}, Title: "b", Color: "red"}}}
	c := Document{Content: fox, Highlights: []Definition{{Selector: Term{Text: "fo"}}}}

	assert.Equal(t, Key(MatchFirst, a), Key(MatchFirst, b))
	assert.NotEqual(t, Key(MatchFirst, a), Key(MatchAll, a))
	assert.NotEqual(t, Key(MatchFirst, a), Key(MatchFirst, c))
}

func TestResolver_NoCache(t *testing.T) {
	r := NewResolver(MatchAll, 0)
	assert.Nil(t, r.cache)
	assert.Equal(t, MatchAll, r.Mode())

	res := r.Resolve(Document{Content: "ab ab", Highlights: []Definition{{Selector: Term{Text: "ab"}}}})
	assert.Equal(t, []Span{{Start: 0, End: 2, Index: 0}, {Start: 3, End: 5, Index: 0}}, res.Final)
}
