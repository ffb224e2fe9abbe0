// Package highlight defines highlight definitions over markdown documents and
// resolves them into non-overlapping spans.
//
// # Offsets
//
// All offsets are half-open ranges of Unicode code points into the raw
// markdown source. Byte offsets are an internal detail; see [Offsets].
//
// # Pipeline
//
// Raw definitions are located by [Resolve], producing at most one span per
// definition (or several with [MatchAll]). [Merge] deconflicts the result into
// the final layout where earlier definitions win contested regions.
package highlight

import (
	"slices"
	"strconv"
	"strings"
)

type (
	// Selector locates a highlight in a document.
	// It is either a [Term] or a [Position].
	Selector interface{ selector() }

	// Term selects a literal, case-sensitive substring.
	Term struct {
		Text string
	}

	// Position selects the code point range [Start, End).
	Position struct {
		Start int
		End   int
	}
)

var (
	_ Selector = Term{}
	_ Selector = Position{}
)

func (Term) selector()     {}
func (Position) selector() {}

// Definition is a single highlight over a document.
// Title, Content, Category and Color are carried through resolution unchanged.
type Definition struct {
	Selector Selector // nil for a definition with no usable selector
	Title    string
	Content  string // markdown
	Category string
	Color    string

	// ShadowedTerm is a term the host supplied alongside a position. It
	// never takes part in resolution and is written back unchanged.
	ShadowedTerm string
}

// Document is markdown content with an ordered list of highlights.
// The order of Highlights is the precedence used by [Merge].
type Document struct {
	Content    string
	Highlights []Definition
}

// Clone returns a copy of d that shares no mutable state with it.
func (d Document) Clone() Document {
	return Document{
		Content:    d.Content,
		Highlights: slices.Clone(d.Highlights),
	}
}

// Span is a located highlight range.
//
// Spans returned by [Resolve] may overlap; spans returned by [Merge] are
// sorted by Start and never overlap.
type Span struct {
	Start int // inclusive, in code points
	End   int // exclusive, in code points
	Index int // index of the source definition
}

// Len reports the number of code points covered by the span.
func (s Span) Len() int { return s.End - s.Start }

// ID returns the logical highlight identifier for a definition index.
// Every fragment rendered for the same definition shares this ID.
func ID(index int) string {
	return idPrefix + strconv.Itoa(index)
}

// ParseID is the inverse of [ID].
func ParseID(id string) (int, bool) {
	rest, ok := strings.CutPrefix(id, idPrefix)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

const idPrefix = "hl-"
