package render

import "github.com/hay-kot/mdlabel/internal/core/highlight"

// Style is a set of inline markdown styles applied to a run of text.
type Style uint8

const (
	StyleEmphasis Style = 1 << iota
	StyleStrong
	StyleCode
	StyleLink
)

// Has reports whether all styles in o are set in s.
func (s Style) Has(o Style) bool { return s&o == o }

// BlockKind identifies the kind of a leaf block.
type BlockKind int

const (
	BlockParagraph BlockKind = iota
	BlockHeading
	BlockCode
	BlockHTML
	BlockThematicBreak
)

func (k BlockKind) String() string {
	switch k {
	case BlockParagraph:
		return "paragraph"
	case BlockHeading:
		return "heading"
	case BlockCode:
		return "code"
	case BlockHTML:
		return "html"
	case BlockThematicBreak:
		return "thematic-break"
	default:
		return "unknown"
	}
}

// ContainerKind identifies a container block enclosing leaf blocks.
type ContainerKind int

const (
	ContainerBlockquote ContainerKind = iota
	ContainerList
	ContainerListItem
)

// Container is one level of block nesting. ID is unique within a [Result]
// so that two sibling lists can be told apart.
type Container struct {
	Kind    ContainerKind
	ID      int
	Ordered bool // lists only
	Start   int  // first number of an ordered list
}

// Block is a leaf block of the rendered document.
type Block struct {
	Kind       BlockKind
	Level      int    // heading level
	Language   string // fenced code info string
	Containers []Container
}

// Range is a half-open code point range into the raw markdown source.
// Synthetic text, such as line breaks, has an empty range.
type Range struct {
	Start int
	End   int
}

// Mapped reports whether the range covers any source text.
func (r Range) Mapped() bool { return r.End > r.Start }

// Run is a piece of display text with its inline context.
type Run struct {
	Text   string
	Source Range
	Block  int // index into Result.Blocks
	Style  Style
	Link   string // destination when Style has StyleLink
}

type (
	// Segment is a part of the rendered document.
	// It is either a [*PlainSegment] or a [*HighlightSegment].
	Segment interface {
		segment() *Run
	}

	// PlainSegment is text outside any highlight.
	PlainSegment struct {
		Run
	}

	// HighlightSegment is a fragment of a highlight.
	//
	// A highlight whose source range crosses block or inline boundaries is
	// split into several fragments that share ID and Index.
	HighlightSegment struct {
		Run
		ID        string // logical highlight id, see highlight.ID
		Index     int    // definition index
		Fragment  int    // position of this fragment among those sharing ID
		Highlight highlight.Definition
	}
)

var (
	_ Segment = (*PlainSegment)(nil)
	_ Segment = (*HighlightSegment)(nil)
)

func (s *PlainSegment) segment() *Run     { return &s.Run }
func (s *HighlightSegment) segment() *Run { return &s.Run }

// RunOf returns the run carried by a segment.
func RunOf(s Segment) Run { return *s.segment() }

// Result is a rendered document.
type Result struct {
	Blocks      []Block
	Segments    []Segment
	Highlights  []highlight.Definition
	Spans       []highlight.Span // final spans the segments were cut from
	Diagnostics []highlight.Diagnostic
}

// Fragments returns the highlight segments sharing id, in document order.
func (r *Result) Fragments(id string) []*HighlightSegment {
	var out []*HighlightSegment
	for _, s := range r.Segments {
		if h, ok := s.(*HighlightSegment); ok && h.ID == id {
			out = append(out, h)
		}
	}
	return out
}

// HighlightIDs returns the ids of highlights with at least one fragment,
// in order of first appearance.
func (r *Result) HighlightIDs() []string {
	var (
		ids  []string
		seen = make(map[string]bool)
	)
	for _, s := range r.Segments {
		if h, ok := s.(*HighlightSegment); ok && !seen[h.ID] {
			seen[h.ID] = true
			ids = append(ids, h.ID)
		}
	}
	return ids
}

// Text returns the display text of the whole document with blocks separated
// by blank lines.
func (r *Result) Text() string {
	var (
		out  []byte
		last = -1
	)
	for _, s := range r.Segments {
		run := s.segment()
		if last >= 0 && run.Block != last {
			out = append(out, '\n', '\n')
		}
		last = run.Block
		out = append(out, run.Text...)
	}
	return string(out)
}
