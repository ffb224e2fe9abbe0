package highlight

import (
	"fmt"
	"strings"
)

// MatchMode controls how many occurrences of a [Term] are highlighted.
type MatchMode int

const (
	// MatchFirst highlights only the first occurrence of a term.
	MatchFirst MatchMode = iota
	// MatchAll highlights every non-overlapping occurrence of a term.
	MatchAll
)

// String returns the configuration spelling of the mode.
func (m MatchMode) String() string {
	switch m {
	case MatchFirst:
		return "first"
	case MatchAll:
		return "all"
	default:
		return fmt.Sprintf("MatchMode(%d)", int(m))
	}
}

// ParseMatchMode parses the configuration spelling of a [MatchMode].
func ParseMatchMode(s string) (MatchMode, error) {
	switch s {
	case "", "first":
		return MatchFirst, nil
	case "all":
		return MatchAll, nil
	default:
		return MatchFirst, fmt.Errorf("unknown term match mode %q (want first or all)", s)
	}
}

// Resolve locates each highlight in content using [MatchFirst].
// See [ResolveMode].
func Resolve(content string, highlights []Definition) ([]Span, []Diagnostic) {
	return ResolveMode(content, highlights, MatchFirst)
}

// ResolveMode locates each highlight in content.
//
// The returned spans follow the order of highlights. Definitions that cannot
// be located produce no span and one diagnostic; they are never an error.
// The result depends only on the arguments.
func ResolveMode(content string, highlights []Definition, mode MatchMode) ([]Span, []Diagnostic) {
	var (
		offsets = NewOffsets(content)
		spans   = make([]Span, 0, len(highlights))
		diags   []Diagnostic
	)

	for i, def := range highlights {
		switch sel := def.Selector.(type) {
		case Position:
			if sel.Start < 0 || sel.Start >= sel.End || sel.End > offsets.Len() {
				diags = append(diags, Diagf(i, CodePositionOutOfRange,
					"position [%d, %d) outside content of length %d", sel.Start, sel.End, offsets.Len()))
				continue
			}
			spans = append(spans, Span{Start: sel.Start, End: sel.End, Index: i})

		case Term:
			if sel.Text == "" {
				diags = append(diags, Diagf(i, CodeEmptySelector, "term is empty"))
				continue
			}
			found := findTerm(content, sel.Text, offsets, i, mode)
			if len(found) == 0 {
				diags = append(diags, Diagf(i, CodeTermNotFound, "term %q not found", sel.Text))
				continue
			}
			spans = append(spans, found...)

		default:
			diags = append(diags, Diagf(i, CodeEmptySelector, "definition has neither term nor position"))
		}
	}

	return spans, diags
}

func findTerm(content, term string, offsets Offsets, index int, mode MatchMode) []Span {
	var (
		spans []Span
		from  int
	)
	for from <= len(content) {
		at := strings.Index(content[from:], term)
		if at < 0 {
			break
		}
		start := from + at
		end := start + len(term)
		spans = append(spans, Span{
			Start: offsets.Rune(start),
			End:   offsets.Rune(end),
			Index: index,
		})
		if mode != MatchAll {
			break
		}
		from = end
	}
	return spans
}
