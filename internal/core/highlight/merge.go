package highlight

import "sort"

// Merge deconflicts resolved spans into the final layout.
//
// Spans are ordered by Start, ties broken by definition index. Sweeping left
// to right, a span that begins inside an already placed span is truncated to
// start where the placed span ends, and dropped if nothing is left. The
// result is sorted and no two spans overlap; touching spans are kept.
//
// The input slice is not modified.
func Merge(spans []Span) []Span {
	sorted := make([]Span, len(spans))
	copy(sorted, spans)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		return sorted[i].Index < sorted[j].Index
	})

	out := make([]Span, 0, len(sorted))
	edge := 0 // rightmost committed end
	for _, s := range sorted {
		if len(out) > 0 && s.Start < edge {
			s.Start = edge
		}
		if s.Start >= s.End {
			continue
		}
		out = append(out, s)
		edge = s.End
	}
	return out
}
