package highlight

import (
	"sort"
	"unicode/utf8"
)

// Offsets converts between code point and byte offsets of a string.
type Offsets struct {
	n      int   // code point count
	starts []int // byte offset of code point i, plus a trailing len(s); nil when ASCII
}

// NewOffsets indexes s.
func NewOffsets(s string) Offsets {
	n := utf8.RuneCountInString(s)
	if n == len(s) {
		return Offsets{n: n}
	}

	starts := make([]int, 0, n+1)
	for i := range s {
		starts = append(starts, i)
	}
	starts = append(starts, len(s))
	return Offsets{n: n, starts: starts}
}

// Len returns the number of code points in the indexed string.
func (o Offsets) Len() int { return o.n }

// Byte returns the byte offset of code point r.
// r is clamped to [0, Len()].
func (o Offsets) Byte(r int) int {
	r = min(max(r, 0), o.n)
	if o.starts == nil {
		return r
	}
	return o.starts[r]
}

// Rune returns the code point offset containing byte b.
// Offsets in the middle of a multi-byte sequence round down.
func (o Offsets) Rune(b int) int {
	if o.starts == nil {
		return min(max(b, 0), o.n)
	}
	i := sort.SearchInts(o.starts, b)
	if i < len(o.starts) && o.starts[i] == b {
		return i
	}
	return max(i-1, 0)
}
