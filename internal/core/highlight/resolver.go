package highlight

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"slices"

	"github.com/hay-kot/mdlabel/pkg/kv"
)

// Resolution is the outcome of resolving and merging one document.
type Resolution struct {
	Resolved    []Span // per-definition spans, in definition order
	Final       []Span // merged, non-overlapping spans
	Diagnostics []Diagnostic
}

func (r Resolution) clone() Resolution {
	return Resolution{
		Resolved:    slices.Clone(r.Resolved),
		Final:       slices.Clone(r.Final),
		Diagnostics: slices.Clone(r.Diagnostics),
	}
}

// Resolver runs [ResolveMode] and [Merge], memoizing results by a hash of the
// content and selectors. Display fields do not take part in the key since
// they cannot change the layout.
type Resolver struct {
	mode  MatchMode
	cache *kv.Store[string, Resolution]
}

// NewResolver returns a Resolver using mode. cacheSize bounds the number of
// memoized documents; zero disables memoization.
func NewResolver(mode MatchMode, cacheSize int) *Resolver {
	r := &Resolver{mode: mode}
	if cacheSize > 0 {
		r.cache = kv.NewBounded[string, Resolution](cacheSize)
	}
	return r
}

// Mode returns the term match mode of the resolver.
func (r *Resolver) Mode() MatchMode { return r.mode }

// Resolve resolves and merges the highlights of doc.
// The returned value never aliases memoized state.
func (r *Resolver) Resolve(doc Document) Resolution {
	if r.cache == nil {
		return r.resolve(doc)
	}

	key := Key(r.mode, doc)
	if res, ok := r.cache.Get(key); ok {
		return res.clone()
	}

	res := r.resolve(doc)
	r.cache.Set(key, res.clone())
	return res
}

func (r *Resolver) resolve(doc Document) Resolution {
	resolved, diags := ResolveMode(doc.Content, doc.Highlights, r.mode)
	return Resolution{
		Resolved:    resolved,
		Final:       Merge(resolved),
		Diagnostics: diags,
	}
}

// Key returns the memoization key for resolving doc with mode.
func Key(mode MatchMode, doc Document) string {
	h := sha256.New()
	fmt.Fprintf(h, "%d\x00%d\x00", mode, len(doc.Content))
	_, _ = io.WriteString(h, doc.Content)
	for _, def := range doc.Highlights {
		switch sel := def.Selector.(type) {
		case Term:
			fmt.Fprintf(h, "\x00t%d\x00", len(sel.Text))
			_, _ = io.WriteString(h, sel.Text)
		case Position:
			fmt.Fprintf(h, "\x00p%d,%d", sel.Start, sel.End)
		default:
			_, _ = io.WriteString(h, "\x00n")
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}
