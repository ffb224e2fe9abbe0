// Package render turns markdown and resolved highlight spans into an
// annotated segment sequence, and writes that sequence as HTML or styled
// terminal text.
//
// # Offsets
//
// Spans are computed against the raw markdown source, but markdown rendering
// adds and removes characters. Rather than applying spans to rendered output,
// the renderer parses the source with goldmark and cuts every text-bearing
// node's raw source segment at span boundaries. Each cut piece keeps its raw
// range, so the mapping from source offsets to rendered text survives across
// inline and block boundaries. Markup characters never appear in any segment.
package render

import (
	"sort"

	"github.com/rs/zerolog"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/hay-kot/mdlabel/internal/core/highlight"
)

// Renderer renders documents. The zero value is not usable; see [New].
type Renderer struct {
	md     goldmark.Markdown
	logger zerolog.Logger
}

// New returns a renderer using a CommonMark goldmark parser.
func New(logger zerolog.Logger) *Renderer {
	return &Renderer{
		md:     goldmark.New(),
		logger: logger,
	}
}

// Render lays out content with the given highlights.
//
// spans should be the output of highlight.Merge; they are merged again so
// that any input upholds the non-overlap invariant. Render never fails: if
// the markdown cannot be processed the content is rendered as a single
// literal paragraph and a diagnostic is recorded.
func (r *Renderer) Render(content string, defs []highlight.Definition, spans []highlight.Span) (res *Result) {
	src := []byte(content)
	w := newWalker(src, content, defs, highlight.Merge(spans))

	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Warn().Interface("panic", rec).Msg("markdown rendering failed, showing literal text")
			res = literal(src, content, defs, w.spans)
			res.Diagnostics = append(res.Diagnostics,
				highlight.Diagf(-1, highlight.CodeMarkdownFallback, "markdown rendering failed: %v", rec))
		}
	}()

	doc := r.md.Parser().Parse(text.NewReader(src))
	w.walkBlock(doc)
	return w.res
}

// literal renders content as one paragraph of unprocessed text.
func literal(src []byte, content string, defs []highlight.Definition, spans []highlight.Span) *Result {
	w := newWalker(src, content, defs, spans)
	w.openBlock(Block{Kind: BlockParagraph})
	w.emit(0, len(src), 0, "", true)
	return w.res
}

type walker struct {
	src     []byte
	offsets highlight.Offsets
	defs    []highlight.Definition
	spans   []highlight.Span
	res     *Result

	containers    []Container
	nextContainer int
	fragments     map[int]int // definition index -> fragments emitted
}

func newWalker(src []byte, content string, defs []highlight.Definition, spans []highlight.Span) *walker {
	return &walker{
		src:     src,
		offsets: highlight.NewOffsets(content),
		defs:    defs,
		spans:   spans,
		res: &Result{
			Highlights: defs,
			Spans:      spans,
		},
		fragments: make(map[int]int),
	}
}

func (w *walker) walkBlock(n ast.Node) {
	switch n := n.(type) {
	case *ast.Blockquote:
		w.within(Container{Kind: ContainerBlockquote}, n)
	case *ast.List:
		w.within(Container{Kind: ContainerList, Ordered: n.IsOrdered(), Start: n.Start}, n)
	case *ast.ListItem:
		w.within(Container{Kind: ContainerListItem}, n)
	case *ast.Heading:
		w.openBlock(Block{Kind: BlockHeading, Level: n.Level})
		w.walkInline(n, 0, "")
	case *ast.Paragraph, *ast.TextBlock:
		w.openBlock(Block{Kind: BlockParagraph})
		w.walkInline(n, 0, "")
	case *ast.FencedCodeBlock:
		w.openBlock(Block{Kind: BlockCode, Language: string(n.Language(w.src))})
		w.emitLines(n.Lines())
	case *ast.CodeBlock:
		w.openBlock(Block{Kind: BlockCode})
		w.emitLines(n.Lines())
	case *ast.HTMLBlock:
		w.openBlock(Block{Kind: BlockHTML})
		w.emitLines(n.Lines())
		if n.HasClosure() {
			w.emit(n.ClosureLine.Start, n.ClosureLine.Stop, 0, "", true)
		}
	case *ast.ThematicBreak:
		w.openBlock(Block{Kind: BlockThematicBreak})
	default:
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			w.walkBlock(c)
		}
	}
}

func (w *walker) within(c Container, n ast.Node) {
	c.ID = w.nextContainer
	w.nextContainer++
	w.containers = append(w.containers, c)
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		w.walkBlock(child)
	}
	w.containers = w.containers[:len(w.containers)-1]
}

func (w *walker) openBlock(b Block) {
	b.Containers = append([]Container(nil), w.containers...)
	w.res.Blocks = append(w.res.Blocks, b)
}

func (w *walker) walkInline(n ast.Node, style Style, link string) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch c := c.(type) {
		case *ast.Text:
			w.emit(c.Segment.Start, c.Segment.Stop, style, link, style.Has(StyleCode))
			if c.SoftLineBreak() || c.HardLineBreak() {
				w.synthetic("\n", style, link)
			}
		case *ast.String:
			w.synthetic(string(c.Value), style, link)
		case *ast.CodeSpan:
			w.walkInline(c, style|StyleCode, link)
		case *ast.Emphasis:
			if c.Level >= 2 {
				w.walkInline(c, style|StyleStrong, link)
			} else {
				w.walkInline(c, style|StyleEmphasis, link)
			}
		case *ast.Link:
			w.walkInline(c, style|StyleLink, string(c.Destination))
		case *ast.AutoLink:
			w.synthetic(string(c.Label(w.src)), style|StyleLink, string(c.URL(w.src)))
		case *ast.RawHTML:
			for i := 0; i < c.Segments.Len(); i++ {
				seg := c.Segments.At(i)
				w.emit(seg.Start, seg.Stop, style, link, true)
			}
		default:
			w.walkInline(c, style, link)
		}
	}
}

func (w *walker) emitLines(lines *text.Segments) {
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		w.emit(seg.Start, seg.Stop, 0, "", true)
	}
}

// synthetic appends text that has no position in the source.
func (w *walker) synthetic(s string, style Style, link string) {
	if s == "" {
		return
	}
	w.res.Segments = append(w.res.Segments, &PlainSegment{Run: Run{
		Text:  s,
		Block: len(w.res.Blocks) - 1,
		Style: style,
		Link:  link,
	}})
}

// emit appends the source bytes [bs, be), cut at every span boundary inside
// them. Raw text is shown as written; other text has markdown escapes and
// character references resolved, and a cut never splits one of those.
func (w *walker) emit(bs, be int, style Style, link string, raw bool) {
	if be <= bs {
		return
	}

	pieces := w.cut(w.offsets.Rune(bs), w.offsets.Rune(be))
	if !raw {
		pieces = snap(pieces, w.escapes(bs, be))
	}
	for _, p := range pieces {
		if p.end > p.start {
			w.piece(p.start, p.end, p.span, style, link, raw)
		}
	}
}

// cutPiece is a code point range of emitted text; span indexes w.spans or
// is -1 for plain text.
type cutPiece struct {
	start, end int
	span       int
}

func (w *walker) cut(pos, end int) []cutPiece {
	var out []cutPiece
	i := sort.Search(len(w.spans), func(i int) bool { return w.spans[i].End > pos })

	for pos < end {
		if i >= len(w.spans) || w.spans[i].Start >= end {
			return append(out, cutPiece{pos, end, -1})
		}

		sp := w.spans[i]
		if sp.Start > pos {
			out = append(out, cutPiece{pos, sp.Start, -1})
			pos = sp.Start
		}

		stop := min(sp.End, end)
		out = append(out, cutPiece{pos, stop, i})
		pos = stop
		if stop == sp.End {
			i++
		}
	}
	return out
}

// escapes returns the code point ranges of backslash escapes and character
// references in the source bytes [bs, be).
func (w *walker) escapes(bs, be int) []highlight.Span {
	var out []highlight.Span
	for i := bs; i < be; {
		n := 0
		switch w.src[i] {
		case '\\':
			if i+1 < be && util.IsPunct(w.src[i+1]) {
				n = 2
			}
		case '&':
			n = referenceLen(w.src[i:be])
		}
		if n == 0 {
			i++
			continue
		}
		out = append(out, highlight.Span{Start: w.offsets.Rune(i), End: w.offsets.Rune(i + n)})
		i += n
	}
	return out
}

// referenceLen returns the byte length of the character reference at the
// start of b, or 0 when b does not start with one.
func referenceLen(b []byte) int {
	i := 1
	if i < len(b) && b[i] == '#' {
		i++
		hex := i < len(b) && (b[i] == 'x' || b[i] == 'X')
		if hex {
			i++
		}
		start := i
		for i < len(b) && i-start < 7 && (util.IsNumeric(b[i]) || hex && util.IsHexDecimal(b[i])) {
			i++
		}
		if i == start {
			return 0
		}
	} else {
		start := i
		for i < len(b) && i-start < 32 && util.IsAlphaNumeric(b[i]) {
			i++
		}
		if i == start {
			return 0
		}
	}

	if i < len(b) && b[i] == ';' {
		return i + 1
	}
	return 0
}

// snap moves piece boundaries that fall inside an escape to its edge. The
// escape joins the highlight on either side of the boundary, or the piece
// before it when both sides are plain. Pieces left empty are kept and skipped
// by the caller.
func snap(pieces []cutPiece, escapes []highlight.Span) []cutPiece {
	if len(escapes) == 0 || len(pieces) < 2 {
		return pieces
	}

	prev := pieces[0].start
	for i := 1; i < len(pieces); i++ {
		at := pieces[i].start
		for _, e := range escapes {
			if at <= e.Start || at >= e.End {
				continue
			}
			if pieces[i].span >= 0 && pieces[i-1].span < 0 {
				at = e.Start
			} else {
				at = e.End
			}
			break
		}
		at = max(at, prev)
		pieces[i-1].end = at
		pieces[i].start = at
		prev = at
	}
	last := &pieces[len(pieces)-1]
	last.end = max(last.end, last.start)
	return pieces
}

func (w *walker) piece(start, end, span int, style Style, link string, raw bool) {
	b := w.src[w.offsets.Byte(start):w.offsets.Byte(end)]
	if !raw {
		b = util.ResolveEntityNames(util.ResolveNumericReferences(util.UnescapePunctuations(b)))
	}

	run := Run{
		Text:   string(b),
		Source: Range{Start: start, End: end},
		Block:  len(w.res.Blocks) - 1,
		Style:  style,
		Link:   link,
	}

	if span < 0 {
		w.res.Segments = append(w.res.Segments, &PlainSegment{Run: run})
		return
	}

	idx := w.spans[span].Index
	seg := &HighlightSegment{
		Run:      run,
		ID:       highlight.ID(idx),
		Index:    idx,
		Fragment: w.fragments[idx],
	}
	if idx >= 0 && idx < len(w.defs) {
		seg.Highlight = w.defs[idx]
	}
	w.fragments[idx]++
	w.res.Segments = append(w.res.Segments, seg)
}
