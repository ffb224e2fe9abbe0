package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"strings"

	gmhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/hay-kot/mdlabel/internal/core/highlight"
	"github.com/hay-kot/mdlabel/internal/core/validate"
)

// HTMLOptions controls presentation of [Renderer.WriteHTML].
// None of the options affect which text is highlighted.
type HTMLOptions struct {
	ShowSidePanel bool
	PanelWidth    string // CSS width of the side panel, e.g. "300px"
	RTL           bool
	Selected      string // highlight id rendered as selected
}

// WriteHTML writes res as an HTML fragment.
//
// Highlights render as <mark> elements carrying data-highlight-id; every
// fragment of one highlight shares that attribute, and the side panel entry
// for it has id "detail-<highlight id>".
func (r *Renderer) WriteHTML(w io.Writer, res *Result, opts HTMLOptions) error {
	var buf bytes.Buffer

	buf.WriteString(`<div class="mdlabel"`)
	if opts.RTL {
		buf.WriteString(` dir="rtl"`)
	}
	buf.WriteString(">\n")

	buf.WriteString(`<div class="mdlabel-document">` + "\n")
	writeBlocks(&buf, res, opts.Selected)
	buf.WriteString("</div>\n")

	if opts.ShowSidePanel {
		r.writePanel(&buf, res, opts)
	}

	buf.WriteString("</div>\n")

	_, err := buf.WriteTo(w)
	return err
}

func writeBlocks(buf *bytes.Buffer, res *Result, selected string) {
	var (
		open []Container
		segs = res.Segments
	)

	for bi, block := range res.Blocks {
		// Close containers that are not shared with this block, open new ones.
		common := 0
		for common < len(open) && common < len(block.Containers) && open[common].ID == block.Containers[common].ID {
			common++
		}
		for i := len(open) - 1; i >= common; i-- {
			closeContainer(buf, open[i])
		}
		for _, c := range block.Containers[common:] {
			openContainer(buf, c)
		}
		open = block.Containers

		var inBlock []Segment
		for len(segs) > 0 && segs[0].segment().Block == bi {
			inBlock = append(inBlock, segs[0])
			segs = segs[1:]
		}

		switch block.Kind {
		case BlockHeading:
			fmt.Fprintf(buf, "<h%d>", block.Level)
			writeSegments(buf, inBlock, selected)
			fmt.Fprintf(buf, "</h%d>\n", block.Level)
		case BlockCode:
			buf.WriteString("<pre><code")
			if block.Language != "" {
				fmt.Fprintf(buf, ` class="language-%s"`, template.HTMLEscapeString(block.Language))
			}
			buf.WriteString(">")
			writeSegments(buf, inBlock, selected)
			buf.WriteString("</code></pre>\n")
		case BlockHTML:
			buf.WriteString(`<pre class="mdlabel-html">`)
			writeSegments(buf, inBlock, selected)
			buf.WriteString("</pre>\n")
		case BlockThematicBreak:
			buf.WriteString("<hr>\n")
		default:
			buf.WriteString("<p>")
			writeSegments(buf, inBlock, selected)
			buf.WriteString("</p>\n")
		}
	}

	for i := len(open) - 1; i >= 0; i-- {
		closeContainer(buf, open[i])
	}
}

func openContainer(buf *bytes.Buffer, c Container) {
	switch c.Kind {
	case ContainerBlockquote:
		buf.WriteString("<blockquote>\n")
	case ContainerList:
		switch {
		case !c.Ordered:
			buf.WriteString("<ul>\n")
		case c.Start > 1:
			fmt.Fprintf(buf, "<ol start=\"%d\">\n", c.Start)
		default:
			buf.WriteString("<ol>\n")
		}
	case ContainerListItem:
		buf.WriteString("<li>\n")
	}
}

func closeContainer(buf *bytes.Buffer, c Container) {
	switch c.Kind {
	case ContainerBlockquote:
		buf.WriteString("</blockquote>\n")
	case ContainerList:
		if c.Ordered {
			buf.WriteString("</ol>\n")
		} else {
			buf.WriteString("</ul>\n")
		}
	case ContainerListItem:
		buf.WriteString("</li>\n")
	}
}

func writeSegments(buf *bytes.Buffer, segs []Segment, selected string) {
	for _, s := range segs {
		switch s := s.(type) {
		case *PlainSegment:
			writeRun(buf, s.Run)
		case *HighlightSegment:
			class := "mdlabel-highlight"
			if s.ID == selected {
				class += " is-selected"
			}
			fmt.Fprintf(buf, `<mark class="%s" id="%s-%d" data-highlight-id="%s"`, class, s.ID, s.Fragment, s.ID)
			if s.Highlight.Category != "" {
				fmt.Fprintf(buf, ` data-category="%s"`, template.HTMLEscapeString(s.Highlight.Category))
			}
			if color := s.Highlight.Color; validate.IsColor(color) {
				fmt.Fprintf(buf, ` style="background-color: %s"`, color)
			}
			buf.WriteString(">")
			writeRun(buf, s.Run)
			buf.WriteString("</mark>")
		default:
			panic(fmt.Sprintf("unrecognized segment type %T", s))
		}
	}
}

func writeRun(buf *bytes.Buffer, run Run) {
	// Dangerous destinations (javascript:, most data: URLs) render as text.
	link := run.Style.Has(StyleLink) && !gmhtml.IsDangerousURL([]byte(run.Link))
	if link {
		fmt.Fprintf(buf, `<a href="%s">`, template.HTMLEscapeString(run.Link))
	}
	if run.Style.Has(StyleStrong) {
		buf.WriteString("<strong>")
	}
	if run.Style.Has(StyleEmphasis) {
		buf.WriteString("<em>")
	}
	if run.Style.Has(StyleCode) {
		buf.WriteString("<code>")
	}

	template.HTMLEscape(buf, []byte(run.Text))

	if run.Style.Has(StyleCode) {
		buf.WriteString("</code>")
	}
	if run.Style.Has(StyleEmphasis) {
		buf.WriteString("</em>")
	}
	if run.Style.Has(StyleStrong) {
		buf.WriteString("</strong>")
	}
	if link {
		buf.WriteString("</a>")
	}
}

func (r *Renderer) writePanel(buf *bytes.Buffer, res *Result, opts HTMLOptions) {
	buf.WriteString(`<aside class="mdlabel-panel"`)
	if opts.PanelWidth != "" && !strings.ContainsAny(opts.PanelWidth, `;"<>`) {
		fmt.Fprintf(buf, ` style="width: %s"`, template.HTMLEscapeString(opts.PanelWidth))
	}
	buf.WriteString(">\n")

	for _, id := range res.HighlightIDs() {
		idx, _ := highlight.ParseID(id)
		if idx >= len(res.Highlights) {
			continue
		}
		def := res.Highlights[idx]

		class := "mdlabel-detail"
		if id == opts.Selected {
			class += " is-selected"
		}
		fmt.Fprintf(buf, `<section class="%s" id="detail-%s" data-highlight-id="%s">`+"\n", class, id, id)
		if def.Title != "" {
			buf.WriteString("<h3>")
			template.HTMLEscape(buf, []byte(def.Title))
			buf.WriteString("</h3>\n")
		}
		if def.Category != "" {
			buf.WriteString(`<span class="mdlabel-category">`)
			template.HTMLEscape(buf, []byte(def.Category))
			buf.WriteString("</span>\n")
		}
		if def.Content != "" {
			buf.WriteString(`<div class="mdlabel-detail-content">` + "\n")
			buf.WriteString(r.DetailHTML(def.Content))
			buf.WriteString("</div>\n")
		}
		buf.WriteString("</section>\n")
	}

	buf.WriteString("</aside>\n")
}

// DetailHTML converts a highlight's markdown content to HTML.
// Content that fails to convert is returned as escaped literal text.
func (r *Renderer) DetailHTML(content string) (out string) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Warn().Interface("panic", rec).Msg("highlight content rendering failed")
			out = "<pre>" + template.HTMLEscapeString(content) + "</pre>\n"
		}
	}()

	var buf bytes.Buffer
	if err := r.md.Convert([]byte(content), &buf); err != nil {
		r.logger.Warn().Err(err).Msg("highlight content rendering failed")
		return "<pre>" + template.HTMLEscapeString(content) + "</pre>\n"
	}
	return buf.String()
}
