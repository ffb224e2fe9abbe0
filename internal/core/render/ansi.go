package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/hay-kot/mdlabel/internal/core/highlight"
	"github.com/hay-kot/mdlabel/internal/core/styles"
)

// ANSIOptions controls presentation of [Renderer.WriteANSI].
type ANSIOptions struct {
	Width         int // total width; 0 disables wrapping
	ShowSidePanel bool
	PanelWidth    int
	GlamourStyle  string // glamour style name or path, or ThemeStyle
	Selected      string // highlight id rendered as selected
}

const defaultHighlightColor = "#fff59d"

// ThemeStyle selects a glamour style derived from the active styles theme.
const ThemeStyle = "theme"

var (
	headingStyle = lipgloss.NewStyle().Bold(true)
	codeStyle    = lipgloss.NewStyle().Faint(true)
	quoteStyle   = lipgloss.NewStyle().Faint(true)
	ruleStyle    = lipgloss.NewStyle().Faint(true)
	panelStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), false, false, false, true).
			PaddingLeft(1)
)

// WriteANSI writes res as styled terminal text, optionally followed on the
// right by a side panel describing each highlight.
func (r *Renderer) WriteANSI(w io.Writer, res *Result, opts ANSIOptions) error {
	docWidth := opts.Width
	if opts.ShowSidePanel && opts.Width > 0 {
		docWidth = max(opts.Width-opts.PanelWidth-2, 20)
	}

	out := r.Document(res, docWidth, opts.Selected)
	if opts.ShowSidePanel {
		if panel := r.Panel(res, opts.PanelWidth, opts.GlamourStyle, opts.Selected); panel != "" {
			out = lipgloss.JoinHorizontal(lipgloss.Top, out, "  ", panel)
		}
	}

	_, err := fmt.Fprintln(w, out)
	return err
}

// Document renders the blocks of res as styled terminal text wrapped to width.
func (r *Renderer) Document(res *Result, width int, selected string) string {
	var (
		blocks = make([]string, 0, len(res.Blocks))
		segs   = res.Segments
	)

	for bi, block := range res.Blocks {
		var line strings.Builder
		for len(segs) > 0 && segs[0].segment().Block == bi {
			line.WriteString(styleSegment(segs[0], selected))
			segs = segs[1:]
		}
		body := line.String()

		switch block.Kind {
		case BlockHeading:
			body = headingStyle.Render(strings.Repeat("#", block.Level) + " " + body)
		case BlockCode, BlockHTML:
			body = codeStyle.Render(strings.TrimRight(body, "\n"))
		case BlockThematicBreak:
			body = ruleStyle.Render(strings.Repeat("─", max(min(width, 40), 3)))
		}

		prefix, indent := blockPrefix(res.Blocks, bi)
		wrapWidth := width - lipgloss.Width(prefix)
		if width > 0 && wrapWidth > 0 && block.Kind != BlockCode {
			body = lipgloss.NewStyle().Width(wrapWidth).Render(body)
		}

		lines := strings.Split(body, "\n")
		for i := range lines {
			if i == 0 {
				lines[i] = prefix + lines[i]
			} else {
				lines[i] = indent + lines[i]
			}
		}
		blocks = append(blocks, strings.Join(lines, "\n"))
	}

	return strings.Join(blocks, "\n\n")
}

// blockPrefix returns the first-line prefix and continuation indent for
// block i. List markers are only drawn on the first block of an item.
func blockPrefix(blocks []Block, i int) (string, string) {
	var prefix, indent strings.Builder
	containers := blocks[i].Containers

	for ci, c := range containers {
		switch c.Kind {
		case ContainerBlockquote:
			bar := quoteStyle.Render("│ ")
			prefix.WriteString(bar)
			indent.WriteString(bar)
		case ContainerListItem:
			marker := "• "
			if ci > 0 && containers[ci-1].Kind == ContainerList && containers[ci-1].Ordered {
				marker = strconv.Itoa(itemNumber(blocks, i, ci)) + ". "
			}
			pad := strings.Repeat(" ", lipgloss.Width(marker))
			if firstInItem(blocks, i, c.ID) {
				prefix.WriteString(marker)
			} else {
				prefix.WriteString(pad)
			}
			indent.WriteString(pad)
		}
	}
	return prefix.String(), indent.String()
}

func firstInItem(blocks []Block, i, itemID int) bool {
	if i == 0 {
		return true
	}
	for _, c := range blocks[i-1].Containers {
		if c.ID == itemID {
			return false
		}
	}
	return true
}

// itemNumber computes the ordinal of the list item at depth ci for block i.
func itemNumber(blocks []Block, i, ci int) int {
	list := blocks[i].Containers[ci-1]
	n := max(list.Start, 1)
	seen := map[int]bool{blocks[i].Containers[ci].ID: true}
	for j := i - 1; j >= 0; j-- {
		cs := blocks[j].Containers
		if len(cs) <= ci || cs[ci-1].ID != list.ID {
			continue
		}
		if !seen[cs[ci].ID] {
			seen[cs[ci].ID] = true
			n++
		}
	}
	return n
}

func styleSegment(s Segment, selected string) string {
	run := s.segment()
	st := lipgloss.NewStyle()
	if run.Style.Has(StyleStrong) {
		st = st.Bold(true)
	}
	if run.Style.Has(StyleEmphasis) {
		st = st.Italic(true)
	}
	if run.Style.Has(StyleCode) {
		st = st.Faint(true)
	}
	if run.Style.Has(StyleLink) {
		st = st.Underline(true)
	}

	if h, ok := s.(*HighlightSegment); ok {
		color := h.Highlight.Color
		fg, ok := styles.ReadableOn(color)
		if !ok {
			color = defaultHighlightColor
			fg, _ = styles.ReadableOn(color)
		}
		st = st.Background(lipgloss.Color(color)).Foreground(fg)
		if h.ID == selected {
			st = st.Reverse(true)
		}
	}

	// Render each line separately so styles never span a newline.
	lines := strings.Split(run.Text, "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = st.Render(l)
		}
	}
	return strings.Join(lines, "\n")
}

// Panel renders the side panel listing each visible highlight, using glamour
// for highlight content. It returns "" when no highlight is visible.
func (r *Renderer) Panel(res *Result, width int, style, selected string) string {
	ids := res.HighlightIDs()
	if len(ids) == 0 {
		return ""
	}
	if style == "" {
		style = "dark"
	}
	width = max(width, 20)

	var md strings.Builder
	for _, id := range ids {
		idx, _ := highlight.ParseID(id)
		if idx >= len(res.Highlights) {
			continue
		}
		def := res.Highlights[idx]

		title := def.Title
		if title == "" {
			title = id
		}
		if id == selected {
			title = "▶ " + title
		}
		fmt.Fprintf(&md, "### %s\n\n", title)
		if def.Category != "" {
			fmt.Fprintf(&md, "_%s_\n\n", def.Category)
		}
		if def.Content != "" {
			md.WriteString(def.Content)
			md.WriteString("\n\n")
		}
	}

	return panelStyle.Width(width).Render(r.terminalMarkdown(md.String(), width-2, style))
}

// terminalMarkdown renders markdown with glamour, falling back to the raw
// text when the renderer cannot be built or fails.
func (r *Renderer) terminalMarkdown(content string, width int, style string) string {
	tr, err := newTermRenderer(style, width)
	if err != nil {
		r.logger.Debug().Err(err).Msg("failed to create markdown renderer, showing raw content")
		return content
	}

	rendered, err := tr.Render(content)
	if err != nil {
		r.logger.Debug().Err(err).Msg("failed to render markdown, showing raw content")
		return content
	}
	return strings.Trim(rendered, "\n")
}

func newTermRenderer(style string, width int) (*glamour.TermRenderer, error) {
	styleOpt := glamour.WithStylePath(style)
	if style == ThemeStyle {
		styleOpt = glamour.WithStyles(styles.GlamourStyle())
	}

	return glamour.NewTermRenderer(
		styleOpt,
		glamour.WithWordWrap(max(width, 10)),
	)
}

// CheckStyle reports whether style names a glamour style or a readable style
// file. Rendering falls back to raw text for styles that fail this check.
func CheckStyle(style string) error {
	if _, err := newTermRenderer(style, 80); err != nil {
		return fmt.Errorf("load style %q: %w", style, err)
	}
	return nil
}
