package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/hay-kot/mdlabel/internal/core/config"
	"github.com/hay-kot/mdlabel/internal/core/editor"
	"github.com/hay-kot/mdlabel/internal/core/highlight"
	"github.com/hay-kot/mdlabel/internal/core/render"
	"github.com/hay-kot/mdlabel/internal/core/styles"
)

const (
	paneBorder = 2
	iconDot    = "·"
)

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	out := lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.renderBody(),
		m.renderStatus(),
		m.help.View(m.keys),
	)
	return m.toastView.Overlay(out, m.width, m.height)
}

// resize lays out every component for the current window and re-renders.
func (m *Model) resize() {
	if m.width == 0 || m.height == 0 {
		return
	}

	bodyH := max(m.height-2-lipgloss.Height(m.help.View(m.keys)), 3)
	m.document.Width, m.document.Height = m.width, bodyH

	if m.session.State() == editor.StateEditing {
		m.layoutEditor(bodyH)
	}
	m.refresh()
}

func (m *Model) layoutEditor(bodyH int) {
	switch m.display.EditMode {
	case config.EditModeTabs:
		h := max(bodyH-1-paneBorder, 1)
		m.editor.SetWidth(m.width - paneBorder)
		m.editor.SetHeight(h)
		m.preview.Width, m.preview.Height = m.width-paneBorder, h
	case config.EditModeOverlay:
		m.editor.SetWidth(max(m.width*3/4, 20) - paneBorder)
		m.editor.SetHeight(max(bodyH*3/4, 3) - paneBorder)
	default:
		editorW := m.width
		if m.showPreview {
			editorW = m.width / 2
		}
		m.editor.SetWidth(editorW - paneBorder)
		m.editor.SetHeight(bodyH - paneBorder)
		m.preview.Width, m.preview.Height = max(m.width-editorW-paneBorder, 0), bodyH-paneBorder
	}
}

// refresh re-renders the document and preview viewports from the session.
func (m *Model) refresh() {
	viewing := m.session.State() == editor.StateViewing

	background := m.session.View()
	if m.display.EditMode == config.EditModeOverlay && m.showPreview {
		if p := m.session.Preview(); p != nil {
			background = p
		}
	}
	m.document.SetContent(m.renderResult(background.Result, m.document.Width, viewing && m.showPanel))

	if p := m.session.Preview(); p != nil {
		m.preview.SetContent(m.renderResult(p.Result, m.preview.Width, false))
	}
}

// renderResult renders res to width columns, with the side panel when
// withPanel is set and at least one highlight is visible.
func (m *Model) renderResult(res *render.Result, width int, withPanel bool) string {
	if width <= 0 {
		return ""
	}

	docWidth := width
	var side string
	if withPanel {
		panelW := min(m.display.PanelColumns, width/2)
		side = m.renderer.Panel(res, panelW, m.style, m.selected)
		if side != "" {
			docWidth = max(width-lipgloss.Width(side)-1, 10)
		}
	}

	doc := m.renderer.Document(res, docWidth, m.selected)
	if m.display.RTL {
		doc = lipgloss.NewStyle().Width(docWidth).Align(lipgloss.Right).Render(doc)
	}

	switch {
	case side == "":
		return doc
	case m.display.RTL:
		return lipgloss.JoinHorizontal(lipgloss.Top, side, " ", doc)
	default:
		return lipgloss.JoinHorizontal(lipgloss.Top, doc, " ", side)
	}
}

func (m Model) renderHeader() string {
	title := styles.TitleStyle.Render(styles.IconHighlight + " " + m.title)
	count := len(m.session.Current().Result.HighlightIDs())
	return title + styles.MutedStyle.Render(fmt.Sprintf(" %s %d highlights", iconDot, count))
}

func (m Model) renderBody() string {
	if m.session.State() == editor.StateViewing {
		return m.document.View()
	}

	editorPane := styles.PaneFocusedStyle.Render(m.editor.View())

	switch m.display.EditMode {
	case config.EditModeTabs:
		if m.pane == panePreview {
			return lipgloss.JoinVertical(lipgloss.Left, m.renderTabs(), styles.PaneFocusedStyle.Render(m.preview.View()))
		}
		return lipgloss.JoinVertical(lipgloss.Left, m.renderTabs(), editorPane)

	case config.EditModeOverlay:
		x := (m.width - lipgloss.Width(editorPane)) / 2
		y := (m.document.Height - lipgloss.Height(editorPane)) / 2
		return overlay(m.document.View(), editorPane, x, y)

	default:
		if !m.showPreview {
			return editorPane
		}
		previewPane := styles.PaneStyle.Render(m.preview.View())
		if m.display.RTL {
			return lipgloss.JoinHorizontal(lipgloss.Top, previewPane, editorPane)
		}
		return lipgloss.JoinHorizontal(lipgloss.Top, editorPane, previewPane)
	}
}

func (m Model) renderTabs() string {
	edit, preview := styles.TabActiveStyle, styles.TabInactiveStyle
	if m.pane == panePreview {
		edit, preview = preview, edit
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		edit.Render(styles.IconEdit+" Edit"),
		preview.Render("Preview"),
	)
}

func (m Model) renderStatus() string {
	left := styles.StatusModeStyle.Render(strings.ToUpper(m.session.State().String()))
	if m.modified() {
		left += styles.StatusDirtyStyle.Render("modified")
	}

	var info []string
	if label := m.selectedLabel(); label != "" {
		info = append(info, styles.IconSelected+" "+label)
	}
	if n := len(m.session.Current().Diagnostics()); n > 0 {
		info = append(info, fmt.Sprintf("%d diagnostics", n))
	}

	rest := max(m.width-lipgloss.Width(left), 0)
	return left + styles.StatusBarStyle.Width(rest).Render(strings.Join(info, " "+iconDot+" "))
}

// modified reports whether the editor holds text that differs from the
// committed document.
func (m Model) modified() bool {
	if m.session.State() != editor.StateEditing {
		return false
	}
	return m.editor.Value() != m.session.View().Document.Content
}

func (m Model) selectedLabel() string {
	if m.selected == "" {
		return ""
	}
	idx, ok := highlight.ParseID(m.selected)
	defs := m.session.Current().Document.Highlights
	if !ok || idx >= len(defs) || defs[idx].Title == "" {
		return m.selected
	}
	return defs[idx].Title
}
