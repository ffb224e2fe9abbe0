// Package tui implements the Bubble Tea terminal editor for mdlabel.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hay-kot/mdlabel/internal/core/config"
	"github.com/hay-kot/mdlabel/internal/core/editor"
	"github.com/hay-kot/mdlabel/internal/core/eventbus"
	"github.com/hay-kot/mdlabel/internal/core/render"
)

// Options configures a Model.
type Options struct {
	Title    string
	Session  *editor.Session
	Renderer *render.Renderer
	Bus      *eventbus.EventBus // source of toast notifications, may be nil
	Config   *config.Config
}

type pane int

const (
	paneEditor pane = iota
	panePreview
)

// previewMsg asks for the draft to be re-rendered. Messages with a stale
// seq are dropped, which debounces bursts of keystrokes.
type previewMsg struct{ seq int }

// Model is the terminal editor. It drives an [editor.Session]: the session
// owns the document state and the model only mirrors it on screen.
type Model struct {
	title        string
	session      *editor.Session
	renderer     *render.Renderer
	display      config.DisplayConfig
	style        string
	previewDelay time.Duration

	keys     keyMap
	help     help.Model
	editor   textarea.Model
	document viewport.Model
	preview  viewport.Model

	width, height int
	pane          pane
	showPanel     bool
	showPreview   bool
	selected      string
	previewSeq    int
	pending       bool

	notifications *NotificationBuffer
	toasts        *ToastController
	toastView     *ToastView
	unsubscribe   func()
}

// New returns a Model for opts.Session.
func New(opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		def := config.DefaultConfig()
		cfg = &def
	}

	ta := textarea.New()
	ta.ShowLineNumbers = true
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.Placeholder = "markdown…"

	notifications := NewNotificationBuffer()
	toasts := NewToastController()

	m := Model{
		title:         opts.Title,
		session:       opts.Session,
		renderer:      opts.Renderer,
		display:       cfg.Display,
		style:         cfg.Render.Style,
		previewDelay:  time.Duration(cfg.Render.PreviewDelayMS) * time.Millisecond,
		keys:          defaultKeyMap(),
		help:          help.New(),
		editor:        ta,
		document:      viewport.New(0, 0),
		preview:       viewport.New(0, 0),
		showPanel:     cfg.Display.ShowSidePanel,
		showPreview:   cfg.Display.ShowPreview,
		notifications: notifications,
		toasts:        toasts,
		toastView:     NewToastView(toasts),
		unsubscribe:   notifications.Subscribe(opts.Bus),
	}
	m.syncKeys()
	return m
}

// Close releases the bus subscription held by the model.
func (m Model) Close() {
	m.unsubscribe()
}

func (m Model) Init() tea.Cmd {
	return m.notifications.WaitForSignal()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.resize()
		return m, nil

	case drainNotificationsMsg:
		cmds := []tea.Cmd{m.notifications.WaitForSignal()}
		for _, n := range m.notifications.Drain() {
			m.toasts.Push(n)
		}
		if m.toasts.HasToasts() && !m.toasts.Ticking() {
			m.toasts.SetTicking(true)
			cmds = append(cmds, scheduleToastTick())
		}
		return m, tea.Batch(cmds...)

	case toastTickMsg:
		m.toasts.Tick(toastTickInterval)
		if m.toasts.HasToasts() {
			return m, scheduleToastTick()
		}
		m.toasts.SetTicking(false)
		return m, nil

	case previewMsg:
		if msg.seq == m.previewSeq && m.pending {
			m.flushDraft()
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateFocused(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ForceQuit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Dismiss):
		m.toasts.DismissAll()
		return m, nil
	}

	if m.session.State() == editor.StateEditing {
		return m.handleEditKey(msg)
	}
	return m.handleViewKey(msg)
}

func (m Model) handleViewKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Edit):
		return m, m.startEdit()
	case key.Matches(msg, m.keys.Next):
		m.cycle(1)
		return m, nil
	case key.Matches(msg, m.keys.Prev):
		m.cycle(-1)
		return m, nil
	case key.Matches(msg, m.keys.TogglePanel):
		m.showPanel = !m.showPanel
		m.resize()
		return m, nil
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.resize()
		return m, nil
	}

	var cmd tea.Cmd
	m.document, cmd = m.document.Update(msg)
	return m, cmd
}

func (m Model) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Save):
		m.finishEdit(true)
		return m, nil
	case key.Matches(msg, m.keys.Cancel):
		m.finishEdit(false)
		return m, nil
	case key.Matches(msg, m.keys.TogglePreview):
		m.showPreview = !m.showPreview
		m.resize()
		return m, nil
	case key.Matches(msg, m.keys.SwitchPane):
		if m.pane == paneEditor {
			m.pane = panePreview
			m.flushDraft()
		} else {
			m.pane = paneEditor
		}
		return m, nil
	}

	if m.display.EditMode == config.EditModeTabs && m.pane == panePreview {
		var cmd tea.Cmd
		m.preview, cmd = m.preview.Update(msg)
		return m, cmd
	}

	before := m.editor.Value()
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	if m.editor.Value() == before {
		return m, cmd
	}

	m.pending = true
	m.previewSeq++
	return m, tea.Batch(cmd, m.schedulePreview())
}

// updateFocused forwards msg to whichever component has focus.
func (m Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.session.State() == editor.StateEditing {
		m.editor, cmd = m.editor.Update(msg)
		return m, cmd
	}
	m.document, cmd = m.document.Update(msg)
	return m, cmd
}

func (m *Model) startEdit() tea.Cmd {
	view, err := m.session.StartEdit()
	if err != nil {
		return nil
	}

	m.editor.SetValue(view.Document.Content)
	m.pane = paneEditor
	m.pending = false
	m.selected = ""
	m.syncKeys()
	m.resize()
	return m.editor.Focus()
}

// finishEdit saves or discards the draft and returns to viewing.
func (m *Model) finishEdit(save bool) {
	var err error
	if save {
		_, err = m.session.Save(m.editor.Value())
	} else {
		err = m.session.Cancel()
	}
	if err != nil {
		return
	}

	m.editor.Blur()
	m.pending = false
	m.selected = ""
	m.syncKeys()
	m.resize()
}

func (m *Model) schedulePreview() tea.Cmd {
	seq := m.previewSeq
	if m.previewDelay <= 0 {
		return func() tea.Msg { return previewMsg{seq: seq} }
	}
	return tea.Tick(m.previewDelay, func(time.Time) tea.Msg {
		return previewMsg{seq: seq}
	})
}

// flushDraft pushes the editor content into the session draft.
func (m *Model) flushDraft() {
	if !m.pending {
		return
	}
	if _, err := m.session.Update(m.editor.Value()); err != nil {
		return
	}
	m.pending = false
	m.refresh()
}

// cycle moves the selection delta highlights forward, wrapping around.
func (m *Model) cycle(delta int) {
	ids := m.session.Current().Result.HighlightIDs()
	if len(ids) == 0 {
		return
	}

	cur := -1
	for i, id := range ids {
		if id == m.selected {
			cur = i
			break
		}
	}

	var next int
	switch {
	case cur == -1 && delta < 0:
		next = len(ids) - 1
	case cur == -1:
		next = 0
	default:
		next = ((cur+delta)%len(ids) + len(ids)) % len(ids)
	}

	if err := m.session.Select(ids[next]); err != nil {
		return
	}
	m.selected = ids[next]
	m.refresh()
}

func (m *Model) syncKeys() {
	m.keys.sync(m.session.State(), m.display.EditMode == config.EditModeTabs)
}
