package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/hay-kot/mdlabel/internal/core/editor"
)

// keyMap holds every binding of the editor. Bindings that do not apply to
// the current session state are disabled so help only lists live keys.
type keyMap struct {
	Edit          key.Binding
	Save          key.Binding
	Cancel        key.Binding
	Next          key.Binding
	Prev          key.Binding
	TogglePanel   key.Binding
	TogglePreview key.Binding
	SwitchPane    key.Binding
	Dismiss       key.Binding
	Help          key.Binding
	Quit          key.Binding
	ForceQuit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Edit:          key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Save:          key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		Cancel:        key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "discard")),
		Next:          key.NewBinding(key.WithKeys("tab", "n"), key.WithHelp("tab", "next highlight")),
		Prev:          key.NewBinding(key.WithKeys("shift+tab", "N"), key.WithHelp("shift+tab", "prev highlight")),
		TogglePanel:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "panel")),
		TogglePreview: key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "preview")),
		SwitchPane:    key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "switch tab")),
		Dismiss:       key.NewBinding(key.WithKeys("ctrl+x"), key.WithHelp("ctrl+x", "dismiss")),
		Help:          key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:          key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQuit:     key.NewBinding(key.WithKeys("ctrl+c")),
	}
}

// sync enables the bindings that apply to state and layout.
func (k *keyMap) sync(state editor.State, tabs bool) {
	viewing := state == editor.StateViewing

	k.Edit.SetEnabled(viewing)
	k.Next.SetEnabled(viewing)
	k.Prev.SetEnabled(viewing)
	k.TogglePanel.SetEnabled(viewing)
	k.Help.SetEnabled(viewing)
	k.Quit.SetEnabled(viewing)

	k.Save.SetEnabled(!viewing)
	k.Cancel.SetEnabled(!viewing)
	k.TogglePreview.SetEnabled(!viewing && !tabs)
	k.SwitchPane.SetEnabled(!viewing && tabs)
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Edit, k.Save, k.Cancel, k.Next, k.SwitchPane, k.TogglePreview, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Edit, k.Save, k.Cancel},
		{k.Next, k.Prev},
		{k.TogglePanel, k.TogglePreview, k.SwitchPane},
		{k.Dismiss, k.Help, k.Quit},
	}
}
