package doctor

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Package-level variables to allow test overrides.
var (
	isTerminalFunc   = term.IsTerminal
	terminalSizeFunc = term.GetSize
	colorProfileFunc = func() string { return lipgloss.ColorProfile().Name() }
)

// minEditorWidth is the narrowest terminal the split editor lays out well in.
const minEditorWidth = 80

// TerminalCheck reports on the terminal the editor and ANSI output run in.
type TerminalCheck struct{}

// NewTerminalCheck creates a new terminal check.
func NewTerminalCheck() *TerminalCheck {
	return &TerminalCheck{}
}

func (c *TerminalCheck) Name() string {
	return "Terminal"
}

func (c *TerminalCheck) Run(_ context.Context) Result {
	result := Result{Name: c.Name()}

	fd := int(os.Stdout.Fd())
	if !isTerminalFunc(fd) {
		result.add("stdout", StatusWarn, "not a terminal (ansi output wraps at 80 columns)")
		return result
	}
	result.add("stdout", StatusPass, "terminal")

	if width, height, err := terminalSizeFunc(fd); err != nil {
		result.add("size", StatusWarn, err.Error())
	} else if width < minEditorWidth {
		result.add("size", StatusWarn, fmt.Sprintf("%dx%d, the editor needs at least %d columns", width, height, minEditorWidth))
	} else {
		result.add("size", StatusPass, fmt.Sprintf("%dx%d", width, height))
	}

	if profile := colorProfileFunc(); profile == "Ascii" {
		result.add("colors", StatusWarn, "no color support, highlights render without backgrounds")
	} else {
		result.add("colors", StatusPass, profile)
	}

	return result
}
