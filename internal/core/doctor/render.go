package doctor

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/hay-kot/mdlabel/internal/core/config"
	"github.com/hay-kot/mdlabel/internal/core/highlight"
	"github.com/hay-kot/mdlabel/internal/core/render"
)

// sample exercises both selector kinds, an overlap and a side panel entry.
var sample = highlight.Document{
	Content: "# Sample\n\nThe **quick** brown fox jumps over the lazy dog.",
	Highlights: []highlight.Definition{
		{Selector: highlight.Term{Text: "brown fox"}, Title: "Fox", Content: "A *small* canid."},
		{Selector: highlight.Position{Start: 34, End: 39}, Title: "Jumps"},
		{Selector: highlight.Term{Text: "fox jumps"}, Title: "Overlap"},
	},
}

// RenderCheck renders a sample document with the configured style.
type RenderCheck struct {
	cfg *config.Config
}

// NewRenderCheck creates a render check for cfg.
func NewRenderCheck(cfg *config.Config) *RenderCheck {
	return &RenderCheck{cfg: cfg}
}

func (c *RenderCheck) Name() string {
	return "Rendering"
}

func (c *RenderCheck) Run(_ context.Context) Result {
	result := Result{Name: c.Name()}

	if err := render.CheckStyle(c.cfg.Render.Style); err != nil {
		result.add("style", StatusFail, err.Error())
	} else {
		result.add("style", StatusPass, c.cfg.Render.Style)
	}

	res := c.cfg.NewResolver().Resolve(sample)
	if len(res.Diagnostics) > 0 {
		result.add("resolve", StatusFail, res.Diagnostics[0].String())
	} else {
		result.add("resolve", StatusPass, fmt.Sprintf("%d spans", len(res.Final)))
	}

	renderer := render.New(zerolog.Nop())
	out := renderer.Render(sample.Content, sample.Highlights, res.Final)

	if err := renderer.WriteHTML(io.Discard, out, render.HTMLOptions{ShowSidePanel: true}); err != nil {
		result.add("html", StatusFail, err.Error())
	} else {
		result.add("html", StatusPass, "")
	}

	if err := renderer.WriteANSI(io.Discard, out, render.ANSIOptions{
		Width:         minEditorWidth,
		ShowSidePanel: true,
		PanelWidth:    c.cfg.Display.PanelColumns,
		GlamourStyle:  c.cfg.Render.Style,
	}); err != nil {
		result.add("ansi", StatusFail, err.Error())
	} else {
		result.add("ansi", StatusPass, "")
	}

	return result
}
