package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/hay-kot/mdlabel/internal/core/highlight"
	"github.com/hay-kot/mdlabel/internal/core/logging"
	"github.com/hay-kot/mdlabel/internal/core/render"
	"github.com/hay-kot/mdlabel/pkg/iojson"
)

const (
	formatHTML = "html"
	formatANSI = "ansi"
	formatJSON = "json"
)

type RenderCmd struct {
	flags    *Flags
	input    iojson.FileReader[highlight.Payload]
	format   string
	output   string
	width    int
	selected string
	noPanel  bool
}

// NewRenderCmd creates a new render command.
func NewRenderCmd(flags *Flags) *RenderCmd {
	return &RenderCmd{flags: flags}
}

// Register adds the render command to the application.
func (cmd *RenderCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "render",
		Usage:     "Render a highlighted document",
		UsageText: "mdlabel render [options]",
		Description: `Renders a document's markdown with its highlights applied.

Formats:
  html   HTML fragment with <mark> elements and an optional side panel
  ansi   styled terminal text with an optional side panel
  json   rendered fragments with their source ranges

Examples:
  mdlabel render -f notes.json
  mdlabel render -f notes.yaml --format html -o notes.html
  cat notes.json | mdlabel render --format json`,
		Flags: []cli.Flag{
			cmd.input.Flag(),
			&cli.StringFlag{
				Name:        "format",
				Usage:       "output format (html, ansi, json)",
				Value:       formatANSI,
				Destination: &cmd.format,
				Validator:   oneOfFormat(formatHTML, formatANSI, formatJSON),
			},
			&cli.StringFlag{
				Name:        "output",
				Aliases:     []string{"o"},
				Usage:       "write to file instead of stdout",
				Destination: &cmd.output,
			},
			&cli.IntFlag{
				Name:        "width",
				Usage:       "terminal width for ansi output (defaults to the terminal size)",
				Destination: &cmd.width,
			},
			&cli.StringFlag{
				Name:        "selected",
				Usage:       "highlight id to render as selected, e.g. hl-0",
				Destination: &cmd.selected,
			},
			&cli.BoolFlag{
				Name:        "no-panel",
				Usage:       "omit the side panel",
				Destination: &cmd.noPanel,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *RenderCmd) run(ctx context.Context, c *cli.Command) error {
	doc, err := readDocument(&cmd.input)
	if err != nil {
		return err
	}

	var (
		cfg      = cmd.flags.config()
		logger   = logging.Component("render")
		renderer = render.New(logger)
		res      = cfg.NewResolver().Resolve(doc.Document)
		result   = renderer.Render(doc.Document.Content, doc.Document.Highlights, res.Final)
	)

	ctx = logging.WithDocument(ctx, doc.Path)
	for _, d := range append(doc.Diagnostics, res.Diagnostics...) {
		logger.Warn().Ctx(ctx).Str("code", string(d.Code)).Int("index", d.Index).Msg(d.Message)
	}

	w := c.Root().Writer
	if cmd.output != "" {
		f, err := os.Create(cmd.output)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer func() { _ = f.Close() }()
		w = f
	}

	showPanel := cfg.Display.ShowSidePanel && !cmd.noPanel

	switch cmd.format {
	case formatHTML:
		return renderer.WriteHTML(w, result, render.HTMLOptions{
			ShowSidePanel: showPanel,
			PanelWidth:    cfg.Display.PanelWidth,
			RTL:           cfg.Display.RTL,
			Selected:      cmd.selected,
		})
	case formatJSON:
		return writeJSON(c, w, newRenderOutput(result, append(doc.Diagnostics, res.Diagnostics...)))
	default:
		return renderer.WriteANSI(w, result, render.ANSIOptions{
			Width:         cmd.terminalWidth(w),
			ShowSidePanel: showPanel,
			PanelWidth:    cfg.Display.PanelColumns,
			GlamourStyle:  cfg.Render.Style,
			Selected:      cmd.selected,
		})
	}
}

// terminalWidth returns the --width flag, the width of w when it is a
// terminal, or 80.
func (cmd *RenderCmd) terminalWidth(w io.Writer) int {
	if cmd.width > 0 {
		return cmd.width
	}
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil {
			return width
		}
	}
	return 80
}

type renderFragment struct {
	Text     string `json:"text"`
	Block    int    `json:"block"`
	Start    int    `json:"start"`
	End      int    `json:"end"`
	ID       string `json:"id,omitempty"`
	Fragment int    `json:"fragment,omitempty"`
}

type renderOutput struct {
	Text        string                 `json:"text"`
	Fragments   []renderFragment       `json:"fragments"`
	Diagnostics []highlight.Diagnostic `json:"diagnostics"`
}

func newRenderOutput(res *render.Result, diags []highlight.Diagnostic) renderOutput {
	out := renderOutput{
		Text:        res.Text(),
		Fragments:   make([]renderFragment, 0, len(res.Segments)),
		Diagnostics: append(diags, res.Diagnostics...),
	}
	if out.Diagnostics == nil {
		out.Diagnostics = []highlight.Diagnostic{}
	}

	for _, s := range res.Segments {
		run := render.RunOf(s)
		f := renderFragment{
			Text:  run.Text,
			Block: run.Block,
			Start: run.Source.Start,
			End:   run.Source.End,
		}
		if h, ok := s.(*render.HighlightSegment); ok {
			f.ID = h.ID
			f.Fragment = h.Fragment
		}
		out.Fragments = append(out.Fragments, f)
	}
	return out
}
