package commands

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/mdlabel/internal/core/highlight"
	"github.com/hay-kot/mdlabel/pkg/iojson"
)

type ResolveCmd struct {
	flags    *Flags
	input    iojson.FileReader[highlight.Payload]
	resolved bool
}

// NewResolveCmd creates a new resolve command.
func NewResolveCmd(flags *Flags) *ResolveCmd {
	return &ResolveCmd{flags: flags}
}

// Register adds the resolve command to the application.
func (cmd *ResolveCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "resolve",
		Usage:     "Print the highlight layout of a document as JSON",
		UsageText: "mdlabel resolve [options]",
		Description: `Resolves every highlight of a document to code point ranges and merges
them into the final non-overlapping layout. Diagnostics for highlights that
could not be placed are included in the output.`,
		Flags: []cli.Flag{
			cmd.input.Flag(),
			&cli.BoolFlag{
				Name:        "resolved",
				Usage:       "also print per-highlight spans before merging",
				Destination: &cmd.resolved,
			},
		},
		Action: cmd.run,
	})

	return app
}

type spanOutput struct {
	ID    string `json:"id"`
	Index int    `json:"index"`
	Start int    `json:"start"`
	End   int    `json:"end"`
	Text  string `json:"text"`
}

type resolveOutput struct {
	Mode        string                 `json:"mode"`
	Spans       []spanOutput           `json:"spans"`
	Resolved    []spanOutput           `json:"resolved,omitempty"`
	Diagnostics []highlight.Diagnostic `json:"diagnostics"`
}

func (cmd *ResolveCmd) run(_ context.Context, c *cli.Command) error {
	doc, err := readDocument(&cmd.input)
	if err != nil {
		return err
	}

	resolver := cmd.flags.config().NewResolver()
	res := resolver.Resolve(doc.Document)

	out := resolveOutput{
		Mode:        resolver.Mode().String(),
		Spans:       spanOutputs(doc.Document.Content, res.Final),
		Diagnostics: append(doc.Diagnostics, res.Diagnostics...),
	}
	if cmd.resolved {
		out.Resolved = spanOutputs(doc.Document.Content, res.Resolved)
	}
	if out.Diagnostics == nil {
		out.Diagnostics = []highlight.Diagnostic{}
	}

	return writeJSON(c, c.Root().Writer, out)
}

func spanOutputs(content string, spans []highlight.Span) []spanOutput {
	runes := []rune(content)
	out := make([]spanOutput, 0, len(spans))
	for _, s := range spans {
		out = append(out, spanOutput{
			ID:    highlight.ID(s.Index),
			Index: s.Index,
			Start: s.Start,
			End:   s.End,
			Text:  string(runes[s.Start:s.End]),
		})
	}
	return out
}
