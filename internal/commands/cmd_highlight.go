package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/mdlabel/internal/core/highlight"
	"github.com/hay-kot/mdlabel/internal/core/styles"
	"github.com/hay-kot/mdlabel/internal/core/validate"
	"github.com/hay-kot/mdlabel/pkg/iojson"
)

const (
	selectorTerm     = "term"
	selectorPosition = "position"
)

type HighlightCmd struct {
	flags *Flags
	input iojson.FileReader[highlight.Payload]

	// add
	term     string
	start    int
	end      int
	title    string
	content  string
	category string
	color    string
}

// NewHighlightCmd creates a new highlight command.
func NewHighlightCmd(flags *Flags) *HighlightCmd {
	return &HighlightCmd{flags: flags}
}

// Register adds the highlight command to the application.
func (cmd *HighlightCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "highlight",
		Usage: "Manage the highlights of a document",
		Commands: []*cli.Command{
			cmd.addCmd(),
			cmd.lsCmd(),
			cmd.rmCmd(),
		},
	})
	return app
}

func (cmd *HighlightCmd) addCmd() *cli.Command {
	return &cli.Command{
		Name:      "add",
		Usage:     "Append a highlight to a document",
		UsageText: "mdlabel highlight add -f <document> [options]",
		Description: `Appends a highlight to the document and writes it back.

Without --term or --start/--end an interactive form asks for the selector
and details.

Examples:
  mdlabel highlight add -f notes.json
  mdlabel highlight add -f notes.json --term "brown fox" --title Fox
  mdlabel highlight add -f notes.json --start 4 --end 9 --color '#e3f2fd'`,
		Flags: []cli.Flag{
			cmd.input.Flag(),
			&cli.StringFlag{Name: "term", Usage: "literal text to highlight", Destination: &cmd.term},
			&cli.IntFlag{Name: "start", Usage: "start code point offset (inclusive)", Destination: &cmd.start},
			&cli.IntFlag{Name: "end", Usage: "end code point offset (exclusive)", Destination: &cmd.end},
			&cli.StringFlag{Name: "title", Usage: "highlight title", Destination: &cmd.title},
			&cli.StringFlag{Name: "content", Usage: "markdown detail shown in the side panel", Destination: &cmd.content},
			&cli.StringFlag{Name: "category", Usage: "highlight category", Destination: &cmd.category},
			&cli.StringFlag{Name: "color", Usage: "background color, e.g. #e3f2fd", Destination: &cmd.color},
		},
		Action: cmd.runAdd,
	}
}

func (cmd *HighlightCmd) lsCmd() *cli.Command {
	return &cli.Command{
		Name:      "ls",
		Usage:     "List the highlights of a document",
		UsageText: "mdlabel highlight ls [-f <document>]",
		Flags:     []cli.Flag{cmd.input.Flag()},
		Action:    cmd.runLs,
	}
}

func (cmd *HighlightCmd) rmCmd() *cli.Command {
	return &cli.Command{
		Name:      "rm",
		Usage:     "Remove a highlight by id",
		UsageText: "mdlabel highlight rm -f <document> <id>",
		Flags:         []cli.Flag{cmd.input.Flag()},
		ShellComplete: highlightIDCompleter,
		Action:        cmd.runRm,
	}
}

func (cmd *HighlightCmd) runAdd(_ context.Context, c *cli.Command) error {
	if err := requirePath(&cmd.input); err != nil {
		return err
	}

	doc, err := readDocumentFile(cmd.input.Path())
	if err != nil {
		return fmt.Errorf("read document: %w", err)
	}

	var h highlight.HighlightPayload
	if cmd.term != "" || c.IsSet("start") || c.IsSet("end") {
		h = cmd.fromFlags(c)
	} else {
		h, err = cmd.runForm(doc.Payload.MarkdownContent)
		if errors.Is(err, huh.ErrUserAborted) {
			return nil
		}
		if err != nil {
			return err
		}
	}

	if err := validate.Color(h.Color); err != nil {
		return err
	}

	p := doc.Payload
	p.Highlights = append(p.Highlights, h)
	if err := p.Validate(); err != nil {
		return fmt.Errorf("invalid highlight: %w", err)
	}

	if err := iojson.WriteFile(doc.Path, p); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(c.Root().Writer, "added %s to %s\n", highlight.ID(len(p.Highlights)-1), doc.Path)
	return nil
}

func (cmd *HighlightCmd) fromFlags(c *cli.Command) highlight.HighlightPayload {
	h := highlight.HighlightPayload{
		Term:     cmd.term,
		Title:    cmd.title,
		Content:  cmd.content,
		Category: cmd.category,
		Color:    cmd.color,
	}
	if c.IsSet("start") || c.IsSet("end") {
		h.Position = []int{cmd.start, cmd.end}
	}
	return h
}

func (cmd *HighlightCmd) runForm(content string) (highlight.HighlightPayload, error) {
	var (
		kind       = selectorTerm
		start, end string
		h          highlight.HighlightPayload
		length     = highlight.NewOffsets(content).Len()
	)

	err := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Selector").
				Options(
					huh.NewOption("Term (first match of literal text)", selectorTerm),
					huh.NewOption("Position (code point range)", selectorPosition),
				).
				Value(&kind),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Term").
				Validate(validate.Required).
				Value(&h.Term),
		).WithHideFunc(func() bool { return kind != selectorTerm }),
		huh.NewGroup(
			huh.NewInput().
				Title("Start").
				Description(fmt.Sprintf("0 to %d", length-1)).
				Validate(validate.IntBetween(0, length-1)).
				Value(&start),
			huh.NewInput().
				Title("End").
				Description(fmt.Sprintf("exclusive, up to %d", length)).
				Validate(validate.IntBetween(1, length)).
				Value(&end),
		).WithHideFunc(func() bool { return kind != selectorPosition }),
		huh.NewGroup(
			huh.NewInput().Title("Title").Value(&h.Title),
			huh.NewInput().Title("Category").Value(&h.Category),
			huh.NewInput().
				Title("Color").
				Placeholder("#fff59d").
				Validate(validate.Color).
				Value(&h.Color),
			huh.NewText().
				Title("Content").
				Description("Markdown shown in the side panel").
				Value(&h.Content),
		),
	).WithTheme(styles.FormTheme()).Run()
	if err != nil {
		return h, err
	}

	if kind == selectorPosition {
		s, _ := strconv.Atoi(start)
		e, _ := strconv.Atoi(end)
		h.Term = ""
		h.Position = []int{s, e}
	}
	return h, nil
}

func (cmd *HighlightCmd) runLs(_ context.Context, c *cli.Command) error {
	doc, err := readDocument(&cmd.input)
	if err != nil {
		return err
	}

	res := cmd.flags.config().NewResolver().Resolve(doc.Document)
	writeHighlightList(c.Root().Writer, doc, res)
	return nil
}

func writeHighlightList(w io.Writer, doc loaded, res highlight.Resolution) {
	placed := make(map[int]highlight.Span, len(res.Final))
	for _, s := range res.Final {
		if _, ok := placed[s.Index]; !ok {
			placed[s.Index] = s
		}
	}

	for i, def := range doc.Document.Highlights {
		var selector string
		switch sel := def.Selector.(type) {
		case highlight.Term:
			selector = fmt.Sprintf("term %q", sel.Text)
		case highlight.Position:
			selector = fmt.Sprintf("position [%d, %d)", sel.Start, sel.End)
		default:
			selector = "no selector"
		}

		state := styles.CheckOKStyle.Render("placed")
		if s, ok := placed[i]; ok {
			state += styles.MutedStyle.Render(fmt.Sprintf(" at [%d, %d)", s.Start, s.End))
		} else {
			state = styles.DiagnosticStyle.Render("not shown")
		}

		line := fmt.Sprintf("%-6s %s  %s", highlight.ID(i), selector, state)
		if def.Title != "" {
			line += "  " + styles.CommandHeaderStyle.Render(def.Title)
		}
		_, _ = fmt.Fprintln(w, line)
	}
}

func (cmd *HighlightCmd) runRm(_ context.Context, c *cli.Command) error {
	if err := requirePath(&cmd.input); err != nil {
		return err
	}
	if c.Args().Len() != 1 {
		return errors.New("expected exactly one highlight id")
	}

	id := c.Args().First()
	doc, err := readDocumentFile(cmd.input.Path())
	if err != nil {
		return fmt.Errorf("read document: %w", err)
	}

	idx, ok := highlight.ParseID(id)
	if !ok || idx >= len(doc.Payload.Highlights) {
		return fmt.Errorf("no highlight %q in %s", id, doc.Path)
	}

	p := doc.Payload
	p.Highlights = append(p.Highlights[:idx:idx], p.Highlights[idx+1:]...)
	if err := iojson.WriteFile(doc.Path, p); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(c.Root().Writer, "removed %s from %s\n", id, doc.Path)
	return nil
}
