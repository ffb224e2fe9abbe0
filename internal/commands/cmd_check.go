package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hay-kot/criterio"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/mdlabel/internal/core/highlight"
	"github.com/hay-kot/mdlabel/internal/core/logging"
	"github.com/hay-kot/mdlabel/internal/core/styles"
)

type CheckCmd struct {
	flags  *Flags
	strict bool
	format string
}

// NewCheckCmd creates a new check command.
func NewCheckCmd(flags *Flags) *CheckCmd {
	return &CheckCmd{flags: flags}
}

// Register adds the check command to the application.
func (cmd *CheckCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "check",
		Usage:     "Validate highlight documents",
		UsageText: "mdlabel check [options] <glob>...",
		Description: `Checks every document matching the given globs. Patterns support ** to
match across directories.

A document fails when its highlights are structurally invalid: missing or
conflicting selectors, or positions outside the content. With --strict,
diagnostics raised while resolving (for example a term that is never found)
fail the document too.

Examples:
  mdlabel check notes.json
  mdlabel check 'docs/**/*.{json,yaml}'`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "strict",
				Usage:       "treat resolution diagnostics as failures",
				Destination: &cmd.strict,
			},
			&cli.StringFlag{
				Name:        "format",
				Usage:       "output format (text, json)",
				Value:       "text",
				Destination: &cmd.format,
				Validator:   oneOfFormat("text", "json"),
			},
		},
		Action: cmd.run,
	})

	return app
}

// checkResult is the outcome of checking one document.
type checkResult struct {
	Path        string                 `json:"path"`
	OK          bool                   `json:"ok"`
	Errors      []string               `json:"errors,omitempty"`
	Diagnostics []highlight.Diagnostic `json:"diagnostics,omitempty"`
}

func (cmd *CheckCmd) run(_ context.Context, c *cli.Command) error {
	patterns := c.Args().Slice()
	if len(patterns) == 0 {
		return errors.New("at least one glob is required")
	}

	paths, err := expandGlobs(patterns)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no documents match %v", patterns)
	}

	logger := logging.Component("check")
	resolver := cmd.flags.config().NewResolver()

	results := make([]checkResult, 0, len(paths))
	failed := 0
	for _, path := range paths {
		r := cmd.check(path, resolver)
		if !r.OK {
			failed++
		}
		logger.Debug().Str("document", path).Bool("ok", r.OK).Msg("checked")
		results = append(results, r)
	}

	if cmd.format == "json" {
		if err := writeJSON(c, c.Root().Writer, results); err != nil {
			return err
		}
	} else {
		writeCheckResults(c.Root().Writer, results, failed)
	}

	if failed > 0 {
		return cli.Exit("", 1)
	}
	return nil
}

func (cmd *CheckCmd) check(path string, resolver *highlight.Resolver) checkResult {
	r := checkResult{Path: path}

	doc, err := readDocumentFile(path)
	if err != nil {
		r.Errors = []string{err.Error()}
		return r
	}

	if err := doc.Payload.Validate(); err != nil {
		var fieldErrs criterio.FieldErrors
		if errors.As(err, &fieldErrs) {
			for _, fe := range fieldErrs {
				r.Errors = append(r.Errors, fmt.Sprintf("%s: %v", fe.Field, fe.Err))
			}
		} else {
			r.Errors = append(r.Errors, err.Error())
		}
	}

	res := resolver.Resolve(doc.Document)
	r.Diagnostics = append(doc.Diagnostics, res.Diagnostics...)

	r.OK = len(r.Errors) == 0 && (!cmd.strict || len(r.Diagnostics) == 0)
	return r
}

// expandGlobs returns the sorted, de-duplicated files matching patterns.
func expandGlobs(patterns []string) ([]string, error) {
	var out []string
	for _, pattern := range patterns {
		if !doublestar.ValidatePathPattern(pattern) {
			return nil, fmt.Errorf("invalid glob %q", pattern)
		}
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", pattern, err)
		}
		out = append(out, matches...)
	}

	slices.Sort(out)
	return slices.Compact(out), nil
}

func writeCheckResults(w io.Writer, results []checkResult, failed int) {
	for _, r := range results {
		if r.OK {
			_, _ = fmt.Fprintln(w, styles.CheckOKStyle.Render("✓")+" "+styles.PathStyle.Render(r.Path))
		} else {
			_, _ = fmt.Fprintln(w, styles.CheckFailStyle.Render("✗")+" "+styles.PathStyle.Render(r.Path))
		}
		for _, e := range r.Errors {
			_, _ = fmt.Fprintln(w, "    "+styles.CheckFailStyle.Render(e))
		}
		for _, d := range r.Diagnostics {
			_, _ = fmt.Fprintln(w, "    "+styles.DiagnosticStyle.Render(d.String()))
		}
	}

	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintf(w, "%d documents checked, %d failed\n", len(results), failed)
}
