package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/hay-kot/mdlabel/internal/core/doctor"
	"github.com/hay-kot/mdlabel/internal/core/styles"
)

type DoctorCmd struct {
	flags  *Flags
	format string
}

// NewDoctorCmd creates a new doctor command.
func NewDoctorCmd(flags *Flags) *DoctorCmd {
	return &DoctorCmd{flags: flags}
}

// Register adds the doctor command to the application.
func (cmd *DoctorCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "doctor",
		Usage:       "Run health checks on your mdlabel setup",
		UsageText:   "mdlabel doctor [options]",
		Description: "Checks the configuration, the terminal, and renders a sample document with the configured style.",
		Flags: []cli.Flag{
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

func (cmd *DoctorCmd) run(ctx context.Context, c *cli.Command) error {
	cfg := cmd.flags.config()
	results := doctor.RunAll(ctx, []doctor.Check{
		doctor.NewConfigCheck(cfg, cmd.flags.ConfigPath),
		doctor.NewTerminalCheck(),
		doctor.NewRenderCheck(cfg),
	})
	passed, warned, failed := doctor.Summary(results)

	if cmd.format == "json" {
		out := struct {
			Healthy bool            `json:"healthy"`
			Summary summaryJSON     `json:"summary"`
			Checks  []doctor.Result `json:"checks"`
		}{
			Healthy: failed == 0,
			Summary: summaryJSON{Passed: passed, Warned: warned, Failed: failed},
			Checks:  results,
		}
		if err := writeJSON(c, c.Root().Writer, out); err != nil {
			return err
		}
	} else {
		writeDoctorResults(c, results, passed, warned, failed)
	}

	if failed > 0 {
		return cli.Exit("", 1)
	}
	return nil
}

type summaryJSON struct {
	Passed int `json:"passed"`
	Warned int `json:"warned"`
	Failed int `json:"failed"`
}

func writeDoctorResults(c *cli.Command, results []doctor.Result, passed, warned, failed int) {
	w := c.Root().Writer

	_, _ = fmt.Fprintln(w, styles.CommandHeaderStyle.Render("mdlabel doctor"))
	_, _ = fmt.Fprintln(w, styles.DividerStyle.Render(strings.Repeat("─", 40)))
	_, _ = fmt.Fprintln(w)

	for _, result := range results {
		_, _ = fmt.Fprintln(w, styles.TitleStyle.Render(result.Name))

		for _, item := range result.Items {
			var detail string
			if item.Detail != "" {
				detail = " " + styles.MutedStyle.Render(item.Detail)
			}

			var icon string
			switch item.Status {
			case doctor.StatusPass:
				icon = styles.CheckOKStyle.Render("✔")
			case doctor.StatusWarn:
				icon = styles.DiagnosticStyle.Render("●")
			case doctor.StatusFail:
				icon = styles.CheckFailStyle.Render("✘")
			}

			_, _ = fmt.Fprintf(w, "  %s %s%s\n", icon, item.Label, detail)
		}

		_, _ = fmt.Fprintln(w)
	}

	_, _ = fmt.Fprintf(w, "%s  %s  %s\n",
		styles.CheckOKStyle.Render(fmt.Sprintf("%d passed", passed)),
		styles.DiagnosticStyle.Render(fmt.Sprintf("%d warnings", warned)),
		styles.CheckFailStyle.Render(fmt.Sprintf("%d failed", failed)),
	)
}
