package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/hay-kot/criterio"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/mdlabel/internal/core/styles"
)

type ConfigValidateCmd struct {
	flags  *Flags
	format string
}

// NewConfigValidateCmd creates a new config validate command.
func NewConfigValidateCmd(flags *Flags) *ConfigValidateCmd {
	return &ConfigValidateCmd{flags: flags}
}

// Register adds the config validate command to the application.
func (cmd *ConfigValidateCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "config",
		Usage: "Configuration management commands",
		Commands: []*cli.Command{
			{
				Name:        "validate",
				Usage:       "Validate configuration file",
				UsageText:   "mdlabel config validate [options]",
				Description: "Validates the configuration file, checking enumerated values, limits, and the render style path.",
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
			},
		},
	})

	return app
}

type configIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (cmd *ConfigValidateCmd) run(_ context.Context, c *cli.Command) error {
	issues, err := configIssues(cmd.flags.config().ValidateDeep(cmd.flags.ConfigPath))
	if err != nil {
		return err
	}

	if cmd.format == "json" {
		out := struct {
			Valid  bool          `json:"valid"`
			Path   string        `json:"path"`
			Errors []configIssue `json:"errors"`
		}{
			Valid:  len(issues) == 0,
			Path:   cmd.flags.ConfigPath,
			Errors: issues,
		}
		if err := writeJSON(c, c.Root().Writer, out); err != nil {
			return err
		}
	} else {
		w := c.Root().Writer
		for _, issue := range issues {
			_, _ = fmt.Fprintf(w, "%s %s: %s\n",
				styles.CheckFailStyle.Render("✗"), issue.Field, issue.Message)
		}
		if len(issues) == 0 {
			_, _ = fmt.Fprintf(w, "%s Configuration is valid %s\n",
				styles.CheckOKStyle.Render("✓"), styles.PathStyle.Render(cmd.flags.ConfigPath))
		} else {
			_, _ = fmt.Fprintf(w, "\n%d error(s) found\n", len(issues))
		}
	}

	if len(issues) > 0 {
		return cli.Exit("", 1)
	}
	return nil
}

// configIssues flattens validation field errors. Errors that are not field
// errors are returned as is.
func configIssues(err error) ([]configIssue, error) {
	if err == nil {
		return []configIssue{}, nil
	}

	var fieldErrs criterio.FieldErrors
	if !errors.As(err, &fieldErrs) {
		return nil, err
	}

	issues := make([]configIssue, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		issues = append(issues, configIssue{Field: fe.Field, Message: fe.Err.Error()})
	}
	return issues, nil
}
