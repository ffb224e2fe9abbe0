package commands

import "github.com/urfave/cli/v3"

// NewApp returns the mdlabel root command with global flags bound to flags
// and every subcommand registered. Callers add the Before and After hooks.
func NewApp(flags *Flags, version string) *cli.Command {
	app := &cli.Command{
		Name:      "mdlabel",
		Usage:     "Highlight, render and edit annotated markdown documents",
		UsageText: "mdlabel [global options] command [command options]",
		Description: `mdlabel applies highlights to markdown documents. A document is a JSON or
YAML file holding markdown content and an ordered list of highlights, each
selecting text by literal term or by code point range.

Run 'mdlabel render -f doc.json' to print a highlighted document.
Run 'mdlabel edit -f doc.json' to open the interactive editor.`,
		Version:               version,
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("MDLABEL_LOG_LEVEL"),
				Value:       "warn",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to stderr)",
				Sources:     cli.EnvVars("MDLABEL_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("MDLABEL_CONFIG"),
				Value:       DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
		},
	}

	app = NewRenderCmd(flags).Register(app)
	app = NewResolveCmd(flags).Register(app)
	app = NewCheckCmd(flags).Register(app)
	app = NewEditCmd(flags).Register(app)
	app = NewHighlightCmd(flags).Register(app)
	app = NewConfigValidateCmd(flags).Register(app)
	app = NewDoctorCmd(flags).Register(app)

	return app
}
