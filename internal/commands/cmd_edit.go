package commands

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/hay-kot/mdlabel/internal/core/editor"
	"github.com/hay-kot/mdlabel/internal/core/eventbus"
	"github.com/hay-kot/mdlabel/internal/core/highlight"
	"github.com/hay-kot/mdlabel/internal/core/logging"
	"github.com/hay-kot/mdlabel/internal/core/notify"
	"github.com/hay-kot/mdlabel/internal/core/render"
	"github.com/hay-kot/mdlabel/internal/tui"
	"github.com/hay-kot/mdlabel/pkg/iojson"
	"github.com/hay-kot/mdlabel/pkg/logutils"
	"github.com/hay-kot/mdlabel/pkg/randid"
)

const maxDeferredLogEvents = 1000

type EditCmd struct {
	flags *Flags
	input iojson.FileReader[highlight.Payload]
}

// NewEditCmd creates a new edit command.
func NewEditCmd(flags *Flags) *EditCmd {
	return &EditCmd{flags: flags}
}

// Register adds the edit command to the application.
func (cmd *EditCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "edit",
		Usage:     "Open a document in the terminal editor",
		UsageText: "mdlabel edit -f <document>",
		Description: `Opens the interactive editor for a highlighted document.

The document is shown with its highlights and a side panel. Press e to edit
the markdown, ctrl+s to save and esc to discard the draft. Saving writes the
document back to the file it was read from. A file that does not exist yet
starts out empty and is created on the first save.

Keys while viewing:
  tab / shift+tab   select the next or previous highlight
  p                 toggle the side panel
  ?                 toggle full help
  q                 quit`,
		Flags: []cli.Flag{
			cmd.input.Flag(),
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *EditCmd) run(ctx context.Context, _ *cli.Command) error {
	if err := requirePath(&cmd.input); err != nil {
		return err
	}

	doc, err := cmd.load()
	if err != nil {
		return err
	}

	// The editor owns the terminal; stderr logs are held until it exits.
	if cmd.flags.LogFile == "" {
		deferred := logutils.NewDeferred(maxDeferredLogEvents)
		previous := log.Logger
		log.Logger = log.Logger.Output(deferred)
		defer func() {
			log.Logger = previous
			_ = deferred.Flush(logutils.Stderr())
		}()
	}

	sessionID := randid.Generate(8)
	ctx = logging.WithDocument(logging.WithSessionID(ctx, sessionID), doc.Path)

	renderer := render.New(logging.Component("render"))
	sess, bus := cmd.open(ctx, sessionID, doc, renderer)
	m := tui.New(tui.Options{
		Title:    filepath.Base(doc.Path),
		Session:  sess,
		Renderer: renderer,
		Bus:      bus,
		Config:   cmd.flags.config(),
	})

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("run editor: %w", err)
	}
	finalModel.(tui.Model).Close()

	return nil
}

// load reads the document, treating a missing file as an empty document.
func (cmd *EditCmd) load() (loaded, error) {
	doc, err := readDocumentFile(cmd.input.Path())
	if errors.Is(err, fs.ErrNotExist) {
		return newLoaded(cmd.input.Path(), highlight.Payload{}), nil
	}
	if err != nil {
		return loaded{}, fmt.Errorf("read document: %w", err)
	}
	return doc, nil
}

// open builds the session for doc and its bus. Every submitted document is
// written back to doc.Path; write failures surface as error notifications.
func (cmd *EditCmd) open(ctx context.Context, sessionID string, doc loaded, renderer *render.Renderer) (*editor.Session, *eventbus.EventBus) {
	logger := logging.Component("edit")

	bus := eventbus.New()
	eventbus.RegisterDebugLogger(bus, logging.Component("eventbus"))
	eventbus.NewNotificationRouter(bus).Register()

	bus.SubscribeDocumentSubmitted(func(p eventbus.DocumentSubmittedPayload) {
		if err := iojson.WriteFile(doc.Path, p.Document); err != nil {
			logger.Error().Ctx(ctx).Err(err).Msg("failed to write document")
			bus.PublishNotificationPublished(eventbus.NotificationPublishedPayload{
				Level:   notify.LevelError,
				Message: err.Error(),
			})
			return
		}
		logger.Info().Ctx(ctx).Msg("document written")
	})

	sess := editor.New(sessionID, doc.Document, cmd.flags.config().NewResolver(), renderer, bus, logger)
	for _, d := range doc.Diagnostics {
		logger.Warn().Ctx(ctx).Str("code", string(d.Code)).Int("index", d.Index).Msg(d.Message)
	}
	return sess, bus
}
