// Package editor implements the edit session lifecycle of a highlighted
// markdown document.
//
// A session holds a committed document and, while editing, a draft forked
// from it. The committed document only changes on Save or Replace; Update
// only re-renders the draft.
//
//	Viewing --StartEdit--> Editing --Save----> Viewing
//	                               --Cancel--> Viewing
//
// Transitions that do not apply in the current state are no-ops. They are
// reported as invalid-transition diagnostics and return an error wrapping
// [ErrNotEditing] or [ErrAlreadyEditing].
package editor

import (
	"errors"
	"fmt"
	"slices"

	"github.com/rs/zerolog"

	"github.com/hay-kot/mdlabel/internal/core/eventbus"
	"github.com/hay-kot/mdlabel/internal/core/highlight"
	"github.com/hay-kot/mdlabel/internal/core/render"
)

var (
	ErrNotEditing       = errors.New("no edit in progress")
	ErrAlreadyEditing   = errors.New("edit already in progress")
	ErrUnknownHighlight = errors.New("unknown highlight")
)

// State is the lifecycle state of a session.
type State int

const (
	StateViewing State = iota
	StateEditing
)

func (s State) String() string {
	switch s {
	case StateViewing:
		return "viewing"
	case StateEditing:
		return "editing"
	default:
		return "unknown"
	}
}

// View is a rendered document.
type View struct {
	Document   highlight.Document
	Resolution highlight.Resolution
	Result     *render.Result
}

// Diagnostics returns resolution and rendering diagnostics together.
func (v *View) Diagnostics() []highlight.Diagnostic {
	out := slices.Clone(v.Resolution.Diagnostics)
	return append(out, v.Result.Diagnostics...)
}

// Session is the edit lifecycle of one document. A Session is not safe for
// concurrent use.
type Session struct {
	id       string
	resolver *highlight.Resolver
	renderer *render.Renderer
	bus      *eventbus.EventBus
	logger   zerolog.Logger

	state     State
	committed *View
	draft     *View
	usage     []highlight.Diagnostic
}

// New returns a session viewing doc. bus may be nil, in which case no events
// are published.
func New(id string, doc highlight.Document, resolver *highlight.Resolver, renderer *render.Renderer, bus *eventbus.EventBus, logger zerolog.Logger) *Session {
	s := &Session{
		id:       id,
		resolver: resolver,
		renderer: renderer,
		bus:      bus,
		logger:   logger.With().Str("session_id", id).Logger(),
	}
	s.committed = s.render(doc.Clone())
	return s
}

// ID returns the session identifier carried on every event.
func (s *Session) ID() string { return s.id }

// State returns the current lifecycle state.
func (s *Session) State() State { return s.state }

// Committed returns a copy of the committed document.
func (s *Session) Committed() highlight.Document { return s.committed.Document.Clone() }

// Draft returns a copy of the draft document, or false when not editing.
func (s *Session) Draft() (highlight.Document, bool) {
	if s.draft == nil {
		return highlight.Document{}, false
	}
	return s.draft.Document.Clone(), true
}

// View returns the rendering of the committed document.
func (s *Session) View() *View { return s.committed }

// Preview returns the rendering of the draft, or nil when not editing.
func (s *Session) Preview() *View { return s.draft }

// Current returns the draft rendering while editing and the committed one
// otherwise.
func (s *Session) Current() *View {
	if s.draft != nil {
		return s.draft
	}
	return s.committed
}

// Diagnostics returns the usage diagnostics recorded so far.
func (s *Session) Diagnostics() []highlight.Diagnostic { return slices.Clone(s.usage) }

// StartEdit forks a draft from the committed document and returns its
// rendering.
func (s *Session) StartEdit() (*View, error) {
	if s.state == StateEditing {
		return s.draft, s.invalid("start edit", ErrAlreadyEditing)
	}

	s.state = StateEditing
	s.draft = s.render(s.committed.Document.Clone())
	s.logger.Debug().Msg("edit started")
	s.bus.PublishEditStarted(eventbus.EditStartedPayload{SessionID: s.id})
	return s.draft, nil
}

// Update replaces the draft content and returns the new preview.
// The committed document is not touched and no event is published.
func (s *Session) Update(content string) (*View, error) {
	if s.state != StateEditing {
		return nil, s.invalid("update", ErrNotEditing)
	}

	doc := s.draft.Document
	doc.Content = content
	s.draft = s.render(doc)
	return s.draft, nil
}

// Save commits the draft with newContent as its content. Highlight
// definitions are kept as they are; positions that no longer fit the new
// content are dropped at resolution and reported as diagnostics.
func (s *Session) Save(newContent string) (*View, error) {
	if s.state != StateEditing {
		return s.committed, s.invalid("save", ErrNotEditing)
	}

	doc := s.draft.Document
	doc.Content = newContent

	s.committed = s.render(doc)
	s.draft = nil
	s.state = StateViewing

	payload := highlight.ToPayload(s.committed.Document)
	s.logger.Debug().Int("highlights", len(payload.Highlights)).Msg("document saved")
	s.bus.PublishDocumentSubmitted(eventbus.DocumentSubmittedPayload{SessionID: s.id, Document: payload})
	s.bus.PublishDocumentChanged(eventbus.DocumentChangedPayload{SessionID: s.id, Document: payload})
	s.report(s.committed.Diagnostics())
	return s.committed, nil
}

// Cancel discards the draft.
func (s *Session) Cancel() error {
	if s.state != StateEditing {
		return s.invalid("cancel", ErrNotEditing)
	}

	s.draft = nil
	s.state = StateViewing
	s.logger.Debug().Msg("edit cancelled")
	s.bus.PublishDocumentCleared(eventbus.DocumentClearedPayload{SessionID: s.id})
	return nil
}

// Replace sets the committed document from outside the session. A draft in
// progress is left as it is.
func (s *Session) Replace(doc highlight.Document) *View {
	s.committed = s.render(doc.Clone())

	payload := highlight.ToPayload(s.committed.Document)
	s.bus.PublishDocumentChanged(eventbus.DocumentChangedPayload{SessionID: s.id, Document: payload})
	s.report(s.committed.Diagnostics())
	return s.committed
}

// Select publishes a selection of the highlight with the given logical id in
// the current view. Ids without a rendered fragment are rejected.
func (s *Session) Select(id string) error {
	view := s.Current()

	idx, ok := highlight.ParseID(id)
	if !ok || idx >= len(view.Document.Highlights) || len(view.Result.Fragments(id)) == 0 {
		d := highlight.Diagf(-1, highlight.CodeUnknownHighlight, "no highlight %q in the current view", id)
		s.record(d)
		return fmt.Errorf("select %q: %w", id, ErrUnknownHighlight)
	}

	s.bus.PublishHighlightSelected(eventbus.HighlightSelectedPayload{
		SessionID:  s.id,
		ID:         id,
		Index:      idx,
		Definition: view.Document.Highlights[idx],
	})
	return nil
}

func (s *Session) render(doc highlight.Document) *View {
	res := s.resolver.Resolve(doc)
	return &View{
		Document:   doc,
		Resolution: res,
		Result:     s.renderer.Render(doc.Content, doc.Highlights, res.Final),
	}
}

func (s *Session) invalid(op string, err error) error {
	s.record(highlight.Diagf(-1, highlight.CodeInvalidTransition, "%s while %s: %v", op, s.state, err))
	return fmt.Errorf("%s: %w", op, err)
}

// record stores a usage diagnostic, logs it and publishes it.
func (s *Session) record(d highlight.Diagnostic) {
	s.usage = append(s.usage, d)
	s.logger.Warn().Str("code", string(d.Code)).Msg(d.Message)
	s.report([]highlight.Diagnostic{d})
}

func (s *Session) report(diags []highlight.Diagnostic) {
	for _, d := range diags {
		s.bus.PublishDiagnosticReported(eventbus.DiagnosticReportedPayload{SessionID: s.id, Diagnostic: d})
	}
}
