// Package eventbus provides a typed publish/subscribe event bus that carries
// document lifecycle notifications to any number of observers.
//
// Dispatch is synchronous: Publish* runs every subscriber on the caller's
// goroutine, in registration order, before returning.
package eventbus

import (
	"github.com/hay-kot/mdlabel/internal/core/highlight"
	"github.com/hay-kot/mdlabel/internal/core/notify"
)

// Events defines all event types and their payload structs.
var Events = map[string]any{
	// Keep list sorted A-Z
	"diagnostic.reported":    DiagnosticReportedPayload{},
	"document.changed":       DocumentChangedPayload{},
	"document.cleared":       DocumentClearedPayload{},
	"document.edit-started":  EditStartedPayload{},
	"document.submitted":     DocumentSubmittedPayload{},
	"highlight.selected":     HighlightSelectedPayload{},
	"notification.published": NotificationPublishedPayload{},
}

// Event names a kind of event.
type Event string

const (
	EventDiagnosticReported    Event = "diagnostic.reported"
	EventDocumentChanged       Event = "document.changed"
	EventDocumentCleared       Event = "document.cleared"
	EventEditStarted           Event = "document.edit-started"
	EventDocumentSubmitted     Event = "document.submitted"
	EventHighlightSelected     Event = "highlight.selected"
	EventNotificationPublished Event = "notification.published"
)

// HighlightSelectedPayload is emitted when a rendered highlight is selected.
type HighlightSelectedPayload struct {
	SessionID  string
	ID         string // logical highlight id shared by all fragments
	Index      int
	Definition highlight.Definition
}

// EditStartedPayload is emitted when an edit session forks a draft.
type EditStartedPayload struct {
	SessionID string
}

// DocumentSubmittedPayload is emitted when a draft is saved.
type DocumentSubmittedPayload struct {
	SessionID string
	Document  highlight.Payload
}

// DocumentClearedPayload is emitted when a draft is discarded.
type DocumentClearedPayload struct {
	SessionID string
}

// DocumentChangedPayload is emitted whenever the committed document changes,
// by a save or by an external update.
type DocumentChangedPayload struct {
	SessionID string
	Document  highlight.Payload
}

// DiagnosticReportedPayload is emitted for usage and resolution diagnostics.
type DiagnosticReportedPayload struct {
	SessionID  string
	Diagnostic highlight.Diagnostic
}

// NotificationPublishedPayload carries a user-facing notification.
type NotificationPublishedPayload struct {
	Level   notify.Level
	Message string
}
