package eventbus

import (
	"fmt"

	"github.com/hay-kot/mdlabel/internal/core/notify"
)

// NotificationRouter maps document events to user-facing notifications.
type NotificationRouter struct {
	bus *EventBus
}

// NewNotificationRouter constructs a router for event-to-notification mappings.
func NewNotificationRouter(bus *EventBus) *NotificationRouter {
	return &NotificationRouter{bus: bus}
}

// Register subscribes all supported event mappings.
func (r *NotificationRouter) Register() {
	if r == nil || r.bus == nil {
		return
	}

	r.bus.SubscribeDocumentSubmitted(func(p DocumentSubmittedPayload) {
		r.notifyf(notify.LevelInfo, "document saved (%d characters)", len([]rune(p.Document.MarkdownContent)))
	})

	r.bus.SubscribeDocumentCleared(func(DocumentClearedPayload) {
		r.notifyf(notify.LevelInfo, "changes discarded")
	})

	r.bus.SubscribeDiagnosticReported(func(p DiagnosticReportedPayload) {
		r.notifyf(notify.LevelWarning, "%s", p.Diagnostic.String())
	})

	r.bus.SubscribeHighlightSelected(func(p HighlightSelectedPayload) {
		if p.Definition.Title == "" {
			return
		}
		r.notifyf(notify.LevelInfo, "selected %q", p.Definition.Title)
	})
}

func (r *NotificationRouter) notifyf(level notify.Level, format string, args ...any) {
	r.bus.PublishNotificationPublished(NotificationPublishedPayload{
		Level:   level,
		Message: fmt.Sprintf(format, args...),
	})
}
