package eventbus_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/mdlabel/internal/core/eventbus"
	"github.com/hay-kot/mdlabel/internal/core/eventbus/testbus"
	"github.com/hay-kot/mdlabel/internal/core/highlight"
	"github.com/hay-kot/mdlabel/internal/core/notify"
)

func latestNotificationPayload(tb *testbus.Bus, t *testing.T) eventbus.NotificationPublishedPayload {
	t.Helper()
	tb.AssertPublished(t, eventbus.EventNotificationPublished)

	last, _ := tb.Last(eventbus.EventNotificationPublished)
	p, ok := last.(eventbus.NotificationPublishedPayload)
	require.True(t, ok)
	return p
}

func TestNotificationRouter_Submitted(t *testing.T) {
	tb := testbus.New(t)
	eventbus.NewNotificationRouter(tb.EventBus).Register()

	tb.PublishDocumentSubmitted(eventbus.DocumentSubmittedPayload{
		Document: highlight.Payload{MarkdownContent: "héllo"},
	})
	p := latestNotificationPayload(tb, t)

	assert.Equal(t, notify.LevelInfo, p.Level)
	assert.Contains(t, p.Message, "5 characters")
}

func TestNotificationRouter_Cleared(t *testing.T) {
	tb := testbus.New(t)
	eventbus.NewNotificationRouter(tb.EventBus).Register()

	tb.PublishDocumentCleared(eventbus.DocumentClearedPayload{})
	p := latestNotificationPayload(tb, t)

	assert.Equal(t, notify.LevelInfo, p.Level)
	assert.Equal(t, "changes discarded", p.Message)
}

func TestNotificationRouter_Diagnostic(t *testing.T) {
	tb := testbus.New(t)
	eventbus.NewNotificationRouter(tb.EventBus).Register()

	tb.PublishDiagnosticReported(eventbus.DiagnosticReportedPayload{
		Diagnostic: highlight.Diagf(-1, highlight.CodeInvalidTransition, "save while viewing"),
	})
	p := latestNotificationPayload(tb, t)

	assert.Equal(t, notify.LevelWarning, p.Level)
	assert.Equal(t, "invalid-transition: save while viewing", p.Message)
}

func TestNotificationRouter_SelectedWithoutTitle_doesNotPublish(t *testing.T) {
	tb := testbus.New(t)
	eventbus.NewNotificationRouter(tb.EventBus).Register()

	tb.PublishHighlightSelected(eventbus.HighlightSelectedPayload{ID: "hl-0"})
	tb.AssertNotPublished(t, eventbus.EventNotificationPublished)

	tb.PublishHighlightSelected(eventbus.HighlightSelectedPayload{
		ID:         "hl-1",
		Definition: highlight.Definition{Title: "Fox"},
	})
	assert.Contains(t, latestNotificationPayload(tb, t).Message, `"Fox"`)
}

func TestNotificationRouter_DocumentChanged_doesNotPublish(t *testing.T) {
	tb := testbus.New(t)
	eventbus.NewNotificationRouter(tb.EventBus).Register()

	tb.PublishDocumentChanged(eventbus.DocumentChangedPayload{})
	tb.AssertNotPublished(t, eventbus.EventNotificationPublished)
}
