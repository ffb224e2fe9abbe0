package eventbus

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventBus_DeliversInOrder(t *testing.T) {
	bus := New()

	var got []string
	bus.SubscribeEditStarted(func(p EditStartedPayload) { got = append(got, "a:"+p.SessionID) })
	bus.SubscribeEditStarted(func(p EditStartedPayload) { got = append(got, "b:"+p.SessionID) })
	bus.SubscribeDocumentCleared(func(DocumentClearedPayload) { got = append(got, "cleared") })

	bus.PublishEditStarted(EditStartedPayload{SessionID: "s"})

	assert.Equal(t, []string{"a:s", "b:s"}, got)
}

func TestEventBus_Unsubscribe(t *testing.T) {
	bus := New()

	calls := 0
	unsub := bus.SubscribeDocumentChanged(func(DocumentChangedPayload) { calls++ })
	assert.Equal(t, 1, bus.SubscriberCount(EventDocumentChanged))

	bus.PublishDocumentChanged(DocumentChangedPayload{})
	unsub()
	unsub()
	bus.PublishDocumentChanged(DocumentChangedPayload{})

	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, bus.SubscriberCount(EventDocumentChanged))
}

func TestEventBus_PanicIsRecovered(t *testing.T) {
	bus := New()

	var recovered []any
	bus.OnPanic(func(_ Event, _ any, r any) { recovered = append(recovered, r) })

	reached := false
	bus.SubscribeDocumentCleared(func(DocumentClearedPayload) { panic("boom") })
	bus.SubscribeDocumentCleared(func(DocumentClearedPayload) { reached = true })

	assert.NotPanics(t, func() { bus.PublishDocumentCleared(DocumentClearedPayload{}) })
	assert.True(t, reached)
	assert.Equal(t, []any{"boom"}, recovered)
}

func TestEventBus_PublishFromSubscriber(t *testing.T) {
	bus := New()

	var order []Event
	bus.OnPublish(func(e Event, _ any) { order = append(order, e) })
	bus.SubscribeDocumentSubmitted(func(DocumentSubmittedPayload) {
		bus.PublishDocumentChanged(DocumentChangedPayload{})
	})

	bus.PublishDocumentSubmitted(DocumentSubmittedPayload{})

	assert.Equal(t, []Event{EventDocumentSubmitted, EventDocumentChanged}, order)
}

func TestEventBus_NilBusDropsPublishes(t *testing.T) {
	var bus *EventBus
	assert.NotPanics(t, func() { bus.PublishDocumentCleared(DocumentClearedPayload{}) })
}

func TestEvents_NamesMatchConstants(t *testing.T) {
	for _, e := range []Event{
		EventDiagnosticReported,
		EventDocumentChanged,
		EventDocumentCleared,
		EventEditStarted,
		EventDocumentSubmitted,
		EventHighlightSelected,
		EventNotificationPublished,
	} {
		assert.Contains(t, Events, string(e))
	}
	assert.Len(t, Events, 7)
}
