package eventbus

import "sync"

// EventBus dispatches typed events to subscribers.
// A nil *EventBus accepts publishes and drops them.
type EventBus struct {
	mu     sync.RWMutex
	subs   map[Event][]subscriber
	nextID uint64

	hooks hooks
}

type subscriber struct {
	id uint64
	fn func(any)
}

// New creates an event bus with no subscribers.
func New() *EventBus {
	return &EventBus{subs: make(map[Event][]subscriber)}
}

// subscribe registers fn for event and returns a func that removes it.
func (bus *EventBus) subscribe(event Event, fn func(any)) func() {
	bus.mu.Lock()
	bus.nextID++
	id := bus.nextID
	bus.subs[event] = append(bus.subs[event], subscriber{id: id, fn: fn})
	bus.mu.Unlock()

	bus.runOnSubscribe(event)

	var once sync.Once
	return func() {
		once.Do(func() {
			bus.mu.Lock()
			defer bus.mu.Unlock()
			subs := bus.subs[event]
			for i, s := range subs {
				if s.id == id {
					bus.subs[event] = append(subs[:i:i], subs[i+1:]...)
					break
				}
			}
		})
	}
}

// subscribeAs adapts a typed handler to the untyped subscriber list.
func subscribeAs[T any](bus *EventBus, event Event, fn func(T)) func() {
	return bus.subscribe(event, func(payload any) {
		if p, ok := payload.(T); ok {
			fn(p)
		}
	})
}

// send delivers an event to every subscriber and fires hooks.
// Subscribers registered or removed during delivery take effect on the next send.
func (bus *EventBus) send(event Event, payload any) {
	if bus == nil {
		return
	}

	bus.mu.RLock()
	subs := make([]subscriber, len(bus.subs[event]))
	copy(subs, bus.subs[event])
	bus.mu.RUnlock()

	bus.runOnPublish(event, payload)
	for _, s := range subs {
		bus.deliver(event, payload, s.fn)
	}
}

func (bus *EventBus) deliver(event Event, payload any, fn func(any)) {
	defer func() {
		if r := recover(); r != nil {
			bus.runOnPanic(event, payload, r)
		}
	}()
	fn(payload)
}

// SubscriberCount returns the number of subscribers registered for event.
func (bus *EventBus) SubscriberCount(event Event) int {
	bus.mu.RLock()
	defer bus.mu.RUnlock()
	return len(bus.subs[event])
}

func (bus *EventBus) PublishHighlightSelected(p HighlightSelectedPayload) {
	bus.send(EventHighlightSelected, p)
}

func (bus *EventBus) SubscribeHighlightSelected(fn func(HighlightSelectedPayload)) func() {
	return subscribeAs(bus, EventHighlightSelected, fn)
}

func (bus *EventBus) PublishEditStarted(p EditStartedPayload) {
	bus.send(EventEditStarted, p)
}

func (bus *EventBus) SubscribeEditStarted(fn func(EditStartedPayload)) func() {
	return subscribeAs(bus, EventEditStarted, fn)
}

func (bus *EventBus) PublishDocumentSubmitted(p DocumentSubmittedPayload) {
	bus.send(EventDocumentSubmitted, p)
}

func (bus *EventBus) SubscribeDocumentSubmitted(fn func(DocumentSubmittedPayload)) func() {
	return subscribeAs(bus, EventDocumentSubmitted, fn)
}

func (bus *EventBus) PublishDocumentCleared(p DocumentClearedPayload) {
	bus.send(EventDocumentCleared, p)
}

func (bus *EventBus) SubscribeDocumentCleared(fn func(DocumentClearedPayload)) func() {
	return subscribeAs(bus, EventDocumentCleared, fn)
}

func (bus *EventBus) PublishDocumentChanged(p DocumentChangedPayload) {
	bus.send(EventDocumentChanged, p)
}

func (bus *EventBus) SubscribeDocumentChanged(fn func(DocumentChangedPayload)) func() {
	return subscribeAs(bus, EventDocumentChanged, fn)
}

func (bus *EventBus) PublishDiagnosticReported(p DiagnosticReportedPayload) {
	bus.send(EventDiagnosticReported, p)
}

func (bus *EventBus) SubscribeDiagnosticReported(fn func(DiagnosticReportedPayload)) func() {
	return subscribeAs(bus, EventDiagnosticReported, fn)
}

func (bus *EventBus) PublishNotificationPublished(p NotificationPublishedPayload) {
	bus.send(EventNotificationPublished, p)
}

func (bus *EventBus) SubscribeNotificationPublished(fn func(NotificationPublishedPayload)) func() {
	return subscribeAs(bus, EventNotificationPublished, fn)
}
