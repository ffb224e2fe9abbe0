package tui

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/mdlabel/internal/core/eventbus"
	"github.com/hay-kot/mdlabel/internal/core/notify"
)

func TestNotificationBuffer_Drain_empty_returnsNil(t *testing.T) {
	b := NewNotificationBuffer()
	assert.Nil(t, b.Drain())
}

func TestNotificationBuffer_PushDrain_orderAndClear(t *testing.T) {
	b := NewNotificationBuffer()
	b.Push(notify.Notification{Level: notify.LevelInfo, Message: "document saved (5 characters)"})
	b.Push(notify.Notification{Level: notify.LevelWarning, Message: "changes discarded"})

	items := b.Drain()
	require.Len(t, items, 2)
	assert.Equal(t, "document saved (5 characters)", items[0].Message)
	assert.Equal(t, "changes discarded", items[1].Message)
	assert.Nil(t, b.Drain())
}

func TestNotificationBuffer_Push_setsCreatedAtWhenZero(t *testing.T) {
	b := NewNotificationBuffer()
	b.Push(notify.Notification{Level: notify.LevelInfo, Message: "selected \"Fox\""})

	items := b.Drain()
	require.Len(t, items, 1)
	assert.False(t, items[0].CreatedAt.IsZero())
}

func TestNotificationBuffer_WaitForSignal_bufferedSignal(t *testing.T) {
	b := NewNotificationBuffer()
	b.Push(notify.Notification{Level: notify.LevelInfo, Message: "changes discarded"})

	msg := b.WaitForSignal()()
	_, ok := msg.(drainNotificationsMsg)
	require.True(t, ok)
}

func TestNotificationBuffer_WaitForSignal_singleSignalDrainsAll(t *testing.T) {
	b := NewNotificationBuffer()
	b.Push(notify.Notification{Level: notify.LevelInfo, Message: "one"})
	b.Push(notify.Notification{Level: notify.LevelInfo, Message: "two"})

	msg := b.WaitForSignal()()
	_, ok := msg.(drainNotificationsMsg)
	require.True(t, ok)

	items := b.Drain()
	require.Len(t, items, 2)
	assert.Equal(t, "one", items[0].Message)
	assert.Equal(t, "two", items[1].Message)
}

func TestNotificationBuffer_ConcurrentPush_noLoss(t *testing.T) {
	b := NewNotificationBuffer()
	const count = 200

	var wg sync.WaitGroup
	for i := range count {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			b.Push(notify.Notification{Level: notify.LevelInfo, Message: time.Duration(i).String()})
		}(i)
	}
	wg.Wait()

	items := b.Drain()
	assert.Len(t, items, count)
}

func TestNotificationBuffer_Subscribe(t *testing.T) {
	bus := eventbus.New()
	b := NewNotificationBuffer()

	unsubscribe := b.Subscribe(bus)
	bus.PublishNotificationPublished(eventbus.NotificationPublishedPayload{
		Level:   notify.LevelWarning,
		Message: "[unknown-highlight] no highlight",
	})

	items := b.Drain()
	require.Len(t, items, 1)
	assert.Equal(t, notify.LevelWarning, items[0].Level)

	unsubscribe()
	bus.PublishNotificationPublished(eventbus.NotificationPublishedPayload{Level: notify.LevelInfo, Message: "ignored"})
	assert.Nil(t, b.Drain())
	assert.Zero(t, bus.SubscriberCount(eventbus.EventNotificationPublished))
}

func TestNotificationBuffer_Subscribe_nilBus(t *testing.T) {
	b := NewNotificationBuffer()
	assert.NotPanics(t, func() { b.Subscribe(nil)() })
}
