package tui

import (
	"time"

	"github.com/hay-kot/mdlabel/internal/core/notify"
)

const (
	defaultMaxToasts  = 4
	toastTickInterval = 100 * time.Millisecond
	toastWidth        = 48
)

// ttlFor returns how long a toast of the given level stays on screen.
func ttlFor(level notify.Level) time.Duration {
	switch level {
	case notify.LevelError:
		return 10 * time.Second
	case notify.LevelWarning:
		return 6 * time.Second
	default:
		return 3 * time.Second
	}
}

type toast struct {
	notification notify.Notification
	remaining    time.Duration
	count        int
}

// ToastController manages the lifecycle of active toast notifications.
type ToastController struct {
	toasts  []toast
	ticking bool
}

func NewToastController() *ToastController {
	return &ToastController{}
}

// Push adds a notification to the toast stack. A notification equal to one
// still on screen refreshes that toast instead of stacking a copy. When the
// stack exceeds defaultMaxToasts the oldest toast is evicted.
func (c *ToastController) Push(n notify.Notification) {
	for i := range c.toasts {
		t := &c.toasts[i]
		if t.notification.Level == n.Level && t.notification.Message == n.Message {
			t.remaining = ttlFor(n.Level)
			t.count++
			return
		}
	}

	c.toasts = append(c.toasts, toast{
		notification: n,
		remaining:    ttlFor(n.Level),
		count:        1,
	})
	if len(c.toasts) > defaultMaxToasts {
		c.toasts = c.toasts[len(c.toasts)-defaultMaxToasts:]
	}
}

// Tick decrements the remaining TTL on all toasts by d and removes
// any that have expired.
func (c *ToastController) Tick(d time.Duration) {
	alive := c.toasts[:0]
	for _, t := range c.toasts {
		t.remaining -= d
		if t.remaining > 0 {
			alive = append(alive, t)
		}
	}
	c.toasts = alive
}

// DismissAll removes all active toasts.
func (c *ToastController) DismissAll() {
	c.toasts = c.toasts[:0]
}

// HasToasts returns true if there are any active toasts.
func (c *ToastController) HasToasts() bool {
	return len(c.toasts) > 0
}

// Toasts returns the current active toast slice.
func (c *ToastController) Toasts() []toast {
	return c.toasts
}

// Ticking returns whether the tick timer is currently running.
func (c *ToastController) Ticking() bool {
	return c.ticking
}

// SetTicking sets the tick timer state.
func (c *ToastController) SetTicking(v bool) {
	c.ticking = v
}
