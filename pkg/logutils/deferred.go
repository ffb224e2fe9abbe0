package logutils

import (
	"fmt"
	"io"
	"slices"
	"sync"
)

// Deferred holds log events in memory until Flush replays them, keeping at
// most the newest max events. Safe for concurrent use.
type Deferred struct {
	mu      sync.Mutex
	events  [][]byte
	max     int
	dropped int
}

// NewDeferred returns a Deferred keeping up to max events.
func NewDeferred(max int) *Deferred {
	return &Deferred{max: max}
}

// Write stores p as one event. zerolog issues exactly one Write per event.
func (d *Deferred) Write(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.events = append(d.events, slices.Clone(p))
	if d.max > 0 && len(d.events) > d.max {
		d.events = d.events[1:]
		d.dropped++
	}
	return len(p), nil
}

// Flush replays the buffered events to w, one Write per event, and clears
// the buffer.
func (d *Deferred) Flush(w io.Writer) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.dropped > 0 {
		if _, err := fmt.Fprintf(w, `{"level":"warn","message":"%d earlier log events dropped"}`+"\n", d.dropped); err != nil {
			return err
		}
	}
	for _, e := range d.events {
		if _, err := w.Write(e); err != nil {
			return err
		}
	}

	d.events = nil
	d.dropped = 0
	return nil
}

// Len reports the number of buffered events.
func (d *Deferred) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.events)
}
