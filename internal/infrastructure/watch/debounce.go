// Package watch submits deal files dropped into a folder for analysis.
package watch

import (
	"sync"
	"time"
)

// Debouncer coalesces rapid events per key into a single callback
// invocation for that key.
type Debouncer struct {
	window   time.Duration
	callback func(key string)

	mu     sync.Mutex
	timers map[string]*time.Timer
	closed bool
}

// NewDebouncer creates a debouncer with the given window duration.
func NewDebouncer(window time.Duration, callback func(key string)) *Debouncer {
	return &Debouncer{
		window:   window,
		callback: callback,
		timers:   make(map[string]*time.Timer),
	}
}

// Trigger resets the timer for key. The callback fires once the window
// elapses with no further triggers for the same key.
func (d *Debouncer) Trigger(key string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}

	if t, ok := d.timers[key]; ok {
		t.Stop()
	}
	d.timers[key] = time.AfterFunc(d.window, func() {
		d.mu.Lock()
		delete(d.timers, key)
		closed := d.closed
		d.mu.Unlock()
		if !closed {
			d.callback(key)
		}
	})
}

// Pending returns the number of keys waiting for their window to elapse.
func (d *Debouncer) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.timers)
}

// Stop cancels every pending callback.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.closed = true
	for key, t := range d.timers {
		t.Stop()
		delete(d.timers, key)
	}
}
