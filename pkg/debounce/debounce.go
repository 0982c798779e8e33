// Package debounce coalesces rapid repeated invocations into a single
// trailing call after a quiet period.
package debounce

import (
	"sync"
	"time"
)

// Debounce schedules a callback to run once the calls stop arriving for the
// configured delay. A pending run can be cancelled or forced to execute
// immediately.
type Debounce struct {
	mu      sync.Mutex
	timer   *time.Timer
	delay   time.Duration
	fn      func()
	pending bool
}

// New builds a debouncer around fn.
func New(fn func(), delay time.Duration) *Debounce {
	return &Debounce{fn: fn, delay: delay}
}

// Call schedules (or reschedules) the trailing invocation.
func (d *Debounce) Call() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.pending = true
	d.timer = time.AfterFunc(d.delay, d.run)
}

// Cancel drops a pending invocation, if any.
func (d *Debounce) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = false
}

// Flush executes a pending invocation immediately instead of waiting out the
// quiet period. It is a no-op when nothing is pending.
func (d *Debounce) Flush() {
	d.mu.Lock()
	if !d.pending {
		d.mu.Unlock()
		return
	}
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = false
	fn := d.fn
	d.mu.Unlock()
	fn()
}

// Pending reports whether an invocation is scheduled.
func (d *Debounce) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

func (d *Debounce) run() {
	d.mu.Lock()
	if !d.pending {
		d.mu.Unlock()
		return
	}
	d.pending = false
	d.timer = nil
	fn := d.fn
	d.mu.Unlock()
	fn()
}
