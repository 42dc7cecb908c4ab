package trigger

import (
	"sync"
	"time"
)

// DefaultDelay is the quiet period before a debounced recompute fires.
const DefaultDelay = 300 * time.Millisecond

// Debouncer runs only the most recent function handed to Call once the
// delay has passed without another Call. At most one run is pending.
type Debouncer struct {
	delay time.Duration

	mu    sync.Mutex
	timer *time.Timer
	gen   uint64
}

func NewDebouncer(delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Debouncer{delay: delay}
}

// Call arms the timer for fn, cancelling any pending run. It returns the
// generation of the new run; see Current.
func (d *Debouncer) Call(fn func()) uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		// superseded by a later Call or Stop that raced the timer
		if gen != d.gen {
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.mu.Unlock()
		fn()
	})
	return gen
}

// Current reports whether gen is still the latest Call with no Stop since.
// A callback that waits on another lock after firing can use it to notice
// it was superseded while it waited.
func (d *Debouncer) Current(gen uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return gen == d.gen
}

// Pending reports whether a run is armed.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Stop cancels the pending run, if any, and reports whether there was one.
func (d *Debouncer) Stop() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.gen++
	if d.timer == nil {
		return false
	}
	d.timer.Stop()
	d.timer = nil
	return true
}
