package docstate

import (
	"sync"
	"time"
)

// DefaultSaveDelay is the quiet period after the last edit before the
// autosave fires.
const DefaultSaveDelay = 800 * time.Millisecond

// Debouncer coalesces rapid save requests: the function runs once the
// delay has elapsed without a new call. Rapid successive calls reset
// the timer, so a typing burst produces a single persistence write.
type Debouncer struct {
	mu      sync.Mutex
	timer   *time.Timer
	delay   time.Duration
	pending func()
}

// NewDebouncer creates a debouncer with the given quiet period.
func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Trigger schedules fn, cancelling any previously scheduled call.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.pending = fn
	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		fn := d.pending
		d.pending = nil
		d.mu.Unlock()
		if fn != nil {
			fn()
		}
	})
}

// Flush runs the pending call immediately, if any, and cancels the
// timer.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	fn := d.pending
	d.pending = nil
	d.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// Cancel drops any pending call without running it.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = nil
}

// DebouncerGroup keeps one Debouncer per key, so a burst of saves for
// one key coalesces without cancelling the pending save of another.
type DebouncerGroup struct {
	mu         sync.Mutex
	delay      time.Duration
	debouncers map[string]*Debouncer
}

// NewDebouncerGroup creates a group whose per-key debouncers all use
// the given quiet period.
func NewDebouncerGroup(delay time.Duration) *DebouncerGroup {
	return &DebouncerGroup{
		delay:      delay,
		debouncers: make(map[string]*Debouncer),
	}
}

// Trigger schedules fn under key, resetting only that key's timer.
func (g *DebouncerGroup) Trigger(key string, fn func()) {
	g.mu.Lock()
	d, ok := g.debouncers[key]
	if !ok {
		d = NewDebouncer(g.delay)
		g.debouncers[key] = d
	}
	g.mu.Unlock()

	d.Trigger(fn)
}

// Cancel drops the pending call for key, if any.
func (g *DebouncerGroup) Cancel(key string) {
	g.mu.Lock()
	d := g.debouncers[key]
	delete(g.debouncers, key)
	g.mu.Unlock()

	if d != nil {
		d.Cancel()
	}
}

// Flush runs every pending call immediately, e.g. on shutdown.
func (g *DebouncerGroup) Flush() {
	g.mu.Lock()
	all := make([]*Debouncer, 0, len(g.debouncers))
	for _, d := range g.debouncers {
		all = append(all, d)
	}
	g.mu.Unlock()

	for _, d := range all {
		d.Flush()
	}
}
