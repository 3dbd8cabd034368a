package refetch

import (
	"sync"
	"time"
)

// DefaultDelay is the quiet period used when none is configured.
const DefaultDelay = 100 * time.Millisecond

// Debouncer collapses bursts of Trigger calls into one call of fn, made once
// the calls have stopped for the configured delay.
type Debouncer struct {
	delay time.Duration
	fn    func()

	mu      sync.Mutex
	timer   *time.Timer
	gen     uint64
	stopped bool
	running sync.WaitGroup
}

// New returns a Debouncer calling fn after delay. A non-positive delay uses
// DefaultDelay.
func New(delay time.Duration, fn func()) *Debouncer {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Debouncer{delay: delay, fn: fn}
}

// Delay reports the configured quiet period.
func (d *Debouncer) Delay() time.Duration {
	return d.delay
}

// Trigger (re)starts the timer. Calls after Stop are ignored.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(d.delay, func() { d.fire(gen) })
}

// Pending reports whether a call is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Flush runs fn now if a call is pending and cancels the timer. It reports
// whether fn ran.
func (d *Debouncer) Flush() bool {
	d.mu.Lock()
	if d.stopped || d.timer == nil {
		d.mu.Unlock()
		return false
	}
	d.timer.Stop()
	d.timer = nil
	d.gen++
	d.running.Add(1)
	d.mu.Unlock()

	defer d.running.Done()
	d.fn()
	return true
}

// Stop cancels any pending call and waits for a running one to return. It must
// not be called from fn.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	d.stopped = true
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.mu.Unlock()

	d.running.Wait()
}

func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if d.stopped || gen != d.gen {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.running.Add(1)
	d.mu.Unlock()

	defer d.running.Done()
	d.fn()
}
