// Package ratelimit provides generic debounce and throttle decorators
// for input-driven operations.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"

	"mealsexplorer/internal/clock"
)

// Option configures a Debouncer or Throttler
type Option func(*options)

type options struct {
	clock clock.Clock
}

// WithClock sets the time source (tests use a fake clock)
func WithClock(c clock.Clock) Option {
	return func(o *options) {
		o.clock = c
	}
}

func buildOptions(opts []Option) options {
	o := options{clock: clock.Real()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Debouncer delays fn until no Call has happened for the wait window,
// then runs it once with the most recent value.
type Debouncer[T any] struct {
	clock clock.Clock
	wait  time.Duration
	fn    func(T)

	mu         sync.Mutex
	timer      clock.Timer
	seq        uint64
	pending    T
	hasPending bool
}

// NewDebouncer wraps fn with a debounce gate of the given wait
func NewDebouncer[T any](wait time.Duration, fn func(T), opts ...Option) *Debouncer[T] {
	o := buildOptions(opts)
	return &Debouncer[T]{
		clock: o.clock,
		wait:  wait,
		fn:    fn,
	}
}

// Call records v and restarts the wait window
func (d *Debouncer[T]) Call(v T) {
	if d.wait <= 0 {
		d.fn(v)
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.seq++
	seq := d.seq
	d.pending = v
	d.hasPending = true
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = d.clock.AfterFunc(d.wait, func() { d.fire(seq) })
}

// Flush runs a pending call immediately
func (d *Debouncer[T]) Flush() {
	v, ok := d.take(0, false)
	if ok {
		d.fn(v)
	}
}

// Stop drops a pending call
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.seq++
	d.reset()
}

// Pending reports whether a call is waiting for the window to close
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.hasPending
}

func (d *Debouncer[T]) fire(seq uint64) {
	v, ok := d.take(seq, true)
	if ok {
		d.fn(v)
	}
}

// take removes the pending value. With checkSeq set, a superseded timer
// gets nothing.
func (d *Debouncer[T]) take(seq uint64, checkSeq bool) (T, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var zero T
	if !d.hasPending || (checkSeq && seq != d.seq) {
		return zero, false
	}
	v := d.pending
	d.reset()
	return v, true
}

func (d *Debouncer[T]) reset() {
	var zero T
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = zero
	d.hasPending = false
}

// Throttler runs fn at most once per window; calls inside the window
// are rejected rather than queued.
type Throttler[T any] struct {
	clock   clock.Clock
	limiter *rate.Limiter
	fn      func(T)
}

// NewThrottler wraps fn with a throttle of the given window
func NewThrottler[T any](window time.Duration, fn func(T), opts ...Option) *Throttler[T] {
	o := buildOptions(opts)
	limit := rate.Inf
	if window > 0 {
		limit = rate.Every(window)
	}
	return &Throttler[T]{
		clock:   o.clock,
		limiter: rate.NewLimiter(limit, 1),
		fn:      fn,
	}
}

// Call runs fn with v if the window allows it and reports whether it ran
func (t *Throttler[T]) Call(v T) bool {
	if !t.limiter.AllowN(t.clock.Now(), 1) {
		return false
	}
	t.fn(v)
	return true
}
