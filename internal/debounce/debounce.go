// Package debounce delays a rapidly changing value until it has been stable
// for a fixed interval. Only the latest value of a burst is ever delivered.
package debounce

import (
	"context"
	"sync"
	"time"
)

// Debouncer delivers the last value pushed once no newer value has arrived
// for the configured delay. It is safe for concurrent use.
type Debouncer[T any] struct {
	delay time.Duration
	fn    func(T)

	// deliverMu serializes calls to fn so deliveries keep push order
	deliverMu sync.Mutex

	mu         sync.Mutex
	timer      *time.Timer
	pending    T
	hasPending bool
	generation uint64
	stopped    bool
}

// New creates a Debouncer that calls fn with the settled value after delay.
// fn runs on a timer goroutine and must not call Flush or Stop.
func New[T any](delay time.Duration, fn func(T)) *Debouncer[T] {
	return &Debouncer[T]{delay: delay, fn: fn}
}

// Push records v as the latest value and restarts the timer.
// Pushes after Stop are ignored.
func (d *Debouncer[T]) Push(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	d.generation++
	d.pending = v
	d.hasPending = true
	if d.timer != nil {
		d.timer.Stop()
	}
	generation := d.generation
	d.timer = time.AfterFunc(d.delay, func() { d.fire(generation) })
}

// Flush delivers the pending value now, on the calling goroutine.
// It reports whether a value was delivered.
func (d *Debouncer[T]) Flush() bool {
	d.deliverMu.Lock()
	defer d.deliverMu.Unlock()

	v, ok := d.take(0, false)
	if !ok {
		return false
	}
	d.fn(v)
	return true
}

// Stop cancels any pending value and waits for a delivery already in
// progress. No call to fn is running or starts after Stop returns.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	d.stopped = true
	d.clear()
	d.mu.Unlock()

	d.deliverMu.Lock()
	d.deliverMu.Unlock()
}

// Pending reports whether a value is waiting for the timer.
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.hasPending
}

func (d *Debouncer[T]) fire(generation uint64) {
	d.deliverMu.Lock()
	defer d.deliverMu.Unlock()

	v, ok := d.take(generation, true)
	if !ok {
		return
	}
	d.fn(v)
}

// take removes the pending value. With checkGeneration set, a timer from a
// superseded push gets nothing.
func (d *Debouncer[T]) take(generation uint64, checkGeneration bool) (T, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var zero T
	if d.stopped || !d.hasPending {
		return zero, false
	}
	if checkGeneration && generation != d.generation {
		return zero, false
	}
	v := d.pending
	d.clear()
	return v, true
}

// clear drops the pending value and timer; callers hold mu
func (d *Debouncer[T]) clear() {
	var zero T
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = zero
	d.hasPending = false
}

// Values debounces a channel. Each value read from in replaces the pending
// one; a value is sent on the returned channel once in has been quiet for
// delay. When in is closed the pending value, if any, is sent before the
// output closes. Cancelling ctx closes the output without sending.
func Values[T any](ctx context.Context, in <-chan T, delay time.Duration) <-chan T {
	out := make(chan T)

	go func() {
		defer close(out)

		timer := time.NewTimer(delay)
		timer.Stop()
		defer timer.Stop()

		var (
			pending    T
			hasPending bool
		)

		send := func(v T) bool {
			select {
			case out <- v:
				return true
			case <-ctx.Done():
				return false
			}
		}

		for {
			select {
			case <-ctx.Done():
				return
			case v, ok := <-in:
				if !ok {
					if hasPending {
						send(pending)
					}
					return
				}
				pending = v
				hasPending = true
				timer.Reset(delay)
			case <-timer.C:
				if !hasPending {
					continue
				}
				hasPending = false
				if !send(pending) {
					return
				}
			}
		}
	}()

	return out
}
