package encoder

import "sync"

// event is a level-triggered, resettable signal: the Go equivalent of the
// source's edge-triggered wait object used for job-available and
// result-available. Set is idempotent (setting an already-set event is a
// no-op); Reset clears it. C() is selectable from a worker loop.
type event struct {
	ch chan struct{}
}

func newEvent() *event {
	return &event{ch: make(chan struct{}, 1)}
}

// Set marks the event signalled. Safe to call from any goroutine.
func (e *event) Set() {
	select {
	case e.ch <- struct{}{}:
	default:
	}
}

// Reset clears the event without blocking.
func (e *event) Reset() {
	select {
	case <-e.ch:
	default:
	}
}

// C returns the channel to select on; a received value means the event
// was signalled. The receiver is responsible for calling Reset if it
// needs level semantics (drain-until-empty) rather than one-shot wakeup.
func (e *event) C() <-chan struct{} {
	return e.ch
}

// termSignal is a one-shot event: once Set, it stays set forever. This
// models the term-request/term-done wait objects, which the source never
// resets within an encoder's lifetime.
type termSignal struct {
	once sync.Once
	ch   chan struct{}
}

func newTermSignal() *termSignal {
	return &termSignal{ch: make(chan struct{})}
}

// Set closes the underlying channel exactly once.
func (t *termSignal) Set() {
	t.once.Do(func() { close(t.ch) })
}

// IsSet reports whether Set has been called, without blocking.
func (t *termSignal) IsSet() bool {
	select {
	case <-t.ch:
		return true
	default:
		return false
	}
}

// C returns the channel to select on; it is closed exactly once by Set.
func (t *termSignal) C() <-chan struct{} {
	return t.ch
}
