package timer

import (
	"sync"
	"time"
)

// Clock abstracts time so tests can drive timers by hand.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Stopper
}

type Stopper interface {
	Stop() bool
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) AfterFunc(d time.Duration, f func()) Stopper {
	return time.AfterFunc(d, f)
}

// RealClock returns the wall clock.
func RealClock() Clock {
	return realClock{}
}

// Timer is a pausable single-shot countdown. Every Start bumps a generation
// counter which is handed to the fire callback, so a consumer can discard a
// fire that was superseded by a later Start, Stop or Pause.
type Timer struct {
	mu        sync.Mutex
	clock     Clock
	fire      func(gen uint64)
	gen       uint64
	remaining time.Duration
	startedAt time.Time
	pending   Stopper
	running   bool
}

func New(clock Clock, fire func(gen uint64)) *Timer {
	if clock == nil {
		clock = RealClock()
	}
	return &Timer{clock: clock, fire: fire}
}

// Start arms the timer for d, superseding any pending fire.
func (t *Timer) Start(d time.Duration) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopLocked()
	t.remaining = d
	return t.armLocked()
}

// Pause freezes the remaining duration. Pausing a stopped timer is a no-op.
func (t *Timer) Pause() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.running {
		return
	}
	t.stopLocked()
	t.remaining -= t.clock.Now().Sub(t.startedAt)
	if t.remaining < 0 {
		t.remaining = 0
	}
}

// Resume re-arms a paused timer with whatever was left when it was paused.
func (t *Timer) Resume() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running {
		return t.gen
	}
	return t.armLocked()
}

// Stop cancels the pending fire and forgets the remaining duration.
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopLocked()
	t.remaining = 0
}

func (t *Timer) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

// Remaining reports how long until the timer fires.
func (t *Timer) Remaining() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.running {
		return t.remaining
	}
	left := t.remaining - t.clock.Now().Sub(t.startedAt)
	if left < 0 {
		return 0
	}
	return left
}

// Generation returns the generation of the most recent arm.
func (t *Timer) Generation() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.gen
}

func (t *Timer) armLocked() uint64 {
	t.gen++
	gen := t.gen
	t.startedAt = t.clock.Now()
	t.running = true
	t.pending = t.clock.AfterFunc(t.remaining, func() {
		t.mu.Lock()
		if t.gen != gen || !t.running {
			t.mu.Unlock()
			return
		}
		t.running = false
		t.remaining = 0
		t.mu.Unlock()

		t.fire(gen)
	})
	return gen
}

func (t *Timer) stopLocked() {
	if t.pending != nil {
		t.pending.Stop()
		t.pending = nil
	}
	if t.running {
		// invalidate a fire that already escaped Stop
		t.gen++
	}
	t.running = false
}
