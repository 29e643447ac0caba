// Package timertest provides a manually driven timer.Clock.
package timertest

import (
	"sort"
	"sync"
	"time"

	"werewolf/timer"
)

type Clock struct {
	mu      sync.Mutex
	now     time.Time
	pending []*pending
}

type pending struct {
	clock   *Clock
	at      time.Time
	f       func()
	stopped bool
}

func (p *pending) Stop() bool {
	p.clock.mu.Lock()
	defer p.clock.mu.Unlock()
	wasPending := !p.stopped
	p.stopped = true
	return wasPending
}

func NewClock(now time.Time) *Clock {
	return &Clock{now: now}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) AfterFunc(d time.Duration, f func()) timer.Stopper {
	c.mu.Lock()
	defer c.mu.Unlock()
	p := &pending{clock: c, at: c.now.Add(d), f: f}
	c.pending = append(c.pending, p)
	return p
}

// Advance moves the clock forward and runs every callback that came due, in
// deadline order, on the calling goroutine.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	var due []*pending
	kept := c.pending[:0]
	for _, p := range c.pending {
		switch {
		case p.stopped:
		case !p.at.After(c.now):
			p.stopped = true
			due = append(due, p)
		default:
			kept = append(kept, p)
		}
	}
	c.pending = kept
	c.mu.Unlock()

	sort.SliceStable(due, func(i, j int) bool { return due[i].at.Before(due[j].at) })
	for _, p := range due {
		p.f()
	}
}

// Pending counts callbacks still waiting to fire.
func (c *Clock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, p := range c.pending {
		if !p.stopped {
			n++
		}
	}
	return n
}
