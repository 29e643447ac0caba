package timer_test

import (
	"testing"
	"time"

	"werewolf/timer"
	"werewolf/timer/timertest"

	"github.com/stretchr/testify/assert"
)

type fires struct {
	gens []uint64
}

func (f *fires) record(gen uint64) { f.gens = append(f.gens, gen) }

func TestTimer_FiresOnce(t *testing.T) {
	t.Parallel()
	clock := timertest.NewClock(time.Unix(0, 0))
	f := &fires{}
	tm := timer.New(clock, f.record)

	gen := tm.Start(10 * time.Second)
	clock.Advance(9 * time.Second)
	assert.Empty(t, f.gens)
	assert.Equal(t, time.Second, tm.Remaining())

	clock.Advance(time.Second)
	assert.Equal(t, []uint64{gen}, f.gens)
	assert.False(t, tm.Running())

	clock.Advance(time.Hour)
	assert.Len(t, f.gens, 1)
}

func TestTimer_StartSupersedesPending(t *testing.T) {
	t.Parallel()
	clock := timertest.NewClock(time.Unix(0, 0))
	f := &fires{}
	tm := timer.New(clock, f.record)

	tm.Start(5 * time.Second)
	second := tm.Start(20 * time.Second)

	clock.Advance(10 * time.Second)
	assert.Empty(t, f.gens)
	assert.Equal(t, 1, clock.Pending())

	clock.Advance(10 * time.Second)
	assert.Equal(t, []uint64{second}, f.gens)
}

func TestTimer_PauseKeepsRemaining(t *testing.T) {
	t.Parallel()
	clock := timertest.NewClock(time.Unix(0, 0))
	f := &fires{}
	tm := timer.New(clock, f.record)

	tm.Start(10 * time.Second)
	clock.Advance(4 * time.Second)
	tm.Pause()
	assert.False(t, tm.Running())
	assert.Equal(t, 6*time.Second, tm.Remaining())

	clock.Advance(time.Minute)
	assert.Empty(t, f.gens, "paused timer must not fire")

	gen := tm.Resume()
	clock.Advance(5 * time.Second)
	assert.Empty(t, f.gens)
	clock.Advance(time.Second)
	assert.Equal(t, []uint64{gen}, f.gens)
}

func TestTimer_StopAndPauseWhenIdle(t *testing.T) {
	t.Parallel()
	clock := timertest.NewClock(time.Unix(0, 0))
	f := &fires{}
	tm := timer.New(clock, f.record)

	tm.Pause()
	assert.Equal(t, time.Duration(0), tm.Remaining())

	tm.Start(time.Second)
	tm.Stop()
	clock.Advance(time.Minute)
	assert.Empty(t, f.gens)
	assert.Equal(t, time.Duration(0), tm.Remaining())
}

func TestTimer_ResumeWhileRunningKeepsGeneration(t *testing.T) {
	t.Parallel()
	clock := timertest.NewClock(time.Unix(0, 0))
	tm := timer.New(clock, func(uint64) {})

	gen := tm.Start(time.Second)
	assert.Equal(t, gen, tm.Resume())
	assert.Equal(t, gen, tm.Generation())
}

func TestTimer_RealClock(t *testing.T) {
	t.Parallel()
	done := make(chan uint64, 1)
	tm := timer.New(nil, func(gen uint64) { done <- gen })

	gen := tm.Start(10 * time.Millisecond)
	select {
	case got := <-done:
		assert.Equal(t, gen, got)
	case <-time.After(2 * time.Second):
		t.Fatal("timer never fired")
	}
}
