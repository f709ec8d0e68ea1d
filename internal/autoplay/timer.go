// Package autoplay advances a carousel on a fixed cadence.
//
// A Timer owns at most one pending tick. Every transition that schedules a
// tick cancels the previous one first, and ticks scheduled before the
// latest transition are dropped even if the underlying clock already
// fired them. A tick that has already been handed to its owner carries its
// generation, and Current tells the owner whether it is still the latest.
package autoplay

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// DefaultInterval is the cadence used by content carousels
const DefaultInterval = 6500 * time.Millisecond

// State of the timer
type State int

const (
	Stopped State = iota
	Running
	Paused
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Paused:
		return "paused"
	default:
		return "stopped"
	}
}

// Timer calls fire every interval while Running
type Timer struct {
	clock    clockwork.Clock
	interval time.Duration
	fire     func(gen uint64)

	mu      sync.Mutex
	state   State
	gen     uint64
	pending clockwork.Timer
	due     time.Time
}

// New creates a stopped timer. A nil clock uses the real clock.
func New(clock clockwork.Clock, interval time.Duration, fire func(gen uint64)) *Timer {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Timer{
		clock:    clock,
		interval: interval,
		fire:     fire,
	}
}

// Interval returns the configured cadence
func (t *Timer) Interval() time.Duration { return t.interval }

// State returns the current state
func (t *Timer) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Deadline returns when the pending tick is due; zero when nothing is pending
func (t *Timer) Deadline() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.due
}

// Current reports whether a tick fired with gen is still the latest one:
// no Start, Reset, Pause or Stop happened since, and the timer is Running.
func (t *Timer) Current(gen uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state == Running && gen == t.gen
}

// Start begins running with a full interval until the first tick
func (t *Timer) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.scheduleLocked()
}

// Reset restarts the countdown after a manual navigation. The timer is
// Running afterwards, whatever state it was in.
func (t *Timer) Reset() {
	t.Start()
}

// Pause suspends ticking until Resume
func (t *Timer) Pause() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != Running {
		return
	}
	t.cancelLocked()
	t.state = Paused
}

// Resume restarts a paused timer with a full interval
func (t *Timer) Resume() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != Paused {
		return
	}
	t.scheduleLocked()
}

// Stop cancels any pending tick. Safe to call repeatedly.
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cancelLocked()
	t.state = Stopped
}

func (t *Timer) scheduleLocked() {
	t.cancelLocked()
	t.state = Running
	gen := t.gen
	t.due = t.clock.Now().Add(t.interval)
	t.pending = t.clock.AfterFunc(t.interval, func() { t.tick(gen) })
}

// cancelLocked invalidates the pending tick
func (t *Timer) cancelLocked() {
	t.gen++
	if t.pending != nil {
		t.pending.Stop()
		t.pending = nil
	}
	t.due = time.Time{}
}

func (t *Timer) tick(gen uint64) {
	t.mu.Lock()
	if gen != t.gen || t.state != Running {
		t.mu.Unlock()
		return
	}
	// Reschedule before firing so a slow handler does not stretch the cadence
	t.scheduleLocked()
	current := t.gen
	t.mu.Unlock()

	if t.fire != nil {
		t.fire(current)
	}
}
