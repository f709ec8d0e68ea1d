package animator

import (
	"fmt"
	"time"

	"showreel/internal/carousel"
)

// Timing holds the durations of the three kinds of motion
type Timing struct {
	Enter  time.Duration
	Exit   time.Duration
	Settle time.Duration
}

// DefaultTiming keeps the exit a little faster than the entry so the
// outgoing card clears before the incoming one settles.
func DefaultTiming() Timing {
	return Timing{
		Enter:  600 * time.Millisecond,
		Exit:   450 * time.Millisecond,
		Settle: 500 * time.Millisecond,
	}
}

// Validate rejects timings that would let the outgoing card linger
func (t Timing) Validate() error {
	if t.Enter <= 0 || t.Exit <= 0 || t.Settle <= 0 {
		return fmt.Errorf("animator: durations must be positive")
	}
	if t.Exit >= t.Enter {
		return fmt.Errorf("animator: exit (%s) must be faster than enter (%s)", t.Exit, t.Enter)
	}
	return nil
}

// Kind classifies a motion
type Kind int

const (
	Settle Kind = iota
	Enter
	Exit
)

func (k Kind) String() string {
	switch k {
	case Enter:
		return "enter"
	case Exit:
		return "exit"
	default:
		return "settle"
	}
}

// Motion is a planned interpolation between two transforms
type Motion struct {
	Kind     Kind
	From     Transform
	To       Transform
	Duration time.Duration
	Curve    Curve
	Start    time.Time
}

// At samples the motion at now
func (m Motion) At(now time.Time) Transform {
	if m.Duration <= 0 {
		return m.To
	}
	p := clamp01(float64(now.Sub(m.Start)) / float64(m.Duration))
	curve := m.Curve
	if curve == nil {
		curve = Linear
	}
	return m.From.Lerp(m.To, curve(p))
}

// Done reports whether the motion has reached its target
func (m Motion) Done(now time.Time) bool {
	return !now.Before(m.Start.Add(m.Duration))
}

// Planner turns role changes into motions
type Planner struct {
	Table  Table
	Timing Timing
}

// NewPlanner returns a planner using the reference table and timing
func NewPlanner() Planner {
	return Planner{Table: DefaultTable(), Timing: DefaultTiming()}
}

// Plan returns the motion for one item moving from prev to next. The
// entering and exiting items of the same transition must be planned with
// the same dir.
func (p Planner) Plan(prev, next carousel.Role, dir carousel.Direction) Motion {
	switch {
	case next == carousel.Center && prev != carousel.Center:
		return Motion{
			Kind:     Enter,
			From:     p.Table.EntryOrigin(dir),
			To:       p.Table.Of(carousel.Center),
			Duration: p.Timing.Enter,
			Curve:    EaseOutCubic,
		}
	case prev == carousel.Center && next != carousel.Center:
		return Motion{
			Kind:     Exit,
			From:     p.Table.Of(carousel.Center),
			To:       p.Table.Of(next),
			Duration: p.Timing.Exit,
			Curve:    EaseInCubic,
		}
	default:
		return Motion{
			Kind:     Settle,
			From:     p.Table.Of(prev),
			To:       p.Table.Of(next),
			Duration: p.Timing.Settle,
			Curve:    EaseInOutCubic,
		}
	}
}

type track struct {
	role   carousel.Role
	motion Motion
}

// Animator tracks the motion of every item by key. Keys keep an item's
// animation continuous across list replacements.
//
// An Animator is not safe for concurrent use.
type Animator struct {
	planner Planner
	tracks  map[string]*track
}

// New creates an animator
func New(planner Planner) *Animator {
	if planner.Table == nil {
		planner.Table = DefaultTable()
	}
	if planner.Timing == (Timing{}) {
		planner.Timing = DefaultTiming()
	}
	return &Animator{
		planner: planner,
		tracks:  make(map[string]*track),
	}
}

// Reset snaps every item to its role without motion and forgets keys not
// in the list
func (a *Animator) Reset(keys []string, roles []carousel.Role) {
	a.tracks = make(map[string]*track, len(keys))
	for i, k := range keys {
		to := a.planner.Table.Of(roles[i])
		a.tracks[k] = &track{role: roles[i], motion: Motion{From: to, To: to}}
	}
}

// Transition plans motions for a role change of the whole list. Every
// item is planned from the same dir in the same pass.
func (a *Animator) Transition(keys []string, roles []carousel.Role, dir carousel.Direction, now time.Time) {
	for i, k := range keys {
		next := roles[i]
		tr, ok := a.tracks[k]
		if !ok {
			to := a.planner.Table.Of(next)
			a.tracks[k] = &track{role: next, motion: Motion{From: to, To: to}}
			continue
		}
		if tr.role == next {
			continue
		}
		m := a.planner.Plan(tr.role, next, dir)
		// A settle that interrupts a running motion starts from where the
		// item is now rather than jumping to its old resting slot.
		if m.Kind == Settle && !tr.motion.Done(now) {
			m.From = tr.motion.At(now)
		}
		m.Start = now
		tr.role = next
		tr.motion = m
	}
}

// Sample returns the transform of key at now
func (a *Animator) Sample(key string, now time.Time) (Transform, bool) {
	tr, ok := a.tracks[key]
	if !ok {
		return Transform{}, false
	}
	return tr.motion.At(now), true
}

// Motion returns the current motion of key
func (a *Animator) Motion(key string) (Motion, bool) {
	tr, ok := a.tracks[key]
	if !ok {
		return Motion{}, false
	}
	return tr.motion, true
}

// Active reports whether any motion is still running at now
func (a *Animator) Active(now time.Time) bool {
	for _, tr := range a.tracks {
		if !tr.motion.Done(now) {
			return true
		}
	}
	return false
}

// Cancel finishes every in-flight motion at its target
func (a *Animator) Cancel() {
	for _, tr := range a.tracks {
		tr.motion = Motion{From: tr.motion.To, To: tr.motion.To}
	}
}
