package carousel

import (
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"showreel/internal/autoplay"
	"showreel/internal/domain"
	"showreel/internal/eventbus"
)

// Options configures a Controller
type Options struct {
	Interval time.Duration
	Autoplay bool
	Clock    clockwork.Clock
	Bus      eventbus.EventBus
	Logger   *zap.Logger

	// OnTick is called from the timer goroutine when autoplay is due. The
	// owner of the controller must hop back onto its own goroutine and call
	// Advance with gen; the controller itself is never touched from the
	// timer.
	OnTick func(gen uint64)
}

// Snapshot is a read-only view of the controller for one render pass
type Snapshot struct {
	Items     []domain.DisplayItem
	Active    int
	Direction Direction
	Roles     []Role
	Autoplay  autoplay.State
}

// Keys returns the item keys in list order
func (s Snapshot) Keys() []string {
	keys := make([]string, len(s.Items))
	for i, it := range s.Items {
		keys[i] = it.Key
	}
	return keys
}

// Controller drives one mounted carousel: the state machine, its autoplay
// timer and the commands of the input surface. It is not safe for
// concurrent use.
type Controller struct {
	items    []domain.DisplayItem
	state    State
	timer    *autoplay.Timer
	autoplay bool
	hovered  bool
	closed   bool

	bus    eventbus.EventBus
	logger *zap.Logger
}

// NewController creates an empty controller; call Load to give it items
func NewController(opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Controller{
		autoplay: opts.Autoplay,
		bus:      opts.Bus,
		logger:   logger.Named("carousel"),
	}
	c.timer = autoplay.New(opts.Clock, opts.Interval, opts.OnTick)
	return c
}

// Load replaces the item list wholesale. The active index is kept when it
// is still valid and the autoplay timer is replaced.
func (c *Controller) Load(source string, items []domain.DisplayItem) {
	if c.closed {
		return
	}
	c.items = append([]domain.DisplayItem(nil), items...)
	c.state.Resize(len(c.items))
	c.logger.Info("items loaded", zap.String("source", source), zap.Int("count", len(c.items)))

	c.restartTimer()
	c.publish(domain.ItemsLoadedEvent{Source: source, Count: len(c.items), Active: c.state.Active()})
}

// RequestNext is the input surface's next command
func (c *Controller) RequestNext() {
	c.navigate(domain.TriggerNext, func() error {
		c.state.Next()
		return nil
	})
}

// RequestPrev is the input surface's prev command
func (c *Controller) RequestPrev() {
	c.navigate(domain.TriggerPrev, func() error {
		c.state.Prev()
		return nil
	})
}

// RequestGoTo is the input surface's direct selection command. An invalid
// index is rejected and leaves both the state and the timer untouched.
func (c *Controller) RequestGoTo(i int) error {
	if c.closed {
		return ErrClosed
	}
	if c.state.Empty() {
		return ErrEmpty
	}
	var err error
	c.navigate(domain.TriggerGoTo, func() error {
		err = c.state.GoTo(i)
		return err
	})
	if err != nil {
		c.logger.Debug("goto rejected", zap.Int("index", i), zap.Error(err))
	}
	return err
}

// Advance moves forward on the autoplay tick gen. It does not reset the
// timer, which has already scheduled the following tick. A tick that was
// queued before a navigation, pause or reload is ignored.
func (c *Controller) Advance(gen uint64) bool {
	if c.closed || !c.timer.Current(gen) {
		return false
	}
	prev := c.state.Active()
	if !c.state.Next() {
		return false
	}
	c.publishActive(prev, domain.TriggerAutoplay)
	return true
}

// Hover pauses autoplay while the pointer, focus or a touch is on the
// carousel and resumes it afterwards
func (c *Controller) Hover(on bool) {
	if c.closed || c.hovered == on {
		return
	}
	c.hovered = on
	if on {
		c.timer.Pause()
	} else {
		c.timer.Resume()
	}
	c.publish(domain.AutoplayChangedEvent{State: c.timer.State().String()})
}

// SetAutoplay turns autoplay on or off
func (c *Controller) SetAutoplay(on bool) {
	if c.closed || c.autoplay == on {
		return
	}
	c.autoplay = on
	c.restartTimer()
	c.publish(domain.AutoplayChangedEvent{State: c.timer.State().String()})
}

// Autoplay reports whether autoplay is enabled
func (c *Controller) Autoplay() bool { return c.autoplay }

// TimerState returns the state of the autoplay timer
func (c *Controller) TimerState() autoplay.State { return c.timer.State() }

// Snapshot returns the current state for rendering
func (c *Controller) Snapshot() Snapshot {
	return Snapshot{
		Items:     c.items,
		Active:    c.state.Active(),
		Direction: c.state.Direction(),
		Roles:     c.state.Roles(),
		Autoplay:  c.timer.State(),
	}
}

// Close stops the timer. Commands after Close are ignored.
func (c *Controller) Close() {
	if c.closed {
		return
	}
	c.closed = true
	c.timer.Stop()
	c.logger.Debug("controller closed")
}

func (c *Controller) navigate(trigger domain.Trigger, op func() error) {
	if c.closed || c.state.Empty() {
		return
	}
	prev := c.state.Active()
	if err := op(); err != nil {
		return
	}
	// Manual navigation always restarts the countdown, even when the
	// index did not change.
	if c.timerEnabled() {
		c.timer.Reset()
	}
	c.publishActive(prev, trigger)
}

func (c *Controller) timerEnabled() bool {
	return c.autoplay && c.state.Count() > 1
}

func (c *Controller) restartTimer() {
	c.timer.Stop()
	if !c.timerEnabled() {
		return
	}
	c.timer.Start()
	if c.hovered {
		c.timer.Pause()
	}
}

func (c *Controller) publishActive(prev int, trigger domain.Trigger) {
	c.publish(domain.ActiveChangedEvent{
		Index:     c.state.Active(),
		Previous:  prev,
		Direction: c.state.Direction().String(),
		Trigger:   trigger,
	})
}

func (c *Controller) publish(e domain.DomainEvent) {
	if c.bus != nil {
		c.bus.Publish(e)
	}
}
