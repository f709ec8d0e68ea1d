package server

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"showreel/internal/animator"
	"showreel/internal/carousel"
	"showreel/internal/domain"
	"showreel/internal/eventbus"
)

// LoopOptions configures a Loop
type LoopOptions struct {
	Source   string
	Interval time.Duration
	Autoplay bool
	Planner  animator.Planner
	Hub      HubConfig
	Clock    clockwork.Clock
	Bus      eventbus.EventBus
	Logger   *zap.Logger
}

// Loop owns the carousel behind the websocket surface. The controller and
// the animator are only ever touched from the Run goroutine; clients, the
// autoplay timer and source reloads all reach it through channels.
type Loop struct {
	ctrl   *carousel.Controller
	anim   *animator.Animator
	hub    *Hub
	clock  clockwork.Clock
	logger *zap.Logger
	source string

	commands chan Command
	ticks    chan uint64
	reloads  chan []domain.DisplayItem
	joins    chan *Client
	left     chan *Client
	done     chan struct{}

	hovering map[*Client]bool
}

// NewLoop creates a loop and its hub
func NewLoop(opts LoopOptions) *Loop {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	l := &Loop{
		anim:     animator.New(opts.Planner),
		clock:    clock,
		logger:   logger.Named("loop"),
		source:   opts.Source,
		commands: make(chan Command, 64),
		ticks:    make(chan uint64, 1),
		reloads:  make(chan []domain.DisplayItem, 1),
		joins:    make(chan *Client, 16),
		left:     make(chan *Client, 64),
		done:     make(chan struct{}),
		hovering: make(map[*Client]bool),
	}
	l.hub = NewHub(logger, opts.Hub, l.left)
	l.ctrl = carousel.NewController(carousel.Options{
		Interval: opts.Interval,
		Autoplay: opts.Autoplay,
		Clock:    clock,
		Bus:      opts.Bus,
		Logger:   logger,
		OnTick:   l.tick,
	})
	return l
}

// Hub returns the client hub fed by this loop
func (l *Loop) Hub() *Hub { return l.hub }

// Commands is where client commands are delivered
func (l *Loop) Commands() chan<- Command { return l.commands }

// Reload hands a freshly fetched list to the loop. The list replaces the
// current one wholesale. It returns false once the loop has stopped.
func (l *Loop) Reload(items []domain.DisplayItem) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.reloads <- items:
		return true
	case <-l.done:
		return false
	}
}

// Join sends the current state to c and then registers it with the hub
func (l *Loop) Join(ctx context.Context, c *Client) bool {
	select {
	case l.joins <- c:
		return true
	case <-ctx.Done():
		return false
	case <-l.done:
		return false
	}
}

// tick runs on the timer goroutine. A newer tick replaces one the loop has
// not picked up yet.
func (l *Loop) tick(gen uint64) {
	for {
		select {
		case l.ticks <- gen:
			return
		default:
		}
		select {
		case <-l.ticks:
		default:
		}
	}
}

// Run processes events until ctx is done
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.done)
	defer func() {
		l.ctrl.Close()
		l.anim.Cancel()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case gen := <-l.ticks:
			if l.ctrl.Advance(gen) {
				l.transition(domain.TriggerAutoplay)
			}

		case cmd := <-l.commands:
			l.handle(cmd)

		case list := <-l.reloads:
			l.ctrl.Load(l.source, list)
			snap := l.ctrl.Snapshot()
			l.anim.Reset(snap.Keys(), snap.Roles)
			if msg, ok := l.stateInit(); ok {
				l.hub.Broadcast(msg)
			}

		case c := <-l.joins:
			if msg, ok := l.stateInit(); ok && !c.Send(msg) {
				c.shut()
				continue
			}
			select {
			case l.hub.register <- c:
			case <-ctx.Done():
				c.shut()
				return nil
			}

		case c := <-l.left:
			if l.hovering[c] {
				delete(l.hovering, c)
				l.syncHover()
			}
		}
	}
}

func (l *Loop) handle(cmd Command) {
	before := l.ctrl.TimerState()
	switch cmd.Type {
	case CmdNext:
		l.ctrl.RequestNext()
		l.transition(domain.TriggerNext)
	case CmdPrev:
		l.ctrl.RequestPrev()
		l.transition(domain.TriggerPrev)
	case CmdGoTo:
		if err := l.ctrl.RequestGoTo(cmd.Index); err != nil {
			l.reply(cmd, errorFrame("goto_rejected", err.Error()))
			return
		}
		l.transition(domain.TriggerGoTo)
	case CmdHover:
		if cmd.On {
			l.hovering[cmd.client] = true
		} else {
			delete(l.hovering, cmd.client)
		}
		l.syncHover()
	case CmdAutoplay:
		l.ctrl.SetAutoplay(cmd.On)
	default:
		l.reply(cmd, errorFrame("unknown_command", cmd.Type))
		return
	}
	l.logger.Debug("command", zap.String("type", cmd.Type), zap.Int("active", l.ctrl.Snapshot().Active))
	if after := l.ctrl.TimerState(); after != before {
		l.broadcast(TypeAutoplay, wsAutoplay{State: after.String()})
	}
}

// syncHover pauses autoplay while any client is hovering
func (l *Loop) syncHover() {
	before := l.ctrl.TimerState()
	l.ctrl.Hover(len(l.hovering) > 0)
	if after := l.ctrl.TimerState(); after != before {
		l.broadcast(TypeAutoplay, wsAutoplay{State: after.String()})
	}
}

func (l *Loop) transition(trigger domain.Trigger) {
	snap := l.ctrl.Snapshot()
	if len(snap.Items) == 0 {
		return
	}
	now := l.clock.Now()
	l.anim.Transition(snap.Keys(), snap.Roles, snap.Direction, now)
	l.broadcast(TypeFrame, wsFrame{
		Active:    snap.Active,
		Direction: snap.Direction.String(),
		Trigger:   trigger,
		Slots:     slots(snap, l.anim, now),
	})
}

func (l *Loop) stateInit() ([]byte, bool) {
	snap := l.ctrl.Snapshot()
	now := l.clock.Now()
	msg, err := marshal(TypeStateInit, wsStateInit{
		Items:     items(snap.Items),
		Active:    snap.Active,
		Direction: snap.Direction.String(),
		Autoplay:  snap.Autoplay.String(),
		Slots:     slots(snap, l.anim, now),
	}, now)
	if err != nil {
		l.logger.Warn("marshal state_init failed", zap.Error(err))
		return nil, false
	}
	return msg, true
}

func (l *Loop) broadcast(typ string, data any) {
	msg, err := marshal(typ, data, l.clock.Now())
	if err != nil {
		l.logger.Warn("marshal failed", zap.String("type", typ), zap.Error(err))
		return
	}
	l.hub.Broadcast(msg)
}

func (l *Loop) reply(cmd Command, msg []byte) {
	if cmd.client != nil {
		cmd.client.Send(msg)
	}
}
