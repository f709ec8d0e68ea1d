package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"showreel/internal/animator"
	"showreel/internal/carousel"
	"showreel/internal/config"
	"showreel/internal/domain"
	"showreel/internal/eventbus"
	"showreel/internal/source"
	"showreel/internal/ui/input"
	inputtypes "showreel/internal/ui/input/types"
	"showreel/internal/ui/views"
)

const (
	frameInterval = time.Second / 16
	statusTimeout = 3 * time.Second
)

// hoverSource is one of the interactions that keep autoplay paused
type hoverSource uint8

const (
	hoverPointer hoverSource = 1 << iota
	hoverDrag
	hoverFocus
)

// Options configures a Model
type Options struct {
	Config *config.Config
	Source source.Source
	Bus    eventbus.EventBus
	Logger *zap.Logger
	Clock  clockwork.Clock
}

// Model is the terminal carousel
type Model struct {
	cfg     *config.Config
	src     source.Source
	bus     eventbus.EventBus
	logger  *zap.Logger
	clock   clockwork.Clock
	timeout time.Duration

	ctrl    *carousel.Controller
	anim    *animator.Animator
	swipe   carousel.Swipe
	ticks   chan uint64
	reloads chan []domain.DisplayItem
	done    chan struct{}

	// UI-specific state
	width        int
	height       int
	help         help.Model
	inputHandler *input.Handler
	renderer     *views.Renderer
	pager        *PagerOps

	hover         hoverSource
	animating     bool
	loading       bool
	closed        bool
	inPagerMode   bool
	sourceName    string
	statusMessage string
	statusIsError bool
	showInfo      bool
	infoContent   string
	searchOrigin  int

	// Program reference for terminal management
	program *tea.Program
}

// NewModel creates the UI model. The config must be valid.
func NewModel(opts Options) (*Model, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	interval, err := cfg.AutoplayInterval()
	if err != nil {
		return nil, err
	}
	timing, err := cfg.Timing()
	if err != nil {
		return nil, err
	}
	timeout, err := cfg.SourceTimeout()
	if err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	m := &Model{
		cfg:          cfg,
		src:          opts.Source,
		bus:          opts.Bus,
		logger:       logger.Named("ui"),
		clock:        clock,
		timeout:      timeout,
		anim:         animator.New(animator.Planner{Table: animator.DefaultTable(), Timing: timing}),
		swipe:        carousel.Swipe{Threshold: cfg.SwipeThreshold()},
		ticks:        make(chan uint64, 1),
		reloads:      make(chan []domain.DisplayItem, 1),
		done:         make(chan struct{}),
		help:         help.New(),
		inputHandler: input.New(inputtypes.DefaultKeyMap()),
		renderer:     views.NewRenderer(),
		loading:      opts.Source != nil,
	}
	if opts.Source != nil {
		m.sourceName = opts.Source.Name()
	}

	m.ctrl = carousel.NewController(carousel.Options{
		Interval: interval,
		Autoplay: cfg.Autoplay.Enabled,
		Clock:    clock,
		Bus:      opts.Bus,
		Logger:   logger,
		OnTick: func(gen uint64) { offerTick(m.ticks, gen) },
	})
	return m, nil
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
	m.pager = NewPagerOps(p)
}

// Reload replaces the item list from outside the program loop. It is safe
// to call from any goroutine; a list not yet picked up is superseded.
func (m *Model) Reload(items []domain.DisplayItem) {
	select {
	case <-m.done:
		return
	default:
	}
	for {
		select {
		case m.reloads <- items:
			return
		default:
		}
		select {
		case <-m.reloads:
		default:
		}
	}
}

// Init returns the initial commands
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.fetch(), m.waitForAdvance(), m.waitForReload())
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		// Handle the details popup first
		if m.showInfo {
			switch msg.String() {
			case "esc", "enter", "q":
				m.showInfo = false
				m.infoContent = ""
				return m, nil
			}
		}

		ctx := &input.ModelContext{Snapshot: m.ctrl.Snapshot()}
		prevMode := m.inputHandler.CurrentMode()
		actions, cmd := m.inputHandler.HandleKey(msg, ctx)
		if prevMode != inputtypes.ModeSearch && m.inputHandler.CurrentMode() == inputtypes.ModeSearch {
			m.searchOrigin = ctx.Snapshot.Active
		}

		cmds := []tea.Cmd{cmd}
		for _, action := range actions {
			cmds = append(cmds, m.processAction(action))
		}
		m.syncFocus()
		return m, tea.Batch(cmds...)

	case tea.MouseMsg:
		return m, m.handleMouse(msg)

	case tea.BlurMsg:
		// The terminal lost focus: the pointer is gone and so is any drag
		m.swipe.Cancel()
		m.setHover(hoverPointer|hoverDrag, false)
		return m, nil

	default:
		cmd := m.inputHandler.Update(msg)
		next, other := m.handleNonKeyboardMsg(msg)
		return next, tea.Batch(cmd, other)
	}
}

// View renders the UI
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}
	if m.inPagerMode {
		return ""
	}

	snap := m.ctrl.Snapshot()
	now := m.clock.Now()

	helpView := m.help.View(m.inputHandler.Keys())
	g := views.Layout(m.width, m.height, len(snap.Items), footerRows(helpView))

	cards := make([]views.Card, len(snap.Items))
	for i, item := range snap.Items {
		tf, ok := m.anim.Sample(item.Key, now)
		if !ok {
			tf = animator.DefaultTable().Of(snap.Roles[i])
		}
		cards[i] = views.Card{Item: item, Role: snap.Roles[i], Transform: tf}
	}

	state := views.ViewState{
		Geometry:        g,
		Cards:           cards,
		Active:          snap.Active,
		Autoplay:        snap.Autoplay,
		AutoplayEnabled: m.ctrl.Autoplay(),
		SourceName:      m.sourceName,
		Loading:         m.loading,
		StatusMessage:   m.statusMessage,
		StatusIsError:   m.statusIsError,
		HelpView:        helpView,
		ShowInfo:        m.showInfo,
		InfoContent:     m.infoContent,
	}
	if ti := m.inputHandler.TextInput(); ti != nil {
		state.InputPrompt = m.inputHandler.Prompt()
		state.InputView = ti.View()
	}
	return m.renderer.Render(state)
}

// geometry is the layout of the last rendered frame, for hit-testing
func (m *Model) geometry() views.Geometry {
	helpView := m.help.View(m.inputHandler.Keys())
	return views.Layout(m.width, m.height, len(m.ctrl.Snapshot().Items), footerRows(helpView))
}

// footerRows counts the status line and the help lines under the dots
func footerRows(helpView string) int {
	if helpView == "" {
		return 1
	}
	return 2 + strings.Count(helpView, "\n")
}

// processAction processes an action from the input handler
func (m *Model) processAction(action inputtypes.Action) tea.Cmd {
	switch a := action.(type) {
	case inputtypes.NextAction:
		m.ctrl.RequestNext()
		return m.transition()

	case inputtypes.PrevAction:
		m.ctrl.RequestPrev()
		return m.transition()

	case inputtypes.GoToAction:
		if err := m.ctrl.RequestGoTo(a.Index); err != nil {
			return m.setStatus(fmt.Sprintf("No item %d", a.Index+1), true)
		}
		return m.transition()

	case inputtypes.ToggleAutoplayAction:
		on := !m.ctrl.Autoplay()
		m.ctrl.SetAutoplay(on)
		if on {
			return m.setStatus("Autoplay on", false)
		}
		return m.setStatus("Autoplay off", false)

	case inputtypes.ShowDetailsAction:
		return m.showDetails()

	case inputtypes.RefetchAction:
		if m.src == nil {
			return nil
		}
		m.loading = true
		return m.fetch()

	case inputtypes.UpdateTextAction:
		return m.search(a.Text)

	case inputtypes.SubmitTextAction:
		if a.Text == "" {
			return nil
		}
		if _, ok := m.findMatch(a.Text); !ok {
			return m.setStatus(fmt.Sprintf("No match for %q", a.Text), true)
		}

	case inputtypes.CancelTextAction:
		snap := m.ctrl.Snapshot()
		if m.searchOrigin >= 0 && m.searchOrigin != snap.Active && m.searchOrigin < len(snap.Items) {
			_ = m.ctrl.RequestGoTo(m.searchOrigin)
			return m.transition()
		}

	case inputtypes.ToggleHelpAction:
		m.help.ShowAll = !m.help.ShowAll

	case inputtypes.QuitAction:
		return func() tea.Msg { return quitMsg{} }
	}
	return nil
}

// search moves to the first item after the search origin whose title or
// tags contain query
func (m *Model) search(query string) tea.Cmd {
	i, ok := m.findMatch(query)
	if !ok || i == m.ctrl.Snapshot().Active {
		return nil
	}
	if err := m.ctrl.RequestGoTo(i); err != nil {
		return nil
	}
	return m.transition()
}

func (m *Model) findMatch(query string) (int, bool) {
	query = strings.ToLower(strings.TrimSpace(query))
	items := m.ctrl.Snapshot().Items
	if query == "" || len(items) == 0 {
		return 0, false
	}
	start := m.searchOrigin
	if start < 0 {
		start = 0
	}
	for n := 1; n <= len(items); n++ {
		i := (start + n) % len(items)
		if matches(items[i], query) {
			return i, true
		}
	}
	return 0, false
}

func matches(item domain.DisplayItem, query string) bool {
	if strings.Contains(strings.ToLower(item.Title), query) {
		return true
	}
	for _, tag := range item.Tags {
		if strings.Contains(strings.ToLower(tag), query) {
			return true
		}
	}
	return false
}

// handleMouse turns pointer events into hover, swipe and dot clicks
func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	g := m.geometry()
	over := g.InStage(msg.X, msg.Y) || msg.Y == g.DotsRow

	switch msg.Action {
	case tea.MouseActionMotion:
		if m.swipe.Active() {
			m.swipe.Move(msg.X, msg.Y)
		}
		m.setHover(hoverPointer, over)

	case tea.MouseActionPress:
		m.setHover(hoverPointer, over)
		switch msg.Button {
		case tea.MouseButtonWheelUp, tea.MouseButtonWheelLeft:
			if over {
				return m.processAction(inputtypes.PrevAction{})
			}
		case tea.MouseButtonWheelDown, tea.MouseButtonWheelRight:
			if over {
				return m.processAction(inputtypes.NextAction{})
			}
		case tea.MouseButtonLeft:
			if i, ok := g.DotAt(msg.X, msg.Y); ok {
				return m.processAction(inputtypes.GoToAction{Index: i})
			}
			if g.InStage(msg.X, msg.Y) {
				m.swipe.Begin(msg.X, msg.Y)
				m.setHover(hoverDrag, true)
			}
		}

	case tea.MouseActionRelease:
		if !m.swipe.Active() {
			return nil
		}
		gesture := m.swipe.End(msg.X, msg.Y)
		m.setHover(hoverDrag, false)
		m.setHover(hoverPointer, over)
		if gesture != carousel.GestureNone {
			m.ctrl.Apply(gesture)
			return m.transition()
		}
	}
	return nil
}

// setHover records one source of interaction; autoplay is paused while
// any source is active
func (m *Model) setHover(src hoverSource, on bool) {
	if on {
		m.hover |= src
	} else {
		m.hover &^= src
	}
	m.ctrl.Hover(m.hover != 0)
}

// syncFocus treats an open search prompt as keyboard focus on the carousel
func (m *Model) syncFocus() {
	m.setHover(hoverFocus, m.inputHandler.CurrentMode() == inputtypes.ModeSearch)
}

// transition plans the motion to the controller's current roles and makes
// sure frames are being drawn
func (m *Model) transition() tea.Cmd {
	snap := m.ctrl.Snapshot()
	m.anim.Transition(snap.Keys(), snap.Roles, snap.Direction, m.clock.Now())
	if m.animating || !m.anim.Active(m.clock.Now()) {
		return nil
	}
	m.animating = true
	return frame()
}

func (m *Model) load(name string, items []domain.DisplayItem) {
	m.ctrl.Load(name, items)
	snap := m.ctrl.Snapshot()
	m.anim.Reset(snap.Keys(), snap.Roles)
}

func (m *Model) showDetails() tea.Cmd {
	snap := m.ctrl.Snapshot()
	if snap.Active < 0 {
		return nil
	}
	item := snap.Items[snap.Active]
	content := buildItemDetails(item, snap.Active, len(snap.Items))
	if m.program == nil {
		m.infoContent = content
		m.showInfo = true
		return nil
	}

	pager := m.pager
	program := m.program
	return func() tea.Msg {
		// Send pause message to stop rendering
		program.Send(pauseRenderingMsg{})
		err := pager.ShowInPager(content)
		program.Send(resumeRenderingMsg{})
		return detailsPagerMsg{key: item.Key, err: err}
	}
}

func (m *Model) setStatus(text string, isError bool) tea.Cmd {
	m.statusMessage = text
	m.statusIsError = isError
	return tea.Tick(statusTimeout, func(time.Time) tea.Msg { return clearStatusMsg{} })
}

// fetch returns a command that loads items from the source
func (m *Model) fetch() tea.Cmd {
	src, timeout, logger, bus := m.src, m.timeout, m.logger, m.bus
	if src == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		items, err := source.Fetch(ctx, src, logger, bus)
		return itemsLoadedMsg{source: src.Name(), items: items, err: err}
	}
}

// offerTick queues gen for the model loop, replacing a tick that has not
// been picked up yet
func offerTick(ticks chan uint64, gen uint64) {
	for {
		select {
		case ticks <- gen:
			return
		default:
		}
		select {
		case <-ticks:
		default:
		}
	}
}

// waitForAdvance listens for the next autoplay fire
func (m *Model) waitForAdvance() tea.Cmd {
	ticks, done := m.ticks, m.done
	return func() tea.Msg {
		select {
		case gen := <-ticks:
			return advanceMsg{gen: gen}
		case <-done:
			return nil
		}
	}
}

// waitForReload listens for lists pushed through Reload
func (m *Model) waitForReload() tea.Cmd {
	reloads, done := m.reloads, m.done
	return func() tea.Msg {
		select {
		case items := <-reloads:
			return reloadMsg{items: items}
		case <-done:
			return nil
		}
	}
}

// frame returns a command that sends a frame message after a delay
func frame() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// handleNonKeyboardMsg handles non-keyboard messages
func (m *Model) handleNonKeyboardMsg(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case itemsLoadedMsg:
		m.loading = false
		m.sourceName = msg.source
		m.load(msg.source, msg.items)
		if msg.err != nil {
			return m, m.setStatus(fmt.Sprintf("Could not load %s: %v", msg.source, msg.err), true)
		}
		return m, nil

	case reloadMsg:
		m.load(m.sourceName, msg.items)
		return m, tea.Batch(m.setStatus(fmt.Sprintf("Reloaded %d items", len(msg.items)), false), m.waitForReload())

	case advanceMsg:
		if m.closed {
			return m, nil
		}
		var cmd tea.Cmd
		if m.ctrl.Advance(msg.gen) {
			cmd = m.transition()
		}
		return m, tea.Batch(cmd, m.waitForAdvance())

	case frameMsg:
		// Don't keep drawing while the pager owns the terminal
		if m.inPagerMode || !m.anim.Active(m.clock.Now()) {
			m.animating = false
			return m, nil
		}
		return m, frame()

	case detailsPagerMsg:
		if msg.err != nil {
			// Pager failed, fall back to the popup
			m.logger.Warn("details pager failed, falling back to popup", zap.String("key", msg.key), zap.Error(msg.err))
			snap := m.ctrl.Snapshot()
			for i, item := range snap.Items {
				if item.Key == msg.key {
					m.infoContent = buildItemDetails(item, i, len(snap.Items))
					m.showInfo = true
				}
			}
		}
		return m, nil

	case pauseRenderingMsg:
		m.inPagerMode = true
		return m, nil

	case resumeRenderingMsg:
		m.inPagerMode = false
		return m, m.transition()

	case clearStatusMsg:
		m.statusMessage = ""
		m.statusIsError = false
		return m, nil

	case quitMsg:
		m.Close()
		return m, tea.Quit

	default:
		return m, nil
	}
}

// Close stops the autoplay timer, finishes animations and releases the
// channel listeners. It is safe to call more than once.
func (m *Model) Close() {
	if m.closed {
		return
	}
	m.closed = true
	m.ctrl.Close()
	m.anim.Cancel()
	close(m.done)
}
