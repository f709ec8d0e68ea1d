package ui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"showreel/internal/autoplay"
	"showreel/internal/config"
	"showreel/internal/domain"
)

var portfolio = []domain.DisplayItem{
	{Key: "alpha", Kind: domain.KindProject, Title: "Alpha", Description: "A terminal carousel", Tags: []string{"Go", "SQLite"}},
	{Key: "bravo", Kind: domain.KindProject, Title: "Bravo", Tags: []string{"Vue"}},
	{Key: "charlie", Kind: domain.KindProject, Title: "Charlie"},
	{Key: "delta", Kind: domain.KindProject, Title: "Delta", Tags: []string{"Rust"}},
}

func newTestModel(t *testing.T, items []domain.DisplayItem) (*Model, *clockwork.FakeClock) {
	t.Helper()
	clock := clockwork.NewFakeClock()
	m, err := NewModel(Options{Config: config.DefaultConfig(), Clock: clock, Logger: zap.NewNop()})
	require.NoError(t, err)
	t.Cleanup(m.Close)

	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m.Update(itemsLoadedMsg{source: "test", items: items})
	return m, clock
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func active(m *Model) int {
	return m.ctrl.Snapshot().Active
}

func TestKeyNavigation(t *testing.T) {
	m, _ := newTestModel(t, portfolio)
	require.Equal(t, 0, active(m))

	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 1, active(m))

	m.Update(runes("h"))
	m.Update(runes("h"))
	assert.Equal(t, 3, active(m), "prev wraps to the last item")

	m.Update(runes("3"))
	assert.Equal(t, 2, active(m))

	m.Update(runes("9"))
	assert.Equal(t, 2, active(m), "out of range jump is ignored")
	assert.True(t, m.statusIsError)
	assert.Equal(t, "No item 9", m.statusMessage)
}

func TestNavigationStartsAnimation(t *testing.T) {
	m, clock := newTestModel(t, portfolio)
	assert.False(t, m.anim.Active(clock.Now()), "a fresh load snaps into place")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRight})
	assert.NotNil(t, cmd)
	assert.True(t, m.animating)
	assert.True(t, m.anim.Active(clock.Now()))

	clock.Advance(time.Second)
	m.Update(frameMsg(clock.Now()))
	assert.False(t, m.animating, "frames stop once every motion is done")
}

func TestToggleAutoplay(t *testing.T) {
	m, _ := newTestModel(t, portfolio)
	require.Equal(t, autoplay.Running, m.ctrl.TimerState())

	m.Update(tea.KeyMsg{Type: tea.KeySpace})
	assert.False(t, m.ctrl.Autoplay())
	assert.Equal(t, autoplay.Stopped, m.ctrl.TimerState())
	assert.Equal(t, "Autoplay off", m.statusMessage)

	m.Update(tea.KeyMsg{Type: tea.KeySpace})
	assert.Equal(t, autoplay.Running, m.ctrl.TimerState())
}

func TestAutoplayAdvances(t *testing.T) {
	m, clock := newTestModel(t, portfolio)
	interval, err := m.cfg.AutoplayInterval()
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	clock.Advance(interval)

	msg := m.waitForAdvance()()
	require.IsType(t, advanceMsg{}, msg)
	m.Update(msg)
	assert.Equal(t, 1, active(m))
}

func TestAutoplayTickQueuedBeforeKeyIsDropped(t *testing.T) {
	m, clock := newTestModel(t, portfolio)
	interval, err := m.cfg.AutoplayInterval()
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	clock.Advance(interval)
	require.Eventually(t, func() bool { return len(m.ticks) == 1 }, time.Second, time.Millisecond)

	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	require.Equal(t, 1, active(m))

	m.Update(m.waitForAdvance()())
	assert.Equal(t, 1, active(m), "autoplay must not jump right after a key")
}

func TestOfferTickKeepsNewest(t *testing.T) {
	ticks := make(chan uint64, 1)
	offerTick(ticks, 1)
	offerTick(ticks, 2)
	require.Len(t, ticks, 1)
	assert.Equal(t, uint64(2), <-ticks)
}

func TestMouseHoverPausesAutoplay(t *testing.T) {
	m, _ := newTestModel(t, portfolio)
	g := m.geometry()

	m.Update(tea.MouseMsg{X: 50, Y: g.StageTop + 3, Action: tea.MouseActionMotion})
	assert.Equal(t, autoplay.Paused, m.ctrl.TimerState())

	m.Update(tea.MouseMsg{X: 50, Y: 0, Action: tea.MouseActionMotion})
	assert.Equal(t, autoplay.Running, m.ctrl.TimerState())

	m.Update(tea.MouseMsg{X: 50, Y: g.StageTop + 3, Action: tea.MouseActionMotion})
	m.Update(tea.BlurMsg{})
	assert.Equal(t, autoplay.Running, m.ctrl.TimerState(), "losing terminal focus counts as leaving")
}

func TestMouseSwipe(t *testing.T) {
	m, _ := newTestModel(t, portfolio)
	y := m.geometry().StageTop + 5

	m.Update(tea.MouseMsg{X: 60, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	assert.Equal(t, autoplay.Paused, m.ctrl.TimerState(), "touch holds autoplay")
	m.Update(tea.MouseMsg{X: 50, Y: y, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	m.Update(tea.MouseMsg{X: 40, Y: y, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	assert.Equal(t, 1, active(m))

	m.Update(tea.MouseMsg{X: 40, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m.Update(tea.MouseMsg{X: 42, Y: y, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	assert.Equal(t, 1, active(m), "a short drag is a click, not a swipe")

	m.Update(tea.MouseMsg{X: 40, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelUp})
	assert.Equal(t, 0, active(m))
}

func TestMouseDotClick(t *testing.T) {
	m, _ := newTestModel(t, portfolio)
	g := m.geometry()
	require.Len(t, g.DotX, len(portfolio))

	m.Update(tea.MouseMsg{X: g.DotX[2], Y: g.DotsRow, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	assert.Equal(t, 2, active(m))
}

func TestSearch(t *testing.T) {
	m, _ := newTestModel(t, portfolio)

	m.Update(runes("/"))
	assert.Equal(t, autoplay.Paused, m.ctrl.TimerState(), "typing in the prompt holds autoplay")

	m.Update(runes("c"))
	assert.Equal(t, 2, active(m), "charlie is the first title containing c")

	m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	m.Update(runes("r"))
	m.Update(runes("u"))
	assert.Equal(t, 3, active(m), "tags match too")

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, 0, active(m), "cancel goes back to where the search started")
	assert.Equal(t, autoplay.Running, m.ctrl.TimerState())
}

func TestSearchSubmitWithoutMatch(t *testing.T) {
	m, _ := newTestModel(t, portfolio)

	m.Update(runes("/"))
	m.Update(runes("z"))
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, 0, active(m))
	assert.True(t, m.statusIsError)
	assert.Contains(t, m.statusMessage, "No match")
}

func TestDetailsPopup(t *testing.T) {
	m, _ := newTestModel(t, portfolio)

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.True(t, m.showInfo)
	out := ansi.Strip(m.View())
	assert.Contains(t, out, "A terminal carousel")
	assert.Contains(t, out, "SQLite")

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.showInfo)
}

func TestEmptyAndFailedSource(t *testing.T) {
	m, _ := newTestModel(t, nil)
	m.Update(itemsLoadedMsg{source: "file:missing.yaml", err: errors.New("no such file")})

	assert.Equal(t, -1, active(m))
	assert.Equal(t, autoplay.Stopped, m.ctrl.TimerState())

	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.showInfo)

	out := ansi.Strip(m.View())
	assert.Contains(t, out, "Nothing to show yet")
	assert.Contains(t, out, "Could not load file:missing.yaml")
}

func TestViewShowsActiveCard(t *testing.T) {
	m, _ := newTestModel(t, portfolio)

	out := ansi.Strip(m.View())
	assert.Contains(t, out, "Alpha")
	assert.Contains(t, out, "1/4")
	assert.Contains(t, out, "autoplay")
}

func TestReloadFromAnotherGoroutine(t *testing.T) {
	m, _ := newTestModel(t, portfolio)
	require.NoError(t, m.ctrl.RequestGoTo(2))

	go m.Reload(portfolio[:3])
	msg := m.waitForReload()()
	require.IsType(t, reloadMsg{}, msg)
	m.Update(msg)

	snap := m.ctrl.Snapshot()
	assert.Len(t, snap.Items, 3)
	assert.Equal(t, 2, snap.Active, "a still valid index is kept")
}

func TestQuitStopsEverything(t *testing.T) {
	m, _ := newTestModel(t, portfolio)

	msg := m.processAction(nil)
	assert.Nil(t, msg)

	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	m.Update(quitMsg{})

	assert.True(t, m.closed)
	assert.Equal(t, autoplay.Stopped, m.ctrl.TimerState())
	assert.Nil(t, m.waitForAdvance()(), "listeners return once the model is closed")

	m.Reload(portfolio)
	assert.Len(t, m.reloads, 0)
}
