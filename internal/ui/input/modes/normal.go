package modes

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"showreel/internal/ui/input/types"
)

type NormalMode struct {
	keys types.KeyMap
}

func NewNormalMode(keys types.KeyMap) *NormalMode {
	return &NormalMode{keys: keys}
}

func (m *NormalMode) Name() string {
	return "normal"
}

func (m *NormalMode) Enter(ctx types.Context) []types.Action {
	return nil
}

func (m *NormalMode) Exit(ctx types.Context) []types.Action {
	return nil
}

func (m *NormalMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	if msg.Type == tea.KeyCtrlC {
		return []types.Action{types.QuitAction{Force: true}}, true
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return []types.Action{types.QuitAction{}}, true

	case key.Matches(msg, m.keys.Prev):
		return []types.Action{types.PrevAction{}}, true

	case key.Matches(msg, m.keys.Next):
		return []types.Action{types.NextAction{}}, true

	case key.Matches(msg, m.keys.GoTo):
		// Digits are 1-based on the keyboard
		digit := int(msg.String()[0] - '0')
		return []types.Action{types.GoToAction{Index: digit - 1}}, true

	case key.Matches(msg, m.keys.Pause):
		return []types.Action{types.ToggleAutoplayAction{}}, true

	case key.Matches(msg, m.keys.Details):
		if ctx.ItemCount() == 0 {
			return nil, false
		}
		return []types.Action{types.ShowDetailsAction{}}, true

	case key.Matches(msg, m.keys.Search):
		if ctx.ItemCount() == 0 {
			return nil, false
		}
		return []types.Action{types.ChangeModeAction{Mode: types.ModeSearch}}, true

	case key.Matches(msg, m.keys.Refetch):
		return []types.Action{types.RefetchAction{}}, true

	case key.Matches(msg, m.keys.Help):
		return []types.Action{types.ToggleHelpAction{}}, true
	}

	return nil, false
}
