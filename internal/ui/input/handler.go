package input

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"showreel/internal/ui/input/modes"
	"showreel/internal/ui/input/types"
)

type Handler struct {
	currentMode types.Mode
	modes       map[types.Mode]types.ModeHandler
	textInput   *textinput.Model // Shared text input for text modes
	keys        types.KeyMap
}

func New(keys types.KeyMap) *Handler {
	ti := textinput.New()
	ti.CharLimit = 64

	h := &Handler{
		currentMode: types.ModeNormal,
		textInput:   &ti,
		modes:       make(map[types.Mode]types.ModeHandler),
		keys:        keys,
	}

	h.modes[types.ModeNormal] = modes.NewNormalMode(keys)
	h.modes[types.ModeSearch] = modes.NewSearchMode(h.textInput)

	return h
}

// Keys returns the bindings the handler was built with
func (h *Handler) Keys() types.KeyMap {
	return h.keys
}

func (h *Handler) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, tea.Cmd) {
	handler := h.modes[h.currentMode]
	if handler == nil {
		return nil, nil
	}

	actions, consumed := handler.HandleKey(msg, ctx)

	if !consumed && !h.isTextMode(h.currentMode) {
		return nil, nil
	}

	var cmd tea.Cmd
	var allActions []types.Action

	for _, action := range actions {
		changeMode, ok := action.(types.ChangeModeAction)
		if !ok {
			allActions = append(allActions, action)
			continue
		}

		if h.modes[h.currentMode] != nil {
			allActions = append(allActions, h.modes[h.currentMode].Exit(ctx)...)
		}

		oldMode := h.currentMode
		h.currentMode = changeMode.Mode

		if h.modes[h.currentMode] != nil {
			allActions = append(allActions, h.modes[h.currentMode].Enter(ctx)...)
		}

		if h.isTextMode(h.currentMode) {
			h.textInput.Reset()
			h.textInput.Focus()
			cmd = textinput.Blink
		} else if h.isTextMode(oldMode) {
			h.textInput.Blur()
		}
	}

	// Unhandled keys in a text mode go to the text input
	if h.isTextMode(h.currentMode) && !consumed {
		var textCmd tea.Cmd
		*h.textInput, textCmd = h.textInput.Update(msg)
		cmd = textCmd
		allActions = append(allActions, types.UpdateTextAction{Text: h.textInput.Value()})
	}

	return allActions, cmd
}

func (h *Handler) CurrentMode() types.Mode {
	if h == nil {
		return types.ModeNormal
	}
	return h.currentMode
}

// Prompt returns the prompt of the current text mode
func (h *Handler) Prompt() string {
	if p, ok := h.modes[h.currentMode].(interface{ Prompt() string }); ok {
		return p.Prompt()
	}
	return ""
}

func (h *Handler) TextInput() *textinput.Model {
	if h.isTextMode(h.currentMode) {
		return h.textInput
	}
	return nil
}

func (h *Handler) isTextMode(mode types.Mode) bool {
	return mode == types.ModeSearch
}

func (h *Handler) Reset() {
	h.currentMode = types.ModeNormal
	h.textInput.Reset()
	h.textInput.Blur()
}

// Update handles non-keyboard messages for text input
func (h *Handler) Update(msg tea.Msg) tea.Cmd {
	if h.isTextMode(h.currentMode) {
		var cmd tea.Cmd
		*h.textInput, cmd = h.textInput.Update(msg)
		return cmd
	}
	return nil
}
