package types

// Carousel navigation
type NextAction struct{}

func (a NextAction) Type() string { return "next" }

type PrevAction struct{}

func (a PrevAction) Type() string { return "prev" }

type GoToAction struct {
	Index int
}

func (a GoToAction) Type() string { return "goto" }

type ToggleAutoplayAction struct{}

func (a ToggleAutoplayAction) Type() string { return "toggle_autoplay" }

// Item actions
type ShowDetailsAction struct{}

func (a ShowDetailsAction) Type() string { return "show_details" }

type RefetchAction struct{}

func (a RefetchAction) Type() string { return "refetch" }

// Mode transition actions
type ChangeModeAction struct {
	Mode Mode
}

func (a ChangeModeAction) Type() string { return "change_mode" }

// Text input actions
type UpdateTextAction struct {
	Text string
}

func (a UpdateTextAction) Type() string { return "update_text" }

type SubmitTextAction struct {
	Text string
	Mode Mode // Which mode submitted the text
}

func (a SubmitTextAction) Type() string { return "submit_text" }

type CancelTextAction struct{}

func (a CancelTextAction) Type() string { return "cancel_text" }

// UI actions
type ToggleHelpAction struct{}

func (a ToggleHelpAction) Type() string { return "toggle_help" }

type QuitAction struct {
	Force bool
}

func (a QuitAction) Type() string { return "quit" }
