package ui

import (
	"time"

	"showreel/internal/domain"
)

// itemsLoadedMsg carries the result of a source fetch
type itemsLoadedMsg struct {
	source string
	items  []domain.DisplayItem
	err    error
}

// reloadMsg carries a list pushed in from outside the program, e.g. by the
// file watcher
type reloadMsg struct {
	items []domain.DisplayItem
}

// advanceMsg is sent when the autoplay timer fires; gen identifies the tick
type advanceMsg struct {
	gen uint64
}

// frameMsg is sent on a timer while a transition is animating
type frameMsg time.Time

// detailsPagerMsg contains the result of showing details in the pager
type detailsPagerMsg struct {
	key string
	err error
}

// clearStatusMsg clears the status line
type clearStatusMsg struct{}

// quitMsg signals that the application should quit
type quitMsg struct{}

// pauseRenderingMsg signals to pause Bubble Tea rendering
type pauseRenderingMsg struct{}

// resumeRenderingMsg signals to resume Bubble Tea rendering
type resumeRenderingMsg struct{}
