package views

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Title         lipgloss.Style
	Dim           lipgloss.Style
	Status        lipgloss.Style
	Search        lipgloss.Style
	InfoBox       lipgloss.Style
	Help          lipgloss.Style
	Empty         lipgloss.Style
	CardTitle     lipgloss.Style
	CardSubtitle  lipgloss.Style
	CardTags      lipgloss.Style
	DotActive     lipgloss.Style
	DotIdle       lipgloss.Style
	StatusError   lipgloss.Style
	StatusLoading lipgloss.Style
	AutoplayOn    lipgloss.Style
	AutoplayOff   lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Title:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99")),
		Dim:    lipgloss.NewStyle().Faint(true),
		Status: lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Search: lipgloss.NewStyle().Foreground(lipgloss.Color("214")), // yellow
		InfoBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(1, 2).
			BorderForeground(lipgloss.Color("99")),
		Help:          lipgloss.NewStyle().Faint(true),
		Empty:         lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
		CardTitle:     lipgloss.NewStyle().Bold(true),
		CardSubtitle:  lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Italic(true),
		CardTags:      lipgloss.NewStyle().Foreground(lipgloss.Color("78")),
		DotActive:     lipgloss.NewStyle().Foreground(lipgloss.Color("99")),
		DotIdle:       lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		StatusError:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")), // red
		StatusLoading: lipgloss.NewStyle().Foreground(lipgloss.Color("241")), // gray
		AutoplayOn:    lipgloss.NewStyle().Foreground(lipgloss.Color("78")),  // green
		AutoplayOff:   lipgloss.NewStyle().Foreground(lipgloss.Color("214")), // yellow
	}
}

// BorderColor picks a card border by how present the card is
func BorderColor(opacity float64, center bool) lipgloss.Color {
	switch {
	case center && opacity > 0.95:
		return lipgloss.Color("99")
	case opacity >= 0.5:
		return lipgloss.Color("245")
	default:
		return lipgloss.Color("238")
	}
}
