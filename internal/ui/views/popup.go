package views

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// PopupRenderer handles popup/modal rendering
type PopupRenderer struct {
	styles *Styles
}

// NewPopupRenderer creates a new popup renderer
func NewPopupRenderer(styles *Styles) *PopupRenderer {
	return &PopupRenderer{
		styles: styles,
	}
}

// RenderPopupOverlay greys out mainContent and centers the popup on top
func (pr *PopupRenderer) RenderPopupOverlay(mainContent, popupContent string, height, width int, popupStyle lipgloss.Style) string {
	maxW := width - 6
	if maxW < 10 {
		maxW = 10
	}
	styledPopup := popupStyle.MaxWidth(maxW).Render(popupContent)

	lines := strings.Split(styledPopup, "\n")
	if len(lines) > height-2 && height > 2 {
		lines = lines[:height-2]
	}
	styledPopup = strings.Join(lines, "\n")

	modalW := lipgloss.Width(styledPopup)
	modalH := len(lines)
	x := (width - modalW) / 2
	y := (height - modalH) / 2

	canvas := NewCanvas(width, height)
	canvas.Paint(desaturateANSI(mainContent), 0, 0)
	canvas.Paint(styledPopup, x, y)
	return canvas.String()
}

// ANSI escape sequence regex to strip styles/colors
var ansiRE = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// desaturateANSI strips ANSI color/style codes and recolors text dim gray
func desaturateANSI(s string) string {
	lines := strings.Split(s, "\n")
	grey := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	for i, line := range lines {
		lines[i] = grey.Render(ansi.Strip(line))
	}
	return strings.Join(lines, "\n")
}

// StripANSI removes styling, for tests and plain output
func StripANSI(s string) string {
	return ansiRE.ReplaceAllString(s, "")
}
