package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"showreel/internal/autoplay"
)

// ViewState contains all the state needed for rendering
type ViewState struct {
	Geometry        Geometry
	Cards           []Card
	Active          int
	Autoplay        autoplay.State
	AutoplayEnabled bool
	SourceName      string
	Loading         bool
	StatusMessage   string
	StatusIsError   bool
	InputPrompt     string
	InputView       string
	HelpView        string
	ShowInfo        bool
	InfoContent     string
}

// Renderer handles all view rendering
type Renderer struct {
	styles      *Styles
	popupRender *PopupRenderer
}

// NewRenderer creates a new renderer
func NewRenderer() *Renderer {
	styles := NewStyles()
	return &Renderer{
		styles:      styles,
		popupRender: NewPopupRenderer(styles),
	}
}

// Styles exposes the renderer's styles
func (r *Renderer) Styles() *Styles { return r.styles }

// Render produces the complete view
func (r *Renderer) Render(state ViewState) string {
	g := state.Geometry
	content := &strings.Builder{}

	content.WriteString(r.renderTitle(state))
	content.WriteString("\n\n")

	var stage string
	switch {
	case state.Loading && len(state.Cards) == 0:
		spinner := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
		frame := int(time.Now().UnixMilli()/80) % len(spinner)
		stage = r.centered(g, r.styles.StatusLoading.Render(spinner[frame]+" Loading…"))
	case len(state.Cards) == 0:
		stage = r.centered(g, r.styles.Empty.Render("Nothing to show yet"))
	default:
		stage = r.RenderStage(g, state.Cards)
	}
	if state.ShowInfo {
		stage = r.popupRender.RenderPopupOverlay(stage, state.InfoContent, g.StageHeight, g.Width, r.styles.InfoBox)
	}
	content.WriteString(stage)
	content.WriteString("\n")

	content.WriteString(r.RenderDots(g, len(state.Cards), state.Active))
	content.WriteString("\n")

	content.WriteString(r.renderStatus(state))
	if state.HelpView != "" {
		content.WriteString("\n")
		content.WriteString(r.styles.Help.Render(state.HelpView))
	}
	return content.String()
}

func (r *Renderer) renderTitle(state ViewState) string {
	logo := r.styles.Title.Render("showreel")

	var right []string
	if n := len(state.Cards); n > 0 {
		right = append(right, r.styles.Dim.Render(counter(state.Active, n)))
	}
	right = append(right, r.autoplayBadge(state))
	rightContent := strings.Join(right, "  ")

	termWidth := state.Geometry.Width
	if termWidth <= 0 {
		termWidth = 80
	}
	padding := termWidth - lipgloss.Width(logo) - lipgloss.Width(rightContent)
	if padding < 2 {
		padding = 2
	}
	return logo + strings.Repeat(" ", padding) + rightContent
}

func (r *Renderer) autoplayBadge(state ViewState) string {
	if !state.AutoplayEnabled {
		return r.styles.Dim.Render("■ autoplay off")
	}
	switch state.Autoplay {
	case autoplay.Running:
		return r.styles.AutoplayOn.Render("▶ autoplay")
	case autoplay.Paused:
		return r.styles.AutoplayOff.Render("⏸ paused")
	default:
		return r.styles.Dim.Render("■ stopped")
	}
}

func (r *Renderer) renderStatus(state ViewState) string {
	switch {
	case state.InputPrompt != "":
		return r.styles.Search.Render(state.InputPrompt) + state.InputView
	case state.StatusMessage != "" && state.StatusIsError:
		return r.styles.StatusError.Render(state.StatusMessage)
	case state.StatusMessage != "":
		return r.styles.Status.Render(state.StatusMessage)
	case state.SourceName != "":
		return r.styles.Status.Render(state.SourceName)
	}
	return ""
}

func (r *Renderer) centered(g Geometry, s string) string {
	return lipgloss.Place(g.Width, g.StageHeight, lipgloss.Center, lipgloss.Center, s)
}

func counter(active, count int) string {
	return fmt.Sprintf("%d/%d", active+1, count)
}
