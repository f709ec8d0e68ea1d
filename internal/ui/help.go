package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/noborus/ov/oviewer"

	"showreel/internal/domain"
)

// buildItemDetails builds the detail page for one item. The same text is
// shown in the pager and, when the pager is unavailable, in the popup.
func buildItemDetails(item domain.DisplayItem, index, count int) string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	labelStyle := lipgloss.NewStyle().Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	var info strings.Builder

	info.WriteString(titleStyle.Render(item.Label()))
	info.WriteString("\n")
	info.WriteString(dimStyle.Render(fmt.Sprintf("%s %d of %d", item.Kind, index+1, count)))
	info.WriteString("\n\n")

	if item.Subtitle != "" {
		info.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Italic(true).Render(item.Subtitle))
		info.WriteString("\n\n")
	}

	if item.Description != "" {
		info.WriteString(item.Description)
		info.WriteString("\n\n")
	}

	if len(item.Tags) > 0 {
		info.WriteString(labelStyle.Render("Technologies:"))
		info.WriteString("\n")
		for _, tag := range item.Tags {
			info.WriteString("  • ")
			info.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("78")).Render(tag))
			info.WriteString("\n")
		}
		info.WriteString("\n")
	}

	if !item.Issued.IsZero() {
		info.WriteString(fmt.Sprintf("Issued: %s\n", item.Issued.Format("2 January 2006")))
	}
	if item.URL != "" {
		info.WriteString(fmt.Sprintf("Link: %s\n", item.URL))
	}
	if item.Image != "" {
		info.WriteString(dimStyle.Render(fmt.Sprintf("Image: %s", item.Image)))
		info.WriteString("\n")
	}

	info.WriteString("\n")
	info.WriteString(dimStyle.Render("Press ESC or enter to close"))

	return info.String()
}

// PagerOps runs the ov pager on top of the program
type PagerOps struct {
	program *tea.Program // reference to Bubble Tea program for terminal management
}

// NewPagerOps creates a pager bound to program
func NewPagerOps(program *tea.Program) *PagerOps {
	return &PagerOps{program: program}
}

// ShowInPager shows content using ov pager
func (p *PagerOps) ShowInPager(content string) error {
	if p == nil || p.program == nil {
		return fmt.Errorf("program not set")
	}

	// Release terminal control to run ov
	if err := p.program.ReleaseTerminal(); err != nil {
		return err
	}

	// Ensure terminal is restored even if ov fails
	defer func() {
		// Small delay to ensure ov has fully exited before restoring terminal
		time.Sleep(100 * time.Millisecond)
		_ = p.program.RestoreTerminal()
	}()

	root, err := oviewer.NewRoot(strings.NewReader(content))
	if err != nil {
		return err
	}

	// Don't write the page back to the terminal on exit
	config := oviewer.NewConfig()
	config.IsWriteOnExit = false
	config.IsWriteOriginal = false
	root.SetConfig(config)

	return root.Run()
}
