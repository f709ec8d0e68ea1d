package views

import (
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"showreel/internal/animator"
	"showreel/internal/carousel"
	"showreel/internal/domain"
)

const (
	reset = "\x1b[0m"

	// Cards fainter than this are not drawn at all
	minVisibleOpacity = 0.05
)

// Card is one item ready to be painted on the stage
type Card struct {
	Item      domain.DisplayItem
	Role      carousel.Role
	Transform animator.Transform
}

// Canvas is a fixed-size grid of styled lines
type Canvas struct {
	width int
	lines []string
}

// NewCanvas returns a blank canvas
func NewCanvas(width, height int) *Canvas {
	c := &Canvas{width: width, lines: make([]string, height)}
	blank := strings.Repeat(" ", width)
	for i := range c.lines {
		c.lines[i] = blank
	}
	return c
}

// Paint draws block with its top-left corner at (x, y), clipped to the
// canvas. Cells outside the block keep what was there.
func (c *Canvas) Paint(block string, x, y int) {
	for i, line := range strings.Split(block, "\n") {
		row := y + i
		if row < 0 || row >= len(c.lines) {
			continue
		}
		start := x
		seg := line
		if start < 0 {
			seg = ansi.TruncateLeft(seg, -start, "")
			start = 0
		}
		if start >= c.width {
			continue
		}
		segW := ansi.StringWidth(seg)
		if segW == 0 {
			continue
		}
		if start+segW > c.width {
			seg = ansi.Truncate(seg, c.width-start, "")
			segW = ansi.StringWidth(seg)
		}
		base := c.lines[row]
		c.lines[row] = ansi.Truncate(base, start, "") + reset + seg + reset + ansi.TruncateLeft(base, start+segW, "")
	}
}

// String joins the canvas lines
func (c *Canvas) String() string {
	return strings.Join(c.lines, "\n")
}

// RenderStage paints cards back to front. Position comes from X (in card
// widths from the middle), size from Scale, and dimming from Opacity and
// Blur; the terminal cannot tilt, so Rotate is not drawn.
func (r *Renderer) RenderStage(g Geometry, cards []Card) string {
	canvas := NewCanvas(g.Width, g.StageHeight)

	order := make([]int, 0, len(cards))
	for i, c := range cards {
		if c.Transform.Opacity >= minVisibleOpacity {
			order = append(order, i)
		}
	}
	sort.SliceStable(order, func(a, b int) bool {
		ta, tb := cards[order[a]].Transform, cards[order[b]].Transform
		if ta.Z != tb.Z {
			return ta.Z < tb.Z
		}
		return ta.Opacity < tb.Opacity
	})

	mid := g.Width / 2
	for _, i := range order {
		c := cards[i]
		tf := c.Transform
		w := int(math.Round(float64(g.CardWidth) * tf.Scale))
		h := int(math.Round(float64(g.StageHeight) * tf.Scale))
		if w < 8 || h < 3 {
			continue
		}
		cx := mid + int(math.Round(tf.X*float64(g.CardWidth)))
		canvas.Paint(r.renderCard(c, w, h), cx-w/2, (g.StageHeight-h)/2)
	}
	return canvas.String()
}

// renderCard draws a bordered card exactly w cells wide and h lines tall
func (r *Renderer) renderCard(c Card, w, h int) string {
	tf := c.Transform
	inner := w - 4 // border and one cell of padding on each side
	rows := h - 2

	var parts []string
	parts = append(parts, r.styles.CardTitle.Render(ansi.Truncate(c.Item.Label(), inner, "…")))
	// Blurred cards only keep their title
	if tf.Blur < 1 {
		if c.Item.Subtitle != "" {
			parts = append(parts, r.styles.CardSubtitle.Render(ansi.Truncate(c.Item.Subtitle, inner, "…")))
		}
		if !c.Item.Issued.IsZero() {
			parts = append(parts, r.styles.Dim.Render(c.Item.Issued.Format("Jan 2006")))
		}
		if c.Item.Description != "" {
			parts = append(parts, "", lipgloss.NewStyle().Width(inner).Render(c.Item.Description))
		}
		if len(c.Item.Tags) > 0 {
			parts = append(parts, "", r.styles.CardTags.Width(inner).Render("#"+strings.Join(c.Item.Tags, " #")))
		}
	}

	lines := strings.Split(strings.Join(parts, "\n"), "\n")
	if len(lines) > rows {
		lines = lines[:rows]
	}

	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(BorderColor(tf.Opacity, c.Role == carousel.Center)).
		Padding(0, 1).
		Width(w - 2).
		Height(rows)
	if tf.Opacity < 0.8 {
		style = style.Faint(true)
	}
	// Cards right of center are partly covered on their left edge
	if tf.X > 0.05 {
		style = style.Align(lipgloss.Right)
	}
	return style.Render(strings.Join(lines, "\n"))
}

// RenderDots draws the position indicator, or a counter when it does not fit
func (r *Renderer) RenderDots(g Geometry, count, active int) string {
	if count == 0 {
		return ""
	}
	if g.DotX == nil {
		return lipgloss.PlaceHorizontal(g.Width, lipgloss.Center, r.styles.Dim.Render(counter(active, count)))
	}
	var b strings.Builder
	b.WriteString(strings.Repeat(" ", g.DotX[0]))
	for i := 0; i < count; i++ {
		if i > 0 {
			b.WriteString(strings.Repeat(" ", dotGap-1))
		}
		if i == active {
			b.WriteString(r.styles.DotActive.Render("●"))
		} else {
			b.WriteString(r.styles.DotIdle.Render("○"))
		}
	}
	return b.String()
}
