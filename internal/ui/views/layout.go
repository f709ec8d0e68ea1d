package views

const (
	headerRows = 2 // title line and a gap
	minStage   = 5
	dotGap     = 2
)

// Geometry locates the stage and the dot indicator on screen. The model
// uses it to hit-test the mouse; the renderer uses it to draw.
type Geometry struct {
	Width       int
	Height      int
	StageTop    int
	StageHeight int
	CardWidth   int
	DotsRow     int
	DotX        []int // column of each dot; nil when the dots do not fit
}

// Layout computes the geometry for a terminal of width x height showing
// count items, with footerRows lines of status and help below the dots
func Layout(width, height, count, footerRows int) Geometry {
	g := Geometry{Width: width, Height: height, StageTop: headerRows}

	g.StageHeight = height - headerRows - 1 - footerRows
	if g.StageHeight < minStage {
		g.StageHeight = minStage
	}
	g.DotsRow = g.StageTop + g.StageHeight

	// The center card plus both side cards must fit: about 1.95 card widths
	g.CardWidth = width * 10 / 21
	if g.CardWidth > 48 {
		g.CardWidth = 48
	}

	if count > 0 && count*dotGap-1 <= width {
		span := count*dotGap - 1
		start := (width - span) / 2
		g.DotX = make([]int, count)
		for i := range g.DotX {
			g.DotX[i] = start + i*dotGap
		}
	}
	return g
}

// InStage reports whether the cell (x, y) is on the stage
func (g Geometry) InStage(x, y int) bool {
	return x >= 0 && x < g.Width && y >= g.StageTop && y < g.StageTop+g.StageHeight
}

// DotAt returns the index of the dot at (x, y)
func (g Geometry) DotAt(x, y int) (int, bool) {
	if y != g.DotsRow {
		return 0, false
	}
	for i, dx := range g.DotX {
		if x == dx {
			return i, true
		}
	}
	return 0, false
}
