package carousel

// DefaultSwipeThreshold is the horizontal drag distance, in the surface's
// own units, past which a drag counts as a swipe
const DefaultSwipeThreshold = 50

// Gesture is what a finished drag resolved to
type Gesture int

const (
	GestureNone Gesture = iota
	GestureNext
	GesturePrev
)

// Swipe tracks one horizontal drag
type Swipe struct {
	Threshold int

	active bool
	startX int
	startY int
	lastX  int
	lastY  int
}

// Begin starts tracking a drag at (x, y)
func (s *Swipe) Begin(x, y int) {
	s.active = true
	s.startX, s.startY = x, y
	s.lastX, s.lastY = x, y
}

// Move records the pointer position during a drag
func (s *Swipe) Move(x, y int) {
	if !s.active {
		return
	}
	s.lastX, s.lastY = x, y
}

// Active reports whether a drag is in progress
func (s *Swipe) Active() bool { return s.active }

// End finishes the drag at (x, y). Dragging left past the threshold means
// next, dragging right means prev. Mostly vertical drags are ignored.
func (s *Swipe) End(x, y int) Gesture {
	if !s.active {
		return GestureNone
	}
	s.Move(x, y)
	s.active = false

	threshold := s.Threshold
	if threshold <= 0 {
		threshold = DefaultSwipeThreshold
	}
	dx := s.lastX - s.startX
	dy := s.lastY - s.startY
	if abs(dy) > abs(dx) {
		return GestureNone
	}
	switch {
	case dx <= -threshold:
		return GestureNext
	case dx >= threshold:
		return GesturePrev
	}
	return GestureNone
}

// Cancel drops the drag in progress
func (s *Swipe) Cancel() { s.active = false }

// Apply sends a resolved gesture to the controller
func (c *Controller) Apply(g Gesture) {
	switch g {
	case GestureNext:
		c.RequestNext()
	case GesturePrev:
		c.RequestPrev()
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
