package carousel

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfRange is returned by GoTo for an index outside the list
	ErrOutOfRange = errors.New("carousel: index out of range")
	// ErrEmpty is returned when a command needs at least one item
	ErrEmpty = errors.New("carousel: no items")
	// ErrClosed is returned by a controller after Close
	ErrClosed = errors.New("carousel: closed")
)

// Direction records which way the last transition moved
type Direction int

const (
	Forward Direction = iota
	Backward
)

func (d Direction) String() string {
	if d == Backward {
		return "backward"
	}
	return "forward"
}

// Role is the visual slot assigned to an item for one render pass
type Role int

const (
	RoleNone Role = iota
	Center
	Left
	Right
	HiddenLeft
	HiddenRight
)

func (r Role) String() string {
	switch r {
	case Center:
		return "center"
	case Left:
		return "left"
	case Right:
		return "right"
	case HiddenLeft:
		return "hidden-left"
	case HiddenRight:
		return "hidden-right"
	default:
		return "none"
	}
}

// Visible reports whether the role occupies one of the three on-screen slots
func (r Role) Visible() bool {
	return r == Center || r == Left || r == Right
}

// State holds the active index and last direction over a list of count items.
// The zero value is an empty carousel.
type State struct {
	count     int
	active    int
	direction Direction
}

// NewState returns a state over count items with item 0 active
func NewState(count int) State {
	var s State
	s.Resize(count)
	return s
}

func (s *State) Count() int           { return s.count }
func (s *State) Empty() bool          { return s.count == 0 }
func (s *State) Direction() Direction { return s.direction }

// Active returns the active index, or -1 when the list is empty
func (s *State) Active() int {
	if s.count == 0 {
		return -1
	}
	return s.active
}

// Next moves forward one item, wrapping at the end.
// It reports whether the active index changed.
func (s *State) Next() bool {
	if s.count <= 1 {
		return false
	}
	s.direction = Forward
	s.active = (s.active + 1) % s.count
	return true
}

// Prev moves back one item, wrapping at the start
func (s *State) Prev() bool {
	if s.count <= 1 {
		return false
	}
	s.direction = Backward
	s.active = (s.active - 1 + s.count) % s.count
	return true
}

// GoTo activates item i. Indices ahead of the current one (or equal to it)
// move Forward, the rest Backward. An invalid index leaves the state as is.
func (s *State) GoTo(i int) error {
	if s.count == 0 {
		return ErrEmpty
	}
	if i < 0 || i >= s.count {
		return fmt.Errorf("%w: %d not in [0,%d)", ErrOutOfRange, i, s.count)
	}
	if i >= s.active {
		s.direction = Forward
	} else {
		s.direction = Backward
	}
	s.active = i
	return nil
}

// Resize applies a wholesale list replacement
func (s *State) Resize(count int) {
	if count < 0 {
		count = 0
	}
	s.count = count
	if s.active < 0 || s.active >= count {
		s.active = 0
	}
	s.direction = Forward
}

// Offset returns the signed circular distance from the active item to item i,
// normalized into (-count/2, count/2].
func (s *State) Offset(i int) int {
	o := ((i-s.active)%s.count + s.count) % s.count
	if o > s.count/2 {
		o -= s.count
	}
	return o
}

// RoleOf returns the visual role of item i
func (s *State) RoleOf(i int) Role {
	if s.count == 0 || i < 0 || i >= s.count {
		return RoleNone
	}
	if i == s.active {
		return Center
	}
	// With two items the neighbour is both left and right; the last
	// direction decides which slot it takes.
	if s.count == 2 {
		if s.direction == Backward {
			return Left
		}
		return Right
	}
	switch o := s.Offset(i); {
	case o == -1:
		return Left
	case o == 1:
		return Right
	case o < 0:
		return HiddenLeft
	default:
		return HiddenRight
	}
}

// Roles returns the role of every item in one pass
func (s *State) Roles() []Role {
	roles := make([]Role, s.count)
	for i := range roles {
		roles[i] = s.RoleOf(i)
	}
	return roles
}
