// Package animator maps carousel roles to visual transforms and plans the
// motion between them.
//
// The role table is plain data. Renderers sample transforms from an
// Animator and decide themselves how to draw position, depth, scale,
// opacity, rotation and blur.
package animator

import (
	"errors"
	"fmt"

	"showreel/internal/carousel"
)

// Transform is the visual target for one item. X is measured in card
// widths from the stage center; Rotate is a Y-axis tilt in degrees.
type Transform struct {
	X       float64 `json:"x"`
	Scale   float64 `json:"scale"`
	Opacity float64 `json:"opacity"`
	Z       int     `json:"z"`
	Rotate  float64 `json:"rotate"`
	Blur    float64 `json:"blur"`
}

// Lerp interpolates towards to. Z snaps at the halfway point.
func (a Transform) Lerp(to Transform, t float64) Transform {
	t = clamp01(t)
	if t == 1 {
		return to
	}
	z := a.Z
	if t >= 0.5 {
		z = to.Z
	}
	return Transform{
		X:       lerp(a.X, to.X, t),
		Scale:   lerp(a.Scale, to.Scale, t),
		Opacity: lerp(a.Opacity, to.Opacity, t),
		Z:       z,
		Rotate:  lerp(a.Rotate, to.Rotate, t),
		Blur:    lerp(a.Blur, to.Blur, t),
	}
}

// Table maps each role to its resting transform
type Table map[carousel.Role]Transform

// DefaultTable returns the reference transforms
func DefaultTable() Table {
	return Table{
		carousel.Center:      {X: 0, Scale: 1, Opacity: 1, Z: 3, Rotate: 0, Blur: 0},
		carousel.Left:        {X: -0.6, Scale: 0.75, Opacity: 0.6, Z: 2, Rotate: 25, Blur: 2},
		carousel.Right:       {X: 0.6, Scale: 0.75, Opacity: 0.6, Z: 2, Rotate: -25, Blur: 2},
		carousel.HiddenLeft:  {X: -1.1, Scale: 0.55, Opacity: 0, Z: 1, Rotate: 45, Blur: 4},
		carousel.HiddenRight: {X: 1.1, Scale: 0.55, Opacity: 0, Z: 1, Rotate: -45, Blur: 4},
	}
}

// Of returns the transform for a role; RoleNone maps to an invisible center
func (tb Table) Of(r carousel.Role) Transform {
	if t, ok := tb[r]; ok {
		return t
	}
	return Transform{Scale: 0.55}
}

// EntryOrigin is where an item gaining the center slot starts from:
// the right slot when moving forward, the left slot when moving backward,
// fully transparent.
func (tb Table) EntryOrigin(dir carousel.Direction) Transform {
	side := tb.Of(carousel.Right)
	if dir == carousel.Backward {
		side = tb.Of(carousel.Left)
	}
	side.Opacity = 0
	return side
}

var errTable = errors.New("animator: invalid role table")

// Validate checks the ordering contract between roles: only the center
// item is opaque and topmost, side slots sit between center and hidden,
// and left/right are mirror images.
func (tb Table) Validate() error {
	roles := []carousel.Role{carousel.Center, carousel.Left, carousel.Right, carousel.HiddenLeft, carousel.HiddenRight}
	for _, r := range roles {
		if _, ok := tb[r]; !ok {
			return fmt.Errorf("%w: missing role %s", errTable, r)
		}
	}
	c, l, r := tb[carousel.Center], tb[carousel.Left], tb[carousel.Right]
	hl, hr := tb[carousel.HiddenLeft], tb[carousel.HiddenRight]

	if c.Opacity != 1 || c.Scale != 1 || c.X != 0 {
		return fmt.Errorf("%w: center must be unscaled, opaque and centered", errTable)
	}
	for _, side := range []Transform{l, r} {
		if side.Z >= c.Z || side.Opacity >= c.Opacity || side.Scale >= c.Scale {
			return fmt.Errorf("%w: side slots must sit below center", errTable)
		}
	}
	for _, hidden := range []Transform{hl, hr} {
		if hidden.Opacity != 0 || hidden.Z >= l.Z || hidden.Scale >= l.Scale {
			return fmt.Errorf("%w: hidden slots must be transparent and below the sides", errTable)
		}
	}
	if l.X >= 0 || hl.X >= l.X || r.X <= 0 || hr.X <= r.X {
		return fmt.Errorf("%w: horizontal order must be hidden-left < left < center < right < hidden-right", errTable)
	}
	if l.X != -r.X || l.Rotate != -r.Rotate || hl.X != -hr.X || hl.Rotate != -hr.Rotate {
		return fmt.Errorf("%w: left and right must mirror each other", errTable)
	}
	if l.Rotate <= 0 || hl.Rotate <= l.Rotate {
		return fmt.Errorf("%w: tilt must grow away from center", errTable)
	}
	return nil
}
