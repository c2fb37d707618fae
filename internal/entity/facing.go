// Package entity provides the drill entities: the flight of cadets, the
// commander and the evaluator.
package entity

import (
	"math"

	"github.com/samdwyer/drillsim/internal/gamedata"
)

// Point is a field position in grid units. Y grows towards the bottom of
// the field.
type Point = gamedata.Point

// Distance returns the euclidean distance between two points.
func Distance(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// Facing is one of the four discrete directions a flight can face.
type Facing int

const (
	FacingUp Facing = iota
	FacingRight
	FacingDown
	FacingLeft
)

// String returns a human-readable direction name.
func (f Facing) String() string {
	switch f {
	case FacingUp:
		return "up"
	case FacingRight:
		return "right"
	case FacingDown:
		return "down"
	case FacingLeft:
		return "left"
	default:
		return "unknown"
	}
}

// Rotate turns the facing by quarter turns; positive is clockwise.
func (f Facing) Rotate(quarters int) Facing {
	return Facing(((int(f)+quarters)%4 + 4) % 4)
}

// Vector returns the unit step for the facing.
func (f Facing) Vector() Point {
	switch f {
	case FacingRight:
		return Point{X: 1}
	case FacingDown:
		return Point{Y: 1}
	case FacingLeft:
		return Point{X: -1}
	default:
		return Point{Y: -1}
	}
}

// Shape is the arrangement of the flight relative to its facing.
type Shape int

const (
	ShapeNone   Shape = iota // not yet fallen in
	ShapeLine                // ranks side by side, perpendicular to facing
	ShapeColumn              // files one behind another along facing
)

// String returns a human-readable shape name.
func (s Shape) String() string {
	switch s {
	case ShapeNone:
		return "none"
	case ShapeLine:
		return "line"
	case ShapeColumn:
		return "column"
	default:
		return "unknown"
	}
}
