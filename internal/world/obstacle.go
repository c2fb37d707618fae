package world

import "github.com/samdwyer/drillsim/internal/gamedata"

// Obstacle is an entity standing on the field. No cadet may come within
// Radius of it.
type Obstacle struct {
	Name     string
	Position gamedata.Point
	Radius   float64
}

// Blocks returns true if p is inside the obstacle's radius.
func (o Obstacle) Blocks(p gamedata.Point) bool {
	dx, dy := p.X-o.Position.X, p.Y-o.Position.Y
	return dx*dx+dy*dy < o.Radius*o.Radius
}

// MarkerKind identifies what a marker stands for.
type MarkerKind int

const (
	MarkerStart MarkerKind = iota
	MarkerCheckpoint
	MarkerFinal
)

// String returns a human-readable marker kind.
func (k MarkerKind) String() string {
	switch k {
	case MarkerStart:
		return "start"
	case MarkerCheckpoint:
		return "checkpoint"
	case MarkerFinal:
		return "final"
	default:
		return "unknown"
	}
}

// Marker is a named target position on the field.
type Marker struct {
	Kind      MarkerKind
	Name      string
	CommandID int // checkpoint command, -1 otherwise
	Position  gamedata.Point
	Tolerance float64
}

// Reached returns true if p is within the marker's tolerance.
func (m Marker) Reached(p gamedata.Point) bool {
	dx, dy := p.X-m.Position.X, p.Y-m.Position.Y
	return dx*dx+dy*dy <= m.Tolerance*m.Tolerance
}
