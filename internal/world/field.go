package world

import (
	"context"
	"errors"
	"fmt"
	"math"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/drillsim/internal/gamedata"
	"github.com/samdwyer/drillsim/internal/telemetry"
)

const (
	// Default field dimensions
	DefaultWidth  = 60
	DefaultHeight = 52

	// EvaluatorRadius is the clearance cadets must keep from the evaluator.
	EvaluatorRadius = 1.0
)

// ErrCollision is returned when a move would leave the field or run into
// an obstacle.
var ErrCollision = errors.New("collision")

// CollisionError describes what a refused move ran into.
type CollisionError struct {
	What string
	At   gamedata.Point
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("collision: %s at (%.1f,%.1f)", e.What, e.At.X, e.At.Y)
}

// Is makes errors.Is(err, ErrCollision) match.
func (e *CollisionError) Is(target error) bool {
	return target == ErrCollision
}

// Field represents the drill pad.
type Field struct {
	Width     int
	Height    int
	Tiles     [][]Tile
	Markers   []Marker
	Obstacles []Obstacle
}

// NewField creates an empty field ringed by boundary tiles.
func NewField(width, height int) *Field {
	tiles := make([][]Tile, height)
	for y := range tiles {
		tiles[y] = make([]Tile, width)
		for x := range tiles[y] {
			if x == 0 || y == 0 || x == width-1 || y == height-1 {
				tiles[y][x] = TileBoundary
			} else {
				tiles[y][x] = TileGround
			}
		}
	}

	return &Field{
		Width:  width,
		Height: height,
		Tiles:  tiles,
	}
}

// Build creates the field layout for a course: start, checkpoint and final
// markers plus the evaluator obstacle.
func Build(ctx context.Context, course *gamedata.CourseDef) *Field {
	tracer := telemetry.Tracer("world")
	_, span := tracer.Start(ctx, "field.build")
	defer span.End()

	width, height := course.Width, course.Height
	if width <= 2 || height <= 2 {
		width, height = DefaultWidth, DefaultHeight
	}
	f := NewField(width, height)

	f.addMarker(Marker{Kind: MarkerStart, Name: "Start", CommandID: -1, Position: course.Start}, TileStart)
	for _, cp := range course.Checkpoints {
		f.addMarker(Marker{
			Kind:      MarkerCheckpoint,
			Name:      cp.Name,
			CommandID: cp.CommandID,
			Position:  cp.Target(),
			Tolerance: cp.Tolerance,
		}, TileMarker)
	}
	f.addMarker(Marker{
		Kind:      MarkerFinal,
		Name:      course.Final.Name,
		CommandID: -1,
		Position:  course.Final.Target(),
		Tolerance: course.Final.Tolerance,
	}, TileMarker)

	f.Obstacles = append(f.Obstacles, Obstacle{Name: "evaluator", Position: course.Evaluator, Radius: EvaluatorRadius})

	span.SetAttributes(
		attribute.Int("field.width", f.Width),
		attribute.Int("field.height", f.Height),
		attribute.Int("field.markers", len(f.Markers)),
		attribute.Int("field.obstacles", len(f.Obstacles)),
	)
	return f
}

func (f *Field) addMarker(m Marker, tile Tile) {
	f.Markers = append(f.Markers, m)
	x, y := cell(m.Position)
	if f.inBounds(x, y) && f.Tiles[y][x] != TileBoundary {
		f.Tiles[y][x] = tile
	}
}

func cell(p gamedata.Point) (int, int) {
	return int(math.Floor(p.X)), int(math.Floor(p.Y))
}

func (f *Field) inBounds(x, y int) bool {
	return x >= 0 && x < f.Width && y >= 0 && y < f.Height
}

// IsPassable returns true if the tile at (x, y) can be stood on.
func (f *Field) IsPassable(x, y int) bool {
	if !f.inBounds(x, y) {
		return false
	}
	return f.Tiles[y][x].IsPassable()
}

// GetTile returns the tile at (x, y), or TileBoundary if out of bounds.
func (f *Field) GetTile(x, y int) Tile {
	if !f.inBounds(x, y) {
		return TileBoundary
	}
	return f.Tiles[y][x]
}

// Check refuses a set of cadet positions when any of them is off the
// passable field or inside an obstacle. The returned error is a
// *CollisionError.
func (f *Field) Check(points []gamedata.Point) error {
	for _, p := range points {
		x, y := cell(p)
		if !f.IsPassable(x, y) {
			return &CollisionError{What: "field boundary", At: p}
		}
		for _, o := range f.Obstacles {
			if o.Blocks(p) {
				return &CollisionError{What: o.Name, At: p}
			}
		}
	}
	return nil
}

// Checkpoint returns the marker of a checkpoint command.
func (f *Field) Checkpoint(commandID int) (Marker, bool) {
	for _, m := range f.Markers {
		if m.Kind == MarkerCheckpoint && m.CommandID == commandID {
			return m, true
		}
	}
	return Marker{}, false
}

// Final returns the final position marker.
func (f *Field) Final() (Marker, bool) {
	for _, m := range f.Markers {
		if m.Kind == MarkerFinal {
			return m, true
		}
	}
	return Marker{}, false
}
