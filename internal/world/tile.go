// Package world provides the drill field: its tiles, markers and the
// obstacles a marching flight must not run into.
package world

// Tile represents a single field tile.
type Tile rune

const (
	// TileBoundary is the impassable edge of the drill pad.
	TileBoundary Tile = '#'
	// TileGround is open drill pad.
	TileGround Tile = '.'
	// TileMarker marks a checkpoint or the final position. It is passable.
	TileMarker Tile = '+'
	// TileStart marks where the flight forms.
	TileStart Tile = 'o'
)

// IsPassable returns true if a cadet may stand on the tile.
func (t Tile) IsPassable() bool {
	return t != TileBoundary
}

// Rune returns the tile's display character.
func (t Tile) Rune() rune {
	return rune(t)
}
