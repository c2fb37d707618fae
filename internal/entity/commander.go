package entity

// commanderPost is how far in front of the guide the commander stands.
const commanderPost = 3.0

// Commander is the player's avatar. It holds a post in front of the flight,
// facing it.
type Commander struct {
	Position Point
	Facing   Facing
	Symbol   rune
}

// NewCommander creates a commander at the given position.
func NewCommander(pos Point) *Commander {
	return &Commander{
		Position: pos,
		Facing:   FacingDown,
		Symbol:   'C',
	}
}

// TakePost moves the commander to its post in front of the flight guide.
// An unformed flight leaves the commander where it is.
func (c *Commander) TakePost(f *Flight) {
	guide, ok := f.Guide()
	if !ok {
		return
	}
	v := f.Facing.Vector()
	c.Position = Point{
		X: guide.Position.X + v.X*commanderPost,
		Y: guide.Position.Y + v.Y*commanderPost,
	}
	c.Facing = f.Facing.Rotate(2)
}
