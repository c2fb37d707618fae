package entity

// Cadet is one member of the flight. Its position and facing are derived
// from the flight state and never set directly.
type Cadet struct {
	Rank     int
	File     int
	Position Point
	Facing   Facing
}

// IsGuide reports whether the cadet is the flight's reference member
// (first rank, centre file).
func (c Cadet) IsGuide() bool {
	return c.Rank == GuideRank && c.File == GuideFile
}
