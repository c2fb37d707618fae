package gamedata

// Point is a field position in grid units (1 unit = 24 inches).
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// CheckpointDef ties a designated command to the field position the flight
// guide must occupy when that command executes.
type CheckpointDef struct {
	CommandID int     `json:"commandId"`
	Name      string  `json:"name"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Tolerance float64 `json:"tolerance"` // Radius in grid units
}

// Target returns the checkpoint position.
func (c *CheckpointDef) Target() Point {
	return Point{X: c.X, Y: c.Y}
}

// MarkerDef is a named field marker with a tolerance radius.
type MarkerDef struct {
	Name      string  `json:"name"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Tolerance float64 `json:"tolerance"`
}

// Target returns the marker position.
func (m *MarkerDef) Target() Point {
	return Point{X: m.X, Y: m.Y}
}

// CourseDef describes the drill pad: its size, where the flight forms, where
// it must finish, and the crossover checkpoints.
type CourseDef struct {
	Width       int             `json:"width"`
	Height      int             `json:"height"`
	Start       Point           `json:"start"`
	Final       MarkerDef       `json:"final"`
	Evaluator   Point           `json:"evaluator"`
	Checkpoints []CheckpointDef `json:"checkpoints"`
}

// Checkpoint returns the checkpoint designated for a command, or nil.
func (c *CourseDef) Checkpoint(commandID int) *CheckpointDef {
	for i := range c.Checkpoints {
		if c.Checkpoints[i].CommandID == commandID {
			return &c.Checkpoints[i]
		}
	}
	return nil
}

// CheckpointIDs returns the designated checkpoint command ids in file order.
func (c *CourseDef) CheckpointIDs() []int {
	ids := make([]int, 0, len(c.Checkpoints))
	for _, cp := range c.Checkpoints {
		ids = append(ids, cp.CommandID)
	}
	return ids
}

// LoadCourse loads the course layout from the embedded course.json file.
func LoadCourse() (*CourseDef, error) {
	course, err := Load[CourseDef]("course.json")
	if err != nil {
		return nil, err
	}
	return &course, nil
}

// MustLoadCourse loads the course layout, panicking on error.
func MustLoadCourse() *CourseDef {
	course, err := LoadCourse()
	if err != nil {
		panic(err)
	}
	return course
}
