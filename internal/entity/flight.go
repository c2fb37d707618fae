package entity

import (
	"fmt"
	"time"
)

// Flight dimensions and drill distances. One grid unit is 24 inches.
const (
	Ranks = 4
	Files = 3

	GuideRank = 0
	GuideFile = 1

	InchesPerUnit   = 24.0
	CloseInterval   = 40.0 / InchesPerUnit // normal rank and file spacing
	OpenInterval    = 64.0 / InchesPerUnit // rank spacing at open ranks
	MarchSpeed      = 2.0                  // units per second
	RightStepLength = 12.0 / InchesPerUnit // one right step
	RightStepCount  = 5
)

// Guard validates the cadet positions a move would produce. It returns a
// non-nil error to refuse the move.
type Guard interface {
	Check(points []Point) error
}

// Posture holds the visual-only state of the flight.
type Posture struct {
	EyesRight   bool
	PresentArms bool
	ParadeRest  bool
	StepChanges int
}

// RightStep tracks an in-flight right step. It spans many update ticks.
type RightStep struct {
	OriginalFacing Facing
	StepDuration   time.Duration
	MaxSteps       int
	elapsed        time.Duration
}

// StepsTaken returns the number of whole steps completed so far.
func (r *RightStep) StepsTaken() int {
	if r.StepDuration <= 0 {
		return r.MaxSteps
	}
	return int(r.elapsed / r.StepDuration)
}

func (r *RightStep) total() time.Duration {
	return r.StepDuration * time.Duration(r.MaxSteps)
}

// UpdateResult reports what happened during one Update.
type UpdateResult struct {
	Moved         bool
	RightStepDone bool
}

// Flight is the formation: shape, facing, spacing, origin and the cadets
// laid out from them. All mutation goes through the maneuver methods and
// Update; every method re-derives the cadet layout.
type Flight struct {
	Shape       Shape
	Facing      Facing
	Moving      bool
	RankSpacing float64
	FileSpacing float64
	Position    Point   // origin: the guide's spot in line formation
	Speed       float64 // units per second
	Posture     Posture

	start     Point
	rightStep *RightStep
	cadets    []Cadet
}

// NewFlight creates an unformed flight that will fall in at start.
func NewFlight(start Point) *Flight {
	f := &Flight{start: start}
	f.Reset()
	return f
}

// Reset returns the flight to its unformed starting state and abandons any
// in-flight right step.
func (f *Flight) Reset() {
	f.Shape = ShapeNone
	f.Facing = FacingUp
	f.Moving = false
	f.RankSpacing = CloseInterval
	f.FileSpacing = CloseInterval
	f.Position = f.start
	f.Speed = MarchSpeed
	f.Posture = Posture{}
	f.rightStep = nil
	f.cadets = nil
}

// Formed reports whether the flight has fallen in.
func (f *Flight) Formed() bool {
	return f.Shape != ShapeNone
}

// FallIn forms the flight in line at its current position and facing.
func (f *Flight) FallIn() {
	f.Shape = ShapeLine
	f.Moving = false
	f.Posture = Posture{}
	f.relayout()
}

// OpenRanks sets the rank spacing to the open interval.
func (f *Flight) OpenRanks() {
	f.RankSpacing = OpenInterval
	f.relayout()
}

// CloseRanks sets the rank spacing back to the normal interval.
func (f *Flight) CloseRanks() {
	f.RankSpacing = CloseInterval
	f.relayout()
}

// LeftFace turns the flight 90° left; line and column swap.
func (f *Flight) LeftFace() {
	f.Facing = f.Facing.Rotate(-1)
	f.toggleShape()
	f.relayout()
}

// RightFace turns the flight 90° right; line and column swap.
func (f *Flight) RightFace() {
	f.Facing = f.Facing.Rotate(1)
	f.toggleShape()
	f.relayout()
}

// AboutFace turns the flight 180°. The shape is kept.
func (f *Flight) AboutFace() {
	f.Facing = f.Facing.Rotate(2)
	f.relayout()
}

// Forward starts the flight marching along its facing.
func (f *Flight) Forward() {
	f.Moving = true
	f.Posture.ParadeRest = false
	f.Posture.PresentArms = false
}

// Halt stops the flight. An unfinished right step is abandoned and the
// original facing restored.
func (f *Flight) Halt() {
	if f.rightStep != nil {
		f.Facing = f.rightStep.OriginalFacing
		f.rightStep = nil
	}
	f.Moving = false
	f.Posture.EyesRight = false
	f.relayout()
}

// RightFlank turns the marching flight 90° right without changing shape.
func (f *Flight) RightFlank() {
	f.Facing = f.Facing.Rotate(1)
	f.relayout()
}

// LeftFlank turns the marching flight 90° left without changing shape.
func (f *Flight) LeftFlank() {
	f.Facing = f.Facing.Rotate(-1)
	f.relayout()
}

// ColumnRight wheels the marching flight right and forces column shape.
func (f *Flight) ColumnRight() {
	f.Facing = f.Facing.Rotate(1)
	f.Shape = ShapeColumn
	f.relayout()
}

// ColumnLeft wheels the marching flight left and forces column shape.
func (f *Flight) ColumnLeft() {
	f.Facing = f.Facing.Rotate(-1)
	f.Shape = ShapeColumn
	f.relayout()
}

// ToTheRear reverses the marching flight. The shape is kept.
func (f *Flight) ToTheRear() {
	f.Facing = f.Facing.Rotate(2)
	f.relayout()
}

// RightStep starts a bounded lateral maneuver: the flight turns right and
// moves one right-step length per stepDuration for RightStepCount steps,
// then restores its facing and stops. Progress is made by Update.
func (f *Flight) RightStep(stepDuration time.Duration) {
	original := f.Facing
	if f.rightStep != nil {
		original = f.rightStep.OriginalFacing
	}
	f.rightStep = &RightStep{
		OriginalFacing: original,
		StepDuration:   stepDuration,
		MaxSteps:       RightStepCount,
	}
	f.Facing = original.Rotate(1)
	f.Moving = true
	f.relayout()
}

// ActiveRightStep returns the in-flight right step, or nil.
func (f *Flight) ActiveRightStep() *RightStep {
	return f.rightStep
}

// SetEyesRight turns heads right (true) or back to the front (false).
func (f *Flight) SetEyesRight(on bool) {
	f.Posture.EyesRight = on
}

// SetPresentArms raises (true) or orders (false) the salute.
func (f *Flight) SetPresentArms(on bool) {
	f.Posture.PresentArms = on
}

// SetParadeRest moves to parade rest (true) or attention (false).
func (f *Flight) SetParadeRest(on bool) {
	f.Posture.ParadeRest = on
}

// ChangeStep records a change of step while marching.
func (f *Flight) ChangeStep() {
	f.Posture.StepChanges++
}

// Update advances the flight by dt: an in-flight right step progresses and a
// moving flight advances along its facing. When guard refuses the resulting
// positions nothing changes and the guard's error is returned.
func (f *Flight) Update(dt time.Duration, guard Guard) (UpdateResult, error) {
	var result UpdateResult
	if !f.Formed() || dt <= 0 {
		return result, nil
	}

	if rs := f.rightStep; rs != nil {
		step := dt
		if remaining := rs.total() - rs.elapsed; step > remaining {
			step = remaining
		}
		speed := 0.0
		if rs.StepDuration > 0 {
			speed = RightStepLength / rs.StepDuration.Seconds()
		}
		next := f.advance(speed * step.Seconds())
		if err := f.check(next, guard); err != nil {
			return result, err
		}
		f.Position = next
		rs.elapsed += step
		result.Moved = step > 0
		if rs.elapsed >= rs.total() {
			f.Facing = rs.OriginalFacing
			f.Moving = false
			f.rightStep = nil
			result.RightStepDone = true
		}
		f.relayout()
		return result, nil
	}

	if !f.Moving {
		return result, nil
	}

	next := f.advance(f.Speed * dt.Seconds())
	if err := f.check(next, guard); err != nil {
		return result, err
	}
	f.Position = next
	f.relayout()
	result.Moved = true
	return result, nil
}

func (f *Flight) advance(distance float64) Point {
	v := f.Facing.Vector()
	return Point{X: f.Position.X + v.X*distance, Y: f.Position.Y + v.Y*distance}
}

func (f *Flight) check(origin Point, guard Guard) error {
	if guard == nil {
		return nil
	}
	points := make([]Point, 0, Ranks*Files)
	for _, c := range f.layoutAt(origin) {
		points = append(points, c.Position)
	}
	if err := guard.Check(points); err != nil {
		return fmt.Errorf("flight blocked at (%.2f,%.2f): %w", origin.X, origin.Y, err)
	}
	return nil
}

func (f *Flight) toggleShape() {
	switch f.Shape {
	case ShapeLine:
		f.Shape = ShapeColumn
	case ShapeColumn:
		f.Shape = ShapeLine
	}
}

func (f *Flight) relayout() {
	f.cadets = f.layoutAt(f.Position)
}

// layoutAt derives every cadet from the flight state with the given origin.
// In line the rank index sets depth behind the front and the file index the
// lateral offset; in column the two swap. Offsets are centred laterally so the
// guide of a line sits on the origin.
func (f *Flight) layoutAt(origin Point) []Cadet {
	if !f.Formed() {
		return nil
	}

	fwd := f.Facing.Vector()
	right := f.Facing.Rotate(1).Vector()

	cadets := make([]Cadet, 0, Ranks*Files)
	for rank := 0; rank < Ranks; rank++ {
		for file := 0; file < Files; file++ {
			var depth, lateral float64
			if f.Shape == ShapeColumn {
				depth = float64(file) * f.FileSpacing
				lateral = (float64(rank) - float64(Ranks-1)/2) * f.RankSpacing
			} else {
				depth = float64(rank) * f.RankSpacing
				lateral = (float64(file) - float64(Files-1)/2) * f.FileSpacing
			}
			cadets = append(cadets, Cadet{
				Rank: rank,
				File: file,
				Position: Point{
					X: origin.X - fwd.X*depth + right.X*lateral,
					Y: origin.Y - fwd.Y*depth + right.Y*lateral,
				},
				Facing: f.Facing,
			})
		}
	}
	return cadets
}

// Members returns a copy of the current cadet layout; empty before fall in.
func (f *Flight) Members() []Cadet {
	out := make([]Cadet, len(f.cadets))
	copy(out, f.cadets)
	return out
}

// Guide returns the guide cadet. ok is false before the flight falls in.
func (f *Flight) Guide() (Cadet, bool) {
	for _, c := range f.cadets {
		if c.IsGuide() {
			return c, true
		}
	}
	return Cadet{}, false
}

// Reached reports whether the guide is within tolerance of target.
func (f *Flight) Reached(target Point, tolerance float64) bool {
	guide, ok := f.Guide()
	if !ok {
		return false
	}
	return Distance(guide.Position, target) <= tolerance
}
