package drill

import (
	"time"

	"github.com/samdwyer/drillsim/internal/entity"
	"github.com/samdwyer/drillsim/internal/gamedata"
)

// Settle delays: how long an intermediate maneuver state lasts before it
// resolves to its follow-up state.
const (
	FaceSettle   = time.Second
	FlankSettle  = 500 * time.Millisecond
	ColumnSettle = time.Second
)

// Transition is one arm of a rule: the states a maneuver may be given from,
// the state it moves to, and an optional follow-up state reached after
// Settle. A Stay arm validates the source state but leaves it unchanged.
type Transition struct {
	From   []State
	To     State
	Then   State
	Settle time.Duration
	Stay   bool
}

func (t Transition) allows(s State) bool {
	for _, from := range t.From {
		if from == s {
			return true
		}
	}
	return false
}

// Rule pairs a maneuver's transition arms with the flight operation it
// performs. The first arm whose From set holds the current state applies.
type Rule struct {
	Arms []Transition
	Op   func(f *entity.Flight, step time.Duration)
}

// Match returns the arm that applies from s.
func (r Rule) Match(s State) (Transition, bool) {
	for _, arm := range r.Arms {
		if arm.allows(s) {
			return arm, true
		}
	}
	return Transition{}, false
}

var (
	haltedFormed   = []State{StateHaltedAtAttention, StateHaltedInFormation}
	steadyMarching = []State{StateMarchingForward, StateMarchingOther}
	anyMarching    = []State{StateMarchingForward, StateMarchingOther, StateColumnMovement, StateFlanking}
)

func union(sets ...[]State) []State {
	var out []State
	for _, set := range sets {
		out = append(out, set...)
	}
	return out
}

func face(op func(f *entity.Flight)) Rule {
	return Rule{
		Arms: []Transition{{From: haltedFormed, To: StateFacing, Then: StateHaltedAtAttention, Settle: FaceSettle}},
		Op:   func(f *entity.Flight, _ time.Duration) { op(f) },
	}
}

func flank(op func(f *entity.Flight)) Rule {
	return Rule{
		Arms: []Transition{{From: steadyMarching, To: StateFlanking, Then: StateMarchingForward, Settle: FlankSettle}},
		Op:   func(f *entity.Flight, _ time.Duration) { op(f) },
	}
}

func column(op func(f *entity.Flight)) Rule {
	return Rule{
		Arms: []Transition{{From: steadyMarching, To: StateColumnMovement, Then: StateMarchingForward, Settle: ColumnSettle}},
		Op:   func(f *entity.Flight, _ time.Duration) { op(f) },
	}
}

func simple(arms []Transition, op func(f *entity.Flight)) Rule {
	return Rule{Arms: arms, Op: func(f *entity.Flight, _ time.Duration) { op(f) }}
}

// rules is the transition table. Maneuvers missing from it, and states
// missing from a rule's arms, are invalid transitions.
var rules = map[gamedata.Maneuver]Rule{
	gamedata.ManeuverFallIn: simple(
		[]Transition{{From: []State{StateNone, StateForming}, To: StateHaltedInFormation}},
		(*entity.Flight).FallIn,
	),
	gamedata.ManeuverOpenRanks: simple(
		[]Transition{{From: haltedFormed, To: StateHaltedInFormation}},
		(*entity.Flight).OpenRanks,
	),
	gamedata.ManeuverCloseRanks: simple(
		[]Transition{{From: haltedFormed, To: StateHaltedInFormation}},
		(*entity.Flight).CloseRanks,
	),
	gamedata.ManeuverReadyFront: simple(
		[]Transition{
			{From: haltedFormed, To: StateHaltedInFormation},
			{From: []State{StateMarchingOther}, To: StateMarchingForward},
		},
		func(f *entity.Flight) { f.SetEyesRight(false) },
	),
	gamedata.ManeuverPresentArms: simple(
		[]Transition{{From: haltedFormed, Stay: true}},
		func(f *entity.Flight) { f.SetPresentArms(true) },
	),
	gamedata.ManeuverOrderArms: simple(
		[]Transition{{From: haltedFormed, Stay: true}},
		func(f *entity.Flight) { f.SetPresentArms(false) },
	),
	gamedata.ManeuverParadeRest: simple(
		[]Transition{{From: haltedFormed, To: StateHaltedAtRest}},
		func(f *entity.Flight) { f.SetParadeRest(true) },
	),
	gamedata.ManeuverAttention: simple(
		[]Transition{{From: union(haltedFormed, []State{StateHaltedAtRest}), To: StateHaltedAtAttention}},
		func(f *entity.Flight) { f.SetParadeRest(false) },
	),
	gamedata.ManeuverLeftFace:  face((*entity.Flight).LeftFace),
	gamedata.ManeuverRightFace: face((*entity.Flight).RightFace),
	gamedata.ManeuverAboutFace: face((*entity.Flight).AboutFace),
	gamedata.ManeuverForward: simple(
		[]Transition{{From: union(haltedFormed, anyMarching), To: StateMarchingForward}},
		(*entity.Flight).Forward,
	),
	gamedata.ManeuverHalt: simple(
		[]Transition{{From: anyMarching, To: StateHaltedAtAttention}},
		(*entity.Flight).Halt,
	),
	gamedata.ManeuverRightFlank:  flank((*entity.Flight).RightFlank),
	gamedata.ManeuverLeftFlank:   flank((*entity.Flight).LeftFlank),
	gamedata.ManeuverColumnRight: column((*entity.Flight).ColumnRight),
	gamedata.ManeuverColumnLeft:  column((*entity.Flight).ColumnLeft),
	gamedata.ManeuverToTheRear: simple(
		[]Transition{{From: steadyMarching, To: StateMarchingOther}},
		(*entity.Flight).ToTheRear,
	),
	gamedata.ManeuverEyesRight: simple(
		[]Transition{{From: []State{StateMarchingForward}, To: StateMarchingOther}},
		func(f *entity.Flight) { f.SetEyesRight(true) },
	),
	gamedata.ManeuverChangeStep: simple(
		[]Transition{{From: steadyMarching, Stay: true}},
		(*entity.Flight).ChangeStep,
	),
	gamedata.ManeuverRightStep: {
		Arms: []Transition{{From: haltedFormed, To: StateMarchingOther}},
		Op:   (*entity.Flight).RightStep,
	},
}

// RuleFor returns the table rule for a maneuver.
func RuleFor(m gamedata.Maneuver) (Rule, bool) {
	rule, ok := rules[m]
	return rule, ok
}

// Maneuvers returns every maneuver in the table.
func Maneuvers() []gamedata.Maneuver {
	out := make([]gamedata.Maneuver, 0, len(rules))
	for m := range rules {
		out = append(out, m)
	}
	return out
}
