package drill

import (
	"errors"
	"fmt"
	"time"

	"github.com/samdwyer/drillsim/internal/entity"
	"github.com/samdwyer/drillsim/internal/gamedata"
)

var (
	// ErrUnknownCommand is returned for a command id the catalog does not hold.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrInvalidTransition is returned when a command cannot be given from
	// the current drill state.
	ErrInvalidTransition = errors.New("invalid transition")
)

// Pending is a scheduled follow-up transition. It resolves once the
// machine's elapsed time reaches ReadyAt.
type Pending struct {
	Target  State
	ReadyAt time.Duration
}

// Result describes one applied command.
type Result struct {
	CommandID int
	Name      string
	Maneuver  gamedata.Maneuver
	From      State
	To        State
	Pending   *Pending
}

// UpdateResult reports what one Update did.
type UpdateResult struct {
	Resolved      bool // a pending transition completed
	Moved         bool
	RightStepDone bool
}

// Snapshot is a read-only view of the formation for rendering.
type Snapshot struct {
	State       State
	Shape       entity.Shape
	Facing      entity.Facing
	Moving      bool
	RankSpacing float64
	FileSpacing float64
	Position    entity.Point
	Posture     entity.Posture
	Members     []entity.Cadet
	Pending     *Pending
	RightSteps  int // right steps taken, while one is in progress
}

// Machine owns the drill state of one flight. A command either fully
// applies or leaves the state, the pending transition and the flight
// untouched.
type Machine struct {
	catalog      *gamedata.CommandCatalog
	flight       *entity.Flight
	stepDuration time.Duration

	state   State
	pending *Pending
	elapsed time.Duration
}

// New creates a machine in StateNone. stepDuration is the length of one
// right step, normally the cadence period.
func New(catalog *gamedata.CommandCatalog, flight *entity.Flight, stepDuration time.Duration) *Machine {
	return &Machine{
		catalog:      catalog,
		flight:       flight,
		stepDuration: stepDuration,
	}
}

// State returns the current drill state.
func (m *Machine) State() State {
	return m.state
}

// Pending returns a copy of the scheduled follow-up transition, or nil.
func (m *Machine) Pending() *Pending {
	if m.pending == nil {
		return nil
	}
	p := *m.pending
	return &p
}

// Flight returns the flight driven by the machine.
func (m *Machine) Flight() *entity.Flight {
	return m.flight
}

// Form moves an unformed flight to StateForming, ready to fall in.
func (m *Machine) Form() error {
	if m.state != StateNone {
		return fmt.Errorf("%w: form from %s", ErrInvalidTransition, m.state)
	}
	m.state = StateForming
	return nil
}

// Allowed reports whether the command could be applied now.
func (m *Machine) Allowed(commandID int) bool {
	cmd, err := m.catalog.Lookup(commandID)
	if err != nil {
		return false
	}
	rule, ok := RuleFor(cmd.Maneuver)
	if !ok {
		return false
	}
	_, ok = rule.Match(m.state)
	return ok
}

// Apply gives the command with the given id. On success the flight
// operation runs, the state moves and any earlier pending transition is
// replaced by the one this command schedules (or cleared).
func (m *Machine) Apply(commandID int) (Result, error) {
	cmd, err := m.catalog.Lookup(commandID)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %d", ErrUnknownCommand, commandID)
	}

	rule, ok := RuleFor(cmd.Maneuver)
	if !ok {
		return Result{}, fmt.Errorf("%w: %q has no maneuver %q", ErrInvalidTransition, cmd.Name, cmd.Maneuver)
	}
	arm, ok := rule.Match(m.state)
	if !ok {
		return Result{}, fmt.Errorf("%w: %q from %s", ErrInvalidTransition, cmd.Name, m.state)
	}

	result := Result{
		CommandID: cmd.ID,
		Name:      cmd.Name,
		Maneuver:  cmd.Maneuver,
		From:      m.state,
		To:        m.state,
	}

	rule.Op(m.flight, m.stepDuration)

	if !arm.Stay {
		m.state = arm.To
		m.pending = nil
		if arm.Settle > 0 {
			m.pending = &Pending{Target: arm.Then, ReadyAt: m.elapsed + arm.Settle}
		}
	}
	result.To = m.state
	result.Pending = m.Pending()
	return result, nil
}

// Update advances time by dt: a due pending transition resolves, then the
// flight moves. A guard refusal is returned unchanged with the flight held
// in place; the drill state is unaffected by it.
func (m *Machine) Update(dt time.Duration, guard entity.Guard) (UpdateResult, error) {
	var result UpdateResult
	if dt <= 0 {
		return result, nil
	}
	m.elapsed += dt

	if m.pending != nil && m.elapsed >= m.pending.ReadyAt {
		m.state = m.pending.Target
		m.pending = nil
		result.Resolved = true
	}

	moved, err := m.flight.Update(dt, guard)
	result.Moved = moved.Moved
	result.RightStepDone = moved.RightStepDone
	return result, err
}

// Reset returns the machine and its flight to the unformed start.
func (m *Machine) Reset() {
	m.state = StateNone
	m.pending = nil
	m.elapsed = 0
	m.flight.Reset()
}

// Snapshot returns the formation as it stands.
func (m *Machine) Snapshot() Snapshot {
	f := m.flight
	snap := Snapshot{
		State:       m.state,
		Shape:       f.Shape,
		Facing:      f.Facing,
		Moving:      f.Moving,
		RankSpacing: f.RankSpacing,
		FileSpacing: f.FileSpacing,
		Position:    f.Position,
		Posture:     f.Posture,
		Members:     f.Members(),
		Pending:     m.Pending(),
	}
	if rs := f.ActiveRightStep(); rs != nil {
		snap.RightSteps = rs.StepsTaken()
	}
	return snap
}
