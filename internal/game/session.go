package game

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/message"

	"github.com/samdwyer/drillsim/internal/drill"
	"github.com/samdwyer/drillsim/internal/entity"
	"github.com/samdwyer/drillsim/internal/gamedata"
	"github.com/samdwyer/drillsim/internal/scoring"
	"github.com/samdwyer/drillsim/internal/telemetry"
	"github.com/samdwyer/drillsim/internal/world"
)

var (
	// ErrWrongKey is returned when the key does not give the expected command.
	ErrWrongKey = errors.New("wrong command key")
	// ErrWrongState is returned when the expected command cannot be given
	// in the flight's current state.
	ErrWrongState = errors.New("wrong flight state")
	// ErrNotReportedIn is returned for commands before report-in.
	ErrNotReportedIn = errors.New("not reported in")
	// ErrSequenceComplete is returned for commands after the last one.
	ErrSequenceComplete = errors.New("drill sequence complete")
	// ErrSessionOver is returned for input after the session has ended.
	ErrSessionOver = errors.New("session over")
	// ErrNoCollision is returned by Continue when nothing is blocked.
	ErrNoCollision = errors.New("no collision pending")
)

// KeyEnter is the key that reports in and out.
const KeyEnter = "Enter"

// commanderStandoff places the commander in front of the unformed flight.
const commanderStandoff = 3.0

// KeyEvent is one key press. Key uses catalog key names ("f", "ArrowUp",
// "Enter"). Shift does not change which command a letter gives.
type KeyEvent struct {
	Key   string
	Shift bool
}

// OutcomeKind classifies what a key press did.
type OutcomeKind int

const (
	OutcomeIgnored OutcomeKind = iota
	OutcomeReportedIn
	OutcomeAccepted
	OutcomeRejected
	OutcomeReportedOut
	OutcomeRestarted
)

// String returns a human-readable outcome name.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeIgnored:
		return "ignored"
	case OutcomeReportedIn:
		return "reported_in"
	case OutcomeAccepted:
		return "accepted"
	case OutcomeRejected:
		return "rejected"
	case OutcomeReportedOut:
		return "reported_out"
	case OutcomeRestarted:
		return "restarted"
	default:
		return "unknown"
	}
}

// Outcome describes the result of one key press.
type Outcome struct {
	Kind      OutcomeKind
	CommandID int
	Timing    scoring.Timing
	Feedback  string // empty in evaluation mode for commands

	Checkpoint        bool // the command was a checkpoint
	CheckpointReached bool
}

// Options supplies a session's collaborators. Zero values load the embedded
// data and use the global telemetry providers.
type Options struct {
	Catalog *gamedata.CommandCatalog
	Course  *gamedata.CourseDef
	Logger  *log.Logger
	Tracer  trace.Tracer
	Meter   metric.Meter
	// OnBeat is called once per cadence beat while the flight marches.
	OnBeat func()
}

// Snapshot is a read-only view of the session for rendering.
type Snapshot struct {
	ID           string
	Mode         Mode
	Phase        Phase
	Formation    drill.Snapshot
	Commander    entity.Commander
	Evaluator    entity.Evaluator
	Next         int
	Expected     *gamedata.CommandDef // nil after the last command
	Ready        bool                 // the formation state admits Expected now
	Elapsed      time.Duration
	Remaining    time.Duration
	Score        int
	Breakdown    scoring.Breakdown
	ScoreCard    []string // set once the session is complete
	Checkpoints  map[int]bool
	Feedback     string
	Collision    string
	OnBeat       bool
	TimedOut     bool
	FinalReached bool
}

// Session is the drill session controller. All state changes happen in
// HandleKey, Tick, Continue and Restart, called from one goroutine.
type Session struct {
	ID string

	cfg       Config
	catalog   *gamedata.CommandCatalog
	course    *gamedata.CourseDef
	field     *world.Field
	machine   *drill.Machine
	scorer    *scoring.Scorer
	cadence   *Cadence
	commander *entity.Commander
	evaluator *entity.Evaluator
	printer   *message.Printer
	logger    *log.Logger
	tracer    trace.Tracer
	onBeat    func()

	accepted   metric.Int64Counter
	rejected   metric.Int64Counter
	collisions metric.Int64Counter

	epoch        time.Time
	clock        time.Duration
	phase        Phase
	next         int
	missed       map[int]bool
	checkpoints  map[int]bool
	collision    *world.CollisionError
	feedback     string
	timedOut     bool
	finalReached bool
}

// NewSession creates a session waiting for report-in.
func NewSession(ctx context.Context, cfg Config, opts Options) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	catalog := opts.Catalog
	if catalog == nil {
		var err error
		if catalog, err = gamedata.LoadCommandCatalog(); err != nil {
			return nil, fmt.Errorf("load commands: %w", err)
		}
	}
	course := opts.Course
	if course == nil {
		var err error
		if course, err = gamedata.LoadCourse(); err != nil {
			return nil, fmt.Errorf("load course: %w", err)
		}
	}
	printer, err := newPrinter()
	if err != nil {
		return nil, fmt.Errorf("build messages: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = telemetry.Tracer("session")
	}
	meter := opts.Meter
	if meter == nil {
		meter = telemetry.Meter("session")
	}

	s := &Session{
		cfg:        cfg,
		catalog:    catalog,
		course:     course,
		field:      world.Build(ctx, course),
		cadence:    NewCadence(cfg.CadencePeriod, cfg.CadenceWindow),
		evaluator:  entity.NewEvaluator(course.Evaluator),
		printer:    printer,
		logger:     logger,
		tracer:     tracer,
		onBeat:     opts.OnBeat,
		accepted:   counter(meter, "drill.commands.accepted", "Drill commands accepted"),
		rejected:   counter(meter, "drill.commands.rejected", "Drill commands rejected"),
		collisions: counter(meter, "drill.collisions", "Moves refused by the field"),
		epoch:      time.Now(),
	}
	s.machine = drill.New(catalog, entity.NewFlight(course.Start), cfg.CadencePeriod)
	s.scorer = scoring.New(catalog.Count(), course.CheckpointIDs(), cfg.TimeLimit, scoring.ClockFunc(s.now))
	s.reset()
	return s, nil
}

func counter(m metric.Meter, name, desc string) metric.Int64Counter {
	c, err := m.Int64Counter(name, metric.WithDescription(desc))
	if err != nil {
		c, _ = telemetry.NoopMeter().Int64Counter(name)
	}
	return c
}

// now is the session's logical clock: wall time at creation plus the sum
// of all ticks.
func (s *Session) now() time.Time {
	return s.epoch.Add(s.clock)
}

func (s *Session) reset() {
	s.ID = uuid.NewString()
	s.machine.Reset()
	s.scorer.Reset()
	s.cadence.Reset()
	s.commander = entity.NewCommander(gamedata.Point{X: s.course.Start.X, Y: s.course.Start.Y - commanderStandoff})
	s.clock = 0
	s.phase = PhaseAwaitingReportIn
	s.next = 0
	s.missed = make(map[int]bool)
	s.checkpoints = make(map[int]bool)
	s.collision = nil
	s.timedOut = false
	s.finalReached = false
	if s.cfg.Mode == ModeEvaluation {
		s.feedback = s.printer.Sprintf(msgIntroEvaluation)
	} else {
		s.feedback = s.printer.Sprintf(msgIntroPractice)
	}
}

func (s *Session) practice() bool {
	return s.cfg.Mode != ModeEvaluation
}

// Phase returns the session phase.
func (s *Session) Phase() Phase {
	return s.phase
}

// Feedback returns the current feedback line.
func (s *Session) Feedback() string {
	return s.feedback
}

// Field returns the drill field.
func (s *Session) Field() *world.Field {
	return s.field
}

// Catalog returns the command catalog.
func (s *Session) Catalog() *gamedata.CommandCatalog {
	return s.catalog
}

// Printer returns the session's message printer.
func (s *Session) Printer() *message.Printer {
	return s.printer
}

// HandleKey processes one key press. The returned error says why input was
// refused; Outcome carries the feedback to show either way.
func (s *Session) HandleKey(ctx context.Context, ev KeyEvent) (Outcome, error) {
	if ev.Key == KeyEnter {
		switch s.phase {
		case PhaseAwaitingReportIn:
			return s.reportIn(ctx), nil
		case PhaseAwaitingReportOut:
			return s.reportOut(ctx), nil
		case PhaseComplete:
			s.Restart(ctx)
			return Outcome{Kind: OutcomeRestarted, CommandID: -1, Feedback: s.feedback}, nil
		}
	}

	switch s.phase {
	case PhaseAwaitingReportIn:
		return Outcome{Kind: OutcomeIgnored, CommandID: -1}, ErrNotReportedIn
	case PhaseAwaitingReportOut:
		return Outcome{Kind: OutcomeIgnored, CommandID: -1}, ErrSequenceComplete
	case PhaseComplete:
		return Outcome{Kind: OutcomeIgnored, CommandID: -1}, ErrSessionOver
	}
	return s.command(ctx, gamedata.NormalizeKey(ev.Key))
}

func (s *Session) reportIn(ctx context.Context) Outcome {
	_, span := s.tracer.Start(ctx, "session.report_in",
		trace.WithAttributes(attribute.String("session.id", s.ID), attribute.String("session.mode", string(s.cfg.Mode))))
	defer span.End()

	s.scorer.RecordReportIn()
	if err := s.machine.Form(); err != nil {
		s.logger.Printf("session %s: form: %v", s.ID, err)
	}
	s.phase = PhaseDrilling
	s.feedback = s.printer.Sprintf(msgReportedIn)
	s.logger.Printf("session %s: reported in (%s mode)", s.ID, s.cfg.Mode)
	return Outcome{Kind: OutcomeReportedIn, CommandID: -1, Feedback: s.feedback}
}

func (s *Session) reportOut(ctx context.Context) Outcome {
	_, span := s.tracer.Start(ctx, "session.report_out", trace.WithAttributes(attribute.String("session.id", s.ID)))
	defer span.End()

	s.scorer.RecordReportOut()
	s.phase = PhaseComplete
	b := s.scorer.Breakdown()
	s.feedback = s.printer.Sprintf(msgReportedOut, b.Total, b.MaxPossible)

	span.SetAttributes(
		attribute.Int("score.total", b.Total),
		attribute.Int("score.part_one", b.PartI.Total),
		attribute.Int("score.part_two", b.PartII.Total),
		attribute.Int("score.penalty", b.Overtime.Penalty),
		attribute.Float64("score.elapsed_seconds", b.Overtime.Elapsed.Seconds()),
	)
	s.logger.Printf("session %s: reported out, score %d/%d in %s", s.ID, b.Total, b.MaxPossible, FormatClock(b.Overtime.Elapsed))
	return Outcome{Kind: OutcomeReportedOut, CommandID: -1, Feedback: s.feedback}
}

func (s *Session) command(ctx context.Context, key string) (Outcome, error) {
	expected := s.catalog.At(s.next)
	ctx, span := s.tracer.Start(ctx, "session.command", trace.WithAttributes(
		attribute.String("session.id", s.ID),
		attribute.String("command.key", key),
		attribute.Int("command.expected", expected.ID),
	))
	defer span.End()

	state := s.machine.State()
	marching := state.Marching()
	validState := expected.IsHaltCommand != marching

	// A key can give several catalog commands; only the expected one is
	// in order, and it must match the flight's halted/marching class.
	if !slices.Contains(s.catalog.LookupByKey(key), expected.ID) {
		fb := s.printer.Sprintf(msgWrongKey, expected.Name, expected.Key)
		return s.reject(ctx, span, expected, ErrWrongKey, false, validState, fb)
	}
	if !validState {
		fb := s.printer.Sprintf(msgWrongState, expected.Precondition(), expected.Name)
		return s.reject(ctx, span, expected, ErrWrongState, true, false, fb)
	}

	guide, _ := s.machine.Flight().Guide()
	res, err := s.machine.Apply(expected.ID)
	if err != nil {
		fb := s.printer.Sprintf(msgInvalidTransition, expected.Name, stateLabel(state))
		return s.reject(ctx, span, expected, fmt.Errorf("%w: %w", ErrWrongState, err), true, false, fb)
	}

	timing := scoring.TimingPerfect
	if marching && !s.cadence.OnBeat() {
		timing = scoring.TimingNormal
	}
	out := Outcome{Kind: OutcomeAccepted, CommandID: expected.ID, Timing: timing}

	if marker, ok := s.field.Checkpoint(expected.ID); ok {
		reached := marker.Reached(guide.Position)
		s.checkpoints[expected.ID] = reached
		if !reached {
			s.scorer.ForfeitCrossover(expected.ID)
		}
		out.Checkpoint = true
		out.CheckpointReached = reached
		span.SetAttributes(attribute.Bool("checkpoint.reached", reached))
		s.logger.Printf("session %s: checkpoint %q reached=%v at (%.1f,%.1f)", s.ID, marker.Name, reached, guide.Position.X, guide.Position.Y)
	}

	correct := !s.missed[expected.ID]
	if err := s.scorer.RecordCommand(expected.ID, correct, timing == scoring.TimingPerfect); err != nil {
		span.RecordError(err)
		s.logger.Printf("session %s: score command %d: %v", s.ID, expected.ID, err)
	}
	s.next++

	s.accepted.Add(ctx, 1, metric.WithAttributes(attribute.String("command.maneuver", string(res.Maneuver))))
	span.SetAttributes(
		attribute.String("drill.from", res.From.String()),
		attribute.String("drill.to", res.To.String()),
		attribute.String("command.timing", timing.String()),
		attribute.Bool("command.correct", correct),
	)

	if s.practice() {
		if timing == scoring.TimingPerfect {
			s.feedback = s.printer.Sprintf(msgAcceptedPerfect, expected.Name)
		} else {
			s.feedback = s.printer.Sprintf(msgAccepted, expected.Name)
		}
	} else {
		s.feedback = ""
	}

	if s.next >= s.catalog.Count() {
		s.finishSequence()
	}
	out.Feedback = s.feedback
	return out, nil
}

func (s *Session) reject(ctx context.Context, span trace.Span, expected *gamedata.CommandDef, err error, correctKey, validState bool, feedback string) (Outcome, error) {
	s.scorer.RecordRejected(expected.ID, correctKey, validState)
	if s.practice() {
		s.feedback = feedback
	} else {
		// The attempt was at the right command: it no longer scores.
		if correctKey {
			s.missed[expected.ID] = true
		}
		s.feedback = ""
	}

	reason := "wrong_key"
	if errors.Is(err, ErrWrongState) {
		reason = "wrong_state"
	}
	s.rejected.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
	span.RecordError(err)
	span.SetStatus(codes.Error, reason)
	s.logger.Printf("session %s: rejected %q: %v", s.ID, expected.Name, err)

	return Outcome{Kind: OutcomeRejected, CommandID: expected.ID, Feedback: s.feedback}, err
}

func (s *Session) finishSequence() {
	flight := s.machine.Flight()
	if final, ok := s.field.Final(); ok {
		s.finalReached = flight.Reached(final.Position, final.Tolerance)
	}
	s.scorer.RecordFinalPosition(s.finalReached)
	s.phase = PhaseAwaitingReportOut

	if s.practice() {
		if s.finalReached {
			s.feedback = s.printer.Sprintf(msgCompleteGood)
		} else {
			s.feedback = s.printer.Sprintf(msgCompleteBad)
		}
	}
	s.logger.Printf("session %s: sequence complete, final position reached=%v", s.ID, s.finalReached)
}

// stateLabel turns a drill state name into words.
func stateLabel(st drill.State) string {
	return strings.ReplaceAll(st.String(), "_", " ")
}

// Tick advances the session by dt: the safety cutoff, the cadence while
// marching, pending transitions and movement. Movement is frozen while a
// collision is pending.
func (s *Session) Tick(ctx context.Context, dt time.Duration) {
	if dt <= 0 || s.phase == PhaseComplete {
		return
	}
	s.clock += dt

	if s.phase != PhaseAwaitingReportIn && s.scorer.Elapsed() >= s.cfg.SafetyCutoff {
		s.expire()
		return
	}
	if s.collision != nil {
		return
	}

	if s.machine.State().Marching() {
		for beats := s.cadence.Advance(dt); beats > 0; beats-- {
			if s.onBeat != nil {
				s.onBeat()
			}
		}
	}

	if _, err := s.machine.Update(dt, s.field); err != nil {
		var ce *world.CollisionError
		if errors.As(err, &ce) {
			s.collide(ctx, ce)
		} else {
			s.logger.Printf("session %s: update: %v", s.ID, err)
		}
	}
	s.commander.TakePost(s.machine.Flight())
}

func (s *Session) collide(ctx context.Context, ce *world.CollisionError) {
	s.collision = ce
	s.feedback = s.printer.Sprintf(msgCollision, ce.What)
	s.collisions.Add(ctx, 1, metric.WithAttributes(attribute.String("collision.with", ce.What)))
	s.logger.Printf("session %s: %v", s.ID, ce)
}

func (s *Session) expire() {
	s.phase = PhaseComplete
	s.timedOut = true
	s.feedback = s.printer.Sprintf(msgTimeExpired)
	s.logger.Printf("session %s: safety cutoff after %s", s.ID, FormatClock(s.scorer.Elapsed()))
}

// Continue clears a pending collision so the flight moves again.
func (s *Session) Continue(ctx context.Context) error {
	if s.collision == nil {
		return ErrNoCollision
	}
	s.logger.Printf("session %s: continue after %v", s.ID, s.collision)
	s.collision = nil
	s.feedback = s.printer.Sprintf(msgContinued)
	return nil
}

// Restart abandons the run and resets formation, score, cadence and any
// pending transition together. The session gets a new ID.
func (s *Session) Restart(ctx context.Context) {
	_, span := s.tracer.Start(ctx, "session.restart", trace.WithAttributes(
		attribute.String("session.id", s.ID),
		attribute.String("session.phase", s.phase.String()),
		attribute.Int("session.next", s.next),
	))
	defer span.End()

	old := s.ID
	s.reset()
	span.SetAttributes(attribute.String("session.new_id", s.ID))
	s.logger.Printf("session %s: restarted as %s", old, s.ID)
}

// Snapshot returns the session state for rendering.
func (s *Session) Snapshot() Snapshot {
	b := s.scorer.Breakdown()
	snap := Snapshot{
		ID:           s.ID,
		Mode:         s.cfg.Mode,
		Phase:        s.phase,
		Formation:    s.machine.Snapshot(),
		Commander:    *s.commander,
		Evaluator:    *s.evaluator,
		Next:         s.next,
		Expected:     s.catalog.At(s.next),
		Elapsed:      b.Overtime.Elapsed,
		Remaining:    max(0, s.cfg.TimeLimit-b.Overtime.Elapsed),
		Score:        b.Total,
		Breakdown:    b,
		Checkpoints:  make(map[int]bool, len(s.checkpoints)),
		Feedback:     s.feedback,
		OnBeat:       s.cadence.OnBeat(),
		TimedOut:     s.timedOut,
		FinalReached: s.finalReached,
	}
	if snap.Expected != nil {
		snap.Ready = s.machine.Allowed(snap.Expected.ID)
	}
	for id, ok := range s.checkpoints {
		snap.Checkpoints[id] = ok
	}
	if s.collision != nil {
		snap.Collision = s.collision.What
	}
	if s.phase == PhaseComplete {
		snap.ScoreCard = ScoreCard(s.printer, b)
	}
	return snap
}
