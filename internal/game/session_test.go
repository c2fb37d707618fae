package game

import (
	"context"
	"errors"
	"testing"
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/samdwyer/drillsim/internal/drill"
	"github.com/samdwyer/drillsim/internal/entity"
	"github.com/samdwyer/drillsim/internal/gamedata"
	"github.com/samdwyer/drillsim/internal/scoring"
	"github.com/samdwyer/drillsim/internal/telemetry"
)

func newTestSession(t *testing.T, cfg Config, opts Options) *Session {
	t.Helper()
	opts.Tracer = telemetry.NoopTracer()
	if opts.Meter == nil {
		opts.Meter = telemetry.NoopMeter()
	}
	s, err := NewSession(context.Background(), cfg, opts)
	if err != nil {
		t.Fatalf("NewSession error: %v", err)
	}
	return s
}

func press(t *testing.T, s *Session, key string) (Outcome, error) {
	t.Helper()
	return s.HandleKey(context.Background(), KeyEvent{Key: key})
}

func mustPress(t *testing.T, s *Session, key string) Outcome {
	t.Helper()
	out, err := press(t, s, key)
	if err != nil {
		t.Fatalf("HandleKey(%q) error: %v (feedback %q)", key, err, out.Feedback)
	}
	return out
}

// giveNext presses the key of the expected command and waits out any
// settle delay it starts.
func giveNext(t *testing.T, s *Session) Outcome {
	t.Helper()
	cmd := s.catalog.At(s.next)
	out := mustPress(t, s, cmd.Key)
	if out.Kind != OutcomeAccepted || out.CommandID != cmd.ID {
		t.Fatalf("command %d: outcome %+v", cmd.ID, out)
	}
	if s.machine.Pending() != nil {
		s.Tick(context.Background(), time.Second)
	}
	return out
}

// twoStepCatalog has a halted fall in followed by a marching right flank.
func twoStepCatalog(t *testing.T) *gamedata.CommandCatalog {
	t.Helper()
	catalog, err := gamedata.NewCommandCatalog([]gamedata.CommandDef{
		{ID: 0, Name: "Fall In", Key: "f", Maneuver: gamedata.ManeuverFallIn, IsHaltCommand: true},
		{ID: 1, Name: "Right Flank, March", Key: "ArrowRight", Maneuver: gamedata.ManeuverRightFlank},
	})
	if err != nil {
		t.Fatal(err)
	}
	return catalog
}

func TestPhaseString(t *testing.T) {
	tests := []struct {
		phase    Phase
		expected string
	}{
		{PhaseAwaitingReportIn, "awaiting_report_in"},
		{PhaseDrilling, "drilling"},
		{PhaseAwaitingReportOut, "awaiting_report_out"},
		{PhaseComplete, "complete"},
		{Phase(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.phase.String(); got != tt.expected {
			t.Errorf("Phase(%d).String() = %q, want %q", tt.phase, got, tt.expected)
		}
	}
}

func TestIntroFeedback(t *testing.T) {
	practice := newTestSession(t, DefaultConfig(), Options{})
	if got, want := practice.Feedback(), "Practice Mode: Press Enter to Report In and start the drill."; got != want {
		t.Errorf("Feedback() = %q, want %q", got, want)
	}

	cfg := DefaultConfig()
	cfg.Mode = ModeEvaluation
	eval := newTestSession(t, cfg, Options{})
	if got, want := eval.Feedback(), "Evaluation Mode: Press Enter to Report In and start the drill."; got != want {
		t.Errorf("Feedback() = %q, want %q", got, want)
	}
}

func TestCommandsBeforeReportIn(t *testing.T) {
	s := newTestSession(t, DefaultConfig(), Options{})

	out, err := press(t, s, "f")
	if !errors.Is(err, ErrNotReportedIn) {
		t.Errorf("HandleKey(f) error = %v, want ErrNotReportedIn", err)
	}
	if out.Kind != OutcomeIgnored {
		t.Errorf("Kind = %s, want ignored", out.Kind)
	}
	if s.machine.State() != drill.StateNone {
		t.Errorf("State() = %s, want none", s.machine.State())
	}
}

func TestReportIn(t *testing.T) {
	s := newTestSession(t, DefaultConfig(), Options{})

	out := mustPress(t, s, KeyEnter)
	if out.Kind != OutcomeReportedIn {
		t.Errorf("Kind = %s, want reported_in", out.Kind)
	}
	if want := "Reported In! Begin the drill sequence with 'Fall In' (F key)."; out.Feedback != want {
		t.Errorf("Feedback = %q, want %q", out.Feedback, want)
	}
	if s.Phase() != PhaseDrilling {
		t.Errorf("Phase() = %s, want drilling", s.Phase())
	}
	if s.machine.State() != drill.StateForming {
		t.Errorf("State() = %s, want forming", s.machine.State())
	}
	if b := s.scorer.Breakdown(); b.PartI.ReportIn != 2 {
		t.Errorf("ReportIn = %d, want 2", b.PartI.ReportIn)
	}
}

func TestAcceptedFeedbackAndShift(t *testing.T) {
	s := newTestSession(t, DefaultConfig(), Options{})
	mustPress(t, s, KeyEnter)

	out, err := s.HandleKey(context.Background(), KeyEvent{Key: "F", Shift: true})
	if err != nil {
		t.Fatalf("HandleKey(F) error: %v", err)
	}
	if want := `Command "Fall In" executed successfully! Perfect timing!`; out.Feedback != want {
		t.Errorf("Feedback = %q, want %q", out.Feedback, want)
	}
	if out.Timing != scoring.TimingPerfect {
		t.Errorf("Timing = %s, want perfect while halted", out.Timing)
	}
	if s.Snapshot().Next != 1 {
		t.Errorf("Next = %d, want 1", s.Snapshot().Next)
	}
}

func TestWrongKey(t *testing.T) {
	s := newTestSession(t, DefaultConfig(), Options{})
	mustPress(t, s, KeyEnter)

	tests := []struct {
		key  string
		want string
	}{
		{"x", `Incorrect command key. Expected "Fall In" (f).`},
		{"o", `Incorrect command key. Expected "Fall In" (f).`},       // out of order
		{KeyEnter, `Incorrect command key. Expected "Fall In" (f).`},  // no report-out mid-drill
		{"ArrowUp", `Incorrect command key. Expected "Fall In" (f).`}, // later command
	}
	for _, tt := range tests {
		out, err := press(t, s, tt.key)
		if !errors.Is(err, ErrWrongKey) {
			t.Errorf("HandleKey(%q) error = %v, want ErrWrongKey", tt.key, err)
		}
		if out.Kind != OutcomeRejected || out.Feedback != tt.want {
			t.Errorf("HandleKey(%q) = %+v, want feedback %q", tt.key, out, tt.want)
		}
	}
	if s.Snapshot().Next != 0 {
		t.Error("rejected keys must not advance the sequence")
	}
}

func TestWrongStateClass(t *testing.T) {
	s := newTestSession(t, DefaultConfig(), Options{Catalog: twoStepCatalog(t)})
	mustPress(t, s, KeyEnter)
	mustPress(t, s, "f")

	out, err := press(t, s, "ArrowRight")
	if !errors.Is(err, ErrWrongState) {
		t.Fatalf("error = %v, want ErrWrongState", err)
	}
	if want := `Invalid command state. The flight must be marching for "Right Flank, March".`; out.Feedback != want {
		t.Errorf("Feedback = %q, want %q", out.Feedback, want)
	}
	if s.machine.State() != drill.StateHaltedInFormation {
		t.Errorf("State() = %s, want halted_in_formation", s.machine.State())
	}
}

func TestInvalidTransitionFeedback(t *testing.T) {
	s := newTestSession(t, DefaultConfig(), Options{})
	mustPress(t, s, KeyEnter)
	for i := 0; i < 8; i++ {
		giveNext(t, s)
	}
	mustPress(t, s, "l") // left face, still settling

	out, err := press(t, s, "b")
	if !errors.Is(err, ErrWrongState) || !errors.Is(err, drill.ErrInvalidTransition) {
		t.Fatalf("error = %v, want ErrWrongState wrapping ErrInvalidTransition", err)
	}
	if want := `Cannot execute "About Face" while the flight is facing.`; out.Feedback != want {
		t.Errorf("Feedback = %q, want %q", out.Feedback, want)
	}
	events := s.scorer.Events()
	last := events[len(events)-1]
	if last.CommandID != 9 || !last.WasCorrectKey || last.WasValidState || last.Accepted {
		t.Errorf("logged attempt = %+v, want correct key in an invalid state", last)
	}

	s.Tick(context.Background(), time.Second)
	if out := mustPress(t, s, "b"); out.CommandID != 9 {
		t.Errorf("about face after settle: CommandID = %d, want 9", out.CommandID)
	}
}

func TestOffBeatTiming(t *testing.T) {
	beats := 0
	s := newTestSession(t, DefaultConfig(), Options{OnBeat: func() { beats++ }})
	mustPress(t, s, KeyEnter)
	for i := 0; i < 11; i++ {
		giveNext(t, s) // through "Forward, March"
	}
	if s.machine.State() != drill.StateMarchingForward {
		t.Fatalf("State() = %s, want marching_forward", s.machine.State())
	}

	s.Tick(context.Background(), 2*time.Second)
	if beats != 4 {
		t.Errorf("beats = %d, want 4", beats)
	}

	s.Tick(context.Background(), 250*time.Millisecond)
	out := mustPress(t, s, "ArrowRight")
	if out.Timing != scoring.TimingNormal {
		t.Errorf("Timing = %s, want normal off the beat", out.Timing)
	}
	if want := `Command "Right Flank, March" executed successfully!`; out.Feedback != want {
		t.Errorf("Feedback = %q, want %q", out.Feedback, want)
	}
}

func TestFullSequence(t *testing.T) {
	s := newTestSession(t, DefaultConfig(), Options{})
	mustPress(t, s, KeyEnter)

	for s.Phase() == PhaseDrilling {
		out := giveNext(t, s)
		if out.CommandID == 14 && (!out.Checkpoint || out.CheckpointReached) {
			t.Errorf("checkpoint 14 outcome = %+v, want missed location", out)
		}
	}

	if s.Phase() != PhaseAwaitingReportOut {
		t.Fatalf("Phase() = %s, want awaiting_report_out", s.Phase())
	}
	if want := "Drill sequence complete! Final position not accurate."; s.Feedback() != want {
		t.Errorf("Feedback() = %q, want %q", s.Feedback(), want)
	}
	if s.machine.State() != drill.StateHaltedAtAttention {
		t.Errorf("State() = %s, want halted_at_attention", s.machine.State())
	}
	if _, err := press(t, s, "f"); !errors.Is(err, ErrSequenceComplete) {
		t.Errorf("command after the sequence error = %v, want ErrSequenceComplete", err)
	}

	out := mustPress(t, s, KeyEnter)
	if out.Kind != OutcomeReportedOut {
		t.Errorf("Kind = %s, want reported_out", out.Kind)
	}

	snap := s.Snapshot()
	// 30 correct, no crossovers, every command on the beat, final missed.
	b := snap.Breakdown
	if b.PartII.Commands != 30 || b.PartII.Crossovers != 0 {
		t.Errorf("PartII = %+v", b.PartII)
	}
	if b.PartI.Total != 11 || b.Total != 41 {
		t.Errorf("PartI.Total = %d, Total = %d, want 11 and 41", b.PartI.Total, b.Total)
	}
	if want := "Reported Out! Final score: 41/46."; out.Feedback != want {
		t.Errorf("Feedback = %q, want %q", out.Feedback, want)
	}

	wantCard := []string{
		"Score: 41/46",
		"Part I (Leadership): 11/14",
		"Part II (Commands): 30/32",
		"Time: 0:09",
	}
	if len(snap.ScoreCard) != len(wantCard) {
		t.Fatalf("ScoreCard = %q, want %q", snap.ScoreCard, wantCard)
	}
	for i := range wantCard {
		if snap.ScoreCard[i] != wantCard[i] {
			t.Errorf("ScoreCard[%d] = %q, want %q", i, snap.ScoreCard[i], wantCard[i])
		}
	}

	if _, err := press(t, s, "f"); !errors.Is(err, ErrSessionOver) {
		t.Errorf("HandleKey after completion error = %v, want ErrSessionOver", err)
	}
}

func TestEvaluationModeMiss(t *testing.T) {
	catalog, err := gamedata.NewCommandCatalog([]gamedata.CommandDef{
		{ID: 0, Name: "Fall In", Key: "f", Maneuver: gamedata.ManeuverFallIn, IsHaltCommand: true},
		{ID: 1, Name: "Left Face", Key: "l", Maneuver: gamedata.ManeuverLeftFace, IsHaltCommand: true},
		{ID: 2, Name: "About Face", Key: "b", Maneuver: gamedata.ManeuverAboutFace, IsHaltCommand: true},
	})
	if err != nil {
		t.Fatal(err)
	}
	cfg := DefaultConfig()
	cfg.Mode = ModeEvaluation
	s := newTestSession(t, cfg, Options{Catalog: catalog})
	mustPress(t, s, KeyEnter)

	if out := mustPress(t, s, "f"); out.Feedback != "" {
		t.Errorf("evaluation Feedback = %q, want empty", out.Feedback)
	}
	mustPress(t, s, "l")

	// About face while still facing: the right command at the wrong time.
	out, err := press(t, s, "b")
	if !errors.Is(err, ErrWrongState) || out.Feedback != "" {
		t.Fatalf("HandleKey(b) = %+v, %v", out, err)
	}
	// A wrong key is not a miss.
	if _, err := press(t, s, "x"); !errors.Is(err, ErrWrongKey) {
		t.Fatalf("HandleKey(x) error = %v", err)
	}

	s.Tick(context.Background(), time.Second)
	mustPress(t, s, "b")

	if s.scorer.Correct(2) {
		t.Error("a missed command must not score when given later")
	}
	if !s.scorer.Correct(0) || !s.scorer.Correct(1) {
		t.Error("commands given first time should score")
	}
	if s.Phase() != PhaseAwaitingReportOut {
		t.Errorf("Phase() = %s, want awaiting_report_out", s.Phase())
	}
	if s.Feedback() != "" {
		t.Errorf("evaluation completion Feedback() = %q, want empty", s.Feedback())
	}
}

// blockedCourse puts the evaluator straight ahead of the forming flight.
func blockedCourse() *gamedata.CourseDef {
	return &gamedata.CourseDef{
		Width:     30,
		Height:    30,
		Start:     gamedata.Point{X: 10, Y: 15},
		Final:     gamedata.MarkerDef{Name: "Final Position", X: 20, Y: 20, Tolerance: 1},
		Evaluator: gamedata.Point{X: 10, Y: 8},
	}
}

func forwardCatalog(t *testing.T) *gamedata.CommandCatalog {
	t.Helper()
	catalog, err := gamedata.NewCommandCatalog([]gamedata.CommandDef{
		{ID: 0, Name: "Fall In", Key: "f", Maneuver: gamedata.ManeuverFallIn, IsHaltCommand: true},
		{ID: 1, Name: "Forward, March", Key: "ArrowUp", Maneuver: gamedata.ManeuverForward, IsHaltCommand: true},
		{ID: 2, Name: "Flight, Halt", Key: "ArrowDown", Maneuver: gamedata.ManeuverHalt},
	})
	if err != nil {
		t.Fatal(err)
	}
	return catalog
}

func TestCollisionContinueRestart(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t, DefaultConfig(), Options{Catalog: forwardCatalog(t), Course: blockedCourse()})
	oldID := s.ID

	if err := s.Continue(ctx); !errors.Is(err, ErrNoCollision) {
		t.Errorf("Continue() without collision = %v, want ErrNoCollision", err)
	}

	mustPress(t, s, KeyEnter)
	mustPress(t, s, "f")
	mustPress(t, s, "ArrowUp")

	for i := 0; i < 50 && s.Snapshot().Collision == ""; i++ {
		s.Tick(ctx, 100*time.Millisecond)
	}
	snap := s.Snapshot()
	if snap.Collision != "evaluator" {
		t.Fatalf("Collision = %q, want evaluator", snap.Collision)
	}
	if want := "Collision: evaluator. Continue or restart."; snap.Feedback != want {
		t.Errorf("Feedback = %q, want %q", snap.Feedback, want)
	}

	// Movement is frozen while the collision is pending.
	pos := snap.Formation.Position
	s.Tick(ctx, time.Second)
	if got := s.Snapshot().Formation.Position; got != pos {
		t.Errorf("Position moved to %+v while frozen at %+v", got, pos)
	}

	// Input is still accepted; halting makes continuing safe.
	mustPress(t, s, "ArrowDown")
	if err := s.Continue(ctx); err != nil {
		t.Fatalf("Continue() error: %v", err)
	}
	s.Tick(ctx, time.Second)
	if s.Snapshot().Collision != "" {
		t.Error("halted flight should not collide again")
	}

	s.Restart(ctx)
	snap = s.Snapshot()
	if snap.Phase != PhaseAwaitingReportIn || snap.Next != 0 || snap.Score != 1 {
		t.Errorf("after Restart: phase %s, next %d, score %d", snap.Phase, snap.Next, snap.Score)
	}
	if snap.Formation.State != drill.StateNone || len(snap.Formation.Members) != 0 || snap.Formation.Pending != nil {
		t.Errorf("after Restart formation = %+v", snap.Formation)
	}
	if s.ID == oldID {
		t.Error("Restart should assign a new session ID")
	}
}

func TestSafetyCutoff(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t, DefaultConfig(), Options{})

	// Time before report-in does not count.
	s.Tick(ctx, 10*time.Minute)
	if s.Phase() != PhaseAwaitingReportIn {
		t.Fatalf("Phase() = %s before report-in", s.Phase())
	}

	mustPress(t, s, KeyEnter)
	s.Tick(ctx, 299*time.Second)
	if s.Phase() != PhaseDrilling {
		t.Fatalf("Phase() = %s at 299s, want drilling", s.Phase())
	}
	s.Tick(ctx, time.Second)

	snap := s.Snapshot()
	if snap.Phase != PhaseComplete || !snap.TimedOut {
		t.Fatalf("after cutoff: phase %s, timed out %v", snap.Phase, snap.TimedOut)
	}
	if want := "Time expired. The session has ended."; snap.Feedback != want {
		t.Errorf("Feedback = %q, want %q", snap.Feedback, want)
	}
	if snap.Breakdown.Overtime.Penalty != 0 {
		t.Errorf("penalty = %d, want 0 without report-out", snap.Breakdown.Overtime.Penalty)
	}
	if _, err := press(t, s, "f"); !errors.Is(err, ErrSessionOver) {
		t.Errorf("HandleKey after cutoff error = %v, want ErrSessionOver", err)
	}

	out := mustPress(t, s, KeyEnter)
	if out.Kind != OutcomeRestarted || s.Phase() != PhaseAwaitingReportIn {
		t.Errorf("Enter after cutoff = %+v, phase %s", out, s.Phase())
	}
}

func TestSnapshotTime(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t, DefaultConfig(), Options{})
	mustPress(t, s, KeyEnter)
	s.Tick(ctx, 30*time.Second)

	snap := s.Snapshot()
	if snap.Elapsed != 30*time.Second || snap.Remaining != 150*time.Second {
		t.Errorf("Elapsed %v Remaining %v, want 30s and 2m30s", snap.Elapsed, snap.Remaining)
	}
	if snap.Expected == nil || snap.Expected.ID != 0 {
		t.Errorf("Expected = %+v, want command 0", snap.Expected)
	}
	if snap.ScoreCard != nil {
		t.Error("ScoreCard should be empty before completion")
	}
}

func TestNewSessionRejectsBadConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CadencePeriod = 0
	if _, err := NewSession(context.Background(), cfg, Options{}); err == nil {
		t.Error("NewSession with zero cadence should fail")
	}
}

// crossoverCourse places a checkpoint, and the final marker, where the
// guide stands after one second of forward march from the start.
func crossoverCourse() *gamedata.CourseDef {
	return &gamedata.CourseDef{
		Width:     30,
		Height:    30,
		Start:     gamedata.Point{X: 10, Y: 15},
		Final:     gamedata.MarkerDef{Name: "Final Position", X: 10, Y: 13, Tolerance: 1},
		Evaluator: gamedata.Point{X: 25, Y: 25},
		Checkpoints: []gamedata.CheckpointDef{
			{CommandID: 2, Name: "First Crossover", X: 10, Y: 13, Tolerance: 1},
		},
	}
}

func TestCrossoverEarnedAndGoodFinal(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t, DefaultConfig(), Options{Catalog: forwardCatalog(t), Course: crossoverCourse()})
	mustPress(t, s, KeyEnter)
	mustPress(t, s, "f")
	mustPress(t, s, "ArrowUp")
	s.Tick(ctx, time.Second)

	out := mustPress(t, s, "ArrowDown")
	if !out.Checkpoint || !out.CheckpointReached {
		t.Errorf("halt outcome = %+v, want checkpoint reached", out)
	}
	if want := "Drill sequence complete! Good final positioning."; s.Feedback() != want {
		t.Errorf("Feedback() = %q, want %q", s.Feedback(), want)
	}

	snap := s.Snapshot()
	if !snap.FinalReached || !snap.Checkpoints[2] {
		t.Errorf("FinalReached = %v, Checkpoints = %v", snap.FinalReached, snap.Checkpoints)
	}

	mustPress(t, s, KeyEnter)
	b := s.Snapshot().Breakdown
	if b.PartII.Commands != 3 || b.PartII.Crossovers != 1 {
		t.Errorf("PartII = %+v, want 3 commands and 1 crossover", b.PartII)
	}
	if b.PartI.FinalPositioning != scoring.FinalPositionPoints {
		t.Errorf("FinalPositioning = %d, want %d", b.PartI.FinalPositioning, scoring.FinalPositionPoints)
	}
}

// The last three commands move the guide by a fixed amount, so a flight
// that halts exactly on the second crossover must finish on the final
// marker.
func TestFinalReachableFromSecondCrossover(t *testing.T) {
	ctx := context.Background()
	s := newTestSession(t, DefaultConfig(), Options{})
	course := s.course
	cp := course.Checkpoint(26)
	if cp == nil {
		t.Fatal("default course has no checkpoint for command 26")
	}

	guide := func() entity.Point {
		t.Helper()
		g, ok := s.machine.Flight().Guide()
		if !ok {
			t.Fatal("flight has no guide")
		}
		return g.Position
	}

	mustPress(t, s, KeyEnter)
	for s.next <= 26 {
		giveNext(t, s)
	}
	from := guide()

	giveNext(t, s) // left face
	giveNext(t, s) // right step
	s.Tick(ctx, time.Duration(entity.RightStepCount)*s.cfg.CadencePeriod)
	if s.machine.Flight().ActiveRightStep() != nil {
		t.Fatal("right step still in progress")
	}
	giveNext(t, s) // halt
	to := guide()

	if s.Phase() != PhaseAwaitingReportOut {
		t.Fatalf("Phase() = %s, want awaiting_report_out", s.Phase())
	}
	landed := entity.Point{X: cp.X + to.X - from.X, Y: cp.Y + to.Y - from.Y}
	if d := entity.Distance(landed, course.Final.Target()); d > course.Final.Tolerance {
		t.Errorf("from the checkpoint the guide ends at (%.2f,%.2f), %.2f from the final marker (tolerance %.2f)",
			landed.X, landed.Y, d, course.Final.Tolerance)
	}
}

// sumCounter adds up every data point of an int64 counter.
func sumCounter(t *testing.T, rm metricdata.ResourceMetrics, name string) int64 {
	t.Helper()
	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				t.Fatalf("%s data type = %T, want Sum[int64]", name, m.Data)
			}
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
		}
	}
	return total
}

func TestSessionCounters(t *testing.T) {
	ctx := context.Background()
	reader := sdkmetric.NewManualReader()
	mp := telemetry.NewMeterProvider(nil, reader)
	defer mp.Shutdown(ctx)

	s := newTestSession(t, DefaultConfig(), Options{
		Catalog: forwardCatalog(t),
		Course:  blockedCourse(),
		Meter:   mp.Meter("test"),
	})
	mustPress(t, s, KeyEnter)
	if _, err := press(t, s, "x"); !errors.Is(err, ErrWrongKey) {
		t.Fatalf("HandleKey(x) error = %v", err)
	}
	mustPress(t, s, "f")
	mustPress(t, s, "ArrowUp")
	for i := 0; i < 50 && s.Snapshot().Collision == ""; i++ {
		s.Tick(ctx, 100*time.Millisecond)
	}

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("Collect error: %v", err)
	}
	tests := []struct {
		name string
		want int64
	}{
		{"drill.commands.accepted", 2},
		{"drill.commands.rejected", 1},
		{"drill.collisions", 1},
	}
	for _, tt := range tests {
		if got := sumCounter(t, rm, tt.name); got != tt.want {
			t.Errorf("%s = %d, want %d", tt.name, got, tt.want)
		}
	}
}
