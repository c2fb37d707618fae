// Package scoring grades a drill run: command correctness, timing quality,
// report-in/out, final positioning and the overtime penalty.
package scoring

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrOutOfRange is returned for a command id outside the correctness vector.
var ErrOutOfRange = errors.New("command id out of range")

// Score maxima.
const (
	MaxPartI         = 14
	MaxPartII        = 32
	MaxTotal         = MaxPartI + MaxPartII
	MaxCommands      = 30
	MaxCrossovers    = 2
	MaxTimingScore   = 6.0
	TimingPerPerfect = 0.5

	ReportPoints        = 2
	FinalPositionPoints = 2
	PositionOnFlight    = 1 // awarded unconditionally

	DefaultTimeLimit = 180 * time.Second
	PenaltyInterval  = 10 * time.Second
)

// Clock supplies timestamps for report-in/out and events.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

// Now calls f.
func (f ClockFunc) Now() time.Time { return f() }

// Timing classifies how well a command landed on the cadence.
type Timing int

const (
	TimingNormal Timing = iota
	TimingPerfect
)

// String returns a human-readable timing name.
func (t Timing) String() string {
	switch t {
	case TimingNormal:
		return "normal"
	case TimingPerfect:
		return "perfect"
	default:
		return "unknown"
	}
}

// Event is one command attempt. Events are append-only with non-decreasing
// timestamps; only accepted attempts count toward the score.
type Event struct {
	CommandID     int
	At            time.Time
	WasCorrectKey bool
	WasValidState bool
	Accepted      bool
	Timing        Timing
}

// Scorer accumulates the score of one run.
type Scorer struct {
	size        int
	checkpoints map[int]bool
	timeLimit   time.Duration
	clock       Clock

	correct          []bool
	perfectCount     int
	crossovers       map[int]bool
	forfeited        map[int]bool
	finalPositioning int
	reportIn         int
	reportOut        int
	start            time.Time
	end              time.Time
	events           []Event
}

// New creates a scorer for a catalog of size commands. checkpointIDs are the
// commands that earn crossover credit. A zero timeLimit uses DefaultTimeLimit
// and a nil clock uses the wall clock.
func New(size int, checkpointIDs []int, timeLimit time.Duration, clock Clock) *Scorer {
	if timeLimit <= 0 {
		timeLimit = DefaultTimeLimit
	}
	if clock == nil {
		clock = ClockFunc(time.Now)
	}
	s := &Scorer{
		size:        size,
		checkpoints: make(map[int]bool, len(checkpointIDs)),
		timeLimit:   timeLimit,
		clock:       clock,
	}
	for _, id := range checkpointIDs {
		s.checkpoints[id] = true
	}
	s.Reset()
	return s
}

// Reset clears every recorded result.
func (s *Scorer) Reset() {
	s.correct = make([]bool, s.size)
	s.perfectCount = 0
	s.crossovers = make(map[int]bool)
	s.forfeited = make(map[int]bool)
	s.finalPositioning = 0
	s.reportIn = 0
	s.reportOut = 0
	s.start = time.Time{}
	s.end = time.Time{}
	s.events = nil
}

// RecordCommand records an accepted command. A correct, well-timed command
// adds to the timing budget; a correct checkpoint command earns its
// crossover once unless it was forfeited.
func (s *Scorer) RecordCommand(commandID int, isCorrect, isPerfectTiming bool) error {
	if commandID < 0 || commandID >= s.size {
		return fmt.Errorf("record command %d of %d: %w", commandID, s.size, ErrOutOfRange)
	}

	s.correct[commandID] = isCorrect
	if isCorrect && isPerfectTiming {
		s.perfectCount++
	}
	if isCorrect && s.checkpoints[commandID] && !s.forfeited[commandID] {
		s.crossovers[commandID] = true
	}

	timing := TimingNormal
	if isPerfectTiming {
		timing = TimingPerfect
	}
	s.appendEvent(Event{
		CommandID:     commandID,
		WasCorrectKey: true,
		WasValidState: true,
		Accepted:      true,
		Timing:        timing,
	})
	return nil
}

// RecordRejected logs a rejected attempt. It never changes the score.
func (s *Scorer) RecordRejected(commandID int, wasCorrectKey, wasValidState bool) {
	s.appendEvent(Event{
		CommandID:     commandID,
		WasCorrectKey: wasCorrectKey,
		WasValidState: wasValidState,
	})
}

// ForfeitCrossover withholds the crossover credit of a checkpoint, e.g.
// when the checkpoint command was given away from its target.
func (s *Scorer) ForfeitCrossover(commandID int) {
	if !s.checkpoints[commandID] {
		return
	}
	s.forfeited[commandID] = true
	delete(s.crossovers, commandID)
}

// RecordReportIn awards the report-in points and starts the clock.
func (s *Scorer) RecordReportIn() {
	s.reportIn = ReportPoints
	s.start = s.clock.Now()
}

// RecordReportOut awards the report-out points and stops the clock.
func (s *Scorer) RecordReportOut() {
	s.reportOut = ReportPoints
	s.end = s.clock.Now()
}

// RecordFinalPosition awards the final positioning points.
func (s *Scorer) RecordFinalPosition(withinTolerance bool) {
	if withinTolerance {
		s.finalPositioning = FinalPositionPoints
	} else {
		s.finalPositioning = 0
	}
}

func (s *Scorer) appendEvent(e Event) {
	e.At = s.clock.Now()
	if n := len(s.events); n > 0 && e.At.Before(s.events[n-1].At) {
		e.At = s.events[n-1].At
	}
	s.events = append(s.events, e)
}

// timingSubScore is each of command voice, cadence and bearing.
func (s *Scorer) timingSubScore() int {
	timing := math.Min(MaxTimingScore, float64(s.perfectCount)*TimingPerPerfect)
	return int(math.Round(timing / 3))
}

// CalculatePartI returns the leadership score, at most MaxPartI.
func (s *Scorer) CalculatePartI() int {
	total := 3*s.timingSubScore() + PositionOnFlight + s.finalPositioning + s.reportIn + s.reportOut
	return min(total, MaxPartI)
}

func (s *Scorer) commandPoints() int {
	n := 0
	for _, ok := range s.correct {
		if ok {
			n++
		}
	}
	return min(n, MaxCommands)
}

func (s *Scorer) crossoverPoints() int {
	return min(len(s.crossovers), MaxCrossovers)
}

// CalculatePartII returns the order-of-commands score, at most MaxPartII.
func (s *Scorer) CalculatePartII() int {
	return min(s.commandPoints()+s.crossoverPoints(), MaxPartII)
}

// Elapsed returns the run time: report-in to report-out, or to now while
// the run is open, or zero before report-in.
func (s *Scorer) Elapsed() time.Duration {
	switch {
	case s.start.IsZero():
		return 0
	case s.end.IsZero():
		return s.clock.Now().Sub(s.start)
	default:
		return s.end.Sub(s.start)
	}
}

// CalculateOvertimePenalty returns one point per full PenaltyInterval past
// the time limit. It is zero until both report-in and report-out happen.
func (s *Scorer) CalculateOvertimePenalty() int {
	if s.start.IsZero() || s.end.IsZero() {
		return 0
	}
	over := s.end.Sub(s.start) - s.timeLimit
	if over <= 0 {
		return 0
	}
	return int(over / PenaltyInterval)
}

// CalculateTotalScore returns the total, never below zero.
func (s *Scorer) CalculateTotalScore() int {
	return max(0, s.CalculatePartI()+s.CalculatePartII()-s.CalculateOvertimePenalty())
}

// Correct reports whether a command was recorded correct.
func (s *Scorer) Correct(commandID int) bool {
	if commandID < 0 || commandID >= s.size {
		return false
	}
	return s.correct[commandID]
}

// PerfectCount returns the number of correct, well-timed commands.
func (s *Scorer) PerfectCount() int {
	return s.perfectCount
}

// Events returns a copy of the attempt log.
func (s *Scorer) Events() []Event {
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}
