package scoring

import "time"

// PartIDetail is the leadership half of a breakdown.
type PartIDetail struct {
	Total            int
	MaxPossible      int
	CommandVoice     int
	CallingCadence   int
	MilitaryBearing  int
	PositionOnFlight int
	FinalPositioning int
	ReportIn         int
	ReportOut        int
}

// PartIIDetail is the order-of-commands half of a breakdown.
type PartIIDetail struct {
	Total       int
	MaxPossible int
	Commands    int
	Crossovers  int
}

// OvertimeDetail reports run time against the limit.
type OvertimeDetail struct {
	Penalty   int
	Elapsed   time.Duration
	TimeLimit time.Duration
}

// Breakdown is a read-only snapshot of the score.
type Breakdown struct {
	PartI       PartIDetail
	PartII      PartIIDetail
	Overtime    OvertimeDetail
	Total       int
	MaxPossible int
}

// Breakdown computes the current score snapshot. It does not modify the
// scorer and may be called any number of times.
func (s *Scorer) Breakdown() Breakdown {
	sub := s.timingSubScore()
	return Breakdown{
		PartI: PartIDetail{
			Total:            s.CalculatePartI(),
			MaxPossible:      MaxPartI,
			CommandVoice:     sub,
			CallingCadence:   sub,
			MilitaryBearing:  sub,
			PositionOnFlight: PositionOnFlight,
			FinalPositioning: s.finalPositioning,
			ReportIn:         s.reportIn,
			ReportOut:        s.reportOut,
		},
		PartII: PartIIDetail{
			Total:       s.CalculatePartII(),
			MaxPossible: MaxPartII,
			Commands:    s.commandPoints(),
			Crossovers:  s.crossoverPoints(),
		},
		Overtime: OvertimeDetail{
			Penalty:   s.CalculateOvertimePenalty(),
			Elapsed:   s.Elapsed(),
			TimeLimit: s.timeLimit,
		},
		Total:       s.CalculateTotalScore(),
		MaxPossible: MaxTotal,
	}
}
