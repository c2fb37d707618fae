// Package game provides the drill session controller and the terminal game
// loop that drives it.
package game

// Phase represents where a session is in the drill.
type Phase int

const (
	// PhaseAwaitingReportIn waits for the commander to report in.
	PhaseAwaitingReportIn Phase = iota
	// PhaseDrilling accepts drill commands in catalog order.
	PhaseDrilling
	// PhaseAwaitingReportOut follows the last command.
	PhaseAwaitingReportOut
	// PhaseComplete is reached by reporting out or by the safety cutoff.
	PhaseComplete
)

// String returns a human-readable phase name.
func (p Phase) String() string {
	switch p {
	case PhaseAwaitingReportIn:
		return "awaiting_report_in"
	case PhaseDrilling:
		return "drilling"
	case PhaseAwaitingReportOut:
		return "awaiting_report_out"
	case PhaseComplete:
		return "complete"
	default:
		return "unknown"
	}
}
