package game

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"github.com/samdwyer/drillsim/internal/scoring"
)

// Message keys for player-facing text.
const (
	msgIntroPractice     = "feedback.intro.practice"
	msgIntroEvaluation   = "feedback.intro.evaluation"
	msgReportedIn        = "feedback.reported_in"
	msgReportedOut       = "feedback.reported_out"
	msgAccepted          = "feedback.accepted"
	msgAcceptedPerfect   = "feedback.accepted_perfect"
	msgWrongKey          = "feedback.wrong_key"
	msgWrongState        = "feedback.wrong_state"
	msgInvalidTransition = "feedback.invalid_transition"
	msgCompleteGood      = "feedback.complete.good"
	msgCompleteBad       = "feedback.complete.bad"
	msgCollision         = "feedback.collision"
	msgContinued         = "feedback.continued"
	msgTimeExpired       = "feedback.time_expired"

	msgHUDReportIn  = "hud.report_in"
	msgHUDReportOut = "hud.report_out"
	msgHUDNext      = "hud.next"
	msgHUDNextWait  = "hud.next_wait"
	msgHUDTime      = "hud.time"

	msgCardScore   = "card.score"
	msgCardPartI   = "card.part_one"
	msgCardPartII  = "card.part_two"
	msgCardTime    = "card.time"
	msgCardPenalty = "card.penalty"
)

var englishMessages = map[string]string{
	msgIntroPractice:     "Practice Mode: Press Enter to Report In and start the drill.",
	msgIntroEvaluation:   "Evaluation Mode: Press Enter to Report In and start the drill.",
	msgReportedIn:        "Reported In! Begin the drill sequence with 'Fall In' (F key).",
	msgReportedOut:       "Reported Out! Final score: %d/%d.",
	msgAccepted:          `Command "%s" executed successfully!`,
	msgAcceptedPerfect:   `Command "%s" executed successfully! Perfect timing!`,
	msgWrongKey:          `Incorrect command key. Expected "%s" (%s).`,
	msgWrongState:        `Invalid command state. The flight must be %s for "%s".`,
	msgInvalidTransition: `Cannot execute "%s" while the flight is %s.`,
	msgCompleteGood:      "Drill sequence complete! Good final positioning.",
	msgCompleteBad:       "Drill sequence complete! Final position not accurate.",
	msgCollision:         "Collision: %s. Continue or restart.",
	msgContinued:         "Continuing the drill.",
	msgTimeExpired:       "Time expired. The session has ended.",

	msgHUDReportIn:  "Press Enter to Report In.",
	msgHUDReportOut: "Press Enter to Report Out.",
	msgHUDNext:      "Next (%d/%d): %s [%s]",
	msgHUDNextWait:  "%s (wait)",
	msgHUDTime:      "Time: %s (%s left)",

	msgCardScore:   "Score: %d/%d",
	msgCardPartI:   "Part I (Leadership): %d/%d",
	msgCardPartII:  "Part II (Commands): %d/%d",
	msgCardTime:    "Time: %s",
	msgCardPenalty: "Overtime Penalty: -%d",
}

// newPrinter builds the English message printer. Every key above must have
// a message; a missing one would print the key itself.
func newPrinter() (*message.Printer, error) {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for key, msg := range englishMessages {
		if err := b.SetString(language.English, key, msg); err != nil {
			return nil, err
		}
	}
	return message.NewPrinter(language.English, message.Catalog(b)), nil
}

// FormatClock renders a duration as m:ss, truncating to whole seconds.
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int(d / time.Second)
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

// ScoreCard returns the end-of-session score lines. The penalty line is
// present only when a penalty applies.
func ScoreCard(p *message.Printer, b scoring.Breakdown) []string {
	lines := []string{
		p.Sprintf(msgCardScore, b.Total, b.MaxPossible),
		p.Sprintf(msgCardPartI, b.PartI.Total, b.PartI.MaxPossible),
		p.Sprintf(msgCardPartII, b.PartII.Total, b.PartII.MaxPossible),
		p.Sprintf(msgCardTime, FormatClock(b.Overtime.Elapsed)),
	}
	if b.Overtime.Penalty > 0 {
		lines = append(lines, p.Sprintf(msgCardPenalty, b.Overtime.Penalty))
	}
	return lines
}
