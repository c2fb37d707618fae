package game

import (
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/drillsim/internal/gamedata"
)

func TestTranslateKey(t *testing.T) {
	tests := []struct {
		key    tcell.Key
		r      rune
		action Action
		name   string
	}{
		{tcell.KeyEscape, 0, ActionQuit, ""},
		{tcell.KeyCtrlC, 0, ActionQuit, ""},
		{tcell.KeyF5, 0, ActionRestart, ""},
		{tcell.KeyEnter, 0, ActionKey, KeyEnter},
		{tcell.KeyUp, 0, ActionKey, "ArrowUp"},
		{tcell.KeyDown, 0, ActionKey, "ArrowDown"},
		{tcell.KeyLeft, 0, ActionKey, "ArrowLeft"},
		{tcell.KeyRight, 0, ActionKey, "ArrowRight"},
		{tcell.KeyRune, 'f', ActionKey, "f"},
		{tcell.KeyRune, 'F', ActionKey, "F"},
		{tcell.KeyRune, ' ', ActionContinue, ""},
		{tcell.KeyTab, 0, ActionNone, ""},
	}
	for _, tt := range tests {
		action, name := translateKey(tt.key, tt.r)
		if action != tt.action || name != tt.name {
			t.Errorf("translateKey(%v, %q) = %d, %q, want %d, %q", tt.key, tt.r, action, name, tt.action, tt.name)
		}
	}
}

func TestBuildView(t *testing.T) {
	s := newTestSession(t, DefaultConfig(), Options{})

	v := buildView(s.Snapshot(), s)
	if v.Field != s.Field() || v.Title != "Drill Practice" {
		t.Errorf("view field/title = %p %q", v.Field, v.Title)
	}
	want := []string{"Press Enter to Report In.", "Time: 0:00 (3:00 left)", "Score: 1/46"}
	if strings.Join(v.Status, "|") != strings.Join(want, "|") {
		t.Errorf("Status = %q, want %q", v.Status, want)
	}

	mustPress(t, s, KeyEnter)
	s.Tick(t.Context(), 5*time.Second)
	v = buildView(s.Snapshot(), s)
	if got, want := v.Status[0], "Next (1/30): Fall In [f]"; got != want {
		t.Errorf("Status[0] = %q, want %q", got, want)
	}
	if got, want := v.Status[1], "Time: 0:05 (2:55 left)"; got != want {
		t.Errorf("Status[1] = %q, want %q", got, want)
	}
}

func TestBuildViewEvaluationHidesScore(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Mode = ModeEvaluation
	s := newTestSession(t, cfg, Options{})

	v := buildView(s.Snapshot(), s)
	if v.Title != "Drill Evaluation" {
		t.Errorf("Title = %q", v.Title)
	}
	for _, line := range v.Status {
		if strings.HasPrefix(line, "Score:") {
			t.Errorf("evaluation view shows %q before completion", line)
		}
	}
}

func TestBuildViewMarksCommandNotYetAllowed(t *testing.T) {
	catalog, err := gamedata.NewCommandCatalog([]gamedata.CommandDef{
		{ID: 0, Name: "Fall In", Key: "f", Maneuver: gamedata.ManeuverFallIn, IsHaltCommand: true},
		{ID: 1, Name: "Left Face", Key: "l", Maneuver: gamedata.ManeuverLeftFace, IsHaltCommand: true},
		{ID: 2, Name: "About Face", Key: "b", Maneuver: gamedata.ManeuverAboutFace, IsHaltCommand: true},
	})
	if err != nil {
		t.Fatal(err)
	}
	s := newTestSession(t, DefaultConfig(), Options{Catalog: catalog})
	mustPress(t, s, KeyEnter)
	mustPress(t, s, "f")
	mustPress(t, s, "l")

	// The left face is still settling.
	if got, want := buildView(s.Snapshot(), s).Status[0], "Next (3/3): About Face [b] (wait)"; got != want {
		t.Errorf("Status[0] = %q, want %q", got, want)
	}

	s.Tick(t.Context(), time.Second)
	if got, want := buildView(s.Snapshot(), s).Status[0], "Next (3/3): About Face [b]"; got != want {
		t.Errorf("Status[0] = %q, want %q", got, want)
	}
}
