package game

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/drillsim/internal/audio"
	"github.com/samdwyer/drillsim/internal/gamedata"
	"github.com/samdwyer/drillsim/internal/telemetry"
	"github.com/samdwyer/drillsim/internal/ui"
)

const helpLine = "Enter: report in/out   Space: continue   F5: restart   Esc: quit"

// Action is what a terminal key asks the game to do. ActionKey passes the
// key on to the session.
type Action int

const (
	ActionNone Action = iota
	ActionKey
	ActionContinue
	ActionRestart
	ActionQuit
)

// Game runs a session in the terminal.
type Game struct {
	cfg       Config
	logger    *log.Logger
	screen    *ui.Screen
	renderer  *ui.Renderer
	metronome *audio.Metronome
	session   *Session
	running   bool
}

// New creates a new game instance on the terminal screen.
func New(cfg Config, logger *log.Logger) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	screen, err := ui.NewScreen()
	if err != nil {
		return nil, err
	}
	palette, err := gamedata.LoadPalette()
	if err != nil {
		logger.Printf("palette not loaded, using default colours: %v", err)
	}

	return &Game{
		cfg:       cfg,
		logger:    logger,
		screen:    screen,
		renderer:  ui.NewRenderer(screen, palette),
		metronome: audio.NewMetronome(),
		running:   true,
	}, nil
}

// Run executes the main game loop until the player quits or ctx ends.
func (g *Game) Run(ctx context.Context) error {
	tracer := telemetry.Tracer("game")
	ctx, initSpan := tracer.Start(ctx, "game.init")

	if g.cfg.Audio {
		if err := g.metronome.Start(); err != nil {
			g.logger.Printf("audio disabled: %v", err)
		}
	}
	session, err := NewSession(ctx, g.cfg, Options{
		Logger: g.logger,
		OnBeat: g.metronome.Click,
	})
	if err != nil {
		initSpan.RecordError(err)
		initSpan.End()
		g.Close()
		return err
	}
	g.session = session

	field := session.Field()
	initSpan.SetAttributes(
		attribute.String("session.id", session.ID),
		attribute.String("session.mode", string(g.cfg.Mode)),
		attribute.Int("catalog.commands", session.Catalog().Count()),
		attribute.Int("field.width", field.Width),
		attribute.Int("field.height", field.Height),
		attribute.Bool("audio.enabled", g.metronome.Enabled()),
	)
	initSpan.End()

	events := make(chan tcell.Event, 16)
	done := make(chan struct{})
	go pollEvents(g.screen, events, done)

	ticker := time.NewTicker(g.cfg.TickInterval)
	defer ticker.Stop()
	last := time.Now()

	for g.running {
		g.render()

		select {
		case <-ctx.Done():
			g.running = false
		case ev, ok := <-events:
			if !ok {
				g.running = false
				break
			}
			g.handleEvent(ctx, ev)
		case now := <-ticker.C:
			g.session.Tick(ctx, now.Sub(last))
			last = now
		}
	}

	close(done)
	g.Close()
	return nil
}

// pollEvents forwards terminal events until the screen closes.
func pollEvents(screen *ui.Screen, events chan<- tcell.Event, done <-chan struct{}) {
	defer close(events)
	for {
		ev := screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case events <- ev:
		case <-done:
			return
		}
	}
}

func (g *Game) handleEvent(ctx context.Context, ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		g.handleKeyEvent(ctx, ev)
	case *tcell.EventResize:
		g.screen.Sync()
	}
}

// handleKeyEvent processes keyboard input.
func (g *Game) handleKeyEvent(ctx context.Context, ev *tcell.EventKey) {
	action, key := translateKey(ev.Key(), ev.Rune())
	switch action {
	case ActionQuit:
		g.running = false
	case ActionRestart:
		g.session.Restart(ctx)
	case ActionContinue:
		if err := g.session.Continue(ctx); err != nil {
			g.logger.Printf("continue: %v", err)
		}
	case ActionKey:
		shift := ev.Modifiers()&tcell.ModShift != 0
		if _, err := g.session.HandleKey(ctx, KeyEvent{Key: key, Shift: shift}); err != nil {
			g.logger.Printf("key %q: %v", key, err)
		}
	}
}

// translateKey maps a terminal key to a game action and, for ActionKey, the
// catalog key name.
func translateKey(k tcell.Key, r rune) (Action, string) {
	switch k {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return ActionQuit, ""
	case tcell.KeyF5, tcell.KeyCtrlR:
		return ActionRestart, ""
	case tcell.KeyEnter:
		return ActionKey, KeyEnter
	case tcell.KeyUp:
		return ActionKey, "ArrowUp"
	case tcell.KeyDown:
		return ActionKey, "ArrowDown"
	case tcell.KeyLeft:
		return ActionKey, "ArrowLeft"
	case tcell.KeyRight:
		return ActionKey, "ArrowRight"
	case tcell.KeyRune:
		if r == ' ' {
			return ActionContinue, ""
		}
		return ActionKey, string(r)
	}
	return ActionNone, ""
}

func (g *Game) render() {
	g.renderer.Render(buildView(g.session.Snapshot(), g.session))
}

// buildView turns a session snapshot into the text and shapes of one frame.
func buildView(snap Snapshot, s *Session) ui.View {
	p := s.Printer()
	v := ui.View{
		Field:     s.Field(),
		Formation: snap.Formation,
		Commander: snap.Commander,
		Evaluator: snap.Evaluator,
		Title:     modeTitle(snap.Mode),
		Feedback:  snap.Feedback,
		OnBeat:    snap.OnBeat,
		Collision: snap.Collision != "",
		ScoreCard: snap.ScoreCard,
		Help:      helpLine,
	}

	switch {
	case snap.Phase == PhaseAwaitingReportIn:
		v.Status = append(v.Status, p.Sprintf(msgHUDReportIn))
	case snap.Expected != nil:
		next := p.Sprintf(msgHUDNext, snap.Next+1, s.Catalog().Count(), snap.Expected.Name, snap.Expected.DisplayKey())
		if snap.Mode == ModePractice && !snap.Ready {
			next = p.Sprintf(msgHUDNextWait, next)
		}
		v.Status = append(v.Status, next)
	case snap.Phase == PhaseAwaitingReportOut:
		v.Status = append(v.Status, p.Sprintf(msgHUDReportOut))
	}
	v.Status = append(v.Status, p.Sprintf(msgHUDTime, FormatClock(snap.Elapsed), FormatClock(snap.Remaining)))
	if snap.Mode == ModePractice || snap.Phase == PhaseComplete {
		v.Status = append(v.Status, p.Sprintf(msgCardScore, snap.Score, snap.Breakdown.MaxPossible))
	}
	return v
}

func modeTitle(m Mode) string {
	if m == ModeEvaluation {
		return "Drill Evaluation"
	}
	return "Drill Practice"
}

// Close releases the screen and the speaker.
func (g *Game) Close() {
	if g.metronome != nil {
		g.metronome.Close()
	}
	if g.screen != nil {
		g.screen.Close()
		g.screen = nil
	}
}
