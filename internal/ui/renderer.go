package ui

import (
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/drillsim/internal/drill"
	"github.com/samdwyer/drillsim/internal/entity"
	"github.com/samdwyer/drillsim/internal/gamedata"
	"github.com/samdwyer/drillsim/internal/world"
)

// hudGap is the number of blank columns between the field and the HUD.
const hudGap = 2

// View is everything one frame shows. Text lines are already formatted.
type View struct {
	Field     *world.Field
	Formation drill.Snapshot
	Commander entity.Commander
	Evaluator entity.Evaluator

	Title     string
	Status    []string // expected command, time, score
	Feedback  string
	OnBeat    bool
	Collision bool
	ScoreCard []string
	Help      string
}

// Renderer handles drawing the drill field and HUD to the screen.
type Renderer struct {
	screen  *Screen
	palette *gamedata.Palette
}

// NewRenderer creates a new renderer for the given screen. A nil palette
// draws everything in the terminal's default colours.
func NewRenderer(screen *Screen, palette *gamedata.Palette) *Renderer {
	if palette == nil {
		palette = &gamedata.Palette{}
	}
	return &Renderer{screen: screen, palette: palette}
}

// Render draws one frame.
func (r *Renderer) Render(v View) {
	r.screen.Clear()
	if v.Field != nil {
		r.drawField(v.Field)
	}
	r.drawFigure(v.Evaluator.Position, v.Evaluator.Symbol, r.palette.Role("evaluator", tcell.ColorAqua))
	r.drawFigure(v.Commander.Position, v.Commander.Symbol, r.palette.Role("commander", tcell.ColorBlue))
	r.drawFlight(v.Formation)

	x := hudGap
	if v.Field != nil {
		x += v.Field.Width
	}
	r.drawHUD(x, v)
	r.screen.Show()
}

func (r *Renderer) drawField(f *world.Field) {
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			tile := f.GetTile(x, y)
			r.screen.SetContent(x, y, tile.Rune(), r.tileStyle(tile))
		}
	}
	for _, m := range f.Markers {
		x, y := cell(m.Position)
		r.screen.SetContent(x, y, markerRune(m.Kind), tcell.StyleDefault.Foreground(r.markerColor(m.Kind)).Bold(true))
	}
}

func (r *Renderer) tileStyle(tile world.Tile) tcell.Style {
	switch tile {
	case world.TileBoundary:
		return tcell.StyleDefault.Foreground(r.palette.Role("boundary", tcell.ColorDarkGray))
	case world.TileGround:
		return tcell.StyleDefault.Foreground(r.palette.Role("ground", tcell.ColorGray))
	default:
		return tcell.StyleDefault
	}
}

func markerRune(k world.MarkerKind) rune {
	switch k {
	case world.MarkerStart:
		return world.TileStart.Rune()
	case world.MarkerFinal:
		return 'X'
	default:
		return world.TileMarker.Rune()
	}
}

func (r *Renderer) markerColor(k world.MarkerKind) tcell.Color {
	switch k {
	case world.MarkerStart:
		return r.palette.Role("start", tcell.ColorGreen)
	case world.MarkerFinal:
		return r.palette.Role("final", tcell.ColorNavy)
	default:
		return r.palette.Role("checkpoint", tcell.ColorMaroon)
	}
}

func (r *Renderer) drawFigure(p entity.Point, symbol rune, color tcell.Color) {
	if symbol == 0 {
		return
	}
	x, y := cell(p)
	r.screen.SetContent(x, y, symbol, tcell.StyleDefault.Foreground(color).Bold(true))
}

// drawFlight colours the cadets by drill state; the guide is darker.
func (r *Renderer) drawFlight(s drill.Snapshot) {
	body := r.palette.State(s.State.String(), r.palette.Role("cadet", tcell.ColorYellow))
	guide := body
	if hex, ok := r.palette.States[s.State.String()]; ok {
		if dark, err := gamedata.Darken(hex); err == nil {
			guide = gamedata.MustParseHexColor(dark)
		}
	}

	for _, c := range s.Members {
		color := body
		if c.IsGuide() {
			color = guide
		}
		x, y := cell(c.Position)
		r.screen.SetContent(x, y, facingRune(c.Facing), tcell.StyleDefault.Foreground(color).Bold(c.IsGuide()))
	}
}

func facingRune(f entity.Facing) rune {
	switch f {
	case entity.FacingRight:
		return '>'
	case entity.FacingDown:
		return 'v'
	case entity.FacingLeft:
		return '<'
	default:
		return '^'
	}
}

func (r *Renderer) drawHUD(x int, v View) {
	plain := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	y := 0
	r.screen.Text(x, y, v.Title, plain.Bold(true))
	y += 2

	for _, line := range v.Status {
		r.screen.Text(x, y, line, plain)
		y++
	}

	state := "State: " + v.Formation.State.String()
	end := r.screen.Text(x, y, state, plain)
	if v.OnBeat && v.Formation.State.Marching() {
		r.screen.Text(end+1, y, "*", plain.Foreground(tcell.ColorYellow).Bold(true))
	}
	y += 2

	feedback := plain
	if v.Collision {
		feedback = plain.Foreground(tcell.ColorRed).Bold(true)
	}
	if v.Feedback != "" {
		r.screen.Text(x, y, v.Feedback, feedback)
	}
	y += 2

	for _, line := range v.ScoreCard {
		r.screen.Text(x, y, line, plain.Bold(true))
		y++
	}

	if v.Help != "" {
		_, h := r.screen.Size()
		r.screen.Text(x, max(y+1, h-1), v.Help, plain.Foreground(tcell.ColorGray))
	}
}

// cell maps a field position to the screen cell it falls in.
func cell(p entity.Point) (int, int) {
	return int(math.Floor(p.X)), int(math.Floor(p.Y))
}
