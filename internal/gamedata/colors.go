package gamedata

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// ParseHexColor converts a hex color string (e.g., "#FF0000" or "FF0000") to a tcell.Color.
func ParseHexColor(hex string) (tcell.Color, error) {
	c, err := parseHex(hex)
	if err != nil {
		return tcell.ColorDefault, err
	}
	r, g, b := c.RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b)), nil
}

// MustParseHexColor converts a hex color string to tcell.Color, panicking on error.
func MustParseHexColor(hex string) tcell.Color {
	color, err := ParseHexColor(hex)
	if err != nil {
		panic(err)
	}
	return color
}

// Darken returns the hex colour blended 30% towards black in Lab space.
// The guide cadet is drawn in a darker shade of the flight colour.
func Darken(hex string) (string, error) {
	c, err := parseHex(hex)
	if err != nil {
		return "", err
	}
	return c.BlendLab(colorful.Color{}, 0.3).Clamped().Hex(), nil
}

func parseHex(hex string) (colorful.Color, error) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return colorful.Color{}, fmt.Errorf("invalid hex color length: %s", hex)
	}
	c, err := colorful.Hex("#" + hex)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("invalid hex color %s: %w", hex, err)
	}
	return c, nil
}

// Palette maps render roles and drill states to hex colours. Colour is a
// rendering concern only; the core exposes states as enums.
type Palette struct {
	Roles  map[string]string `json:"roles"`
	States map[string]string `json:"states"`
}

// Role returns the tcell colour for a render role, or fallback.
func (p *Palette) Role(name string, fallback tcell.Color) tcell.Color {
	return lookupColor(p.Roles, name, fallback)
}

// State returns the tcell colour for a drill state name, or fallback.
func (p *Palette) State(name string, fallback tcell.Color) tcell.Color {
	return lookupColor(p.States, name, fallback)
}

func lookupColor(m map[string]string, name string, fallback tcell.Color) tcell.Color {
	hex, ok := m[name]
	if !ok {
		return fallback
	}
	color, err := ParseHexColor(hex)
	if err != nil {
		return fallback
	}
	return color
}

// LoadPalette loads the colour palette from the embedded palette.json file.
func LoadPalette() (*Palette, error) {
	palette, err := Load[Palette]("palette.json")
	if err != nil {
		return nil, err
	}
	return &palette, nil
}
