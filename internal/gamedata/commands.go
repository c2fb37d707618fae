package gamedata

import (
	"strings"
	"unicode/utf8"
)

// Maneuver names the formation operation a drill command performs.
// Several catalog entries share a maneuver (e.g. every "Forward, March").
type Maneuver string

const (
	ManeuverFallIn      Maneuver = "fallIn"
	ManeuverOpenRanks   Maneuver = "openRanks"
	ManeuverCloseRanks  Maneuver = "closeRanks"
	ManeuverReadyFront  Maneuver = "readyFront"
	ManeuverPresentArms Maneuver = "presentArms"
	ManeuverOrderArms   Maneuver = "orderArms"
	ManeuverParadeRest  Maneuver = "paradeRest"
	ManeuverAttention   Maneuver = "attention"
	ManeuverLeftFace    Maneuver = "leftFace"
	ManeuverRightFace   Maneuver = "rightFace"
	ManeuverAboutFace   Maneuver = "aboutFace"
	ManeuverForward     Maneuver = "forward"
	ManeuverHalt        Maneuver = "halt"
	ManeuverRightFlank  Maneuver = "rightFlank"
	ManeuverLeftFlank   Maneuver = "leftFlank"
	ManeuverColumnRight Maneuver = "columnRight"
	ManeuverColumnLeft  Maneuver = "columnLeft"
	ManeuverToTheRear   Maneuver = "toTheRear"
	ManeuverEyesRight   Maneuver = "eyesRight"
	ManeuverChangeStep  Maneuver = "changeStep"
	ManeuverRightStep   Maneuver = "rightStep"
)

// CommandDef defines one drill command loaded from JSON.
type CommandDef struct {
	ID                int      `json:"id"`                          // Position in the canonical sequence
	Name              string   `json:"name"`                        // Spoken command (e.g., "Left Face")
	Key               string   `json:"key"`                         // Trigger key name (e.g., "l", "ArrowUp")
	Maneuver          Maneuver `json:"maneuver"`                    // Formation operation performed
	Description       string   `json:"description"`                 // Help text
	IsHaltCommand     bool     `json:"isHaltCommand"`               // Given while halted (true) or marching (false)
	InitiatesMovement bool     `json:"initiatesMovement,omitempty"` // Flight starts moving
	StopsMovement     bool     `json:"stopsMovement,omitempty"`     // Flight stops moving
}

// Precondition returns "halted" or "marching", the state class the command
// must be given from.
func (c *CommandDef) Precondition() string {
	if c.IsHaltCommand {
		return "halted"
	}
	return "marching"
}

// DisplayKey returns the key as shown to the player.
func (c *CommandDef) DisplayKey() string {
	switch c.Key {
	case "ArrowUp":
		return "↑"
	case "ArrowDown":
		return "↓"
	case "ArrowLeft":
		return "←"
	case "ArrowRight":
		return "→"
	}
	return c.Key
}

// NormalizeKey folds a raw key name into catalog form. Single letters are
// lower-cased so shifted letters trigger the same command.
func NormalizeKey(key string) string {
	if utf8.RuneCountInString(key) == 1 {
		return strings.ToLower(key)
	}
	return key
}

// CommandsFile represents the structure of commands.json.
type CommandsFile struct {
	Commands []CommandDef `json:"commands"`
}

// LoadCommands loads command definitions from the embedded commands.json file.
func LoadCommands() ([]CommandDef, error) {
	file, err := Load[CommandsFile]("commands.json")
	if err != nil {
		return nil, err
	}
	return file.Commands, nil
}
