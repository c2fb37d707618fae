package game

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Mode selects whether the session shows feedback on every command.
type Mode string

const (
	ModePractice   Mode = "practice"
	ModeEvaluation Mode = "evaluation"
)

// UnmarshalText parses a mode name, case-insensitively.
func (m *Mode) UnmarshalText(text []byte) error {
	switch Mode(strings.ToLower(strings.TrimSpace(string(text)))) {
	case ModePractice:
		*m = ModePractice
	case ModeEvaluation:
		*m = ModeEvaluation
	default:
		return fmt.Errorf("unknown mode %q", text)
	}
	return nil
}

// Config holds game configuration options.
type Config struct {
	Mode Mode `env:"DRILLSIM_MODE" envDefault:"practice"`

	// TimeLimit is the drill time before overtime penalties start.
	TimeLimit time.Duration `env:"DRILLSIM_TIME_LIMIT" envDefault:"180s"`
	// SafetyCutoff ends the session regardless of progress.
	SafetyCutoff time.Duration `env:"DRILLSIM_SAFETY_CUTOFF" envDefault:"300s"`

	// CadencePeriod is one marching step; CadenceWindow is how far from the
	// beat a command still counts as on cadence.
	CadencePeriod time.Duration `env:"DRILLSIM_CADENCE_PERIOD" envDefault:"500ms"`
	CadenceWindow time.Duration `env:"DRILLSIM_CADENCE_WINDOW" envDefault:"100ms"`

	TickInterval time.Duration `env:"DRILLSIM_TICK_INTERVAL" envDefault:"16ms"`
	Audio        bool          `env:"DRILLSIM_AUDIO" envDefault:"true"`
	LogFile      string        `env:"DRILLSIM_LOG_FILE" envDefault:"drillsim.log"`
}

// DefaultConfig returns the configuration used when no environment is set.
func DefaultConfig() Config {
	return Config{
		Mode:          ModePractice,
		TimeLimit:     180 * time.Second,
		SafetyCutoff:  300 * time.Second,
		CadencePeriod: 500 * time.Millisecond,
		CadenceWindow: 100 * time.Millisecond,
		TickInterval:  16 * time.Millisecond,
		Audio:         true,
		LogFile:       "drillsim.log",
	}
}

// LoadConfig reads the configuration from DRILLSIM_* environment variables.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the durations are usable.
func (c Config) Validate() error {
	switch {
	case c.Mode != ModePractice && c.Mode != ModeEvaluation:
		return fmt.Errorf("invalid mode %q", c.Mode)
	case c.TimeLimit <= 0:
		return fmt.Errorf("time limit must be positive, got %v", c.TimeLimit)
	case c.SafetyCutoff < c.TimeLimit:
		return fmt.Errorf("safety cutoff %v is shorter than the time limit %v", c.SafetyCutoff, c.TimeLimit)
	case c.CadencePeriod <= 0:
		return fmt.Errorf("cadence period must be positive, got %v", c.CadencePeriod)
	case c.CadenceWindow < 0 || 2*c.CadenceWindow > c.CadencePeriod:
		return fmt.Errorf("cadence window %v does not fit period %v", c.CadenceWindow, c.CadencePeriod)
	case c.TickInterval <= 0:
		return fmt.Errorf("tick interval must be positive, got %v", c.TickInterval)
	}
	return nil
}
