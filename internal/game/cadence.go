package game

import "time"

// Cadence is the marching tempo oscillator. It only advances while the
// flight marches; the session decides when to call Advance.
type Cadence struct {
	Period time.Duration
	Window time.Duration
	phase  time.Duration
}

// NewCadence creates a cadence at phase zero, which is on the beat.
func NewCadence(period, window time.Duration) *Cadence {
	return &Cadence{Period: period, Window: window}
}

// Advance moves the phase by dt and returns the number of beats crossed.
func (c *Cadence) Advance(dt time.Duration) int {
	if dt <= 0 || c.Period <= 0 {
		return 0
	}
	total := c.phase + dt
	c.phase = total % c.Period
	return int(total / c.Period)
}

// OnBeat reports whether the current phase is within the window either
// side of a beat.
func (c *Cadence) OnBeat() bool {
	return c.phase < c.Window || c.phase > c.Period-c.Window
}

// Phase returns the time since the last beat.
func (c *Cadence) Phase() time.Duration {
	return c.phase
}

// Reset puts the cadence back on the beat.
func (c *Cadence) Reset() {
	c.phase = 0
}
