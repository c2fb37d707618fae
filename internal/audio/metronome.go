// Package audio plays the marching cadence click.
package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const (
	sampleRate = beep.SampleRate(44100)

	clickFreq     = 880.0
	clickLength   = 40 * time.Millisecond
	clickVolume   = -1.5 // log2 gain
	speakerBuffer = 100 * time.Millisecond
)

// Metronome clicks once per cadence beat. A disabled metronome, or one whose
// speaker failed to start, silently ignores Click.
type Metronome struct {
	mu      sync.Mutex
	mixer   *beep.Mixer
	enabled bool
	clicks  int
}

// NewMetronome creates a silent metronome. Call Start to open the speaker.
func NewMetronome() *Metronome {
	return &Metronome{mixer: &beep.Mixer{}}
}

// Start opens the speaker. On error the metronome stays silent.
func (m *Metronome) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.enabled {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(speakerBuffer)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	speaker.Play(m.mixer)
	m.enabled = true
	return nil
}

// Enabled reports whether clicks reach the speaker.
func (m *Metronome) Enabled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.enabled
}

// Click queues one beat.
func (m *Metronome) Click() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.clicks++
	if !m.enabled {
		return
	}
	click, err := newClick()
	if err != nil {
		return
	}
	speaker.Lock()
	m.mixer.Add(click)
	speaker.Unlock()
}

// Clicks returns the number of beats requested, audible or not.
func (m *Metronome) Clicks() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.clicks
}

// Close stops playback and releases the speaker.
func (m *Metronome) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.enabled {
		return
	}
	speaker.Clear()
	speaker.Close()
	m.enabled = false
}

// newClick builds a short, quiet sine burst.
func newClick() (beep.Streamer, error) {
	tone, err := generators.SineTone(sampleRate, clickFreq)
	if err != nil {
		return nil, err
	}
	return &effects.Volume{
		Streamer: beep.Take(sampleRate.N(clickLength), tone),
		Base:     2,
		Volume:   clickVolume,
	}, nil
}
