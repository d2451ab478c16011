// internal/audio/audio.go
//
// Audio cue dispatch for the game engine.
// Responsibilities:
//   - Define the external cue interface (Player) the engine talks to.
//   - Wrap it in a fire-and-forget Dispatcher: errors and panics from the
//     player are logged and swallowed, never returned to game logic.
//   - Hold the sound on/off switch and the music volume (0..1).
//
// Waveform synthesis and device output live behind Player; nothing here
// produces sound.

package audio

import (
	"errors"
	"fmt"
	"math"

	"github.com/rs/zerolog/log"
)

// Cue names.
const (
	CueCorrect = "correct"
	CueError   = "error"
	CueVictory = "victory"
	CueDefeat  = "defeat"
)

// Player plays a named cue. Implementations may fail; the Dispatcher copes.
type Player interface {
	PlayCue(name string) error
}

// VolumeSetter is implemented by players that apply the music volume.
type VolumeSetter interface {
	SetVolume(v float64) error
}

// PlayerFunc adapts a function to Player.
type PlayerFunc func(name string) error

// PlayCue calls f(name).
func (f PlayerFunc) PlayCue(name string) error { return f(name) }

// Settings is the user-facing sound state.
type Settings struct {
	Enabled bool    `json:"enabled"`
	Volume  float64 `json:"volume"`
}

// Dispatcher forwards cues to a Player without ever failing the caller.
type Dispatcher struct {
	player  Player
	enabled bool
	volume  float64
}

// NewDispatcher wraps p. A nil player makes every cue a logged no-op.
func NewDispatcher(p Player, enabled bool, volume float64) *Dispatcher {
	d := &Dispatcher{player: p, enabled: enabled}
	d.SetVolume(volume)
	return d
}

// Play fires a cue. It never returns an error and never panics.
func (d *Dispatcher) Play(name string) {
	if !d.enabled {
		log.Debug().Str("cue", name).Msg("sound disabled, cue skipped")
		return
	}
	if d.player == nil {
		log.Debug().Str("cue", name).Msg("no audio player, cue skipped")
		return
	}
	if err := safeCall(func() error { return d.player.PlayCue(name) }); err != nil {
		log.Warn().Err(err).Str("cue", name).Msg("play cue failed")
	}
}

// Settings returns the current sound state.
func (d *Dispatcher) Settings() Settings {
	return Settings{Enabled: d.enabled, Volume: d.volume}
}

// ToggleSound flips the sound switch and returns the new state.
func (d *Dispatcher) ToggleSound() bool {
	d.enabled = !d.enabled
	log.Info().Bool("enabled", d.enabled).Msg("sound toggled")
	return d.enabled
}

// AdjustVolume adds delta to the volume, clamped to [0,1].
func (d *Dispatcher) AdjustVolume(delta float64) float64 {
	return d.SetVolume(d.volume + delta)
}

// SetVolume sets the volume, clamped to [0,1], and pushes it to the player
// when it supports volume. Returns the stored value.
func (d *Dispatcher) SetVolume(v float64) float64 {
	d.volume = clamp01(v)
	if vs, ok := d.player.(VolumeSetter); ok {
		if err := safeCall(func() error { return vs.SetVolume(d.volume) }); err != nil {
			log.Warn().Err(err).Float64("volume", d.volume).Msg("set volume failed")
		}
	}
	return d.volume
}

// safeCall runs fn and turns a panic into an error.
func safeCall(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("audio: player panicked: %v", r)
		}
	}()
	return fn()
}

func clamp01(v float64) float64 {
	switch {
	case v < 0 || math.IsNaN(v):
		return 0
	case v > 1:
		return 1
	}
	return v
}

// ---------------------------------------------------------------------------
// players
// ---------------------------------------------------------------------------

// LogPlayer logs cues instead of playing them (headless runs).
type LogPlayer struct{}

// PlayCue implements Player.
func (LogPlayer) PlayCue(name string) error {
	log.Debug().Str("cue", name).Msg("cue")
	return nil
}

// Multi fans a cue out to several players. Every player is called; the
// failures are joined.
type Multi []Player

// PlayCue implements Player.
func (m Multi) PlayCue(name string) error {
	var errs []error
	for _, p := range m {
		if err := safeCall(func() error { return p.PlayCue(name) }); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// SetVolume implements VolumeSetter for the players that support it.
func (m Multi) SetVolume(v float64) error {
	var errs []error
	for _, p := range m {
		if vs, ok := p.(VolumeSetter); ok {
			if err := safeCall(func() error { return vs.SetVolume(v) }); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
