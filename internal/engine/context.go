// internal/engine/context.go
//
// The game orchestrator.
// Responsibilities:
//   - Own one round (game.Session), the falling letters, the particles, the
//     audio dispatcher and the shared random source.
//   - Turn presenter input into state machine calls and the state machine's
//     events into visual and audio effects.
//   - Advance the animation one frame per Tick and snapshot it for the
//     presenter.
//
// Notes:
//   - GameContext has no locks. It must be driven from one goroutine at a
//     time (see Loop).

package engine

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/hangman/internal/audio"
	"github.com/robalobadob/hangman/internal/fx"
	"github.com/robalobadob/hangman/internal/game"
)

const (
	// VictoryParticles is the size of the win celebration.
	VictoryParticles = 50

	// burst heights for letter feedback
	wrongBurstY   = 300
	correctBurstY = 500
)

// Options configure a GameContext. Zero Rules, Bounds and PoolSize fall
// back to defaults.
type Options struct {
	Rules        game.Rules
	Bounds       fx.Bounds
	PoolSize     int
	Player       audio.Player
	SoundEnabled bool
	Volume       float64
}

// GameContext is the whole running game.
type GameContext struct {
	rng       game.Rand
	bounds    fx.Bounds
	session   *game.Session
	letters   *fx.FallingLetterField
	particles *fx.ParticleField
	audio     *audio.Dispatcher

	seq       uint64
	animTime  int
	showLabel bool

	// effects fired since the last Tick
	pendingEvents []game.Event
	pendingCues   []string
}

// New starts the first round from src. Fails when src cannot supply a word.
func New(src game.WordSource, rng game.Rand, opts Options) (*GameContext, error) {
	if opts.Bounds.Width <= 0 || opts.Bounds.Height <= 0 {
		opts.Bounds = fx.DefaultBounds
	}
	s, err := game.New(src, rng, opts.Rules)
	if err != nil {
		return nil, fmt.Errorf("engine: first round: %w", err)
	}
	return newContext(s, rng, opts), nil
}

// NewWithSession wraps an existing session (fixed words in tests).
func NewWithSession(s *game.Session, rng game.Rand, opts Options) *GameContext {
	if opts.Bounds.Width <= 0 || opts.Bounds.Height <= 0 {
		opts.Bounds = fx.DefaultBounds
	}
	return newContext(s, rng, opts)
}

func newContext(s *game.Session, rng game.Rand, opts Options) *GameContext {
	return &GameContext{
		rng:       rng,
		bounds:    opts.Bounds,
		session:   s,
		letters:   fx.NewFallingLetterField(opts.PoolSize, opts.Bounds, rng),
		particles: fx.NewParticleField(rng),
		audio:     audio.NewDispatcher(opts.Player, opts.SoundEnabled, opts.Volume),
	}
}

// Session exposes the current round (read-only use).
func (g *GameContext) Session() *game.Session { return g.session }

// Particles exposes the particle field (read-only use).
func (g *GameContext) Particles() *fx.ParticleField { return g.particles }

// Letters exposes the falling letter pool (read-only use).
func (g *GameContext) Letters() *fx.FallingLetterField { return g.letters }

// ------------------------------ commands -----------------------------------

// NewGame replaces the round with a fresh word. The letter rain and live
// particles carry over. On error the current round stays.
func (g *GameContext) NewGame() error {
	if err := g.session.Reset(); err != nil {
		return err
	}
	g.showLabel = false
	return nil
}

// GuessLetter applies a letter. An accepted letter also explodes the
// matching falling letters, green when the word contains it.
func (g *GameContext) GuessLetter(c rune) (game.GuessOutcome, error) {
	outcome, events, err := g.session.GuessLetter(c)
	if err != nil {
		return outcome, err
	}
	if outcome == game.OutcomeAccepted {
		up, _ := game.NormalizeLetter(c)
		n := g.letters.ExplodeMatching(up, g.session.Contains(up), g.particles)
		log.Debug().Str("letter", string(up)).Int("exploded", n).Msg("falling letters exploded")
	}
	g.dispatch(events)
	return outcome, nil
}

// Hint reveals letters for a penalty.
func (g *GameContext) Hint() game.HintOutcome {
	out, events := g.session.GiveHint()
	g.dispatch(events)
	return out
}

// ToggleSound flips the sound switch.
func (g *GameContext) ToggleSound() bool { return g.audio.ToggleSound() }

// AdjustVolume moves the music volume by delta, clamped to [0,1].
func (g *GameContext) AdjustVolume(delta float64) float64 { return g.audio.AdjustVolume(delta) }

// ToggleLabel flips the category hint display.
func (g *GameContext) ToggleLabel() bool {
	g.showLabel = !g.showLabel
	return g.showLabel
}

// ShowLabel reports whether the category hint is displayed.
func (g *GameContext) ShowLabel() bool { return g.showLabel }

// --------------------------- event dispatch --------------------------------

// dispatch maps state machine events to effects:
//
//	WRONG_LETTER   red burst at (W/2, 300), cue "error"
//	CORRECT_LETTER green burst at (W/2, 500), cue "correct"
//	WIN            50 festive particles at the centre, cue "victory"
//	LOSE           cue "defeat"
//	HINT_GIVEN     nothing
func (g *GameContext) dispatch(events []game.Event) {
	for _, ev := range events {
		g.pendingEvents = append(g.pendingEvents, ev)
		switch ev.Type {
		case game.EventWrongLetter:
			g.particles.SpawnBurst(fx.Vec2{X: g.bounds.Width / 2, Y: wrongBurstY}, fx.Red, fx.DefaultBurst)
			g.play(audio.CueError)
		case game.EventCorrectLetter:
			g.particles.SpawnBurst(fx.Vec2{X: g.bounds.Width / 2, Y: correctBurstY}, fx.Green, fx.DefaultBurst)
			g.play(audio.CueCorrect)
		case game.EventWin:
			center := fx.Vec2{X: g.bounds.Width / 2, Y: g.bounds.Height / 2}
			for i := 0; i < VictoryParticles; i++ {
				g.particles.SpawnBurst(center, fx.PickColor(g.rng, fx.FestiveColors), 1)
			}
			g.play(audio.CueVictory)
		case game.EventLose:
			g.play(audio.CueDefeat)
		case game.EventHintGiven:
		}
	}
}

func (g *GameContext) play(cue string) {
	if g.audio.Settings().Enabled {
		g.pendingCues = append(g.pendingCues, cue)
	}
	g.audio.Play(cue)
}

// ------------------------------- frames ------------------------------------

// Tick advances the animation one frame and returns the frame, carrying
// the events and cues fired since the previous Tick.
func (g *GameContext) Tick() Frame {
	g.seq++
	g.animTime++
	g.particles.Tick()
	g.letters.Tick()

	f := g.Snapshot()
	g.pendingEvents = g.pendingEvents[:0]
	g.pendingCues = g.pendingCues[:0]
	return f
}

// Snapshot returns the current frame without advancing it.
func (g *GameContext) Snapshot() Frame {
	slots := g.letters.Slots()
	letters := make([]LetterView, len(slots))
	for i, l := range slots {
		letters[i] = LetterView{FallingLetter: l, Letter: string(l.Letter)}
	}
	events := make([]EventView, len(g.pendingEvents))
	for i, ev := range g.pendingEvents {
		events[i] = newEventView(ev)
	}
	return Frame{
		Seq:       g.seq,
		Time:      g.animTime,
		Width:     g.bounds.Width,
		Height:    g.bounds.Height,
		Game:      g.session.View(),
		ShowLabel: g.showLabel,
		Sound:     g.audio.Settings(),
		Letters:   letters,
		Particles: g.particles.Particles(),
		Events:    events,
		Cues:      append([]string{}, g.pendingCues...),
	}
}
