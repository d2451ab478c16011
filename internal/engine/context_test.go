package engine

import (
	"errors"
	"math/rand/v2"
	"reflect"
	"testing"

	"github.com/robalobadob/hangman/internal/fx"
	"github.com/robalobadob/hangman/internal/game"
	"github.com/robalobadob/hangman/internal/words"
)

type cueRecorder struct{ cues []string }

func (r *cueRecorder) PlayCue(name string) error {
	r.cues = append(r.cues, name)
	return nil
}

func newTestContext(t *testing.T, word string, rules game.Rules) (*GameContext, *cueRecorder) {
	t.Helper()
	rng := rand.New(rand.NewPCG(11, 42))
	s, err := game.NewWithWord(word, "ANIMAUX", rng, rules)
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	rec := &cueRecorder{}
	g := NewWithSession(s, rng, Options{Player: rec, SoundEnabled: true, Volume: 0.3})
	return g, rec
}

// onScreen counts pool slots currently showing c.
func onScreen(g *GameContext, c rune) int {
	n := 0
	for _, l := range g.letters.Slots() {
		if l.Letter == c {
			n++
		}
	}
	return n
}

// guess applies c and returns the number of particles it spawned.
func guess(t *testing.T, g *GameContext, c rune) (game.GuessOutcome, int) {
	t.Helper()
	before := g.particles.Len()
	out, err := g.GuessLetter(c)
	if err != nil {
		t.Fatalf("guess %c: %v", c, err)
	}
	return out, g.particles.Len() - before
}

func TestWrongLetterEffects(t *testing.T) {
	g, rec := newTestContext(t, "CAT", game.DefaultRules())
	falling := onScreen(g, 'Z')

	out, spawned := guess(t, g, 'z')
	if out != game.OutcomeAccepted {
		t.Fatalf("outcome %s", out)
	}
	if want := fx.DefaultBurst + falling*fx.ExplosionParticles; spawned != want {
		t.Fatalf("spawned %d particles, want %d", spawned, want)
	}
	if onScreen(g, 'Z') > falling {
		t.Fatal("exploded letters not recycled")
	}
	if !reflect.DeepEqual(rec.cues, []string{"error"}) {
		t.Fatalf("cues %v", rec.cues)
	}

	// the feedback burst is the last one spawned
	ps := g.particles.Particles()
	for _, p := range ps[len(ps)-fx.DefaultBurst:] {
		if p.Color != fx.Red || p.Pos != (fx.Vec2{X: 500, Y: 300}) {
			t.Fatalf("wrong-letter burst particle %+v", p)
		}
	}
}

func TestCorrectLetterEffects(t *testing.T) {
	g, rec := newTestContext(t, "CAT", game.DefaultRules())
	falling := onScreen(g, 'A')

	_, spawned := guess(t, g, 'A')
	if want := fx.DefaultBurst + falling*fx.ExplosionParticles; spawned != want {
		t.Fatalf("spawned %d particles, want %d", spawned, want)
	}
	for _, p := range g.particles.Particles() {
		if p.Color != fx.Green {
			t.Fatalf("correct guess spawned %+v", p.Color)
		}
	}
	ps := g.particles.Particles()
	for _, p := range ps[len(ps)-fx.DefaultBurst:] {
		if p.Pos != (fx.Vec2{X: 500, Y: 500}) {
			t.Fatalf("correct burst at %+v", p.Pos)
		}
	}
	if !reflect.DeepEqual(rec.cues, []string{"correct"}) {
		t.Fatalf("cues %v", rec.cues)
	}
}

func TestWinCelebration(t *testing.T) {
	g, rec := newTestContext(t, "CAT", game.DefaultRules())
	guess(t, g, 'C')
	guess(t, g, 'A')

	falling := onScreen(g, 'T')
	_, spawned := guess(t, g, 'T')
	if want := fx.DefaultBurst + VictoryParticles + falling*fx.ExplosionParticles; spawned != want {
		t.Fatalf("winning guess spawned %d, want %d", spawned, want)
	}
	if g.Session().Status() != game.StatusWon {
		t.Fatalf("status %s", g.Session().Status())
	}

	festive := map[fx.Color]bool{}
	for _, c := range fx.FestiveColors {
		festive[c] = true
	}
	ps := g.particles.Particles()
	for _, p := range ps[len(ps)-VictoryParticles:] {
		if !festive[p.Color] || p.Pos != (fx.Vec2{X: 500, Y: 350}) {
			t.Fatalf("victory particle %+v", p)
		}
	}
	want := []string{"correct", "correct", "correct", "victory"}
	if !reflect.DeepEqual(rec.cues, want) {
		t.Fatalf("cues %v, want %v", rec.cues, want)
	}
}

func TestLoseCue(t *testing.T) {
	g, rec := newTestContext(t, "CAT", game.Rules{MaxPenalties: 2, WrongLetterCost: 1, HintCost: 5})
	guess(t, g, 'X')
	guess(t, g, 'Y')
	if g.Session().Status() != game.StatusLost {
		t.Fatalf("status %s", g.Session().Status())
	}
	want := []string{"error", "error", "defeat"}
	if !reflect.DeepEqual(rec.cues, want) {
		t.Fatalf("cues %v, want %v", rec.cues, want)
	}

	// frozen: further guesses change nothing
	out, spawned := guess(t, g, 'C')
	if out != game.OutcomeRejectedGameOver || spawned != 0 || len(rec.cues) != 3 {
		t.Fatalf("post-game guess: %s, %d particles, cues %v", out, spawned, rec.cues)
	}
}

func TestHintHasNoEffects(t *testing.T) {
	g, rec := newTestContext(t, "ELEPHANT", game.DefaultRules())
	before := g.particles.Len()
	out := g.Hint()
	if !out.Applied || len(out.Letters) != 2 {
		t.Fatalf("hint %+v", out)
	}
	if g.particles.Len() != before || len(rec.cues) != 0 {
		t.Fatalf("hint produced effects: %d particles, cues %v", g.particles.Len()-before, rec.cues)
	}
	f := g.Tick()
	if len(f.Events) != 1 || f.Events[0].Type != game.EventHintGiven || len(f.Events[0].Letters) != 2 {
		t.Fatalf("frame events %+v", f.Events)
	}
}

func TestRejectedGuessesHaveNoEffects(t *testing.T) {
	g, rec := newTestContext(t, "CAT", game.DefaultRules())
	guess(t, g, 'C')
	rec.cues = nil

	out, spawned := guess(t, g, 'c')
	if out != game.OutcomeRejectedDuplicate || spawned != 0 || len(rec.cues) != 0 {
		t.Fatalf("duplicate: %s, %d particles, cues %v", out, spawned, rec.cues)
	}

	before := g.particles.Len()
	if _, err := g.GuessLetter('7'); !errors.Is(err, game.ErrInvalidLetter) {
		t.Fatalf("err = %v", err)
	}
	if g.particles.Len() != before || g.Session().Penalties() != 0 {
		t.Fatal("invalid letter changed state")
	}
}

func TestFrameCarriesCuesOnce(t *testing.T) {
	g, _ := newTestContext(t, "CAT", game.DefaultRules())
	guess(t, g, 'Q')

	snap := g.Snapshot()
	if !reflect.DeepEqual(snap.Cues, []string{"error"}) {
		t.Fatalf("snapshot cues %v", snap.Cues)
	}
	f := g.Tick()
	if !reflect.DeepEqual(f.Cues, []string{"error"}) || f.Seq != 1 || f.Time != 1 {
		t.Fatalf("first frame %+v", f)
	}
	if len(f.Events) != 1 || f.Events[0].Letter != "Q" {
		t.Fatalf("events %+v", f.Events)
	}
	if f2 := g.Tick(); len(f2.Cues) != 0 || len(f2.Events) != 0 {
		t.Fatalf("cues repeated: %+v", f2.Cues)
	}
	if len(f.Letters) != fx.DefaultPoolSize || f.Letters[0].Letter == "" {
		t.Fatalf("letters %+v", f.Letters)
	}
	if f.Game.Word != "" {
		t.Fatal("word leaked before the round ended")
	}
}

func TestSoundToggleSilencesCues(t *testing.T) {
	g, rec := newTestContext(t, "CAT", game.DefaultRules())
	if g.ToggleSound() {
		t.Fatal("sound should now be off")
	}
	guess(t, g, 'Q')
	if len(rec.cues) != 0 || len(g.Snapshot().Cues) != 0 {
		t.Fatalf("cue fired while muted: %v", rec.cues)
	}
	if v := g.AdjustVolume(1); v != 1 {
		t.Fatalf("volume %f", v)
	}
	if s := g.Snapshot().Sound; s.Enabled || s.Volume != 1 {
		t.Fatalf("sound settings %+v", s)
	}
}

func TestNewGame(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	cat, err := words.New(map[string][]string{"ANIMAUX": {"CHAT"}}, map[string][]string{"FACILE": {"CHAT"}})
	if err != nil {
		t.Fatal(err)
	}
	g, err := New(cat, rng, Options{PoolSize: 5})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if g.Letters().Len() != 5 {
		t.Fatalf("pool %d", g.Letters().Len())
	}
	first := g.Session().ID()
	g.ToggleLabel()
	guess(t, g, 'Z')

	if err := g.NewGame(); err != nil {
		t.Fatalf("new game: %v", err)
	}
	if g.Session().ID() == first || g.Session().Penalties() != 0 || g.ShowLabel() {
		t.Fatal("round not replaced")
	}
	if g.Particles().Len() == 0 {
		t.Fatal("live particles should carry over")
	}
}

func TestNewGameFailureKeepsRound(t *testing.T) {
	g, _ := newTestContext(t, "CAT", game.DefaultRules())
	guess(t, g, 'C')
	id := g.Session().ID()
	if err := g.NewGame(); !errors.Is(err, words.ErrEmptyCatalog) {
		t.Fatalf("err = %v", err)
	}
	if g.Session().ID() != id || len(g.Session().Guessed()) != 1 {
		t.Fatal("failed NewGame replaced the round")
	}
}

func TestNewFailsWithoutWords(t *testing.T) {
	_, err := New(emptySource{}, rand.New(rand.NewPCG(1, 1)), Options{})
	if !errors.Is(err, words.ErrEmptyCatalog) {
		t.Fatalf("err = %v", err)
	}
}

type emptySource struct{}

func (emptySource) SelectWord(words.Rand) (string, string, error) {
	return "", "", words.ErrEmptyCatalog
}
