package fx

import (
	"math/rand/v2"
	"testing"
)

func newRand() *rand.Rand { return rand.New(rand.NewPCG(5, 77)) }

func TestParticleTickLifecycle(t *testing.T) {
	f := NewParticleField(newRand())
	f.Spawn(Vec2{X: 100, Y: 100}, Green, Vec2{X: 1, Y: -2})

	f.Tick()
	p := f.Particles()[0]
	if p.Pos != (Vec2{X: 101, Y: 98}) {
		t.Fatalf("pos after one tick = %+v", p.Pos)
	}
	if p.Life != ParticleLife-ParticleDecay {
		t.Fatalf("life = %d", p.Life)
	}

	ticks := 1
	for f.Len() > 0 {
		f.Tick()
		ticks++
		if ticks > 1000 {
			t.Fatal("particle never died")
		}
	}
	if want := ParticleLife / ParticleDecay; ticks != want {
		t.Fatalf("particle lived %d ticks, want %d", ticks, want)
	}
}

func TestParticleShrinks(t *testing.T) {
	f := NewParticleField(newRand())
	f.Spawn(Vec2{}, Red, Vec2{})
	start := f.Particles()[0].Size
	if start < 2 || start >= 5 {
		t.Fatalf("initial size %f out of [2,5)", start)
	}
	f.Tick()
	if got := f.Particles()[0].Size; got != start*ParticleShrink {
		t.Fatalf("size %f, want %f", got, start*ParticleShrink)
	}
}

func TestSpawnBurst(t *testing.T) {
	f := NewParticleField(newRand())
	origin := Vec2{X: 500, Y: 300}

	f.SpawnBurst(origin, Red, 0)
	if f.Len() != DefaultBurst {
		t.Fatalf("default burst = %d particles", f.Len())
	}
	f.SpawnBurst(origin, Green, 50)
	if f.Len() != DefaultBurst+50 {
		t.Fatalf("len = %d", f.Len())
	}

	f.Tick()
	for _, p := range f.Particles() {
		dx, dy := p.Pos.X-origin.X, p.Pos.Y-origin.Y
		if dx < -3 || dx > 3 || dy < -5 || dy > -1 {
			t.Fatalf("burst velocity out of range: (%f, %f)", dx, dy)
		}
	}
}

func TestParticlesIsCopy(t *testing.T) {
	f := NewParticleField(newRand())
	f.Spawn(Vec2{}, Red, Vec2{})
	ps := f.Particles()
	ps[0].Life = -1
	if f.Particles()[0].Life != ParticleLife {
		t.Fatal("Particles leaked internal state")
	}
}

func poolOf(t *testing.T, letters string) *FallingLetterField {
	t.Helper()
	f := NewFallingLetterField(len(letters), DefaultBounds, newRand())
	for i, c := range letters {
		f.slots[i].Letter = c
		f.slots[i].Pos = Vec2{X: float64(10 * i), Y: 300}
	}
	return f
}

func TestExplodeMatchingTwoQ(t *testing.T) {
	f := poolOf(t, "AAAQBBBBCCCCDDDDQEEEFFFGG")
	particles := NewParticleField(newRand())

	n := f.ExplodeMatching('q', false, particles)
	if n != 2 {
		t.Fatalf("exploded %d, want 2", n)
	}
	if particles.Len() != 2*ExplosionParticles {
		t.Fatalf("particles = %d, want %d", particles.Len(), 2*ExplosionParticles)
	}
	for _, i := range []int{3, 16} {
		l := f.Slot(i)
		if l.Pos.Y >= 0 || l.Pos.Y < spawnTopMin {
			t.Fatalf("slot %d y=%f not above the screen", i, l.Pos.Y)
		}
		if len(l.Trail) != 0 || len(l.Sparkles) != 0 {
			t.Fatalf("slot %d visual state not reset", i)
		}
	}
	for i := range f.slots {
		if i == 3 || i == 16 {
			continue
		}
		if f.Slot(i).Pos.Y != 300 {
			t.Fatalf("slot %d moved without exploding", i)
		}
	}
	for _, p := range particles.Particles() {
		if p.Color != Red {
			t.Fatalf("wrong-letter explosion colour %+v", p.Color)
		}
		if p.Pos.Y < 290 || p.Pos.Y > 310 {
			t.Fatalf("particle spawned at y=%f, want 300±10", p.Pos.Y)
		}
	}
	if f.Len() != 25 {
		t.Fatalf("pool size changed to %d", f.Len())
	}
}

func TestExplodeMatchingColourAndVelocity(t *testing.T) {
	f := poolOf(t, "ZZZ")
	particles := NewParticleField(newRand())
	if n := f.ExplodeMatching('Z', true, particles); n != 3 {
		t.Fatalf("exploded %d", n)
	}
	before := particles.Particles()
	particles.Tick()
	after := particles.Particles()
	for i := range after {
		if after[i].Color != Green {
			t.Fatalf("correct-letter explosion colour %+v", after[i].Color)
		}
		dx, dy := after[i].Pos.X-before[i].Pos.X, after[i].Pos.Y-before[i].Pos.Y
		if dx < -5 || dx > 5 || dy < -8 || dy > -2 {
			t.Fatalf("explosion velocity (%f, %f) out of range", dx, dy)
		}
	}
}

func TestExplodeMatchingNone(t *testing.T) {
	f := poolOf(t, "ABC")
	particles := NewParticleField(newRand())
	if n := f.ExplodeMatching('X', true, particles); n != 0 || particles.Len() != 0 {
		t.Fatalf("exploded %d, particles %d", n, particles.Len())
	}
}

func TestFallingTick(t *testing.T) {
	f := NewFallingLetterField(0, DefaultBounds, newRand())
	if f.Len() != DefaultPoolSize {
		t.Fatalf("default pool = %d", f.Len())
	}
	for _, l := range f.Slots() {
		if l.Pos.Y < spawnTopMin || l.Pos.Y > spawnTopMax || l.Pos.X < 0 || l.Pos.X > DefaultBounds.Width {
			t.Fatalf("spawned outside the spawn band: %+v", l.Pos)
		}
		if l.Speed < 1 || l.Speed >= 4 || l.Letter < 'A' || l.Letter > 'Z' {
			t.Fatalf("bad spawn %+v", l)
		}
	}

	start := f.Slot(0)
	f.Tick()
	if got := f.Slot(0).Pos.Y; got != start.Pos.Y+start.Speed {
		t.Fatalf("y after tick = %f, want %f", got, start.Pos.Y+start.Speed)
	}

	for i := 0; i < 40; i++ {
		f.Tick()
	}
	for _, l := range f.Slots() {
		if len(l.Trail) > trailLength {
			t.Fatalf("trail grew to %d", len(l.Trail))
		}
	}
}

func TestFallingRecyclesOffscreen(t *testing.T) {
	f := NewFallingLetterField(1, DefaultBounds, newRand())
	f.slots[0].Pos.Y = DefaultBounds.Height + respawnMargin
	f.slots[0].Speed = 2
	f.Tick()
	if y := f.Slot(0).Pos.Y; y >= 0 {
		t.Fatalf("letter past the bottom not recycled, y=%f", y)
	}
	if len(f.Slot(0).Trail) != 0 {
		t.Fatal("recycled letter kept its trail")
	}
}

func TestSparklesFade(t *testing.T) {
	f := NewFallingLetterField(3, Bounds{Width: 100, Height: 100000}, newRand())
	seen := false
	for i := 0; i < 300; i++ {
		f.Tick()
		for _, l := range f.Slots() {
			for _, s := range l.Sparkles {
				seen = true
				if s.Alpha <= 0 || s.Life <= 0 {
					t.Fatalf("dead sparkle kept: %+v", s)
				}
			}
		}
	}
	if !seen {
		t.Fatal("no sparkle ever spawned")
	}
}
