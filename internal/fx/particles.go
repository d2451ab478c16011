package fx

const (
	// ParticleLife is the remaining life of a fresh particle.
	ParticleLife = 255
	// ParticleDecay is subtracted from life every tick.
	ParticleDecay = 3
	// ParticleShrink multiplies size every tick.
	ParticleShrink = 0.99

	// DefaultBurst is the particle count of a SpawnBurst when count <= 0.
	DefaultBurst = 10
)

// Particle is one short-lived dot. Life doubles as its alpha.
type Particle struct {
	Pos   Vec2    `json:"pos"`
	Vel   Vec2    `json:"-"`
	Color Color   `json:"color"`
	Life  int     `json:"life"`
	Size  float64 `json:"size"`
}

// ParticleField owns the live particles. There is no cap: spawns follow
// discrete game events and every particle dies after 85 ticks.
type ParticleField struct {
	rng       Rand
	particles []Particle
}

// NewParticleField returns an empty field.
func NewParticleField(rng Rand) *ParticleField {
	return &ParticleField{rng: rng}
}

// Spawn adds one particle with an explicit velocity.
func (f *ParticleField) Spawn(pos Vec2, c Color, vel Vec2) {
	f.particles = append(f.particles, Particle{
		Pos:   pos,
		Vel:   vel,
		Color: c,
		Life:  ParticleLife,
		Size:  uniform(f.rng, 2, 5),
	})
}

// SpawnBurst adds count particles at pos with velocities in
// x∈[-3,3), y∈[-5,-1) (upward fan).
func (f *ParticleField) SpawnBurst(pos Vec2, c Color, count int) {
	if count <= 0 {
		count = DefaultBurst
	}
	for i := 0; i < count; i++ {
		f.Spawn(pos, c, Vec2{X: uniform(f.rng, -3, 3), Y: uniform(f.rng, -5, -1)})
	}
}

// Tick moves, ages and shrinks every particle, then drops the dead ones.
func (f *ParticleField) Tick() {
	live := f.particles[:0]
	for _, p := range f.particles {
		p.Pos = p.Pos.Add(p.Vel)
		p.Life -= ParticleDecay
		p.Size *= ParticleShrink
		if p.Life > 0 {
			live = append(live, p)
		}
	}
	// clear dropped entries left in the backing array
	for i := len(live); i < len(f.particles); i++ {
		f.particles[i] = Particle{}
	}
	f.particles = live
}

// Len returns the number of live particles.
func (f *ParticleField) Len() int { return len(f.particles) }

// Particles returns a copy of the live particles.
func (f *ParticleField) Particles() []Particle {
	return append([]Particle(nil), f.particles...)
}

// Clear drops every particle.
func (f *ParticleField) Clear() { f.particles = f.particles[:0] }
