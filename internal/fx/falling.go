package fx

import "unicode"

const (
	// DefaultPoolSize is the number of falling letters on screen.
	DefaultPoolSize = 25

	// ExplosionParticles is the particle count of one exploded letter.
	ExplosionParticles = 15

	trailLength     = 5
	sparkleBatch    = 2
	alphabet        = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	respawnMargin   = 100 // recycled once y > height + margin
	spawnTopMin     = -200
	spawnTopMax     = -50
	explosionJitter = 10
)

// TrailPoint is a previous position of a falling letter.
type TrailPoint struct {
	Pos   Vec2 `json:"pos"`
	Alpha int  `json:"alpha"`
}

// Sparkle is a small companion dot drifting under a falling letter.
type Sparkle struct {
	Pos   Vec2    `json:"pos"`
	Color Color   `json:"color"`
	Speed float64 `json:"-"`
	Alpha int     `json:"alpha"`
	Life  int     `json:"-"`
}

// FallingLetter is one pooled background letter. Everything except Pos and
// Letter is visual state the game rules never read.
type FallingLetter struct {
	Pos           Vec2         `json:"pos"`
	Letter        rune         `json:"-"`
	Speed         float64      `json:"speed"`
	Size          int          `json:"size"`
	Alpha         int          `json:"alpha"`
	Color         Color        `json:"color"`
	Rotation      float64      `json:"rotation"`
	RotationSpeed float64      `json:"-"`
	Trail         []TrailPoint `json:"trail"`
	Sparkles      []Sparkle    `json:"sparkles"`

	sparkleTimer int
}

// FallingLetterField is a fixed pool of falling letters addressed by slot.
// Slots are recycled in place; the pool never grows or shrinks.
type FallingLetterField struct {
	rng    Rand
	bounds Bounds
	slots  []FallingLetter
}

// NewFallingLetterField spawns size letters above the visible area.
func NewFallingLetterField(size int, bounds Bounds, rng Rand) *FallingLetterField {
	if size <= 0 {
		size = DefaultPoolSize
	}
	f := &FallingLetterField{rng: rng, bounds: bounds, slots: make([]FallingLetter, size)}
	for i := range f.slots {
		f.Recycle(i)
	}
	return f
}

// Len returns the pool size.
func (f *FallingLetterField) Len() int { return len(f.slots) }

// Slot returns a copy of one slot.
func (f *FallingLetterField) Slot(i int) FallingLetter {
	l := f.slots[i]
	l.Trail = append([]TrailPoint(nil), l.Trail...)
	l.Sparkles = append([]Sparkle(nil), l.Sparkles...)
	return l
}

// Slots returns a copy of the whole pool.
func (f *FallingLetterField) Slots() []FallingLetter {
	out := make([]FallingLetter, len(f.slots))
	for i := range f.slots {
		out[i] = f.Slot(i)
	}
	return out
}

// Recycle respawns slot i above the visible area with fresh random
// letter, colour, speed, size, alpha and rotation, and clears its trail
// and sparkles. The slot's slices keep their capacity.
func (f *FallingLetterField) Recycle(i int) {
	l := &f.slots[i]
	l.Pos = Vec2{
		X: float64(between(f.rng, 0, int(f.bounds.Width))),
		Y: float64(between(f.rng, spawnTopMin, spawnTopMax)),
	}
	l.Letter = rune(alphabet[f.rng.IntN(len(alphabet))])
	l.Color = PickColor(f.rng, LetterColors)
	l.Speed = uniform(f.rng, 1, 4)
	l.Size = between(f.rng, 32, 64)
	l.Alpha = between(f.rng, 200, 255)
	l.Rotation = uniform(f.rng, 0, 360)
	l.RotationSpeed = uniform(f.rng, -2, 2)
	l.Trail = l.Trail[:0]
	l.Sparkles = l.Sparkles[:0]
	l.sparkleTimer = 0
}

// Tick advances every letter one frame and recycles those that left the
// bottom of the screen.
func (f *FallingLetterField) Tick() {
	for i := range f.slots {
		l := &f.slots[i]

		l.Trail = append(l.Trail, TrailPoint{Pos: l.Pos, Alpha: l.Alpha})
		if len(l.Trail) > trailLength {
			copy(l.Trail, l.Trail[1:])
			l.Trail = l.Trail[:trailLength]
		}

		l.Pos.Y += l.Speed
		l.Rotation += l.RotationSpeed

		l.sparkleTimer++
		if l.sparkleTimer > between(f.rng, 10, 30) {
			l.sparkleTimer = 0
			for k := 0; k < sparkleBatch; k++ {
				l.Sparkles = append(l.Sparkles, Sparkle{
					Pos:   Vec2{X: l.Pos.X + float64(between(f.rng, -10, 10)), Y: l.Pos.Y + float64(between(f.rng, -5, 5))},
					Color: l.Color,
					Speed: uniform(f.rng, 0.5, 1.5),
					Alpha: between(f.rng, 50, 120),
					Life:  between(f.rng, 30, 60),
				})
			}
		}

		live := l.Sparkles[:0]
		for _, s := range l.Sparkles {
			s.Pos.Y += s.Speed
			s.Alpha -= 2
			s.Life--
			if s.Life > 0 && s.Alpha > 0 {
				live = append(live, s)
			}
		}
		l.Sparkles = live

		if l.Pos.Y > f.bounds.Height+respawnMargin {
			f.Recycle(i)
		}
	}
}

// ExplodeMatching bursts every slot currently showing c (any case), in slot
// order: 15 particles at the letter (green when isCorrect, red otherwise)
// go to particles, then the slot is recycled. Returns the number exploded.
func (f *FallingLetterField) ExplodeMatching(c rune, isCorrect bool, particles *ParticleField) int {
	c = unicode.ToUpper(c)
	color := Red
	if isCorrect {
		color = Green
	}

	n := 0
	for i := range f.slots {
		l := &f.slots[i]
		if l.Letter != c {
			continue
		}
		n++
		for k := 0; k < ExplosionParticles; k++ {
			pos := Vec2{
				X: l.Pos.X + float64(between(f.rng, -explosionJitter, explosionJitter)),
				Y: l.Pos.Y + float64(between(f.rng, -explosionJitter, explosionJitter)),
			}
			particles.Spawn(pos, color, Vec2{X: uniform(f.rng, -5, 5), Y: uniform(f.rng, -8, -2)})
		}
		f.Recycle(i)
	}
	return n
}
