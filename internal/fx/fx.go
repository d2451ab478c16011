// Package fx holds the frame-stepped visual effect state: burst particles
// and the background pool of falling letters.
//
// Nothing here draws. The presenter reads positions, colours and sizes
// from snapshots; this package only advances them one frame per Tick.
// All types are single-goroutine; the engine loop owns them.
package fx

// Rand is the subset of *rand.Rand (math/rand/v2) used by the fields.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

// Vec2 is a position or velocity in screen pixels.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Bounds is the visible area; (0,0) is the top-left corner.
type Bounds struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// DefaultBounds is the 1000x700 play area.
var DefaultBounds = Bounds{Width: 1000, Height: 700}

// Color is an RGB colour.
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// Palette.
var (
	DarkBlue  = Color{25, 42, 86}
	LightBlue = Color{59, 130, 246}
	Purple    = Color{139, 69, 199}
	Pink      = Color{236, 72, 153}
	Yellow    = Color{250, 204, 21}
	Green     = Color{34, 197, 94}
	Red       = Color{239, 68, 68}
	White     = Color{255, 255, 255}
)

// LetterColors are the colours a falling letter may take.
var LetterColors = []Color{LightBlue, Purple, Pink, Green, Yellow, White}

// FestiveColors are used for the victory burst.
var FestiveColors = []Color{Yellow, LightBlue, Purple, Pink, Green}

// PickColor returns a uniform choice from cs.
func PickColor(r Rand, cs []Color) Color { return cs[r.IntN(len(cs))] }

// uniform returns a float in [lo, hi).
func uniform(r Rand, lo, hi float64) float64 { return lo + r.Float64()*(hi-lo) }

// between returns an int in [lo, hi].
func between(r Rand, lo, hi int) int { return lo + r.IntN(hi-lo+1) }
