package core

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Palette maps t in [0,1] to a color. Implementations must be pure: the
// same t always yields the same color.
type Palette func(t float64) Color

// GradientStop is one keypoint of a Gradient
type GradientStop struct {
	Pos   float64
	Color colorful.Color
}

// Gradient is an ordered list of stops blended in HCL space
type Gradient []GradientStop

// At returns the blended color at t, clamped to the first/last stop.
func (g Gradient) At(t float64) colorful.Color {
	if len(g) == 0 {
		return colorful.Color{}
	}
	if math.IsNaN(t) || t <= g[0].Pos {
		return g[0].Color
	}
	last := g[len(g)-1]
	if t >= last.Pos {
		return last.Color
	}
	for i := 0; i < len(g)-1; i++ {
		a, b := g[i], g[i+1]
		if t < b.Pos {
			u := (t - a.Pos) / (b.Pos - a.Pos)
			if u <= 0 {
				return a.Color
			}
			return a.Color.BlendHcl(b.Color, u).Clamped()
		}
	}
	return last.Color
}

// Palette adapts the gradient to the Palette function type.
func (g Gradient) Palette() Palette {
	return func(t float64) Color {
		c := g.At(t)
		return Color{R: float32(c.R), G: float32(c.G), B: float32(c.B)}
	}
}

// WarmMagma runs from deep violet through red and orange to a pale
// yellow. It is the default star palette.
var WarmMagma = Gradient{
	{0.00, mustHex("#1b0c41")},
	{0.25, mustHex("#6a176e")},
	{0.50, mustHex("#c73e4c")},
	{0.75, mustHex("#f98e09")},
	{1.00, mustHex("#fcffa4")},
}

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// DefaultPalette returns the palette used when none is configured.
func DefaultPalette() Palette {
	return WarmMagma.Palette()
}
