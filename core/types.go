package core

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Color is a linear RGB triple in [0,1]
type Color struct {
	R, G, B float32
}

// Hex builds a Color from a 0xRRGGBB literal.
func Hex(v uint32) Color {
	return Color{
		R: float32((v>>16)&0xff) / 255.0,
		G: float32((v>>8)&0xff) / 255.0,
		B: float32(v&0xff) / 255.0,
	}
}

// Scale multiplies every channel by s
func (c Color) Scale(s float32) Color {
	return Color{c.R * s, c.G * s, c.B * s}
}

// Vec returns the color as a mathgl vector for shader uniforms.
func (c Color) Vec() mgl32.Vec3 {
	return mgl32.Vec3{c.R, c.G, c.B}
}

// RGBA8 quantizes the color to 8-bit channels with full alpha.
func (c Color) RGBA8() (r, g, b, a uint8) {
	return quantize(c.R), quantize(c.G), quantize(c.B), 255
}

func (c Color) String() string {
	r, g, b, _ := c.RGBA8()
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

func quantize(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

// LightKind distinguishes ambient from positioned lights
type LightKind int

const (
	AmbientLight LightKind = iota
	DirectionalLight
)

func (k LightKind) String() string {
	switch k {
	case AmbientLight:
		return "ambient"
	case DirectionalLight:
		return "directional"
	default:
		return "unknown"
	}
}

// Light is a scene light. Position is ignored for ambient lights; for
// directional lights it points from the origin toward the light.
type Light struct {
	Kind      LightKind
	Color     Color
	Intensity float32
	Position  mgl32.Vec3
}
