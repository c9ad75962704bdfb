package raylib

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"

	"starfield/core"
)

// WorldScale returns the factor that brings a camera far plane inside
// raylib's fixed clip distance. Scenes that already fit are not scaled.
func WorldScale(far float32) float32 {
	if !(far > clipFar) {
		return 1
	}
	return clipFar / far
}

// StarRadius converts a point size in pixels to a sphere radius in
// scaled world units. At the default orbit one world unit covers about
// one pixel, so half the point size gives a comparable footprint.
func StarRadius(size, scale float32) float32 {
	return max(size*0.5, 0.5) * scale
}

func toVector(v mgl32.Vec3, scale float32) rl.Vector3 {
	return rl.NewVector3(v[0]*scale, v[1]*scale, v[2]*scale)
}

func toColor(c core.Color, alpha uint8) rl.Color {
	r, g, b, _ := c.RGBA8()
	return rl.NewColor(r, g, b, alpha)
}

func toByte(v float32) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	}
	return uint8(v*255 + 0.5)
}
