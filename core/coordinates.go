package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Orbit is a position on a sphere around the origin, Y up.
// Azimuth 0 points along +X and π/2 along +Z; Polar is the elevation
// above the XZ plane.
type Orbit struct {
	Azimuth float64
	Polar   float64
	Radius  float64
}

// Cartesian converts the orbit to a world position
func (o Orbit) Cartesian() mgl32.Vec3 {
	cosPolar := math.Cos(o.Polar)
	return mgl32.Vec3{
		float32(o.Radius * cosPolar * math.Cos(o.Azimuth)),
		float32(o.Radius * math.Sin(o.Polar)),
		float32(o.Radius * cosPolar * math.Sin(o.Azimuth)),
	}
}

// OrbitOf converts a world position to an orbit with Azimuth in
// [0, 2π). The origin maps to the zero Orbit.
func OrbitOf(p mgl32.Vec3) Orbit {
	x, y, z := float64(p[0]), float64(p[1]), float64(p[2])
	r := math.Sqrt(x*x + y*y + z*z)

	// Handle special case of origin
	if r < 1e-10 {
		return Orbit{}
	}

	return Orbit{
		Azimuth: WrapAngle(math.Atan2(z, x)),
		Polar:   math.Asin(clampUnit(y / r)),
		Radius:  r,
	}
}

// WrapAngle maps a to [0, 2π)
func WrapAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	// Mod can round up to exactly 2π for tiny negative inputs
	if a >= 2*math.Pi {
		a = 0
	}
	return a
}

func clampUnit(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}
