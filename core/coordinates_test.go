package core

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestOrbitCartesian(t *testing.T) {
	tests := []struct {
		name    string
		azimuth float64 // degrees
		polar   float64 // degrees
		r       float64
		want    mgl32.Vec3
	}{
		{"North Pole", 0, 90, 150, mgl32.Vec3{0, 150, 0}},
		{"South Pole", 0, -90, 150, mgl32.Vec3{0, -150, 0}},
		{"Equator +X", 0, 0, 150, mgl32.Vec3{150, 0, 0}},
		{"Equator +Z", 90, 0, 150, mgl32.Vec3{0, 0, 150}},
		{"Equator -X", 180, 0, 150, mgl32.Vec3{-150, 0, 0}},
		// r * cos(45°) * cos(45°), r * sin(45°), r * cos(45°) * sin(45°)
		{"45 up 45 round", 45, 45, 150, mgl32.Vec3{75, 106.066, 75}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			o := Orbit{
				Azimuth: tc.azimuth * math.Pi / 180,
				Polar:   tc.polar * math.Pi / 180,
				Radius:  tc.r,
			}
			got := o.Cartesian()
			for i := 0; i < 3; i++ {
				if math.Abs(float64(got[i]-tc.want[i])) > 1e-3 {
					t.Errorf("axis %d: got %f, want %f", i, got[i], tc.want[i])
				}
			}
		})
	}
}

func TestOrbitOfRoundTrip(t *testing.T) {
	tests := []Orbit{
		{Azimuth: math.Pi / 2, Polar: 0, Radius: 150},
		{Azimuth: 0.3, Polar: 1.2, Radius: 60},
		{Azimuth: 5.9, Polar: -0.7, Radius: 1500},
	}
	for _, want := range tests {
		got := OrbitOf(want.Cartesian())
		if math.Abs(got.Azimuth-want.Azimuth) > 1e-5 ||
			math.Abs(got.Polar-want.Polar) > 1e-5 ||
			math.Abs(got.Radius-want.Radius) > 1e-3 {
			t.Errorf("OrbitOf(%+v.Cartesian()) = %+v", want, got)
		}
	}

	if o := OrbitOf(mgl32.Vec3{}); o != (Orbit{}) {
		t.Errorf("OrbitOf(origin) = %+v, want zero", o)
	}
}

func TestWrapAngle(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{math.Pi, math.Pi},
		{2 * math.Pi, 0},
		{-math.Pi / 2, 3 * math.Pi / 2},
		{5 * math.Pi, math.Pi},
	}
	for _, tc := range tests {
		if got := WrapAngle(tc.in); math.Abs(got-tc.want) > 1e-12 {
			t.Errorf("WrapAngle(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
