package raylib

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"starfield/core"
	"starfield/simulation"
)

func TestWorldScale(t *testing.T) {
	tests := []struct {
		far  float32
		want float32
	}{
		{far: 2500, want: 0.4},
		{far: 1000, want: 1},
		{far: 500, want: 1},
		{far: 0, want: 1},
	}
	for _, tt := range tests {
		if got := WorldScale(tt.far); got != tt.want {
			t.Errorf("WorldScale(%v) = %v, want %v", tt.far, got, tt.want)
		}
	}
}

func TestDefaultSceneFitsClipDistance(t *testing.T) {
	cam := simulation.DefaultCameraConfig()
	s := WorldScale(cam.Far)

	// Farthest star seen from the farthest zoom
	farthest := (cam.MaxDistance + 1000) * s
	if farthest > clipFar {
		t.Errorf("scaled depth %v beyond raylib clip distance %v", farthest, float32(clipFar))
	}
}

func TestStarRadius(t *testing.T) {
	if got := StarRadius(4, 0.5); got != 1 {
		t.Errorf("StarRadius(4, 0.5) = %v, want 1", got)
	}
	if got := StarRadius(0, 1); got != 0.5 {
		t.Errorf("tiny stars must stay visible, got radius %v", got)
	}
}

func TestConversions(t *testing.T) {
	v := toVector(mgl32.Vec3{10, -20, 30}, 0.5)
	if v.X != 5 || v.Y != -10 || v.Z != 15 {
		t.Errorf("toVector = %+v", v)
	}

	c := toColor(core.Hex(0x1F262F), 200)
	if c.R != 0x1F || c.G != 0x26 || c.B != 0x2F || c.A != 200 {
		t.Errorf("toColor = %+v", c)
	}

	for in, want := range map[float32]uint8{-1: 0, 0: 0, 0.5: 128, 1: 255, 2: 255} {
		if got := toByte(in); got != want {
			t.Errorf("toByte(%v) = %d, want %d", in, got, want)
		}
	}
}
