package simulation

import (
	"fmt"
	"math"

	"github.com/charmbracelet/harmonica"
	"github.com/go-gl/mathgl/mgl32"

	"starfield/core"
)

// MaxPolar keeps the orbit away from the poles, where the up vector
// would flip.
const MaxPolar = 1.5

// CameraConfig describes the initial projection and orbit of a CameraRig
type CameraConfig struct {
	FieldOfView float32 // vertical, degrees
	Near, Far   float32
	Position    mgl32.Vec3

	AutoRotate      bool
	AutoRotateSpeed float64 // radians per second

	MinDistance, MaxDistance float32

	// Zoom easing spring
	ZoomFrequency float64
	ZoomDamping   float64
}

// DefaultCameraConfig is the stock orbit: 60° fov, camera at
// (0,0,150) looking at the origin, slow auto-rotation.
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		FieldOfView:     60,
		Near:            1,
		Far:             2500,
		Position:        mgl32.Vec3{0, 0, 150},
		AutoRotate:      true,
		AutoRotateSpeed: 0.1,
		MinDistance:     60,
		MaxDistance:     1500,
		ZoomFrequency:   6,
		ZoomDamping:     1,
	}
}

// CameraState is a read-only view of the rig at a point in time
type CameraState struct {
	FieldOfView     float32
	Near, Far       float32
	Aspect          float32
	Position        mgl32.Vec3
	LookAt          mgl32.Vec3
	AutoRotate      bool
	AutoRotateSpeed float64
}

// Camera is what a renderer needs from the camera each frame.
type Camera interface {
	View() mgl32.Mat4
	Projection() mgl32.Mat4
	State() CameraState
}

// OrbitControls receives interaction deltas from the input collaborator.
type OrbitControls interface {
	Orbit(dAzimuth, dPolar float64)
	Zoom(factor float64)
}

// CameraRig orbits a perspective camera around the world origin.
// Interaction deltas accumulate between frames and are applied by Tick.
type CameraRig struct {
	cfg    CameraConfig
	aspect float32

	azimuth float64
	polar   float64

	distance       float64
	targetDistance float64
	zoomVelocity   float64

	pendingAzimuth float64
	pendingPolar   float64
	pendingZoom    float64
}

// NewCameraRig validates cfg and derives the orbit from cfg.Position.
func NewCameraRig(cfg CameraConfig) (*CameraRig, error) {
	if !(cfg.FieldOfView > 0 && cfg.FieldOfView < 180) {
		return nil, fmt.Errorf("field of view %v: %w", cfg.FieldOfView, core.ErrInvalidParameter)
	}
	if !(cfg.Near > 0 && cfg.Far > cfg.Near) {
		return nil, fmt.Errorf("clip planes near=%v far=%v: %w", cfg.Near, cfg.Far, core.ErrInvalidParameter)
	}
	orbit := core.OrbitOf(cfg.Position)
	d := orbit.Radius
	if d == 0 {
		return nil, fmt.Errorf("camera position at look-at target: %w", core.ErrInvalidParameter)
	}
	if !(cfg.MinDistance > 0 && cfg.MaxDistance >= cfg.MinDistance) {
		return nil, fmt.Errorf("zoom range [%v, %v]: %w", cfg.MinDistance, cfg.MaxDistance, core.ErrInvalidParameter)
	}
	if d < float64(cfg.MinDistance) || d > float64(cfg.MaxDistance) {
		return nil, fmt.Errorf("camera distance %.1f outside zoom range [%v, %v]: %w",
			d, cfg.MinDistance, cfg.MaxDistance, core.ErrInvalidParameter)
	}
	if cfg.ZoomFrequency <= 0 {
		cfg.ZoomFrequency = 6
	}
	if cfg.ZoomDamping <= 0 {
		cfg.ZoomDamping = 1
	}

	return &CameraRig{
		cfg:            cfg,
		aspect:         1,
		azimuth:        orbit.Azimuth,
		polar:          clamp(orbit.Polar, -MaxPolar, MaxPolar),
		distance:       d,
		targetDistance: d,
		pendingZoom:    1,
	}, nil
}

// ApplyResize recomputes the aspect ratio for a width x height viewport.
// Non-positive sizes are rejected and leave the rig unchanged.
func (c *CameraRig) ApplyResize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("viewport %dx%d: %w", width, height, core.ErrInvalidParameter)
	}
	c.aspect = float32(width) / float32(height)
	return nil
}

// Tick applies auto-rotation for dt seconds and consumes pending
// interaction deltas.
func (c *CameraRig) Tick(dt float64) {
	valid := dt > 0 && !math.IsInf(dt, 0)

	if c.cfg.AutoRotate && valid {
		c.azimuth += c.cfg.AutoRotateSpeed * dt
	}
	c.azimuth = core.WrapAngle(c.azimuth + c.pendingAzimuth)
	c.polar = clamp(c.polar+c.pendingPolar, -MaxPolar, MaxPolar)
	c.pendingAzimuth, c.pendingPolar = 0, 0

	if c.pendingZoom != 1 {
		c.targetDistance = clamp(c.targetDistance*c.pendingZoom,
			float64(c.cfg.MinDistance), float64(c.cfg.MaxDistance))
		c.pendingZoom = 1
	}

	if valid && c.distance != c.targetDistance {
		spring := harmonica.NewSpring(dt, c.cfg.ZoomFrequency, c.cfg.ZoomDamping)
		c.distance, c.zoomVelocity = spring.Update(c.distance, c.zoomVelocity, c.targetDistance)
		c.distance = clamp(c.distance, float64(c.cfg.MinDistance), float64(c.cfg.MaxDistance))
		if math.Abs(c.distance-c.targetDistance) < 1e-3 && math.Abs(c.zoomVelocity) < 1e-3 {
			c.distance, c.zoomVelocity = c.targetDistance, 0
		}
	}
}

// Orbit queues a rotation in radians.
func (c *CameraRig) Orbit(dAzimuth, dPolar float64) {
	if math.IsNaN(dAzimuth) || math.IsNaN(dPolar) {
		return
	}
	c.pendingAzimuth += dAzimuth
	c.pendingPolar += dPolar
}

// Zoom queues a multiplicative change of the orbit distance; factors
// below 1 move the camera closer.
func (c *CameraRig) Zoom(factor float64) {
	if !(factor > 0) || math.IsInf(factor, 0) {
		return
	}
	c.pendingZoom *= factor
}

// SetAutoRotate toggles auto-rotation
func (c *CameraRig) SetAutoRotate(on bool) {
	c.cfg.AutoRotate = on
}

// Angle returns the orbit azimuth in [0, 2π)
func (c *CameraRig) Angle() float64 {
	return c.azimuth
}

// Polar returns the orbit elevation in radians
func (c *CameraRig) Polar() float64 {
	return c.polar
}

// Distance returns the current distance from the look-at target
func (c *CameraRig) Distance() float64 {
	return c.distance
}

// Aspect returns the current projection aspect ratio
func (c *CameraRig) Aspect() float32 {
	return c.aspect
}

// Position converts the orbit to a world position.
func (c *CameraRig) Position() mgl32.Vec3 {
	return core.Orbit{Azimuth: c.azimuth, Polar: c.polar, Radius: c.distance}.Cartesian()
}

func (c *CameraRig) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position(), mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
}

func (c *CameraRig) Projection() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.cfg.FieldOfView), c.aspect, c.cfg.Near, c.cfg.Far)
}

func (c *CameraRig) State() CameraState {
	return CameraState{
		FieldOfView:     c.cfg.FieldOfView,
		Near:            c.cfg.Near,
		Far:             c.cfg.Far,
		Aspect:          c.aspect,
		Position:        c.Position(),
		AutoRotate:      c.cfg.AutoRotate,
		AutoRotateSpeed: c.cfg.AutoRotateSpeed,
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
