package simulation

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"starfield/core"
)

// Renderer is the rendering backend behind a SceneGraph.
type Renderer interface {
	// Prepare allocates GPU resources for the scene. Called once.
	Prepare(scene *Scene) error
	// Render rasterizes the scene from the camera into the display surface.
	Render(scene *Scene, camera Camera) error
	// Resize adapts the display surface to a new viewport.
	Resize(width, height int)
}

// Planet is the flat-colored, toon-shaded sphere at the origin
type Planet struct {
	Mesh      *core.SphereMesh
	Color     core.Color
	ToonBands int
}

// Scene is the drawable set. It is owned by the SceneGraph that built it;
// only the star buffer changes after Build.
type Scene struct {
	Background core.Color
	Planet     Planet
	Lights     []core.Light
	Stars      *ParticleField
}

// Ambient returns the summed ambient light color
func (s *Scene) Ambient() core.Color {
	var c core.Color
	for _, l := range s.Lights {
		if l.Kind == core.AmbientLight {
			lc := l.Color.Scale(l.Intensity)
			c.R += lc.R
			c.G += lc.G
			c.B += lc.B
		}
	}
	return c
}

// Sun returns the first directional light, if any
func (s *Scene) Sun() (core.Light, bool) {
	for _, l := range s.Lights {
		if l.Kind == core.DirectionalLight {
			return l, true
		}
	}
	return core.Light{}, false
}

// SceneConfig describes everything in the scene except the stars
type SceneConfig struct {
	Background     core.Color
	PlanetRadius   float32
	PlanetSegments int
	PlanetColor    core.Color
	ToonBands      int

	AmbientIntensity float32
	SunIntensity     float32
	SunPosition      mgl32.Vec3
}

// DefaultSceneConfig is the stock scene: a dark green planet of
// radius 50 under a white ambient light and a white sun at (100,100,100).
func DefaultSceneConfig() SceneConfig {
	return SceneConfig{
		Background:       core.Hex(0x1F262F),
		PlanetRadius:     50,
		PlanetSegments:   64,
		PlanetColor:      core.Hex(0x013220),
		ToonBands:        4,
		AmbientIntensity: 1,
		SunIntensity:     1,
		SunPosition:      mgl32.Vec3{100, 100, 100},
	}
}

// SceneGraph builds the scene once and hands frames to its Renderer.
type SceneGraph struct {
	renderer Renderer
	stars    *ParticleField
	cfg      SceneConfig
	scene    *Scene
}

// NewSceneGraph binds a renderer and a star field to a scene description.
func NewSceneGraph(renderer Renderer, stars *ParticleField, cfg SceneConfig) (*SceneGraph, error) {
	if renderer == nil {
		return nil, fmt.Errorf("nil renderer: %w", core.ErrInvalidParameter)
	}
	if stars == nil {
		return nil, fmt.Errorf("nil star field: %w", core.ErrInvalidParameter)
	}
	if cfg.ToonBands < 1 {
		return nil, fmt.Errorf("toon bands %d: %w", cfg.ToonBands, core.ErrInvalidParameter)
	}
	if cfg.SunPosition.Len() == 0 {
		return nil, fmt.Errorf("sun at origin has no direction: %w", core.ErrInvalidParameter)
	}
	return &SceneGraph{renderer: renderer, stars: stars, cfg: cfg}, nil
}

// Build constructs the drawable set and has the renderer allocate its
// buffers. It may succeed only once.
func (g *SceneGraph) Build() (*Scene, error) {
	if g.scene != nil {
		return nil, fmt.Errorf("scene graph: %w", core.ErrAlreadyInitialized)
	}

	mesh, err := core.GenerateSphere(g.cfg.PlanetRadius, g.cfg.PlanetSegments, g.cfg.PlanetSegments)
	if err != nil {
		return nil, fmt.Errorf("failed to build planet mesh: %w", err)
	}

	white := core.Color{R: 1, G: 1, B: 1}
	scene := &Scene{
		Background: g.cfg.Background,
		Planet: Planet{
			Mesh:      mesh,
			Color:     g.cfg.PlanetColor,
			ToonBands: g.cfg.ToonBands,
		},
		Lights: []core.Light{
			{Kind: core.AmbientLight, Color: white, Intensity: g.cfg.AmbientIntensity},
			{Kind: core.DirectionalLight, Color: white, Intensity: g.cfg.SunIntensity, Position: g.cfg.SunPosition},
		},
		Stars: g.stars,
	}

	if err := g.renderer.Prepare(scene); err != nil {
		return nil, fmt.Errorf("failed to prepare scene: %w", err)
	}
	g.scene = scene
	return scene, nil
}

// Scene returns the built scene, or nil before Build
func (g *SceneGraph) Scene() *Scene {
	return g.scene
}

// RenderFrame draws scene through the renderer. The caller must apply the
// frame's star and camera updates first.
func (g *SceneGraph) RenderFrame(scene *Scene, camera Camera) error {
	if g.scene == nil || scene != g.scene {
		return fmt.Errorf("render frame: %w", core.ErrNotBuilt)
	}
	if camera == nil {
		return fmt.Errorf("render frame without camera: %w", core.ErrInvalidParameter)
	}
	return g.renderer.Render(scene, camera)
}

// Resize forwards a viewport change to the renderer's surface
func (g *SceneGraph) Resize(width, height int) {
	g.renderer.Resize(width, height)
}
