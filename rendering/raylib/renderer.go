// Package raylib draws the scene with raylib, as an alternative to the
// OpenGL backend for platforms without a 4.3 core context.
package raylib

import (
	"fmt"
	"log/slog"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"starfield/core"
	"starfield/metrics"
	"starfield/rendering/hud"
	"starfield/simulation"
)

// raylib's projection always clips at this distance
const clipFar = 1000

// Orbit sensitivity in radians per pixel of drag
const dragSensitivity = 0.008

const toonVertexShader = `
#version 330

in vec3 vertexPosition;
in vec3 vertexNormal;

uniform mat4 mvp;
uniform mat4 matModel;

out vec3 fragNormal;

void main() {
    fragNormal = mat3(matModel) * vertexNormal;
    gl_Position = mvp * vec4(vertexPosition, 1.0);
}
`

const toonFragmentShader = `
#version 330

in vec3 fragNormal;
out vec4 finalColor;

uniform vec4 colDiffuse;
uniform vec3 ambient;
uniform vec3 lightColor;
uniform vec3 lightDir;
uniform float bands;

void main() {
    float nDotL = max(dot(normalize(fragNormal), normalize(lightDir)), 0.0);
    float n = max(bands, 1.0);
    float band = min(floor(nDotL * n), n - 1.0) / max(n - 1.0, 1.0);
    vec3 color = colDiffuse.rgb * (ambient + lightColor * band);
    finalColor = vec4(min(color, vec3(1.0)), 1.0);
}
`

// Options configures the raylib window
type Options struct {
	Width, Height int
	Title         string
	VSync         bool

	Stats     *metrics.FrameStats
	ShowStats bool

	Logger *slog.Logger
}

// Renderer draws a simulation.Scene through raylib. Like the OpenGL
// backend it doubles as the frame host.
type Renderer struct {
	logger *slog.Logger

	shader   rl.Shader
	planet   rl.Model
	locs     toonLocations
	prepared bool

	// World units are scaled so the camera's far plane fits raylib's
	scale float32

	width, height int

	controls simulation.OrbitControls
	onResize func(width, height int)

	stats     *metrics.FrameStats
	showStats bool
	history   []float64
	rects     []hud.Rect
}

type toonLocations struct {
	ambient, lightColor, lightDir, bands int32
}

var _ simulation.Renderer = (*Renderer)(nil)

// NewRenderer opens the window. It must be called from the goroutine
// that runs the frame loop.
func NewRenderer(opts Options) (*Renderer, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("window %dx%d: %w", opts.Width, opts.Height, core.ErrInvalidParameter)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var flags uint32 = rl.FlagWindowResizable | rl.FlagMsaa4xHint
	if opts.VSync {
		flags |= rl.FlagVsyncHint
	}
	rl.SetConfigFlags(flags)
	rl.InitWindow(int32(opts.Width), int32(opts.Height), opts.Title)
	if !rl.IsWindowReady() {
		return nil, fmt.Errorf("failed to open raylib window: %w", core.ErrBackendInit)
	}
	rl.SetExitKey(rl.KeyEscape)

	return &Renderer{
		logger:    logger,
		scale:     1,
		width:     rl.GetScreenWidth(),
		height:    rl.GetScreenHeight(),
		stats:     opts.Stats,
		showStats: opts.ShowStats,
		history:   make([]float64, 0, metrics.HistoryLen),
	}, nil
}

// Prepare builds the planet model and its toon shader
func (r *Renderer) Prepare(scene *simulation.Scene) error {
	if r.prepared {
		return fmt.Errorf("raylib renderer: %w", core.ErrAlreadyInitialized)
	}
	if scene == nil || scene.Planet.Mesh == nil || scene.Stars == nil {
		return fmt.Errorf("incomplete scene: %w", core.ErrInvalidParameter)
	}

	m := scene.Planet.Mesh
	mesh := rl.GenMeshSphere(m.Radius, m.Rings, m.Segments)
	r.planet = rl.LoadModelFromMesh(mesh)

	r.shader = rl.LoadShaderFromMemory(toonVertexShader, toonFragmentShader)
	r.locs = toonLocations{
		ambient:    rl.GetShaderLocation(r.shader, "ambient"),
		lightColor: rl.GetShaderLocation(r.shader, "lightColor"),
		lightDir:   rl.GetShaderLocation(r.shader, "lightDir"),
		bands:      rl.GetShaderLocation(r.shader, "bands"),
	}
	r.planet.Materials.Shader = r.shader

	ambient := scene.Ambient().Vec()
	rl.SetShaderValue(r.shader, r.locs.ambient, ambient[:], rl.ShaderUniformVec3)
	if sun, ok := scene.Sun(); ok {
		c := sun.Color.Scale(sun.Intensity).Vec()
		d := sun.Position.Normalize()
		rl.SetShaderValue(r.shader, r.locs.lightColor, c[:], rl.ShaderUniformVec3)
		rl.SetShaderValue(r.shader, r.locs.lightDir, d[:], rl.ShaderUniformVec3)
	}
	rl.SetShaderValue(r.shader, r.locs.bands, []float32{float32(scene.Planet.ToonBands)}, rl.ShaderUniformFloat)

	r.prepared = true
	r.logger.Debug("planet model ready", "rings", m.Rings, "segments", m.Segments, "shader", r.shader.ID)
	return nil
}

// Render draws one frame; raylib presents it in EndDrawing.
func (r *Renderer) Render(scene *simulation.Scene, camera simulation.Camera) error {
	if !r.prepared {
		return fmt.Errorf("raylib renderer: %w", core.ErrNotBuilt)
	}
	state := camera.State()
	r.scale = WorldScale(state.Far)

	rl.BeginDrawing()
	rl.ClearBackground(toColor(scene.Background, 255))

	rl.BeginMode3D(rl.Camera3D{
		Position:   toVector(state.Position, r.scale),
		Target:     toVector(state.LookAt, r.scale),
		Up:         rl.NewVector3(0, 1, 0),
		Fovy:       state.FieldOfView,
		Projection: rl.CameraPerspective,
	})

	rl.DrawModel(r.planet, rl.NewVector3(0, 0, 0), r.scale, toColor(scene.Planet.Color, 255))

	stars := scene.Stars
	rl.BeginBlendMode(rl.BlendAdditive)
	for i := 0; i < stars.Len(); i++ {
		radius := StarRadius(stars.Size(i), r.scale)
		rl.DrawSphereEx(toVector(stars.Position(i), r.scale), radius, 4, 6, toColor(stars.Color(i), 255))
	}
	rl.EndBlendMode()

	rl.EndMode3D()

	if r.showStats && r.stats != nil {
		r.drawStats()
	}

	rl.EndDrawing()
	return nil
}

func (r *Renderer) drawStats() {
	if r.width < hud.PanelWidth {
		return
	}
	r.history = r.stats.History(r.history)
	r.rects = hud.AppendPanel(r.rects[:0], float32(r.width-hud.PanelWidth), 0,
		r.stats.FPS(), r.stats.MaxFPS(), r.history)
	for _, q := range r.rects {
		c := q.Color
		rl.DrawRectangleRec(rl.NewRectangle(q.X, q.Y, q.W, q.H), rl.NewColor(
			toByte(c[0]), toByte(c[1]), toByte(c[2]), toByte(c[3]),
		))
	}
}

// Resize records the new screen size for overlay placement; raylib
// adjusts its own viewport.
func (r *Renderer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.width, r.height = width, height
}

// WaitFrame translates the input gathered by the last EndDrawing into
// orbit deltas and resize events.
func (r *Renderer) WaitFrame() error {
	if rl.WindowShouldClose() {
		return core.ErrHostClosed
	}

	if rl.IsWindowResized() && r.onResize != nil {
		r.onResize(rl.GetScreenWidth(), rl.GetScreenHeight())
	}

	if rl.IsKeyPressed(rl.KeyF1) {
		r.showStats = !r.showStats
	}

	if r.controls == nil {
		return nil
	}
	if rl.IsMouseButtonDown(rl.MouseLeftButton) {
		delta := rl.GetMouseDelta()
		if delta.X != 0 || delta.Y != 0 {
			r.controls.Orbit(float64(delta.X)*dragSensitivity, float64(delta.Y)*dragSensitivity)
		}
	}
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		r.controls.Zoom(math.Pow(0.9, float64(wheel)))
	}
	return nil
}

func (r *Renderer) FramebufferSize() (int, int) {
	return rl.GetScreenWidth(), rl.GetScreenHeight()
}

func (r *Renderer) SetControls(c simulation.OrbitControls) {
	r.controls = c
}

func (r *Renderer) SetResizeHandler(fn func(width, height int)) {
	r.onResize = fn
}

// Terminate releases GPU resources and closes the window
func (r *Renderer) Terminate() {
	if r.prepared {
		rl.UnloadModel(r.planet)
		rl.UnloadShader(r.shader)
		r.prepared = false
	}
	rl.CloseWindow()
}
