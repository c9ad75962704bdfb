package opengl

import (
	"fmt"
	"log/slog"
	"math"
	"runtime"

	"github.com/go-gl/gl/v4.3-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"

	"starfield/core"
	"starfield/metrics"
	"starfield/rendering/opengl/overlay"
	"starfield/rendering/opengl/shaders"
	"starfield/simulation"
)

// Options configures the window and context of a Renderer
type Options struct {
	Width, Height int
	Title         string
	VSync         bool

	// Stats feeds the FPS overlay; nil disables it.
	Stats     *metrics.FrameStats
	ShowStats bool

	Logger *slog.Logger
}

// Renderer draws a simulation.Scene into a GLFW window through OpenGL
// 4.3 core. It also serves as the frame host: WaitFrame pumps window
// events, which is where orbit input and resizes are delivered.
type Renderer struct {
	window *glfw.Window
	logger *slog.Logger

	planetProgram *shaders.PlanetProgram
	starProgram   *shaders.StarProgram

	planetVAO        uint32
	planetVBO        uint32
	planetEBO        uint32
	planetIndexCount int32

	starVAO   uint32
	starVBO   uint32
	starCount int32
	starBytes int

	prepared bool

	width, height int // framebuffer pixels
	minimized     bool
	pixelRatio    float32

	controls  simulation.OrbitControls
	onResize  func(width, height int)
	mouseDown bool
	lastMouse [2]float64

	statsOverlay *overlay.StatsOverlay
	showStats    bool
}

// Orbit sensitivity in radians per pixel of drag
const dragSensitivity = 0.008

var _ simulation.Renderer = (*Renderer)(nil)

// NewRenderer opens the window and initializes OpenGL. It must be called
// from the goroutine that will run the frame loop.
func NewRenderer(opts Options) (*Renderer, error) {
	runtime.LockOSThread()

	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("window %dx%d: %w", opts.Width, opts.Height, core.ErrInvalidParameter)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize GLFW: %v: %w", err, core.ErrBackendInit)
	}

	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Samples, 4)

	window, err := glfw.CreateWindow(opts.Width, opts.Height, opts.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to create window: %v: %w", err, core.ErrBackendInit)
	}
	window.MakeContextCurrent()

	if opts.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	if err := gl.Init(); err != nil {
		window.Destroy()
		glfw.Terminate()
		return nil, fmt.Errorf("failed to initialize OpenGL: %v: %w", err, core.ErrBackendInit)
	}
	logger.Info("opengl ready",
		"version", gl.GoStr(gl.GetString(gl.VERSION)),
		"renderer", gl.GoStr(gl.GetString(gl.RENDERER)),
	)

	r := &Renderer{
		window:    window,
		logger:    logger,
		showStats: opts.ShowStats,
	}
	r.width, r.height = window.GetFramebufferSize()
	r.updatePixelRatio()

	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.CULL_FACE)
	gl.Enable(gl.MULTISAMPLE)
	gl.Viewport(0, 0, int32(r.width), int32(r.height))

	if r.planetProgram, err = shaders.NewPlanetProgram(); err != nil {
		r.Terminate()
		return nil, fmt.Errorf("%v: %w", err, core.ErrBackendInit)
	}
	if r.starProgram, err = shaders.NewStarProgram(); err != nil {
		r.Terminate()
		return nil, fmt.Errorf("%v: %w", err, core.ErrBackendInit)
	}

	if opts.Stats != nil {
		so, err := overlay.NewStatsOverlay(r.width, r.height, opts.Stats)
		if err != nil {
			// The scene is still usable without the counter
			logger.Warn("stats overlay disabled", "err", err)
		} else {
			r.statsOverlay = so
		}
	}

	window.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		r.onFramebufferSize(width, height)
	})
	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		r.onKey(key, action)
	})
	window.SetScrollCallback(func(w *glfw.Window, xoff, yoff float64) {
		r.onScroll(yoff)
	})
	window.SetMouseButtonCallback(func(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		r.onMouseButton(button, action)
	})
	window.SetCursorPosCallback(func(w *glfw.Window, xpos, ypos float64) {
		r.onMouseMove(xpos, ypos)
	})

	return r, nil
}

// Prepare uploads the planet mesh and allocates the star buffer.
func (r *Renderer) Prepare(scene *simulation.Scene) error {
	if r.prepared {
		return fmt.Errorf("opengl renderer: %w", core.ErrAlreadyInitialized)
	}
	if scene == nil || scene.Planet.Mesh == nil || scene.Stars == nil {
		return fmt.Errorf("incomplete scene: %w", core.ErrInvalidParameter)
	}

	mesh := scene.Planet.Mesh
	gl.GenVertexArrays(1, &r.planetVAO)
	gl.BindVertexArray(r.planetVAO)

	gl.GenBuffers(1, &r.planetVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.planetVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(mesh.Vertices)*4, gl.Ptr(mesh.Vertices), gl.STATIC_DRAW)

	gl.GenBuffers(1, &r.planetEBO)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, r.planetEBO)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(mesh.Indices)*4, gl.Ptr(mesh.Indices), gl.STATIC_DRAW)

	stride := int32(core.SphereVertexStride * 4)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, gl.PtrOffset(3*4))
	gl.EnableVertexAttribArray(1)
	r.planetIndexCount = int32(len(mesh.Indices))

	// Stars: allocated once, rewritten each frame
	verts := scene.Stars.Vertices()
	r.starBytes = len(verts) * 4
	r.starCount = int32(scene.Stars.Len())

	gl.GenVertexArrays(1, &r.starVAO)
	gl.BindVertexArray(r.starVAO)
	gl.GenBuffers(1, &r.starVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.starVBO)
	gl.BufferData(gl.ARRAY_BUFFER, r.starBytes, gl.Ptr(verts), gl.DYNAMIC_DRAW)

	stride = int32(simulation.VertexStride * 4)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, gl.PtrOffset(simulation.OffsetPosition*4))
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, gl.PtrOffset(simulation.OffsetColor*4))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(2, 1, gl.FLOAT, false, stride, gl.PtrOffset(simulation.OffsetSize*4))
	gl.EnableVertexAttribArray(2)

	gl.BindVertexArray(0)

	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("failed to allocate scene buffers: gl error 0x%x", code)
	}
	r.prepared = true
	r.logger.Debug("scene buffers allocated",
		"planetIndices", r.planetIndexCount,
		"stars", r.starCount,
	)
	return nil
}

// Render draws one frame and presents it.
func (r *Renderer) Render(scene *simulation.Scene, camera simulation.Camera) error {
	if !r.prepared {
		return fmt.Errorf("opengl renderer: %w", core.ErrNotBuilt)
	}
	if r.minimized {
		return nil
	}

	bg := scene.Background
	gl.ClearColor(bg.R, bg.G, bg.B, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	view := camera.View()
	projection := camera.Projection()

	r.renderPlanet(scene, view, projection)
	r.renderStars(scene, view, projection)

	if r.showStats && r.statsOverlay != nil {
		r.statsOverlay.Render()
	}

	if code := gl.GetError(); code != gl.NO_ERROR {
		return fmt.Errorf("opengl error 0x%x", code)
	}
	r.window.SwapBuffers()
	return nil
}

func (r *Renderer) renderPlanet(scene *simulation.Scene, view, projection mgl32.Mat4) {
	p := r.planetProgram
	model := mgl32.Ident4()

	ambient := scene.Ambient()
	lightColor := mgl32.Vec3{}
	lightDir := mgl32.Vec3{0, 1, 0}
	if sun, ok := scene.Sun(); ok {
		lightColor = sun.Color.Scale(sun.Intensity).Vec()
		lightDir = sun.Position.Normalize()
	}
	base := scene.Planet.Color.Vec()
	amb := ambient.Vec()

	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.CULL_FACE)
	gl.DepthMask(true)

	gl.UseProgram(p.ID)
	gl.UniformMatrix4fv(p.Model, 1, false, &model[0])
	gl.UniformMatrix4fv(p.View, 1, false, &view[0])
	gl.UniformMatrix4fv(p.Projection, 1, false, &projection[0])
	gl.Uniform3fv(p.BaseColor, 1, &base[0])
	gl.Uniform3fv(p.Ambient, 1, &amb[0])
	gl.Uniform3fv(p.LightColor, 1, &lightColor[0])
	gl.Uniform3fv(p.LightDir, 1, &lightDir[0])
	gl.Uniform1i(p.Bands, int32(scene.Planet.ToonBands))

	gl.BindVertexArray(r.planetVAO)
	gl.DrawElements(gl.TRIANGLES, r.planetIndexCount, gl.UNSIGNED_INT, gl.PtrOffset(0))
}

func (r *Renderer) renderStars(scene *simulation.Scene, view, projection mgl32.Mat4) {
	p := r.starProgram

	// Same size every frame, so a sub-upload is enough
	gl.BindBuffer(gl.ARRAY_BUFFER, r.starVBO)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, r.starBytes, gl.Ptr(scene.Stars.Vertices()))

	gl.Enable(gl.PROGRAM_POINT_SIZE)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE)
	gl.DepthMask(false)

	gl.UseProgram(p.ID)
	gl.UniformMatrix4fv(p.View, 1, false, &view[0])
	gl.UniformMatrix4fv(p.Projection, 1, false, &projection[0])
	gl.Uniform1f(p.PixelRatio, r.pixelRatio)

	gl.BindVertexArray(r.starVAO)
	gl.DrawArrays(gl.POINTS, 0, r.starCount)

	gl.BindVertexArray(0)
	gl.DepthMask(true)
	gl.Disable(gl.BLEND)
	gl.Disable(gl.PROGRAM_POINT_SIZE)
}

// Resize adapts the viewport to a framebuffer of width x height pixels.
func (r *Renderer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.width, r.height = width, height
	r.updatePixelRatio()
	gl.Viewport(0, 0, int32(width), int32(height))
	if r.statsOverlay != nil {
		r.statsOverlay.UpdateSize(width, height)
	}
}

func (r *Renderer) updatePixelRatio() {
	ww, _ := r.window.GetSize()
	if ww > 0 && r.width > 0 {
		r.pixelRatio = float32(r.width) / float32(ww)
	} else {
		r.pixelRatio = 1
	}
}

// WaitFrame processes pending window events. With vsync enabled the
// previous SwapBuffers already paced the loop to the display.
func (r *Renderer) WaitFrame() error {
	glfw.PollEvents()
	if r.window.ShouldClose() {
		return core.ErrHostClosed
	}
	return nil
}

// FramebufferSize returns the drawable size in pixels
func (r *Renderer) FramebufferSize() (int, int) {
	return r.window.GetFramebufferSize()
}

func (r *Renderer) SetControls(c simulation.OrbitControls) {
	r.controls = c
}

func (r *Renderer) SetResizeHandler(fn func(width, height int)) {
	r.onResize = fn
}

// Event handlers

// onFramebufferSize tracks minimization, which reports a zero-area
// framebuffer, and forwards every size to the resize handler.
func (r *Renderer) onFramebufferSize(width, height int) {
	r.minimized = width <= 0 || height <= 0
	if r.onResize != nil {
		r.onResize(width, height)
	}
}

func (r *Renderer) onKey(key glfw.Key, action glfw.Action) {
	if action != glfw.Press {
		return
	}

	switch key {
	case glfw.KeyEscape:
		r.window.SetShouldClose(true)
	case glfw.KeyF1:
		r.showStats = !r.showStats
		r.logger.Info("stats overlay toggled", "visible", r.showStats)
	}
}

func (r *Renderer) onScroll(yoff float64) {
	if r.controls == nil {
		return
	}
	// Scrolling up moves the camera in
	r.controls.Zoom(math.Pow(0.9, yoff))
}

func (r *Renderer) onMouseButton(button glfw.MouseButton, action glfw.Action) {
	if button != glfw.MouseButtonLeft {
		return
	}
	switch action {
	case glfw.Press:
		r.mouseDown = true
		r.lastMouse[0], r.lastMouse[1] = r.window.GetCursorPos()
	case glfw.Release:
		r.mouseDown = false
	}
}

func (r *Renderer) onMouseMove(xpos, ypos float64) {
	if !r.mouseDown {
		return
	}
	dx := xpos - r.lastMouse[0]
	dy := ypos - r.lastMouse[1]
	r.lastMouse[0], r.lastMouse[1] = xpos, ypos

	if r.controls != nil {
		r.controls.Orbit(dx*dragSensitivity, dy*dragSensitivity)
	}
}

// Terminate cleans up OpenGL resources and closes the window
func (r *Renderer) Terminate() {
	if r.statsOverlay != nil {
		r.statsOverlay.Release()
	}
	r.planetProgram.Delete()
	r.starProgram.Delete()
	if r.prepared {
		gl.DeleteVertexArrays(1, &r.planetVAO)
		gl.DeleteBuffers(1, &r.planetVBO)
		gl.DeleteBuffers(1, &r.planetEBO)
		gl.DeleteVertexArrays(1, &r.starVAO)
		gl.DeleteBuffers(1, &r.starVBO)
		r.prepared = false
	}
	if r.window != nil {
		r.window.Destroy()
		r.window = nil
	}
	glfw.Terminate()
}
