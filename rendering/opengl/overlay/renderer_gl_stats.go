package overlay

import (
	"github.com/go-gl/gl/v4.3-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"starfield/metrics"
	"starfield/rendering/hud"
	"starfield/rendering/opengl/shaders"
)

const statsVertexShader = `
#version 410 core

layout (location = 0) in vec2 position;
layout (location = 1) in vec4 color;

out vec4 fragColor;

uniform mat4 projection;

void main() {
    gl_Position = projection * vec4(position, 0.0, 1.0);
    fragColor = color;
}
`

const statsFragmentShader = `
#version 410 core

in vec4 fragColor;
out vec4 outColor;

void main() {
    outColor = fragColor;
}
`

// StatsOverlay draws the FPS panel in the top-right corner
type StatsOverlay struct {
	program uint32
	projLoc int32
	vao     uint32
	vbo     uint32

	width  float32
	height float32

	stats *metrics.FrameStats

	// Reused every frame
	history  []float64
	rects    []hud.Rect
	vertices []float32
}

// NewStatsOverlay creates a stats overlay renderer for a width x height
// framebuffer.
func NewStatsOverlay(width, height int, stats *metrics.FrameStats) (*StatsOverlay, error) {
	program, err := shaders.NewProgram("stats", statsVertexShader, statsFragmentShader)
	if err != nil {
		return nil, err
	}

	so := &StatsOverlay{
		program: program,
		projLoc: gl.GetUniformLocation(program, gl.Str("projection\x00")),
		width:   float32(width),
		height:  float32(height),
		stats:   stats,
		history: make([]float64, 0, metrics.HistoryLen),
	}

	gl.GenVertexArrays(1, &so.vao)
	gl.GenBuffers(1, &so.vbo)

	gl.BindVertexArray(so.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, so.vbo)

	stride := int32(hud.FloatsPerVertex * 4)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, stride, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(1, 4, gl.FLOAT, false, stride, gl.PtrOffset(2*4))
	gl.EnableVertexAttribArray(1)

	gl.BindVertexArray(0)

	return so, nil
}

// Render draws the panel over whatever is in the framebuffer
func (so *StatsOverlay) Render() {
	if so.stats == nil || so.width < hud.PanelWidth {
		return
	}

	so.history = so.stats.History(so.history)
	so.rects = hud.AppendPanel(so.rects[:0], so.width-hud.PanelWidth, 0,
		so.stats.FPS(), so.stats.MaxFPS(), so.history)
	so.vertices = hud.AppendVertices(so.vertices[:0], so.rects)

	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	gl.UseProgram(so.program)
	projection := mgl32.Ortho2D(0, so.width, so.height, 0)
	gl.UniformMatrix4fv(so.projLoc, 1, false, &projection[0])

	gl.BindVertexArray(so.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, so.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(so.vertices)*4, gl.Ptr(so.vertices), gl.STREAM_DRAW)
	gl.DrawArrays(gl.TRIANGLES, 0, int32(len(so.vertices)/hud.FloatsPerVertex))

	gl.BindVertexArray(0)
	gl.Disable(gl.BLEND)
	gl.Enable(gl.CULL_FACE)
	gl.Enable(gl.DEPTH_TEST)
}

// UpdateSize updates viewport size
func (so *StatsOverlay) UpdateSize(width, height int) {
	so.width = float32(width)
	so.height = float32(height)
}

// Release cleans up resources
func (so *StatsOverlay) Release() {
	if so.program != 0 {
		gl.DeleteProgram(so.program)
	}
	if so.vao != 0 {
		gl.DeleteVertexArrays(1, &so.vao)
	}
	if so.vbo != 0 {
		gl.DeleteBuffers(1, &so.vbo)
	}
}
