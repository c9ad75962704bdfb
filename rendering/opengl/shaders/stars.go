package shaders

import "github.com/go-gl/gl/v4.3-core/gl"

// Star vertices follow simulation.VertexStride: position, color, size.
const starVertexShader = `
#version 410 core

layout (location = 0) in vec3 position;
layout (location = 1) in vec3 color;
layout (location = 2) in float size;

uniform mat4 view;
uniform mat4 projection;
uniform float pixelRatio;

out vec3 fragColor;

void main() {
    gl_Position = projection * view * vec4(position, 1.0);
    gl_PointSize = max(size * pixelRatio, 1.0);
    fragColor = color;
}
`

// Round, soft-edged point sprites
const starFragmentShader = `
#version 410 core

in vec3 fragColor;
out vec4 outColor;

void main() {
    vec2 c = gl_PointCoord * 2.0 - 1.0;
    float r2 = dot(c, c);
    if (r2 > 1.0) {
        discard;
    }
    float alpha = 1.0 - smoothstep(0.4, 1.0, r2);
    outColor = vec4(fragColor, alpha);
}
`

// StarProgram draws the particle field as point sprites
type StarProgram struct {
	ID uint32

	View       int32
	Projection int32
	PixelRatio int32
}

func NewStarProgram() (*StarProgram, error) {
	id, err := NewProgram("star", starVertexShader, starFragmentShader)
	if err != nil {
		return nil, err
	}
	return &StarProgram{
		ID:         id,
		View:       uniform(id, "view"),
		Projection: uniform(id, "projection"),
		PixelRatio: uniform(id, "pixelRatio"),
	}, nil
}

func (p *StarProgram) Delete() {
	if p != nil && p.ID != 0 {
		gl.DeleteProgram(p.ID)
		p.ID = 0
	}
}
