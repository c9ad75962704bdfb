package shaders

import "github.com/go-gl/gl/v4.3-core/gl"

// Planet vertices follow core.SphereVertexStride: position, normal, uv.
const planetVertexShader = `
#version 410 core

layout (location = 0) in vec3 position;
layout (location = 1) in vec3 normal;

uniform mat4 model;
uniform mat4 view;
uniform mat4 projection;

out vec3 vNormal;

void main() {
    vNormal = mat3(model) * normal;
    gl_Position = projection * view * model * vec4(position, 1.0);
}
`

// Diffuse response is quantized into a fixed number of bands.
const planetFragmentShader = `
#version 410 core

in vec3 vNormal;
out vec4 outColor;

uniform vec3 baseColor;
uniform vec3 ambient;
uniform vec3 lightColor;
uniform vec3 lightDir;
uniform int bands;

void main() {
    float nDotL = max(dot(normalize(vNormal), normalize(lightDir)), 0.0);
    float n = float(max(bands, 1));
    float band = min(floor(nDotL * n), n - 1.0) / (n - 1.0 + step(n, 1.0));
    vec3 color = baseColor * (ambient + lightColor * band);
    outColor = vec4(min(color, vec3(1.0)), 1.0);
}
`

// PlanetProgram is the toon material of the planet
type PlanetProgram struct {
	ID uint32

	Model      int32
	View       int32
	Projection int32
	BaseColor  int32
	Ambient    int32
	LightColor int32
	LightDir   int32
	Bands      int32
}

func NewPlanetProgram() (*PlanetProgram, error) {
	id, err := NewProgram("planet", planetVertexShader, planetFragmentShader)
	if err != nil {
		return nil, err
	}
	return &PlanetProgram{
		ID:         id,
		Model:      uniform(id, "model"),
		View:       uniform(id, "view"),
		Projection: uniform(id, "projection"),
		BaseColor:  uniform(id, "baseColor"),
		Ambient:    uniform(id, "ambient"),
		LightColor: uniform(id, "lightColor"),
		LightDir:   uniform(id, "lightDir"),
		Bands:      uniform(id, "bands"),
	}, nil
}

func (p *PlanetProgram) Delete() {
	if p != nil && p.ID != 0 {
		gl.DeleteProgram(p.ID)
		p.ID = 0
	}
}
