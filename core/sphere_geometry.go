package core

import (
	"fmt"
	"math"
)

// SphereVertexStride is the number of floats per sphere vertex:
// position (3), normal (3), texcoord (2).
const SphereVertexStride = 8

// SphereMesh holds interleaved vertex data and triangle indices for a UV sphere
type SphereMesh struct {
	Radius   float32
	Segments int
	Rings    int
	Vertices []float32
	Indices  []uint32
}

// VertexCount returns the number of vertices in the mesh
func (m *SphereMesh) VertexCount() int {
	return len(m.Vertices) / SphereVertexStride
}

// GenerateSphere builds a UV sphere. Segments and rings fall back to 64
// and 32 when zero; negative values and a non-positive radius are rejected.
func GenerateSphere(radius float32, segments, rings int) (*SphereMesh, error) {
	if radius <= 0 {
		return nil, fmt.Errorf("sphere radius %v: %w", radius, ErrInvalidParameter)
	}
	if segments < 0 || rings < 0 {
		return nil, fmt.Errorf("sphere tessellation %dx%d: %w", segments, rings, ErrInvalidParameter)
	}
	if segments == 0 {
		segments = 64
	}
	if rings == 0 {
		rings = 32
	}

	vertices := make([]float32, 0, (rings+1)*(segments+1)*SphereVertexStride)
	indices := make([]uint32, 0, rings*segments*6)

	for ring := 0; ring <= rings; ring++ {
		theta := float64(ring) * math.Pi / float64(rings)
		sinTheta := float32(math.Sin(theta))
		cosTheta := float32(math.Cos(theta))

		for seg := 0; seg <= segments; seg++ {
			phi := float64(seg) * 2.0 * math.Pi / float64(segments)
			sinPhi := float32(math.Sin(phi))
			cosPhi := float32(math.Cos(phi))

			x := cosPhi * sinTheta
			y := cosTheta
			z := sinPhi * sinTheta

			u := float32(seg) / float32(segments)
			v := float32(ring) / float32(rings)
			vertices = append(vertices,
				x*radius, y*radius, z*radius,
				x, y, z,
				u, v,
			)
		}
	}

	for ring := 0; ring < rings; ring++ {
		for seg := 0; seg < segments; seg++ {
			current := uint32(ring*(segments+1) + seg)
			next := current + uint32(segments) + 1

			// Counter-clockwise seen from outside
			indices = append(indices, current, current+1, next)
			indices = append(indices, current+1, next+1, next)
		}
	}

	return &SphereMesh{
		Radius:   radius,
		Segments: segments,
		Rings:    rings,
		Vertices: vertices,
		Indices:  indices,
	}, nil
}
