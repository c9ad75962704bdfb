package simulation

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/aquilax/go-perlin"
	"github.com/go-gl/mathgl/mgl32"

	"starfield/core"
)

// Interleaved star vertex layout: position (3), color (3), point size (1).
const (
	VertexStride   = 7
	OffsetPosition = 0
	OffsetColor    = 3
	OffsetSize     = 6
)

// ContainmentEpsilon bounds how far a star may sit outside its shell after
// float32 rounding of an in-bounds position.
const ContainmentEpsilon = 1e-3

// Stock animation rates
const (
	DefaultDriftSpeed  = 0.02
	DefaultTwinkleRate = 0.8
)

// ParticleOptions tunes a ParticleField. Zero values select defaults,
// except DriftSpeed and TwinkleRate where zero holds that motion still.
type ParticleOptions struct {
	ColorPalette core.Palette
	Seed         int64
	InnerRadius  float32

	DriftSpeed  float64 // radians per second around the Y axis
	TwinkleRate float64 // noise cycles per second
	MinSize     float32 // point size in pixels
	MaxSize     float32
}

func (o ParticleOptions) withDefaults() ParticleOptions {
	if o.ColorPalette == nil {
		o.ColorPalette = core.DefaultPalette()
	}
	if o.Seed == 0 {
		o.Seed = 1
	}
	if o.MinSize == 0 {
		o.MinSize = 2
	}
	if o.MaxSize == 0 {
		o.MaxSize = max(6, o.MinSize)
	}
	return o
}

// ParticleField is a fixed-count set of stars. Animated state is derived
// from each star's base position, phase and the total elapsed time, and
// written in place into one interleaved vertex buffer.
type ParticleField struct {
	origin      mgl32.Vec3
	maxRadius   float32
	innerRadius float32
	opts        ParticleOptions

	vertices  []float32
	base      []mgl32.Vec3 // offsets from origin
	baseColor []core.Color
	baseSize  []float32
	phases    []float32

	elapsed float64
	noise   *perlin.Perlin
}

// NewParticleField samples count stars uniformly by volume inside the
// shell [opts.InnerRadius, maxRadius] around origin.
func NewParticleField(origin mgl32.Vec3, count int, maxRadius float32, opts ParticleOptions) (*ParticleField, error) {
	if count <= 0 {
		return nil, fmt.Errorf("particle count %d: %w", count, core.ErrInvalidParameter)
	}
	if !(maxRadius > 0) {
		return nil, fmt.Errorf("particle radius %v: %w", maxRadius, core.ErrInvalidParameter)
	}
	if opts.InnerRadius < 0 || opts.InnerRadius >= maxRadius {
		return nil, fmt.Errorf("inner radius %v outside [0, %v): %w", opts.InnerRadius, maxRadius, core.ErrInvalidParameter)
	}
	if opts.MinSize < 0 || opts.MaxSize < 0 || (opts.MaxSize > 0 && opts.MinSize > opts.MaxSize) {
		return nil, fmt.Errorf("point size range [%v, %v]: %w", opts.MinSize, opts.MaxSize, core.ErrInvalidParameter)
	}
	opts = opts.withDefaults()

	f := &ParticleField{
		origin:      origin,
		maxRadius:   maxRadius,
		innerRadius: opts.InnerRadius,
		opts:        opts,
		vertices:    make([]float32, count*VertexStride),
		base:        make([]mgl32.Vec3, count),
		baseColor:   make([]core.Color, count),
		baseSize:    make([]float32, count),
		phases:      make([]float32, count),
		noise:       perlin.NewPerlin(2, 2, 3, opts.Seed),
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	r0 := float64(opts.InnerRadius)
	r1 := float64(maxRadius)
	r0c, r1c := r0*r0*r0, r1*r1*r1

	for i := 0; i < count; i++ {
		// Uniform direction
		z := 2*rng.Float64() - 1
		phi := 2 * math.Pi * rng.Float64()
		rxy := math.Sqrt(1 - z*z)

		// Uniform by volume within the shell
		r := math.Cbrt(rng.Float64()*(r1c-r0c) + r0c)
		if r > r1 {
			r = r1
		}

		f.base[i] = mgl32.Vec3{
			float32(r * rxy * math.Cos(phi)),
			float32(r * z),
			float32(r * rxy * math.Sin(phi)),
		}

		u := (r - r0) / (r1 - r0)
		f.baseColor[i] = opts.ColorPalette(u)
		f.baseSize[i] = opts.MinSize + rng.Float32()*(opts.MaxSize-opts.MinSize)
		f.phases[i] = rng.Float32()
	}

	f.apply()
	return f, nil
}

// Update advances the animation by dt seconds. Non-positive, NaN and
// infinite dt values leave the field untouched.
func (f *ParticleField) Update(dt float64) {
	if !(dt > 0) || math.IsInf(dt, 0) {
		return
	}
	f.elapsed += dt
	f.apply()
}

// apply rewrites the vertex buffer for the current elapsed time.
func (f *ParticleField) apply() {
	limit := float64(f.maxRadius)

	for i, b := range f.base {
		phase := float64(f.phases[i])

		angle := math.Mod(f.elapsed*f.opts.DriftSpeed*(0.5+phase), 2*math.Pi)
		sin, cos := math.Sincos(angle)

		x := float64(b[0])*cos + float64(b[2])*sin
		y := float64(b[1])
		z := -float64(b[0])*sin + float64(b[2])*cos

		if d := math.Sqrt(x*x + y*y + z*z); d > limit {
			s := limit / d
			x, y, z = x*s, y*s, z*s
		}

		n := f.noise.Noise1D(f.elapsed*f.opts.TwinkleRate + phase*97.13)
		if n > 1 {
			n = 1
		} else if n < -1 {
			n = -1
		}
		intensity := float32(0.7 + 0.3*n)

		v := f.vertices[i*VertexStride : (i+1)*VertexStride]
		v[OffsetPosition+0] = f.origin[0] + float32(x)
		v[OffsetPosition+1] = f.origin[1] + float32(y)
		v[OffsetPosition+2] = f.origin[2] + float32(z)

		c := f.baseColor[i].Scale(intensity)
		v[OffsetColor+0] = c.R
		v[OffsetColor+1] = c.G
		v[OffsetColor+2] = c.B

		v[OffsetSize] = f.baseSize[i] * (0.85 + 0.15*intensity)
	}
}

// Len returns the fixed number of stars
func (f *ParticleField) Len() int {
	return len(f.base)
}

// Position returns the current world position of star i
func (f *ParticleField) Position(i int) mgl32.Vec3 {
	v := f.vertices[i*VertexStride+OffsetPosition:]
	return mgl32.Vec3{v[0], v[1], v[2]}
}

// Color returns the current (twinkled) color of star i
func (f *ParticleField) Color(i int) core.Color {
	v := f.vertices[i*VertexStride+OffsetColor:]
	return core.Color{R: v[0], G: v[1], B: v[2]}
}

// BaseColor returns the palette color assigned to star i at construction
func (f *ParticleField) BaseColor(i int) core.Color {
	return f.baseColor[i]
}

// Size returns the current point size of star i
func (f *ParticleField) Size(i int) float32 {
	return f.vertices[i*VertexStride+OffsetSize]
}

// Phase returns the animation offset of star i
func (f *ParticleField) Phase(i int) float32 {
	return f.phases[i]
}

// Vertices exposes the live interleaved buffer. It is rewritten in place
// by Update and must not be modified by callers.
func (f *ParticleField) Vertices() []float32 {
	return f.vertices
}

// Elapsed returns the total animated time in seconds
func (f *ParticleField) Elapsed() float64 {
	return f.elapsed
}

func (f *ParticleField) Origin() mgl32.Vec3 {
	return f.origin
}

func (f *ParticleField) MaxRadius() float32 {
	return f.maxRadius
}

func (f *ParticleField) InnerRadius() float32 {
	return f.innerRadius
}
