package simulation

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"starfield/core"
)

type recordingRenderer struct {
	prepared   int
	rendered   int
	resizes    [][2]int
	prepareErr error
	renderErr  error
	lastScene  *Scene
}

func (r *recordingRenderer) Prepare(scene *Scene) error {
	r.prepared++
	r.lastScene = scene
	return r.prepareErr
}

func (r *recordingRenderer) Render(scene *Scene, camera Camera) error {
	r.rendered++
	return r.renderErr
}

func (r *recordingRenderer) Resize(width, height int) {
	r.resizes = append(r.resizes, [2]int{width, height})
}

func newTestGraph(t *testing.T, r Renderer) *SceneGraph {
	t.Helper()
	stars, err := NewParticleField(mgl32.Vec3{}, 300, 1000, ParticleOptions{})
	if err != nil {
		t.Fatalf("NewParticleField: %v", err)
	}
	g, err := NewSceneGraph(r, stars, DefaultSceneConfig())
	if err != nil {
		t.Fatalf("NewSceneGraph: %v", err)
	}
	return g
}

func TestSceneGraphBuild(t *testing.T) {
	r := &recordingRenderer{}
	g := newTestGraph(t, r)

	scene, err := g.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if r.prepared != 1 || r.lastScene != scene {
		t.Errorf("renderer prepared %d times", r.prepared)
	}
	if scene.Stars == nil || scene.Stars.Len() != 300 {
		t.Errorf("scene stars missing")
	}
	if scene.Planet.Mesh == nil || scene.Planet.Mesh.Radius != 50 {
		t.Errorf("planet mesh = %+v", scene.Planet.Mesh)
	}
	if scene.Planet.Color.String() != "#013220" {
		t.Errorf("planet color = %s", scene.Planet.Color)
	}
	if sun, ok := scene.Sun(); !ok || sun.Position != (mgl32.Vec3{100, 100, 100}) {
		t.Errorf("sun = %+v, %v", sun, ok)
	}
	if amb := scene.Ambient(); amb != (core.Color{R: 1, G: 1, B: 1}) {
		t.Errorf("ambient = %v", amb)
	}
	if g.Scene() != scene {
		t.Errorf("Scene() does not return the built scene")
	}
}

func TestSceneGraphBuildTwice(t *testing.T) {
	r := &recordingRenderer{}
	g := newTestGraph(t, r)

	if _, err := g.Build(); err != nil {
		t.Fatalf("Build: %v", err)
	}
	if _, err := g.Build(); !errors.Is(err, core.ErrAlreadyInitialized) {
		t.Errorf("second Build err = %v, want ErrAlreadyInitialized", err)
	}
	if r.prepared != 1 {
		t.Errorf("renderer prepared %d times, want 1", r.prepared)
	}
}

func TestSceneGraphPrepareFailure(t *testing.T) {
	r := &recordingRenderer{prepareErr: core.ErrBackendInit}
	g := newTestGraph(t, r)

	if _, err := g.Build(); !errors.Is(err, core.ErrBackendInit) {
		t.Fatalf("Build err = %v, want ErrBackendInit", err)
	}
	if g.Scene() != nil {
		t.Errorf("failed Build left a scene behind")
	}
}

func TestSceneGraphRenderFrame(t *testing.T) {
	r := &recordingRenderer{}
	g := newTestGraph(t, r)
	rig, _ := NewCameraRig(DefaultCameraConfig())

	if err := g.RenderFrame(nil, rig); !errors.Is(err, core.ErrNotBuilt) {
		t.Errorf("render before build err = %v, want ErrNotBuilt", err)
	}

	scene, err := g.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if err := g.RenderFrame(&Scene{}, rig); !errors.Is(err, core.ErrNotBuilt) {
		t.Errorf("render of foreign scene err = %v, want ErrNotBuilt", err)
	}
	if err := g.RenderFrame(scene, rig); err != nil {
		t.Fatalf("RenderFrame: %v", err)
	}
	if r.rendered != 1 {
		t.Errorf("rendered %d frames, want 1", r.rendered)
	}

	r.renderErr = errors.New("device lost")
	if err := g.RenderFrame(scene, rig); err == nil {
		t.Errorf("backend error was swallowed")
	}
}

func TestNewSceneGraphValidation(t *testing.T) {
	stars, _ := NewParticleField(mgl32.Vec3{}, 10, 10, ParticleOptions{})

	if _, err := NewSceneGraph(nil, stars, DefaultSceneConfig()); !errors.Is(err, core.ErrInvalidParameter) {
		t.Errorf("nil renderer err = %v", err)
	}
	if _, err := NewSceneGraph(&recordingRenderer{}, nil, DefaultSceneConfig()); !errors.Is(err, core.ErrInvalidParameter) {
		t.Errorf("nil stars err = %v", err)
	}
	cfg := DefaultSceneConfig()
	cfg.ToonBands = 0
	if _, err := NewSceneGraph(&recordingRenderer{}, stars, cfg); !errors.Is(err, core.ErrInvalidParameter) {
		t.Errorf("zero toon bands err = %v", err)
	}
}
