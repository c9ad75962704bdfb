package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"starfield/core"
	"starfield/simulation"
)

type callLog struct {
	calls []string
	dts   []float64
}

func (l *callLog) add(s string) { l.calls = append(l.calls, s) }

type fakeField struct{ log *callLog }

func (f *fakeField) Update(dt float64) {
	f.log.add("update")
	f.log.dts = append(f.log.dts, dt)
}

type fakeRig struct {
	*simulation.CameraRig
	log *callLog
}

func (r *fakeRig) Tick(dt float64) {
	r.log.add("tick")
	r.CameraRig.Tick(dt)
}

type fakeGraph struct {
	log     *callLog
	err     error
	resizes [][2]int
}

func (g *fakeGraph) RenderFrame(scene *simulation.Scene, camera simulation.Camera) error {
	g.log.add("render")
	return g.err
}

func (g *fakeGraph) Resize(width, height int) {
	g.resizes = append(g.resizes, [2]int{width, height})
}

type fakeStats struct{ log *callLog }

func (s *fakeStats) Begin() { s.log.add("begin") }
func (s *fakeStats) End()   { s.log.add("end") }

// fakeHost allows a fixed number of frames, running onWait before each.
type fakeHost struct {
	frames int
	waits  int
	onWait func(n int)
	err    error
}

func (h *fakeHost) WaitFrame() error {
	h.waits++
	if h.onWait != nil {
		h.onWait(h.waits)
	}
	if h.err != nil {
		return h.err
	}
	if h.waits > h.frames {
		return core.ErrHostClosed
	}
	return nil
}

type stepClock struct {
	t    time.Time
	step time.Duration
}

func (c *stepClock) Now() time.Time {
	now := c.t
	c.t = c.t.Add(c.step)
	return now
}

type fixture struct {
	log   *callLog
	rig   *simulation.CameraRig
	graph *fakeGraph
	host  *fakeHost
	sched *Scheduler
}

func newFixture(t *testing.T, frames int) *fixture {
	t.Helper()
	log := &callLog{}
	rig, err := simulation.NewCameraRig(simulation.DefaultCameraConfig())
	if err != nil {
		t.Fatalf("NewCameraRig: %v", err)
	}
	f := &fixture{
		log:   log,
		rig:   rig,
		graph: &fakeGraph{log: log},
		host:  &fakeHost{frames: frames},
	}
	f.sched, err = New(Config{
		Field:  &fakeField{log: log},
		Camera: &fakeRig{CameraRig: rig, log: log},
		Graph:  f.graph,
		Scene:  &simulation.Scene{},
		Host:   f.host,
		Clock:  &stepClock{t: time.Unix(0, 0), step: 16 * time.Millisecond},
		Stats:  &fakeStats{log: log},
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return f
}

func TestSchedulerFrameOrder(t *testing.T) {
	f := newFixture(t, 3)

	if err := f.sched.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := []string{"begin", "update", "tick", "render", "end"}
	if len(f.log.calls) != 3*len(want) {
		t.Fatalf("calls = %v", f.log.calls)
	}
	for i, c := range f.log.calls {
		if c != want[i%len(want)] {
			t.Fatalf("call %d = %q, want %q (all: %v)", i, c, want[i%len(want)], f.log.calls)
		}
	}
	if f.sched.Frames() != 3 {
		t.Errorf("frames = %d, want 3", f.sched.Frames())
	}
}

func TestSchedulerDeltaTime(t *testing.T) {
	f := newFixture(t, 4)

	if err := f.sched.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if f.log.dts[0] != 0 {
		t.Errorf("first frame dt = %v, want 0", f.log.dts[0])
	}
	for i, dt := range f.log.dts[1:] {
		if dt != 0.016 {
			t.Errorf("frame %d dt = %v, want 0.016", i+1, dt)
		}
	}
}

func TestSchedulerDrivesCamera(t *testing.T) {
	f := newFixture(t, 61)
	start := f.rig.Angle()

	if err := f.sched.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	// 60 steps of 16ms at 0.1 rad/s
	want := start + 60*0.016*0.1
	if diff := f.rig.Angle() - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("angle = %v, want %v", f.rig.Angle(), want)
	}
}

func TestSchedulerCancel(t *testing.T) {
	f := newFixture(t, 1000)
	ctx, cancel := context.WithCancel(context.Background())
	f.host.onWait = func(n int) {
		if n == 5 {
			cancel()
		}
	}

	err := f.sched.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run err = %v, want context.Canceled", err)
	}
	if f.sched.Frames() != 4 {
		t.Errorf("frames = %d, want 4", f.sched.Frames())
	}
}

func TestSchedulerRenderFailureIsFatal(t *testing.T) {
	f := newFixture(t, 10)
	f.graph.err = errors.New("context lost")

	err := f.sched.Run(context.Background())
	if err == nil || !errors.Is(err, f.graph.err) {
		t.Fatalf("Run err = %v, want wrapped render error", err)
	}
	if f.sched.Frames() != 0 {
		t.Errorf("frames = %d, want 0", f.sched.Frames())
	}

	want := []string{"begin", "update", "tick", "render", "end"}
	if len(f.log.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", f.log.calls, want)
	}
	for i := range want {
		if f.log.calls[i] != want[i] {
			t.Errorf("call %d = %q, want %q", i, f.log.calls[i], want[i])
		}
	}
}

func TestSchedulerHostFailure(t *testing.T) {
	f := newFixture(t, 10)
	f.host.err = errors.New("display gone")

	if err := f.sched.Run(context.Background()); !errors.Is(err, f.host.err) {
		t.Fatalf("Run err = %v", err)
	}
}

func TestSchedulerResizeBetweenFrames(t *testing.T) {
	f := newFixture(t, 3)
	f.host.onWait = func(n int) {
		if n == 2 {
			if err := f.sched.OnResize(1920, 1080); err != nil {
				t.Errorf("OnResize: %v", err)
			}
		}
	}

	if err := f.sched.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if want := float32(1920) / 1080; f.rig.Aspect() != want {
		t.Errorf("aspect = %v, want %v", f.rig.Aspect(), want)
	}
	if len(f.graph.resizes) != 1 || f.graph.resizes[0] != [2]int{1920, 1080} {
		t.Errorf("surface resizes = %v", f.graph.resizes)
	}
}

func TestSchedulerResizeIdempotent(t *testing.T) {
	f := newFixture(t, 0)

	for i := 0; i < 2; i++ {
		if err := f.sched.OnResize(800, 600); err != nil {
			t.Fatalf("OnResize: %v", err)
		}
	}
	once := f.rig.Aspect()
	if once != float32(800)/600 {
		t.Errorf("aspect = %v", once)
	}

	if err := f.sched.OnResize(0, 600); !errors.Is(err, core.ErrInvalidParameter) {
		t.Errorf("zero resize err = %v", err)
	}
	if f.rig.Aspect() != once || len(f.graph.resizes) != 2 {
		t.Errorf("zero-size resize reached camera or surface")
	}
}

func TestNewValidation(t *testing.T) {
	log := &callLog{}
	rig, _ := simulation.NewCameraRig(simulation.DefaultCameraConfig())
	good := Config{
		Field:  &fakeField{log: log},
		Camera: rig,
		Graph:  &fakeGraph{log: log},
		Scene:  &simulation.Scene{},
		Host:   &fakeHost{},
	}
	if _, err := New(good); err != nil {
		t.Fatalf("New: %v", err)
	}

	noHost := good
	noHost.Host = nil
	if _, err := New(noHost); !errors.Is(err, core.ErrInvalidParameter) {
		t.Errorf("missing host err = %v", err)
	}

	noScene := good
	noScene.Scene = nil
	if _, err := New(noScene); !errors.Is(err, core.ErrNotBuilt) {
		t.Errorf("missing scene err = %v", err)
	}
}

var _ Rig = (*fakeRig)(nil)
