package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"starfield/core"
	"starfield/simulation"
)

// Clock supplies frame timestamps.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Host is the display environment. WaitFrame blocks until the next
// display refresh and delivers pending window events (resize, input)
// on the calling goroutine. It returns core.ErrHostClosed once the
// surface is gone.
type Host interface {
	WaitFrame() error
}

// Updater advances animated state by a time step
type Updater interface {
	Update(dt float64)
}

// Rig is the camera as driven by the scheduler.
type Rig interface {
	simulation.Camera
	Tick(dt float64)
	ApplyResize(width, height int) error
}

// Graph renders built scenes and owns the display surface size.
type Graph interface {
	RenderFrame(scene *simulation.Scene, camera simulation.Camera) error
	Resize(width, height int)
}

// Stats receives begin/end markers once per frame.
type Stats interface {
	Begin()
	End()
}

type noStats struct{}

func (noStats) Begin() {}
func (noStats) End()   {}

// Config wires a Scheduler. Clock, Stats and Logger are optional.
type Config struct {
	Field  Updater
	Camera Rig
	Graph  Graph
	Scene  *simulation.Scene
	Host   Host

	Clock  Clock
	Stats  Stats
	Logger *slog.Logger
}

// Scheduler drives the per-frame update → render sequence. All of its
// methods run on a single goroutine; host events arrive from inside
// WaitFrame, between frames.
type Scheduler struct {
	field  Updater
	camera Rig
	graph  Graph
	scene  *simulation.Scene
	host   Host
	clock  Clock
	stats  Stats
	logger *slog.Logger

	last   time.Time
	frames uint64
}

// New validates cfg and returns a Scheduler ready to Run.
func New(cfg Config) (*Scheduler, error) {
	if cfg.Field == nil || cfg.Camera == nil || cfg.Graph == nil || cfg.Host == nil {
		return nil, fmt.Errorf("scheduler needs field, camera, graph and host: %w", core.ErrInvalidParameter)
	}
	if cfg.Scene == nil {
		return nil, fmt.Errorf("scheduler: %w", core.ErrNotBuilt)
	}
	if cfg.Clock == nil {
		cfg.Clock = SystemClock{}
	}
	if cfg.Stats == nil {
		cfg.Stats = noStats{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Scheduler{
		field:  cfg.Field,
		camera: cfg.Camera,
		graph:  cfg.Graph,
		scene:  cfg.Scene,
		host:   cfg.Host,
		clock:  cfg.Clock,
		stats:  cfg.Stats,
		logger: cfg.Logger,
	}, nil
}

// Run ticks once per display refresh until ctx is cancelled, the host
// closes, or a frame fails. A closed host is a clean exit.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("frame loop started")
	for {
		if err := ctx.Err(); err != nil {
			s.logger.Info("frame loop cancelled", "frames", s.frames)
			return err
		}

		if err := s.host.WaitFrame(); err != nil {
			if errors.Is(err, core.ErrHostClosed) {
				s.logger.Info("host closed", "frames", s.frames)
				return nil
			}
			return fmt.Errorf("wait for frame %d: %w", s.frames, err)
		}

		// Cancellation observed during the wait wins over one more frame.
		if err := ctx.Err(); err != nil {
			s.logger.Info("frame loop cancelled", "frames", s.frames)
			return err
		}

		if err := s.Step(s.delta()); err != nil {
			s.logger.Error("frame failed", "frame", s.frames, "err", err)
			return err
		}
	}
}

// delta returns seconds since the previous frame; 0 on the first frame
// or if the clock went backwards.
func (s *Scheduler) delta() float64 {
	now := s.clock.Now()
	defer func() { s.last = now }()

	if s.last.IsZero() {
		return 0
	}
	dt := now.Sub(s.last).Seconds()
	if dt < 0 {
		return 0
	}
	return dt
}

// Step runs one frame with an explicit time step: stars, then camera,
// then render. Stats markers pair up even when the render fails.
func (s *Scheduler) Step(dt float64) error {
	s.stats.Begin()
	defer s.stats.End()

	s.field.Update(dt)
	s.camera.Tick(dt)
	if err := s.graph.RenderFrame(s.scene, s.camera); err != nil {
		return fmt.Errorf("render frame %d: %w", s.frames, err)
	}
	s.frames++
	return nil
}

// OnResize forwards a viewport change to the camera and the display
// surface. Zero-area viewports, such as a minimized window, are
// rejected and leave both untouched.
func (s *Scheduler) OnResize(width, height int) error {
	if err := s.camera.ApplyResize(width, height); err != nil {
		s.logger.Debug("resize ignored", "width", width, "height", height, "err", err)
		return err
	}
	s.graph.Resize(width, height)
	s.logger.Debug("resized", "width", width, "height", height)
	return nil
}

// Frames returns the number of completed frames
func (s *Scheduler) Frames() uint64 {
	return s.frames
}
