// Package app composes the star field, camera, scene graph and frame
// loop on top of a rendering backend.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"starfield/config"
	"starfield/scheduler"
	"starfield/simulation"
)

// Backend is a display surface plus renderer, as provided by
// rendering/opengl and rendering/raylib.
type Backend interface {
	simulation.Renderer
	scheduler.Host

	// FramebufferSize reports the current drawable size in pixels.
	FramebufferSize() (width, height int)
	// SetControls routes pointer drag and scroll to an orbit target.
	SetControls(c simulation.OrbitControls)
	// SetResizeHandler registers the callback for surface size changes.
	SetResizeHandler(fn func(width, height int))
}

// Options carries the collaborators of Run. Clock, Stats and Logger are
// optional.
type Options struct {
	Settings config.Settings
	Backend  Backend
	Clock    scheduler.Clock
	Stats    scheduler.Stats
	Logger   *slog.Logger
}

// Setup wires every component and builds the scene without starting the
// frame loop.
func Setup(opts Options) (*scheduler.Scheduler, *simulation.CameraRig, error) {
	if opts.Backend == nil {
		return nil, nil, fmt.Errorf("app: nil backend")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := opts.Settings

	stars, err := simulation.NewParticleField(s.StarOrigin(), s.Stars.Count, s.Stars.Radius, s.ParticleOptions())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create star field: %w", err)
	}

	rig, err := simulation.NewCameraRig(s.CameraConfig())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create camera: %w", err)
	}

	sceneCfg, err := s.SceneConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read scene settings: %w", err)
	}
	graph, err := simulation.NewSceneGraph(opts.Backend, stars, sceneCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create scene graph: %w", err)
	}
	scene, err := graph.Build()
	if err != nil {
		return nil, nil, err
	}

	sched, err := scheduler.New(scheduler.Config{
		Field:  stars,
		Camera: rig,
		Graph:  graph,
		Scene:  scene,
		Host:   opts.Backend,
		Clock:  opts.Clock,
		Stats:  opts.Stats,
		Logger: logger,
	})
	if err != nil {
		return nil, nil, err
	}

	opts.Backend.SetControls(rig)
	opts.Backend.SetResizeHandler(func(width, height int) {
		// Minimized windows report 0x0; keep the last good projection.
		_ = sched.OnResize(width, height)
	})

	w, h := opts.Backend.FramebufferSize()
	if err := sched.OnResize(w, h); err != nil {
		logger.Warn("initial viewport unusable, waiting for resize", "width", w, "height", h)
	}

	logger.Info("scene built",
		"stars", stars.Len(),
		"starRadius", stars.MaxRadius(),
		"planetVertices", scene.Planet.Mesh.VertexCount(),
	)
	return sched, rig, nil
}

// Run sets up the scene and drives frames until ctx is cancelled or the
// backend's surface closes.
func Run(ctx context.Context, opts Options) error {
	sched, _, err := Setup(opts)
	if err != nil {
		return err
	}
	return sched.Run(ctx)
}

// ExitStatus maps the result of Run to a process exit status.
// Cancellation by signal is a clean shutdown.
func ExitStatus(err error) int {
	if err == nil || errors.Is(err, context.Canceled) {
		return 0
	}
	return 1
}
