package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"starfield/app"
	"starfield/config"
	"starfield/core"
	"starfield/metrics"
	"starfield/rendering/opengl"
)

func main() {
	runtime.LockOSThread()

	// Parse command line flags
	var (
		configPath  = flag.String("config", config.DefaultPath, "Settings file")
		width       = flag.Int("width", 0, "Window width (overrides settings)")
		height      = flag.Int("height", 0, "Window height (overrides settings)")
		stars       = flag.Int("stars", 0, "Number of stars (overrides settings)")
		metricsAddr = flag.String("metrics-addr", "", "Serve Prometheus frame metrics on this address")
		noStats     = flag.Bool("no-stats", false, "Hide the FPS overlay")
		verbose     = flag.Bool("v", false, "Debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	settings, found, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load settings: %v", err)
	}
	if !found {
		logger.Info("no settings file, using defaults", "path", *configPath)
	}
	if *width > 0 {
		settings.Window.Width = *width
	}
	if *height > 0 {
		settings.Window.Height = *height
	}
	if *stars > 0 {
		settings.Stars.Count = *stars
	}
	if *noStats {
		settings.Stats.Show = false
	}
	if *metricsAddr != "" {
		settings.Stats.MetricsAddr = *metricsAddr
	}

	fmt.Println("=== Starfield (OpenGL) ===")
	fmt.Printf("Stars: %d within radius %.0f\n", settings.Stars.Count, settings.Stars.Radius)
	fmt.Printf("Window: %dx%d\n", settings.Window.Width, settings.Window.Height)

	stats := metrics.NewFrameStats(nil)

	renderer, err := opengl.NewRenderer(opengl.Options{
		Width:     settings.Window.Width,
		Height:    settings.Window.Height,
		Title:     settings.Window.Title,
		VSync:     settings.Window.VSync,
		Stats:     stats,
		ShowStats: settings.Stats.Show,
		Logger:    logger,
	})
	if errors.Is(err, core.ErrBackendInit) {
		log.Fatalf("No usable display: %v", err)
	} else if err != nil {
		log.Fatalf("Failed to create renderer: %v", err)
	}
	defer renderer.Terminate()

	if addr := settings.Stats.MetricsAddr; addr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", stats.Handler())
			logger.Info("serving metrics", "addr", addr)
			if err := http.ListenAndServe(addr, mux); err != nil {
				logger.Error("metrics server stopped", "err", err)
			}
		}()
	}

	fmt.Println("\nControls:")
	fmt.Println("  Mouse: Click and drag to orbit")
	fmt.Println("  Scroll: Zoom in/out")
	fmt.Println("  F1: Toggle FPS overlay")
	fmt.Println("  ESC: Exit")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = app.Run(ctx, app.Options{
		Settings: settings,
		Backend:  renderer,
		Stats:    stats,
		Logger:   logger,
	})
	if code := app.ExitStatus(err); code != 0 {
		logger.Error("frame loop failed", "err", err)
		renderer.Terminate()
		os.Exit(code)
	}

	fmt.Println("\nShutting down...")
}
