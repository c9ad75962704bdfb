// Command starfield-raylib shows the starfield through the raylib
// backend.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"starfield/app"
	"starfield/config"
	"starfield/metrics"
	"starfield/rendering/raylib"
)

func main() {
	runtime.LockOSThread()

	var (
		configPath = flag.String("config", config.DefaultPath, "Settings file")
		stars      = flag.Int("stars", 0, "Number of stars (overrides settings)")
		noStats    = flag.Bool("no-stats", false, "Hide the FPS overlay")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	settings, _, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load settings: %v", err)
	}
	if *stars > 0 {
		settings.Stars.Count = *stars
	}
	if *noStats {
		settings.Stats.Show = false
	}

	fmt.Println("=== Starfield (raylib) ===")
	fmt.Printf("Stars: %d within radius %.0f\n", settings.Stars.Count, settings.Stars.Radius)

	stats := metrics.NewFrameStats(nil)
	renderer, err := raylib.NewRenderer(raylib.Options{
		Width:     settings.Window.Width,
		Height:    settings.Window.Height,
		Title:     settings.Window.Title,
		VSync:     settings.Window.VSync,
		Stats:     stats,
		ShowStats: settings.Stats.Show,
		Logger:    logger,
	})
	if err != nil {
		log.Fatalf("Failed to create renderer: %v", err)
	}
	defer renderer.Terminate()

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
		// os.Exit skips the deferred Terminate
		renderer.Terminate()
		os.Exit(code)
	}
}
