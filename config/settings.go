package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	colorful "github.com/lucasb-eyer/go-colorful"

	"starfield/core"
	"starfield/simulation"
)

// DefaultPath is where Load looks when no path is given
const DefaultPath = "settings.json"

type Settings struct {
	Window WindowSettings `json:"window"`
	Scene  SceneSettings  `json:"scene"`
	Stars  StarSettings   `json:"stars"`
	Camera CameraSettings `json:"camera"`
	Stats  StatsSettings  `json:"stats"`
}

type WindowSettings struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Title  string `json:"title"`
	VSync  bool   `json:"vsync"`
}

type SceneSettings struct {
	Background     string     `json:"background"`
	PlanetRadius   float32    `json:"planetRadius"`
	PlanetSegments int        `json:"planetSegments"`
	PlanetColor    string     `json:"planetColor"`
	ToonBands      int        `json:"toonBands"`
	Ambient        float32    `json:"ambient"`
	Sun            float32    `json:"sun"`
	SunPosition    [3]float32 `json:"sunPosition"`
}

type StarSettings struct {
	Count       int        `json:"count"`
	Radius      float32    `json:"radius"`
	InnerRadius float32    `json:"innerRadius"`
	Origin      [3]float32 `json:"origin"`
	Seed        int64      `json:"seed"`
	DriftSpeed  float64    `json:"driftSpeed"`
	TwinkleRate float64    `json:"twinkleRate"`
	MinSize     float32    `json:"minSize"`
	MaxSize     float32    `json:"maxSize"`
}

type CameraSettings struct {
	FieldOfView     float32    `json:"fieldOfView"`
	Near            float32    `json:"near"`
	Far             float32    `json:"far"`
	Position        [3]float32 `json:"position"`
	AutoRotate      bool       `json:"autoRotate"`
	AutoRotateSpeed float64    `json:"autoRotateSpeed"`
	MinDistance     float32    `json:"minDistance"`
	MaxDistance     float32    `json:"maxDistance"`
}

type StatsSettings struct {
	Show        bool   `json:"show"`
	MetricsAddr string `json:"metricsAddr"`
}

// Default returns the built-in scene settings.
func Default() Settings {
	cam := simulation.DefaultCameraConfig()
	scene := simulation.DefaultSceneConfig()
	return Settings{
		Window: WindowSettings{
			Width:  1280,
			Height: 720,
			Title:  "Starfield",
			VSync:  true,
		},
		Scene: SceneSettings{
			Background:     scene.Background.String(),
			PlanetRadius:   scene.PlanetRadius,
			PlanetSegments: scene.PlanetSegments,
			PlanetColor:    scene.PlanetColor.String(),
			ToonBands:      scene.ToonBands,
			Ambient:        scene.AmbientIntensity,
			Sun:            scene.SunIntensity,
			SunPosition:    scene.SunPosition,
		},
		Stars: StarSettings{
			Count:       300,
			Radius:      1000,
			Seed:        1,
			DriftSpeed:  simulation.DefaultDriftSpeed,
			TwinkleRate: simulation.DefaultTwinkleRate,
		},
		Camera: CameraSettings{
			FieldOfView:     cam.FieldOfView,
			Near:            cam.Near,
			Far:             cam.Far,
			Position:        cam.Position,
			AutoRotate:      cam.AutoRotate,
			AutoRotateSpeed: cam.AutoRotateSpeed,
			MinDistance:     cam.MinDistance,
			MaxDistance:     cam.MaxDistance,
		},
		Stats: StatsSettings{
			Show: true,
		},
	}
}

// Load reads settings from path on top of the defaults. A missing file
// is not an error; found reports whether one was read.
func Load(path string) (s Settings, found bool, err error) {
	s = Default()
	if path == "" {
		path = DefaultPath
	}

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, false, nil
		}
		return s, false, err
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&s); err != nil {
		return s, true, fmt.Errorf("error parsing %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return s, true, fmt.Errorf("invalid %s: %w", path, err)
	}
	return s, true, nil
}

// Validate checks the values that cannot be caught later by the
// components themselves.
func (s Settings) Validate() error {
	if s.Window.Width <= 0 || s.Window.Height <= 0 {
		return fmt.Errorf("window %dx%d: %w", s.Window.Width, s.Window.Height, core.ErrInvalidParameter)
	}
	if _, err := s.Scene.colors(); err != nil {
		return err
	}
	return nil
}

func (s SceneSettings) colors() ([2]core.Color, error) {
	var out [2]core.Color
	for i, hex := range []string{s.Background, s.PlanetColor} {
		c, err := colorful.Hex(hex)
		if err != nil {
			return out, fmt.Errorf("color %q: %w", hex, core.ErrInvalidParameter)
		}
		out[i] = core.Color{R: float32(c.R), G: float32(c.G), B: float32(c.B)}
	}
	return out, nil
}

// SceneConfig converts the scene section for the scene graph.
func (s Settings) SceneConfig() (simulation.SceneConfig, error) {
	colors, err := s.Scene.colors()
	if err != nil {
		return simulation.SceneConfig{}, err
	}
	return simulation.SceneConfig{
		Background:       colors[0],
		PlanetRadius:     s.Scene.PlanetRadius,
		PlanetSegments:   s.Scene.PlanetSegments,
		PlanetColor:      colors[1],
		ToonBands:        s.Scene.ToonBands,
		AmbientIntensity: s.Scene.Ambient,
		SunIntensity:     s.Scene.Sun,
		SunPosition:      mgl32.Vec3(s.Scene.SunPosition),
	}, nil
}

// CameraConfig converts the camera section for the camera rig.
func (s Settings) CameraConfig() simulation.CameraConfig {
	cfg := simulation.DefaultCameraConfig()
	cfg.FieldOfView = s.Camera.FieldOfView
	cfg.Near = s.Camera.Near
	cfg.Far = s.Camera.Far
	cfg.Position = mgl32.Vec3(s.Camera.Position)
	cfg.AutoRotate = s.Camera.AutoRotate
	cfg.AutoRotateSpeed = s.Camera.AutoRotateSpeed
	cfg.MinDistance = s.Camera.MinDistance
	cfg.MaxDistance = s.Camera.MaxDistance
	return cfg
}

// ParticleOptions converts the star section; the palette stays the
// default warm gradient.
func (s Settings) ParticleOptions() simulation.ParticleOptions {
	return simulation.ParticleOptions{
		Seed:        s.Stars.Seed,
		InnerRadius: s.Stars.InnerRadius,
		DriftSpeed:  s.Stars.DriftSpeed,
		TwinkleRate: s.Stars.TwinkleRate,
		MinSize:     s.Stars.MinSize,
		MaxSize:     s.Stars.MaxSize,
	}
}

// StarOrigin returns the star field center
func (s Settings) StarOrigin() mgl32.Vec3 {
	return mgl32.Vec3(s.Stars.Origin)
}
