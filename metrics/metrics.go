package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HistoryLen is the number of FPS samples kept for the overlay graph
const HistoryLen = 74

// FrameStats is a begin/end frame counter in the manner of stats.js:
// FPS is sampled once per second, frame time on every End. Every frame
// is also recorded in Prometheus collectors on a private registry.
type FrameStats struct {
	now func() time.Time

	begin       time.Time
	windowStart time.Time
	frames      int

	fps       float64
	frameTime time.Duration
	maxFPS    float64

	history [HistoryLen]float64
	head    int
	samples int

	registry     *prometheus.Registry
	framesTotal  prometheus.Counter
	frameSeconds prometheus.Histogram
	fpsGauge     prometheus.Gauge
}

// NewFrameStats creates a counter reading time from now; nil selects
// time.Now.
func NewFrameStats(now func() time.Time) *FrameStats {
	if now == nil {
		now = time.Now
	}
	s := &FrameStats{
		now:      now,
		registry: prometheus.NewRegistry(),
		framesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "starfield_frames_total",
			Help: "Total number of rendered frames.",
		}),
		frameSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "starfield_frame_duration_seconds",
			Help:    "Time spent updating and rendering one frame.",
			Buckets: []float64{0.001, 0.002, 0.004, 0.008, 0.016, 0.033, 0.066, 0.1, 0.25},
		}),
		fpsGauge: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "starfield_fps",
			Help: "Frames per second over the last sampling window.",
		}),
	}
	s.registry.MustRegister(s.framesTotal, s.frameSeconds, s.fpsGauge)
	s.windowStart = now()
	return s
}

// Begin marks the start of a frame
func (s *FrameStats) Begin() {
	s.begin = s.now()
}

// End marks the end of a frame begun with Begin.
func (s *FrameStats) End() {
	t := s.now()
	s.frames++

	if !s.begin.IsZero() {
		s.frameTime = t.Sub(s.begin)
		s.frameSeconds.Observe(s.frameTime.Seconds())
	}
	s.framesTotal.Inc()

	if window := t.Sub(s.windowStart); window >= time.Second {
		s.fps = float64(s.frames) / window.Seconds()
		if s.fps > s.maxFPS {
			s.maxFPS = s.fps
		}
		s.fpsGauge.Set(s.fps)
		s.push(s.fps)
		s.windowStart = t
		s.frames = 0
	}
}

func (s *FrameStats) push(v float64) {
	s.history[s.head] = v
	s.head = (s.head + 1) % HistoryLen
	if s.samples < HistoryLen {
		s.samples++
	}
}

// FPS returns the last sampled frame rate, 0 before the first full second
func (s *FrameStats) FPS() float64 {
	return s.fps
}

// MaxFPS returns the highest sampled frame rate, used to scale the graph
func (s *FrameStats) MaxFPS() float64 {
	return s.maxFPS
}

// FrameTime returns the duration of the last completed frame
func (s *FrameStats) FrameTime() time.Duration {
	return s.frameTime
}

// History copies the FPS samples, oldest first, into dst and returns the
// filled prefix. It does not allocate when dst has HistoryLen capacity.
func (s *FrameStats) History(dst []float64) []float64 {
	dst = dst[:0]
	start := (s.head - s.samples + HistoryLen) % HistoryLen
	for i := 0; i < s.samples; i++ {
		dst = append(dst, s.history[(start+i)%HistoryLen])
	}
	return dst
}

// Registry exposes the collectors for tests and custom exporters
func (s *FrameStats) Registry() *prometheus.Registry {
	return s.registry
}

// Handler serves the frame metrics in the Prometheus exposition format.
func (s *FrameStats) Handler() http.Handler {
	return promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})
}
