package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

// frame runs one begin/end pair lasting work, then idles until the next
// frame boundary.
func frame(s *FrameStats, c *fakeClock, work, period time.Duration) {
	s.Begin()
	c.advance(work)
	s.End()
	c.advance(period - work)
}

func TestFrameStatsFPS(t *testing.T) {
	c := &fakeClock{t: time.Unix(1000, 0)}
	s := NewFrameStats(c.now)

	period := time.Second / 50
	for i := 0; i < 49; i++ {
		frame(s, c, 4*time.Millisecond, period)
	}
	if s.FPS() != 0 {
		t.Fatalf("FPS sampled before a full second: %v", s.FPS())
	}

	frame(s, c, 4*time.Millisecond, period)
	// 50 frames ended within 0.984s; the 51st closes the window.
	frame(s, c, 4*time.Millisecond, period)

	if fps := s.FPS(); fps < 49 || fps > 52 {
		t.Errorf("FPS = %.2f, want about 50", fps)
	}
	if s.FrameTime() != 4*time.Millisecond {
		t.Errorf("frame time = %v, want 4ms", s.FrameTime())
	}
	if got := testutil.ToFloat64(s.framesTotal); got != 51 {
		t.Errorf("frames_total = %v, want 51", got)
	}
	if got := testutil.ToFloat64(s.fpsGauge); got != s.FPS() {
		t.Errorf("fps gauge = %v, want %v", got, s.FPS())
	}
}

func TestFrameStatsHistory(t *testing.T) {
	c := &fakeClock{t: time.Unix(0, 0)}
	s := NewFrameStats(c.now)

	// One frame per 1.25s, so every End closes a window.
	for i := 0; i < HistoryLen+10; i++ {
		frame(s, c, time.Millisecond, 1250*time.Millisecond)
	}

	buf := make([]float64, 0, HistoryLen)
	h := s.History(buf)
	if len(h) != HistoryLen {
		t.Fatalf("history len = %d, want %d", len(h), HistoryLen)
	}
	for i, v := range h {
		if v <= 0 || v > 2 {
			t.Fatalf("sample %d = %v, want in (0, 2]", i, v)
		}
	}
	if s.MaxFPS() < h[len(h)-1] {
		t.Errorf("max FPS %v below last sample %v", s.MaxFPS(), h[len(h)-1])
	}

	allocs := testing.AllocsPerRun(10, func() { s.History(buf) })
	if allocs != 0 {
		t.Errorf("History allocated %.0f times", allocs)
	}
}

func TestFrameStatsHandler(t *testing.T) {
	c := &fakeClock{t: time.Unix(0, 0)}
	s := NewFrameStats(c.now)
	frame(s, c, 2*time.Millisecond, 16*time.Millisecond)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, name := range []string{"starfield_frames_total 1", "starfield_frame_duration_seconds_bucket", "starfield_fps"} {
		if !strings.Contains(body, name) {
			t.Errorf("exposition missing %q", name)
		}
	}
}
