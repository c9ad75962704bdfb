package opengl

import (
	"errors"
	"testing"

	"starfield/core"
)

func TestMinimizedWindowSkipsFrames(t *testing.T) {
	var sizes [][2]int
	r := &Renderer{prepared: true, width: 1280, height: 720}
	r.SetResizeHandler(func(width, height int) {
		sizes = append(sizes, [2]int{width, height})
	})

	r.onFramebufferSize(0, 0)
	if !r.minimized {
		t.Fatal("zero-area framebuffer not treated as minimized")
	}
	// Returns before touching GL, so no context is needed
	if err := r.Render(nil, nil); err != nil {
		t.Errorf("Render while minimized: %v", err)
	}

	r.onFramebufferSize(1280, 720)
	if r.minimized {
		t.Error("still minimized after restore")
	}

	want := [][2]int{{0, 0}, {1280, 720}}
	if len(sizes) != len(want) {
		t.Fatalf("resize handler saw %v, want %v", sizes, want)
	}
	for i := range want {
		if sizes[i] != want[i] {
			t.Errorf("resize %d = %v, want %v", i, sizes[i], want[i])
		}
	}
}

func TestRenderBeforePrepare(t *testing.T) {
	r := &Renderer{}
	if err := r.Render(nil, nil); !errors.Is(err, core.ErrNotBuilt) {
		t.Errorf("Render before Prepare = %v, want ErrNotBuilt", err)
	}
}
