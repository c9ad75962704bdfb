// Package hud lays out the heads-up FPS panel as screen-space quads,
// independent of the graphics API that draws them.
package hud

import (
	"math"
	"strconv"

	"github.com/go-gl/mathgl/mgl32"
)

// Panel layout in pixels, after stats.js
const (
	PanelWidth  = 80
	PanelHeight = 48

	graphX      = 3
	graphY      = 15
	graphWidth  = 74
	graphHeight = 30

	digitWidth   = 4
	digitHeight  = 7
	digitStroke  = 1
	digitAdvance = 6
)

// FloatsPerVertex is the overlay vertex layout: position (2), color (4).
const FloatsPerVertex = 6

var (
	panelBackground = mgl32.Vec4{0, 0, 0.13, 0.9}
	panelForeground = mgl32.Vec4{0, 1, 1, 1}
	graphBackground = mgl32.Vec4{0, 0.24, 0.36, 1}
)

// Rect is an axis-aligned, screen-space quad; Y grows downward.
type Rect struct {
	X, Y, W, H float32
	Color      mgl32.Vec4
}

// Seven-segment encoding, bit order: top, top-right, bottom-right,
// bottom, bottom-left, top-left, middle.
var segments = [10]uint8{
	0b0111111, // 0
	0b0000110, // 1
	0b1011011, // 2
	0b1001111, // 3
	0b1100110, // 4
	0b1101101, // 5
	0b1111101, // 6
	0b0000111, // 7
	0b1111111, // 8
	0b1101111, // 9
}

// AppendDigits lays out the decimal digits of text as seven-segment
// glyphs starting at (x, y). Characters other than 0-9 advance the pen
// without drawing.
func AppendDigits(dst []Rect, x, y, scale float32, text string, color mgl32.Vec4) []Rect {
	w := digitWidth * scale
	h := digitHeight * scale
	t := digitStroke * scale
	half := (h - t) / 2

	for _, ch := range text {
		if ch >= '0' && ch <= '9' {
			bits := segments[ch-'0']
			parts := [7]Rect{
				{X: x, Y: y, W: w, H: t},
				{X: x + w - t, Y: y, W: t, H: half + t},
				{X: x + w - t, Y: y + half, W: t, H: h - half},
				{X: x, Y: y + h - t, W: w, H: t},
				{X: x, Y: y + half, W: t, H: h - half},
				{X: x, Y: y, W: t, H: half + t},
				{X: x, Y: y + half, W: w, H: t},
			}
			for i, p := range parts {
				if bits&(1<<i) != 0 {
					p.Color = color
					dst = append(dst, p)
				}
			}
		}
		x += digitAdvance * scale
	}
	return dst
}

// AppendPanel lays out a stats.js style FPS panel at (x, y): the current
// frame rate as digits above a bar graph of history, scaled by maxFPS.
func AppendPanel(dst []Rect, x, y float32, fps, maxFPS float64, history []float64) []Rect {
	dst = append(dst,
		Rect{X: x, Y: y, W: PanelWidth, H: PanelHeight, Color: panelBackground},
		Rect{X: x + graphX, Y: y + graphY, W: graphWidth, H: graphHeight, Color: graphBackground},
	)

	dst = AppendDigits(dst, x+graphX, y+4, 1, strconv.Itoa(int(math.Round(max(fps, 0)))), panelForeground)

	if maxFPS <= 0 {
		return dst
	}
	if len(history) > graphWidth {
		history = history[len(history)-graphWidth:]
	}
	// Newest sample at the right edge
	bx := x + graphX + graphWidth - float32(len(history))
	for _, v := range history {
		frac := float32(v / maxFPS)
		if frac > 1 {
			frac = 1
		} else if frac < 0 {
			frac = 0
		}
		if bh := frac * graphHeight; bh > 0 {
			dst = append(dst, Rect{
				X: bx, Y: y + graphY + graphHeight - bh, W: 1, H: bh,
				Color: panelForeground,
			})
		}
		bx++
	}
	return dst
}

// AppendVertices converts rects to two triangles each in the overlay
// vertex layout. Triangles wind counter-clockwise once Y is flipped to
// point up, so they face front under a top-left origin projection.
func AppendVertices(dst []float32, rects []Rect) []float32 {
	for _, r := range rects {
		c := r.Color
		x0, y0, x1, y1 := r.X, r.Y, r.X+r.W, r.Y+r.H
		dst = append(dst,
			x0, y0, c[0], c[1], c[2], c[3],
			x0, y1, c[0], c[1], c[2], c[3],
			x1, y0, c[0], c[1], c[2], c[3],
			x1, y0, c[0], c[1], c[2], c[3],
			x0, y1, c[0], c[1], c[2], c[3],
			x1, y1, c[0], c[1], c[2], c[3],
		)
	}
	return dst
}
