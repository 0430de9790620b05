// Package trail records the paintbrush strokes and draws them back.
package trail

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

// Stroke is one recorded trail point.
type Stroke struct {
	Center    image.Point
	Color     color.RGBA
	Thickness int // Disc radius in pixels
}

// Canvas is anything a stroke can be painted on.
type Canvas interface {
	Disc(center image.Point, radius int, c color.RGBA)
}

// Recorder is an append-only, ordered stroke log.
// It grows for the whole session; only Clear shrinks it.
type Recorder struct {
	strokes []Stroke
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Record appends a stroke.
func (r *Recorder) Record(center image.Point, c color.RGBA, thickness int) {
	r.strokes = append(r.strokes, Stroke{Center: center, Color: c, Thickness: thickness})
}

// Clear drops every stroke.
func (r *Recorder) Clear() {
	r.strokes = nil
}

// Len returns the number of recorded strokes.
func (r *Recorder) Len() int {
	return len(r.strokes)
}

// Strokes returns a copy of the log in insertion order.
func (r *Recorder) Strokes() []Stroke {
	out := make([]Stroke, len(r.strokes))
	copy(out, r.strokes)
	return out
}

// RenderOnto paints every stroke as a filled disc, oldest first, so newer
// strokes cover older ones. Returns the number of discs drawn.
func (r *Recorder) RenderOnto(c Canvas) int {
	for _, s := range r.strokes {
		c.Disc(s.Center, s.Thickness, s.Color)
	}
	return len(r.strokes)
}

// MatCanvas paints onto an OpenCV image.
type MatCanvas struct {
	Mat *gocv.Mat
}

// Disc draws a filled circle.
func (m MatCanvas) Disc(center image.Point, radius int, c color.RGBA) {
	gocv.Circle(m.Mat, center, radius, c, -1)
}
