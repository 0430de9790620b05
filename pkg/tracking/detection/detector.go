// Package detection finds the brush object in an HSV frame
package detection

import (
	"errors"
	"image"

	"github.com/teslashibe/go-paintbrush/pkg/hsv"
	"gocv.io/x/gocv"
)

// ErrDegenerateContour means a contour's zeroth moment was zero, so it has
// no centroid. Detect reports it as "no detection".
var ErrDegenerateContour = errors.New("detection: degenerate contour")

// Blob represents the tracked object in one frame
type Blob struct {
	Center image.Point // Centroid from image moments (pixels)
	Circle image.Point // Minimum enclosing circle center (pixels)
	Radius float64     // Minimum enclosing circle radius (pixels)
	Area   float64     // Contour area (pixels²)
	Valid  bool
}

// Detector is the interface for blob detection backends
type Detector interface {
	// Detect finds the best blob in an HSV frame within rng.
	// The boolean is false when nothing passes the filters.
	Detect(hsvFrame gocv.Mat, rng hsv.Range) (Blob, bool)

	// Close releases resources
	Close() error
}

// Config holds detector configuration
type Config struct {
	MinRadius  float64 // Enclosing radius must be strictly greater
	MaxRadius  float64 // Enclosing radius must be strictly smaller
	KernelSize int     // Elliptical structuring element size (odd)
}

// DefaultConfig returns production defaults
func DefaultConfig() Config {
	return Config{
		MinRadius:  10,
		MaxRadius:  100,
		KernelSize: 5,
	}
}

// Accepts reports whether an enclosing radius passes the size gate.
func (c Config) Accepts(radius float64) bool {
	return radius > c.MinRadius && radius < c.MaxRadius
}

// SelectLargest returns the index of the largest area, or -1 if empty.
// Ties keep the first maximal entry, so the result follows the contour
// extractor's own enumeration order.
func SelectLargest(areas []float64) int {
	best := -1
	bestArea := 0.0
	for i, a := range areas {
		if best < 0 || a > bestArea {
			best = i
			bestArea = a
		}
	}
	return best
}
