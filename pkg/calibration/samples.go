// Package calibration learns the brush object's HSV color range by sampling
// patches the user holds the object over.
package calibration

import (
	"errors"
	"image"

	"github.com/teslashibe/go-paintbrush/pkg/hsv"
	"gocv.io/x/gocv"
	"gonum.org/v1/gonum/stat"
)

// Sentinel errors.
var (
	// ErrNoSamples is returned when calibration ends before any patch was taken.
	ErrNoSamples = errors.New("calibration: no samples")

	// ErrCancelled is returned when the user aborts after sampling started.
	ErrCancelled = errors.New("calibration: cancelled")
)

// AnchorCount is the number of sampling positions.
const AnchorCount = 9

// Anchors returns the sampling positions for a width x height frame.
//
// Positions run column by column from the right edge of the raw frame, top
// to bottom, which is left to right on the mirrored preview.
func Anchors(width, height int) []image.Point {
	x, y := float64(width), float64(height)
	cols := []int{int(x - x/10), int(x - x/2), int(x / 10)}
	rows := []int{int(y / 8), int(y - y/2), int(y - y/8)}

	out := make([]image.Point, 0, AnchorCount)
	for _, cx := range cols {
		for _, cy := range rows {
			out = append(out, image.Pt(cx, cy))
		}
	}
	return out
}

// Patch returns the square of half-size r around anchor, clipped to bounds.
func Patch(anchor image.Point, r int, bounds image.Rectangle) image.Rectangle {
	return image.Rect(anchor.X-r, anchor.Y-r, anchor.X+r, anchor.Y+r).Intersect(bounds)
}

// Samples is the growing pool of HSV pixel values.
type Samples struct {
	channels [3][]float64
	patches  int
}

// Add appends every pixel of an HSV patch to the pool.
func (s *Samples) Add(hsvPatch gocv.Mat) {
	if hsvPatch.Empty() {
		return
	}
	for row := 0; row < hsvPatch.Rows(); row++ {
		for col := 0; col < hsvPatch.Cols(); col++ {
			px := hsvPatch.GetVecbAt(row, col)
			for ch := 0; ch < 3; ch++ {
				s.channels[ch] = append(s.channels[ch], float64(px[ch]))
			}
		}
	}
	s.patches++
}

// Patches returns how many patches have been added.
func (s *Samples) Patches() int {
	return s.patches
}

// Pixels returns the pool size.
func (s *Samples) Pixels() int {
	return len(s.channels[0])
}

// Stats returns the per-channel population mean and standard deviation.
func (s *Samples) Stats() (mean, std [3]float64, err error) {
	if s.Pixels() == 0 {
		return mean, std, ErrNoSamples
	}
	for ch := 0; ch < 3; ch++ {
		mean[ch], std[ch] = stat.PopMeanStdDev(s.channels[ch], nil)
	}
	return mean, std, nil
}

// Derive computes ceil(mean ± sigma*std) per channel, clamped to the HSV domain.
func (s *Samples) Derive(sigma float64) (hsv.Range, error) {
	mean, std, err := s.Stats()
	if err != nil {
		return hsv.Range{}, err
	}
	return hsv.FromStats(mean, std, sigma), nil
}
