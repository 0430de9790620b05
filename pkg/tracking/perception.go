package tracking

import (
	"image"

	"github.com/teslashibe/go-paintbrush/pkg/hsv"
	"github.com/teslashibe/go-paintbrush/pkg/tracking/detection"
	"gocv.io/x/gocv"
)

// Perception turns raw BGR frames into brush detections
type Perception struct {
	detector detection.Detector
	rng      hsv.Range
	hsvFrame gocv.Mat

	// Detection state
	lastCenter        image.Point
	hasLastCenter     bool
	consecutiveMisses int
}

// NewPerception creates a perception stage for the calibrated range
func NewPerception(detector detection.Detector, rng hsv.Range) *Perception {
	return &Perception{
		detector: detector,
		rng:      rng,
		hsvFrame: gocv.NewMat(),
	}
}

// Detect converts frame to HSV and runs the detector on it
func (p *Perception) Detect(frame gocv.Mat) (detection.Blob, bool) {
	if p.detector == nil || frame.Empty() {
		p.consecutiveMisses++
		return detection.Blob{}, false
	}

	gocv.CvtColor(frame, &p.hsvFrame, gocv.ColorBGRToHSV)

	blob, ok := p.detector.Detect(p.hsvFrame, p.rng)
	if !ok || !blob.Valid {
		p.consecutiveMisses++
		return detection.Blob{}, false
	}

	p.lastCenter = blob.Center
	p.hasLastCenter = true
	p.consecutiveMisses = 0
	return blob, true
}

// Range returns the calibrated color range
func (p *Perception) Range() hsv.Range {
	return p.rng
}

// ConsecutiveMisses returns how many frames in a row had no detection
func (p *Perception) ConsecutiveMisses() int {
	return p.consecutiveMisses
}

// LastCenter returns the most recent detected centroid
func (p *Perception) LastCenter() (image.Point, bool) {
	return p.lastCenter, p.hasLastCenter
}

// Close frees the conversion buffer
func (p *Perception) Close() error {
	return p.hsvFrame.Close()
}
