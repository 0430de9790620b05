package detection

import (
	"fmt"
	"image"
	"image/color"
	"sync"

	"github.com/teslashibe/go-paintbrush/pkg/hsv"
	"gocv.io/x/gocv"
)

// ColorDetector segments by HSV range and keeps the largest blob
type ColorDetector struct {
	config Config
	kernel gocv.Mat
	mu     sync.Mutex // Protects kernel
}

// NewColorDetector creates a detector with an elliptical morphology kernel
func NewColorDetector(cfg Config) (*ColorDetector, error) {
	if cfg.KernelSize < 1 {
		return nil, fmt.Errorf("detection: kernel size must be positive, got %d", cfg.KernelSize)
	}
	if cfg.MinRadius < 0 || cfg.MaxRadius <= cfg.MinRadius {
		return nil, fmt.Errorf("detection: invalid radius gate (%.1f, %.1f)", cfg.MinRadius, cfg.MaxRadius)
	}

	kernel := gocv.GetStructuringElement(gocv.MorphEllipse, image.Pt(cfg.KernelSize, cfg.KernelSize))

	return &ColorDetector{
		config: cfg,
		kernel: kernel,
	}, nil
}

// Detect finds the largest in-range blob and applies the size gate
func (d *ColorDetector) Detect(hsvFrame gocv.Mat, rng hsv.Range) (Blob, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if hsvFrame.Empty() {
		return Blob{}, false
	}

	mask := gocv.NewMat()
	defer mask.Close()
	gocv.InRangeWithScalar(hsvFrame, rng.Lower.Scalar(), rng.Upper.Scalar(), &mask)

	// One erosion then one dilation: drop speckle, restore the blob outline
	gocv.Erode(mask, &mask, d.kernel)
	gocv.Dilate(mask, &mask, d.kernel)

	contours := gocv.FindContours(mask, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	if contours.Size() == 0 {
		return Blob{}, false
	}

	areas := make([]float64, contours.Size())
	for i := range areas {
		areas[i] = gocv.ContourArea(contours.At(i))
	}
	idx := SelectLargest(areas)

	cx, cy, radius := gocv.MinEnclosingCircle(contours.At(idx))
	if !d.config.Accepts(float64(radius)) {
		return Blob{}, false
	}

	center, err := d.centroid(contours, idx, mask.Rows(), mask.Cols())
	if err != nil {
		return Blob{}, false
	}

	return Blob{
		Center: center,
		Circle: image.Pt(int(cx), int(cy)),
		Radius: float64(radius),
		Area:   areas[idx],
		Valid:  true,
	}, true
}

// centroid fills contour idx and takes m10/m00, m01/m00 of the region
func (d *ColorDetector) centroid(contours gocv.PointsVector, idx, rows, cols int) (image.Point, error) {
	filled := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), rows, cols, gocv.MatTypeCV8U)
	defer filled.Close()
	gocv.DrawContours(&filled, contours, idx, color.RGBA{R: 255, G: 255, B: 255, A: 255}, -1)

	m := gocv.Moments(filled, true)
	m00 := m["m00"]
	if m00 == 0 {
		return image.Point{}, ErrDegenerateContour
	}
	return image.Pt(int(m["m10"]/m00), int(m["m01"]/m00)), nil
}

// Config returns the detector configuration
func (d *ColorDetector) Config() Config {
	return d.config
}

// Close releases the morphology kernel
func (d *ColorDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.kernel.Close()
}

var _ Detector = (*ColorDetector)(nil)
