package calibration

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"time"

	"github.com/teslashibe/go-paintbrush/pkg/camera"
	"github.com/teslashibe/go-paintbrush/pkg/display"
	"github.com/teslashibe/go-paintbrush/pkg/hsv"
	"github.com/teslashibe/go-paintbrush/pkg/session"
	"gocv.io/x/gocv"
)

// Config holds calibration parameters.
type Config struct {
	PatchHalfSize int           // Half the side of the sampling square (pixels)
	Sigma         float64       // Band width in standard deviations
	KeyTimeout    time.Duration // Key poll per preview frame
	FrameWait     time.Duration // Pause after an empty frame read
}

// DefaultConfig returns the standard 20x20 patch, two-sigma calibration.
func DefaultConfig() Config {
	return Config{
		PatchHalfSize: 10,
		Sigma:         2,
		KeyTimeout:    5 * time.Millisecond,
		FrameWait:     10 * time.Millisecond,
	}
}

var markerColor = color.RGBA{R: 255, A: 255}

// Calibrator walks the user through the anchor positions.
type Calibrator struct {
	config  Config
	source  camera.Source
	surface display.Surface
	logger  *slog.Logger
}

// New creates a calibrator. logger may be nil.
func New(cfg Config, source camera.Source, surface display.Surface, logger *slog.Logger) *Calibrator {
	return &Calibrator{config: cfg, source: source, surface: surface, logger: logger}
}

// Calibrate samples all anchors and returns the derived range.
//
// Esc or ctx cancellation aborts: ErrNoSamples if nothing was sampled yet,
// ErrCancelled otherwise.
func (c *Calibrator) Calibrate(ctx context.Context) (hsv.Range, error) {
	var samples Samples

	frame := gocv.NewMat()
	defer frame.Close()
	preview := gocv.NewMat()
	defer preview.Close()
	mirrored := gocv.NewMat()
	defer mirrored.Close()

	abort := func() (hsv.Range, error) {
		if samples.Patches() == 0 {
			return hsv.Range{}, ErrNoSamples
		}
		return hsv.Range{}, fmt.Errorf("%w after %d of %d patches", ErrCancelled, samples.Patches(), AnchorCount)
	}

	for samples.Patches() < AnchorCount {
		if ctx.Err() != nil {
			return abort()
		}

		if err := c.source.Read(&frame); err != nil {
			if errors.Is(err, camera.ErrEmptyFrame) {
				time.Sleep(c.config.FrameWait)
				continue
			}
			return hsv.Range{}, fmt.Errorf("calibration: read frame: %w", err)
		}

		bounds := image.Rect(0, 0, frame.Cols(), frame.Rows())
		anchor := Anchors(frame.Cols(), frame.Rows())[samples.Patches()]
		patch := Patch(anchor, c.config.PatchHalfSize, bounds)

		frame.CopyTo(&preview)
		gocv.Rectangle(&preview, patch, markerColor, 2)
		display.Mirror(preview, &mirrored)
		c.surface.Show(mirrored)

		key, ok := c.surface.PollKey(c.config.KeyTimeout)
		if !ok {
			continue
		}

		switch key {
		case session.KeyEsc:
			c.log().Info("calibration cancelled", "patches", samples.Patches())
			return abort()

		case session.KeyClear:
			if patch.Empty() {
				c.log().Warn("sampling square outside frame", "anchor", anchor)
				continue
			}
			c.sample(&samples, frame, patch)
			c.log().Info("calibration patch sampled",
				"anchor", samples.Patches(),
				"of", AnchorCount,
				"pixels", samples.Pixels())
		}
	}

	rng, err := samples.Derive(c.config.Sigma)
	if err != nil {
		return hsv.Range{}, err
	}
	c.log().Info("calibration complete", "range", rng.String(), "pixels", samples.Pixels())
	return rng, nil
}

func (c *Calibrator) sample(samples *Samples, frame gocv.Mat, patch image.Rectangle) {
	roi := frame.Region(patch)
	defer roi.Close()

	patchHSV := gocv.NewMat()
	defer patchHSV.Close()
	gocv.CvtColor(roi, &patchHSV, gocv.ColorBGRToHSV)

	samples.Add(patchHSV)
}

func (c *Calibrator) log() *slog.Logger {
	if c.logger == nil {
		return slog.Default()
	}
	return c.logger
}
