package paint

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/teslashibe/go-paintbrush/internal/log"
	"github.com/teslashibe/go-paintbrush/pkg/calibration"
	"github.com/teslashibe/go-paintbrush/pkg/camera"
	"github.com/teslashibe/go-paintbrush/pkg/capture"
	"github.com/teslashibe/go-paintbrush/pkg/display"
	"github.com/teslashibe/go-paintbrush/pkg/frame"
	"github.com/teslashibe/go-paintbrush/pkg/hsv"
	"github.com/teslashibe/go-paintbrush/pkg/session"
	"github.com/teslashibe/go-paintbrush/pkg/tracking"
	"github.com/teslashibe/go-paintbrush/pkg/tracking/detection"
)

// Option customises an App.
type Option func(*App)

// WithSource uses src instead of opening the configured camera.
func WithSource(src camera.Source) Option {
	return func(a *App) { a.source = src }
}

// WithSurface uses s instead of opening a window.
func WithSurface(s display.Surface) Option {
	return func(a *App) { a.surface = s }
}

// WithLogger sets the base logger. The session id is added to it.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) { a.logger = l }
}

// App is the paintbrush application orchestrator.
// It manages all components and their lifecycle.
type App struct {
	config    Config
	sessionID string
	logger    *slog.Logger

	// Devices
	source  camera.Source
	surface display.Surface

	// Pipeline
	detector detection.Detector
	slot     *frame.Slot
	halt     *session.Halt
	tracker  *tracking.Tracker
	rng      hsv.Range

	releaseOnce  sync.Once
	closeOnce    sync.Once
	shutdownOnce sync.Once
}

// New creates an application with the given configuration.
func New(cfg Config, opts ...Option) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	app := &App{
		config:    cfg,
		sessionID: uuid.NewString(),
	}
	for _, opt := range opts {
		opt(app)
	}

	if app.logger == nil {
		app.logger = log.L()
	}
	app.logger = app.logger.With("session", app.sessionID)

	return app, nil
}

// SessionID returns the id attached to every log line of this run.
func (a *App) SessionID() string {
	return a.sessionID
}

// Init opens the camera and window and builds the detector.
// Call this after New() and before Run().
func (a *App) Init() error {
	if a.source == nil {
		dev, err := camera.Open(a.config.Camera)
		if err != nil {
			return fmt.Errorf("camera init: %w", err)
		}
		a.source = dev
	}
	size := a.source.Size()
	a.logger.Info("camera ready",
		"device", a.config.Camera.Device,
		"width", size.X,
		"height", size.Y)

	if a.surface == nil {
		a.surface = display.NewWindow(a.config.WindowName)
	}

	det, err := detection.NewColorDetector(a.config.Detection)
	if err != nil {
		return fmt.Errorf("detector init: %w", err)
	}
	a.detector = det

	a.slot = frame.NewSlot()
	a.halt = &session.Halt{}
	return nil
}

// Run calibrates, then runs the capture loop in the background and the
// tracking loop on the calling goroutine. It returns when both have exited.
//
// The calling goroutine must be the one that owns the window.
func (a *App) Run(ctx context.Context) error {
	if a.detector == nil {
		return fmt.Errorf("paint: Run called before Init")
	}

	calibrator := calibration.New(a.config.Calibration, a.source, a.surface,
		a.logger.With("component", "calibration"))
	a.logger.Info("calibrating", "anchors", calibration.AnchorCount)

	rng, err := calibrator.Calibrate(ctx)
	if err != nil {
		return fmt.Errorf("calibration: %w", err)
	}
	a.rng = rng

	// The capture loop tears the window down, but only once the tracker
	// has stopped drawing to it.
	trackerDone := make(chan struct{})
	loop := capture.New(a.config.Capture, a.source, a.slot, a.halt,
		func() {
			<-trackerDone
			a.closeSurface()
		},
		a.logger.With("component", "capture"))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		loop.Run()
	}()

	a.tracker = tracking.New(a.config.Tracking, a.detector, rng, a.surface, a.slot, a.halt,
		a.logger.With("component", "tracking"))
	err = a.tracker.Run(ctx)
	close(trackerDone)
	wg.Wait()

	if err != nil {
		return fmt.Errorf("tracking: %w", err)
	}
	a.logger.Info("session ended", "strokes", a.tracker.Stats().Strokes)
	return nil
}

// Range returns the calibrated color range, zero before calibration.
func (a *App) Range() hsv.Range {
	return a.rng
}

// Tracker returns the tracking loop, nil before Run.
func (a *App) Tracker() *tracking.Tracker {
	return a.tracker
}

// Shutdown releases every resource. Safe to call more than once.
func (a *App) Shutdown() {
	a.shutdownOnce.Do(func() {
		if a.halt != nil {
			a.halt.Raise(nil)
		}
		a.releaseSource()
		a.closeSurface()
		if a.tracker != nil {
			a.tracker.Close()
		}
		if a.detector != nil {
			a.detector.Close()
		}
		if a.slot != nil {
			a.slot.Close()
		}
		a.logger.Info("shutdown complete")
	})
}

func (a *App) releaseSource() {
	a.releaseOnce.Do(func() {
		if a.source == nil {
			return
		}
		if err := a.source.Release(); err != nil {
			a.logger.Warn("release camera", "error", err)
		}
	})
}

func (a *App) closeSurface() {
	a.closeOnce.Do(func() {
		if a.surface == nil {
			return
		}
		if err := a.surface.Close(); err != nil {
			a.logger.Warn("close window", "error", err)
		}
	})
}
