package camera

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"gocv.io/x/gocv"
)

// Sentinel errors for the frame source.
var (
	// ErrDeviceUnavailable is returned when the camera cannot be opened or
	// stops delivering frames for good.
	ErrDeviceUnavailable = errors.New("camera: device unavailable")

	// ErrEmptyFrame is returned when a read yields no frame. Callers skip
	// the cycle and try again.
	ErrEmptyFrame = errors.New("camera: empty frame")

	// ErrReleased is returned when reading from a released source.
	ErrReleased = errors.New("camera: source released")
)

// Source produces BGR frames.
type Source interface {
	// Read copies the newest frame into dst.
	Read(dst *gocv.Mat) error

	// Size returns the frame size reported by the driver.
	Size() image.Point

	// Release frees the underlying device. Safe to call more than once.
	Release() error
}

// Device is a Source backed by an OpenCV VideoCapture.
type Device struct {
	config Config
	vc     *gocv.VideoCapture
	size   image.Point

	mu       sync.Mutex
	released bool
}

// Open opens the configured device and applies resolution settings.
func Open(cfg Config) (*Device, error) {
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("%w: invalid config: %v", ErrDeviceUnavailable, errs)
	}

	var (
		vc  *gocv.VideoCapture
		err error
	)
	if cfg.IsDeviceIndex() {
		vc, err = gocv.VideoCaptureDevice(cfg.DeviceIndex())
	} else {
		vc, err = gocv.VideoCaptureFile(cfg.Device)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: open %q: %v", ErrDeviceUnavailable, cfg.Device, err)
	}
	if !vc.IsOpened() {
		vc.Close()
		return nil, fmt.Errorf("%w: %q not opened", ErrDeviceUnavailable, cfg.Device)
	}

	if cfg.IsDeviceIndex() {
		vc.Set(gocv.VideoCaptureFrameWidth, float64(cfg.Width))
		vc.Set(gocv.VideoCaptureFrameHeight, float64(cfg.Height))
		if cfg.Framerate > 0 {
			vc.Set(gocv.VideoCaptureFPS, float64(cfg.Framerate))
		}
		if cfg.BufferSize > 0 {
			vc.Set(gocv.VideoCaptureBufferSize, float64(cfg.BufferSize))
		}
	}

	// The driver may not honour the request; report what it actually gives.
	size := image.Pt(
		int(vc.Get(gocv.VideoCaptureFrameWidth)),
		int(vc.Get(gocv.VideoCaptureFrameHeight)),
	)

	return &Device{config: cfg, vc: vc, size: size}, nil
}

// Read grabs the next frame from the device.
func (d *Device) Read(dst *gocv.Mat) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.released {
		return ErrReleased
	}
	if ok := d.vc.Read(dst); !ok || dst.Empty() {
		return ErrEmptyFrame
	}
	return nil
}

// Size returns the negotiated frame size.
func (d *Device) Size() image.Point {
	return d.size
}

// Config returns the configuration the device was opened with.
func (d *Device) Config() Config {
	return d.config
}

// Release closes the capture device.
func (d *Device) Release() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.released {
		return nil
	}
	d.released = true
	return d.vc.Close()
}
