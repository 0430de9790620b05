// Package display is the on-screen render target and keyboard event source.
package display

import (
	"time"

	"gocv.io/x/gocv"
)

// Surface shows frames and reports key presses.
type Surface interface {
	// Show renders a frame.
	Show(frame gocv.Mat)

	// PollKey waits up to timeout for a key press.
	// The boolean is false when no key was pressed.
	PollKey(timeout time.Duration) (int, bool)

	// Close tears the surface down.
	Close() error
}

// Window is a Surface backed by an OpenCV highgui window.
// OpenCV requires it to be driven from a single goroutine.
type Window struct {
	name   string
	win    *gocv.Window
	closed bool
}

// NewWindow opens a named window.
func NewWindow(name string) *Window {
	return &Window{name: name, win: gocv.NewWindow(name)}
}

// Name returns the window title.
func (w *Window) Name() string {
	return w.name
}

// Show displays the frame.
func (w *Window) Show(frame gocv.Mat) {
	if w.closed || frame.Empty() {
		return
	}
	w.win.IMShow(frame)
}

// PollKey pumps the window event loop for up to timeout.
func (w *Window) PollKey(timeout time.Duration) (int, bool) {
	if w.closed {
		return 0, false
	}
	ms := int(timeout / time.Millisecond)
	if ms < 1 {
		ms = 1
	}
	key := w.win.WaitKey(ms)
	if key < 0 {
		return 0, false
	}
	return key & 0xFF, true
}

// Close destroys the window.
func (w *Window) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	return w.win.Close()
}

// Mirror flips src horizontally into dst so on-screen motion matches the user's.
func Mirror(src gocv.Mat, dst *gocv.Mat) {
	gocv.Flip(src, dst, 1)
}

var _ Surface = (*Window)(nil)
