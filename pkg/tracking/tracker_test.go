package tracking

import (
	"context"
	"errors"
	"image"
	"sync"
	"testing"
	"time"

	"github.com/teslashibe/go-paintbrush/internal/log"
	"github.com/teslashibe/go-paintbrush/pkg/camera"
	"github.com/teslashibe/go-paintbrush/pkg/frame"
	"github.com/teslashibe/go-paintbrush/pkg/hsv"
	"github.com/teslashibe/go-paintbrush/pkg/session"
	"github.com/teslashibe/go-paintbrush/pkg/tracking/detection"
	"gocv.io/x/gocv"
)

var testRange = hsv.NewRange(hsv.Triple{H: 100, S: 150, V: 50}, hsv.Triple{H: 130, S: 255, V: 255})

// stubDetector reports the same blob on every frame.
type stubDetector struct {
	blob   detection.Blob
	found  bool
	calls  int
	ranges []hsv.Range
}

func (d *stubDetector) Detect(_ gocv.Mat, rng hsv.Range) (detection.Blob, bool) {
	d.calls++
	d.ranges = append(d.ranges, rng)
	return d.blob, d.found
}

func (d *stubDetector) Close() error { return nil }

// noKey is a scripted "no key pressed" poll.
const noKey = -1

// scriptedSurface replays one key per poll and keeps a copy of the last frame.
type scriptedSurface struct {
	mu    sync.Mutex
	keys  []int
	shown int
	last  gocv.Mat
}

func newSurface(keys ...int) *scriptedSurface {
	return &scriptedSurface{keys: keys, last: gocv.NewMat()}
}

func (s *scriptedSurface) Show(m gocv.Mat) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shown++
	m.CopyTo(&s.last)
}

func (s *scriptedSurface) PollKey(time.Duration) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.keys) == 0 {
		return 0, false
	}
	k := s.keys[0]
	s.keys = s.keys[1:]
	return k, k != noKey
}

func (s *scriptedSurface) Close() error {
	return s.last.Close()
}

type fixture struct {
	tracker  *Tracker
	detector *stubDetector
	surface  *scriptedSurface
	slot     *frame.Slot
	halt     *session.Halt
}

func newFixture(t *testing.T, found bool, keys ...int) *fixture {
	t.Helper()

	det := &stubDetector{
		blob:  detection.Blob{Center: image.Pt(10, 10), Radius: 20, Valid: true},
		found: found,
	}
	surf := newSurface(keys...)
	slot := frame.NewSlot()
	halt := &session.Halt{}

	black := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), 80, 100, gocv.MatTypeCV8UC3)
	slot.Store(black)
	black.Close()

	cfg := DefaultConfig()
	cfg.FrameWait = time.Millisecond
	cfg.KeyTimeout = time.Millisecond
	cfg.StatsInterval = 0

	tr := New(cfg, det, testRange, surf, slot, halt, log.Discard())
	t.Cleanup(func() {
		tr.Close()
		surf.Close()
		slot.Close()
	})
	return &fixture{tracker: tr, detector: det, surface: surf, slot: slot, halt: halt}
}

func (f *fixture) steps(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		if !f.tracker.Step() {
			t.Fatalf("step %d: no frame", i)
		}
	}
}

func TestTracker_RecordsWhileRunning(t *testing.T) {
	f := newFixture(t, true)
	f.steps(t, 3)

	strokes := f.tracker.Strokes()
	if len(strokes) != 3 {
		t.Fatalf("strokes: got %d, want 3", len(strokes))
	}
	for i, s := range strokes {
		if s.Center != image.Pt(10, 10) || s.Color != session.Orange || s.Thickness != session.ThicknessMedium {
			t.Errorf("stroke %d: got %+v", i, s)
		}
	}
	if f.detector.ranges[0] != testRange {
		t.Errorf("detector got range %v, want %v", f.detector.ranges[0], testRange)
	}
	if f.surface.shown != 3 {
		t.Errorf("frames shown: got %d, want 3", f.surface.shown)
	}
}

func TestTracker_NoDetectionNoStroke(t *testing.T) {
	f := newFixture(t, false)
	f.steps(t, 4)

	stats := f.tracker.Stats()
	if stats.Strokes != 0 || stats.Detections != 0 {
		t.Errorf("stats: %+v, want no strokes or detections", stats)
	}
	if stats.Frames != 4 {
		t.Errorf("frames: got %d, want 4", stats.Frames)
	}
	if f.tracker.perception.ConsecutiveMisses() != 4 {
		t.Errorf("misses: got %d, want 4", f.tracker.perception.ConsecutiveMisses())
	}
}

func TestTracker_PauseAndResume(t *testing.T) {
	// Step 1 records, then 'p' pauses. Steps 2-3 detect without recording;
	// step 3's 'p' resumes, so step 4 records again.
	f := newFixture(t, true, 'p', noKey, 'p', noKey)

	f.steps(t, 1)
	if got := f.tracker.State().Mode; got != session.Paused {
		t.Fatalf("mode after p: got %v, want paused", got)
	}

	f.steps(t, 2)
	if got := len(f.tracker.Strokes()); got != 1 {
		t.Errorf("paused steps recorded strokes: got %d, want 1", got)
	}
	if f.detector.calls != 3 {
		t.Errorf("detection should keep running while paused: %d calls", f.detector.calls)
	}

	f.steps(t, 1)
	if got := len(f.tracker.Strokes()); got != 2 {
		t.Errorf("after resume: got %d strokes, want 2 (earlier strokes kept)", got)
	}
}

func TestTracker_Clear(t *testing.T) {
	f := newFixture(t, false)
	f.detector.found = true
	f.steps(t, 3)

	f.tracker.HandleKey('c')
	if got := len(f.tracker.Strokes()); got != 0 {
		t.Errorf("after clear: got %d strokes", got)
	}
	if f.tracker.State().Mode != session.Running {
		t.Error("clear must not change mode")
	}
}

func TestTracker_ColorAndSizeKeys(t *testing.T) {
	tests := []struct {
		name      string
		keys      []int
		wantColor session.State
	}{
		{"red", []int{'r'}, session.State{Color: session.Red, Thickness: session.ThicknessMedium}},
		{"small then large", []int{'s', 'l'}, session.State{Color: session.Orange, Thickness: session.ThicknessLarge}},
		{"blue small", []int{'b', 's'}, session.State{Color: session.Blue, Thickness: session.ThicknessSmall}},
		{"unknown key ignored", []int{'z'}, session.State{Color: session.Orange, Thickness: session.ThicknessMedium}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, true)
			for _, k := range tc.keys {
				f.tracker.HandleKey(k)
			}
			f.steps(t, 1)

			strokes := f.tracker.Strokes()
			if len(strokes) != 1 {
				t.Fatalf("strokes: got %d, want 1", len(strokes))
			}
			if strokes[0].Color != tc.wantColor.Color || strokes[0].Thickness != tc.wantColor.Thickness {
				t.Errorf("stroke: got %+v, want color %v thickness %d",
					strokes[0], tc.wantColor.Color, tc.wantColor.Thickness)
			}
		})
	}
}

func TestTracker_RenderMirrored(t *testing.T) {
	f := newFixture(t, true)
	f.steps(t, 1)

	shown := f.surface.last
	if shown.Cols() != 100 || shown.Rows() != 80 {
		t.Fatalf("shown frame size %dx%d", shown.Cols(), shown.Rows())
	}

	// Orange stroke at raw (10,10) lands at (89,10) after the flip. gocv
	// draws color.RGBA as BGR.
	px := shown.GetVecbAt(10, 89)
	if px[0] != 0 || px[1] != 89 || px[2] != 217 {
		t.Errorf("mirrored stroke pixel: got %v, want [0 89 217]", px)
	}
	if px := shown.GetVecbAt(10, 10); px[0] != 0 || px[1] != 0 || px[2] != 0 {
		t.Errorf("unmirrored position should stay black, got %v", px)
	}
}

func TestTracker_StepWithoutFrame(t *testing.T) {
	surf := newSurface()
	defer surf.Close()
	slot := frame.NewSlot()
	defer slot.Close()

	tr := New(DefaultConfig(), &stubDetector{}, testRange, surf, slot, &session.Halt{}, nil)
	defer tr.Close()

	if tr.Step() {
		t.Error("Step should report no frame")
	}
	if surf.shown != 0 {
		t.Error("nothing should be shown before the first frame")
	}
}

func TestTracker_RunQuit(t *testing.T) {
	f := newFixture(t, true, noKey, noKey, session.KeyEsc, 'r')

	err := f.tracker.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !f.halt.Raised() {
		t.Error("quit should raise the halt flag")
	}
	if got := f.tracker.State().Mode; got != session.Halted {
		t.Errorf("mode: got %v, want halted", got)
	}
	if got := len(f.tracker.Strokes()); got != 3 {
		t.Errorf("strokes: got %d, want 3", got)
	}
	if f.tracker.State().Color != session.Orange {
		t.Error("keys after quit must not be processed")
	}
}

func TestTracker_RunContextCancelled(t *testing.T) {
	f := newFixture(t, true)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := f.tracker.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !f.halt.Raised() {
		t.Error("cancellation should raise the halt flag")
	}
}

func TestTracker_RunReturnsCaptureCause(t *testing.T) {
	f := newFixture(t, true)
	cause := errors.Join(camera.ErrDeviceUnavailable, errors.New("300 empty reads"))
	f.halt.Raise(cause)

	err := f.tracker.Run(context.Background())
	if !errors.Is(err, camera.ErrDeviceUnavailable) {
		t.Errorf("Run: got %v, want ErrDeviceUnavailable", err)
	}
	if f.tracker.Stats().Frames != 0 {
		t.Error("no frame should be processed once halted")
	}
}

func TestTracker_HaltedAbsorbsKeys(t *testing.T) {
	f := newFixture(t, true)
	f.steps(t, 2)
	f.tracker.HandleKey(session.KeyEsc)
	f.tracker.HandleKey('c')
	f.tracker.HandleKey('p')

	if f.tracker.State().Mode != session.Halted {
		t.Error("halted state should be terminal")
	}
	if len(f.tracker.Strokes()) != 2 {
		t.Error("clear after quit must not wipe the trail")
	}
}
