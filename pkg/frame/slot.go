// Package frame provides the single-slot hand-off between the capture and
// tracking loops.
//
// The slot holds only the most recent frame. Writers never wait for readers:
// a frame that is overwritten before anyone loads it is counted as dropped.
// Both Store and Load copy under the lock, so a reader always gets a
// complete frame of its own, possibly a stale one.
package frame

import (
	"sync"
	"time"

	"gocv.io/x/gocv"
)

// Info describes the frame returned by Load.
type Info struct {
	Sequence   uint64    // Monotonic store counter, starts at 1
	CapturedAt time.Time // When the frame was stored
}

// Stats summarises slot traffic.
type Stats struct {
	Stored  uint64
	Loaded  uint64
	Dropped uint64
}

// Slot is a mutex-guarded latest-value frame holder.
type Slot struct {
	mu         sync.Mutex
	mat        gocv.Mat
	has        bool
	closed     bool
	info       Info
	lastLoaded uint64
	stats      Stats
}

// NewSlot returns an empty slot.
func NewSlot() *Slot {
	return &Slot{mat: gocv.NewMat()}
}

// Store replaces the held frame with a copy of src.
func (s *Slot) Store(src gocv.Mat) {
	if src.Empty() {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	if s.has && s.info.Sequence != s.lastLoaded {
		s.stats.Dropped++
	}
	src.CopyTo(&s.mat)
	s.has = true
	s.stats.Stored++
	s.info = Info{Sequence: s.stats.Stored, CapturedAt: time.Now()}
}

// Load copies the latest frame into dst.
// Returns false if nothing has been stored yet.
func (s *Slot) Load(dst *gocv.Mat) (Info, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.has || s.closed {
		return Info{}, false
	}
	s.mat.CopyTo(dst)
	s.lastLoaded = s.info.Sequence
	s.stats.Loaded++
	return s.info, true
}

// Latest returns metadata for the held frame without copying it.
func (s *Slot) Latest() (Info, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.info, s.has && !s.closed
}

// Stats returns traffic counters.
func (s *Slot) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// Close frees the held frame. Later stores are ignored.
func (s *Slot) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	s.has = false
	return s.mat.Close()
}
