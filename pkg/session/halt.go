package session

import (
	"sync"
	"sync/atomic"
)

// Halt is the cooperative stop flag shared by the capture and tracking loops.
// The first Raise wins and its cause is kept.
type Halt struct {
	raised atomic.Bool
	once   sync.Once
	cause  error
}

// Raise sets the flag. cause may be nil for a normal quit.
func (h *Halt) Raise(cause error) {
	h.once.Do(func() {
		h.cause = cause
		h.raised.Store(true)
	})
}

// Raised reports whether the flag is set.
func (h *Halt) Raised() bool {
	return h.raised.Load()
}

// Err returns the cause given to the first Raise, if any.
func (h *Halt) Err() error {
	if !h.raised.Load() {
		return nil
	}
	return h.cause
}
