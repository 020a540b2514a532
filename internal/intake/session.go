// internal/intake/session.go
package intake

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/mwiater/ecoaudit/internal/audit"
	"github.com/mwiater/ecoaudit/internal/logging"
)

// Session holds the intake screen state: the selected file, the epoch count
// and the single pending-request flag.
type Session struct {
	acq Acquirer

	mu       sync.Mutex
	selected *Upload
	epochs   int

	busy atomic.Bool
}

// NewSession starts an empty session for acq.
func NewSession(acq Acquirer, defaultEpochs int) *Session {
	return &Session{acq: acq, epochs: CoerceEpochs(strconv.Itoa(defaultEpochs))}
}

// Strategy returns the acquisition strategy in use.
func (s *Session) Strategy() Acquirer { return s.acq }

// Select sets the current file. A file of the wrong type is rejected and
// the previous selection is kept.
func (s *Session) Select(up Upload) error {
	if !s.acq.Accepts(up.Name) {
		logging.LogWarn("rejected %s: expected %v", up.Name, s.acq.Extensions())
		return unsupported(s.acq.Extensions())
	}
	s.mu.Lock()
	s.selected = &up
	s.mu.Unlock()
	return nil
}

// Selected returns the current file, if any.
func (s *Session) Selected() (Upload, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == nil {
		return Upload{}, false
	}
	return *s.selected, true
}

// SetEpochs stores a user-entered epoch count and returns the coerced value.
func (s *Session) SetEpochs(raw string) int {
	n := CoerceEpochs(raw)
	s.mu.Lock()
	s.epochs = n
	s.mu.Unlock()
	return n
}

// Epochs returns the epoch count that will be submitted.
func (s *Session) Epochs() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.epochs
}

// Busy reports whether an acquisition is in flight.
func (s *Session) Busy() bool { return s.busy.Load() }

// Submit runs the acquisition for the selected file. Only one acquisition
// may be pending at a time; a second call fails with ErrBusy.
func (s *Session) Submit(ctx context.Context) (*audit.Result, error) {
	s.mu.Lock()
	sel, epochs := s.selected, s.epochs
	s.mu.Unlock()
	if sel == nil {
		return nil, ErrNoFile
	}
	if !s.busy.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer s.busy.Store(false)

	logging.LogEvent("running %s audit for %s (epochs=%d)", s.acq.Name(), sel.Name, epochs)
	return s.acq.Acquire(ctx, Request{Upload: *sel, Epochs: epochs})
}
