package database

import (
	"errors"
	"io"
	"sync"
)

var (
	ErrNotReady           = errors.New("database not initialized yet")
	ErrAlreadyInitialized = errors.New("database already initialized")
)

// State is the lifecycle state of a Handle.
type State int

const (
	StateUninitialized State = iota
	StateReady
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateReady:
		return "ready"
	}
	return "unknown"
}

// Handle holds the process-wide AppDatabase. It moves from StateUninitialized to StateReady exactly once, through
// Initialize, and never changes afterwards. The zero value is an uninitialized handle.
type Handle struct {
	// initMu serializes Initialize; mu guards the published state and is never held while opening.
	initMu sync.Mutex

	mu    sync.RWMutex
	state State
	db    AppDatabase
}

// NewReadyHandle returns a handle that is already ready and serves db.
func NewReadyHandle(db AppDatabase) *Handle {
	return &Handle{state: StateReady, db: db}
}

// Initialize runs open and, on success, makes its database visible to Database. A failed open leaves the handle
// uninitialized. Calling Initialize on a ready handle returns ErrAlreadyInitialized without calling open.
func (h *Handle) Initialize(open func() (AppDatabase, error)) error {
	h.initMu.Lock()
	defer h.initMu.Unlock()

	if h.State() == StateReady {
		return ErrAlreadyInitialized
	}

	db, err := open()
	if err != nil {
		return err
	}
	if db == nil {
		return errors.New("database is required")
	}

	h.mu.Lock()
	h.db = db
	h.state = StateReady
	h.mu.Unlock()
	return nil
}

// State reports the current lifecycle state.
func (h *Handle) State() State {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.state
}

// Database returns the ready database, or ErrNotReady.
func (h *Handle) Database() (AppDatabase, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.state != StateReady {
		return nil, ErrNotReady
	}
	return h.db, nil
}

// Close releases the underlying database, if it holds one that can be closed. The state stays ready: queries issued
// afterwards fail with the driver's error.
func (h *Handle) Close() error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if c, ok := h.db.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
