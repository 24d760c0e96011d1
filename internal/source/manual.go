package source

import (
	"sync"

	"github.com/dshills/hotkey/internal/key"
)

// Manual is a Source driven by the embedding application: every call to
// Emit delivers one event to the attached listener. It is the natural
// adapter when the host already owns an input loop, and it is what the
// package tests drive.
type Manual struct {
	mu sync.Mutex
	fn Listener
}

// NewManual creates a manual source with no listener attached.
func NewManual() *Manual {
	return &Manual{}
}

// AttachListener installs the listener, replacing any previous one.
func (m *Manual) AttachListener(fn Listener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fn = fn
}

// DetachListener removes the listener.
func (m *Manual) DetachListener() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fn = nil
}

// Emit delivers an event to the listener, if one is attached.
func (m *Manual) Emit(event key.Event) {
	m.mu.Lock()
	fn := m.fn
	m.mu.Unlock()

	if fn != nil {
		fn(event)
	}
}

// Attached returns true if a listener is installed.
func (m *Manual) Attached() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fn != nil
}
