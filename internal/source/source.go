// Package source provides input sources for the dispatch engine.
//
// A Source owns the connection to a platform input target (a terminal, a
// GUI toolkit, a test harness) and delivers key events to exactly one
// listener. The engine attaches its handler at construction and detaches
// it on teardown.
package source

import (
	"github.com/dshills/hotkey/internal/key"
)

// Listener receives key events from a source.
type Listener func(event key.Event)

// Source is an input target that supports a single listener.
type Source interface {
	// AttachListener installs the listener. Attaching replaces any
	// previously installed listener.
	AttachListener(fn Listener)

	// DetachListener removes the listener. Events delivered after detach
	// are dropped.
	DetachListener()
}
