package engine

import (
	"runtime/debug"
	"sync/atomic"
	"time"

	"github.com/dshills/hotkey/internal/key"
	"github.com/dshills/hotkey/internal/shortcut"
)

// execResult is the outcome of a single handler invocation.
type execResult struct {
	// Err is the error returned by the handler, if any.
	Err error

	// Panicked is true if the handler panicked.
	Panicked bool

	// PanicValue is the value passed to panic(), if Panicked is true.
	PanicValue any

	// PanicStack is the stack trace at the point of panic.
	PanicStack []byte

	// Duration is how long the handler took to execute.
	Duration time.Duration
}

// ok returns true if the handler completed without error or panic.
func (r execResult) ok() bool {
	return r.Err == nil && !r.Panicked
}

// executor invokes shortcut handlers with panic recovery and timing.
type executor struct {
	fired    atomic.Uint64
	failed   atomic.Uint64
	panicked atomic.Uint64
}

// run invokes a handler for an event. Panics are recovered and recorded
// in the result instead of unwinding into the input loop.
func (x *executor) run(action shortcut.Action, event key.Event) (result execResult) {
	x.fired.Add(1)
	start := time.Now()

	defer func() {
		result.Duration = time.Since(start)

		if r := recover(); r != nil {
			result.Panicked = true
			result.PanicValue = r
			result.PanicStack = debug.Stack()
			x.panicked.Add(1)
		} else if result.Err != nil {
			x.failed.Add(1)
		}
	}()

	result.Err = action(event)
	return result
}

// Stats contains cumulative dispatch counters for an engine.
type Stats struct {
	// Fired is the total number of handler invocations.
	Fired uint64

	// Failed is the number of handlers that returned errors.
	Failed uint64

	// Panicked is the number of handlers that panicked.
	Panicked uint64
}

// stats returns a snapshot of the counters.
func (x *executor) stats() Stats {
	return Stats{
		Fired:    x.fired.Load(),
		Failed:   x.failed.Load(),
		Panicked: x.panicked.Load(),
	}
}
