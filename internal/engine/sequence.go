package engine

import (
	"strings"
	"time"
)

// sequenceMatcher accumulates recent chords into a rolling buffer guarded
// by a single-slot timeout. The window is measured from the last
// keystroke: every push cancels and replaces the pending timer, so at
// most one timer is ever live.
//
// States: Idle (empty buffer) -> Accumulating (timer pending) -> Idle on
// expiry, match, or teardown. The matcher only manages buffer and timer;
// matching against definitions is the engine's job.
type sequenceMatcher struct {
	buffer  []string
	timer   *time.Timer
	timeout time.Duration

	// gen invalidates in-flight timer callbacks. Stop does not guarantee
	// the callback has not already started, so each armed timer captures
	// the generation it was armed with and expire compares it.
	gen uint64

	// expire is invoked from the timer goroutine when the window closes
	// with no match.
	expire func(gen uint64)
}

func newSequenceMatcher(timeout time.Duration, expire func(gen uint64)) *sequenceMatcher {
	return &sequenceMatcher{
		timeout: timeout,
		expire:  expire,
	}
}

// push appends a chord, restarts the timeout window, and returns the
// buffer joined by spaces for exact-match lookup.
func (m *sequenceMatcher) push(chord string) string {
	m.buffer = append(m.buffer, chord)
	m.restartTimer()
	return strings.Join(m.buffer, " ")
}

// reset clears the buffer and cancels any pending timer.
func (m *sequenceMatcher) reset() {
	m.buffer = m.buffer[:0]
	m.stopTimer()
}

// accumulating returns true if the buffer holds at least one chord.
func (m *sequenceMatcher) accumulating() bool {
	return len(m.buffer) > 0
}

// pending returns the buffered chords joined by spaces.
func (m *sequenceMatcher) pending() string {
	return strings.Join(m.buffer, " ")
}

// generation returns the current timer generation. An expire callback
// carrying an older generation is stale and must be ignored.
func (m *sequenceMatcher) generation() uint64 {
	return m.gen
}

func (m *sequenceMatcher) restartTimer() {
	m.stopTimer()
	if m.timeout <= 0 {
		return
	}
	gen := m.gen
	m.timer = time.AfterFunc(m.timeout, func() { m.expire(gen) })
}

func (m *sequenceMatcher) stopTimer() {
	m.gen++
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}
