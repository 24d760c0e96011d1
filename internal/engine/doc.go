// Package engine implements the shortcut dispatch engine.
//
// An Engine owns one shortcut registry, one subscription table, the
// active-context value, the paused flag, and the rolling sequence buffer.
// Input events flow through a single path:
//
//	raw event -> filters (pause, text input, modifier-only) -> debounce
//	          -> normalize -> {sequence matcher, chord resolver}
//	          -> at most one handler per shortcut -> side effects
//
// Dispatch is deterministic: for a chord, enabled context-matching
// candidates are ordered by priority (higher wins, registration order
// breaks ties) and exactly one handler runs per event. For a sequence,
// every definition whose trigger equals the accumulated buffer fires its
// own single handler. Callback errors and panics are caught, logged and
// treated as handled; they never abort sibling dispatches.
package engine
