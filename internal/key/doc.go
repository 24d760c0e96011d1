// Package key provides key combination normalization and key events for
// the shortcut dispatch engine.
//
// This package defines the fundamental types for representing keyboard input:
//
//   - Modifier: Represents modifier keys (Ctrl, Alt, Shift, Meta)
//   - Event: A single key press with modifiers and side-effect hooks
//   - Normalize: Canonicalizes chord and sequence strings
//
// # Chord Strings
//
// A chord is a single simultaneous combination written with '+':
//
//   - "ctrl+s", "Shift+Ctrl+S", "alt+up"
//
// Normalization lowercases tokens, resolves aliases (control -> ctrl,
// option -> alt, cmd/command/win -> meta, escape -> esc), deduplicates and
// sorts modifiers, and keeps the primary key last, so that "Shift+Ctrl+S"
// and "ctrl+shift+s" compare equal.
//
// # Sequence Strings
//
// A sequence is an ordered, space-separated list of chords such as "g c"
// or "ctrl+k ctrl+c". Sequences are normalized chord by chord with order
// preserved.
package key
