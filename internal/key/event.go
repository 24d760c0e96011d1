package key

import (
	"strings"
	"time"
)

// Event represents a single key press delivered by an input source.
type Event struct {
	// Name is the key identifier as reported by the source ("s", "Escape",
	// "ArrowUp", " "). Empty for a bare modifier press.
	Name string

	// Mods contains the active modifier keys.
	Mods Modifier

	// Time is when the event occurred.
	Time time.Time

	// FromTextInput is true when the event originates from a focused
	// text-entry element. The engine drops such events when configured to
	// ignore input fields.
	FromTextInput bool

	// OnPreventDefault, when non-nil, suppresses the input target's default
	// handling of the event. Set by the input source.
	OnPreventDefault func()

	// OnStopPropagation, when non-nil, stops the event from reaching other
	// listeners on the input target. Set by the input source.
	OnStopPropagation func()
}

// NewEvent creates a key event with the current timestamp.
func NewEvent(name string, mods Modifier) Event {
	return Event{
		Name: name,
		Mods: mods,
		Time: time.Now(),
	}
}

// Chord builds the normalized chord string for the event, with modifiers
// in canonical order. If the key itself is a modifier, only the modifier
// portion is returned (a "modifier-only" chord).
func (e Event) Chord() string {
	name := CanonicalKeyName(e.Name)

	mods := e.Mods
	if IsModifierName(name) {
		// A bare modifier press reports the modifier both as the key and,
		// on some platforms, in the flags. Fold it into the flags.
		mods = mods.With(ModifierFromName(name))
		name = ""
	}

	if name == "" {
		return mods.String()
	}

	parts := append(mods.Names(), name)
	return strings.Join(parts, "+")
}

// IsModifierOnly returns true if the event carries no primary key: either
// a bare modifier press or a modifier combination without a key.
func (e Event) IsModifierOnly() bool {
	name := CanonicalKeyName(e.Name)
	return name == "" || IsModifierName(name)
}

// PreventDefault suppresses the input target's default handling, if the
// source supports it.
func (e Event) PreventDefault() {
	if e.OnPreventDefault != nil {
		e.OnPreventDefault()
	}
}

// StopPropagation stops the event from reaching other listeners, if the
// source supports it.
func (e Event) StopPropagation() {
	if e.OnStopPropagation != nil {
		e.OnStopPropagation()
	}
}
