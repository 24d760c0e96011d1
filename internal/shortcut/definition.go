package shortcut

import (
	"github.com/dshills/hotkey/internal/key"
)

// Kind distinguishes single-chord shortcuts from ordered chord sequences.
type Kind uint8

const (
	// KindChord is a single simultaneous key combination ("ctrl+s").
	KindChord Kind = iota

	// KindSequence is an ordered list of chords ("g c") that must arrive
	// in order within the sequence timeout.
	KindSequence
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindChord:
		return "chord"
	case KindSequence:
		return "sequence"
	default:
		return "unknown"
	}
}

// Status controls whether a shortcut is eligible to fire.
type Status uint8

const (
	// StatusEnabled is the default; the shortcut participates in dispatch.
	StatusEnabled Status = iota

	// StatusDisabled suppresses the shortcut without unregistering it.
	StatusDisabled
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusEnabled:
		return "enabled"
	case StatusDisabled:
		return "disabled"
	default:
		return "unknown"
	}
}

// Scope describes where a shortcut is meant to apply. It is informational
// for presentation layers and does not gate dispatch.
type Scope uint8

const (
	// ScopeGlobal marks a shortcut as application-wide.
	ScopeGlobal Scope = iota

	// ScopeLocal marks a shortcut as belonging to a specific surface.
	ScopeLocal
)

// String returns the scope name.
func (s Scope) String() string {
	switch s {
	case ScopeGlobal:
		return "global"
	case ScopeLocal:
		return "local"
	default:
		return "unknown"
	}
}

// Action is a shortcut handler: a subscriber callback or a definition's
// default action. A returned error is logged by the engine and treated as
// handled; it never aborts sibling dispatches.
type Action func(event key.Event) error

// Definition is the declarative configuration of a shortcut.
type Definition struct {
	// Trigger is the chord or space-separated chord sequence. Stored in
	// normalized form once registered.
	Trigger string

	// Kind marks the trigger as a chord or a sequence. The registry infers
	// it from the trigger, so callers can leave it zero.
	Kind Kind

	// Priority breaks ties when several shortcuts share a trigger in the
	// same context. Higher wins.
	Priority int

	// Status enables or disables the shortcut at runtime.
	Status Status

	// Scope is a presentation hint (global vs. local); it does not gate
	// dispatch.
	Scope Scope

	// Context, when non-empty, restricts the shortcut to fire only while
	// the engine's active context equals this value.
	Context string

	// Group is an optional label for grouping shortcuts in UIs.
	Group string

	// Description documents the shortcut for presentation layers.
	Description string

	// DefaultAction is the fallback handler invoked when no subscriber is
	// live for the shortcut.
	DefaultAction Action
}

// Enabled returns true if the shortcut may fire.
func (d Definition) Enabled() bool {
	return d.Status == StatusEnabled
}

// MatchesContext returns true if the shortcut is eligible under the given
// active context. A definition without a context always matches.
func (d Definition) MatchesContext(active string) bool {
	return d.Context == "" || d.Context == active
}

// Patch is a partial definition for Registry.Update. Nil fields are left
// unchanged.
type Patch struct {
	Trigger       *string
	Priority      *int
	Status        *Status
	Scope         *Scope
	Context       *string
	Group         *string
	Description   *string
	DefaultAction *Action
}

// apply merges the patch into a definition, renormalizing the trigger and
// reinferring the kind when the trigger changes.
func (p Patch) apply(def Definition) Definition {
	if p.Trigger != nil {
		def.Trigger = key.Normalize(*p.Trigger)
		def.Kind = inferKind(def.Trigger)
	}
	if p.Priority != nil {
		def.Priority = *p.Priority
	}
	if p.Status != nil {
		def.Status = *p.Status
	}
	if p.Scope != nil {
		def.Scope = *p.Scope
	}
	if p.Context != nil {
		def.Context = *p.Context
	}
	if p.Group != nil {
		def.Group = *p.Group
	}
	if p.Description != nil {
		def.Description = *p.Description
	}
	if p.DefaultAction != nil {
		def.DefaultAction = *p.DefaultAction
	}
	return def
}

// inferKind derives the kind from a normalized trigger.
func inferKind(trigger string) Kind {
	if key.IsSequence(trigger) {
		return KindSequence
	}
	return KindChord
}
