// Package shortcut provides declarative shortcut definitions and the
// mutable registry that maps shortcut identifiers to them.
//
// A Definition describes what a shortcut is (its trigger, priority,
// status, context and group) independently of who is listening for it.
// Live callbacks are managed separately by the engine's subscription
// table; the registry only holds configuration.
//
// Registration is deliberately "soft": registering an id that already
// exists silently overwrites it, so dynamic component-scoped shortcuts can
// be registered and unregistered on mount/unmount without coordination.
package shortcut
