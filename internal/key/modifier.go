package key

// Modifier represents keyboard modifier keys.
type Modifier uint8

const (
	// ModNone indicates no modifiers.
	ModNone Modifier = 0

	// ModAlt indicates the Alt key (Option on macOS).
	ModAlt Modifier = 1 << iota

	// ModCtrl indicates the Control key.
	ModCtrl

	// ModMeta indicates the Meta key (Cmd on macOS, Win on Windows).
	ModMeta

	// ModShift indicates the Shift key.
	ModShift
)

// Canonical modifier names in the order they appear in a normalized chord.
// The order is lexicographic: alt < ctrl < meta < shift.
const (
	NameAlt   = "alt"
	NameCtrl  = "ctrl"
	NameMeta  = "meta"
	NameShift = "shift"
)

// Has returns true if m contains the specified modifier.
func (m Modifier) Has(mod Modifier) bool {
	return m&mod != 0
}

// With returns a new Modifier with the specified modifier added.
func (m Modifier) With(mod Modifier) Modifier {
	return m | mod
}

// Names returns the canonical names of the set modifiers in normalized
// (lexicographic) order.
func (m Modifier) Names() []string {
	if m == ModNone {
		return nil
	}

	names := make([]string, 0, 4)
	if m.Has(ModAlt) {
		names = append(names, NameAlt)
	}
	if m.Has(ModCtrl) {
		names = append(names, NameCtrl)
	}
	if m.Has(ModMeta) {
		names = append(names, NameMeta)
	}
	if m.Has(ModShift) {
		names = append(names, NameShift)
	}
	return names
}

// String returns the canonical chord fragment for the modifiers,
// e.g. "ctrl+shift".
func (m Modifier) String() string {
	names := m.Names()
	if len(names) == 0 {
		return ""
	}
	out := names[0]
	for _, n := range names[1:] {
		out += "+" + n
	}
	return out
}

// modifierNameMap maps modifier names and aliases (lowercase) to Modifier
// values. Single-letter abbreviations are deliberately absent: in a chord
// string "s" is the S key, not Shift.
var modifierNameMap = map[string]Modifier{
	"ctrl":    ModCtrl,
	"control": ModCtrl,
	"alt":     ModAlt,
	"option":  ModAlt,
	"opt":     ModAlt,
	"shift":   ModShift,
	"meta":    ModMeta,
	"cmd":     ModMeta,
	"command": ModMeta,
	"win":     ModMeta,
	"windows": ModMeta,
	"super":   ModMeta,
}

// ModifierFromName returns the Modifier for a given name (case-sensitive,
// expects lowercase). Returns ModNone if the name is not a modifier.
func ModifierFromName(name string) Modifier {
	if m, ok := modifierNameMap[name]; ok {
		return m
	}
	return ModNone
}

// IsModifierName returns true if the (lowercase) token names a modifier.
func IsModifierName(name string) bool {
	_, ok := modifierNameMap[name]
	return ok
}
