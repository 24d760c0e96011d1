package key

import (
	"strings"
)

// keyAliasMap maps key-name aliases (lowercase) to canonical key names.
var keyAliasMap = map[string]string{
	"escape":     "esc",
	"arrowup":    "up",
	"arrowdown":  "down",
	"arrowleft":  "left",
	"arrowright": "right",
	"return":     "enter",
	"spacebar":   "space",
	" ":          "space",
}

// CanonicalKeyName returns the canonical lowercase name for a key token.
func CanonicalKeyName(name string) string {
	if name != " " {
		name = strings.ToLower(strings.TrimSpace(name))
	}
	if canonical, ok := keyAliasMap[name]; ok {
		return canonical
	}
	return name
}

// Normalize converts a raw chord or sequence string into canonical form.
//
// A chord like "Shift+Ctrl+S" becomes "ctrl+shift+s": modifiers are
// deduplicated and sorted, the primary key comes last. A space-separated
// sequence like "G  C" becomes "g c", normalized chord by chord with order
// preserved. Empty input normalizes to the empty string.
//
// Normalize is idempotent: Normalize(Normalize(x)) == Normalize(x).
func Normalize(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	fields := strings.Fields(raw)
	if len(fields) == 1 {
		return NormalizeChord(fields[0])
	}

	chords := make([]string, len(fields))
	for i, f := range fields {
		chords[i] = NormalizeChord(f)
	}
	return strings.Join(chords, " ")
}

// NormalizeChord canonicalizes a single chord string.
func NormalizeChord(raw string) string {
	var mods Modifier
	var keys []string

	for _, tok := range strings.Split(raw, "+") {
		tok = strings.ToLower(strings.TrimSpace(tok))
		if tok == "" {
			continue
		}
		if m := ModifierFromName(tok); m != ModNone {
			mods = mods.With(m)
			continue
		}
		keys = append(keys, CanonicalKeyName(tok))
	}

	parts := append(mods.Names(), keys...)
	return strings.Join(parts, "+")
}

// IsSequence returns true if the normalized trigger string describes a
// multi-chord sequence rather than a single chord.
func IsSequence(trigger string) bool {
	return strings.ContainsRune(trigger, ' ')
}

// SplitSequence splits a normalized sequence trigger into its chords.
// A single chord yields a one-element slice; empty input yields nil.
func SplitSequence(trigger string) []string {
	if trigger == "" {
		return nil
	}
	return strings.Fields(trigger)
}
