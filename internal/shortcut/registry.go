package shortcut

import (
	"errors"
	"sort"
	"sync"

	"github.com/dshills/hotkey/internal/key"
)

// ErrNotFound is returned when an operation references a shortcut id that
// is not in the registry.
var ErrNotFound = errors.New("shortcut not found")

// Candidate pairs a shortcut id with its definition for dispatch-time
// trigger lookup.
type Candidate struct {
	ID  string
	Def Definition
}

// Registry is the mutable mapping from shortcut id to definition.
// It keeps a trigger index so the dispatch resolver can enumerate
// candidates for a normalized chord or sequence in one lookup.
type Registry struct {
	mu sync.RWMutex

	defs map[string]Definition

	// byTrigger maps a normalized trigger to the ids registered for it,
	// in registration order.
	byTrigger map[string][]string
}

// NewRegistry creates a registry, optionally seeded with an initial
// declarative shortcut set.
func NewRegistry(initial map[string]Definition) *Registry {
	r := &Registry{
		defs:      make(map[string]Definition),
		byTrigger: make(map[string][]string),
	}
	for id, def := range initial {
		r.Register(id, def)
	}
	return r
}

// Register adds or replaces a shortcut. The trigger is normalized and the
// kind inferred. Replacing an existing id is silent (last writer wins).
func (r *Registry) Register(id string, def Definition) {
	def.Trigger = key.Normalize(def.Trigger)
	def.Kind = inferKind(def.Trigger)

	r.mu.Lock()
	defer r.mu.Unlock()

	if old, ok := r.defs[id]; ok {
		r.dropFromIndex(old.Trigger, id)
	}

	r.defs[id] = def
	r.byTrigger[def.Trigger] = append(r.byTrigger[def.Trigger], id)
}

// Unregister removes a shortcut. Removing an unknown id is a no-op.
func (r *Registry) Unregister(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	def, ok := r.defs[id]
	if !ok {
		return
	}
	r.dropFromIndex(def.Trigger, id)
	delete(r.defs, id)
}

// Update applies a partial definition to an existing shortcut.
// Returns ErrNotFound when the id is absent.
func (r *Registry) Update(id string, patch Patch) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	def, ok := r.defs[id]
	if !ok {
		return ErrNotFound
	}

	updated := patch.apply(def)
	if updated.Trigger != def.Trigger {
		r.dropFromIndex(def.Trigger, id)
		r.byTrigger[updated.Trigger] = append(r.byTrigger[updated.Trigger], id)
	}
	r.defs[id] = updated
	return nil
}

// Enable marks a shortcut as eligible to fire.
func (r *Registry) Enable(id string) error {
	status := StatusEnabled
	return r.Update(id, Patch{Status: &status})
}

// Disable suppresses a shortcut without unregistering it.
func (r *Registry) Disable(id string) error {
	status := StatusDisabled
	return r.Update(id, Patch{Status: &status})
}

// Get returns the definition for an id.
func (r *Registry) Get(id string) (Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	def, ok := r.defs[id]
	return def, ok
}

// Has returns true if the id is registered.
func (r *Registry) Has(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.defs[id]
	return ok
}

// Len returns the number of registered shortcuts.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.defs)
}

// All returns a copy of every registered definition keyed by id.
func (r *Registry) All() map[string]Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]Definition, len(r.defs))
	for id, def := range r.defs {
		out[id] = def
	}
	return out
}

// ByGroup returns the definitions labeled with the given group.
func (r *Registry) ByGroup(group string) map[string]Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]Definition)
	for id, def := range r.defs {
		if def.Group == group {
			out[id] = def
		}
	}
	return out
}

// Groups returns the distinct group labels in sorted order. Shortcuts
// without a group are not represented.
func (r *Registry) Groups() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, def := range r.defs {
		if def.Group != "" {
			seen[def.Group] = struct{}{}
		}
	}

	groups := make([]string, 0, len(seen))
	for g := range seen {
		groups = append(groups, g)
	}
	sort.Strings(groups)
	return groups
}

// ChordCandidates returns the chord-kind shortcuts registered for the
// given normalized chord, in registration order.
func (r *Registry) ChordCandidates(chord string) []Candidate {
	return r.candidates(chord, KindChord)
}

// SequenceCandidates returns the sequence-kind shortcuts registered for
// the given normalized sequence, in registration order.
func (r *Registry) SequenceCandidates(seq string) []Candidate {
	return r.candidates(seq, KindSequence)
}

func (r *Registry) candidates(trigger string, kind Kind) []Candidate {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.byTrigger[trigger]
	if len(ids) == 0 {
		return nil
	}

	out := make([]Candidate, 0, len(ids))
	for _, id := range ids {
		def, ok := r.defs[id]
		if !ok || def.Kind != kind {
			continue
		}
		out = append(out, Candidate{ID: id, Def: def})
	}
	return out
}

// dropFromIndex removes an id from a trigger bucket.
// Caller must hold the write lock.
func (r *Registry) dropFromIndex(trigger, id string) {
	ids := r.byTrigger[trigger]
	for i, existing := range ids {
		if existing == id {
			ids = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	if len(ids) == 0 {
		delete(r.byTrigger, trigger)
		return
	}
	r.byTrigger[trigger] = ids
}
