package shortcut

import (
	"errors"
	"testing"
)

func TestRegisterNormalizesTrigger(t *testing.T) {
	r := NewRegistry(nil)
	r.Register("save", Definition{Trigger: "Shift+Ctrl+S"})

	def, ok := r.Get("save")
	if !ok {
		t.Fatal("save not found after register")
	}
	if def.Trigger != "ctrl+shift+s" {
		t.Errorf("Trigger = %q, want %q", def.Trigger, "ctrl+shift+s")
	}
	if def.Kind != KindChord {
		t.Errorf("Kind = %v, want KindChord", def.Kind)
	}
}

func TestRegisterInfersSequenceKind(t *testing.T) {
	r := NewRegistry(nil)
	r.Register("goCommits", Definition{Trigger: "G C"})

	def, _ := r.Get("goCommits")
	if def.Trigger != "g c" {
		t.Errorf("Trigger = %q, want %q", def.Trigger, "g c")
	}
	if def.Kind != KindSequence {
		t.Errorf("Kind = %v, want KindSequence", def.Kind)
	}
}

func TestRegisterOverwritesSilently(t *testing.T) {
	r := NewRegistry(nil)
	r.Register("save", Definition{Trigger: "ctrl+s", Priority: 1})
	r.Register("save", Definition{Trigger: "meta+s", Priority: 9})

	def, _ := r.Get("save")
	if def.Trigger != "meta+s" || def.Priority != 9 {
		t.Errorf("last writer should win, got %+v", def)
	}

	// Old trigger index entry must be gone.
	if cands := r.ChordCandidates("ctrl+s"); len(cands) != 0 {
		t.Errorf("stale candidates for old trigger: %v", cands)
	}
	if cands := r.ChordCandidates("meta+s"); len(cands) != 1 {
		t.Errorf("candidates for new trigger = %d, want 1", len(cands))
	}
}

func TestUnregister(t *testing.T) {
	r := NewRegistry(nil)
	r.Register("save", Definition{Trigger: "ctrl+s"})
	r.Unregister("save")

	if r.Has("save") {
		t.Error("save still present after unregister")
	}
	if cands := r.ChordCandidates("ctrl+s"); len(cands) != 0 {
		t.Errorf("stale candidates after unregister: %v", cands)
	}

	// Unregistering an unknown id is a no-op.
	r.Unregister("missing")
}

func TestUpdate(t *testing.T) {
	r := NewRegistry(nil)
	r.Register("save", Definition{Trigger: "ctrl+s", Priority: 1})

	prio := 50
	ctx := "editor"
	if err := r.Update("save", Patch{Priority: &prio, Context: &ctx}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	def, _ := r.Get("save")
	if def.Priority != 50 || def.Context != "editor" {
		t.Errorf("patch not applied: %+v", def)
	}
	if def.Trigger != "ctrl+s" {
		t.Errorf("unrelated field changed: Trigger = %q", def.Trigger)
	}
}

func TestUpdateNotFound(t *testing.T) {
	r := NewRegistry(nil)
	prio := 1
	err := r.Update("missing", Patch{Priority: &prio})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Update on missing id = %v, want ErrNotFound", err)
	}
}

func TestUpdateTriggerReindexes(t *testing.T) {
	r := NewRegistry(nil)
	r.Register("save", Definition{Trigger: "ctrl+s"})

	trigger := "Meta+S"
	if err := r.Update("save", Patch{Trigger: &trigger}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if len(r.ChordCandidates("ctrl+s")) != 0 {
		t.Error("old trigger still indexed")
	}
	got := r.ChordCandidates("meta+s")
	if len(got) != 1 || got[0].ID != "save" {
		t.Errorf("new trigger candidates = %v", got)
	}
}

func TestEnableDisable(t *testing.T) {
	r := NewRegistry(nil)
	r.Register("save", Definition{Trigger: "ctrl+s"})

	if err := r.Disable("save"); err != nil {
		t.Fatalf("Disable failed: %v", err)
	}
	def, _ := r.Get("save")
	if def.Enabled() {
		t.Error("shortcut still enabled after Disable")
	}

	if err := r.Enable("save"); err != nil {
		t.Fatalf("Enable failed: %v", err)
	}
	def, _ = r.Get("save")
	if !def.Enabled() {
		t.Error("shortcut still disabled after Enable")
	}

	if err := r.Enable("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Enable on missing id = %v, want ErrNotFound", err)
	}
}

func TestGroups(t *testing.T) {
	r := NewRegistry(map[string]Definition{
		"save":   {Trigger: "ctrl+s", Group: "file"},
		"open":   {Trigger: "ctrl+o", Group: "file"},
		"find":   {Trigger: "ctrl+f", Group: "search"},
		"noname": {Trigger: "ctrl+n"},
	})

	groups := r.Groups()
	if len(groups) != 2 || groups[0] != "file" || groups[1] != "search" {
		t.Errorf("Groups() = %v, want [file search]", groups)
	}

	file := r.ByGroup("file")
	if len(file) != 2 {
		t.Errorf("ByGroup(file) returned %d, want 2", len(file))
	}
	if len(r.ByGroup("nope")) != 0 {
		t.Error("ByGroup(nope) should be empty")
	}
}

func TestCandidatesShareTrigger(t *testing.T) {
	r := NewRegistry(nil)
	r.Register("print", Definition{Trigger: "ctrl+p", Priority: 100})
	r.Register("goToFile", Definition{Trigger: "ctrl+p", Priority: 90, Context: "editor"})

	cands := r.ChordCandidates("ctrl+p")
	if len(cands) != 2 {
		t.Fatalf("candidates = %d, want 2", len(cands))
	}
	// Registration order preserved.
	if cands[0].ID != "print" || cands[1].ID != "goToFile" {
		t.Errorf("candidate order = %v", []string{cands[0].ID, cands[1].ID})
	}
}

func TestCandidatesFilterKind(t *testing.T) {
	r := NewRegistry(nil)
	r.Register("g-chord", Definition{Trigger: "g"})
	r.Register("g-seq", Definition{Trigger: "g c"})

	if got := r.ChordCandidates("g"); len(got) != 1 || got[0].ID != "g-chord" {
		t.Errorf("ChordCandidates(g) = %v", got)
	}
	if got := r.SequenceCandidates("g c"); len(got) != 1 || got[0].ID != "g-seq" {
		t.Errorf("SequenceCandidates(g c) = %v", got)
	}
	if got := r.SequenceCandidates("g"); len(got) != 0 {
		t.Errorf("SequenceCandidates(g) = %v, want none", got)
	}
}
