package loader

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/tidwall/gjson"

	"github.com/dshills/hotkey/internal/shortcut"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

const tomlSet = `
[shortcuts.save]
keys        = "Ctrl+S"
priority    = 10
group       = "file"
description = "Save the current document"

[shortcuts.goCommits]
keys    = "g c"
context = "log"

[shortcuts.quit]
keys     = "ctrl+q"
scope    = "local"
disabled = true
`

const yamlSet = `
shortcuts:
  save:
    keys: Ctrl+S
    priority: 10
    group: file
  goCommits:
    keys: g c
    context: log
`

const jsonSet = `{
  "shortcuts": {
    "save": {"keys": "Ctrl+S", "priority": 10, "group": "file"},
    "goCommits": {"keys": "g c", "context": "log"},
    "quit": {"keys": "ctrl+q", "scope": "local", "disabled": true}
  }
}`

func checkCommonSet(t *testing.T, defs map[string]shortcut.Definition) {
	t.Helper()

	save, ok := defs["save"]
	if !ok {
		t.Fatal("save not loaded")
	}
	if save.Trigger != "Ctrl+S" && save.Trigger != "ctrl+s" {
		t.Errorf("save trigger = %q", save.Trigger)
	}
	if save.Priority != 10 || save.Group != "file" {
		t.Errorf("save = %+v", save)
	}

	seq, ok := defs["goCommits"]
	if !ok {
		t.Fatal("goCommits not loaded")
	}
	if seq.Context != "log" {
		t.Errorf("goCommits context = %q, want log", seq.Context)
	}
}

func TestTOMLLoader(t *testing.T) {
	path := writeFile(t, "shortcuts.toml", tomlSet)

	defs, err := NewTOMLLoader(path).Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	checkCommonSet(t, defs)

	quit := defs["quit"]
	if quit.Scope != shortcut.ScopeLocal {
		t.Errorf("quit scope = %v, want local", quit.Scope)
	}
	if quit.Status != shortcut.StatusDisabled {
		t.Errorf("quit status = %v, want disabled", quit.Status)
	}
}

func TestYAMLLoader(t *testing.T) {
	path := writeFile(t, "shortcuts.yaml", yamlSet)

	defs, err := NewYAMLLoader(path).Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	checkCommonSet(t, defs)
}

func TestJSONLoader(t *testing.T) {
	path := writeFile(t, "shortcuts.json", jsonSet)

	defs, err := NewJSONLoader(path).Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	checkCommonSet(t, defs)
}

func TestLoadMissingFileIsNotAnError(t *testing.T) {
	defs, err := NewTOMLLoader(filepath.Join(t.TempDir(), "absent.toml")).Load()
	if err != nil {
		t.Fatalf("missing file should not error, got %v", err)
	}
	if defs != nil {
		t.Errorf("missing file should yield nil, got %v", defs)
	}
}

func TestLoadRejectsMalformedFiles(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"bad toml", "s.toml", "[shortcuts\n"},
		{"bad json", "s.json", "{nope"},
		{"empty keys", "s.toml", "[shortcuts.save]\nkeys = \"\"\n"},
		{"bad scope", "s.toml", "[shortcuts.save]\nkeys = \"ctrl+s\"\nscope = \"planetary\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.file, tt.content)
			l, err := ForPath(path)
			if err != nil {
				t.Fatalf("ForPath failed: %v", err)
			}
			if _, err := l.Load(); err == nil {
				t.Error("malformed file loaded without error")
			}
		})
	}
}

func TestParseErrorUnwraps(t *testing.T) {
	path := writeFile(t, "s.toml", "[broken\n")
	_, err := NewTOMLLoader(path).Load()

	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("error %v is not a ParseError", err)
	}
	if perr.Path != path {
		t.Errorf("ParseError path = %q, want %q", perr.Path, path)
	}
}

func TestForPath(t *testing.T) {
	for _, ext := range []string{"a.toml", "a.yaml", "a.yml", "a.json"} {
		if _, err := ForPath(ext); err != nil {
			t.Errorf("ForPath(%s) failed: %v", ext, err)
		}
	}
	if _, err := ForPath("a.ini"); err == nil {
		t.Error("ForPath accepted unsupported extension")
	}
}

func TestLoadInto(t *testing.T) {
	path := writeFile(t, "shortcuts.toml", tomlSet)

	reg := shortcut.NewRegistry(nil)
	if err := LoadInto(reg, path); err != nil {
		t.Fatalf("LoadInto failed: %v", err)
	}

	if reg.Len() != 3 {
		t.Errorf("registry has %d shortcuts, want 3", reg.Len())
	}
	def, ok := reg.Get("save")
	if !ok {
		t.Fatal("save not registered")
	}
	if def.Trigger != "ctrl+s" {
		t.Errorf("registered trigger = %q, want normalized ctrl+s", def.Trigger)
	}
}

func TestExportJSONRoundTrip(t *testing.T) {
	reg := shortcut.NewRegistry(map[string]shortcut.Definition{
		"save":      {Trigger: "Ctrl+S", Priority: 10, Group: "file", Description: "Save"},
		"goCommits": {Trigger: "g c", Context: "log"},
		"quit":      {Trigger: "ctrl+q", Scope: shortcut.ScopeLocal, Status: shortcut.StatusDisabled},
	})

	data, err := ExportJSON(reg)
	if err != nil {
		t.Fatalf("ExportJSON failed: %v", err)
	}
	if !gjson.ValidBytes(data) {
		t.Fatalf("export is not valid JSON: %s", data)
	}

	if got := gjson.GetBytes(data, "shortcuts.save.keys").String(); got != "ctrl+s" {
		t.Errorf("exported save keys = %q, want ctrl+s", got)
	}
	if got := gjson.GetBytes(data, "shortcuts.quit.disabled").Bool(); !got {
		t.Error("exported quit not marked disabled")
	}

	// Re-import the export into a fresh registry.
	path := filepath.Join(t.TempDir(), "export.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	fresh := shortcut.NewRegistry(nil)
	if err := LoadInto(fresh, path); err != nil {
		t.Fatalf("re-import failed: %v", err)
	}
	if fresh.Len() != 3 {
		t.Errorf("re-imported %d shortcuts, want 3", fresh.Len())
	}
	def, _ := fresh.Get("quit")
	if def.Status != shortcut.StatusDisabled || def.Scope != shortcut.ScopeLocal {
		t.Errorf("quit lost attributes on round trip: %+v", def)
	}
}
