package loader

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/dshills/hotkey/internal/shortcut"
)

// JSONLoader loads shortcut definitions from JSON files.
type JSONLoader struct {
	path string
}

// NewJSONLoader creates a JSON loader for the given path.
func NewJSONLoader(path string) *JSONLoader {
	return &JSONLoader{path: path}
}

// Load reads definitions from the configured path.
func (l *JSONLoader) Load() (map[string]shortcut.Definition, error) {
	return l.LoadFrom(l.path)
}

// LoadFrom reads definitions from a specific path.
func (l *JSONLoader) LoadFrom(path string) (map[string]shortcut.Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading shortcut file %s: %w", path, err)
	}

	if !gjson.ValidBytes(data) {
		return nil, &ParseError{Path: path, Message: "invalid JSON"}
	}

	set := fileSet{Shortcuts: make(map[string]fileShortcut)}
	gjson.GetBytes(data, "shortcuts").ForEach(func(id, sc gjson.Result) bool {
		set.Shortcuts[id.String()] = fileShortcut{
			Keys:        sc.Get("keys").String(),
			Priority:    int(sc.Get("priority").Int()),
			Group:       sc.Get("group").String(),
			Context:     sc.Get("context").String(),
			Scope:       sc.Get("scope").String(),
			Disabled:    sc.Get("disabled").Bool(),
			Description: sc.Get("description").String(),
		}
		return true
	})

	return set.toDefinitions(path)
}

// ExportJSON serializes a registry's definitions to JSON in the same
// shape the loaders read, for presentation layers or round-tripping a
// shortcut set to disk. Default actions are not representable and are
// omitted.
func ExportJSON(reg *shortcut.Registry) ([]byte, error) {
	defs := reg.All()

	ids := make([]string, 0, len(defs))
	for id := range defs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := []byte(`{"shortcuts":{}}`)
	var err error
	for _, id := range ids {
		def := defs[id]
		base := "shortcuts." + escapeJSONPath(id)

		if out, err = sjson.SetBytes(out, base+".keys", def.Trigger); err != nil {
			return nil, fmt.Errorf("exporting %q: %w", id, err)
		}
		if def.Priority != 0 {
			if out, err = sjson.SetBytes(out, base+".priority", def.Priority); err != nil {
				return nil, fmt.Errorf("exporting %q: %w", id, err)
			}
		}
		if def.Group != "" {
			if out, err = sjson.SetBytes(out, base+".group", def.Group); err != nil {
				return nil, fmt.Errorf("exporting %q: %w", id, err)
			}
		}
		if def.Context != "" {
			if out, err = sjson.SetBytes(out, base+".context", def.Context); err != nil {
				return nil, fmt.Errorf("exporting %q: %w", id, err)
			}
		}
		if def.Scope == shortcut.ScopeLocal {
			if out, err = sjson.SetBytes(out, base+".scope", "local"); err != nil {
				return nil, fmt.Errorf("exporting %q: %w", id, err)
			}
		}
		if def.Status == shortcut.StatusDisabled {
			if out, err = sjson.SetBytes(out, base+".disabled", true); err != nil {
				return nil, fmt.Errorf("exporting %q: %w", id, err)
			}
		}
		if def.Description != "" {
			if out, err = sjson.SetBytes(out, base+".description", def.Description); err != nil {
				return nil, fmt.Errorf("exporting %q: %w", id, err)
			}
		}
	}
	return out, nil
}

// escapeJSONPath escapes sjson path separators in a shortcut id.
func escapeJSONPath(id string) string {
	id = strings.ReplaceAll(id, `\`, `\\`)
	id = strings.ReplaceAll(id, `.`, `\.`)
	return id
}
