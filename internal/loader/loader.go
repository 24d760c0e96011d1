// Package loader reads declarative shortcut sets from TOML, YAML and
// JSON files, and exports a registry back to JSON for presentation
// layers.
//
// File schema (TOML shown; YAML and JSON mirror it):
//
//	[shortcuts.save]
//	keys        = "ctrl+s"
//	priority    = 10
//	group       = "file"
//	context     = "editor"
//	scope       = "global"
//	disabled    = false
//	description = "Save the current document"
//
// Default actions cannot be expressed in data files; they are attached
// in code or through the script package.
package loader

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dshills/hotkey/internal/shortcut"
)

// Loader parses one file format into shortcut definitions.
type Loader interface {
	// Load reads the configured path. Returns nil, nil if the file does
	// not exist (not an error).
	Load() (map[string]shortcut.Definition, error)

	// LoadFrom reads definitions from a specific path.
	LoadFrom(path string) (map[string]shortcut.Definition, error)
}

// fileShortcut is the on-disk shape of one shortcut.
type fileShortcut struct {
	Keys        string `toml:"keys" yaml:"keys" json:"keys"`
	Priority    int    `toml:"priority" yaml:"priority" json:"priority"`
	Group       string `toml:"group" yaml:"group" json:"group"`
	Context     string `toml:"context" yaml:"context" json:"context"`
	Scope       string `toml:"scope" yaml:"scope" json:"scope"`
	Disabled    bool   `toml:"disabled" yaml:"disabled" json:"disabled"`
	Description string `toml:"description" yaml:"description" json:"description"`
}

// fileSet is the on-disk shape of a shortcut file.
type fileSet struct {
	Shortcuts map[string]fileShortcut `toml:"shortcuts" yaml:"shortcuts" json:"shortcuts"`
}

// toDefinitions converts the file shapes into registry definitions.
func (fs fileSet) toDefinitions(source string) (map[string]shortcut.Definition, error) {
	out := make(map[string]shortcut.Definition, len(fs.Shortcuts))
	for id, sc := range fs.Shortcuts {
		if id == "" {
			return nil, fmt.Errorf("%s: shortcut with empty id", source)
		}
		if sc.Keys == "" {
			return nil, fmt.Errorf("%s: shortcut %q: empty keys", source, id)
		}

		def := shortcut.Definition{
			Trigger:     sc.Keys,
			Priority:    sc.Priority,
			Group:       sc.Group,
			Context:     sc.Context,
			Description: sc.Description,
		}
		if sc.Disabled {
			def.Status = shortcut.StatusDisabled
		}

		switch strings.ToLower(sc.Scope) {
		case "", "global":
			def.Scope = shortcut.ScopeGlobal
		case "local":
			def.Scope = shortcut.ScopeLocal
		default:
			return nil, fmt.Errorf("%s: shortcut %q: unknown scope %q", source, id, sc.Scope)
		}

		out[id] = def
	}
	return out, nil
}

// ForPath returns the loader matching the file extension
// (.toml, .yaml/.yml, .json).
func ForPath(path string) (Loader, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return NewTOMLLoader(path), nil
	case ".yaml", ".yml":
		return NewYAMLLoader(path), nil
	case ".json":
		return NewJSONLoader(path), nil
	default:
		return nil, fmt.Errorf("unsupported shortcut file %s", path)
	}
}

// LoadInto reads a shortcut file and registers every definition into the
// registry. Existing ids are overwritten (soft registration), so LoadInto
// is safe to call again on reload.
func LoadInto(reg *shortcut.Registry, path string) error {
	l, err := ForPath(path)
	if err != nil {
		return err
	}

	defs, err := l.Load()
	if err != nil {
		return err
	}
	for id, def := range defs {
		reg.Register(id, def)
	}
	return nil
}

// ParseError describes a malformed shortcut file.
type ParseError struct {
	Path    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s: %s", e.Path, e.Message)
}

// Unwrap returns the underlying parse error.
func (e *ParseError) Unwrap() error {
	return e.Err
}
