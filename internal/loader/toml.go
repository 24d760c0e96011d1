package loader

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/hotkey/internal/shortcut"
)

// TOMLLoader loads shortcut definitions from TOML files.
type TOMLLoader struct {
	path string
}

// NewTOMLLoader creates a TOML loader for the given path.
func NewTOMLLoader(path string) *TOMLLoader {
	return &TOMLLoader{path: path}
}

// Load reads definitions from the configured path.
func (l *TOMLLoader) Load() (map[string]shortcut.Definition, error) {
	return l.LoadFrom(l.path)
}

// LoadFrom reads definitions from a specific path.
func (l *TOMLLoader) LoadFrom(path string) (map[string]shortcut.Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading shortcut file %s: %w", path, err)
	}

	var set fileSet
	if err := toml.Unmarshal(data, &set); err != nil {
		return nil, &ParseError{Path: path, Message: err.Error(), Err: err}
	}
	return set.toDefinitions(path)
}
