package loader

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dshills/hotkey/internal/shortcut"
)

// YAMLLoader loads shortcut definitions from YAML files.
type YAMLLoader struct {
	path string
}

// NewYAMLLoader creates a YAML loader for the given path.
func NewYAMLLoader(path string) *YAMLLoader {
	return &YAMLLoader{path: path}
}

// Load reads definitions from the configured path.
func (l *YAMLLoader) Load() (map[string]shortcut.Definition, error) {
	return l.LoadFrom(l.path)
}

// LoadFrom reads definitions from a specific path.
func (l *YAMLLoader) LoadFrom(path string) (map[string]shortcut.Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading shortcut file %s: %w", path, err)
	}

	var set fileSet
	if err := yaml.Unmarshal(data, &set); err != nil {
		return nil, &ParseError{Path: path, Message: err.Error(), Err: err}
	}
	return set.toDefinitions(path)
}
