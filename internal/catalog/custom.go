package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"
)

// LoadThemeFile reads a theme definition from a YAML file. Missing
// palette or font fields inherit from the corporate theme so a file can
// override just the colors it cares about.
func LoadThemeFile(path string) (Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Theme{}, fmt.Errorf("read theme file: %w", err)
	}

	t := builtinThemes[DefaultThemeID]
	t.Custom = true
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Theme{}, fmt.Errorf("parse theme file: %w", err)
	}
	if t.ID == "" {
		t.ID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if t.Name == "" {
		t.Name = t.ID
	}
	return t, nil
}

// SaveThemeFile writes a theme definition to a YAML file, creating
// parent directories as needed.
func SaveThemeFile(t Theme, path string) error {
	data, err := yaml.Marshal(t)
	if err != nil {
		return fmt.Errorf("encode theme: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create theme directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write theme file: %w", err)
	}
	return nil
}

// LoadThemeDir registers every *.yaml/*.yml theme in dir into the
// catalog. A missing directory is not an error; unreadable files are
// skipped and reported in the returned error after all loadable themes
// registered.
func (c *Catalog) LoadThemeDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read theme directory: %w", err)
	}

	var failed []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		t, err := LoadThemeFile(filepath.Join(dir, e.Name()))
		if err != nil {
			failed = append(failed, e.Name())
			continue
		}
		c.Register(t)
	}
	if len(failed) > 0 {
		return fmt.Errorf("unparsable theme files: %s", strings.Join(failed, ", "))
	}
	return nil
}
