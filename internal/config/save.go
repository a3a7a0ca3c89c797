package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultPath is where Save writes and where Load looks after the working
// directory.
func DefaultPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// Marshal renders the config as YAML, in the layout Load reads.
func (c *Config) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	return buf.Bytes(), nil
}

// Save writes the config to DefaultPath and returns that path.
func (c *Config) Save() (string, error) {
	path := DefaultPath()
	return path, c.SaveTo(path)
}

// SaveTo writes the config to path, creating its directory.
func (c *Config) SaveTo(path string) error {
	data, err := c.Marshal()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	return nil
}
