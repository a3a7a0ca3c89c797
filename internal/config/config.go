// Package config handles qmdltool configuration: logging, texture lookup and
// export settings, read from YAML and overridden by command-line flags.
package config

import (
	"fmt"
	"image"
	"os"

	"github.com/Faultbox/qtmdl/internal/logger"
	"github.com/Faultbox/qtmdl/pkg/export"
	"github.com/Faultbox/qtmdl/pkg/formats"
)

// Config holds all tool settings.
type Config struct {
	Logging  LoggingConfig  `yaml:"logging"`
	Textures TexturesConfig `yaml:"textures"`
	Export   ExportConfig   `yaml:"export"`
	Data     DataConfig     `yaml:"data"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	LogFile    string `yaml:"log_file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// TexturesConfig controls how skins referenced by a model are found.
type TexturesConfig struct {
	// Extensions maps a format tag to the texture extensions tried, in
	// order. Formats left out keep their built-in order.
	Extensions map[string][]string `yaml:"extensions"`
	// Placeholder is an image file used for unresolved MD3 shaders.
	Placeholder string `yaml:"placeholder"`
}

// ExportConfig holds glTF export defaults.
type ExportConfig struct {
	KeepZUp    bool `yaml:"keep_z_up"`
	NoTextures bool `yaml:"no_textures"`
}

// DataConfig holds the search path models and textures are read from.
// Archives listed later override earlier ones.
type DataConfig struct {
	Paks []string `yaml:"paks"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	rotation := logger.DefaultFileConfig("")
	return &Config{
		Logging: LoggingConfig{
			Level:      "info",
			MaxSizeMB:  rotation.MaxSizeMB,
			MaxBackups: rotation.MaxBackups,
			MaxAgeDays: rotation.MaxAgeDays,
			Compress:   rotation.Compress,
		},
		Textures: TexturesConfig{
			Extensions: map[string][]string{},
		},
	}
}

// FileConfig returns the log file settings in the form the logger takes.
func (l LoggingConfig) FileConfig() logger.FileConfig {
	return logger.FileConfig{
		Path:       l.LogFile,
		MaxSizeMB:  l.MaxSizeMB,
		MaxBackups: l.MaxBackups,
		MaxAgeDays: l.MaxAgeDays,
		Compress:   l.Compress,
	}
}

// TextureExtensions returns the configured extension orders keyed by format.
func (c *Config) TextureExtensions() (map[formats.Format][]string, error) {
	result := make(map[formats.Format][]string, len(c.Textures.Extensions))
	for tag, exts := range c.Textures.Extensions {
		f, err := formats.ParseFormat(tag)
		if err != nil {
			return nil, fmt.Errorf("textures.extensions: %w", err)
		}
		result[f] = exts
	}
	return result, nil
}

// PlaceholderImage decodes the configured placeholder texture, or returns nil
// when none is set.
func (c *Config) PlaceholderImage() (*image.NRGBA, error) {
	if c.Textures.Placeholder == "" {
		return nil, nil
	}
	data, err := os.ReadFile(c.Textures.Placeholder)
	if err != nil {
		return nil, fmt.Errorf("textures.placeholder: %w", err)
	}
	img, err := formats.DecodeImage(c.Textures.Placeholder, data)
	if err != nil {
		return nil, fmt.Errorf("textures.placeholder: %w", err)
	}
	return img, nil
}

// ExportOptions returns the export defaults for frame.
func (c *Config) ExportOptions(frame int) export.Options {
	return export.Options{
		Frame:      frame,
		KeepZUp:    c.Export.KeepZUp,
		NoTextures: c.Export.NoTextures,
	}
}
