// Package config loads the YAML configuration of the mddoc command.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-mddoc/internal/fileutil"
	"github.com/alnah/go-mddoc/internal/pipeline"
	"github.com/alnah/go-mddoc/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxStyleLength     = 100  // style name or path
	MaxPathLength      = 4096 // PATH_MAX on Linux
	MaxHighlightLength = 50   // chroma style names are short
	MaxWorkers         = 64
)

// configDirName is the directory under the user config dir searched by name.
const configDirName = "go-mddoc"

// Config holds all configuration for the mddoc command.
type Config struct {
	Format FormatConfig `yaml:"format"`
	HTML   HTMLConfig   `yaml:"html"`
	Batch  BatchConfig  `yaml:"batch"`
	Log    LogConfig    `yaml:"log"`
}

// FormatConfig defines parse and serialize options.
type FormatConfig struct {
	BulletMarker  string `yaml:"bulletMarker"`  // "-", "*" or "+" (default: "-")
	StripReserved bool   `yaml:"stripReserved"` // strip U+E000-U+E003 instead of failing
	MaxInputSize  int    `yaml:"maxInputSize"`  // bytes, 0 = library default
}

// HTMLConfig defines HTML preview options.
type HTMLConfig struct {
	Style          string `yaml:"style"`          // embedded style name, CSS path, or empty
	Assets         string `yaml:"assets"`         // custom asset directory (empty = embedded)
	HighlightStyle string `yaml:"highlightStyle"` // chroma style name
	RewritePaths   bool   `yaml:"rewritePaths"`   // rewrite relative paths to file:// URLs
}

// BatchConfig defines batch processing options.
type BatchConfig struct {
	Workers int `yaml:"workers"` // 0 = auto
}

// LogConfig defines logging options.
type LogConfig struct {
	Level string `yaml:"level"` // "debug", "info", "warn" or "error"
}

// Validate checks field lengths and enumerated values.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	switch c.Format.BulletMarker {
	case "", "-", "*", "+":
	default:
		return fmt.Errorf("%w: format.bulletMarker %q (must be -, *, or +)", ErrInvalidValue, c.Format.BulletMarker)
	}
	if c.Format.MaxInputSize < 0 {
		return fmt.Errorf("%w: format.maxInputSize must not be negative, got %d", ErrInvalidValue, c.Format.MaxInputSize)
	}

	if err := validateFieldLength("html.style", c.HTML.Style, MaxPathLength); err != nil {
		return err
	}
	if !fileutil.IsFilePath(c.HTML.Style) {
		if err := validateFieldLength("html.style", c.HTML.Style, MaxStyleLength); err != nil {
			return err
		}
	}
	if err := validateFieldLength("html.assets", c.HTML.Assets, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("html.highlightStyle", c.HTML.HighlightStyle, MaxHighlightLength); err != nil {
		return err
	}
	if c.HTML.HighlightStyle != "" && !pipeline.HighlightStyleExists(c.HTML.HighlightStyle) {
		return fmt.Errorf("%w: html.highlightStyle %q is not a known style", ErrInvalidValue, c.HTML.HighlightStyle)
	}

	if c.Batch.Workers < 0 || c.Batch.Workers > MaxWorkers {
		return fmt.Errorf("%w: batch.workers must be between 0 and %d, got %d", ErrInvalidValue, MaxWorkers, c.Batch.Workers)
	}

	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log.level %q (must be debug, info, warn, or error)", ErrInvalidValue, c.Log.Level)
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Format: FormatConfig{BulletMarker: "-"},
		HTML: HTMLConfig{
			Style:          "default",
			HighlightStyle: pipeline.DefaultHighlightStyle,
			RewritePaths:   true,
		},
		Batch: BatchConfig{Workers: 0},
		Log:   LogConfig{Level: "info"},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Fields absent from the file keep their DefaultConfig values.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/go-mddoc/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2) // 2 locations

	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, configDirName, name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}
