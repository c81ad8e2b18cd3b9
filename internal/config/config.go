package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Tool identifies the external conversion binary.
type Tool struct {
	Name      string `toml:"name"`
	Path      string `toml:"path"`
	SavedPath string `toml:"saved_path"`
}

// Conversion holds the global conversion defaults every job inherits.
type Conversion struct {
	InputFormat     string `toml:"input_format"`
	OutputFormat    string `toml:"output_format"`
	OutputExtension string `toml:"output_extension"`
	OutputDir       string `toml:"output_dir"`
	AdditionalArgs  string `toml:"additional_args"`
	TemplatePath    string `toml:"template_path"`
	MaxParallelism  int    `toml:"max_parallelism"`
}

// FormatOverride customizes one output format. Blank fields inherit the
// global conversion defaults.
type FormatOverride struct {
	Extension string `toml:"extension,omitempty"`
	Args      string `toml:"args,omitempty"`
	Template  string `toml:"template,omitempty"`
}

// IsZero reports whether the override carries no customization.
func (o FormatOverride) IsZero() bool {
	return strings.TrimSpace(o.Extension) == "" &&
		strings.TrimSpace(o.Args) == "" &&
		strings.TrimSpace(o.Template) == ""
}

// Preset is a named, user-defined bundle of conversion settings.
type Preset struct {
	Name         string `toml:"name"`
	OutputFormat string `toml:"output_format"`
	Extension    string `toml:"extension,omitempty"`
	Args         string `toml:"args,omitempty"`
	Template     string `toml:"template,omitempty"`
}

// Paths contains directory configuration.
type Paths struct {
	DataDir string `toml:"data_dir"`
	LogDir  string `toml:"log_dir"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for docbatch.
//
// Configuration sections by subsystem:
//   - Tool: conversion binary name and preferred/saved locations
//   - Conversion: global defaults (formats, output directory, args, template, parallelism)
//   - Formats: per-output-format overrides layered over Conversion
//   - Presets: custom presets shown next to the built-in ones
//   - Paths: data directory (history database, locks) and log directory
//   - Logging: log format and level
type Config struct {
	Tool       Tool                      `toml:"tool"`
	Conversion Conversion                `toml:"conversion"`
	Formats    map[string]FormatOverride `toml:"formats,omitempty"`
	Presets    []Preset                  `toml:"presets,omitempty"`
	Paths      Paths                     `toml:"paths"`
	Logging    Logging                   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("docbatch.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the data and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// ToolName returns the conversion tool's executable base name.
func (c *Config) ToolName() string {
	if name := strings.TrimSpace(c.Tool.Name); name != "" {
		return name
	}
	return defaultToolName
}

// Parallelism returns the batch parallelism clamped to the supported range.
func (c *Config) Parallelism() int {
	return ClampParallelism(c.Conversion.MaxParallelism)
}

// ClampParallelism bounds value to [MinParallelism, MaxParallelism].
func ClampParallelism(value int) int {
	switch {
	case value < MinParallelism:
		return MinParallelism
	case value > MaxParallelism:
		return MaxParallelism
	default:
		return value
	}
}

// Clone returns a deep copy suitable for handing to concurrent readers.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	clone := *c
	if c.Formats != nil {
		clone.Formats = make(map[string]FormatOverride, len(c.Formats))
		for k, v := range c.Formats {
			clone.Formats[k] = v
		}
	}
	if c.Presets != nil {
		clone.Presets = append([]Preset(nil), c.Presets...)
	}
	return &clone
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
