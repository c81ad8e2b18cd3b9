package config

import (
	"fmt"
	"strings"

	"docbatch/internal/textutil"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateTool(); err != nil {
		return err
	}
	if err := c.validateConversion(); err != nil {
		return err
	}
	if err := c.validatePresets(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateTool() error {
	if strings.ContainsAny(c.Tool.Name, `/\`) {
		return fmt.Errorf("tool.name must be a bare executable name, got %q (use tool.path for locations)", c.Tool.Name)
	}
	return nil
}

func (c *Config) validateConversion() error {
	if strings.ContainsAny(c.Conversion.OutputExtension, `/\`) {
		return fmt.Errorf("conversion.output_extension must not contain path separators, got %q", c.Conversion.OutputExtension)
	}
	if c.Conversion.MaxParallelism < MinParallelism || c.Conversion.MaxParallelism > MaxParallelism {
		return fmt.Errorf("conversion.max_parallelism must be between %d and %d", MinParallelism, MaxParallelism)
	}
	for name, override := range c.Formats {
		if strings.ContainsAny(override.Extension, `/\`) {
			return fmt.Errorf("formats.%s.extension must not contain path separators, got %q", name, override.Extension)
		}
	}
	return nil
}

func (c *Config) validatePresets() error {
	seen := make(map[string]struct{}, len(c.Presets))
	for _, preset := range c.Presets {
		key := textutil.Fold(preset.Name)
		if _, dup := seen[key]; dup {
			return fmt.Errorf("presets: duplicate preset name %q", preset.Name)
		}
		seen[key] = struct{}{}
		if preset.OutputFormat == "" {
			return fmt.Errorf("presets: %q must set output_format", preset.Name)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
