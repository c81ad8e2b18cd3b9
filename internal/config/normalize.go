package config

import (
	"fmt"
	"os"
	"strings"

	"docbatch/internal/textutil"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeTool(); err != nil {
		return err
	}
	if err := c.normalizeConversion(); err != nil {
		return err
	}
	c.normalizeFormats()
	c.normalizePresets()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(strings.TrimSpace(c.Paths.DataDir)); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeTool() error {
	c.Tool.Name = strings.TrimSpace(c.Tool.Name)
	if c.Tool.Name == "" {
		c.Tool.Name = defaultToolName
	}
	c.Tool.Path = strings.TrimSpace(c.Tool.Path)
	if c.Tool.Path == "" {
		if value, ok := os.LookupEnv(toolPathEnv); ok {
			c.Tool.Path = strings.TrimSpace(value)
		}
	}
	var err error
	if c.Tool.Path, err = expandPath(c.Tool.Path); err != nil {
		return fmt.Errorf("tool.path: %w", err)
	}
	if c.Tool.SavedPath, err = expandPath(strings.TrimSpace(c.Tool.SavedPath)); err != nil {
		return fmt.Errorf("tool.saved_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeConversion() error {
	conv := &c.Conversion
	conv.InputFormat = strings.TrimSpace(conv.InputFormat)
	if conv.InputFormat == "" || textutil.EqualFold(conv.InputFormat, AutoInputFormat) {
		conv.InputFormat = AutoInputFormat
	}
	conv.OutputFormat = strings.TrimSpace(conv.OutputFormat)
	if conv.OutputFormat == "" {
		conv.OutputFormat = defaultOutputFormat
	}
	conv.OutputExtension = strings.TrimLeft(strings.TrimSpace(conv.OutputExtension), ".")
	conv.AdditionalArgs = strings.TrimSpace(conv.AdditionalArgs)

	var err error
	if conv.OutputDir, err = expandPath(strings.TrimSpace(conv.OutputDir)); err != nil {
		return fmt.Errorf("conversion.output_dir: %w", err)
	}
	if conv.TemplatePath, err = expandPath(strings.TrimSpace(conv.TemplatePath)); err != nil {
		return fmt.Errorf("conversion.template_path: %w", err)
	}
	conv.MaxParallelism = ClampParallelism(conv.MaxParallelism)
	return nil
}

func (c *Config) normalizeFormats() {
	if len(c.Formats) == 0 {
		c.Formats = nil
		return
	}
	normalized := make(map[string]FormatOverride, len(c.Formats))
	for name, override := range c.Formats {
		key := textutil.Fold(name)
		if key == "" {
			continue
		}
		override = FormatOverride{
			Extension: strings.TrimLeft(strings.TrimSpace(override.Extension), "."),
			Args:      strings.TrimSpace(override.Args),
			Template:  strings.TrimSpace(override.Template),
		}
		if override.IsZero() {
			continue
		}
		normalized[key] = override
	}
	if len(normalized) == 0 {
		normalized = nil
	}
	c.Formats = normalized
}

func (c *Config) normalizePresets() {
	kept := c.Presets[:0]
	for _, preset := range c.Presets {
		preset.Name = strings.TrimSpace(preset.Name)
		preset.OutputFormat = strings.TrimSpace(preset.OutputFormat)
		preset.Extension = strings.TrimLeft(strings.TrimSpace(preset.Extension), ".")
		preset.Args = strings.TrimSpace(preset.Args)
		preset.Template = strings.TrimSpace(preset.Template)
		if preset.Name == "" {
			continue
		}
		kept = append(kept, preset)
	}
	if len(kept) == 0 {
		kept = nil
	}
	c.Presets = kept
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
