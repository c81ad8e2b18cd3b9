package formats

import (
	"errors"
	"fmt"
	"strings"

	"docbatch/internal/config"
	"docbatch/internal/textutil"
)

// ErrBuiltInPreset is returned when a change targets a built-in preset.
var ErrBuiltInPreset = errors.New("built-in presets cannot be changed")

// ErrPresetNotFound is returned when no preset has the requested name.
var ErrPresetNotFound = errors.New("preset not found")

// Preset is a named bundle of conversion settings.
type Preset struct {
	Name         string
	OutputFormat string
	Extension    string
	Args         string
	Template     string
	BuiltIn      bool
}

var builtInPresets = []Preset{
	{Name: "PDF", OutputFormat: "pdf", Extension: "pdf"},
	{Name: "Word (DOCX)", OutputFormat: "docx", Extension: "docx"},
	{Name: "HTML", OutputFormat: "html", Extension: "html"},
	{Name: "Markdown", OutputFormat: "markdown", Extension: "md"},
	{Name: "PDF with TOC", OutputFormat: "pdf", Extension: "pdf", Args: "--toc --toc-depth=3"},
	{Name: "PDF (tectonic)", OutputFormat: "pdf", Extension: "pdf", Args: "--pdf-engine=tectonic"},
	{Name: "PDF (pdflatex)", OutputFormat: "pdf", Extension: "pdf", Args: "--pdf-engine=pdflatex"},
	{Name: "HTML + CSS", OutputFormat: "html", Extension: "html", Args: "--css=style.css"},
	{Name: "Word reference doc", OutputFormat: "docx", Extension: "docx", Args: "--reference-doc=template.docx"},
}

// BuiltInPresets returns the presets shipped with docbatch.
func BuiltInPresets() []Preset {
	out := make([]Preset, len(builtInPresets))
	for i, p := range builtInPresets {
		p.BuiltIn = true
		out[i] = p
	}
	return out
}

// Presets returns built-in presets followed by the custom presets in cfg.
func Presets(cfg *config.Config) []Preset {
	out := BuiltInPresets()
	for _, custom := range cfg.Presets {
		out = append(out, Preset{
			Name:         custom.Name,
			OutputFormat: custom.OutputFormat,
			Extension:    custom.Extension,
			Args:         custom.Args,
			Template:     custom.Template,
		})
	}
	return out
}

// FindPreset looks a preset up by case-insensitive name.
func FindPreset(cfg *config.Config, name string) (Preset, error) {
	for _, preset := range Presets(cfg) {
		if textutil.EqualFold(preset.Name, name) {
			return preset, nil
		}
	}
	return Preset{}, fmt.Errorf("%w: %q", ErrPresetNotFound, strings.TrimSpace(name))
}

// Apply copies a preset into the global conversion settings: the output
// format and extension when set, the extra arguments always, and the template
// when set.
func Apply(cfg *config.Config, preset Preset) {
	if format := strings.TrimSpace(preset.OutputFormat); format != "" {
		SelectOutputFormat(cfg, format)
	}
	if ext := strings.TrimLeft(strings.TrimSpace(preset.Extension), "."); ext != "" {
		cfg.Conversion.OutputExtension = ext
	}
	cfg.Conversion.AdditionalArgs = strings.TrimSpace(preset.Args)
	if tmpl := strings.TrimSpace(preset.Template); tmpl != "" {
		cfg.Conversion.TemplatePath = tmpl
	}
}

// SavePreset stores the current global settings as a custom preset named
// name, replacing a custom preset with the same name.
func SavePreset(cfg *config.Config, name string) (Preset, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Preset{}, errors.New("preset name required")
	}
	for _, builtIn := range builtInPresets {
		if textutil.EqualFold(builtIn.Name, name) {
			return Preset{}, fmt.Errorf("%w: %q", ErrBuiltInPreset, builtIn.Name)
		}
	}
	stored := config.Preset{
		Name:         name,
		OutputFormat: cfg.Conversion.OutputFormat,
		Extension:    cfg.Conversion.OutputExtension,
		Args:         cfg.Conversion.AdditionalArgs,
		Template:     cfg.Conversion.TemplatePath,
	}
	replaced := false
	for i := range cfg.Presets {
		if textutil.EqualFold(cfg.Presets[i].Name, name) {
			stored.Name = cfg.Presets[i].Name
			cfg.Presets[i] = stored
			replaced = true
			break
		}
	}
	if !replaced {
		cfg.Presets = append(cfg.Presets, stored)
	}
	return Preset{
		Name:         stored.Name,
		OutputFormat: stored.OutputFormat,
		Extension:    stored.Extension,
		Args:         stored.Args,
		Template:     stored.Template,
	}, nil
}

// RemovePreset deletes a custom preset.
func RemovePreset(cfg *config.Config, name string) error {
	for _, builtIn := range builtInPresets {
		if textutil.EqualFold(builtIn.Name, name) {
			return fmt.Errorf("%w: %q", ErrBuiltInPreset, builtIn.Name)
		}
	}
	for i := range cfg.Presets {
		if textutil.EqualFold(cfg.Presets[i].Name, name) {
			cfg.Presets = append(cfg.Presets[:i], cfg.Presets[i+1:]...)
			if len(cfg.Presets) == 0 {
				cfg.Presets = nil
			}
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrPresetNotFound, strings.TrimSpace(name))
}
