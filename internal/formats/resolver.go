package formats

import (
	"slices"
	"strings"

	"docbatch/internal/cmdline"
	"docbatch/internal/config"
	"docbatch/internal/textutil"
)

// Override customizes one output format. Blank fields inherit the global value.
type Override struct {
	Extension    string
	ExtraArgs    string
	TemplatePath string
}

// IsZero reports whether the override carries nothing.
func (o Override) IsZero() bool {
	return o.Extension == "" && o.ExtraArgs == "" && o.TemplatePath == ""
}

// Effective holds the settings a job for one output format will use.
type Effective struct {
	Format       string
	Extension    string
	ExtraArgs    []string
	TemplatePath string
}

// NamedOverride pairs an override with its (folded) format name.
type NamedOverride struct {
	Format string
	Override
}

// Resolver resolves and edits format overrides stored in cfg. It performs no
// locking; callers sharing a config serialize access themselves.
type Resolver struct {
	cfg *config.Config
}

// NewResolver returns a resolver backed by cfg.
func NewResolver(cfg *config.Config) *Resolver {
	return &Resolver{cfg: cfg}
}

// Resolve layers the override for format over the global defaults.
func (r *Resolver) Resolve(format string) Effective {
	format = strings.TrimSpace(format)
	conv := r.cfg.Conversion
	override, _ := r.Override(format)

	eff := Effective{Format: format}

	eff.Extension = strings.TrimLeft(override.Extension, ".")
	if eff.Extension == "" {
		eff.Extension = strings.TrimLeft(strings.TrimSpace(conv.OutputExtension), ".")
	}
	if eff.Extension == "" {
		eff.Extension = strings.TrimLeft(format, ".")
	}

	eff.ExtraArgs = append(cmdline.Tokenize(conv.AdditionalArgs), cmdline.Tokenize(override.ExtraArgs)...)

	eff.TemplatePath = override.TemplatePath
	if eff.TemplatePath == "" {
		eff.TemplatePath = strings.TrimSpace(conv.TemplatePath)
	}
	return eff
}

// Override returns the stored override for format, if any.
func (r *Resolver) Override(format string) (Override, bool) {
	key := textutil.Fold(format)
	if key == "" || r.cfg.Formats == nil {
		return Override{}, false
	}
	stored, ok := r.cfg.Formats[key]
	if !ok {
		return Override{}, false
	}
	return fromConfig(stored), true
}

// Save stores an override for format after trimming each value. When every
// value is blank the override is removed instead. It reports whether an
// override remains stored.
func (r *Resolver) Save(format, extension, extraArgs, templatePath string) bool {
	key := textutil.Fold(format)
	if key == "" {
		return false
	}
	override := Override{
		Extension:    strings.TrimLeft(strings.TrimSpace(extension), "."),
		ExtraArgs:    strings.TrimSpace(extraArgs),
		TemplatePath: strings.TrimSpace(templatePath),
	}
	if override.IsZero() {
		r.Clear(format)
		return false
	}
	if r.cfg.Formats == nil {
		r.cfg.Formats = make(map[string]config.FormatOverride)
	}
	r.cfg.Formats[key] = toConfig(override)
	return true
}

// Clear removes the override for format. It reports whether one existed.
func (r *Resolver) Clear(format string) bool {
	key := textutil.Fold(format)
	if _, ok := r.cfg.Formats[key]; !ok {
		return false
	}
	delete(r.cfg.Formats, key)
	if len(r.cfg.Formats) == 0 {
		r.cfg.Formats = nil
	}
	return true
}

// Overrides lists stored overrides sorted by format name.
func (r *Resolver) Overrides() []NamedOverride {
	out := make([]NamedOverride, 0, len(r.cfg.Formats))
	for name, stored := range r.cfg.Formats {
		out = append(out, NamedOverride{Format: name, Override: fromConfig(stored)})
	}
	slices.SortFunc(out, func(a, b NamedOverride) int { return textutil.CompareFold(a.Format, b.Format) })
	return out
}

// SelectOutputFormat changes the selected output format. The output extension
// follows along when it was blank or still matched the previous format.
func SelectOutputFormat(cfg *config.Config, format string) {
	format = strings.TrimSpace(format)
	if format == "" {
		return
	}
	previous := cfg.Conversion.OutputFormat
	ext := cfg.Conversion.OutputExtension
	if strings.TrimSpace(ext) == "" || textutil.EqualFold(ext, previous) {
		cfg.Conversion.OutputExtension = format
	}
	cfg.Conversion.OutputFormat = format
}

func fromConfig(stored config.FormatOverride) Override {
	return Override{
		Extension:    strings.TrimSpace(stored.Extension),
		ExtraArgs:    strings.TrimSpace(stored.Args),
		TemplatePath: strings.TrimSpace(stored.Template),
	}
}

func toConfig(o Override) config.FormatOverride {
	return config.FormatOverride{Extension: o.Extension, Args: o.ExtraArgs, Template: o.TemplatePath}
}
