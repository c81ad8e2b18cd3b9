package formats

import (
	"path/filepath"
	"strings"
)

// BuildOutputPath derives the output file for input: outputDir (or the
// input's own directory when blank) joined with the input's stem and ext.
// Leading dots on ext are ignored.
func BuildOutputPath(input, outputDir, ext string) string {
	dir := strings.TrimSpace(outputDir)
	if dir == "" {
		dir = filepath.Dir(input)
	}
	base := filepath.Base(input)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	ext = strings.TrimLeft(strings.TrimSpace(ext), ".")
	if ext == "" {
		return filepath.Join(dir, stem)
	}
	return filepath.Join(dir, stem+"."+ext)
}

// OutputPathFunc returns a function computing output paths from cfg's current
// output directory and the selected format's effective extension.
func (r *Resolver) OutputPathFunc() func(input string) string {
	ext := r.Resolve(r.cfg.Conversion.OutputFormat).Extension
	dir := r.cfg.Conversion.OutputDir
	return func(input string) string {
		return BuildOutputPath(input, dir, ext)
	}
}
