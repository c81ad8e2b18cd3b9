// Package formats layers per-output-format overrides over the global
// conversion defaults and turns the result into output paths.
//
// Resolver reads and edits the overrides stored in a config.Config. Every
// field of an Effective value comes from the override when it is non-blank
// and from the global defaults otherwise, except extra arguments, which
// concatenate (global first). Format names compare case-insensitively.
//
// The package also owns the built-in presets and the rule that the output
// extension follows the selected output format.
package formats
