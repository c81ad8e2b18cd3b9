package config

const (
	defaultConfigPath     = "~/.config/docbatch/config.toml"
	defaultToolName       = "pandoc"
	defaultInputFormat    = AutoInputFormat
	defaultOutputFormat   = "docx"
	defaultDataDir        = "~/.local/share/docbatch"
	defaultLogDir         = "~/.local/share/docbatch/logs"
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
	defaultMaxParallelism = 1
	toolPathEnv           = "DOCBATCH_TOOL_PATH"
	configLockSuffix      = ".lock"
	configTempFilePattern = ".docbatch-config-*.toml"
	configFileMode        = 0o644
)

// MinParallelism and MaxParallelism bound the batch worker gate.
const (
	MinParallelism = 1
	MaxParallelism = 8
)

// AutoInputFormat is the input format value that lets the tool detect the
// source format itself.
const AutoInputFormat = "auto"

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Tool: Tool{
			Name: defaultToolName,
		},
		Conversion: Conversion{
			InputFormat:     defaultInputFormat,
			OutputFormat:    defaultOutputFormat,
			OutputExtension: defaultOutputFormat,
			MaxParallelism:  defaultMaxParallelism,
		},
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
