package main

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"docbatch/internal/config"
	"docbatch/internal/deps"
	"docbatch/internal/history"
	"docbatch/internal/logging"
	"docbatch/internal/services/pandoc"
	"docbatch/internal/workflow"
)

const logFileName = "docbatch.log"

type commandContext struct {
	configFlag   *string
	logLevelFlag *string
	logFileFlag  *string

	configOnce   sync.Once
	config       *config.Config
	configPath   string
	configExists bool
	configErr    error
}

func newCommandContext(configFlag, logLevelFlag, logFileFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
		logFileFlag:  logFileFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, path, exists, err := config.Load(flagValue(c.configFlag))
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = path
		c.configExists = exists
	})
	return c.config, c.configErr
}

// saveConfig persists cfg to the file it was loaded from (or the default
// location when none existed yet).
func (c *commandContext) saveConfig(cfg *config.Config) error {
	if _, err := c.ensureConfig(); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := cfg.Save(c.configPath); err != nil {
		return err
	}
	c.config = cfg
	c.configExists = true
	return nil
}

// newLogger builds the command logger. Records go to the log directory file,
// to the --log-file JSON file when given, and to stream when non-nil.
func (c *commandContext) newLogger(cfg *config.Config, stream *logging.StreamHub) (*slog.Logger, error) {
	level := cfg.Logging.Level
	if override := flagValue(c.logLevelFlag); override != "" {
		level = override
	}

	outputs := []string{"discard"}
	if cfg.Paths.LogDir != "" {
		outputs = []string{filepath.Join(cfg.Paths.LogDir, logFileName)}
	}
	logger, err := logging.New(logging.Options{
		Level:       level,
		Format:      cfg.Logging.Format,
		OutputPaths: outputs,
		Stream:      stream,
	})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	if extra := flagValue(c.logFileFlag); extra != "" {
		expanded, err := config.ExpandPath(extra)
		if err != nil {
			return nil, fmt.Errorf("resolve log file: %w", err)
		}
		fileLogger, err := logging.New(logging.Options{
			Level:       level,
			Format:      "json",
			OutputPaths: []string{expanded},
		})
		if err != nil {
			return nil, fmt.Errorf("init log file: %w", err)
		}
		logger = logging.TeeLogger(logger, fileLogger.Handler())
	}
	return logger, nil
}

func (c *commandContext) openHistory(cfg *config.Config) (*history.Store, error) {
	store, err := history.Open(filepath.Join(cfg.Paths.DataDir, history.DefaultFileName))
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	return store, nil
}

func (c *commandContext) newResolver(cfg *config.Config, logger *slog.Logger) *deps.Resolver {
	saved := cfg.Tool.SavedPath
	return deps.NewResolver(cfg.ToolName(), logger, deps.WithSavedPath(func() string { return saved }))
}

// newEngine wires an engine for cfg. store may be nil.
func (c *commandContext) newEngine(cfg *config.Config, logger *slog.Logger, store *history.Store) *workflow.Engine {
	runner := pandoc.NewRunner(cfg.ToolName(), logger)
	var opts []workflow.Option
	if store != nil {
		opts = append(opts, workflow.WithRecorder(store))
	}
	return workflow.NewEngine(cfg, runner, c.newResolver(cfg, logger), logger, opts...)
}

func flagValue(flag *string) string {
	if flag == nil {
		return ""
	}
	return strings.TrimSpace(*flag)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

func valueOrDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}
