// cmd/audit-server/root.go
package main

import (
	"io"
	"os"

	"promptprofit-audit/internal/common/config"
	"promptprofit-audit/internal/common/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"
)

var version = "dev"

// globalOptions carries the persistent flags shared by every subcommand.
type globalOptions struct {
	configPath string
	logLevel   string
	logFormat  string
}

func newRootCommand() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "audit-server",
		Short: "PromptProfit audit backend",
		Long: `audit-server runs the PromptProfit lead-qualification audit.

The serve command hosts the questionnaire wizard and the submission API.
The score, ask and questions commands work offline against the same
scoring rules and question catalogue.`,
		Version:      version,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to a config YAML file (default: configs/config.yaml)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Override logging.level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", "", "Override logging.format (json, console)")

	cmd.AddCommand(newServeCommand(opts))
	cmd.AddCommand(newScoreCommand(opts))
	cmd.AddCommand(newAskCommand(opts))
	cmd.AddCommand(newQuestionsCommand())

	return cmd
}

func execute() error {
	rootCmd := newRootCommand()
	return rootCmd.Execute()
}

// loadConfig reads --config when given, the default search path otherwise,
// and applies the logging flag overrides.
func (o *globalOptions) loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if o.configPath != "" {
		cfg, err = config.LoadFromFile(o.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, &ConfigError{Err: err}
	}

	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
	if o.logFormat != "" {
		cfg.Logging.Format = o.logFormat
	}
	return cfg, nil
}

// newLogger builds the zap logger for a command and its adapter.
func (o *globalOptions) newLogger(cfg config.LoggingConfig) (*zap.Logger, logger.Logger) {
	level, format := cfg.Level, cfg.Format
	if o.logLevel != "" {
		level = o.logLevel
	}
	if o.logFormat != "" {
		format = o.logFormat
	}
	zapLog := logger.New(level, format, cfg.Output)
	return zapLog, logger.NewZapAdapter(zapLog)
}

// offlineLogger is the logger for commands that run without a config file.
// Only warnings reach stderr unless --log-level says otherwise.
func (o *globalOptions) offlineLogger() (*zap.Logger, logger.Logger) {
	cfg := config.LoggingConfig{Level: "warn", Format: "console", Output: "stderr"}
	return o.newLogger(cfg)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
