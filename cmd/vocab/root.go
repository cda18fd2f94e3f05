package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/pkordes/vocablog/internal/config"
)

// options are the persistent flags shared by every command.
type options struct {
	configPath string
	logLevel   string
}

func rootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "vocab",
		Short: "Personal vocabulary log and trainer",
		Long: `vocab keeps the words you learn, grouped by the day you learned them.

It serves an HTTP API, runs multiple-choice quizzes in the terminal,
looks up usage examples and backs up its data files.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "YAML config file; environment variables override it")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error); overrides LOG_LEVEL")

	cmd.AddCommand(
		serveCmd(opts),
		statsCmd(opts),
		searchCmd(opts),
		addCmd(opts),
		quizCmd(opts),
		importCmd(opts),
		backupCmd(opts),
		restoreCmd(opts),
		examplesCmd(opts),
	)
	return cmd
}

// load reads the configuration the flags point at.
func (o *options) load() (config.Config, error) {
	var (
		cfg config.Config
		err error
	)
	if o.configPath != "" {
		cfg, err = config.LoadFile(o.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return config.Config{}, err
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	return cfg, nil
}

// newLogger builds the JSON logger for level and makes it the default.
// An unknown level falls back to info.
func newLogger(level string, w io.Writer) *slog.Logger {
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(level)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)
	return logger
}

// cliLogger logs to stderr so command output on stdout stays clean.
func cliLogger(cfg config.Config) *slog.Logger {
	return newLogger(cfg.LogLevel, os.Stderr)
}
