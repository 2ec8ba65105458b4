package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"croissant/internal/chain"
	"croissant/internal/config"
	"croissant/internal/errors"
	"croissant/internal/output"
	"croissant/internal/slogutil"
	"croissant/internal/version"
)

var (
	workDirFlag string
	verbosity   int
	quietFlag   bool
	chainFlag   string
	styleFlag   string
	strictFlag  bool
	formatFlag  string
	colorFlag   string
)

var rootCmd = &cobra.Command{
	Use:   "croissant",
	Short: "croissant - chain-of-responsibility calculator",
	Long: `croissant evaluates integer arithmetic requests by passing them along a
chain of operator handlers. Each handler either computes the result and
prints it, or forwards the request to its successor. Requests no handler
claims are dropped.

The handler order, output style and logging come from .croissant/config.json,
CROISSANT_* environment variables and the flags below, in increasing order
of precedence.`,
	Version:           version.Short(),
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupApp,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return teardownApp()
	},
}

func init() {
	rootCmd.SetVersionTemplate("croissant version {{.Version}}\n")

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&workDirFlag, "workdir", "", "Directory holding .croissant/ (default: current directory)")
	flags.CountVarP(&verbosity, "verbose", "v", "Increase log verbosity (-v info, -vv debug)")
	flags.BoolVarP(&quietFlag, "quiet", "q", false, "Suppress all logging")
	flags.StringVar(&chainFlag, "chain", "", "Handler order as a comma-separated list, e.g. \"+,-,*,/\"")
	flags.StringVar(&styleFlag, "style", "", "Result line style (standard, legacy)")
	flags.BoolVar(&strictFlag, "strict", false, "Fail requests no handler claims")
	flags.StringVar(&formatFlag, "format", "", "Output format (human, json, yaml, toml)")
	flags.StringVar(&colorFlag, "color", "", "Color mode (auto, always, never)")
}

// app is the state shared by every command for one invocation.
type app struct {
	workDir string
	load    *config.LoadResult
	cfg     *config.Config
	logger  *slog.Logger
	factory *slogutil.LoggerFactory
}

var current *app

func setupApp(cmd *cobra.Command, args []string) error {
	workDir := workDirFlag
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return errors.Wrap(errors.InternalError, "resolving working directory", err)
		}
		workDir = wd
	}
	if abs, err := filepath.Abs(workDir); err == nil {
		workDir = abs
	}

	load, err := config.LoadConfigWithDetails(workDir)
	if err != nil {
		return err
	}
	cfg := load.Config
	if err := applyFlags(cmd, cfg); err != nil {
		return err
	}

	var cliLevel *slog.Level
	if verbosity > 0 || quietFlag {
		level := slogutil.LevelFromVerbosity(verbosity, quietFlag)
		cliLevel = &level
	}
	factory := slogutil.NewLoggerFactory(workDir, cfg, cliLevel)
	logger := factory.CLILogger(cmd.ErrOrStderr())

	logger.Debug("configuration loaded",
		"work_dir", workDir,
		"config_path", load.ConfigPath,
		"defaults", load.UsedDefaults,
		"env_overrides", len(load.EnvOverrides),
	)

	current = &app{workDir: workDir, load: load, cfg: cfg, logger: logger, factory: factory}
	return nil
}

func teardownApp() error {
	if current == nil {
		return nil
	}
	err := current.factory.Close()
	current = nil
	return err
}

// applyFlags layers explicitly set flags over the loaded configuration.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("chain") {
		cfg.Chain = nil
		for _, part := range strings.Split(chainFlag, ",") {
			if part = strings.TrimSpace(part); part != "" {
				cfg.Chain = append(cfg.Chain, part)
			}
		}
	}
	if flags.Changed("style") {
		cfg.Output.Style = styleFlag
	}
	if flags.Changed("strict") {
		cfg.Strict = strictFlag
	}
	if flags.Changed("format") {
		format, err := output.ParseFormat(formatFlag)
		if err != nil {
			return err
		}
		cfg.Output.Format = string(format)
	}
	if flags.Changed("color") {
		cfg.Output.Color = colorFlag
	}
	return cfg.Validate()
}

// buildChain assembles the configured chain emitting to sink.
func (a *app) buildChain(sink chain.Sink) (*chain.Chain, error) {
	ops := make([]chain.Operator, 0, len(a.cfg.Chain))
	for _, s := range a.cfg.Chain {
		op, err := chain.ParseOperator(s)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}

	ch, err := chain.NewBuilder(sink).Use(ops...).WithLogger(a.logger).Build()
	if err != nil {
		return nil, err
	}
	a.logger.Debug("chain assembled", "chain", ch.String())
	return ch, nil
}

func (a *app) format() output.Format {
	return output.Format(a.cfg.Output.Format)
}

// reportError prints err and any suggested fixes attached to it.
func reportError(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %v\n", err)

	var coded *errors.Error
	if !errors.As(err, &coded) {
		return
	}
	for _, fix := range coded.SuggestedFixes {
		if fix.Command != "" {
			fmt.Fprintf(w, "  hint: %s (%s)\n", fix.Description, fix.Command)
		} else {
			fmt.Fprintf(w, "  hint: %s\n", fix.Description)
		}
	}
}
