package main

import (
	"os"

	internal "github.com/ZanzyTHEbar/dupesweep/sweep"
	"github.com/ZanzyTHEbar/dupesweep/sweep/config"
	"github.com/ZanzyTHEbar/dupesweep/sweep/filesystem/options"
	"github.com/ZanzyTHEbar/dupesweep/sweep/report"
	"github.com/ZanzyTHEbar/dupesweep/sweep/service"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// app carries what every command needs after flags and config are resolved
type app struct {
	cfg    *config.Config
	logger zerolog.Logger
	term   *terminal
	format string
}

func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	level := cfg.Log.Level
	if verbose {
		level = "debug"
	}
	logger := internal.NewLogger(level, cfg.Log.Format)

	format := cfg.Report.Format
	if outputFormat != "" {
		format = outputFormat
	}

	color := !noColor && isatty.IsTerminal(os.Stderr.Fd())

	return &app{
		cfg:    cfg,
		logger: logger,
		term:   newTerminal(cmd.InOrStdin(), cmd.ErrOrStderr(), color),
		format: format,
	}, nil
}

// scanFlags are the enumeration and hashing overrides shared by scan and clean
type scanFlags struct {
	maxDepth   int
	hidden     bool
	exclude    []string
	ignoreFile string
	algorithm  string
	workers    int
}

func (f *scanFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&f.maxDepth, "max-depth", "d", options.DefaultMaxDepth, "Deepest directory level to descend into (-1 = unlimited)")
	cmd.Flags().BoolVar(&f.hidden, "hidden", false, "Descend into hidden directories")
	cmd.Flags().StringSliceVarP(&f.exclude, "exclude", "e", nil, "Gitignore-style patterns to skip")
	cmd.Flags().StringVar(&f.ignoreFile, "ignore-file", "", "Per-directory ignore file name (e.g. "+internal.DefaultIgnoreFileName+")")
	cmd.Flags().StringVarP(&f.algorithm, "algorithm", "a", "", "Hash algorithm: sha256, blake3")
	cmd.Flags().IntVarP(&f.workers, "workers", "w", 0, "Concurrent hash workers")
}

// apply overrides config values with flags the user actually set
func (f *scanFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	if cmd.Flags().Changed("max-depth") {
		cfg.Scan.MaxDepth = f.maxDepth
	}
	if cmd.Flags().Changed("hidden") {
		cfg.Scan.IncludeHidden = f.hidden
	}
	if len(f.exclude) > 0 {
		cfg.Scan.Exclude = append(cfg.Scan.Exclude, f.exclude...)
	}
	if f.ignoreFile != "" {
		cfg.Scan.IgnoreFile = f.ignoreFile
	}
	if f.algorithm != "" {
		cfg.Hash.Algorithm = f.algorithm
	}
	if f.workers > 0 {
		cfg.Hash.Workers = f.workers
	}
	return cfg.Validate()
}

func (a *app) service() (*service.Service, error) {
	enum, hash, cleanup := options.FromConfig(a.cfg)
	opts := service.Options{Enumerate: enum, Hash: hash, Cleanup: cleanup}
	return service.New(opts, a.term, a.logger)
}

func (a *app) render(cmd *cobra.Command, v interface{}) error {
	return report.Write(cmd.OutOrStdout(), a.format, v)
}
