package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/termfx/jsxlint/core"
	"github.com/termfx/jsxlint/db"
	"github.com/termfx/jsxlint/internal/config"
	"github.com/termfx/jsxlint/internal/log"
	"github.com/termfx/jsxlint/internal/report"
	"github.com/termfx/jsxlint/linter"
	"github.com/termfx/jsxlint/providers"
	"github.com/termfx/jsxlint/providers/base"
	"github.com/termfx/jsxlint/providers/catalog"
)

type lintOptions struct {
	configPath  string
	preset      string
	rules       []string
	fix         bool
	dryRun      bool
	backup      bool
	format      string
	include     []string
	exclude     []string
	maxWarnings int
	cache       bool
	workers     int
	quiet       bool
	noColor     bool
}

func newLintCmd(g *globalOptions) *cobra.Command {
	o := &lintOptions{}
	cmd := &cobra.Command{
		Use:   "lint [paths...]",
		Short: "Lint files and directories (default: current directory)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLint(cmd, g, o, args)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&o.configPath, "config", "c", "", "Config file (default: discover .jsxlint.{yaml,yml,json,toml})")
	f.StringVar(&o.preset, "preset", "", "Preset to extend: recommended, strict or none")
	f.StringArrayVar(&o.rules, "rule", nil, "Override a rule severity, e.g. --rule component-naming=error")
	f.BoolVar(&o.fix, "fix", false, "Apply fixes and write files")
	f.BoolVar(&o.dryRun, "dry-run", false, "Compute fixes without writing; use --format diff to see them")
	f.BoolVar(&o.backup, "backup", false, "Keep a .bak copy of every fixed file")
	f.StringVarP(&o.format, "format", "f", "", "Output format: text, json, yaml or diff")
	f.StringSliceVar(&o.include, "include", nil, "Include glob patterns")
	f.StringSliceVar(&o.exclude, "exclude", nil, "Exclude glob patterns")
	f.IntVar(&o.maxWarnings, "max-warnings", -1, "Fail when more warnings are found (-1 disables)")
	f.BoolVar(&o.cache, "cache", false, "Cache results and record run history")
	f.IntVarP(&o.workers, "workers", "j", 0, "Parallel workers (default: number of CPUs)")
	f.BoolVarP(&o.quiet, "quiet", "q", false, "Report errors only")
	f.BoolVar(&o.noColor, "no-color", false, "Disable colored output")
	return cmd
}

// applyFlags layers explicitly set flags over the loaded configuration.
func applyFlags(cmd *cobra.Command, g *globalOptions, o *lintOptions, cfg *config.Config) error {
	f := cmd.Flags()
	if f.Changed("preset") {
		cfg.Extends = o.preset
	}
	for _, r := range o.rules {
		id, sev, ok := strings.Cut(r, "=")
		if !ok || id == "" || sev == "" {
			return fmt.Errorf("%w: --rule %q: want id=severity", config.ErrConfig, r)
		}
		if cfg.Rules == nil {
			cfg.Rules = map[string]any{}
		}
		cfg.Rules[strings.TrimSpace(id)] = strings.TrimSpace(sev)
	}
	if f.Changed("include") {
		cfg.Include = o.include
	}
	if f.Changed("exclude") {
		cfg.Exclude = o.exclude
	}
	if f.Changed("max-warnings") {
		cfg.MaxWarnings = o.maxWarnings
	}
	if f.Changed("workers") {
		cfg.Workers = o.workers
	}
	if f.Changed("format") {
		cfg.Format = o.format
	}
	if o.cache {
		cfg.Cache.Enabled = true
	}
	if g.dsn != "" {
		cfg.Cache.DSN = g.dsn
	}
	return nil
}

func runLint(cmd *cobra.Command, g *globalOptions, o *lintOptions, args []string) error {
	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	cfg, err := config.Load(o.configPath, wd)
	if err != nil {
		return err
	}
	if !g.debug {
		log.SetLevel(log.ParseLevel(cfg.LogLevel))
	}
	if err := applyFlags(cmd, g, o, cfg); err != nil {
		return err
	}
	format, err := report.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}
	lc, err := cfg.Linter()
	if err != nil {
		return err
	}
	if o.fix && o.dryRun {
		return fmt.Errorf("%w: --fix and --dry-run are mutually exclusive", config.ErrConfig)
	}

	paths := args
	if len(paths) == 0 {
		paths = []string{"."}
	}

	reg := catalog.Default()
	proc := core.NewFileProcessor(linter.New(lc, reg))

	var store *db.Store
	if cfg.Cache.Enabled {
		gdb, err := db.Connect(cfg.Cache.DSN, g.debug)
		if err != nil {
			return fmt.Errorf("open cache: %w", err)
		}
		defer db.Close(gdb)
		store = db.NewStore(gdb, cfg.Hash())
		proc.WithCache(store)
	}

	ctx := cmd.Context()
	result, err := proc.LintFiles(ctx, cfg.Scopes(paths), core.LintOptions{
		Fix:     o.fix,
		DryRun:  o.dryRun,
		Backup:  o.backup,
		Workers: cfg.Workers,
	})
	if err != nil {
		if errors.Is(err, core.ErrNoFiles) {
			return fmt.Errorf("no files matching %s", strings.Join(paths, ", "))
		}
		return err
	}
	logParserStats(reg)

	if store != nil {
		run, err := store.RecordRun(ctx, db.RunInfo{Preset: cfg.Extends, Paths: paths, Fix: o.fix, DryRun: o.dryRun}, result)
		if err != nil {
			log.Warn("failed to record run", "error", err)
		} else {
			log.Debug("recorded run", "id", run.ID)
			if _, err := store.PruneRuns(ctx, cfg.Cache.Keep); err != nil {
				log.Warn("failed to prune run history", "error", err)
			}
		}
	}

	out := cmd.OutOrStdout()
	opts := report.Options{Quiet: o.quiet, Color: !o.noColor && !color.NoColor}
	if err := report.Write(out, result, format, opts); err != nil {
		return err
	}

	return lintOutcome(cmd, result, cfg.MaxWarnings)
}

// logParserStats reports parser pool and parse cache usage at debug level.
func logParserStats(reg *providers.Registry) {
	for _, p := range reg.List() {
		s := p.Stats()
		log.Debug("parser pool", "language", p.Language(), "parses", s.BorrowCount, "active", s.Active)
	}
	c := base.GlobalCache.Stats()
	log.Debug("parse cache", "hits", c["hits"], "misses", c["misses"], "evictions", c["evictions"], "hit_rate", c["hit_rate"])
}

// lintOutcome maps the run totals to errLintFailed.
func lintOutcome(cmd *cobra.Command, result *core.RunResult, maxWarnings int) error {
	failed := result.ErrorCount > 0
	for _, f := range result.Files {
		if f.Error != "" {
			failed = true
		}
	}
	if maxWarnings >= 0 && result.WarningCount > maxWarnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "jsxlint found too many warnings (maximum: %d).\n", maxWarnings)
		failed = true
	}
	if failed {
		return errLintFailed
	}
	return nil
}
