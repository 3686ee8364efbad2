package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/termfx/jsxlint/db"
	"github.com/termfx/jsxlint/internal/config"
)

func newHistoryCmd(g *globalOptions) *cobra.Command {
	var (
		limit int
		prune int
	)
	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "List recorded lint runs or show the findings of one run",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dsn := g.dsn
			if dsn == "" {
				wd, err := os.Getwd()
				if err != nil {
					return err
				}
				cfg, err := config.Load("", wd)
				if err != nil {
					return err
				}
				dsn = cfg.Cache.DSN
			}

			gdb, err := db.Connect(dsn, g.debug)
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			defer db.Close(gdb)
			store := db.NewStore(gdb, "")
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if cmd.Flags().Changed("prune") {
				n, err := store.PruneRuns(ctx, prune)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Removed %d runs.\n", n)
				return nil
			}

			if len(args) == 1 {
				run, err := store.GetRun(ctx, args[0])
				if err != nil {
					return err
				}
				findings, err := store.RunFindings(ctx, run.ID)
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				for _, f := range findings {
					fmt.Fprintf(tw, "%s:%d:%d\t%s\t%s\t%s\n", f.FilePath, f.Line, f.Column, f.Severity, f.Message, f.RuleID)
				}
				return tw.Flush()
			}

			runs, err := store.ListRuns(ctx, limit)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tWHEN\tPRESET\tFILES\tERRORS\tWARNINGS\tFIXED\tPATHS")
			for _, r := range runs {
				var paths []string
				_ = json.Unmarshal(r.Paths, &paths)
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\t%d\t%v\n",
					r.ID[:8], r.CreatedAt.Local().Format("2006-01-02 15:04:05"), r.Preset,
					r.FilesScanned, r.ErrorCount, r.WarningCount, r.FilesModified, paths)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of runs to list")
	cmd.Flags().IntVar(&prune, "prune", 0, "Delete all but the newest N runs")
	return cmd
}
