package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/termfx/jsxlint/internal/config"
	"github.com/termfx/jsxlint/rules"
)

func newInitCmd() *cobra.Command {
	var (
		preset string
		force  bool
		path   string
	)
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter .jsxlint.yaml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.WriteStarter(path, preset, force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (extends %s).\n", path, preset)
			return nil
		},
	}
	cmd.Flags().StringVar(&preset, "preset", rules.PresetRecommended, "Preset to extend: recommended or strict")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	cmd.Flags().StringVarP(&path, "output", "o", config.FileNames[0], "Path to write")
	return cmd
}
