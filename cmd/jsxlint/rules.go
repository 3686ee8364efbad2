package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/termfx/jsxlint/providers/catalog"
	"github.com/termfx/jsxlint/rules"
)

type ruleInfo struct {
	ID          string            `json:"id"`
	Description string            `json:"description"`
	Fixable     bool              `json:"fixable"`
	Presets     map[string]string `json:"presets"`
	Messages    map[string]string `json:"messages"`
}

func listRules() ([]ruleInfo, error) {
	presets := map[string]map[string]string{}
	for _, name := range rules.Presets() {
		sevs, err := rules.Preset(name)
		if err != nil {
			return nil, err
		}
		presets[name] = map[string]string{}
		for id, s := range sevs {
			presets[name][id] = s.String()
		}
	}

	var out []ruleInfo
	for _, r := range rules.All() {
		m := r.Meta()
		info := ruleInfo{ID: m.ID, Description: m.Description, Fixable: m.Fixable, Messages: m.Messages, Presets: map[string]string{}}
		for name, sevs := range presets {
			info.Presets[name] = sevs[m.ID]
		}
		out = append(out, info)
	}
	return out, nil
}

func newRulesCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the conventions rules and their preset severities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			infos, err := listRules()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(infos)
			}

			bold := color.New(color.Bold).SprintFunc()
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", bold("RULE"), bold("FIX"), bold(rules.PresetRecommended), bold(rules.PresetStrict), bold("DESCRIPTION"))
			for _, r := range infos {
				fix := ""
				if r.Fixable {
					fix = "yes"
				}
				fmt.Fprintf(tw, "%s/%s\t%s\t%s\t%s\t%s\n", rules.PluginName, r.ID, fix,
					r.Presets[rules.PresetRecommended], r.Presets[rules.PresetStrict], r.Description)
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			reg := catalog.Default()
			fmt.Fprintf(out, "\nLanguages:  %s\nExtensions: %s\n",
				strings.Join(reg.Languages(), ", "), strings.Join(reg.Extensions(), " "))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")
	return cmd
}
