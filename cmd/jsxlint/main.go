// Command jsxlint checks React component conventions in .tsx, .ts, .jsx and
// .js files.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/termfx/jsxlint/internal/log"
)

var version = "0.1.0"

// Exit codes follow ESLint.
const (
	exitOK     = 0
	exitLint   = 1
	exitConfig = 2
)

// errLintFailed signals exit code 1 after the report has been written.
var errLintFailed = errors.New("lint failed")

type globalOptions struct {
	debug bool
	dsn   string
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)
	return exitCode(root.Execute(), stderr)
}

func exitCode(err error, stderr io.Writer) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errLintFailed):
		return exitLint
	default:
		fmt.Fprintf(stderr, "jsxlint: %v\n", err)
		return exitConfig
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	g := &globalOptions{}
	root := &cobra.Command{
		Use:           "jsxlint",
		Short:         "Lint React component conventions",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if g.debug {
				log.SetLevel(log.LevelDebug)
			}
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().BoolVar(&g.debug, "debug", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&g.dsn, "db", "", "Cache and history database (sqlite path, libsql:// or postgres:// URL)")

	root.AddCommand(
		newLintCmd(g),
		newRulesCmd(),
		newHistoryCmd(g),
		newInitCmd(),
	)
	return root
}
