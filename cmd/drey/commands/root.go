package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	version string
	commit  string
	date    string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "drey",
	Short: "Drey - continuity ledger for agent workspaces",
	Long: `Drey keeps a single continuity ledger per workspace: a small,
human-readable state record that is read at the start of every unit of
work, amended as the work progresses, and persisted durably before the
unit ends.

The ledger carries the goal, constraints, key decisions, done/now/next
state, open questions, and the working set across sessions. When visible
history has been compacted, drey detects the discontinuity and rebuilds
the ledger from what remains, tagging everything unverified UNCONFIRMED.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", v, c, d)
}
