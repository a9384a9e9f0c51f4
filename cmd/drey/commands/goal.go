package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/dyluth/drey/internal/printer"
	"github.com/dyluth/drey/pkg/ledger"
)

var goalUnconfirmed bool

var goalCmd = &cobra.Command{
	Use:   "goal TEXT...",
	Short: "Replace the goal",
	Long: `Replace the ledger's goal, including its success criteria.

The goal is a single free-text field; setting it supersedes the previous
goal entirely. Tag it --unconfirmed when it is carried over from context
you could not verify.

Examples:
  drey goal "ship v1: all spec scenarios pass in CI"

  # Carried over after a compaction, not yet re-verified
  drey goal --unconfirmed "ship v1"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGoal,
}

func init() {
	goalCmd.Flags().BoolVar(&goalUnconfirmed, "unconfirmed", false, "Tag the goal UNCONFIRMED")
	rootCmd.AddCommand(goalCmd)
}

func runGoal(cmd *cobra.Command, args []string) error {
	entry := entryFromArgs(args, !goalUnconfirmed)

	if _, err := runAmendment(context.Background(), ledger.SetGoal(entry)); err != nil {
		return err
	}

	printer.Success("Goal set: %s\n", entry.Text)
	return nil
}
