package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/dyluth/drey/internal/printer"
	"github.com/dyluth/drey/pkg/ledger"
)

var decideUnconfirmed bool

var decideCmd = &cobra.Command{
	Use:   "decide TEXT...",
	Short: "Append a key decision",
	Long: `Append a decision record to the ledger.

Decisions are append-mostly: earlier entries are never deleted, a later
contradicting entry supersedes them. This keeps the decision history
auditable across units of work.

Examples:
  drey decide "file backend by default; redis only for shared workspaces"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDecide,
}

func init() {
	decideCmd.Flags().BoolVar(&decideUnconfirmed, "unconfirmed", false, "Tag the decision UNCONFIRMED")
	rootCmd.AddCommand(decideCmd)
}

func runDecide(cmd *cobra.Command, args []string) error {
	entry := entryFromArgs(args, !decideUnconfirmed)

	if _, err := runAmendment(context.Background(), ledger.AppendDecision(entry)); err != nil {
		return err
	}

	printer.Success("Decision recorded: %s\n", entry.Text)
	return nil
}
