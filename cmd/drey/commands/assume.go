package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/dyluth/drey/internal/printer"
	"github.com/dyluth/drey/pkg/ledger"
)

var assumeUnconfirmed bool

var assumeCmd = &cobra.Command{
	Use:   "assume TEXT...",
	Short: "Append a constraint or assumption",
	Long: `Append a constraint/assumption statement to the ledger.

Constraints are ordered and append-only within a unit of work. Tag an
assumption --unconfirmed when it has not been verified.

Examples:
  drey assume "no schema changes in this release"
  drey assume --unconfirmed "the staging cluster matches prod"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAssume,
}

func init() {
	assumeCmd.Flags().BoolVar(&assumeUnconfirmed, "unconfirmed", false, "Tag the constraint UNCONFIRMED")
	rootCmd.AddCommand(assumeCmd)
}

func runAssume(cmd *cobra.Command, args []string) error {
	entry := entryFromArgs(args, !assumeUnconfirmed)

	if _, err := runAmendment(context.Background(), ledger.AppendConstraint(entry)); err != nil {
		return err
	}

	printer.Success("Constraint recorded: %s\n", entry.Text)
	return nil
}
