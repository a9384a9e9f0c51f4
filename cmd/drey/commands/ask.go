package commands

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dyluth/drey/internal/printer"
	"github.com/dyluth/drey/pkg/ledger"
)

var askConfirmed bool

var askCmd = &cobra.Command{
	Use:   "ask TEXT...",
	Short: "Record an open question",
	Long: `Append an open question to the ledger.

Questions are UNCONFIRMED by default - an unanswered question is by
definition unverified. Use --confirmed for a question whose premise has
been verified even though the answer is pending.

Examples:
  drey ask "which redis version runs in prod?"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

var resolveCmd = &cobra.Command{
	Use:   "resolve TEXT...",
	Short: "Remove an answered open question",
	Long: `Remove the open question with the given text from the ledger.

The answer itself belongs in a decision:
  drey decide "prod runs redis 7.2 (answers: which redis version?)"
  drey resolve "which redis version runs in prod?"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runResolve,
}

func init() {
	askCmd.Flags().BoolVar(&askConfirmed, "confirmed", false, "Record the question as confirmed")
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(resolveCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	entry := entryFromArgs(args, askConfirmed)

	if _, err := runAmendment(context.Background(), ledger.AddQuestion(entry)); err != nil {
		return err
	}

	printer.Success("Open question recorded: %s\n", entry.Text)
	return nil
}

func runResolve(cmd *cobra.Command, args []string) error {
	text := strings.Join(args, " ")

	if _, err := runAmendment(context.Background(), ledger.ResolveQuestion(text)); err != nil {
		return err
	}

	printer.Success("Question resolved: %s\n", text)
	return nil
}
