package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dyluth/drey/internal/printer"
	"github.com/dyluth/drey/internal/unit"
	"github.com/dyluth/drey/pkg/ledger"
)

var showOutputFormat string

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Display the continuity ledger",
	Long: `Display the workspace's continuity ledger.

Output Formats:
  default - The canonical text record, exactly as persisted
  json    - Pretty-printed JSON for scripting

Examples:
  # Show the ledger
  drey show

  # Extract the goal for scripting
  drey show --output=json | jq -r '.goal.text'

  # List unconfirmed open questions
  drey show --output=json | jq -r '.open_questions[] | select(.confirmed | not) | .text'`,
	RunE: runShow,
}

func init() {
	showCmd.Flags().StringVarP(&showOutputFormat, "output", "o", "default", "Output format: default or json")
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	if showOutputFormat != "default" && showOutputFormat != "json" {
		return printer.Error(
			"invalid output format",
			fmt.Sprintf("Unknown format: %s", showOutputFormat),
			[]string{"Valid formats: default, json"},
		)
	}

	ctx := context.Background()

	root, cfg, err := loadWorkspace()
	if err != nil {
		return err
	}

	s, cleanup, err := openStore(ctx, root, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	// Read-only unit of work: begin, no amendments, no persist.
	snapshot, err := unit.New(s).Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to load ledger: %w", err)
	}

	if showOutputFormat == "json" {
		data, err := json.MarshalIndent(snapshot, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal ledger to JSON: %w", err)
		}
		fmt.Fprintf(os.Stdout, "%s\n", data)
		return nil
	}

	fmt.Fprint(os.Stdout, ledger.Render(snapshot))
	return nil
}
