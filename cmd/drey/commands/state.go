package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/dyluth/drey/internal/printer"
	"github.com/dyluth/drey/pkg/ledger"
)

// State bucket verbs. An item lives in exactly one of done/now/next; todo
// adds it, move relocates it, drop removes it.

var todoBucket string

var todoCmd = &cobra.Command{
	Use:   "todo TEXT...",
	Short: "Add a work item to a state bucket",
	Long: `Add a work item to one of the state buckets (default: next).

An item belongs to at most one bucket; adding an item that already exists
in any bucket is rejected - use 'drey move' instead.

Examples:
  drey todo "fix flaky parser test"
  drey todo --bucket now "fix flaky parser test"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTodo,
}

var moveCmd = &cobra.Command{
	Use:   "move ITEM BUCKET",
	Short: "Move a work item between state buckets",
	Long: `Move the named work item to another bucket (done, now, or next).

The item is removed from whichever bucket currently holds it.

Examples:
  drey move "fix flaky parser test" now
  drey move "fix flaky parser test" done`,
	Args: cobra.ExactArgs(2),
	RunE: runMove,
}

var dropCmd = &cobra.Command{
	Use:   "drop ITEM",
	Short: "Remove a work item from the state",
	Args:  cobra.ExactArgs(1),
	RunE:  runDrop,
}

func init() {
	todoCmd.Flags().StringVarP(&todoBucket, "bucket", "b", string(ledger.BucketNext), "Target bucket: done, now, or next")
	rootCmd.AddCommand(todoCmd)
	rootCmd.AddCommand(moveCmd)
	rootCmd.AddCommand(dropCmd)
}

func runTodo(cmd *cobra.Command, args []string) error {
	bucket := ledger.Bucket(todoBucket)
	if err := bucket.Validate(); err != nil {
		return printer.Error(
			"invalid bucket",
			err.Error(),
			[]string{"Valid buckets: done, now, next"},
		)
	}

	entry := entryFromArgs(args, true)
	if _, err := runAmendment(context.Background(), ledger.AddStateItem(bucket, entry)); err != nil {
		return err
	}

	printer.Success("Added to %s: %s\n", bucket, entry.Text)
	return nil
}

func runMove(cmd *cobra.Command, args []string) error {
	item, bucket := args[0], ledger.Bucket(args[1])
	if err := bucket.Validate(); err != nil {
		return printer.Error(
			"invalid bucket",
			err.Error(),
			[]string{"Valid buckets: done, now, next"},
		)
	}

	if _, err := runAmendment(context.Background(), ledger.MoveStateItem(item, bucket)); err != nil {
		return err
	}

	printer.Success("Moved to %s: %s\n", bucket, item)
	return nil
}

func runDrop(cmd *cobra.Command, args []string) error {
	if _, err := runAmendment(context.Background(), ledger.RemoveStateItem(args[0])); err != nil {
		return err
	}

	printer.Success("Dropped: %s\n", args[0])
	return nil
}
