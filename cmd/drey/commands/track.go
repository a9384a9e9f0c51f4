package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/dyluth/drey/internal/printer"
	"github.com/dyluth/drey/pkg/ledger"
)

var trackUnconfirmed bool

var trackCmd = &cobra.Command{
	Use:   "track NAME POINTER",
	Short: "Add or update a working set entry",
	Long: `Map a reference name to a pointer (file path, identifier, or command)
in the working set. Tracking an existing name replaces its pointer.

Examples:
  drey track store internal/store/file.go
  drey track repro "go test ./pkg/ledger -run TestParse"`,
	Args: cobra.ExactArgs(2),
	RunE: runTrack,
}

var untrackCmd = &cobra.Command{
	Use:   "untrack NAME",
	Short: "Remove a working set entry",
	Args:  cobra.ExactArgs(1),
	RunE:  runUntrack,
}

func init() {
	trackCmd.Flags().BoolVar(&trackUnconfirmed, "unconfirmed", false, "Tag the entry UNCONFIRMED")
	rootCmd.AddCommand(trackCmd)
	rootCmd.AddCommand(untrackCmd)
}

func runTrack(cmd *cobra.Command, args []string) error {
	ws := ledger.WorkingSetEntry{
		Name:      args[0],
		Pointer:   args[1],
		Confirmed: !trackUnconfirmed,
	}

	if _, err := runAmendment(context.Background(), ledger.UpsertWorkingSet(ws)); err != nil {
		return err
	}

	printer.Success("Tracking %s: %s\n", ws.Name, ws.Pointer)
	return nil
}

func runUntrack(cmd *cobra.Command, args []string) error {
	if _, err := runAmendment(context.Background(), ledger.RemoveWorkingSet(args[0])); err != nil {
		return err
	}

	printer.Success("Untracked: %s\n", args[0])
	return nil
}
