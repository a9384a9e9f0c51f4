package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dyluth/drey/internal/printer"
	"github.com/dyluth/drey/internal/scaffold"
)

var (
	initForce     bool
	initWorkspace string
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a drey workspace",
	Long: `Initialize a drey workspace in the current directory.

Creates drey.yml and an empty continuity ledger at .drey/ledger.md.
The workspace name defaults to the directory name and namespaces the
ledger when the redis backend is used.

Examples:
  # Initialize with the directory name as workspace name
  drey init

  # Initialize with an explicit workspace name
  drey init --workspace my-project

  # Reinitialize, discarding the existing config and ledger
  drey init --force`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Remove existing drey.yml and ledger record first")
	initCmd.Flags().StringVarP(&initWorkspace, "workspace", "w", "", "Workspace name (defaults to directory name)")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}

	if err := scaffold.Initialize(cwd, initWorkspace, initForce); err != nil {
		return printer.Error(
			"workspace initialization failed",
			fmt.Sprintf("Error: %v", err),
			[]string{"Reinitialize over an existing workspace with:\n  drey init --force"},
		)
	}

	printer.Success("Workspace initialized\n")
	printer.Info("  drey.yml           workspace configuration\n")
	printer.Info("  .drey/ledger.md    empty continuity ledger\n\n")
	printer.Info("Start the ledger with:\n")
	printer.Info("  drey goal \"what you are building, and how you know it is done\"\n")

	return nil
}
