package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dyluth/drey/internal/printer"
	"github.com/dyluth/drey/internal/store"
	"github.com/dyluth/drey/internal/unit"
	"github.com/dyluth/drey/pkg/ledger"
)

var checkRebuild bool

var checkCmd = &cobra.Command{
	Use:   "check FILE",
	Short: "Detect a discontinuity against visible context",
	Long: `Compare the persisted ledger against the snapshot of it still visible
to the caller, given as a ledger record in FILE.

A visible snapshot that knows less than the persisted ledger - a blank
goal, fewer decisions, missing state items - means the caller's history
was compacted: a discontinuity. The check prints what fired and up to
three clarifying questions to surface before continuing.

With --rebuild, the ledger is reconstructed from the visible snapshot
only, every carried entry tagged UNCONFIRMED, and persisted as the new
authoritative record.

Examples:
  # Dump what the agent still sees, then check it
  drey check /tmp/visible-context.md

  # Rebuild after a confirmed discontinuity
  drey check /tmp/visible-context.md --rebuild`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().BoolVar(&checkRebuild, "rebuild", false, "Rebuild the ledger from the visible snapshot, tagging entries UNCONFIRMED")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read visible snapshot: %w", err)
	}

	visible, err := ledger.Parse(string(data))
	if err != nil {
		return printer.Error(
			"visible snapshot is not a ledger record",
			fmt.Sprintf("Error: %v", err),
			[]string{"Produce one with:\n  drey show > visible-context.md"},
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

	u := unit.New(s)
	if _, err := u.Begin(ctx); err != nil {
		return fmt.Errorf("failed to load ledger: %w", err)
	}

	report, err := u.CheckContinuity(visible)
	if err != nil {
		return err
	}

	if !report.Discontinuous {
		printer.Success("No discontinuity: visible context is consistent with the persisted ledger\n")
		return nil
	}

	printer.Warning("Discontinuity detected\n")
	for _, reason := range report.Reasons {
		printer.Info("  - %s\n", reason)
	}
	printer.Info("\nClarify before continuing:\n")
	for _, q := range report.Questions {
		printer.Question("%s\n", q)
	}

	if !checkRebuild {
		return fmt.Errorf("ledger discontinuity detected (rebuild with: drey check %s --rebuild)", args[0])
	}

	u.Rebuild(visible)
	if err := u.Persist(ctx); err != nil {
		if store.IsStorageUnavailable(err) {
			return printer.Error(
				"rebuilt ledger not persisted",
				fmt.Sprintf("The rebuild was applied in memory but could not be written: %v", err),
				[]string{"Check the storage target and re-run the command"},
			)
		}
		return err
	}

	printer.Info("\n")
	printer.Success("Ledger rebuilt from visible context; unverified entries tagged UNCONFIRMED\n")
	return nil
}
