// Package scaffold creates the drey workspace structure: a drey.yml at the
// workspace root and an empty ledger record for the file backend.
package scaffold

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"github.com/dyluth/drey/internal/config"
	"github.com/dyluth/drey/internal/workspace"
	"github.com/dyluth/drey/pkg/ledger"
)

//go:embed templates/*
var templatesFS embed.FS

// Initialize creates drey.yml and the empty ledger record under root.
// workspaceName namespaces the ledger; empty derives it from the root
// directory name. If force is true, an existing drey.yml and ledger record
// are removed first.
func Initialize(root, workspaceName string, force bool) error {
	if workspaceName == "" {
		workspaceName = workspace.DefaultName(root)
	}

	configPath := workspace.ConfigPath(root)
	recordPath := workspace.LedgerPath(root, config.DefaultLedgerPath)

	if force {
		if err := handleForce(configPath, recordPath); err != nil {
			return err
		}
	}

	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("drey.yml already exists (use --force to reinitialize)")
	}

	if err := writeConfig(configPath, workspaceName); err != nil {
		return err
	}

	if err := writeEmptyRecord(recordPath); err != nil {
		return err
	}

	// Validate what we just created
	if _, err := config.Load(configPath); err != nil {
		return fmt.Errorf("created config failed validation: %w", err)
	}

	return nil
}

// handleForce removes existing workspace files if --force was specified
func handleForce(configPath, recordPath string) error {
	if _, err := os.Stat(configPath); err == nil {
		fmt.Println("⚠️  Removing existing drey.yml...")
		if err := os.Remove(configPath); err != nil {
			return fmt.Errorf("failed to remove drey.yml: %w", err)
		}
	}

	if _, err := os.Stat(recordPath); err == nil {
		fmt.Println("⚠️  Removing existing ledger record...")
		if err := os.Remove(recordPath); err != nil {
			return fmt.Errorf("failed to remove ledger record: %w", err)
		}
	}

	return nil
}

func writeConfig(configPath, workspaceName string) error {
	raw, err := templatesFS.ReadFile("templates/drey.yml.tmpl")
	if err != nil {
		return fmt.Errorf("failed to read drey.yml template: %w", err)
	}

	tmpl, err := template.New("drey.yml").Parse(string(raw))
	if err != nil {
		return fmt.Errorf("failed to parse drey.yml template: %w", err)
	}

	f, err := os.OpenFile(configPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return fmt.Errorf("failed to create drey.yml: %w", err)
	}
	defer f.Close()

	if err := tmpl.Execute(f, struct{ Workspace string }{Workspace: workspaceName}); err != nil {
		return fmt.Errorf("failed to render drey.yml: %w", err)
	}

	return nil
}

func writeEmptyRecord(recordPath string) error {
	if _, err := os.Stat(recordPath); err == nil {
		// An existing record is never clobbered outside --force.
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(recordPath), 0755); err != nil {
		return fmt.Errorf("failed to create ledger directory: %w", err)
	}

	record := ledger.Render(ledger.NewLedger())
	if err := os.WriteFile(recordPath, []byte(record), 0644); err != nil {
		return fmt.Errorf("failed to write empty ledger record: %w", err)
	}

	return nil
}
