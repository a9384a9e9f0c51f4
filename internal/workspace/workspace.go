// Package workspace locates the drey workspace a command runs in.
//
// A workspace is any directory tree rooted at a drey.yml. Commands may run
// from anywhere inside it; discovery walks up to the root the way version
// control tools find their metadata directory. The workspace root owns the
// ledger record path for the duration of a unit of work.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
)

// ConfigFileName is the marker file at the workspace root.
const ConfigFileName = "drey.yml"

// FindRoot walks up from startDir looking for drey.yml and returns the
// directory containing it. Symlinks are resolved first so two paths into the
// same workspace agree on its identity.
func FindRoot(startDir string) (string, error) {
	realPath, err := filepath.EvalSymlinks(startDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve symlinks: %w", err)
	}

	dir, err := filepath.Abs(realPath)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}

	for {
		candidate := filepath.Join(dir, ConfigFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no %s found in %s or any parent directory", ConfigFileName, startDir)
		}
		dir = parent
	}
}

// FindRootFromCwd locates the workspace root from the current directory.
func FindRootFromCwd() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	return FindRoot(cwd)
}

// ConfigPath returns the drey.yml path for a workspace root.
func ConfigPath(root string) string {
	return filepath.Join(root, ConfigFileName)
}

// LedgerPath resolves a (possibly relative) record path against the
// workspace root.
func LedgerPath(root, recordPath string) string {
	if filepath.IsAbs(recordPath) {
		return recordPath
	}
	return filepath.Join(root, recordPath)
}

// DefaultName derives a workspace name from its root directory.
// Used by init when drey.yml does not name the workspace explicitly.
func DefaultName(root string) string {
	return filepath.Base(root)
}
