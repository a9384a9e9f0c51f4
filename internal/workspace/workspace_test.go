package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindRoot(t *testing.T) {
	t.Run("finds drey.yml in start directory", func(t *testing.T) {
		root := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(root, ConfigFileName), []byte("version: \"1.0\"\n"), 0644))

		found, err := FindRoot(root)
		require.NoError(t, err)
		resolved, err := filepath.EvalSymlinks(root)
		require.NoError(t, err)
		assert.Equal(t, resolved, found)
	})

	t.Run("walks up to the workspace root", func(t *testing.T) {
		root := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(root, ConfigFileName), []byte("version: \"1.0\"\n"), 0644))

		nested := filepath.Join(root, "internal", "store")
		require.NoError(t, os.MkdirAll(nested, 0755))

		found, err := FindRoot(nested)
		require.NoError(t, err)
		resolved, err := filepath.EvalSymlinks(root)
		require.NoError(t, err)
		assert.Equal(t, resolved, found)
	})

	t.Run("errors when no workspace exists", func(t *testing.T) {
		_, err := FindRoot(t.TempDir())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no drey.yml found")
	})

	t.Run("ignores a directory named drey.yml", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(dir, ConfigFileName), 0755))

		_, err := FindRoot(dir)
		assert.Error(t, err)
	})
}

func TestLedgerPath(t *testing.T) {
	assert.Equal(t, "/ws/.drey/ledger.md", LedgerPath("/ws", ".drey/ledger.md"))
	assert.Equal(t, "/elsewhere/ledger.md", LedgerPath("/ws", "/elsewhere/ledger.md"))
}

func TestDefaultName(t *testing.T) {
	assert.Equal(t, "my-project", DefaultName("/home/user/my-project"))
}
