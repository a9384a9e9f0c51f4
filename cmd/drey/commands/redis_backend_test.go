package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newRedisWorkspace sets up a workspace whose ledger lives in miniredis.
func newRedisWorkspace(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.NewMiniRedis()
	require.NoError(t, mr.Start())
	t.Cleanup(mr.Close)

	root := t.TempDir()
	chdir(t, root)

	cfg := fmt.Sprintf(`version: "1.0"
workspace: shared
storage:
  backend: redis
  redis_url: redis://%s
`, mr.Addr())
	require.NoError(t, os.WriteFile(filepath.Join(root, "drey.yml"), []byte(cfg), 0644))

	return mr
}

func TestRedisBackedWorkspace(t *testing.T) {
	mr := newRedisWorkspace(t)

	goalUnconfirmed = false
	require.NoError(t, runGoal(goalCmd, []string{"ship v1"}))

	assert.True(t, mr.Exists("drey:shared:ledger"))

	decideUnconfirmed = false
	require.NoError(t, runDecide(decideCmd, []string{"redis backend for shared workspaces"}))

	showOutputFormat = "default"
	assert.NoError(t, runShow(showCmd, nil))
}

func TestRedisBackedWorkspaceUnreachable(t *testing.T) {
	mr := newRedisWorkspace(t)
	mr.Close()

	goalUnconfirmed = false
	err := runGoal(goalCmd, []string{"ship v1"})
	require.Error(t, err)
}
