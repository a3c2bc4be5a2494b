package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"botf2/internal/adapter/snapshot/badgerstore"
	"botf2/internal/domain/diplomacy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestScenarioRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
universe:
  civilizations:
    - {id: 1, name: Federation, is_empire: true, credits: 500}
    - {id: 2, name: Romulans, is_empire: true, credits: 500}
steps:
  - propose:
      ref: borders
      sender: 1
      recipient: 2
      clauses:
        - kind: treaty_open_borders
  - accept: borders
  - advance: 1
`), 0o644))

	out, err := runCLI(t, "scenario", "run", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Turn 2")
	assert.Contains(t, out, "treaty_open_borders")
	assert.Contains(t, out, "Federation")
}

func TestScenarioRun_RequiresFile(t *testing.T) {
	_, err := runCLI(t, "scenario", "run")
	assert.Error(t, err)
}

func TestSnapshotShowAndList(t *testing.T) {
	dir := t.TempDir()
	store, err := badgerstore.Open(badgerstore.DefaultConfig(dir))
	require.NoError(t, err)
	require.NoError(t, store.SaveSnapshot(context.Background(), 3, diplomacy.Snapshot{Version: 7}))
	require.NoError(t, store.SaveSnapshot(context.Background(), 4, diplomacy.Snapshot{Version: 8}))
	require.NoError(t, store.Close())

	out, err := runCLI(t, "snapshot", "show", "--path", dir, "--turn", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "turn 4")
	assert.Contains(t, out, `"version": 8`)

	out, err = runCLI(t, "snapshot", "show", "--path", dir, "--turn", "3")
	require.NoError(t, err)
	assert.Contains(t, out, `"version": 7`)

	out, err = runCLI(t, "snapshot", "list", "--path", dir)
	require.NoError(t, err)
	assert.Equal(t, "3\n4\n", out)
}

func TestMigrateAndEvents_RequireTargets(t *testing.T) {
	t.Setenv("BOTF2_DB_DSN", "")
	t.Setenv("BOTF2_REDIS_URL", "")

	_, err := runCLI(t, "migrate")
	assert.ErrorContains(t, err, "postgres DSN")

	_, err = runCLI(t, "events", "tail")
	assert.ErrorContains(t, err, "redis URL")
}
