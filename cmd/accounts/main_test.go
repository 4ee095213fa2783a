package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestKeygen(t *testing.T) {
	t.Setenv("ENV", "test")
	path := filepath.Join(t.TempDir(), "signing.pem")

	out, err := run(t, "keygen", "--out", path)
	require.NoError(t, err)
	require.Contains(t, out, path)

	_, err = run(t, "keygen", "--out", path)
	require.Error(t, err)

	_, err = run(t, "keygen", "--out", path, "--force")
	require.NoError(t, err)
}

func TestKeygenFromEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "env.pem")
	t.Setenv("ACCOUNTS_SIGNING_KEY_FILE", path)

	out, err := run(t, "keygen")
	require.NoError(t, err)
	require.Contains(t, out, path)
}

func TestMigrate(t *testing.T) {
	t.Setenv("ENV", "test")
	db := filepath.Join(t.TempDir(), "accounts.db")

	out, err := run(t, "migrate", "--database", db)
	require.NoError(t, err)
	require.Contains(t, out, "schema at version 1 (dirty=false)")

	// Re-running is a no-op.
	_, err = run(t, "migrate", "--database", db)
	require.NoError(t, err)
}

func TestMigrateRejectsRedis(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("ACCOUNTS_STORE_DRIVER", "redis")

	_, err := run(t, "migrate")
	require.ErrorContains(t, err, "sqlite")
}
