package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("STORAGE_BACKEND", "local")
	t.Setenv("LOCAL_STORE_PATH", filepath.Join(dir, "store.json"))
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("REDIS_URL", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("STOCK_API_URL", "")
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSeedAndNormalize(t *testing.T) {
	dir := setupEnv(t)
	file := filepath.Join(dir, "products.json")
	require.NoError(t, os.WriteFile(file, []byte(`[
		{"id":"kettle","name":"Kettle","price":120,"category":"Home Appliances","stock":4},
		{"id":"broken","price":10}
	]`), 0o644))

	out, err := run(t, "seed", "--file", file)
	require.NoError(t, err)
	assert.Contains(t, out, "imported 1 products, skipped 1")

	// o Save do repositório já normaliza, então não sobra nada para regravar
	out, err = run(t, "normalize")
	require.NoError(t, err)
	assert.Contains(t, out, "normalized 0 products")
}

func TestSeed_RequiresOneSource(t *testing.T) {
	setupEnv(t)
	_, err := run(t, "seed")
	assert.ErrorContains(t, err, "exactly one")
	_, err = run(t, "seed", "--file", "a.json", "--url", "http://x")
	assert.ErrorContains(t, err, "exactly one")
}

func TestAdminCreateAndOrders(t *testing.T) {
	setupEnv(t)

	out, err := run(t, "admin", "create", "Boss@Souq.test", "boss-password")
	require.NoError(t, err)
	assert.Contains(t, out, "admin boss@souq.test created")

	_, err = run(t, "admin", "create", "boss@souq.test", "boss-password")
	assert.Error(t, err)

	out, err = run(t, "orders", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "NUMBER")

	_, err = run(t, "orders", "list", "--status", "lost")
	assert.Error(t, err)

	_, err = run(t, "orders", "set-status", "missing", "processing")
	assert.ErrorContains(t, err, "order not found")
}

func TestMigrateAndStock_RequireURLs(t *testing.T) {
	setupEnv(t)
	_, err := run(t, "migrate")
	assert.ErrorContains(t, err, "DATABASE_URL")

	_, err = run(t, "stock", "sync")
	assert.ErrorContains(t, err, "STOCK_API_URL")
}
