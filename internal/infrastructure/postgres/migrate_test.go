package postgres

import (
	"io"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationSource_Embebidas(t *testing.T) {
	src, err := migrationSource(migrationsFS)
	require.NoError(t, err)
	defer src.Close()

	first, err := src.First()
	require.NoError(t, err)
	assert.Equal(t, uint(1), first)

	up, _, err := src.ReadUp(first)
	require.NoError(t, err)
	defer up.Close()
	raw, err := io.ReadAll(up)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "CREATE TABLE IF NOT EXISTS inventory")

	down, _, err := src.ReadDown(first)
	require.NoError(t, err)
	defer down.Close()
	raw, err = io.ReadAll(down)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "DROP TABLE IF EXISTS inventory_transaction")
}

func TestMigrationSource_Orden(t *testing.T) {
	src, err := migrationSource(fstest.MapFS{
		"migrations/002_b.up.sql": {Data: []byte("SELECT 2;")},
		"migrations/001_a.up.sql": {Data: []byte("SELECT 1;")},
	})
	require.NoError(t, err)
	defer src.Close()

	first, err := src.First()
	require.NoError(t, err)
	assert.Equal(t, uint(1), first)
	next, err := src.Next(first)
	require.NoError(t, err)
	assert.Equal(t, uint(2), next)
}

func TestMigrationSource_VersionDuplicada(t *testing.T) {
	_, err := migrationSource(fstest.MapFS{
		"migrations/001_a.up.sql": {Data: []byte("SELECT 1;")},
		"migrations/001_b.up.sql": {Data: []byte("SELECT 2;")},
	})
	assert.Error(t, err)
}
