package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	c := NewConfig()
	assert.Equal(t, ".", c.RecipeRoot)
	assert.Equal(t, "output", c.OutputDir)
	assert.Equal(t, "local", c.Builder)
	assert.Equal(t, "bitcask", c.Storage)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"RecipeRoot": "/srv/recipes",
		"Builder": "nomad",
		"Parallelism": 4,
		"SyncDBs": {"mingw64": "file:///srv/mingw64.db"}
	}`), 0644))

	c := NewConfig()
	require.NoError(t, c.LoadFromFile(path))

	assert.Equal(t, "/srv/recipes", c.RecipeRoot)
	assert.Equal(t, "nomad", c.Builder)
	assert.Equal(t, 4, c.Parallelism)
	assert.Equal(t, "file:///srv/mingw64.db", c.SyncDBs["mingw64"])

	// Unset keys keep their defaults.
	assert.Equal(t, "output", c.OutputDir)
}

func TestLoadFromFileMissing(t *testing.T) {
	c := NewConfig()
	assert.Error(t, c.LoadFromFile(filepath.Join(t.TempDir(), "nothere.json")))
}
