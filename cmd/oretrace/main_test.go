package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenStoreAt_CreatesDataDir(t *testing.T) {
	dataDir := filepath.Join(t.TempDir(), "oretrace-data", "nested")

	store, err := openStoreAt(dataDir)
	require.NoError(t, err)
	defer store.Close()

	info, err := os.Stat(dataDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	stats, err := store.Stats()
	require.NoError(t, err)
	assert.Zero(t, stats.LabSamples)
}

func TestOpenStoreAt_ExistingDir(t *testing.T) {
	dataDir := t.TempDir()

	store, err := openStoreAt(dataDir)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	store, err = openStoreAt(dataDir)
	require.NoError(t, err)
	assert.NoError(t, store.Close())
}

func TestRootCmd_SilencesUsageOnFailure(t *testing.T) {
	assert.True(t, rootCmd.SilenceUsage)
	assert.True(t, rootCmd.SilenceErrors)
}
