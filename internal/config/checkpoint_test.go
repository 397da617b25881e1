package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCheckpointMissing(t *testing.T) {
	cp, err := LoadCheckpoint(filepath.Join(t.TempDir(), "deployed-contracts.json"))
	require.NoError(t, err)
	assert.Empty(t, cp.Addresses)
	assert.Empty(t, cp.Address("ArtistProfile"))
}

func TestCheckpointPutPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deployed-contracts.json")
	cp, err := LoadCheckpoint(path)
	require.NoError(t, err)

	require.NoError(t, cp.Put("ArtistProfile", "0x5fbdb2315678afecb367f032d93f642f64180aa3"))

	// A fresh load sees the recorded address without an explicit Save.
	reloaded, err := LoadCheckpoint(path)
	require.NoError(t, err)
	assert.Equal(t, "0x5fbdb2315678afecb367f032d93f642f64180aa3", reloaded.Address("ArtistProfile"))
}

func TestCheckpointNamesSorted(t *testing.T) {
	cp, err := LoadCheckpoint(filepath.Join(t.TempDir(), "deployed-contracts.json"))
	require.NoError(t, err)

	require.NoError(t, cp.Put("Marketplace", "0x3"))
	require.NoError(t, cp.Put("ArtistProfile", "0x1"))
	require.NoError(t, cp.Put("Artwork", "0x2"))

	assert.Equal(t, []string{"ArtistProfile", "Artwork", "Marketplace"}, cp.Names())
}

func TestLoadCheckpointCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deployed-contracts.json")
	require.NoError(t, os.WriteFile(path, []byte(`{broken`), 0o600))

	_, err := LoadCheckpoint(path)
	assert.Error(t, err)
}
