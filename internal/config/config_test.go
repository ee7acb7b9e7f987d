package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmptyPathIsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "badger", cfg.Store)
	assert.Equal(t, 3, cfg.Feed.Lookahead)
	assert.InDelta(t, 0.6, cfg.Feed.ViewFraction, 1e-9)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("addr: \":9090\"\nfeed:\n  lookahead: 5\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, 5, cfg.Feed.Lookahead)
	assert.Equal(t, "badger", cfg.Store, "untouched fields keep defaults")
	assert.Equal(t, 1200, cfg.Feed.AdvanceDelayMs)
}

func TestLoadMissingFileReturnsDefaultsAndError(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
	assert.Equal(t, Default(), cfg, "caller can still serve on defaults")
}

func TestLoadBrokenYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("addr: ["), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
