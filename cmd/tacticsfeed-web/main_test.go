package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestOpenStoreByName(t *testing.T) {
	log := zap.NewNop().Sugar()

	kv, err := openStore("memory", "", log)
	require.NoError(t, err)
	require.NoError(t, kv.Close())

	kv, err = openStore("badger", t.TempDir(), log)
	require.NoError(t, err)
	require.NoError(t, kv.Close())
}

func TestOpenStoreRejectsUnknownName(t *testing.T) {
	_, err := openStore("bagder", "", zap.NewNop().Sugar())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "bagder")
}
