package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenConfigStore(t *testing.T) {
	t.Run("ephemeral", func(t *testing.T) {
		store, err := openConfigStore(ephemeralConfig)
		require.NoError(t, err)
		assert.Equal(t, ":memory:", store.Path())
	})

	t.Run("directory", func(t *testing.T) {
		dir := t.TempDir()
		store, err := openConfigStore(dir)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "config.toml"), store.Path())
	})

	t.Run("unusable directory", func(t *testing.T) {
		_, err := openConfigStore("/dev/null/docqa")
		assert.Error(t, err)
	})
}
