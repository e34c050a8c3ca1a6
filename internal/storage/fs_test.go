package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFSProvider(t *testing.T) {
	t.Parallel()

	t.Run("creates base directory", func(t *testing.T) {
		t.Parallel()
		dir := filepath.Join(t.TempDir(), "out")
		p, err := NewFSProvider(dir)
		require.NoError(t, err)
		assert.Equal(t, dir, p.BaseDir())
		assert.DirExists(t, dir)
	})

	t.Run("rejects empty base directory", func(t *testing.T) {
		t.Parallel()
		_, err := NewFSProvider("  ")
		require.Error(t, err)
	})
}

func TestFSProviderSave(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	p, err := NewFSProvider(dir)
	require.NoError(t, err)

	t.Run("writes nested object", func(t *testing.T) {
		err := p.Save(context.Background(), "ex.com/tutorial.md", []byte("# hello"))
		require.NoError(t, err)

		content, err := os.ReadFile(filepath.Join(dir, "ex.com", "tutorial.md"))
		require.NoError(t, err)
		assert.Equal(t, "# hello", string(content))
	})

	t.Run("overwrites existing object", func(t *testing.T) {
		require.NoError(t, p.Save(context.Background(), "a.md", []byte("one")))
		require.NoError(t, p.Save(context.Background(), "a.md", []byte("two")))

		content, err := os.ReadFile(filepath.Join(dir, "a.md"))
		require.NoError(t, err)
		assert.Equal(t, "two", string(content))
	})

	t.Run("rejects empty object name", func(t *testing.T) {
		assert.Error(t, p.Save(context.Background(), " ", []byte("x")))
	})

	t.Run("rejects traversal outside base", func(t *testing.T) {
		assert.Error(t, p.Save(context.Background(), "../escape.md", []byte("x")))
		assert.NoFileExists(t, filepath.Join(dir, "..", "escape.md"))
	})
}

func TestNoOpProvider(t *testing.T) {
	t.Parallel()

	var p NoOpProvider
	assert.NoError(t, p.Save(context.Background(), "anything", []byte("x")))
}
