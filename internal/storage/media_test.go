package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndDelete(t *testing.T) {
	store := NewLocalMediaStore(t.TempDir())

	publicPath, err := store.Save("item_photos/abc.jpg", strings.NewReader("jpeg-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "/public/item_photos/abc.jpg", publicPath)

	data, err := os.ReadFile(filepath.Join(store.Root(), "item_photos", "abc.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(data))

	require.NoError(t, store.Delete(publicPath))
	_, err = os.Stat(filepath.Join(store.Root(), "item_photos", "abc.jpg"))
	assert.True(t, os.IsNotExist(err))
}

func TestDeleteIsIdempotent(t *testing.T) {
	store := NewLocalMediaStore(t.TempDir())

	// Deleting a file that never existed must not fail.
	assert.NoError(t, store.Delete("/public/item_photos/missing.jpg"))
	assert.NoError(t, store.Delete("/public/item_photos/missing.jpg"))
}

func TestDeleteRejectsForeignPaths(t *testing.T) {
	store := NewLocalMediaStore(t.TempDir())

	assert.ErrorIs(t, store.Delete("https://cdn.example.com/x.jpg"), ErrInvalidPath)
	assert.ErrorIs(t, store.Delete("/etc/passwd"), ErrInvalidPath)
}

func TestSaveRejectsTraversal(t *testing.T) {
	store := NewLocalMediaStore(t.TempDir())

	_, err := store.Save("../outside.jpg", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrInvalidPath)
}
