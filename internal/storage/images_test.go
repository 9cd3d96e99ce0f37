package storage

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *ImageStore {
	t.Helper()
	store, err := New(t.TempDir())
	require.NoError(t, err)
	return store
}

func pngBytes(t *testing.T, width, height int) *bytes.Buffer {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return &buf
}

func TestNew_CreatesFolders(t *testing.T) {
	root := t.TempDir()
	_, err := New(root)
	require.NoError(t, err)

	for _, folder := range []string{FolderProfile, FolderBlog, FolderProduct} {
		info, err := os.Stat(filepath.Join(root, folder))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestSave_ResizesLargeImage(t *testing.T) {
	store := newTestStore(t)

	ref, err := store.Save(pngBytes(t, 1600, 1200), "field.png", FolderBlog)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(ref, FolderBlog+string(os.PathSeparator)))
	assert.True(t, strings.HasSuffix(ref, ".png"))

	saved, err := os.Open(filepath.Join(store.Root(), ref))
	require.NoError(t, err)
	defer saved.Close()

	cfg, _, err := image.DecodeConfig(saved)
	require.NoError(t, err)
	assert.LessOrEqual(t, cfg.Width, maxDimension)
	assert.LessOrEqual(t, cfg.Height, maxDimension)
	// Fit preserves aspect ratio: 1600x1200 -> 800x600.
	assert.Equal(t, 800, cfg.Width)
	assert.Equal(t, 600, cfg.Height)
}

func TestSave_SmallImageNotUpscaled(t *testing.T) {
	store := newTestStore(t)

	ref, err := store.Save(pngBytes(t, 100, 50), "thumb.png", FolderProfile)
	require.NoError(t, err)

	saved, err := os.Open(filepath.Join(store.Root(), ref))
	require.NoError(t, err)
	defer saved.Close()

	cfg, _, err := image.DecodeConfig(saved)
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.Width)
	assert.Equal(t, 50, cfg.Height)
}

func TestSave_DisallowedExtensionIgnored(t *testing.T) {
	store := newTestStore(t)

	for _, name := range []string{"script.exe", "notes.txt", "archive.tar.gz", "noext"} {
		ref, err := store.Save(pngBytes(t, 10, 10), name, FolderProduct)
		require.NoError(t, err)
		assert.Empty(t, ref, "extension of %q should be rejected", name)
	}
}

func TestSave_RandomizedFilenames(t *testing.T) {
	store := newTestStore(t)

	first, err := store.Save(pngBytes(t, 10, 10), "same.png", FolderBlog)
	require.NoError(t, err)
	second, err := store.Save(pngBytes(t, 10, 10), "same.png", FolderBlog)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestRemove(t *testing.T) {
	store := newTestStore(t)

	ref, err := store.Save(pngBytes(t, 10, 10), "gone.png", FolderBlog)
	require.NoError(t, err)

	require.NoError(t, store.Remove(ref))
	_, err = os.Stat(filepath.Join(store.Root(), ref))
	assert.True(t, os.IsNotExist(err))

	// Removing again, or removing nothing, is not an error.
	assert.NoError(t, store.Remove(ref))
	assert.NoError(t, store.Remove(""))
}

func TestRemoveAll(t *testing.T) {
	store := newTestStore(t)

	refs := make([]string, 0, 3)
	for i := 0; i < 3; i++ {
		ref, err := store.Save(pngBytes(t, 10, 10), "img.png", FolderProduct)
		require.NoError(t, err)
		refs = append(refs, ref)
	}
	refs = append(refs, "", "product/never-existed.jpg")

	require.NoError(t, store.RemoveAll(refs))
	for _, ref := range refs[:3] {
		_, err := os.Stat(filepath.Join(store.Root(), ref))
		assert.True(t, os.IsNotExist(err))
	}
}
