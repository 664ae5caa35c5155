package adapters

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHasNonEmptyAPMDirMissing(t *testing.T) {
	dir := t.TempDir()
	ok, err := NewPackageShapeAdapter().HasNonEmptyAPMDir(dir)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestHasNonEmptyAPMDirEmpty(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".apm"), 0o755))

	ok, err := NewPackageShapeAdapter().HasNonEmptyAPMDir(dir)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestHasNonEmptyAPMDirWithFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".apm"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".apm", "notes.md"), []byte("x"), 0o644))

	ok, err := NewPackageShapeAdapter().HasNonEmptyAPMDir(dir)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestHasNonEmptyAPMDirWithNonEmptySubdir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".apm", "instructions"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".apm", "instructions", "go.instructions.md"), []byte("x"), 0o644))

	ok, err := NewPackageShapeAdapter().HasNonEmptyAPMDir(dir)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestHasNonEmptyAPMDirWithEmptySubdir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".apm", "empty"), 0o755))

	ok, err := NewPackageShapeAdapter().HasNonEmptyAPMDir(dir)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestHasShallowPromptFileWithinDepth(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "a"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a", "demo.prompt.md"), []byte("x"), 0o644))

	ok, err := NewPackageShapeAdapter().HasShallowPromptFile(dir, 2)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestHasShallowPromptFileBeyondDepth(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "a", "b", "c")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(nested, "demo.prompt.md"), []byte("x"), 0o644))

	ok, err := NewPackageShapeAdapter().HasShallowPromptFile(dir, 1)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestHasShallowPromptFileNone(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.md"), []byte("x"), 0o644))

	ok, err := NewPackageShapeAdapter().HasShallowPromptFile(dir, 2)
	require.NoError(t, err)
	require.False(t, ok)
}
