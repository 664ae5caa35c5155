package adapters

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeManifest(t *testing.T, dir, contents string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "apm.yml"), []byte(contents), 0o644))
}

func TestLoadManifestFillsDefaults(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "name: demo\nversion: 1.0.0\n")

	manifest, err := NewManifestFileAdapter().LoadManifest(dir)
	require.NoError(t, err)
	require.Equal(t, "demo", manifest.Name)
	require.Equal(t, "AGENTS.md", manifest.Compilation.Output)
	require.True(t, manifest.Compilation.ResolveLinks)
	require.True(t, manifest.Compilation.Constitution.Enabled)
}

func TestLoadManifestOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `
name: demo
version: 1.0.0
compilation:
  output: CONTEXT.md
  resolve_links: false
  constitution:
    enabled: false
`)

	manifest, err := NewManifestFileAdapter().LoadManifest(dir)
	require.NoError(t, err)
	require.Equal(t, "CONTEXT.md", manifest.Compilation.Output)
	require.False(t, manifest.Compilation.ResolveLinks)
	require.False(t, manifest.Compilation.Constitution.Enabled)
}

func TestLoadManifestMissingFile(t *testing.T) {
	_, err := NewManifestFileAdapter().LoadManifest(t.TempDir())
	require.Error(t, err)
}

func TestLoadManifestMissingName(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "version: 1.0.0\n")

	_, err := NewManifestFileAdapter().LoadManifest(dir)
	require.Error(t, err)
}

func TestLoadManifestPreservesExtras(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "name: demo\nversion: 1.0.0\nhomepage: https://example.com\n")

	manifest, err := NewManifestFileAdapter().LoadManifest(dir)
	require.NoError(t, err)
	require.Equal(t, "https://example.com", manifest.Extras["homepage"])
}
