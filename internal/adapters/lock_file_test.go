package adapters

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/apm-run/apm/internal/types"
)

func TestLockFileLoadMissingReturnsEmpty(t *testing.T) {
	dir := t.TempDir()
	lock, err := NewLockFileAdapter().Load(dir)
	require.NoError(t, err)
	require.Empty(t, lock.Packages)
}

func TestLockFileSaveThenLoadRoundTrips(t *testing.T) {
	dir := t.TempDir()
	adapter := NewLockFileAdapter()

	sha := "abc123"
	want := types.LockFile{Packages: map[string]types.LockEntry{
		"acme/shared": {RefRequested: &sha, ResolvedSHA: "abc123", InstalledAt: "2026-01-01T00:00:00Z"},
	}}
	require.NoError(t, adapter.Save(dir, want))

	got, err := adapter.Load(dir)
	require.NoError(t, err)
	require.Equal(t, want.Packages["acme/shared"].ResolvedSHA, got.Packages["acme/shared"].ResolvedSHA)
	require.Equal(t, want.Packages["acme/shared"].InstalledAt, got.Packages["acme/shared"].InstalledAt)
}

func TestLockFileSaveLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, NewLockFileAdapter().Save(dir, types.LockFile{}))

	entries, err := filepath.Glob(filepath.Join(dir, "apm_modules", "*.tmp-*"))
	require.NoError(t, err)
	require.Empty(t, entries, "atomic write must not leave temp files behind")
}

func TestLockFileLoadMalformedJSON(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, NewLockFileAdapter().Save(dir, types.LockFile{}))
	path := lockFilePath(dir)
	require.NoError(t, writeFileAtomic(path, []byte("not json"), 0o644))

	_, err := NewLockFileAdapter().Load(dir)
	require.Error(t, err)
}
