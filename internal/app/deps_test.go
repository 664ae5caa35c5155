package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/apm-run/apm/internal/adapters"
	"github.com/apm-run/apm/internal/types"
)

func TestDepsListReportsInstalledAndUninstalled(t *testing.T) {
	dir := t.TempDir()
	writeInstallManifest(t, dir, "name: demo\nversion: 1.0.0\ndependencies:\n  apm:\n    - acme/shared#main\n    - acme/other\n")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, modulesDirName, "acme", "shared"), 0o755))

	lockStore := &fakeLockStore{file: types.LockFile{Packages: map[string]types.LockEntry{
		"acme/shared": {ResolvedSHA: "deadbeef"},
	}}}

	svc := Service{
		ManifestLoader: adapters.NewManifestFileAdapter(),
		LockStore:      lockStore,
		ProjectRoot:    dir,
	}

	result, err := svc.DepsList()
	require.NoError(t, err)
	require.Len(t, result.Entries, 2)
	require.Equal(t, "shared", result.Entries[0].Repo)
	require.True(t, result.Entries[0].Installed)
	require.Equal(t, "deadbeef", result.Entries[0].ResolvedSHA)
	require.False(t, result.Entries[1].Installed)
}

func TestDepsTreeBuildsGraphWithoutInstalling(t *testing.T) {
	dir := t.TempDir()
	writeInstallManifest(t, dir, "name: demo\nversion: 1.0.0\ndependencies:\n  apm:\n    - acme/shared\n")

	svc := Service{
		ManifestLoader: adapters.NewManifestFileAdapter(),
		Hosting:        fakeInstallHosting{},
		ProjectRoot:    dir,
	}

	result, err := svc.DepsTree(context.Background())
	require.NoError(t, err)
	require.NotNil(t, result.Root)
	require.Len(t, result.Root.Children, 1)
	require.NoDirExists(t, filepath.Join(dir, modulesDirName))
}

func TestDepsInfoReadsInstalledManifestAndLock(t *testing.T) {
	dir := t.TempDir()
	writeInstallManifest(t, dir, "name: demo\nversion: 1.0.0\n")
	installPath := filepath.Join(dir, modulesDirName, "acme", "shared")
	require.NoError(t, os.MkdirAll(installPath, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(installPath, "apm.yml"), []byte("name: shared\nversion: 2.0.0\n"), 0o644))

	lockStore := &fakeLockStore{file: types.LockFile{Packages: map[string]types.LockEntry{
		"acme/shared": {ResolvedSHA: "deadbeef"},
	}}}

	svc := Service{
		ManifestLoader: adapters.NewManifestFileAdapter(),
		LockStore:      lockStore,
		ProjectRoot:    dir,
	}

	result, err := svc.DepsInfo("acme/shared")
	require.NoError(t, err)
	require.Equal(t, "shared", result.Manifest.Name)
	require.Equal(t, "deadbeef", result.LockEntry.ResolvedSHA)
}

func TestDepsInfoRejectsMalformedRef(t *testing.T) {
	svc := Service{ProjectRoot: t.TempDir()}
	_, err := svc.DepsInfo("not-owner-slash-repo-form")
	require.Error(t, err)
}

func TestDepsCleanRemovesModulesDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, modulesDirName, "acme", "shared"), 0o755))

	svc := Service{ProjectRoot: dir}
	result, err := svc.DepsClean()
	require.NoError(t, err)
	require.Equal(t, []string{"acme"}, result.Removed)
	require.NoDirExists(t, filepath.Join(dir, modulesDirName))
}

func TestDepsCleanNoopWhenModulesDirMissing(t *testing.T) {
	svc := Service{ProjectRoot: t.TempDir()}
	result, err := svc.DepsClean()
	require.NoError(t, err)
	require.Empty(t, result.Removed)
}

func TestDepsUpdateReportsChangedSHAs(t *testing.T) {
	dir := t.TempDir()
	writeInstallManifest(t, dir, "name: demo\nversion: 1.0.0\ndependencies:\n  apm:\n    - acme/shared#main\n")

	lockStore := &fakeLockStore{file: types.LockFile{Packages: map[string]types.LockEntry{
		"acme/shared": {ResolvedSHA: "old-sha"},
	}}}
	fetcher := &fakeArchiveFetcher{}

	svc := Service{
		ManifestLoader:     adapters.NewManifestFileAdapter(),
		Hosting:            fakeInstallHosting{},
		ArchiveFetcher:     fetcher,
		LockStore:          lockStore,
		PackageShape:       adapters.NewPackageShapeAdapter(),
		ProjectRoot:        dir,
		InstallConcurrency: 2,
		Clock:              time.Now,
	}

	result, err := svc.DepsUpdate(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Updated, 1)
	require.Equal(t, "acme", result.Updated[0].Owner)
	require.Equal(t, "old-sha", result.Updated[0].FromSHA)
}
