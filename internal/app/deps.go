package app

import (
	"context"
	"os"
	"path/filepath"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"github.com/apm-run/apm/internal/core"
)

// DepsList reads the root manifest's direct dependencies and cross
// references them against the lock file to report install state.
func (s Service) DepsList() (DepsListResult, error) {
	manifest, err := s.ManifestLoader.LoadManifest(s.ProjectRoot)
	if err != nil {
		return DepsListResult{}, err
	}
	lock, err := s.LockStore.Load(s.ProjectRoot)
	if err != nil {
		return DepsListResult{}, err
	}

	var entries []DepsListEntry
	for _, raw := range manifest.Dependencies.APM {
		ref, err := core.ParseDependencyRef(raw)
		if err != nil {
			return DepsListResult{}, err
		}
		key := ref.Key()
		entry := DepsListEntry{Owner: ref.Owner, Repo: ref.Repo, RefRequested: ref.Ref}
		if locked, ok := lock.Packages[key]; ok {
			entry.ResolvedSHA = locked.ResolvedSHA
			entry.Installed = dirExists(filepath.Join(s.ProjectRoot, modulesDirName, ref.Owner, ref.Repo))
		}
		entries = append(entries, entry)
	}
	return DepsListResult{Entries: entries}, nil
}

// DepsTree builds and returns the full recursive dependency graph
// without installing anything.
func (s Service) DepsTree(ctx context.Context) (DepsTreeResult, error) {
	manifest, err := s.ManifestLoader.LoadManifest(s.ProjectRoot)
	if err != nil {
		return DepsTreeResult{}, err
	}
	graph, err := core.BuildGraph(ctx, s.Hosting, manifest, 0, 0)
	if err != nil {
		return DepsTreeResult{}, err
	}
	return DepsTreeResult{Root: graph.Root}, nil
}

// DepsInfo reports the installed manifest and lock metadata for one
// owner/repo dependency.
func (s Service) DepsInfo(ownerRepo string) (DepsInfoResult, error) {
	owner, repo, err := splitOwnerRepo(ownerRepo)
	if err != nil {
		return DepsInfoResult{}, err
	}
	installPath := filepath.Join(s.ProjectRoot, modulesDirName, owner, repo)
	manifest, err := s.ManifestLoader.LoadManifest(installPath)
	if err != nil {
		return DepsInfoResult{}, err
	}
	lock, err := s.LockStore.Load(s.ProjectRoot)
	if err != nil {
		return DepsInfoResult{}, err
	}
	return DepsInfoResult{
		Owner:       owner,
		Repo:        repo,
		Manifest:    manifest,
		LockEntry:   lock.Packages[owner+"/"+repo],
		InstallPath: installPath,
	}, nil
}

// DepsClean removes apm_modules entirely along with the lock file.
func (s Service) DepsClean() (DepsCleanResult, error) {
	base := filepath.Join(s.ProjectRoot, modulesDirName)
	entries, err := os.ReadDir(base)
	if err != nil {
		if os.IsNotExist(err) {
			return DepsCleanResult{}, nil
		}
		return DepsCleanResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to read " + base).
			WithCause(err)
	}
	var removed []string
	for _, e := range entries {
		removed = append(removed, e.Name())
	}
	if err := os.RemoveAll(base); err != nil {
		return DepsCleanResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to remove " + base).
			WithCause(err)
	}
	return DepsCleanResult{Removed: removed}, nil
}

// DepsUpdate delegates to Install with --update set (spec.md §4.11).
func (s Service) DepsUpdate(ctx context.Context) (DepsUpdateResult, error) {
	lockBefore, err := s.LockStore.Load(s.ProjectRoot)
	if err != nil {
		return DepsUpdateResult{}, err
	}
	before := map[string]string{}
	for key, entry := range lockBefore.Packages {
		before[key] = entry.ResolvedSHA
	}

	if _, err := s.Install(ctx, InstallRequest{Update: true}); err != nil {
		return DepsUpdateResult{}, err
	}

	lockAfter, err := s.LockStore.Load(s.ProjectRoot)
	if err != nil {
		return DepsUpdateResult{}, err
	}

	var updated []DepsUpdateEntry
	for key, entry := range lockAfter.Packages {
		if before[key] == entry.ResolvedSHA {
			continue
		}
		owner, repo, err := splitOwnerRepo(key)
		if err != nil {
			continue
		}
		updated = append(updated, DepsUpdateEntry{Owner: owner, Repo: repo, FromSHA: before[key], ToSHA: entry.ResolvedSHA})
	}
	return DepsUpdateResult{Updated: updated}, nil
}

func splitOwnerRepo(s string) (owner, repo string, err error) {
	ref, parseErr := core.ParseDependencyRef(s)
	if parseErr != nil {
		return "", "", parseErr
	}
	return ref.Owner, ref.Repo, nil
}
