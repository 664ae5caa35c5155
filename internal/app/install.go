package app

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"github.com/apm-run/apm/internal/core"
	"github.com/apm-run/apm/internal/types"
)

const modulesDirName = "apm_modules"

// Install drives C6: build the dependency graph, then fetch every node
// that is missing or stale, at bounded concurrency.
func (s Service) Install(ctx context.Context, req InstallRequest) (InstallResult, error) {
	if req.Only != "" && req.Only != "apm" && req.Only != "mcp" {
		return InstallResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("--only must be \"apm\" or \"mcp\"")
	}

	manifest, err := s.ManifestLoader.LoadManifest(s.ProjectRoot)
	if err != nil {
		return InstallResult{}, err
	}

	if req.Only == "mcp" {
		// MCP installation is delegated to external collaborators; the
		// core has nothing further to do.
		return InstallResult{}, nil
	}

	graph, err := core.BuildGraph(ctx, s.Hosting, manifest, 0, 0)
	if err != nil {
		return InstallResult{}, err
	}

	if req.DryRun {
		return InstallResult{Plan: graph.Order, Warnings: graph.Warning}, nil
	}

	lock, err := s.LockStore.Load(s.ProjectRoot)
	if err != nil {
		return InstallResult{}, err
	}
	if lock.Packages == nil {
		lock.Packages = map[string]types.LockEntry{}
	}

	plan := make([]types.InstallPlanEntry, len(graph.Order))
	copy(plan, graph.Order)
	for i, entry := range plan {
		key := entry.Owner + "/" + entry.Repo
		dest := filepath.Join(s.ProjectRoot, modulesDirName, entry.Owner, entry.Repo)
		if existing, ok := lock.Packages[key]; ok && !req.Update && existing.ResolvedSHA == entry.ResolvedCommit && dirExists(dest) {
			plan[i].Skip = true
		}
	}

	installed, skipped, err := s.fetchAll(ctx, plan)
	if err != nil {
		return InstallResult{}, err
	}

	now := s.Clock().UTC().Format("2006-01-02T15:04:05Z")
	for _, entry := range plan {
		key := entry.Owner + "/" + entry.Repo
		if entry.Skip {
			continue
		}
		refRequested := entry.RefRequested
		var refPtr *string
		if refRequested != "" {
			refPtr = &refRequested
		}
		lock.Packages[key] = types.LockEntry{
			RefRequested: refPtr,
			ResolvedSHA:  entry.ResolvedCommit,
			InstalledAt:  now,
		}
	}
	if err := s.LockStore.Save(s.ProjectRoot, lock); err != nil {
		return InstallResult{}, err
	}

	return InstallResult{Plan: plan, Installed: installed, Skipped: skipped, Warnings: graph.Warning}, nil
}

// fetchAll runs the bounded worker pool of §5: each plan entry not
// already skipped is fetched independently into its own private temp
// directory, with the first failure cancelling the rest.
func (s Service) fetchAll(ctx context.Context, plan []types.InstallPlanEntry) (installed, skipped []string, err error) {
	concurrency := s.InstallConcurrency
	if concurrency <= 0 {
		concurrency = 4
	}

	type task struct {
		index int
		entry types.InstallPlanEntry
	}
	var pending []task
	for i, entry := range plan {
		key := entry.Owner + "/" + entry.Repo
		if entry.Skip {
			skipped = append(skipped, key)
			continue
		}
		pending = append(pending, task{index: i, entry: entry})
	}
	if len(pending) == 0 {
		return installed, skipped, nil
	}
	if concurrency > len(pending) {
		concurrency = len(pending)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	tasks := make(chan task)
	type outcome struct {
		key string
		err error
	}
	results := make(chan outcome, len(pending))

	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range tasks {
				key := t.entry.Owner + "/" + t.entry.Repo
				if ctx.Err() != nil {
					results <- outcome{key: key, err: ctx.Err()}
					continue
				}
				dest := filepath.Join(s.ProjectRoot, modulesDirName, t.entry.Owner, t.entry.Repo)
				_, fetchErr := s.ArchiveFetcher.Fetch(ctx, t.entry.Owner, t.entry.Repo, t.entry.ResolvedCommit, dest)
				if fetchErr == nil {
					_, fetchErr = s.PackageShape.HasNonEmptyAPMDir(dest)
				}
				results <- outcome{key: key, err: fetchErr}
			}
		}()
	}
	go func() {
		for _, t := range pending {
			tasks <- t
		}
		close(tasks)
	}()
	go func() {
		wg.Wait()
		close(results)
	}()

	var firstErr error
	for res := range results {
		if res.err != nil {
			if firstErr == nil {
				firstErr = res.err
				cancel()
			}
			continue
		}
		installed = append(installed, res.key)
	}
	if firstErr != nil {
		return nil, nil, firstErr
	}
	sort.Strings(installed)
	return installed, skipped, nil
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
