package adapters

import (
	"context"
	"os"
	"path/filepath"

	"github.com/apm-run/apm/internal/core"
	"github.com/apm-run/apm/internal/ports"
	"github.com/apm-run/apm/internal/shared"
)

// ArchiveFetcherAdapter is the C4 orchestrator: it resolves a ref,
// downloads the tarball, extracts it into a private temp directory
// under destDir's parent, verifies the result looks like an APM
// package, then atomically renames it into place.
type ArchiveFetcherAdapter struct {
	Hosting      ports.HostingPort
	Extractor    ports.ArchiveExtractorPort
	ShapeChecker ports.PackageShapePort
}

func NewArchiveFetcherAdapter(hosting ports.HostingPort, extractor ports.ArchiveExtractorPort, shapeChecker ports.PackageShapePort) ArchiveFetcherAdapter {
	return ArchiveFetcherAdapter{Hosting: hosting, Extractor: extractor, ShapeChecker: shapeChecker}
}

func (a ArchiveFetcherAdapter) Fetch(ctx context.Context, owner, repo, ref, destDir string) (ports.FetchResult, error) {
	resolved, err := a.Hosting.ResolveRef(ctx, owner, repo, ref)
	if err != nil {
		return ports.FetchResult{}, err
	}

	archive, err := a.Hosting.DownloadArchive(ctx, owner, repo, resolved.ResolvedCommit)
	if err != nil {
		return ports.FetchResult{}, err
	}
	defer archive.Close()

	parent := filepath.Dir(destDir)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return ports.FetchResult{}, shared.ErrNetworkError("failed to create parent directory for "+destDir, err)
	}
	tempDir, err := os.MkdirTemp(parent, filepath.Base(destDir)+".fetch-*")
	if err != nil {
		return ports.FetchResult{}, shared.ErrNetworkError("failed to create temp directory under "+parent, err)
	}
	defer os.RemoveAll(tempDir)

	if err := a.Extractor.Extract(archive, tempDir); err != nil {
		return ports.FetchResult{}, err
	}

	if _, err := core.ValidatePackage(ctx, NewManifestFileAdapter(), a.ShapeChecker, tempDir); err != nil {
		return ports.FetchResult{}, err
	}

	if err := os.RemoveAll(destDir); err != nil {
		return ports.FetchResult{}, shared.ErrNetworkError("failed to clear previous install of "+destDir, err)
	}
	if err := os.Rename(tempDir, destDir); err != nil {
		return ports.FetchResult{}, shared.ErrNetworkError("failed to move extracted package into place: "+destDir, err)
	}

	return ports.FetchResult{ResolvedCommit: resolved.ResolvedCommit}, nil
}

var _ ports.ArchiveFetcherPort = ArchiveFetcherAdapter{}
