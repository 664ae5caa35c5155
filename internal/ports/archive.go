package ports

import (
	"context"
	"io"

	"github.com/apm-run/apm/internal/types"
)

// RefMetadata is the hosting provider's resolution of a requested ref
// (branch, tag, or commit) to a concrete commit SHA.
type RefMetadata struct {
	Owner          string
	Repo           string
	ResolvedCommit string
}

// HostingPort talks to the remote code-hosting API (spec.md §5): it
// resolves refs to commits, fetches a single parsed manifest (used
// while building the dependency graph; the GitHub adapter reads it out
// of the downloaded tarball), and downloads the tarball for a resolved
// commit.
type HostingPort interface {
	ResolveRef(ctx context.Context, owner, repo, ref string) (RefMetadata, error)
	FetchManifest(ctx context.Context, owner, repo, commit string) (types.Manifest, error)
	DownloadArchive(ctx context.Context, owner, repo, commit string) (io.ReadCloser, error)
}

// ArchiveExtractorPort extracts a downloaded tar.gz stream into a
// destination directory, returning once every entry has been written.
type ArchiveExtractorPort interface {
	Extract(archive io.Reader, destDir string) error
}

// FetchResult reports what an ArchiveFetcherPort actually did.
type FetchResult struct {
	ResolvedCommit string
}

// ArchiveFetcherPort implements the full C4 contract: resolve ref,
// download, extract, validate, and atomically materialize a
// dependency's contents at destDir.
type ArchiveFetcherPort interface {
	Fetch(ctx context.Context, owner, repo, ref, destDir string) (FetchResult, error)
}
