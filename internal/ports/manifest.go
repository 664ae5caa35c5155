package ports

import "github.com/apm-run/apm/internal/types"

// ManifestLoaderPort loads and parses an apm.yml manifest from a
// package root directory.
type ManifestLoaderPort interface {
	LoadManifest(packageRoot string) (types.Manifest, error)
}
