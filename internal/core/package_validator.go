package core

import (
	"context"
	"path/filepath"

	assert "github.com/ZanzyTHEbar/assert-lib"

	"github.com/apm-run/apm/internal/ports"
	"github.com/apm-run/apm/internal/shared"
	"github.com/apm-run/apm/internal/types"
)

// ValidatePackage checks that root is a valid APM package (spec.md
// §4.3): it must have a parseable manifest with a non-empty name, and
// either a non-empty .apm/ subtree or a shallow *.prompt.md file.
func ValidatePackage(ctx context.Context, loader ports.ManifestLoaderPort, shape ports.PackageShapePort, root string) (types.Manifest, error) {
	assert.NotEmpty(ctx, root, "root must be set")

	manifest, err := loader.LoadManifest(root)
	if err != nil {
		return types.Manifest{}, err
	}
	if manifest.Name == "" {
		return types.Manifest{}, shared.ErrMalformedManifest("manifest at "+filepath.Join(root, "apm.yml")+" has an empty name", nil)
	}

	hasAPMDir, err := shape.HasNonEmptyAPMDir(root)
	if err != nil {
		return types.Manifest{}, err
	}
	if hasAPMDir {
		return manifest, nil
	}

	hasPrompt, err := shape.HasShallowPromptFile(root, 2)
	if err != nil {
		return types.Manifest{}, err
	}
	if hasPrompt {
		return manifest, nil
	}

	return types.Manifest{}, shared.ErrEmptyPackage("package at " + root + " has neither a non-empty .apm/ directory nor a shallow prompt file")
}
