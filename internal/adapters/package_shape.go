package adapters

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"github.com/apm-run/apm/internal/ports"
)

type PackageShapeAdapter struct{}

func NewPackageShapeAdapter() PackageShapeAdapter {
	return PackageShapeAdapter{}
}

func (a PackageShapeAdapter) HasNonEmptyAPMDir(root string) (bool, error) {
	apmDir := filepath.Join(root, ".apm")
	entries, err := os.ReadDir(apmDir)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to read " + apmDir).
			WithCause(err)
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			if entry.Name() != "" {
				return true, nil
			}
			continue
		}
		subEntries, err := os.ReadDir(filepath.Join(apmDir, entry.Name()))
		if err != nil {
			continue
		}
		if len(subEntries) > 0 {
			return true, nil
		}
	}
	return false, nil
}

func (a PackageShapeAdapter) HasShallowPromptFile(root string, maxDepth int) (bool, error) {
	found := false
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if found {
			return filepath.SkipAll
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)
		depth := 0
		if rel != "." {
			depth = strings.Count(rel, "/") + 1
		}
		if d.IsDir() {
			if depth > maxDepth {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(d.Name(), ".prompt.md") && depth <= maxDepth {
			found = true
		}
		return nil
	})
	if err != nil {
		return false, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to scan for prompt files under " + root).
			WithCause(err)
	}
	return found, nil
}

var _ ports.PackageShapePort = PackageShapeAdapter{}
