package adapters

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"github.com/apm-run/apm/internal/ports"
)

// followedHiddenDirs lists hidden directory names whose contents are
// still scanned for primitives (spec.md §4.2).
var followedHiddenDirs = map[string]bool{
	".apm":    true,
	".github": true,
}

type FSWalkerAdapter struct{}

func NewFSWalkerAdapter() FSWalkerAdapter {
	return FSWalkerAdapter{}
}

// FindPrimitiveFiles walks each root looking for Markdown files
// (".md", ".mdc") that may carry typed primitive frontmatter. apm_modules
// and other hidden directories (other than .apm and .github) are pruned.
func (a FSWalkerAdapter) FindPrimitiveFiles(roots []string) ([]string, error) {
	var paths []string
	for _, root := range roots {
		if root == "" {
			continue
		}
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && shouldPruneDir(d.Name()) {
					return filepath.SkipDir
				}
				return nil
			}
			if isMarkdownFile(path) {
				paths = append(paths, path)
			}
			return nil
		})
		if err != nil {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to scan for primitive files").
				WithCause(err)
		}
	}
	return paths, nil
}

func shouldPruneDir(name string) bool {
	if name == "apm_modules" || name == "node_modules" {
		return true
	}
	if strings.HasPrefix(name, ".") && !followedHiddenDirs[name] {
		return true
	}
	return false
}

func isMarkdownFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".md" || ext == ".mdc"
}

var _ ports.PrimitiveWalkerPort = FSWalkerAdapter{}

type FileReaderAdapter struct{}

func NewFileReaderAdapter() FileReaderAdapter {
	return FileReaderAdapter{}
}

func (a FileReaderAdapter) ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("failed to read file: " + path).
			WithCause(err)
	}
	return string(data), nil
}

var _ ports.FileReaderPort = FileReaderAdapter{}
