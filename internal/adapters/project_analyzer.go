package adapters

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"github.com/apm-run/apm/internal/ports"
	"github.com/apm-run/apm/internal/types"
)

type ProjectAnalyzerAdapter struct{}

func NewProjectAnalyzerAdapter() ProjectAnalyzerAdapter {
	return ProjectAnalyzerAdapter{}
}

// AnalyzeProject performs the single filesystem walk backing the
// directory analysis cache (C7): per-directory depth, immediate and
// recursive file counts, and children, plus the flat sorted list of
// eligible instruction-target files. Paths are root-relative and
// forward-slashed; the root itself is keyed "".
func (a ProjectAnalyzerAdapter) AnalyzeProject(root string, ignore []string, maxDepth int) (types.ProjectAnalysis, error) {
	dirs := map[string]*types.DirectoryAnalysis{}
	var files []string

	dirs[""] = &types.DirectoryAnalysis{Path: "", Depth: 0, PatternMatches: map[string]int{}}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)
		if rel == "." {
			rel = ""
		}

		if d.IsDir() {
			if rel == "" {
				return nil
			}
			depth := strings.Count(rel, "/") + 1
			if shouldPruneAnalysisDir(d.Name(), ignore) {
				return filepath.SkipDir
			}
			if depth > maxDepth {
				return filepath.SkipDir
			}
			dirs[rel] = &types.DirectoryAnalysis{Path: rel, Depth: depth, PatternMatches: map[string]int{}}
			parent := parentOf(rel)
			if p, ok := dirs[parent]; ok {
				p.Children = append(p.Children, rel)
				p.HasDescendants = true
			}
			return nil
		}

		if strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		parent := parentOf(rel)
		if parentDir, ok := dirs[parent]; ok {
			parentDir.ImmediateFiles++
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return types.ProjectAnalysis{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to analyze project directory tree").
			WithCause(err)
	}

	for _, dir := range dirs {
		sort.Strings(dir.Children)
	}
	computeRecursiveFiles(dirs, "")
	sort.Strings(files)

	return types.ProjectAnalysis{Directories: dirs, Files: files}, nil
}

func computeRecursiveFiles(dirs map[string]*types.DirectoryAnalysis, path string) int {
	dir := dirs[path]
	total := dir.ImmediateFiles
	for _, child := range dir.Children {
		total += computeRecursiveFiles(dirs, child)
	}
	dir.RecursiveFiles = total
	return total
}

func parentOf(rel string) string {
	idx := strings.LastIndex(rel, "/")
	if idx < 0 {
		return ""
	}
	return rel[:idx]
}

func shouldPruneAnalysisDir(name string, ignore []string) bool {
	switch name {
	case ".git", "apm_modules", "node_modules":
		return true
	}
	if strings.HasPrefix(name, ".") {
		return true
	}
	for _, pattern := range ignore {
		if pattern == name {
			return true
		}
	}
	return false
}

var _ ports.ProjectAnalyzerPort = ProjectAnalyzerAdapter{}
