package core

import (
	"sort"
	"strings"

	"github.com/apm-run/apm/internal/types"
)

// DirsWithFiles returns the sorted set of directory paths (relative to
// the project root, forward-slashed) that have at least one immediate
// file, used as the denominator of the distribution score (spec.md §4.8).
func DirsWithFiles(analysis types.ProjectAnalysis) []string {
	var out []string
	for path, dir := range analysis.Directories {
		if dir.ImmediateFiles > 0 {
			out = append(out, path)
		}
	}
	sort.Strings(out)
	return out
}

// MatchingDirs returns the sorted set of directories containing at
// least one file matching pattern.
func MatchingDirs(analysis types.ProjectAnalysis, pattern string) ([]string, error) {
	set := map[string]bool{}
	for _, file := range analysis.Files {
		matched, err := MatchGlob(pattern, file)
		if err != nil {
			return nil, err
		}
		if matched {
			set[dirOf(file)] = true
		}
	}
	var out []string
	for dir := range set {
		out = append(out, dir)
	}
	sort.Strings(out)
	return out, nil
}

// MatchingFiles returns the sorted set of project files matching pattern.
func MatchingFiles(analysis types.ProjectAnalysis, pattern string) ([]string, error) {
	var out []string
	for _, file := range analysis.Files {
		matched, err := MatchGlob(pattern, file)
		if err != nil {
			return nil, err
		}
		if matched {
			out = append(out, file)
		}
	}
	sort.Strings(out)
	return out, nil
}

func dirOf(file string) string {
	idx := strings.LastIndex(file, "/")
	if idx < 0 {
		return ""
	}
	return file[:idx]
}

func depthOf(path string) int {
	if path == "." || path == "" {
		return 0
	}
	return strings.Count(path, "/") + 1
}
