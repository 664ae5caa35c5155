package core

import (
	"strings"

	"github.com/bmatcuk/doublestar"

	"github.com/apm-run/apm/internal/shared"
)

// MatchGlob matches a project-root-relative path (forward slashes)
// against a POSIX-shell-plus-"**" glob pattern (spec.md §4.1). A
// pattern without a "/" matches at any depth, equivalent to
// "**/<pattern>".
func MatchGlob(pattern string, path string) (bool, error) {
	normalizedPath := shared.NormalizePath(path)
	normalizedPattern := normalizePattern(pattern)

	matched, err := doublestar.Match(normalizedPattern, normalizedPath)
	if err != nil {
		return false, shared.ErrInvalidGlob("unsupported glob pattern: "+pattern, err)
	}
	return matched, nil
}

// ValidateGlob reports whether a pattern is syntactically well-formed
// without matching it against anything.
func ValidateGlob(pattern string) error {
	_, err := doublestar.Match(normalizePattern(pattern), "")
	if err != nil {
		return shared.ErrInvalidGlob("unsupported glob pattern: "+pattern, err)
	}
	return nil
}

func normalizePattern(pattern string) string {
	normalized := shared.NormalizePath(pattern)
	if !strings.Contains(normalized, "/") {
		return "**/" + normalized
	}
	return normalized
}
