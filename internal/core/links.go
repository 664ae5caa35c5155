package core

import (
	"path"
	"regexp"
	"strings"
)

// markdownLinkPattern matches inline Markdown links, capturing the
// link text and the target. Links with a scheme (http:, mailto:, etc.)
// or an absolute path are left untouched.
var markdownLinkPattern = regexp.MustCompile(`\[([^\]]*)\]\(([^)\s]+)\)`)

// ResolveMarkdownLinks rewrites relative link targets in body so they
// stay correct when the text is moved from fromDir to toDir, both
// project-root-relative, forward-slashed directories ("" is the
// project root). Spec.md §4.9, compilation.resolve_links.
func ResolveMarkdownLinks(body string, fromDir string, toDir string) string {
	if fromDir == toDir {
		return body
	}
	return markdownLinkPattern.ReplaceAllStringFunc(body, func(match string) string {
		groups := markdownLinkPattern.FindStringSubmatch(match)
		text, target := groups[1], groups[2]
		if isAbsoluteOrSchemedLink(target) {
			return match
		}
		absolute := path.Join(fromDir, target)
		rewritten := relativePath(toDir, absolute)
		return "[" + text + "](" + rewritten + ")"
	})
}

func isAbsoluteOrSchemedLink(target string) bool {
	if strings.HasPrefix(target, "/") || strings.HasPrefix(target, "#") {
		return true
	}
	if idx := strings.Index(target, ":"); idx > 0 && idx < 8 {
		return true
	}
	return false
}

// relativePath computes a slash-separated relative path from base to
// target, both project-root-relative ("" means root).
func relativePath(base, target string) string {
	baseParts := splitNonEmpty(base)
	targetParts := splitNonEmpty(target)

	common := 0
	for common < len(baseParts) && common < len(targetParts) && baseParts[common] == targetParts[common] {
		common++
	}

	var segments []string
	for i := common; i < len(baseParts); i++ {
		segments = append(segments, "..")
	}
	segments = append(segments, targetParts[common:]...)
	if len(segments) == 0 {
		return "."
	}
	return strings.Join(segments, "/")
}

func splitNonEmpty(p string) []string {
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}
