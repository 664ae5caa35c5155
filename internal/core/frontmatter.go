package core

import (
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/apm-run/apm/internal/shared"
)

const frontmatterDelimiter = "---"

// ParseFrontmatter splits a Markdown file into its YAML frontmatter map
// and body text. A file without a leading "---" line has empty
// frontmatter and the full input as body. Body text after frontmatter
// parsing always equals the original content with the "---"-delimited
// prefix removed — no other transformation occurs (spec.md §8,
// "frontmatter purity").
func ParseFrontmatter(content string) (map[string]any, string, error) {
	lines := strings.Split(content, "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != frontmatterDelimiter {
		return map[string]any{}, content, nil
	}

	closeIdx := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == frontmatterDelimiter {
			closeIdx = i
			break
		}
	}
	if closeIdx == -1 {
		return map[string]any{}, content, nil
	}

	rawFrontmatter := strings.Join(lines[1:closeIdx], "\n")
	body := strings.Join(lines[closeIdx+1:], "\n")

	if strings.TrimSpace(rawFrontmatter) == "" {
		return map[string]any{}, body, nil
	}

	var fm map[string]any
	if err := yaml.Unmarshal([]byte(rawFrontmatter), &fm); err != nil {
		return nil, "", shared.ErrMalformedFrontmatter("failed to parse frontmatter yaml", err)
	}
	if fm == nil {
		fm = map[string]any{}
	}
	return fm, body, nil
}

// FrontmatterString reads a string-typed key from a parsed frontmatter
// map, returning "" when absent or not a string.
func FrontmatterString(fm map[string]any, key string) string {
	value, ok := fm[key]
	if !ok {
		return ""
	}
	str, ok := value.(string)
	if !ok {
		return ""
	}
	return str
}

// FrontmatterStringList reads a list-of-strings key, tolerating a YAML
// sequence of scalars.
func FrontmatterStringList(fm map[string]any, key string) []string {
	value, ok := fm[key]
	if !ok {
		return nil
	}
	raw, ok := value.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if str, ok := item.(string); ok {
			out = append(out, str)
		}
	}
	return out
}
