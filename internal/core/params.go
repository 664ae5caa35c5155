package core

import (
	"regexp"

	"github.com/apm-run/apm/internal/shared"
)

var paramPlaceholderPattern = regexp.MustCompile(`\$\{input:([^}]+)\}`)

// SubstituteParams performs the pre-execution text transform of
// spec.md §4.11: every `${input:<name>}` placeholder in command is
// replaced with params[name]. A placeholder with no corresponding
// entry in params fails with MissingParameter.
func SubstituteParams(command string, params map[string]string) (string, error) {
	var firstErr error
	result := paramPlaceholderPattern.ReplaceAllStringFunc(command, func(match string) string {
		if firstErr != nil {
			return match
		}
		name := paramPlaceholderPattern.FindStringSubmatch(match)[1]
		value, ok := params[name]
		if !ok {
			firstErr = shared.ErrMissingParameter(name)
			return match
		}
		return value
	})
	if firstErr != nil {
		return "", firstErr
	}
	return result, nil
}

// PlaceholderNames returns every `${input:<name>}` name referenced by
// command, in order of first appearance, de-duplicated.
func PlaceholderNames(command string) []string {
	matches := paramPlaceholderPattern.FindAllStringSubmatch(command, -1)
	seen := map[string]bool{}
	var names []string
	for _, m := range matches {
		name := m[1]
		if seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}
