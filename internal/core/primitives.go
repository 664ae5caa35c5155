package core

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/apm-run/apm/internal/ports"
	"github.com/apm-run/apm/internal/types"
)

// DiscoverPrimitives walks roots via the given walker, classifies each
// candidate file by suffix, parses and validates it, and returns a
// deterministically sorted collection plus any validation warnings
// (spec.md §4.2). A single malformed file never aborts discovery.
func DiscoverPrimitives(walker ports.PrimitiveWalkerPort, reader ports.FileReaderPort, roots []string) (types.PrimitiveCollection, []types.Warning, error) {
	paths, err := walker.FindPrimitiveFiles(roots)
	if err != nil {
		return types.PrimitiveCollection{}, nil, err
	}
	sort.Strings(paths)

	var collection types.PrimitiveCollection
	var warnings []types.Warning

	for _, path := range paths {
		kind, ok := classify(path)
		if !ok {
			continue
		}
		content, err := reader.ReadFile(path)
		if err != nil {
			warnings = append(warnings, types.Warning{
				Kind:       types.WarningMalformedFile,
				SourcePath: path,
				Message:    err.Error(),
			})
			continue
		}
		fm, body, err := ParseFrontmatter(content)
		if err != nil {
			warnings = append(warnings, types.Warning{
				Kind:       types.WarningMalformedFile,
				SourcePath: path,
				Message:    err.Error(),
			})
			continue
		}

		warning, ok := appendPrimitive(&collection, kind, path, fm, body)
		if !ok {
			warnings = append(warnings, warning)
		}
	}

	collection.SortDeterministic()
	return collection, warnings, nil
}

// MergeCollections combines collections discovered from multiple
// roots, in precedence order: a primitive whose name collides with one
// already present in an earlier (higher-precedence) collection is
// dropped. Local project roots should be passed before dependency
// roots so local primitives shadow a dependency's copy of the same name.
func MergeCollections(collections ...types.PrimitiveCollection) types.PrimitiveCollection {
	var merged types.PrimitiveCollection
	seenChatmode := map[string]bool{}
	seenInstruction := map[string]bool{}
	seenContext := map[string]bool{}
	seenWorkflow := map[string]bool{}

	for _, c := range collections {
		for _, p := range c.Chatmodes {
			if seenChatmode[p.Name] {
				continue
			}
			seenChatmode[p.Name] = true
			merged.Chatmodes = append(merged.Chatmodes, p)
		}
		for _, p := range c.Instructions {
			if seenInstruction[p.Name] {
				continue
			}
			seenInstruction[p.Name] = true
			merged.Instructions = append(merged.Instructions, p)
		}
		for _, p := range c.Contexts {
			if seenContext[p.Name] {
				continue
			}
			seenContext[p.Name] = true
			merged.Contexts = append(merged.Contexts, p)
		}
		for _, p := range c.Workflows {
			if seenWorkflow[p.Name] {
				continue
			}
			seenWorkflow[p.Name] = true
			merged.Workflows = append(merged.Workflows, p)
		}
	}

	merged.SortDeterministic()
	return merged
}

func classify(path string) (types.PrimitiveKind, bool) {
	base := filepath.Base(path)
	switch {
	case strings.HasSuffix(base, ".chatmode.md"):
		return types.PrimitiveKindChatmode, true
	case strings.HasSuffix(base, ".instructions.md"):
		return types.PrimitiveKindInstruction, true
	case strings.HasSuffix(base, ".context.md"), strings.HasSuffix(base, ".memory.md"):
		return types.PrimitiveKindContext, true
	case strings.HasSuffix(base, ".prompt.md"):
		return types.PrimitiveKindWorkflow, true
	default:
		return "", false
	}
}

func appendPrimitive(collection *types.PrimitiveCollection, kind types.PrimitiveKind, path string, fm map[string]any, body string) (types.Warning, bool) {
	name := FrontmatterString(fm, "name")
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	description := FrontmatterString(fm, "description")
	applyTo := FrontmatterString(fm, "applyTo")
	body = strings.TrimSpace(body)

	switch kind {
	case types.PrimitiveKindChatmode:
		if description == "" || body == "" {
			return validationWarning(path, "chatmode requires a non-empty description and body"), false
		}
		collection.Chatmodes = append(collection.Chatmodes, types.Chatmode{
			Name:        name,
			Description: description,
			ApplyTo:     applyTo,
			Author:      FrontmatterString(fm, "author"),
			Version:     FrontmatterString(fm, "version"),
			Body:        body,
			SourcePath:  path,
		})
	case types.PrimitiveKindInstruction:
		if description == "" || applyTo == "" || body == "" {
			return validationWarning(path, "instruction requires a non-empty description, applyTo, and body"), false
		}
		if err := ValidateGlob(applyTo); err != nil {
			return validationWarning(path, err.Error()), false
		}
		collection.Instructions = append(collection.Instructions, types.Instruction{
			Name:        name,
			Description: description,
			ApplyTo:     applyTo,
			Author:      FrontmatterString(fm, "author"),
			Version:     FrontmatterString(fm, "version"),
			Body:        body,
			SourcePath:  path,
		})
	case types.PrimitiveKindContext:
		if body == "" {
			return validationWarning(path, "context requires a non-empty body"), false
		}
		collection.Contexts = append(collection.Contexts, types.Context{
			Name:        name,
			Description: description,
			Body:        body,
			SourcePath:  path,
		})
	case types.PrimitiveKindWorkflow:
		if body == "" {
			return validationWarning(path, "workflow requires a non-empty body"), false
		}
		collection.Workflows = append(collection.Workflows, types.Workflow{
			Name:        name,
			Description: description,
			Mode:        FrontmatterString(fm, "mode"),
			Input:       FrontmatterStringList(fm, "input"),
			MCP:         FrontmatterStringList(fm, "mcp"),
			Body:        body,
			SourcePath:  path,
		})
	}
	return types.Warning{}, true
}

func validationWarning(path, message string) types.Warning {
	return types.Warning{
		Kind:       types.WarningKind(warningKindFor(message)),
		SourcePath: path,
		Message:    message,
	}
}

func warningKindFor(message string) types.WarningKind {
	switch {
	case strings.Contains(message, "description"):
		return types.WarningEmptyDescription
	case strings.Contains(message, "applyTo"):
		return types.WarningEmptyApplyTo
	case strings.Contains(message, "body"):
		return types.WarningEmptyBody
	default:
		return types.WarningMalformedFile
	}
}
