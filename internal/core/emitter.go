package core

import (
	"fmt"
	"sort"
	"strings"

	"github.com/apm-run/apm/internal/shared"
	"github.com/apm-run/apm/internal/types"
)

const (
	constitutionBeginMarker = "<!-- SPEC-KIT CONSTITUTION: BEGIN -->"
	constitutionEndMarker   = "<!-- SPEC-KIT CONSTITUTION: END -->"
	constitutionRelPath     = "memory/constitution.md"
)

// BuildAGENTSFiles groups each directory's placed instructions into
// pattern sections (discovery order), attaches the constitution block
// and root chatmode where applicable, and returns one AGENTSFile per
// directory that received at least one placement.
func BuildAGENTSFiles(placements map[string][]types.PlacedInstruction, constitutionContent string, hasConstitution bool, rootChatmode *types.Chatmode, resolveLinks bool) []types.AGENTSFile {
	var dirs []string
	for dir := range placements {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)

	files := make([]types.AGENTSFile, 0, len(dirs))
	for _, dir := range dirs {
		placed := placements[dir]
		if resolveLinks {
			placed = resolveLinksForDir(placed, dir)
		}
		file := types.AGENTSFile{
			Directory: dir,
			Sections:  groupByPattern(placed),
		}
		if dir == "" {
			if hasConstitution {
				file.ConstitutionBody = BuildConstitutionBlock(constitutionContent)
			}
			if rootChatmode != nil {
				file.ChatmodeBody = rootChatmode.Body
			}
		}
		files = append(files, file)
	}
	return files
}

func resolveLinksForDir(placed []types.PlacedInstruction, targetDir string) []types.PlacedInstruction {
	out := make([]types.PlacedInstruction, len(placed))
	for i, p := range placed {
		p.Body = ResolveMarkdownLinks(p.Body, p.SourceDir, targetDir)
		out[i] = p
	}
	return out
}

func groupByPattern(placed []types.PlacedInstruction) []types.Section {
	order := []string{}
	bodies := map[string][]string{}
	for _, p := range placed {
		if _, ok := bodies[p.Pattern]; !ok {
			order = append(order, p.Pattern)
		}
		bodies[p.Pattern] = append(bodies[p.Pattern], p.Body)
	}
	sections := make([]types.Section, 0, len(order))
	for _, pattern := range order {
		sections = append(sections, types.Section{Pattern: pattern, InstructionBodies: bodies[pattern]})
	}
	return sections
}

// BuildConstitutionBlock renders the verbatim constitution block
// (spec.md §4.9): a begin marker, a hash/path line, the file's
// contents, and an end marker.
func BuildConstitutionBlock(content string) string {
	hash := shared.Sha256HexPrefix([]byte(content), 12)
	var b strings.Builder
	b.WriteString(constitutionBeginMarker)
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("hash: %s path: %s\n", hash, constitutionRelPath))
	b.WriteString(content)
	if !strings.HasSuffix(content, "\n") {
		b.WriteString("\n")
	}
	b.WriteString(constitutionEndMarker)
	return b.String()
}

// RenderAGENTSFile produces the final byte content of one AGENTS.md,
// UTF-8 with LF endings and a trailing newline.
func RenderAGENTSFile(file types.AGENTSFile) string {
	var b strings.Builder

	if file.ConstitutionBody != "" {
		b.WriteString(file.ConstitutionBody)
		b.WriteString("\n\n")
	}
	if file.ChatmodeBody != "" {
		b.WriteString(file.ChatmodeBody)
		b.WriteString("\n\n")
	}

	for i, section := range file.Sections {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(fmt.Sprintf("## Files matching `%s`\n\n", section.Pattern))
		b.WriteString(strings.Join(section.InstructionBodies, "\n\n"))
	}

	out := strings.TrimRight(b.String(), "\n")
	return out + "\n"
}
