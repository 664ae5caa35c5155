package adapters

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"github.com/apm-run/apm/internal/core"
	"github.com/apm-run/apm/internal/ports"
	"github.com/apm-run/apm/internal/types"
)

const agentsFileName = "AGENTS.md"

type AGENTSWriterAdapter struct {
	ProjectRoot string
}

func NewAGENTSWriterAdapter(projectRoot string) AGENTSWriterAdapter {
	return AGENTSWriterAdapter{ProjectRoot: projectRoot}
}

// Write renders and atomically writes one output file per directory,
// and skips the write entirely when the rendered bytes already match
// what is on disk, preserving compile's idempotence guarantee
// (spec.md §4.9). fileName is the compilation.output name (default
// AGENTS.md).
func (a AGENTSWriterAdapter) Write(files []types.AGENTSFile, fileName string) error {
	if fileName == "" {
		fileName = agentsFileName
	}
	for _, file := range files {
		rendered := []byte(core.RenderAGENTSFile(file))
		path := filepath.Join(a.ProjectRoot, filepath.FromSlash(file.Directory), fileName)

		existing, err := os.ReadFile(path)
		if err == nil && string(existing) == string(rendered) {
			continue
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to create directory for " + path).
				WithCause(err)
		}
		if err := writeFileAtomic(path, rendered, 0o644); err != nil {
			return err
		}
	}
	return nil
}

// RemoveOrphaned deletes every fileName below projectRoot (excluding
// apm_modules and hidden directories) whose project-relative directory
// is not in keep.
func (a AGENTSWriterAdapter) RemoveOrphaned(projectRoot string, keep []string, fileName string) error {
	if fileName == "" {
		fileName = agentsFileName
	}
	keepSet := map[string]bool{}
	for _, dir := range keep {
		keepSet[dir] = true
	}

	var stale []string
	err := filepath.WalkDir(projectRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != projectRoot && (d.Name() == "apm_modules" || strings.HasPrefix(d.Name(), ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Name() != fileName {
			return nil
		}
		rel, err := filepath.Rel(projectRoot, filepath.Dir(path))
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if rel == "." {
			rel = ""
		}
		if !keepSet[rel] {
			stale = append(stale, path)
		}
		return nil
	})
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to scan for orphaned AGENTS.md files").
			WithCause(err)
	}

	for _, path := range stale {
		if err := os.Remove(path); err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to remove orphaned file " + path).
				WithCause(err)
		}
	}
	return nil
}

var _ ports.AgentsWriterPort = AGENTSWriterAdapter{}
