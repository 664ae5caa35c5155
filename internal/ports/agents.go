package ports

import "github.com/apm-run/apm/internal/types"

// AgentsWriterPort writes the rendered AGENTS.md files decided by the
// context optimizer, and removes files left over from a previous
// compile that no placement decision touches this run (spec.md §4.9,
// "clean_orphaned").
type AgentsWriterPort interface {
	Write(files []types.AGENTSFile, fileName string) error
	RemoveOrphaned(projectRoot string, keep []string, fileName string) error
}
