package app

import "github.com/apm-run/apm/internal/types"

// InstallRequest drives C6: resolve the dependency graph rooted at the
// project's apm.yml and fetch every package into apm_modules/.
type InstallRequest struct {
	Only   string
	Update bool
	DryRun bool
}

// InstallResult reports the topological install plan and what the
// installer actually did with each entry.
type InstallResult struct {
	Plan      []types.InstallPlanEntry
	Installed []string
	Skipped   []string
	Warnings  []types.Warning
}

// CompileRequest drives C2+C7+C8+C9: discover primitives, analyze the
// project tree, optimize placements, and emit AGENTS.md files.
type CompileRequest struct {
	Output           string
	Chatmode         string
	DryRun           bool
	NoLinks          bool
	WithConstitution *bool
	Validate         bool
}

// CompileResult is the set of files compile wrote (or would write, for
// --dry-run), the warnings C2 collected, and per-instruction metrics
// from the optimizer.
type CompileResult struct {
	Files    []string
	Warnings []types.Warning
	Metrics  []types.InstructionMetrics
}

// DepsListResult is the flat view of `deps list`: the direct
// dependencies declared in the root manifest plus their resolved lock
// state, if installed.
type DepsListResult struct {
	Entries []DepsListEntry
}

type DepsListEntry struct {
	Owner        string
	Repo         string
	RefRequested string
	ResolvedSHA  string
	Installed    bool
}

// DepsTreeResult is the full recursive dependency graph for `deps tree`.
type DepsTreeResult struct {
	Root *types.DependencyNode
}

// DepsInfoResult answers `deps info <owner>/<repo>` with the installed
// package's manifest and lock metadata.
type DepsInfoResult struct {
	Owner       string
	Repo        string
	Manifest    types.Manifest
	LockEntry   types.LockEntry
	InstallPath string
}

// DepsCleanResult reports what `deps clean` removed.
type DepsCleanResult struct {
	Removed []string
}

// DepsUpdateResult reports what `deps update` changed.
type DepsUpdateResult struct {
	Updated []DepsUpdateEntry
}

type DepsUpdateEntry struct {
	Owner   string
	Repo    string
	FromSHA string
	ToSHA   string
}

// RunRequest drives `apm run <script>`, substituting ${input:<name>}
// placeholders from Params before the resolved command is handed back
// for the CLI to execute.
type RunRequest struct {
	Script  string
	Params  map[string]string
	List    bool
	Preview bool
}

// RunResult is the fully-substituted shell command (for both run and
// Preview), or, when List is set, every declared script in Scripts.
type RunResult struct {
	Command string
	Scripts map[string]string
}

// InitRequest drives `apm init`: write a starter manifest and a sample
// workflow into an empty or existing project.
type InitRequest struct {
	Name  string
	Force bool
}

// InitResult reports what init wrote.
type InitResult struct {
	ManifestPath string
	WorkflowPath string
}
