package types

import "sort"

// PrimitiveCollection holds the four ordered primitive lists discovered
// across a set of root directories. Discovery does not check names for
// uniqueness; when collections from several roots are merged
// (core.MergeCollections), a local primitive shadows a dependency's
// primitive of the same kind and name (the caller decides shadowing by
// merge order — local collections are passed first).
type PrimitiveCollection struct {
	Chatmodes    []Chatmode
	Instructions []Instruction
	Contexts     []Context
	Workflows    []Workflow
}

// SortDeterministic orders every list by relative source path using
// byte-wise comparison, guaranteeing deterministic downstream output
// regardless of filesystem walk order.
func (c *PrimitiveCollection) SortDeterministic() {
	sort.Slice(c.Chatmodes, func(i, j int) bool { return c.Chatmodes[i].SourcePath < c.Chatmodes[j].SourcePath })
	sort.Slice(c.Instructions, func(i, j int) bool { return c.Instructions[i].SourcePath < c.Instructions[j].SourcePath })
	sort.Slice(c.Contexts, func(i, j int) bool { return c.Contexts[i].SourcePath < c.Contexts[j].SourcePath })
	sort.Slice(c.Workflows, func(i, j int) bool { return c.Workflows[i].SourcePath < c.Workflows[j].SourcePath })
}

// WarningKind tags a ValidationWarning's cause.
type WarningKind string

const (
	WarningEmptyDescription WarningKind = "empty_description"
	WarningEmptyApplyTo     WarningKind = "empty_apply_to"
	WarningEmptyBody        WarningKind = "empty_body"
	WarningMalformedFile    WarningKind = "malformed_frontmatter"
)

// Warning is a non-fatal discovery problem: the offending file is
// skipped but the walk continues.
type Warning struct {
	Kind       WarningKind
	SourcePath string
	Message    string
}
