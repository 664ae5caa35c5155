package types

// Manifest is the parsed form of a project's apm.yml file.
type Manifest struct {
	Name         string
	Version      string
	Description  string
	Author       string
	Scripts      map[string]string
	Dependencies ManifestDependencies
	Compilation  CompilationConfig

	// Extras preserves unknown top-level keys so round-tripping a
	// manifest a caller doesn't fully understand never loses data.
	Extras map[string]any
}

// ManifestDependencies holds the two dependency lists a manifest can
// declare. MCP identifiers are opaque to the core; only the ordered
// list of apm package references is interpreted by the resolver.
type ManifestDependencies struct {
	APM []string
	MCP []string
}

// CompilationConfig controls how `compile` emits AGENTS.md files.
type CompilationConfig struct {
	Output       string
	Chatmode     string
	ResolveLinks bool
	Placement    PlacementConfig
	Optimization OptimizationConfig
	Constitution ConstitutionConfig
}

// PlacementConfig overrides the optimizer's default directory pruning
// and orphan-cleanup behavior.
type PlacementConfig struct {
	Ignore          []string
	CleanOrphaned   bool
	MaxWalkDepth    int
	MaxAnalysisSize int
}

// OptimizationConfig exposes the weighted objective terms from
// spec.md §4.8. Zero values are filled with the documented defaults.
type OptimizationConfig struct {
	CoverageWeight  float64
	PollutionWeight float64
	LocalityWeight  float64
	DepthPenalty    float64
	MaxDepthPenalty int
}

// ConstitutionConfig controls whether the root AGENTS.md is prefixed
// with the verbatim contents of memory/constitution.md.
type ConstitutionConfig struct {
	Enabled bool
	Path    string
}

// DefaultCompilationConfig returns the documented defaults for a
// manifest that omits the `compilation` block entirely.
func DefaultCompilationConfig() CompilationConfig {
	return CompilationConfig{
		Output:       "AGENTS.md",
		ResolveLinks: true,
		Placement: PlacementConfig{
			Ignore:          []string{".git", "apm_modules", "node_modules"},
			CleanOrphaned:   false,
			MaxWalkDepth:    12,
			MaxAnalysisSize: 12,
		},
		Optimization: DefaultOptimizationConfig(),
		Constitution: ConstitutionConfig{
			Enabled: true,
			Path:    "memory/constitution.md",
		},
	}
}

// DefaultOptimizationConfig returns the weighting constants documented
// in spec.md §4.8.
func DefaultOptimizationConfig() OptimizationConfig {
	return OptimizationConfig{
		CoverageWeight:  1.0,
		PollutionWeight: 0.8,
		LocalityWeight:  0.3,
		DepthPenalty:    0.1,
		MaxDepthPenalty: 8,
	}
}
