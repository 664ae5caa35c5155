package ports

import "github.com/apm-run/apm/internal/types"

// PrimitiveWalkerPort discovers candidate primitive files within
// configured roots. Hidden directories named .apm/ and .github/ are
// followed; other hidden directories are skipped (spec.md §4.2).
type PrimitiveWalkerPort interface {
	FindPrimitiveFiles(roots []string) ([]string, error)
}

// FileReaderPort reads the raw contents of a file discovered by a
// walker port.
type FileReaderPort interface {
	ReadFile(path string) (string, error)
}

// ProjectAnalyzerPort builds the per-directory aggregate cache used by
// the context optimizer (C7).
type ProjectAnalyzerPort interface {
	AnalyzeProject(root string, ignore []string, maxDepth int) (types.ProjectAnalysis, error)
}
