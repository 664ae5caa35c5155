package app

import (
	"os"
	"path/filepath"

	"github.com/apm-run/apm/internal/core"
	"github.com/apm-run/apm/internal/shared"
	"github.com/apm-run/apm/internal/types"
)

// Compile drives C2+C7+C8+C9: discover primitives across the project
// and its installed dependencies, analyze the directory tree, optimize
// each instruction's placement, and emit (or, for --dry-run, merely
// report) the resulting AGENTS.md files.
func (s Service) Compile(req CompileRequest) (CompileResult, error) {
	manifest, err := s.ManifestLoader.LoadManifest(s.ProjectRoot)
	if err != nil {
		return CompileResult{}, err
	}
	compilation := manifest.Compilation

	output := compilation.Output
	if req.Output != "" {
		output = req.Output
	}
	if output == "" {
		output = defaultOutputFileName
	}

	resolveLinks := compilation.ResolveLinks && !req.NoLinks

	withConstitution := compilation.Constitution.Enabled
	if req.WithConstitution != nil {
		withConstitution = *req.WithConstitution
	}

	roots := []string{s.ProjectRoot}
	roots = append(roots, s.dependencyRoots()...)

	var collections []types.PrimitiveCollection
	var warnings []types.Warning
	for _, root := range roots {
		collection, rootWarnings, err := core.DiscoverPrimitives(s.Walker, s.FileReader, []string{root})
		if err != nil {
			return CompileResult{}, err
		}
		collections = append(collections, collection)
		warnings = append(warnings, rootWarnings...)
	}
	primitives := core.MergeCollections(collections...)

	if req.Validate && len(warnings) > 0 {
		return CompileResult{Warnings: warnings}, shared.ErrValidationWarning(len(warnings))
	}

	analysis, err := s.ProjectAnalyzer.AnalyzeProject(s.ProjectRoot, compilation.Placement.Ignore, compilation.Placement.MaxWalkDepth)
	if err != nil {
		return CompileResult{}, err
	}

	placementResult, err := core.OptimizePlacements(analysis, primitives.Instructions, compilation.Optimization)
	if err != nil {
		return CompileResult{}, err
	}

	var rootChatmode *types.Chatmode
	chatmodeName := compilation.Chatmode
	if req.Chatmode != "" {
		chatmodeName = req.Chatmode
	}
	if chatmodeName != "" {
		for i := range primitives.Chatmodes {
			if primitives.Chatmodes[i].Name == chatmodeName {
				rootChatmode = &primitives.Chatmodes[i]
				break
			}
		}
	}

	var constitutionContent string
	hasConstitution := false
	if withConstitution {
		constitutionPath := compilation.Constitution.Path
		if constitutionPath == "" {
			constitutionPath = "memory/constitution.md"
		}
		constitutionContent, hasConstitution, err = s.ConstitutionReader.ReadConstitution(filepath.Join(s.ProjectRoot, filepath.FromSlash(constitutionPath)))
		if err != nil {
			return CompileResult{}, err
		}
	}

	agentsFiles := core.BuildAGENTSFiles(placementResult.Placements, constitutionContent, hasConstitution, rootChatmode, resolveLinks)

	var writtenDirs []string
	for _, f := range agentsFiles {
		writtenDirs = append(writtenDirs, f.Directory)
	}

	if req.DryRun {
		return CompileResult{Files: renderedPaths(s.ProjectRoot, writtenDirs, output), Warnings: warnings, Metrics: placementResult.Metrics}, nil
	}

	if err := s.AgentsWriter.Write(agentsFiles, output); err != nil {
		return CompileResult{}, err
	}
	if compilation.Placement.CleanOrphaned {
		if err := s.AgentsWriter.RemoveOrphaned(s.ProjectRoot, writtenDirs, output); err != nil {
			return CompileResult{}, err
		}
	}

	return CompileResult{Files: renderedPaths(s.ProjectRoot, writtenDirs, output), Warnings: warnings, Metrics: placementResult.Metrics}, nil
}

const defaultOutputFileName = "AGENTS.md"

func renderedPaths(projectRoot string, dirs []string, fileName string) []string {
	paths := make([]string, 0, len(dirs))
	for _, dir := range dirs {
		paths = append(paths, filepath.Join(projectRoot, filepath.FromSlash(dir), fileName))
	}
	return paths
}

// dependencyRoots lists every installed package directory under
// apm_modules/<owner>/<repo>, walked after the project root so local
// primitives shadow a dependency's copy of the same name.
func (s Service) dependencyRoots() []string {
	base := filepath.Join(s.ProjectRoot, modulesDirName)
	owners, err := os.ReadDir(base)
	if err != nil {
		return nil
	}
	var roots []string
	for _, owner := range owners {
		if !owner.IsDir() {
			continue
		}
		ownerPath := filepath.Join(base, owner.Name())
		repos, err := os.ReadDir(ownerPath)
		if err != nil {
			continue
		}
		for _, repo := range repos {
			if !repo.IsDir() {
				continue
			}
			roots = append(roots, filepath.Join(ownerPath, repo.Name()))
		}
	}
	return roots
}
