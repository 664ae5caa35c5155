package core

import (
	"sort"
	"strings"

	"github.com/apm-run/apm/internal/shared"
	"github.com/apm-run/apm/internal/types"
)

const (
	distributionSinglePointMax = 0.3
	distributionDistributedMin = 0.7
)

// OptimizePlacements solves the per-instruction placement problem of
// §4.8: for every instruction, select the directories that receive an
// AGENTS.md section for it, guaranteeing the hard coverage constraint
// while minimizing pollution and preferring deeper (more local)
// placements. opt is accepted but not read: placements come from the
// three-tier heuristic and coverage verification alone, and no weighted
// score or tie-break among coverage-complete placements is computed.
func OptimizePlacements(analysis types.ProjectAnalysis, instructions []types.Instruction, opt types.OptimizationConfig) (types.PlacementResult, error) {
	result := types.PlacementResult{Placements: map[string][]types.PlacedInstruction{}}

	dirsWithFiles := DirsWithFiles(analysis)
	totalDirsWithFiles := len(dirsWithFiles)

	for _, instr := range instructions {
		matchingFiles, err := MatchingFiles(analysis, instr.ApplyTo)
		if err != nil {
			return types.PlacementResult{}, err
		}
		if len(matchingFiles) == 0 {
			continue
		}

		matchingDirs, err := MatchingDirs(analysis, instr.ApplyTo)
		if err != nil {
			return types.PlacementResult{}, err
		}

		score := distributionScore(matchingDirs, totalDirsWithFiles)
		placements, strategy := selectPlacements(matchingDirs, score)
		placements, strategy = verifyCoverage(placements, strategy, matchingFiles)

		pollution := pollutionEstimate(analysis, placements, matchingFiles)

		result.Metrics = append(result.Metrics, types.InstructionMetrics{
			InstructionName:   instr.Name,
			Strategy:          strategy,
			DistributionScore: score,
			CoverageRatio:     1.0,
			PollutionEstimate: pollution,
		})

		for _, dir := range placements {
			result.Placements[dir] = append(result.Placements[dir], types.PlacedInstruction{
				Pattern:     instr.ApplyTo,
				Body:        instr.Body,
				Instruction: instr.Name,
				SourceDir:   dirOf(shared.NormalizePath(instr.SourcePath)),
			})
		}
	}

	return result, nil
}

func distributionScore(matchingDirs []string, totalDirsWithFiles int) float64 {
	denom := totalDirsWithFiles
	if denom < 1 {
		denom = 1
	}
	baseRatio := float64(len(matchingDirs)) / float64(denom)

	if len(matchingDirs) == 0 {
		return 0
	}
	meanDepth := 0.0
	for _, d := range matchingDirs {
		meanDepth += float64(depthOf(d))
	}
	meanDepth /= float64(len(matchingDirs))

	variance := 0.0
	for _, d := range matchingDirs {
		delta := float64(depthOf(d)) - meanDepth
		variance += delta * delta
	}
	variance /= float64(len(matchingDirs))

	return baseRatio * (1.0 + variance*0.5)
}

func selectPlacements(matchingDirs []string, score float64) ([]string, types.StrategyTag) {
	switch {
	case score < distributionSinglePointMax:
		return []string{lowestCommonAncestor(matchingDirs)}, types.StrategySinglePoint
	case score <= distributionDistributedMin:
		return selectiveMultiPlacements(matchingDirs), types.StrategySelectiveMulti
	default:
		return []string{""}, types.StrategyDistributed
	}
}

// selectiveMultiPlacements keeps every matching directory except those
// already covered by an ancestor also present in the set, processing
// shallowest-first so promoted ancestors subsume their descendants.
func selectiveMultiPlacements(matchingDirs []string) []string {
	sorted := append([]string{}, matchingDirs...)
	sort.Slice(sorted, func(i, j int) bool {
		di, dj := depthOf(sorted[i]), depthOf(sorted[j])
		if di != dj {
			return di < dj
		}
		return sorted[i] < sorted[j]
	})

	var placements []string
	for _, d := range sorted {
		if !hasAncestorIn(placements, d) {
			placements = append(placements, d)
		}
	}
	sort.Strings(placements)
	return placements
}

func verifyCoverage(placements []string, strategy types.StrategyTag, matchingFiles []string) ([]string, types.StrategyTag) {
	uncovered := uncoveredFiles(placements, matchingFiles)
	if len(uncovered) == 0 {
		return placements, strategy
	}

	points := append([]string{}, placements...)
	for _, f := range uncovered {
		points = append(points, dirOf(f))
	}
	lca := lowestCommonAncestor(points)
	if lca == "" {
		return []string{""}, types.StrategyRootFallback
	}
	return []string{lca}, strategy
}

func uncoveredFiles(placements []string, matchingFiles []string) []string {
	var uncovered []string
	for _, f := range matchingFiles {
		dir := dirOf(f)
		if !hasAncestorIn(placements, dir) {
			uncovered = append(uncovered, f)
		}
	}
	return uncovered
}

func hasAncestorIn(placements []string, dir string) bool {
	for _, p := range placements {
		if isAncestorOrEqual(p, dir) {
			return true
		}
	}
	return false
}

func isAncestorOrEqual(ancestor, dir string) bool {
	if ancestor == "" {
		return true
	}
	if ancestor == dir {
		return true
	}
	return strings.HasPrefix(dir, ancestor+"/")
}

func lowestCommonAncestor(dirs []string) string {
	if len(dirs) == 0 {
		return ""
	}
	sorted := append([]string{}, dirs...)
	sort.Strings(sorted)

	common := strings.Split(sorted[0], "/")
	if sorted[0] == "" {
		common = nil
	}
	for _, d := range sorted[1:] {
		var parts []string
		if d != "" {
			parts = strings.Split(d, "/")
		}
		common = commonPrefix(common, parts)
		if len(common) == 0 {
			return ""
		}
	}
	return strings.Join(common, "/")
}

func commonPrefix(a, b []string) []string {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return a[:i]
}

func pollutionEstimate(analysis types.ProjectAnalysis, placements []string, matchingFiles []string) int {
	total := 0
	for _, p := range placements {
		recursive := 0
		if dir, ok := analysis.Directories[p]; ok {
			recursive = dir.RecursiveFiles
		}
		matchesUnder := 0
		for _, f := range matchingFiles {
			if isAncestorOrEqual(p, dirOf(f)) {
				matchesUnder++
			}
		}
		pollution := recursive - matchesUnder
		if pollution > 0 {
			total += pollution
		}
	}
	return total
}
