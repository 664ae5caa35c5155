package adapters

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/apm-run/apm/internal/ports"
	"github.com/apm-run/apm/internal/shared"
	"github.com/apm-run/apm/internal/types"
)

const manifestFileName = "apm.yml"

// rawManifest mirrors apm.yml's on-disk shape; yaml.Node is used for
// extras so unknown top-level keys survive round-tripping without the
// core needing to interpret them.
type rawManifest struct {
	Name        string                 `yaml:"name"`
	Version     string                 `yaml:"version"`
	Description string                 `yaml:"description"`
	Author      string                 `yaml:"author"`
	Scripts     map[string]string      `yaml:"scripts"`
	Dependencies rawDependencies       `yaml:"dependencies"`
	Compilation *rawCompilation        `yaml:"compilation"`
	Extras      map[string]interface{} `yaml:",inline"`
}

type rawDependencies struct {
	APM []string `yaml:"apm"`
	MCP []string `yaml:"mcp"`
}

type rawCompilation struct {
	Output       *string             `yaml:"output"`
	Chatmode     *string             `yaml:"chatmode"`
	ResolveLinks *bool               `yaml:"resolve_links"`
	Placement    *rawPlacement       `yaml:"placement"`
	Optimization *rawOptimization    `yaml:"optimization"`
	Constitution *rawConstitution    `yaml:"constitution"`
}

type rawPlacement struct {
	Ignore          []string `yaml:"ignore"`
	CleanOrphaned   *bool    `yaml:"clean_orphaned"`
	MaxWalkDepth    *int     `yaml:"max_walk_depth"`
	MaxAnalysisSize *int     `yaml:"max_analysis_size"`
}

type rawOptimization struct {
	CoverageWeight  *float64 `yaml:"coverage_weight"`
	PollutionWeight *float64 `yaml:"pollution_weight"`
	LocalityWeight  *float64 `yaml:"locality_weight"`
	DepthPenalty    *float64 `yaml:"depth_penalty"`
	MaxDepthPenalty *int     `yaml:"max_depth_penalty"`
}

type rawConstitution struct {
	Enabled *bool   `yaml:"enabled"`
	Path    *string `yaml:"path"`
}

type ManifestFileAdapter struct{}

func NewManifestFileAdapter() ManifestFileAdapter {
	return ManifestFileAdapter{}
}

// LoadManifest reads and validates apm.yml under packageRoot, filling
// missing compilation fields from types.DefaultCompilationConfig
// (spec.md §4.10).
func (a ManifestFileAdapter) LoadManifest(packageRoot string) (types.Manifest, error) {
	path := filepath.Join(packageRoot, manifestFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return types.Manifest{}, shared.ErrMissingManifest("no apm.yml found at "+path, err)
		}
		return types.Manifest{}, shared.ErrMissingManifest("failed to read "+path, err)
	}

	var raw rawManifest
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return types.Manifest{}, shared.ErrMalformedManifest("failed to parse "+path, err)
	}
	if raw.Name == "" {
		return types.Manifest{}, shared.ErrMalformedManifest(path+": field \"name\" must be non-empty", nil)
	}
	if raw.Version == "" {
		return types.Manifest{}, shared.ErrMalformedManifest(path+": field \"version\" must be non-empty", nil)
	}

	manifest := types.Manifest{
		Name:        raw.Name,
		Version:     raw.Version,
		Description: raw.Description,
		Author:      raw.Author,
		Scripts:     raw.Scripts,
		Dependencies: types.ManifestDependencies{
			APM: raw.Dependencies.APM,
			MCP: raw.Dependencies.MCP,
		},
		Compilation: mergeCompilation(raw.Compilation),
		Extras:      raw.Extras,
	}
	return manifest, nil
}

func mergeCompilation(raw *rawCompilation) types.CompilationConfig {
	cfg := types.DefaultCompilationConfig()
	if raw == nil {
		return cfg
	}
	if raw.Output != nil {
		cfg.Output = *raw.Output
	}
	if raw.Chatmode != nil {
		cfg.Chatmode = *raw.Chatmode
	}
	if raw.ResolveLinks != nil {
		cfg.ResolveLinks = *raw.ResolveLinks
	}
	if raw.Placement != nil {
		if raw.Placement.Ignore != nil {
			cfg.Placement.Ignore = raw.Placement.Ignore
		}
		if raw.Placement.CleanOrphaned != nil {
			cfg.Placement.CleanOrphaned = *raw.Placement.CleanOrphaned
		}
		if raw.Placement.MaxWalkDepth != nil {
			cfg.Placement.MaxWalkDepth = *raw.Placement.MaxWalkDepth
		}
		if raw.Placement.MaxAnalysisSize != nil {
			cfg.Placement.MaxAnalysisSize = *raw.Placement.MaxAnalysisSize
		}
	}
	if raw.Optimization != nil {
		if raw.Optimization.CoverageWeight != nil {
			cfg.Optimization.CoverageWeight = *raw.Optimization.CoverageWeight
		}
		if raw.Optimization.PollutionWeight != nil {
			cfg.Optimization.PollutionWeight = *raw.Optimization.PollutionWeight
		}
		if raw.Optimization.LocalityWeight != nil {
			cfg.Optimization.LocalityWeight = *raw.Optimization.LocalityWeight
		}
		if raw.Optimization.DepthPenalty != nil {
			cfg.Optimization.DepthPenalty = *raw.Optimization.DepthPenalty
		}
		if raw.Optimization.MaxDepthPenalty != nil {
			cfg.Optimization.MaxDepthPenalty = *raw.Optimization.MaxDepthPenalty
		}
	}
	if raw.Constitution != nil {
		if raw.Constitution.Enabled != nil {
			cfg.Constitution.Enabled = *raw.Constitution.Enabled
		}
		if raw.Constitution.Path != nil {
			cfg.Constitution.Path = *raw.Constitution.Path
		}
	}
	return cfg
}

var _ ports.ManifestLoaderPort = ManifestFileAdapter{}
