package app

import (
	"github.com/ZanzyTHEbar/errbuilder-go"

	"github.com/apm-run/apm/internal/core"
)

// Run resolves req.Script against the manifest's scripts map and
// performs `${input:<name>}` substitution (spec.md §4.11). List
// short-circuits before lookup and substitution and returns every
// declared script. Preview is not read here: a preview request takes
// the same lookup-and-substitution path as `run` and gets the resolved
// command back; not executing it is left to the caller.
func (s Service) Run(req RunRequest) (RunResult, error) {
	manifest, err := s.ManifestLoader.LoadManifest(s.ProjectRoot)
	if err != nil {
		return RunResult{}, err
	}

	if req.List {
		scripts := map[string]string{}
		for name, command := range manifest.Scripts {
			scripts[name] = command
		}
		return RunResult{Scripts: scripts}, nil
	}

	command, ok := manifest.Scripts[req.Script]
	if !ok {
		return RunResult{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("no script named \"" + req.Script + "\" in apm.yml")
	}

	resolved, err := core.SubstituteParams(command, req.Params)
	if err != nil {
		return RunResult{}, err
	}

	return RunResult{Command: resolved}, nil
}
