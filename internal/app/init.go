package app

import (
	"os"
	"path/filepath"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

const starterWorkflowBody = `---
name: hello-world
description: A starter workflow that greets whoever runs it.
---

Say hello to ${input:name}.
`

// Init writes a starter apm.yml and a sample workflow into ProjectRoot
// (spec.md §4.11: init does not touch C4–C9). Refuses to overwrite an
// existing manifest unless req.Force is set.
func (s Service) Init(req InitRequest) (InitResult, error) {
	name := req.Name
	if name == "" {
		name = filepath.Base(s.ProjectRoot)
	}

	manifestPath := filepath.Join(s.ProjectRoot, "apm.yml")
	if _, err := os.Stat(manifestPath); err == nil && !req.Force {
		return InitResult{}, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(manifestPath + " already exists; pass --force to overwrite")
	}

	manifestBody := starterManifest(name)
	if err := os.WriteFile(manifestPath, []byte(manifestBody), 0o644); err != nil {
		return InitResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write " + manifestPath).
			WithCause(err)
	}

	workflowDir := filepath.Join(s.ProjectRoot, ".apm", "workflows")
	if err := os.MkdirAll(workflowDir, 0o755); err != nil {
		return InitResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create " + workflowDir).
			WithCause(err)
	}
	workflowPath := filepath.Join(workflowDir, "hello-world.prompt.md")
	if err := os.WriteFile(workflowPath, []byte(starterWorkflowBody), 0o644); err != nil {
		return InitResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write " + workflowPath).
			WithCause(err)
	}

	return InitResult{ManifestPath: manifestPath, WorkflowPath: workflowPath}, nil
}

func starterManifest(name string) string {
	return "name: " + name + "\n" +
		"version: 0.1.0\n" +
		"scripts:\n" +
		"  start: \"codex .apm/workflows/hello-world.prompt.md\"\n" +
		"dependencies:\n" +
		"  apm: []\n" +
		"  mcp: []\n" +
		"compilation:\n" +
		"  output: AGENTS.md\n" +
		"  resolve_links: true\n"
}
