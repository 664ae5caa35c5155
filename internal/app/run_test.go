package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/apm-run/apm/internal/adapters"
)

func serviceWithManifest(t *testing.T, contents string) Service {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "apm.yml"), []byte(contents), 0o644))
	return Service{
		ManifestLoader: adapters.NewManifestFileAdapter(),
		ProjectRoot:    dir,
	}
}

func TestRunSubstitutesParams(t *testing.T) {
	svc := serviceWithManifest(t, "name: demo\nversion: 1.0.0\nscripts:\n  greet: echo ${input:name}\n")

	result, err := svc.Run(RunRequest{Script: "greet", Params: map[string]string{"name": "world"}})
	require.NoError(t, err)
	require.Equal(t, "echo world", result.Command)
}

func TestRunMissingParameter(t *testing.T) {
	svc := serviceWithManifest(t, "name: demo\nversion: 1.0.0\nscripts:\n  greet: echo ${input:name}\n")

	_, err := svc.Run(RunRequest{Script: "greet"})
	require.Error(t, err)
}

func TestRunUnknownScript(t *testing.T) {
	svc := serviceWithManifest(t, "name: demo\nversion: 1.0.0\nscripts:\n  build: go build ./...\n")

	_, err := svc.Run(RunRequest{Script: "missing"})
	require.Error(t, err)
}

func TestRunList(t *testing.T) {
	svc := serviceWithManifest(t, "name: demo\nversion: 1.0.0\nscripts:\n  build: go build ./...\n  test: go test ./...\n")

	result, err := svc.Run(RunRequest{List: true})
	require.NoError(t, err)
	require.Len(t, result.Scripts, 2)
	require.Equal(t, "go build ./...", result.Scripts["build"])
}
