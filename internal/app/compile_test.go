package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/apm-run/apm/internal/adapters"
)

func newSyntheticProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "apm.yml"), []byte("name: demo\nversion: 1.0.0\n"), 0o644))

	instructionsDir := filepath.Join(dir, "src")
	require.NoError(t, os.MkdirAll(instructionsDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(instructionsDir, "go-style.instructions.md"), []byte(
		"---\ndescription: Go style rules\napplyTo: \"**/*.go\"\n---\n\nUse gofmt.\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(instructionsDir, "main.go"), []byte("package main\n"), 0o644))

	return dir
}

func newCompileService(dir string) Service {
	return Service{
		ManifestLoader:  adapters.NewManifestFileAdapter(),
		Walker:          adapters.NewFSWalkerAdapter(),
		FileReader:      adapters.NewFileReaderAdapter(),
		ProjectAnalyzer: adapters.NewProjectAnalyzerAdapter(),
		AgentsWriter:    adapters.NewAGENTSWriterAdapter(dir),
		ConstitutionReader: adapters.NewConstitutionFileAdapter(),
		ProjectRoot:     dir,
	}
}

func TestCompileWritesAGENTSFileNearMatchedInstruction(t *testing.T) {
	dir := newSyntheticProject(t)
	svc := newCompileService(dir)

	result, err := svc.Compile(CompileRequest{})
	require.NoError(t, err)
	require.NotEmpty(t, result.Files)
	require.FileExists(t, filepath.Join(dir, "src", "AGENTS.md"))
}

func TestCompileDryRunWritesNothing(t *testing.T) {
	dir := newSyntheticProject(t)
	svc := newCompileService(dir)

	result, err := svc.Compile(CompileRequest{DryRun: true})
	require.NoError(t, err)
	require.NotEmpty(t, result.Files)
	require.NoFileExists(t, filepath.Join(dir, "src", "AGENTS.md"))
}

func TestCompileHonorsOutputOverride(t *testing.T) {
	dir := newSyntheticProject(t)
	svc := newCompileService(dir)

	_, err := svc.Compile(CompileRequest{Output: "CONTEXT.md"})
	require.NoError(t, err)
	require.FileExists(t, filepath.Join(dir, "src", "CONTEXT.md"))
	require.NoFileExists(t, filepath.Join(dir, "src", "AGENTS.md"))
}

func TestCompileIsIdempotent(t *testing.T) {
	dir := newSyntheticProject(t)
	svc := newCompileService(dir)

	_, err := svc.Compile(CompileRequest{})
	require.NoError(t, err)
	info1, err := os.Stat(filepath.Join(dir, "src", "AGENTS.md"))
	require.NoError(t, err)

	_, err = svc.Compile(CompileRequest{})
	require.NoError(t, err)
	info2, err := os.Stat(filepath.Join(dir, "src", "AGENTS.md"))
	require.NoError(t, err)
	require.Equal(t, info1.ModTime(), info2.ModTime())
}
