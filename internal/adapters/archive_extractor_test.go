package adapters

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func buildTarGz(t *testing.T, entries map[string]string) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)

	for name, content := range entries {
		require.NoError(t, tw.WriteHeader(&tar.Header{
			Name: name,
			Mode: 0o644,
			Size: int64(len(content)),
		}))
		_, err := tw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
	return &buf
}

func TestTarGzExtractorStripsTopLevelDirectory(t *testing.T) {
	archive := buildTarGz(t, map[string]string{
		"acme-repo-deadbeef/apm.yml":     "name: demo\nversion: 1.0.0\n",
		"acme-repo-deadbeef/src/main.go": "package main\n",
	})
	dest := t.TempDir()

	require.NoError(t, NewTarGzExtractorAdapter().Extract(archive, dest))
	require.FileExists(t, filepath.Join(dest, "apm.yml"))
	require.FileExists(t, filepath.Join(dest, "src", "main.go"))
}

func TestTarGzExtractorRejectsPathTraversal(t *testing.T) {
	archive := buildTarGz(t, map[string]string{
		"acme-repo-deadbeef/../../etc/passwd": "malicious",
	})
	dest := t.TempDir()

	err := NewTarGzExtractorAdapter().Extract(archive, dest)
	require.Error(t, err)
}

func TestTarGzExtractorRejectsEmptyArchive(t *testing.T) {
	archive := buildTarGz(t, map[string]string{})
	dest := t.TempDir()

	err := NewTarGzExtractorAdapter().Extract(archive, dest)
	require.Error(t, err)
}

func TestTarGzExtractorRejectsCorruptGzip(t *testing.T) {
	dest := t.TempDir()
	err := NewTarGzExtractorAdapter().Extract(bytes.NewReader([]byte("not gzip data")), dest)
	require.Error(t, err)
}
