package adapters

import (
	"archive/tar"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/apm-run/apm/internal/ports"
	"github.com/apm-run/apm/internal/shared"
)

type TarGzExtractorAdapter struct{}

func NewTarGzExtractorAdapter() TarGzExtractorAdapter {
	return TarGzExtractorAdapter{}
}

// Extract decompresses and untars archive into destDir, stripping the
// single top-level prefix directory the hosting provider wraps every
// tarball entry in (spec.md §4.4) so destDir's immediate children are
// the repository's own root contents.
func (a TarGzExtractorAdapter) Extract(archive io.Reader, destDir string) error {
	gz, err := gzip.NewReader(archive)
	if err != nil {
		return shared.ErrArchiveCorrupt("failed to open gzip stream", err)
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	wroteAny := false
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return shared.ErrArchiveCorrupt("failed to read tar entry", err)
		}

		relPath := stripTopLevel(header.Name)
		if relPath == "" {
			continue
		}
		target := filepath.Join(destDir, relPath)
		if !strings.HasPrefix(target, filepath.Clean(destDir)+string(filepath.Separator)) {
			return shared.ErrArchiveCorrupt("tar entry escapes destination: "+header.Name, nil)
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return shared.ErrArchiveCorrupt("failed to create directory from archive", err)
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return shared.ErrArchiveCorrupt("failed to create parent directory from archive", err)
			}
			out, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, os.FileMode(header.Mode))
			if err != nil {
				return shared.ErrArchiveCorrupt("failed to create file from archive", err)
			}
			written, copyErr := io.Copy(out, tr)
			closeErr := out.Close()
			if copyErr != nil {
				return shared.ErrArchiveCorrupt("failed to write file from archive", copyErr)
			}
			if closeErr != nil {
				return shared.ErrArchiveCorrupt("failed to close extracted file", closeErr)
			}
			if written > 0 {
				wroteAny = true
			}
		default:
			continue
		}
	}

	if !wroteAny {
		return shared.ErrArchiveCorrupt("archive decompressed to zero bytes", nil)
	}
	return nil
}

// stripTopLevel removes the leading path segment ("<owner>-<repo>-<sha>/…")
// GitHub-shaped tarballs wrap every entry in.
func stripTopLevel(name string) string {
	name = filepath.ToSlash(name)
	idx := strings.IndexByte(name, '/')
	if idx < 0 {
		return ""
	}
	return name[idx+1:]
}

var _ ports.ArchiveExtractorPort = TarGzExtractorAdapter{}
