package core

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/apm-run/apm/internal/types"
)

type fakeManifestLoader struct {
	manifest types.Manifest
	err      error
}

func (f fakeManifestLoader) LoadManifest(string) (types.Manifest, error) {
	return f.manifest, f.err
}

type fakePackageShape struct {
	hasAPMDir    bool
	apmDirErr    error
	hasPrompt    bool
	promptErr    error
}

func (f fakePackageShape) HasNonEmptyAPMDir(string) (bool, error) {
	return f.hasAPMDir, f.apmDirErr
}

func (f fakePackageShape) HasShallowPromptFile(string, int) (bool, error) {
	return f.hasPrompt, f.promptErr
}

func TestValidatePackagePropagatesLoaderError(t *testing.T) {
	loader := fakeManifestLoader{err: errors.New("manifest load failed")}
	_, err := ValidatePackage(context.Background(), loader, fakePackageShape{}, "/pkg")
	require.Error(t, err)
}

func TestValidatePackageRejectsEmptyName(t *testing.T) {
	loader := fakeManifestLoader{manifest: types.Manifest{Name: ""}}
	_, err := ValidatePackage(context.Background(), loader, fakePackageShape{hasAPMDir: true}, "/pkg")
	require.Error(t, err)
}

func TestValidatePackageAcceptsNonEmptyAPMDir(t *testing.T) {
	loader := fakeManifestLoader{manifest: types.Manifest{Name: "demo"}}
	manifest, err := ValidatePackage(context.Background(), loader, fakePackageShape{hasAPMDir: true}, "/pkg")
	require.NoError(t, err)
	require.Equal(t, "demo", manifest.Name)
}

func TestValidatePackageAcceptsShallowPromptFile(t *testing.T) {
	loader := fakeManifestLoader{manifest: types.Manifest{Name: "demo"}}
	manifest, err := ValidatePackage(context.Background(), loader, fakePackageShape{hasAPMDir: false, hasPrompt: true}, "/pkg")
	require.NoError(t, err)
	require.Equal(t, "demo", manifest.Name)
}

func TestValidatePackageRejectsEmptyPackage(t *testing.T) {
	loader := fakeManifestLoader{manifest: types.Manifest{Name: "demo"}}
	_, err := ValidatePackage(context.Background(), loader, fakePackageShape{hasAPMDir: false, hasPrompt: false}, "/pkg")
	require.Error(t, err)
}
