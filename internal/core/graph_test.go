package core

import (
	"context"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/apm-run/apm/internal/ports"
	"github.com/apm-run/apm/internal/types"
)

type fakeHosting struct {
	manifests map[string]types.Manifest
}

func (f fakeHosting) ResolveRef(_ context.Context, owner, repo, ref string) (ports.RefMetadata, error) {
	return ports.RefMetadata{Owner: owner, Repo: repo, ResolvedCommit: owner + "/" + repo + "@" + ref}, nil
}

func (f fakeHosting) FetchManifest(_ context.Context, owner, repo, _ string) (types.Manifest, error) {
	m, ok := f.manifests[owner+"/"+repo]
	if !ok {
		return types.Manifest{}, nil
	}
	return m, nil
}

func (f fakeHosting) DownloadArchive(_ context.Context, _, _, _ string) (io.ReadCloser, error) {
	return nil, nil
}

func TestParseDependencyRef(t *testing.T) {
	ref, err := ParseDependencyRef("acme/shared#v2.0.0")
	require.NoError(t, err)
	if diff := cmp.Diff(types.DependencyRef{Owner: "acme", Repo: "shared", Ref: "v2.0.0"}, ref); diff != "" {
		t.Fatalf("unexpected ref (-want +got):\n%s", diff)
	}
}

func TestParseDependencyRefNoRef(t *testing.T) {
	ref, err := ParseDependencyRef("acme/shared")
	require.NoError(t, err)
	require.Empty(t, ref.Ref)
}

func TestParseDependencyRefMalformed(t *testing.T) {
	_, err := ParseDependencyRef("not-a-valid-ref")
	require.Error(t, err)
}

func TestBuildGraphLinearChain(t *testing.T) {
	hosting := fakeHosting{manifests: map[string]types.Manifest{
		"acme/mid": {Dependencies: types.ManifestDependencies{APM: []string{"acme/leaf"}}},
		"acme/leaf": {},
	}}
	root := types.Manifest{Dependencies: types.ManifestDependencies{APM: []string{"acme/mid"}}}

	result, err := BuildGraph(context.Background(), hosting, root, 0, 0)
	require.NoError(t, err)
	require.Len(t, result.Order, 2)
	require.Equal(t, "acme", result.Order[0].Owner)
	require.Equal(t, "leaf", result.Order[0].Repo, "leaf must install before the package that depends on it")
	require.Equal(t, "mid", result.Order[1].Repo)
}

func TestBuildGraphDetectsCycle(t *testing.T) {
	hosting := fakeHosting{manifests: map[string]types.Manifest{
		"acme/a": {Dependencies: types.ManifestDependencies{APM: []string{"acme/b"}}},
		"acme/b": {Dependencies: types.ManifestDependencies{APM: []string{"acme/a"}}},
	}}
	root := types.Manifest{Dependencies: types.ManifestDependencies{APM: []string{"acme/a"}}}

	_, err := BuildGraph(context.Background(), hosting, root, 0, 0)
	require.Error(t, err)
}

func TestBuildGraphDiamondCollapsesToOneNode(t *testing.T) {
	hosting := fakeHosting{manifests: map[string]types.Manifest{
		"acme/left":  {Dependencies: types.ManifestDependencies{APM: []string{"acme/shared"}}},
		"acme/right": {Dependencies: types.ManifestDependencies{APM: []string{"acme/shared"}}},
		"acme/shared": {},
	}}
	root := types.Manifest{Dependencies: types.ManifestDependencies{APM: []string{"acme/left", "acme/right"}}}

	result, err := BuildGraph(context.Background(), hosting, root, 0, 0)
	require.NoError(t, err)
	require.Len(t, result.Order, 3, "shared must appear exactly once despite two requesters")
}

func TestBuildGraphVersionOverrideWarning(t *testing.T) {
	hosting := fakeHosting{manifests: map[string]types.Manifest{
		"acme/left":  {Dependencies: types.ManifestDependencies{APM: []string{"acme/shared#v1"}}},
		"acme/right": {Dependencies: types.ManifestDependencies{APM: []string{"acme/shared#v2"}}},
		"acme/shared": {},
	}}
	root := types.Manifest{Dependencies: types.ManifestDependencies{APM: []string{"acme/left", "acme/right"}}}

	result, err := BuildGraph(context.Background(), hosting, root, 0, 0)
	require.NoError(t, err)
	require.NotEmpty(t, result.Warning)
}

func TestBuildGraphExceedsMaxDepth(t *testing.T) {
	hosting := fakeHosting{manifests: map[string]types.Manifest{
		"acme/a": {Dependencies: types.ManifestDependencies{APM: []string{"acme/b"}}},
		"acme/b": {Dependencies: types.ManifestDependencies{APM: []string{"acme/c"}}},
		"acme/c": {},
	}}
	root := types.Manifest{Dependencies: types.ManifestDependencies{APM: []string{"acme/a"}}}

	_, err := BuildGraph(context.Background(), hosting, root, 1, 0)
	require.Error(t, err)
}

func TestBuildGraphExceedsMaxNodes(t *testing.T) {
	hosting := fakeHosting{manifests: map[string]types.Manifest{
		"acme/a": {},
		"acme/b": {},
	}}
	root := types.Manifest{Dependencies: types.ManifestDependencies{APM: []string{"acme/a", "acme/b"}}}

	_, err := BuildGraph(context.Background(), hosting, root, 0, 1)
	require.Error(t, err)
}
