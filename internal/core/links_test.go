package core

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveMarkdownLinksSameDirIsNoop(t *testing.T) {
	body := "see [guide](./guide.md)"
	require.Equal(t, body, ResolveMarkdownLinks(body, "pkg/foo", "pkg/foo"))
}

func TestResolveMarkdownLinksSiblingDirectory(t *testing.T) {
	body := "see [guide](guide.md)"
	got := ResolveMarkdownLinks(body, "pkg/foo", "pkg/bar")
	require.Equal(t, "see [guide](../foo/guide.md)", got)
}

func TestResolveMarkdownLinksToRoot(t *testing.T) {
	body := "see [guide](guide.md)"
	got := ResolveMarkdownLinks(body, "pkg/foo", "")
	require.Equal(t, "see [guide](pkg/foo/guide.md)", got)
}

func TestResolveMarkdownLinksLeavesAbsoluteAndSchemedTargets(t *testing.T) {
	body := "[site](https://example.com) and [anchor](#section) and [abs](/root.md)"
	got := ResolveMarkdownLinks(body, "pkg/foo", "pkg/bar")
	require.Equal(t, body, got)
}

func TestResolveMarkdownLinksDescendantDirectory(t *testing.T) {
	body := "[guide](guide.md)"
	got := ResolveMarkdownLinks(body, "", "pkg/foo")
	require.Equal(t, "[guide](../../guide.md)", got)
}
