package core

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/apm-run/apm/internal/ports"
	"github.com/apm-run/apm/internal/shared"
	"github.com/apm-run/apm/internal/types"
)

const (
	defaultMaxGraphDepth = 10
	defaultMaxGraphNodes = 256
)

// ParseDependencyRef splits one dependencies.apm entry of the form
// "<owner>/<repo>[#<ref>]" into its parts. Ref is empty when absent.
func ParseDependencyRef(raw string) (types.DependencyRef, error) {
	spec := raw
	ref := ""
	if idx := strings.IndexByte(spec, '#'); idx >= 0 {
		ref = spec[idx+1:]
		spec = spec[:idx]
	}
	parts := strings.SplitN(spec, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return types.DependencyRef{}, shared.ErrMalformedManifest("dependency entry is not in owner/repo[#ref] form: "+raw, nil)
	}
	return types.DependencyRef{Owner: parts[0], Repo: parts[1], Ref: ref}, nil
}

// GraphBuildResult is the output of BuildGraph: the resolved root
// node, warnings accumulated along the way (VersionOverride), and the
// install order (topological, leaves first, stable by first-seen).
type GraphBuildResult struct {
	Root    *types.DependencyNode
	Warning []types.Warning
	Order   []types.InstallPlanEntry
}

type graphBuilder struct {
	hosting   ports.HostingPort
	maxDepth  int
	maxNodes  int
	resolved  map[string]*types.DependencyNode
	firstRef  map[string]string
	nodeCount int
	seenOrder []string
	warnings  []types.Warning
}

// BuildGraph traverses the manifests depth-first: it resolves every
// dependencies.apm entry reachable from rootManifest, expanding each
// dependency's own dependencies before moving on to its next sibling.
// It detects cycles via the current traversal path, collapses repeated
// owner/repo keys to their first-seen ref in that depth-first order
// (warning on override), and bounds total depth and node count.
func BuildGraph(ctx context.Context, hosting ports.HostingPort, rootManifest types.Manifest, maxDepth, maxNodes int) (GraphBuildResult, error) {
	if maxDepth <= 0 {
		maxDepth = defaultMaxGraphDepth
	}
	if maxNodes <= 0 {
		maxNodes = defaultMaxGraphNodes
	}

	b := &graphBuilder{
		hosting:  hosting,
		maxDepth: maxDepth,
		maxNodes: maxNodes,
		resolved: map[string]*types.DependencyNode{},
		firstRef: map[string]string{},
	}

	root := &types.DependencyNode{Manifest: rootManifest}
	if err := b.expand(ctx, root, rootManifest, nil, 0); err != nil {
		return GraphBuildResult{}, err
	}

	order, err := topologicalOrder(root, b.seenOrder)
	if err != nil {
		return GraphBuildResult{}, err
	}

	return GraphBuildResult{Root: root, Warning: b.warnings, Order: order}, nil
}

func (b *graphBuilder) expand(ctx context.Context, node *types.DependencyNode, manifest types.Manifest, path []string, depth int) error {
	if depth > b.maxDepth {
		return shared.ErrDependencyExplosion("dependency graph exceeds maximum depth of " + strconv.Itoa(b.maxDepth))
	}

	for _, raw := range manifest.Dependencies.APM {
		ref, err := ParseDependencyRef(raw)
		if err != nil {
			return err
		}
		key := ref.Key()

		for _, ancestor := range path {
			if ancestor == key {
				return shared.ErrCircularDependency(append(append([]string{}, path...), key))
			}
		}

		requestedRef := ref.Ref
		if firstRef, ok := b.firstRef[key]; ok {
			if firstRef != requestedRef {
				b.warnings = append(b.warnings, types.Warning{
					Kind:       types.WarningKind("version_override"),
					SourcePath: key,
					Message:    "ref \"" + requestedRef + "\" ignored in favor of first-seen ref \"" + firstRef + "\"",
				})
			}
			requestedRef = firstRef
		} else {
			b.firstRef[key] = requestedRef
			b.seenOrder = append(b.seenOrder, key)
		}

		if cached, ok := b.resolved[key]; ok {
			node.Children = append(node.Children, cached)
			continue
		}

		b.nodeCount++
		if b.nodeCount > b.maxNodes {
			return shared.ErrDependencyExplosion("dependency graph exceeds maximum node count of " + strconv.Itoa(b.maxNodes))
		}

		resolvedRef, err := b.hosting.ResolveRef(ctx, ref.Owner, ref.Repo, requestedRef)
		if err != nil {
			return err
		}
		childManifest, err := b.hosting.FetchManifest(ctx, ref.Owner, ref.Repo, resolvedRef.ResolvedCommit)
		if err != nil {
			return err
		}

		child := &types.DependencyNode{
			Owner:          ref.Owner,
			Repo:           ref.Repo,
			RefRequested:   requestedRef,
			ResolvedCommit: resolvedRef.ResolvedCommit,
			Manifest:       childManifest,
		}
		b.resolved[key] = child
		node.Children = append(node.Children, child)

		if err := b.expand(ctx, child, childManifest, append(path, key), depth+1); err != nil {
			return err
		}
	}
	return nil
}

// topologicalOrder produces the install order: leaves first, stable by
// first-seen order among ties.
func topologicalOrder(root *types.DependencyNode, seenOrder []string) ([]types.InstallPlanEntry, error) {
	byKey := map[string]*types.DependencyNode{}
	var collect func(n *types.DependencyNode)
	collect = func(n *types.DependencyNode) {
		for _, child := range n.Children {
			key := child.Owner + "/" + child.Repo
			if _, ok := byKey[key]; !ok {
				byKey[key] = child
				collect(child)
			}
		}
	}
	collect(root)

	depthOf := map[string]int{}
	var depthFor func(key string, visiting map[string]bool) int
	depthFor = func(key string, visiting map[string]bool) int {
		if d, ok := depthOf[key]; ok {
			return d
		}
		node := byKey[key]
		maxChildDepth := -1
		for _, child := range node.Children {
			childKey := child.Owner + "/" + child.Repo
			if visiting[childKey] {
				continue
			}
			visiting[childKey] = true
			d := depthFor(childKey, visiting)
			if d > maxChildDepth {
				maxChildDepth = d
			}
		}
		depthOf[key] = maxChildDepth + 1
		return depthOf[key]
	}
	for _, key := range seenOrder {
		depthFor(key, map[string]bool{key: true})
	}

	ordered := append([]string{}, seenOrder...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return depthOf[ordered[i]] < depthOf[ordered[j]]
	})

	entries := make([]types.InstallPlanEntry, 0, len(ordered))
	for _, key := range ordered {
		node := byKey[key]
		entries = append(entries, types.InstallPlanEntry{
			Owner:          node.Owner,
			Repo:           node.Repo,
			RefRequested:   node.RefRequested,
			ResolvedCommit: node.ResolvedCommit,
		})
	}
	return entries, nil
}
