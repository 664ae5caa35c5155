package types

// DependencyRef is a parsed "<owner>/<repo>[#<ref>]" entry from
// dependencies.apm. Ref is empty when the entry did not specify one,
// meaning "the provider's default branch".
type DependencyRef struct {
	Owner string
	Repo  string
	Ref   string
}

// Key returns the canonical graph-node identity, ignoring ref, per
// spec.md §4.5 (two requests for the same owner/repo collapse to one
// node; the first-encountered ref wins).
func (d DependencyRef) Key() string {
	return d.Owner + "/" + d.Repo
}

// DependencyNode is one resolved vertex in the install graph.
type DependencyNode struct {
	Owner          string
	Repo           string
	RefRequested   string
	ResolvedCommit string
	Manifest       Manifest
	Children       []*DependencyNode
}

// LockEntry is one package's record in apm_modules/.apm-lock.
type LockEntry struct {
	RefRequested *string `json:"ref_requested"`
	ResolvedSHA  string  `json:"resolved_sha"`
	InstalledAt  string  `json:"installed_at"`
}

// LockFile is the full contents of apm_modules/.apm-lock.
type LockFile struct {
	Packages map[string]LockEntry `json:"packages"`
}

// InstallPlanEntry describes one node the installer will act on, in
// topological (leaves-first) order.
type InstallPlanEntry struct {
	Owner          string
	Repo           string
	RefRequested   string
	ResolvedCommit string
	Skip           bool
}
