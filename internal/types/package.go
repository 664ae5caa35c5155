package types

// APMPackage is a directory with a parseable manifest and at least one
// non-empty recognized primitive subtree (or a root-level workflow).
type APMPackage struct {
	Manifest            Manifest
	RootPath            string
	PrimitiveCollection PrimitiveCollection
	SubPackages         []APMPackage
}
