package ports

// ConstitutionReaderPort reads the optional project constitution file
// (spec.md §4.9) whose contents are embedded verbatim, prefixed by a
// content hash, into every emitted AGENTS.md.
type ConstitutionReaderPort interface {
	ReadConstitution(path string) (content string, found bool, err error)
}
