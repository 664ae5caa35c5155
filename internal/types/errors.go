package types

// ErrorKind tags every error the core returns, per spec.md §7's error
// taxonomy. Kinds are carried as errbuilder message prefixes (see
// internal/shared/errors.go) rather than a separate error type, so a
// caller can still use errors.As against the underlying *errbuilder.ErrBuilder.
type ErrorKind string

const (
	KindMalformedManifest    ErrorKind = "malformed_manifest"
	KindMalformedFrontmatter ErrorKind = "malformed_frontmatter"
	KindValidationWarning    ErrorKind = "validation_warning"
	KindInvalidGlob          ErrorKind = "invalid_glob"
	KindMissingManifest      ErrorKind = "missing_manifest"
	KindEmptyPackage         ErrorKind = "empty_package"
	KindNotAnAPMPackage      ErrorKind = "not_an_apm_package"
	KindNetworkError         ErrorKind = "network_error"
	KindAuthRequired         ErrorKind = "auth_required"
	KindRefNotFound          ErrorKind = "ref_not_found"
	KindArchiveCorrupt       ErrorKind = "archive_corrupt"
	KindCircularDependency   ErrorKind = "circular_dependency"
	KindDependencyExplosion  ErrorKind = "dependency_explosion"
	KindCoverageViolation    ErrorKind = "coverage_violation"
	KindMissingParameter     ErrorKind = "missing_parameter"
)
