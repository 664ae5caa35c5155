package shared

import (
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"github.com/apm-run/apm/internal/types"
)

// NewError builds an errbuilder error tagged with one of the
// spec.md §7 error kinds. The kind is prefixed onto the message
// ("kind: message") so callers and tests can pattern-match on it
// without a type assertion chain; CLI exit-code mapping
// (internal/cli/root.go) reads the errbuilder code instead.
func NewError(code errbuilder.ErrCode, kind types.ErrorKind, msg string, cause error) error {
	b := errbuilder.New().WithCode(code).WithMsg(fmt.Sprintf("%s: %s", kind, msg))
	if cause != nil {
		b = b.WithCause(cause)
	}
	return b
}

func ErrMalformedManifest(msg string, cause error) error {
	return NewError(errbuilder.CodeInvalidArgument, types.KindMalformedManifest, msg, cause)
}

func ErrMalformedFrontmatter(msg string, cause error) error {
	return NewError(errbuilder.CodeInvalidArgument, types.KindMalformedFrontmatter, msg, cause)
}

func ErrInvalidGlob(msg string, cause error) error {
	return NewError(errbuilder.CodeInvalidArgument, types.KindInvalidGlob, msg, cause)
}

func ErrMissingManifest(msg string, cause error) error {
	return NewError(errbuilder.CodeNotFound, types.KindMissingManifest, msg, cause)
}

func ErrEmptyPackage(msg string) error {
	return NewError(errbuilder.CodeFailedPrecondition, types.KindEmptyPackage, msg, nil)
}

func ErrNotAnAPMPackage(msg string) error {
	return NewError(errbuilder.CodeFailedPrecondition, types.KindNotAnAPMPackage, msg, nil)
}

func ErrNetworkError(msg string, cause error) error {
	return NewError(errbuilder.CodeInternal, types.KindNetworkError, msg, cause)
}

func ErrAuthRequired(msg string) error {
	return NewError(errbuilder.CodePermissionDenied, types.KindAuthRequired, msg, nil)
}

func ErrRefNotFound(msg string) error {
	return NewError(errbuilder.CodeNotFound, types.KindRefNotFound, msg, nil)
}

func ErrArchiveCorrupt(msg string, cause error) error {
	return NewError(errbuilder.CodeInternal, types.KindArchiveCorrupt, msg, cause)
}

func ErrCircularDependency(cycle []string) error {
	return NewError(errbuilder.CodeFailedPrecondition, types.KindCircularDependency,
		fmt.Sprintf("cycle: %s", strings.Join(cycle, " -> ")), nil)
}

func ErrDependencyExplosion(msg string) error {
	return NewError(errbuilder.CodeFailedPrecondition, types.KindDependencyExplosion, msg, nil)
}

func ErrCoverageViolation(msg string) error {
	return NewError(errbuilder.CodeInternal, types.KindCoverageViolation, msg, nil)
}

func ErrValidationWarning(count int) error {
	return NewError(errbuilder.CodeFailedPrecondition, types.KindValidationWarning,
		fmt.Sprintf("%d validation warning(s) upgraded to errors under --validate", count), nil)
}

func ErrMissingParameter(name string) error {
	return NewError(errbuilder.CodeInvalidArgument, types.KindMissingParameter,
		fmt.Sprintf("missing parameter: %s", name), nil)
}
