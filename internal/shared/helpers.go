// Package shared provides common utility functions used across multiple
// packages in the apm codebase.
package shared

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"
)

// NormalizePath converts an OS path to the forward-slash, project-root-
// relative form glob matching and cache keys operate on (spec.md §4.1).
func NormalizePath(path string) string {
	return filepath.ToSlash(strings.TrimPrefix(path, "./"))
}

// Sha256HexPrefix returns the first n hex digits of sha256(data),
// matching the constitution block's "12-hex-digit SHA-256 prefix"
// (spec.md §4.9).
func Sha256HexPrefix(data []byte, n int) string {
	sum := sha256.Sum256(data)
	full := hex.EncodeToString(sum[:])
	if n >= len(full) {
		return full
	}
	return full[:n]
}

// HTTPStatusError creates a formatted error for non-2xx HTTP responses.
func HTTPStatusError(status int, url string) error {
	return fmt.Errorf("status=%d url=%s", status, url)
}

// HTTPStatusErrorWithBody creates a formatted error that includes the
// response body for non-2xx HTTP responses.
func HTTPStatusErrorWithBody(status int, url string, body string) error {
	return fmt.Errorf("status=%d url=%s response=%s", status, url, body)
}
