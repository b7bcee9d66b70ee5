package common

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"go.lsp.dev/uri"
)

// IsFileURI reports whether u uses the file scheme
func IsFileURI(u uri.URI) bool {
	return strings.HasPrefix(string(u), uri.FileScheme+"://")
}

// URIToFilePath converts a file:// URI to a file system path.
// Unlike uri.URI.Filename it never panics; non-file URIs are rejected.
func URIToFilePath(u uri.URI) (string, error) {
	if !IsFileURI(u) {
		return "", fmt.Errorf("not a file URI: %s", u)
	}
	if _, err := url.ParseRequestURI(string(u)); err != nil {
		return "", fmt.Errorf("failed to parse URI %s: %w", u, err)
	}
	return u.Filename(), nil
}

// FilePathToURI converts a file system path to a file:// URI
func FilePathToURI(path string) uri.URI {
	return uri.File(filepath.Clean(path))
}

// SameFile reports whether two URIs point at the same file on disk
func SameFile(a, b uri.URI) bool {
	if a == b {
		return true
	}
	pa, errA := URIToFilePath(a)
	pb, errB := URIToFilePath(b)
	if errA != nil || errB != nil {
		return false
	}
	return filepath.Clean(pa) == filepath.Clean(pb)
}
