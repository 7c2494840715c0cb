// Package paths canonicalizes repository-relative paths.
//
// Every externally supplied path (evidence refs, watch paths, pack include
// paths, item paths from an untrusted pack document) must pass through
// Normalize before it is handed to the version-control adapter or joined
// with anything else.
package paths

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidPath is wrapped by every error Normalize returns.
var ErrInvalidPath = errors.New("invalid repo-relative path")

// Normalize returns the canonical form of a repository-relative path:
// forward slashes only, no leading slash, no empty or "." segments.
// It rejects NUL and control bytes, ":" (drive letters), and any ".."
// segment. Normalize is idempotent: Normalize(out) == out for any
// accepted input.
func Normalize(p string) (string, error) {
	p = strings.TrimSpace(p)
	p = strings.ReplaceAll(p, "\\", "/")

	for _, r := range p {
		if r < 0x20 {
			return "", fmt.Errorf("%w: %q", ErrInvalidPath, p)
		}
	}
	p = strings.TrimLeft(p, "/")
	if p == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, p)
	}
	if strings.Contains(p, ":") {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, p)
	}

	var parts []string
	for _, part := range strings.Split(p, "/") {
		switch part {
		case "", ".":
			continue
		case "..":
			return "", fmt.Errorf("%w: %q", ErrInvalidPath, p)
		}
		parts = append(parts, part)
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, p)
	}
	return strings.Join(parts, "/"), nil
}
