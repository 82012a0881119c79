// Package pathfinder provides case-sensitive, Ant-style include/exclude file
// discovery below a base directory.
package pathfinder

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DiscoveryOptions controls which files DiscoverFiles returns.
type DiscoveryOptions struct {
	// IncludePatterns must match for a file to be returned. Empty means all files.
	IncludePatterns []string
	// ExcludePatterns remove files matched by an include pattern.
	ExcludePatterns []string
	// FollowSymlinks includes symlinked regular files. Symlinked directories
	// are never traversed.
	FollowSymlinks bool
}

// NormalizePattern converts a user supplied glob into the slash separated form
// understood by doublestar. Backslashes become slashes, a leading "./" is
// dropped and a trailing "/" means "everything below", as in Ant.
func NormalizePattern(pattern string) string {
	p := strings.ReplaceAll(strings.TrimSpace(pattern), "\\", "/")
	for strings.HasPrefix(p, "./") {
		p = p[2:]
	}
	if strings.HasSuffix(p, "/") {
		p += "**"
	}
	return p
}

// ValidatePatterns reports the first pattern that doublestar cannot parse.
func ValidatePatterns(patterns []string) error {
	for _, p := range patterns {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("empty glob pattern")
		}
		if !doublestar.ValidatePattern(NormalizePattern(p)) {
			return fmt.Errorf("invalid glob pattern %q", p)
		}
	}
	return nil
}

// MatchesAnyPattern reports whether the slash separated relative path matches
// any of the patterns. Matching is case-sensitive.
func MatchesAnyPattern(relPath string, patterns []string) bool {
	for _, pattern := range patterns {
		if matched, err := doublestar.Match(NormalizePattern(pattern), relPath); err == nil && matched {
			return true
		}
	}
	return false
}

func isDirectory(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	return info.IsDir(), nil
}

func toSlashRel(base, path string) (string, error) {
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}
