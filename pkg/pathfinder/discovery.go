package pathfinder

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// DiscoveryEngine walks a directory tree and filters files by glob patterns.
type DiscoveryEngine struct{}

// NewDiscoveryEngine creates a new file discovery engine
func NewDiscoveryEngine() *DiscoveryEngine {
	return &DiscoveryEngine{}
}

// DiscoverFiles returns the slash separated paths, relative to basePath, of all
// regular files matching the options. Results are sorted for stable output.
func (d *DiscoveryEngine) DiscoverFiles(basePath string, opts DiscoveryOptions) ([]string, error) {
	if basePath == "" {
		return nil, fmt.Errorf("base path cannot be empty")
	}
	if ok, err := isDirectory(basePath); err != nil {
		return nil, fmt.Errorf("base path %s: %w", basePath, err)
	} else if !ok {
		return nil, fmt.Errorf("base path %s is not a directory", basePath)
	}
	if err := ValidatePatterns(opts.IncludePatterns); err != nil {
		return nil, err
	}
	if err := ValidatePatterns(opts.ExcludePatterns); err != nil {
		return nil, err
	}

	var files []string
	walkFn := func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if entry.IsDir() {
			return nil
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			if !opts.FollowSymlinks {
				return nil
			}
			info, statErr := os.Stat(path)
			if statErr != nil || !info.Mode().IsRegular() {
				return nil
			}
		} else if !entry.Type().IsRegular() {
			return nil
		}

		rel, err := toSlashRel(basePath, path)
		if err != nil {
			return err
		}
		if d.matchesFilters(rel, opts) {
			files = append(files, rel)
		}
		return nil
	}

	if err := filepath.WalkDir(basePath, walkFn); err != nil {
		return nil, fmt.Errorf("discovery walk failed: %w", err)
	}

	sort.Strings(files)
	return files, nil
}

// matchesFilters applies include then exclude patterns to a relative path
func (d *DiscoveryEngine) matchesFilters(relPath string, opts DiscoveryOptions) bool {
	if len(opts.IncludePatterns) > 0 && !MatchesAnyPattern(relPath, opts.IncludePatterns) {
		return false
	}
	if len(opts.ExcludePatterns) > 0 && MatchesAnyPattern(relPath, opts.ExcludePatterns) {
		return false
	}
	return true
}
