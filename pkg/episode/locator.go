package episode

import (
	"os"
	"path/filepath"
	"time"

	"github.com/fulmenhq/episodemerge/pkg/logger"
	"github.com/fulmenhq/episodemerge/pkg/pathfinder"
)

const (
	// FileName is the name xjc gives to episode files
	FileName = "sun-jaxb.episode"
	// OutputFolder is the directory below the build directory that receives the merged file
	OutputFolder = "merged-jaxb-episode"
	// DefaultPattern matches episode files anywhere below the base directory
	DefaultPattern = "**/" + FileName
)

// Request describes one merge invocation.
type Request struct {
	// BaseDirectory is scanned for episode files
	BaseDirectory string
	// BuildDirectory receives OutputFolder/FileName
	BuildDirectory string
	// Include holds the episode file patterns, relative to BaseDirectory
	Include []string
	// Exclude holds extra patterns on top of ImplicitExcludes
	Exclude []string
	// UseJakarta selects the Jakarta namespace for the merged root
	UseJakarta bool
	// Verbose promotes progress messages from debug to info
	Verbose  bool
	Strategy Strategy
	// AcceptNamespaces restricts source root namespaces for StrategyDOM.
	// Empty means DefaultAcceptNamespaces.
	AcceptNamespaces []string
	// Now is the clock used for the header timestamp; nil means time.Now
	Now func() time.Time
}

// ImplicitExcludes keeps the output of earlier builds out of the inputs: the
// copy packaged into classes/ and this tool's own merged file.
func ImplicitExcludes() []string {
	return []string{
		"classes/META-INF/" + FileName,
		"**/" + OutputFolder + "/" + FileName,
	}
}

// OutputPath returns where the merged file for buildDir is written.
func OutputPath(buildDir string) string {
	return filepath.Join(buildDir, OutputFolder, FileName)
}

// Locate returns the absolute paths of the episode files selected by req, in
// scan order (sorted by path relative to the base directory).
func Locate(req Request) ([]string, error) {
	if req.BaseDirectory == "" {
		return nil, &ConfigurationError{Field: "base_directory", Message: "no base directory specified"}
	}
	if len(req.Include) == 0 {
		return nil, &ConfigurationError{Field: "episode_files", Message: "no episode file is specified"}
	}
	if err := pathfinder.ValidatePatterns(req.Include); err != nil {
		return nil, &ConfigurationError{Field: "episode_files", Message: err.Error()}
	}
	if err := pathfinder.ValidatePatterns(req.Exclude); err != nil {
		return nil, &ConfigurationError{Field: "exclude_files", Message: err.Error()}
	}

	base, err := filepath.Abs(req.BaseDirectory)
	if err != nil {
		return nil, &ConfigurationError{Field: "base_directory", Message: err.Error()}
	}
	info, err := os.Stat(base)
	if err != nil {
		return nil, &ConfigurationError{Field: "base_directory", Message: "base directory " + base + " does not exist"}
	}
	if !info.IsDir() {
		return nil, &ConfigurationError{Field: "base_directory", Message: base + " is not a directory"}
	}

	excludes := make([]string, 0, len(req.Exclude)+2)
	excludes = append(excludes, req.Exclude...)
	excludes = append(excludes, ImplicitExcludes()...)

	rel, err := pathfinder.NewDiscoveryEngine().DiscoverFiles(base, pathfinder.DiscoveryOptions{
		IncludePatterns: req.Include,
		ExcludePatterns: excludes,
		FollowSymlinks:  true,
	})
	if err != nil {
		return nil, &IOError{Op: "scan", Path: base, Wrapped: err}
	}

	files := make([]string, 0, len(rel))
	for _, r := range rel {
		abs := filepath.Join(base, filepath.FromSlash(r))
		logger.Info("Found episode file to merge", logger.Path(abs))
		files = append(files, abs)
	}
	return files, nil
}
