package resources

import (
	"path/filepath"
	"slices"

	"github.com/fulmenhq/episodemerge/pkg/episode"
	"github.com/fulmenhq/episodemerge/pkg/logger"
)

// MergedTargetPath is where the merged episode file is packaged
const MergedTargetPath = "META-INF/"

// EpisodeInclude is the per-module episode file as it appears in resource patterns
const EpisodeInclude = "META-INF/" + episode.FileName

// episodeIncludeForms are the spellings of EpisodeInclude recognised in includes
var episodeIncludeForms = []string{EpisodeInclude, `META-INF\` + episode.FileName}

// Report describes what Reconcile changed.
type Report struct {
	// Removed entries had the episode file as their only include
	Removed []Resource
	// Stripped entries lost an explicit episode include but kept other includes
	Stripped []Resource
	// Narrowed entries received the episode exclude
	Narrowed []Resource
	// Untouched entries already carried their own excludes
	Untouched []Resource
	// Replaced is set when a merged entry from an earlier run was dropped
	Replaced bool
	Added    Resource
}

// Changed reports whether any existing entry was modified or removed.
func (r *Report) Changed() bool {
	return len(r.Removed)+len(r.Stripped)+len(r.Narrowed) > 0
}

// StripEpisodeInclude removes both spellings of the episode include from r.
// found reports whether r listed it explicitly. keep is false when r listed
// nothing else, since an entry without includes would package everything.
func StripEpisodeInclude(r Resource) (out Resource, found, keep bool) {
	out = r.clone()
	out.Includes = slices.DeleteFunc(out.Includes, func(p string) bool {
		return slices.Contains(episodeIncludeForms, p)
	})
	found = len(out.Includes) != len(r.Includes)
	keep = !found || len(out.Includes) > 0
	return out, found, keep
}

// ExcludeEpisode adds the episode exclude to an entry that has no excludes.
// Entries with excludes of their own are returned unchanged.
func ExcludeEpisode(r Resource) (Resource, bool) {
	if len(r.Excludes) > 0 {
		return r, false
	}
	out := r.clone()
	out.Excludes = []string{EpisodeInclude}
	return out, true
}

// MergedResource returns the entry that packages the merged file at outputPath.
func MergedResource(outputPath string) (Resource, error) {
	abs, err := filepath.Abs(outputPath)
	if err != nil {
		return Resource{}, &episode.IOError{Op: "resolve", Path: outputPath, Wrapped: err}
	}
	return Resource{
		Directory:  filepath.Dir(abs),
		Includes:   []string{filepath.Base(abs)},
		Excludes:   []string{},
		Filtering:  false,
		TargetPath: MergedTargetPath,
	}, nil
}

// isMergedResource matches an entry appended by an earlier Reconcile for the
// same output.
func isMergedResource(r, merged Resource) bool {
	return filepath.Clean(r.Directory) == merged.Directory &&
		slices.Equal(r.Includes, merged.Includes) &&
		r.TargetPath == merged.TargetPath
}

// Reconcile rewrites list in place for the merged file at outputPath: explicit
// episode includes are dropped (with their entry when nothing else is
// included), unrestricted entries are narrowed with the episode exclude and an
// entry packaging the merged file is appended last.
func Reconcile(list *[]Resource, outputPath string, verbose bool) (*Report, error) {
	merged, err := MergedResource(outputPath)
	if err != nil {
		return nil, err
	}

	log := logger.Debug
	if verbose {
		log = logger.Info
	}
	describe(log, "Resources before modification", *list)

	report := &Report{Added: merged}
	out := make([]Resource, 0, len(*list)+1)
	for _, r := range *list {
		if isMergedResource(r, merged) {
			report.Replaced = true
			continue
		}

		stripped, found, keep := StripEpisodeInclude(r)
		switch {
		case found && !keep:
			log("Removing resource that only included the episode file", logger.String("resource", r.String()))
			report.Removed = append(report.Removed, r)
		case found:
			out = append(out, stripped)
			report.Stripped = append(report.Stripped, stripped)
		default:
			narrowed, changed := ExcludeEpisode(r)
			out = append(out, narrowed)
			if changed {
				report.Narrowed = append(report.Narrowed, narrowed)
			} else {
				report.Untouched = append(report.Untouched, r)
			}
		}
	}

	log("Adding resource for the merged episode file", logger.String("resource", merged.String()))
	out = append(out, merged)
	*list = out

	describe(log, "Resources after modification", *list)
	return report, nil
}

func describe(log func(string, ...logger.Field), title string, list []Resource) {
	log(title, logger.Int("count", len(list)))
	for _, r := range list {
		log("  "+r.String())
	}
}
