package resources

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/beevik/etree"
	"github.com/fulmenhq/episodemerge/pkg/episode"
)

// DefaultResourceDirectory is used by Maven when a POM declares no resources
const DefaultResourceDirectory = "src/main/resources"

// LoadPOM reads the <build><resources> section of a Maven POM. Relative
// directories and ${basedir} references are resolved against the POM's
// directory.
func LoadPOM(path string) ([]Resource, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- POM path comes from configuration
	if err != nil {
		return nil, &episode.IOError{Op: "read", Path: path, Wrapped: err}
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, &episode.IOError{Op: "resolve", Path: path, Wrapped: err}
	}
	return ParsePOM(abs, data)
}

// ParsePOM is LoadPOM over already read bytes. path locates the POM on disk.
func ParsePOM(path string, data []byte) ([]Resource, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, &episode.ParseError{Path: path, Wrapped: err}
	}
	root := doc.Root()
	if root == nil {
		return nil, &episode.ParseError{Path: path, Wrapped: errors.New("no root element")}
	}
	if root.Tag != "project" {
		return nil, &episode.ValidationError{Path: path, Expected: "root element <project>", Actual: "<" + root.FullTag() + ">"}
	}

	basedir := filepath.Dir(path)
	entries := root.FindElements("./build/resources/resource")
	if len(entries) == 0 && root.FindElement("./build/resources") == nil {
		return []Resource{{Directory: filepath.Join(basedir, filepath.FromSlash(DefaultResourceDirectory))}}, nil
	}

	out := make([]Resource, 0, len(entries))
	for _, e := range entries {
		dir := textOf(e, "directory")
		if dir == "" {
			dir = DefaultResourceDirectory
		}
		r := Resource{
			Directory:  resolveDir(basedir, dir),
			Includes:   textsOf(e, "includes/include"),
			Excludes:   textsOf(e, "excludes/exclude"),
			TargetPath: textOf(e, "targetPath"),
			Filtering:  strings.EqualFold(textOf(e, "filtering"), "true"),
		}
		out = append(out, r)
	}
	return out, nil
}

func resolveDir(basedir, dir string) string {
	for _, v := range []string{"${project.basedir}", "${basedir}"} {
		dir = strings.ReplaceAll(dir, v, basedir)
	}
	dir = filepath.FromSlash(dir)
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(basedir, dir)
	}
	return filepath.Clean(dir)
}

func textOf(e *etree.Element, path string) string {
	if c := e.FindElement(path); c != nil {
		return strings.TrimSpace(c.Text())
	}
	return ""
}

func textsOf(e *etree.Element, path string) []string {
	var out []string
	for _, c := range e.FindElements(path) {
		if t := strings.TrimSpace(c.Text()); t != "" {
			out = append(out, t)
		}
	}
	return out
}
